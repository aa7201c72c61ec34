// Package format lowers sqlexpr statements to dialect-specific SQL text.
package format

import (
	"bytes"
	"strings"

	"github.com/ninjasql/ninjasql/pkg/core"
	"github.com/ninjasql/ninjasql/pkg/dialect"
)

const indentSize = 2

// Printer handles SQL formatting with proper indentation and style.
type Printer struct {
	dialect     *dialect.Dialect
	binding     core.BindingMode
	output      *bytes.Buffer
	args        *[]any
	depth       int
	atLineStart bool
	compact     bool
	err         error
}

func newPrinter(d *dialect.Dialect, binding core.BindingMode) *Printer {
	return &Printer{
		dialect:     d,
		binding:     binding,
		output:      &bytes.Buffer{},
		args:        &[]any{},
		atLineStart: true,
	}
}

// child returns a printer that shares the bind arguments of p and renders on a
// single line.
func (p *Printer) child() *Printer {
	return &Printer{
		dialect:     p.dialect,
		binding:     p.binding,
		output:      &bytes.Buffer{},
		args:        p.args,
		atLineStart: true,
		compact:     true,
	}
}

// String returns the formatted output.
func (p *Printer) String() string {
	if p.compact {
		return strings.TrimSpace(p.output.String())
	}
	return strings.TrimRight(p.output.String(), "\n") + "\n"
}

func (p *Printer) write(s string) {
	if p.atLineStart && len(s) > 0 && s[0] != '\n' {
		p.writeIndent()
	}
	p.output.WriteString(s)
	p.atLineStart = false
}

func (p *Printer) writeln() {
	if p.compact {
		if !p.atLineStart {
			p.output.WriteByte(' ')
		}
		p.atLineStart = true
		return
	}
	p.output.WriteByte('\n')
	p.atLineStart = true
}

func (p *Printer) writeIndent() {
	if !p.compact {
		for i := 0; i < p.depth*indentSize; i++ {
			p.output.WriteByte(' ')
		}
	}
	p.atLineStart = false
}

func (p *Printer) keyword(s string) {
	p.write(strings.ToUpper(s))
}

func (p *Printer) indent() {
	p.depth++
}

func (p *Printer) dedent() {
	if p.depth > 0 {
		p.depth--
	}
}

func (p *Printer) space() {
	p.output.WriteByte(' ')
}

// fail records the first rendering error; later output is discarded by the caller.
func (p *Printer) fail(err error) {
	if p.err == nil {
		p.err = err
	}
}

// bind appends a bind argument and returns its placeholder.
func (p *Printer) bind(v any) string {
	*p.args = append(*p.args, v)
	return p.dialect.FormatPlaceholder(len(*p.args))
}

// formatList prints a list of items with separators.
// count is the number of items, format is called for each index,
// sep is the separator string, multiline adds newlines after separators.
func (p *Printer) formatList(count int, format func(i int), sep string, multiline bool) {
	for i := 0; i < count; i++ {
		format(i)
		if i < count-1 {
			p.write(sep)
			if multiline {
				p.writeln()
			} else {
				p.space()
			}
		}
	}
}
