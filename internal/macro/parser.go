package macro

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"go.starlark.net/syntax"
)

// ParsedFunction is a public function found in a .star file.
type ParsedFunction struct {
	Name      string   `json:"name"`
	Args      []string `json:"args"` // defaults rendered as "x=None"
	Docstring string   `json:"docstring,omitempty"`
	Line      int      `json:"line"`
}

// Signature returns name(args).
func (f *ParsedFunction) Signature() string {
	return f.Name + "(" + strings.Join(f.Args, ", ") + ")"
}

// ParsedNamespace is the static description of one macro file.
type ParsedNamespace struct {
	Name      string            `json:"name"`
	FilePath  string            `json:"file_path"`
	Functions []*ParsedFunction `json:"functions"`
}

// ParseStarlarkFile extracts the public functions of a .star file without
// executing it.
func ParseStarlarkFile(filename string, content []byte) (*ParsedNamespace, error) {
	f, err := fileOptions.Parse(filename, content, syntax.RetainComments)
	if err != nil {
		return nil, &ParseError{File: filename, Message: err.Error()}
	}

	ns := &ParsedNamespace{
		Name:     strings.TrimSuffix(filepath.Base(filename), ".star"),
		FilePath: filename,
	}
	for _, stmt := range f.Stmts {
		def, ok := stmt.(*syntax.DefStmt)
		if !ok || strings.HasPrefix(def.Name.Name, "_") {
			continue
		}
		ns.Functions = append(ns.Functions, &ParsedFunction{
			Name:      def.Name.Name,
			Args:      extractArgs(def.Params),
			Docstring: extractDocstring(def.Body),
			Line:      int(def.Name.NamePos.Line),
		})
	}
	return ns, nil
}

// Describe parses every .star file in dir, in name order.
func Describe(dir string) ([]*ParsedNamespace, error) {
	files, err := filepath.Glob(filepath.Join(dir, "*.star"))
	if err != nil {
		return nil, fmt.Errorf("failed to scan macros directory: %w", err)
	}
	out := make([]*ParsedNamespace, 0, len(files))
	for _, file := range files {
		content, err := os.ReadFile(file) //nolint:gosec // path comes from the macros directory glob
		if err != nil {
			return nil, &ParseError{File: file, Message: err.Error()}
		}
		ns, err := ParseStarlarkFile(file, content)
		if err != nil {
			return nil, err
		}
		out = append(out, ns)
	}
	return out, nil
}

func extractArgs(params []syntax.Expr) []string {
	var args []string
	for _, param := range params {
		switch p := param.(type) {
		case *syntax.Ident:
			args = append(args, p.Name)
		case *syntax.BinaryExpr:
			if ident, ok := p.X.(*syntax.Ident); ok && p.Op == syntax.EQ {
				args = append(args, ident.Name+"="+exprToString(p.Y))
			}
		case *syntax.UnaryExpr:
			if ident, ok := p.X.(*syntax.Ident); ok {
				switch p.Op {
				case syntax.STAR:
					args = append(args, "*"+ident.Name)
				case syntax.STARSTAR:
					args = append(args, "**"+ident.Name)
				default:
					args = append(args, ident.Name)
				}
			}
		}
	}
	return args
}

// extractDocstring returns the leading string literal of a function body.
func extractDocstring(body []syntax.Stmt) string {
	if len(body) == 0 {
		return ""
	}
	stmt, ok := body[0].(*syntax.ExprStmt)
	if !ok {
		return ""
	}
	lit, ok := stmt.X.(*syntax.Literal)
	if !ok || lit.Token != syntax.STRING {
		return ""
	}
	s, _ := lit.Value.(string)
	return strings.TrimSpace(s)
}

func exprToString(expr syntax.Expr) string {
	switch e := expr.(type) {
	case *syntax.Literal:
		return e.Raw
	case *syntax.Ident:
		return e.Name
	case *syntax.ListExpr:
		return "[]"
	case *syntax.DictExpr:
		return "{}"
	case *syntax.TupleExpr:
		return "()"
	case *syntax.UnaryExpr:
		if e.Op == syntax.MINUS {
			return "-" + exprToString(e.X)
		}
		return exprToString(e.X)
	default:
		return "..."
	}
}

// ParseError is a syntax error in a macro file.
type ParseError struct {
	File    string
	Message string
}

func (e *ParseError) Error() string {
	return "parse " + filepath.Base(e.File) + ": " + e.Message
}
