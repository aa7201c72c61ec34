// Package main generates the markdown reference for the ninjasql CLI and
// the template globals.
//
// Usage:
//
//	go run ./scripts/gendocs -gen=cli -outdir=docs/cli
//	go run ./scripts/gendocs -gen=globals -outdir=docs/templating
//	go run ./scripts/gendocs -gen=all
package main

import (
	"bytes"
	"flag"
	"fmt"
	"log"
	"os"
	"path/filepath"

	"github.com/ninjasql/ninjasql/internal/cli/output"
)

var (
	genFlag    = flag.String("gen", "all", "what to generate: cli, globals, all")
	outDirFlag = flag.String("outdir", "", "output directory (defaults based on gen type)")
)

func main() {
	flag.Parse()

	projectRoot, err := findProjectRoot()
	if err != nil {
		log.Fatalf("failed to find project root: %v", err)
	}
	log.Printf("Project root: %s", projectRoot)

	outDir := func(def string) string {
		if *outDirFlag != "" && *genFlag != "all" {
			return *outDirFlag
		}
		return filepath.Join(projectRoot, "docs", def)
	}

	switch *genFlag {
	case "cli":
		err = generateCLIDocs(outDir("cli"))
	case "globals":
		err = generateGlobalsDocs(outDir("templating"))
	case "all":
		if err = generateCLIDocs(outDir("cli")); err == nil {
			err = generateGlobalsDocs(outDir("templating"))
		}
	default:
		log.Fatalf("unknown -gen value: %s (use: cli, globals, all)", *genFlag)
	}
	if err != nil {
		log.Fatalf("failed to generate %s docs: %v", *genFlag, err)
	}
	log.Println("Done!")
}

// page accumulates one markdown document.
type page struct {
	buf bytes.Buffer
	r   *output.Renderer
}

func newPage(title, description string) *page {
	p := &page{}
	p.r = output.NewRendererWithTTY(&p.buf, &p.buf, false, output.ModeMarkdown)
	fmt.Fprintf(&p.buf, "---\ntitle: %s\ndescription: %s\n---\n\n", title, description)
	p.r.Println("<!-- Generated by scripts/gendocs. Do not edit. -->")
	p.r.Println("")
	return p
}

func (p *page) header(level int, text string) {
	p.r.Println(output.FormatHeader(level, text))
	p.r.Println("")
}

func (p *page) paragraph(text string) {
	p.r.Println(text)
	p.r.Println("")
}

func (p *page) code(lang, code string) {
	p.r.Println(output.FormatCodeBlock(lang, code))
	p.r.Println("")
}

func (p *page) table(header []string, rows [][]string) {
	p.r.Table(header, rows)
	p.r.Println("")
}

func (p *page) write(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o750); err != nil {
		return err
	}
	return os.WriteFile(path, p.buf.Bytes(), 0o600)
}

func inlineCode(s string) string { return "`" + s + "`" }

// findProjectRoot walks up from the working directory to go.mod.
func findProjectRoot() (string, error) {
	dir, err := os.Getwd()
	if err != nil {
		return "", err
	}
	for {
		if _, err := os.Stat(filepath.Join(dir, "go.mod")); err == nil {
			return dir, nil
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			return "", fmt.Errorf("go.mod not found")
		}
		dir = parent
	}
}
