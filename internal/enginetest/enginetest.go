// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package enginetest provides a scriptable engine and generated PDF fixtures
// for tests.
package enginetest

import (
	"bytes"
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/go-pdf/fpdf"

	"github.com/pdiddy/pdfextract/pkg/types"
)

// Fake implements engine.Engine with canned responses and call counts.
type Fake struct {
	Pages       []string
	MarkdownOut string
	Meta        map[string]string

	TextErr     error
	MarkdownErr error
	MetaErr     error

	mu    sync.Mutex
	calls map[string]int
}

// Name reports the mupdf backend.
func (f *Fake) Name() types.Backend { return types.BackendMuPDF }

// PageTexts returns Pages or TextErr.
func (f *Fake) PageTexts(string) ([]string, error) {
	f.count("text")
	if f.TextErr != nil {
		return nil, f.TextErr
	}
	return f.Pages, nil
}

// Markdown returns MarkdownOut or MarkdownErr.
func (f *Fake) Markdown(string) (string, error) {
	f.count("markdown")
	if f.MarkdownErr != nil {
		return "", f.MarkdownErr
	}
	return f.MarkdownOut, nil
}

// Metadata returns Meta or MetaErr.
func (f *Fake) Metadata(string) (map[string]string, error) {
	f.count("metadata")
	if f.MetaErr != nil {
		return nil, f.MetaErr
	}
	return f.Meta, nil
}

// Calls returns how often the named capability ("text", "markdown",
// "metadata") was invoked.
func (f *Fake) Calls(name string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls[name]
}

func (f *Fake) count(name string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.calls == nil {
		f.calls = make(map[string]int)
	}
	f.calls[name]++
}

// Line is one line of a generated page.
type Line struct {
	Text string
	Bold bool
	Size float64
}

// Spec describes a PDF to generate.
type Spec struct {
	Title string
	Pages [][]Line
}

// NewPDF renders spec with fpdf and returns the bytes.
func NewPDF(t testing.TB, spec Spec) []byte {
	t.Helper()

	doc := fpdf.New("P", "mm", "A4", "")
	if spec.Title != "" {
		doc.SetTitle(spec.Title, true)
	}
	for _, page := range spec.Pages {
		doc.AddPage()
		for _, line := range page {
			style := ""
			if line.Bold {
				style = "B"
			}
			size := line.Size
			if size == 0 {
				size = 12
			}
			doc.SetFont("Helvetica", style, size)
			doc.Cell(0, 10, line.Text)
			doc.Ln(12)
		}
	}

	var buf bytes.Buffer
	if err := doc.Output(&buf); err != nil {
		t.Fatalf("generating test PDF: %v", err)
	}
	return buf.Bytes()
}

// WritePDF generates spec into dir/name and returns the path.
func WritePDF(t testing.TB, dir, name string, spec Spec) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, NewPDF(t, spec), 0o644); err != nil {
		t.Fatalf("writing test PDF: %v", err)
	}
	return path
}

// WriteFile writes arbitrary bytes to dir/name and returns the path. Use it
// for placeholder PDFs when the engine is faked.
func WriteFile(t testing.TB, dir, name string, data []byte) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, data, 0o644); err != nil {
		t.Fatalf("writing %s: %v", path, err)
	}
	return path
}

// Simple is a one-page spec with a title, a bold heading and a body line.
func Simple(title string) Spec {
	return Spec{
		Title: title,
		Pages: [][]Line{{
			{Text: "Results", Bold: true},
			{Text: "Hello World"},
		}},
	}
}
