// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package engine

import (
	"bytes"
	"fmt"
	"regexp"
	"strings"

	"github.com/JohannesKaufmann/html-to-markdown/v2/converter"
	"github.com/JohannesKaufmann/html-to-markdown/v2/plugin/base"
	"github.com/JohannesKaufmann/html-to-markdown/v2/plugin/commonmark"
	"github.com/gen2brain/go-fitz"
	"golang.org/x/net/html"
)

// dataImagePattern matches images inlined as data URIs by MuPDF's HTML
// output.
var dataImagePattern = regexp.MustCompile(`!\[[^\]]*\]\(data:[^)]*\)`)

// MuPDF reads PDFs through MuPDF (go-fitz). Markdown is produced by
// converting MuPDF's per-page HTML.
type MuPDF struct {
	converter *converter.Converter
}

// NewMuPDF returns a MuPDF-backed engine.
func NewMuPDF() *MuPDF {
	return &MuPDF{converter: converter.NewConverter(
		converter.WithPlugins(
			base.NewBasePlugin(),
			commonmark.NewCommonmarkPlugin(),
		),
	)}
}

// PageTexts returns the text of every page.
func (m *MuPDF) PageTexts(pdfPath string) ([]string, error) {
	doc, err := fitz.New(pdfPath)
	if err != nil {
		return nil, fmt.Errorf("opening %s: %w", pdfPath, err)
	}
	defer doc.Close()

	texts := make([]string, 0, doc.NumPage())
	for n := 0; n < doc.NumPage(); n++ {
		text, err := doc.Text(n)
		if err != nil {
			return nil, fmt.Errorf("reading text of page %d: %w", n+1, err)
		}
		texts = append(texts, text)
	}
	return texts, nil
}

// Markdown renders every page to HTML and converts it to Markdown.
// Paragraphs set well above the body font size become headings. Inline
// images are dropped.
func (m *MuPDF) Markdown(pdfPath string) (string, error) {
	doc, err := fitz.New(pdfPath)
	if err != nil {
		return "", fmt.Errorf("opening %s: %w", pdfPath, err)
	}
	defer doc.Close()

	roots := make([]*html.Node, 0, doc.NumPage())
	paras := make([][]htmlParagraph, 0, doc.NumPage())
	for n := 0; n < doc.NumPage(); n++ {
		raw, err := doc.HTML(n, true)
		if err != nil {
			return "", fmt.Errorf("rendering page %d: %w", n+1, err)
		}
		root, err := html.Parse(strings.NewReader(raw))
		if err != nil {
			return "", fmt.Errorf("parsing HTML of page %d: %w", n+1, err)
		}
		roots = append(roots, root)
		paras = append(paras, collectParagraphs(root))
	}

	body := htmlBodyFontSize(paras)
	pages := make([]string, 0, len(roots))
	for i, root := range roots {
		promoteHeadings(paras[i], body)

		var buf bytes.Buffer
		if err := html.Render(&buf, root); err != nil {
			return "", fmt.Errorf("rendering HTML of page %d: %w", i+1, err)
		}
		page, err := m.converter.ConvertString(buf.String())
		if err != nil {
			return "", fmt.Errorf("converting page %d to markdown: %w", i+1, err)
		}
		pages = append(pages, strings.TrimSpace(dataImagePattern.ReplaceAllString(page, "")))
	}
	return strings.Join(pages, "\n\n") + "\n", nil
}

// Metadata returns MuPDF's metadata map (title, author, subject, ...).
func (m *MuPDF) Metadata(pdfPath string) (map[string]string, error) {
	doc, err := fitz.New(pdfPath)
	if err != nil {
		return nil, fmt.Errorf("opening %s: %w", pdfPath, err)
	}
	defer doc.Close()

	// MuPDF returns fixed-size values padded with NUL bytes.
	meta := make(map[string]string)
	for k, v := range doc.Metadata() {
		meta[strings.ToLower(k)] = strings.TrimRight(v, "\x00")
	}
	return meta, nil
}
