// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package engine

import (
	"fmt"
	"math"
	"strings"

	"github.com/ledongthuc/pdf"
)

// Native reads PDFs with the pure-Go ledongthuc/pdf reader. It needs no
// C libraries, at the cost of simpler Markdown: bold runs become **bold**
// and oversized lines become headings.
type Native struct{}

// NewNative returns a ledongthuc/pdf-backed engine.
func NewNative() *Native {
	return &Native{}
}

// openPDF opens pdfPath and converts reader panics on malformed input into
// errors.
func openPDF(pdfPath string, fn func(r *pdf.Reader) error) (err error) {
	defer func() {
		if p := recover(); p != nil {
			err = fmt.Errorf("malformed PDF %s: %v", pdfPath, p)
		}
	}()

	f, r, err := pdf.Open(pdfPath)
	if err != nil {
		return fmt.Errorf("opening %s: %w", pdfPath, err)
	}
	defer f.Close()

	return fn(r)
}

// PageTexts returns the plain text of every page. Pages without content
// yield an empty string so page positions are preserved.
func (n *Native) PageTexts(pdfPath string) ([]string, error) {
	var texts []string
	err := openPDF(pdfPath, func(r *pdf.Reader) error {
		fonts := make(map[string]*pdf.Font)
		for i := 1; i <= r.NumPage(); i++ {
			p := r.Page(i)
			if p.V.IsNull() {
				texts = append(texts, "")
				continue
			}
			for _, name := range p.Fonts() {
				if _, ok := fonts[name]; !ok {
					f := p.Font(name)
					fonts[name] = &f
				}
			}
			text, err := p.GetPlainText(fonts)
			if err != nil {
				return fmt.Errorf("reading text of page %d: %w", i, err)
			}
			texts = append(texts, text)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return texts, nil
}

// Metadata returns the trailer /Info dictionary with lower-cased keys.
func (n *Native) Metadata(pdfPath string) (map[string]string, error) {
	meta := make(map[string]string)
	err := openPDF(pdfPath, func(r *pdf.Reader) error {
		info := r.Trailer().Key("Info")
		if info.Kind() != pdf.Dict {
			return nil
		}
		for _, key := range info.Keys() {
			v := info.Key(key)
			if v.Kind() == pdf.String {
				meta[strings.ToLower(key)] = v.Text()
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return meta, nil
}

// styledLine is one visual line of glyphs sharing a baseline.
type styledLine struct {
	text   strings.Builder
	y      float64
	size   float64
	glyphs int
	bold   int
}

// Markdown reconstructs lines from positioned glyphs and marks up bold and
// oversized lines.
func (n *Native) Markdown(pdfPath string) (string, error) {
	var pages [][]*styledLine
	err := openPDF(pdfPath, func(r *pdf.Reader) error {
		for i := 1; i <= r.NumPage(); i++ {
			p := r.Page(i)
			if p.V.IsNull() {
				continue
			}
			pages = append(pages, groupLines(p.Content().Text))
		}
		return nil
	})
	if err != nil {
		return "", err
	}

	body := bodyFontSize(pages)
	rendered := make([]string, 0, len(pages))
	for _, lines := range pages {
		if page := renderLines(lines, body); page != "" {
			rendered = append(rendered, page)
		}
	}
	return strings.Join(rendered, "\n\n") + "\n", nil
}

// groupLines folds glyphs in content-stream order into lines. A baseline
// change starts a new line; a horizontal gap wider than a third of the font
// size inserts a space.
func groupLines(glyphs []pdf.Text) []*styledLine {
	var (
		lines []*styledLine
		cur   *styledLine
		prev  pdf.Text
	)
	for _, g := range glyphs {
		if cur == nil || math.Abs(g.Y-cur.y) > 0.5 {
			cur = &styledLine{y: g.Y}
			lines = append(lines, cur)
		} else if prev.W > 0 && g.X-(prev.X+prev.W) > g.FontSize/3 && !strings.HasSuffix(cur.text.String(), " ") {
			cur.text.WriteByte(' ')
		}
		cur.text.WriteString(g.S)
		if strings.TrimSpace(g.S) != "" {
			cur.glyphs++
			cur.size = math.Max(cur.size, g.FontSize)
			if isBoldFont(g.Font) {
				cur.bold++
			}
		}
		prev = g
	}
	return lines
}

func isBoldFont(name string) bool {
	lower := strings.ToLower(name)
	return strings.Contains(lower, "bold") || strings.Contains(lower, "black") || strings.Contains(lower, "heavy")
}

// bodyFontSize returns the font size carrying the most glyphs.
func bodyFontSize(pages [][]*styledLine) float64 {
	glyphs := make(map[float64]int)
	for _, lines := range pages {
		for _, l := range lines {
			glyphs[math.Round(l.size*10)/10] += l.glyphs
		}
	}
	return dominantSize(glyphs)
}

func renderLines(lines []*styledLine, body float64) string {
	var b strings.Builder
	var prevY, prevSize float64
	for i, l := range lines {
		text := strings.TrimSpace(l.text.String())
		if text == "" {
			continue
		}
		if b.Len() > 0 {
			b.WriteByte('\n')
			if i > 0 && math.Abs(prevY-l.y) > 1.8*math.Max(prevSize, l.size) {
				b.WriteByte('\n')
			}
		}
		level := headingLevel(l.size, body)
		switch {
		case level > 0:
			b.WriteString(strings.Repeat("#", level) + " " + text + "\n")
		case l.glyphs > 0 && l.bold == l.glyphs:
			b.WriteString("**" + text + "**")
		default:
			b.WriteString(text)
		}
		prevY, prevSize = l.y, l.size
	}
	return strings.TrimSpace(b.String())
}
