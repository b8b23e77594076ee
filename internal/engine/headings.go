// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package engine

import (
	"math"
	"regexp"
	"sort"
	"strconv"
	"strings"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

// Lines at least this many times the body font size become headings.
const (
	h1Ratio = 1.6
	h2Ratio = 1.25
)

// headingLevel returns 1 or 2 for oversized text and 0 otherwise.
func headingLevel(size, body float64) int {
	switch {
	case body <= 0:
		return 0
	case size >= h1Ratio*body:
		return 1
	case size >= h2Ratio*body:
		return 2
	}
	return 0
}

// dominantSize returns the font size carrying the most glyphs. Ties go to
// the smaller size.
func dominantSize(glyphs map[float64]int) float64 {
	sizes := make([]float64, 0, len(glyphs))
	for s := range glyphs {
		sizes = append(sizes, s)
	}
	sort.Float64s(sizes)

	body, best := 0.0, -1
	for _, s := range sizes {
		if glyphs[s] > best {
			body, best = s, glyphs[s]
		}
	}
	return body
}

var fontSizePattern = regexp.MustCompile(`font-size:\s*([0-9.]+)pt`)

// htmlParagraph is a <p> of MuPDF's HTML output with its largest font size.
type htmlParagraph struct {
	node *html.Node
	text string
	size float64
}

// collectParagraphs returns every <p> under root with its normalized text
// and the largest font-size found in its style attributes.
func collectParagraphs(root *html.Node) []htmlParagraph {
	var out []htmlParagraph
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.ElementNode && n.DataAtom == atom.P {
			var b strings.Builder
			size := styledFontSize(n, &b)
			out = append(out, htmlParagraph{node: n, text: strings.Join(strings.Fields(b.String()), " "), size: size})
			return
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(root)
	return out
}

// styledFontSize writes the text under n to b and returns the largest
// font-size declared on n or its descendants.
func styledFontSize(n *html.Node, b *strings.Builder) float64 {
	if n.Type == html.TextNode {
		b.WriteString(n.Data)
		b.WriteByte(' ')
		return 0
	}
	size := 0.0
	for _, a := range n.Attr {
		if a.Key != "style" {
			continue
		}
		if m := fontSizePattern.FindStringSubmatch(a.Val); m != nil {
			if v, err := strconv.ParseFloat(m[1], 64); err == nil {
				size = math.Max(size, v)
			}
		}
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		size = math.Max(size, styledFontSize(c, b))
	}
	return size
}

// htmlBodyFontSize returns the dominant font size across all pages.
func htmlBodyFontSize(pages [][]htmlParagraph) float64 {
	glyphs := make(map[float64]int)
	for _, paras := range pages {
		for _, p := range paras {
			glyphs[math.Round(p.size*10)/10] += len([]rune(strings.ReplaceAll(p.text, " ", "")))
		}
	}
	return dominantSize(glyphs)
}

// promoteHeadings turns oversized paragraphs into <h1> or <h2> elements
// holding only their text.
func promoteHeadings(paras []htmlParagraph, body float64) {
	for _, p := range paras {
		if p.text == "" {
			continue
		}
		var a atom.Atom
		switch headingLevel(p.size, body) {
		case 1:
			a = atom.H1
		case 2:
			a = atom.H2
		default:
			continue
		}
		for c := p.node.FirstChild; c != nil; {
			next := c.NextSibling
			p.node.RemoveChild(c)
			c = next
		}
		p.node.DataAtom = a
		p.node.Data = a.String()
		p.node.AppendChild(&html.Node{Type: html.TextNode, Data: p.text})
	}
}
