// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package engine wraps the third-party PDF libraries behind three small
// capabilities: per-page plain text, whole-document Markdown, and the
// document info dictionary. Backends mix libraries per capability.
package engine

import (
	"fmt"
	"strings"

	"github.com/pdiddy/pdfextract/internal/container"
	"github.com/pdiddy/pdfextract/pkg/types"
)

// TextExtractor returns the plain text of each page of a PDF, in page order.
type TextExtractor interface {
	PageTexts(pdfPath string) ([]string, error)
}

// MarkdownRenderer renders a whole PDF to Markdown. Embedded images are
// never written out.
type MarkdownRenderer interface {
	Markdown(pdfPath string) (string, error)
}

// MetadataReader returns the document info dictionary with lower-case keys
// ("title", "author", ...). Missing entries are absent or empty.
type MetadataReader interface {
	Metadata(pdfPath string) (map[string]string, error)
}

// Engine is the full PDF capability the extractor depends on.
type Engine interface {
	TextExtractor
	MarkdownRenderer
	MetadataReader

	// Name returns the backend identifier.
	Name() types.Backend
}

// Composite assembles an Engine from independent capabilities.
type Composite struct {
	Backend  types.Backend
	Text     TextExtractor
	Renderer MarkdownRenderer
	Meta     MetadataReader
}

// Name returns the backend identifier.
func (c *Composite) Name() types.Backend { return c.Backend }

// PageTexts delegates to the text capability.
func (c *Composite) PageTexts(pdfPath string) ([]string, error) {
	return c.Text.PageTexts(pdfPath)
}

// Markdown delegates to the Markdown capability.
func (c *Composite) Markdown(pdfPath string) (string, error) {
	return c.Renderer.Markdown(pdfPath)
}

// Metadata delegates to the metadata capability.
func (c *Composite) Metadata(pdfPath string) (map[string]string, error) {
	return c.Meta.Metadata(pdfPath)
}

// Options carries backend-specific settings for New.
type Options struct {
	// MarkitdownImage overrides the container image for the markitdown
	// backend.
	MarkitdownImage string

	// Runtime is the container runtime for the markitdown backend. When nil,
	// New detects docker or podman.
	Runtime container.Runtime
}

// ParseBackend normalizes a backend name. The empty string selects mupdf.
func ParseBackend(name string) (types.Backend, error) {
	b := types.Backend(strings.ToLower(strings.TrimSpace(name)))
	if b == "" {
		return types.BackendMuPDF, nil
	}
	for _, known := range types.Backends {
		if b == known {
			return b, nil
		}
	}
	return "", fmt.Errorf("unknown backend %q: use mupdf, native, or markitdown", name)
}

// New returns the Engine for backend.
func New(backend types.Backend, opts Options) (Engine, error) {
	backend, err := ParseBackend(string(backend))
	if err != nil {
		return nil, err
	}

	switch backend {
	case types.BackendNative:
		n := NewNative()
		return &Composite{Backend: backend, Text: n, Renderer: n, Meta: n}, nil

	case types.BackendMarkitdown:
		rt := opts.Runtime
		if rt == nil {
			rt, err = container.DetectRuntime()
			if err != nil {
				return nil, err
			}
		}
		m, err := NewMarkitdown(rt, opts.MarkitdownImage)
		if err != nil {
			return nil, err
		}
		n := NewNative()
		return &Composite{Backend: backend, Text: n, Renderer: m, Meta: n}, nil

	default:
		m := NewMuPDF()
		return &Composite{Backend: types.BackendMuPDF, Text: m, Renderer: m, Meta: m}, nil
	}
}
