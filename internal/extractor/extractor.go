// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package extractor turns one PDF into Markdown or plain text through a PDF
// engine, post-processes the Markdown, slices between optional markers, and
// saves the results.
//
// An Extractor is not safe for concurrent use: its memory buffer is created
// lazily without synchronization.
package extractor

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/pdfcpu/pdfcpu/pkg/api"

	"github.com/pdiddy/pdfextract/internal/engine"
	"github.com/pdiddy/pdfextract/internal/logging"
)

// pageSeparator joins the text of consecutive pages.
const pageSeparator = "\n\n"

// MarkdownOptions controls ExtractMarkdown.
type MarkdownOptions struct {
	// Cleaned removes Markdown image references.
	Cleaned bool
	Markers
}

// SaveOptions controls SaveMarkdown and SavePlainText.
type SaveOptions struct {
	// Content is written as-is when non-nil; otherwise the content is
	// extracted with the remaining options.
	Content *string

	// Cleaned applies to Markdown extraction only.
	Cleaned bool
	Markers
}

// Extractor mediates between a PDF path and its Markdown and plain-text
// renderings.
type Extractor struct {
	path   string
	engine engine.Engine
	log    logging.Logger

	// memory is filled on the first MemoryBuffer call and kept for the
	// extractor's lifetime.
	memory *bytes.Reader
}

// New returns an Extractor for pdfPath. It fails with ErrNotFound when the
// path does not reference an existing regular file. No other I/O happens.
func New(pdfPath string, eng engine.Engine, log logging.Logger) (*Extractor, error) {
	info, err := os.Stat(pdfPath)
	if err != nil || !info.Mode().IsRegular() {
		return nil, fmt.Errorf("file %s: %w", pdfPath, ErrNotFound)
	}
	if log == nil {
		log = logging.Nop()
	}
	return &Extractor{path: pdfPath, engine: eng, log: log}, nil
}

// Path returns the PDF path the extractor was created with.
func (e *Extractor) Path() string { return e.path }

// Stem returns the PDF file name without its extension.
func (e *Extractor) Stem() string {
	base := filepath.Base(e.path)
	return strings.TrimSuffix(base, filepath.Ext(base))
}

// ExtractMarkdown renders the document to Markdown, optionally strips image
// references, normalizes formatting, and slices between the markers.
func (e *Extractor) ExtractMarkdown(opts MarkdownOptions) (string, error) {
	markdown, err := e.engine.Markdown(e.path)
	if err != nil {
		e.log.Errorf("extracting markdown from %s: %v", e.path, err)
		return "", fmt.Errorf("extracting markdown from %s: %w: %w", e.path, ErrEngine, err)
	}

	if opts.Cleaned {
		markdown = RemoveImages(markdown)
	}
	markdown = FormatMarkdown(markdown)

	return Slice(markdown, opts.Markers, e.log), nil
}

// ExtractPlainText joins the text of every page with a blank line and slices
// between the markers.
func (e *Extractor) ExtractPlainText(m Markers) (string, error) {
	pages, err := e.engine.PageTexts(e.path)
	if err != nil {
		e.log.Errorf("extracting text from %s: %v", e.path, err)
		return "", fmt.Errorf("extracting text from %s: %w: %w", e.path, ErrEngine, err)
	}
	return Slice(strings.Join(pages, pageSeparator), m, e.log), nil
}

// Title returns the document title from its metadata. The boolean is false
// when the title is missing, empty or NUL padding only, or when the
// metadata could not be read; engine failures are logged, not returned.
func (e *Extractor) Title() (string, bool) {
	meta, err := e.engine.Metadata(e.path)
	if err != nil {
		e.log.Errorf("reading title of %s: %v", e.path, err)
		return "", false
	}
	title := strings.TrimRight(meta["title"], "\x00")
	e.log.Infof("PDF title: %q", title)
	if strings.TrimSpace(title) == "" {
		return "", false
	}
	return title, true
}

// MemoryBuffer returns the file's bytes positioned at offset 0. The file is
// read from disk on the first call only.
func (e *Extractor) MemoryBuffer() (*bytes.Reader, error) {
	if e.memory == nil {
		data, err := os.ReadFile(e.path)
		if err != nil {
			return nil, fmt.Errorf("loading %s into memory: %w", e.path, err)
		}
		e.memory = bytes.NewReader(data)
	}
	if _, err := e.memory.Seek(0, io.SeekStart); err != nil {
		return nil, fmt.Errorf("rewinding memory buffer: %w", err)
	}
	return e.memory, nil
}

var disablePdfcpuConfig sync.Once

// CheckStructure validates the PDF's object structure with pdfcpu, reading
// from the memory buffer. A structurally broken file yields ErrInvalidFormat.
func (e *Extractor) CheckStructure() error {
	buf, err := e.MemoryBuffer()
	if err != nil {
		return err
	}
	disablePdfcpuConfig.Do(api.DisableConfigDir)

	if err := api.Validate(buf, nil); err != nil {
		e.log.Warnf("structural validation of %s failed: %v", e.path, err)
		return fmt.Errorf("validating %s: %w: %w", e.path, ErrInvalidFormat, err)
	}
	e.log.Debugf("structural validation of %s passed", e.path)
	return nil
}

// SaveMarkdown writes Markdown to outputPath: opts.Content when given,
// otherwise a fresh extraction. Every failure is logged and returned.
func (e *Extractor) SaveMarkdown(outputPath string, opts SaveOptions) error {
	var content string
	if opts.Content != nil {
		content = *opts.Content
	} else {
		md, err := e.ExtractMarkdown(MarkdownOptions{Cleaned: opts.Cleaned, Markers: opts.Markers})
		if err != nil {
			e.log.Errorf("failed to save Markdown file %s: %v", outputPath, err)
			return err
		}
		content = md
	}

	if err := writeUTF8(outputPath, content); err != nil {
		e.log.Errorf("failed to save Markdown file %s: %v", outputPath, err)
		return err
	}
	e.log.Infof("Markdown file saved: %s", outputPath)
	return nil
}

// SavePlainText writes plain text to outputPath: opts.Content when given,
// otherwise a fresh extraction. Every failure is logged and returned.
func (e *Extractor) SavePlainText(outputPath string, opts SaveOptions) error {
	var content string
	if opts.Content != nil {
		content = *opts.Content
	} else {
		text, err := e.ExtractPlainText(opts.Markers)
		if err != nil {
			e.log.Errorf("failed to save plain text file %s: %v", outputPath, err)
			return err
		}
		content = text
	}

	if err := writeUTF8(outputPath, content); err != nil {
		e.log.Errorf("failed to save plain text file %s: %v", outputPath, err)
		return err
	}
	e.log.Infof("plain text file saved: %s", outputPath)
	return nil
}

// SaveRaw writes content to outputPath and logs the result. Write errors are
// returned to the caller.
func (e *Extractor) SaveRaw(content, outputPath string) error {
	if err := writeUTF8(outputPath, content); err != nil {
		return err
	}
	e.log.Infof("file saved: %s", outputPath)
	return nil
}

// OutputDir creates destination/<stem> and returns its path.
func (e *Extractor) OutputDir(destination string) (string, error) {
	dir := filepath.Join(destination, e.Stem())
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("creating output directory %s: %w", dir, err)
	}
	return dir, nil
}

// writeUTF8 writes content as UTF-8, replacing invalid byte sequences.
func writeUTF8(path, content string) error {
	if err := os.WriteFile(path, []byte(strings.ToValidUTF8(content, "\uFFFD")), 0o644); err != nil {
		return fmt.Errorf("writing %s: %w", path, err)
	}
	return nil
}
