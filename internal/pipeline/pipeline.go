// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package pipeline runs the end-to-end extraction of PDFs into per-document
// output folders: Markdown, plain text, a manifest, and the relocated PDF.
package pipeline

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"go.yaml.in/yaml/v3"

	"github.com/pdiddy/pdfextract/internal/engine"
	"github.com/pdiddy/pdfextract/internal/extractor"
	"github.com/pdiddy/pdfextract/internal/logging"
	"github.com/pdiddy/pdfextract/pkg/types"
)

const (
	// manifestFile is written into every output folder.
	manifestFile = "manifest.yaml"

	// untitled is used when neither metadata nor content yield a title.
	untitled = "Untitled"
)

// Recorder stores processed documents. *catalog.Store implements it.
type Recorder interface {
	Record(ctx context.Context, doc types.Document) error
}

// Options controls one pipeline run.
type Options struct {
	// Destination receives one folder per PDF. Empty means the PDF's parent
	// directory.
	Destination string

	// Cleaned strips image references from the Markdown output.
	Cleaned bool

	// Markers slice both outputs.
	extractor.Markers

	KeepSource bool
	Force      bool
	Strict     bool

	// Catalog, when set, receives every processed or failed document.
	Catalog Recorder
}

// OptionsFromConfig maps the extraction config section onto Options.
func OptionsFromConfig(cfg types.ExtractionConfig) Options {
	return Options{
		Destination: cfg.Destination,
		Cleaned:     cfg.Cleaned,
		Markers:     extractor.Markers{Start: cfg.Start, End: cfg.End},
		KeepSource:  cfg.KeepSource,
		Force:       cfg.Force,
		Strict:      cfg.Strict,
	}
}

// Pipeline processes PDFs with one engine.
type Pipeline struct {
	engine engine.Engine
	log    logging.Logger
	now    func() time.Time
}

// New returns a Pipeline. A nil logger discards output.
func New(eng engine.Engine, log logging.Logger) *Pipeline {
	if log == nil {
		log = logging.Nop()
	}
	return &Pipeline{engine: eng, log: log, now: time.Now}
}

// Process extracts one PDF into destination/<stem>/. It returns the document
// record in every case; the error is non-nil when Status is failed. An
// existing <stem>.md skips the PDF unless opts.Force is set.
func (p *Pipeline) Process(ctx context.Context, pdfPath string, opts Options) (types.Document, error) {
	doc, err := p.process(ctx, pdfPath, opts)
	if doc.ExtractedAt.IsZero() {
		doc.ExtractedAt = p.now().UTC()
	}
	if err != nil {
		doc.Status = types.StatusFailed
		doc.Error = err.Error()
		p.log.Errorf("processing %s: %v", pdfPath, err)
	}

	if opts.Catalog != nil && doc.Status != types.StatusSkipped {
		if rerr := opts.Catalog.Record(ctx, doc); rerr != nil {
			p.log.Warnf("recording %s in catalog: %v", doc.ID, rerr)
		}
	}
	return doc, err
}

func (p *Pipeline) process(ctx context.Context, pdfPath string, opts Options) (types.Document, error) {
	base := filepath.Base(pdfPath)
	doc := types.Document{
		ID:         strings.TrimSuffix(base, filepath.Ext(base)),
		SourcePath: pdfPath,
		PDFPath:    pdfPath,
		Backend:    p.engine.Name(),
		Status:     types.StatusNone,
	}

	dest := opts.Destination
	if dest == "" {
		dest = filepath.Dir(pdfPath)
	}
	if err := extractor.ValidatePaths(pdfPath, dest); err != nil {
		return doc, err
	}

	ext, err := extractor.New(pdfPath, p.engine, p.log)
	if err != nil {
		return doc, err
	}

	outDir, err := ext.OutputDir(dest)
	if err != nil {
		return doc, err
	}
	doc.OutputDir = outDir
	doc.MarkdownPath = filepath.Join(outDir, doc.ID+".md")
	doc.TextPath = filepath.Join(outDir, doc.ID+".txt")

	if _, err := os.Stat(doc.MarkdownPath); err == nil && !opts.Force {
		p.log.Infof("skipping %s: %s already exists", pdfPath, doc.MarkdownPath)
		doc.Status = types.StatusSkipped
		return doc, nil
	}

	if opts.Strict {
		if err := ext.CheckStructure(); err != nil {
			return doc, err
		}
	}
	if err := ctx.Err(); err != nil {
		return doc, err
	}

	markdown, err := ext.ExtractMarkdown(extractor.MarkdownOptions{Cleaned: opts.Cleaned, Markers: opts.Markers})
	if err != nil {
		return doc, err
	}
	text, err := ext.ExtractPlainText(opts.Markers)
	if err != nil {
		return doc, err
	}
	doc.Title = resolveTitle(ext, markdown)

	if err := ext.SaveMarkdown(doc.MarkdownPath, extractor.SaveOptions{Content: &markdown}); err != nil {
		return doc, err
	}
	if err := ext.SavePlainText(doc.TextPath, extractor.SaveOptions{Content: &text}); err != nil {
		return doc, err
	}

	if !opts.KeepSource {
		moved := filepath.Join(outDir, base)
		if err := movePDF(pdfPath, moved); err != nil {
			return doc, err
		}
		p.log.Infof("moved %s to %s", pdfPath, moved)
		doc.PDFPath = moved
	}

	doc.Status = types.StatusExtracted
	doc.ExtractedAt = p.now().UTC()
	if err := writeManifest(ext, doc); err != nil {
		return doc, err
	}
	return doc, nil
}

// resolveTitle prefers the metadata title, then the first Markdown heading.
func resolveTitle(ext *extractor.Extractor, markdown string) string {
	if title, ok := ext.Title(); ok {
		return title
	}
	if heading := FirstHeading(markdown); heading != "" {
		return heading
	}
	return untitled
}

func writeManifest(ext *extractor.Extractor, doc types.Document) error {
	data, err := yaml.Marshal(doc)
	if err != nil {
		return fmt.Errorf("marshaling manifest: %w", err)
	}
	return ext.SaveRaw(string(data), filepath.Join(doc.OutputDir, manifestFile))
}

// ReadManifest loads the manifest written for an output folder.
func ReadManifest(outputDir string) (types.Document, error) {
	var doc types.Document
	data, err := os.ReadFile(filepath.Join(outputDir, manifestFile))
	if err != nil {
		return doc, fmt.Errorf("reading manifest: %w", err)
	}
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return doc, fmt.Errorf("parsing manifest: %w", err)
	}
	return doc, nil
}

// movePDF renames src to dst, copying across file systems when rename fails.
func movePDF(src, dst string) error {
	if src == dst {
		return nil
	}
	if err := os.Rename(src, dst); err == nil {
		return nil
	}

	if err := copyFile(src, dst); err != nil {
		return fmt.Errorf("moving %s: %w", src, err)
	}
	return os.Remove(src)
}

// copyFile copies src to dst. A partially written dst is removed on failure.
func copyFile(src, dst string) error {
	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer in.Close()

	out, err := os.OpenFile(dst, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0o644)
	if err != nil {
		return err
	}
	if _, err := io.Copy(out, in); err != nil {
		out.Close()
		os.Remove(dst)
		return fmt.Errorf("copying: %w", err)
	}
	if err := out.Close(); err != nil {
		os.Remove(dst)
		return fmt.Errorf("copying: %w", err)
	}
	return nil
}
