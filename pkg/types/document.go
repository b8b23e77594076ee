// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

import "time"

// ExtractionStatus indicates the outcome of processing one PDF.
type ExtractionStatus string

const (
	StatusNone      ExtractionStatus = "none"
	StatusExtracted ExtractionStatus = "extracted"
	StatusSkipped   ExtractionStatus = "skipped"
	StatusFailed    ExtractionStatus = "failed"
)

// Document records what the pipeline produced for a single PDF. It is
// written as manifest.yaml next to the outputs and stored in the catalog.
type Document struct {
	// ID is the PDF file stem (e.g. "2025-02194").
	ID string `json:"id" yaml:"id"`

	// Title is the metadata title, the first Markdown heading, or "Untitled".
	Title string `json:"title" yaml:"title"`

	// SourcePath is where the PDF was found before processing.
	SourcePath string `json:"source_path" yaml:"source_path"`

	// PDFPath is where the PDF lives after processing. It equals SourcePath
	// when the source was kept in place.
	PDFPath string `json:"pdf_path" yaml:"pdf_path"`

	// OutputDir is the per-document output folder.
	OutputDir string `json:"output_dir" yaml:"output_dir"`

	// MarkdownPath and TextPath are the written output files.
	MarkdownPath string `json:"markdown_path" yaml:"markdown_path"`
	TextPath     string `json:"text_path" yaml:"text_path"`

	// Backend is the engine that produced the outputs.
	Backend Backend `json:"backend" yaml:"backend"`

	// Status is the processing outcome.
	Status ExtractionStatus `json:"status" yaml:"status"`

	// Error holds the failure message when Status is failed.
	Error string `json:"error,omitempty" yaml:"error,omitempty"`

	// ExtractedAt is when processing finished.
	ExtractedAt time.Time `json:"extracted_at" yaml:"extracted_at"`
}
