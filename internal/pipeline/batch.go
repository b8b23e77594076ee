// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package pipeline

import (
	"context"
	"fmt"
	"io"

	"github.com/pdiddy/pdfextract/pkg/types"
)

// BatchResult holds the outcome of a batch run.
type BatchResult struct {
	Processed int
	Skipped   int
	Failed    int

	// Documents holds one record per input path, in input order.
	Documents []types.Document
}

// Total returns the number of PDFs handled.
func (r BatchResult) Total() int {
	return r.Processed + r.Skipped + r.Failed
}

// HasFailures reports whether any PDF failed.
func (r BatchResult) HasFailures() bool {
	return r.Failed > 0
}

// ProcessBatch runs Process over pdfPaths one at a time, printing per-file
// status to w and a summary at the end. A failed PDF does not stop the
// batch; a cancelled context does.
func (p *Pipeline) ProcessBatch(ctx context.Context, pdfPaths []string, opts Options, w io.Writer) BatchResult {
	var result BatchResult
	for _, path := range pdfPaths {
		if ctx.Err() != nil {
			fmt.Fprintf(w, "cancelled: %v\n", ctx.Err())
			break
		}

		doc, err := p.Process(ctx, path, opts)
		result.Documents = append(result.Documents, doc)
		switch {
		case err != nil:
			fmt.Fprintf(w, "failed:    %s (%v)\n", path, err)
			result.Failed++
		case doc.Status == types.StatusSkipped:
			fmt.Fprintf(w, "skipped:   %s (already exists)\n", doc.ID)
			result.Skipped++
		default:
			fmt.Fprintf(w, "extracted: %s -> %s\n", doc.ID, doc.OutputDir)
			result.Processed++
		}
	}
	fmt.Fprintf(w, "\nBatch summary: %d extracted, %d skipped, %d failed (total: %d)\n",
		result.Processed, result.Skipped, result.Failed, result.Total())
	return result
}
