// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/pdiddy/pdfextract/internal/catalog"
	"github.com/pdiddy/pdfextract/internal/pipeline"
)

var extractCmd = &cobra.Command{
	Use:   "extract [pdf...]",
	Short: "Extract Markdown and text into one folder per PDF",
	Long: `Extract processes each PDF into <dest>/<name>/: the Markdown file, the
plain-text file, a manifest.yaml, and (unless --keep-source) the PDF itself.
PDFs whose Markdown already exists are skipped unless --force is given.

Use --url to download PDFs before extracting them. A failed PDF does not stop
the batch; the command exits non-zero when any PDF failed.`,
	RunE: runExtract,
}

func runExtract(cmd *cobra.Command, args []string) error {
	if err := bindFlags(cmd.Flags(), map[string]string{
		"backend":     "extraction.backend",
		"dest":        "extraction.destination",
		"cleaned":     "extraction.cleaned",
		"start":       "extraction.start",
		"end":         "extraction.end",
		"keep-source": "extraction.keep_source",
		"force":       "extraction.force",
		"strict":      "extraction.strict",
		"no-catalog":  "catalog.disabled",
	}); err != nil {
		return err
	}
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	log := newLogger(cfg)
	defer log.Sync()

	urls, _ := cmd.Flags().GetStringSlice("url")
	if len(args) == 0 && len(urls) == 0 {
		return fmt.Errorf("no input: provide PDF paths or --url")
	}

	paths := append([]string(nil), args...)
	if len(urls) > 0 {
		dir := cfg.Extraction.Destination
		if dir == "" {
			dir = "."
		}
		client, err := newFetchClient(cfg.Fetch, log)
		if err != nil {
			return err
		}
		for _, u := range urls {
			p, err := client.Download(cmd.Context(), u, dir)
			if err != nil {
				return err
			}
			paths = append(paths, p)
		}
	}

	eng, err := newEngine(cfg.Extraction)
	if err != nil {
		return err
	}

	opts := pipeline.OptionsFromConfig(cfg.Extraction)
	if !cfg.Catalog.Disabled {
		store, err := catalog.NewStore(cfg.Catalog)
		if err != nil {
			return err
		}
		defer store.Close()
		opts.Catalog = store
	}

	result := pipeline.New(eng, log).ProcessBatch(cmd.Context(), paths, opts, os.Stdout)
	if result.HasFailures() {
		return fmt.Errorf("%d PDF(s) failed extraction", result.Failed)
	}
	return nil
}

func init() {
	extractCmd.Flags().String("backend", "mupdf", "PDF engine: mupdf, native, or markitdown")
	extractCmd.Flags().String("dest", "", "destination directory (default: each PDF's own directory)")
	extractCmd.Flags().Bool("cleaned", false, "remove image references from the Markdown")
	extractCmd.Flags().String("start", "", "keep content from the first occurrence of this marker")
	extractCmd.Flags().String("end", "", "keep content up to the first occurrence of this marker")
	extractCmd.Flags().Bool("keep-source", false, "leave the PDF in place instead of moving it")
	extractCmd.Flags().Bool("force", false, "re-extract PDFs whose Markdown already exists")
	extractCmd.Flags().Bool("strict", false, "validate PDF structure with pdfcpu before extracting")
	extractCmd.Flags().Bool("no-catalog", false, "do not record documents in the catalog")
	extractCmd.Flags().StringSlice("url", nil, "download PDFs from these URLs before extracting")

	rootCmd.AddCommand(extractCmd)
}
