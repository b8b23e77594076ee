// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/pdiddy/pdfextract/internal/extractor"
)

var validateCmd = &cobra.Command{
	Use:   "validate <pdf> <dest>",
	Short: "Check that a PDF and destination directory are usable",
	Long: `Validate checks that <pdf> is an existing file with a .pdf extension and
that <dest> is an existing directory. With --strict it also validates the
PDF's object structure with pdfcpu.`,
	Args: cobra.ExactArgs(2),
	RunE: runValidate,
}

func runValidate(cmd *cobra.Command, args []string) error {
	source, dest := args[0], args[1]
	if err := extractor.ValidatePaths(source, dest); err != nil {
		return err
	}

	strict, _ := cmd.Flags().GetBool("strict")
	if strict {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		log := newLogger(cfg)
		defer log.Sync()

		// Structural validation reads bytes only; the engine is never called.
		ext, err := extractor.New(source, nil, log)
		if err != nil {
			return err
		}
		if err := ext.CheckStructure(); err != nil {
			return err
		}
	}

	fmt.Printf("ok: %s -> %s\n", source, dest)
	return nil
}

func init() {
	validateCmd.Flags().Bool("strict", false, "also validate the PDF structure with pdfcpu")
	rootCmd.AddCommand(validateCmd)
}
