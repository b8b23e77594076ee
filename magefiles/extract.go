//go:build mage

// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"fmt"
	"path/filepath"

	"github.com/magefile/mage/mg"
	"github.com/magefile/mage/sh"
)

const (
	inboxDir   = "inbox"
	libraryDir = "library"
)

// Extract builds the CLI and extracts every PDF in inbox/ into library/.
// Set PDFEXTRACT_EXTRACTION_BACKEND to pick another engine.
func Extract() error {
	mg.Deps(Build, Init)

	pdfs, err := filepath.Glob(filepath.Join(inboxDir, "*.pdf"))
	if err != nil {
		return err
	}
	if len(pdfs) == 0 {
		fmt.Printf("No PDFs in %s/.\n", inboxDir)
		return nil
	}

	args := append([]string{"extract", "--dest", libraryDir, "--cleaned"}, pdfs...)
	return sh.RunV(filepath.Join(binDir, binName), args...)
}
