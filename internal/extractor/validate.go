// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package extractor

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// ValidatePaths checks a conversion request before any work starts: source
// must be an existing regular file with a .pdf extension (any case), and
// destination an existing directory.
func ValidatePaths(source, destination string) error {
	info, err := os.Stat(source)
	if err != nil || !info.Mode().IsRegular() {
		return fmt.Errorf("source file %s does not exist: %w", source, ErrNotFound)
	}
	if ext := strings.ToLower(filepath.Ext(source)); ext != ".pdf" {
		return fmt.Errorf("source file %s must be a PDF (has extension %q): %w", source, ext, ErrInvalidFormat)
	}

	info, err = os.Stat(destination)
	if err != nil {
		return fmt.Errorf("destination directory %s does not exist: %w", destination, ErrNotADirectory)
	}
	if !info.IsDir() {
		return fmt.Errorf("destination path %s is not a directory: %w", destination, ErrNotADirectory)
	}
	return nil
}
