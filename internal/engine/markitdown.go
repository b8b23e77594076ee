// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package engine

import (
	"bytes"
	"fmt"
	"os"

	"github.com/pdiddy/pdfextract/internal/container"
)

// DefaultMarkitdownImage is the image used when none is configured.
const DefaultMarkitdownImage = "markitdown:latest"

// Markitdown renders PDFs by piping them through the markitdown container
// image.
type Markitdown struct {
	runtime container.Runtime
	image   string
}

// NewMarkitdown returns a renderer running image under rt. It verifies the
// image exists locally before returning.
func NewMarkitdown(rt container.Runtime, image string) (*Markitdown, error) {
	if image == "" {
		image = DefaultMarkitdownImage
	}
	if err := rt.ImageExists(image); err != nil {
		return nil, fmt.Errorf("markitdown image not available in %s: %w", rt.Name(), err)
	}
	return &Markitdown{runtime: rt, image: image}, nil
}

// Markdown streams the PDF through the container and returns its output.
func (m *Markitdown) Markdown(pdfPath string) (string, error) {
	f, err := os.Open(pdfPath)
	if err != nil {
		return "", fmt.Errorf("opening %s: %w", pdfPath, err)
	}
	defer f.Close()

	var out bytes.Buffer
	if err := m.runtime.Run(m.image, f, &out); err != nil {
		return "", fmt.Errorf("rendering %s with markitdown: %w", pdfPath, err)
	}
	if out.Len() == 0 {
		return "", fmt.Errorf("markitdown produced empty output for %s", pdfPath)
	}
	return out.String(), nil
}
