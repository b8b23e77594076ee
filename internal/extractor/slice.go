// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package extractor

import (
	"strings"

	"github.com/pdiddy/pdfextract/internal/logging"
)

// Markers bound a region of extracted content by literal substrings.
// Either side may be empty.
type Markers struct {
	Start string
	End   string
}

// IsZero reports whether no marker is set.
func (m Markers) IsZero() bool {
	return m.Start == "" && m.End == ""
}

// Slice returns the part of content from the first occurrence of m.Start up
// to the first occurrence of m.End at or after it, trimmed. An empty Start
// means the beginning and an empty End the end of content.
//
// When no marker is set content is returned untouched. When a set marker is
// not found, Slice logs a warning and returns the whole content trimmed.
func Slice(content string, m Markers, log logging.Logger) string {
	if m.IsZero() {
		return content
	}

	startIdx := 0
	if m.Start != "" {
		startIdx = strings.Index(content, m.Start)
	}
	endIdx := len(content)
	if m.End != "" && startIdx >= 0 {
		endIdx = strings.Index(content[startIdx:], m.End)
		if endIdx >= 0 {
			endIdx += startIdx
		}
	}

	if startIdx < 0 || endIdx < 0 {
		log.Warnf("start or end marker not found (start=%q, end=%q), returning full content", m.Start, m.End)
		return strings.TrimSpace(content)
	}
	return strings.TrimSpace(content[startIdx:endIdx])
}
