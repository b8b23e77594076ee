// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package extractor

import (
	"regexp"
	"strings"
	"unicode"
)

var (
	imagePattern     = regexp.MustCompile(`!\[.*?\]\(.*?\)`)
	boldPattern      = regexp.MustCompile(`\*\*(.*?)\*\*`)
	underlinePattern = regexp.MustCompile(`__(.*?)__`)
	italicPattern    = regexp.MustCompile(`\*(.*?)\*`)
	boldLinePattern  = regexp.MustCompile(`^[\s\p{Zs}]*\*\*[^*]+\*\*[\s\p{Zs}]*$`)
)

// RemoveImages deletes every Markdown image reference ![alt](target).
func RemoveImages(markdown string) string {
	return imagePattern.ReplaceAllString(markdown, "")
}

// FormatMarkdown normalizes emphasis and promotes bold-only lines to
// level-2 headings.
//
// The emphasis pass rewrites bold, underline and italic spans to
// themselves. It changes nothing today and marks where style normalization
// belongs.
func FormatMarkdown(markdown string) string {
	markdown = boldPattern.ReplaceAllString(markdown, "**${1}**")
	markdown = underlinePattern.ReplaceAllString(markdown, "__${1}__")
	markdown = italicPattern.ReplaceAllString(markdown, "*${1}*")

	lines := strings.Split(markdown, "\n")
	for i, line := range lines {
		if boldLinePattern.MatchString(line) {
			text := strings.TrimSuffix(line, "\r")
			lines[i] = "## " + strings.TrimFunc(text, isHeadingPadding) + line[len(text):]
		}
	}
	return strings.Join(lines, "\n")
}

// isHeadingPadding reports runes stripped from a promoted bold line. Line
// terminators are not padding.
func isHeadingPadding(r rune) bool {
	return r == '*' || r == ' ' || r == '\t' || unicode.Is(unicode.Zs, r)
}
