// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package extractor

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRemoveImages(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"single", "before ![alt](a.png) after", "before  after"},
		{"several on one line", "![a](1.png)![b](2.png)x", "x"},
		{"empty alt", "![](data:image/png;base64,AAA)", ""},
		{"links kept", "[text](http://x)", "[text](http://x)"},
		{"no images", "plain", "plain"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, RemoveImages(tt.in))
		})
	}
}

func TestFormatMarkdown(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"bold line becomes heading", "**Introduction**", "## Introduction"},
		{"surrounding whitespace", "  **Methods**  ", "## Methods"},
		{"inner spaces kept", "**Related Work**", "## Related Work"},
		{"inline bold untouched", "This is **bold** text", "This is **bold** text"},
		{"two bold spans untouched", "**a** and **b**", "**a** and **b**"},
		{"italic untouched", "*emphasis* here", "*emphasis* here"},
		{"underline untouched", "__under__", "__under__"},
		{"empty bold is not a heading", "****", "****"},
		{"no-break space padding", "\u00a0**Heading**\u00a0", "## Heading"},
		{"ideographic space padding", "\u3000**Heading**", "## Heading"},
		{"crlf terminator kept", "**Heading**\r\nbody\r\n", "## Heading\r\nbody\r\n"},
		{"tab padding", "\t**Heading**", "## Heading"},
		{
			name: "only matching lines change",
			in:   "# Title\n**Abstract**\nBody with **bold**.\n",
			want: "# Title\n## Abstract\nBody with **bold**.\n",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, FormatMarkdown(tt.in))
		})
	}
}

func TestFormatMarkdown_Idempotent(t *testing.T) {
	in := "**Heading**\ntext *i* __u__ **b**\n\n**Another**"
	once := FormatMarkdown(in)
	assert.Equal(t, once, FormatMarkdown(once))
}
