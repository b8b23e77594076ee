// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package extractor

import (
	"errors"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/pdiddy/pdfextract/internal/engine"
	"github.com/pdiddy/pdfextract/internal/enginetest"
)

// observedLogger returns a sugared logger that records every entry.
func observedLogger() (*zap.SugaredLogger, *observer.ObservedLogs) {
	core, logs := observer.New(zapcore.DebugLevel)
	return zap.New(core).Sugar(), logs
}

// newFakeExtractor writes a placeholder PDF and wraps it with the fake engine.
func newFakeExtractor(t *testing.T, fake *enginetest.Fake) (*Extractor, *observer.ObservedLogs) {
	t.Helper()
	path := enginetest.WriteFile(t, t.TempDir(), "paper.pdf", []byte("%PDF-1.4 placeholder"))
	log, logs := observedLogger()
	ext, err := New(path, fake, log)
	require.NoError(t, err)
	return ext, logs
}

func TestNew(t *testing.T) {
	dir := t.TempDir()

	_, err := New(filepath.Join(dir, "missing.pdf"), &enginetest.Fake{}, nil)
	assert.ErrorIs(t, err, ErrNotFound)

	_, err = New(dir, &enginetest.Fake{}, nil)
	assert.ErrorIs(t, err, ErrNotFound, "a directory is not a PDF file")

	path := enginetest.WriteFile(t, dir, "Report 2024.PDF", []byte("x"))
	ext, err := New(path, &enginetest.Fake{}, nil)
	require.NoError(t, err)
	assert.Equal(t, path, ext.Path())
	assert.Equal(t, "Report 2024", ext.Stem())
}

func TestExtractMarkdown(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		opts MarkdownOptions
		want string
	}{
		{
			name: "no options returns formatted content untrimmed",
			raw:  "  **Intro**\nBody text\n",
			want: "## Intro\nBody text\n",
		},
		{
			name: "cleaned removes images",
			raw:  "A ![fig](img.png) B",
			opts: MarkdownOptions{Cleaned: true},
			want: "A  B",
		},
		{
			name: "images kept when not cleaned",
			raw:  "A ![fig](img.png) B",
			want: "A ![fig](img.png) B",
		},
		{
			name: "markers slice after formatting",
			raw:  "preamble\n**Abstract**\nthe abstract\n**References**\n[1] x",
			opts: MarkdownOptions{Markers: Markers{Start: "## Abstract", End: "## References"}},
			want: "## Abstract\nthe abstract",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ext, _ := newFakeExtractor(t, &enginetest.Fake{MarkdownOut: tt.raw})
			got, err := ext.ExtractMarkdown(tt.opts)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestExtractMarkdown_EngineFailure(t *testing.T) {
	ext, logs := newFakeExtractor(t, &enginetest.Fake{MarkdownErr: errors.New("corrupt xref")})

	_, err := ext.ExtractMarkdown(MarkdownOptions{})
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrEngine)
	assert.Contains(t, err.Error(), "corrupt xref")
	assert.Equal(t, 1, logs.FilterLevelExact(zapcore.ErrorLevel).Len())
}

func TestExtractPlainText(t *testing.T) {
	fake := &enginetest.Fake{Pages: []string{"page one", "page two", ""}}
	ext, _ := newFakeExtractor(t, fake)

	got, err := ext.ExtractPlainText(Markers{})
	require.NoError(t, err)
	assert.Equal(t, "page one\n\npage two\n\n", got)

	got, err = ext.ExtractPlainText(Markers{Start: "two"})
	require.NoError(t, err)
	assert.Equal(t, "two", got)

	assert.Equal(t, 2, fake.Calls("text"))
	assert.Zero(t, fake.Calls("markdown"))
}

func TestExtractPlainText_EngineFailure(t *testing.T) {
	ext, _ := newFakeExtractor(t, &enginetest.Fake{TextErr: errors.New("encrypted")})

	_, err := ext.ExtractPlainText(Markers{})
	assert.ErrorIs(t, err, ErrEngine)
}

func TestExtractPlainText_MissingMarkerWarns(t *testing.T) {
	ext, logs := newFakeExtractor(t, &enginetest.Fake{Pages: []string{"  alpha beta  "}})

	got, err := ext.ExtractPlainText(Markers{Start: "gamma"})
	require.NoError(t, err)
	assert.Equal(t, "alpha beta", got)
	assert.Equal(t, 1, logs.FilterLevelExact(zapcore.WarnLevel).Len())
}

func TestTitle(t *testing.T) {
	tests := []struct {
		name   string
		fake   *enginetest.Fake
		want   string
		wantOK bool
	}{
		{"present", &enginetest.Fake{Meta: map[string]string{"title": "Deep Nets"}}, "Deep Nets", true},
		{"empty", &enginetest.Fake{Meta: map[string]string{"title": "  "}}, "", false},
		{"nul padded", &enginetest.Fake{Meta: map[string]string{"title": "Deep Nets\x00\x00\x00"}}, "Deep Nets", true},
		{"nul only", &enginetest.Fake{Meta: map[string]string{"title": "\x00\x00\x00"}}, "", false},
		{"missing", &enginetest.Fake{Meta: map[string]string{"author": "A"}}, "", false},
		{"nil metadata", &enginetest.Fake{}, "", false},
		{"engine failure", &enginetest.Fake{MetaErr: errors.New("boom")}, "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ext, _ := newFakeExtractor(t, tt.fake)
			got, ok := ext.Title()
			assert.Equal(t, tt.wantOK, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestTitle_LogsValue(t *testing.T) {
	ext, logs := newFakeExtractor(t, &enginetest.Fake{Meta: map[string]string{"title": "Deep Nets"}})

	_, _ = ext.Title()
	entries := logs.FilterMessage(`PDF title: "Deep Nets"`).All()
	assert.Len(t, entries, 1)
}

func TestMemoryBuffer_ReadsOnce(t *testing.T) {
	ext, _ := newFakeExtractor(t, &enginetest.Fake{})

	buf, err := ext.MemoryBuffer()
	require.NoError(t, err)
	first, err := io.ReadAll(buf)
	require.NoError(t, err)
	assert.Equal(t, "%PDF-1.4 placeholder", string(first))

	// The file is gone; the second call must serve the cached bytes from
	// offset zero.
	require.NoError(t, os.Remove(ext.Path()))

	buf2, err := ext.MemoryBuffer()
	require.NoError(t, err)
	assert.Same(t, buf, buf2)
	second, err := io.ReadAll(buf2)
	require.NoError(t, err)
	assert.Equal(t, first, second)
}

func TestMemoryBuffer_FileRemovedBeforeFirstCall(t *testing.T) {
	ext, _ := newFakeExtractor(t, &enginetest.Fake{})
	require.NoError(t, os.Remove(ext.Path()))

	_, err := ext.MemoryBuffer()
	assert.Error(t, err)
}

func TestCheckStructure(t *testing.T) {
	dir := t.TempDir()

	good := enginetest.WritePDF(t, dir, "good.pdf", enginetest.Simple("Good"))
	ext, err := New(good, &enginetest.Fake{}, nil)
	require.NoError(t, err)
	assert.NoError(t, ext.CheckStructure())

	bad := enginetest.WriteFile(t, dir, "bad.pdf", []byte("not a pdf at all"))
	ext, err = New(bad, &enginetest.Fake{}, nil)
	require.NoError(t, err)
	assert.ErrorIs(t, ext.CheckStructure(), ErrInvalidFormat)
}

func TestSaveMarkdown(t *testing.T) {
	fake := &enginetest.Fake{MarkdownOut: "**Heading**\ntext ![i](x.png)"}
	ext, logs := newFakeExtractor(t, fake)
	out := filepath.Join(t.TempDir(), "out.md")

	require.NoError(t, ext.SaveMarkdown(out, SaveOptions{Cleaned: true}))
	data, err := os.ReadFile(out)
	require.NoError(t, err)
	assert.Equal(t, "## Heading\ntext ", string(data))
	assert.Equal(t, 1, logs.FilterMessage("Markdown file saved: "+out).Len())
}

func TestSaveMarkdown_ContentSkipsEngine(t *testing.T) {
	fake := &enginetest.Fake{MarkdownOut: "unused"}
	ext, _ := newFakeExtractor(t, fake)
	out := filepath.Join(t.TempDir(), "out.md")
	content := "# Given\n"

	require.NoError(t, ext.SaveMarkdown(out, SaveOptions{Content: &content}))
	data, err := os.ReadFile(out)
	require.NoError(t, err)
	assert.Equal(t, content, string(data))
	assert.Zero(t, fake.Calls("markdown"))
}

func TestSavePlainText(t *testing.T) {
	fake := &enginetest.Fake{Pages: []string{"one", "two"}}
	ext, logs := newFakeExtractor(t, fake)
	out := filepath.Join(t.TempDir(), "out.txt")

	require.NoError(t, ext.SavePlainText(out, SaveOptions{}))
	data, err := os.ReadFile(out)
	require.NoError(t, err)
	assert.Equal(t, "one\n\ntwo", string(data))
	assert.Equal(t, 1, logs.FilterMessage("plain text file saved: "+out).Len())
}

func TestSave_UnwritableDestination(t *testing.T) {
	fake := &enginetest.Fake{MarkdownOut: "md", Pages: []string{"txt"}}
	ext, logs := newFakeExtractor(t, fake)
	out := filepath.Join(t.TempDir(), "no", "such", "dir", "out")

	assert.Error(t, ext.SaveMarkdown(out+".md", SaveOptions{}))
	assert.Error(t, ext.SavePlainText(out+".txt", SaveOptions{}))
	assert.Equal(t, 2, logs.FilterLevelExact(zapcore.ErrorLevel).Len())
	assert.NoFileExists(t, out+".md")
}

func TestSave_EngineFailure(t *testing.T) {
	fake := &enginetest.Fake{MarkdownErr: errors.New("render"), TextErr: errors.New("text")}
	ext, _ := newFakeExtractor(t, fake)
	dir := t.TempDir()

	assert.ErrorIs(t, ext.SaveMarkdown(filepath.Join(dir, "a.md"), SaveOptions{}), ErrEngine)
	assert.ErrorIs(t, ext.SavePlainText(filepath.Join(dir, "a.txt"), SaveOptions{}), ErrEngine)
	assert.NoFileExists(t, filepath.Join(dir, "a.md"))
}

func TestSaveRaw(t *testing.T) {
	ext, _ := newFakeExtractor(t, &enginetest.Fake{})
	dir := t.TempDir()

	out := filepath.Join(dir, "raw.txt")
	require.NoError(t, ext.SaveRaw("caf\xe9 ok", out))
	data, err := os.ReadFile(out)
	require.NoError(t, err)
	assert.Equal(t, "caf\uFFFD ok", string(data))

	assert.Error(t, ext.SaveRaw("x", filepath.Join(dir, "missing", "raw.txt")))
}

func TestOutputDir(t *testing.T) {
	ext, _ := newFakeExtractor(t, &enginetest.Fake{})
	dest := t.TempDir()

	dir, err := ext.OutputDir(dest)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dest, "paper"), dir)
	assert.DirExists(t, dir)

	again, err := ext.OutputDir(dest)
	require.NoError(t, err)
	assert.Equal(t, dir, again)
}

func TestExtractor_NativeEngine(t *testing.T) {
	path := enginetest.WritePDF(t, t.TempDir(), "native.pdf", enginetest.Simple("Native Title"))
	eng, err := engine.New("native", engine.Options{})
	require.NoError(t, err)

	ext, err := New(path, eng, nil)
	require.NoError(t, err)

	title, ok := ext.Title()
	assert.True(t, ok)
	assert.Equal(t, "Native Title", title)

	md, err := ext.ExtractMarkdown(MarkdownOptions{Cleaned: true})
	require.NoError(t, err)
	assert.Contains(t, md, "## Results")
	assert.Contains(t, md, "Hello World")

	text, err := ext.ExtractPlainText(Markers{Start: "Hello"})
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(text, "Hello"), text)
	assert.NotContains(t, text, "Results")
}

func TestExtractor_MuPDFEngine(t *testing.T) {
	dir := t.TempDir()
	eng, err := engine.New("", engine.Options{})
	require.NoError(t, err)

	titled, err := New(enginetest.WritePDF(t, dir, "titled.pdf", enginetest.Simple("MuPDF Title")), eng, nil)
	require.NoError(t, err)
	title, ok := titled.Title()
	assert.True(t, ok)
	assert.Equal(t, "MuPDF Title", title)

	untitled, err := New(enginetest.WritePDF(t, dir, "untitled.pdf", enginetest.Simple("")), eng, nil)
	require.NoError(t, err)
	title, ok = untitled.Title()
	assert.False(t, ok)
	assert.Empty(t, title)

	md, err := titled.ExtractMarkdown(MarkdownOptions{Cleaned: true})
	require.NoError(t, err)
	assert.Contains(t, md, "Results")
	assert.Contains(t, md, "Hello World")
	assert.NotContains(t, md, "\x00")

	text, err := titled.ExtractPlainText(Markers{Start: "Hello"})
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(text, "Hello"), text)
}
