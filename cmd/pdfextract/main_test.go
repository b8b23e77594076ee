// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"bytes"
	"testing"
	"time"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pdiddy/pdfextract/internal/engine"
	"github.com/pdiddy/pdfextract/pkg/types"
)

func TestRootCommands(t *testing.T) {
	var names []string
	for _, c := range rootCmd.Commands() {
		names = append(names, c.Name())
	}
	for _, want := range []string{"extract", "markdown", "text", "title", "validate", "catalog", "fetch", "version"} {
		assert.Contains(t, names, want)
	}
}

func TestLoadConfig_DefaultsAndFlags(t *testing.T) {
	t.Cleanup(viper.Reset)
	viper.Reset()
	setDefaults()

	require.NoError(t, extractCmd.Flags().Set("dest", "/tmp/out"))
	require.NoError(t, extractCmd.Flags().Set("cleaned", "true"))
	t.Cleanup(func() {
		extractCmd.Flags().Set("dest", "")
		extractCmd.Flags().Set("cleaned", "false")
	})
	require.NoError(t, bindFlags(extractCmd.Flags(), map[string]string{
		"dest":    "extraction.destination",
		"cleaned": "extraction.cleaned",
		"backend": "extraction.backend",
	}))

	cfg, err := loadConfig()
	require.NoError(t, err)
	assert.Equal(t, "/tmp/out", cfg.Extraction.Destination)
	assert.True(t, cfg.Extraction.Cleaned)
	assert.Equal(t, types.BackendMuPDF, cfg.Extraction.Backend)
	assert.Equal(t, engine.DefaultMarkitdownImage, cfg.Extraction.MarkitdownImage)
	assert.Equal(t, 50, cfg.Catalog.MaxResults)
	assert.Equal(t, 5, cfg.Fetch.MaxRetries)
	assert.Equal(t, 60*time.Second, cfg.Fetch.Timeout)
}

func TestBindFlags_UnknownFlag(t *testing.T) {
	t.Cleanup(viper.Reset)
	assert.Error(t, bindFlags(extractCmd.Flags(), map[string]string{"no-such-flag": "x"}))
}

func TestNewEngine(t *testing.T) {
	eng, err := newEngine(types.ExtractionConfig{Backend: types.BackendNative})
	require.NoError(t, err)
	assert.Equal(t, types.BackendNative, eng.Name())

	_, err = newEngine(types.ExtractionConfig{Backend: "ghostscript"})
	assert.Error(t, err)

	_, err = newEngine(types.ExtractionConfig{Backend: types.BackendMarkitdown, ContainerRuntime: "lxc"})
	assert.Error(t, err)
}

func TestPrintContent(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, printContent(&buf, "no newline"))
	require.NoError(t, printContent(&buf, "has newline\n"))
	require.NoError(t, printContent(&buf, ""))
	assert.Equal(t, "no newline\nhas newline\n", buf.String())
}

func TestTruncate(t *testing.T) {
	assert.Equal(t, "short", truncate("short", 10))
	assert.Equal(t, "abcdefg...", truncate("abcdefghijklmnop", 10))
	assert.Equal(t, "ééééééé...", truncate("éééééééééééé", 10))
}
