// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

import "time"

// Backend identifies the PDF engine used for extraction.
type Backend string

const (
	// BackendMuPDF renders through MuPDF (go-fitz). It is the default.
	BackendMuPDF Backend = "mupdf"
	// BackendNative uses the pure-Go ledongthuc/pdf reader.
	BackendNative Backend = "native"
	// BackendMarkitdown renders Markdown through the markitdown container
	// image; text and metadata come from the native reader.
	BackendMarkitdown Backend = "markitdown"
)

// Backends lists every supported backend in display order.
var Backends = []Backend{BackendMuPDF, BackendNative, BackendMarkitdown}

// ExtractionConfig holds settings for the extract command and pipeline.
type ExtractionConfig struct {
	// Backend selects the PDF engine: mupdf, native, or markitdown.
	Backend Backend `json:"backend" yaml:"backend" mapstructure:"backend"`

	// Destination is the directory that receives one output folder per PDF.
	// Empty means the PDF's own parent directory.
	Destination string `json:"destination" yaml:"destination" mapstructure:"destination"`

	// Cleaned strips Markdown image references from the Markdown output.
	Cleaned bool `json:"cleaned" yaml:"cleaned" mapstructure:"cleaned"`

	// Start and End are optional literal markers used to slice the output.
	Start string `json:"start,omitempty" yaml:"start,omitempty" mapstructure:"start"`
	End   string `json:"end,omitempty" yaml:"end,omitempty" mapstructure:"end"`

	// KeepSource leaves the PDF where it is instead of moving it into its
	// output folder.
	KeepSource bool `json:"keep_source" yaml:"keep_source" mapstructure:"keep_source"`

	// Force re-extracts PDFs whose Markdown output already exists.
	Force bool `json:"force" yaml:"force" mapstructure:"force"`

	// Strict runs pdfcpu structural validation before extraction.
	Strict bool `json:"strict" yaml:"strict" mapstructure:"strict"`

	// MarkitdownImage is the container image used by the markitdown backend.
	MarkitdownImage string `json:"markitdown_image" yaml:"markitdown_image" mapstructure:"markitdown_image"`

	// ContainerRuntime picks docker, podman, or auto for the markitdown
	// backend.
	ContainerRuntime string `json:"container_runtime" yaml:"container_runtime" mapstructure:"container_runtime"`
}

// CatalogConfig holds settings for the SQLite document catalog.
type CatalogConfig struct {
	// Dir is the directory holding catalog.db.
	Dir string `json:"dir" yaml:"dir" mapstructure:"dir"`

	// Disabled turns off catalog recording during extraction.
	Disabled bool `json:"disabled" yaml:"disabled" mapstructure:"disabled"`

	// MaxResults is the default row limit for list queries (default 50).
	MaxResults int `json:"max_results" yaml:"max_results" mapstructure:"max_results"`
}

// FetchConfig holds HTTP settings for downloading PDFs.
type FetchConfig struct {
	// Timeout is the HTTP request timeout.
	Timeout time.Duration `json:"timeout" yaml:"timeout" mapstructure:"timeout"`

	// UserAgent is the User-Agent header sent with download requests.
	UserAgent string `json:"user_agent" yaml:"user_agent" mapstructure:"user_agent"`

	// MaxRetries is the number of retries on HTTP 429 (default 5).
	MaxRetries int `json:"max_retries" yaml:"max_retries" mapstructure:"max_retries"`

	// SecretsDir holds fetch-token files (default .secrets).
	SecretsDir string `json:"secrets_dir" yaml:"secrets_dir" mapstructure:"secrets_dir"`
}

// LogConfig holds logger settings.
type LogConfig struct {
	// Level is one of debug, info, warn, error.
	Level string `json:"level" yaml:"level" mapstructure:"level"`
}

// Config groups every configuration section of the tool.
type Config struct {
	Extraction ExtractionConfig `json:"extraction" yaml:"extraction" mapstructure:"extraction"`
	Catalog    CatalogConfig    `json:"catalog" yaml:"catalog" mapstructure:"catalog"`
	Fetch      FetchConfig      `json:"fetch" yaml:"fetch" mapstructure:"fetch"`
	Log        LogConfig        `json:"log" yaml:"log" mapstructure:"log"`
}
