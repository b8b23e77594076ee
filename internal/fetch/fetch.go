// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package fetch downloads PDFs over HTTP(S) into a local directory.
package fetch

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"mime"
	"net/http"
	"net/url"
	"os"
	"path"
	"path/filepath"
	"strings"
	"time"

	"github.com/pdiddy/pdfextract/internal/logging"
	"github.com/pdiddy/pdfextract/pkg/types"
)

const (
	defaultTimeout   = 60 * time.Second
	defaultUserAgent = "pdfextract/1.0"
	defaultFileName  = "download.pdf"
)

// pdfMagic opens every PDF file.
var pdfMagic = []byte("%PDF-")

var (
	// ErrUnsupportedScheme reports a URL that is not http or https.
	ErrUnsupportedScheme = errors.New("unsupported URL scheme")

	// ErrHTTPStatus reports a non-200 response.
	ErrHTTPStatus = errors.New("unexpected HTTP status")

	// ErrNotPDF reports a response body that does not start with %PDF-.
	ErrNotPDF = errors.New("response is not a PDF")
)

// TokenSource supplies bearer tokens per host. secrets.Secrets implements it.
type TokenSource interface {
	FetchToken(host string) string
}

// Client downloads PDFs.
type Client struct {
	http       *http.Client
	userAgent  string
	maxRetries int
	tokens     TokenSource
	log        logging.Logger
}

// NewClient builds a Client from the fetch config section. A nil hc gets a
// client with cfg.Timeout (default 60s).
func NewClient(hc *http.Client, cfg types.FetchConfig, log logging.Logger) *Client {
	if hc == nil {
		timeout := cfg.Timeout
		if timeout <= 0 {
			timeout = defaultTimeout
		}
		hc = &http.Client{Timeout: timeout}
	}
	ua := cfg.UserAgent
	if ua == "" {
		ua = defaultUserAgent
	}
	if log == nil {
		log = logging.Nop()
	}
	return &Client{http: hc, userAgent: ua, maxRetries: cfg.MaxRetries, log: log}
}

// WithTokens makes the client send "Authorization: Bearer" headers for hosts
// that ts has a token for.
func (c *Client) WithTokens(ts TokenSource) *Client {
	c.tokens = ts
	return c
}

// Download fetches rawURL into dir and returns the written path. The file
// name comes from Content-Disposition, then the URL path, and always ends in
// .pdf. An existing file with the same name is replaced.
func (c *Client) Download(ctx context.Context, rawURL, dir string) (string, error) {
	u, err := url.Parse(rawURL)
	if err != nil {
		return "", fmt.Errorf("parsing URL %q: %w", rawURL, err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return "", fmt.Errorf("%s: %w %q", rawURL, ErrUnsupportedScheme, u.Scheme)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		return "", fmt.Errorf("building request: %w", err)
	}
	req.Header.Set("User-Agent", c.userAgent)
	req.Header.Set("Accept", "application/pdf")
	if c.tokens != nil {
		if tok := c.tokens.FetchToken(u.Hostname()); tok != "" {
			req.Header.Set("Authorization", "Bearer "+tok)
		}
	}

	resp, err := DoWithRetry(ctx, c.http, req, c.maxRetries, c.log)
	if err != nil {
		return "", fmt.Errorf("downloading %s: %w", rawURL, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("downloading %s: %w %d", rawURL, ErrHTTPStatus, resp.StatusCode)
	}

	body := bufio.NewReader(resp.Body)
	head, err := body.Peek(len(pdfMagic))
	if err != nil || string(head) != string(pdfMagic) {
		return "", fmt.Errorf("downloading %s: %w", rawURL, ErrNotPDF)
	}

	name := FileName(u, resp.Header.Get("Content-Disposition"))
	dst := filepath.Join(dir, name)
	if err := writeAtomic(dir, dst, body); err != nil {
		return "", err
	}
	c.log.Infof("downloaded %s to %s", rawURL, dst)
	return dst, nil
}

// FileName derives a local .pdf file name for a download.
func FileName(u *url.URL, contentDisposition string) string {
	var name string
	if contentDisposition != "" {
		if _, params, err := mime.ParseMediaType(contentDisposition); err == nil {
			name = params["filename"]
		}
	}
	if name == "" && u != nil {
		name = path.Base(u.Path)
	}

	name = filepath.Base(strings.ReplaceAll(name, "\\", "/"))
	if name == "." || name == "/" || name == "" {
		name = defaultFileName
	}
	if !strings.EqualFold(filepath.Ext(name), ".pdf") {
		name += ".pdf"
	}
	return name
}

// writeAtomic streams r to a temp file in dir and renames it to dst.
func writeAtomic(dir, dst string, r io.Reader) error {
	tmp, err := os.CreateTemp(dir, ".download-*.pdf")
	if err != nil {
		return fmt.Errorf("creating temp file: %w", err)
	}
	defer os.Remove(tmp.Name())

	if _, err := io.Copy(tmp, r); err != nil {
		tmp.Close()
		return fmt.Errorf("writing %s: %w", dst, err)
	}
	if err := tmp.Chmod(0o644); err != nil {
		tmp.Close()
		return fmt.Errorf("writing %s: %w", dst, err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("writing %s: %w", dst, err)
	}
	if err := os.Rename(tmp.Name(), dst); err != nil {
		return fmt.Errorf("writing %s: %w", dst, err)
	}
	return nil
}
