// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package secrets loads download credentials from a directory of plain-text
// files. The file name is the key and the trimmed contents are the value.
//
// Recognized keys: fetch-token (sent to every host) and fetch-token-<host>
// (sent only to that host, for example fetch-token-papers.example.org).
package secrets

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/pdiddy/pdfextract/internal/logging"
)

// DefaultDir is where the CLI looks for secrets.
const DefaultDir = ".secrets"

const fetchTokenKey = "fetch-token"

// Secrets maps key file names to their values.
type Secrets map[string]string

// Load reads every regular, non-hidden file in dir. A missing directory
// yields an empty set. Unreadable files are logged and skipped.
func Load(dir string, log logging.Logger) (Secrets, error) {
	if log == nil {
		log = logging.Nop()
	}
	entries, err := os.ReadDir(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return Secrets{}, nil
		}
		return nil, fmt.Errorf("reading secrets directory %s: %w", dir, err)
	}

	s := make(Secrets)
	for _, entry := range entries {
		name := entry.Name()
		if entry.IsDir() || strings.HasPrefix(name, ".") {
			continue
		}

		data, err := os.ReadFile(filepath.Join(dir, name))
		if err != nil {
			log.Warnf("could not read secret %s: %v", name, err)
			continue
		}
		if value := strings.TrimSpace(string(data)); value != "" {
			s[name] = value
		}
	}
	if len(s) > 0 {
		log.Debugf("loaded %d secret(s) from %s", len(s), dir)
	}
	return s, nil
}

// FetchToken returns the bearer token for downloads from host: the
// host-specific key when present, the generic one otherwise.
func (s Secrets) FetchToken(host string) string {
	if host != "" {
		if v, ok := s[fetchTokenKey+"-"+strings.ToLower(host)]; ok {
			return v
		}
	}
	return s[fetchTokenKey]
}
