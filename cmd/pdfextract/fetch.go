// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/pdiddy/pdfextract/internal/fetch"
	"github.com/pdiddy/pdfextract/internal/logging"
	"github.com/pdiddy/pdfextract/internal/secrets"
	"github.com/pdiddy/pdfextract/pkg/types"
)

var fetchCmd = &cobra.Command{
	Use:   "fetch <url...>",
	Short: "Download PDFs over HTTP(S)",
	Long: `Fetch downloads each URL into --dir. Responses with HTTP 429 are retried
with exponential backoff; non-200 responses and bodies that are not PDFs
are rejected.`,
	Args: cobra.MinimumNArgs(1),
	RunE: runFetch,
}

func runFetch(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	log := newLogger(cfg)
	defer log.Sync()

	dir, _ := cmd.Flags().GetString("dir")
	client, err := newFetchClient(cfg.Fetch, log)
	if err != nil {
		return err
	}

	var failed int
	for _, u := range args {
		path, err := client.Download(cmd.Context(), u, dir)
		if err != nil {
			fmt.Printf("failed:     %s (%v)\n", u, err)
			failed++
			continue
		}
		fmt.Printf("downloaded: %s\n", path)
	}
	if failed > 0 {
		return fmt.Errorf("%d download(s) failed", failed)
	}
	return nil
}

// newFetchClient builds a download client carrying the tokens found in the
// secrets directory.
func newFetchClient(cfg types.FetchConfig, log logging.Logger) (*fetch.Client, error) {
	s, err := secrets.Load(cfg.SecretsDir, log)
	if err != nil {
		return nil, err
	}
	return fetch.NewClient(nil, cfg, log).WithTokens(s), nil
}

func init() {
	fetchCmd.Flags().String("dir", ".", "directory to save PDFs into")
	rootCmd.AddCommand(fetchCmd)
}
