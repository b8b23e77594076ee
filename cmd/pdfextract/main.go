// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package main is the entry point for the pdfextract CLI.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/pdiddy/pdfextract/internal/container"
	"github.com/pdiddy/pdfextract/internal/engine"
	"github.com/pdiddy/pdfextract/internal/logging"
	"github.com/pdiddy/pdfextract/internal/secrets"
	"github.com/pdiddy/pdfextract/pkg/types"
)

// version is set at build time via ldflags.
var version = "dev"

// rootCmd is the base command for the pdfextract CLI.
var rootCmd = &cobra.Command{
	Use:   "pdfextract",
	Short: "Extract Markdown and plain text from PDF files",
	Long: `pdfextract turns PDF documents into Markdown and plain text. Each PDF
gets its own output folder holding the Markdown, the text, a manifest, and
the PDF itself. Processed documents are recorded in a local SQLite catalog.

Engines: mupdf (default), native (pure Go), and markitdown (container).`,
	SilenceUsage: true,
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().String("config", "", "config file (default: ./pdfextract.yaml or ~/.config/pdfextract/pdfextract.yaml)")
	rootCmd.PersistentFlags().String("log-level", logging.LevelInfo, "log level: debug, info, warn, error")
	rootCmd.PersistentFlags().String("catalog-dir", "", "directory holding catalog.db")

	viper.BindPFlag("log.level", rootCmd.PersistentFlags().Lookup("log-level"))
	viper.BindPFlag("catalog.dir", rootCmd.PersistentFlags().Lookup("catalog-dir"))
}

func initConfig() {
	setDefaults()

	cfgFile, _ := rootCmd.PersistentFlags().GetString("config")
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.SetConfigName("pdfextract")
		viper.SetConfigType("yaml")
		viper.AddConfigPath(".")

		home, err := os.UserHomeDir()
		if err == nil {
			viper.AddConfigPath(filepath.Join(home, ".config", "pdfextract"))
		}
	}

	viper.SetEnvPrefix("PDFEXTRACT")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err == nil {
		fmt.Fprintln(os.Stderr, "Using config file:", viper.ConfigFileUsed())
	}
}

func setDefaults() {
	viper.SetDefault("extraction.backend", string(types.BackendMuPDF))
	viper.SetDefault("extraction.markitdown_image", engine.DefaultMarkitdownImage)
	viper.SetDefault("extraction.container_runtime", container.RuntimeAuto)
	viper.SetDefault("catalog.dir", defaultCatalogDir())
	viper.SetDefault("catalog.max_results", 50)
	viper.SetDefault("fetch.timeout", "60s")
	viper.SetDefault("fetch.user_agent", "pdfextract/"+version)
	viper.SetDefault("fetch.max_retries", 5)
	viper.SetDefault("fetch.secrets_dir", secrets.DefaultDir)
	viper.SetDefault("log.level", logging.LevelInfo)
}

func defaultCatalogDir() string {
	if dir, err := os.UserConfigDir(); err == nil {
		return filepath.Join(dir, "pdfextract")
	}
	return ".pdfextract"
}

// bindFlags binds command-local flags to config keys. Binding happens when
// the command runs so commands sharing a key do not shadow one another.
func bindFlags(flags *pflag.FlagSet, keys map[string]string) error {
	for flag, key := range keys {
		if err := viper.BindPFlag(key, flags.Lookup(flag)); err != nil {
			return fmt.Errorf("binding --%s: %w", flag, err)
		}
	}
	return nil
}

// loadConfig decodes the merged flag, env, file, and default settings.
func loadConfig() (types.Config, error) {
	var cfg types.Config
	if err := viper.Unmarshal(&cfg); err != nil {
		return cfg, fmt.Errorf("decoding configuration: %w", err)
	}
	return cfg, nil
}

// newLogger builds the CLI logger from the log section.
func newLogger(cfg types.Config) *zap.SugaredLogger {
	return logging.New(cfg.Log.Level)
}

// newEngine builds the engine selected by the extraction section.
func newEngine(cfg types.ExtractionConfig) (engine.Engine, error) {
	backend, err := engine.ParseBackend(string(cfg.Backend))
	if err != nil {
		return nil, err
	}

	opts := engine.Options{MarkitdownImage: cfg.MarkitdownImage}
	if backend == types.BackendMarkitdown {
		rt, err := container.SelectRuntime(cfg.ContainerRuntime)
		if err != nil {
			return nil, err
		}
		opts.Runtime = rt
	}
	return engine.New(backend, opts)
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		stop()
		os.Exit(1)
	}
}
