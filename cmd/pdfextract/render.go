// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/pdiddy/pdfextract/internal/extractor"
	"github.com/pdiddy/pdfextract/pkg/types"
)

var markdownCmd = &cobra.Command{
	Use:   "markdown <pdf>",
	Short: "Print the Markdown rendering of a PDF",
	Long: `Markdown renders a PDF to Markdown, promotes bold-only lines to level-2
headings, and prints the result to stdout or --out. --cleaned removes image
references; --start and --end keep only the content between two markers.`,
	Args: cobra.ExactArgs(1),
	RunE: runMarkdown,
}

var textCmd = &cobra.Command{
	Use:   "text <pdf>",
	Short: "Print the plain text of a PDF",
	Long: `Text prints every page's text separated by a blank line, to stdout or
--out. --start and --end keep only the content between two markers.`,
	Args: cobra.ExactArgs(1),
	RunE: runText,
}

var titleCmd = &cobra.Command{
	Use:   "title <pdf>",
	Short: "Print the title from the PDF metadata",
	Args:  cobra.ExactArgs(1),
	RunE:  runTitle,
}

// session is what the single-PDF commands work with.
type session struct {
	ext *extractor.Extractor
	cfg types.Config
	log *zap.SugaredLogger
}

// openExtractor binds keys, loads config, and builds an extractor for
// pdfPath. The caller must call close.
func openExtractor(cmd *cobra.Command, pdfPath string, keys map[string]string) (*session, error) {
	if err := bindFlags(cmd.Flags(), keys); err != nil {
		return nil, err
	}
	cfg, err := loadConfig()
	if err != nil {
		return nil, err
	}
	log := newLogger(cfg)

	eng, err := newEngine(cfg.Extraction)
	if err == nil {
		var ext *extractor.Extractor
		if ext, err = extractor.New(pdfPath, eng, log); err == nil {
			return &session{ext: ext, cfg: cfg, log: log}, nil
		}
	}
	log.Sync()
	return nil, err
}

func (s *session) close() { s.log.Sync() }

func (s *session) markers() extractor.Markers {
	return extractor.Markers{Start: s.cfg.Extraction.Start, End: s.cfg.Extraction.End}
}

var markerKeys = map[string]string{
	"backend": "extraction.backend",
	"start":   "extraction.start",
	"end":     "extraction.end",
}

func runMarkdown(cmd *cobra.Command, args []string) error {
	keys := map[string]string{"cleaned": "extraction.cleaned"}
	for k, v := range markerKeys {
		keys[k] = v
	}
	s, err := openExtractor(cmd, args[0], keys)
	if err != nil {
		return err
	}
	defer s.close()

	out, _ := cmd.Flags().GetString("out")
	opts := extractor.MarkdownOptions{Cleaned: s.cfg.Extraction.Cleaned, Markers: s.markers()}
	if out != "" {
		return s.ext.SaveMarkdown(out, extractor.SaveOptions{Cleaned: opts.Cleaned, Markers: opts.Markers})
	}
	md, err := s.ext.ExtractMarkdown(opts)
	if err != nil {
		return err
	}
	return printContent(os.Stdout, md)
}

func runText(cmd *cobra.Command, args []string) error {
	s, err := openExtractor(cmd, args[0], markerKeys)
	if err != nil {
		return err
	}
	defer s.close()

	out, _ := cmd.Flags().GetString("out")
	if out != "" {
		return s.ext.SavePlainText(out, extractor.SaveOptions{Markers: s.markers()})
	}
	text, err := s.ext.ExtractPlainText(s.markers())
	if err != nil {
		return err
	}
	return printContent(os.Stdout, text)
}

func runTitle(cmd *cobra.Command, args []string) error {
	s, err := openExtractor(cmd, args[0], map[string]string{"backend": "extraction.backend"})
	if err != nil {
		return err
	}
	defer s.close()

	title, ok := s.ext.Title()
	if !ok {
		title = "Untitled"
	}
	fmt.Println(title)
	return nil
}

// printContent writes content followed by a newline when it lacks one.
func printContent(w io.Writer, content string) error {
	if _, err := io.WriteString(w, content); err != nil {
		return err
	}
	if len(content) > 0 && content[len(content)-1] != '\n' {
		_, err := io.WriteString(w, "\n")
		return err
	}
	return nil
}

func init() {
	for _, c := range []*cobra.Command{markdownCmd, textCmd, titleCmd} {
		c.Flags().String("backend", "mupdf", "PDF engine: mupdf, native, or markitdown")
	}
	for _, c := range []*cobra.Command{markdownCmd, textCmd} {
		c.Flags().String("start", "", "keep content from the first occurrence of this marker")
		c.Flags().String("end", "", "keep content up to the first occurrence of this marker")
		c.Flags().String("out", "", "write to this file instead of stdout")
	}
	markdownCmd.Flags().Bool("cleaned", false, "remove image references")

	rootCmd.AddCommand(markdownCmd)
	rootCmd.AddCommand(textCmd)
	rootCmd.AddCommand(titleCmd)
}
