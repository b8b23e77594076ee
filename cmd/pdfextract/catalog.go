// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"
	"go.yaml.in/yaml/v3"

	"github.com/pdiddy/pdfextract/internal/catalog"
	"github.com/pdiddy/pdfextract/pkg/types"
)

var catalogCmd = &cobra.Command{
	Use:   "catalog",
	Short: "Query and export the catalog of extracted documents",
	Long: `Catalog reads the SQLite database that extract writes one record per
processed PDF into. Use subcommands to list, show, or export records.`,
}

var catalogListCmd = &cobra.Command{
	Use:   "list [query]",
	Short: "List catalogued documents",
	RunE:  runCatalogList,
}

var catalogShowCmd = &cobra.Command{
	Use:   "show <id>",
	Short: "Show one catalogued document as YAML",
	Args:  cobra.ExactArgs(1),
	RunE:  runCatalogShow,
}

var catalogExportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export the catalog to YAML or JSON",
	Long: `Export writes every catalogued document (or those with --status) to
--out, or to export.yaml / export.json next to catalog.db.`,
	RunE: runCatalogExport,
}

func openCatalog() (*catalog.Store, error) {
	cfg, err := loadConfig()
	if err != nil {
		return nil, err
	}
	return catalog.NewStore(cfg.Catalog)
}

func runCatalogList(cmd *cobra.Command, args []string) error {
	store, err := openCatalog()
	if err != nil {
		return err
	}
	defer store.Close()

	status, _ := cmd.Flags().GetString("status")
	limit, _ := cmd.Flags().GetInt("limit")
	docs, err := store.List(cmd.Context(), catalog.ListOptions{
		Status: types.ExtractionStatus(status),
		Query:  strings.Join(args, " "),
		Limit:  limit,
	})
	if err != nil {
		return err
	}

	jsonOutput, _ := cmd.Flags().GetBool("json")
	if jsonOutput {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(docs)
	}

	if len(docs) == 0 {
		fmt.Println("No documents found.")
		return nil
	}

	tw := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tSTATUS\tBACKEND\tTITLE\tEXTRACTED")
	for _, d := range docs {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\n",
			d.ID, d.Status, d.Backend, truncate(d.Title, 50), d.ExtractedAt.Format("2006-01-02 15:04"))
	}
	if err := tw.Flush(); err != nil {
		return err
	}
	fmt.Printf("\n%d documents\n", len(docs))
	return nil
}

func runCatalogShow(cmd *cobra.Command, args []string) error {
	store, err := openCatalog()
	if err != nil {
		return err
	}
	defer store.Close()

	doc, err := store.Get(cmd.Context(), args[0])
	if err != nil {
		return err
	}
	data, err := yaml.Marshal(doc)
	if err != nil {
		return fmt.Errorf("marshaling document: %w", err)
	}
	_, err = os.Stdout.Write(data)
	return err
}

func runCatalogExport(cmd *cobra.Command, args []string) error {
	store, err := openCatalog()
	if err != nil {
		return err
	}
	defer store.Close()

	format, _ := cmd.Flags().GetString("format")
	out, _ := cmd.Flags().GetString("out")
	status, _ := cmd.Flags().GetString("status")
	opts := catalog.ListOptions{Status: types.ExtractionStatus(status)}

	var path string
	switch format {
	case "yaml", "":
		path, err = store.ExportYAML(cmd.Context(), out, opts)
	case "json":
		path, err = store.ExportJSON(cmd.Context(), out, opts)
	default:
		return fmt.Errorf("unsupported format %q: use yaml or json", format)
	}
	if err != nil {
		return err
	}
	fmt.Printf("Exported to %s\n", path)
	return nil
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n-3]) + "..."
}

func init() {
	catalogListCmd.Flags().String("status", "", "filter by status: extracted, failed")
	catalogListCmd.Flags().Int("limit", 0, "maximum results (0 = catalog.max_results)")
	catalogListCmd.Flags().Bool("json", false, "output results as JSON")

	catalogExportCmd.Flags().String("format", "yaml", "export format: yaml or json")
	catalogExportCmd.Flags().String("out", "", "output file (default: next to catalog.db)")
	catalogExportCmd.Flags().String("status", "", "export only documents with this status")

	catalogCmd.AddCommand(catalogListCmd)
	catalogCmd.AddCommand(catalogShowCmd)
	catalogCmd.AddCommand(catalogExportCmd)

	rootCmd.AddCommand(catalogCmd)
}
