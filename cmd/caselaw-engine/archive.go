// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/pdiddy/caselaw-engine/internal/archive"
)

var archiveCmd = &cobra.Command{
	Use:   "archive",
	Short: "Query and export the local opinion archive",
	Long: `Archive manages a local SQLite database of previously fetched opinions.
Populate it with the --archive flag on search or recent; use subcommands
to query it offline or export it.`,
}

// --- search subcommand ---

var archiveSearchCmd = &cobra.Command{
	Use:   "search [query]",
	Short: "Search archived opinions offline",
	Long: `Search queries the archive with FTS5 full-text search over case names
and citations, structured filters (court, date range), or both. No
network access is involved.`,
	RunE: runArchiveSearch,
}

func runArchiveSearch(cmd *cobra.Command, args []string) error {
	store, err := archive.NewStore(archiveConfig())
	if err != nil {
		return err
	}
	defer store.Close()

	opts := archiveOptsFromFlags(cmd, args)
	if opts.IsEmpty() {
		return fmt.Errorf("query or filter required: provide a search query, --court, --from, or --to")
	}

	results, err := store.Retrieve(cmd.Context(), opts)
	if err != nil {
		return err
	}

	jsonOutput, _ := cmd.Flags().GetBool("json")
	return formatArchiveOutput(results, jsonOutput)
}

func formatArchiveOutput(results []archive.ArchivedOpinion, jsonOutput bool) error {
	if jsonOutput {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(results)
	}

	if len(results) == 0 {
		fmt.Println("No results found.")
		return nil
	}

	fmt.Fprintf(os.Stdout, "%-4s  %-45s  %-30s  %-10s  %s\n",
		"Rank", "Case", "Court", "Filed", "Citation")
	fmt.Fprintln(os.Stdout, strings.Repeat("-", 110))

	for i, r := range results {
		caseName := r.CaseName
		if len(caseName) > 45 {
			caseName = caseName[:42] + "..."
		}
		court := r.Court
		if len(court) > 30 {
			court = court[:27] + "..."
		}
		fmt.Fprintf(os.Stdout, "%-4d  %-45s  %-30s  %-10s  %s\n",
			i+1, caseName, court, r.DateFiled, r.Citation)
	}

	fmt.Fprintf(os.Stdout, "\n%d results\n", len(results))
	return nil
}

// --- export subcommand ---

var archiveExportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export the archive to YAML or JSON",
	Long: `Export writes the full archive (or a filtered subset) to
archive/index/export.yaml or export.json. Supports the same filter
flags as search for partial exports.`,
	RunE: runArchiveExport,
}

func runArchiveExport(cmd *cobra.Command, args []string) error {
	format, _ := cmd.Flags().GetString("format")

	store, err := archive.NewStore(archiveConfig())
	if err != nil {
		return err
	}
	defer store.Close()

	opts := archiveOptsFromFlags(cmd, args)

	switch format {
	case "yaml", "":
		if err := store.ExportYAML(cmd.Context(), opts); err != nil {
			return err
		}
		fmt.Println("Exported to archive/index/export.yaml")
	case "json":
		if err := store.ExportJSON(cmd.Context(), opts); err != nil {
			return err
		}
		fmt.Println("Exported to archive/index/export.json")
	default:
		return fmt.Errorf("unsupported format %q: use yaml or json", format)
	}

	return nil
}

// --- shared helpers ---

func archiveOptsFromFlags(cmd *cobra.Command, args []string) archive.QueryOptions {
	queryText := strings.Join(args, " ")
	court, _ := cmd.Flags().GetString("court")
	from, _ := cmd.Flags().GetString("from")
	to, _ := cmd.Flags().GetString("to")
	limit, _ := cmd.Flags().GetInt("limit")

	return archive.QueryOptions{
		Query:      queryText,
		Court:      court,
		DateFrom:   from,
		DateTo:     to,
		MaxResults: limit,
	}
}

func init() {
	archiveCmd.PersistentFlags().String("archive-dir", "archive", "base directory for the archive (contains index/)")
	viper.BindPFlag("archive.dir", archiveCmd.PersistentFlags().Lookup("archive-dir"))

	archiveSearchCmd.Flags().String("court", "", "filter by court name substring")
	archiveSearchCmd.Flags().String("from", "", "filing date range start (YYYY-MM-DD)")
	archiveSearchCmd.Flags().String("to", "", "filing date range end (YYYY-MM-DD)")
	archiveSearchCmd.Flags().Int("limit", 0, "maximum results (0 = use default)")
	archiveSearchCmd.Flags().Bool("json", false, "output results as JSON")

	archiveExportCmd.Flags().String("format", "yaml", "export format: yaml or json")
	archiveExportCmd.Flags().String("court", "", "filter by court name substring for partial export")
	archiveExportCmd.Flags().String("from", "", "filing date range start for partial export")
	archiveExportCmd.Flags().String("to", "", "filing date range end for partial export")
	archiveExportCmd.Flags().Int("limit", 0, "maximum opinions to export (0 = all)")

	archiveCmd.AddCommand(archiveSearchCmd)
	archiveCmd.AddCommand(archiveExportCmd)

	rootCmd.AddCommand(archiveCmd)
}
