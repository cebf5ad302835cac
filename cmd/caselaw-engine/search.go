// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/pdiddy/caselaw-engine/internal/search"
)

var searchCmd = &cobra.Command{
	Use:   "search [query]",
	Short: "Search CourtListener opinions by full text",
	Long: `Search queries the CourtListener full-text search endpoint for opinions
matching the query, paginating up to --limit results. A failure mid-fetch
returns the pages already received with a warning instead of discarding them.

Use --load to re-render a previously saved query file without network access.`,
	RunE: runSearch,
}

func runSearch(cmd *cobra.Command, args []string) error {
	if loadPath, _ := cmd.Flags().GetString("load"); loadPath != "" {
		return runSearchLoad(cmd, loadPath)
	}

	queryText := strings.TrimSpace(strings.Join(args, " "))
	if queryText == "" {
		return fmt.Errorf("search query required (e.g. caselaw-engine search 'First Amendment')")
	}

	limit, err := limitFromFlags(cmd)
	if err != nil {
		return err
	}
	query, err := queryFromFlags(cmd, queryText)
	if err != nil {
		return err
	}

	quiet, _ := cmd.Flags().GetBool("quiet")
	client := newSearchClient(quiet)

	out, err := client.Search(cmd.Context(), query, limit)
	if err != nil {
		return err
	}

	return finishRun(cmd, client, query, "search", queryText, limit, out)
}

// runSearchLoad renders a saved query file and applies the export flag,
// with no network access.
func runSearchLoad(cmd *cobra.Command, path string) error {
	qf, err := search.ReadQueryFile(path)
	if err != nil {
		return err
	}

	jsonOutput, _ := cmd.Flags().GetBool("json")
	if jsonOutput {
		if err := search.FormatJSON(qf.Results, os.Stdout); err != nil {
			return err
		}
	} else {
		verbose, _ := cmd.Flags().GetBool("verbose")
		search.FormatList(qf.Results, qf.Query.FreeText, verbose, os.Stdout)
	}

	if exportPath, _ := cmd.Flags().GetString("export"); exportPath != "" {
		if err := exportResults(qf.Results, exportPath); err != nil {
			return err
		}
		fmt.Fprintf(os.Stderr, "Results exported to %s\n", exportPath)
	}
	return nil
}

func init() {
	addFetchFlags(searchCmd)
	searchCmd.Flags().String("load", "", "render a saved query file instead of searching")

	rootCmd.AddCommand(searchCmd)
}
