// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/pdiddy/caselaw-engine/internal/archive"
	"github.com/pdiddy/caselaw-engine/internal/export"
	"github.com/pdiddy/caselaw-engine/internal/search"
	"github.com/pdiddy/caselaw-engine/pkg/types"
)

// courtCache is the process-wide court-name cache, shared by every fetch
// in this invocation so repeat references cost one lookup.
var courtCache = search.NewCourtCache()

// newSearchClient builds a search client from config, secrets, and flags.
func newSearchClient(quiet bool) *search.Client {
	cfg := types.SearchConfig{
		HTTPConfig: types.HTTPConfig{
			Timeout:   viper.GetDuration("search.timeout"),
			UserAgent: viper.GetString("search.user_agent"),
		},
		BaseURL:  viper.GetString("search.base_url"),
		SiteURL:  viper.GetString("search.site_url"),
		APIToken: secretDefault("courtlistener-api-token", viper.GetString("search.api_token")),
		PageSize: viper.GetInt("search.page_size"),
	}

	c := search.NewClient(cfg, courtCache)
	c.Logger = logger
	if !quiet {
		c.Progress = func(page, planned, fetched int) {
			fmt.Fprintf(os.Stderr, "Fetched page %d/%d (%d results)\n", page, planned, fetched)
		}
	}
	return c
}

// queryFromFlags assembles a Query from the shared search/recent flags.
func queryFromFlags(cmd *cobra.Command, freeText string) (search.Query, error) {
	court, _ := cmd.Flags().GetString("court")
	fromStr, _ := cmd.Flags().GetString("from")
	toStr, _ := cmd.Flags().GetString("to")

	from, err := search.ParseDate("--from", fromStr)
	if err != nil {
		return search.Query{}, err
	}
	to, err := search.ParseDate("--to", toStr)
	if err != nil {
		return search.Query{}, err
	}

	return search.Query{
		FreeText: freeText,
		Court:    court,
		DateFrom: from,
		DateTo:   to,
	}, nil
}

// limitFromFlags reads and validates the result limit.
func limitFromFlags(cmd *cobra.Command) (int, error) {
	limit, _ := cmd.Flags().GetInt("limit")
	if limit == 0 {
		if limit = viper.GetInt("search.max_results"); limit == 0 {
			limit = 10
		}
	}
	if err := search.ParseLimit(limit); err != nil {
		return 0, err
	}
	return limit, nil
}

// finishRun renders, saves, exports, and archives a completed fetch.
func finishRun(cmd *cobra.Command, client *search.Client, query search.Query, endpoint, displayQuery string, limit int, out search.Outcome) error {
	ctx := cmd.Context()
	results := client.NormalizeAll(ctx, out.Results)

	jsonOutput, _ := cmd.Flags().GetBool("json")
	if jsonOutput {
		if err := search.FormatJSON(results, os.Stdout); err != nil {
			return err
		}
	} else {
		verbose, _ := cmd.Flags().GetBool("verbose")
		search.FormatList(results, displayQuery, verbose, os.Stdout)
	}
	search.FormatOutcome(out, os.Stderr)

	if savePath, _ := cmd.Flags().GetString("save"); savePath != "" {
		if err := search.WriteQueryFile(savePath, query, endpoint, limit, out, results); err != nil {
			return err
		}
		fmt.Fprintf(os.Stderr, "Search saved to %s\n", savePath)
	}

	if exportPath, _ := cmd.Flags().GetString("export"); exportPath != "" {
		if err := exportResults(results, exportPath); err != nil {
			return err
		}
		fmt.Fprintf(os.Stderr, "Results exported to %s\n", exportPath)
	}

	if doArchive, _ := cmd.Flags().GetBool("archive"); doArchive {
		if err := archiveResults(ctx, results, displayQuery); err != nil {
			return err
		}
	}

	return nil
}

// exportResults picks the export format from the file extension:
// .json writes JSON, anything else CSV.
func exportResults(results []types.Opinion, path string) error {
	if strings.HasSuffix(path, ".json") {
		return export.WriteJSON(results, path)
	}
	return export.WriteCSV(results, path)
}

func archiveResults(ctx context.Context, results []types.Opinion, queryText string) error {
	store, err := archive.NewStore(archiveConfig())
	if err != nil {
		return err
	}
	defer store.Close()

	_, err = store.Save(ctx, results, queryText, os.Stderr)
	return err
}

func archiveConfig() types.ArchiveConfig {
	dir := viper.GetString("archive.dir")
	if dir == "" {
		dir = "archive"
	}
	return types.ArchiveConfig{
		ArchiveDir: dir,
		MaxResults: viper.GetInt("archive.max_results"),
	}
}

// addFetchFlags registers the flags shared by search and recent.
func addFetchFlags(cmd *cobra.Command) {
	cmd.Flags().Int("limit", 0, "maximum number of results to return (default 10)")
	cmd.Flags().String("court", "", "filter by court slug (e.g. 'scotus', 'ca9')")
	cmd.Flags().String("from", "", "filing date range start (YYYY-MM-DD)")
	cmd.Flags().String("to", "", "filing date range end (YYYY-MM-DD)")
	cmd.Flags().String("export", "", "export results to a CSV file (.json for JSON)")
	cmd.Flags().String("save", "", "save query and results to a YAML query file")
	cmd.Flags().Bool("json", false, "output results as JSON")
	cmd.Flags().Bool("verbose", false, "show docket numbers and citations")
	cmd.Flags().Bool("archive", false, "store results in the local archive")
	cmd.Flags().Bool("quiet", false, "suppress per-page progress output")
}
