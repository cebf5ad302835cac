// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"
)

var recentCmd = &cobra.Command{
	Use:   "recent",
	Short: "List recently filed opinions",
	Long: `Recent lists opinions from the CourtListener opinion endpoint. Without
date flags it is bounded to opinions filed today; --from and --to set an
explicit window.`,
	RunE: runRecent,
}

func runRecent(cmd *cobra.Command, args []string) error {
	limit, err := limitFromFlags(cmd)
	if err != nil {
		return err
	}
	query, err := queryFromFlags(cmd, "")
	if err != nil {
		return err
	}

	quiet, _ := cmd.Flags().GetBool("quiet")
	client := newSearchClient(quiet)

	out, err := client.Recent(cmd.Context(), query, limit)
	if err != nil {
		return err
	}

	displayQuery := recentDisplayQuery(cmd)
	return finishRun(cmd, client, query, "opinions", displayQuery, limit, out)
}

// recentDisplayQuery describes the listing window for rendering.
func recentDisplayQuery(cmd *cobra.Command) string {
	from, _ := cmd.Flags().GetString("from")
	to, _ := cmd.Flags().GetString("to")
	switch {
	case from == "" && to == "":
		return fmt.Sprintf("opinions filed %s", time.Now().Format("2006-01-02"))
	case from == "":
		return fmt.Sprintf("opinions through %s", to)
	case to == "":
		return fmt.Sprintf("opinions from %s onward", from)
	}
	return fmt.Sprintf("opinions from %s to %s", from, to)
}

func init() {
	addFetchFlags(recentCmd)

	rootCmd.AddCommand(recentCmd)
}
