// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/pdiddy/caselaw-engine/internal/search"
)

var courtsCmd = &cobra.Command{
	Use:   "courts",
	Short: "List popular court slugs",
	Long: `Courts prints commonly used court slugs accepted by the --court flag,
with their full names.`,
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Fprintf(os.Stdout, "%-8s  %s\n", "Slug", "Full Name")
		fmt.Fprintln(os.Stdout, strings.Repeat("-", 70))
		for _, court := range search.PopularCourts() {
			fmt.Fprintf(os.Stdout, "%-8s  %s\n", court[0], court[1])
		}
	},
}

func init() {
	rootCmd.AddCommand(courtsCmd)
}
