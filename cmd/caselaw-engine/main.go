// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package main is the entry point for the caselaw-engine CLI.
package main

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/pdiddy/caselaw-engine/internal/secrets"
)

// version is set at build time via ldflags.
var version = "dev"

// loadedSecrets holds API credentials loaded from .secrets/ at startup.
var loadedSecrets map[string]string

// logger is the process-wide diagnostic logger. Disabled unless
// --log-level is given.
var logger = zerolog.Nop()

// secretDefault returns the secret value for key if it exists, or fallback otherwise.
func secretDefault(key, fallback string) string {
	if fallback != "" {
		return fallback
	}
	if v, ok := loadedSecrets[key]; ok {
		return v
	}
	return ""
}

// rootCmd is the base command for the caselaw-engine CLI.
var rootCmd = &cobra.Command{
	Use:   "caselaw-engine",
	Short: "Search and archive CourtListener legal opinions",
	Long: `caselaw-engine queries the CourtListener opinion API. It paginates through
result sets up to a requested limit, resolves court identifiers to display
names through a process-wide cache, renders results for the operator, and
can export them to CSV/JSON or store them in a local searchable archive.

Searches are best effort: a network failure mid-fetch returns the pages
already received rather than discarding them.`,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		s, err := secrets.Load(".secrets/")
		if err != nil {
			return err
		}
		loadedSecrets = s
		if len(s) > 0 {
			keys := make([]string, 0, len(s))
			for k := range s {
				keys = append(keys, k)
			}
			sort.Strings(keys)
			fmt.Fprintf(os.Stderr, "Loaded secrets: %v\n", keys)
		}

		level, _ := cmd.Flags().GetString("log-level")
		if level != "" {
			parsed, err := zerolog.ParseLevel(level)
			if err != nil {
				return fmt.Errorf("invalid log level %q: %w", level, err)
			}
			logger = zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr}).
				Level(parsed).
				With().Timestamp().Logger()
		}
		return nil
	},
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().String("config", "", "config file (default: ./caselaw-engine.yaml or ~/.config/caselaw-engine/config.yaml)")
	rootCmd.PersistentFlags().String("log-level", "", "enable diagnostic logging: debug, info, warn, or error")
}

func initConfig() {
	cfgFile, _ := rootCmd.PersistentFlags().GetString("config")
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.SetConfigName("caselaw-engine")
		viper.SetConfigType("yaml")
		viper.AddConfigPath(".")

		home, err := os.UserHomeDir()
		if err == nil {
			viper.AddConfigPath(filepath.Join(home, ".config", "caselaw-engine"))
		}
	}

	viper.SetEnvPrefix("CASELAW_ENGINE")
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err == nil {
		fmt.Fprintln(os.Stderr, "Using config file:", viper.ConfigFileUsed())
	}
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
