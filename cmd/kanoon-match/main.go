// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package main is the entry point for the kanoon-match CLI.
//
// The root command looks up one case title against the Indian Kanoon search
// API and prints a single JSON line naming the closest document. Subcommands
// serve the same lookup over HTTP, run it for a file of titles, and manage
// the response cache.
package main

import (
	"context"
	"os"
	"os/signal"
	"sort"
	"syscall"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/pdiddy/kanoon-match/internal/logging"
	"github.com/pdiddy/kanoon-match/internal/lookup"
	"github.com/pdiddy/kanoon-match/internal/search"
	"github.com/pdiddy/kanoon-match/internal/secrets"
	"github.com/pdiddy/kanoon-match/internal/storage"
	"github.com/pdiddy/kanoon-match/pkg/types"
)

// version is set at build time via ldflags.
var version = "dev"

var (
	// appCfg is the configuration resolved from file, environment and flags.
	appCfg types.AppConfig

	// loadedSecrets holds credentials loaded from .secrets/ at startup.
	loadedSecrets map[string]string

	log = logrus.StandardLogger()
)

// rootCmd looks up a single title.
var rootCmd = &cobra.Command{
	Use:   "kanoon-match <title> <token>",
	Short: "Find the Indian Kanoon document that best matches a case title",
	Long: `kanoon-match searches the Indian Kanoon API for a case title, takes the
top five results, and picks the one whose title is closest to the input.

It prints exactly one JSON line: the input, the best match and the top
results (title and URL each), or {"error": "No results found", "input": ...}
when the search returns nothing usable.`,
	Args: cobra.ExactArgs(2),
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		// Arguments are valid by now; later failures are not usage errors.
		cmd.SilenceUsage = true

		cfg, err := loadAppConfig()
		if err != nil {
			return err
		}
		appCfg = cfg

		l, err := logging.New(cfg.Log.Level, os.Stderr)
		if err != nil {
			return err
		}
		log = l
		if f := configFileUsed(); f != "" {
			log.WithField("file", f).Info("using config file")
		}

		s, err := secrets.Load(secrets.DefaultDir, log)
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
			log.WithField("keys", keys).Info("loaded secrets")
		}
		return nil
	},
	RunE: runLookup,
}

func runLookup(cmd *cobra.Command, args []string) error {
	title, token := args[0], args[1]

	store, err := storage.NewFileStorage(appCfg.DataDir)
	if err != nil {
		return err
	}
	defer store.Close()

	f := lookup.New(newClient(token, store), log)
	out, err := f.Find(cmd.Context(), search.NewQuery(title, f.Config))
	if err != nil {
		return err
	}
	return lookup.WriteJSON(cmd.OutOrStdout(), out)
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().String("config", "", "config file (default: ./kanoon-match.yaml or ~/.config/kanoon-match/config.yaml)")
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		stop()
		os.Exit(1)
	}
}
