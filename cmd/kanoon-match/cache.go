// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/pdiddy/kanoon-match/internal/storage"
)

var cacheCmd = &cobra.Command{
	Use:   "cache",
	Short: "Inspect or clear the search response cache",
	Long: `Cache manages the SQLite response cache kept in the data directory.
Responses are cached only when cache.enabled is true.`,
}

// --- list subcommand ---

var cacheListCmd = &cobra.Command{
	Use:   "list",
	Short: "List cached search responses",
	Args:  cobra.NoArgs,
	RunE:  runCacheList,
}

func runCacheList(cmd *cobra.Command, args []string) error {
	store, err := storage.NewFileStorage(appCfg.DataDir)
	if err != nil {
		return err
	}
	defer store.Close()

	entries, err := store.List(cmd.Context())
	if err != nil {
		return err
	}

	jsonOutput, _ := cmd.Flags().GetBool("json")
	return formatCacheList(cmd.OutOrStdout(), entries, jsonOutput)
}

func formatCacheList(w io.Writer, entries []storage.Entry, jsonOutput bool) error {
	if jsonOutput {
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(entries)
	}

	if len(entries) == 0 {
		fmt.Fprintln(w, "Cache is empty.")
		return nil
	}

	fmt.Fprintf(w, "%-50s  %-8s  %s\n", "Query", "Bytes", "Fetched")
	fmt.Fprintln(w, strings.Repeat("-", 85))
	for _, e := range entries {
		query := e.Query
		if len(query) > 50 {
			query = query[:47] + "..."
		}
		fmt.Fprintf(w, "%-50s  %-8d  %s\n", query, len(e.Payload), e.FetchedAt.Format("2006-01-02 15:04:05"))
	}
	fmt.Fprintf(w, "\n%d entries\n", len(entries))
	return nil
}

// --- purge subcommand ---

var cachePurgeCmd = &cobra.Command{
	Use:   "purge",
	Short: "Delete every cached search response",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		store, err := storage.NewFileStorage(appCfg.DataDir)
		if err != nil {
			return err
		}
		defer store.Close()

		n, err := store.Purge(cmd.Context())
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Purged %d cached response(s)\n", n)
		return nil
	},
}

func init() {
	cacheListCmd.Flags().Bool("json", false, "output entries as JSON")

	cacheCmd.AddCommand(cacheListCmd)
	cacheCmd.AddCommand(cachePurgeCmd)

	rootCmd.AddCommand(cacheCmd)
}
