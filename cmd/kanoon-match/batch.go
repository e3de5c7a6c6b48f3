// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"errors"
	"fmt"
	"io/fs"
	"os"

	"github.com/spf13/cobra"

	"github.com/pdiddy/kanoon-match/internal/batch"
	"github.com/pdiddy/kanoon-match/internal/lookup"
	"github.com/pdiddy/kanoon-match/internal/secrets"
	"github.com/pdiddy/kanoon-match/internal/storage"
)

var errNoToken = errors.New("no API token: set token in the config file, KANOON_MATCH_TOKEN or IK_TOKEN, or write .secrets/indiankanoon-token")

var batchCmd = &cobra.Command{
	Use:   "batch <titles.yaml>",
	Short: "Look up every title listed in a YAML file",
	Long: `Batch reads a YAML file of the form

  titles:
    - Kesavananda Bharati
    - Minerva Mills

and looks each title up in order, pacing requests with the configured rate
limit. Outcomes, failures and a summary are written to the --out file.
A failed lookup does not stop the batch; the command exits non-zero if
any lookup failed. With --resume, titles already answered in an existing
--out file are reused and only the rest (including earlier failures) are
searched.`,
	Args: cobra.ExactArgs(1),
	RunE: runBatch,
}

func init() {
	batchCmd.Flags().String("out", "results.yaml", "path of the YAML results file")
	batchCmd.Flags().Bool("resume", false, "reuse outcomes already recorded in the --out file")

	rootCmd.AddCommand(batchCmd)
}

func runBatch(cmd *cobra.Command, args []string) error {
	token := secrets.Token(appCfg.Token, loadedSecrets)
	if token == "" {
		return errNoToken
	}
	outPath, _ := cmd.Flags().GetString("out")
	resume, _ := cmd.Flags().GetBool("resume")

	titles, err := batch.ReadTitles(args[0])
	if err != nil {
		return err
	}

	var prev *batch.ResultsFile
	if resume {
		prev, err = batch.ReadResults(outPath)
		if errors.Is(err, fs.ErrNotExist) {
			prev, err = nil, nil
		}
		if err != nil {
			return err
		}
	}

	store, err := storage.NewFileStorage(appCfg.DataDir)
	if err != nil {
		return err
	}
	defer store.Close()

	f := lookup.New(newClient(token, store), log)
	rf, runErr := batch.Run(cmd.Context(), f, titles, prev, os.Stderr)

	if err := batch.WriteResults(outPath, rf); err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Wrote %s\n", outPath)

	if runErr != nil {
		return runErr
	}
	if rf.Summary.HasFailures() {
		return fmt.Errorf("%d lookup(s) failed", rf.Summary.Failed)
	}
	return nil
}
