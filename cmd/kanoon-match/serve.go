// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"context"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/pdiddy/kanoon-match/internal/lookup"
	"github.com/pdiddy/kanoon-match/internal/secrets"
	"github.com/pdiddy/kanoon-match/internal/server"
	"github.com/pdiddy/kanoon-match/internal/storage"
)

const shutdownTimeout = 10 * time.Second

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve title lookups over HTTP",
	Long: `Serve starts an HTTP server that answers POST /search and POST /find
with a JSON body {"title": "..."}. Responses carry the same object the root
command prints. GET /healthz reports liveness and GET /metrics exposes
Prometheus metrics.

The API token comes from the token config key, KANOON_MATCH_TOKEN or IK_TOKEN,
or the .secrets/indiankanoon-token file. Without one, lookups return 500.`,
	Args: cobra.NoArgs,
	RunE: runServe,
}

func init() {
	serveCmd.Flags().String("addr", defaultAddr, "listen address")
	_ = viper.BindPFlag("serve.addr", serveCmd.Flags().Lookup("addr"))

	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, args []string) error {
	token := secrets.Token(appCfg.Token, loadedSecrets)
	if token == "" {
		log.Warn("no API token configured; lookups will be refused")
	}

	store, err := storage.NewFileStorage(appCfg.DataDir)
	if err != nil {
		return err
	}
	defer store.Close()

	srv := server.New(server.Config{
		Finder:   lookup.New(newClient(token, store), log),
		TokenSet: token != "",
		Log:      log,
	})

	errCh := make(chan error, 1)
	go func() { errCh <- srv.Listen(appCfg.Serve.Addr) }()

	select {
	case err := <-errCh:
		return err
	case <-cmd.Context().Done():
		log.Info("shutting down")
		ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		return srv.Shutdown(ctx)
	}
}
