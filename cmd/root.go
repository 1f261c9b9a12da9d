// Package cmd defines and implements the CLI commands for the fitfindr-server
// executable.
package cmd

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/fitfindr/fitfindr-server/internal/api"
	"github.com/fitfindr/fitfindr-server/internal/app"
	"github.com/fitfindr/fitfindr-server/internal/config"
	"github.com/fitfindr/fitfindr-server/internal/pinterest"
	"github.com/fitfindr/fitfindr-server/internal/storage"
)

var cfgFile string

// appKeyType is the key for storing the App in the context.
type appKeyType string

const appKey appKeyType = "app"

// App defines the application surface that commands use. It exists so tests
// can inject a mock container.
type App interface {
	Close()
	Config() config.Config
	Logger() *zap.Logger
	Store() storage.Store
	Pipeline() *pinterest.Pipeline
	Server() *api.Server
}

// newApp is the application factory. It is a variable so tests can replace it
// with a mock factory.
var newApp = func(ctx context.Context) (App, error) {
	cfg, err := config.Load(cfgFile)
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	return app.New(ctx, cfg)
}

// newRootCmd creates and configures the root command. Services are built in
// PersistentPreRunE so every subcommand finds a ready container in its
// context, and torn down in PersistentPostRun.
func newRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "fitfindr-server",
		Short: "Fashion discovery service backed by Pinterest search.",
		Long: `fitfindr-server ingests fashion pins from the Scrape Creators Pinterest
API, normalizes them into a browsable catalog, and serves style
recommendations over HTTP. When the upstream is unreachable it degrades to
synthetic demo items so the catalog never comes back empty.`,

		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			appInstance, err := newApp(cmd.Context())
			if err != nil {
				return fmt.Errorf("initialize application services: %w", err)
			}
			cmd.SetContext(context.WithValue(cmd.Context(), appKey, appInstance))
			return nil
		},

		PersistentPostRun: func(cmd *cobra.Command, _ []string) {
			if appInstance, ok := cmd.Context().Value(appKey).(App); ok && appInstance != nil {
				appInstance.Close()
			}
		},
	}

	cmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (optional; env vars always apply)")

	cmd.AddCommand(newServeCmd())
	cmd.AddCommand(newScrapeCmd())

	return cmd
}

func resolveApp(ctx context.Context) (App, error) {
	appInstance, ok := ctx.Value(appKey).(App)
	if !ok || appInstance == nil {
		return nil, fmt.Errorf("application services not initialized")
	}
	return appInstance, nil
}

// Execute is the main entry point.
func Execute() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "command failed: %v\n", err)
		os.Exit(1)
	}
}
