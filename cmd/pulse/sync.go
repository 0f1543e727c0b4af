package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/pulsecoach/pulse/internal/client/strava"
	"github.com/pulsecoach/pulse/internal/config"
	"github.com/pulsecoach/pulse/internal/oauth"
	"github.com/pulsecoach/pulse/internal/paths"
	"github.com/pulsecoach/pulse/internal/store"
	"github.com/pulsecoach/pulse/internal/xslog"
	"github.com/pulsecoach/pulse/internal/xsync"
)

func syncCmd() *cobra.Command {
	var full bool

	cmd := &cobra.Command{
		Use:   "sync",
		Short: "Pull recent activities from Strava",
		Long:  "Fetches activities newer than the local watermark. The first run backfills the full history.",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			cfg, err := config.Read()
			if err != nil {
				return fmt.Errorf("failed to read config: %w", err)
			}

			if _, err := paths.EnsureDir(); err != nil {
				return err
			}

			dbPath, err := paths.DB()
			if err != nil {
				return err
			}

			st, err := store.Open(ctx, dbPath)
			if err != nil {
				return fmt.Errorf("failed to open database: %w", err)
			}
			defer func() { _ = st.Close() }()

			logger := xslog.NewLoggerFromEnv(os.Stderr)

			tokenSource := oauth.NewStoreTokenSource(oauth.NewConfig(cfg.Strava, ""), st.Tokens)
			client := strava.New(tokenSource, strava.WithBaseURL(cfg.APIBaseURL), strava.WithLogger(logger))

			svc := xsync.NewService(client, st, logger)

			complete, err := svc.IsBackfillComplete(ctx)
			if err != nil {
				return err
			}

			if !complete || full {
				fmt.Println("Backfilling activity history...")
				if err := svc.Backfill(ctx); err != nil {
					return fmt.Errorf("backfill failed: %w", err)
				}
			}

			if err := svc.Refresh(ctx); err != nil {
				return fmt.Errorf("sync failed: %w", err)
			}

			count, err := st.Activities.Count(ctx)
			if err != nil {
				return err
			}

			fmt.Printf("Sync complete. %d activities stored.\n", count)
			return nil
		},
	}

	cmd.Flags().BoolVar(&full, "full", false, "re-fetch the entire backfill horizon")

	return cmd
}
