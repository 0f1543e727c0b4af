package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/pulsecoach/pulse/internal/config"
	"github.com/pulsecoach/pulse/internal/oauth"
	"github.com/pulsecoach/pulse/internal/paths"
	"github.com/pulsecoach/pulse/internal/store"
)

func authCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "auth",
		Short: "Connect your Strava account",
		Long:  "Opens the browser to authorize with Strava and stores the token locally.",
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
			defer func() {
				_ = st.Close()
			}()

			flow, err := buildFlow(cfg, st)
			if err != nil {
				return err
			}

			token, err := flow.Run(ctx)
			if err != nil {
				return fmt.Errorf("authentication failed: %w", err)
			}

			fmt.Printf("Connected to Strava!\n")
			fmt.Printf("Token expires: %s\n", token.Expiry.Format("2006-01-02 15:04:05"))

			return nil
		},
	}
}

// buildFlow picks the direct flow when the athlete supplied their own
// Strava application credentials, otherwise the hosted flow through the
// deployed server.
func buildFlow(cfg config.Config, st *store.Store) (oauth.Flow, error) {
	if cfg.Strava.ClientID != "" && cfg.Strava.ClientSecret != "" {
		return oauth.NewDirectFlow(oauth.NewConfig(cfg.Strava, ""), st.Tokens)
	}
	return oauth.NewHostedFlow(cfg.ServerURL, st.Tokens), nil
}
