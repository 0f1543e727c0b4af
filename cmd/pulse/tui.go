package main

import (
	"fmt"
	"log/slog"
	"os"

	tea "charm.land/bubbletea/v2"
	"github.com/spf13/cobra"

	"github.com/pulsecoach/pulse/internal/client/strava"
	"github.com/pulsecoach/pulse/internal/config"
	"github.com/pulsecoach/pulse/internal/oauth"
	"github.com/pulsecoach/pulse/internal/paths"
	"github.com/pulsecoach/pulse/internal/store"
	"github.com/pulsecoach/pulse/internal/tui"
	"github.com/pulsecoach/pulse/internal/xsync"
)

func runTUI(cmd *cobra.Command, args []string) error {
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

	// stdout belongs to the TUI, so logging is discarded here
	logger := slog.New(slog.DiscardHandler)

	tokenSource := oauth.NewStoreTokenSource(oauth.NewConfig(cfg.Strava, ""), st.Tokens)
	client := strava.New(tokenSource, strava.WithBaseURL(cfg.APIBaseURL), strava.WithLogger(logger))

	svc := xsync.NewService(client, st, logger)
	fetcher := xsync.NewFetcher(svc)

	deps := tui.Deps{
		Ctx:          ctx,
		Logger:       logger,
		TokenChecker: tokenSource,
		Fetcher:      fetcher,
	}

	// only sync when a token exists, the dashboard can still score
	// whatever history is already stored
	if hasToken, err := tokenSource.HasToken(ctx); err == nil && hasToken {
		deps.SyncService = svc
	}

	model := tui.New(deps)

	p := tea.NewProgram(&model)

	if _, err := p.Run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return err
	}

	return nil
}
