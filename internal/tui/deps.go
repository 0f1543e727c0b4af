package tui

import (
	"context"
	"log/slog"

	"github.com/pulsecoach/pulse/internal/oauth"
	"github.com/pulsecoach/pulse/internal/xsync"
)

type Deps struct {
	Ctx          context.Context
	Cancel       context.CancelFunc
	Logger       *slog.Logger
	TokenChecker oauth.TokenChecker
	Fetcher      xsync.DataFetcher
	SyncService  xsync.SyncService
}
