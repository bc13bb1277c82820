// Package bot assembles the sticker order bot: the session flow, the order
// sink, the notifier, and their Telegram wiring.
package bot

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/jmoiron/sqlx"
	tele "gopkg.in/telebot.v4"

	coreconfig "github.com/m3rciful/stickerbot/core/config"
	coredatabase "github.com/m3rciful/stickerbot/core/database"
	"github.com/m3rciful/stickerbot/core/logger"
	coretelegram "github.com/m3rciful/stickerbot/core/telegram"
	"github.com/m3rciful/stickerbot/order"
	"github.com/m3rciful/stickerbot/storage"
)

// App holds the fully wired application.
type App struct {
	cfg      *coreconfig.Config
	handlers *Handlers
	db       *sqlx.DB // nil when the CSV backend is used
}

// NewApp builds the catalog, session store, flow, sink, and handlers from
// configuration. For the postgres backend it connects and applies migrations.
func NewApp(cfg *coreconfig.Config) (*App, error) {
	if cfg == nil {
		return nil, fmt.Errorf("app: nil config")
	}

	catalog, err := order.NewCatalog(cfg.Catalog)
	if err != nil {
		return nil, fmt.Errorf("app: %w", err)
	}
	store := order.NewStore()
	flow := order.NewFlow(catalog, store, cfg.Telegram.DoneToken)

	var (
		sink order.Sink
		db   *sqlx.DB
	)
	switch cfg.Orders.Backend {
	case coreconfig.BackendPostgres:
		db, err = coredatabase.Connect(cfg.Database, logger.DB)
		if err != nil {
			return nil, fmt.Errorf("app: %w", err)
		}
		if err := coredatabase.RunMigrations(cfg.Database, logger.MIG); err != nil {
			_ = db.Close()
			return nil, fmt.Errorf("app: %w", err)
		}
		sink = storage.NewPostgresSink(db)
	default:
		sink, err = storage.NewCSVSink(cfg.Orders.CSVPath)
		if err != nil {
			return nil, fmt.Errorf("app: %w", err)
		}
	}

	return &App{
		cfg:      cfg,
		handlers: NewHandlers(flow, sink, cfg.Telegram.AdminID, cfg.Telegram.AdminLink),
		db:       db,
	}, nil
}

// Run starts the Telegram runtime and blocks until ctx is cancelled.
func (a *App) Run(ctx context.Context) error {
	return coretelegram.Run(ctx, coretelegram.RunOptions{
		Config:      a.cfg,
		Middlewares: Middlewares(a.cfg),
		Routes:      a.handlers.Routes(),
		OnStart: func(ctx context.Context, _ *tele.Bot) error {
			logger.Info(ctx, "app", "ready",
				slog.String("orders_backend", a.cfg.Orders.Backend),
				slog.Int64("admin_id", a.cfg.Telegram.AdminID),
			)
			return nil
		},
		OnStop: func(ctx context.Context, _ *tele.Bot) error {
			logger.Info(ctx, "app", "shutdown")
			if a.db != nil {
				return a.db.Close()
			}
			return nil
		},
	})
}
