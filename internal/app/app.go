// Package app composes the bot: configuration, logging, storage, the
// navigation engine and the Telegram runtime.
package app

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/jmoiron/sqlx"

	"staffbot/core/config"
	"staffbot/core/database"
	"staffbot/core/logger"
	coretg "staffbot/core/telegram"
	"staffbot/core/telegram/middleware"
	"staffbot/internal/balance"
	"staffbot/internal/content"
	"staffbot/internal/directory"
	"staffbot/internal/nav"
	"staffbot/internal/session"
	"staffbot/internal/sheets"
	tgbind "staffbot/internal/telegram"
)

// App holds the composed application.
type App struct {
	cfg *config.Config
	db  *sqlx.DB

	sessions *session.Store
	assets   *content.Assets
	resolver *directory.CachedResolver
	engine   *nav.Engine
	balance  *balance.Client
	renderer *tgbind.Renderer
	handlers *tgbind.Handlers
	syncer   *Syncer
}

// New initializes the logger, connects to Postgres, applies migrations and
// wires the services together.
func New(cfg *config.Config) (*App, error) {
	if cfg == nil {
		return nil, fmt.Errorf("app: nil config provided")
	}

	if err := logger.Init(cfg.Logging); err != nil {
		return nil, fmt.Errorf("app: logger init failed: %w", err)
	}

	db, err := database.Connect(cfg.Database)
	if err != nil {
		return nil, fmt.Errorf("app: database initialization failed: %w", err)
	}
	if err := database.RunMigrations(cfg.Database); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("app: migrations failed: %w", err)
	}

	assets := content.NewAssets(cfg.Content.TextDir, cfg.Content.ImageDir)
	registry := content.NewRegistry(content.DefaultEntries())
	sessions := session.NewStore()

	store := directory.NewPostgres(db)
	resolver := directory.NewCachedResolver(store, cfg.DirectoryCacheTTL(), time.Now)

	engine := nav.NewEngine(registry, assets, sessions)

	balanceClient := balance.NewClient(cfg.Balance.URL, cfg.Balance.APIKey, cfg.BalanceTimeout(), nil)

	feed := sheets.NewFeed(
		&http.Client{Timeout: 30 * time.Second},
		sheets.Sources{
			Operators:     sheetFromConfig(cfg.Roster.Operators),
			Consultants:   sheetFromConfig(cfg.Roster.Consultants),
			Phones:        sheetFromConfig(cfg.Roster.Phones),
			OperatorsRent: sheetFromConfig(cfg.Roster.OperatorsRent),
		},
		cfg.Roster.FixedRolesPath,
	)
	syncer := NewSyncer(feed, store, resolver, cfg.SyncInterval())

	renderer := tgbind.NewRenderer(sessions, assets, nil)
	handlers := tgbind.NewHandlers(engine, resolver, renderer, balanceClient)

	return &App{
		cfg:      cfg,
		db:       db,
		sessions: sessions,
		assets:   assets,
		resolver: resolver,
		engine:   engine,
		balance:  balanceClient,
		renderer: renderer,
		handlers: handlers,
		syncer:   syncer,
	}, nil
}

// TelegramRunOptions builds the bot runtime options: global middlewares,
// the route table and lifecycle hooks that own the roster sync task.
func (a *App) TelegramRunOptions() coretg.RunOptions {
	var syncCancel context.CancelFunc

	return coretg.RunOptions{
		Config: a.cfg,
		Middlewares: []coretg.Middleware{
			{Name: "recover", Use: middleware.Recover},
			{Name: "logging", Use: middleware.Logging},
		},
		Routes: a.handlers.Routes(),
		OnStart: func(ctx context.Context, rt coretg.Runtime) error {
			a.renderer.SetDispatcher(rt.Dispatcher)
			var syncCtx context.Context
			syncCtx, syncCancel = context.WithCancel(ctx)
			a.syncer.Start(syncCtx)
			return nil
		},
		OnStop: func(ctx context.Context, rt coretg.Runtime) error {
			if syncCancel != nil {
				syncCancel()
				a.syncer.Wait()
			}
			return nil
		},
	}
}

// Close releases held resources.
func (a *App) Close() error {
	if a.db != nil {
		return a.db.Close()
	}
	return nil
}

func sheetFromConfig(sc config.SheetConfig) sheets.Sheet {
	return sheets.Sheet{SpreadsheetID: sc.SpreadsheetID, GID: sc.GID}
}
