package main

import (
	"context"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/joestump/bookmarks/internal/auth"
	"github.com/joestump/bookmarks/internal/config"
	"github.com/joestump/bookmarks/internal/db"
	"github.com/joestump/bookmarks/internal/handler"
	"github.com/joestump/bookmarks/internal/logger"
	"github.com/joestump/bookmarks/internal/server"
	"github.com/joestump/bookmarks/internal/store"
)

func newServeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Start the HTTP server",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load()
			if err != nil {
				return err
			}

			log, err := logger.New(cfg.Log.Level, cfg.Log.Pretty)
			if err != nil {
				return err
			}
			defer func() { _ = log.Sync() }()

			database, err := db.New(cfg.DB.Driver, cfg.DB.DSN)
			if err != nil {
				return err
			}
			defer func() { _ = database.Close() }()

			if err := db.Migrate(database, cfg.DB.Driver, log); err != nil {
				return err
			}

			bookmarkStore := store.NewBookmarkStore(database)

			router := handler.NewRouter(handler.Deps{
				DB:            database,
				BookmarkStore: bookmarkStore,
				BearerAuth:    auth.NewStaticBearer(cfg.API.Token, log),
				Logger:        log,
				APIPrefix:     cfg.HTTP.Prefix,
				Production:    cfg.Production(),
			})

			ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			log.Info("starting bookmarks",
				logger.String("env", cfg.Env),
				logger.String("db_driver", cfg.DB.Driver),
				logger.String("api_prefix", cfg.HTTP.Prefix),
			)
			return server.New(cfg.HTTP.Addr, router, log).Run(ctx, cfg.ShutdownTimeout)
		},
	}
}
