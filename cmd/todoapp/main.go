package main

import (
	"context"
	"errors"
	"flag"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"todoapp/internal/server"
	"todoapp/internal/storage"
	"todoapp/internal/storage/postgres"
	"todoapp/internal/storage/sqlite"
	"todoapp/internal/util"
)

func main() {
	addrFlag := flag.String("addr", util.EnvOrDefault("TODO_ADDR", ":8080"), "HTTP listen address")
	driverFlag := flag.String("driver", util.EnvOrDefault("TODO_DB_DRIVER", "sqlite"), "Storage engine: sqlite or postgres")
	dbFlag := flag.String("db", util.EnvOrDefault("TODO_DB_PATH", "data/todoapp.db"), "Path to sqlite database file")
	dsnFlag := flag.String("dsn", util.EnvOrDefault("TODO_DB_DSN", ""), "PostgreSQL connection string")
	staticFlag := flag.String("static", util.EnvOrDefault("TODO_STATIC_DIR", "web/dist"), "Directory with built frontend")
	flag.Parse()

	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo}))

	store, err := openStore(*driverFlag, *dbFlag, *dsnFlag, logger)
	if err != nil {
		logger.Error("unable to open database", slog.String("driver", *driverFlag), slog.String("error", err.Error()))
		os.Exit(1)
	}
	defer store.Close()

	srv := server.New(store, logger, *staticFlag)

	httpServer := &http.Server{
		Addr:    *addrFlag,
		Handler: srv.Engine(),
	}

	go func() {
		logger.Info("starting server", slog.String("addr", httpServer.Addr), slog.String("driver", *driverFlag))
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("server stopped unexpectedly", slog.String("error", err.Error()))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := httpServer.Shutdown(ctx); err != nil {
		logger.Error("failed to shutdown server", slog.String("error", err.Error()))
	}

	logger.Info("server stopped")
}

func openStore(driver, dbPath, dsn string, logger *slog.Logger) (storage.Store, error) {
	switch driver {
	case "postgres":
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return postgres.Open(ctx, dsn, logger)
	default:
		return sqlite.Open(dbPath, logger)
	}
}
