package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"bookcatalog/internal/book"
	"bookcatalog/internal/config"
	"bookcatalog/internal/httpx"
	"bookcatalog/internal/ingest"
	"bookcatalog/internal/logger"
	"bookcatalog/internal/platform/catalogsource"
	"bookcatalog/internal/user"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog/log"
)

func main() {
	config.LoadEnvFiles()

	cfg, err := config.Load()
	if err != nil {
		logger.Init("info", "json")
		log.Fatal().Err(err).Msg("invalid configuration")
	}
	logger.Init(cfg.LogLevel, cfg.LogFormat)

	dbPool := mustOpenDB(cfg.DatabaseDSN)
	defer dbPool.Close()

	bookRepository := book.NewPostgresRepo(dbPool, cfg.DBTimeout)
	userRepository := user.NewPostgresRepo(dbPool, cfg.DBTimeout)

	catalogClient := catalogsource.NewClient(catalogsource.Options{
		URL:         cfg.CatalogSource.URL,
		Timeout:     cfg.CatalogSource.Timeout,
		MinInterval: cfg.CatalogSource.MinInterval,
		UserAgent:   cfg.CatalogSource.UserAgent,
		MaxBytes:    cfg.CatalogSource.MaxBytes,
	})

	router := http.NewServeMux()
	registerRoutes(router, handlers{
		books: book.NewHTTPHandler(book.NewService(bookRepository)),
		sync:  ingest.NewHTTPHandler(ingest.NewService(catalogClient, bookRepository)),
		users: user.NewHTTPHandler(user.NewService(userRepository)),
		db:    dbPool,
	})

	handler := httpx.Chain(router,
		httpx.RequestIDMiddleware,
		httpx.RecoveryMiddleware,
		httpx.AccessLogMiddleware,
		httpx.SecurityHeadersMiddleware(cfg.EnableHSTS),
		httpx.CORSMiddleware(cfg.AllowedOrigins),
		httpx.RequestSizeLimitMiddleware(cfg.MaxBodyBytes),
	)

	// WriteTimeout must outlast a full upstream sync.
	httpServer := &http.Server{
		Addr:         cfg.Addr,
		Handler:      handler,
		ReadTimeout:  5 * time.Second,
		WriteTimeout: cfg.CatalogSource.Timeout + 15*time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		log.Info().Str("addr", cfg.Addr).Msg("starting server")
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("server error")
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)
	<-stop

	log.Info().Msg("shutting down")
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := httpServer.Shutdown(ctx); err != nil {
		log.Error().Err(err).Msg("graceful shutdown failed")
	}
}

func mustOpenDB(dsn string) *pgxpool.Pool {
	ctx := context.Background()
	pool, err := pgxpool.New(ctx, dsn)
	if err != nil {
		log.Fatal().Err(err).Msg("cannot create db pool")
	}
	pingCtx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()
	if err := pool.Ping(pingCtx); err != nil {
		pool.Close()
		log.Fatal().Err(err).Str("dsn", config.RedactDSN(dsn)).Msg("cannot ping database")
	}
	log.Info().Msg("database connection OK")
	return pool
}
