package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/goliatone/go-auction-query/internal/config"
	"github.com/goliatone/go-auction-query/internal/httpapi"
	"github.com/goliatone/go-auction-query/pkg/di"
	"github.com/goliatone/go-auction-query/pkg/logger"
	"github.com/goliatone/go-auction-query/pkg/testsupport"
)

func main() {
	configPath := flag.String("config", "", "path to a configuration file (yaml, json or toml)")
	flag.Parse()

	if err := run(*configPath); err != nil {
		fmt.Fprintln(os.Stderr, "auctiond:", err)
		os.Exit(1)
	}
}

func run(configPath string) error {
	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}

	log, err := logger.New(cfg.Logger())
	if err != nil {
		return fmt.Errorf("logger: %w", err)
	}
	defer log.Sync()

	if !cfg.Log.Development {
		gin.SetMode(gin.ReleaseMode)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	opts := []di.Option{di.WithLogger(log)}
	if cfg.Database.Seed {
		// Demo data, relative to startup so the auctions are running.
		opts = append(opts, di.WithSeed(testsupport.SampleCategories(), testsupport.SampleCatalog(time.Now())))
	}

	container, err := di.NewContainer(ctx, cfg, opts...)
	if err != nil {
		return err
	}
	defer container.Close()

	handler := httpapi.NewHandler(container.Queries(), container.Registry())
	srv := &http.Server{
		Addr:    cfg.HTTP.Addr,
		Handler: httpapi.NewRouter(handler, container.Metrics(), log.Named("http")),
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info("listening", zap.String("addr", cfg.HTTP.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	log.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.HTTP.ShutdownTimeout)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}
