package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/taiwoajasa245/verse-companion/internal/app"
	"github.com/taiwoajasa245/verse-companion/internal/proxy"
	"github.com/taiwoajasa245/verse-companion/internal/server"
	"github.com/taiwoajasa245/verse-companion/pkg/config"
	"github.com/taiwoajasa245/verse-companion/pkg/logger"
)

func main() {
	cfg := config.LoadConfig()

	log, err := logger.New(cfg.AppEnv, cfg.LogLevel)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to build logger: %v\n", err)
		os.Exit(1)
	}
	defer log.Sync()

	if err := run(cfg, log); err != nil {
		log.Fatal("server exited", zap.Error(err))
	}
}

func run(cfg *config.Config, log *zap.Logger) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	a, err := app.New(ctx, cfg, log)
	if err != nil {
		return err
	}

	ask := proxy.NewHandler(a.Bible, log.Named("proxy"))
	srv := server.NewServer(cfg, a.Reader, ask, a.DB, log)
	httpServer := srv.HTTPServer()

	srv.StartBackgroundJobs()

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		log.Info("server running", zap.String("addr", httpServer.Addr), zap.String("storage", cfg.StorageDriver))
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("http server error: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		log.Info("shutting down gracefully, press Ctrl+C again to force")
		stop()

		// The context is used to inform the server it has 5 seconds to finish
		// the request it is currently handling
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := httpServer.Shutdown(shutdownCtx); err != nil {
			log.Error("server forced to shutdown", zap.Error(err))
		}
		return nil
	})

	err = g.Wait()
	srv.StopBackgroundJobs()

	closeCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if cerr := a.Close(closeCtx); cerr != nil {
		log.Error("failed to persist state on exit", zap.Error(cerr))
	}

	log.Info("graceful shutdown complete")
	return err
}
