// Package main runs the eshop product service.
package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	_ "net/http/pprof"

	"github.com/Staphlerr/eshop-adpro/internal/app"
	"github.com/Staphlerr/eshop-adpro/internal/config"
	"github.com/Staphlerr/eshop-adpro/pkg/bootstrap"
	"github.com/Staphlerr/eshop-adpro/pkg/config/configloader"
	"github.com/Staphlerr/eshop-adpro/pkg/messaging"
	natsclient "github.com/Staphlerr/eshop-adpro/pkg/nats"
	"github.com/Staphlerr/eshop-adpro/pkg/telemetry"
	"golang.org/x/sync/errgroup"
)

const (
	serviceName     = "eshop"
	productSubjects = "products.>"
)

func main() {

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx); err != nil {
		log.Printf("application run failed: %v", err)
		os.Exit(1)
	}
	log.Println("application stopped gracefully")
}

// run loads the configuration, connects the optional integrations and serves HTTP until ctx is cancelled.
func run(ctx context.Context) error {
	cfg, cfgErr := configloader.Load[*config.Config](serviceName)
	if cfgErr != nil {
		return fmt.Errorf("failed to load configuration: %w", cfgErr)
	}
	log.Printf("Configuration loaded: %v", cfg)

	logger := bootstrap.NewLogger(cfg.Log.Level)
	slog.SetDefault(logger)

	g, gCtx := errgroup.WithContext(ctx)

	if cfg.Telemetry.Enabled {
		tracerProvider, err := telemetry.NewTracerProvider(ctx, serviceName, cfg.Telemetry)
		if err != nil {
			logger.Error("error creating tracer provider", slog.Any("error", err))
			return err
		}
		// gracefully shutdown tracer provider
		g.Go(func() error {
			<-gCtx.Done()
			logger.Info("Shutting down tracer provider")
			shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Shutdown.Timeout)
			defer cancel()
			if err := tracerProvider.Shutdown(shutdownCtx); err != nil {
				return fmt.Errorf("failed to shutdown tracer provider: %w", err)
			}
			return nil
		})
	}

	publisher, closePublisher, err := newPublisher(ctx, cfg, logger)
	if err != nil {
		return err
	}
	defer closePublisher()

	deps := app.SetupDependencies(cfg, publisher, logger)
	httpServer := app.SetupHttpServer(deps, cfg)
	pprofServer := &http.Server{
		Addr: cfg.PProf.Addr,
	}

	// Start the HTTP server
	g.Go(func() error {
		logger.Info("HTTP server listening", slog.String("addr", httpServer.Addr))
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("http server failed: %w", err)
		}
		return nil
	})
	// gracefully shutdown HTTP server on context cancellation
	g.Go(func() error {
		<-gCtx.Done()
		logger.Info("Shutting down HTTP server...")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Shutdown.Timeout)
		defer cancel()
		return httpServer.Shutdown(shutdownCtx)
	})

	// Start the pprof server if enabled
	if cfg.PProf.Enabled {
		g.Go(func() error {
			logger.Info("Pprof server listening", slog.String("addr", pprofServer.Addr))
			if err := pprofServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				return fmt.Errorf("pprof server failed: %w", err)
			}
			return nil
		})
		// gracefully shutdown pprof server on context cancellation
		g.Go(func() error {
			<-gCtx.Done()
			logger.Info("Shutting down pprof server...")
			shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Shutdown.Timeout)
			defer cancel()
			return pprofServer.Shutdown(shutdownCtx)
		})
	}

	if err := g.Wait(); err != nil && !errors.Is(err, context.Canceled) {
		return fmt.Errorf("errgroup encountered an error: %w", err)
	}
	return nil
}

// newPublisher connects to NATS JetStream when events are enabled.
// The returned func drains the connection; with events disabled both are no-ops.
func newPublisher(ctx context.Context, cfg *config.Config, logger *slog.Logger) (messaging.Publisher, func(), error) {
	if !cfg.Events.Enabled {
		logger.Info("Product events are disabled")
		return messaging.NopPublisher{}, func() {}, nil
	}

	nc, err := natsclient.NewClient(cfg.NATS.Url, cfg.NATS.Timeout)
	if err != nil {
		return nil, nil, err
	}
	js, err := natsclient.NewJetStreamContext(nc)
	if err != nil {
		return nil, nil, err
	}

	streamCtx, cancel := context.WithTimeout(ctx, cfg.NATS.Timeout)
	defer cancel()
	if err := natsclient.EnsureStream(streamCtx, js, cfg.NATS.Stream, productSubjects); err != nil {
		nc.Close()
		return nil, nil, err
	}
	logger.Info("Connected to NATS", slog.String("stream", cfg.NATS.Stream))

	closeFn := func() {
		if err := nc.Drain(); err != nil {
			logger.Error("Failed to drain NATS connection", slog.Any("error", err))
		}
	}
	return natsclient.NewNatsPublisher(js), closeFn, nil
}
