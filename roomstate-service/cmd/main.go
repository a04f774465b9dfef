package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"golang.org/x/sync/errgroup"

	pkglog "github.com/weiawesome/wes-io-live/pkg/log"
	"github.com/weiawesome/wes-io-live/pkg/pubsub"
	"github.com/weiawesome/wes-io-live/roomstate-service/internal/bus"
	"github.com/weiawesome/wes-io-live/roomstate-service/internal/client"
	"github.com/weiawesome/wes-io-live/roomstate-service/internal/config"
	"github.com/weiawesome/wes-io-live/roomstate-service/internal/controller"
	"github.com/weiawesome/wes-io-live/roomstate-service/internal/handler"
	"github.com/weiawesome/wes-io-live/roomstate-service/internal/hub"
	"github.com/weiawesome/wes-io-live/roomstate-service/internal/relay"
	"github.com/weiawesome/wes-io-live/roomstate-service/internal/service"
	"github.com/weiawesome/wes-io-live/roomstate-service/internal/source"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		l := pkglog.L()
		l.Fatal().Err(err).Msg("failed to load configuration")
	}

	// Initialize structured logger
	pkglog.Init(pkglog.Config{Level: cfg.Log.Level, Pretty: cfg.Log.Pretty, ServiceName: "roomstate-service"})
	logger := pkglog.L()

	logger.Info().Str("host", cfg.Server.Host).Int("port", cfg.Server.Port).
		Str("pubsub", cfg.PubSub.Driver).Msg("starting roomstate-service")

	// Event bus carrying upstream events in and room events out
	ps, err := pubsub.NewPubSub(cfg.PubSub)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to create pubsub")
	}
	defer ps.Close()

	transport, err := client.NewHTTPTransport(cfg.Upstream.BaseURL, cfg.Upstream.Timeout)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to create upstream transport")
	}

	emitter := bus.NewEmitter()
	svc := service.NewRoomStateService(
		emitter,
		transport,
		service.Config{MultiGoal: cfg.Controller.MultiGoal},
		controller.WithLogger(logger),
	)

	relay.NewRelay(ps).Attach(emitter)

	h := hub.NewHub(hub.Config{
		PingInterval:   cfg.WebSocket.PingInterval,
		PongWait:       cfg.WebSocket.PongWait,
		WriteWait:      cfg.WebSocket.WriteWait,
		MaxMessageSize: cfg.WebSocket.MaxMessageSize,
	})
	emitter.OnAny(h.Forward)

	src := source.NewSource(ps, svc)

	router := handler.NewRouter(handler.NewWSHandler(h, svc), handler.NewHTTPHandler(svc))

	addr := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
	server := &http.Server{
		Addr:         addr,
		Handler:      pkglog.HTTPMiddleware(logger)(router),
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	g, gCtx := errgroup.WithContext(ctx)

	g.Go(func() error {
		h.Run()
		return nil
	})

	g.Go(func() error {
		src.Run(gCtx)
		return nil
	})

	g.Go(func() error {
		logger.Info().Str("addr", addr).Msg("roomstate-service listening")
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("server error: %w", err)
		}
		return nil
	})

	g.Go(func() error {
		<-gCtx.Done()
		logger.Info().Msg("shutting down roomstate-service")

		<-src.Done() // 1. wait for the upstream loop to exit
		h.Stop()     // 2. close all WS clients, stop Hub.Run()

		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return server.Shutdown(shutdownCtx)
	})

	if err := g.Wait(); err != nil {
		logger.Error().Err(err).Msg("roomstate-service stopped with error")
		return
	}
	logger.Info().Msg("roomstate-service stopped")
}
