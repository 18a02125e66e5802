package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"

	"github.com/banjul-labs/storefront/internal/config"
	"github.com/banjul-labs/storefront/internal/events"
	"github.com/banjul-labs/storefront/internal/fakestore"
	"github.com/banjul-labs/storefront/internal/httpserver"
	"github.com/banjul-labs/storefront/internal/logging"
	loggingmw "github.com/banjul-labs/storefront/internal/middleware/logging"
	"github.com/banjul-labs/storefront/internal/session"
	"github.com/banjul-labs/storefront/internal/store"
)

func main() {
	cfg := config.Load()
	logger := logging.New(cfg.LogLevel)

	e := echo.New()
	e.HideBanner = true

	e.Server.ReadTimeout = 10 * time.Second
	e.Server.WriteTimeout = 15 * time.Second
	e.Server.ReadHeaderTimeout = 3 * time.Second

	e.Use(loggingmw.RequestLogger(logger))
	e.Use(middleware.Recover())
	e.Use(middleware.CORS())

	clientOpts := []fakestore.Option{}
	if cfg.RedisAddr != "" {
		cache, err := fakestore.NewRedisCache(cfg.RedisAddr)
		if err != nil {
			log.Fatalf("redis init error: %v", err)
		}
		defer cache.Close()
		clientOpts = append(clientOpts, fakestore.WithCache(cache, cfg.CacheTTL))
		logger.Info("catalog cache enabled", "addr", cfg.RedisAddr, "ttl", cfg.CacheTTL.String())
	}

	client := fakestore.NewClient(cfg.FakeStoreURL, cfg.HTTPTimeout, clientOpts...)

	var producer *events.Producer
	if cfg.KafkaAddress != "" {
		producer = events.NewProducer(cfg.KafkaAddress, cfg.KafkaTopic)
		defer producer.Close()
		logger.Info("event publishing enabled", "addr", cfg.KafkaAddress, "topic", cfg.KafkaTopic)
	}

	sessions := session.NewManager(cfg.SessionTTL, func() *store.Store {
		return store.New(client, client)
	})

	janitorCtx, janitorCancel := context.WithCancel(context.Background())
	defer janitorCancel()
	go sessions.Run(janitorCtx)

	httpserver.Register(e, &httpserver.Deps{
		Sessions: sessions,
		Client:   client,
		Producer: producer,
	})

	go func() {
		logger.Info("starting storefront", "addr", cfg.ListenAddr, "upstream", cfg.FakeStoreURL)
		if err := e.Start(cfg.ListenAddr); err != nil && err != http.ErrServerClosed {
			log.Fatalf("echo start: %v", err)
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt)
	<-stop
	logger.Info("shutting down")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := e.Shutdown(shutdownCtx); err != nil {
		logger.Error("echo shutdown", "error", err)
	}

	logger.Info("server stopped")
}
