package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"golang.org/x/net/http2"
	"golang.org/x/net/http2/h2c"

	"github.com/peytondoyle/tabby/internal/api"
	"github.com/peytondoyle/tabby/internal/auth"
	"github.com/peytondoyle/tabby/internal/config"
	"github.com/peytondoyle/tabby/internal/metrics"
	"github.com/peytondoyle/tabby/internal/service"
	"github.com/peytondoyle/tabby/internal/storage/sqlite"
	"github.com/peytondoyle/tabby/pkg/logging"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("Failed to load configuration", "error", err)
		os.Exit(1)
	}

	logging.Setup(cfg.LogFormat, cfg.LogLevel)

	store, err := sqlite.New(cfg.DatabasePath)
	if err != nil {
		slog.Error("Failed to initialize storage", "error", err)
		os.Exit(1)
	}
	defer store.Close()
	slog.Info("Storage initialized", "database", cfg.DatabasePath)

	var m *metrics.Metrics
	if cfg.MetricsEnabled {
		m = metrics.New(nil)
	}

	tokens := auth.NewJWTManager(cfg.JWTSecret, cfg.TokenTTL)
	handler := &api.Handler{
		Bills:         service.NewBillService(store, m),
		Authenticator: auth.NewPasswordAuthenticator(store),
		Tokens:        tokens,
	}

	router := api.NewRouter(api.RouterConfig{
		Handler:            handler,
		Tokens:             tokens,
		Metrics:            m,
		CORSAllowedOrigins: cfg.CORSAllowedOrigins,
	})

	// h2c allows HTTP/2 without TLS for clients behind a terminating proxy.
	server := &http.Server{
		Addr:    cfg.HTTPAddr(),
		Handler: h2c.NewHandler(router, &http2.Server{}),
	}

	go func() {
		slog.Info("Server starting", "address", server.Addr)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			slog.Error("Server failed", "error", err)
			os.Exit(1)
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)
	<-stop

	slog.Info("Shutting down")
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(ctx); err != nil {
		slog.Error("Shutdown failed", "error", err)
	}
}
