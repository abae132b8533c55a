package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/cmlabs-hris/hris-console/internal/config"
	"github.com/cmlabs-hris/hris-console/internal/devapi"
	"github.com/go-chi/httplog/v3"
	"golang.org/x/sync/errgroup"
)

func main() {
	cfg, err := config.LoadDevAPI()
	if err != nil {
		fmt.Println("Error loading config:", err)
		os.Exit(1)
	}

	logFormat := httplog.SchemaECS.Concise(false)
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		ReplaceAttr: logFormat.ReplaceAttr,
	})).With(
		slog.String("app", "hris-devapi"),
		slog.String("env", cfg.App.Env),
	)
	slog.SetDefault(logger)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg, logger); err != nil {
		logger.Error("devapi stopped", "error", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, cfg *config.Config, logger *slog.Logger) error {
	account, err := devapi.NewAccount(cfg.DevAPI.AdminUser, cfg.DevAPI.AdminEmail, cfg.DevAPI.AdminPassword)
	if err != nil {
		return fmt.Errorf("admin account: %w", err)
	}

	store := devapi.NewStore()
	devapi.Seed(store, cfg.DevAPI.SeedCount, time.Now())

	api := devapi.NewServer(store, account, devapi.Options{
		Secret:         cfg.DevAPI.JWTSecret,
		TokenTTL:       cfg.DevAPI.TokenTTL,
		AllowedOrigins: cfg.DevAPI.AllowedOrigins,
	})

	server := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.DevAPI.Port),
		Handler:           api.Routes(logger),
		ReadHeaderTimeout: 10 * time.Second,
	}

	g, gCtx := errgroup.WithContext(ctx)
	g.Go(func() error {
		logger.Info("devapi running", "addr", "http://localhost"+server.Addr, "employees", store.Len())
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-gCtx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return server.Shutdown(shutdownCtx)
	})

	return g.Wait()
}
