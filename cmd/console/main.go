package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/cmlabs-hris/hris-console/internal/config"
	"github.com/cmlabs-hris/hris-console/internal/domain/session"
	appHTTP "github.com/cmlabs-hris/hris-console/internal/handler/http"
	"github.com/cmlabs-hris/hris-console/internal/handler/http/view"
	"github.com/cmlabs-hris/hris-console/internal/pkg/apiclient"
	"github.com/cmlabs-hris/hris-console/internal/pkg/cron"
	"github.com/cmlabs-hris/hris-console/internal/pkg/database"
	"github.com/cmlabs-hris/hris-console/internal/pkg/jwt"
	"github.com/cmlabs-hris/hris-console/internal/repository/memory"
	"github.com/cmlabs-hris/hris-console/internal/repository/postgresql"
	serviceAuth "github.com/cmlabs-hris/hris-console/internal/service/auth"
	"github.com/cmlabs-hris/hris-console/internal/service/roster"
	"github.com/go-chi/httplog/v3"
	"golang.org/x/sync/errgroup"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Println("Error loading config:", err)
		os.Exit(1)
	}

	logger := newLogger(cfg)
	slog.SetDefault(logger)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg, logger); err != nil {
		logger.Error("console stopped", "error", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, cfg *config.Config, logger *slog.Logger) error {
	client, err := apiclient.New(cfg.API.BaseURL, apiclient.WithTimeout(cfg.API.Timeout))
	if err != nil {
		return fmt.Errorf("api client: %w", err)
	}

	store, closeStore, err := newSessionStore(ctx, cfg)
	if err != nil {
		return err
	}
	defer closeStore()

	views, err := view.New()
	if err != nil {
		return fmt.Errorf("templates: %w", err)
	}

	JWTService := jwt.NewJWTService(cfg.Session.Secret, cfg.Session.SecureCookie)
	authService := serviceAuth.NewAuthService(client, store, cfg.Session.TTL)
	registry := roster.NewRegistry(client, roster.Options{
		PageSize:        cfg.Roster.PageSize,
		NavigationDelay: cfg.Roster.NavigationDelay,
		RequireSalary:   cfg.Roster.RequireSalary,
	}, logger)
	defer registry.Close()

	guard := appHTTP.NewSessionGuard(authService, JWTService, registry, views)
	authHandler := appHTTP.NewAuthHandler(JWTService, authService, registry, views)
	employeeHandler := appHTTP.NewEmployeeHandler(registry, guard, views)

	router := appHTTP.NewRouter(logger, JWTService, guard, authHandler, employeeHandler)

	scheduler := cron.NewScheduler(logger)
	cron.NewSessionJobs(store, registry).RegisterJobs(scheduler, cfg.Session.SweepInterval)

	server := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.App.Port),
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	g, gCtx := errgroup.WithContext(ctx)

	g.Go(func() error {
		logger.Info("console running", "addr", "http://localhost"+server.Addr, "api", cfg.API.BaseURL)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})

	g.Go(func() error {
		scheduler.Start()
		<-gCtx.Done()
		scheduler.Stop()

		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return server.Shutdown(shutdownCtx)
	})

	return g.Wait()
}

func newSessionStore(ctx context.Context, cfg *config.Config) (session.Store, func(), error) {
	if cfg.Session.Store != config.SessionStorePostgres {
		return memory.NewSessionStore(), func() {}, nil
	}

	db, err := database.NewPostgreSQLDB(ctx, cfg.DatabaseURL(), database.PoolOptions{
		MaxConns: cfg.Database.MaxConns,
	})
	if err != nil {
		return nil, nil, fmt.Errorf("error connecting to database: %w", err)
	}
	if err := postgresql.EnsureSessionSchema(ctx, db); err != nil {
		db.Close()
		return nil, nil, fmt.Errorf("session schema: %w", err)
	}
	return postgresql.NewSessionRepository(db), db.Close, nil
}

func newLogger(cfg *config.Config) *slog.Logger {
	var level slog.Level
	if err := level.UnmarshalText([]byte(strings.ToUpper(cfg.App.LogLevel))); err != nil {
		level = slog.LevelInfo
	}

	logFormat := httplog.SchemaECS.Concise(!cfg.IsProduction())
	return slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level:       level,
		ReplaceAttr: logFormat.ReplaceAttr,
	})).With(
		slog.String("app", "hris-console"),
		slog.String("env", cfg.App.Env),
	)
}
