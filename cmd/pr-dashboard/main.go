package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/YusovID/pr-dashboard/internal/config"
	"github.com/YusovID/pr-dashboard/internal/repository/github"
	"github.com/YusovID/pr-dashboard/internal/repository/postgres"
	"github.com/YusovID/pr-dashboard/internal/service"
	myhttp "github.com/YusovID/pr-dashboard/internal/transport/http"
	"github.com/YusovID/pr-dashboard/pkg/logger/sl"
	"github.com/YusovID/pr-dashboard/pkg/logger/slogpretty"
	_ "go.uber.org/automaxprocs"
)

const (
	shutdownTimeout  = 10 * time.Second
	authCheckTimeout = 10 * time.Second
)

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	if err := run(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "%s\n", err)
		os.Exit(1)
	}
}

func run(ctx context.Context) error {
	cfg := config.MustLoad()
	log := slogpretty.SetupLogger(cfg.Env)

	log.Info("starting pr-dashboard", slog.String("env", cfg.Env))

	db, err := postgres.NewDB(cfg.Postgres, log)
	if err != nil {
		return fmt.Errorf("failed to init db: %w", err)
	}
	defer func() {
		if err := db.Close(); err != nil {
			log.Error("db close failed", sl.Err(err))
		}
	}()

	connector, err := github.NewConnector(cfg.GitHub, log)
	if err != nil {
		return fmt.Errorf("failed to init provider connector: %w", err)
	}

	viewer := connector.Gateway(cfg.GitHub.Token)

	changeRequests := github.NewChangeRequestRepository(connector, viewer, cfg.GitHub.Token, cfg.GitHub.Workers, log)
	watermarks := postgres.NewWatermarkRepository(db.DB(), log)

	svc := service.NewChangeRequestService(log, changeRequests, viewer, watermarks, cfg.Sync.WriteTimeout)
	defer svc.Wait()

	checkAuth(ctx, log, svc)

	srv := myhttp.NewServer(log, svc)
	httpServer := &http.Server{
		Addr:              net.JoinHostPort(cfg.Server.Host, cfg.Server.Port),
		Handler:           srv.Routes(),
		ReadHeaderTimeout: cfg.Server.Timeout,
		WriteTimeout:      cfg.Server.Timeout,
	}

	errChan := make(chan error, 1)

	go startServer(log, httpServer, errChan)

	select {
	case err, ok := <-errChan:
		if ok {
			return fmt.Errorf("http server error: %w", err)
		}

		return nil
	case <-ctx.Done():
		log.Info("stopping server...")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("error shutting down http server: %w", err)
	}

	return nil
}

// checkAuth logs whether the configured token resolves to a provider user.
func checkAuth(ctx context.Context, log *slog.Logger, svc service.ChangeRequestService) {
	ctx, cancel := context.WithTimeout(ctx, authCheckTimeout)
	defer cancel()

	user, err := svc.CurrentUser(ctx)
	if err != nil {
		log.Warn("provider credentials did not resolve to a user", sl.Err(err))
		return
	}

	log.Info("authenticated against provider", slog.String("login", user.Login))
}

func startServer(log *slog.Logger, httpServer *http.Server, errChan chan error) {
	defer close(errChan)

	log.Info("service started", slog.String("addr", httpServer.Addr))

	if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		errChan <- fmt.Errorf("error listening and serving: %w", err)
	}
}
