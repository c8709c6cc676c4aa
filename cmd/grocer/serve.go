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

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/dukerupert/grocer/internal/grocery"
	"github.com/dukerupert/grocer/internal/seed"
	"github.com/dukerupert/grocer/internal/server"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the HTTP API",
	RunE:  runServe,
}

func runServe(cmd *cobra.Command, args []string) error {
	a, err := loadApp()
	if err != nil {
		return err
	}
	defer a.Close()

	db, err := a.openDB()
	if err != nil {
		return err
	}
	defer db.Close()

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	svc := grocery.New(db, a.logger)

	if a.cfg.Seed.OnEmpty {
		d, err := loadSeed(a.cfg.Seed.File)
		if err != nil {
			return err
		}
		if _, err := seed.Load(ctx, svc, d, false, a.logger); err != nil {
			return fmt.Errorf("seed: %w", err)
		}
	}
	if _, err := svc.GetOrCreateActiveList(ctx); err != nil {
		return fmt.Errorf("ensure active list: %w", err)
	}

	srv := server.New(svc, server.Options{
		RateLimit: a.cfg.HTTP.RateLimit,
		RateBurst: a.cfg.HTTP.RateBurst,
		WSOrigins: a.cfg.HTTP.WSOrigins,
	}, a.logger)

	httpServer := &http.Server{
		Addr:         a.cfg.Addr(),
		Handler:      srv.Router(),
		ReadTimeout:  5 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		a.logger.Info("grocer listening", "addr", httpServer.Addr, "version", version)
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("server error: %w", err)
		}
		return nil
	})
	if rl := srv.RateLimiter(); rl != nil {
		g.Go(func() error {
			rl.RunCleanup(ctx, time.Minute)
			return nil
		})
	}
	g.Go(func() error {
		<-ctx.Done()
		a.logger.Info("shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		srv.Hub().Close()
		return httpServer.Shutdown(shutdownCtx)
	})
	return g.Wait()
}
