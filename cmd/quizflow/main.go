package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/hrygo/quizflow/internal/profile"
	"github.com/hrygo/quizflow/server"
	"github.com/hrygo/quizflow/store"
	"github.com/hrygo/quizflow/store/db"
)

func main() {
	p, err := profile.GetProfile()
	if err != nil {
		slog.Error("failed to load profile", "error", err)
		os.Exit(1)
	}
	initLogger(p)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	driver, err := db.NewDBDriver(p)
	if err != nil {
		slog.Error("failed to create db driver", "error", err)
		os.Exit(1)
	}
	st := store.New(driver, p)

	s, err := server.NewServer(ctx, p, st)
	if err != nil {
		slog.Error("failed to create server", "error", err)
		os.Exit(1)
	}

	sig := make(chan os.Signal, 1)
	signal.Notify(sig, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-sig
		slog.Info("shutdown signal received")
		s.Shutdown(ctx)
		cancel()
	}()

	if err := s.Start(ctx); err != nil && err != http.ErrServerClosed {
		slog.Error("server stopped", "error", err)
		os.Exit(1)
	}
}

func initLogger(p *profile.Profile) {
	level := slog.LevelInfo
	if p.IsDev() {
		level = slog.LevelDebug
	}
	slog.SetDefault(slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: level})))
}
