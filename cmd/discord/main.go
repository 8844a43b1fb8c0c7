package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"golang.org/x/time/rate"

	"shamash/internal/command"
	"shamash/internal/config"
	"shamash/internal/customcmd"
	"shamash/internal/dashboard"
	"shamash/internal/discord"
	"shamash/internal/storage"
	v "shamash/internal/version"
)

func main() {
	log.Printf("[INFO] Starting %v bot...", v.AppName)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	cfg, err := config.New()
	if err != nil {
		log.Fatal("[ERR] ", err)
	}

	store, err := storage.New(cfg.StoragePath)
	if err != nil {
		log.Fatal("[ERR] ", err)
	}
	defer store.Close()

	sandbox := customcmd.NewSandbox(cfg.ScriptTimeout)
	evaluator := customcmd.NewEvaluator(sandbox)
	service := customcmd.NewService(store, evaluator)
	dispatcher := customcmd.NewDispatcher(store, evaluator,
		customcmd.WithActorLimit(rate.Every(2*time.Second), 3))

	sessions := dashboard.NewSessionStore(cfg.SessionTTL)
	go sessions.StartCleaner(ctx)

	deps := &command.Deps{
		Storage:    store,
		Commands:   service,
		Dispatcher: dispatcher,
		Sessions:   sessions,
		Config:     cfg,
	}

	bot := discord.NewBot(deps)

	dash := dashboard.NewServer(service, sessions, bot.Snapshot)
	go dash.Run(ctx, cfg.DashboardAddr)

	errCh := make(chan error, 1)
	go func() {
		if err := bot.Run(ctx); err != nil {
			errCh <- err
		}
		close(errCh)
	}()

	sig := make(chan os.Signal, 1)
	signal.Notify(sig, syscall.SIGINT, syscall.SIGTERM)

	select {
	case s := <-sig:
		log.Printf("[INFO] Received signal %s, shutting down...\n", s)
		cancel()
	case err := <-errCh:
		if err != nil {
			log.Println("[ERR] Discord bot error:", err)
		}
		cancel()
	case <-ctx.Done():
	}

	log.Println("[INFO] Discord bot exited cleanly")
}
