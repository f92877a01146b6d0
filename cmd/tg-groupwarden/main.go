package main

import (
	"context"
	"flag"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"tg-groupwarden/internal/bot"
	"tg-groupwarden/internal/config"
	"tg-groupwarden/internal/crash"
	"tg-groupwarden/internal/executor"
	"tg-groupwarden/internal/handler"
	"tg-groupwarden/internal/logger"
	"tg-groupwarden/internal/platform"
	"tg-groupwarden/internal/policy"
	"tg-groupwarden/internal/scheduler"
	"tg-groupwarden/internal/service"
	"tg-groupwarden/internal/storage"
)

func main() {
	defer crash.RecoverWithStackAndExit("main")

	configPath := flag.String("config", "configs/config.yaml", "Path to configuration file")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	if err := logger.Setup(cfg); err != nil {
		log.Fatalf("Failed to set up logger: %v", err)
	}

	// The ledgers live in the database; without it nothing works
	if !cfg.Database.Enabled {
		log.Fatalf("Database must be enabled: the moderation ledgers are stored there")
	}
	if err := storage.Initialize(cfg); err != nil {
		log.Fatalf("Failed to initialize database: %v", err)
	}

	repos, err := service.NewRepositories(storage.GetDB())
	if err != nil {
		log.Fatalf("Failed to set up repositories: %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	botService, server, err := bot.Initialize(ctx, cfg)
	if err != nil {
		log.Fatalf("Failed to initialize bot: %v", err)
	}

	sched := scheduler.New()
	defer sched.Stop()

	chat := platform.NewTelegram(botService.Bot)
	exec := executor.New(chat, sched)

	engine := policy.New(policy.Deps{
		Settings:     service.NewGroupService(repos, cfg.Moderation),
		Restrictions: repos.Restrictions,
		Warnings:     repos.Warnings,
		Filters:      repos.Filters,
		Locks:        repos.Locks,
		Federations:  repos.Federations,
		Toggles:      repos.Commands,
		Chat:         chat,
		Executor:     exec,
	})

	handler.Initialize(cfg, engine)

	// Start HTTP server in a goroutine
	crash.SafeGoroutine("webhook-server", func() {
		if err := server.Start(); err != nil {
			log.Fatalf("HTTP server error: %v", err)
		}
	})

	// Give the server time to start before updates flow
	time.Sleep(500 * time.Millisecond)
	logger.Infof("HTTP server is ready, starting bot handler...")

	handler.SetupMessageHandlers(botService.Handler, botService.Bot)
	botService.Start()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	sig := <-sigChan
	logger.Infof("Received signal: %v, shutting down...", sig)

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Warningf("HTTP server shutdown error: %v", err)
	}
	botService.Stop()

	logger.Infof("Server gracefully stopped")
}
