package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	"vpnkeybot/bot"
	coreconfig "vpnkeybot/core/config"
	coredatabase "vpnkeybot/core/database"
	"vpnkeybot/core/logger"
	coretelegram "vpnkeybot/core/telegram"
	"vpnkeybot/ledger"
)

func main() {
	if err := run(); err != nil {
		log.Fatalf("bot: %v", err)
	}
}

func run() error {
	cfgPath := os.Getenv("CONFIG_PATH")
	if cfgPath == "" {
		cfgPath = "config.yaml"
	}

	log.Printf("loading config: %s", cfgPath)
	cfg, err := coreconfig.Load(cfgPath)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	if err := logger.InitLogger(cfg); err != nil {
		return fmt.Errorf("logger init failed: %w", err)
	}
	defer func() {
		if err := logger.Shutdown(); err != nil {
			log.Printf("logger shutdown error: %v", err)
		}
	}()

	store, err := openStore(cfg)
	if err != nil {
		return err
	}

	app := bot.New(cfg, store)
	runOpts, err := app.TelegramRunOptions()
	if err != nil {
		return fmt.Errorf("telegram options build failed: %w", err)
	}

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	return coretelegram.RunTelegram(ctx, runOpts)
}

func openStore(cfg *coreconfig.Config) (ledger.Store, error) {
	switch cfg.Storage.Backend {
	case coreconfig.BackendPostgres:
		dbCfg := coredatabase.Config{
			Host:           cfg.Storage.Database.Host,
			Port:           cfg.Storage.Database.Port,
			User:           cfg.Storage.Database.User,
			Password:       cfg.Storage.Database.Password,
			Name:           cfg.Storage.Database.Name,
			SSLMode:        cfg.Storage.Database.SSLMode,
			MaxConnections: cfg.Storage.Database.MaxConnections,
		}
		db, err := coredatabase.Connect(dbCfg)
		if err != nil {
			return nil, fmt.Errorf("database initialization failed: %w", err)
		}
		if err := coredatabase.RunMigrations(dbCfg); err != nil {
			_ = db.Close()
			return nil, fmt.Errorf("migrations failed: %w", err)
		}
		return ledger.NewPG(db), nil
	default:
		return ledger.OpenFile(cfg.Storage.Path), nil
	}
}
