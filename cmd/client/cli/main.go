package main

import (
	"context"
	"log"
	"os"

	"github.com/dmitrijs2005/otpkeeper/internal/client/cli"
	"github.com/dmitrijs2005/otpkeeper/internal/client/config"
	"github.com/dmitrijs2005/otpkeeper/internal/client/remote"
	"github.com/dmitrijs2005/otpkeeper/internal/client/services"
	"github.com/dmitrijs2005/otpkeeper/internal/client/session"
	"github.com/dmitrijs2005/otpkeeper/internal/client/storage"
	"github.com/dmitrijs2005/otpkeeper/internal/filex"
	"github.com/dmitrijs2005/otpkeeper/internal/logging"
)

func main() {
	if err := run(); err != nil {
		log.Fatalf("%v", err)
	}
}

func run() error {
	ctx := context.Background()

	cfg, err := config.LoadConfig(os.Args[1:])
	if err != nil {
		return err
	}

	logger := logging.New(cfg.LogLevel, cfg.LogFormat, os.Stderr)

	if cfg.DatabaseFile != ":memory:" {
		if _, err := filex.EnsureDir(cfg.DataDir); err != nil {
			return err
		}
	}

	repos, err := storage.InitDatabase(ctx, cfg.DatabasePath())
	if err != nil {
		return err
	}
	defer repos.Close()

	store, err := remote.New(ctx, cfg)
	if err != nil {
		return err
	}
	defer store.Close(context.Background())

	sess := session.New()
	app := cli.NewApp(cfg, logger, cli.Services{
		Accounts: services.NewAccountService(repos.Accounts, logger),
		Auth:     services.NewAuthService(sess, repos.Metadata, logger),
		Sync:     services.NewSyncService(sess, repos.Accounts, repos.Metadata, store, logger),
	})

	app.Run(ctx)
	return nil
}
