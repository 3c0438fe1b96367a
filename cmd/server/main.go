package main

import (
	"context"
	"fmt"

	"github.com/veridoc/signcore/internal/config"
	httphandler "github.com/veridoc/signcore/internal/handler/http"
	"github.com/veridoc/signcore/internal/logger"
	"github.com/veridoc/signcore/internal/notify"
	"github.com/veridoc/signcore/internal/server"
	"github.com/veridoc/signcore/internal/service"
	"github.com/veridoc/signcore/internal/store"
)

var (
	buildVersion string
	buildDate    string
	buildCommit  string
)

func main() {
	printBuildInfo()

	log := logger.NewLogger("signcore-server")
	cfg, err := config.GetStructuredConfig()
	if err != nil {
		log.Fatal().Err(err).Msg("error getting configs")
	}

	log.Debug().Any("server", cfg.Server).Any("render", cfg.Render).Msg("received configs")

	ctx := context.Background()
	db, err := store.NewConnectPostgres(ctx, cfg.Storage.DB, log)
	if err != nil {
		log.Fatal().Err(err).Msg("error connecting to database")
	}
	defer db.Close()

	if err = db.Migrate(); err != nil {
		log.Fatal().Err(err).Msg("error applying migrations")
	}

	repos, err := store.NewRepositories(db, cfg.Storage.Files.BlobDir, log)
	if err != nil {
		log.Fatal().Err(err).Msg("error creating repositories")
	}

	sender := notify.NewWebhookSender(cfg.Notify, log)

	services, err := service.NewServices(repos, cfg, sender, log)
	if err != nil {
		log.Fatal().Err(err).Msg("error creating services")
	}

	handler := httphandler.NewHandler(services, cfg.App, log)

	srv, err := server.NewServer(handler, cfg.Server, log)
	if err != nil {
		log.Fatal().Err(err).Msg("error creating server")
	}

	srv.RunServer()
}

func printBuildInfo() {
	if buildVersion == "" {
		buildVersion = "N/A"
	}

	if buildDate == "" {
		buildDate = "N/A"
	}

	if buildCommit == "" {
		buildCommit = "N/A"
	}

	fmt.Printf("Build version: %s\n", buildVersion)
	fmt.Printf("Build date: %s\n", buildDate)
	fmt.Printf("Build commit: %s\n", buildCommit)
}
