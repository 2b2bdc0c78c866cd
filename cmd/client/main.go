package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/MKhiriev/go-chain-vault/internal/app"
	"github.com/MKhiriev/go-chain-vault/internal/client"
	"github.com/MKhiriev/go-chain-vault/internal/config"
	"github.com/MKhiriev/go-chain-vault/internal/logger"
	"github.com/MKhiriev/go-chain-vault/models"
	"github.com/MKhiriev/go-chain-vault/vault"
)

var (
	buildVersion string
	buildDate    string
	buildCommit  string
)

func main() {
	setBuildInfoDefaults()

	log := logger.NewClientLogger("go-chain-vault-client")
	cfg, err := config.GetClientConfig(os.Args[1:])
	if err != nil {
		fmt.Fprintln(os.Stderr, app.Describe(err))
		log.Fatal().Err(err).Msg("error getting configs")
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	sdk, err := vault.New(ctx, cfg, vault.WithLogger(log.Logger))
	if err != nil {
		fmt.Fprintln(os.Stderr, app.Describe(err))
		log.Fatal().Err(err).Msg("init vault client error")
	}

	info := models.NewAppBuildInfo(buildVersion, buildDate, buildCommit)
	cli, err := client.NewApp(sdk.Auth, sdk.Data, sdk.WS, info, os.Stdout, log)
	if err != nil {
		sdk.Close()
		log.Fatal().Err(err).Msg("init client app error")
	}

	runErr := cli.Run(ctx, cfg.Args)
	sdk.Close()
	if runErr != nil {
		log.Error().Err(runErr).Msg("client run error")
		fmt.Fprintln(os.Stderr, cli.Describe(runErr))
		os.Exit(1)
	}
}

func setBuildInfoDefaults() {
	if buildVersion == "" {
		buildVersion = "N/A"
	}
	if buildDate == "" {
		buildDate = "N/A"
	}
	if buildCommit == "" {
		buildCommit = "N/A"
	}
}
