package main

import (
	"context"
	"os"

	"github.com/aws/aws-lambda-go/lambda"
	"github.com/jrsteele09/go-club-sync/internal/app"
	"github.com/jrsteele09/go-club-sync/internal/config"
	"github.com/rs/zerolog/log"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Error().Err(err).Msg("invalid configuration")
		os.Exit(1)
	}
	app.InitLogging(cfg, "")

	svc, err := app.NewService(context.Background(), cfg)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to build service")
	}

	handler, err := app.NewHandler(svc, cfg.GetOperation())
	if err != nil {
		log.Fatal().Err(err).Msg("set SYNC_OPERATION to members or activities")
	}
	lambda.Start(handler)
}
