package main

import (
	"context"
	"os"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/levibo0306/mentora/internal/app"
	"github.com/levibo0306/mentora/internal/config"
)

func main() {
	log.Logger = zerolog.New(os.Stderr).With().Timestamp().Logger()

	if os.Getenv("APP_ENV") != "production" {
		if err := godotenv.Load("configs/.env"); err != nil {
			log.Warn().Err(err).Msg("could not load configs/.env")
		}
	}

	loadCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	cfg, err := config.Load(loadCtx)
	cancel()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load config")
	}

	appCtx := context.Background()
	instance, err := app.New(appCtx, cfg)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to build app")
	}

	if err := instance.Run(appCtx); err != nil {
		log.Fatal().Err(err).Msg("runtime error")
	}
}
