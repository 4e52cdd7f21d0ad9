package main

import (
	"context"
	"errors"
	"io"
	"os"
	"os/signal"

	"github.com/iamasit07/connect4-minimax/internal/config"
	"github.com/iamasit07/connect4-minimax/internal/console"
	"github.com/iamasit07/connect4-minimax/internal/logging"
	"github.com/iamasit07/connect4-minimax/internal/service/bot"
	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"
)

func main() {
	_ = godotenv.Load()

	cfg := config.LoadConfig()
	logging.Setup(cfg.LogLevel, cfg.LogFormat)

	geo, err := cfg.Geometry()
	if err != nil {
		log.Fatal().Err(err).Msg("invalid board configuration")
	}
	order, err := bot.ParseOrder(cfg.SearchOrder)
	if err != nil {
		log.Fatal().Err(err).Msg("invalid search order")
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	_, err = console.Play(ctx, os.Stdin, os.Stdout, bot.NewEngine(bot.WithOrder(order)), geo)
	if err != nil && !errors.Is(err, io.ErrUnexpectedEOF) && !errors.Is(err, context.Canceled) {
		log.Fatal().Err(err).Msg("game aborted")
	}
}
