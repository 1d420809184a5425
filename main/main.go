package main

import (
	"context"
	"log"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"

	"github.com/Nazarious-ucu/blogsphere-api/internal/app"
	"github.com/Nazarious-ucu/blogsphere-api/internal/config"
	"github.com/Nazarious-ucu/blogsphere-api/pkg/logger"
)

// @title Blogsphere Forms API
// @version 1.0
// @description Newsletter signup and contact form endpoints backed by a document store
// @host localhost:5000
// @BasePath /api/
func main() {
	if err := godotenv.Load(".env"); err != nil {
		log.Printf("No .env file found: %v", err)
	}

	cfg, err := config.NewConfig()
	if err != nil {
		log.Panicf("failed to load configuration: %v", err)
	}

	l, err := logger.NewLogger(cfg.Log.File, "blogsphere-forms", cfg.Log.Level)
	if err != nil {
		log.Panicf("failed to create logger: %v", err)
	}

	application := app.New(*cfg, l)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := application.Start(ctx); err != nil {
		l.Error().Err(err).Msg("application stopped with error")
		stop()
		log.Panic(err)
	}
}
