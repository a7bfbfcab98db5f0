package main

import (
	"log"

	"quizpair_backend/internal/app"
	"quizpair_backend/internal/config"
	"quizpair_backend/pkg/logger"
)

func main() {
	cfg, err := config.LoadConfig("configs")
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	application := app.NewApp(cfg)
	defer logger.Log.Sync()

	application.Run()
}
