package main

import (
	"log"

	"github.com/joho/godotenv"

	corecmd "github.com/selvaganesh19/mailform/core/cmd"

	"github.com/selvaganesh19/mailform/app/bot"
)

func main() {
	// .env is optional; real deployments set env vars directly.
	_ = godotenv.Load()

	err := corecmd.Run(corecmd.Options{
		DefaultConfigPath: "config.yaml",
		LoadConfig:        bot.LoadConfig,
		Bootstrap:         bot.Bootstrap,
	})
	if err != nil {
		log.Fatalf("mailform: %v", err)
	}
}
