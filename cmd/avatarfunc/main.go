package main

import (
	"log"

	"github.com/aws/aws-lambda-go/lambda"
	"github.com/caarlos0/env/v10"
	"github.com/tasknest/tasknest/avatarfunc"
	"github.com/tasknest/tasknest/services/logging"
)

func main() {
	cfg, err := avatarfunc.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	logCfg := logging.Config{}
	if err := env.Parse(&logCfg); err != nil {
		log.Fatalf("Failed to parse logging configuration: %v", err)
	}

	logger, err := logging.NewService(logCfg)
	if err != nil {
		log.Fatalf("Failed to create logger: %v", err)
	}
	defer logger.Sync()

	handler, err := avatarfunc.NewHandler(cfg, logger)
	if err != nil {
		log.Fatalf("Failed to create handler: %v", err)
	}

	lambda.Start(handler.HandleS3Event)
}
