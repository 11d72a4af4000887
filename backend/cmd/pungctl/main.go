package main

import (
	"os"

	"pung-bot/backend/internal/cli"
	"pung-bot/backend/pkg/logger"
)

func main() {
	defer logger.Sync()
	if err := cli.NewRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}
