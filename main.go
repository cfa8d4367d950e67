package main

import (
	"os"

	"github.com/joho/godotenv"

	"gdoscore/internal/cli"
	"gdoscore/logger"
)

func main() {
	// Load environment variables
	godotenv.Load()

	// Initialize logger first
	logger.Init()

	os.Exit(cli.Execute())
}
