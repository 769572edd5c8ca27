package main

import (
	"os"

	"github.com/joho/godotenv"

	"github.com/custodia-labs/captor-cli/internal/adapters/driving/cli"
)

func main() {
	// Load .env from the working directory if present. Real environment
	// variables take precedence over file values.
	_ = godotenv.Load()

	if err := cli.Execute(); err != nil {
		os.Exit(1)
	}
}
