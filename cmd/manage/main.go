// Command manage runs administrative tasks against the foodgram database.
package main

import (
	"os"

	"github.com/joho/godotenv"

	"github.com/pageza/foodgram/backend/internal/logging"
)

func main() {
	_ = godotenv.Load()
	if err := newRootCmd().Execute(); err != nil {
		logging.Error().Err(err).Msg("command failed")
		os.Exit(1)
	}
}
