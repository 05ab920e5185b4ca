package main

import (
	"flag"
	"os"

	"github.com/yigit/esgchampions/internal/config"
	"github.com/yigit/esgchampions/internal/pkg/logger"
	"github.com/yigit/esgchampions/internal/server"
)

// @title ESG Champions API
// @version 1.0
// @description Review pipeline for ESG indicators: champions submit reviews, admins moderate them and accepted reviews feed the leaderboard.

// @license.name MIT
// @license.url https://opensource.org/licenses/MIT

// @host localhost:8080
// @BasePath /api/v1
// @schemes http https

// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description JWT token for authorization

func main() {
	configPath := flag.String("config", config.DefaultPath, "path to the YAML config file")
	flag.Parse()

	srv, err := server.NewServer(*configPath)
	if err != nil {
		logger.Error().Err(err).Msg("Failed to initialize server")
		os.Exit(1)
	}

	if err := srv.Run(); err != nil {
		logger.Error().Err(err).Msg("Server execution failed or shutdown encountered errors")
		os.Exit(1)
	}

	logger.Info().Msg("Application finished gracefully.")
}
