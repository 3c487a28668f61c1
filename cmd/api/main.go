package main

import (
	"os"

	"github.com/campuskit/placement/internal/pkg/logger"
	"github.com/campuskit/placement/internal/server"
)

// @title Placement Cell API
// @version 1.0
// @description API for managing campus placements: student records, company drives, applications and exports

// @contact.name Placement Cell
// @contact.email placements@campuskit.dev

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
	srv, err := server.NewServer()
	if err != nil {
		logger.Error().Err(err).Msg("Failed to initialize server")
		os.Exit(1)
	}

	// Blocks until a shutdown signal arrives
	if err := srv.Run(); err != nil {
		logger.Error().Err(err).Msg("Server execution failed or shutdown encountered errors")
		os.Exit(1)
	}

	logger.Info().Msg("Application finished gracefully.")
}
