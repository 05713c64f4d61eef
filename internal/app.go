// Package internal contains core application functionality
package internal

import (
	"fmt"

	"github.com/karloscodes/cartridge"

	"github.com/roobiinpandey/qahwatapp/internal/config"
	"github.com/roobiinpandey/qahwatapp/internal/database"
	"github.com/roobiinpandey/qahwatapp/internal/jobs"
	"github.com/roobiinpandey/qahwatapp/internal/pkg/geoip"
)

// Application wraps cartridge.Application with app-specific components
type Application struct {
	*cartridge.Application
	DBManager *database.DBManager // app-specific DB manager with migration methods
}

// NewApp creates a new application instance with default settings
func NewApp() (*Application, error) {
	cfg := config.GetConfig()
	return NewAppWithConfig(cfg)
}

// NewAppWithConfig creates a new application with the provided config
func NewAppWithConfig(cfg *config.Config) (*Application, error) {
	// Create logger
	logger := cartridge.NewLogger(cfg, nil)

	// Initialize database manager (app-specific with migration methods)
	dbManager := database.NewDBManager(cfg, logger)
	if err := dbManager.Init(); err != nil {
		return nil, fmt.Errorf("failed to initialize database: %w", err)
	}

	// Load the country database for ingest enrichment; tracking still works
	// without it, events just come in without a country.
	geoip.InitLogger(logger)
	if geoip.GetGeoDB() == nil {
		logger.Warn("Geo database unavailable, events will not be geolocated")
	}

	// Initialize jobs system
	scheduler, err := jobs.NewScheduler(dbManager, logger)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize jobs: %w", err)
	}

	// Create the cartridge application using NewApplication
	app, err := cartridge.NewApplication(cartridge.ApplicationOptions{
		Config:            cfg,
		Logger:            logger,
		DBManager:         dbManager,
		RouteMountFunc:    MountAppRoutes,
		BackgroundWorkers: []cartridge.BackgroundWorker{scheduler},
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create application: %w", err)
	}

	return &Application{
		Application: app,
		DBManager:   dbManager,
	}, nil
}
