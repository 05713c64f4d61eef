// Seeds the database with a demo coffee store and tracking history.
package main

import (
	"context"
	"flag"
	"log"

	"github.com/karloscodes/cartridge"

	"github.com/roobiinpandey/qahwatapp/internal/config"
	"github.com/roobiinpandey/qahwatapp/internal/database"
	"github.com/roobiinpandey/qahwatapp/internal/pkg/geoip"
	"github.com/roobiinpandey/qahwatapp/internal/seeder"
)

func main() {
	sessions := flag.Int("sessions", 500, "number of browse sessions to simulate")
	flag.Parse()

	cfg := config.GetConfig()
	logger := cartridge.NewLogger(cfg, nil)
	geoip.InitLogger(logger)

	dbManager := database.NewDBManager(cfg, logger)
	if err := dbManager.Init(); err != nil {
		log.Fatalf("Failed to initialize database: %v", err)
	}
	if err := dbManager.MigrateDatabase(); err != nil {
		log.Fatalf("Failed to run migrations: %v", err)
	}

	s := seeder.NewSeeder(dbManager, logger, *sessions)
	if err := s.Seed(context.Background()); err != nil {
		log.Fatalf("Seeding failed: %v", err)
	}
	log.Println("Seeding complete")
}
