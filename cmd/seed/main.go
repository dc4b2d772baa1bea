// Command seed runs the one-time data seeding against the configured
// database, using the same bootstrap lock as the server. Running it against
// an already-seeded database is a no-op.
package main

import (
	"context"
	"log"

	"storm/internal/config"
	"storm/internal/db"
	"storm/internal/model"
	"storm/internal/repository"
	"storm/internal/service"
)

func main() {
	log.Println("Starting seed script...")

	cfg := config.Load()

	gormDB, err := db.NewMySQL(cfg.MySQLDSN)
	if err != nil {
		log.Fatalf("database init: %v", err)
	}

	if err := gormDB.AutoMigrate(
		&model.ContactFormSubmission{},
		&model.BootstrapLock{},
	); err != nil {
		log.Fatalf("auto-migrate: %v", err)
	}

	seeder := service.NewSeedService(repository.NewBootstrapRepository(gormDB))
	if err := seeder.Run(context.Background()); err != nil {
		log.Fatalf("seeding failed: %v", err)
	}

	log.Println("Seed script finished")
}
