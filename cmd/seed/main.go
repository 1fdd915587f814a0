// cmd/seed/main.go
package main

import (
	"github.com/sirupsen/logrus"

	"github.com/javajoker/storefront-api/internal/config"
	"github.com/javajoker/storefront-api/internal/database"
	"github.com/javajoker/storefront-api/internal/utils"
)

// Seeds the sample catalog, the demo user and, when configured, the admin
// user. Safe to run repeatedly.
func main() {
	cfg, err := config.Load()
	if err != nil {
		logrus.WithError(err).Fatal("Failed to load configuration")
	}

	utils.SetupLogger(cfg.LogLevel, cfg.IsProduction())

	db, err := database.Initialize(cfg.Database)
	if err != nil {
		logrus.WithError(err).Fatal("Failed to initialize database")
	}
	defer database.Close(db)

	if err := database.RunMigrations(db); err != nil {
		logrus.WithError(err).Fatal("Failed to run migrations")
	}

	if err := database.SeedCatalog(db); err != nil {
		logrus.WithError(err).Fatal("Failed to seed catalog")
	}

	if err := database.SeedAdmin(db, cfg.Admin); err != nil {
		logrus.WithError(err).Fatal("Failed to seed admin user")
	}

	logrus.Info("Seeding complete")
}
