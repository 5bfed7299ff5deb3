package main

import (
	"context"
	"time"

	"syntra-bizops/config"
	"syntra-bizops/internal/database"
)

func main() {
	cfg := config.LoadConfig()
	log := config.NewLogger(cfg.Log)

	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()

	db, err := database.NewConnection(ctx, cfg.DB.DSN())
	if err != nil {
		log.Fatalf("Failed to connect to db: %v", err)
	}

	if err := database.Migrate(db.WithContext(ctx)); err != nil {
		log.Fatalf("Failed to migrate database: %v", err)
	}
	log.Info("Database schema is up to date")
}
