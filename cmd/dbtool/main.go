package main

import (
	"context"
	"database/sql"
	"fleet-route-service/internal/adapters/repositories"
	"fleet-route-service/internal/config"
	"fleet-route-service/internal/platform/db"
	"log"
	"os"
	"strings"

	"github.com/joho/godotenv"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found (using environment variables)")
	}

	databaseURL := os.Getenv("DATABASE_URL")
	if strings.TrimSpace(databaseURL) == "" {
		log.Fatal("DATABASE_URL is required")
	}

	conn, err := db.Open(context.Background(), databaseURL)
	if err != nil {
		log.Fatal(err)
	}
	defer conn.Close()

	instancePath := config.Get("SEED_PATH", "data/instance.json")
	fleetPath := config.Get("FLEET_PATH", "data/fleet.yaml")
	if err := initAndSeed(conn, instancePath, fleetPath); err != nil {
		log.Fatal(err)
	}
}

func initAndSeed(conn *sql.DB, instancePath, fleetPath string) error {
	log.Println("Initializing database schema...")
	if err := repositories.InitSchema(conn); err != nil {
		return err
	}
	log.Println("Schema ready.")

	log.Printf("Seeding database from %s and %s...", instancePath, fleetPath)
	if err := repositories.SeedFromFiles(conn, instancePath, fleetPath); err != nil {
		return err
	}
	log.Println("Seeding complete.")

	return nil
}
