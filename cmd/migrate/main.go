package main

import (
	"context"
	"log"
	"os"

	"github.com/jmoiron/sqlx"
	"github.com/joho/godotenv"
	_ "github.com/lib/pq"

	"gopower/adapters/catalog"
	"gopower/adapters/postgres"
	"gopower/internal/migration"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using system environment variables")
	}

	databaseURL := os.Getenv("DATABASE_URL")
	if len(os.Args) > 1 {
		databaseURL = os.Args[1]
	}
	if databaseURL == "" {
		log.Fatal("Usage: migrate [database_url] (or set DATABASE_URL)")
	}

	db, err := sqlx.Connect("postgres", databaseURL)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer db.Close()

	ctx := context.Background()

	migrator := migration.NewRunner()
	log.Printf("Running migrations (schema version %s)", migrator.Version())
	if err := migrator.Run(ctx, db); err != nil {
		log.Fatalf("Migration failed: %v", err)
	}

	// Seed the reference tables. ON CONFLICT DO NOTHING keeps reruns cheap
	// and never overwrites locally edited rows.
	repo := postgres.NewBiomarkerRepository(db)
	entries := catalog.NewBuiltinCatalog().All()

	inserted, err := repo.Seed(ctx, entries)
	if err != nil {
		log.Fatalf("Seeding failed: %v", err)
	}

	log.Printf("Migration complete: %d biomarkers seeded, %d already present",
		inserted, int64(len(entries))-inserted)
}
