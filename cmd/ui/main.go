package main

import (
	"context"
	"log"

	"github.com/jmoiron/sqlx"
	"github.com/joho/godotenv"
	_ "github.com/lib/pq"

	"gopower/internal/config"
	"gopower/internal/container"
	"gopower/ui"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using system environment variables")
	}

	appConfig, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	appContainer, err := container.New(appConfig)
	if err != nil {
		log.Fatalf("Failed to create application container: %v", err)
	}
	defer appContainer.Shutdown(context.Background())

	if appConfig.Catalog.Source == config.CatalogSourcePostgres {
		db, err := sqlx.Connect("postgres", appConfig.Database.URL)
		if err != nil {
			log.Fatalf("Failed to connect to database: %v", err)
		}
		if err := appContainer.InitWithDatabase(db); err != nil {
			log.Fatalf("Failed to initialize container: %v", err)
		}
	}

	app, err := ui.NewApp(ui.Config{
		Port: appConfig.Server.Port,
	}, appContainer.StudyService, appContainer.Catalog, appContainer.Log)
	if err != nil {
		log.Fatal("Failed to create UI app:", err)
	}

	log.Printf("Starting calculator UI on http://localhost:%s", appConfig.Server.Port)
	log.Fatal(app.Start())
}
