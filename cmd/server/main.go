// The mock API server: the HTTP backend the portal SDK talks to in remote
// mode, backed by sqlite for development and postgres for deployments.
package main

import (
	"log"
	"net/http"

	"github.com/joho/godotenv"

	"github.com/Chaturved5/estate-portal/internal/config"
	"github.com/Chaturved5/estate-portal/internal/mockapi"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("no .env file found, relying on environment")
	}
	cfg := config.Load()

	db, err := mockapi.Connect(cfg.DatabaseDSN)
	if err != nil {
		log.Fatalf("database: %v", err)
	}

	if config.ParseBool("MIGRATIONS", false) {
		if err := mockapi.RunMigrations(cfg.DatabaseDSN, "migrations"); err != nil {
			log.Fatalf("migrations: %v", err)
		}
	} else if err := mockapi.AutoMigrate(db); err != nil {
		log.Fatalf("auto-migrate: %v", err)
	}

	if config.ParseBool("DB_SEED", false) {
		if err := mockapi.Seed(db); err != nil {
			log.Fatalf("seed: %v", err)
		}
	}

	srv := mockapi.NewServer(db)
	log.Printf("mock API listening on :%s (env=%s)", cfg.Port, cfg.Env)
	if err := http.ListenAndServe(":"+cfg.Port, srv); err != nil {
		log.Fatalf("server: %v", err)
	}
}
