// The api command serves the read-only results API over the policy catalog
// and, when DATABASE_URL is set, the persisted audit runs.
package main

import (
	"os"

	"github.com/jmoiron/sqlx"
	"github.com/joho/godotenv"
	_ "github.com/lib/pq"

	"github.com/sanjaybasu/medicaid-frailty-bias/adapters/postgres"
	"github.com/sanjaybasu/medicaid-frailty-bias/domain/policy"
	"github.com/sanjaybasu/medicaid-frailty-bias/internal"
	"github.com/sanjaybasu/medicaid-frailty-bias/internal/config"
	"github.com/sanjaybasu/medicaid-frailty-bias/ports"
	"github.com/sanjaybasu/medicaid-frailty-bias/ui"
)

func main() {
	_ = godotenv.Load()
	log := internal.DefaultLogger

	cfg, err := config.Load()
	if err != nil {
		log.Error("failed to load configuration: %v", err)
		os.Exit(1)
	}

	var repo ports.ResultsRepository
	if cfg.Database.URL != "" {
		db, err := sqlx.Connect("postgres", cfg.Database.URL)
		if err != nil {
			log.Error("failed to connect to results store: %v", err)
			os.Exit(1)
		}
		defer db.Close()
		repo = postgres.NewResultsRepository(db)
	} else {
		log.Warn("DATABASE_URL not set, run endpoints disabled")
	}

	app := ui.NewApp(policy.NewCatalogStore(), repo, log)
	if err := app.Start(ui.Config{Port: cfg.Server.Port}); err != nil {
		log.Error("server failed: %v", err)
		os.Exit(1)
	}
}
