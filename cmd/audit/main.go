// The audit command runs the full bias analysis: it loads or generates a
// cohort, simulates every state algorithm in the catalog, and writes the
// markdown and HTML report. With DATABASE_URL set, results are persisted to
// the results store as well.
package main

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"

	"github.com/jmoiron/sqlx"
	"github.com/joho/godotenv"
	_ "github.com/lib/pq"

	"github.com/sanjaybasu/medicaid-frailty-bias/adapters/excel"
	"github.com/sanjaybasu/medicaid-frailty-bias/adapters/postgres"
	"github.com/sanjaybasu/medicaid-frailty-bias/domain/cohort"
	"github.com/sanjaybasu/medicaid-frailty-bias/domain/policy"
	"github.com/sanjaybasu/medicaid-frailty-bias/internal"
	"github.com/sanjaybasu/medicaid-frailty-bias/internal/audit"
	"github.com/sanjaybasu/medicaid-frailty-bias/internal/config"
	"github.com/sanjaybasu/medicaid-frailty-bias/internal/migration"
	"github.com/sanjaybasu/medicaid-frailty-bias/internal/report"
	"github.com/sanjaybasu/medicaid-frailty-bias/internal/testkit"
	"github.com/sanjaybasu/medicaid-frailty-bias/ports"
)

const syntheticCohortSize = 10_000

func main() {
	_ = godotenv.Load()
	log := internal.DefaultLogger

	cfg, err := config.Load()
	if err != nil {
		log.Error("failed to load configuration: %v", err)
		os.Exit(1)
	}

	c, err := loadCohort(cfg, log)
	if err != nil {
		log.Error("failed to load cohort: %v", err)
		os.Exit(1)
	}

	store := policy.NewCatalogStore()
	auditor := audit.New(store, cfg.Simulation, log)

	ctx := context.Background()
	rep, err := auditor.Run(ctx, c)
	if err != nil {
		log.Error("audit run failed: %v", err)
		os.Exit(1)
	}

	if err := report.WriteFiles(rep, cfg.Paths.OutputDir); err != nil {
		log.Error("failed to write report: %v", err)
		os.Exit(1)
	}
	if err := writeJSON(rep, cfg.Paths.OutputDir); err != nil {
		log.Error("failed to write results JSON: %v", err)
		os.Exit(1)
	}
	log.Info("report written to %s", cfg.Paths.OutputDir)

	if cfg.Database.URL != "" {
		if err := persist(ctx, cfg, rep, log); err != nil {
			log.Error("failed to persist results: %v", err)
			os.Exit(1)
		}
	}
}

func loadCohort(cfg *config.Config, log *internal.Logger) (cohort.Cohort, error) {
	if cfg.Paths.CohortFile == "" {
		log.Warn("no cohort file configured, generating %d synthetic profiles", syntheticCohortSize)
		return testkit.SyntheticCohort(syntheticCohortSize, cfg.Simulation.Seed), nil
	}
	reader := excel.NewCohortReader(cfg.Paths.CohortFile)
	c, err := reader.Read(cfg.Paths.CohortFile)
	if err != nil {
		return nil, err
	}
	log.Info("loaded %d individuals from %s", len(c), cfg.Paths.CohortFile)
	return c, nil
}

func writeJSON(rep *audit.Report, dir string) error {
	data, err := json.MarshalIndent(rep, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(filepath.Join(dir, "results.json"), data, 0o644)
}

func persist(ctx context.Context, cfg *config.Config, rep *audit.Report, log *internal.Logger) error {
	db, err := sqlx.ConnectContext(ctx, "postgres", cfg.Database.URL)
	if err != nil {
		return err
	}
	defer db.Close()

	if err := migration.NewRunner().Run(ctx, db); err != nil {
		return err
	}

	var repo ports.ResultsRepository = postgres.NewResultsRepository(db)
	if err := repo.SaveManifest(ctx, rep.Manifest); err != nil {
		return err
	}
	if err := repo.SaveAggregates(ctx, rep.Manifest.RunID, rep.Aggregates); err != nil {
		return err
	}
	if err := repo.SaveDecompositions(ctx, rep.Manifest.RunID, rep.Decompositions); err != nil {
		return err
	}
	if err := repo.SaveCounterfactuals(ctx, rep.Manifest.RunID, rep.Counterfactuals); err != nil {
		return err
	}
	if err := repo.SaveComparisons(ctx, rep.Manifest.RunID, rep.Comparisons); err != nil {
		return err
	}
	log.Info("persisted run %s", rep.Manifest.RunID)
	return nil
}
