// Package ui serves the read-only results API: state definitions from the
// policy catalog and persisted audit runs from the results store.
package ui

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/sanjaybasu/medicaid-frailty-bias/domain/policy"
	"github.com/sanjaybasu/medicaid-frailty-bias/internal"
	"github.com/sanjaybasu/medicaid-frailty-bias/ports"
)

// App represents the results API application
type App struct {
	router *chi.Mux
	store  *policy.Store
	repo   ports.ResultsRepository // nil when persistence is disabled
	log    *internal.Logger
}

// Config holds API application configuration
type Config struct {
	Port string
}

// NewApp creates a new results API application. A nil repository disables
// the run endpoints; the catalog endpoints work without a database.
func NewApp(store *policy.Store, repo ports.ResultsRepository, log *internal.Logger) *App {
	app := &App{
		router: chi.NewRouter(),
		store:  store,
		repo:   repo,
		log:    log,
	}
	app.setupMiddleware()
	app.setupRoutes()
	return app
}

// setupMiddleware configures HTTP middleware
func (a *App) setupMiddleware() {
	a.router.Use(middleware.Logger)
	a.router.Use(middleware.Recoverer)
	a.router.Use(middleware.Compress(5))
}

// setupRoutes configures the application routes
func (a *App) setupRoutes() {
	a.router.Get("/health", a.handleHealth)

	a.router.Get("/api/states", a.handleListStates)
	a.router.Get("/api/states/{code}", a.handleGetState)

	a.router.Get("/api/runs", a.handleListRuns)
	a.router.Get("/api/runs/{id}", a.handleGetRun)
	a.router.Get("/api/runs/{id}/aggregates", a.handleGetAggregates)
	a.router.Get("/api/runs/{id}/decompositions", a.handleGetDecompositions)
	a.router.Get("/api/runs/{id}/counterfactuals", a.handleGetCounterfactuals)
	a.router.Get("/api/runs/{id}/comparisons", a.handleGetComparisons)
}

// Router returns the configured router
func (a *App) Router() http.Handler {
	return a.router
}

// Start runs the HTTP server on the configured port
func (a *App) Start(config Config) error {
	a.log.Info("results API listening on :%s", config.Port)
	return http.ListenAndServe(":"+config.Port, a.router)
}
