package container

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"

	"gopower/adapters/catalog"
	"gopower/adapters/excel"
	"gopower/adapters/postgres"
	"gopower/adapters/stats/engine"
	"gopower/app"
	"gopower/internal"
	"gopower/internal/config"
	"gopower/ports"
)

// Container holds all application dependencies and manages their lifecycle
type Container struct {
	Config *config.Config
	Log    *internal.Logger

	// Infrastructure
	DB *sqlx.DB

	// Statistical engine
	Solver     ports.QuantileSolver
	Calculator ports.SampleSizeCalculator
	Estimator  ports.AgreementEstimator

	// Catalog (data access layer)
	Catalog ports.BiomarkerCatalog

	// Services
	StudyService    *app.StudyService
	SweepService    *app.SweepService
	EstimateService *app.EstimateService
}

// New creates the container and wires every component that needs no
// database. With the postgres catalog source the services stay nil until
// InitWithDatabase provides the connection.
func New(cfg *config.Config) (*Container, error) {
	if cfg == nil {
		return nil, fmt.Errorf("config cannot be nil")
	}

	c := &Container{
		Config: cfg,
		Log:    internal.NewDefaultLogger(),
	}

	c.Solver = newSolver(cfg.Solver.Backend)
	c.Calculator = engine.NewCalculator(c.Solver)
	c.Estimator = engine.NewAgreementEstimator()

	switch cfg.Catalog.Source {
	case config.CatalogSourceBuiltin:
		c.Catalog = catalog.NewBuiltinCatalog()
	case config.CatalogSourceExcel:
		workbook, err := excel.OpenWorkbookCatalog(cfg.Catalog.ExcelFile)
		if err != nil {
			return nil, fmt.Errorf("failed to open catalog workbook: %w", err)
		}
		c.Catalog = workbook
	case config.CatalogSourcePostgres:
		// wired in InitWithDatabase
	default:
		return nil, fmt.Errorf("unknown catalog source %q", cfg.Catalog.Source)
	}

	if c.Catalog != nil {
		c.initServices()
	}

	return c, nil
}

// newSolver picks the quantile backend. Both are wrapped in the memoizing
// cache since sweeps ask for the same two quantiles per row.
func newSolver(backend string) ports.QuantileSolver {
	if backend == config.SolverGonum {
		return engine.NewCachedSolver(engine.NewGonumSolver())
	}
	return engine.NewCachedSolver(engine.NewBisectionSolver())
}

// InitWithDatabase wires the components that require database access
func (c *Container) InitWithDatabase(db *sqlx.DB) error {
	if db == nil {
		return fmt.Errorf("database connection cannot be nil")
	}

	c.DB = db

	if err := db.Ping(); err != nil {
		return fmt.Errorf("database connection test failed: %w", err)
	}

	if c.Config.Catalog.Source == config.CatalogSourcePostgres {
		c.Catalog = postgres.NewBiomarkerRepository(db)
		c.initServices()
	}

	c.Log.Info("container initialized with database connection")
	return nil
}

// initServices builds the application services once a catalog is available
func (c *Container) initServices() {
	c.StudyService = app.NewStudyService(c.Calculator, c.Catalog)
	c.SweepService = app.NewSweepService(c.Calculator, c.Catalog, c.Config.Sweep.Concurrency)
	c.EstimateService = app.NewEstimateService(c.Estimator, c.Calculator)
}

// Ready reports whether every service has been wired
func (c *Container) Ready() bool {
	return c.StudyService != nil && c.SweepService != nil && c.EstimateService != nil
}

// Shutdown gracefully shuts down all components
func (c *Container) Shutdown(ctx context.Context) error {
	if c.DB != nil {
		return c.DB.Close()
	}
	return nil
}
