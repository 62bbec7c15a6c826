package config

import (
	"os"
	"strconv"

	"gopower/internal/errors"
)

// Catalog source selectors
const (
	CatalogSourceBuiltin  = "builtin"
	CatalogSourceExcel    = "excel"
	CatalogSourcePostgres = "postgres"
)

// Solver backend selectors
const (
	SolverBisection = "bisection"
	SolverGonum     = "gonum"
)

// Config represents the complete application configuration
type Config struct {
	Server   ServerConfig
	Database DatabaseConfig
	Catalog  CatalogConfig
	Solver   SolverConfig
	Sweep    SweepConfig
}

// ServerConfig holds web server settings
type ServerConfig struct {
	Port    string
	GinMode string
}

// DatabaseConfig holds database connection settings; URL empty means no database
type DatabaseConfig struct {
	URL string
}

// CatalogConfig selects where biomarker variability data comes from
type CatalogConfig struct {
	Source    string // builtin, excel or postgres
	ExcelFile string // path to the workbook, excel source only
}

// SolverConfig selects the quantile backend
type SolverConfig struct {
	Backend string // bisection or gonum
}

// SweepConfig bounds the concurrent catalog sweep
type SweepConfig struct {
	Concurrency int64
}

// Load reads configuration from environment variables and validates it
func Load() (*Config, error) {
	config := &Config{
		Server: ServerConfig{
			Port:    getEnvOrDefault("PORT", "8080"),
			GinMode: getEnvOrDefault("GIN_MODE", "debug"),
		},
		Database: DatabaseConfig{
			URL: getEnvOrDefault("DATABASE_URL", ""),
		},
		Catalog: CatalogConfig{
			Source:    getEnvOrDefault("CATALOG_SOURCE", ""),
			ExcelFile: getEnvOrDefault("CATALOG_EXCEL_FILE", ""),
		},
		Solver: SolverConfig{
			Backend: getEnvOrDefault("SOLVER_BACKEND", SolverBisection),
		},
		Sweep: SweepConfig{
			Concurrency: int64(getEnvIntOrDefault("SWEEP_CONCURRENCY", 4)),
		},
	}

	if config.Catalog.Source == "" {
		config.Catalog.Source = inferCatalogSource(config)
	}

	if err := validateConfig(config); err != nil {
		return nil, errors.Wrap(err, "configuration validation failed")
	}

	return config, nil
}

// inferCatalogSource picks a source from what is configured: a database wins
// over an Excel file, and the built-in tables are the fallback.
func inferCatalogSource(config *Config) string {
	if config.Database.URL != "" {
		return CatalogSourcePostgres
	}
	if config.Catalog.ExcelFile != "" {
		return CatalogSourceExcel
	}
	return CatalogSourceBuiltin
}

func validateConfig(config *Config) error {
	switch config.Catalog.Source {
	case CatalogSourceBuiltin:
	case CatalogSourceExcel:
		if config.Catalog.ExcelFile == "" {
			return errors.ConfigInvalid("CATALOG_EXCEL_FILE is required for the excel catalog source")
		}
	case CatalogSourcePostgres:
		if config.Database.URL == "" {
			return errors.ConfigInvalid("DATABASE_URL is required for the postgres catalog source")
		}
	default:
		return errors.ConfigInvalid("CATALOG_SOURCE must be builtin, excel or postgres")
	}

	switch config.Solver.Backend {
	case SolverBisection, SolverGonum:
	default:
		return errors.ConfigInvalid("SOLVER_BACKEND must be bisection or gonum")
	}

	if config.Sweep.Concurrency < 1 {
		return errors.ConfigInvalid("SWEEP_CONCURRENCY must be at least 1")
	}

	return nil
}

// Helper functions for environment variable parsing
func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvIntOrDefault(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}
