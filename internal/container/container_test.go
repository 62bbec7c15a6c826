package container

import (
	"testing"

	"gopower/internal/config"
)

func builtinConfig() *config.Config {
	return &config.Config{
		Server:  config.ServerConfig{Port: "8080"},
		Catalog: config.CatalogConfig{Source: config.CatalogSourceBuiltin},
		Solver:  config.SolverConfig{Backend: config.SolverBisection},
		Sweep:   config.SweepConfig{Concurrency: 2},
	}
}

func TestNewWiresBuiltinCatalog(t *testing.T) {
	c, err := New(builtinConfig())
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}

	if !c.Ready() {
		t.Fatal("expected all services wired for the builtin source")
	}
	if c.Catalog == nil || c.Calculator == nil || c.Estimator == nil {
		t.Fatal("expected engine and catalog components wired")
	}
}

func TestNewDefersPostgresWiring(t *testing.T) {
	cfg := builtinConfig()
	cfg.Catalog.Source = config.CatalogSourcePostgres
	cfg.Database.URL = "postgres://localhost/gopower"

	c, err := New(cfg)
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}

	if c.Ready() {
		t.Fatal("postgres source must not be ready before InitWithDatabase")
	}
	if c.Catalog != nil {
		t.Fatal("catalog must stay nil until a database is provided")
	}
}

func TestNewRejectsNilAndUnknownSource(t *testing.T) {
	if _, err := New(nil); err == nil {
		t.Fatal("expected error for nil config")
	}

	cfg := builtinConfig()
	cfg.Catalog.Source = "ldap"
	if _, err := New(cfg); err == nil {
		t.Fatal("expected error for unknown catalog source")
	}
}

func TestGonumBackendSelectable(t *testing.T) {
	cfg := builtinConfig()
	cfg.Solver.Backend = config.SolverGonum

	c, err := New(cfg)
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}
	if c.Solver == nil {
		t.Fatal("expected a solver")
	}
}
