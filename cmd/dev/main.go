package main

import (
	"context"
	"encoding/csv"
	"fmt"
	"os"
	"strconv"

	"github.com/spf13/cobra"

	"gopower/adapters/catalog"
	"gopower/adapters/excel"
	"gopower/adapters/stats/engine"
	"gopower/app"
	"gopower/domain/study"
	"gopower/internal/testkit"
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "gopower-dev",
		Short: "Development tools for the power calculator",
	}

	rootCmd.AddCommand(
		newSeedWorkbookCmd(),
		newPairsCmd(),
		newSmokeTestCmd(),
	)

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newSeedWorkbookCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "seed-workbook [path]",
		Short: "Write the builtin variability catalog to an Excel workbook",
		Long: `Write the builtin variability catalog to an Excel workbook.

The workbook has the layout the excel catalog source reads, so it serves
as a starting point for locally edited variability tables.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path := "./catalog.xlsx"
			if len(args) == 1 {
				path = args[0]
			}
			return seedWorkbook(cmd.Context(), path)
		},
	}
	return cmd
}

func newPairsCmd() *cobra.Command {
	cfg := testkit.DefaultPairedSeriesConfig()

	cmd := &cobra.Command{
		Use:   "pairs [path]",
		Short: "Generate a synthetic paired-measurement CSV",
		Long: `Generate a synthetic paired-measurement CSV.

Each row holds one subject measured on both systems, drawn from a known
bias and difference spread. Feed the file to the estimate command to see
how well the agreement summary recovers the configured values.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path := "./pairs.csv"
			if len(args) == 1 {
				path = args[0]
			}
			return generatePairs(path, cfg)
		},
	}

	cmd.Flags().IntVar(&cfg.Pairs, "pairs", cfg.Pairs, "number of subjects")
	cmd.Flags().Float64Var(&cfg.Mean, "mean", cfg.Mean, "population mean of the measured quantity")
	cmd.Flags().Float64Var(&cfg.BiologicalSD, "bio-sd", cfg.BiologicalSD, "between-subject standard deviation")
	cmd.Flags().Float64Var(&cfg.DiffSD, "diff-sd", cfg.DiffSD, "standard deviation of per-subject differences")
	cmd.Flags().Float64Var(&cfg.Bias, "bias", cfg.Bias, "systematic offset of system B over system A")
	cmd.Flags().Int64Var(&cfg.Seed, "seed", cfg.Seed, "random seed")

	return cmd
}

func newSmokeTestCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "smoke",
		Short: "Run smoke tests against the in-process services",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSmokeTests(cmd.Context())
		},
	}
	return cmd
}

func seedWorkbook(ctx context.Context, path string) error {
	markers := catalog.NewBuiltinCatalog().All()
	if err := excel.WriteWorkbookCatalog(path, markers); err != nil {
		return fmt.Errorf("failed to write workbook: %w", err)
	}

	// Read it back through the same adapter the server uses.
	wb, err := excel.OpenWorkbookCatalog(path)
	if err != nil {
		return fmt.Errorf("written workbook does not read back: %w", err)
	}
	resolutions, err := wb.Resolutions(ctx)
	if err != nil {
		return err
	}

	fmt.Printf("Wrote %s (%d markers)\n", path, len(markers))
	for _, res := range resolutions {
		entries, err := wb.List(ctx, res)
		if err != nil {
			return err
		}
		fmt.Printf("  %-10s %d markers\n", res, len(entries))
	}
	return nil
}

func generatePairs(path string, cfg testkit.PairedSeriesConfig) error {
	kit := testkit.NewKit(cfg.Seed)
	systemA, systemB := kit.PairedSeries(cfg)

	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", path, err)
	}
	defer file.Close()

	// Column names match the estimate command's defaults.
	w := csv.NewWriter(file)
	if err := w.Write([]string{"system_a", "system_b"}); err != nil {
		return err
	}
	for i := range systemA {
		row := []string{
			strconv.FormatFloat(systemA[i], 'f', 4, 64),
			strconv.FormatFloat(systemB[i], 'f', 4, 64),
		}
		if err := w.Write(row); err != nil {
			return err
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return err
	}

	fmt.Printf("Wrote %s (%d pairs, bias %.2f, diff SD %.2f, seed %d)\n",
		path, cfg.Pairs, cfg.Bias, cfg.DiffSD, cfg.Seed)
	return nil
}

func runSmokeTests(ctx context.Context) error {
	fmt.Println("Running smoke tests...")

	solver := engine.NewCachedSolver(engine.NewBisectionSolver())
	calculator := engine.NewCalculator(solver)
	builtin := catalog.NewBuiltinCatalog()
	studySvc := app.NewStudyService(calculator, builtin)
	sweepSvc := app.NewSweepService(calculator, builtin, 4)
	estimateSvc := app.NewEstimateService(engine.NewAgreementEstimator(), calculator)

	significance := study.SignificanceSpec{Alpha: 0.05, Power: 0.80}

	tests := []struct {
		name string
		fn   func(context.Context) error
	}{
		{"independent_solve", func(ctx context.Context) error {
			outcome, err := studySvc.Solve(ctx, app.SolveCommand{
				Request: study.Request{
					Significance: significance,
					Design:       study.DesignIndependent,
					Variability:  study.VariabilityModel{BiologicalSD: 11.6, InterSystemSD: 2.4},
					Effect:       study.AbsoluteEffect(10),
				},
			})
			if err != nil {
				return err
			}
			if outcome.Result.N != 23 {
				return fmt.Errorf("expected n=23, got %d", outcome.Result.N)
			}
			return nil
		}},
		{"paired_solve", func(ctx context.Context) error {
			outcome, err := studySvc.Solve(ctx, app.SolveCommand{
				Request: study.Request{
					Significance: significance,
					Design:       study.DesignPaired,
					Variability:  study.VariabilityModel{InterSystemSD: 5},
					Effect:       study.AbsoluteEffect(5),
				},
			})
			if err != nil {
				return err
			}
			if outcome.Result.N != 8 {
				return fmt.Errorf("expected n=8, got %d", outcome.Result.N)
			}
			return nil
		}},
		{"catalog_sweep", func(ctx context.Context) error {
			outcome, err := sweepSvc.Run(ctx, app.SweepRequest{
				Resolution:     study.ResolutionUltraHigh,
				Significance:   significance,
				Design:         study.DesignIndependent,
				RelativeEffect: 0.5,
			})
			if err != nil {
				return err
			}
			if len(outcome.Rows) == 0 {
				return fmt.Errorf("sweep produced no rows")
			}
			return nil
		}},
		{"agreement_round_trip", func(ctx context.Context) error {
			cfg := testkit.DefaultPairedSeriesConfig()
			systemA, systemB := testkit.NewKit(cfg.Seed).PairedSeries(cfg)

			effect := study.AbsoluteEffect(2)
			outcome, err := estimateSvc.Estimate(ctx, app.EstimateCommand{
				SystemA:      systemA,
				SystemB:      systemB,
				Significance: &significance,
				Effect:       &effect,
			})
			if err != nil {
				return err
			}
			if outcome.Summary.Pairs != cfg.Pairs {
				return fmt.Errorf("expected %d pairs, got %d", cfg.Pairs, outcome.Summary.Pairs)
			}
			if outcome.Suggested == nil || outcome.Suggested.N < 2 {
				return fmt.Errorf("expected a usable suggested sample size")
			}
			return nil
		}},
	}

	passed := 0
	for _, test := range tests {
		fmt.Printf("  Running %s...", test.name)
		if err := test.fn(ctx); err != nil {
			fmt.Printf(" FAILED: %v\n", err)
		} else {
			fmt.Println(" PASSED")
			passed++
		}
	}

	fmt.Printf("\nSmoke tests: %d/%d passed\n", passed, len(tests))
	if passed < len(tests) {
		return fmt.Errorf("some smoke tests failed")
	}

	return nil
}
