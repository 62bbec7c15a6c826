package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"gopower/adapters/catalog"
	"gopower/adapters/excel"
	"gopower/adapters/stats/engine"
	"gopower/app"
	"gopower/domain/core"
	"gopower/domain/study"
	"gopower/ports"
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "gopower-cli",
		Short: "Sample-size and agreement calculations for intra-individual CT comparisons",
	}

	rootCmd.AddCommand(
		newSolveCmd(),
		newCurveCmd(),
		newSweepCmd(),
		newCatalogCmd(),
		newEstimateCmd(),
	)

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// openCatalog returns the built-in tables or, when a path is given, the
// Excel/CSV workbook at that path.
func openCatalog(path string) (ports.BiomarkerCatalog, error) {
	if path == "" {
		return catalog.NewBuiltinCatalog(), nil
	}
	return excel.OpenWorkbookCatalog(path)
}

func newCalculator() ports.SampleSizeCalculator {
	return engine.NewCalculator(engine.NewCachedSolver(engine.NewBisectionSolver()))
}

// studyFlags are the flags shared by solve and curve.
type studyFlags struct {
	alpha          float64
	power          float64
	design         string
	pairedVariance string
	bioSD          float64
	sysSD          float64
	resolution     string
	biomarker      string
	catalogPath    string
	jsonOut        bool
}

func (f *studyFlags) register(cmd *cobra.Command) {
	cmd.Flags().Float64Var(&f.alpha, "alpha", 0.05, "Two-sided type I error rate")
	cmd.Flags().Float64Var(&f.power, "power", 0.80, "Target power")
	cmd.Flags().StringVar(&f.design, "design", "independent", "Study design: independent|paired")
	cmd.Flags().StringVar(&f.pairedVariance, "paired-variance", "", "Paired variance mode: canonical|conservative")
	cmd.Flags().Float64Var(&f.bioSD, "bio-sd", 0, "Biological SD (manual variability)")
	cmd.Flags().Float64Var(&f.sysSD, "sys-sd", 0, "Inter-system SD (manual variability)")
	cmd.Flags().StringVar(&f.resolution, "resolution", "", "Catalog tier: standard|uhr")
	cmd.Flags().StringVar(&f.biomarker, "biomarker", "", "Catalog biomarker key (overrides manual SDs)")
	cmd.Flags().StringVar(&f.catalogPath, "catalog", "", "Catalog workbook path (.xlsx or .csv); built-in tables if empty")
	cmd.Flags().BoolVar(&f.jsonOut, "json", false, "Emit JSON instead of text")
}

func (f *studyFlags) solveCommand(effect study.EffectSize) app.SolveCommand {
	return app.SolveCommand{
		Request: study.Request{
			Significance:   study.SignificanceSpec{Alpha: f.alpha, Power: f.power},
			Design:         study.Design(f.design),
			Variability:    study.VariabilityModel{BiologicalSD: f.bioSD, InterSystemSD: f.sysSD},
			Effect:         effect,
			PairedVariance: study.PairedVariance(f.pairedVariance),
		},
		Resolution: study.Resolution(f.resolution),
		Biomarker:  core.BiomarkerKey(f.biomarker),
	}
}

func newSolveCmd() *cobra.Command {
	var flags studyFlags
	var delta, percentOf float64

	cmd := &cobra.Command{
		Use:   "solve",
		Short: "Compute the required sample size for one comparison",
		Long: `Compute the required sample size to detect a difference delta.

Variability comes either from --bio-sd/--sys-sd or from a catalog entry
named with --resolution and --biomarker.

Examples:
  gopower-cli solve --bio-sd 11.6 --sys-sd 2.4 --delta 10
  gopower-cli solve --resolution uhr --biomarker ct_ffr --delta 0.05 --design paired`,
		RunE: func(cmd *cobra.Command, args []string) error {
			effect := study.AbsoluteEffect(delta)
			if percentOf > 0 {
				effect = study.PercentEffect(delta, percentOf)
			}
			return runSolve(cmd.Context(), flags, effect)
		},
	}

	flags.register(cmd)
	cmd.Flags().Float64Var(&delta, "delta", 0, "Smallest difference to detect")
	cmd.Flags().Float64Var(&percentOf, "percent-of", 0, "Interpret --delta as a percentage of this baseline mean")
	cmd.MarkFlagRequired("delta")

	return cmd
}

func runSolve(ctx context.Context, flags studyFlags, effect study.EffectSize) error {
	cat, err := openCatalog(flags.catalogPath)
	if err != nil {
		return err
	}
	svc := app.NewStudyService(newCalculator(), cat)

	outcome, err := svc.Solve(ctx, flags.solveCommand(effect))
	if err != nil {
		return err
	}

	if flags.jsonOut {
		return printJSON(outcome)
	}

	unit := "subjects per arm"
	if outcome.Request.Design == study.DesignPaired {
		unit = "pairs"
	}
	fmt.Printf("Required sample size: %d %s\n", outcome.Result.N, unit)
	if outcome.Biomarker != nil {
		fmt.Printf("  biomarker: %s (%s)\n", outcome.Biomarker.Name, outcome.Biomarker.Resolution.Label())
	}
	fmt.Printf("  raw %.2f rounded up to %d\n", outcome.Result.Raw, outcome.Result.N)
	fmt.Printf("  z_alpha %.4f (alpha %.3f two-sided), z_power %.4f (power %.2f)\n",
		outcome.Result.ZAlpha, outcome.Request.Significance.Alpha,
		outcome.Result.ZPower, outcome.Request.Significance.Power)
	fmt.Printf("  SD %.4g (biological %.4g, inter-system %.4g), delta %.4g\n",
		outcome.Result.SD,
		outcome.Request.Variability.BiologicalSD, outcome.Request.Variability.InterSystemSD,
		outcome.Result.Delta)

	return nil
}

func newCurveCmd() *cobra.Command {
	var flags studyFlags
	var deltas string
	var from, to float64
	var points int

	cmd := &cobra.Command{
		Use:   "curve",
		Short: "Compute sample sizes over a span of effect sizes",
		Long: `Evaluate the required sample size across several detectable differences.

Give either an explicit list with --deltas or an inclusive range with
--from/--to/--points.

Examples:
  gopower-cli curve --bio-sd 11.6 --sys-sd 2.4 --deltas 5,7.5,10
  gopower-cli curve --resolution standard --biomarker stenosis_severity --from 5 --to 15 --points 5`,
		RunE: func(cmd *cobra.Command, args []string) error {
			parsed, err := parseDeltaList(deltas)
			if err != nil {
				return err
			}
			return runCurve(cmd.Context(), flags, parsed, from, to, points)
		},
	}

	flags.register(cmd)
	cmd.Flags().StringVar(&deltas, "deltas", "", "Comma-separated list of differences to evaluate")
	cmd.Flags().Float64Var(&from, "from", 0, "Range start (with --to and --points)")
	cmd.Flags().Float64Var(&to, "to", 0, "Range end, inclusive")
	cmd.Flags().IntVar(&points, "points", 0, "Number of evenly spaced points")

	return cmd
}

func parseDeltaList(s string) ([]float64, error) {
	if strings.TrimSpace(s) == "" {
		return nil, nil
	}
	parts := strings.Split(s, ",")
	out := make([]float64, 0, len(parts))
	for _, p := range parts {
		v, err := strconv.ParseFloat(strings.TrimSpace(p), 64)
		if err != nil {
			return nil, fmt.Errorf("invalid delta %q in --deltas", p)
		}
		out = append(out, v)
	}
	return out, nil
}

func runCurve(ctx context.Context, flags studyFlags, deltas []float64, from, to float64, points int) error {
	cat, err := openCatalog(flags.catalogPath)
	if err != nil {
		return err
	}
	svc := app.NewStudyService(newCalculator(), cat)

	cmd := app.CurveCommand{
		SolveCommand: flags.solveCommand(study.AbsoluteEffect(1)), // per-point deltas replace the value
		Deltas:       deltas,
	}
	if len(deltas) == 0 {
		cmd.Range = &app.CurveRange{From: from, To: to, Points: points}
	}

	outcome, err := svc.Curve(ctx, cmd)
	if err != nil {
		return err
	}

	if flags.jsonOut {
		return printJSON(outcome)
	}

	if outcome.Biomarker != nil {
		fmt.Printf("Biomarker: %s (%s)\n", outcome.Biomarker.Name, outcome.Biomarker.Resolution.Label())
	}
	fmt.Printf("%-12s %s\n", "delta", "n")
	for _, p := range outcome.Points {
		fmt.Printf("%-12.4g %d\n", p.Delta, p.N)
	}

	return nil
}

func newSweepCmd() *cobra.Command {
	var alpha, power, relativeEffect float64
	var design, pairedVariance, catalogPath string
	var concurrency int64
	var jsonOut bool

	cmd := &cobra.Command{
		Use:   "sweep [resolution]",
		Short: "Compute sample sizes for every biomarker of one tier",
		Long: `Evaluate the whole catalog tier at a shared relative effect: each
biomarker's delta is the relative effect times its design SD.

Example:
  gopower-cli sweep uhr --relative-effect 0.5 --design paired`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			req := app.SweepRequest{
				Resolution:     study.Resolution(args[0]),
				Significance:   study.SignificanceSpec{Alpha: alpha, Power: power},
				Design:         study.Design(design),
				RelativeEffect: relativeEffect,
				PairedVariance: study.PairedVariance(pairedVariance),
			}
			return runCatalogSweep(cmd.Context(), req, catalogPath, concurrency, jsonOut)
		},
	}

	cmd.Flags().Float64Var(&alpha, "alpha", 0.05, "Two-sided type I error rate")
	cmd.Flags().Float64Var(&power, "power", 0.80, "Target power")
	cmd.Flags().StringVar(&design, "design", "independent", "Study design: independent|paired")
	cmd.Flags().StringVar(&pairedVariance, "paired-variance", "", "Paired variance mode: canonical|conservative")
	cmd.Flags().Float64Var(&relativeEffect, "relative-effect", 0.5, "Effect as a multiple of each marker's design SD")
	cmd.Flags().StringVar(&catalogPath, "catalog", "", "Catalog workbook path (.xlsx or .csv); built-in tables if empty")
	cmd.Flags().Int64Var(&concurrency, "concurrency", 4, "Concurrent biomarker computations")
	cmd.Flags().BoolVar(&jsonOut, "json", false, "Emit JSON instead of text")

	return cmd
}

func runCatalogSweep(ctx context.Context, req app.SweepRequest, catalogPath string, concurrency int64, jsonOut bool) error {
	cat, err := openCatalog(catalogPath)
	if err != nil {
		return err
	}
	svc := app.NewSweepService(newCalculator(), cat, concurrency)

	outcome, err := svc.Run(ctx, req)
	if err != nil {
		return err
	}

	if jsonOut {
		return printJSON(outcome)
	}

	fmt.Printf("Sweep %s (%s, %d markers, %d ms)\n",
		outcome.SweepID, outcome.Resolution.Label(), len(outcome.Rows), outcome.RuntimeMs)
	fmt.Printf("%-26s %-12s %s\n", "biomarker", "delta", "n")
	for _, row := range outcome.Rows {
		fmt.Printf("%-26s %-12.4g %d\n", row.Key, row.Delta, row.Result.N)
	}

	return nil
}

func newCatalogCmd() *cobra.Command {
	var catalogPath string
	var jsonOut bool

	cmd := &cobra.Command{
		Use:   "catalog [resolution]",
		Short: "List catalog tiers or one tier's biomarkers",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			resolution := ""
			if len(args) == 1 {
				resolution = args[0]
			}
			return runCatalog(cmd.Context(), resolution, catalogPath, jsonOut)
		},
	}

	cmd.Flags().StringVar(&catalogPath, "catalog", "", "Catalog workbook path (.xlsx or .csv); built-in tables if empty")
	cmd.Flags().BoolVar(&jsonOut, "json", false, "Emit JSON instead of text")

	return cmd
}

func runCatalog(ctx context.Context, resolution, catalogPath string, jsonOut bool) error {
	cat, err := openCatalog(catalogPath)
	if err != nil {
		return err
	}

	if resolution == "" {
		resolutions, err := cat.Resolutions(ctx)
		if err != nil {
			return err
		}
		if jsonOut {
			return printJSON(resolutions)
		}
		for _, res := range resolutions {
			markers, err := cat.List(ctx, res)
			if err != nil {
				return err
			}
			fmt.Printf("%-10s %s (%d markers)\n", res, res.Label(), len(markers))
		}
		return nil
	}

	markers, err := cat.List(ctx, study.Resolution(resolution))
	if err != nil {
		return err
	}
	if jsonOut {
		return printJSON(markers)
	}

	fmt.Printf("%-26s %-10s %-10s %-10s %s\n", "key", "bio SD", "sys SD", "total SD", "name")
	for _, m := range markers {
		fmt.Printf("%-26s %-10.4g %-10.4g %-10.4g %s\n",
			m.Key, m.Variability.BiologicalSD, m.Variability.InterSystemSD, m.Variability.TotalSD(), m.Name)
	}

	return nil
}

func newEstimateCmd() *cobra.Command {
	var columnA, columnB, pairedVariance string
	var alpha, power, delta float64
	var jsonOut bool

	cmd := &cobra.Command{
		Use:   "estimate [pairs-file]",
		Short: "Estimate agreement from paired measurements in a workbook",
		Long: `Read paired measurements of the same subjects on two systems from an
.xlsx or .csv file and report bias, difference SD and limits of agreement.

With --delta the paired sample size for a follow-up study is suggested.

Example:
  gopower-cli estimate pairs.xlsx --col-a pcd_value --col-b eid_value --delta 2`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runEstimate(cmd.Context(), args[0], columnA, columnB,
				alpha, power, delta, pairedVariance, jsonOut)
		},
	}

	cmd.Flags().StringVar(&columnA, "col-a", "system_a", "Column with system A measurements")
	cmd.Flags().StringVar(&columnB, "col-b", "system_b", "Column with system B measurements")
	cmd.Flags().Float64Var(&alpha, "alpha", 0.05, "Two-sided type I error rate for the suggestion")
	cmd.Flags().Float64Var(&power, "power", 0.80, "Target power for the suggestion")
	cmd.Flags().Float64Var(&delta, "delta", 0, "Difference to detect; enables the sample-size suggestion")
	cmd.Flags().StringVar(&pairedVariance, "paired-variance", "", "Paired variance mode: canonical|conservative")
	cmd.Flags().BoolVar(&jsonOut, "json", false, "Emit JSON instead of text")

	return cmd
}

func runEstimate(ctx context.Context, path, columnA, columnB string, alpha, power, delta float64, pairedVariance string, jsonOut bool) error {
	systemA, systemB, err := excel.ReadPairs(path, columnA, columnB)
	if err != nil {
		return err
	}

	svc := app.NewEstimateService(engine.NewAgreementEstimator(), newCalculator())

	cmd := app.EstimateCommand{
		SystemA:        systemA,
		SystemB:        systemB,
		PairedVariance: study.PairedVariance(pairedVariance),
	}
	if delta > 0 {
		sig := study.SignificanceSpec{Alpha: alpha, Power: power}
		eff := study.AbsoluteEffect(delta)
		cmd.Significance = &sig
		cmd.Effect = &eff
	}

	outcome, err := svc.Estimate(ctx, cmd)
	if err != nil {
		return err
	}

	if jsonOut {
		return printJSON(outcome)
	}

	s := outcome.Summary
	fmt.Printf("Agreement summary (%d pairs from %s)\n", s.Pairs, path)
	fmt.Printf("  mean bias (B - A):    %.4g\n", s.MeanBias)
	fmt.Printf("  difference SD:        %.4g\n", s.DiffSD)
	fmt.Printf("  between-subject SD:   %.4g\n", s.BetweenSubjectSD)
	fmt.Printf("  total SD:             %.4g\n", s.TotalSD)
	fmt.Printf("  95%% limits of agreement: [%.4g, %.4g]\n", s.LoALower, s.LoAUpper)

	if outcome.Suggested != nil {
		fmt.Printf("\nSuggested paired sample size for delta %.4g: %d pairs (raw %.2f)\n",
			outcome.Suggested.Delta, outcome.Suggested.N, outcome.Suggested.Raw)
	}

	return nil
}

func printJSON(v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	fmt.Println(string(data))
	return nil
}
