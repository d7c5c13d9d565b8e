package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"text/tabwriter"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/guptarohit/asciigraph"
	"github.com/spf13/cobra"
	"gonum.org/v1/gonum/stat"

	"github.com/san-kum/kappasim/internal/analysis"
	"github.com/san-kum/kappasim/internal/automation"
	"github.com/san-kum/kappasim/internal/config"
	"github.com/san-kum/kappasim/internal/dynamo"
	"github.com/san-kum/kappasim/internal/engine"
	"github.com/san-kum/kappasim/internal/experiment"
	"github.com/san-kum/kappasim/internal/export"
	"github.com/san-kum/kappasim/internal/integrators"
	"github.com/san-kum/kappasim/internal/optim"
	"github.com/san-kum/kappasim/internal/physics"
	"github.com/san-kum/kappasim/internal/stats"
	"github.com/san-kum/kappasim/internal/storage"
	"github.com/san-kum/kappasim/internal/viz"
)

var (
	dataDir  string
	logLevel string
	logFile  string
	logger   *slog.Logger

	sim simFlags

	traceEvery int
	noSave     bool
	jsonOut    bool
	svgPath    string

	theme   string
	gifPath string

	sweepParam     string
	sweepMin       float64
	sweepMax       float64
	sweepSteps     int
	sweepTransient int
	sweepRecord    int
	tuneRanges     []string
	tuneMetric     string
	tuneMaximize   bool
	ensembleRuns   int
	phaseW, phaseH int
	spectrumSeries string
)

func main() {
	rootCmd := &cobra.Command{
		Use:           "kappasim",
		Short:         "kappa-gravity particle dynamics",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			w := io.Writer(os.Stderr)
			if cmd.Name() == "live" || cmd.Name() == "kappasim" {
				// stderr belongs to the terminal UI
				w = io.Discard
			}
			l, closer, err := newLogger(logLevel, logFile, w)
			if err != nil {
				return err
			}
			logger = l
			slog.SetDefault(l)
			cobra.OnFinalize(func() { closer() })
			return nil
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := sim.resolve(cmd)
			if err != nil {
				return err
			}
			app := viz.NewApp(cfg, viz.ModelConfig{Theme: theme, GIFPath: gifPath, Logger: logger})
			defer app.Close()
			_, err = tea.NewProgram(app, tea.WithAltScreen(), tea.WithMouseCellMotion()).Run()
			return err
		},
	}
	rootCmd.PersistentFlags().StringVar(&dataDir, "data", ".kappasim", "data directory")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "info", "log level (debug, info, warn, error)")
	rootCmd.PersistentFlags().StringVar(&logFile, "log-file", "", "write logs to this file")
	sim.register(rootCmd)
	rootCmd.Flags().StringVar(&theme, "theme", viz.ThemeNebula.Name, "color theme")
	rootCmd.Flags().StringVar(&gifPath, "gif", "kappasim.gif", "gif recording path")

	runCmd := &cobra.Command{
		Use:   "run",
		Short: "run a headless simulation and store the result",
		Args:  cobra.NoArgs,
		RunE:  runSimulation,
	}
	sim.register(runCmd)
	runCmd.Flags().Int("ticks", 2000, "number of ticks")
	runCmd.Flags().IntVar(&traceEvery, "trace-every", 10, "ticks between recorded trace points")
	runCmd.Flags().BoolVar(&noSave, "no-save", false, "do not store the run")
	runCmd.Flags().BoolVar(&jsonOut, "json", false, "print the result as json")
	runCmd.Flags().StringVar(&svgPath, "svg", "", "write the final snapshot as svg")

	liveCmd := &cobra.Command{
		Use:   "live",
		Short: "run with live terminal visualization",
		Args:  cobra.NoArgs,
		RunE:  runLive,
	}
	sim.register(liveCmd)
	liveCmd.Flags().StringVar(&theme, "theme", viz.ThemeNebula.Name, "color theme ("+strings.Join(viz.ThemeNames(), ", ")+")")
	liveCmd.Flags().StringVar(&gifPath, "gif", "kappasim.gif", "gif recording path")

	presetsCmd := &cobra.Command{
		Use:   "presets",
		Short: "list available presets",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
			fmt.Fprintln(w, "PRESET\tMODE\tDESCRIPTION")
			for _, p := range config.ListPresets() {
				fmt.Fprintf(w, "%s\t%s\t%s\n", p, p.Mode(), p.Description())
			}
			return w.Flush()
		},
	}

	paramsCmd := &cobra.Command{
		Use:   "params",
		Short: "list tunable parameters and their values",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := sim.resolve(cmd)
			if err != nil {
				return err
			}
			w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
			fmt.Fprintln(w, "PARAM\tVALUE")
			for _, name := range config.ParamNames() {
				v, _ := cfg.Param(name)
				fmt.Fprintf(w, "%s\t%g\n", name, v)
			}
			return w.Flush()
		},
	}
	sim.register(paramsCmd)

	configCmd := &cobra.Command{
		Use:   "config [path]",
		Short: "write the resolved configuration to a yaml file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := sim.resolve(cmd)
			if err != nil {
				return err
			}
			if err := config.Save(args[0], cfg); err != nil {
				return err
			}
			fmt.Printf("wrote %s (%s mode)\n", args[0], cfg.Mode)
			return nil
		},
	}
	sim.register(configCmd)

	listCmd := &cobra.Command{
		Use:   "list",
		Short: "list stored runs",
		Args:  cobra.NoArgs,
		RunE:  listRuns,
	}

	plotCmd := &cobra.Command{
		Use:   "plot [run_id]",
		Short: "plot the series of a stored run",
		Args:  cobra.ExactArgs(1),
		RunE:  plotRun,
	}

	exportCmd := &cobra.Command{
		Use:   "export [run_id]",
		Short: "print run metadata as json",
		Args:  cobra.ExactArgs(1),
		RunE:  exportRun,
	}

	benchCmd := &cobra.Command{
		Use:   "bench",
		Short: "measure tick throughput of every integrator",
		Args:  cobra.NoArgs,
		RunE:  benchIntegrators,
	}
	sim.register(benchCmd)
	benchCmd.Flags().Int("ticks", 200, "ticks per integrator")

	analyzeCmd := &cobra.Command{
		Use:   "analyze [run_id]",
		Short: "frequency analysis of a stored run",
		Args:  cobra.ExactArgs(1),
		RunE:  analyzeRun,
	}
	analyzeCmd.Flags().StringVar(&spectrumSeries, "series", "mean_radius", "series to analyze (mean_radius, lz)")

	phaseCmd := &cobra.Command{
		Use:   "phase",
		Short: "radial phase portrait after a headless run",
		Args:  cobra.NoArgs,
		RunE:  phasePlot,
	}
	sim.register(phaseCmd)
	phaseCmd.Flags().Int("ticks", 1000, "number of ticks")
	phaseCmd.Flags().IntVar(&phaseW, "width", 80, "plot width")
	phaseCmd.Flags().IntVar(&phaseH, "height", 24, "plot height")

	sweepCmd := &cobra.Command{
		Use:   "sweep",
		Short: "sweep one parameter and plot the settled mean radius",
		Args:  cobra.NoArgs,
		RunE:  runSweep,
	}
	sim.register(sweepCmd)
	sweepCmd.Flags().StringVar(&sweepParam, "param", "kappa0", "parameter to sweep ("+strings.Join(config.ParamNames(), ", ")+")")
	sweepCmd.Flags().Float64Var(&sweepMin, "min", 0, "lowest value")
	sweepCmd.Flags().Float64Var(&sweepMax, "max", 0.1, "highest value")
	sweepCmd.Flags().IntVar(&sweepSteps, "steps", 20, "number of values")
	sweepCmd.Flags().IntVar(&sweepTransient, "transient", 500, "ticks discarded per run")
	sweepCmd.Flags().IntVar(&sweepRecord, "record", 200, "ticks recorded per run")

	tuneCmd := &cobra.Command{
		Use:   "tune",
		Short: "grid search parameters against a metric",
		Args:  cobra.NoArgs,
		RunE:  runTune,
	}
	sim.register(tuneCmd)
	tuneCmd.Flags().StringArrayVar(&tuneRanges, "range", nil, "parameter range as name=lo:hi:n (repeatable)")
	tuneCmd.Flags().StringVar(&tuneMetric, "metric", "confinement", "metric to optimize")
	tuneCmd.Flags().BoolVar(&tuneMaximize, "maximize", false, "maximize instead of minimize")
	tuneCmd.Flags().Int("ticks", 500, "ticks per evaluation")

	ensembleCmd := &cobra.Command{
		Use:   "ensemble",
		Short: "run the same configuration under consecutive seeds",
		Args:  cobra.NoArgs,
		RunE:  runEnsemble,
	}
	sim.register(ensembleCmd)
	ensembleCmd.Flags().IntVar(&ensembleRuns, "runs", 8, "number of seeds")
	ensembleCmd.Flags().Int("ticks", 1000, "ticks per run")

	scenarioCmd := &cobra.Command{
		Use:   "scenario [file]",
		Short: "run a yaml scenario of consecutive steps",
		Args:  cobra.ExactArgs(1),
		RunE:  runScenario,
	}
	sim.register(scenarioCmd)

	rootCmd.AddCommand(runCmd, liveCmd, presetsCmd, paramsCmd, configCmd, listCmd, plotCmd,
		exportCmd, benchCmd, analyzeCmd, phaseCmd, sweepCmd, tuneCmd, ensembleCmd, scenarioCmd)

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}

func signalContext() (context.Context, context.CancelFunc) {
	return signal.NotifyContext(context.Background(), os.Interrupt)
}

func runSimulation(cmd *cobra.Command, args []string) error {
	ticks, _ := cmd.Flags().GetInt("ticks")
	cfg, err := sim.resolve(cmd)
	if err != nil {
		return err
	}

	registry := experiment.NewRegistry()
	exp := experiment.New(experiment.Config{Sim: cfg, Ticks: ticks, TraceEvery: traceEvery, Logger: logger})
	if err := exp.Setup(registry.DefaultMetrics(cfg)); err != nil {
		return err
	}

	ctx, cancel := signalContext()
	defer cancel()

	logger.Info("running", "mode", cfg.Mode, "law", cfg.Force.Kind, "bodies", cfg.Population, "ticks", ticks)
	result, err := exp.Run(ctx)
	if err != nil {
		return err
	}

	name := cfg.Mode.String()
	if sim.preset != "" {
		name = sim.preset
	}

	if svgPath != "" {
		out := export.SnapshotSVG(result.Final, cfg, 800, viewExtent(cfg))
		if err := os.WriteFile(svgPath, []byte(out), 0644); err != nil {
			return err
		}
		logger.Info("wrote svg", "path", svgPath)
	}

	if jsonOut {
		return storage.ExportJSON(os.Stdout, name, cfg, result)
	}

	if !noSave {
		st := storage.New(dataDir)
		if err := st.Init(); err != nil {
			return err
		}
		runID, err := st.Save(name, cfg, result)
		if err != nil {
			return err
		}
		fmt.Printf("run id: %s\n", runID)
	}

	fmt.Printf("completed %d ticks in %v (%.0f ticks/s)\n",
		result.TicksTaken, result.Elapsed.Round(time.Millisecond), float64(result.TicksTaken)/result.Elapsed.Seconds())

	final := result.Final.Stats
	if !result.Final.HasStats {
		final = stats.Sample(result.Final.Bodies, cfg.Stats)
	}
	fmt.Printf("regions: inside %d  middle %d  outside %d\n", final.Inside, final.Middle, final.Outside)
	fmt.Printf("mean radius: %.3f ± %.3f\n", final.MeanRadius, final.RadiusStdDev)

	fmt.Println("\nmetrics:")
	for _, name := range registry.ListMetrics() {
		if v, ok := result.Metrics[name]; ok {
			fmt.Printf("  %s: %.6g\n", name, v)
		}
	}

	if chart := rotationCurve(final, cfg.Force); chart != "" {
		fmt.Println()
		fmt.Println(chart)
	}
	return nil
}

func viewExtent(cfg config.Simulation) float64 {
	if cfg.Mode == physics.ModeField {
		return cfg.Field.OuterRadius * 1.25
	}
	return cfg.Flock.SoftBoundary * 1.3
}

func rotationCurve(snap stats.Snapshot, law physics.ForceLaw) string {
	centers := snap.BinCenters()
	var rs, observed []float64
	for i, n := range snap.BinCounts {
		if n > 0 {
			rs = append(rs, centers[i])
			observed = append(observed, snap.BinMeans[i])
		}
	}
	if len(rs) < 2 {
		return ""
	}
	return asciigraph.PlotMany([][]float64{observed, stats.ExpectedCurve(law, rs)},
		asciigraph.Height(10),
		asciigraph.Width(80),
		asciigraph.SeriesColors(asciigraph.Cyan, asciigraph.Gold),
		asciigraph.Caption("tangential speed vs radius (observed, expected)"))
}

func runLive(cmd *cobra.Command, args []string) error {
	cfg, err := sim.resolve(cmd)
	if err != nil {
		return err
	}
	eng, err := engine.New(cfg,
		engine.WithLogger(logger),
		engine.WithMetrics(experiment.NewRegistry().DefaultMetrics(cfg)...))
	if err != nil {
		return err
	}
	defer eng.Close()

	m := viz.NewModel(eng, viz.ModelConfig{Theme: theme, GIFPath: gifPath, Logger: logger})
	_, err = tea.NewProgram(m, tea.WithAltScreen(), tea.WithMouseCellMotion()).Run()
	return err
}

func listRuns(cmd *cobra.Command, args []string) error {
	runs, err := storage.New(dataDir).List()
	if err != nil {
		return err
	}
	if len(runs) == 0 {
		fmt.Println("no runs found")
		return nil
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tMODE\tLAW\tTIME\tBODIES\tTICKS\tINTEG\tIN/MID/OUT")
	for _, run := range runs {
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%d\t%d\t%s\t%d/%d/%d\n",
			run.ID,
			run.Mode,
			run.Law,
			run.Timestamp.Format("2006-01-02 15:04:05"),
			run.Population,
			run.Ticks,
			run.Integrator,
			run.Inside, run.Middle, run.Outside,
		)
	}
	return w.Flush()
}

func plotRun(cmd *cobra.Command, args []string) error {
	st := storage.New(dataDir)
	meta, err := st.Load(args[0])
	if err != nil {
		return err
	}
	series, err := st.LoadSeries(args[0])
	if err != nil {
		return err
	}
	if len(series.Times) < 2 {
		return fmt.Errorf("no data to plot")
	}

	fmt.Printf("run: %s\n", meta.ID)
	fmt.Printf("mode: %s  law: %s\n", meta.Mode, meta.Law)
	fmt.Printf("samples: %d\n\n", len(series.Times))

	for _, s := range []struct {
		data    []float64
		caption string
	}{
		{series.MeanRadius, "mean radius"},
		{series.Lz, "angular momentum per body"},
	} {
		fmt.Println(asciigraph.Plot(s.data, asciigraph.Height(10), asciigraph.Width(80), asciigraph.Caption(s.caption)))
		fmt.Println()
	}
	return nil
}

func exportRun(cmd *cobra.Command, args []string) error {
	meta, err := storage.New(dataDir).Load(args[0])
	if err != nil {
		return err
	}
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(meta)
}

func benchIntegrators(cmd *cobra.Command, args []string) error {
	ticks, _ := cmd.Flags().GetInt("ticks")
	base, err := sim.resolve(cmd)
	if err != nil {
		return err
	}
	ctx, cancel := signalContext()
	defer cancel()

	fmt.Printf("benchmarking %s mode, %d bodies, %d ticks\n\n", base.Mode, base.Population, ticks)
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "INTEGRATOR\tTIME\tTICKS/SEC\tBODY-TICKS/SEC")

	for _, name := range integrators.Names() {
		cfg := base
		cfg.Integrator = name
		eng, err := engine.New(cfg, engine.WithLogger(logger))
		if err != nil {
			return err
		}
		start := time.Now()
		err = eng.RunTicks(ctx, ticks)
		elapsed := time.Since(start)
		eng.Close()
		if err != nil {
			return err
		}
		rate := float64(ticks) / elapsed.Seconds()
		fmt.Fprintf(w, "%s\t%v\t%.0f\t%.3g\n", name, elapsed.Round(time.Millisecond), rate, rate*float64(cfg.Population))
	}
	return w.Flush()
}

func analyzeRun(cmd *cobra.Command, args []string) error {
	st := storage.New(dataDir)
	meta, err := st.Load(args[0])
	if err != nil {
		return err
	}
	series, err := st.LoadSeries(args[0])
	if err != nil {
		return err
	}

	var data []float64
	switch spectrumSeries {
	case "mean_radius":
		data = series.MeanRadius
	case "lz":
		data = series.Lz
	default:
		return fmt.Errorf("unknown series %q", spectrumSeries)
	}
	if len(data) < 4 || len(series.Times) < 2 {
		return fmt.Errorf("not enough samples (%d)", len(data))
	}

	fmt.Printf("frequency analysis: %s\n", meta.ID)
	fmt.Printf("mode: %s  law: %s\n\n", meta.Mode, meta.Law)

	sampleDt := series.Times[1] - series.Times[0]
	ps := analysis.PowerSpectrum(data)
	fmt.Println(asciigraph.Plot(ps[1:], asciigraph.Height(15), asciigraph.Width(80),
		asciigraph.Caption("power spectrum ("+spectrumSeries+")")))
	fmt.Println()

	freq, power := analysis.DominantFrequency(data, sampleDt)
	fmt.Printf("dominant frequency: %.4f (power %.3g)\n", freq, power)
	if freq > 0 {
		fmt.Printf("period: %.3f\n", 1/freq)
	}
	return nil
}

func phasePlot(cmd *cobra.Command, args []string) error {
	ticks, _ := cmd.Flags().GetInt("ticks")
	cfg, err := sim.resolve(cmd)
	if err != nil {
		return err
	}
	eng, err := engine.New(cfg, engine.WithLogger(logger))
	if err != nil {
		return err
	}
	defer eng.Close()

	ctx, cancel := signalContext()
	defer cancel()
	if err := eng.RunTicks(ctx, ticks); err != nil {
		return err
	}

	snap := eng.Snapshot()
	fmt.Printf("radial phase (r vs v_r), %s mode, t=%.2f\n\n", snap.Mode, snap.Clock.Time)
	fmt.Println(analysis.PhaseToASCII(analysis.RadialPhase(snap.Bodies), phaseW, phaseH))
	return nil
}

func runSweep(cmd *cobra.Command, args []string) error {
	cfg, err := sim.resolve(cmd)
	if err != nil {
		return err
	}
	ctx, cancel := signalContext()
	defer cancel()

	spec := analysis.SweepSpec{
		Param:     sweepParam,
		Min:       sweepMin,
		Max:       sweepMax,
		Steps:     sweepSteps,
		Transient: sweepTransient,
		Record:    sweepRecord,
	}
	logger.Info("sweeping", "param", spec.Param, "min", spec.Min, "max", spec.Max, "steps", spec.Steps)
	points, err := analysis.Sweep(ctx, cfg, spec)
	if err != nil {
		return err
	}

	fmt.Println(analysis.SweepToASCII(points, 80, 24))
	fmt.Println()
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintf(w, "%s\tMEAN R\tSTD R\tINSIDE\tOUTSIDE\tLZ\n", strings.ToUpper(sweepParam))
	for _, p := range points {
		fmt.Fprintf(w, "%.4g\t%.3f\t%.3f\t%.2f\t%.2f\t%.4g\n", p.Param, p.MeanRadius, p.RadiusStdDev, p.InsideFrac, p.OutsideFrac, p.Lz)
	}
	return w.Flush()
}

// parseRange parses name=lo:hi:n.
func parseRange(s string) (string, []float64, error) {
	name, spec, ok := strings.Cut(s, "=")
	if !ok {
		return "", nil, fmt.Errorf("range %q: want name=lo:hi:n", s)
	}
	parts := strings.Split(spec, ":")
	if len(parts) != 3 {
		return "", nil, fmt.Errorf("range %q: want name=lo:hi:n", s)
	}
	lo, err := strconv.ParseFloat(parts[0], 64)
	if err != nil {
		return "", nil, fmt.Errorf("range %q: %w", s, err)
	}
	hi, err := strconv.ParseFloat(parts[1], 64)
	if err != nil {
		return "", nil, fmt.Errorf("range %q: %w", s, err)
	}
	n, err := strconv.Atoi(parts[2])
	if err != nil || n < 1 {
		return "", nil, fmt.Errorf("range %q: bad count %q", s, parts[2])
	}
	return name, optim.Linspace(lo, hi, n), nil
}

func runTune(cmd *cobra.Command, args []string) error {
	ticks, _ := cmd.Flags().GetInt("ticks")
	cfg, err := sim.resolve(cmd)
	if err != nil {
		return err
	}
	if len(tuneRanges) == 0 {
		return fmt.Errorf("at least one --range is required")
	}

	names := make([]string, 0, len(tuneRanges))
	ranges := make([][]float64, 0, len(tuneRanges))
	for _, r := range tuneRanges {
		name, values, err := parseRange(r)
		if err != nil {
			return err
		}
		names = append(names, name)
		ranges = append(ranges, values)
	}

	ctx, cancel := signalContext()
	defer cancel()

	res, err := optim.NewGridSearch(names, ranges, ticks).Search(ctx, cfg, optim.Objective{Metric: tuneMetric, Maximize: tuneMaximize})
	if err != nil {
		return err
	}

	fmt.Printf("evaluated %d combinations (%d rejected)\n", res.Evaluated, res.Rejected)
	fmt.Printf("best %s: %.6g\n", tuneMetric, res.Value)
	for _, name := range names {
		fmt.Printf("  %s = %.6g\n", name, res.Params[name])
	}
	return nil
}

func runEnsemble(cmd *cobra.Command, args []string) error {
	ticks, _ := cmd.Flags().GetInt("ticks")
	cfg, err := sim.resolve(cmd)
	if err != nil {
		return err
	}
	ctx, cancel := signalContext()
	defer cancel()

	registry := experiment.NewRegistry()
	newMetrics := func() []dynamo.Metric { return registry.DefaultMetrics(cfg) }
	results, err := engine.NewEnsemble(cfg, ensembleRuns, cfg.Seed, newMetrics).Run(ctx, ticks)
	if err != nil {
		return err
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "SEED\tMEAN R\tINSIDE\tMIDDLE\tOUTSIDE\tCONFINEMENT")
	radii := make([]float64, len(results))
	for i, r := range results {
		radii[i] = r.Final.MeanRadius
		fmt.Fprintf(w, "%d\t%.3f\t%d\t%d\t%d\t%.3f\n", r.Seed, r.Final.MeanRadius, r.Final.Inside, r.Final.Middle, r.Final.Outside, r.Metrics["confinement"])
	}
	if err := w.Flush(); err != nil {
		return err
	}

	if len(radii) > 1 {
		mean, std := stat.MeanStdDev(radii, nil)
		fmt.Printf("\nmean radius across seeds: %.3f ± %.3f\n", mean, std)
	}
	return nil
}

func runScenario(cmd *cobra.Command, args []string) error {
	cfg, err := sim.resolve(cmd)
	if err != nil {
		return err
	}
	sc, err := automation.LoadScenario(args[0])
	if err != nil {
		return err
	}

	st := storage.New(dataDir)
	if err := st.Init(); err != nil {
		return err
	}
	ctx, cancel := signalContext()
	defer cancel()

	results, err := automation.NewRunner(st, logger).Run(ctx, sc, cfg)
	for i, r := range results {
		final := r.Result.Final.Stats
		fmt.Printf("step %d: %s/%s  mean radius %.3f  in/mid/out %d/%d/%d  %s\n",
			i+1, r.Config.Mode, r.Config.Force.Kind, final.MeanRadius, final.Inside, final.Middle, final.Outside, r.RunID)
	}
	return err
}
