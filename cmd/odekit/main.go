package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"sort"
	"strconv"
	"strings"
	"text/tabwriter"

	"github.com/prometheus/client_golang/prometheus"
	dto "github.com/prometheus/client_model/go"
	"github.com/spf13/cobra"

	"github.com/san-kum/odekit/internal/config"
	"github.com/san-kum/odekit/internal/dynamo"
	"github.com/san-kum/odekit/internal/experiment"
	"github.com/san-kum/odekit/internal/metrics"
)

var (
	configFile  string
	preset      string
	method      string
	start       float64
	end         float64
	tol         float64
	steps       int
	initialStep float64
	maxAttempts int
	exactEnd    bool
	stateFlag   string
	params      map[string]string
	every       int
	bound       float64
	verbose     bool
	showMetrics bool
	// sweep
	fromState string
	toState   string
	runs      int
	workers   int
)

func main() {
	rootCmd := &cobra.Command{
		Use:          "odekit",
		Short:        "adaptive and fixed-step ODE integration",
		SilenceUsage: true,
	}
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "log solver decisions at debug level")

	solveCmd := &cobra.Command{
		Use:   "solve [system]",
		Short: "integrate with the adaptive Dormand-Prince 4(5) solver",
		Args:  cobra.ExactArgs(1),
		RunE:  solve,
	}
	addProblemFlags(solveCmd)
	solveCmd.Flags().Float64Var(&tol, "tol", config.DefaultTolerance, "error tolerance")
	solveCmd.Flags().Float64Var(&initialStep, "h0", 0, "initial step (0 estimates it)")
	solveCmd.Flags().IntVar(&maxAttempts, "max-attempts", config.DefaultMaxAttempts, "trial steps allowed per step")
	solveCmd.Flags().BoolVar(&exactEnd, "exact-end", false, "clamp the last step to the end time")
	solveCmd.Flags().BoolVar(&showMetrics, "metrics", false, "print solver metrics after the run")

	fixedCmd := &cobra.Command{
		Use:   "fixed [system]",
		Short: "integrate on a uniform grid",
		Args:  cobra.ExactArgs(1),
		RunE:  fixed,
	}
	addProblemFlags(fixedCmd)
	fixedCmd.Flags().StringVar(&method, "method", config.MethodRK4, "fixed-step scheme (rk4, euler, verlet, leapfrog)")
	fixedCmd.Flags().IntVar(&steps, "steps", config.DefaultSteps, "number of steps")
	fixedCmd.Flags().BoolVar(&showMetrics, "metrics", false, "print solver metrics after the run")

	sweepCmd := &cobra.Command{
		Use:   "sweep [system]",
		Short: "integrate a line of initial states concurrently",
		Args:  cobra.ExactArgs(1),
		RunE:  sweep,
	}
	addProblemFlags(sweepCmd)
	sweepCmd.Flags().Float64Var(&tol, "tol", config.DefaultTolerance, "error tolerance")
	sweepCmd.Flags().StringVar(&fromState, "from", "", "first initial state (comma separated)")
	sweepCmd.Flags().StringVar(&toState, "to", "", "last initial state (comma separated)")
	sweepCmd.Flags().IntVar(&runs, "runs", 8, "number of initial states")
	sweepCmd.Flags().IntVar(&workers, "workers", 4, "concurrent runs (0 is unbounded)")
	sweepCmd.Flags().BoolVar(&exactEnd, "exact-end", false, "clamp the last step to the end time")

	systemsCmd := &cobra.Command{
		Use:   "systems",
		Short: "list built-in systems",
		RunE:  listSystems,
	}

	presetsCmd := &cobra.Command{
		Use:   "presets [system]",
		Short: "list available presets for a system",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			presets := config.ListPresets(args[0])
			if len(presets) == 0 {
				fmt.Printf("no presets for system: %s\n", args[0])
				return nil
			}
			fmt.Printf("presets for %s:\n", args[0])
			for _, p := range presets {
				cfg := config.GetPreset(args[0], p)
				fmt.Printf("  %-12s %s [%g, %g]\n", p, cfg.Method, cfg.Start, cfg.End)
			}
			return nil
		},
	}

	rootCmd.AddCommand(solveCmd, fixedCmd, sweepCmd, systemsCmd, presetsCmd)

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func addProblemFlags(cmd *cobra.Command) {
	cmd.Flags().StringVar(&configFile, "config", "", "config file path (yaml)")
	cmd.Flags().StringVar(&preset, "preset", "", "use preset configuration")
	cmd.Flags().Float64Var(&start, "start", config.DefaultStart, "start time")
	cmd.Flags().Float64Var(&end, "end", config.DefaultEnd, "end time")
	cmd.Flags().StringVar(&stateFlag, "state", "", "initial state (comma separated, default per system)")
	cmd.Flags().StringToStringVar(&params, "param", nil, "system parameter name=value (repeatable)")
	cmd.Flags().IntVar(&every, "every", 1, "print every n-th sample")
	cmd.Flags().Float64Var(&bound, "bound", config.DefaultBound, "largest component magnitude counted as stable")
}

func newLogger() *slog.Logger {
	level := slog.LevelInfo
	if verbose {
		level = slog.LevelDebug
	}
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
}

// loadConfig layers defaults, preset, config file and explicitly set flags, in that order.
func loadConfig(cmd *cobra.Command, system, defaultMethod string) (*config.Config, error) {
	cfg := config.DefaultConfig()
	cfg.Method = defaultMethod

	if preset != "" {
		p := config.GetPreset(system, preset)
		if p == nil {
			return nil, fmt.Errorf("unknown preset: %s (available: %v)", preset, config.ListPresets(system))
		}
		cfg = p
	}

	if configFile != "" {
		loaded, err := config.Load(configFile)
		if err != nil {
			return nil, fmt.Errorf("failed to load config: %w", err)
		}
		cfg = loaded
	}
	cfg.System = system

	flags := cmd.Flags()
	if flags.Changed("start") {
		cfg.Start = start
	}
	if flags.Changed("end") {
		cfg.End = end
	}
	if flags.Changed("tol") {
		cfg.Tolerance = tol
	}
	if flags.Changed("h0") {
		cfg.InitialStep = initialStep
	}
	if flags.Changed("max-attempts") {
		cfg.MaxAttempts = maxAttempts
	}
	if flags.Changed("exact-end") {
		cfg.ExactEnd = exactEnd
	}
	if flags.Changed("steps") {
		cfg.Steps = steps
	}
	if flags.Changed("bound") {
		cfg.Bound = bound
	}
	if flags.Changed("method") {
		cfg.Method = method
	}
	if flags.Changed("state") {
		x, err := parseState(stateFlag)
		if err != nil {
			return nil, err
		}
		cfg.InitialState = x
	}
	if len(params) > 0 {
		if cfg.Params == nil {
			cfg.Params = make(map[string]float64, len(params))
		}
		for name, raw := range params {
			v, err := strconv.ParseFloat(raw, 64)
			if err != nil {
				return nil, fmt.Errorf("param %s: %w", name, err)
			}
			cfg.Params[name] = v
		}
	}
	return cfg, nil
}

func solve(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd, args[0], config.MethodDopri5)
	if err != nil {
		return err
	}
	if !cfg.Adaptive() {
		return fmt.Errorf("method %s is fixed-step, use the fixed command", cfg.Method)
	}
	return run(cmd.Context(), cfg)
}

func fixed(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd, args[0], config.MethodRK4)
	if err != nil {
		return err
	}
	if cfg.Adaptive() {
		cfg.Method = method
	}
	return run(cmd.Context(), cfg)
}

func run(ctx context.Context, cfg *config.Config) error {
	if ctx == nil {
		ctx = context.Background()
	}
	ctx, stop := signal.NotifyContext(ctx, os.Interrupt)
	defer stop()

	logger := newLogger()
	reg := prometheus.NewRegistry()

	exp, err := experiment.New(cfg, experiment.NewRegistry(),
		experiment.WithLogger(logger),
		experiment.WithRecorder(metrics.NewRecorder(reg)),
	)
	if err != nil {
		return err
	}

	ms := []metrics.Metric{metrics.NewStability(cfg.StabilityBound())}
	if h, ok := exp.Model().(dynamo.Hamiltonian); ok {
		ms = append(ms, metrics.NewEnergyDrift(h))
	}
	for _, m := range ms {
		exp.AddObserver(m)
	}

	traj, runErr := exp.Run(ctx)
	if traj != nil {
		printTrajectory(traj)
		printSummary(traj, ms)
	}
	if showMetrics {
		if err := printMetrics(reg); err != nil {
			return err
		}
	}

	var simErr *dynamo.SimulationError
	if errors.As(runErr, &simErr) {
		fmt.Fprintf(os.Stderr, "stopped at step %d, t=%g after %d attempts\n", simErr.Step, simErr.Time, simErr.Attempts)
	}
	return runErr
}

func sweep(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd, args[0], config.MethodDopri5)
	if err != nil {
		return err
	}
	cfg.Method = config.MethodDopri5

	exp, err := experiment.New(cfg, experiment.NewRegistry(), experiment.WithLogger(newLogger()))
	if err != nil {
		return err
	}

	lo := exp.InitialState()
	hi := lo.Scale(2)
	if fromState != "" {
		if lo, err = parseState(fromState); err != nil {
			return err
		}
	}
	if toState != "" {
		if hi, err = parseState(toState); err != nil {
			return err
		}
	}
	initials := experiment.Grid(lo, hi, runs)
	if initials == nil {
		return fmt.Errorf("cannot build %d initial states between %v and %v", runs, lo, hi)
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt)
	defer stop()

	trajs, err := experiment.Sweep(ctx, exp.Solver(), exp.Model().Derive, cfg.Interval(), initials, cfg.Tolerance, workers)
	if err != nil {
		return err
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "run\tinitial\tt_final\tfinal\taccepted\trejected\tevals")
	for i, traj := range trajs {
		tf, xf := traj.Last()
		fmt.Fprintf(w, "%d\t%s\t%.6g\t%s\t%d\t%d\t%d\n",
			i, formatState(initials[i]), tf, formatState(xf),
			traj.Stats.Accepted, traj.Stats.Rejected, traj.Stats.Evaluations)
	}
	return w.Flush()
}

func listSystems(cmd *cobra.Command, args []string) error {
	registry := experiment.NewRegistry()

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "system\tdim\tdefault state\tparams")
	for _, name := range registry.ListModels() {
		m, err := registry.GetModel(name)
		if err != nil {
			return err
		}
		fmt.Fprintf(w, "%s\t%d\t%s\t%s\n", name, m.StateDim(), formatState(m.DefaultState()), formatParams(m.GetParams()))
	}
	return w.Flush()
}

func printTrajectory(traj *dynamo.Trajectory) {
	n := every
	if n < 1 {
		n = 1
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprint(w, "t")
	for i := range traj.States[0] {
		fmt.Fprintf(w, "\tx%d", i)
	}
	fmt.Fprintln(w)

	last := traj.Len() - 1
	for k := 0; k <= last; k++ {
		if k%n != 0 && k != last {
			continue
		}
		fmt.Fprintf(w, "%.9g", traj.Times[k])
		for _, v := range traj.States[k] {
			fmt.Fprintf(w, "\t%.9g", v)
		}
		fmt.Fprintln(w)
	}
	w.Flush()
}

func printSummary(traj *dynamo.Trajectory, ms []metrics.Metric) {
	s := traj.Stats
	fmt.Printf("\nsamples: %d\n", traj.Len())
	fmt.Printf("accepted: %d  rejected: %d  evaluations: %d\n", s.Accepted, s.Rejected, s.Evaluations)
	fmt.Printf("last step: %.6g  next step: %.6g\n", s.LastStep, s.NextStep)
	fmt.Println("\nmetrics:")
	for _, m := range ms {
		fmt.Printf("  %s: %.6g\n", m.Name(), m.Value())
	}
}

func printMetrics(g prometheus.Gatherer) error {
	families, err := g.Gather()
	if err != nil {
		return err
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "\nmetric\tlabels\tvalue")
	for _, mf := range families {
		for _, m := range mf.GetMetric() {
			labels := make([]string, 0, len(m.GetLabel()))
			for _, lp := range m.GetLabel() {
				labels = append(labels, lp.GetName()+"="+lp.GetValue())
			}
			switch mf.GetType() {
			case dto.MetricType_COUNTER:
				fmt.Fprintf(w, "%s\t%s\t%g\n", mf.GetName(), strings.Join(labels, ","), m.GetCounter().GetValue())
			case dto.MetricType_HISTOGRAM:
				h := m.GetHistogram()
				fmt.Fprintf(w, "%s\t%s\tcount=%d sum=%g\n", mf.GetName(), strings.Join(labels, ","), h.GetSampleCount(), h.GetSampleSum())
			}
		}
	}
	return w.Flush()
}

func parseState(s string) (dynamo.State, error) {
	fields := strings.Split(s, ",")
	x := make(dynamo.State, 0, len(fields))
	for _, f := range fields {
		v, err := strconv.ParseFloat(strings.TrimSpace(f), 64)
		if err != nil {
			return nil, fmt.Errorf("invalid state %q: %w", s, err)
		}
		x = append(x, v)
	}
	return x, nil
}

func formatState(x dynamo.State) string {
	parts := make([]string, len(x))
	for i, v := range x {
		parts[i] = strconv.FormatFloat(v, 'g', 6, 64)
	}
	return "[" + strings.Join(parts, " ") + "]"
}

func formatParams(p map[string]float64) string {
	names := make([]string, 0, len(p))
	for name := range p {
		names = append(names, name)
	}
	sort.Strings(names)
	parts := make([]string, len(names))
	for i, name := range names {
		parts[i] = fmt.Sprintf("%s=%g", name, p[name])
	}
	return strings.Join(parts, " ")
}
