package main

import (
	"fmt"
	"io"
	"log"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/san-kum/orbitsim/internal/config"
	"github.com/san-kum/orbitsim/internal/viz"
	"github.com/spf13/cobra"
)

var (
	dataDir    string
	preset     string
	configFile string
	integrator string
	dt         float64
	duration   float64
	softening  float64
	slowdown   float64
	fixedStep  float64
	workers    int
	gradient   string
	theme      string
	verbose    bool
)

var logger = log.New(io.Discard, "orbitsim: ", log.LstdFlags)

// main registers commands and flags, launches the preset picker when no
// subcommand is given and exits with status 1 on error.
func main() {
	rootCmd := &cobra.Command{
		Use:   "orbitsim",
		Short: "n-body gravity simulator",
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			if verbose {
				logger.SetOutput(os.Stderr)
			}
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return viz.RunPicker()
		},
		SilenceUsage: true,
	}

	pf := rootCmd.PersistentFlags()
	pf.StringVar(&dataDir, "data", ".orbitsim", "data directory")
	pf.StringVar(&preset, "preset", "", "start from a named preset")
	pf.StringVar(&configFile, "config", "", "config file path (yaml)")
	pf.StringVar(&integrator, "integrator", "rk4", "integrator")
	pf.Float64Var(&dt, "dt", config.DefaultDt, "timestep")
	pf.Float64Var(&duration, "time", config.DefaultDuration, "duration")
	pf.Float64Var(&softening, "softening", 0, "plummer softening length")
	pf.IntVar(&workers, "workers", 0, "goroutines used to stage large systems")
	pf.BoolVarP(&verbose, "verbose", "v", false, "log diagnostics to stderr")

	liveCmd := &cobra.Command{
		Use:   "live",
		Short: "run simulation with live visualization",
		Args:  cobra.NoArgs,
		RunE:  runLive,
	}
	liveCmd.Flags().Float64Var(&slowdown, "slowdown", config.DefaultSlowdown, "wall seconds per simulated second")
	liveCmd.Flags().Float64Var(&fixedStep, "fixed-step", 0, "fixed simulation step (0 steps once per frame)")
	liveCmd.Flags().StringVar(&gradient, "gradient", config.DefaultGradient, "speed colour gradient")
	liveCmd.Flags().StringVar(&theme, "theme", config.DefaultTheme, "colour theme")
	liveCmd.Flags().StringVar(&gifPath, "gif", "orbitsim.gif", "where recordings are written")

	runCmd := &cobra.Command{
		Use:   "run",
		Short: "run a headless simulation and store it",
		Args:  cobra.NoArgs,
		RunE:  runSimulation,
	}

	listCmd := &cobra.Command{
		Use:   "list",
		Short: "list runs",
		Args:  cobra.NoArgs,
		RunE:  listRuns,
	}

	plotCmd := &cobra.Command{
		Use:   "plot [run_id]",
		Short: "plot body coordinates of a run",
		Args:  cobra.ExactArgs(1),
		RunE:  plotRun,
	}

	exportCmd := &cobra.Command{
		Use:   "export [run_id]",
		Short: "export run metadata",
		Args:  cobra.ExactArgs(1),
		RunE:  exportRun,
	}

	exportJSONCmd := &cobra.Command{
		Use:   "export-json [run_id]",
		Short: "export run data to JSON",
		Args:  cobra.ExactArgs(1),
		RunE:  exportJSON,
	}

	exportCSVCmd := &cobra.Command{
		Use:   "export-csv [run_id]",
		Short: "export run data to CSV",
		Args:  cobra.ExactArgs(1),
		RunE:  exportCSV,
	}

	exportSVGCmd := &cobra.Command{
		Use:   "export-svg [run_id]",
		Short: "draw the orbits of a run as SVG",
		Args:  cobra.ExactArgs(1),
		RunE:  exportSVG,
	}
	exportSVGCmd.Flags().StringVar(&gradient, "gradient", config.DefaultGradient, "body colour gradient")
	exportSVGCmd.Flags().StringVarP(&outPath, "out", "o", "", "output file (default stdout)")

	presetsCmd := &cobra.Command{
		Use:   "presets",
		Short: "list available presets",
		Args:  cobra.NoArgs,
		RunE:  listPresets,
	}

	benchCmd := &cobra.Command{
		Use:   "bench",
		Short: "benchmark stepping throughput",
		Args:  cobra.NoArgs,
		RunE:  benchPreset,
	}

	compareCmd := &cobra.Command{
		Use:   "compare [integrator1] [integrator2] ...",
		Short: "compare integrators on the same scenario",
		Args:  cobra.MinimumNArgs(1),
		RunE:  compareIntegrators,
	}

	framesCmd := &cobra.Command{
		Use:   "frames",
		Short: "step the scene at 60 fps and dump each frame's draw calls",
		Args:  cobra.NoArgs,
		RunE:  dumpFrames,
	}
	framesCmd.Flags().IntVar(&frameCount, "frames", 10, "number of frames")
	framesCmd.Flags().Float64Var(&slowdown, "slowdown", config.DefaultSlowdown, "wall seconds per simulated second")
	framesCmd.Flags().Float64Var(&fixedStep, "fixed-step", 0, "fixed simulation step")
	framesCmd.Flags().StringVar(&outPath, "svg", "", "write the last frame as SVG")

	analyzeCmd := &cobra.Command{
		Use:   "analyze [run_id]",
		Short: "orbital period from the power spectrum",
		Args:  cobra.ExactArgs(1),
		RunE:  analyzeRun,
	}
	analyzeCmd.Flags().IntVar(&bodyIdx, "body", 1, "body index")
	analyzeCmd.Flags().IntVar(&axis, "axis", 0, "coordinate (0 x, 1 y, 2 z)")

	phaseCmd := &cobra.Command{
		Use:   "phase [run_id]",
		Short: "xy trace of every body",
		Args:  cobra.ExactArgs(1),
		RunE:  phasePlot,
	}

	lyapunovCmd := &cobra.Command{
		Use:   "lyapunov",
		Short: "estimate the largest lyapunov exponent",
		Args:  cobra.NoArgs,
		RunE:  lyapunov,
	}
	lyapunovCmd.Flags().Float64Var(&perturbation, "perturb", 1e-8, "initial separation")
	lyapunovCmd.Flags().IntVar(&renormEvery, "renorm", 10, "steps between renormalisations")

	sweepCmd := &cobra.Command{
		Use:   "sweep [param] [min] [max] [steps]",
		Short: "sweep dt, softening, g or speed across a range",
		Args:  cobra.ExactArgs(4),
		RunE:  runSweep,
	}

	monteCarloCmd := &cobra.Command{
		Use:   "montecarlo",
		Short: "stability of randomly perturbed initial conditions",
		Args:  cobra.NoArgs,
		RunE:  runMonteCarlo,
	}
	monteCarloCmd.Flags().IntVar(&trials, "trials", 20, "number of trials")
	monteCarloCmd.Flags().Float64Var(&perturbation, "perturb", 1e-3, "uniform perturbation bound")
	monteCarloCmd.Flags().Int64Var(&seed, "seed", 0, "random seed (0 uses the clock)")

	planCmd := &cobra.Command{
		Use:   "plan [file]",
		Short: "run every step of a yaml plan and store the results",
		Args:  cobra.ExactArgs(1),
		RunE:  runPlan,
	}

	rootCmd.AddCommand(liveCmd, runCmd, listCmd, plotCmd, exportCmd, exportJSONCmd, exportCSVCmd, exportSVGCmd,
		presetsCmd, benchCmd, compareCmd, framesCmd, analyzeCmd, phaseCmd, lyapunovCmd, sweepCmd, monteCarloCmd, planCmd)

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// loadConfig resolves the preset, then the config file over it, then any
// flag the user set explicitly.
func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	cfg := config.DefaultConfig()
	if preset != "" {
		cfg = config.GetPreset(preset)
		if cfg == nil {
			return nil, fmt.Errorf("unknown preset: %s (available: %v)", preset, config.ListPresets())
		}
	}
	if configFile != "" {
		if err := config.LoadInto(configFile, cfg); err != nil {
			return nil, fmt.Errorf("failed to load config: %w", err)
		}
	}

	flags := cmd.Flags()
	if flags.Changed("integrator") {
		cfg.Integrator = integrator
	}
	if flags.Changed("dt") {
		cfg.Dt = dt
	}
	if flags.Changed("time") {
		cfg.Duration = duration
	}
	if flags.Changed("softening") {
		cfg.Softening = softening
	}
	if flags.Changed("workers") {
		cfg.Workers = workers
	}
	if flags.Lookup("slowdown") != nil && flags.Changed("slowdown") {
		cfg.Slowdown = slowdown
	}
	if flags.Lookup("fixed-step") != nil && flags.Changed("fixed-step") {
		cfg.FixedStep = fixedStep
	}
	if flags.Lookup("gradient") != nil && flags.Changed("gradient") {
		cfg.Gradient = gradient
	}
	if flags.Lookup("theme") != nil && flags.Changed("theme") {
		cfg.Theme = theme
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	logger.Printf("config: scenario=%s bodies=%d integrator=%s dt=%g duration=%g",
		cfg.Scenario.Name, len(cfg.Scenario.Bodies), cfg.Integrator, cfg.Dt, cfg.Duration)
	return cfg, nil
}

var gifPath string

func runLive(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	m, err := viz.NewModel(cfg)
	if err != nil {
		return err
	}
	_, err = tea.NewProgram(m.WithGIFPath(gifPath), tea.WithAltScreen()).Run()
	return err
}
