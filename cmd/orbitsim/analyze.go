package main

import (
	"context"
	"fmt"
	"os"
	"strconv"
	"text/tabwriter"
	"time"

	"github.com/guptarohit/asciigraph"
	"github.com/san-kum/orbitsim/internal/analysis"
	"github.com/san-kum/orbitsim/internal/automation"
	"github.com/san-kum/orbitsim/internal/config"
	"github.com/san-kum/orbitsim/internal/export"
	"github.com/san-kum/orbitsim/internal/scene"
	"github.com/san-kum/orbitsim/internal/sim"
	"github.com/san-kum/orbitsim/internal/storage"
	"github.com/san-kum/orbitsim/internal/viz"
	"github.com/spf13/cobra"
)

var (
	bodyIdx      int
	axis         int
	perturbation float64
	renormEvery  int
	trials       int
	seed         int64
	frameCount   int
)

func analyzeRun(cmd *cobra.Command, args []string) error {
	st := storage.New(dataDir)
	meta, result, err := st.LoadResult(args[0])
	if err != nil {
		return err
	}

	data, err := analysis.Coordinate(result, bodyIdx, axis)
	if err != nil {
		return err
	}

	fmt.Printf("run: %s\n", meta.ID)
	fmt.Printf("body %d, axis %d, %d samples\n\n", bodyIdx, axis, len(data))

	spectrum := analysis.PowerSpectrum(data)
	if len(spectrum) > 1 {
		graph := asciigraph.Plot(spectrum[1:],
			asciigraph.Height(10),
			asciigraph.Width(80),
			asciigraph.Caption("power spectrum"),
		)
		fmt.Println(graph)
		fmt.Println()
	}

	period, err := analysis.DominantPeriod(result.Times, data)
	if err != nil {
		fmt.Printf("no dominant period: %v\n", err)
		return nil
	}
	fmt.Printf("dominant period: %.6g\n", period)
	fmt.Printf("frequency: %.6g\n", 1/period)
	return nil
}

func phasePlot(cmd *cobra.Command, args []string) error {
	st := storage.New(dataDir)
	meta, result, err := st.LoadResult(args[0])
	if err != nil {
		return err
	}
	fmt.Printf("run: %s (%s)\n\n", meta.ID, meta.Scenario)
	fmt.Println(analysis.OrbitsToASCII(result, 80, 30))
	return nil
}

func lyapunov(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}

	fmt.Printf("estimating lyapunov exponent for %s over %g...\n", cfg.Scenario.Name, cfg.Duration)
	start := time.Now()
	lambda, err := analysis.Lyapunov(cfg, perturbation, renormEvery)
	if err != nil {
		return err
	}
	logger.Printf("lyapunov finished in %v", time.Since(start))

	fmt.Printf("largest exponent: %.6g\n", lambda)
	if lambda > 0.01 {
		fmt.Println("trajectory looks chaotic")
	} else {
		fmt.Println("trajectory looks regular")
	}
	return nil
}

func presetName() string {
	if preset == "" {
		return config.DefaultPreset
	}
	return preset
}

func runSweep(cmd *cobra.Command, args []string) error {
	lo, err := strconv.ParseFloat(args[1], 64)
	if err != nil {
		return fmt.Errorf("min: %w", err)
	}
	hi, err := strconv.ParseFloat(args[2], 64)
	if err != nil {
		return fmt.Errorf("max: %w", err)
	}
	n, err := strconv.Atoi(args[3])
	if err != nil {
		return fmt.Errorf("steps: %w", err)
	}

	sweep := &automation.ParameterSweep{
		Preset:    presetName(),
		ParamName: args[0],
		ParamMin:  lo,
		ParamMax:  hi,
		NumSteps:  n,
		Workers:   workers,
	}
	if cmd.Flags().Changed("integrator") {
		sweep.Integrator = integrator
	}
	if cmd.Flags().Changed("time") {
		sweep.Duration = duration
	}

	results, err := automation.RunSweep(context.Background(), sweep)
	if err != nil {
		return err
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintf(w, "%s\tENERGY DRIFT\tMOMENTUM DRIFT\tSTABLE\n", args[0])
	drifts := make([]float64, len(results))
	for i, r := range results {
		fmt.Fprintf(w, "%.6g\t%.3e\t%.3e\t%v\n", r.ParamValue, r.EnergyDrift, r.MomentumDrift, r.Stability == 1)
		drifts[i] = r.EnergyDrift
	}
	if err := w.Flush(); err != nil {
		return err
	}

	if len(drifts) > 1 {
		fmt.Println()
		fmt.Println(asciigraph.Plot(drifts,
			asciigraph.Height(10),
			asciigraph.Width(60),
			asciigraph.Caption("energy drift vs "+args[0]),
		))
	}
	return nil
}

func runMonteCarlo(cmd *cobra.Command, args []string) error {
	mc := &automation.MonteCarloConfig{
		Preset:       presetName(),
		Perturbation: perturbation,
		NumTrials:    trials,
		Seed:         seed,
		Workers:      workers,
	}
	if cmd.Flags().Changed("time") {
		mc.Duration = duration
	}

	results, err := automation.RunMonteCarlo(context.Background(), mc)
	if err != nil {
		return err
	}

	stable, unstable := automation.MonteCarloStats(results)
	fmt.Printf("trials: %d\n", len(results))
	fmt.Printf("stable: %d\n", stable)
	fmt.Printf("unstable: %d\n", unstable)
	if len(results) > 0 {
		fmt.Printf("stable fraction: %.2f\n", float64(stable)/float64(len(results)))
	}
	return nil
}

func runPlan(cmd *cobra.Command, args []string) error {
	plan, err := automation.LoadPlan(args[0])
	if err != nil {
		return err
	}

	st := storage.New(dataDir)
	if err := st.Init(); err != nil {
		return err
	}

	fmt.Printf("plan %s: %d steps\n", plan.Name, len(plan.Steps))
	results, err := automation.RunPlan(context.Background(), plan, workers)
	if err != nil {
		return err
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "STEP\tRUN ID\tENERGY DRIFT")
	for i, r := range results {
		cfg, err := plan.Steps[i].Config()
		if err != nil {
			return err
		}
		meta := metadataFor(cfg, r.Result)
		meta.ID = fmt.Sprintf("%s_%d", r.Name, time.Now().UnixNano())
		runID, err := st.Save(meta, r.Result)
		if err != nil {
			return err
		}
		fmt.Fprintf(w, "%s\t%s\t%.3e\n", r.Name, runID, r.Result.EnergyDrift)
	}
	return w.Flush()
}

// dumpFrames drives the scene the way the live view does, at a steady
// 60 fps, and prints what each frame hands the renderer.
func dumpFrames(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}

	s, err := sim.FromConfig(cfg)
	if err != nil {
		return err
	}
	grad, err := scene.GradientByName(cfg.Gradient)
	if err != nil {
		return err
	}
	sc := scene.New(s, scene.WithGradient(grad), scene.WithSpeedScale(cfg.SpeedScale))
	clock := scene.NewClock(cfg.Slowdown, cfg.FixedStep, cfg.MaxSubsteps)
	screen := viz.NewScreen(80, 24, viz.FitCamera(s.System()))

	frame := time.Second / 60
	for f := 0; f < frameCount; f++ {
		_, _, steps := sc.Tick(clock, frame)
		screen.Begin()
		if err := sc.Render(screen); err != nil {
			return err
		}

		fmt.Printf("frame %d: t=%.6g steps=%d\n", f, s.Time(), steps)
		for _, key := range sc.Objects() {
			obj, _ := sc.Object(key)
			fmt.Printf("  object %d: %s x %d instances\n", key, scene.Describe(obj.Mesh.DrawKind()), len(obj.Instances))
			for i, inst := range obj.Instances {
				fmt.Printf("    [%d] pos=(%.5g, %.5g, %.5g) color=(%.3f, %.3f, %.3f)\n", i,
					inst.Position[0], inst.Position[1], inst.Position[2],
					inst.Color[0], inst.Color[1], inst.Color[2])
			}
		}
	}

	if outPath != "" {
		return writeOut(export.CanvasToSVG(screen.Canvas, 4))
	}
	fmt.Println(screen.Canvas.String())
	return nil
}
