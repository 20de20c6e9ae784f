package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"text/tabwriter"
	"time"

	"github.com/guptarohit/asciigraph"
	"github.com/san-kum/orbitsim/internal/config"
	"github.com/san-kum/orbitsim/internal/export"
	"github.com/san-kum/orbitsim/internal/metrics"
	"github.com/san-kum/orbitsim/internal/scene"
	"github.com/san-kum/orbitsim/internal/sim"
	"github.com/san-kum/orbitsim/internal/storage"
	"github.com/spf13/cobra"
)

var outPath string

// metadataFor describes a finished run of cfg for the store.
func metadataFor(cfg *config.Config, result *sim.Result) storage.RunMetadata {
	meta := storage.RunMetadata{
		Scenario:   cfg.Scenario.Name,
		Integrator: cfg.Integrator,
		G:          cfg.G,
		Softening:  cfg.Softening,
		Dt:         cfg.Dt,
		Duration:   cfg.Duration,
	}
	if len(result.Snapshots) > 0 {
		for i, b := range result.Snapshots[0] {
			info := storage.BodyInfo{ID: b.ID, Mass: b.Mass}
			if i < len(cfg.Scenario.Bodies) {
				info.Name = cfg.Scenario.Bodies[i].Name
			}
			meta.Bodies = append(meta.Bodies, info)
		}
	}
	return meta
}

func runSimulation(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}

	st := storage.New(dataDir)
	if err := st.Init(); err != nil {
		return err
	}

	s, err := sim.FromConfig(cfg)
	if err != nil {
		return err
	}
	for _, m := range metrics.Defaults() {
		s.AddMetric(m)
	}

	fmt.Printf("running %s with %s...\n", cfg.Scenario.Name, cfg.Integrator)
	start := time.Now()

	result, err := s.Run(context.Background(), sim.RunConfigFrom(cfg))
	if err != nil {
		return err
	}
	elapsed := time.Since(start)

	runID, err := st.Save(metadataFor(cfg, result), result)
	if err != nil {
		return err
	}
	logger.Printf("saved %s (%d samples)", runID, len(result.Snapshots))

	fmt.Printf("completed in %v\n", elapsed)
	fmt.Printf("run id: %s\n", runID)
	fmt.Printf("steps: %d\n", result.StepsTaken)
	fmt.Println("\nmetrics:")
	for name, val := range result.Metrics {
		fmt.Printf("  %s: %.6e\n", name, val)
	}
	return nil
}

func listRuns(cmd *cobra.Command, args []string) error {
	st := storage.New(dataDir)
	runs, err := st.List()
	if err != nil {
		return err
	}

	if len(runs) == 0 {
		fmt.Println("no runs found")
		return nil
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tSCENARIO\tTIME\tBODIES\tDURATION\tDT\tINTEG\tENERGY DRIFT")

	for _, run := range runs {
		fmt.Fprintf(w, "%s\t%s\t%s\t%d\t%.2f\t%.4g\t%s\t%.3e\n",
			run.ID,
			run.Scenario,
			run.Timestamp.Format("2006-01-02 15:04:05"),
			len(run.Bodies),
			run.Duration,
			run.Dt,
			run.Integrator,
			run.EnergyDrift,
		)
	}

	return w.Flush()
}

func plotRun(cmd *cobra.Command, args []string) error {
	st := storage.New(dataDir)
	meta, result, err := st.LoadResult(args[0])
	if err != nil {
		return err
	}
	if len(result.Snapshots) == 0 {
		return fmt.Errorf("no data to plot")
	}

	fmt.Printf("run: %s\n", meta.ID)
	fmt.Printf("scenario: %s\n", meta.Scenario)
	fmt.Printf("samples: %d\n\n", len(result.Snapshots))

	const maxBodies = 4
	for i := range result.Snapshots[0] {
		if i == maxBodies {
			break
		}
		name := fmt.Sprintf("body %d", i)
		if i < len(meta.Bodies) && meta.Bodies[i].Name != "" {
			name = meta.Bodies[i].Name
		}
		for axis, label := range []string{"x", "y"} {
			data := make([]float64, len(result.Snapshots))
			for k, snap := range result.Snapshots {
				p := snap[i].Position
				data[k] = [2]float64{p.X, p.Y}[axis]
			}
			graph := asciigraph.Plot(data,
				asciigraph.Height(10),
				asciigraph.Width(80),
				asciigraph.Caption(fmt.Sprintf("%s %s vs time", name, label)),
			)
			fmt.Println(graph)
			fmt.Println()
		}
	}
	return nil
}

func exportRun(cmd *cobra.Command, args []string) error {
	st := storage.New(dataDir)
	meta, err := st.Load(args[0])
	if err != nil {
		return err
	}

	data, err := json.MarshalIndent(meta, "", "  ")
	if err != nil {
		return err
	}
	fmt.Println(string(data))
	return nil
}

func exportJSON(cmd *cobra.Command, args []string) error {
	st := storage.New(dataDir)
	meta, result, err := st.LoadResult(args[0])
	if err != nil {
		return err
	}
	return storage.ExportJSON(os.Stdout, *meta, result)
}

func exportCSV(cmd *cobra.Command, args []string) error {
	st := storage.New(dataDir)
	_, result, err := st.LoadResult(args[0])
	if err != nil {
		return err
	}
	return storage.ExportCSV(os.Stdout, result)
}

func exportSVG(cmd *cobra.Command, args []string) error {
	st := storage.New(dataDir)
	_, result, err := st.LoadResult(args[0])
	if err != nil {
		return err
	}
	grad, err := scene.GradientByName(gradient)
	if err != nil {
		return err
	}
	return writeOut(export.OrbitsToSVG(result, 800, 800, grad))
}

// writeOut writes s to the --out/--svg path, or stdout when none is set.
func writeOut(s string) error {
	if outPath == "" {
		_, err := fmt.Print(s)
		return err
	}
	if err := os.WriteFile(outPath, []byte(s), 0644); err != nil {
		return err
	}
	fmt.Printf("wrote %s\n", outPath)
	return nil
}

func listPresets(cmd *cobra.Command, args []string) error {
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "PRESET\tBODIES\tINTEG\tG\tDT\tDURATION")
	for _, name := range config.ListPresets() {
		cfg := config.GetPreset(name)
		fmt.Fprintf(w, "%s\t%d\t%s\t%.5g\t%.4g\t%.4g\n",
			name, len(cfg.Scenario.Bodies), cfg.Integrator, cfg.G, cfg.Dt, cfg.Duration)
	}
	return w.Flush()
}

func benchPreset(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}

	durations := []float64{1.0, 5.0, 10.0}
	dts := []float64{0.0001, 0.001, 0.01}

	fmt.Printf("benchmarking %s (%d bodies, %s)\n\n", cfg.Scenario.Name, len(cfg.Scenario.Bodies), cfg.Integrator)
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "DURATION\tDT\tSTEPS\tTIME\tSTEPS/SEC")

	for _, dur := range durations {
		for _, h := range dts {
			s, err := sim.FromConfig(cfg)
			if err != nil {
				return err
			}

			start := time.Now()
			result, err := s.Run(context.Background(), sim.RunConfig{Dt: h, Duration: dur, SampleEvery: 1 << 30})
			if err != nil {
				return err
			}
			elapsed := time.Since(start)

			stepsPerSec := float64(result.StepsTaken) / elapsed.Seconds()
			fmt.Fprintf(w, "%.1f\t%.4g\t%d\t%v\t%.0f\n",
				dur, h, result.StepsTaken, elapsed, stepsPerSec)
		}
	}

	return w.Flush()
}

func compareIntegrators(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}

	specs := make([]sim.RunSpec, 0, len(args))
	for _, name := range args {
		c := *cfg
		c.Scenario = cfg.Scenario.Clone()
		c.Integrator = name
		if err := c.Validate(); err != nil {
			return err
		}
		specs = append(specs, sim.RunSpec{Name: name, Config: &c, Metrics: metrics.Defaults})
	}

	fmt.Printf("comparing integrators on %s (dt=%g, duration=%g)\n\n", cfg.Scenario.Name, cfg.Dt, cfg.Duration)
	start := time.Now()
	results, err := sim.Batch(context.Background(), specs, cfg.Workers)
	if err != nil {
		return err
	}
	logger.Printf("compare finished in %v", time.Since(start))

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "INTEGRATOR\tSTEPS\tENERGY DRIFT\tMOMENTUM DRIFT\tL DRIFT")
	for _, r := range results {
		fmt.Fprintf(w, "%s\t%d\t%.3e\t%.3e\t%.3e\n",
			r.Name, r.Result.StepsTaken, r.Result.EnergyDrift, r.Result.MomentumDrift,
			r.Result.Metrics["angular_momentum_drift"])
	}
	return w.Flush()
}
