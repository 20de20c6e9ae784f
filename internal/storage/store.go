package storage

import (
	"encoding/csv"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/san-kum/orbitsim/internal/sim"
	"gonum.org/v1/gonum/spatial/r3"
)

var ErrRunNotFound = errors.New("storage: run not found")

var ErrRaggedResult = errors.New("storage: snapshots do not line up")

type Store struct {
	baseDir string
}

func New(baseDir string) *Store {
	return &Store{baseDir: baseDir}
}

func (s *Store) Init() error {
	return os.MkdirAll(s.baseDir, 0755)
}

type BodyInfo struct {
	ID   uint64  `json:"id"`
	Name string  `json:"name,omitempty"`
	Mass float64 `json:"mass"`
}

type RunMetadata struct {
	ID            string             `json:"id"`
	Scenario      string             `json:"scenario"`
	Timestamp     time.Time          `json:"timestamp"`
	Integrator    string             `json:"integrator"`
	G             float64            `json:"g"`
	Softening     float64            `json:"softening"`
	Dt            float64            `json:"dt"`
	Duration      float64            `json:"duration"`
	Steps         int                `json:"steps"`
	Bodies        []BodyInfo         `json:"bodies"`
	EnergyDrift   float64            `json:"energy_drift"`
	MomentumDrift float64            `json:"momentum_drift"`
	Metrics       map[string]float64 `json:"metrics"`
}

// Save writes metadata.json and states.csv under a new run directory and
// returns the run id. Result-derived fields of meta are filled from result.
func (s *Store) Save(meta RunMetadata, result *sim.Result) (string, error) {
	now := time.Now()
	if meta.ID == "" {
		meta.ID = fmt.Sprintf("%s_%d", meta.Scenario, now.UnixNano())
	}
	if meta.Timestamp.IsZero() {
		meta.Timestamp = now
	}
	meta.Steps = result.StepsTaken
	meta.EnergyDrift = result.EnergyDrift
	meta.MomentumDrift = result.MomentumDrift
	meta.Metrics = result.Metrics
	if len(meta.Bodies) == 0 && len(result.Snapshots) > 0 {
		for _, b := range result.Snapshots[0] {
			meta.Bodies = append(meta.Bodies, BodyInfo{ID: b.ID, Mass: b.Mass})
		}
	}

	runDir := filepath.Join(s.baseDir, meta.ID)
	if err := os.MkdirAll(runDir, 0755); err != nil {
		return "", err
	}

	err := writeFile(filepath.Join(runDir, "metadata.json"), func(w io.Writer) error {
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(meta)
	})
	if err == nil {
		err = writeFile(filepath.Join(runDir, "states.csv"), func(w io.Writer) error {
			return ExportCSV(w, result)
		})
	}
	if err != nil {
		os.RemoveAll(runDir)
		return "", fmt.Errorf("storage: save %s: %w", meta.ID, err)
	}
	return meta.ID, nil
}

// writeFile creates path, fills it with write and reports the first of the
// write and close errors.
func writeFile(path string, write func(io.Writer) error) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := write(f); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

// List returns every readable run, oldest first.
func (s *Store) List() ([]RunMetadata, error) {
	entries, err := os.ReadDir(s.baseDir)
	if err != nil {
		if os.IsNotExist(err) {
			return []RunMetadata{}, nil
		}
		return nil, err
	}

	runs := make([]RunMetadata, 0)
	for _, entry := range entries {
		if !entry.IsDir() {
			continue
		}
		meta, err := s.Load(entry.Name())
		if err != nil {
			continue
		}
		runs = append(runs, *meta)
	}

	sort.SliceStable(runs, func(i, j int) bool {
		return runs[i].Timestamp.Before(runs[j].Timestamp)
	})
	return runs, nil
}

func (s *Store) Load(runID string) (*RunMetadata, error) {
	data, err := os.ReadFile(filepath.Join(s.baseDir, runID, "metadata.json"))
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s", ErrRunNotFound, runID)
		}
		return nil, err
	}

	var meta RunMetadata
	if err := json.Unmarshal(data, &meta); err != nil {
		return nil, fmt.Errorf("storage: run %s metadata: %w", runID, err)
	}
	return &meta, nil
}

// LoadStates reads states.csv back into sample times and body snapshots.
// Masses come from the run metadata when present.
func (s *Store) LoadStates(runID string) ([]float64, [][]sim.BodyState, error) {
	file, err := os.Open(filepath.Join(s.baseDir, runID, "states.csv"))
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, nil, fmt.Errorf("%w: %s", ErrRunNotFound, runID)
		}
		return nil, nil, err
	}
	defer file.Close()

	masses := make(map[uint64]float64)
	if meta, err := s.Load(runID); err == nil {
		for _, b := range meta.Bodies {
			masses[b.ID] = b.Mass
		}
	}
	return ReadCSV(file, masses)
}

// LoadResult rebuilds a run's metadata and sampled result.
func (s *Store) LoadResult(runID string) (*RunMetadata, *sim.Result, error) {
	meta, err := s.Load(runID)
	if err != nil {
		return nil, nil, err
	}
	times, snaps, err := s.LoadStates(runID)
	if err != nil {
		return nil, nil, err
	}
	return meta, &sim.Result{
		Times:         times,
		Snapshots:     snaps,
		Metrics:       meta.Metrics,
		EnergyDrift:   meta.EnergyDrift,
		MomentumDrift: meta.MomentumDrift,
		StepsTaken:    meta.Steps,
	}, nil
}

func columnsFor(id uint64) []string {
	p := "b" + strconv.FormatUint(id, 10) + "_"
	return []string{p + "x", p + "y", p + "z", p + "vx", p + "vy", p + "vz"}
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'g', -1, 64)
}

// ExportCSV writes one row per snapshot: time followed by position and
// velocity of every body, columns named b<id>_x .. b<id>_vz.
func ExportCSV(w io.Writer, result *sim.Result) error {
	if len(result.Times) != len(result.Snapshots) {
		return fmt.Errorf("%w: %d times for %d snapshots", ErrRaggedResult, len(result.Times), len(result.Snapshots))
	}
	cw := csv.NewWriter(w)
	if len(result.Snapshots) == 0 {
		cw.Flush()
		return cw.Error()
	}

	header := []string{"time"}
	for _, b := range result.Snapshots[0] {
		header = append(header, columnsFor(b.ID)...)
	}
	if err := cw.Write(header); err != nil {
		return err
	}

	for i, snap := range result.Snapshots {
		if len(snap) != len(result.Snapshots[0]) {
			return fmt.Errorf("%w: snapshot %d has %d bodies, want %d", ErrRaggedResult, i, len(snap), len(result.Snapshots[0]))
		}
		row := make([]string, 0, len(header))
		row = append(row, formatFloat(result.Times[i]))
		for _, b := range snap {
			row = append(row,
				formatFloat(b.Position.X), formatFloat(b.Position.Y), formatFloat(b.Position.Z),
				formatFloat(b.Velocity.X), formatFloat(b.Velocity.Y), formatFloat(b.Velocity.Z))
		}
		if err := cw.Write(row); err != nil {
			return err
		}
	}

	cw.Flush()
	return cw.Error()
}

// ReadCSV parses the format written by ExportCSV.
func ReadCSV(r io.Reader, masses map[uint64]float64) ([]float64, [][]sim.BodyState, error) {
	records, err := csv.NewReader(r).ReadAll()
	if err != nil {
		return nil, nil, err
	}
	if len(records) < 2 {
		return []float64{}, [][]sim.BodyState{}, nil
	}

	header := records[0]
	if len(header) == 0 || header[0] != "time" || (len(header)-1)%6 != 0 {
		return nil, nil, fmt.Errorf("storage: malformed header %v", header)
	}
	ids := make([]uint64, 0, (len(header)-1)/6)
	for c := 1; c < len(header); c += 6 {
		name := strings.TrimSuffix(strings.TrimPrefix(header[c], "b"), "_x")
		id, err := strconv.ParseUint(name, 10, 64)
		if err != nil {
			return nil, nil, fmt.Errorf("storage: column %q: %w", header[c], err)
		}
		ids = append(ids, id)
	}

	times := make([]float64, 0, len(records)-1)
	snaps := make([][]sim.BodyState, 0, len(records)-1)
	for i, record := range records[1:] {
		vals := make([]float64, len(record))
		for j, field := range record {
			v, err := strconv.ParseFloat(field, 64)
			if err != nil {
				return nil, nil, fmt.Errorf("storage: row %d column %d: %w", i+1, j, err)
			}
			vals[j] = v
		}
		times = append(times, vals[0])

		snap := make([]sim.BodyState, len(ids))
		for k, id := range ids {
			v := vals[1+6*k:]
			snap[k] = sim.BodyState{
				ID:       id,
				Mass:     masses[id],
				Position: r3.Vec{X: v[0], Y: v[1], Z: v[2]},
				Velocity: r3.Vec{X: v[3], Y: v[4], Z: v[5]},
			}
		}
		snaps = append(snaps, snap)
	}
	return times, snaps, nil
}
