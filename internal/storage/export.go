package storage

import (
	"encoding/json"
	"io"

	"github.com/san-kum/orbitsim/internal/sim"
)

type ExportBody struct {
	ID       uint64     `json:"id"`
	Mass     float64    `json:"mass"`
	Position [3]float64 `json:"position"`
	Velocity [3]float64 `json:"velocity"`
}

type ExportSample struct {
	Time   float64      `json:"time"`
	Bodies []ExportBody `json:"bodies"`
}

type ExportData struct {
	RunMetadata
	Samples []ExportSample `json:"samples"`
}

// ExportJSON writes the metadata and every sampled snapshot as one indented
// JSON document.
func ExportJSON(w io.Writer, meta RunMetadata, result *sim.Result) error {
	data := ExportData{
		RunMetadata: meta,
		Samples:     make([]ExportSample, len(result.Snapshots)),
	}
	if data.Metrics == nil {
		data.Metrics = result.Metrics
	}
	if data.Steps == 0 {
		data.Steps = result.StepsTaken
	}

	for i, snap := range result.Snapshots {
		bodies := make([]ExportBody, len(snap))
		for k, b := range snap {
			bodies[k] = ExportBody{
				ID:       b.ID,
				Mass:     b.Mass,
				Position: [3]float64{b.Position.X, b.Position.Y, b.Position.Z},
				Velocity: [3]float64{b.Velocity.X, b.Velocity.Y, b.Velocity.Z},
			}
		}
		data.Samples[i] = ExportSample{Time: result.Times[i], Bodies: bodies}
	}

	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(data)
}
