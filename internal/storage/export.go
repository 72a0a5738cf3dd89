package storage

import (
	"encoding/json"
	"io"
	"os"

	"github.com/san-kum/episim/internal/dynamo"
)

type ExportData struct {
	RunMetadata
	Steps  int         `json:"steps"`
	Times  []float64   `json:"times"`
	States [][]float64 `json:"states"`
}

func newExportData(meta RunMetadata, times []float64, traj dynamo.Trajectory) ExportData {
	data := ExportData{
		RunMetadata: meta,
		Steps:       len(times),
		Times:       times,
		States:      make([][]float64, len(traj)),
	}
	for i, x := range traj {
		data.States[i] = x
	}
	return data
}

func WriteJSON(w io.Writer, meta RunMetadata, times []float64, traj dynamo.Trajectory) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(newExportData(meta, times, traj))
}

// ExportJSON writes a run to path, or to stdout when path is empty or "-".
func ExportJSON(path string, meta RunMetadata, times []float64, traj dynamo.Trajectory) error {
	if path == "" || path == "-" {
		return WriteJSON(os.Stdout, meta, times, traj)
	}
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := WriteJSON(f, meta, times, traj); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}
