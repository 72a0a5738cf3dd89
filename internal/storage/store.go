package storage

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"time"

	"github.com/san-kum/episim/internal/dynamo"
)

const (
	metadataFile = "metadata.json"
	statesFile   = "states.csv"
)

type Store struct {
	baseDir string
}

func New(baseDir string) *Store {
	return &Store{baseDir: baseDir}
}

func (s *Store) Init() error {
	return os.MkdirAll(s.baseDir, 0755)
}

// RunMetadata describes one stored integration. ID and Timestamp are
// filled by Save when empty.
type RunMetadata struct {
	ID           string             `json:"id"`
	Model        string             `json:"model"`
	Kind         string             `json:"kind"`
	Coupling     string             `json:"coupling"`
	Compartments []string           `json:"compartments"`
	Params       map[string]float64 `json:"params"`
	R0           float64            `json:"r0"`
	Peak         float64            `json:"peak"`
	PeakTime     float64            `json:"peak_time"`
	FinalSize    float64            `json:"final_size"`
	Dt           float64            `json:"dt"`
	Duration     float64            `json:"duration"`
	Metrics      map[string]float64 `json:"metrics,omitempty"`
	Timestamp    time.Time          `json:"timestamp"`
}

func (s *Store) Save(meta RunMetadata, times []float64, traj dynamo.Trajectory) (string, error) {
	if len(times) != len(traj) {
		return "", fmt.Errorf("%w: %d times for %d states", dynamo.ErrDimensionMismatch, len(times), len(traj))
	}
	if dim := traj.Dim(); len(meta.Compartments) != 0 && len(meta.Compartments) != dim {
		return "", fmt.Errorf("%w: %d compartment names for width %d",
			dynamo.ErrDimensionMismatch, len(meta.Compartments), dim)
	}

	now := time.Now()
	if meta.Timestamp.IsZero() {
		meta.Timestamp = now
	}
	if meta.ID == "" {
		meta.ID = fmt.Sprintf("%s_%d", meta.Model, now.UnixNano())
	}
	runDir := filepath.Join(s.baseDir, meta.ID)

	if err := os.MkdirAll(runDir, 0755); err != nil {
		return "", err
	}
	if err := writeMetadata(filepath.Join(runDir, metadataFile), meta); err != nil {
		return "", err
	}
	if err := writeStates(filepath.Join(runDir, statesFile), header(meta.Compartments, traj.Dim()), times, traj); err != nil {
		return "", err
	}
	return meta.ID, nil
}

func header(compartments []string, dim int) []string {
	h := []string{"time"}
	if len(compartments) == dim {
		return append(h, compartments...)
	}
	for i := 0; i < dim; i++ {
		h = append(h, fmt.Sprintf("x%d", i))
	}
	return h
}

func writeMetadata(path string, meta RunMetadata) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}

	enc := json.NewEncoder(f)
	enc.SetIndent("", "  ")
	if err := enc.Encode(meta); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

func writeStates(path string, header []string, times []float64, traj dynamo.Trajectory) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := encodeStates(f, header, times, traj); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

func encodeStates(out io.Writer, header []string, times []float64, traj dynamo.Trajectory) error {
	w := csv.NewWriter(out)
	if err := w.Write(header); err != nil {
		return err
	}
	row := make([]string, len(header))
	for i, x := range traj {
		row = row[:0]
		row = append(row, strconv.FormatFloat(times[i], 'g', -1, 64))
		for _, v := range x {
			row = append(row, strconv.FormatFloat(v, 'g', -1, 64))
		}
		if err := w.Write(row); err != nil {
			return err
		}
	}
	w.Flush()
	return w.Error()
}

// List returns stored runs, newest first. Directories without readable
// metadata are skipped.
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

	sort.Slice(runs, func(i, j int) bool {
		return runs[i].Timestamp.After(runs[j].Timestamp)
	})
	return runs, nil
}

func (s *Store) Load(runID string) (*RunMetadata, error) {
	data, err := os.ReadFile(filepath.Join(s.baseDir, runID, metadataFile))
	if err != nil {
		return nil, err
	}

	var meta RunMetadata
	if err := json.Unmarshal(data, &meta); err != nil {
		return nil, fmt.Errorf("run %s: %w", runID, err)
	}
	return &meta, nil
}

// LoadStates reads a run's trajectory back. Rows that fail to parse are
// reported, not skipped.
func (s *Store) LoadStates(runID string) (dynamo.Trajectory, []float64, error) {
	f, err := os.Open(filepath.Join(s.baseDir, runID, statesFile))
	if err != nil {
		return nil, nil, err
	}
	defer f.Close()

	records, err := csv.NewReader(f).ReadAll()
	if err != nil {
		return nil, nil, fmt.Errorf("run %s: %w", runID, err)
	}
	if len(records) < 2 {
		return dynamo.Trajectory{}, []float64{}, nil
	}

	dim := len(records[0]) - 1
	traj := dynamo.NewTrajectory(len(records)-1, dim)
	times := make([]float64, len(records)-1)
	for i, record := range records[1:] {
		vals := make([]float64, len(record))
		for j, field := range record {
			v, err := strconv.ParseFloat(field, 64)
			if err != nil {
				return nil, nil, fmt.Errorf("%w: run %s row %d column %d: %v",
					dynamo.ErrInvalidValue, runID, i+1, j, err)
			}
			vals[j] = v
		}
		times[i] = vals[0]
		copy(traj[i], vals[1:])
	}
	return traj, times, nil
}
