// Package storage persists runs under a base directory, one directory per
// run holding metadata.json and states.csv.
package storage

import (
	"encoding/csv"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"time"

	"github.com/gofrs/flock"
	"github.com/google/uuid"
)

const (
	metadataFile = "metadata.json"
	statesFile   = "states.csv"
	lockFile     = ".lock"
)

var ErrRunNotFound = errors.New("storage: run not found")

type Store struct {
	baseDir string
}

func New(baseDir string) *Store {
	return &Store{baseDir: baseDir}
}

func (s *Store) Init() error {
	return os.MkdirAll(s.baseDir, 0755)
}

func (s *Store) Dir() string { return s.baseDir }

type RunMetadata struct {
	ID        string             `json:"id"`
	System    string             `json:"system"`
	Method    string             `json:"method"`
	Algebra   string             `json:"algebra"`
	Adaptive  bool               `json:"adaptive"`
	Timestamp time.Time          `json:"timestamp"`
	T0        float64            `json:"t0"`
	Dt        float64            `json:"dt"`
	Duration  float64            `json:"duration"`
	Steps     int                `json:"steps"`
	Rejected  int                `json:"rejected"`
	Params    Values             `json:"params,omitempty"`
	Metrics   Values             `json:"metrics,omitempty"`
}

// Run is a stored trajectory. States[i] is the state at Times[i].
type Run struct {
	Meta   RunMetadata
	Times  []float64
	States [][]float64
}

// Save writes run under a fresh ID and returns it. The run directory is
// staged and renamed into place while holding the store lock, so readers
// never see a partial run.
func (s *Store) Save(run *Run) (string, error) {
	if len(run.Times) != len(run.States) {
		return "", fmt.Errorf("storage: %d times for %d states", len(run.Times), len(run.States))
	}
	if err := s.Init(); err != nil {
		return "", err
	}

	lock := flock.New(filepath.Join(s.baseDir, lockFile))
	if err := lock.Lock(); err != nil {
		return "", fmt.Errorf("storage: acquiring lock: %w", err)
	}
	defer func() { _ = lock.Unlock() }()

	meta := run.Meta
	meta.ID = fmt.Sprintf("%s_%s", meta.System, uuid.NewString()[:8])
	if meta.Timestamp.IsZero() {
		meta.Timestamp = time.Now().UTC()
	}

	staging, err := os.MkdirTemp(s.baseDir, ".staging-")
	if err != nil {
		return "", err
	}
	defer func() { _ = os.RemoveAll(staging) }()

	if err := writeMetadata(filepath.Join(staging, metadataFile), meta); err != nil {
		return "", err
	}
	if err := writeStates(filepath.Join(staging, statesFile), run.Times, run.States); err != nil {
		return "", err
	}
	if err := os.Rename(staging, filepath.Join(s.baseDir, meta.ID)); err != nil {
		return "", err
	}
	run.Meta = meta
	return meta.ID, nil
}

func writeMetadata(path string, meta RunMetadata) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	enc := json.NewEncoder(f)
	enc.SetIndent("", "  ")
	if err := enc.Encode(meta); err != nil {
		return err
	}
	return f.Close()
}

func writeStates(path string, times []float64, states [][]float64) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	if err := WriteCSV(f, times, states); err != nil {
		return err
	}
	return f.Close()
}

// List returns all readable runs, oldest first. Directories without valid
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
		if !entry.IsDir() || entry.Name()[0] == '.' {
			continue
		}

		meta, err := s.Load(entry.Name())
		if err != nil {
			continue
		}
		runs = append(runs, *meta)
	}

	sort.Slice(runs, func(i, j int) bool { return runs[i].Timestamp.Before(runs[j].Timestamp) })
	return runs, nil
}

func (s *Store) runDir(runID string) (string, error) {
	if runID == "" || filepath.Base(runID) != runID || runID[0] == '.' {
		return "", fmt.Errorf("%w: invalid id %q", ErrRunNotFound, runID)
	}
	return filepath.Join(s.baseDir, runID), nil
}

func (s *Store) Load(runID string) (*RunMetadata, error) {
	dir, err := s.runDir(runID)
	if err != nil {
		return nil, err
	}
	data, err := os.ReadFile(filepath.Join(dir, metadataFile))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: %s", ErrRunNotFound, runID)
		}
		return nil, err
	}

	var meta RunMetadata
	if err := json.Unmarshal(data, &meta); err != nil {
		return nil, fmt.Errorf("storage: %s: %w", runID, err)
	}
	return &meta, nil
}

func (s *Store) LoadStates(runID string) ([][]float64, []float64, error) {
	dir, err := s.runDir(runID)
	if err != nil {
		return nil, nil, err
	}
	file, err := os.Open(filepath.Join(dir, statesFile))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil, fmt.Errorf("%w: %s", ErrRunNotFound, runID)
		}
		return nil, nil, err
	}
	defer file.Close()

	r := csv.NewReader(file)
	r.FieldsPerRecord = -1

	records, err := r.ReadAll()
	if err != nil {
		return nil, nil, err
	}

	if len(records) < 2 {
		return [][]float64{}, []float64{}, nil
	}

	times := make([]float64, 0, len(records)-1)
	states := make([][]float64, 0, len(records)-1)

	for i := 1; i < len(records); i++ {
		record := records[i]
		if len(record) == 0 {
			continue
		}

		t, err := strconv.ParseFloat(record[0], 64)
		if err != nil {
			return nil, nil, fmt.Errorf("storage: %s row %d: %w", runID, i, err)
		}
		state := make([]float64, len(record)-1)
		for j := 1; j < len(record); j++ {
			if state[j-1], err = strconv.ParseFloat(record[j], 64); err != nil {
				return nil, nil, fmt.Errorf("storage: %s row %d: %w", runID, i, err)
			}
		}
		times = append(times, t)
		states = append(states, state)
	}

	return states, times, nil
}

// LoadRun reads both metadata and states.
func (s *Store) LoadRun(runID string) (*Run, error) {
	meta, err := s.Load(runID)
	if err != nil {
		return nil, err
	}
	states, times, err := s.LoadStates(runID)
	if err != nil {
		return nil, err
	}
	return &Run{Meta: *meta, Times: times, States: states}, nil
}

func (s *Store) Delete(runID string) error {
	dir, err := s.runDir(runID)
	if err != nil {
		return err
	}
	if _, err := os.Stat(dir); err != nil {
		return fmt.Errorf("%w: %s", ErrRunNotFound, runID)
	}

	lock := flock.New(filepath.Join(s.baseDir, lockFile))
	if err := lock.Lock(); err != nil {
		return fmt.Errorf("storage: acquiring lock: %w", err)
	}
	defer func() { _ = lock.Unlock() }()
	return os.RemoveAll(dir)
}
