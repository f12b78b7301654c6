package storage

import (
	"bytes"
	"encoding/json"
	"errors"
	"math"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func sampleRun() *Run {
	return &Run{
		Meta: RunMetadata{
			System:   "harmonic",
			Method:   "rk4",
			Algebra:  "array",
			Dt:       0.1,
			Duration: 0.2,
			Steps:    2,
			Params:   map[string]float64{"omega": 1},
			Metrics:  map[string]float64{"energy_drift": 1e-9},
		},
		Times:  []float64{0, 0.1, 0.2},
		States: [][]float64{{1, 0}, {math.Cos(0.1), -math.Sin(0.1)}, {math.Cos(0.2), -math.Sin(0.2)}},
	}
}

func TestStoreSaveAndLoad(t *testing.T) {
	s := New(t.TempDir())
	run := sampleRun()

	id, err := s.Save(run)
	if err != nil {
		t.Fatalf("save failed: %v", err)
	}
	if !strings.HasPrefix(id, "harmonic_") {
		t.Errorf("unexpected run id %q", id)
	}
	if run.Meta.ID != id || run.Meta.Timestamp.IsZero() {
		t.Errorf("metadata not updated: %+v", run.Meta)
	}

	meta, err := s.Load(id)
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}
	if meta.System != "harmonic" || meta.Steps != 2 || meta.Params["omega"] != 1 {
		t.Errorf("unexpected metadata: %+v", meta)
	}

	states, times, err := s.LoadStates(id)
	if err != nil {
		t.Fatalf("load states failed: %v", err)
	}
	if len(states) != 3 || len(times) != 3 {
		t.Fatalf("expected 3 rows, got %d states and %d times", len(states), len(times))
	}
	for i := range states {
		for j := range states[i] {
			if states[i][j] != run.States[i][j] {
				t.Errorf("state %d/%d: got %v, want %v", i, j, states[i][j], run.States[i][j])
			}
		}
	}
}

func TestStoreList(t *testing.T) {
	s := New(t.TempDir())

	runs, err := s.List()
	if err != nil || len(runs) != 0 {
		t.Fatalf("expected empty list, got %v, %v", runs, err)
	}

	first := sampleRun()
	first.Meta.Timestamp = time.Date(2024, 1, 2, 0, 0, 0, 0, time.UTC)
	second := sampleRun()
	second.Meta.System = "lorenz"
	second.Meta.Timestamp = time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	if _, err := s.Save(first); err != nil {
		t.Fatal(err)
	}
	if _, err := s.Save(second); err != nil {
		t.Fatal(err)
	}
	if err := os.MkdirAll(filepath.Join(s.Dir(), "junk"), 0755); err != nil {
		t.Fatal(err)
	}

	runs, err = s.List()
	if err != nil {
		t.Fatal(err)
	}
	if len(runs) != 2 {
		t.Fatalf("expected 2 runs, got %d", len(runs))
	}
	if runs[0].System != "lorenz" || runs[1].System != "harmonic" {
		t.Errorf("runs not ordered by time: %s, %s", runs[0].System, runs[1].System)
	}
}

func TestStoreLoadMissing(t *testing.T) {
	s := New(t.TempDir())
	for _, id := range []string{"nope", "../etc", "", ".lock"} {
		if _, err := s.Load(id); !errors.Is(err, ErrRunNotFound) {
			t.Errorf("%q: expected ErrRunNotFound, got %v", id, err)
		}
	}
	if _, _, err := s.LoadStates("nope"); !errors.Is(err, ErrRunNotFound) {
		t.Errorf("expected ErrRunNotFound, got %v", err)
	}
}

func TestStoreDelete(t *testing.T) {
	s := New(t.TempDir())
	id, err := s.Save(sampleRun())
	if err != nil {
		t.Fatal(err)
	}
	if err := s.Delete(id); err != nil {
		t.Fatalf("delete failed: %v", err)
	}
	if _, err := s.Load(id); !errors.Is(err, ErrRunNotFound) {
		t.Errorf("expected run to be gone, got %v", err)
	}
	if err := s.Delete(id); !errors.Is(err, ErrRunNotFound) {
		t.Errorf("expected ErrRunNotFound on second delete, got %v", err)
	}
}

func TestSaveRejectsRaggedRun(t *testing.T) {
	run := sampleRun()
	run.Times = run.Times[:1]
	if _, err := New(t.TempDir()).Save(run); err == nil {
		t.Error("expected error for mismatched times and states")
	}
}

func TestExportJSON(t *testing.T) {
	var buf bytes.Buffer
	if err := ExportJSON(&buf, sampleRun()); err != nil {
		t.Fatal(err)
	}
	var doc map[string]any
	if err := json.Unmarshal(buf.Bytes(), &doc); err != nil {
		t.Fatalf("invalid json: %v", err)
	}
	if doc["system"] != "harmonic" {
		t.Errorf("expected flattened metadata, got %v", doc["system"])
	}
	if len(doc["states"].([]any)) != 3 {
		t.Errorf("expected 3 states, got %v", doc["states"])
	}
}

func divergedRun() *Run {
	run := sampleRun()
	run.Meta.Metrics = Values{"energy_drift": math.NaN(), "energy": math.Inf(1), "stability": 0}
	run.States[2] = []float64{math.Inf(1), math.NaN()}
	return run
}

func TestStoreSavesDivergedRun(t *testing.T) {
	s := New(t.TempDir())
	id, err := s.Save(divergedRun())
	if err != nil {
		t.Fatalf("save failed: %v", err)
	}

	run, err := s.LoadRun(id)
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}
	if !math.IsNaN(run.Meta.Metrics["energy_drift"]) {
		t.Errorf("energy_drift = %v, want NaN", run.Meta.Metrics["energy_drift"])
	}
	if !math.IsInf(run.Meta.Metrics["energy"], 1) {
		t.Errorf("energy = %v, want +Inf", run.Meta.Metrics["energy"])
	}
	if run.Meta.Metrics["stability"] != 0 || run.Meta.Params["omega"] != 1 {
		t.Errorf("finite values changed: %+v", run.Meta)
	}
	last := run.States[2]
	if !math.IsInf(last[0], 1) || !math.IsNaN(last[1]) {
		t.Errorf("last state = %v, want [+Inf NaN]", last)
	}
}

func TestExportJSONNonFinite(t *testing.T) {
	var buf bytes.Buffer
	if err := ExportJSON(&buf, divergedRun()); err != nil {
		t.Fatal(err)
	}
	out := buf.String()
	for _, want := range []string{`"energy_drift": "NaN"`, `"energy": "+Inf"`, `"stability": 0`} {
		if !strings.Contains(out, want) {
			t.Errorf("missing %s in %s", want, out)
		}
	}

	var doc ExportData
	if err := json.Unmarshal(buf.Bytes(), &doc); err != nil {
		t.Fatalf("invalid json: %v", err)
	}
	if !math.IsInf(float64(doc.States[2][0]), 1) || !math.IsNaN(float64(doc.States[2][1])) {
		t.Errorf("states did not round-trip: %v", doc.States[2])
	}
	if float64(doc.Times[1]) != 0.1 {
		t.Errorf("times[1] = %v, want 0.1", doc.Times[1])
	}
}

func TestFloatRejectsGarbage(t *testing.T) {
	var f Float
	if err := json.Unmarshal([]byte(`"fast"`), &f); err == nil {
		t.Error("expected error for non-numeric string")
	}
	if err := json.Unmarshal([]byte(`true`), &f); err == nil {
		t.Error("expected error for boolean")
	}
}

func TestWriteCSV(t *testing.T) {
	var buf bytes.Buffer
	if err := WriteCSV(&buf, []float64{0, 0.5}, [][]float64{{1, 2}, {0.1, 1e-20}}); err != nil {
		t.Fatal(err)
	}
	want := "time,x0,x1\n0,1,2\n0.5,0.1,1e-20\n"
	if buf.String() != want {
		t.Errorf("got %q, want %q", buf.String(), want)
	}
}
