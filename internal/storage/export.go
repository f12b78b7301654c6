package storage

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"strconv"
)

// ExportData is the JSON document written by ExportJSON. Non-finite
// values are encoded as strings, see Float.
type ExportData struct {
	RunMetadata
	Times  []Float   `json:"times"`
	States [][]Float `json:"states"`
}

func ExportJSON(w io.Writer, run *Run) error {
	data := ExportData{
		RunMetadata: run.Meta,
		Times:       floats(run.Times),
		States:      make([][]Float, len(run.States)),
	}
	for i, state := range run.States {
		data.States[i] = floats(state)
	}
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(data)
}

// WriteCSV writes a time column followed by one column per state
// component. Values round-trip exactly.
func WriteCSV(w io.Writer, times []float64, states [][]float64) error {
	cw := csv.NewWriter(w)
	if len(states) > 0 {
		header := []string{"time"}
		for i := range states[0] {
			header = append(header, fmt.Sprintf("x%d", i))
		}
		if err := cw.Write(header); err != nil {
			return err
		}
	}

	for i, state := range states {
		row := make([]string, 0, len(state)+1)
		row = append(row, strconv.FormatFloat(times[i], 'g', -1, 64))
		for _, val := range state {
			row = append(row, strconv.FormatFloat(val, 'g', -1, 64))
		}
		if err := cw.Write(row); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}
