package storage

import (
	"encoding/json"
	"fmt"
	"math"
	"strconv"
)

// Float is a float64 whose JSON form survives divergence: NaN and the
// infinities are written as the strings "NaN", "+Inf" and "-Inf", the
// spellings strconv and the states CSV use.
type Float float64

func (f Float) MarshalJSON() ([]byte, error) {
	v := float64(f)
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return json.Marshal(strconv.FormatFloat(v, 'g', -1, 64))
	}
	return json.Marshal(v)
}

func (f *Float) UnmarshalJSON(b []byte) error {
	var v float64
	if err := json.Unmarshal(b, &v); err == nil {
		*f = Float(v)
		return nil
	}
	var s string
	if err := json.Unmarshal(b, &s); err != nil {
		return fmt.Errorf("storage: float %s: %w", b, err)
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return fmt.Errorf("storage: float %q: %w", s, err)
	}
	*f = Float(v)
	return nil
}

// Values is a named set of floats encoded with Float.
type Values map[string]float64

func (v Values) MarshalJSON() ([]byte, error) {
	if v == nil {
		return []byte("null"), nil
	}
	out := make(map[string]Float, len(v))
	for k, x := range v {
		out[k] = Float(x)
	}
	return json.Marshal(out)
}

func (v *Values) UnmarshalJSON(b []byte) error {
	var in map[string]Float
	if err := json.Unmarshal(b, &in); err != nil {
		return err
	}
	if in == nil {
		*v = nil
		return nil
	}
	out := make(Values, len(in))
	for k, x := range in {
		out[k] = float64(x)
	}
	*v = out
	return nil
}

func floats(xs []float64) []Float {
	out := make([]Float, len(xs))
	for i, x := range xs {
		out[i] = Float(x)
	}
	return out
}
