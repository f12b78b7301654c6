package adaptive

import (
	"fmt"
	"math"

	"github.com/san-kum/odeint/internal/dynamo"
)

const (
	PolicyMixed = "mixed"
	PolicyMax   = "max"
)

// Config bounds the step-size controller. MaxDt of zero leaves the step
// size unbounded above.
type Config struct {
	AbsTol    float64
	RelTol    float64
	Safety    float64
	MaxGrowth float64
	MinShrink float64
	MinDt     float64
	MaxDt     float64
	Policy    string
}

func DefaultConfig() Config {
	return Config{
		AbsTol:    1e-6,
		RelTol:    1e-6,
		Safety:    0.9,
		MaxGrowth: 5,
		MinShrink: 0.2,
		MinDt:     1e-12,
		MaxDt:     0,
		Policy:    PolicyMixed,
	}
}

func (c Config) Validate() error {
	bad := func(format string, args ...any) error {
		return fmt.Errorf("adaptive: "+format+": %w", append(args, dynamo.ErrInvalidConfig)...)
	}
	for name, v := range map[string]float64{
		"abs_tol": c.AbsTol, "rel_tol": c.RelTol, "safety": c.Safety,
		"max_growth": c.MaxGrowth, "min_shrink": c.MinShrink, "min_dt": c.MinDt, "max_dt": c.MaxDt,
	} {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return bad("%s must be finite, got %v", name, v)
		}
	}
	switch {
	case c.AbsTol <= 0:
		return bad("abs_tol must be positive, got %g", c.AbsTol)
	case c.RelTol < 0:
		return bad("rel_tol must not be negative, got %g", c.RelTol)
	case c.Safety <= 0 || c.Safety > 1:
		return bad("safety must be in (0, 1], got %g", c.Safety)
	case c.MaxGrowth < 1:
		return bad("max_growth must be at least 1, got %g", c.MaxGrowth)
	case c.MinShrink <= 0 || c.MinShrink >= 1:
		return bad("min_shrink must be in (0, 1), got %g", c.MinShrink)
	case c.MinDt < 0:
		return bad("min_dt must not be negative, got %g", c.MinDt)
	case c.MaxDt < 0:
		return bad("max_dt must not be negative, got %g", c.MaxDt)
	case c.MaxDt > 0 && c.MaxDt < c.MinDt:
		return bad("max_dt %g is below min_dt %g", c.MaxDt, c.MinDt)
	}
	if _, err := c.Tolerance(); err != nil {
		return err
	}
	return nil
}

// Tolerance returns the blending rule named by Policy. An empty policy
// means PolicyMixed.
func (c Config) Tolerance() (Tolerance, error) {
	switch c.Policy {
	case "", PolicyMixed:
		return Mixed{Abs: c.AbsTol, Rel: c.RelTol}, nil
	case PolicyMax:
		return MaxMixed{Abs: c.AbsTol, Rel: c.RelTol}, nil
	default:
		return nil, fmt.Errorf("adaptive: unknown tolerance policy %q: %w", c.Policy, dynamo.ErrInvalidConfig)
	}
}

// Tolerance converts the magnitude of a state component into the error
// that component may carry.
type Tolerance interface {
	Scale(absX float64) float64
}

// Mixed allows Abs + Rel*|x|.
type Mixed struct{ Abs, Rel float64 }

func (m Mixed) Scale(absX float64) float64 { return m.Abs + m.Rel*absX }

// MaxMixed allows max(Abs, Rel*|x|).
type MaxMixed struct{ Abs, Rel float64 }

func (m MaxMixed) Scale(absX float64) float64 { return math.Max(m.Abs, m.Rel*absX) }
