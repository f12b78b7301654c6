package experiment

import (
	"context"
	"fmt"
	"runtime"

	"golang.org/x/sync/errgroup"

	"github.com/san-kum/odeint/internal/config"
)

// Compare runs base once per method concurrently and returns the results
// in method order. Methods without an error estimate run with fixed steps
// when base is adaptive. The first failure cancels the remaining runs.
func Compare(ctx context.Context, base *config.Config, methods []string, opts ...Option) ([]*Result, error) {
	reg := build(opts).reg
	exps := make([]*Experiment, len(methods))
	for i, name := range methods {
		method, err := reg.GetMethod(name)
		if err != nil {
			return nil, err
		}
		cfg := base.Clone()
		cfg.Method = name
		cfg.Adaptive = cfg.Adaptive && method.Embedded()
		if exps[i], err = New(cfg, opts...); err != nil {
			return nil, fmt.Errorf("%s: %w", name, err)
		}
	}

	results := make([]*Result, len(methods))
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(runtime.GOMAXPROCS(0))
	for i, exp := range exps {
		g.Go(func() error {
			res, err := exp.Run(ctx)
			if err != nil {
				return fmt.Errorf("%s: %w", methods[i], err)
			}
			results[i] = res
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}
