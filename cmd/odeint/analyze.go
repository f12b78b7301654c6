package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/san-kum/odeint/internal/algebra"
	"github.com/san-kum/odeint/internal/analysis"
	"github.com/san-kum/odeint/internal/experiment"
	"github.com/san-kum/odeint/internal/operations"
	"github.com/san-kum/odeint/internal/stepper"
	"github.com/san-kum/odeint/internal/viz"
)

func (a *app) analyzeCmd() *cobra.Command {
	var component int
	cmd := &cobra.Command{
		Use:   "analyze [run_id]",
		Short: "frequency analysis of a stored run",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			st, err := a.store(nil)
			if err != nil {
				return err
			}
			run, err := st.LoadRun(args[0])
			if err != nil {
				return err
			}
			if len(run.States) < 4 {
				return fmt.Errorf("not enough samples to analyze: %d", len(run.States))
			}
			if component < 0 || component >= len(run.States[0]) {
				return fmt.Errorf("component %d out of range, state has %d", component, len(run.States[0]))
			}
			if run.Meta.Adaptive {
				fmt.Fprintln(a.out, "warning: adaptive run, samples are not evenly spaced")
			}

			x := viz.Column(run.States, component)
			dt := (run.Times[len(run.Times)-1] - run.Times[0]) / float64(len(run.Times)-1)
			ps := analysis.PowerSpectrum(x)
			freq, power := analysis.DominantFrequency(x, dt)

			fmt.Fprintf(a.out, "run: %s (%s)\n", run.Meta.ID, run.Meta.System)
			fmt.Fprint(a.out, viz.PlotSeries([][]float64{ps[:max(len(ps)/4, 2)]}, fmt.Sprintf("power spectrum (x%d)", component), viz.PlotOptions{Height: 15}))
			fmt.Fprintf(a.out, "dominant frequency: %.6g (period %.6g), power %.4g\n", freq, 1/freq, power)
			return nil
		},
	}
	cmd.Flags().IntVar(&component, "component", 0, "state component to analyze")
	return cmd
}

func (a *app) lyapunovCmd() *cobra.Command {
	var (
		rf runFlags
		d0 float64
	)
	cmd := &cobra.Command{
		Use:   "lyapunov [system]",
		Short: "estimate the largest lyapunov exponent",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := rf.resolve(cmd, optionalArg(args))
			if err != nil {
				return err
			}
			cfg.Adaptive = false
			if err := cfg.Validate(); err != nil {
				return err
			}
			model, err := cfg.Model()
			if err != nil {
				return err
			}
			method, err := experiment.NewRegistry().GetMethod(cfg.Method)
			if err != nil {
				return err
			}
			st, err := stepper.New[[]float64, float64, float64](method.Category, method.Tableau,
				algebra.NewArray[float64](operations.Real{}), operations.Real{})
			if err != nil {
				return err
			}

			lambda, err := analysis.LyapunovExponent(st, model.Derive, cfg.InitialState(model), cfg.Dt, cfg.Duration, d0)
			if err != nil {
				return err
			}
			verdict := "regular"
			if lambda > 0.01 {
				verdict = "chaotic"
			}
			fmt.Fprintf(a.out, "%s: lambda = %.6g (%s)\n", cfg.System, lambda, verdict)
			return nil
		},
	}
	rf.register(cmd.Flags())
	cmd.Flags().Float64Var(&d0, "perturbation", 1e-8, "initial separation")
	return cmd
}
