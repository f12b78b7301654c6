package main

import (
	"context"
	"fmt"
	"math"
	"os"
	"os/signal"
	"sort"
	"strings"
	"text/tabwriter"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"

	"github.com/san-kum/odeint/internal/config"
	"github.com/san-kum/odeint/internal/experiment"
	"github.com/san-kum/odeint/internal/metrics"
	"github.com/san-kum/odeint/internal/storage"
	"github.com/san-kum/odeint/internal/viz"
)

func signalContext(cmd *cobra.Command) (context.Context, context.CancelFunc) {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	return signal.NotifyContext(ctx, os.Interrupt)
}

func optionalArg(args []string) string {
	if len(args) > 0 {
		return args[0]
	}
	return ""
}

func (a *app) runCmd() *cobra.Command {
	var (
		rf          runFlags
		noSave      bool
		metricsPath string
	)
	cmd := &cobra.Command{
		Use:   "run [system]",
		Short: "run simulation",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := rf.resolve(cmd, optionalArg(args))
			if err != nil {
				return err
			}
			reg := prometheus.NewRegistry()
			exp, err := experiment.New(cfg, experiment.WithLogger(a.logger), experiment.WithRegisterer(reg))
			if err != nil {
				return err
			}

			ctx, cancel := signalContext(cmd)
			defer cancel()
			fmt.Fprintf(a.out, "running %s with %s...\n", cfg.System, cfg.Method)
			res, err := exp.Run(ctx)
			if err != nil {
				return err
			}

			fmt.Fprintf(a.out, "completed in %v\n", res.Elapsed.Round(time.Microsecond))
			if !noSave {
				st, err := a.store(cfg)
				if err != nil {
					return err
				}
				id, err := st.Save(toRun(cfg, res))
				if err != nil {
					return err
				}
				fmt.Fprintf(a.out, "run id: %s\n", id)
			}
			fmt.Fprintf(a.out, "steps: %d (rejected %d)\n", res.Stats.Steps, res.Stats.Rejected)
			fmt.Fprintf(a.out, "final: %v\n", res.Final())
			printMetrics(a, res.Metrics)

			if metricsPath != "" {
				return writeMetrics(a, metricsPath, reg)
			}
			return nil
		},
	}
	rf.register(cmd.Flags())
	cmd.Flags().BoolVar(&noSave, "no-save", false, "do not store the run")
	cmd.Flags().StringVar(&metricsPath, "metrics", "", "write prometheus metrics to this file, - for stdout")
	return cmd
}

func toRun(cfg *config.Config, res *experiment.Result) *storage.Run {
	return &storage.Run{
		Meta: storage.RunMetadata{
			System:   res.System,
			Method:   res.Method,
			Algebra:  res.Algebra,
			Adaptive: cfg.Adaptive,
			T0:       cfg.T0,
			Dt:       cfg.Dt,
			Duration: cfg.Duration,
			Steps:    res.Stats.Steps,
			Rejected: res.Stats.Rejected,
			Params:   cfg.Params,
			Metrics:  res.Metrics,
		},
		Times:  res.Times,
		States: res.States,
	}
}

func printMetrics(a *app, values map[string]float64) {
	if len(values) == 0 {
		return
	}
	fmt.Fprintln(a.out, "\nmetrics:")
	for _, name := range metrics.Names(values) {
		fmt.Fprintf(a.out, "  %s: %.6g\n", name, values[name])
	}
}

func writeMetrics(a *app, path string, g prometheus.Gatherer) error {
	if path == "-" {
		return metrics.WriteText(a.out, g)
	}
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := metrics.WriteText(f, g); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

func (a *app) compareCmd() *cobra.Command {
	var rf runFlags
	cmd := &cobra.Command{
		Use:   "compare [system] [method1] [method2] ...",
		Short: "compare methods on the same system",
		Args:  cobra.MinimumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := rf.resolve(cmd, args[0])
			if err != nil {
				return err
			}
			methods := args[1:]
			ctx, cancel := signalContext(cmd)
			defer cancel()

			results, err := experiment.Compare(ctx, cfg, methods, experiment.WithLogger(a.logger))
			if err != nil {
				return err
			}

			w := tabwriter.NewWriter(a.out, 0, 0, 2, ' ', 0)
			fmt.Fprintln(w, "METHOD\tSTEPS\tREJECTED\tTIME\tDIFF\tENERGY DRIFT")
			for _, res := range results {
				fmt.Fprintf(w, "%s\t%d\t%d\t%v\t%.3e\t%.3e\n",
					res.Method,
					res.Stats.Steps,
					res.Stats.Rejected,
					res.Elapsed.Round(time.Microsecond),
					experiment.Difference(res, results[0]),
					res.Metrics["energy_drift"],
				)
			}
			if err := w.Flush(); err != nil {
				return err
			}

			series := make([][]float64, len(results))
			for i, res := range results {
				series[i] = viz.Column(res.States, 0)
			}
			fmt.Fprintln(a.out)
			fmt.Fprint(a.out, viz.PlotSeries(series, "x0 by method", viz.PlotOptions{Height: 12}))
			fmt.Fprintln(a.out, viz.Legend(methods))
			return nil
		},
	}
	rf.register(cmd.Flags())
	return cmd
}

func (a *app) watchCmd() *cobra.Command {
	var (
		rf    runFlags
		fps   int
		speed int
		theme string
	)
	cmd := &cobra.Command{
		Use:   "watch [system]",
		Short: "run simulation with live visualization",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := rf.resolve(cmd, optionalArg(args))
			if err != nil {
				return err
			}
			exp, err := experiment.New(cfg, experiment.WithLogger(a.logger))
			if err != nil {
				return err
			}
			sess, err := exp.Session()
			if err != nil {
				return err
			}
			w := viz.NewWatch(sess, viz.WithFPS(fps), viz.WithStepsPerFrame(speed), viz.WithTheme(theme))
			_, err = tea.NewProgram(w, tea.WithContext(cmd.Context())).Run()
			return err
		},
	}
	rf.register(cmd.Flags())
	cmd.Flags().IntVar(&fps, "fps", 30, "frame rate")
	cmd.Flags().IntVar(&speed, "speed", 1, "steps per frame")
	cmd.Flags().StringVar(&theme, "theme", viz.Themes[0].Name, "color theme: "+strings.Join(viz.ThemeNames(), ", "))
	return cmd
}

func (a *app) benchCmd() *cobra.Command {
	var rf runFlags
	cmd := &cobra.Command{
		Use:   "bench [system] [method...]",
		Short: "time methods on a system",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := rf.resolve(cmd, args[0])
			if err != nil {
				return err
			}
			methods := args[1:]
			reg := experiment.NewRegistry()
			if len(methods) == 0 {
				methods = reg.ListMethods()
			}
			ctx, cancel := signalContext(cmd)
			defer cancel()

			type row struct {
				method string
				steps  int
				perOp  time.Duration
			}
			var rows []row
			for _, m := range methods {
				run := cfg.Clone()
				run.Method, run.Adaptive = m, false
				run.Output.Every = math.MaxInt32
				exp, err := experiment.New(run, experiment.WithRegistry(reg), experiment.WithLogger(a.logger))
				if err != nil {
					return fmt.Errorf("%s: %w", m, err)
				}
				res, err := exp.Run(ctx)
				if err != nil {
					return fmt.Errorf("%s: %w", m, err)
				}
				rows = append(rows, row{m, res.Stats.Steps, res.Elapsed / time.Duration(max(res.Stats.Steps, 1))})
			}
			sort.Slice(rows, func(i, j int) bool { return rows[i].perOp < rows[j].perOp })

			w := tabwriter.NewWriter(a.out, 0, 0, 2, ' ', 0)
			fmt.Fprintf(w, "benchmark %s (dt=%g, time=%g)\n", cfg.System, cfg.Dt, cfg.Duration)
			fmt.Fprintln(w, "METHOD\tSTEPS\tTIME/STEP")
			for _, r := range rows {
				fmt.Fprintf(w, "%s\t%d\t%v\n", r.method, r.steps, r.perOp)
			}
			return w.Flush()
		},
	}
	rf.register(cmd.Flags())
	return cmd
}
