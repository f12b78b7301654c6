package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/san-kum/odeint/internal/storage"
	"github.com/san-kum/odeint/internal/viz"
)

func (a *app) runsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "runs",
		Short: "list stored runs",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			st, err := a.store(nil)
			if err != nil {
				return err
			}
			runs, err := st.List()
			if err != nil {
				return err
			}
			if len(runs) == 0 {
				fmt.Fprintln(a.out, "no runs found")
				return nil
			}

			w := tabwriter.NewWriter(a.out, 0, 0, 2, ' ', 0)
			fmt.Fprintln(w, "ID\tSYSTEM\tMETHOD\tTIME\tDURATION\tDT\tSTEPS\tREJECTED")
			for _, run := range runs {
				dt := fmt.Sprintf("%.4g", run.Dt)
				if run.Adaptive {
					dt += "*"
				}
				fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%.4gs\t%s\t%d\t%d\n",
					run.ID,
					run.System,
					run.Method,
					run.Timestamp.Format("2006-01-02 15:04:05"),
					run.Duration,
					dt,
					run.Steps,
					run.Rejected,
				)
			}
			return w.Flush()
		},
	}
	cmd.AddCommand(&cobra.Command{
		Use:   "delete [run_id]...",
		Short: "delete stored runs",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			st, err := a.store(nil)
			if err != nil {
				return err
			}
			for _, id := range args {
				if err := st.Delete(id); err != nil {
					return err
				}
				fmt.Fprintf(a.out, "deleted %s\n", id)
			}
			return nil
		},
	})
	return cmd
}

func (a *app) plotCmd() *cobra.Command {
	var (
		components []int
		opts       viz.PlotOptions
	)
	cmd := &cobra.Command{
		Use:   "plot [run_id]",
		Short: "plot run results",
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
			if len(run.States) == 0 {
				return fmt.Errorf("no data to plot")
			}

			if len(components) == 0 {
				for i := 0; i < min(len(run.States[0]), 6); i++ {
					components = append(components, i)
				}
			}
			for _, c := range components {
				if c < 0 || c >= len(run.States[0]) {
					return fmt.Errorf("component %d out of range, state has %d", c, len(run.States[0]))
				}
			}

			fmt.Fprintf(a.out, "run: %s\n", run.Meta.ID)
			fmt.Fprintf(a.out, "system: %s (%s)\n", run.Meta.System, run.Meta.Method)
			fmt.Fprintf(a.out, "samples: %d\n\n", len(run.States))
			fmt.Fprint(a.out, viz.Plot(run.Times, run.States, components, opts))
			return nil
		},
	}
	cmd.Flags().IntSliceVar(&components, "components", nil, "state components to plot (default first six)")
	cmd.Flags().IntVar(&opts.Width, "width", 80, "chart width")
	cmd.Flags().IntVar(&opts.Height, "height", 10, "chart height")
	return cmd
}

func (a *app) exportCmd() *cobra.Command {
	var (
		format, output string
		axes           []int
	)
	cmd := &cobra.Command{
		Use:   "export [run_id]",
		Short: "export run data",
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

			if output == "" || output == "-" {
				return export(a.out, format, run, axes)
			}
			f, err := os.Create(output)
			if err != nil {
				return err
			}
			if err := export(f, format, run, axes); err != nil {
				f.Close()
				return err
			}
			return f.Close()
		},
	}
	cmd.Flags().StringVar(&format, "format", "json", "output format: json, csv, meta or svg")
	cmd.Flags().IntSliceVar(&axes, "axes", []int{0, 1}, "state components drawn by svg as x,y")
	cmd.Flags().StringVarP(&output, "output", "o", "", "output file (default stdout)")
	return cmd
}

func export(w io.Writer, format string, run *storage.Run, axes []int) error {
	switch format {
	case "json":
		return storage.ExportJSON(w, run)
	case "csv":
		return storage.WriteCSV(w, run.Times, run.States)
	case "meta":
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(run.Meta)
	case "svg":
		if len(axes) != 2 {
			return fmt.Errorf("--axes needs two components, got %d", len(axes))
		}
		xs, ys := viz.Column(run.States, axes[0]), viz.Column(run.States, axes[1])
		if len(run.States) > 0 && len(run.States[0]) == 1 {
			xs, ys = run.Times, viz.Column(run.States, 0)
		}
		return viz.WriteSVG(w, xs, ys, viz.SVGOptions{})
	}
	return fmt.Errorf("unknown export format %q: want json, csv, meta or svg", format)
}
