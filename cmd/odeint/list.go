package main

import (
	"fmt"
	"sort"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/san-kum/odeint/internal/config"
	"github.com/san-kum/odeint/internal/experiment"
	"github.com/san-kum/odeint/internal/physics"
)

func (a *app) steppersCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "steppers",
		Short: "list stepping methods",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			reg := experiment.NewRegistry()
			w := tabwriter.NewWriter(a.out, 0, 0, 2, ' ', 0)
			fmt.Fprintln(w, "NAME\tORDER\tERROR ORDER\tSTAGES\tCATEGORY")
			for _, name := range reg.ListMethods() {
				m, err := reg.GetMethod(name)
				if err != nil {
					return err
				}
				order, errOrder, stages := "-", "-", "-"
				if m.Tableau != nil {
					order = fmt.Sprint(m.Tableau.Order)
					stages = fmt.Sprint(m.Tableau.Stages())
					if m.Embedded() {
						errOrder = fmt.Sprint(m.Tableau.ErrorOrder)
					}
				}
				fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\n", name, order, errOrder, stages, m.Category)
			}
			return w.Flush()
		},
	}
}

func (a *app) systemsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "systems",
		Short: "list built-in systems",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			w := tabwriter.NewWriter(a.out, 0, 0, 2, ' ', 0)
			fmt.Fprintln(w, "NAME\tDIM\tENERGY\tPARAMS")
			for _, name := range physics.Names() {
				m, err := physics.New(name)
				if err != nil {
					return err
				}
				_, energy := m.(physics.Hamiltonian)
				fmt.Fprintf(w, "%s\t%d\t%t\t%s\n", name, m.Dim(), energy, formatParams(m.Params()))
			}
			return w.Flush()
		},
	}
}

func formatParams(p map[string]float64) string {
	keys := make([]string, 0, len(p))
	for k := range p {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	parts := make([]string, len(keys))
	for i, k := range keys {
		parts[i] = fmt.Sprintf("%s=%g", k, p[k])
	}
	return strings.Join(parts, " ")
}

func (a *app) presetsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "presets [system]",
		Short: "list available presets",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			systems := physics.Names()
			if len(args) == 1 {
				systems = args[:1]
			}
			found := false
			for _, system := range systems {
				names := config.ListPresets(system)
				if len(names) == 0 {
					continue
				}
				found = true
				fmt.Fprintf(a.out, "presets for %s:\n", system)
				for _, name := range names {
					p := config.GetPreset(system, name)
					mode := "fixed"
					if p.Adaptive {
						mode = "adaptive"
					}
					fmt.Fprintf(a.out, "  %-12s %s, dt=%g, time=%g, %s\n", name, p.Method, p.Dt, p.Duration, mode)
				}
			}
			if !found {
				fmt.Fprintf(a.out, "no presets for: %s\n", strings.Join(systems, ", "))
			}
			return nil
		},
	}
}
