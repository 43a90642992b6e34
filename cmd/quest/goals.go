package main

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"

	"github.com/stefanpenner/quest/pkg/config"
	"github.com/stefanpenner/quest/pkg/goal"
	"github.com/stefanpenner/quest/pkg/registry"
	"github.com/stefanpenner/quest/pkg/store"
)

func newAddCmd(a *app) *cobra.Command {
	var points, target int

	cmd := &cobra.Command{
		Use:   "add <simple|eternal|checklist> <name>",
		Short: "Create a goal",
		Example: `  quest add simple "Run a marathon" --points 1000
  quest add eternal "Read scriptures" --points 100
  quest add checklist "Attend the temple" --points 50 --target 10`,
		Args: func(cmd *cobra.Command, args []string) error {
			if len(args) < 2 {
				return errors.New("kind and name are required")
			}
			return nil
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			kind, err := goal.ParseKind(args[0])
			if err != nil {
				return err
			}
			if kind == goal.KindChecklist && !cmd.Flags().Changed("target") {
				return errors.New("checklist goals need --target")
			}

			g, err := a.reg.CreateGoal(kind, strings.Join(args[1:], " "), points, target)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Created %s goal %q (#%d).\n", g.Kind(), g.Name(), a.reg.Len())
			if !goal.NameSavable(g.Name()) {
				fmt.Fprintf(cmd.ErrOrStderr(), "Warning: %s; not saved.\n", goal.ErrUnsavableName)
				return nil
			}
			return a.commit(cmd.Context(), cmd)
		},
	}

	cmd.Flags().IntVarP(&points, "points", "p", 0, "points awarded per event")
	cmd.Flags().IntVarP(&target, "target", "t", 0, "events needed to finish a checklist goal")

	return cmd
}

func newRecordCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "record <number>",
		Short: "Record an event for a goal",
		Long:  "Record an event for the goal at the given position, as shown by 'quest list'.",
		Args: func(cmd *cobra.Command, args []string) error {
			if len(args) != 1 {
				return errors.New("goal number is required")
			}
			if _, err := strconv.Atoi(args[0]); err != nil {
				return errors.New("goal number must be an integer")
			}
			return nil
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			position, _ := strconv.Atoi(args[0])
			awarded, err := a.reg.RecordEventAt(position)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "You earned %d points! Total Score: %d\n", awarded, a.reg.TotalScore())
			if awarded == 0 {
				return nil
			}
			return a.commit(cmd.Context(), cmd)
		},
	}
}

func newListCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List goals and the total score",
		Example: `  quest list
  quest list -o table
  quest list -o json`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			w := cmd.OutOrStdout()
			switch a.cfg.Output {
			case config.OutputTable:
				renderTable(w, a.reg)
				return nil
			case config.OutputJSON, config.OutputYAML:
				return writeSnapshot(w, a.reg, a.cfg.Output)
			default:
				for _, line := range a.reg.ListGoals() {
					fmt.Fprintln(w, line)
				}
				return nil
			}
		},
	}
}

func newExportCmd(a *app) *cobra.Command {
	var outFile string

	cmd := &cobra.Command{
		Use:   "export",
		Short: "Export goals as YAML or JSON",
		Long: `Export goals and the total score as a structured document.

The format follows --output; text and table fall back to YAML.
The export is for reading only; 'quest load' understands the save file alone.`,
		Example: `  quest export
  quest export -o json --out goals.json`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			format := a.cfg.Output
			if format != config.OutputJSON {
				format = config.OutputYAML
			}
			if outFile == "" {
				return writeSnapshot(cmd.OutOrStdout(), a.reg, format)
			}

			data, err := store.MarshalSnapshot(store.NewSnapshot(a.reg), format)
			if err != nil {
				return err
			}
			if err := os.WriteFile(outFile, data, 0644); err != nil {
				return fmt.Errorf("writing export: %w", err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Exported %d goals to %s\n", a.reg.Len(), outFile)
			return nil
		},
	}

	cmd.Flags().StringVar(&outFile, "out", "", "write to a file instead of stdout")

	return cmd
}

func writeSnapshot(w io.Writer, reg *registry.Registry, format string) error {
	data, err := store.MarshalSnapshot(store.NewSnapshot(reg), format)
	if err != nil {
		return err
	}
	_, err = w.Write(data)
	return err
}

func renderTable(w io.Writer, reg *registry.Registry) {
	t := table.NewWriter()
	t.SetOutputMirror(w)
	t.SetStyle(table.StyleLight)
	t.AppendHeader(table.Row{"#", "Kind", "Name", "Points", "Progress", "Done"})

	for i, g := range reg.Goals() {
		progress := "-"
		done := "no"
		switch g := g.(type) {
		case *goal.Eternal:
			progress = "∞"
			done = "never"
		case *goal.Checklist:
			progress = fmt.Sprintf("%d/%d", g.CurrentCount(), g.TargetCount())
		}
		if g.IsComplete() {
			done = "yes"
		}
		t.AppendRow(table.Row{i + 1, g.Kind(), g.Name(), g.Points(), progress, done})
	}

	t.AppendFooter(table.Row{"", "", "Total Score", reg.TotalScore(), "", ""})
	t.Render()
}
