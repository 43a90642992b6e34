package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/stefanpenner/quest/pkg/menu"
)

func newSaveCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "save",
		Short: "Rewrite the save file from the loaded goals",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if err := a.store.Save(cmd.Context(), a.reg); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Saved %d goals to %s\n", a.reg.Len(), a.store.Path())
			return nil
		},
	}
}

func newLoadCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "load",
		Short: "Check that the save file loads",
		Long:  "Load the save file and report what it holds. A file that fails to parse is reported with its line number.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if !a.store.Exists() {
				fmt.Fprintf(cmd.OutOrStdout(), "No save file at %s; starting empty.\n", a.store.Path())
				return nil
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Loaded %d goals from %s. Total Score: %d\n",
				a.reg.Len(), a.store.Path(), a.reg.TotalScore())
			return nil
		},
	}
}

func newMenuCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "menu",
		Short: "Run the numbered text menu",
		Long: `Run the line-oriented menu on stdin and stdout.

Changes are written only when you choose "Save Goals".`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			s := menu.NewSession(a.reg, a.store, cmd.InOrStdin(), cmd.OutOrStdout())
			return s.Run(cmd.Context())
		},
	}
}
