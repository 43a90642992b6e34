package main

import (
	"github.com/spf13/cobra"

	gsync "github.com/stefanpenner/quest/pkg/sync"
)

func newInitCmd(a *app) *cobra.Command {
	var remote string

	cmd := &cobra.Command{
		Use:         "init",
		Short:       "Make the data directory a git repository",
		Example:     `  quest init --remote git@github.com:me/quest-data.git`,
		Args:        cobra.NoArgs,
		Annotations: map[string]string{skipLoad: "true"},
		RunE: func(cmd *cobra.Command, _ []string) error {
			repo := gsync.NewRepo(cmd.Context(), a.cfg.DataDir, cmd.OutOrStdout())
			return repo.Init(cmd.Context(), remote)
		},
	}

	cmd.Flags().StringVar(&remote, "remote", "", "URL to set as origin")

	return cmd
}

func newSyncCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:         "sync",
		Short:       "Commit the data directory and sync it with origin",
		Args:        cobra.NoArgs,
		Annotations: map[string]string{skipLoad: "true"},
		RunE: func(cmd *cobra.Command, _ []string) error {
			repo := gsync.NewRepo(cmd.Context(), a.cfg.DataDir, cmd.OutOrStdout())
			return repo.Sync(cmd.Context())
		},
	}
}
