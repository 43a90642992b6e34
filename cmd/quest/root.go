package main

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/stefanpenner/quest/pkg/config"
	"github.com/stefanpenner/quest/pkg/logging"
	"github.com/stefanpenner/quest/pkg/registry"
	"github.com/stefanpenner/quest/pkg/store"
)

// Version is reported by --version.
var Version = "0.1.0"

// skipLoad marks commands that must not read the save file first.
const skipLoad = "skip-load"

// app is the state shared by every command of one invocation.
type app struct {
	cfgFile string

	cfg   *config.Config
	log   *slog.Logger
	store *store.Store
	reg   *registry.Registry
}

func newRootCmd() *cobra.Command {
	a := &app{}

	rootCmd := &cobra.Command{
		Use:   "quest",
		Short: "Eternal Quest - track goals and earn points",
		Long: `Eternal Quest keeps a list of goals and a running score.

Simple goals pay out once, eternal goals pay every time and never finish,
and checklist goals pay per event plus a bonus when the target is reached.

Run without a command to open the interactive TUI.`,
		Version: Version,
		Args:    cobra.NoArgs,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			if cmd.Name() == "help" || cmd.Name() == "completion" || cmd.Name() == "__complete" {
				return nil
			}
			return a.setup(cmd)
		},
		RunE: func(cmd *cobra.Command, _ []string) error {
			return a.runTUI(cmd.Context())
		},
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	rootCmd.SetVersionTemplate("{{.Name}} v{{.Version}}\n")

	flags := rootCmd.PersistentFlags()
	flags.StringVar(&a.cfgFile, "config", "", "config file (default: <data dir>/"+config.FileName+")")
	flags.String("dir", "", "data directory (env QUEST_DIR)")
	flags.String("file", "", "save file name inside the data directory (default "+store.DefaultFile+")")
	flags.BoolP("verbose", "v", false, "verbose logging")
	flags.StringP("output", "o", "", "output format (text|table|json|yaml)")
	flags.Bool("autosave", true, "save after every change")

	_ = rootCmd.RegisterFlagCompletionFunc("output", func(_ *cobra.Command, _ []string, _ string) ([]string, cobra.ShellCompDirective) {
		return []string{config.OutputText, config.OutputTable, config.OutputJSON, config.OutputYAML}, cobra.ShellCompDirectiveNoFileComp
	})

	rootCmd.AddCommand(
		newAddCmd(a),
		newRecordCmd(a),
		newListCmd(a),
		newSaveCmd(a),
		newLoadCmd(a),
		newExportCmd(a),
		newMenuCmd(a),
		newInitCmd(a),
		newSyncCmd(a),
	)

	return rootCmd
}

// setup resolves configuration, installs the logger and opens the store.
// Unless the command opts out, the save file is loaded so every command
// starts from what is on disk.
func (a *app) setup(cmd *cobra.Command) error {
	cfg, err := config.Load(a.cfgFile, cmd.Root().PersistentFlags())
	if err != nil {
		return err
	}
	a.cfg = cfg

	a.log = logging.New(cmd.ErrOrStderr(), cfg.Verbose)
	ctx := logging.WithLogger(cmd.Context(), a.log)
	cmd.SetContext(ctx)

	if cfg.ConfigFile != "" {
		a.log.DebugContext(ctx, "using config file", "path", cfg.ConfigFile)
	}

	a.store, err = store.NewStore(cfg.DataDir, cfg.File, a.log)
	if err != nil {
		return err
	}

	a.reg = registry.New()
	if cmd.Annotations[skipLoad] == "true" {
		return nil
	}
	return a.store.Load(ctx, a.reg)
}

// commit persists the registry after a mutation when autosave is on.
func (a *app) commit(ctx context.Context, cmd *cobra.Command) error {
	if !a.cfg.Autosave {
		fmt.Fprintln(cmd.ErrOrStderr(), "Autosave is off; change not saved.")
		return nil
	}
	return a.store.Save(ctx, a.reg)
}
