package main

import (
	"context"
	"fmt"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/stefanpenner/quest/pkg/tui"
)

func (a *app) runTUI(ctx context.Context) error {
	m := tui.NewModel(ctx, a.reg, a.store, a.cfg.Autosave)
	p := tea.NewProgram(m, tea.WithAltScreen(), tea.WithContext(ctx))

	cleanup, err := tui.StartWatcher(ctx, a.store, p.Send)
	if err != nil {
		a.log.WarnContext(ctx, "file watcher failed", "error", err)
	} else {
		defer cleanup()
	}

	final, err := p.Run()
	if err != nil {
		return fmt.Errorf("running TUI: %w", err)
	}
	if fm, ok := final.(tui.Model); ok && fm.Dirty() {
		a.log.WarnContext(ctx, "quit with unsaved changes", "path", a.store.Path())
	}
	return nil
}
