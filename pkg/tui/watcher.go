package tui

import (
	"context"
	"path/filepath"
	"sync"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/fsnotify/fsnotify"

	"github.com/stefanpenner/quest/pkg/logging"
	"github.com/stefanpenner/quest/pkg/store"
)

const debounce = 200 * time.Millisecond

// StartWatcher watches the directory holding the save file and calls send
// with SaveFileChangedMsg after it changes. Pass program.Send as send.
func StartWatcher(ctx context.Context, s *store.Store, send func(tea.Msg)) (func(), error) {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}

	// Watch the directory, not the file: atomic saves replace the inode
	dir := filepath.Dir(s.Path())
	if err := watcher.Add(dir); err != nil {
		watcher.Close()
		return nil, err
	}

	log := logging.FromContext(ctx)
	done := make(chan struct{})
	var wg sync.WaitGroup
	wg.Add(1)

	go func() {
		defer wg.Done()
		var debounceTimer *time.Timer

		for {
			select {
			case event, ok := <-watcher.Events:
				if !ok {
					return
				}
				// Temp files from atomic saves don't match
				if !s.IsSaveFile(event.Name) {
					continue
				}
				if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) && !event.Has(fsnotify.Rename) {
					continue
				}

				// Debounce: wait for the last change
				if debounceTimer != nil {
					debounceTimer.Stop()
				}
				debounceTimer = time.AfterFunc(debounce, func() {
					send(SaveFileChangedMsg{})
				})

			case err, ok := <-watcher.Errors:
				if !ok {
					return
				}
				log.DebugContext(ctx, "watcher error", "dir", dir, "error", err)

			case <-done:
				if debounceTimer != nil {
					debounceTimer.Stop()
				}
				return
			}
		}
	}()

	var once sync.Once
	cleanup := func() {
		once.Do(func() {
			close(done)
			wg.Wait()
			watcher.Close()
		})
	}

	return cleanup, nil
}
