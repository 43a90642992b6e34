// Package sync keeps the quest data directory in a git repository and
// synchronizes it with a remote.
package sync

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"time"

	"github.com/stefanpenner/quest/pkg/logging"
)

var ErrNotRepo = errors.New("not a git repository")

// Repo runs git against one data directory.
type Repo struct {
	Dir string
	Out io.Writer // progress and git output; nil discards

	log *slog.Logger
}

// NewRepo returns a Repo for dir logging through the logger in ctx.
func NewRepo(ctx context.Context, dir string, out io.Writer) *Repo {
	if out == nil {
		out = io.Discard
	}
	return &Repo{Dir: dir, Out: out, log: logging.FromContext(ctx)}
}

func (r *Repo) git(ctx context.Context, args ...string) *exec.Cmd {
	cmd := exec.CommandContext(ctx, "git", append([]string{"-C", r.Dir}, args...)...)
	cmd.Stdout = r.Out
	cmd.Stderr = r.Out
	return cmd
}

func (r *Repo) run(ctx context.Context, args ...string) error {
	r.log.DebugContext(ctx, "git", "dir", r.Dir, "args", strings.Join(args, " "))
	return r.git(ctx, args...).Run()
}

// IsRepo reports whether Dir is the root of a git repository.
func (r *Repo) IsRepo() bool {
	_, err := os.Stat(filepath.Join(r.Dir, ".git"))
	return err == nil
}

// Init makes Dir a git repository if it isn't one and, when remote is
// non-empty, points origin at it.
func (r *Repo) Init(ctx context.Context, remote string) error {
	if !r.IsRepo() {
		if err := r.run(ctx, "init"); err != nil {
			return fmt.Errorf("git init: %w", err)
		}
		fmt.Fprintf(r.Out, "Initialized git repository in %s\n", r.Dir)
	}

	if remote == "" {
		fmt.Fprintln(r.Out, "No remote specified. Use --remote <url> to set one.")
		return nil
	}

	// Remove existing origin first (ignore error if doesn't exist)
	_ = r.git(ctx, "remote", "remove", "origin").Run()

	if err := r.run(ctx, "remote", "add", "origin", remote); err != nil {
		return fmt.Errorf("setting remote: %w", err)
	}
	fmt.Fprintf(r.Out, "Remote set to: %s\n", remote)
	return nil
}

// Commit stages everything and commits it. It reports whether a commit
// was made; a clean tree is not an error.
func (r *Repo) Commit(ctx context.Context, now time.Time) (bool, error) {
	if !r.IsRepo() {
		return false, fmt.Errorf("%w: run 'quest init' first", ErrNotRepo)
	}
	if err := r.run(ctx, "add", "-A"); err != nil {
		return false, fmt.Errorf("staging changes: %w", err)
	}
	if err := r.git(ctx, "diff", "--cached", "--quiet").Run(); err == nil {
		return false, nil
	}
	msg := "sync " + now.Format("2006-01-02 15:04:05")
	if err := r.run(ctx, "commit", "-m", msg); err != nil {
		return false, fmt.Errorf("committing: %w", err)
	}
	return true, nil
}

// HasRemote reports whether origin is configured.
func (r *Repo) HasRemote(ctx context.Context) bool {
	var buf bytes.Buffer
	cmd := exec.CommandContext(ctx, "git", "-C", r.Dir, "remote")
	cmd.Stdout = &buf
	if err := cmd.Run(); err != nil {
		return false
	}
	for _, name := range strings.Fields(buf.String()) {
		if name == "origin" {
			return true
		}
	}
	return false
}

// Sync commits local changes, rebases onto the remote (falling back to a
// merge) and pushes. Without a remote it only commits.
func (r *Repo) Sync(ctx context.Context) error {
	fmt.Fprintln(r.Out, "Staging changes...")
	if _, err := r.Commit(ctx, time.Now()); err != nil {
		return err
	}

	if !r.HasRemote(ctx) {
		fmt.Fprintln(r.Out, "No remote configured; committed locally.")
		return nil
	}

	fmt.Fprintln(r.Out, "Pulling...")
	if err := r.run(ctx, "pull", "--rebase"); err != nil {
		fmt.Fprintln(r.Out, "Rebase failed, trying merge...")
		_ = r.git(ctx, "rebase", "--abort").Run()

		if err := r.run(ctx, "pull", "--no-rebase"); err != nil {
			_ = r.git(ctx, "merge", "--abort").Run()
			r.log.WarnContext(ctx, "sync could not integrate remote changes", "dir", r.Dir, "error", err)
			return fmt.Errorf("sync failed: could not rebase or merge. Resolve conflicts manually")
		}
	}

	fmt.Fprintln(r.Out, "Pushing...")
	if err := r.run(ctx, "push"); err != nil {
		return fmt.Errorf("push failed: %w", err)
	}

	fmt.Fprintln(r.Out, "Sync complete.")
	return nil
}
