package store

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/stefanpenner/quest/pkg/goal"
	"github.com/stefanpenner/quest/pkg/logging"
	"github.com/stefanpenner/quest/pkg/registry"
)

// Store reads and writes the goal save file inside a data directory.
type Store struct {
	Root string // e.g., ~/.local/share/quest
	File string // file name under Root, e.g. goals.txt

	log *slog.Logger
}

// NewStore creates a Store rooted at the given directory, creating the
// directory if it doesn't exist. An empty file name means DefaultFile.
func NewStore(root, file string, log *slog.Logger) (*Store, error) {
	if err := os.MkdirAll(root, 0755); err != nil {
		return nil, fmt.Errorf("creating data directory: %w", err)
	}
	if file == "" {
		file = DefaultFile
	}
	if log == nil {
		log = logging.Discard()
	}
	return &Store{Root: root, File: file, log: log}, nil
}

// Path returns the absolute path of the save file.
func (s *Store) Path() string {
	if filepath.IsAbs(s.File) {
		return s.File
	}
	return filepath.Join(s.Root, s.File)
}

// Exists reports whether the save file is present.
func (s *Store) Exists() bool {
	_, err := os.Stat(s.Path())
	return err == nil
}

// ReadLines returns the save file's lines without their terminators. A
// missing file yields no lines and no error.
func (s *Store) ReadLines() ([]string, error) {
	data, err := os.ReadFile(s.Path())
	if os.IsNotExist(err) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", s.File, err)
	}
	return splitLines(string(data)), nil
}

// splitLines splits on "\n", dropping a trailing "\r" from each line and the
// empty element after a final newline.
func splitLines(content string) []string {
	content = strings.TrimSuffix(content, "\n")
	if content == "" {
		return []string{}
	}
	lines := strings.Split(content, "\n")
	for i, line := range lines {
		lines[i] = strings.TrimSuffix(line, "\r")
	}
	return lines
}

// WriteLines replaces the save file with lines, each newline-terminated.
// The write goes to a temporary file first so a failure never truncates
// the previous save.
func (s *Store) WriteLines(lines []string) error {
	tmp, err := os.CreateTemp(filepath.Dir(s.Path()), "."+filepath.Base(s.File)+".*")
	if err != nil {
		return fmt.Errorf("creating temp file: %w", err)
	}
	defer os.Remove(tmp.Name())

	var b strings.Builder
	for _, line := range lines {
		b.WriteString(line)
		b.WriteString("\n")
	}
	if _, err := tmp.WriteString(b.String()); err != nil {
		tmp.Close()
		return fmt.Errorf("writing %s: %w", s.File, err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("writing %s: %w", s.File, err)
	}
	if err := os.Rename(tmp.Name(), s.Path()); err != nil {
		return fmt.Errorf("replacing %s: %w", s.File, err)
	}
	return nil
}

// Load fills reg from the save file. A missing file means no prior data:
// reg is reset and nil is returned. A malformed file leaves reg unchanged.
func (s *Store) Load(ctx context.Context, reg *registry.Registry) error {
	lines, err := s.ReadLines()
	if err != nil {
		return err
	}
	if lines == nil && !s.Exists() {
		s.log.DebugContext(ctx, "no save file, starting empty", "path", s.Path())
		reg.Reset()
		return nil
	}
	if err := reg.Load(lines); err != nil {
		s.log.WarnContext(ctx, "save file rejected", "path", s.Path(), "error", err)
		return fmt.Errorf("loading %s: %w", s.Path(), err)
	}
	s.log.DebugContext(ctx, "loaded goals", "path", s.Path(), "goals", reg.Len(), "total", reg.TotalScore())
	return nil
}

// Save writes reg to the save file. It refuses, leaving the file untouched,
// when a goal name could not be read back.
func (s *Store) Save(ctx context.Context, reg *registry.Registry) error {
	for _, g := range reg.Goals() {
		if !goal.NameSavable(g.Name()) {
			return fmt.Errorf("saving %q: %w", g.Name(), goal.ErrUnsavableName)
		}
	}
	if err := s.WriteLines(reg.Save()); err != nil {
		return err
	}
	s.log.DebugContext(ctx, "saved goals", "path", s.Path(), "goals", reg.Len(), "total", reg.TotalScore())
	return nil
}

// IsSaveFile reports whether name refers to this store's save file.
func (s *Store) IsSaveFile(name string) bool {
	return filepath.Clean(name) == filepath.Clean(s.Path()) ||
		strings.EqualFold(filepath.Base(name), filepath.Base(s.File))
}
