// Package menu runs the numbered, line-oriented goal menu over any reader
// and writer pair.
package menu

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/stefanpenner/quest/pkg/goal"
	"github.com/stefanpenner/quest/pkg/logging"
	"github.com/stefanpenner/quest/pkg/registry"
)

// Persister moves a registry to and from durable storage.
type Persister interface {
	Load(ctx context.Context, reg *registry.Registry) error
	Save(ctx context.Context, reg *registry.Registry) error
}

// Menu choices as typed by the user.
const (
	ChoiceCreate = "1"
	ChoiceRecord = "2"
	ChoiceList   = "3"
	ChoiceSave   = "4"
	ChoiceQuit   = "5"
	ChoiceLoad   = "6"
)

// Session drives one interactive run against a registry.
type Session struct {
	reg   *registry.Registry
	store Persister
	in    *bufio.Scanner
	out   io.Writer

	// readErr is the first read failure other than end of input.
	readErr error
}

// maxLine bounds one line of menu input.
const maxLine = 1 << 20

// NewSession wires a session. store may be nil, in which case save and load
// report that persistence is unavailable.
func NewSession(reg *registry.Registry, store Persister, in io.Reader, out io.Writer) *Session {
	sc := bufio.NewScanner(in)
	sc.Buffer(make([]byte, 0, 64*1024), maxLine)
	return &Session{
		reg:   reg,
		store: store,
		in:    sc,
		out:   out,
	}
}

var errEOF = errors.New("end of input")

// Run shows the menu until the user quits, input ends, or ctx is done.
// Bad input is reported to the user and never ends the session. A failure
// reading input ends it with that error.
func (s *Session) Run(ctx context.Context) error {
	log := logging.FromContext(ctx)
	for {
		if err := ctx.Err(); err != nil {
			return err
		}
		s.printMenu()
		choice, err := s.readLine()
		if err != nil {
			return s.readErr
		}

		switch strings.TrimSpace(choice) {
		case ChoiceCreate:
			err = s.create()
		case ChoiceRecord:
			err = s.record()
		case ChoiceList:
			s.list()
		case ChoiceSave:
			s.save(ctx)
		case ChoiceLoad:
			s.load(ctx)
		case ChoiceQuit:
			return nil
		default:
			s.printf("Invalid choice %q. Enter a number from 1 to 6.\n", choice)
		}
		if errors.Is(err, errEOF) {
			return s.readErr
		}
		if err != nil {
			log.DebugContext(ctx, "menu input rejected", "choice", choice, "error", err)
			s.printf("Error: %v\n", err)
		}
	}
}

func (s *Session) printMenu() {
	s.printf("\nEternal Quest Program\n")
	s.printf("1. Create Goal\n")
	s.printf("2. Record Event\n")
	s.printf("3. List Goals\n")
	s.printf("4. Save Goals\n")
	s.printf("5. Quit\n")
	s.printf("6. Load Goals\n")
	s.printf("Select an option: ")
}

func (s *Session) create() error {
	kind, err := s.prompt("Enter goal type (Simple, Eternal, Checklist): ")
	if err != nil {
		return err
	}
	name, err := s.prompt("Enter goal name: ")
	if err != nil {
		return err
	}
	points, err := s.prompt("Enter goal points: ")
	if err != nil {
		return err
	}
	target := ""
	if strings.EqualFold(strings.TrimSpace(kind), "checklist") {
		if target, err = s.prompt("Enter target count: "); err != nil {
			return err
		}
	}

	g, err := s.reg.CreateGoalFromInput(kind, name, points, target)
	if err != nil {
		return err
	}
	s.printf("Created %s goal %q.\n", g.Kind(), g.Name())
	if !goal.NameSavable(g.Name()) {
		s.printf("Warning: %s\n", goal.ErrUnsavableName)
	}
	return nil
}

func (s *Session) record() error {
	s.list()
	raw, err := s.prompt("Enter goal number to record: ")
	if err != nil {
		return err
	}
	position, err := strconv.Atoi(strings.TrimSpace(raw))
	if err != nil {
		return &registry.InputError{Msg: fmt.Sprintf("goal number %q must be a whole number", raw)}
	}
	awarded, err := s.reg.RecordEventAt(position)
	if err != nil {
		return err
	}
	s.printf("You earned %d points! Total Score: %d\n", awarded, s.reg.TotalScore())
	return nil
}

func (s *Session) list() {
	s.printf("Goals:\n")
	for _, line := range s.reg.ListGoals() {
		s.printf("%s\n", line)
	}
}

func (s *Session) save(ctx context.Context) {
	if s.store == nil {
		s.printf("Saving is not available.\n")
		return
	}
	if err := s.store.Save(ctx, s.reg); err != nil {
		s.printf("Save failed: %v\n", err)
		return
	}
	s.printf("Saved %d goals.\n", s.reg.Len())
}

func (s *Session) load(ctx context.Context) {
	if s.store == nil {
		s.printf("Loading is not available.\n")
		return
	}
	if err := s.store.Load(ctx, s.reg); err != nil {
		s.printf("Load failed: %v\n", err)
		return
	}
	s.printf("Loaded %d goals. Total Score: %d\n", s.reg.Len(), s.reg.TotalScore())
}

func (s *Session) prompt(text string) (string, error) {
	s.printf("%s", text)
	return s.readLine()
}

func (s *Session) readLine() (string, error) {
	if !s.in.Scan() {
		if err := s.in.Err(); err != nil && s.readErr == nil {
			s.readErr = fmt.Errorf("reading input: %w", err)
		}
		return "", errEOF
	}
	return s.in.Text(), nil
}

func (s *Session) printf(format string, args ...any) {
	fmt.Fprintf(s.out, format, args...)
}
