// Package registry owns the ordered goal collection and the aggregate score.
//
// A Registry assumes a single caller. Anything that shares one across
// goroutines must serialize access itself.
package registry

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/stefanpenner/quest/pkg/goal"
)

var ErrInput = errors.New("invalid input")

// InputError is a recoverable validation failure. The operation that
// returned it left the registry unchanged.
type InputError struct {
	Msg string
	Err error
}

func (e *InputError) Error() string {
	if e == nil {
		return ""
	}
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", ErrInput.Error(), e.Msg, e.Err)
	}
	return fmt.Sprintf("%s: %s", ErrInput.Error(), e.Msg)
}

func (e *InputError) Unwrap() []error {
	if e.Err != nil {
		return []error{ErrInput, e.Err}
	}
	return []error{ErrInput}
}

func inputErrorf(cause error, format string, args ...any) error {
	return &InputError{Msg: fmt.Sprintf(format, args...), Err: cause}
}

// Registry is an ordered set of goals plus the running total of every
// point amount awarded by recorded events.
type Registry struct {
	goals      []goal.Goal
	totalScore int
}

// New returns an empty registry.
func New() *Registry {
	return &Registry{}
}

func (r *Registry) Len() int        { return len(r.goals) }
func (r *Registry) TotalScore() int { return r.totalScore }

// Goals returns the goals in registry order. The slice is a copy.
func (r *Registry) Goals() []goal.Goal {
	out := make([]goal.Goal, len(r.goals))
	copy(out, r.goals)
	return out
}

// Goal returns the goal at the 0-based index.
func (r *Registry) Goal(index int) (goal.Goal, error) {
	if index < 0 || index >= len(r.goals) {
		return nil, r.indexError(index)
	}
	return r.goals[index], nil
}

// CreateGoal appends a new goal. target is only consulted for checklists
// and must be positive there.
func (r *Registry) CreateGoal(kind goal.Kind, name string, points, target int) (goal.Goal, error) {
	var g goal.Goal
	switch kind {
	case goal.KindSimple:
		g = goal.NewSimple(name, points)
	case goal.KindEternal:
		g = goal.NewEternal(name, points)
	case goal.KindChecklist:
		c, err := goal.NewChecklist(name, points, target)
		if err != nil {
			return nil, inputErrorf(err, "checklist %q", name)
		}
		g = c
	default:
		return nil, inputErrorf(goal.ErrUnknownKind, "%q", kind)
	}
	r.goals = append(r.goals, g)
	return g, nil
}

// CreateGoalFromInput parses raw text as a menu would collect it. target is
// ignored unless kind names a checklist.
func (r *Registry) CreateGoalFromInput(kind, name, points, target string) (goal.Goal, error) {
	k, err := goal.ParseKind(kind)
	if err != nil {
		return nil, inputErrorf(err, "goal type")
	}
	p, err := strconv.Atoi(strings.TrimSpace(points))
	if err != nil {
		return nil, inputErrorf(nil, "points %q must be a whole number", points)
	}
	t := 0
	if k == goal.KindChecklist {
		t, err = strconv.Atoi(strings.TrimSpace(target))
		if err != nil {
			return nil, inputErrorf(nil, "target count %q must be a whole number", target)
		}
	}
	return r.CreateGoal(k, name, p, t)
}

// RecordEvent records one event against the goal at the 0-based index and
// adds whatever it awarded to the total score.
func (r *Registry) RecordEvent(index int) (int, error) {
	if index < 0 || index >= len(r.goals) {
		return 0, r.indexError(index)
	}
	awarded := r.goals[index].RecordEvent()
	r.totalScore += awarded
	return awarded, nil
}

// RecordEventAt is RecordEvent for the 1-based positions shown by ListGoals.
func (r *Registry) RecordEventAt(position int) (int, error) {
	if position < 1 || position > len(r.goals) {
		return 0, inputErrorf(nil, "goal number %d out of range (have %d)", position, len(r.goals))
	}
	return r.RecordEvent(position - 1)
}

func (r *Registry) indexError(index int) error {
	return inputErrorf(nil, "goal index %d out of range (have %d)", index, len(r.goals))
}

// ListGoals returns one numbered status line per goal followed by the total.
func (r *Registry) ListGoals() []string {
	lines := make([]string, 0, len(r.goals)+1)
	for i, g := range r.goals {
		lines = append(lines, fmt.Sprintf("%d. %s", i+1, g.Status()))
	}
	return append(lines, fmt.Sprintf("Total Score: %d", r.totalScore))
}

// Save returns the persisted form: one encoded line per goal, then the total.
func (r *Registry) Save() []string {
	lines := make([]string, 0, len(r.goals)+1)
	for _, g := range r.goals {
		lines = append(lines, goal.Encode(g))
	}
	return append(lines, strconv.Itoa(r.totalScore))
}

// Load replaces the registry contents with the goals and total read from
// lines. Integer lines set the total (the last one wins); blank lines are
// skipped; anything else must decode as a goal. On error the registry is
// left exactly as it was.
func (r *Registry) Load(lines []string) error {
	var goals []goal.Goal
	total := 0
	for i, line := range lines {
		trimmed := strings.TrimSpace(line)
		if trimmed == "" {
			continue
		}
		if n, err := strconv.Atoi(trimmed); err == nil {
			total = n
			continue
		}
		g, err := goal.Decode(strings.TrimRight(line, "\r"))
		if err != nil {
			return fmt.Errorf("line %d: %w", i+1, err)
		}
		goals = append(goals, g)
	}
	r.goals = goals
	r.totalScore = total
	return nil
}

// Reset discards all goals and the total score.
func (r *Registry) Reset() {
	r.goals = nil
	r.totalScore = 0
}
