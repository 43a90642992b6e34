package goal

import (
	"errors"
	"fmt"
	"strings"
)

// Points awarded by RecordEvent. These are fixed for every goal.
const (
	SimpleBonus    = 1000
	EternalBonus   = 100
	ChecklistTick  = 50
	ChecklistBonus = 500
)

var (
	ErrUnknownKind   = errors.New("unknown goal kind")
	ErrInvalidTarget = errors.New("target count must be positive")
)

// Kind identifies one of the three goal behaviors.
type Kind string

const (
	KindSimple    Kind = "simple"
	KindEternal   Kind = "eternal"
	KindChecklist Kind = "checklist"
)

// ParseKind matches s against the known kinds, ignoring case and surrounding space.
func ParseKind(s string) (Kind, error) {
	switch k := Kind(strings.ToLower(strings.TrimSpace(s))); k {
	case KindSimple, KindEternal, KindChecklist:
		return k, nil
	default:
		return "", fmt.Errorf("%w: %q (use simple, eternal, or checklist)", ErrUnknownKind, s)
	}
}

// Goal is a trackable objective with a scoring rule and completion state.
// The set of implementations is closed: *Simple, *Eternal and *Checklist.
type Goal interface {
	Name() string
	Points() int
	IsComplete() bool
	Kind() Kind

	// RecordEvent applies the goal's scoring rule and returns the points
	// awarded by this call (0 once the goal can no longer score).
	RecordEvent() int

	// Status renders the goal as a single "[X] name" style line.
	Status() string

	sealed()
}

type base struct {
	name     string
	points   int
	complete bool
}

func (b *base) Name() string     { return b.name }
func (b *base) Points() int      { return b.points }
func (b *base) IsComplete() bool { return b.complete }
func (b *base) sealed()          {}

func (b *base) award(n int) int {
	b.points += n
	return n
}

func marker(complete bool) string {
	if complete {
		return "[X]"
	}
	return "[ ]"
}

// Simple completes on its first recorded event.
type Simple struct{ base }

func NewSimple(name string, points int) *Simple {
	return &Simple{base{name: name, points: points}}
}

func (g *Simple) Kind() Kind { return KindSimple }

func (g *Simple) RecordEvent() int {
	if g.complete {
		return 0
	}
	g.complete = true
	return g.award(SimpleBonus)
}

func (g *Simple) Status() string {
	return marker(g.complete) + " " + g.name
}

// Eternal scores on every event and never completes.
type Eternal struct{ base }

func NewEternal(name string, points int) *Eternal {
	return &Eternal{base{name: name, points: points}}
}

func (g *Eternal) Kind() Kind { return KindEternal }

func (g *Eternal) RecordEvent() int {
	return g.award(EternalBonus)
}

func (g *Eternal) Status() string {
	return marker(false) + " " + g.name + " (eternal)"
}

// Checklist completes after TargetCount events, paying a bonus on the last one.
type Checklist struct {
	base
	current int
	target  int
}

// NewChecklist returns an error wrapping ErrInvalidTarget when target is not positive.
func NewChecklist(name string, points, target int) (*Checklist, error) {
	if target <= 0 {
		return nil, fmt.Errorf("%w: got %d", ErrInvalidTarget, target)
	}
	return &Checklist{base: base{name: name, points: points}, target: target}, nil
}

func (g *Checklist) Kind() Kind        { return KindChecklist }
func (g *Checklist) CurrentCount() int { return g.current }
func (g *Checklist) TargetCount() int  { return g.target }

func (g *Checklist) RecordEvent() int {
	if g.complete || g.current >= g.target {
		return 0
	}
	g.current++
	awarded := ChecklistTick
	if g.current == g.target {
		awarded += ChecklistBonus
		g.complete = true
	}
	return g.award(awarded)
}

func (g *Checklist) Status() string {
	return fmt.Sprintf("%s %s (Completed %d/%d times)", marker(g.complete), g.name, g.current, g.target)
}
