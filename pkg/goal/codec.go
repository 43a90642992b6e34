package goal

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// Type tags written before the first ':' of an encoded goal.
const (
	TagSimple    = "SimpleGoal"
	TagEternal   = "EternalGoal"
	TagChecklist = "ChecklistGoal"
)

var ErrFormat = errors.New("malformed goal record")

// FormatError reports a line that could not be decoded into a goal.
type FormatError struct {
	Line   string
	Reason string
}

func (e *FormatError) Error() string {
	if e == nil {
		return ""
	}
	return fmt.Sprintf("%s %q: %s", ErrFormat.Error(), e.Line, e.Reason)
}

func (e *FormatError) Unwrap() error { return ErrFormat }

// ErrUnsavableName marks a goal name the save file cannot carry.
var ErrUnsavableName = errors.New("goal names containing ',' or line breaks cannot be loaded back from the save file")

// NameSavable reports whether name survives Encode then Decode.
func NameSavable(name string) bool {
	return !strings.ContainsAny(name, ",\r\n")
}

func formatErrorf(line, format string, args ...any) error {
	return &FormatError{Line: line, Reason: fmt.Sprintf(format, args...)}
}

// Encode renders g as a single line:
//
//	SimpleGoal:<name>,<points>,<isComplete>
//	EternalGoal:<name>,<points>
//	ChecklistGoal:<name>,<points>,<currentCount>,<targetCount>,<isComplete>
//
// Names are written verbatim; a name containing ',' or a line break will not
// decode. See NameSavable.
func Encode(g Goal) string {
	switch g := g.(type) {
	case *Simple:
		return fmt.Sprintf("%s:%s,%d,%s", TagSimple, g.name, g.points, formatBool(g.complete))
	case *Eternal:
		return fmt.Sprintf("%s:%s,%d", TagEternal, g.name, g.points)
	case *Checklist:
		return fmt.Sprintf("%s:%s,%d,%d,%d,%s", TagChecklist, g.name, g.points, g.current, g.target, formatBool(g.complete))
	default:
		panic(fmt.Sprintf("goal: unsupported goal type %T", g))
	}
}

// Decode parses a line produced by Encode. Any deviation from the layout
// yields a *FormatError; no default goal is ever substituted.
func Decode(line string) (Goal, error) {
	tag, rest, ok := strings.Cut(line, ":")
	if !ok {
		return nil, formatErrorf(line, "missing type tag")
	}
	fields := strings.Split(rest, ",")

	switch tag {
	case TagSimple:
		if len(fields) != 3 {
			return nil, fieldCountError(line, tag, 3, len(fields))
		}
		points, err := parseInt(line, "points", fields[1])
		if err != nil {
			return nil, err
		}
		complete, err := parseBool(line, fields[2])
		if err != nil {
			return nil, err
		}
		g := NewSimple(fields[0], points)
		g.complete = complete
		return g, nil

	case TagEternal:
		if len(fields) != 2 {
			return nil, fieldCountError(line, tag, 2, len(fields))
		}
		points, err := parseInt(line, "points", fields[1])
		if err != nil {
			return nil, err
		}
		return NewEternal(fields[0], points), nil

	case TagChecklist:
		if len(fields) != 5 {
			return nil, fieldCountError(line, tag, 5, len(fields))
		}
		points, err := parseInt(line, "points", fields[1])
		if err != nil {
			return nil, err
		}
		current, err := parseInt(line, "current count", fields[2])
		if err != nil {
			return nil, err
		}
		target, err := parseInt(line, "target count", fields[3])
		if err != nil {
			return nil, err
		}
		complete, err := parseBool(line, fields[4])
		if err != nil {
			return nil, err
		}
		g, err := NewChecklist(fields[0], points, target)
		if err != nil {
			return nil, formatErrorf(line, "%v", err)
		}
		if current < 0 || current > target {
			return nil, formatErrorf(line, "current count %d outside 0..%d", current, target)
		}
		if complete != (current == target) {
			return nil, formatErrorf(line, "completion flag %s disagrees with count %d/%d", formatBool(complete), current, target)
		}
		g.current = current
		g.complete = complete
		return g, nil

	default:
		return nil, formatErrorf(line, "unrecognized type tag %q", tag)
	}
}

func fieldCountError(line, tag string, want, got int) error {
	return formatErrorf(line, "%s expects %d fields, got %d", tag, want, got)
}

func parseInt(line, field, s string) (int, error) {
	n, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil {
		return 0, formatErrorf(line, "%s %q is not an integer", field, s)
	}
	return n, nil
}

func parseBool(line, s string) (bool, error) {
	b, err := strconv.ParseBool(strings.ToLower(strings.TrimSpace(s)))
	if err != nil {
		return false, formatErrorf(line, "completion flag %q is not a boolean", s)
	}
	return b, nil
}

func formatBool(b bool) string {
	if b {
		return "True"
	}
	return "False"
}
