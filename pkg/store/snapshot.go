package store

import (
	"encoding/json"
	"fmt"

	"gopkg.in/yaml.v3"

	"github.com/stefanpenner/quest/pkg/goal"
	"github.com/stefanpenner/quest/pkg/registry"
)

// GoalRecord is the structured view of one goal used by exports.
type GoalRecord struct {
	Position     int       `yaml:"position" json:"position"`
	Kind         goal.Kind `yaml:"kind" json:"kind"`
	Name         string    `yaml:"name" json:"name"`
	Points       int       `yaml:"points" json:"points"`
	Complete     bool      `yaml:"complete" json:"complete"`
	CurrentCount *int      `yaml:"current_count,omitempty" json:"current_count,omitempty"`
	TargetCount  *int      `yaml:"target_count,omitempty" json:"target_count,omitempty"`
	Status       string    `yaml:"status" json:"status"`
}

// Snapshot is a registry rendered for humans and other tools. It is
// write-only; the save file remains the only format Load understands.
type Snapshot struct {
	TotalScore int          `yaml:"total_score" json:"total_score"`
	Goals      []GoalRecord `yaml:"goals" json:"goals"`
}

// NewSnapshot captures the current state of reg.
func NewSnapshot(reg *registry.Registry) Snapshot {
	snap := Snapshot{TotalScore: reg.TotalScore(), Goals: []GoalRecord{}}
	for i, g := range reg.Goals() {
		rec := GoalRecord{
			Position: i + 1,
			Kind:     g.Kind(),
			Name:     g.Name(),
			Points:   g.Points(),
			Complete: g.IsComplete(),
			Status:   g.Status(),
		}
		if c, ok := g.(*goal.Checklist); ok {
			cur, target := c.CurrentCount(), c.TargetCount()
			rec.CurrentCount = &cur
			rec.TargetCount = &target
		}
		snap.Goals = append(snap.Goals, rec)
	}
	return snap
}

// MarshalSnapshot renders snap as "yaml" or "json".
func MarshalSnapshot(snap Snapshot, format string) ([]byte, error) {
	switch format {
	case "yaml":
		out, err := yaml.Marshal(snap)
		if err != nil {
			return nil, fmt.Errorf("serializing snapshot YAML: %w", err)
		}
		return out, nil
	case "json":
		out, err := json.MarshalIndent(snap, "", "  ")
		if err != nil {
			return nil, fmt.Errorf("serializing snapshot JSON: %w", err)
		}
		return append(out, '\n'), nil
	default:
		return nil, fmt.Errorf("unsupported snapshot format %q (use yaml or json)", format)
	}
}
