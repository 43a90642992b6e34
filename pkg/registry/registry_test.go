package registry

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/stefanpenner/quest/pkg/goal"
)

func TestCreateGoal(t *testing.T) {
	r := New()

	g, err := r.CreateGoal(goal.KindSimple, "Marathon", 0, 0)
	require.NoError(t, err)
	assert.Equal(t, "Marathon", g.Name())
	assert.False(t, g.IsComplete())

	_, err = r.CreateGoal(goal.KindEternal, "Pray", 0, 0)
	require.NoError(t, err)

	c, err := r.CreateGoal(goal.KindChecklist, "Gym", 10, 5)
	require.NoError(t, err)
	assert.Equal(t, 0, c.(*goal.Checklist).CurrentCount())
	assert.Equal(t, 5, c.(*goal.Checklist).TargetCount())

	assert.Equal(t, 3, r.Len())
	assert.Equal(t, 0, r.TotalScore())
}

func TestCreateChecklistRejectsBadTarget(t *testing.T) {
	r := New()

	_, err := r.CreateGoal(goal.KindChecklist, "Gym", 0, 0)
	assert.ErrorIs(t, err, ErrInput)
	assert.ErrorIs(t, err, goal.ErrInvalidTarget)
	assert.Equal(t, 0, r.Len())
}

func TestCreateGoalFromInput(t *testing.T) {
	tests := []struct {
		name    string
		kind    string
		points  string
		target  string
		wantErr bool
	}{
		{name: "simple", kind: "Simple", points: "10"},
		{name: "eternal upper", kind: "ETERNAL", points: " 5 "},
		{name: "checklist", kind: "checklist", points: "0", target: "3"},
		{name: "target ignored for simple", kind: "simple", points: "0", target: "abc"},
		{name: "unknown kind", kind: "weekly", points: "0", wantErr: true},
		{name: "non-numeric points", kind: "simple", points: "ten", wantErr: true},
		{name: "non-numeric target", kind: "checklist", points: "0", target: "x", wantErr: true},
		{name: "negative target", kind: "checklist", points: "0", target: "-2", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := New()
			_, err := r.CreateGoalFromInput(tt.kind, "goal", tt.points, tt.target)
			if tt.wantErr {
				assert.ErrorIs(t, err, ErrInput)
				assert.Equal(t, 0, r.Len())
				return
			}
			require.NoError(t, err)
			assert.Equal(t, 1, r.Len())
		})
	}
}

func TestTotalScoreAccumulatesAwards(t *testing.T) {
	r := New()

	_, err := r.CreateGoal(goal.KindSimple, "Marathon", 0, 0)
	require.NoError(t, err)
	awarded, err := r.RecordEvent(0)
	require.NoError(t, err)
	assert.Equal(t, 1000, awarded)
	assert.Equal(t, 1000, r.TotalScore())

	_, err = r.CreateGoal(goal.KindChecklist, "Gym", 0, 2)
	require.NoError(t, err)
	_, err = r.RecordEvent(1)
	require.NoError(t, err)
	awarded, err = r.RecordEvent(1)
	require.NoError(t, err)
	assert.Equal(t, 550, awarded)
	assert.Equal(t, 1600, r.TotalScore())

	// Completed goals add nothing
	_, err = r.RecordEvent(0)
	require.NoError(t, err)
	assert.Equal(t, 1600, r.TotalScore())
}

func TestTotalScoreIgnoresInitialPoints(t *testing.T) {
	r := New()
	_, err := r.CreateGoal(goal.KindEternal, "Pray", 500, 0)
	require.NoError(t, err)

	_, err = r.RecordEvent(0)
	require.NoError(t, err)
	_, err = r.RecordEvent(0)
	require.NoError(t, err)
	assert.Equal(t, 200, r.TotalScore())
	assert.Equal(t, 700, r.Goals()[0].Points())
}

func TestRecordEventOutOfRange(t *testing.T) {
	r := New()
	_, err := r.CreateGoal(goal.KindEternal, "Pray", 0, 0)
	require.NoError(t, err)
	before := r.Save()

	for _, idx := range []int{-1, 1, 42} {
		awarded, err := r.RecordEvent(idx)
		assert.ErrorIs(t, err, ErrInput)
		assert.Equal(t, 0, awarded)
	}
	assert.Equal(t, before, r.Save())
	assert.Equal(t, 0, r.TotalScore())
}

func TestRecordEventAt(t *testing.T) {
	r := New()
	_, err := r.CreateGoal(goal.KindEternal, "Pray", 0, 0)
	require.NoError(t, err)

	awarded, err := r.RecordEventAt(1)
	require.NoError(t, err)
	assert.Equal(t, 100, awarded)

	_, err = r.RecordEventAt(0)
	assert.ErrorIs(t, err, ErrInput)
	_, err = r.RecordEventAt(2)
	assert.ErrorIs(t, err, ErrInput)
	assert.Equal(t, 100, r.TotalScore())
}

func TestListGoals(t *testing.T) {
	r := New()
	assert.Equal(t, []string{"Total Score: 0"}, r.ListGoals())

	_, err := r.CreateGoal(goal.KindSimple, "Marathon", 0, 0)
	require.NoError(t, err)
	_, err = r.CreateGoal(goal.KindEternal, "Pray", 0, 0)
	require.NoError(t, err)
	_, err = r.CreateGoal(goal.KindChecklist, "Gym", 0, 3)
	require.NoError(t, err)
	_, err = r.RecordEvent(0)
	require.NoError(t, err)
	_, err = r.RecordEvent(2)
	require.NoError(t, err)

	assert.Equal(t, []string{
		"1. [X] Marathon",
		"2. [ ] Pray (eternal)",
		"3. [ ] Gym (Completed 1/3 times)",
		"Total Score: 1050",
	}, r.ListGoals())
}

func TestSave(t *testing.T) {
	r := New()
	assert.Equal(t, []string{"0"}, r.Save())

	_, err := r.CreateGoal(goal.KindSimple, "Marathon", 0, 0)
	require.NoError(t, err)
	_, err = r.CreateGoal(goal.KindChecklist, "Gym", 0, 2)
	require.NoError(t, err)
	_, err = r.RecordEvent(1)
	require.NoError(t, err)

	lines := r.Save()
	assert.Len(t, lines, r.Len()+1)
	assert.Equal(t, []string{
		"SimpleGoal:Marathon,0,False",
		"ChecklistGoal:Gym,50,1,2,False",
		"50",
	}, lines)
}

func TestSaveLoadRoundTrip(t *testing.T) {
	r := New()
	_, err := r.CreateGoal(goal.KindSimple, "Marathon", 0, 0)
	require.NoError(t, err)
	_, err = r.CreateGoal(goal.KindEternal, "Pray", 3, 0)
	require.NoError(t, err)
	_, err = r.CreateGoal(goal.KindChecklist, "Gym", 0, 2)
	require.NoError(t, err)
	for _, idx := range []int{0, 1, 1, 2, 2} {
		_, err := r.RecordEvent(idx)
		require.NoError(t, err)
	}

	loaded := New()
	require.NoError(t, loaded.Load(r.Save()))

	assert.Equal(t, r.Goals(), loaded.Goals())
	assert.Equal(t, r.TotalScore(), loaded.TotalScore())
	assert.Equal(t, r.ListGoals(), loaded.ListGoals())
}

func TestLoadReplacesState(t *testing.T) {
	r := New()
	_, err := r.CreateGoal(goal.KindEternal, "Old", 0, 0)
	require.NoError(t, err)
	_, err = r.RecordEvent(0)
	require.NoError(t, err)

	require.NoError(t, r.Load([]string{"SimpleGoal:New,0,False", "7", ""}))
	require.Equal(t, 1, r.Len())
	assert.Equal(t, "New", r.Goals()[0].Name())
	assert.Equal(t, 7, r.TotalScore())
}

func TestLoadWithoutTotalLine(t *testing.T) {
	r := New()
	require.NoError(t, r.Load([]string{"EternalGoal:Pray,100"}))
	assert.Equal(t, 1, r.Len())
	assert.Equal(t, 0, r.TotalScore())
}

func TestLoadUnrecognizedTag(t *testing.T) {
	r := New()
	_, err := r.CreateGoal(goal.KindSimple, "Keep", 0, 0)
	require.NoError(t, err)
	_, err = r.RecordEvent(0)
	require.NoError(t, err)
	before := r.Save()

	err = r.Load([]string{"EternalGoal:Pray,100", "WeirdGoal:x,1", "100"})
	require.ErrorIs(t, err, goal.ErrFormat)
	assert.Contains(t, err.Error(), "line 2")

	// Nothing from the failed load is visible
	assert.Equal(t, before, r.Save())
	assert.Equal(t, 1, r.Len())
	assert.Equal(t, 1000, r.TotalScore())
}

func TestLoadRejectsGarbage(t *testing.T) {
	r := New()
	err := r.Load([]string{"hello world"})
	assert.ErrorIs(t, err, goal.ErrFormat)
	assert.Equal(t, 0, r.Len())
}

func TestLoadPreservesOrder(t *testing.T) {
	lines := []string{
		"ChecklistGoal:C,0,0,2,False",
		"SimpleGoal:A,0,False",
		"EternalGoal:B,0",
		"0",
	}
	r := New()
	require.NoError(t, r.Load(lines))

	var names []string
	for _, g := range r.Goals() {
		names = append(names, g.Name())
	}
	assert.Equal(t, []string{"C", "A", "B"}, names)
	assert.Equal(t, lines, r.Save())
}

func TestReset(t *testing.T) {
	r := New()
	_, err := r.CreateGoal(goal.KindEternal, "Pray", 0, 0)
	require.NoError(t, err)
	_, err = r.RecordEvent(0)
	require.NoError(t, err)

	r.Reset()
	assert.Equal(t, 0, r.Len())
	assert.Equal(t, 0, r.TotalScore())
}
