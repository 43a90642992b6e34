package main

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	"github.com/stefanpenner/quest/pkg/goal"
	"github.com/stefanpenner/quest/pkg/store"
)

func clearEnv(t *testing.T) {
	t.Helper()
	for _, key := range []string{"QUEST_DIR", "QUEST_DATA_DIR", "QUEST_FILE", "QUEST_VERBOSE", "QUEST_OUTPUT", "QUEST_AUTOSAVE"} {
		t.Setenv(key, "")
		os.Unsetenv(key)
	}
}

// quest runs one command against dir and returns stdout and stderr.
func quest(t *testing.T, dir string, stdin string, args ...string) (string, string, error) {
	t.Helper()
	var stdout, stderr bytes.Buffer
	cmd := newRootCmd()
	cmd.SetArgs(append([]string{"--dir", dir}, args...))
	cmd.SetIn(strings.NewReader(stdin))
	cmd.SetOut(&stdout)
	cmd.SetErr(&stderr)
	err := cmd.Execute()
	return stdout.String(), stderr.String(), err
}

func mustQuest(t *testing.T, dir string, args ...string) string {
	t.Helper()
	out, _, err := quest(t, dir, "", args...)
	require.NoError(t, err)
	return out
}

func TestAddRecordList(t *testing.T) {
	clearEnv(t)
	dir := t.TempDir()

	out := mustQuest(t, dir, "add", "simple", "Run a", "marathon", "--points", "1000")
	assert.Contains(t, out, `Created simple goal "Run a marathon" (#1).`)
	mustQuest(t, dir, "add", "eternal", "Read scriptures", "-p", "100")
	mustQuest(t, dir, "add", "checklist", "Temple", "-p", "50", "-t", "2")

	out = mustQuest(t, dir, "record", "1")
	assert.Equal(t, "You earned 1000 points! Total Score: 1000\n", out)
	mustQuest(t, dir, "record", "2")
	mustQuest(t, dir, "record", "3")
	out = mustQuest(t, dir, "record", "3")
	assert.Equal(t, "You earned 550 points! Total Score: 1700\n", out)

	out = mustQuest(t, dir, "list")
	assert.Equal(t, strings.Join([]string{
		"1. [X] Run a marathon",
		"2. [ ] Read scriptures (eternal)",
		"3. [X] Temple (Completed 2/2 times)",
		"Total Score: 1700",
	}, "\n")+"\n", out)

	data, err := os.ReadFile(filepath.Join(dir, store.DefaultFile))
	require.NoError(t, err)
	assert.Equal(t, "SimpleGoal:Run a marathon,2000,True\n"+
		"EternalGoal:Read scriptures,200\n"+
		"ChecklistGoal:Temple,650,2,2,True\n"+
		"1700\n", string(data))
}

func TestAddRejectsBadInput(t *testing.T) {
	clearEnv(t)
	dir := t.TempDir()

	_, _, err := quest(t, dir, "", "add", "weekly", "Laundry")
	assert.ErrorIs(t, err, goal.ErrUnknownKind)

	_, _, err = quest(t, dir, "", "add", "checklist", "Gym", "-p", "10")
	assert.ErrorContains(t, err, "--target")

	_, _, err = quest(t, dir, "", "add", "checklist", "Gym", "-p", "10", "-t", "0")
	assert.ErrorIs(t, err, goal.ErrInvalidTarget)

	_, _, err = quest(t, dir, "", "add", "simple")
	assert.ErrorContains(t, err, "name are required")

	assert.NoFileExists(t, filepath.Join(dir, store.DefaultFile))
}

func TestAddWarnsAboutUnsavableName(t *testing.T) {
	clearEnv(t)
	dir := t.TempDir()
	mustQuest(t, dir, "add", "eternal", "Pray", "-p", "5")
	path := filepath.Join(dir, store.DefaultFile)
	before, err := os.ReadFile(path)
	require.NoError(t, err)

	out, stderr, err := quest(t, dir, "", "add", "simple", "a,b")
	require.NoError(t, err)
	assert.Contains(t, out, `Created simple goal "a,b"`)
	assert.Contains(t, stderr, "Warning: goal names containing ','")
	assert.Contains(t, stderr, "not saved")

	after, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, before, after)

	out = mustQuest(t, dir, "list")
	assert.Contains(t, out, "1. [ ] Pray (eternal)")
	assert.NotContains(t, out, "a,b")
}

func TestRecordRejectsBadPosition(t *testing.T) {
	clearEnv(t)
	dir := t.TempDir()
	mustQuest(t, dir, "add", "simple", "Once")

	_, _, err := quest(t, dir, "", "record", "2")
	assert.ErrorContains(t, err, "out of range")

	_, _, err = quest(t, dir, "", "record", "first")
	assert.ErrorContains(t, err, "must be an integer")
}

func TestAutosaveOff(t *testing.T) {
	clearEnv(t)
	dir := t.TempDir()

	_, stderr, err := quest(t, dir, "", "--autosave=false", "add", "simple", "Ephemeral")
	require.NoError(t, err)
	assert.Contains(t, stderr, "Autosave is off")
	assert.NoFileExists(t, filepath.Join(dir, store.DefaultFile))
}

func TestListFormats(t *testing.T) {
	clearEnv(t)
	dir := t.TempDir()
	mustQuest(t, dir, "add", "checklist", "Gym", "-p", "50", "-t", "3")
	mustQuest(t, dir, "record", "1")

	out := mustQuest(t, dir, "list", "-o", "table")
	assert.Contains(t, out, "Gym")
	assert.Contains(t, out, "1/3")
	assert.Contains(t, out, "Total Score")

	out = mustQuest(t, dir, "list", "-o", "json")
	var snap store.Snapshot
	require.NoError(t, json.Unmarshal([]byte(out), &snap))
	assert.Equal(t, 50, snap.TotalScore)
	require.Len(t, snap.Goals, 1)
	assert.Equal(t, 1, *snap.Goals[0].CurrentCount)

	out = mustQuest(t, dir, "export")
	require.NoError(t, yaml.Unmarshal([]byte(out), &snap))
	assert.Equal(t, "Gym", snap.Goals[0].Name)

	target := filepath.Join(t.TempDir(), "goals.json")
	out = mustQuest(t, dir, "export", "-o", "json", "--out", target)
	assert.Contains(t, out, "Exported 1 goals")
	assert.FileExists(t, target)
}

func TestInvalidOutputFormat(t *testing.T) {
	clearEnv(t)
	_, _, err := quest(t, t.TempDir(), "", "list", "-o", "xml")
	assert.ErrorContains(t, err, "invalid output")
}

func TestLoadAndSave(t *testing.T) {
	clearEnv(t)
	dir := t.TempDir()

	out := mustQuest(t, dir, "load")
	assert.Contains(t, out, "No save file")

	// Blank lines and a trailing newline are fine; save normalizes them
	path := filepath.Join(dir, store.DefaultFile)
	require.NoError(t, os.WriteFile(path, []byte("EternalGoal:Pray,5\n\n105\n\n"), 0644))
	out = mustQuest(t, dir, "load")
	assert.Contains(t, out, "Loaded 1 goals")
	assert.Contains(t, out, "Total Score: 105")

	out = mustQuest(t, dir, "save")
	assert.Contains(t, out, "Saved 1 goals")
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "EternalGoal:Pray,5\n105\n", string(data))
}

func TestCorruptSaveFileFailsCommands(t *testing.T) {
	clearEnv(t)
	dir := t.TempDir()
	path := filepath.Join(dir, store.DefaultFile)
	require.NoError(t, os.WriteFile(path, []byte("SimpleGoal:x,1,False\nWeeklyGoal:y,2\n0\n"), 0644))

	_, _, err := quest(t, dir, "", "load")
	assert.ErrorIs(t, err, goal.ErrFormat)
	assert.ErrorContains(t, err, "line 2")

	_, _, err = quest(t, dir, "", "add", "simple", "New")
	require.Error(t, err)

	// The file is left alone
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "WeeklyGoal")
}

func TestMenuCommand(t *testing.T) {
	clearEnv(t)
	dir := t.TempDir()
	mustQuest(t, dir, "add", "eternal", "Pray", "-p", "5")

	out, _, err := quest(t, dir, "2\n1\n4\n5\n", "menu")
	require.NoError(t, err)
	assert.Contains(t, out, "Eternal Quest Program")
	assert.Contains(t, out, "You earned 100 points! Total Score: 100")
	assert.Contains(t, out, "Saved 1 goals.")

	out = mustQuest(t, dir, "list")
	assert.Contains(t, out, "Total Score: 100")
}

func TestConfigFileInDataDir(t *testing.T) {
	clearEnv(t)
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "quest.yaml"), []byte("file: quest.txt\noutput: json\n"), 0644))

	mustQuest(t, dir, "add", "simple", "Configured")
	assert.FileExists(t, filepath.Join(dir, "quest.txt"))

	out := mustQuest(t, dir, "list")
	assert.True(t, strings.HasPrefix(strings.TrimSpace(out), "{"), "output %q", out)
}

func TestUnknownCommand(t *testing.T) {
	clearEnv(t)
	_, _, err := quest(t, t.TempDir(), "", "frobnicate")
	assert.Error(t, err)
}
