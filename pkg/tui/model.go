package tui

import (
	"context"
	"fmt"
	"slices"
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/glamour"

	"github.com/stefanpenner/quest/pkg/goal"
	"github.com/stefanpenner/quest/pkg/logging"
	"github.com/stefanpenner/quest/pkg/registry"
)

// Persister loads and saves the registry. *store.Store satisfies it.
type Persister interface {
	Load(ctx context.Context, reg *registry.Registry) error
	Save(ctx context.Context, reg *registry.Registry) error
}

// SaveFileChangedMsg is sent when the watcher sees the save file change.
type SaveFileChangedMsg struct{}

// Steps of the create-goal form.
const (
	stepKind = iota
	stepName
	stepPoints
	stepTarget
)

// Model is the Bubble Tea model for the goal menu.
type Model struct {
	ctx      context.Context
	reg      *registry.Registry
	store    Persister
	autosave bool
	keys     KeyMap
	width    int
	height   int
	cursor   int
	dirty    bool

	showHelpModal bool

	// Create form
	isInputMode bool
	formStep    int
	formKind    goal.Kind
	formName    string
	formPoints  string
	textInput   textinput.Model

	statusMsg     string
	statusIsError bool
	statusTimeout time.Time

	// Cached glamour renderer (expensive to create)
	glamourRenderer *glamour.TermRenderer
	glamourWidth    int
}

// NewModel creates a TUI over reg. When autosave is set every change is
// written through store immediately.
func NewModel(ctx context.Context, reg *registry.Registry, store Persister, autosave bool) Model {
	ti := textinput.New()
	ti.CharLimit = 64

	return Model{
		ctx:       ctx,
		reg:       reg,
		store:     store,
		autosave:  autosave,
		keys:      DefaultKeyMap(),
		textInput: ti,
	}
}

// Init implements tea.Model.
func (m Model) Init() tea.Cmd {
	return tea.WindowSize()
}

// Update implements tea.Model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.getGlamourRenderer(m.detailWidth())
		return m, tea.ClearScreen

	case SaveFileChangedMsg:
		if m.matchesDisk() {
			return m, nil
		}
		if m.dirty {
			m.setStatus("Save file changed on disk; press L to load it")
			return m, nil
		}
		m.load()
		return m, nil

	case tea.KeyMsg:
		return m.handleKeyMsg(msg)
	}

	if m.isInputMode {
		var cmd tea.Cmd
		m.textInput, cmd = m.textInput.Update(msg)
		return m, cmd
	}
	return m, nil
}

func (m Model) handleKeyMsg(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if m.isInputMode {
		return m.handleInputMode(msg)
	}

	if m.showHelpModal {
		switch msg.String() {
		case "esc", "enter", "?", "q":
			m.showHelpModal = false
		}
		return m, nil
	}

	switch {
	case key.Matches(msg, m.keys.Quit):
		return m, tea.Quit

	case key.Matches(msg, m.keys.Up):
		if m.cursor > 0 {
			m.cursor--
		}

	case key.Matches(msg, m.keys.Down):
		if m.cursor < m.reg.Len()-1 {
			m.cursor++
		}

	case key.Matches(msg, m.keys.Record):
		m.recordSelected()

	case key.Matches(msg, m.keys.Add):
		return m, m.startForm()

	case key.Matches(msg, m.keys.Save):
		if m.save() {
			m.setStatus(fmt.Sprintf("Saved %d goals", m.reg.Len()))
		}

	case key.Matches(msg, m.keys.Reload):
		m.load()

	case key.Matches(msg, m.keys.Help):
		m.showHelpModal = !m.showHelpModal
	}

	return m, nil
}

// handleInputMode advances the create form one field per Enter.
func (m Model) handleInputMode(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.Type {
	case tea.KeyEsc:
		m.isInputMode = false
		m.setStatus("Create cancelled")
		return m, nil
	case tea.KeyEnter:
		return m.submitField()
	default:
		var cmd tea.Cmd
		m.textInput, cmd = m.textInput.Update(msg)
		return m, cmd
	}
}

func (m *Model) startForm() tea.Cmd {
	m.isInputMode = true
	m.formStep = stepKind
	m.formKind = ""
	m.formName = ""
	m.formPoints = ""
	m.resetInput("simple | eternal | checklist")
	return textinput.Blink
}

func (m *Model) resetInput(placeholder string) {
	m.textInput.Reset()
	m.textInput.Placeholder = placeholder
	m.textInput.Focus()
}

func (m Model) submitField() (tea.Model, tea.Cmd) {
	value := m.textInput.Value()

	switch m.formStep {
	case stepKind:
		k, err := goal.ParseKind(value)
		if err != nil {
			m.setError(err)
			return m, nil
		}
		m.formKind = k
		m.formStep = stepName
		m.resetInput("goal name")

	case stepName:
		if strings.TrimSpace(value) == "" {
			m.setError(fmt.Errorf("goal name is required"))
			return m, nil
		}
		m.formName = value
		m.formStep = stepPoints
		m.resetInput("points")

	case stepPoints:
		if _, err := strconv.Atoi(strings.TrimSpace(value)); err != nil {
			m.setError(fmt.Errorf("points %q must be a whole number", value))
			return m, nil
		}
		m.formPoints = value
		if m.formKind == goal.KindChecklist {
			m.formStep = stepTarget
			m.resetInput("target count")
			return m, nil
		}
		m.finishForm("")

	case stepTarget:
		m.finishForm(value)
	}
	return m, nil
}

func (m *Model) finishForm(target string) {
	g, err := m.reg.CreateGoalFromInput(string(m.formKind), m.formName, m.formPoints, target)
	if err != nil {
		// Stay on the failing field so the user can correct it
		m.setError(err)
		return
	}
	m.isInputMode = false
	m.cursor = m.reg.Len() - 1
	if !goal.NameSavable(g.Name()) {
		m.dirty = true
		m.setError(fmt.Errorf("created %s goal %s, but %w", g.Kind(), g.Name(), goal.ErrUnsavableName))
		return
	}
	m.setStatus(fmt.Sprintf("Created %s goal: %s", g.Kind(), g.Name()))
	m.markChanged()
}

func (m *Model) recordSelected() {
	if m.reg.Len() == 0 {
		m.setStatus("No goals yet. Press 'a' to create one.")
		return
	}
	awarded, err := m.reg.RecordEvent(m.cursor)
	if err != nil {
		m.setError(err)
		return
	}
	if awarded == 0 {
		m.setStatus("Already complete, no points awarded")
		return
	}
	m.setStatus(fmt.Sprintf("+%d points!", awarded))
	m.markChanged()
}

func (m *Model) markChanged() {
	m.dirty = true
	if m.autosave {
		m.save()
	}
}

func (m *Model) save() bool {
	if m.store == nil {
		m.setStatus("Saving is not available")
		return false
	}
	if err := m.store.Save(m.ctx, m.reg); err != nil {
		m.setError(fmt.Errorf("save failed: %w", err))
		return false
	}
	m.dirty = false
	return true
}

// lineReader is implemented by stores that can expose the raw save file.
type lineReader interface {
	ReadLines() ([]string, error)
}

// matchesDisk reports whether the save file already holds the registry,
// as it does right after our own save.
func (m Model) matchesDisk() bool {
	lr, ok := m.store.(lineReader)
	if !ok {
		return false
	}
	lines, err := lr.ReadLines()
	if err != nil {
		return false
	}
	return slices.Equal(lines, m.reg.Save())
}

func (m *Model) load() {
	if m.store == nil {
		return
	}
	if err := m.store.Load(m.ctx, m.reg); err != nil {
		m.setError(fmt.Errorf("load failed: %w", err))
		return
	}
	m.dirty = false
	if m.cursor >= m.reg.Len() {
		m.cursor = m.reg.Len() - 1
	}
	if m.cursor < 0 {
		m.cursor = 0
	}
	m.setStatus(fmt.Sprintf("Loaded %d goals", m.reg.Len()))
}

// getGlamourRenderer returns a cached glamour renderer, creating one if needed
// or if the width changed.
func (m *Model) getGlamourRenderer(width int) *glamour.TermRenderer {
	if m.glamourRenderer != nil && m.glamourWidth == width {
		return m.glamourRenderer
	}
	r, err := glamour.NewTermRenderer(
		glamour.WithStylePath("dark"),
		glamour.WithWordWrap(width),
	)
	if err != nil {
		logging.FromContext(m.ctx).DebugContext(m.ctx, "glamour renderer unavailable", "error", err)
		return nil
	}
	m.glamourRenderer = r
	m.glamourWidth = width
	return r
}

func (m *Model) setStatus(msg string) {
	m.statusMsg = msg
	m.statusIsError = false
	m.statusTimeout = time.Now().Add(3 * time.Second)
}

func (m *Model) setError(err error) {
	logging.FromContext(m.ctx).DebugContext(m.ctx, "tui error", "error", err)
	m.statusMsg = err.Error()
	m.statusIsError = true
	m.statusTimeout = time.Now().Add(5 * time.Second)
}

// Dirty reports whether there are changes that have not been saved.
func (m Model) Dirty() bool { return m.dirty }
