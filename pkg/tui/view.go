package tui

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"

	"github.com/stefanpenner/quest/pkg/goal"
)

const minWidth = 40
const minHeight = 10

// View implements tea.Model.
func (m Model) View() string {
	w := m.width
	h := m.height
	if w < minWidth {
		w = minWidth
	}
	if h < minHeight {
		h = minHeight
	}

	if m.showHelpModal {
		return placeOverlay(m.renderHelpModal(), w, h)
	}

	var b strings.Builder

	b.WriteString(m.renderHeader(w))
	b.WriteString("\n")
	b.WriteString(strings.Repeat("─", w))
	b.WriteString("\n")

	headerLines := 2
	footerLines := 2
	if m.isInputMode {
		footerLines++
	}
	contentHeight := h - headerLines - footerLines

	leftWidth := m.listWidth(w)
	rightWidth := w - leftWidth - 1
	if rightWidth < 20 {
		rightWidth = 20
	}

	leftPanel := m.renderGoalList(leftWidth, contentHeight)
	rightPanel := m.renderDetailPanel(rightWidth, contentHeight)

	sep := lipgloss.NewStyle().Foreground(ColorGrayDim).Render("│")
	for i := 0; i < contentHeight; i++ {
		b.WriteString(getLine(leftPanel, i, leftWidth))
		b.WriteString(sep)
		b.WriteString(getLine(rightPanel, i, rightWidth))
		b.WriteString("\n")
	}

	if m.isInputMode {
		b.WriteString(m.renderForm())
		b.WriteString("\n")
	}

	b.WriteString(strings.Repeat("─", w))
	b.WriteString("\n")
	b.WriteString(m.renderFooter(w))

	return b.String()
}

func (m Model) listWidth(total int) int {
	lw := total * 2 / 5
	if lw < 24 {
		lw = 24
	}
	return lw
}

// detailWidth is the word-wrap width handed to glamour.
func (m Model) detailWidth() int {
	w := m.width
	if w < minWidth {
		w = minWidth
	}
	dw := w - m.listWidth(w) - 1
	if dw < 20 {
		dw = 20
	}
	return dw
}

func (m Model) renderHeader(width int) string {
	title := HeaderStyle.Render("Eternal Quest")

	score := ScoreStyle.Render(fmt.Sprintf("Total Score: %d", m.reg.TotalScore()))
	if m.dirty {
		score = DirtyStyle.Render("● ") + score
	}

	status := ""
	if m.statusMsg != "" && time.Now().Before(m.statusTimeout) {
		style := lipgloss.NewStyle().Foreground(ColorCyan)
		if m.statusIsError {
			style = ErrorStyle
		}
		status = style.Render(m.statusMsg) + "  "
	}

	gap := width - lipgloss.Width(title) - lipgloss.Width(score) - lipgloss.Width(status)
	if gap < 1 {
		gap = 1
	}
	return title + strings.Repeat(" ", gap) + status + score
}

func (m Model) renderGoalList(width, height int) string {
	goals := m.reg.Goals()
	if len(goals) == 0 {
		return FooterStyle.Render("No goals yet. Press 'a' to create one.")
	}

	// Scrolling window
	start := 0
	end := len(goals)
	if len(goals) > height {
		start = m.cursor - height/2
		if start < 0 {
			start = 0
		}
		end = start + height
		if end > len(goals) {
			end = len(goals)
			start = end - height
		}
	}

	lines := make([]string, 0, end-start)
	for i := start; i < end; i++ {
		lines = append(lines, renderGoalRow(i+1, goals[i], i == m.cursor, width))
	}
	return strings.Join(lines, "\n")
}

func goalIcon(g goal.Goal) string {
	switch {
	case g.IsComplete():
		return CompleteStyle.Render(IconComplete)
	case g.Kind() == goal.KindEternal:
		return EternalStyle.Render(IconEternal)
	default:
		return IncompleteStyle.Render(IconIncomplete)
	}
}

func renderGoalRow(position int, g goal.Goal, selected bool, width int) string {
	label := g.Name()
	if c, ok := g.(*goal.Checklist); ok {
		label = fmt.Sprintf("%s %d/%d", label, c.CurrentCount(), c.TargetCount())
	}
	line := fmt.Sprintf("%2d. ", position) + goalIcon(g) + " " + label

	if lw := lipgloss.Width(line); lw < width {
		line += strings.Repeat(" ", width-lw)
	}
	if selected {
		line = SelectedStyle.Render(line)
	}
	return line
}

func (m Model) renderDetailPanel(width, height int) string {
	g, err := m.reg.Goal(m.cursor)
	if err != nil {
		return FooterStyle.Render(" Select a goal to view details")
	}

	md := goalMarkdown(g)
	rendered := md
	if m.glamourRenderer != nil {
		if out, err := m.glamourRenderer.Render(md); err == nil {
			rendered = out
		}
	}

	lines := strings.Split(strings.TrimRight(rendered, "\n "), "\n")
	if len(lines) > height {
		lines = lines[:height]
	}
	return strings.Join(lines, "\n")
}

// goalMarkdown describes one goal for the detail pane.
func goalMarkdown(g goal.Goal) string {
	var md strings.Builder

	md.WriteString("# " + escapeMarkdown(g.Name()) + "\n\n")
	fmt.Fprintf(&md, "**Kind:** %s | **Points:** %d\n\n", g.Kind(), g.Points())

	switch g := g.(type) {
	case *goal.Simple:
		if g.IsComplete() {
			md.WriteString("Completed.\n")
		} else {
			fmt.Fprintf(&md, "Completing it awards %d points.\n", goal.SimpleBonus)
		}
	case *goal.Eternal:
		fmt.Fprintf(&md, "Never completes. Each event awards %d points.\n", goal.EternalBonus)
	case *goal.Checklist:
		fmt.Fprintf(&md, "Progress: **%d/%d**\n\n", g.CurrentCount(), g.TargetCount())
		if g.IsComplete() {
			md.WriteString("Completed.\n")
		} else {
			fmt.Fprintf(&md, "- each event: %d points\n", goal.ChecklistTick)
			fmt.Fprintf(&md, "- on reaching the target: %d bonus\n", goal.ChecklistBonus)
		}
	}
	return md.String()
}

var markdownEscaper = strings.NewReplacer(
	`\`, `\\`, "`", "\\`", "*", `\*`, "_", `\_`,
	"[", `\[`, "]", `\]`, "(", `\(`, ")", `\)`,
	"#", `\#`, "+", `\+`, "-", `\-`, "!", `\!`,
	"|", `\|`, "<", `\<`, ">", `\>`, "~", `\~`,
)

// escapeMarkdown makes user text render literally inside markdown.
func escapeMarkdown(s string) string {
	return markdownEscaper.Replace(s)
}

func (m Model) renderForm() string {
	var label string
	switch m.formStep {
	case stepKind:
		label = "Goal type"
	case stepName:
		label = "Name"
	case stepPoints:
		label = "Points"
	case stepTarget:
		label = "Target count"
	}
	return InputPromptStyle.Render("> "+label+": ") + m.textInput.View()
}

func (m Model) renderFooter(width int) string {
	help := m.keys.ShortHelp()
	if m.isInputMode {
		help = "enter confirm  esc cancel"
	}
	return FooterStyle.MaxWidth(width).Render(help)
}

func (m Model) renderHelpModal() string {
	var b strings.Builder

	b.WriteString(ModalTitleStyle.Render("Keyboard Shortcuts"))
	b.WriteString("\n\n")

	keyStyle := lipgloss.NewStyle().Foreground(ColorBlue).Width(16)
	descStyle := lipgloss.NewStyle().Foreground(ColorWhite)

	for _, binding := range m.keys.FullHelp() {
		b.WriteString(keyStyle.Render(binding[0]))
		b.WriteString(descStyle.Render(binding[1]))
		b.WriteString("\n")
	}

	b.WriteString("\n")
	b.WriteString(FooterStyle.Render("Press Esc or ? to close"))

	return ModalStyle.Render(b.String())
}

func getLine(block string, idx int, width int) string {
	lines := strings.Split(block, "\n")
	if idx < len(lines) {
		line := lines[idx]
		lineWidth := lipgloss.Width(line)
		if lineWidth < width {
			return line + strings.Repeat(" ", width-lineWidth)
		}
		return line
	}
	return strings.Repeat(" ", width)
}

func placeOverlay(modal string, width, height int) string {
	modalLines := strings.Split(modal, "\n")

	topPadding := (height - len(modalLines)) / 2
	if topPadding < 0 {
		topPadding = 0
	}

	leftPadding := (width - lipgloss.Width(modalLines[0])) / 2
	if leftPadding < 0 {
		leftPadding = 0
	}

	var result strings.Builder
	for i := 0; i < topPadding; i++ {
		result.WriteString("\n")
	}

	for _, line := range modalLines {
		result.WriteString(strings.Repeat(" ", leftPadding))
		result.WriteString(line)
		result.WriteString("\n")
	}

	return result.String()
}
