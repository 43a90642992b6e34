package tui

import "github.com/charmbracelet/lipgloss"

// Color palette
var (
	ColorPurple      = lipgloss.Color("#7D56F4")
	ColorGreen       = lipgloss.Color("#25A065")
	ColorBlue        = lipgloss.Color("#4285F4")
	ColorRed         = lipgloss.Color("#E05252")
	ColorYellow      = lipgloss.Color("#E5C07B")
	ColorGray        = lipgloss.Color("#626262")
	ColorGrayDim     = lipgloss.Color("#404040")
	ColorWhite       = lipgloss.Color("#FFFFFF")
	ColorOffWhite    = lipgloss.Color("#D0D0D0")
	ColorSelectionBg = lipgloss.Color("#2D3B4D")
	ColorCyan        = lipgloss.Color("#56B6C2")
)

// Header styles
var (
	HeaderStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(ColorPurple)

	ScoreStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(ColorYellow)

	DirtyStyle = lipgloss.NewStyle().
			Foreground(ColorRed)

	FooterStyle = lipgloss.NewStyle().
			Foreground(ColorGray)
)

// Goal row styles
var (
	SelectedStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(ColorWhite).
			Background(ColorSelectionBg)

	CompleteStyle = lipgloss.NewStyle().
			Foreground(ColorGreen)

	EternalStyle = lipgloss.NewStyle().
			Foreground(ColorCyan)

	IncompleteStyle = lipgloss.NewStyle().
			Foreground(ColorOffWhite)
)

// Modal styles
var (
	ModalStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(ColorPurple).
			Padding(1, 2)

	ModalTitleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(ColorPurple)
)

// Input styles
var (
	InputPromptStyle = lipgloss.NewStyle().
				Foreground(ColorPurple).
				Bold(true)

	ErrorStyle = lipgloss.NewStyle().
			Foreground(ColorRed).
			Bold(true)
)

// Status icons
const (
	IconComplete   = "✓"
	IconEternal    = "∞"
	IconIncomplete = "○"
)
