package styles

import (
	"github.com/charmbracelet/lipgloss"

	"noteboard/internal/domain"
)

// Palette
var (
	Accent  = lipgloss.Color("#2563EB") // Blue
	Folder  = lipgloss.Color("#0EA5E9") // Sky
	Success = lipgloss.Color("#16A34A") // Green
	Muted   = lipgloss.Color("#6B7280") // Gray
	Warning = lipgloss.Color("#D97706") // Amber
	Danger  = lipgloss.Color("#DC2626") // Red
	Paper   = lipgloss.Color("#FBFCFF") // default canvas background
)

var (
	App = lipgloss.NewStyle().Padding(1, 2)

	Title = lipgloss.NewStyle().
		Bold(true).
		Foreground(Accent)

	Subtitle = lipgloss.NewStyle().
			Foreground(Muted).
			Italic(true)

	// Tree rows
	NodeFolder = lipgloss.NewStyle().
			Foreground(Folder).
			Bold(true)

	NodeNote = lipgloss.NewStyle()

	NodeSelected = lipgloss.NewStyle().
			Background(Accent).
			Foreground(Paper).
			Bold(true)

	// NodeCut marks the resource waiting to be pasted
	NodeCut = lipgloss.NewStyle().
		Foreground(Warning).
		Italic(true)

	TreeBranch    = lipgloss.NewStyle().Foreground(Muted)
	TreeExpanded  = "▾ "
	TreeCollapsed = "▸ "
	TreeLeaf      = "· "

	// Forms
	InputLabel = lipgloss.NewStyle().
			Foreground(Accent).
			Bold(true)

	InputFocused = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(Accent).
			Padding(0, 1)

	// Help line
	HelpKey = lipgloss.NewStyle().
		Foreground(Accent).
		Bold(true)

	HelpDesc = lipgloss.NewStyle().Foreground(Muted)

	HelpSeparator = lipgloss.NewStyle().
			Foreground(Muted).
			SetString(" · ")

	// Status messages
	SuccessMsg = lipgloss.NewStyle().
			Foreground(Success).
			Bold(true)

	ErrorMsg = lipgloss.NewStyle().
			Foreground(Danger).
			Bold(true)

	MutedText = lipgloss.NewStyle().Foreground(Muted)
)

// ForKind returns the row style of a resource kind
func ForKind(kind domain.Kind) lipgloss.Style {
	if kind == domain.KindFolder {
		return NodeFolder
	}
	return NodeNote
}

// Branch returns the tree marker drawn before a row
func Branch(kind domain.Kind, expanded bool) string {
	switch {
	case kind != domain.KindFolder:
		return TreeLeaf
	case expanded:
		return TreeExpanded
	default:
		return TreeCollapsed
	}
}
