package views

import (
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"noteboard/internal/adapters/tui/styles"
)

// HelpKeyMap defines key bindings for the help view
type HelpKeyMap struct {
	Close key.Binding
}

var HelpKeys = HelpKeyMap{
	Close: key.NewBinding(
		key.WithKeys("esc", "q", "?"),
		key.WithHelp("esc/q/?", "close"),
	),
}

// HelpModel is the model for the help view
type HelpModel struct {
	ViewState
}

// NewHelpModel creates a new help view model
func NewHelpModel() *HelpModel {
	return &HelpModel{}
}

// Init initializes the help view
func (m *HelpModel) Init() tea.Cmd {
	return nil
}

// Update handles messages for the help view
func (m *HelpModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.SetSize(msg.Width, msg.Height)
		return m, nil

	case tea.KeyMsg:
		if key.Matches(msg, HelpKeys.Close) {
			return m, emit(SwitchToBrowserMsg{})
		}
	}

	return m, nil
}

// View renders the help view
func (m *HelpModel) View() string {
	return NewViewBuilder().
		Header("Noteboard Help", "").
		Section("Navigation").
		Line(helpLine(BrowserKeys.Up, BrowserKeys.Down)).
		Line(helpLine(BrowserKeys.Left)).
		Line(helpLine(BrowserKeys.Right)).
		Line(helpLine(BrowserKeys.Enter)).
		BlankLine().
		Section("Tree").
		Line(helpLine(BrowserKeys.NewFolder)).
		Line(helpLine(BrowserKeys.NewNote)).
		Line(helpLine(BrowserKeys.Rename)).
		Line(helpLine(BrowserKeys.Delete)).
		Line(helpLine(BrowserKeys.MoveUp, BrowserKeys.MoveDown)).
		Line(helpLine(BrowserKeys.Cut)).
		Line(helpLine(BrowserKeys.Paste)).
		BlankLine().
		Section("Notes").
		Line(helpLine(BrowserKeys.Edit)).
		Line(helpLine(BrowserKeys.Yank)).
		BlankLine().
		Section("General").
		Line(helpLine(BrowserKeys.Help)).
		Line(helpLine(BrowserKeys.Quit)).
		BlankLine().
		Muted("  New folders and notes go last in their folder. A selected note").
		Muted("  stands for its folder when creating or pasting.").
		BlankLine().
		Help(HelpKeys.Close).
		String()
}

func helpLine(bindings ...key.Binding) string {
	var keys, descs []string
	for _, b := range bindings {
		keys = append(keys, b.Help().Key)
		descs = append(descs, b.Help().Desc)
	}
	return "  " + styles.HelpKey.Render(padRight(strings.Join(keys, " / "), 20)) +
		styles.HelpDesc.Render(strings.Join(descs, ", "))
}

func padRight(s string, length int) string {
	if n := len([]rune(s)); n < length {
		return s + strings.Repeat(" ", length-n)
	}
	return s
}
