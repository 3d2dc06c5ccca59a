package views

import (
	"context"
	"fmt"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"noteboard/internal/adapters/tui/styles"
	"noteboard/internal/application/commands"
	"noteboard/internal/domain"
	"noteboard/internal/ports"
)

// ConfirmKeyMap defines key bindings for confirmation views
type ConfirmKeyMap struct {
	Confirm key.Binding
	Cancel  key.Binding
}

var ConfirmKeys = ConfirmKeyMap{
	Confirm: key.NewBinding(
		key.WithKeys("y"),
		key.WithHelp("y", "confirm"),
	),
	Cancel: key.NewBinding(
		key.WithKeys("n", "esc"),
		key.WithHelp("n/esc", "cancel"),
	),
}

// DeleteModel asks before deleting a folder or note
type DeleteModel struct {
	ViewState
	ns     ports.Namespace
	target *domain.TreeNode
}

// NewDeleteModel creates a new delete confirmation model
func NewDeleteModel(ns ports.Namespace) *DeleteModel {
	return &DeleteModel{ns: ns}
}

// SetTarget sets the node the confirmation is about
func (m *DeleteModel) SetTarget(node *domain.TreeNode) {
	m.target = node
	m.ClearMessage()
}

// Init initializes the delete view
func (m *DeleteModel) Init() tea.Cmd {
	return nil
}

// Update handles messages for the delete view
func (m *DeleteModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.SetSize(msg.Width, msg.Height)
		return m, nil

	case tea.KeyMsg:
		switch {
		case key.Matches(msg, ConfirmKeys.Cancel):
			return m, emit(SwitchToBrowserMsg{})
		case key.Matches(msg, ConfirmKeys.Confirm):
			return m, m.doDelete()
		}
	}

	return m, nil
}

func (m *DeleteModel) doDelete() tea.Cmd {
	loc := locatorFor(m.target)
	return func() tea.Msg {
		if loc.IsZero() {
			return ActionErrMsg{Err: fmt.Errorf("no target selected")}
		}
		result, err := commands.NewDeleteCommand(m.ns, loc).Execute(context.Background())
		if err != nil {
			return ActionErrMsg{Err: err}
		}
		return ActionDoneMsg{Message: result.Message}
	}
}

// descendants counts everything below node in the loaded tree
func descendants(node *domain.TreeNode) int {
	count := -1
	node.Walk(func(*domain.TreeNode) { count++ })
	return count
}

// View renders the delete confirmation view
func (m *DeleteModel) View() string {
	v := NewViewBuilder().Header("Delete Confirmation", "")
	if m.target == nil {
		return v.Muted("Nothing selected.").String()
	}

	v.Line(styles.ErrorMsg.Render("This action cannot be undone!")).
		BlankLine().
		Section(fmt.Sprintf("Delete %s:", m.target.Kind)).
		Line(fmt.Sprintf("  %s", m.target.Name)).
		BlankLine()

	if m.target.Kind == domain.KindFolder {
		if n := descendants(m.target); n > 0 {
			v.Muted(fmt.Sprintf("  %d folders and notes inside will be deleted too.", n)).BlankLine()
		}
	}

	return v.Line(RenderConfirmPrompt("Are you sure?")).String()
}

// RenderConfirmPrompt renders the standard confirmation prompt
func RenderConfirmPrompt(question string) string {
	return question + " " +
		styles.HelpKey.Render("y") +
		styles.HelpDesc.Render(" to confirm, ") +
		styles.HelpKey.Render("n") +
		styles.HelpDesc.Render(" to cancel")
}
