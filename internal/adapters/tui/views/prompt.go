package views

import (
	"context"
	"fmt"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"noteboard/internal/adapters/tui/styles"
	"noteboard/internal/application/commands"
	"noteboard/internal/domain"
	"noteboard/internal/ports"
)

// PromptKeyMap defines key bindings for the name prompt
type PromptKeyMap struct {
	Submit key.Binding
	Cancel key.Binding
}

var PromptKeys = PromptKeyMap{
	Submit: key.NewBinding(
		key.WithKeys("enter"),
		key.WithHelp("enter", "submit"),
	),
	Cancel: key.NewBinding(
		key.WithKeys("esc"),
		key.WithHelp("esc", "cancel"),
	),
}

// PromptAction selects what the prompt does with the entered name
type PromptAction int

const (
	PromptNewFolder PromptAction = iota
	PromptNewNote
	PromptRename
)

// PromptModel asks for a single name and runs the matching command
type PromptModel struct {
	ViewState
	ns     ports.Namespace
	action PromptAction
	node   *domain.TreeNode
	input  textinput.Model
}

// NewPromptModel creates a new prompt view model
func NewPromptModel(ns ports.Namespace) *PromptModel {
	input := textinput.New()
	input.CharLimit = 200
	return &PromptModel{ns: ns, input: input}
}

// Open prepares the prompt for action on the selected node (nil means root)
func (m *PromptModel) Open(action PromptAction, node *domain.TreeNode) {
	m.action = action
	m.node = node
	m.ClearMessage()

	m.input.SetValue("")
	switch action {
	case PromptNewFolder:
		m.input.Placeholder = "Folder name"
	case PromptNewNote:
		m.input.Placeholder = "Leave empty for NoteN"
	case PromptRename:
		m.input.Placeholder = "New name"
		if node != nil {
			m.input.SetValue(node.Name)
		}
	}
	m.input.Focus()
}

// Init initializes the prompt view
func (m *PromptModel) Init() tea.Cmd {
	return textinput.Blink
}

// Update handles messages for the prompt view
func (m *PromptModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.SetSize(msg.Width, msg.Height)
		return m, nil

	case tea.KeyMsg:
		switch {
		case key.Matches(msg, PromptKeys.Cancel):
			return m, emit(SwitchToBrowserMsg{})
		case key.Matches(msg, PromptKeys.Submit):
			return m, m.submit()
		}
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func (m *PromptModel) submit() tea.Cmd {
	name := m.input.Value()
	action := m.action
	node := m.node
	return func() tea.Msg {
		ctx := context.Background()
		switch action {
		case PromptNewFolder:
			result, err := commands.NewCreateFolderCommand(m.ns, parentFor(node), name).Execute(ctx)
			if err != nil {
				return ActionErrMsg{Err: err}
			}
			return ActionDoneMsg{Message: result.Message, Focus: result.Folder.Ref()}

		case PromptNewNote:
			result, err := commands.NewCreateNoteCommand(m.ns, parentFor(node), name).Execute(ctx)
			if err != nil {
				return ActionErrMsg{Err: err}
			}
			return ActionDoneMsg{Message: result.Message, Focus: result.Note.Ref()}

		case PromptRename:
			result, err := commands.NewRenameCommand(m.ns, locatorFor(node), name).Execute(ctx)
			if err != nil {
				return ActionErrMsg{Err: err}
			}
			return ActionDoneMsg{Message: result.Message, Focus: result.Ref}
		}
		return ActionErrMsg{Err: fmt.Errorf("unknown prompt action %d", action)}
	}
}

func (m *PromptModel) title() string {
	switch m.action {
	case PromptNewFolder:
		return "New Folder"
	case PromptNewNote:
		return "New Note"
	default:
		return "Rename"
	}
}

func (m *PromptModel) subtitle() string {
	if m.action == PromptRename {
		if m.node == nil {
			return ""
		}
		return fmt.Sprintf("Renaming %s %q", m.node.Kind, m.node.Name)
	}
	parent := m.node
	if parent != nil && parent.Kind == domain.KindNote {
		parent = parent.Parent
	}
	if parent == nil || parent.IsRootNode() {
		return "Appending to the top level"
	}
	return fmt.Sprintf("Appending to folder %q", parent.Name)
}

// View renders the prompt view
func (m *PromptModel) View() string {
	return NewViewBuilder().
		Header(m.title(), m.subtitle()).
		Section("Name:").
		Line(styles.InputFocused.Render(m.input.View())).
		BlankLine().
		Message(m.Message, m.MessageErr).
		Help(PromptKeys.Submit, PromptKeys.Cancel).
		String()
}
