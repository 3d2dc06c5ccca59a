package tui

import (
	"context"
	"fmt"

	tea "github.com/charmbracelet/bubbletea"

	"noteboard/internal/adapters/tui/views"
	"noteboard/internal/application/commands"
	"noteboard/internal/domain"
	"noteboard/internal/ports"
)

// ViewState represents the current view
type ViewState int

const (
	ViewBrowser ViewState = iota
	ViewPrompt
	ViewConfirm
	ViewHelp
)

// App is the main TUI application model
type App struct {
	ns     ports.Namespace
	editor ports.TextEditor

	state   ViewState
	browser *views.BrowserModel
	prompt  *views.PromptModel
	confirm *views.DeleteModel
	help    *views.HelpModel

	width  int
	height int
}

// NewApp creates a new TUI application. A nil editor disables note editing.
func NewApp(ns ports.Namespace, ed ports.TextEditor) *App {
	return &App{
		ns:      ns,
		editor:  ed,
		state:   ViewBrowser,
		browser: views.NewBrowserModel(ns),
		prompt:  views.NewPromptModel(ns),
		confirm: views.NewDeleteModel(ns),
		help:    views.NewHelpModel(),
	}
}

// Init initializes the application
func (a *App) Init() tea.Cmd {
	return a.browser.Init()
}

// Update handles messages for the application
func (a *App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		a.width = msg.Width
		a.height = msg.Height
		a.browser.SetSize(msg.Width, msg.Height)
		a.prompt.SetSize(msg.Width, msg.Height)
		a.confirm.SetSize(msg.Width, msg.Height)
		a.help.SetSize(msg.Width, msg.Height)
		return a, nil

	// View switching messages
	case views.SwitchToPromptMsg:
		a.state = ViewPrompt
		a.prompt.Open(msg.Action, msg.Node)
		return a, a.prompt.Init()

	case views.SwitchToConfirmMsg:
		a.state = ViewConfirm
		a.confirm.SetTarget(msg.Node)
		return a, nil

	case views.SwitchToHelpMsg:
		a.state = ViewHelp
		return a, nil

	case views.SwitchToBrowserMsg:
		a.state = ViewBrowser
		return a, a.browser.Reload()

	case views.ActionDoneMsg:
		a.state = ViewBrowser
		_, cmd := a.browser.Update(msg)
		return a, cmd

	case views.ActionErrMsg:
		// Failed prompts stay open so the name can be corrected
		if a.state == ViewPrompt {
			a.prompt.SetMessage(msg.Err.Error(), true)
			return a, nil
		}
		a.state = ViewBrowser
		_, cmd := a.browser.Update(msg)
		return a, cmd

	case views.EditNoteMsg:
		return a, a.editNote(msg.Node)

	case editorFinishedMsg:
		return a, a.saveEdited(msg)
	}

	// Delegate to current view
	var cmd tea.Cmd
	switch a.state {
	case ViewBrowser:
		_, cmd = a.browser.Update(msg)
	case ViewPrompt:
		_, cmd = a.prompt.Update(msg)
	case ViewConfirm:
		_, cmd = a.confirm.Update(msg)
	case ViewHelp:
		_, cmd = a.help.Update(msg)
	}

	return a, cmd
}

type editorFinishedMsg struct {
	note     domain.Locator
	ref      domain.Ref
	original string
	collect  func() (string, error)
	err      error
}

// editNote loads the note text and hands it to the external editor
func (a *App) editNote(node *domain.TreeNode) tea.Cmd {
	if a.editor == nil {
		return func() tea.Msg {
			return views.ActionErrMsg{Err: fmt.Errorf("no editor configured")}
		}
	}
	loc := domain.ByID(node.Kind, node.ID, node.Token)

	read, err := commands.NewReadNoteCommand(a.ns, loc).Execute(context.Background())
	if err != nil {
		return func() tea.Msg { return views.ActionErrMsg{Err: err} }
	}
	cmd, collect, err := a.editor.Prepare(read.Text)
	if err != nil {
		return func() tea.Msg { return views.ActionErrMsg{Err: err} }
	}

	return tea.ExecProcess(cmd, func(err error) tea.Msg {
		return editorFinishedMsg{
			note:     loc,
			ref:      node.Ref(),
			original: read.Text,
			collect:  collect,
			err:      err,
		}
	})
}

func (a *App) saveEdited(msg editorFinishedMsg) tea.Cmd {
	return func() tea.Msg {
		text, err := msg.collect()
		if msg.err != nil {
			return views.ActionErrMsg{Err: fmt.Errorf("editor exited: %w", msg.err)}
		}
		if err != nil {
			return views.ActionErrMsg{Err: err}
		}
		if text == msg.original {
			return views.ActionDoneMsg{Message: "No changes", Focus: msg.ref}
		}
		result, err := commands.NewSaveTextCommand(a.ns, msg.note, text).Execute(context.Background())
		if err != nil {
			return views.ActionErrMsg{Err: err}
		}
		return views.ActionDoneMsg{Message: result.Message, Focus: msg.ref}
	}
}

// View renders the current view
func (a *App) View() string {
	switch a.state {
	case ViewPrompt:
		return a.prompt.View()
	case ViewConfirm:
		return a.confirm.View()
	case ViewHelp:
		return a.help.View()
	default:
		return a.browser.View()
	}
}
