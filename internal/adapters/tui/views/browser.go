package views

import (
	"context"
	"fmt"
	"strings"

	"github.com/atotto/clipboard"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"noteboard/internal/adapters/tui/styles"
	"noteboard/internal/application/commands"
	"noteboard/internal/domain"
	"noteboard/internal/ports"
)

// BrowserKeyMap defines key bindings for the browser view
type BrowserKeyMap struct {
	Up        key.Binding
	Down      key.Binding
	Left      key.Binding
	Right     key.Binding
	Enter     key.Binding
	NewFolder key.Binding
	NewNote   key.Binding
	Rename    key.Binding
	Delete    key.Binding
	MoveUp    key.Binding
	MoveDown  key.Binding
	Cut       key.Binding
	Paste     key.Binding
	Edit      key.Binding
	Yank      key.Binding
	Help      key.Binding
	Quit      key.Binding
}

var BrowserKeys = BrowserKeyMap{
	Up: key.NewBinding(
		key.WithKeys("k", "up"),
		key.WithHelp("k/↑", "up"),
	),
	Down: key.NewBinding(
		key.WithKeys("j", "down"),
		key.WithHelp("j/↓", "down"),
	),
	Left: key.NewBinding(
		key.WithKeys("h", "left"),
		key.WithHelp("h/←", "collapse"),
	),
	Right: key.NewBinding(
		key.WithKeys("l", "right"),
		key.WithHelp("l/→", "expand"),
	),
	Enter: key.NewBinding(
		key.WithKeys("enter"),
		key.WithHelp("enter", "toggle/edit"),
	),
	NewFolder: key.NewBinding(
		key.WithKeys("f"),
		key.WithHelp("f", "new folder"),
	),
	NewNote: key.NewBinding(
		key.WithKeys("n"),
		key.WithHelp("n", "new note"),
	),
	Rename: key.NewBinding(
		key.WithKeys("r"),
		key.WithHelp("r", "rename"),
	),
	Delete: key.NewBinding(
		key.WithKeys("d"),
		key.WithHelp("d", "delete"),
	),
	MoveUp: key.NewBinding(
		key.WithKeys("K", "shift+up"),
		key.WithHelp("K", "move up"),
	),
	MoveDown: key.NewBinding(
		key.WithKeys("J", "shift+down"),
		key.WithHelp("J", "move down"),
	),
	Cut: key.NewBinding(
		key.WithKeys("x"),
		key.WithHelp("x", "cut"),
	),
	Paste: key.NewBinding(
		key.WithKeys("p"),
		key.WithHelp("p", "paste"),
	),
	Edit: key.NewBinding(
		key.WithKeys("e"),
		key.WithHelp("e", "edit"),
	),
	Yank: key.NewBinding(
		key.WithKeys("y"),
		key.WithHelp("y", "copy token"),
	),
	Help: key.NewBinding(
		key.WithKeys("?"),
		key.WithHelp("?", "help"),
	),
	Quit: key.NewBinding(
		key.WithKeys("q", "ctrl+c"),
		key.WithHelp("q", "quit"),
	),
}

// BrowserModel is the model for the tree browser view
type BrowserModel struct {
	ViewState
	ns        ports.Namespace
	root      *domain.TreeNode
	flatNodes []*domain.TreeNode
	pager     *Paginator
	expanded  map[domain.Ref]bool
	focus     domain.Ref
	cut       *domain.TreeNode
	copyText  func(string) error
}

// NewBrowserModel creates a new browser model
func NewBrowserModel(ns ports.Namespace) *BrowserModel {
	return &BrowserModel{
		ns:       ns,
		pager:    NewPaginator(20),
		expanded: make(map[domain.Ref]bool),
		copyText: clipboard.WriteAll,
	}
}

// Init initializes the browser
func (m *BrowserModel) Init() tea.Cmd {
	return m.loadTree
}

func (m *BrowserModel) loadTree() tea.Msg {
	root, err := commands.NewTreeCommand(m.ns).Execute(context.Background())
	if err != nil {
		return errMsg{err}
	}
	return treeLoadedMsg{root}
}

type treeLoadedMsg struct {
	root *domain.TreeNode
}

type errMsg struct {
	err error
}

// Update handles messages for the browser
func (m *BrowserModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.SetSize(msg.Width, msg.Height)
		return m, nil

	case treeLoadedMsg:
		m.setTree(msg.root)
		return m, nil

	case errMsg:
		m.SetMessage(msg.err.Error(), true)
		return m, nil

	case ActionErrMsg:
		m.SetMessage(msg.Err.Error(), true)
		return m, nil

	case ActionDoneMsg:
		m.SetMessage(msg.Message, false)
		if msg.Focus != (domain.Ref{}) {
			m.focus = msg.Focus
		}
		return m, m.loadTree

	case tea.KeyMsg:
		m.ClearMessage()
		return m, m.handleKey(msg)
	}

	return m, nil
}

func (m *BrowserModel) handleKey(msg tea.KeyMsg) tea.Cmd {
	node := m.selectedNode()

	switch {
	case key.Matches(msg, BrowserKeys.Quit):
		return tea.Quit

	case key.Matches(msg, BrowserKeys.Up):
		m.pager.CursorUp()

	case key.Matches(msg, BrowserKeys.Down):
		m.pager.CursorDown()

	case key.Matches(msg, BrowserKeys.Left):
		if node == nil {
			return nil
		}
		if node.IsExpanded {
			m.setExpanded(node, false)
		} else if node.Parent != nil && !node.Parent.IsRootNode() {
			m.selectNode(node.Parent)
		}

	case key.Matches(msg, BrowserKeys.Right), key.Matches(msg, BrowserKeys.Enter):
		if node == nil {
			return nil
		}
		if node.Kind == domain.KindNote {
			if key.Matches(msg, BrowserKeys.Enter) {
				return emit(EditNoteMsg{Node: node})
			}
			return nil
		}
		if !node.IsExpanded {
			m.setExpanded(node, true)
		} else if key.Matches(msg, BrowserKeys.Enter) {
			m.setExpanded(node, false)
		}

	case key.Matches(msg, BrowserKeys.NewFolder):
		return emit(SwitchToPromptMsg{Action: PromptNewFolder, Node: node})

	case key.Matches(msg, BrowserKeys.NewNote):
		return emit(SwitchToPromptMsg{Action: PromptNewNote, Node: node})

	case key.Matches(msg, BrowserKeys.Rename):
		if node != nil {
			return emit(SwitchToPromptMsg{Action: PromptRename, Node: node})
		}

	case key.Matches(msg, BrowserKeys.Delete):
		if node != nil {
			return emit(SwitchToConfirmMsg{Node: node})
		}

	case key.Matches(msg, BrowserKeys.MoveUp):
		if node != nil && node.Index > 0 {
			return m.reorder(node, node.Index-1)
		}

	case key.Matches(msg, BrowserKeys.MoveDown):
		if node != nil && node.Parent != nil && node.Index < len(node.Parent.Children)-1 {
			return m.reorder(node, node.Index+1)
		}

	case key.Matches(msg, BrowserKeys.Cut):
		if node != nil {
			m.cut = node
			m.SetMessage(fmt.Sprintf("Cut %s %s; press p on the destination", node.Kind, node.Name), false)
		}

	case key.Matches(msg, BrowserKeys.Paste):
		if m.cut != nil {
			return m.paste(node)
		}

	case key.Matches(msg, BrowserKeys.Edit):
		if node != nil && node.Kind == domain.KindNote {
			return emit(EditNoteMsg{Node: node})
		}

	case key.Matches(msg, BrowserKeys.Yank):
		if node != nil {
			if err := m.copyText(node.Token); err != nil {
				m.SetMessage(fmt.Sprintf("failed to copy token: %v", err), true)
			} else {
				m.SetMessage(fmt.Sprintf("Copied token of %s", node.Name), false)
			}
		}

	case key.Matches(msg, BrowserKeys.Help):
		return emit(SwitchToHelpMsg{})
	}

	return nil
}

func (m *BrowserModel) reorder(node *domain.TreeNode, to int) tea.Cmd {
	loc := locatorFor(node)
	return func() tea.Msg {
		result, err := commands.NewReorderCommand(m.ns, loc, to).Execute(context.Background())
		if err != nil {
			return ActionErrMsg{Err: err}
		}
		return ActionDoneMsg{Message: result.Message, Focus: result.Ref}
	}
}

func (m *BrowserModel) paste(dest *domain.TreeNode) tea.Cmd {
	source := locatorFor(m.cut)
	target := parentFor(dest)
	m.cut = nil
	return func() tea.Msg {
		result, err := commands.NewTransferCommand(m.ns, source, target).Execute(context.Background())
		if err != nil {
			return ActionErrMsg{Err: err}
		}
		return ActionDoneMsg{Message: result.Message, Focus: result.Ref}
	}
}

func emit(msg tea.Msg) tea.Cmd {
	return func() tea.Msg { return msg }
}

// setTree swaps in a freshly loaded tree, restoring expansion and selection
func (m *BrowserModel) setTree(root *domain.TreeNode) {
	var previous domain.Ref
	if node := m.selectedNode(); node != nil {
		previous = node.Ref()
	}

	m.root = root
	root.Walk(func(n *domain.TreeNode) {
		if !n.IsRootNode() && m.expanded[n.Ref()] {
			n.Expand()
		}
	})

	target := previous
	if m.focus != (domain.Ref{}) {
		target = m.focus
		m.focus = domain.Ref{}
	}
	if found := root.Find(target); found != nil {
		m.selectNode(found)
		return
	}
	m.refreshFlatNodes()
}

func (m *BrowserModel) setExpanded(node *domain.TreeNode, expanded bool) {
	if expanded {
		node.Expand()
		m.expanded[node.Ref()] = true
	} else {
		node.Collapse()
		delete(m.expanded, node.Ref())
	}
	m.refreshFlatNodes()
}

// selectNode moves the cursor to node, expanding its ancestors
func (m *BrowserModel) selectNode(node *domain.TreeNode) {
	for p := node.Parent; p != nil && !p.IsRootNode(); p = p.Parent {
		p.Expand()
		m.expanded[p.Ref()] = true
	}
	m.refreshFlatNodes()
	for i, n := range m.flatNodes {
		if n == node {
			m.pager.SetCursor(i)
			return
		}
	}
}

func (m *BrowserModel) selectedNode() *domain.TreeNode {
	if cursor := m.pager.Cursor(); cursor < len(m.flatNodes) {
		return m.flatNodes[cursor]
	}
	return nil
}

func (m *BrowserModel) refreshFlatNodes() {
	if m.root == nil {
		return
	}
	// Skip root node in display
	m.flatNodes = m.root.Flatten()[1:]
	m.pager.SetTotal(len(m.flatNodes))
}

// View renders the browser
func (m *BrowserModel) View() string {
	if m.root == nil {
		if m.MessageErr {
			return NewViewBuilder().Message(m.Message, true).String()
		}
		return "Loading..."
	}

	v := NewViewBuilder().Header("Noteboard", namespaceLabel(m.ns))

	if len(m.flatNodes) == 0 {
		v.Muted("Nothing here yet. Press f for a folder or n for a note.")
	}

	start, end := m.pager.VisibleRange()
	above, below := m.pager.Scrolled()
	if above {
		v.Muted("  ↑ more")
	}
	for i := start; i < end; i++ {
		v.Line(m.renderNode(m.flatNodes[i], i == m.pager.Cursor()))
	}
	if below {
		v.Muted("  ↓ more")
	}

	return v.BlankLine().
		Message(m.Message, m.MessageErr).
		Help(BrowserKeys.NewFolder, BrowserKeys.NewNote, BrowserKeys.Rename, BrowserKeys.Delete,
			BrowserKeys.MoveUp, BrowserKeys.MoveDown, BrowserKeys.Help, BrowserKeys.Quit).
		String()
}

func (m *BrowserModel) renderNode(node *domain.TreeNode, selected bool) string {
	indent := strings.Repeat("  ", node.Depth()-1)
	text := fmt.Sprintf("%d %s", node.Index, node.Name)

	style := styles.ForKind(node.Kind)
	if m.cut != nil && m.cut.Ref() == node.Ref() {
		style = styles.NodeCut
	}
	if selected {
		style = styles.NodeSelected
	}

	return indent + styles.TreeBranch.Render(styles.Branch(node.Kind, node.IsExpanded)) + style.Render(text)
}

func namespaceLabel(ns ports.Namespace) string {
	if owner := ns.Owner(); !owner.IsTransient() {
		return "signed in as " + string(owner)
	}
	return "scratch board (not saved to an account)"
}

// SetSize updates the view dimensions
func (m *BrowserModel) SetSize(width, height int) {
	m.ViewState.SetSize(width, height)
	// Title, subtitle, message and help take about ten rows
	m.pager.SetPageSize(height - 10)
}

// Reload reloads the tree, keeping the selection when it still exists
func (m *BrowserModel) Reload() tea.Cmd {
	return m.loadTree
}
