package views

import (
	"noteboard/internal/domain"
)

// ViewState contains common state shared by all view models.
// Embed this struct in view models to get width/height and message handling.
type ViewState struct {
	Width      int
	Height     int
	Message    string
	MessageErr bool
}

// SetSize updates the view dimensions
func (s *ViewState) SetSize(width, height int) {
	s.Width = width
	s.Height = height
}

// SetMessage sets a message to display in the view
func (s *ViewState) SetMessage(msg string, isErr bool) {
	s.Message = msg
	s.MessageErr = isErr
}

// ClearMessage clears the current message
func (s *ViewState) ClearMessage() {
	s.Message = ""
	s.MessageErr = false
}

// locatorFor addresses a tree node. The token travels along so the lookup
// also succeeds in the transient namespace.
func locatorFor(node *domain.TreeNode) domain.Locator {
	if node == nil || node.IsRootNode() {
		return domain.Locator{}
	}
	return domain.ByID(node.Kind, node.ID, node.Token)
}

// parentFor returns the locator new resources are created under when node
// is selected: the folder itself, or the parent of a note.
func parentFor(node *domain.TreeNode) domain.Locator {
	if node == nil {
		return domain.Locator{}
	}
	if node.Kind == domain.KindNote {
		return locatorFor(node.Parent)
	}
	return locatorFor(node)
}

// Messages for view switching
type SwitchToPromptMsg struct {
	Action PromptAction
	Node   *domain.TreeNode
}

type SwitchToConfirmMsg struct {
	Node *domain.TreeNode
}

type SwitchToHelpMsg struct{}

type SwitchToBrowserMsg struct{}

// ActionDoneMsg reports a finished mutation; Focus selects a resource after reload
type ActionDoneMsg struct {
	Message string
	Focus   domain.Ref
}

// ActionErrMsg reports a failed mutation
type ActionErrMsg struct {
	Err error
}

// EditNoteMsg asks the app to open the note's text in the editor
type EditNoteMsg struct {
	Node *domain.TreeNode
}
