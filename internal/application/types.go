package application

import "noteboard/internal/domain"

// Re-export domain types for use by adapters
type (
	Owner    = domain.Owner
	Ref      = domain.Ref
	Locator  = domain.Locator
	Folder   = domain.Folder
	Note     = domain.Note
	Room     = domain.Room
	Resource = domain.Resource
	TreeNode = domain.TreeNode
)

// ParseLocator parses a locator given on a command line or in a tool call
func ParseLocator(s string) (Locator, error) {
	return domain.ParseLocator(s)
}
