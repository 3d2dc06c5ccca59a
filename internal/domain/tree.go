package domain

// TreeNode represents a node of the resource tree for navigation
type TreeNode struct {
	Resource
	Children   []*TreeNode
	IsExpanded bool
	Parent     *TreeNode
}

// IsRootNode reports whether this is the synthetic root
func (n *TreeNode) IsRootNode() bool {
	return n.Kind == KindAny
}

// Label returns the text shown for the node
func (n *TreeNode) Label() string {
	if n.IsRootNode() {
		return "/"
	}
	return n.Name
}

// Flatten returns all visible nodes in the tree (for list rendering)
func (n *TreeNode) Flatten() []*TreeNode {
	var result []*TreeNode
	n.flattenRecursive(&result)
	return result
}

func (n *TreeNode) flattenRecursive(result *[]*TreeNode) {
	*result = append(*result, n)
	if n.IsExpanded {
		for _, child := range n.Children {
			child.flattenRecursive(result)
		}
	}
}

// Depth returns the depth of this node in the tree
func (n *TreeNode) Depth() int {
	depth := 0
	current := n.Parent
	for current != nil {
		depth++
		current = current.Parent
	}
	return depth
}

// Toggle expands or collapses the node
func (n *TreeNode) Toggle() {
	n.IsExpanded = !n.IsExpanded
}

// Expand sets the node as expanded
func (n *TreeNode) Expand() {
	n.IsExpanded = true
}

// Collapse sets the node as collapsed
func (n *TreeNode) Collapse() {
	n.IsExpanded = false
}

// Find returns the first node in the subtree matching ref.
func (n *TreeNode) Find(ref Ref) *TreeNode {
	if !n.IsRootNode() && n.Ref() == ref {
		return n
	}
	for _, child := range n.Children {
		if found := child.Find(ref); found != nil {
			return found
		}
	}
	return nil
}

// Walk visits every node depth-first, parents before children.
func (n *TreeNode) Walk(fn func(*TreeNode)) {
	fn(n)
	for _, child := range n.Children {
		child.Walk(fn)
	}
}
