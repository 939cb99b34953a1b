package domain

// Selection tracks at most one selected node.
// The held node is refreshed through Sync whenever that node is mutated.
type Selection struct {
	node     Node
	selected bool
}

// Select makes n the selected node
func (s *Selection) Select(n Node) {
	s.node = n
	s.selected = true
}

// Deselect clears the selection
func (s *Selection) Deselect() {
	s.node = Node{}
	s.selected = false
}

// Current returns the selected node
func (s *Selection) Current() (Node, bool) {
	return s.node, s.selected
}

// IsSelected reports whether the node with the given ID is selected
func (s *Selection) IsSelected(id string) bool {
	return s.selected && s.node.ID == id
}

// Sync replaces the held node with n when n is the selected one
func (s *Selection) Sync(n Node) {
	if s.IsSelected(n.ID) {
		s.node = n
	}
}
