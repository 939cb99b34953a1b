package domain

import (
	"fmt"
	"strings"
)

// StructureError reports a graph with more than one entry node
type StructureError struct {
	Entries []string
}

func (e *StructureError) Error() string {
	return fmt.Sprintf("flow has %d entry nodes (%s), expected one", len(e.Entries), strings.Join(e.Entries, ", "))
}

// EntryNodes returns the IDs of nodes without incoming edges, in node order.
// Edges whose endpoints are not among nodes are ignored.
func EntryNodes(nodes []Node, edges []Edge) []string {
	known := make(map[string]bool, len(nodes))
	for _, n := range nodes {
		known[n.ID] = true
	}

	incoming := make(map[string]bool, len(edges))
	for _, e := range edges {
		if known[e.Source] && known[e.Target] {
			incoming[e.Target] = true
		}
	}

	var entries []string
	for _, n := range nodes {
		if !incoming[n.ID] {
			entries = append(entries, n.ID)
		}
	}
	return entries
}

// ValidateForSave checks that a flow can be saved: a graph of more than one
// node must have exactly one node without incoming edges. Cycles and fan-in
// are allowed.
func ValidateForSave(nodes []Node, edges []Edge) error {
	if len(nodes) <= 1 {
		return nil
	}
	if entries := EntryNodes(nodes, edges); len(entries) > 1 {
		return &StructureError{Entries: entries}
	}
	return nil
}
