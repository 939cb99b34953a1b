package commands

import (
	"context"
	"sort"
	"strings"

	"flowbuilder/internal/application"
	"flowbuilder/internal/domain"
	"flowbuilder/internal/ports"
)

// MessageMatch is a node matching a search, with its relevance score
type MessageMatch struct {
	Node  domain.Node
	Score int
}

// SearchMessagesCommand searches the messages of a stored flow with fuzzy matching
type SearchMessagesCommand struct {
	store    ports.FlowStore
	FlowName string
	Query    string
}

// NewSearchMessagesCommand creates a new SearchMessagesCommand
func NewSearchMessagesCommand(store ports.FlowStore, flow, query string) *SearchMessagesCommand {
	return &SearchMessagesCommand{
		store:    store,
		FlowName: flow,
		Query:    query,
	}
}

// Execute runs the search command and returns scored, sorted results
func (c *SearchMessagesCommand) Execute(ctx context.Context) ([]MessageMatch, error) {
	if err := application.ValidateFlowName(c.FlowName); err != nil {
		return nil, err
	}
	if len(c.Query) < 2 {
		return nil, nil
	}

	flow, err := c.store.LoadFlow(ctx, c.FlowName)
	if err != nil {
		return nil, err
	}

	return FuzzySort(flow.Nodes, c.Query), nil
}

// FuzzyScore calculates a relevance score for how well target matches query
func FuzzyScore(target, query string) int {
	target = strings.ToLower(target)
	query = strings.ToLower(query)

	if len(query) == 0 {
		return 0
	}

	// Exact substring match ranks first
	if strings.Contains(target, query) {
		score := 100
		if strings.HasPrefix(target, query) {
			score += 50
		}
		return score
	}

	// Fuzzy match: chars appear in order
	score := 0
	queryIdx := 0
	prevMatchIdx := -1

	for i := 0; i < len(target) && queryIdx < len(query); i++ {
		if target[i] == query[queryIdx] {
			if prevMatchIdx == i-1 {
				score += 10 // consecutive chars
			}
			if i == 0 {
				score += 15 // start of string
			}
			if i > 0 && (target[i-1] == ' ' || target[i-1] == '_' || target[i-1] == '-') {
				score += 10 // after separator
			}
			score += 1
			prevMatchIdx = i
			queryIdx++
		}
	}

	if queryIdx == len(query) {
		return score
	}
	return 0
}

// FuzzySort scores nodes by ID and message text and sorts them by relevance.
// Nodes that do not match are dropped.
func FuzzySort(nodes []domain.Node, query string) []MessageMatch {
	scored := make([]MessageMatch, 0, len(nodes))

	for _, n := range nodes {
		best := max(FuzzyScore(n.ID, query), FuzzyScore(n.Text(), query))
		if best > 0 {
			scored = append(scored, MessageMatch{Node: n, Score: best})
		}
	}

	sort.SliceStable(scored, func(i, j int) bool {
		return scored[i].Score > scored[j].Score
	})

	return scored
}
