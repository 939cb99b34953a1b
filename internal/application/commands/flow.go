package commands

import (
	"context"
	"errors"
	"fmt"

	"flowbuilder/internal/application"
	"flowbuilder/internal/domain"
	"flowbuilder/internal/ports"
)

// loadGraph loads a stored flow into an editable graph.
// With allowNew, a missing flow yields an empty graph.
func loadGraph(ctx context.Context, store ports.FlowStore, name string, allowNew bool) (*domain.Graph, error) {
	flow, err := store.LoadFlow(ctx, name)
	if err != nil {
		if allowNew && errors.Is(err, application.ErrNotFound) {
			return domain.NewGraph(), nil
		}
		return nil, fmt.Errorf("failed to load flow %s: %w", name, err)
	}
	return domain.GraphFromFlow(flow), nil
}

func requireNode(g *domain.Graph, field, id string) (domain.Node, error) {
	if err := application.ValidateRequired(field, id); err != nil {
		return domain.Node{}, err
	}
	n, ok := g.Node(id)
	if !ok {
		return domain.Node{}, &application.NotFoundError{Kind: "node", ID: id}
	}
	return n, nil
}
