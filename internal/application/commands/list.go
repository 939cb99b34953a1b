package commands

import (
	"context"

	"flowbuilder/internal/application"
	"flowbuilder/internal/domain"
	"flowbuilder/internal/ports"
)

// ListFlowsCommand lists all stored flows
type ListFlowsCommand struct {
	store ports.FlowStore
}

// NewListFlowsCommand creates a new ListFlowsCommand
func NewListFlowsCommand(store ports.FlowStore) *ListFlowsCommand {
	return &ListFlowsCommand{store: store}
}

// Execute runs the list flows command
func (c *ListFlowsCommand) Execute(ctx context.Context) ([]domain.FlowSummary, error) {
	return c.store.ListFlows(ctx)
}

// LoadFlowCommand loads a stored flow by name
type LoadFlowCommand struct {
	store ports.FlowStore
	Name  string
}

// NewLoadFlowCommand creates a new LoadFlowCommand
func NewLoadFlowCommand(store ports.FlowStore, name string) *LoadFlowCommand {
	return &LoadFlowCommand{
		store: store,
		Name:  name,
	}
}

// Execute runs the load flow command
func (c *LoadFlowCommand) Execute(ctx context.Context) (domain.Flow, error) {
	if err := application.ValidateFlowName(c.Name); err != nil {
		return domain.Flow{}, err
	}
	return c.store.LoadFlow(ctx, c.Name)
}
