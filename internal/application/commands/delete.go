package commands

import (
	"context"
	"fmt"

	"flowbuilder/internal/application"
	"flowbuilder/internal/ports"
)

// DeleteResult contains the result of a delete operation
type DeleteResult struct {
	Flow    string
	Message string
}

// DeleteFlowCommand deletes a stored flow by name
type DeleteFlowCommand struct {
	store ports.FlowStore
	Name  string
}

// NewDeleteFlowCommand creates a new DeleteFlowCommand
func NewDeleteFlowCommand(store ports.FlowStore, name string) *DeleteFlowCommand {
	return &DeleteFlowCommand{
		store: store,
		Name:  name,
	}
}

// Validate checks if the delete operation is valid
func (c *DeleteFlowCommand) Validate() error {
	return application.ValidateFlowName(c.Name)
}

// Execute runs the delete command
func (c *DeleteFlowCommand) Execute(ctx context.Context) (*DeleteResult, error) {
	if err := c.Validate(); err != nil {
		return nil, err
	}

	if err := c.store.DeleteFlow(ctx, c.Name); err != nil {
		return nil, fmt.Errorf("failed to delete %s: %w", c.Name, err)
	}

	return &DeleteResult{
		Flow:    c.Name,
		Message: fmt.Sprintf("Deleted flow %s", c.Name),
	}, nil
}
