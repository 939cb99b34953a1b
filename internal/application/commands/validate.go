package commands

import (
	"context"

	"flowbuilder/internal/application"
	"flowbuilder/internal/domain"
	"flowbuilder/internal/ports"
)

// ValidateFlowResult reports whether a stored flow would pass the save check
type ValidateFlowResult struct {
	Flow    domain.Flow
	Entries []string
	Valid   bool
	Message string
}

// ValidateFlowCommand runs the save check against a stored flow
type ValidateFlowCommand struct {
	store ports.FlowStore
	Name  string
}

// NewValidateFlowCommand creates a new ValidateFlowCommand
func NewValidateFlowCommand(store ports.FlowStore, name string) *ValidateFlowCommand {
	return &ValidateFlowCommand{
		store: store,
		Name:  name,
	}
}

// Execute runs the validate command. A failing check is a result, not an error.
func (c *ValidateFlowCommand) Execute(ctx context.Context) (*ValidateFlowResult, error) {
	if err := application.ValidateFlowName(c.Name); err != nil {
		return nil, err
	}

	flow, err := c.store.LoadFlow(ctx, c.Name)
	if err != nil {
		return nil, err
	}

	return CheckFlow(flow), nil
}

// CheckFlow runs the save check against an in-memory flow
func CheckFlow(flow domain.Flow) *ValidateFlowResult {
	res := &ValidateFlowResult{
		Flow:    flow,
		Entries: domain.EntryNodes(flow.Nodes, flow.Edges),
		Valid:   true,
		Message: "Flow is valid",
	}
	if err := domain.ValidateForSave(flow.Nodes, flow.Edges); err != nil {
		res.Valid = false
		res.Message = application.SaveRejectedMessage
	}
	return res
}
