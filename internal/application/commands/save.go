package commands

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"flowbuilder/internal/application"
	"flowbuilder/internal/domain"
	"flowbuilder/internal/ports"
)

// SaveFlowResult contains the result of saving a flow
type SaveFlowResult struct {
	Flow    domain.Flow
	Message string
}

// SaveFlowCommand checks a flow and stores it when it passes
type SaveFlowCommand struct {
	store  ports.FlowStore
	logger *zap.Logger
	now    func() time.Time
	Flow   domain.Flow
}

// NewSaveFlowCommand creates a new SaveFlowCommand
func NewSaveFlowCommand(store ports.FlowStore, logger *zap.Logger, flow domain.Flow) *SaveFlowCommand {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &SaveFlowCommand{
		store:  store,
		logger: logger,
		now:    time.Now,
		Flow:   flow,
	}
}

// Validate checks the flow's contents and its entry node rule.
// A structural violation is reported as *application.SaveRejectedError.
func (c *SaveFlowCommand) Validate() error {
	if err := application.ValidateFlow(c.Flow); err != nil {
		return err
	}

	if err := domain.ValidateForSave(c.Flow.Nodes, c.Flow.Edges); err != nil {
		var structErr *domain.StructureError
		if errors.As(err, &structErr) {
			return &application.SaveRejectedError{Flow: c.Flow.Name, Roots: structErr.Entries}
		}
		return err
	}
	return nil
}

// Execute runs the save command. Nothing is written when validation fails.
func (c *SaveFlowCommand) Execute(ctx context.Context) (*SaveFlowResult, error) {
	if err := c.Validate(); err != nil {
		var rejected *application.SaveRejectedError
		if errors.As(err, &rejected) {
			c.logger.Warn("save rejected",
				zap.String("flow", rejected.Flow),
				zap.Strings("roots", rejected.Roots),
			)
		}
		return nil, err
	}

	flow := c.Flow
	flow.SavedAt = c.now().UTC()

	if err := c.store.SaveFlow(ctx, flow); err != nil {
		c.logger.Error("store save failed", zap.String("flow", flow.Name), zap.Error(err))
		return nil, fmt.Errorf("failed to save flow %s: %w", flow.Name, err)
	}

	c.logger.Info("flow saved",
		zap.String("flow", flow.Name),
		zap.Any("nodes", flow.Nodes),
		zap.Any("edges", flow.Edges),
	)

	return &SaveFlowResult{
		Flow:    flow,
		Message: application.SavedMessage,
	}, nil
}
