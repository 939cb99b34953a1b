package ports

import (
	"context"

	"flowbuilder/internal/domain"
)

// FlowStore persists named flows. Unknown flows yield application.ErrNotFound.
type FlowStore interface {
	// SaveFlow replaces the stored flow with the same name
	SaveFlow(ctx context.Context, flow domain.Flow) error
	LoadFlow(ctx context.Context, name string) (domain.Flow, error)
	ListFlows(ctx context.Context) ([]domain.FlowSummary, error)
	DeleteFlow(ctx context.Context, name string) error
}
