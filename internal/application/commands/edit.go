package commands

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"flowbuilder/internal/application"
	"flowbuilder/internal/domain"
	"flowbuilder/internal/ports"
)

// NodeSpacing is the horizontal gap used when placing a message next to another
const NodeSpacing = 300

// AddMessageResult contains the result of adding a message
type AddMessageResult struct {
	Node    domain.Node
	Flow    domain.Flow
	Message string
}

// AddMessageCommand adds a message node to a stored flow, optionally linking
// it after and/or before existing nodes. A missing flow is created.
type AddMessageCommand struct {
	store    ports.FlowStore
	logger   *zap.Logger
	FlowName string
	Text     string
	After    string
	Before   string
	Position *domain.Point
}

// NewAddMessageCommand creates a new AddMessageCommand
func NewAddMessageCommand(store ports.FlowStore, logger *zap.Logger, flow, text string) *AddMessageCommand {
	return &AddMessageCommand{
		store:    store,
		logger:   logger,
		FlowName: flow,
		Text:     text,
	}
}

// Validate checks if the add operation is valid
func (c *AddMessageCommand) Validate() error {
	return application.ValidateFlowName(c.FlowName)
}

// Execute runs the add message command
func (c *AddMessageCommand) Execute(ctx context.Context) (*AddMessageResult, error) {
	if err := c.Validate(); err != nil {
		return nil, err
	}

	g, err := loadGraph(ctx, c.store, c.FlowName, true)
	if err != nil {
		return nil, err
	}

	var after, before domain.Node
	if c.After != "" {
		if after, err = requireNode(g, "afterID", c.After); err != nil {
			return nil, err
		}
	}
	if c.Before != "" {
		if before, err = requireNode(g, "beforeID", c.Before); err != nil {
			return nil, err
		}
	}

	var pos domain.Point
	switch {
	case c.Position != nil:
		pos = *c.Position
	case c.After != "":
		pos = after.Position.Add(domain.Point{X: NodeSpacing})
	case c.Before != "":
		pos = before.Position.Sub(domain.Point{X: NodeSpacing})
	default:
		pos = domain.Point{X: 100 + NodeSpacing*float64(g.Len()), Y: 100}
	}

	text := c.Text
	if text == "" {
		text = domain.DefaultText
	}

	n := g.AddNode(domain.NodeTypeText, pos.ClampNonNegative(), domain.TextData{Text: text})
	if c.After != "" {
		g.Connect(c.After, n.ID)
	}
	if c.Before != "" {
		g.Connect(n.ID, c.Before)
	}

	saved, err := NewSaveFlowCommand(c.store, c.logger, g.Flow(c.FlowName)).Execute(ctx)
	if err != nil {
		return nil, err
	}

	return &AddMessageResult{
		Node:    n,
		Flow:    saved.Flow,
		Message: fmt.Sprintf("Added message %s to %s", n.ID, c.FlowName),
	}, nil
}

// ConnectResult contains the result of connecting two nodes
type ConnectResult struct {
	Edge     domain.Edge
	Replaced *domain.Edge
	Message  string
}

// ConnectCommand links a node's output to another node's input in a stored
// flow, replacing the source's previous edge
type ConnectCommand struct {
	store    ports.FlowStore
	logger   *zap.Logger
	FlowName string
	SourceID string
	TargetID string
}

// NewConnectCommand creates a new ConnectCommand
func NewConnectCommand(store ports.FlowStore, logger *zap.Logger, flow, sourceID, targetID string) *ConnectCommand {
	return &ConnectCommand{
		store:    store,
		logger:   logger,
		FlowName: flow,
		SourceID: sourceID,
		TargetID: targetID,
	}
}

// Validate checks if the connect operation is valid
func (c *ConnectCommand) Validate() error {
	if err := application.ValidateFlowName(c.FlowName); err != nil {
		return err
	}
	if err := application.ValidateRequired("sourceID", c.SourceID); err != nil {
		return err
	}
	if err := application.ValidateRequired("targetID", c.TargetID); err != nil {
		return err
	}
	if c.SourceID == c.TargetID {
		return &application.ConnectionError{
			SourceID: c.SourceID,
			TargetID: c.TargetID,
			Reason:   "a node cannot connect to itself",
		}
	}
	return nil
}

// Execute runs the connect command
func (c *ConnectCommand) Execute(ctx context.Context) (*ConnectResult, error) {
	if err := c.Validate(); err != nil {
		return nil, err
	}

	g, err := loadGraph(ctx, c.store, c.FlowName, false)
	if err != nil {
		return nil, err
	}
	if _, err := requireNode(g, "sourceID", c.SourceID); err != nil {
		return nil, err
	}
	if _, err := requireNode(g, "targetID", c.TargetID); err != nil {
		return nil, err
	}

	res := &ConnectResult{}
	if prev, ok := g.OutgoingEdge(c.SourceID); ok {
		res.Replaced = &prev
	}
	res.Edge = g.Connect(c.SourceID, c.TargetID)

	if _, err := NewSaveFlowCommand(c.store, c.logger, g.Flow(c.FlowName)).Execute(ctx); err != nil {
		return nil, err
	}

	res.Message = fmt.Sprintf("Connected %s to %s", c.SourceID, c.TargetID)
	if res.Replaced != nil && res.Replaced.Target != c.TargetID {
		res.Message += fmt.Sprintf(" (was %s)", res.Replaced.Target)
	}
	return res, nil
}

// NodeEditResult contains the node after an edit
type NodeEditResult struct {
	Node    domain.Node
	Message string
}

// SetTextCommand replaces the message text of a node in a stored flow
type SetTextCommand struct {
	store    ports.FlowStore
	logger   *zap.Logger
	FlowName string
	NodeID   string
	Text     string
}

// NewSetTextCommand creates a new SetTextCommand
func NewSetTextCommand(store ports.FlowStore, logger *zap.Logger, flow, nodeID, text string) *SetTextCommand {
	return &SetTextCommand{
		store:    store,
		logger:   logger,
		FlowName: flow,
		NodeID:   nodeID,
		Text:     text,
	}
}

// Validate checks if the edit is valid. Empty text is allowed.
func (c *SetTextCommand) Validate() error {
	if err := application.ValidateFlowName(c.FlowName); err != nil {
		return err
	}
	return application.ValidateRequired("nodeID", c.NodeID)
}

// Execute runs the set text command
func (c *SetTextCommand) Execute(ctx context.Context) (*NodeEditResult, error) {
	if err := c.Validate(); err != nil {
		return nil, err
	}

	g, err := loadGraph(ctx, c.store, c.FlowName, false)
	if err != nil {
		return nil, err
	}
	if _, err := requireNode(g, "nodeID", c.NodeID); err != nil {
		return nil, err
	}

	n, _ := g.UpdateNodeData(c.NodeID, domain.TextPatch(c.Text))
	if _, err := NewSaveFlowCommand(c.store, c.logger, g.Flow(c.FlowName)).Execute(ctx); err != nil {
		return nil, err
	}

	return &NodeEditResult{
		Node:    n,
		Message: fmt.Sprintf("Updated text of %s", c.NodeID),
	}, nil
}

// MoveMessageCommand repositions a node in a stored flow. Negative
// coordinates are clamped to zero.
type MoveMessageCommand struct {
	store    ports.FlowStore
	logger   *zap.Logger
	FlowName string
	NodeID   string
	Position domain.Point
}

// NewMoveMessageCommand creates a new MoveMessageCommand
func NewMoveMessageCommand(store ports.FlowStore, logger *zap.Logger, flow, nodeID string, pos domain.Point) *MoveMessageCommand {
	return &MoveMessageCommand{
		store:    store,
		logger:   logger,
		FlowName: flow,
		NodeID:   nodeID,
		Position: pos,
	}
}

// Validate checks if the move is valid
func (c *MoveMessageCommand) Validate() error {
	if err := application.ValidateFlowName(c.FlowName); err != nil {
		return err
	}
	return application.ValidateRequired("nodeID", c.NodeID)
}

// Execute runs the move command
func (c *MoveMessageCommand) Execute(ctx context.Context) (*NodeEditResult, error) {
	if err := c.Validate(); err != nil {
		return nil, err
	}

	g, err := loadGraph(ctx, c.store, c.FlowName, false)
	if err != nil {
		return nil, err
	}
	if _, err := requireNode(g, "nodeID", c.NodeID); err != nil {
		return nil, err
	}

	n, _ := g.MoveNode(c.NodeID, c.Position.ClampNonNegative())
	if _, err := NewSaveFlowCommand(c.store, c.logger, g.Flow(c.FlowName)).Execute(ctx); err != nil {
		return nil, err
	}

	return &NodeEditResult{
		Node:    n,
		Message: fmt.Sprintf("Moved %s to (%.0f, %.0f)", c.NodeID, n.Position.X, n.Position.Y),
	}, nil
}
