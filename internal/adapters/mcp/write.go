package mcp

import (
	"context"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
	"go.uber.org/zap"

	"flowbuilder/internal/adapters/hclflow"
	"flowbuilder/internal/application"
	"flowbuilder/internal/application/commands"
	"flowbuilder/internal/domain"
	"flowbuilder/internal/ports"
)

// RegisterWriteTools adds all flow editing tools to the MCP server.
// Every edit is saved through the save check, so a change that would leave
// a flow with more than one entry node is refused.
func RegisterWriteTools(s *server.MCPServer, store ports.FlowStore, logger *zap.Logger, defaultFlow string) {
	s.AddTool(addMessageTool(), addMessageHandler(store, logger, defaultFlow))
	s.AddTool(connectTool(), connectHandler(store, logger, defaultFlow))
	s.AddTool(setTextTool(), setTextHandler(store, logger, defaultFlow))
	s.AddTool(moveMessageTool(), moveMessageHandler(store, logger, defaultFlow))
	s.AddTool(importFlowTool(), importFlowHandler(store, logger))
	s.AddTool(deleteFlowTool(), deleteFlowHandler(store))
}

// --- add_message ---

func addMessageTool() mcp.Tool {
	return mcp.NewTool("add_message",
		mcp.WithDescription("Add a message to a flow, creating the flow if needed. Give after and/or before to link it into the chain; an unlinked message is only accepted in an empty flow."),
		withFlow(),
		mcp.WithString("text",
			mcp.Description("Message text. Defaults to \"New message\"."),
		),
		mcp.WithString("after",
			mcp.Description("ID of the message that should lead to the new one. Its previous edge is replaced."),
		),
		mcp.WithString("before",
			mcp.Description("ID of the message the new one should lead to"),
		),
		mcp.WithNumber("x", mcp.Description("Canvas X position")),
		mcp.WithNumber("y", mcp.Description("Canvas Y position")),
	)
}

func addMessageHandler(store ports.FlowStore, logger *zap.Logger, defaultFlow string) server.ToolHandlerFunc {
	return func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		cmd := commands.NewAddMessageCommand(store, logger, flowArg(req, defaultFlow), req.GetString("text", ""))
		cmd.After = req.GetString("after", "")
		cmd.Before = req.GetString("before", "")
		if pos, ok := positionArg(req); ok {
			cmd.Position = &pos
		}

		result, err := cmd.Execute(ctx)
		if err != nil {
			return toolError(err)
		}
		return mcp.NewToolResultText(result.Message), nil
	}
}

// positionArg reads x and y, reporting whether either was given
func positionArg(req mcp.CallToolRequest) (domain.Point, bool) {
	args := req.GetArguments()
	_, hasX := args["x"]
	_, hasY := args["y"]
	return domain.Point{
		X: req.GetFloat("x", 0),
		Y: req.GetFloat("y", 0),
	}, hasX || hasY
}

// --- connect ---

func connectTool() mcp.Tool {
	return mcp.NewTool("connect",
		mcp.WithDescription("Make one message lead to another. A message has a single outgoing edge, so any previous edge from the source is replaced."),
		withFlow(),
		mcp.WithString("source_id",
			mcp.Description("ID of the message the edge leaves"),
			mcp.Required(),
		),
		mcp.WithString("target_id",
			mcp.Description("ID of the message the edge enters"),
			mcp.Required(),
		),
	)
}

func connectHandler(store ports.FlowStore, logger *zap.Logger, defaultFlow string) server.ToolHandlerFunc {
	return func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		cmd := commands.NewConnectCommand(store, logger,
			flowArg(req, defaultFlow),
			req.GetString("source_id", ""),
			req.GetString("target_id", ""),
		)
		result, err := cmd.Execute(ctx)
		if err != nil {
			return toolError(err)
		}
		return mcp.NewToolResultText(result.Message), nil
	}
}

// --- set_text ---

func setTextTool() mcp.Tool {
	return mcp.NewTool("set_text",
		mcp.WithDescription("Replace the text of a message."),
		withFlow(),
		mcp.WithString("node_id",
			mcp.Description("ID of the message"),
			mcp.Required(),
		),
		mcp.WithString("text",
			mcp.Description("New text. May be empty."),
			mcp.Required(),
		),
	)
}

func setTextHandler(store ports.FlowStore, logger *zap.Logger, defaultFlow string) server.ToolHandlerFunc {
	return func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		cmd := commands.NewSetTextCommand(store, logger,
			flowArg(req, defaultFlow),
			req.GetString("node_id", ""),
			req.GetString("text", ""),
		)
		result, err := cmd.Execute(ctx)
		if err != nil {
			return toolError(err)
		}
		return mcp.NewToolResultText(result.Message), nil
	}
}

// --- move_message ---

func moveMessageTool() mcp.Tool {
	return mcp.NewTool("move_message",
		mcp.WithDescription("Move a message on the canvas. Negative coordinates are clamped to zero."),
		withFlow(),
		mcp.WithString("node_id",
			mcp.Description("ID of the message"),
			mcp.Required(),
		),
		mcp.WithNumber("x", mcp.Description("Canvas X position"), mcp.Required()),
		mcp.WithNumber("y", mcp.Description("Canvas Y position"), mcp.Required()),
	)
}

func moveMessageHandler(store ports.FlowStore, logger *zap.Logger, defaultFlow string) server.ToolHandlerFunc {
	return func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		pos, _ := positionArg(req)
		cmd := commands.NewMoveMessageCommand(store, logger, flowArg(req, defaultFlow), req.GetString("node_id", ""), pos)
		result, err := cmd.Execute(ctx)
		if err != nil {
			return toolError(err)
		}
		return mcp.NewToolResultText(result.Message), nil
	}
}

// --- import_flow ---

func importFlowTool() mcp.Tool {
	return mcp.NewTool("import_flow",
		mcp.WithDescription("Save every flow defined in an HCL document (flow \"name\" { message \"id\" { text = \"...\" next = \"id\" } })."),
		mcp.WithString("hcl",
			mcp.Description("HCL source"),
			mcp.Required(),
		),
	)
}

func importFlowHandler(store ports.FlowStore, logger *zap.Logger) server.ToolHandlerFunc {
	return func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		src := req.GetString("hcl", "")
		if err := application.ValidateRequired("hcl", src); err != nil {
			return toolError(err)
		}

		flows, err := hclflow.Decode([]byte(src), "import.hcl")
		if err != nil {
			return toolError(err)
		}
		if len(flows) == 0 {
			return toolError(fmt.Errorf("no flow blocks found"))
		}

		// Check everything first so a bad flow does not leave the rest half imported
		for _, f := range flows {
			if err := commands.NewSaveFlowCommand(store, logger, f).Validate(); err != nil {
				return toolError(fmt.Errorf("flow %s: %w", f.Name, err))
			}
		}
		for _, f := range flows {
			if _, err := commands.NewSaveFlowCommand(store, logger, f).Execute(ctx); err != nil {
				return toolError(fmt.Errorf("flow %s: %w", f.Name, err))
			}
		}
		return mcp.NewToolResultText(fmt.Sprintf("Imported %d flow(s)", len(flows))), nil
	}
}

// --- delete_flow ---

func deleteFlowTool() mcp.Tool {
	return mcp.NewTool("delete_flow",
		mcp.WithDescription("Delete a saved flow."),
		mcp.WithString("flow",
			mcp.Description("Flow name"),
			mcp.Required(),
		),
	)
}

func deleteFlowHandler(store ports.FlowStore) server.ToolHandlerFunc {
	return func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		result, err := commands.NewDeleteFlowCommand(store, req.GetString("flow", "")).Execute(ctx)
		if err != nil {
			return toolError(err)
		}
		return mcp.NewToolResultText(result.Message), nil
	}
}
