package mcp

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"flowbuilder/internal/adapters/hclflow"
	"flowbuilder/internal/application/commands"
	"flowbuilder/internal/domain"
	"flowbuilder/internal/ports"
)

// RegisterReadTools adds all read-only flow tools to the MCP server.
// Tools without a flow argument act on defaultFlow.
func RegisterReadTools(s *server.MCPServer, store ports.FlowStore, defaultFlow string) {
	s.AddTool(listFlowsTool(), listFlowsHandler(store))
	s.AddTool(getFlowTool(), getFlowHandler(store, defaultFlow))
	s.AddTool(validateFlowTool(), validateFlowHandler(store, defaultFlow))
	s.AddTool(findMessagesTool(), findMessagesHandler(store, defaultFlow))
}

func flowArg(req mcp.CallToolRequest, defaultFlow string) string {
	return req.GetString("flow", defaultFlow)
}

func withFlow() mcp.ToolOption {
	return mcp.WithString("flow",
		mcp.Description("Flow name. Omit to use the default flow."),
	)
}

// --- list_flows ---

func listFlowsTool() mcp.Tool {
	return mcp.NewTool("list_flows",
		mcp.WithDescription("List saved flows with their node and edge counts."),
	)
}

func listFlowsHandler(store ports.FlowStore) server.ToolHandlerFunc {
	return func(ctx context.Context, _ mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		flows, err := commands.NewListFlowsCommand(store).Execute(ctx)
		if err != nil {
			return toolError(err)
		}
		return formatEntities(flows, formatSummary)
	}
}

// --- get_flow ---

func getFlowTool() mcp.Tool {
	return mcp.NewTool("get_flow",
		mcp.WithDescription("Show a saved flow: its messages in order with the message each one leads to."),
		withFlow(),
		mcp.WithString("format",
			mcp.Description("Output format: text (default), json or hcl"),
			mcp.Enum("text", "json", "hcl"),
		),
	)
}

func getFlowHandler(store ports.FlowStore, defaultFlow string) server.ToolHandlerFunc {
	return func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		flow, err := commands.NewLoadFlowCommand(store, flowArg(req, defaultFlow)).Execute(ctx)
		if err != nil {
			return toolError(err)
		}

		switch format := req.GetString("format", "text"); format {
		case "json":
			b, err := json.MarshalIndent(flow, "", "  ")
			if err != nil {
				return toolError(err)
			}
			return mcp.NewToolResultText(string(b)), nil
		case "hcl":
			return mcp.NewToolResultText(string(hclflow.Encode(flow))), nil
		case "text":
			return mcp.NewToolResultText(formatFlow(flow)), nil
		default:
			return toolError(fmt.Errorf("unknown format: %s (expected text, json or hcl)", format))
		}
	}
}

// --- validate_flow ---

func validateFlowTool() mcp.Tool {
	return mcp.NewTool("validate_flow",
		mcp.WithDescription("Check whether a saved flow passes the save rule: at most one message without incoming edges."),
		withFlow(),
	)
}

func validateFlowHandler(store ports.FlowStore, defaultFlow string) server.ToolHandlerFunc {
	return func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		res, err := commands.NewValidateFlowCommand(store, flowArg(req, defaultFlow)).Execute(ctx)
		if err != nil {
			return toolError(err)
		}
		return mcp.NewToolResultText(fmt.Sprintf("%s\nentry nodes: %s", res.Message, strings.Join(res.Entries, ", "))), nil
	}
}

// --- find_messages ---

func findMessagesTool() mcp.Tool {
	return mcp.NewTool("find_messages",
		mcp.WithDescription("Fuzzy search the messages of a flow by ID or text."),
		withFlow(),
		mcp.WithString("query",
			mcp.Description("Search query (at least 2 characters)"),
			mcp.Required(),
		),
	)
}

func findMessagesHandler(store ports.FlowStore, defaultFlow string) server.ToolHandlerFunc {
	return func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		query := req.GetString("query", "")
		if query == "" {
			return toolError(fmt.Errorf("query is required"))
		}

		matches, err := commands.NewSearchMessagesCommand(store, flowArg(req, defaultFlow), query).Execute(ctx)
		if err != nil {
			return toolError(err)
		}
		if len(matches) == 0 {
			return mcp.NewToolResultText("No results found."), nil
		}

		var sb strings.Builder
		for _, m := range matches {
			fmt.Fprintf(&sb, "%s  %q\n", m.Node.ID, m.Node.Text())
		}
		return mcp.NewToolResultText(sb.String()), nil
	}
}

// --- helpers ---

func toolError(err error) (*mcp.CallToolResult, error) {
	return mcp.NewToolResultError(err.Error()), nil
}

func formatEntities[T any](entities []T, format func(T) string) (*mcp.CallToolResult, error) {
	if len(entities) == 0 {
		return mcp.NewToolResultText("No results."), nil
	}
	var sb strings.Builder
	for _, e := range entities {
		sb.WriteString(format(e))
		sb.WriteByte('\n')
	}
	return mcp.NewToolResultText(sb.String()), nil
}

func formatSummary(s domain.FlowSummary) string {
	saved := "never"
	if !s.SavedAt.IsZero() {
		saved = s.SavedAt.Format(time.RFC3339)
	}
	return fmt.Sprintf("%s  %d nodes  %d edges  saved %s", s.Name, s.Nodes, s.Edges, saved)
}

func formatFlow(f domain.Flow) string {
	next := make(map[string]string, len(f.Edges))
	for _, e := range f.Edges {
		next[e.Source] = e.Target
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, "flow %s (%d nodes, %d edges)\n", f.Name, len(f.Nodes), len(f.Edges))
	for _, n := range f.Nodes {
		fmt.Fprintf(&sb, "%s  (%.0f, %.0f)  %q", n.ID, n.Position.X, n.Position.Y, n.Text())
		if t, ok := next[n.ID]; ok {
			fmt.Fprintf(&sb, "  -> %s", t)
		}
		sb.WriteByte('\n')
	}
	return sb.String()
}
