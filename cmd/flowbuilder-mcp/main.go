package main

import (
	"context"
	"flag"
	"log"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"flowbuilder/internal/adapters/flowstore"
	mcpadapter "flowbuilder/internal/adapters/mcp"
	"flowbuilder/internal/config"
	"flowbuilder/internal/logging"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("flowbuilder-mcp: %v", err)
	}
	flag.StringVar(&cfg.Backend, "backend", cfg.Backend, "flow store backend (sqlite|files)")
	flag.StringVar(&cfg.DBPath, "db", cfg.DBPath, "path to the flow database")
	flag.StringVar(&cfg.FlowsDir, "dir", cfg.FlowsDir, "directory of flow files for the files backend")
	flag.StringVar(&cfg.Flow, "flow", cfg.Flow, "flow used when a tool call names none")
	flag.Parse()
	if err := cfg.Validate(); err != nil {
		log.Fatalf("flowbuilder-mcp: %v", err)
	}

	// stdout carries the protocol, so logs go to the configured file or stderr
	logger, err := logging.New(cfg.Log)
	if err != nil {
		log.Fatalf("flowbuilder-mcp: %v", err)
	}
	defer logger.Sync()

	store, err := flowstore.Open(cfg)
	if err != nil {
		log.Fatalf("flowbuilder-mcp: %v", err)
	}
	defer store.Close()

	mcpServer := server.NewMCPServer(
		"flowbuilder-mcp",
		"0.1.0",
		server.WithToolCapabilities(true),
	)

	mcpServer.AddTool(
		mcp.NewTool("ping",
			mcp.WithDescription("Health check, returns pong"),
		),
		func(_ context.Context, _ mcp.CallToolRequest) (*mcp.CallToolResult, error) {
			return mcp.NewToolResultText("pong"), nil
		},
	)

	mcpadapter.RegisterReadTools(mcpServer, store, cfg.Flow)
	mcpadapter.RegisterWriteTools(mcpServer, store, logger.Named("mcp"), cfg.Flow)

	if err := server.ServeStdio(mcpServer); err != nil {
		log.Fatalf("flowbuilder-mcp: %v", err)
	}
}
