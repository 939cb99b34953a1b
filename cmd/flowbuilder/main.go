package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"go.uber.org/zap"

	"flowbuilder/internal/adapters/editor"
	"flowbuilder/internal/adapters/flowstore"
	"flowbuilder/internal/adapters/hclflow"
	"flowbuilder/internal/adapters/tui"
	"flowbuilder/internal/application"
	"flowbuilder/internal/application/commands"
	"flowbuilder/internal/config"
	"flowbuilder/internal/domain"
	flowedit "flowbuilder/internal/editor"
	"flowbuilder/internal/logging"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	flag.StringVar(&cfg.Flow, "flow", cfg.Flow, "name of the flow to edit")
	flag.StringVar(&cfg.Backend, "backend", cfg.Backend, "flow store backend (sqlite|files)")
	flag.StringVar(&cfg.DBPath, "db", cfg.DBPath, "path to the flow database")
	flag.StringVar(&cfg.FlowsDir, "dir", cfg.FlowsDir, "directory of flow files for the files backend")
	flag.StringVar(&cfg.SeedFile, "seed", cfg.SeedFile, "HCL file to start from when the flow has never been saved")
	flag.Parse()
	if err := cfg.Validate(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	if err := run(cfg); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run(cfg config.Config) error {
	logger, err := logging.ForTUI(cfg.Log)
	if err != nil {
		return err
	}
	defer logger.Sync()

	store, err := flowstore.Open(cfg)
	if err != nil {
		return err
	}
	defer store.Close()

	flow, err := initialFlow(context.Background(), store, cfg, logger)
	if err != nil {
		return err
	}

	layout := domain.DefaultLayout()
	session := flowedit.NewSession(domain.GraphFromFlow(flow),
		flowedit.WithLayout(layout),
		flowedit.WithLogger(logger.Named("editor")),
	)

	app := tui.NewApp(session, store, editor.NewOpener(), logger, tui.Options{
		FlowName: cfg.Flow,
		ScaleX:   cfg.Canvas.CellWidth,
		ScaleY:   cfg.Canvas.CellHeight,
	})

	p := tea.NewProgram(app, tea.WithAltScreen(), tea.WithMouseAllMotion())
	if _, err := p.Run(); err != nil {
		return err
	}
	return nil
}

// initialFlow returns the saved flow, else the flow of the same name in the
// seed file, else the demo flow
func initialFlow(ctx context.Context, store *flowstore.Handle, cfg config.Config, logger *zap.Logger) (domain.Flow, error) {
	flow, err := commands.NewLoadFlowCommand(store, cfg.Flow).Execute(ctx)
	switch {
	case err == nil:
		logger.Info("flow loaded", zap.String("flow", flow.Name), zap.String("from", store.Location))
		return flow, nil
	case !errors.Is(err, application.ErrNotFound):
		return domain.Flow{}, err
	}

	if cfg.SeedFile != "" {
		flows, err := hclflow.LoadFile(config.ExpandPath(cfg.SeedFile))
		if err != nil {
			return domain.Flow{}, err
		}
		if seeded, ok := hclflow.Find(flows, cfg.Flow); ok {
			logger.Info("flow loaded", zap.String("flow", seeded.Name), zap.String("from", cfg.SeedFile))
			return seeded, nil
		}
		logger.Warn("seed file has no such flow", zap.String("flow", cfg.Flow), zap.String("file", cfg.SeedFile))
	}

	logger.Info("starting from demo flow", zap.String("flow", cfg.Flow))
	return domain.DemoFlow(cfg.Flow), nil
}
