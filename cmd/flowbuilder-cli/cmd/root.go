package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"flowbuilder/internal/adapters/flowstore"
	"flowbuilder/internal/config"
	"flowbuilder/internal/logging"
	"flowbuilder/internal/ports"
)

var (
	dbPath   string
	flowsDir string
	backend  string
	verbose  bool
	store    *flowstore.Handle
	logger   *zap.Logger
)

var rootCmd = &cobra.Command{
	Use:   "flowbuilder-cli",
	Short: "CLI for managing saved chatbot flows",
	Long: `flowbuilder-cli is a command-line interface for the flows edited
with flowbuilder.

It provides commands to list, show, validate, export, import, edit,
search and delete flows in the flow store.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		// Skip initialization for help commands
		if cmd.Name() == "help" || cmd.Name() == "completion" {
			return nil
		}

		cfg, err := config.Load()
		if err != nil {
			return err
		}
		flags := cmd.Flags()
		if flags.Changed("backend") {
			cfg.Backend = backend
		}
		if flags.Changed("db") {
			cfg.DBPath = dbPath
		}
		if flags.Changed("dir") {
			cfg.FlowsDir = flowsDir
		}
		if err := cfg.Validate(); err != nil {
			return err
		}
		if !verbose {
			cfg.Log.Level = "warn"
		}
		logger, err = logging.New(cfg.Log)
		if err != nil {
			return err
		}

		store, err = flowstore.Open(cfg)
		if err != nil {
			return err
		}
		logger.Info("flow store opened", zap.String("backend", cfg.Backend), zap.String("location", store.Location))
		return nil
	},
	PersistentPostRunE: func(cmd *cobra.Command, args []string) error {
		if logger != nil {
			logger.Sync()
		}
		if store != nil {
			return store.Close()
		}
		return nil
	},
}

// Execute runs the root command
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&backend, "backend", config.BackendSQLite, "flow store backend (sqlite|files)")
	rootCmd.PersistentFlags().StringVar(&dbPath, "db", config.DBPath(), "path to the flow database")
	rootCmd.PersistentFlags().StringVar(&flowsDir, "dir", config.DefaultFlowsDir, "directory of flow files for the files backend")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "V", false, "log info messages to stderr")
}

// GetStore returns the opened flow store
func GetStore() ports.FlowStore {
	return store
}

// GetLogger returns the command logger
func GetLogger() *zap.Logger {
	if logger == nil {
		return zap.NewNop()
	}
	return logger
}
