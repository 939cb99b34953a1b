package cmd

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"flowbuilder/internal/application/commands"
)

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List saved flows",
	Long: `List the flows in the database with their node and edge counts.

Examples:
  flowbuilder-cli list
  flowbuilder-cli list --db ./flows.db`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := context.Background()
		listCmd := commands.NewListFlowsCommand(GetStore())
		flows, err := listCmd.Execute(ctx)
		if err != nil {
			return err
		}

		if len(flows) == 0 {
			fmt.Println("No flows saved")
			return nil
		}
		for _, f := range flows {
			saved := "never"
			if !f.SavedAt.IsZero() {
				saved = f.SavedAt.Local().Format(time.DateTime)
			}
			fmt.Printf("%-20s %3d nodes %3d edges  saved %s\n", f.Name, f.Nodes, f.Edges, saved)
		}
		return nil
	},
}

var showCmd = &cobra.Command{
	Use:   "show <flow>",
	Short: "Show the messages of a flow",
	Long: `Show every message of a flow in order, with its position and the
message it leads to.

Examples:
  flowbuilder-cli show main
  flowbuilder-cli show main --format json`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := context.Background()
		flow, err := commands.NewLoadFlowCommand(GetStore(), args[0]).Execute(ctx)
		if err != nil {
			return err
		}
		out, err := formatFlow(flow, showFormat)
		if err != nil {
			return err
		}
		fmt.Print(out)
		return nil
	},
}

var validateCmd = &cobra.Command{
	Use:   "validate <flow>",
	Short: "Check whether a flow can be saved",
	Long: `Check a stored flow against the save rule: a flow with more than one
message may have at most one message without an incoming connection.

Exits with an error when the flow would be rejected.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := context.Background()
		result, err := commands.NewValidateFlowCommand(GetStore(), args[0]).Execute(ctx)
		if err != nil {
			return err
		}
		if !result.Valid {
			return fmt.Errorf("%s: %d messages without incoming connections: %v", result.Message, len(result.Entries), result.Entries)
		}
		fmt.Println(result.Message)
		return nil
	},
}

var showFormat string

func init() {
	rootCmd.AddCommand(listCmd)
	rootCmd.AddCommand(showCmd)
	rootCmd.AddCommand(validateCmd)
	showCmd.Flags().StringVarP(&showFormat, "format", "f", "text", "output format: text, json, hcl or svg")
}
