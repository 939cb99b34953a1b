package cmd

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"flowbuilder/internal/application/commands"
)

var deleteCmd = &cobra.Command{
	Use:   "delete <flow>",
	Short: "Delete a saved flow",
	Long: `Delete a flow and all of its messages and connections.

Warning: This operation cannot be undone.

Examples:
  flowbuilder-cli delete onboarding`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := context.Background()

		deleteCmd := commands.NewDeleteFlowCommand(GetStore(), args[0])
		result, err := deleteCmd.Execute(ctx)
		if err != nil {
			return err
		}
		fmt.Println(result.Message)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(deleteCmd)
}
