package cmd

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"flowbuilder/internal/application/commands"
)

var searchCmd = &cobra.Command{
	Use:   "search <flow> <query>",
	Short: "Find messages in a flow",
	Long: `Search the messages of a flow by node ID or text.

Results are ranked by relevance using fuzzy matching.

Examples:
  flowbuilder-cli search main welcome
  flowbuilder-cli search main node_`,
	Args: cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := context.Background()

		searchCmd := commands.NewSearchMessagesCommand(GetStore(), args[0], args[1])
		results, err := searchCmd.Execute(ctx)
		if err != nil {
			return err
		}

		if len(results) == 0 {
			fmt.Println("No results found")
			return nil
		}

		for _, r := range results {
			fmt.Printf("[%3d] %s %q\n", r.Score, r.Node.ID, r.Node.Text())
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(searchCmd)
}
