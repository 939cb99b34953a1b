package cmd

import (
	"context"
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"flowbuilder/internal/application/commands"
	"flowbuilder/internal/domain"
)

var (
	addAfter  string
	addBefore string
)

var addCmd = &cobra.Command{
	Use:   "add <flow> <text>",
	Short: "Add a message to a flow",
	Long: `Add a message to a flow, creating the flow if needed. Use --after to
connect an existing message to the new one, and --before to connect the
new message to an existing one.

The flow is saved only if it still passes the save rule.

Examples:
  flowbuilder-cli add main "Hi there"
  flowbuilder-cli add main "How can I help?" --after node_1234`,
	Args: cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := context.Background()

		addCmd := commands.NewAddMessageCommand(GetStore(), GetLogger(), args[0], args[1])
		addCmd.After = addAfter
		addCmd.Before = addBefore
		result, err := addCmd.Execute(ctx)
		if err != nil {
			return err
		}
		fmt.Println(result.Message)
		return nil
	},
}

var connectCmd = &cobra.Command{
	Use:   "connect <flow> <source-id> <target-id>",
	Short: "Connect one message to another",
	Long: `Connect the output of a message to the input of another. A message
leads to at most one other message, so an existing connection from the
source is replaced.`,
	Args: cobra.ExactArgs(3),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := context.Background()

		connectCmd := commands.NewConnectCommand(GetStore(), GetLogger(), args[0], args[1], args[2])
		result, err := connectCmd.Execute(ctx)
		if err != nil {
			return err
		}
		fmt.Println(result.Message)
		return nil
	},
}

var setTextCmd = &cobra.Command{
	Use:   "set-text <flow> <node-id> <text>",
	Short: "Replace the text of a message",
	Args:  cobra.ExactArgs(3),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := context.Background()

		setCmd := commands.NewSetTextCommand(GetStore(), GetLogger(), args[0], args[1], args[2])
		result, err := setCmd.Execute(ctx)
		if err != nil {
			return err
		}
		fmt.Println(result.Message)
		return nil
	},
}

var moveCmd = &cobra.Command{
	Use:   "move <flow> <node-id> <x> <y>",
	Short: "Move a message on the canvas",
	Args:  cobra.ExactArgs(4),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := context.Background()

		x, err := strconv.ParseFloat(args[2], 64)
		if err != nil {
			return fmt.Errorf("invalid x %q: %w", args[2], err)
		}
		y, err := strconv.ParseFloat(args[3], 64)
		if err != nil {
			return fmt.Errorf("invalid y %q: %w", args[3], err)
		}

		moveCmd := commands.NewMoveMessageCommand(GetStore(), GetLogger(), args[0], args[1], domain.Point{X: x, Y: y})
		result, err := moveCmd.Execute(ctx)
		if err != nil {
			return err
		}
		fmt.Println(result.Message)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(addCmd)
	rootCmd.AddCommand(connectCmd)
	rootCmd.AddCommand(setTextCmd)
	rootCmd.AddCommand(moveCmd)
	addCmd.Flags().StringVar(&addAfter, "after", "", "connect this message to the new one")
	addCmd.Flags().StringVar(&addBefore, "before", "", "connect the new one to this message")
}
