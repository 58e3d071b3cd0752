/*
Copyright © 2025 NAME HERE <EMAIL ADDRESS>
*/
package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

// grepCmd represents the grep command
var grepCmd = &cobra.Command{
	Use:   "grep <pattern> [room]",
	Short: "Searches the audit log with a regular expression.",
	Long: `Searches the persisted event log of the server for entries whose content
matches the given regular expression. Without a room every room is searched.`,
	Args:              cobra.RangeArgs(1, 2),
	ValidArgsFunction: grepCompletion,
	Run: func(cmd *cobra.Command, args []string) {
		pattern := args[0]
		room := ""
		if len(args) == 2 {
			room = args[1]
		}

		ctx, cancel := callContext()
		defer cancel()

		events, err := adminClient.SearchLog(ctx, room, pattern)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error calling SearchLog for pattern '%s': %v\n", pattern, err)
			return
		}
		for _, e := range events {
			fmt.Printf("%v %s: [%v] %v\n", e["created_at"], e["room"], e["sender"], e["content"])
		}
	},
}

// The room is the second argument.
func grepCompletion(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
	if len(args) != 1 {
		return nil, cobra.ShellCompDirectiveNoFileComp
	}
	return RoomCompletionFunc(cmd, nil, toComplete)
}

func init() {
	rootCmd.AddCommand(grepCmd)
}
