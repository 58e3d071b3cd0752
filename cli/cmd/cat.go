/*
Copyright © 2025 NAME HERE <EMAIL ADDRESS>
*/
package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

// catCmd represents the cat command
var catCmd = &cobra.Command{
	Use:   "cat <room...>",
	Short: "Displays the history of rooms.",
	Long: `Displays the chat history of one or more rooms, oldest line first.
Rooms that no longer exist are answered from the server's audit log.`,
	Args:              cobra.MinimumNArgs(1),
	ValidArgsFunction: RoomCompletionFunc,
	Run: func(cmd *cobra.Command, args []string) {
		for _, room := range args {
			lines, err := history(room)
			if err != nil {
				fmt.Fprintf(os.Stderr, "Error calling RoomHistory for %s: %v\n", room, err)
				continue
			}
			for _, line := range lines {
				fmt.Println(line)
			}
		}
	},
}

func history(room string) ([]string, error) {
	ctx, cancel := callContext()
	defer cancel()
	return adminClient.RoomHistory(ctx, room)
}

func init() {
	rootCmd.AddCommand(catCmd)
}
