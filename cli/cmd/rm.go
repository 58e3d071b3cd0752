/*
Copyright © 2025 NAME HERE <EMAIL ADDRESS>
*/
package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

// rmCmd represents the rm command
var rmCmd = &cobra.Command{
	Use:   "rm <room...>",
	Short: "Deletes empty rooms.",
	Long: `Deletes one or more rooms together with their uploaded files.
Only rooms without members can be removed, and the default room never can.`,
	Args:              cobra.MinimumNArgs(1),
	ValidArgsFunction: RoomCompletionFunc,
	Run: func(cmd *cobra.Command, args []string) {
		for _, room := range args {
			ctx, cancel := callContext()
			err := adminClient.DeleteRoom(ctx, room)
			cancel()
			if err != nil {
				fmt.Fprintf(os.Stderr, "rm: cannot remove '%s': %v\n", room, err)
				continue
			}
			fmt.Printf("removed '%s'\n", room)
		}
	},
}

func init() {
	rootCmd.AddCommand(rmCmd)
}
