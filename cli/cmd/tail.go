/*
Copyright © 2025 NAME HERE <EMAIL ADDRESS>
*/
package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var lines int // Flag for -n option

// tailCmd represents the tail command
var tailCmd = &cobra.Command{
	Use:               "tail [-n count] <room>",
	Short:             "Displays the last lines of a room's history.",
	Args:              cobra.ExactArgs(1),
	ValidArgsFunction: RoomCompletionFunc,
	Run: func(cmd *cobra.Command, args []string) {
		all, err := history(args[0])
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error calling RoomHistory for %s: %v\n", args[0], err)
			return
		}
		for _, line := range lastN(all, lines) {
			fmt.Println(line)
		}
	},
}

func lastN(all []string, n int) []string {
	if n < 0 {
		n = 0
	}
	if len(all) > n {
		return all[len(all)-n:]
	}
	return all
}

func init() {
	rootCmd.AddCommand(tailCmd)
	tailCmd.Flags().IntVarP(&lines, "lines", "n", 10, "Number of lines to print")
}
