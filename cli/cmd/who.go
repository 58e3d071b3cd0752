/*
Copyright © 2025 NAME HERE <EMAIL ADDRESS>
*/
package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

// whoCmd represents the who command
var whoCmd = &cobra.Command{
	Use:   "who",
	Short: "Lists connected sessions.",
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		ctx, cancel := callContext()
		defer cancel()

		sessions, err := adminClient.ListSessions(ctx)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error calling ListSessions: %v\n", err)
			return
		}
		for _, s := range sessions {
			room, _ := s["room"].(string)
			if room == "" {
				room = "-"
			}
			fmt.Printf("%-16v %-14v %-22v %-12s %v\n", s["user"], s["state"], s["remote"], room, s["connected_at"])
		}
	},
}

func init() {
	rootCmd.AddCommand(whoCmd)
}
