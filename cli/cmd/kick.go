/*
Copyright © 2025 NAME HERE <EMAIL ADDRESS>
*/
package cmd

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
)

// kickCmd represents the kick command
var kickCmd = &cobra.Command{
	Use:               "kick <user> [reason...]",
	Short:             "Disconnects a user.",
	Args:              cobra.MinimumNArgs(1),
	ValidArgsFunction: UserCompletionFunc,
	Run: func(cmd *cobra.Command, args []string) {
		ctx, cancel := callContext()
		defer cancel()

		if err := adminClient.Kick(ctx, args[0], strings.Join(args[1:], " ")); err != nil {
			fmt.Fprintf(os.Stderr, "Error calling Kick for %s: %v\n", args[0], err)
			return
		}
		fmt.Printf("kicked %s\n", args[0])
	},
}

func init() {
	rootCmd.AddCommand(kickCmd)
}
