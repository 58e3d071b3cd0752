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

// warnCmd represents the warn command
var warnCmd = &cobra.Command{
	Use:               "warn <user> <text...>",
	Short:             "Sends a WARNING frame to one user.",
	Args:              cobra.MinimumNArgs(2),
	ValidArgsFunction: UserCompletionFunc,
	Run: func(cmd *cobra.Command, args []string) {
		ctx, cancel := callContext()
		defer cancel()

		if err := adminClient.Warn(ctx, args[0], strings.Join(args[1:], " ")); err != nil {
			fmt.Fprintf(os.Stderr, "Error calling Warn for %s: %v\n", args[0], err)
		}
	},
}

func init() {
	rootCmd.AddCommand(warnCmd)
}
