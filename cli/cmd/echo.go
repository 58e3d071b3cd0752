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

// echoCmd represents the echo command
var echoCmd = &cobra.Command{
	Use:   "echo <text...>",
	Short: "Announces text to every connected user.",
	Long:  `Sends the given text as a SERVER announcement to every session that has finished logging in.`,
	Args:  cobra.MinimumNArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		ctx, cancel := callContext()
		defer cancel()

		n, err := adminClient.Announce(ctx, strings.Join(args, " "))
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error calling Announce: %v\n", err)
			return
		}
		fmt.Printf("delivered to %d session(s)\n", n)
	},
}

func init() {
	rootCmd.AddCommand(echoCmd)
}
