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

// banCmd represents the ban command
var banCmd = &cobra.Command{
	Use:   "ban <user> [reason...]",
	Short: "Bans an account and disconnects it.",
	Long: `Marks the account as banned so that further logins are refused.
If the user is connected the session is closed with the given reason.`,
	Args:              cobra.MinimumNArgs(1),
	ValidArgsFunction: UserCompletionFunc,
	Run: func(cmd *cobra.Command, args []string) {
		ctx, cancel := callContext()
		defer cancel()

		if err := adminClient.Ban(ctx, args[0], strings.Join(args[1:], " ")); err != nil {
			fmt.Fprintf(os.Stderr, "Error calling Ban for %s: %v\n", args[0], err)
			return
		}
		fmt.Printf("banned %s\n", args[0])
	},
}

// unbanCmd represents the unban command
var unbanCmd = &cobra.Command{
	Use:   "unban <user>",
	Short: "Lifts a ban.",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		ctx, cancel := callContext()
		defer cancel()

		if err := adminClient.Unban(ctx, args[0]); err != nil {
			fmt.Fprintf(os.Stderr, "Error calling Unban for %s: %v\n", args[0], err)
			return
		}
		fmt.Printf("unbanned %s\n", args[0])
	},
}

func init() {
	rootCmd.AddCommand(banCmd)
	rootCmd.AddCommand(unbanCmd)
}
