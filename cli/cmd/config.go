/*
Copyright © 2025 NAME HERE <EMAIL ADDRESS>
*/
package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// configCmd represents the config command
var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Displays the effective client configuration.",
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		file := viper.ConfigFileUsed()
		if file == "" {
			file = "(none)"
		}
		fmt.Printf("config file: %s\n", file)
		fmt.Printf("%s: %s\n", adminTargetKey, adminTarget)
		fmt.Printf("%s: %s\n", timeoutKey, timeout)
	},
}

func init() {
	rootCmd.AddCommand(configCmd)
}
