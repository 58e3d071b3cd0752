/*
Copyright © 2025 NAME HERE <EMAIL ADDRESS>
*/
package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"
)

// healthCmd represents the health command
var healthCmd = &cobra.Command{
	Use:   "health [service]",
	Short: "Queries the gRPC health service of the server.",
	Args:  cobra.MaximumNArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		service := ""
		if len(args) == 1 {
			service = args[0]
		}
		ctx, cancel := callContext()
		defer cancel()

		res, err := healthpb.NewHealthClient(grpcConn).Check(ctx, &healthpb.HealthCheckRequest{Service: service})
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error calling Check: %v\n", err)
			return
		}
		fmt.Println(res.GetStatus())
	},
}

func init() {
	rootCmd.AddCommand(healthCmd)
}
