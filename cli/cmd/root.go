/*
Copyright © 2025 NAME HERE <EMAIL ADDRESS>
*/
package cmd

import (
	"bufio"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/mattn/go-shellwords"
	"github.com/ponyo877/roomchat/server/adaptor"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials/insecure"
)

var (
	cfgFile     string
	adminTarget string
	timeout     time.Duration
	adminClient *adaptor.AdminClient
	grpcConn    *grpc.ClientConn
)

const (
	adminTargetKey = "admin_target"
	timeoutKey     = "timeout"
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "roomchat-admin",
	Short: "Administers a running roomchat server.",
	Long: `roomchat-admin talks to the gRPC admin API of a roomchat server.
It lists rooms and sessions, reads room history and the audit log, and
kicks, bans or warns users. Without arguments it starts an interactive
shell.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		conn, err := grpc.NewClient(adminTarget, grpc.WithTransportCredentials(insecure.NewCredentials()))
		if err != nil {
			return fmt.Errorf("did not connect to admin server: %w", err)
		}
		grpcConn = conn
		adminClient = adaptor.NewAdminClient(conn)
		return nil
	},
	PersistentPostRunE: func(cmd *cobra.Command, args []string) error {
		if grpcConn != nil {
			err := grpcConn.Close()
			grpcConn = nil
			return err
		}
		return nil
	},
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	// one‑shot
	if len(os.Args) > 1 {
		if err := rootCmd.Execute(); err != nil {
			os.Exit(1)
		}
		return
	}

	// REPL
	fmt.Println("entering interactive mode, type 'exit' to quit")
	reader := bufio.NewReader(os.Stdin)
	for {
		fmt.Print("❯❯❯ ")
		line, err := reader.ReadString('\n')
		line = strings.TrimSpace(line)
		if line == "exit" || line == "quit" {
			break
		}
		if line != "" {
			args, perr := shellwords.Parse(line)
			if perr != nil {
				fmt.Fprintln(os.Stderr, "Error parsing command:", perr)
				continue
			}
			rootCmd.SetArgs(args)
			// errors are already reported by cobra; keep the shell alive
			_ = rootCmd.Execute()
		}
		if err != nil {
			break
		}
	}
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is $HOME/.roomchat-admin.yaml)")
	rootCmd.PersistentFlags().String("admin", "localhost:50051", "Address of the roomchat admin API")
	rootCmd.PersistentFlags().Duration("timeout", 10*time.Second, "Timeout for each admin call")

	viper.BindPFlag(adminTargetKey, rootCmd.PersistentFlags().Lookup("admin"))
	viper.BindPFlag(timeoutKey, rootCmd.PersistentFlags().Lookup("timeout"))
	viper.SetDefault(adminTargetKey, "localhost:50051")
	viper.SetDefault(timeoutKey, 10*time.Second)
}

// initConfig reads in config file and ENV variables if set.
func initConfig() {
	if cfgFile != "" {
		// Use config file from the flag.
		viper.SetConfigFile(cfgFile)
	} else {
		// Find home directory.
		home, err := os.UserHomeDir()
		cobra.CheckErr(err)

		// Search config in home directory with name ".roomchat-admin" (without extension).
		viper.AddConfigPath(home)
		viper.SetConfigType("yaml")
		viper.SetConfigName(".roomchat-admin")
	}

	viper.SetEnvPrefix("roomchat")
	viper.AutomaticEnv() // read in environment variables that match

	// If a config file is found, read it in.
	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			// Config file was found but another error was produced
			fmt.Fprintln(os.Stderr, "Error reading config file:", err)
		}
	}

	adminTarget = viper.GetString(adminTargetKey)
	timeout = viper.GetDuration(timeoutKey)
}
