/*
Copyright © 2025 NAME HERE <EMAIL ADDRESS>
*/
package cmd

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"
)

var longFormat bool

// lsCmd represents the ls command
var lsCmd = &cobra.Command{
	Use:   "ls",
	Short: "Lists the rooms on the server.",
	Long: `Lists every room on the roomchat server with its creator, creation
time, member count and buffered history size. With -l the member
names are printed under each room.`,
	Args: cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		ctx, cancel := callContext()
		defer cancel()

		rooms, err := adminClient.ListRooms(ctx)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error calling ListRooms: %v\n", err)
			return
		}

		if len(rooms) == 0 {
			fmt.Println("No rooms.")
			return
		}

		for _, room := range rooms {
			formattedTime := "           "
			if created, ok := room["created_at"].(string); ok {
				if t, err := time.Parse(time.RFC3339, created); err == nil {
					t = t.Local()
					formattedTime = fmt.Sprintf("%s %2d %s", t.Format("1"), t.Day(), t.Format("15:04"))
				}
			}
			members, _ := room["members"].([]any)
			fmt.Printf("%3d %4d  %s %-12v %v\n",
				len(members), number(room["history"]), formattedTime, room["creator"], room["name"])
			if longFormat {
				for _, m := range members {
					fmt.Printf("    %v\n", m)
				}
			}
		}
	},
}

// structpb carries every number as float64.
func number(v any) int {
	f, _ := v.(float64)
	return int(f)
}

func init() {
	rootCmd.AddCommand(lsCmd)
	lsCmd.Flags().BoolVarP(&longFormat, "long", "l", false, "Print room members")
}
