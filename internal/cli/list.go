package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/asymptotica/majorant/internal/catalog"
)

// listCmd represents the list command
var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List the built-in claim catalog",
	Run: func(cmd *cobra.Command, args []string) {
		for _, e := range catalog.All() {
			fmt.Printf("%-16s %-10s %s\n", e.Name, e.Kind, e.Describe())
		}
	},
}

func init() {
	rootCmd.AddCommand(listCmd)
}
