package cmd

import (
	"fmt"

	"github.com/brogergvhs/fichas/internal/config"

	"github.com/spf13/cobra"
)

var configRenameCmd = &cobra.Command{
	Use:   "rename <old_label> <new_label>",
	Short: "Rename a config profile; the active label follows the rename",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		oldLabel, newLabel := args[0], args[1]

		if err := config.Rename(oldLabel, newLabel); err != nil {
			return err
		}
		fmt.Printf("Renamed config %q → %q\n", oldLabel, newLabel)

		if active, _ := config.ActiveLabel(); active == newLabel {
			fmt.Println("It remains the active config.")
		}
		return nil
	},
}

func init() {
	configCmd.AddCommand(configRenameCmd)
}
