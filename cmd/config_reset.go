package cmd

import (
	"fmt"

	"github.com/brogergvhs/fichas/internal/config"

	"github.com/spf13/cobra"
)

var configResetCmd = &cobra.Command{
	Use:   "reset",
	Short: "Reset the active config to default values (selectors included)",
	RunE: func(cmd *cobra.Command, args []string) error {
		p, err := config.Active()
		if err != nil {
			return fmt.Errorf("no active config to reset: %w", err)
		}

		if err := config.SaveYAML(config.DefaultConfig(), p.Path); err != nil {
			return err
		}

		fmt.Printf("Reset active config %q: %s\n", p.Label, p.Path)
		return nil
	},
}

func init() {
	configCmd.AddCommand(configResetCmd)
}
