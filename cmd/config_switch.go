package cmd

import (
	"fmt"

	"github.com/brogergvhs/fichas/internal/config"

	"github.com/manifoldco/promptui"
	"github.com/spf13/cobra"
)

var configSwitchCmd = &cobra.Command{
	Use:   "switch [label]",
	Short: "Switch to a different configuration profile",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		label := ""
		if len(args) == 1 {
			label = args[0]
		} else {
			picked, err := pickConfig()
			if err != nil {
				return err
			}
			label = picked
		}

		if err := config.Use(label); err != nil {
			return err
		}

		cfg, _, err := config.LoadMerged(config.Options{})
		if err != nil {
			return fmt.Errorf("switched to %s, but it does not load: %w", label, err)
		}

		fmt.Println("Switched to:", label)
		fmt.Printf("Tracking data: %s (watermark %s)\n", cfg.DataFile, cfg.WatermarkFile)
		return nil
	},
}

func pickConfig() (string, error) {
	list, err := config.List()
	if err != nil {
		return "", err
	}
	if len(list) == 0 {
		return "", fmt.Errorf("no configs available")
	}

	items := make([]string, 0, len(list))
	cursor := 0
	for i, c := range list {
		if c.Active {
			items = append(items, c.Label+"  (active)")
			cursor = i
		} else {
			items = append(items, c.Label)
		}
	}

	prompt := promptui.Select{
		Label:     "Select config",
		Items:     items,
		CursorPos: cursor,
	}

	idx, _, err := prompt.Run()
	if err != nil {
		return "", fmt.Errorf("selection cancelled")
	}

	return list[idx].Label, nil
}

func init() {
	configCmd.AddCommand(configSwitchCmd)
}
