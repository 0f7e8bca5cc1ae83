package cmd

import (
	"bufio"
	"fmt"
	"os"
	"strings"

	"github.com/brogergvhs/fichas/internal/config"

	"github.com/spf13/cobra"
)

var flagAddFrom string

var configAddCmd = &cobra.Command{
	Use:   "add [label]",
	Short: "Create a new config from defaults, or copy one with --from",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		var label string
		if len(args) == 1 {
			label = args[0]
		} else {
			reader := bufio.NewReader(os.Stdin)
			fmt.Print("Enter label for new config: ")
			label, _ = reader.ReadString('\n')
		}

		label = strings.TrimSpace(label)
		if label == "" {
			return fmt.Errorf("label cannot be empty")
		}

		if flagAddFrom != "" {
			p, err := config.Import(label, flagAddFrom)
			if err != nil {
				return fmt.Errorf("failed to import %s: %w", flagAddFrom, err)
			}
			fmt.Printf("Created config %q from %s: %s\n", p.Label, flagAddFrom, p.Path)
			return nil
		}

		p, err := config.Create(label, config.DefaultConfig())
		if err != nil {
			return err
		}

		fmt.Printf("Created new config: %s\n", p.Path)
		return nil
	},
}

func init() {
	configAddCmd.Flags().StringVar(&flagAddFrom, "from", "", "existing YAML file to import (validated, defaults filled in)")
	configCmd.AddCommand(configAddCmd)
}
