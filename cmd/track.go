package cmd

import (
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/brogergvhs/fichas/internal/ui"

	"github.com/spf13/cobra"
)

var trackCmd = &cobra.Command{
	Use:   "track",
	Short: "Manage the tracked fichas (names must match the catalog exactly)",
}

var trackListCmd = &cobra.Command{
	Use:   "list",
	Short: "List tracked fichas with their last known chapter",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, _, err := loadRunConfig("")
		if err != nil {
			return err
		}

		s := newStore(cfg, ui.NewLogger(cfg.Debug))
		coll, err := s.Load()
		if err != nil {
			return err
		}

		fmt.Printf("Domain:    %s\n", coll.Domain)
		fmt.Printf("Watermark: %s\n\n", s.LoadWatermark())

		w := tabwriter.NewWriter(os.Stdout, 0, 0, 4, ' ', 0)
		_, _ = fmt.Fprintln(w, "NAME\tCHAPTER\tURL")
		for _, f := range coll.Fichas {
			_, _ = fmt.Fprintf(w, "%s\t%s\t%s\n", f.Name, f.Chapter, f.URL)
		}

		if err := w.Flush(); err != nil {
			fmt.Fprintf(os.Stderr, "warning: failed to flush table output: %v\n", err)
		}
		return nil
	},
}

var trackAddCmd = &cobra.Command{
	Use:   "add <name>",
	Short: "Start tracking a series; its chapter fills in on the next sync",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, _, err := loadRunConfig("")
		if err != nil {
			return err
		}

		if err := newStore(cfg, ui.NewLogger(cfg.Debug)).AddFicha(args[0]); err != nil {
			return err
		}

		fmt.Printf("Tracking %q\n", args[0])
		return nil
	},
}

var trackRemoveCmd = &cobra.Command{
	Use:   "remove <name>",
	Short: "Stop tracking a series",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, _, err := loadRunConfig("")
		if err != nil {
			return err
		}

		if err := newStore(cfg, ui.NewLogger(cfg.Debug)).RemoveFicha(args[0]); err != nil {
			return err
		}

		fmt.Printf("No longer tracking %q\n", args[0])
		return nil
	},
}

func init() {
	trackCmd.AddCommand(trackListCmd, trackAddCmd, trackRemoveCmd)
	rootCmd.AddCommand(trackCmd)
}
