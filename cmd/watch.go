package cmd

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/brogergvhs/fichas/internal/config"
	"github.com/brogergvhs/fichas/internal/ui"
	"github.com/brogergvhs/fichas/internal/util"

	"github.com/robfig/cron/v3"
	"github.com/spf13/cobra"
)

var (
	flagSchedule string
	flagNow      bool
)

func init() {
	watchCmd := &cobra.Command{
		Use:   "watch",
		Short: "Run sync on a cron schedule until interrupted",
		Long: "Runs the same scan as `fichas sync` on a cron schedule (default every 4 hours).\n" +
			"A failed cycle is logged and retried on the next tick.",
		RunE: runWatch,
	}

	addRunFlags(watchCmd)
	watchCmd.Flags().StringVar(&flagSchedule, "schedule", "", "five-field cron expression, e.g. \"0 */4 * * *\"")
	watchCmd.Flags().BoolVar(&flagNow, "now", false, "run a sync immediately before waiting for the schedule")

	rootCmd.AddCommand(watchCmd)
}

func runWatch(_ *cobra.Command, _ []string) error {
	cfg, usedPath, err := loadRunConfig(flagSchedule)
	if err != nil {
		return err
	}

	log := ui.NewLogger(cfg.Debug)
	if usedPath != "" {
		fmt.Printf("Config file: %s\n", usedPath)
	}

	ctx, cancel := util.SetupInterruptHandler(context.Background())
	defer cancel()

	w := &watcher{cfg: cfg, log: log}

	c := cron.New()
	if _, err := c.AddFunc(cfg.Schedule, func() { w.cycle(ctx) }); err != nil {
		return fmt.Errorf("invalid schedule %q: %w", cfg.Schedule, err)
	}

	if flagNow {
		w.cycle(ctx)
	}

	c.Start()
	log.Infof("watching with schedule %q, next run at %s\n", cfg.Schedule, c.Entries()[0].Next.Format(time.RFC1123))

	<-ctx.Done()
	log.Infof("stopping scheduler, waiting for a running sync to finish\n")
	<-c.Stop().Done()

	return nil
}

// watcher serializes cycles: a tick that fires while a sync is still
// running is skipped.
type watcher struct {
	cfg *config.Config
	log *ui.Logger

	mu sync.Mutex
}

func (w *watcher) cycle(ctx context.Context) {
	if !w.mu.TryLock() {
		w.log.Warnf("previous sync still running, skipping this tick\n")
		return
	}
	defer w.mu.Unlock()

	if ctx.Err() != nil {
		return
	}

	start := time.Now()
	rep, err := syncOnce(ctx, w.cfg, w.log, false)
	if err != nil {
		w.log.Errorf("sync failed: %v\n", err)
		return
	}

	printReport(rep, time.Since(start))
}
