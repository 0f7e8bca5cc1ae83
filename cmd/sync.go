package cmd

import (
	"context"
	"fmt"
	"time"

	"github.com/brogergvhs/fichas/internal/config"
	"github.com/brogergvhs/fichas/internal/ui"
	"github.com/brogergvhs/fichas/internal/util"

	"github.com/spf13/cobra"
)

var (
	flagFetcher    string
	flagMinPages   int
	flagPageDelay  time.Duration
	flagHeadful    bool
	flagDryRun     bool
	flagProgress   bool
	flagCookie     string
	flagCookieFile string
	flagUserAgent  string
)

func addRunFlags(c *cobra.Command) {
	c.Flags().StringVar(&flagFetcher, "fetcher", "", "page fetcher: browser or http")
	c.Flags().IntVar(&flagMinPages, "min-pages", 0, "pages always scanned before the watermark may stop the walk")
	c.Flags().DurationVar(&flagPageDelay, "page-delay", 0, "wait between two listing pages")
	c.Flags().BoolVar(&flagHeadful, "headful", false, "show the browser window")
	c.Flags().BoolVar(&flagProgress, "progress", false, "show a progress bar per page")
	c.Flags().StringVar(&flagCookie, "cookie", "", "cookie string, e.g. \"key=value; other=123\"")
	c.Flags().StringVar(&flagCookieFile, "cookie-file", "", "path to a text file with cookies (one header line)")
	c.Flags().StringVar(&flagUserAgent, "user-agent", "", "override User-Agent")
}

func loadRunConfig(schedule string) (*config.Config, string, error) {
	return config.LoadMerged(config.Options{
		IgnoreConfig:  flagIgnoreConfig,
		Debug:         flagDebug,
		DataFile:      flagDataFile,
		WatermarkFile: flagWatermarkFile,
		Fetcher:       flagFetcher,
		MinPages:      flagMinPages,
		PageDelay:     flagPageDelay,
		Headful:       flagHeadful,
		Cookie:        flagCookie,
		CookieFile:    flagCookieFile,
		UserAgent:     flagUserAgent,
		Schedule:      schedule,
		Progress:      flagProgress,
	})
}

func init() {
	syncCmd := &cobra.Command{
		Use:   "sync",
		Short: "Scan the listing once and update the tracked fichas",
		RunE:  runSync,
	}

	addRunFlags(syncCmd)
	syncCmd.Flags().BoolVar(&flagDryRun, "dry-run", false, "scan and report, don't write the data or watermark files")

	rootCmd.AddCommand(syncCmd)
}

func runSync(_ *cobra.Command, _ []string) error {
	cfg, usedPath, err := loadRunConfig("")
	if err != nil {
		return err
	}

	log := ui.NewLogger(cfg.Debug)
	if usedPath != "" {
		fmt.Printf("Config file: %s\n", usedPath)
	}
	if cfg.Debug {
		fmt.Println("Full config:")
		cfg.Print()
		fmt.Println()
	}

	ctx, cancel := util.SetupInterruptHandler(context.Background())
	defer cancel()

	start := time.Now()
	rep, err := syncOnce(ctx, cfg, log, flagDryRun)
	if err != nil {
		return fmt.Errorf("sync failed: %w", err)
	}

	printReport(rep, time.Since(start))
	return nil
}
