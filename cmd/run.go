package cmd

import (
	"context"
	"fmt"
	"time"

	"github.com/brogergvhs/fichas/internal/config"
	"github.com/brogergvhs/fichas/internal/providers"
	"github.com/brogergvhs/fichas/internal/providers/browser"
	"github.com/brogergvhs/fichas/internal/providers/static"
	"github.com/brogergvhs/fichas/internal/store"
	"github.com/brogergvhs/fichas/internal/tracker"
	"github.com/brogergvhs/fichas/internal/ui"
	"github.com/brogergvhs/fichas/internal/util"
)

func newStore(cfg *config.Config, log *ui.Logger) *store.Store {
	return store.New(cfg.DataFile, cfg.WatermarkFile, log)
}

func newFetcher(cfg *config.Config, log *ui.Logger) (providers.Fetcher, error) {
	switch cfg.Fetcher {
	case config.FetcherHTTP:
		client, err := util.NewHTTPClient(util.HTTPClientOptions{
			Timeout:     30 * time.Second,
			UserAgent:   util.PickUserAgent(cfg.UserAgent),
			Cookie:      cfg.Cookie,
			CookieFile:  cfg.CookieFile,
			DebugLogger: log,
		})
		if err != nil {
			return nil, err
		}
		return static.New(client, cfg.ListingPath, cfg.Selectors, log), nil

	case config.FetcherBrowser:
		return browser.New(browser.Config{
			RemoteURL:     cfg.RemoteChrome,
			Bin:           cfg.ChromeBin,
			Headless:      cfg.Headless,
			NoSandbox:     cfg.NoSandbox,
			UserAgent:     cfg.UserAgent,
			ListingPath:   cfg.ListingPath,
			Selectors:     cfg.Selectors,
			Block:         cfg.BlockResources,
			MarkerTimeout: cfg.MarkerTimeout,
			Logger:        log,
		}), nil
	}

	return nil, fmt.Errorf("unknown fetcher %q", cfg.Fetcher)
}

type pageBars struct {
	pm *ui.MPBProgressManager
}

func (b pageBars) Page(number, entries int) tracker.PageProgress {
	h := b.pm.Register(fmt.Sprintf("Page %d", number))
	h.SetTotal(entries)
	return h
}

// syncOnce runs one full sync. The fetcher, and with it the browser, is
// released before returning whatever the outcome.
func syncOnce(ctx context.Context, cfg *config.Config, log *ui.Logger, dryRun bool) (rep tracker.Report, err error) {
	util.CleanupUnfinishedTempFiles(cfg.DataFile, cfg.WatermarkFile)

	f, err := newFetcher(cfg, log)
	if err != nil {
		return rep, err
	}
	defer func() {
		if cerr := f.Close(); cerr != nil {
			log.Errorf("closing fetcher: %v\n", cerr)
		}
	}()

	opts := tracker.Options{
		MinPages: cfg.MinPages,
		Delay:    cfg.PageDelay,
		DryRun:   dryRun,
	}

	if cfg.Progress {
		pm := ui.NewProgressManager()
		defer pm.Close()
		opts.Progress = pageBars{pm: pm}
	}

	return tracker.New(newStore(cfg, log), f, log, opts).Run(ctx)
}

func printReport(rep tracker.Report, elapsed time.Duration) {
	fmt.Println()
	fmt.Println("Sync Summary:")
	fmt.Printf("Pages:     %d (%s)\n", rep.Pages, rep.Stop)
	fmt.Printf("Entries:   %d\n", rep.Seen)
	fmt.Printf("Updated:   %d\n", rep.Updated)
	fmt.Printf("Unchanged: %d already up to date\n", rep.Unchanged)
	fmt.Printf("Skipped:   %d behind stored chapter\n", rep.Rejected)
	fmt.Printf("Untracked: %d\n", rep.Ignored)
	if rep.Saved {
		fmt.Printf("Watermark: %s -> %s\n", rep.PreviousWatermark, rep.Watermark)
	} else {
		fmt.Printf("Watermark: %s (unchanged)\n", rep.PreviousWatermark)
	}
	fmt.Printf("Time:      %s\n", elapsed.Round(time.Second))
}
