package util

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"
)

// SetupInterruptHandler returns a context cancelled on SIGINT/SIGTERM.
// Temp files are not touched here: a write already in flight finishes on
// its own and leftovers are swept by CleanupUnfinishedTempFiles before the
// next write.
func SetupInterruptHandler(parent context.Context) (context.Context, context.CancelFunc) {
	ctx, cancel := context.WithCancel(parent)

	sig := make(chan os.Signal, 1)
	signal.Notify(sig, os.Interrupt, syscall.SIGTERM)

	go func() {
		defer signal.Stop(sig)

		select {
		case <-sig:
			fmt.Println("\nInterrupt received. Stopping...")
			cancel()
		case <-ctx.Done():
		}
	}()

	return ctx, cancel
}

// CleanupUnfinishedTempFiles removes "<target>.tmp" files left behind by a
// process killed between StageFile and Commit.
func CleanupUnfinishedTempFiles(targets ...string) {
	for _, t := range targets {
		if strings.TrimSpace(t) == "" {
			continue
		}

		tmp := t + TempSuffix
		if _, err := os.Stat(tmp); err != nil {
			continue
		}

		if err := os.Remove(tmp); err != nil {
			fmt.Printf("Error cleaning up %s: %v\n", tmp, err)
		} else {
			fmt.Printf("Removed %s\n", tmp)
		}
	}
}
