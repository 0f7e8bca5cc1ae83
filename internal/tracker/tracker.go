// Package tracker walks the listing pages of the source newest-first and
// brings the stored fichas up to date.
//
// A run loads the collection and the watermark, then alternates between
// fetching a page, reconciling its entries against the stored fichas and
// deciding whether an older page can still hold unseen updates. The last
// card of a page is taken as its oldest one; once it is not newer than the
// watermark and at least MinPages pages were read, the walk stops. Nothing
// is written unless the walk finishes cleanly.
package tracker

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/brogergvhs/fichas/internal/providers"
	"github.com/brogergvhs/fichas/internal/store"
)

const (
	DefaultMinPages = 2
	DefaultDelay    = 5 * time.Second
)

type Logger interface {
	Debugf(string, ...any)
	Infof(string, ...any)
	Warnf(string, ...any)
}

type Store interface {
	Load() (*store.Collection, error)
	LoadWatermark() string
	Commit(c *store.Collection, now time.Time) (string, error)
}

// PageProgress receives one Step per reconciled entry.
type PageProgress interface {
	Step(updated bool)
	MarkDone()
}

type Progress interface {
	Page(number, entries int) PageProgress
}

type Options struct {
	// MinPages is the number of pages always read, stale or not.
	MinPages int

	// Delay separates two page fetches. Zero means DefaultDelay, a negative
	// value disables the wait.
	Delay time.Duration

	DryRun bool

	Progress Progress

	Now   func() time.Time
	Sleep func(ctx context.Context, d time.Duration) error
}

type StopReason string

const (
	StopExhausted StopReason = "listing exhausted"
	StopWatermark StopReason = "reached watermark"
)

// Report sums up a run. Updated counts fichas whose chapter or link
// changed; an accepted entry identical to the stored ficha is Unchanged.
type Report struct {
	Pages     int
	Seen      int
	Updated   int
	Unchanged int
	Rejected  int
	Ignored   int
	Stop      StopReason

	PreviousWatermark string
	Watermark         string
	Saved             bool
}

type Engine struct {
	store   Store
	fetcher providers.Fetcher
	log     Logger
	opts    Options
}

func New(s Store, f providers.Fetcher, log Logger, opts Options) *Engine {
	if opts.MinPages < 1 {
		opts.MinPages = DefaultMinPages
	}
	switch {
	case opts.Delay == 0:
		opts.Delay = DefaultDelay
	case opts.Delay < 0:
		opts.Delay = 0
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	if opts.Sleep == nil {
		opts.Sleep = sleep
	}

	return &Engine{store: s, fetcher: f, log: log, opts: opts}
}

// Run performs one sync. On error nothing has been persisted.
func (e *Engine) Run(ctx context.Context) (Report, error) {
	coll, err := e.store.Load()
	if err != nil {
		return Report{}, err
	}
	if strings.TrimSpace(coll.Domain) == "" {
		return Report{}, fmt.Errorf("%w: \"dominio\" is empty", store.ErrDataFile)
	}

	r := &run{
		engine:    e,
		domain:    coll.Domain,
		index:     coll.Index(),
		watermark: e.store.LoadWatermark(),
		number:    1,
	}
	r.report.PreviousWatermark = r.watermark

	e.log.Debugf("tracking %d fichas on %s, watermark %s\n", len(r.index), r.domain, r.watermark)

	if err := r.walk(ctx); err != nil {
		return r.report, err
	}

	if e.opts.DryRun {
		e.log.Infof("dry run: leaving %s and the watermark untouched\n", coll.Domain)
		return r.report, nil
	}

	if err := ctx.Err(); err != nil {
		return r.report, err
	}

	wm, err := e.store.Commit(coll, e.opts.Now())
	if err != nil {
		return r.report, fmt.Errorf("save: %w", err)
	}

	r.report.Watermark = wm
	r.report.Saved = true
	e.log.Infof("watermark updated to %s\n", wm)

	return r.report, nil
}

func sleep(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}

	t := time.NewTimer(d)
	defer t.Stop()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}
