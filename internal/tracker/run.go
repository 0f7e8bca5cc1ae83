package tracker

import (
	"context"
	"errors"
	"fmt"

	"github.com/brogergvhs/fichas/internal/chapters"
	"github.com/brogergvhs/fichas/internal/providers"
	"github.com/brogergvhs/fichas/internal/store"
	"github.com/brogergvhs/fichas/internal/timestamp"
)

type state int

const (
	stateFetching state = iota
	stateReconciling
	stateDeciding
	stateDone
	stateFailed
)

func (s state) String() string {
	switch s {
	case stateFetching:
		return "fetching"
	case stateReconciling:
		return "reconciling"
	case stateDeciding:
		return "deciding"
	case stateDone:
		return "done"
	case stateFailed:
		return "failed"
	}
	return fmt.Sprintf("state(%d)", int(s))
}

type run struct {
	engine *Engine

	domain    string
	index     map[string]*store.Ficha
	watermark string

	number int
	page   providers.Page
	err    error

	report Report
}

func (r *run) walk(ctx context.Context) error {
	st := stateFetching

	for {
		switch st {
		case stateFetching:
			st = r.fetch(ctx)
		case stateReconciling:
			r.reconcile()
			st = stateDeciding
		case stateDeciding:
			st = r.decide(ctx)
		case stateDone:
			return nil
		case stateFailed:
			return r.err
		default:
			return fmt.Errorf("tracker: unexpected %s", st)
		}
	}
}

func (r *run) fetch(ctx context.Context) state {
	log := r.engine.log
	log.Infof("checking page %d...\n", r.number)

	page, err := r.engine.fetcher.Fetch(ctx, r.domain, r.number)
	switch {
	case err == nil:
	case errors.Is(err, providers.ErrNoMarker) && r.number > r.engine.opts.MinPages:
		// Past the pages that must be read, a page without cards is the end
		// of the listing. Before that it may be a challenge page.
		log.Warnf("page %d shows no cards, treating it as the end of the listing: %v\n", r.number, err)
		r.report.Pages++
		r.report.Stop = StopExhausted
		return stateDone
	default:
		r.err = err
		return stateFailed
	}

	r.page = page
	r.report.Pages++

	if page.Exhausted() {
		log.Infof("page %d has no entries, stopping\n", r.number)
		r.report.Stop = StopExhausted
		return stateDone
	}

	return stateReconciling
}

func (r *run) reconcile() {
	log := r.engine.log

	var pp PageProgress
	if r.engine.opts.Progress != nil {
		pp = r.engine.opts.Progress.Page(r.page.Number, len(r.page.Entries))
		defer pp.MarkDone()
	}

	for _, e := range r.page.Entries {
		r.report.Seen++
		updated := false

		f, ok := r.index[e.Name]
		switch {
		case !ok:
			r.report.Ignored++
		case chapters.Accept(e.Chapter, f.Chapter):
			if f.Chapter == e.Chapter && f.URL == e.URL {
				r.report.Unchanged++
				break
			}
			log.Infof("updating %s: %q -> %q\n", e.Name, f.Chapter, e.Chapter)
			f.Chapter = e.Chapter
			f.URL = e.URL
			r.report.Updated++
			updated = true
		default:
			log.Infof("skipping %s: web chapter %d is behind stored %d\n",
				e.Name, chapters.Number(e.Chapter), chapters.Number(f.Chapter))
			r.report.Rejected++
		}

		if pp != nil {
			pp.Step(updated)
		}
	}
}

func (r *run) decide(ctx context.Context) state {
	log := r.engine.log
	last, _ := r.page.Last()

	stale := last.PublishedAt <= r.watermark
	if err := timestamp.Validate(last.PublishedAt); err != nil {
		log.Warnf("page %d: %v\n", r.number, err)
		stale = true
	}

	if stale && r.number >= r.engine.opts.MinPages {
		log.Infof("page %d reaches the watermark and %d pages were read, stopping\n", r.number, r.number)
		r.report.Stop = StopWatermark
		return stateDone
	}

	r.number++
	if err := r.engine.opts.Sleep(ctx, r.engine.opts.Delay); err != nil {
		r.err = fmt.Errorf("waiting before page %d: %w", r.number, err)
		return stateFailed
	}

	return stateFetching
}
