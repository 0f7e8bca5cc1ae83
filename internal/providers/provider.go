package providers

import (
	"context"
	"errors"
	"fmt"
)

// Entry is one card scraped from a listing page.
type Entry struct {
	Name        string
	Chapter     string
	URL         string
	PublishedAt string
}

// Page is the result of fetching one listing page. A page without entries
// means the source has no more content at that number.
type Page struct {
	Number  int
	URL     string
	Entries []Entry
}

func (p Page) Exhausted() bool {
	return len(p.Entries) == 0
}

// Last returns the bottom-most entry of the page in rendered order.
func (p Page) Last() (Entry, bool) {
	if len(p.Entries) == 0 {
		return Entry{}, false
	}
	return p.Entries[len(p.Entries)-1], true
}

type Fetcher interface {
	Fetch(ctx context.Context, baseURL string, page int) (Page, error)
	Close() error
}

var (
	ErrNetwork    = errors.New("network failure")
	ErrExtraction = errors.New("extraction failure")

	// ErrNoMarker means the page loaded but no listing card showed up in
	// time. It can be a page past the end of the listing as well as a
	// challenge page or a slow render; the caller decides which.
	ErrNoMarker = errors.New("listing marker not found")
)

// FetchError carries the page that failed and which kind of failure it was;
// Kind is ErrNetwork, ErrExtraction or ErrNoMarker.
type FetchError struct {
	Kind error
	Page int
	URL  string
	Err  error
}

func (e *FetchError) Error() string {
	return fmt.Sprintf("page %d (%s): %v: %v", e.Page, e.URL, e.Kind, e.Err)
}

func (e *FetchError) Unwrap() []error {
	return []error{e.Kind, e.Err}
}

func NetworkError(page int, url string, err error) error {
	return &FetchError{Kind: ErrNetwork, Page: page, URL: url, Err: err}
}

func ExtractionError(page int, url string, err error) error {
	return &FetchError{Kind: ErrExtraction, Page: page, URL: url, Err: err}
}

func MarkerError(page int, url string, err error) error {
	return &FetchError{Kind: ErrNoMarker, Page: page, URL: url, Err: err}
}
