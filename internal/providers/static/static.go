// Package static fetches listing pages with a plain HTTP client. It fits
// sources that render the listing server side; script-rendered listings
// need the browser fetcher.
package static

import (
	"context"
	"fmt"
	"net/http"

	"github.com/brogergvhs/fichas/internal/providers"
	"github.com/brogergvhs/fichas/internal/providers/listing"
)

type Fetcher struct {
	client      *http.Client
	listingPath string
	selectors   listing.Selectors
	log         interface{ Debugf(string, ...any) }
}

func New(c *http.Client, listingPath string, sel listing.Selectors, log interface{ Debugf(string, ...any) }) *Fetcher {
	return &Fetcher{
		client:      c,
		listingPath: listingPath,
		selectors:   sel,
		log:         log,
	}
}

func (f *Fetcher) Fetch(ctx context.Context, baseURL string, page int) (providers.Page, error) {
	target := providers.ListingURL(baseURL, f.listingPath, page)
	out := providers.Page{Number: page, URL: target}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, target, nil)
	if err != nil {
		return out, providers.NetworkError(page, target, err)
	}
	req.Header.Set("Accept", "text/html,application/xhtml+xml;q=0.9,*/*;q=0.8")

	resp, err := f.client.Do(req)
	if err != nil {
		return out, providers.NetworkError(page, target, err)
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	if resp.StatusCode == http.StatusNotFound {
		f.log.Debugf("page %d returned 404, treating as end of listing\n", page)
		return out, nil
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return out, providers.NetworkError(page, target, fmt.Errorf("HTTP %d", resp.StatusCode))
	}

	entries, err := listing.Parse(resp.Body, baseURL, f.selectors)
	if err != nil {
		return out, providers.ExtractionError(page, target, err)
	}

	out.Entries = entries
	return out, nil
}

func (f *Fetcher) Close() error {
	f.client.CloseIdleConnections()
	return nil
}
