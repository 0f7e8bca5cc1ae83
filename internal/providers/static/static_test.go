package static

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/brogergvhs/fichas/internal/providers"
	"github.com/brogergvhs/fichas/internal/providers/listing"
	"github.com/brogergvhs/fichas/internal/ui"
)

const listingHTML = `<html><body>
<div class="bg-gray-800 p-4 rounded-xl relative">
  <a title="A" href="/series/a"><figcaption>A</figcaption></a>
  <div class="flex flex-col gap-2 mt-4">
    <a href="/c/a-12"><span id="name">Cap 12</span><time datetime="2025-06-01T00:00:00.000000Z"></time></a>
  </div>
</div>
</body></html>`

func newServer(t *testing.T) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/capitulos" {
			http.NotFound(w, r)
			return
		}
		switch r.URL.Query().Get("page") {
		case "1":
			fmt.Fprint(w, listingHTML)
		case "2":
			fmt.Fprint(w, "<html><body><p>Sin resultados</p></body></html>")
		case "3":
			http.NotFound(w, r)
		default:
			http.Error(w, "down", http.StatusBadGateway)
		}
	}))
	t.Cleanup(srv.Close)
	return srv
}

func newFetcher() *Fetcher {
	return New(http.DefaultClient, "/capitulos", listing.DefaultSelectors(), ui.NewLoggerTo(nil, false))
}

func TestFetchPage(t *testing.T) {
	srv := newServer(t)
	f := newFetcher()

	p, err := f.Fetch(context.Background(), srv.URL, 1)
	if err != nil {
		t.Fatalf("Fetch: %v", err)
	}
	if p.Number != 1 || p.Exhausted() {
		t.Fatalf("page = %+v", p)
	}
	if got := p.Entries[0].URL; got != srv.URL+"/series/a" {
		t.Errorf("URL = %q", got)
	}
}

func TestFetchExhausted(t *testing.T) {
	srv := newServer(t)
	f := newFetcher()

	for _, n := range []int{2, 3} {
		p, err := f.Fetch(context.Background(), srv.URL, n)
		if err != nil {
			t.Fatalf("page %d: %v", n, err)
		}
		if !p.Exhausted() {
			t.Errorf("page %d should be exhausted", n)
		}
	}
}

func TestFetchServerErrorIsNetworkFailure(t *testing.T) {
	srv := newServer(t)
	f := newFetcher()

	_, err := f.Fetch(context.Background(), srv.URL, 9)
	if !errors.Is(err, providers.ErrNetwork) {
		t.Fatalf("err = %v, want ErrNetwork", err)
	}
}
