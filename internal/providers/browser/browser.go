// Package browser fetches listing pages through a headless Chrome driven by
// Rod. The stealth plugin hides automation markers and images, media and
// fonts are refused to keep page loads light.
package browser

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/brogergvhs/fichas/internal/providers"
	"github.com/brogergvhs/fichas/internal/providers/listing"

	"github.com/go-rod/rod"
	"github.com/go-rod/rod/lib/launcher"
	"github.com/go-rod/rod/lib/proto"
	"github.com/go-rod/stealth"
)

type Logger interface {
	Debugf(string, ...any)
	Warnf(string, ...any)
}

type Config struct {
	// RemoteURL is the DevTools WebSocket of an already running Chrome.
	// Empty launches a local one.
	RemoteURL string
	Bin       string
	Headless  bool
	NoSandbox bool
	UserAgent string

	ListingPath string
	Selectors   listing.Selectors

	// Block lists resource types refused by the page (image, media, font...).
	Block []string

	NavigateTimeout time.Duration
	// MarkerTimeout bounds the wait for the first card; a page where no card
	// shows up in time fails with providers.ErrNoMarker.
	MarkerTimeout time.Duration

	Logger Logger
}

func (c *Config) defaults() {
	if c.NavigateTimeout <= 0 {
		c.NavigateTimeout = 60 * time.Second
	}
	if c.MarkerTimeout <= 0 {
		c.MarkerTimeout = 30 * time.Second
	}
	if c.Logger == nil {
		c.Logger = nopLogger{}
	}
}

type nopLogger struct{}

func (nopLogger) Debugf(string, ...any) {}
func (nopLogger) Warnf(string, ...any)  {}

// Fetcher owns one browser and one tab for the whole run. Chrome starts on
// the first Fetch; Close releases everything and may be called repeatedly.
type Fetcher struct {
	cfg Config

	mu      sync.Mutex
	lnch    *launcher.Launcher
	browser *rod.Browser
	page    *rod.Page
	router  *rod.HijackRouter
}

func New(cfg Config) *Fetcher {
	cfg.defaults()
	return &Fetcher{cfg: cfg}
}

func (f *Fetcher) Fetch(ctx context.Context, baseURL string, n int) (providers.Page, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	target := providers.ListingURL(baseURL, f.cfg.ListingPath, n)
	out := providers.Page{Number: n, URL: target}

	if f.page == nil {
		if err := f.start(); err != nil {
			return out, providers.NetworkError(n, target, err)
		}
	}

	navCtx, cancel := context.WithTimeout(ctx, f.cfg.NavigateTimeout)
	defer cancel()

	page := f.page.Context(navCtx)
	if err := page.Navigate(target); err != nil {
		return out, providers.NetworkError(n, target, fmt.Errorf("navigate: %w", err))
	}
	if err := page.WaitLoad(); err != nil {
		return out, providers.NetworkError(n, target, fmt.Errorf("wait load: %w", err))
	}

	if err := f.waitForCards(ctx); err != nil {
		if errors.Is(err, context.DeadlineExceeded) && ctx.Err() == nil {
			f.cfg.Logger.Debugf("no %q on page %d after %s\n", f.cfg.Selectors.Card, n, f.cfg.MarkerTimeout)
			return out, providers.MarkerError(n, target, err)
		}
		return out, providers.NetworkError(n, target, err)
	}

	html, err := f.page.Context(ctx).HTML()
	if err != nil {
		return out, providers.ExtractionError(n, target, fmt.Errorf("read dom: %w", err))
	}

	entries, err := listing.Parse(strings.NewReader(html), baseURL, f.cfg.Selectors)
	if err != nil {
		return out, providers.ExtractionError(n, target, err)
	}

	out.Entries = entries
	return out, nil
}

// waitForCards waits up to MarkerTimeout for the first card. A timeout
// comes back as context.DeadlineExceeded.
func (f *Fetcher) waitForCards(ctx context.Context) error {
	waitCtx, cancel := context.WithTimeout(ctx, f.cfg.MarkerTimeout)
	defer cancel()

	if _, err := f.page.Context(waitCtx).Element(f.cfg.Selectors.Card); err != nil {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		return fmt.Errorf("wait for %q: %w", f.cfg.Selectors.Card, err)
	}
	return nil
}

func (f *Fetcher) start() error {
	log := f.cfg.Logger

	wsURL := f.cfg.RemoteURL
	if wsURL == "" {
		l := launcher.New().
			Headless(f.cfg.Headless).
			NoSandbox(f.cfg.NoSandbox).
			Set("disable-blink-features", "AutomationControlled")
		if f.cfg.Bin != "" {
			l = l.Bin(f.cfg.Bin)
		}

		u, err := l.Launch()
		if err != nil {
			return fmt.Errorf("browser: launch: %w", err)
		}
		f.lnch = l
		wsURL = u
		log.Debugf("browser: launched local chrome at %s\n", wsURL)
	} else {
		log.Debugf("browser: connecting to %s\n", wsURL)
	}

	b := rod.New().ControlURL(wsURL)
	if err := b.Connect(); err != nil {
		f.cleanup()
		return fmt.Errorf("browser: connect: %w", err)
	}
	f.browser = b

	page, err := stealth.Page(b)
	if err != nil {
		f.cleanup()
		return fmt.Errorf("browser: create tab: %w", err)
	}
	f.page = page

	if f.cfg.UserAgent != "" {
		if err := page.SetUserAgent(&proto.NetworkSetUserAgentOverride{UserAgent: f.cfg.UserAgent}); err != nil {
			log.Warnf("browser: user agent override failed: %v\n", err)
		}
	}

	if len(f.cfg.Block) > 0 {
		f.router = blockResources(page, f.cfg.Block)
	}

	return nil
}

func (f *Fetcher) Close() error {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.cleanup()
}

func (f *Fetcher) cleanup() error {
	var errs []error

	if f.router != nil {
		if err := f.router.Stop(); err != nil {
			errs = append(errs, fmt.Errorf("browser: stop router: %w", err))
		}
		f.router = nil
	}
	if f.page != nil {
		_ = f.page.Close()
		f.page = nil
	}
	if f.browser != nil {
		if err := f.browser.Close(); err != nil {
			errs = append(errs, fmt.Errorf("browser: close: %w", err))
		}
		f.browser = nil
	}
	if f.lnch != nil {
		f.lnch.Cleanup()
		f.lnch = nil
	}

	return errors.Join(errs...)
}
