// Package listing extracts chapter cards from a rendered listing page.
// Each card yields a series name, the newest chapter label, a link and the
// chapter's publish time.
package listing

import (
	"fmt"
	"io"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/brogergvhs/fichas/internal/providers"

	validation "github.com/go-ozzo/ozzo-validation/v4"
)

// Selectors locate the card fields. Name, Link, Chapter and Published are
// evaluated inside each Card match.
type Selectors struct {
	Card          string `yaml:"card"`
	Name          string `yaml:"name"`
	Link          string `yaml:"link"`
	Chapter       string `yaml:"chapter"`
	Published     string `yaml:"published"`
	PublishedAttr string `yaml:"published_attr"`
}

func DefaultSelectors() Selectors {
	return Selectors{
		Card:          ".bg-gray-800.p-4.rounded-xl.relative",
		Name:          "figcaption",
		Link:          "a[title]",
		Chapter:       ".flex.flex-col.gap-2.mt-4 a:first-child #name",
		Published:     ".flex.flex-col.gap-2.mt-4 a:first-child time",
		PublishedAttr: "datetime",
	}
}

func (s Selectors) Validate() error {
	return validation.ValidateStruct(&s,
		validation.Field(&s.Card, validation.Required),
		validation.Field(&s.Name, validation.Required),
		validation.Field(&s.Link, validation.Required),
		validation.Field(&s.Chapter, validation.Required),
	)
}

// WithDefaults fills the empty fields of s from def.
func (s Selectors) WithDefaults(def Selectors) Selectors {
	fill := func(v *string, d string) {
		if strings.TrimSpace(*v) == "" {
			*v = d
		}
	}
	fill(&s.Card, def.Card)
	fill(&s.Name, def.Name)
	fill(&s.Link, def.Link)
	fill(&s.Chapter, def.Chapter)
	fill(&s.Published, def.Published)
	fill(&s.PublishedAttr, def.PublishedAttr)
	return s
}

// Parse returns the cards of doc in document order. A card missing its
// name, link or chapter node is an error; a missing publish node leaves
// PublishedAt empty.
func Parse(r io.Reader, baseURL string, sel Selectors) ([]providers.Entry, error) {
	doc, err := goquery.NewDocumentFromReader(r)
	if err != nil {
		return nil, fmt.Errorf("parse html: %w", err)
	}

	return Extract(doc.Selection, baseURL, sel)
}

func Extract(root *goquery.Selection, baseURL string, sel Selectors) ([]providers.Entry, error) {
	var (
		out     []providers.Entry
		missing error
	)

	root.Find(sel.Card).EachWithBreak(func(i int, card *goquery.Selection) bool {
		name := card.Find(sel.Name).First()
		link := card.Find(sel.Link).First()
		chapter := card.Find(sel.Chapter).First()

		switch {
		case name.Length() == 0:
			missing = fmt.Errorf("card %d: no node for %q", i+1, sel.Name)
		case link.Length() == 0:
			missing = fmt.Errorf("card %d: no node for %q", i+1, sel.Link)
		case chapter.Length() == 0:
			missing = fmt.Errorf("card %d: no node for %q", i+1, sel.Chapter)
		}
		if missing != nil {
			return false
		}

		href, _ := link.Attr("href")
		published, _ := card.Find(sel.Published).First().Attr(sel.PublishedAttr)

		out = append(out, providers.Entry{
			Name:        strings.TrimSpace(name.Text()),
			Chapter:     strings.TrimSpace(chapter.Text()),
			URL:         providers.ResolveURL(baseURL, strings.TrimSpace(href)),
			PublishedAt: strings.TrimSpace(published),
		})
		return true
	})

	if missing != nil {
		return nil, missing
	}

	return out, nil
}
