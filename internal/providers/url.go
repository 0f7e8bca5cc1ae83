package providers

import (
	"fmt"
	"net/url"
	"strings"
)

// ListingURL builds baseURL + path + "?page=n".
func ListingURL(baseURL, path string, page int) string {
	base := strings.TrimRight(baseURL, "/")
	if path != "" && !strings.HasPrefix(path, "/") {
		path = "/" + path
	}
	return fmt.Sprintf("%s%s?page=%d", base, path, page)
}

// ResolveURL resolves href against baseURL; absolute hrefs pass through.
// A root-relative href is appended to baseURL as is, so a domain carrying a
// path prefix (https://x.com/sub) keeps it.
func ResolveURL(baseURL, href string) string {
	if href == "" {
		return baseURL
	}

	u, err := url.Parse(href)
	if err == nil && u.IsAbs() {
		return u.String()
	}

	if strings.HasPrefix(href, "/") && !strings.HasPrefix(href, "//") {
		return strings.TrimRight(baseURL, "/") + href
	}

	b, err := url.Parse(baseURL)
	if err != nil || u == nil {
		return strings.TrimRight(baseURL, "/") + "/" + href
	}

	return b.ResolveReference(u).String()
}
