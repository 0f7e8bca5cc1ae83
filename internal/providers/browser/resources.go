package browser

import (
	"strings"

	"github.com/go-rod/rod"
	"github.com/go-rod/rod/lib/proto"
)

// DefaultBlock keeps text intact while skipping the heavy sub-resources.
var DefaultBlock = []string{"image", "media", "font"}

// blockResources fails requests whose resource type is listed and lets the
// rest through.
func blockResources(page *rod.Page, types []string) *rod.HijackRouter {
	blockSet := make(map[string]bool, len(types))
	for _, t := range types {
		blockSet[normalizeType(t)] = true
	}

	router := page.HijackRequests()

	router.MustAdd("*", func(ctx *rod.Hijack) {
		if shouldBlock(blockSet, ctx.Request.Type()) {
			ctx.Response.Fail(proto.NetworkErrorReasonBlockedByClient)
			return
		}
		ctx.ContinueRequest(&proto.FetchContinueRequest{})
	})

	go router.Run()

	return router
}

func shouldBlock(blockSet map[string]bool, resType proto.NetworkResourceType) bool {
	return blockSet[normalizeType(string(resType))]
}

// normalizeType accepts both CDP names ("Image") and plural config names
// ("images").
func normalizeType(t string) string {
	t = strings.ToLower(strings.TrimSpace(t))
	switch t {
	case "images":
		return "image"
	case "fonts":
		return "font"
	case "stylesheets":
		return "stylesheet"
	}
	return t
}
