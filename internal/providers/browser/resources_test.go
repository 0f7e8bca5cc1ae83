package browser

import (
	"testing"

	"github.com/go-rod/rod/lib/proto"
)

func TestShouldBlock(t *testing.T) {
	set := map[string]bool{}
	for _, b := range []string{"images", "Media", "font"} {
		set[normalizeType(b)] = true
	}

	cases := []struct {
		typ  proto.NetworkResourceType
		want bool
	}{
		{proto.NetworkResourceTypeImage, true},
		{proto.NetworkResourceTypeMedia, true},
		{proto.NetworkResourceTypeFont, true},
		{proto.NetworkResourceTypeDocument, false},
		{proto.NetworkResourceTypeScript, false},
		{proto.NetworkResourceTypeXHR, false},
		{proto.NetworkResourceTypeStylesheet, false},
	}

	for _, c := range cases {
		if got := shouldBlock(set, c.typ); got != c.want {
			t.Errorf("shouldBlock(%s) = %v, want %v", c.typ, got, c.want)
		}
	}
}

func TestDefaultBlockCoversHeavyTypes(t *testing.T) {
	set := map[string]bool{}
	for _, b := range DefaultBlock {
		set[normalizeType(b)] = true
	}
	for _, typ := range []proto.NetworkResourceType{
		proto.NetworkResourceTypeImage,
		proto.NetworkResourceTypeMedia,
		proto.NetworkResourceTypeFont,
	} {
		if !shouldBlock(set, typ) {
			t.Errorf("%s not blocked by default", typ)
		}
	}
}

func TestCloseWithoutStartIsSafe(t *testing.T) {
	f := New(Config{})
	if err := f.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}
	if err := f.Close(); err != nil {
		t.Fatalf("second Close: %v", err)
	}
}
