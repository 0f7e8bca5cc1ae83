package timestamp

import (
	"testing"
	"time"
)

func TestValid(t *testing.T) {
	cases := []struct {
		in   string
		want bool
	}{
		{"2025-06-01T00:00:00.000000Z", true},
		{"2024-02-29T23:59:59.999999Z", true},
		{Default, true},
		{"2025-06-01T00:00:00.000Z", false},
		{"2025-06-01T00:00:00.000000", false},
		{"2025-06-01 00:00:00.000000Z", false},
		{"2025-06-01T00:00:00.000000+00:00", false},
		{"2025-13-01T00:00:00.000000Z", false},
		{"2025-02-30T00:00:00.000000Z", false},
		{"2023-02-29T00:00:00.000000Z", false},
		{"2025-06-01T24:00:00.000000Z", false},
		{"2025-06-01T12:60:00.000000Z", false},
		{"not-a-date", false},
		{"", false},
		{" 2025-06-01T00:00:00.000000Z", false},
	}

	for _, c := range cases {
		if got := Valid(c.in); got != c.want {
			t.Errorf("Valid(%q) = %v, want %v", c.in, got, c.want)
		}
	}
}

func TestValidateReportsReason(t *testing.T) {
	if err := Validate("2025-02-30T00:00:00.000000Z"); err == nil {
		t.Fatal("expected error for impossible date")
	}
	if err := Validate("garbage"); err == nil {
		t.Fatal("expected error for malformed input")
	}
}

func TestFormat(t *testing.T) {
	loc := time.FixedZone("UTC-3", -3*60*60)
	in := time.Date(2025, 6, 1, 9, 30, 15, 123456789, loc)

	got := Format(in)
	if got != "2025-06-01T12:30:15.123456Z" {
		t.Fatalf("Format = %q", got)
	}
	if !Valid(got) {
		t.Fatalf("Format output %q does not validate", got)
	}
}

func TestLexicalOrderMatchesTime(t *testing.T) {
	a := Format(time.Date(2025, 1, 9, 23, 0, 0, 0, time.UTC))
	b := Format(time.Date(2025, 1, 10, 1, 0, 0, 0, time.UTC))
	if !(a < b) {
		t.Fatalf("%q should sort before %q", a, b)
	}
}
