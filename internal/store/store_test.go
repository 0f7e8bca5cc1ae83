package store

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/brogergvhs/fichas/internal/timestamp"
)

type warnRecorder struct{ lines []string }

func (w *warnRecorder) Warnf(format string, _ ...any) { w.lines = append(w.lines, format) }

func newTestStore(t *testing.T) (*Store, *warnRecorder) {
	t.Helper()
	dir := t.TempDir()
	rec := &warnRecorder{}
	return New(filepath.Join(dir, "datos.json"), filepath.Join(dir, "timestamp.txt"), rec), rec
}

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}
}

func TestLoad(t *testing.T) {
	s, _ := newTestStore(t)
	writeFile(t, s.DataPath(), `{
		"notas": ["names must be exact"],
		"dominio": "https://example.com",
		"fichas": [{"nombre": "A", "capitulo": "Cap 10", "url": "https://example.com/a10"}]
	}`)

	c, err := s.Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if c.Domain != "https://example.com" {
		t.Errorf("Domain = %q", c.Domain)
	}
	if len(c.Fichas) != 1 || c.Fichas[0].Chapter != "Cap 10" {
		t.Errorf("Fichas = %+v", c.Fichas)
	}
	if len(c.Notes) != 1 {
		t.Errorf("Notes = %+v", c.Notes)
	}
}

func TestSaveKeepsDatosKeys(t *testing.T) {
	s, _ := newTestStore(t)
	writeFile(t, s.DataPath(), `{"notas":["x"],"dominio":"https://example.com","fichas":[{"nombre":"A","capitulo":"Cap 10","url":"/a10"}]}`)

	c, err := s.Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	want := Ficha{Name: "A", Chapter: "Cap 10", URL: "/a10"}
	if c.Domain != "https://example.com" || len(c.Fichas) != 1 || c.Fichas[0] != want {
		t.Fatalf("collection = %+v", c)
	}

	c.Fichas[0].Chapter = "Cap 11"
	if err := s.Save(c); err != nil {
		t.Fatal(err)
	}

	raw, err := os.ReadFile(s.DataPath())
	if err != nil {
		t.Fatal(err)
	}
	for _, key := range []string{`"notas"`, `"dominio"`, `"nombre"`, `"capitulo": "Cap 11"`} {
		if !strings.Contains(string(raw), key) {
			t.Errorf("saved file lacks %s:\n%s", key, raw)
		}
	}
	for _, key := range []string{`"domain"`, `"name"`, `"chapter"`, `"notes"`} {
		if strings.Contains(string(raw), key) {
			t.Errorf("saved file has %s:\n%s", key, raw)
		}
	}
}

func TestLoadMissingIsFatal(t *testing.T) {
	s, _ := newTestStore(t)

	_, err := s.Load()
	if !errors.Is(err, ErrDataFile) {
		t.Fatalf("err = %v, want ErrDataFile", err)
	}
	if !errors.Is(err, os.ErrNotExist) {
		t.Fatalf("err = %v, want wrapped os.ErrNotExist", err)
	}
}

func TestLoadMalformedIsFatal(t *testing.T) {
	s, _ := newTestStore(t)
	writeFile(t, s.DataPath(), `{"dominio": "x", "fichas": [`)

	if _, err := s.Load(); !errors.Is(err, ErrDataFile) {
		t.Fatalf("err = %v, want ErrDataFile", err)
	}
}

func TestSaveIsPrettyAndRoundTrips(t *testing.T) {
	s, _ := newTestStore(t)
	c := &Collection{
		Domain: "https://example.com",
		Fichas: []Ficha{{Name: "A & B", Chapter: "Cap 12", URL: "https://example.com/a?x=1&y=2"}},
	}

	if err := s.Save(c); err != nil {
		t.Fatalf("Save: %v", err)
	}

	raw, err := os.ReadFile(s.DataPath())
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(string(raw), "\n  \"dominio\": \"https://example.com\"") {
		t.Errorf("not two-space indented:\n%s", raw)
	}
	if !strings.Contains(string(raw), "x=1&y=2") {
		t.Errorf("html escaping applied:\n%s", raw)
	}

	got, err := s.Load()
	if err != nil {
		t.Fatal(err)
	}
	if got.Fichas[0] != c.Fichas[0] {
		t.Errorf("got %+v, want %+v", got.Fichas[0], c.Fichas[0])
	}
}

func TestLoadWatermark(t *testing.T) {
	cases := []struct {
		name    string
		content *string
		want    string
		warns   int
	}{
		{name: "missing file", content: nil, want: timestamp.Default},
		{name: "valid", content: ptr("2025-06-01T10:00:00.123000Z\n"), want: "2025-06-01T10:00:00.123000Z"},
		{name: "not a date", content: ptr("not-a-date"), want: timestamp.Default, warns: 1},
		{name: "impossible date", content: ptr("2025-02-30T00:00:00.000000Z"), want: timestamp.Default, warns: 1},
		{name: "empty", content: ptr(""), want: timestamp.Default, warns: 1},
	}

	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			s, rec := newTestStore(t)
			if c.content != nil {
				writeFile(t, s.WatermarkPath(), *c.content)
			}

			if got := s.LoadWatermark(); got != c.want {
				t.Errorf("LoadWatermark = %q, want %q", got, c.want)
			}
			if len(rec.lines) != c.warns {
				t.Errorf("warnings = %d, want %d", len(rec.lines), c.warns)
			}
		})
	}
}

func TestCommit(t *testing.T) {
	s, _ := newTestStore(t)
	now := time.Date(2025, 6, 1, 12, 0, 0, 500_000_000, time.UTC)
	c := &Collection{Domain: "https://example.com", Fichas: []Ficha{{Name: "A", Chapter: "Cap 2"}}}

	wm, err := s.Commit(c, now)
	if err != nil {
		t.Fatal(err)
	}
	if wm != "2025-06-01T12:00:00.500000Z" {
		t.Errorf("wm = %q", wm)
	}
	if got := s.LoadWatermark(); got != wm {
		t.Errorf("LoadWatermark = %q, want %q", got, wm)
	}
	got, err := s.Load()
	if err != nil {
		t.Fatal(err)
	}
	if got.Fichas[0].Chapter != "Cap 2" {
		t.Errorf("Fichas = %+v", got.Fichas)
	}
}

func TestCommitWritesNothingWhenWatermarkCannotBeStaged(t *testing.T) {
	s, _ := newTestStore(t)
	const before = `{"dominio": "https://example.com", "fichas": []}`
	writeFile(t, s.DataPath(), before)
	writeFile(t, s.WatermarkPath(), "2025-01-01T00:00:00.000000Z")

	// A directory where the watermark temp file should go makes staging fail.
	if err := os.Mkdir(s.WatermarkPath()+".tmp", 0755); err != nil {
		t.Fatal(err)
	}

	c := &Collection{Domain: "https://example.com", Fichas: []Ficha{{Name: "A", Chapter: "Cap 9"}}}
	if _, err := s.Commit(c, time.Now()); err == nil {
		t.Fatal("expected commit error")
	}

	raw, err := os.ReadFile(s.DataPath())
	if err != nil {
		t.Fatal(err)
	}
	if string(raw) != before {
		t.Errorf("data file changed:\n%s", raw)
	}
	if _, err := os.Stat(s.DataPath() + ".tmp"); !os.IsNotExist(err) {
		t.Errorf("staged data file left behind, stat err = %v", err)
	}
	if got := s.LoadWatermark(); got != "2025-01-01T00:00:00.000000Z" {
		t.Errorf("watermark = %q", got)
	}
}

func TestAddAndRemoveFicha(t *testing.T) {
	s, _ := newTestStore(t)
	writeFile(t, s.DataPath(), `{"dominio": "https://example.com", "fichas": [{"nombre": "A", "capitulo": "Cap 1", "url": ""}]}`)

	if err := s.AddFicha("  B "); err != nil {
		t.Fatalf("AddFicha: %v", err)
	}
	if err := s.AddFicha("A"); err == nil {
		t.Fatal("duplicate name accepted")
	}
	if err := s.AddFicha(" "); err == nil {
		t.Fatal("empty name accepted")
	}

	c, _ := s.Load()
	if len(c.Fichas) != 2 || c.Fichas[1].Name != "B" {
		t.Fatalf("Fichas = %+v", c.Fichas)
	}

	if err := s.RemoveFicha("A"); err != nil {
		t.Fatalf("RemoveFicha: %v", err)
	}
	if err := s.RemoveFicha("A"); err == nil {
		t.Fatal("removing unknown name succeeded")
	}

	c, _ = s.Load()
	if len(c.Fichas) != 1 || c.Fichas[0].Name != "B" {
		t.Fatalf("Fichas = %+v", c.Fichas)
	}
}

func TestIndexPointsIntoCollection(t *testing.T) {
	c := &Collection{Fichas: []Ficha{{Name: "A"}, {Name: "B"}}}
	idx := c.Index()

	idx["B"].Chapter = "Cap 3"
	if c.Fichas[1].Chapter != "Cap 3" {
		t.Fatal("index does not alias collection entries")
	}
}

func ptr(s string) *string { return &s }
