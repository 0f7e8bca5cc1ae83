// Package store persists the tracked fichas and the sync watermark as flat
// files: a JSON document for the collection and a one-line text file for
// the watermark.
package store

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/brogergvhs/fichas/internal/timestamp"
	"github.com/brogergvhs/fichas/internal/util"
)

// ErrDataFile wraps every failure to read or decode the collection file.
var ErrDataFile = errors.New("cannot load data file")

// Ficha is one tracked series. Name is the exact, user-curated key.
type Ficha struct {
	Name    string `json:"nombre"`
	Chapter string `json:"capitulo"`
	URL     string `json:"url"`
}

// Collection is the content of the data file. The JSON keys are the ones
// of the existing datos.json files.
type Collection struct {
	Notes  []string `json:"notas,omitempty"`
	Domain string   `json:"dominio"`
	Fichas []Ficha  `json:"fichas"`
}

// Index maps ficha names to the fichas inside c. The pointers stay valid
// as long as c.Fichas is not appended to.
func (c *Collection) Index() map[string]*Ficha {
	idx := make(map[string]*Ficha, len(c.Fichas))
	for i := range c.Fichas {
		idx[c.Fichas[i].Name] = &c.Fichas[i]
	}
	return idx
}

type Logger interface {
	Warnf(string, ...any)
}

type Store struct {
	dataPath      string
	watermarkPath string
	log           Logger
}

func New(dataPath, watermarkPath string, log Logger) *Store {
	return &Store{
		dataPath:      dataPath,
		watermarkPath: watermarkPath,
		log:           log,
	}
}

func (s *Store) DataPath() string      { return s.dataPath }
func (s *Store) WatermarkPath() string { return s.watermarkPath }

// Load reads the collection. Any failure is fatal for a sync run.
func (s *Store) Load() (*Collection, error) {
	b, err := os.ReadFile(s.dataPath)
	if err != nil {
		return nil, fmt.Errorf("%w %s: %w", ErrDataFile, s.dataPath, err)
	}

	var c Collection
	if err := json.Unmarshal(b, &c); err != nil {
		return nil, fmt.Errorf("%w %s: %w", ErrDataFile, s.dataPath, err)
	}

	return &c, nil
}

// Save replaces the whole data file with c, indented by two spaces.
func (s *Store) Save(c *Collection) error {
	data, err := s.encode(c)
	if err != nil {
		return err
	}

	return util.WriteFileAtomic(s.dataPath, data, 0644)
}

func (s *Store) encode(c *Collection) ([]byte, error) {
	if c.Fichas == nil {
		c.Fichas = []Ficha{}
	}

	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	if err := enc.Encode(c); err != nil {
		return nil, fmt.Errorf("encode %s: %w", s.dataPath, err)
	}

	return buf.Bytes(), nil
}

// LoadWatermark never fails: a missing, unreadable or malformed watermark
// falls back to timestamp.Default.
func (s *Store) LoadWatermark() string {
	b, err := os.ReadFile(s.watermarkPath)
	if err != nil {
		if !os.IsNotExist(err) {
			s.warnf("cannot read watermark %s, using %s: %v\n", s.watermarkPath, timestamp.Default, err)
		}
		return timestamp.Default
	}

	wm := strings.TrimSpace(string(b))
	if err := timestamp.Validate(wm); err != nil {
		s.warnf("ignoring watermark %s, using %s: %v\n", s.watermarkPath, timestamp.Default, err)
		return timestamp.Default
	}

	return wm
}

// Commit saves c and moves the watermark to now, returning the new
// watermark. Both files are written and synced before either is renamed
// into place. The data file is renamed first: if the watermark rename then
// fails, the next run only rescans pages it already applied.
func (s *Store) Commit(c *Collection, now time.Time) (string, error) {
	data, err := s.encode(c)
	if err != nil {
		return "", err
	}

	dataFile, err := util.StageFile(s.dataPath, data, 0644)
	if err != nil {
		return "", err
	}

	wm := timestamp.Format(now)
	wmFile, err := util.StageFile(s.watermarkPath, []byte(wm), 0644)
	if err != nil {
		dataFile.Discard()
		return "", err
	}

	if err := dataFile.Commit(); err != nil {
		wmFile.Discard()
		return "", err
	}
	if err := wmFile.Commit(); err != nil {
		return "", fmt.Errorf("%s saved, watermark kept at its previous value: %w", s.dataPath, err)
	}

	return wm, nil
}

// AddFicha registers a new name with an empty chapter and link.
func (s *Store) AddFicha(name string) error {
	name = strings.TrimSpace(name)
	if name == "" {
		return errors.New("name cannot be empty")
	}

	c, err := s.Load()
	if err != nil {
		return err
	}

	for _, f := range c.Fichas {
		if f.Name == name {
			return fmt.Errorf("ficha %q already tracked", name)
		}
	}

	c.Fichas = append(c.Fichas, Ficha{Name: name})
	return s.Save(c)
}

func (s *Store) RemoveFicha(name string) error {
	c, err := s.Load()
	if err != nil {
		return err
	}

	out := c.Fichas[:0]
	found := false
	for _, f := range c.Fichas {
		if f.Name == name {
			found = true
			continue
		}
		out = append(out, f)
	}

	if !found {
		return fmt.Errorf("ficha %q is not tracked", name)
	}

	c.Fichas = out
	return s.Save(c)
}

func (s *Store) warnf(format string, args ...any) {
	if s.log != nil {
		s.log.Warnf(format, args...)
	}
}
