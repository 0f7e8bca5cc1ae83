package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strings"

	"github.com/brogergvhs/fichas/internal/util"

	validation "github.com/go-ozzo/ozzo-validation/v4"
)

// DefaultLabel is the profile created by `config init`. It cannot be
// removed or renamed.
const DefaultLabel = "Default"

const (
	// EnvConfigDir relocates the whole config directory.
	EnvConfigDir = "FICHAS_CONFIG_DIR"
	// EnvProfile selects a profile for one invocation without touching the
	// persisted selection.
	EnvProfile = "FICHAS_PROFILE"
)

var (
	ErrNoConfig      = errors.New("no config selected")
	ErrNoProfile     = errors.New("config does not exist")
	ErrProfileExists = errors.New("config already exists")
)

var labelPattern = regexp.MustCompile(`^[A-Za-z0-9][A-Za-z0-9._-]*$`)

// Profile is one YAML file under ProfilesDir.
type Profile struct {
	Label  string
	Path   string
	Active bool
}

func Root() string {
	if dir := os.Getenv(EnvConfigDir); dir != "" {
		return dir
	}
	if appdata := os.Getenv("APPDATA"); appdata != "" {
		return filepath.Join(appdata, "fichas")
	}
	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		return filepath.Join(xdg, "fichas")
	}

	home, _ := os.UserHomeDir()
	return filepath.Join(home, ".config", "fichas")
}

func ProfilesDir() string {
	return filepath.Join(Root(), "configs")
}

func selectionFile() string {
	return filepath.Join(Root(), "current_config")
}

// ProfilePath is where the profile named label lives, whether it exists
// or not.
func ProfilePath(label string) string {
	return filepath.Join(ProfilesDir(), label+".yaml")
}

func checkLabel(label string) error {
	err := validation.Validate(label,
		validation.Required,
		validation.Match(labelPattern).Error("must start with a letter or digit and contain only letters, digits, '.', '_' or '-'"),
	)
	if err != nil {
		return fmt.Errorf("label %q: %w", label, err)
	}
	return nil
}

func exists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}

// ActiveLabel returns FICHAS_PROFILE when set, otherwise the persisted
// selection.
func ActiveLabel() (string, error) {
	if label := strings.TrimSpace(os.Getenv(EnvProfile)); label != "" {
		return label, nil
	}

	b, err := os.ReadFile(selectionFile())
	if errors.Is(err, os.ErrNotExist) {
		return "", ErrNoConfig
	}
	if err != nil {
		return "", err
	}

	label := strings.TrimSpace(string(b))
	if label == "" {
		return "", ErrNoConfig
	}
	return label, nil
}

// Active resolves the selected profile. A selection naming a missing file
// is an error, not ErrNoConfig.
func Active() (Profile, error) {
	label, err := ActiveLabel()
	if err != nil {
		return Profile{}, err
	}

	p, err := Lookup(label)
	if err != nil {
		return Profile{}, fmt.Errorf("active config: %w", err)
	}
	return p, nil
}

func Lookup(label string) (Profile, error) {
	if err := checkLabel(label); err != nil {
		return Profile{}, err
	}

	path := ProfilePath(label)
	if !exists(path) {
		return Profile{}, fmt.Errorf("%w: %q", ErrNoProfile, label)
	}

	active, _ := ActiveLabel()
	return Profile{Label: label, Path: path, Active: label == active}, nil
}

// List returns the profiles sorted by label. A missing directory is an
// empty list.
func List() ([]Profile, error) {
	entries, err := os.ReadDir(ProfilesDir())
	if errors.Is(err, os.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	active, _ := ActiveLabel()
	var out []Profile

	for _, e := range entries {
		label, ok := strings.CutSuffix(e.Name(), ".yaml")
		if e.IsDir() || !ok || checkLabel(label) != nil {
			continue
		}
		out = append(out, Profile{
			Label:  label,
			Path:   filepath.Join(ProfilesDir(), e.Name()),
			Active: label == active,
		})
	}

	sort.Slice(out, func(i, j int) bool { return out[i].Label < out[j].Label })
	return out, nil
}

// Use persists label as the selected profile.
func Use(label string) error {
	p, err := Lookup(label)
	if err != nil {
		return err
	}
	return util.WriteFileAtomic(selectionFile(), []byte(p.Label), 0644)
}

// Create writes cfg as a new profile.
func Create(label string, cfg *Config) (Profile, error) {
	if err := checkLabel(label); err != nil {
		return Profile{}, err
	}

	path := ProfilePath(label)
	if exists(path) {
		return Profile{}, fmt.Errorf("%w: %q", ErrProfileExists, label)
	}

	if err := SaveYAML(cfg, path); err != nil {
		return Profile{}, err
	}
	return Profile{Label: label, Path: path}, nil
}

// Import creates a profile from an external YAML file. The file must load
// and validate; the profile stores it with every default filled in.
func Import(label, src string) (Profile, error) {
	cfg, err := loadYAML(src)
	if err != nil {
		return Profile{}, fmt.Errorf("read %s: %w", src, err)
	}

	normalizeDefaults(cfg)
	if err := cfg.Validate(); err != nil {
		return Profile{}, fmt.Errorf("invalid config %s: %w", src, err)
	}

	return Create(label, cfg)
}

// Rename moves a profile; the selection follows it.
func Rename(oldLabel, newLabel string) error {
	if oldLabel == DefaultLabel {
		return fmt.Errorf("cannot rename the %s config", DefaultLabel)
	}

	p, err := Lookup(oldLabel)
	if err != nil {
		return err
	}
	if err := checkLabel(newLabel); err != nil {
		return err
	}
	if exists(ProfilePath(newLabel)) {
		return fmt.Errorf("%w: %q", ErrProfileExists, newLabel)
	}

	if err := os.Rename(p.Path, ProfilePath(newLabel)); err != nil {
		return err
	}

	if p.Active {
		return Use(newLabel)
	}
	return nil
}

// Remove deletes a profile. Removing the selected one selects Default
// first; fellBack reports that.
func Remove(label string) (fellBack bool, err error) {
	if label == DefaultLabel {
		return false, fmt.Errorf("cannot remove the %s config", DefaultLabel)
	}

	p, err := Lookup(label)
	if err != nil {
		return false, err
	}

	if p.Active {
		if err := Use(DefaultLabel); err != nil {
			return false, fmt.Errorf("falling back to %s: %w", DefaultLabel, err)
		}
		fellBack = true
	}

	return fellBack, os.Remove(p.Path)
}

// InitDefault creates the Default profile from DefaultConfig and selects
// it. An existing Default is selected and reported with os.ErrExist.
func InitDefault() (Profile, error) {
	if p, err := Lookup(DefaultLabel); err == nil {
		if err := Use(DefaultLabel); err != nil {
			return p, err
		}
		return p, os.ErrExist
	}

	p, err := Create(DefaultLabel, DefaultConfig())
	if err != nil {
		return Profile{}, err
	}
	if err := Use(DefaultLabel); err != nil {
		return p, err
	}

	p.Active = true
	return p, nil
}
