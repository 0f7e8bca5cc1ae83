package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/brogergvhs/fichas/internal/providers/browser"
	"github.com/brogergvhs/fichas/internal/providers/listing"
	"github.com/brogergvhs/fichas/internal/util"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/robfig/cron/v3"
	"gopkg.in/yaml.v3"
)

const (
	FetcherBrowser = "browser"
	FetcherHTTP    = "http"
)

// Environment variables that override the active profile.
const (
	EnvDataFile      = "FICHAS_DATA_FILE"
	EnvWatermarkFile = "FICHAS_WATERMARK_FILE"
	EnvCookie        = "FICHAS_COOKIE"
	EnvRemoteChrome  = "FICHAS_REMOTE_CHROME"
)

type Config struct {
	DataFile      string `yaml:"data_file"`
	WatermarkFile string `yaml:"watermark_file"`

	ListingPath   string        `yaml:"listing_path"`
	Fetcher       string        `yaml:"fetcher"`
	MinPages      int           `yaml:"min_pages"`
	PageDelay     time.Duration `yaml:"page_delay"`
	MarkerTimeout time.Duration `yaml:"marker_timeout"`

	Headless       bool     `yaml:"headless"`
	NoSandbox      bool     `yaml:"no_sandbox"`
	ChromeBin      string   `yaml:"chrome_bin"`
	RemoteChrome   string   `yaml:"remote_chrome"`
	BlockResources []string `yaml:"block_resources"`

	Cookie     string `yaml:"cookie"`
	CookieFile string `yaml:"cookie_file"`
	UserAgent  string `yaml:"user_agent"`

	Schedule string `yaml:"schedule"`
	Debug    bool   `yaml:"debug"`
	Progress bool   `yaml:"progress"`

	Selectors listing.Selectors `yaml:"selectors"`
}

type Options struct {
	IgnoreConfig  bool
	Debug         bool
	DataFile      string
	WatermarkFile string
	Fetcher       string
	MinPages      int
	PageDelay     time.Duration
	Headful       bool
	Cookie        string
	CookieFile    string
	UserAgent     string
	Schedule      string
	Progress      bool
}

func DefaultConfig() *Config {
	return &Config{
		DataFile:       "./datos.json",
		WatermarkFile:  "./timestamp.txt",
		ListingPath:    "/capitulos",
		Fetcher:        FetcherBrowser,
		MinPages:       2,
		PageDelay:      5 * time.Second,
		MarkerTimeout:  30 * time.Second,
		Headless:       true,
		NoSandbox:      true,
		BlockResources: append([]string(nil), browser.DefaultBlock...),
		Schedule:       "0 */4 * * *",
		Selectors:      listing.DefaultSelectors(),
	}
}

func (c *Config) Validate() error {
	return validation.ValidateStruct(c,
		validation.Field(&c.DataFile, validation.Required),
		validation.Field(&c.WatermarkFile, validation.Required),
		validation.Field(&c.ListingPath, validation.Required),
		validation.Field(&c.Fetcher, validation.Required, validation.In(FetcherBrowser, FetcherHTTP)),
		validation.Field(&c.MinPages, validation.Required, validation.Min(1)),
		validation.Field(&c.PageDelay, validation.Min(time.Duration(0))),
		validation.Field(&c.MarkerTimeout, validation.Min(time.Duration(0))),
		validation.Field(&c.Schedule, validation.Required, validation.By(validSchedule)),
		validation.Field(&c.Selectors),
	)
}

func validSchedule(v any) error {
	s, _ := v.(string)
	if _, err := cron.ParseStandard(s); err != nil {
		return errors.New("must be a five-field cron expression")
	}
	return nil
}

func SaveYAML(cfg *Config, path string) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}

	return util.WriteFileAtomic(path, data, 0644)
}

// loadYAML decodes path over the defaults, so keys missing from the file
// keep their default values.
func loadYAML(path string) (*Config, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	c := DefaultConfig()
	if err := yaml.Unmarshal(b, c); err != nil {
		return nil, err
	}

	return c, nil
}

func LoadMerged(opts Options) (*Config, string, error) {
	if opts.IgnoreConfig {
		cfg := DefaultConfig()
		return finish(cfg, opts, "(ignored config)")
	}

	p, err := Active()
	if errors.Is(err, ErrNoConfig) {
		cfg := DefaultConfig()
		return finish(cfg, opts, "(default config in memory)\nRun `fichas config init` to create an actual config\n")
	}
	if err != nil {
		return nil, "", err
	}

	cfg, err := loadYAML(p.Path)
	if err != nil {
		return nil, "", fmt.Errorf("failed to load config %s: %w", p.Path, err)
	}

	return finish(cfg, opts, p.Path)
}

func finish(cfg *Config, opts Options, used string) (*Config, string, error) {
	applyEnv(cfg)
	mergeConfig(cfg, opts)
	normalizeDefaults(cfg)

	if err := cfg.Validate(); err != nil {
		return nil, "", fmt.Errorf("invalid config %s: %w", strings.TrimSpace(used), err)
	}

	return cfg, used, nil
}

func applyEnv(c *Config) {
	if v := os.Getenv(EnvDataFile); v != "" {
		c.DataFile = v
	}
	if v := os.Getenv(EnvWatermarkFile); v != "" {
		c.WatermarkFile = v
	}
	if v := os.Getenv(EnvCookie); v != "" {
		c.Cookie = v
	}
	if v := os.Getenv(EnvRemoteChrome); v != "" {
		c.RemoteChrome = v
	}
}

func mergeConfig(c *Config, o Options) {
	if o.Debug {
		c.Debug = true
	}
	if o.DataFile != "" {
		c.DataFile = o.DataFile
	}
	if o.WatermarkFile != "" {
		c.WatermarkFile = o.WatermarkFile
	}
	if o.Fetcher != "" {
		c.Fetcher = o.Fetcher
	}
	if o.MinPages != 0 {
		c.MinPages = o.MinPages
	}
	if o.PageDelay != 0 {
		c.PageDelay = o.PageDelay
	}
	if o.Headful {
		c.Headless = false
	}
	if o.Cookie != "" {
		c.Cookie = o.Cookie
	}
	if o.CookieFile != "" {
		c.CookieFile = o.CookieFile
	}
	if o.UserAgent != "" {
		c.UserAgent = o.UserAgent
	}
	if o.Schedule != "" {
		c.Schedule = o.Schedule
	}
	if o.Progress {
		c.Progress = true
	}
}

func normalizeDefaults(c *Config) {
	def := DefaultConfig()

	if c.ListingPath == "" {
		c.ListingPath = def.ListingPath
	}
	if c.Fetcher == "" {
		c.Fetcher = def.Fetcher
	}
	if c.MinPages == 0 {
		c.MinPages = def.MinPages
	}
	if c.PageDelay == 0 {
		c.PageDelay = def.PageDelay
	}
	if c.MarkerTimeout == 0 {
		c.MarkerTimeout = def.MarkerTimeout
	}
	if c.Schedule == "" {
		c.Schedule = def.Schedule
	}
	c.Fetcher = strings.ToLower(strings.TrimSpace(c.Fetcher))
	c.Selectors = c.Selectors.WithDefaults(def.Selectors)
}

func (c *Config) Print() {
	fmt.Printf(" -data_file: %s\n", c.DataFile)
	fmt.Printf(" -watermark_file: %s\n", c.WatermarkFile)
	fmt.Printf(" -listing_path: %s\n", c.ListingPath)
	fmt.Printf(" -fetcher: %s\n", c.Fetcher)
	fmt.Printf(" -min_pages: %d\n", c.MinPages)
	fmt.Printf(" -page_delay: %s\n", c.PageDelay)
	if c.Fetcher == FetcherBrowser {
		fmt.Printf(" -marker_timeout: %s\n", c.MarkerTimeout)
		fmt.Printf(" -headless: %t\n", c.Headless)
		if c.NoSandbox {
			fmt.Printf(" -no_sandbox: %t\n", c.NoSandbox)
		}
		if c.ChromeBin != "" {
			fmt.Printf(" -chrome_bin: %s\n", c.ChromeBin)
		}
		if c.RemoteChrome != "" {
			fmt.Printf(" -remote_chrome: %s\n", c.RemoteChrome)
		}
		if len(c.BlockResources) > 0 {
			fmt.Printf(" -block_resources: %s\n", strings.Join(c.BlockResources, ", "))
		}
	}
	if c.CookieFile != "" {
		fmt.Printf(" -cookie_file: %s\n", c.CookieFile)
	}
	if c.UserAgent != "" {
		fmt.Printf(" -user_agent: %s\n", c.UserAgent)
	}
	fmt.Printf(" -schedule: %s\n", c.Schedule)
	if c.Debug {
		fmt.Printf(" -debug: %t\n", c.Debug)
	}
	if c.Progress {
		fmt.Printf(" -progress: %t\n", c.Progress)
	}
	fmt.Printf(" -selectors.card: %s\n", c.Selectors.Card)
}
