// Package config loads the front end's YAML configuration.
package config

import (
	_ "embed"
	"errors"
	"fmt"
	"net"
	"net/url"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

//go:embed default.yaml
var DefaultConfigYAML []byte

// APIURLEnv overrides api.base_url when set.
const APIURLEnv = "PRESSENCE_API_URL"

// Configuration validation errors.
var (
	ErrInvalidBaseURL      = errors.New("api.base_url must be an absolute http(s) URL")
	ErrInvalidTimeout      = errors.New("api.timeout must be non-negative")
	ErrInvalidPort         = errors.New("server.port must be between 1 and 65535")
	ErrInvalidPageSize     = errors.New("site.page_size must be at least 1")
	ErrInvalidRecommend    = errors.New("site.recommendation_limit must be at least 1")
	ErrNoCategories        = errors.New("site.categories must not be empty")
	ErrCategoryMissingSlug = errors.New("category slug is required")
	ErrDuplicateCategory   = errors.New("category slug is duplicated")
	ErrUnknownFeedCategory = errors.New("feed category is not a configured category")
	ErrInvalidDebounce     = errors.New("search.debounce must be non-negative")
	ErrInvalidMinQuery     = errors.New("search.min_query_length must be at least 1")
	ErrInvalidScrapeLimit  = errors.New("scrape.max_articles_per_page must be at least 1")
	ErrInvalidLogLevel     = errors.New("logging.level must be debug, info, warn or error")
)

type Config struct {
	API     API     `yaml:"api"`
	Server  Server  `yaml:"server"`
	Site    Site    `yaml:"site"`
	Search  Search  `yaml:"search"`
	Scrape  Scrape  `yaml:"scrape"`
	Logging Logging `yaml:"logging"`
}

type API struct {
	BaseURL string        `yaml:"base_url"`
	Timeout time.Duration `yaml:"timeout"`
}

type Server struct {
	Host string `yaml:"host"`
	Port int    `yaml:"port"`
}

// Addr is the listen address for the HTTP front end.
func (s Server) Addr() string {
	return net.JoinHostPort(s.Host, strconv.Itoa(s.Port))
}

type Site struct {
	PageSize            int        `yaml:"page_size"`
	RecommendationLimit int        `yaml:"recommendation_limit"`
	FeedCategories      []string   `yaml:"feed_categories"`
	Categories          []Category `yaml:"categories"`
}

// Category is a site section: its URL slug and display name.
type Category struct {
	Slug string `yaml:"slug"`
	Name string `yaml:"name"`
}

// Category looks up a section by slug.
func (s Site) Category(slug string) (Category, bool) {
	for _, c := range s.Categories {
		if c.Slug == slug {
			return c, true
		}
	}
	return Category{}, false
}

type Search struct {
	Debounce       time.Duration `yaml:"debounce"`
	MinQueryLength int           `yaml:"min_query_length"`
}

type Scrape struct {
	MaxArticlesPerPage int `yaml:"max_articles_per_page"`
	// MaxTotalArticles is nil for no overall cap.
	MaxTotalArticles *int          `yaml:"max_total_articles"`
	RefreshDelay     time.Duration `yaml:"refresh_delay"`
}

type Logging struct {
	Level       string `yaml:"level"`
	Development bool   `yaml:"development"`
}

// ConfigDir returns the XDG config directory for pressence.
func ConfigDir() string {
	return filepath.Join(homeDir(), ".config", "pressence")
}

// ResolveConfigPath finds the config file following priority:
// explicit path > ~/.config/pressence/config.yaml > ./config.yaml
// It returns "" without error when only the embedded defaults apply.
func ResolveConfigPath(explicit string) (string, error) {
	if explicit != "" {
		if _, err := os.Stat(explicit); err != nil {
			return "", fmt.Errorf("config file not found: %s", explicit)
		}
		return explicit, nil
	}

	xdgConfig := filepath.Join(ConfigDir(), "config.yaml")
	if _, err := os.Stat(xdgConfig); err == nil {
		return xdgConfig, nil
	}

	cwdConfig := "config.yaml"
	if _, err := os.Stat(cwdConfig); err == nil {
		return cwdConfig, nil
	}

	return "", nil
}

// Load reads and parses a config YAML file. An empty path yields the
// embedded defaults. Environment overrides are applied and the result is
// validated.
func Load(path string) (*Config, error) {
	data := DefaultConfigYAML
	if path != "" {
		var err error
		data, err = os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("reading config: %w", err)
		}
	}

	cfg, err := parse(data)
	if err != nil {
		return nil, err
	}
	cfg.applyEnv(os.Getenv)

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config %s: %w", displayPath(path), err)
	}
	return cfg, nil
}

// Default returns the embedded configuration.
func Default() *Config {
	cfg, err := parse(DefaultConfigYAML)
	if err != nil {
		panic(fmt.Sprintf("embedded default config: %v", err))
	}
	return cfg
}

// parse parses YAML bytes into a Config, applying defaults.
func parse(data []byte) (*Config, error) {
	cfg := &Config{
		API:    API{BaseURL: "http://localhost:5001", Timeout: 15 * time.Second},
		Server: Server{Host: "localhost", Port: 3000},
		Site: Site{
			PageSize:            22,
			RecommendationLimit: 10,
			FeedCategories:      []string{"politika", "kultura", "sport"},
		},
		Search:  Search{Debounce: 300 * time.Millisecond, MinQueryLength: 2},
		Scrape:  Scrape{MaxArticlesPerPage: 3, RefreshDelay: 2 * time.Second},
		Logging: Logging{Level: "info"},
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}

	return cfg, nil
}

func (c *Config) applyEnv(getenv func(string) string) {
	if v := strings.TrimSpace(getenv(APIURLEnv)); v != "" {
		c.API.BaseURL = v
	}
}

// Validate reports the first unusable setting.
func (c *Config) Validate() error {
	u, err := url.Parse(c.API.BaseURL)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return fmt.Errorf("%w: %q", ErrInvalidBaseURL, c.API.BaseURL)
	}
	if c.API.Timeout < 0 {
		return ErrInvalidTimeout
	}
	if c.Server.Port < 1 || c.Server.Port > 65535 {
		return fmt.Errorf("%w: %d", ErrInvalidPort, c.Server.Port)
	}
	if c.Site.PageSize < 1 {
		return ErrInvalidPageSize
	}
	if c.Site.RecommendationLimit < 1 {
		return ErrInvalidRecommend
	}

	if len(c.Site.Categories) == 0 {
		return ErrNoCategories
	}
	seen := make(map[string]bool, len(c.Site.Categories))
	for i, cat := range c.Site.Categories {
		if cat.Slug == "" {
			return fmt.Errorf("%w: categories[%d]", ErrCategoryMissingSlug, i)
		}
		if seen[cat.Slug] {
			return fmt.Errorf("%w: %s", ErrDuplicateCategory, cat.Slug)
		}
		seen[cat.Slug] = true
	}
	for _, slug := range c.Site.FeedCategories {
		if !seen[slug] {
			return fmt.Errorf("%w: %s", ErrUnknownFeedCategory, slug)
		}
	}

	if c.Search.Debounce < 0 {
		return ErrInvalidDebounce
	}
	if c.Search.MinQueryLength < 1 {
		return ErrInvalidMinQuery
	}
	if c.Scrape.MaxArticlesPerPage < 1 {
		return ErrInvalidScrapeLimit
	}

	switch strings.ToLower(c.Logging.Level) {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("%w: %q", ErrInvalidLogLevel, c.Logging.Level)
	}
	return nil
}

func displayPath(path string) string {
	if path == "" {
		return "(embedded defaults)"
	}
	return path
}

func homeDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return "."
	}
	return home
}
