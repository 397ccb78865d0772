package config

import (
	"embed"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"time"

	"github.com/adrg/xdg"
	"gopkg.in/yaml.v3"
)

//go:embed default_config.yaml
var defaultConfigFS embed.FS

type University struct {
	Code      string `yaml:"code"`
	Name      string `yaml:"name"`
	ShortName string `yaml:"short_name"`
	Timezone  string `yaml:"timezone"`
}

type AcademicYear struct {
	Start string `yaml:"start"`
	End   string `yaml:"end"`
}

type API struct {
	BaseURL   string            `yaml:"base_url"`
	Timeout   string            `yaml:"timeout"`
	Endpoints map[string]string `yaml:"endpoints"`
}

// CachePolicy is one row of the per-data-type cache table. Tier selects the
// storage backend ("session" or "persistent"), TTL is a duration string.
type CachePolicy struct {
	Tier   string `yaml:"tier"`
	TTL    string `yaml:"ttl"`
	Prefix string `yaml:"prefix,omitempty"`
}

func (p CachePolicy) TTLDuration() time.Duration {
	d, err := time.ParseDuration(p.TTL)
	if err != nil {
		return time.Hour
	}
	return d
}

// Bell is one numbered teaching period from the bell schedule.
type Bell struct {
	Number     int    `yaml:"number"`
	Start      string `yaml:"start"`
	End        string `yaml:"end"`
	BreakAfter int    `yaml:"break_after"`
}

type LessonType struct {
	Name  string `yaml:"name"`
	Short string `yaml:"short"`
	Color string `yaml:"color"`
}

type UI struct {
	Breakpoint int `yaml:"breakpoint"`
}

type Messages struct {
	Loading     string   `yaml:"loading"`
	Error       string   `yaml:"error"`
	Retry       string   `yaml:"retry"`
	ClearCache  string   `yaml:"clear_cache"`
	NoLessons   string   `yaml:"no_lessons"`
	NoData      string   `yaml:"no_data"`
	NoWeekData  string   `yaml:"no_week_data"`
	DayFailed   string   `yaml:"day_failed"`
	PartialWeek string   `yaml:"partial_week"`
	Stale       string   `yaml:"stale"`
	DaysShort   []string `yaml:"days_short"`
	DaysLong    []string `yaml:"days_long"`
}

type Config struct {
	University   University             `yaml:"university"`
	AcademicYear AcademicYear           `yaml:"academic_year"`
	API          API                    `yaml:"api"`
	Cache        map[string]CachePolicy `yaml:"cache"`
	Bells        []Bell                 `yaml:"bells"`
	LessonTypes  map[string]LessonType  `yaml:"lesson_types"`
	UI           UI                     `yaml:"ui"`
	Messages     Messages               `yaml:"messages"`
}

func (c *Config) APITimeout() time.Duration {
	d, err := time.ParseDuration(c.API.Timeout)
	if err != nil {
		return 10 * time.Second
	}
	return d
}

// EndpointPath returns the configured path for a named endpoint.
func (c *Config) EndpointPath(name string) (string, error) {
	p, ok := c.API.Endpoints[name]
	if !ok {
		return "", fmt.Errorf("endpoint %q not configured", name)
	}
	return p, nil
}

// Bell returns the bell table row for a period number, or nil when the number
// is outside the configured table.
func (c *Config) Bell(number int) *Bell {
	for i := range c.Bells {
		if c.Bells[i].Number == number {
			return &c.Bells[i]
		}
	}
	return nil
}

// LessonType resolves lesson-type metadata, falling back to "practice" so an
// unknown type still renders with sane name and color.
func (c *Config) LessonType(key string) LessonType {
	if lt, ok := c.LessonTypes[key]; ok {
		return lt
	}
	if lt, ok := c.LessonTypes["practice"]; ok {
		return lt
	}
	return LessonType{Name: key, Short: key, Color: "#6B7280"}
}

// AcademicYearStart parses the configured start of the academic year.
func (c *Config) AcademicYearStart() (time.Time, error) {
	t, err := time.Parse("2006-01-02", c.AcademicYear.Start)
	if err != nil {
		return time.Time{}, fmt.Errorf("parsing academic year start: %w", err)
	}
	return t, nil
}

func (c *Config) Breakpoint() int {
	if c.UI.Breakpoint <= 0 {
		return 96
	}
	return c.UI.Breakpoint
}

func (c *Config) DayName(weekday time.Weekday, short bool) string {
	days := c.Messages.DaysLong
	if short {
		days = c.Messages.DaysShort
	}
	if int(weekday) < len(days) {
		return days[weekday]
	}
	return weekday.String()
}

func DefaultConfigPath() string {
	return filepath.Join(xdg.ConfigHome, "rozklad", "config.yaml")
}

func CachePath() string {
	return filepath.Join(xdg.CacheHome, "rozklad", "cache.db")
}

func SettingsPath() string {
	return filepath.Join(xdg.ConfigHome, "rozklad", "settings.yaml")
}

func loadDefaults() (*Config, error) {
	data, err := defaultConfigFS.ReadFile("default_config.yaml")
	if err != nil {
		return nil, fmt.Errorf("reading embedded config: %w", err)
	}
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parsing embedded config: %w", err)
	}
	return &cfg, nil
}

// Load reads the config file, creating it from the embedded defaults on first
// run. A missing user config falls back to the defaults rather than failing
// startup.
func Load(path string) (*Config, error) {
	defaults, err := loadDefaults()
	if err != nil {
		return nil, err
	}

	if path == "" {
		path = DefaultConfigPath()
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			// Write defaults to config path on first run; non-fatal if it fails
			writeDefaults(path)
			return defaults, nil
		}
		return defaults, nil
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parsing config %s: %w", path, err)
	}

	if err := validate(&cfg); err != nil {
		return nil, err
	}

	return &cfg, nil
}

func writeDefaults(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	data, _ := defaultConfigFS.ReadFile("default_config.yaml")
	return os.WriteFile(path, data, 0o644)
}

func validate(cfg *Config) error {
	if cfg.API.BaseURL == "" {
		return fmt.Errorf("api.base_url is required")
	}
	u, err := url.Parse(cfg.API.BaseURL)
	if err != nil {
		return fmt.Errorf("api.base_url: invalid url: %w", err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return fmt.Errorf("api.base_url: scheme must be http or https, got %q", u.Scheme)
	}
	if len(cfg.Bells) == 0 {
		return fmt.Errorf("bells: at least one period is required")
	}
	seen := make(map[int]bool)
	for i, b := range cfg.Bells {
		if b.Number <= 0 {
			return fmt.Errorf("bells[%d]: period number must be positive", i)
		}
		if seen[b.Number] {
			return fmt.Errorf("bells[%d]: duplicate period number %d", i, b.Number)
		}
		seen[b.Number] = true
	}
	for name, p := range cfg.Cache {
		if p.Tier != "session" && p.Tier != "persistent" {
			return fmt.Errorf("cache.%s: unknown tier %q (valid: session, persistent)", name, p.Tier)
		}
		if _, err := time.ParseDuration(p.TTL); err != nil {
			return fmt.Errorf("cache.%s: invalid ttl: %w", name, err)
		}
	}
	return nil
}
