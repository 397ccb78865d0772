package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestLoadMissingFileUsesDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}

	if cfg.University.Code != "kntu" {
		t.Errorf("unexpected university code %q", cfg.University.Code)
	}
	if len(cfg.Bells) != 7 {
		t.Errorf("expected 7 bell periods, got %d", len(cfg.Bells))
	}
	if cfg.API.BaseURL == "" {
		t.Error("defaults must carry an API base URL")
	}

	// First run writes the defaults next to where the config was expected
	if _, err := os.Stat(path); err != nil {
		t.Errorf("expected defaults written to %s: %v", path, err)
	}
}

func TestLoadUserConfig(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	os.WriteFile(path, []byte(`
university:
  code: test
api:
  base_url: "https://api.example.edu"
  timeout: 5s
bells:
  - {number: 1, start: "09:00", end: "10:20"}
`), 0o644)

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.University.Code != "test" {
		t.Errorf("user config not honored: %q", cfg.University.Code)
	}
	if cfg.APITimeout() != 5*time.Second {
		t.Errorf("timeout = %v, want 5s", cfg.APITimeout())
	}
}

func TestLoadRejectsInvalid(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{"bad scheme", "api:\n  base_url: \"ftp://x\"\nbells:\n  - {number: 1}\n"},
		{"no bells", "api:\n  base_url: \"https://x\"\n"},
		{"duplicate period", "api:\n  base_url: \"https://x\"\nbells:\n  - {number: 1}\n  - {number: 1}\n"},
		{"negative period", "api:\n  base_url: \"https://x\"\nbells:\n  - {number: -1}\n"},
		{"bad cache tier", "api:\n  base_url: \"https://x\"\nbells:\n  - {number: 1}\ncache:\n  x: {tier: disk, ttl: 1h}\n"},
		{"bad cache ttl", "api:\n  base_url: \"https://x\"\nbells:\n  - {number: 1}\ncache:\n  x: {tier: session, ttl: soon}\n"},
	}

	for _, tt := range tests {
		path := filepath.Join(t.TempDir(), "config.yaml")
		os.WriteFile(path, []byte(tt.body), 0o644)
		if _, err := Load(path); err == nil {
			t.Errorf("%s: expected validation error", tt.name)
		}
	}
}

func TestBellLookup(t *testing.T) {
	cfg, err := loadDefaults()
	if err != nil {
		t.Fatalf("defaults: %v", err)
	}

	b := cfg.Bell(1)
	if b == nil || b.Start != "08:30" || b.End != "09:50" {
		t.Errorf("unexpected first bell %+v", b)
	}
	if cfg.Bell(99) != nil {
		t.Error("unknown period must return nil")
	}
}

func TestLessonTypeFallback(t *testing.T) {
	cfg, err := loadDefaults()
	if err != nil {
		t.Fatalf("defaults: %v", err)
	}

	if lt := cfg.LessonType("lecture"); lt.Short == "" {
		t.Error("known type must resolve")
	}
	unknown := cfg.LessonType("weird")
	practice := cfg.LessonType("practice")
	if unknown != practice {
		t.Errorf("unknown type must fall back to practice, got %+v", unknown)
	}
}

func TestDefaultCachePolicies(t *testing.T) {
	cfg, err := loadDefaults()
	if err != nil {
		t.Fatalf("defaults: %v", err)
	}

	p, ok := cfg.Cache["schedule_group"]
	if !ok {
		t.Fatal("defaults must configure schedule_group caching")
	}
	if p.Tier != "session" || p.TTLDuration() != time.Hour {
		t.Errorf("unexpected schedule policy %+v", p)
	}

	f := cfg.Cache["faculties"]
	if f.Tier != "persistent" || f.TTLDuration() != 24*time.Hour {
		t.Errorf("unexpected faculties policy %+v", f)
	}
}

func TestTTLDurationFallback(t *testing.T) {
	p := CachePolicy{TTL: "nonsense"}
	if p.TTLDuration() != time.Hour {
		t.Errorf("invalid ttl must fall back to 1h, got %v", p.TTLDuration())
	}
}

func TestAcademicYearStart(t *testing.T) {
	cfg, err := loadDefaults()
	if err != nil {
		t.Fatalf("defaults: %v", err)
	}
	start, err := cfg.AcademicYearStart()
	if err != nil {
		t.Fatalf("academic year start: %v", err)
	}
	if start.Format("2006-01-02") != "2024-09-02" {
		t.Errorf("unexpected start %s", start)
	}
}

func TestDayName(t *testing.T) {
	cfg, err := loadDefaults()
	if err != nil {
		t.Fatalf("defaults: %v", err)
	}
	if got := cfg.DayName(time.Monday, false); got != "Понеділок" {
		t.Errorf("DayName(Monday) = %q", got)
	}
	if got := cfg.DayName(time.Friday, true); got != "Пт" {
		t.Errorf("DayName(Friday, short) = %q", got)
	}
}

func TestBreakpointDefault(t *testing.T) {
	cfg := &Config{}
	if cfg.Breakpoint() != 96 {
		t.Errorf("zero breakpoint must default to 96, got %d", cfg.Breakpoint())
	}
}
