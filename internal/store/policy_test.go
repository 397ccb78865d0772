package store

import (
	"testing"
	"time"

	"github.com/okravets/rozklad/internal/config"
)

func testResolver() *Resolver {
	return NewResolver(&config.Config{
		University: config.University{Code: "kntu"},
		Cache: map[string]config.CachePolicy{
			"schedule_group": {Tier: "session", TTL: "1h"},
			"faculties":      {Tier: "persistent", TTL: "24h"},
			"aliased":        {Tier: "persistent", TTL: "30m", Prefix: "dir"},
		},
	})
}

func TestResolveConfigured(t *testing.T) {
	r := testResolver()

	tests := []struct {
		dataType string
		tier     TierKind
		ttl      time.Duration
		prefix   string
	}{
		{"schedule_group", Session, time.Hour, "kntu_schedule_group"},
		{"faculties", Persistent, 24 * time.Hour, "kntu_faculties"},
		{"aliased", Persistent, 30 * time.Minute, "kntu_dir"},
	}

	for _, tt := range tests {
		p := r.Resolve(tt.dataType)
		if p.Tier != tt.tier {
			t.Errorf("Resolve(%q).Tier = %v, want %v", tt.dataType, p.Tier, tt.tier)
		}
		if p.TTL != tt.ttl {
			t.Errorf("Resolve(%q).TTL = %v, want %v", tt.dataType, p.TTL, tt.ttl)
		}
		if p.Prefix != tt.prefix {
			t.Errorf("Resolve(%q).Prefix = %q, want %q", tt.dataType, p.Prefix, tt.prefix)
		}
	}
}

func TestResolveUnknownFallsBackToDefault(t *testing.T) {
	r := testResolver()

	p := r.Resolve("something_new")
	if p.Tier != Session {
		t.Errorf("expected session tier, got %v", p.Tier)
	}
	if p.TTL != time.Hour {
		t.Errorf("expected 1h TTL, got %v", p.TTL)
	}
	if p.Prefix != "kntu_something_new" {
		t.Errorf("unexpected prefix %q", p.Prefix)
	}
}

func TestResolveEmptyNamespace(t *testing.T) {
	r := NewResolver(&config.Config{})
	p := r.Resolve("schedule_group")
	if p.Prefix != "rozklad_schedule_group" {
		t.Errorf("expected fallback namespace, got %q", p.Prefix)
	}
	if r.Namespace() != "rozklad_" {
		t.Errorf("unexpected namespace %q", r.Namespace())
	}
}
