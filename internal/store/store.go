// Package store provides the two-tier cache used by the schedule client: a
// session tier that lives for the process and a persistent tier backed by
// SQLite. Every entry carries a TTL; expiry is lazy, checked on read. Storage
// failures are absorbed as cache misses and never reach the caller.
package store

import (
	"strings"
	"sync"
	"time"
)

// TierKind selects which storage backend a cache policy targets.
type TierKind int

const (
	Session TierKind = iota
	Persistent
)

func (k TierKind) String() string {
	if k == Persistent {
		return "persistent"
	}
	return "session"
}

// Tier is a single storage backend. Implementations swallow their own I/O
// errors: a failed write is a no-op, a failed read is a miss.
type Tier interface {
	Write(key string, value []byte, ttl time.Duration)
	Read(key string) ([]byte, bool)
	Clear(prefix string)
	Len() int
}

type memEntry struct {
	value     []byte
	storedAt  time.Time
	expiresAt time.Time
}

// MemoryTier is the session-scoped tier. Entries vanish with the process.
type MemoryTier struct {
	mu      sync.Mutex
	entries map[string]memEntry
	now     func() time.Time
}

func NewMemoryTier() *MemoryTier {
	return &MemoryTier{
		entries: make(map[string]memEntry),
		now:     time.Now,
	}
}

func (m *MemoryTier) Write(key string, value []byte, ttl time.Duration) {
	m.mu.Lock()
	defer m.mu.Unlock()
	now := m.now()
	buf := make([]byte, len(value))
	copy(buf, value)
	m.entries[key] = memEntry{value: buf, storedAt: now, expiresAt: now.Add(ttl)}
}

func (m *MemoryTier) Read(key string) ([]byte, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	e, ok := m.entries[key]
	if !ok {
		return nil, false
	}
	if m.now().After(e.expiresAt) {
		delete(m.entries, key)
		return nil, false
	}
	return e.value, true
}

func (m *MemoryTier) Clear(prefix string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for k := range m.entries {
		if strings.HasPrefix(k, prefix) {
			delete(m.entries, k)
		}
	}
}

func (m *MemoryTier) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.entries)
}

// Store pairs the two tiers behind one handle.
type Store struct {
	session    Tier
	persistent Tier
}

func New(session, persistent Tier) *Store {
	return &Store{session: session, persistent: persistent}
}

// Tier returns the backend a policy resolved to.
func (s *Store) Tier(kind TierKind) Tier {
	if kind == Persistent {
		return s.persistent
	}
	return s.session
}

func (s *Store) Write(p Policy, key string, value []byte) {
	s.Tier(p.Tier).Write(p.Prefix+"_"+key, value, p.TTL)
}

func (s *Store) Read(p Policy, key string) ([]byte, bool) {
	return s.Tier(p.Tier).Read(p.Prefix + "_" + key)
}

// Clear removes entries with the given key prefix from both tiers.
func (s *Store) Clear(prefix string) {
	s.session.Clear(prefix)
	s.persistent.Clear(prefix)
}

type Stats struct {
	Session    int
	Persistent int
}

func (s *Store) Stats() Stats {
	return Stats{Session: s.session.Len(), Persistent: s.persistent.Len()}
}
