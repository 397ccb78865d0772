package store

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite"
)

// SQLiteTier is the persistent tier: a key/value table with per-row expiry,
// stored under the user's cache directory so directory data (faculties,
// groups, instructors) survives restarts.
type SQLiteTier struct {
	readDB  *sql.DB
	writeDB *sql.DB
	now     func() time.Time
}

func OpenSQLite(dbPath string) (*SQLiteTier, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0o755); err != nil {
		return nil, fmt.Errorf("creating cache dir: %w", err)
	}

	writeDB, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("opening write db: %w", err)
	}
	writeDB.SetMaxOpenConns(1)

	readDB, err := sql.Open("sqlite", dbPath)
	if err != nil {
		writeDB.Close()
		return nil, fmt.Errorf("opening read db: %w", err)
	}

	t := &SQLiteTier{readDB: readDB, writeDB: writeDB, now: time.Now}
	if err := t.init(); err != nil {
		t.Close()
		return nil, err
	}
	return t, nil
}

func (t *SQLiteTier) init() error {
	_, err := t.writeDB.Exec(`
		CREATE TABLE IF NOT EXISTS entries (
			key        TEXT PRIMARY KEY,
			value      BLOB NOT NULL,
			stored_at  INTEGER NOT NULL,
			expires_at INTEGER NOT NULL
		);
		CREATE INDEX IF NOT EXISTS idx_entries_expires ON entries(expires_at);
	`)
	if err != nil {
		return fmt.Errorf("initializing schema: %w", err)
	}
	return nil
}

func (t *SQLiteTier) Close() error {
	var errs []error
	if t.readDB != nil {
		errs = append(errs, t.readDB.Close())
	}
	if t.writeDB != nil {
		errs = append(errs, t.writeDB.Close())
	}
	for _, e := range errs {
		if e != nil {
			return e
		}
	}
	return nil
}

// Write stores the value, replacing any previous entry for the key. A storage
// error leaves the cache as-is; the caller proceeds as if nothing was cached.
func (t *SQLiteTier) Write(key string, value []byte, ttl time.Duration) {
	now := t.now()
	t.writeDB.Exec(`
		INSERT INTO entries (key, value, stored_at, expires_at) VALUES (?, ?, ?, ?)
		ON CONFLICT(key) DO UPDATE SET
			value = excluded.value,
			stored_at = excluded.stored_at,
			expires_at = excluded.expires_at
	`, key, value, now.UnixMilli(), now.Add(ttl).UnixMilli())
}

func (t *SQLiteTier) Read(key string) ([]byte, bool) {
	var (
		value     []byte
		expiresAt int64
	)
	err := t.readDB.QueryRow(
		"SELECT value, expires_at FROM entries WHERE key = ?", key,
	).Scan(&value, &expiresAt)
	if err != nil {
		return nil, false
	}
	if t.now().UnixMilli() > expiresAt {
		t.writeDB.Exec("DELETE FROM entries WHERE key = ?", key)
		return nil, false
	}
	return value, true
}

func (t *SQLiteTier) Clear(prefix string) {
	t.writeDB.Exec(`DELETE FROM entries WHERE key LIKE ? ESCAPE '\'`, likePrefix(prefix))
}

func (t *SQLiteTier) Len() int {
	var n int
	if err := t.readDB.QueryRow("SELECT COUNT(*) FROM entries").Scan(&n); err != nil {
		return 0
	}
	return n
}

// likePrefix escapes LIKE metacharacters so a key prefix matches literally.
func likePrefix(prefix string) string {
	out := make([]byte, 0, len(prefix)+2)
	for i := 0; i < len(prefix); i++ {
		c := prefix[i]
		if c == '%' || c == '_' || c == '\\' {
			out = append(out, '\\')
		}
		out = append(out, c)
	}
	return string(out) + "%"
}
