package store

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite"
)

// HistoryLimit is the number of past saves kept in the history table.
const HistoryLimit = 20

const schema = `
CREATE TABLE IF NOT EXISTS settings (
    id INTEGER PRIMARY KEY CHECK (id = 1),
    data TEXT NOT NULL,
    updated_at INTEGER NOT NULL
);

CREATE TABLE IF NOT EXISTS history (
    id INTEGER PRIMARY KEY AUTOINCREMENT,
    data TEXT NOT NULL,
    saved_at INTEGER NOT NULL
);
`

// SQLiteStore keeps the blob in a single-row table and records a bounded
// history of previous saves.
type SQLiteStore struct {
	conn *sql.DB
	dir  string
}

// Snapshot is one entry of the save history.
type Snapshot struct {
	ID            int64
	SavedAt       time.Time
	SchemaVersion int
	Size          int
}

// OpenSQLite opens or creates the database at the given path.
func OpenSQLite(path string) (*SQLiteStore, error) {
	conn, err := sql.Open("sqlite", path+"?_pragma=journal_mode(wal)&_pragma=busy_timeout(5000)")
	if err != nil {
		return nil, fmt.Errorf("open db: %w", err)
	}
	return initSQLite(conn, filepath.Dir(path))
}

// OpenMemory opens an in-memory database (for testing).
func OpenMemory() (*SQLiteStore, error) {
	conn, err := sql.Open("sqlite", ":memory:")
	if err != nil {
		return nil, err
	}
	// Every pooled connection would get its own empty in-memory database.
	conn.SetMaxOpenConns(1)
	return initSQLite(conn, "")
}

func initSQLite(conn *sql.DB, dir string) (*SQLiteStore, error) {
	if _, err := conn.Exec(schema); err != nil {
		if closeErr := conn.Close(); closeErr != nil {
			return nil, fmt.Errorf("init schema: %w (close: %v)", err, closeErr)
		}
		return nil, fmt.Errorf("init schema: %w", err)
	}

	s := &SQLiteStore{conn: conn, dir: dir}
	if err := s.migrate(); err != nil {
		if closeErr := conn.Close(); closeErr != nil {
			return nil, fmt.Errorf("migrate db: %w (close: %v)", err, closeErr)
		}
		return nil, fmt.Errorf("migrate db: %w", err)
	}
	return s, nil
}

// Close closes the database connection.
func (s *SQLiteStore) Close() error {
	return s.conn.Close()
}

// Load returns the current blob.
func (s *SQLiteStore) Load() ([]byte, error) {
	var data string
	err := s.conn.QueryRow("SELECT data FROM settings WHERE id = 1").Scan(&data)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("load settings: %w", err)
	}
	return []byte(data), nil
}

// Save replaces the current blob and appends it to the history, dropping the
// oldest snapshots beyond HistoryLimit.
func (s *SQLiteStore) Save(data []byte) error {
	now := time.Now().Unix()
	version := schemaVersion(data)

	tx, err := s.conn.Begin()
	if err != nil {
		return fmt.Errorf("begin save: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.Exec(`
		INSERT INTO settings (id, data, updated_at, schema_version)
		VALUES (1, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			data = excluded.data,
			updated_at = excluded.updated_at,
			schema_version = excluded.schema_version
	`, string(data), now, version); err != nil {
		return fmt.Errorf("save settings: %w", err)
	}

	if _, err := tx.Exec("INSERT INTO history (data, saved_at, schema_version) VALUES (?, ?, ?)",
		string(data), now, version); err != nil {
		return fmt.Errorf("record history: %w", err)
	}
	if _, err := tx.Exec(`
		DELETE FROM history WHERE id NOT IN (
			SELECT id FROM history ORDER BY id DESC LIMIT ?
		)`, HistoryLimit); err != nil {
		return fmt.Errorf("prune history: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit save: %w", err)
	}
	return nil
}

// History lists saved snapshots, newest first.
func (s *SQLiteStore) History() ([]Snapshot, error) {
	rows, err := s.conn.Query("SELECT id, saved_at, schema_version, length(data) FROM history ORDER BY id DESC")
	if err != nil {
		return nil, fmt.Errorf("list history: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var out []Snapshot
	for rows.Next() {
		var snap Snapshot
		var at int64
		if err := rows.Scan(&snap.ID, &at, &snap.SchemaVersion, &snap.Size); err != nil {
			return nil, fmt.Errorf("scan history: %w", err)
		}
		snap.SavedAt = time.Unix(at, 0)
		out = append(out, snap)
	}
	return out, rows.Err()
}

// Snapshot returns the blob stored under a history id.
func (s *SQLiteStore) Snapshot(id int64) ([]byte, error) {
	var data string
	err := s.conn.QueryRow("SELECT data FROM history WHERE id = ?", id).Scan(&data)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("snapshot %d not found", id)
	}
	if err != nil {
		return nil, fmt.Errorf("load snapshot: %w", err)
	}
	return []byte(data), nil
}

// Preserve writes unreadable settings to a file beside the database.
func (s *SQLiteStore) Preserve(data []byte) (string, error) {
	if s.dir == "" {
		return "", fmt.Errorf("in-memory store has no directory")
	}
	return preserve(s.dir, data)
}

func (s *SQLiteStore) migrate() error {
	for _, table := range []string{"settings", "history"} {
		has, err := s.hasColumn(table, "schema_version")
		if err != nil {
			return err
		}
		if !has {
			if _, err := s.conn.Exec("ALTER TABLE " + table + " ADD COLUMN schema_version INTEGER NOT NULL DEFAULT 0"); err != nil {
				return fmt.Errorf("add %s.schema_version: %w", table, err)
			}
		}
	}
	return nil
}

func (s *SQLiteStore) hasColumn(table, col string) (bool, error) {
	rows, err := s.conn.Query("PRAGMA table_info(" + table + ")")
	if err != nil {
		return false, err
	}
	defer func() { _ = rows.Close() }()
	for rows.Next() {
		var cid int
		var name, ctype string
		var notnull int
		var dflt sql.NullString
		var pk int
		if err := rows.Scan(&cid, &name, &ctype, &notnull, &dflt, &pk); err != nil {
			return false, err
		}
		if name == col {
			return true, nil
		}
	}
	return false, rows.Err()
}

func schemaVersion(data []byte) int {
	var head struct {
		SchemaVersion int `json:"schemaVersion"`
	}
	if err := json.Unmarshal(data, &head); err != nil {
		return 0
	}
	return head.SchemaVersion
}
