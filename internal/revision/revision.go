// Package revision maintains a queryable index of the revision snapshots
// edit.Pipeline writes under <cmprdir>/revs/. The edit pipeline itself
// only needs the filesystem (every revision is already an immutable
// snapshot named by timestamp); this index exists so ":history <path>"
// can answer "what changed, and when" without listing and parsing the
// revs/ directory by hand.
//
// Grounded on the schema-and-Store shape of the teacher's
// internal/northstar/store.go, with mattn/go-sqlite3 swapped for
// modernc.org/sqlite — the teacher's driver needs cgo, and nothing else
// in this module does, so the pure-Go driver keeps the whole build
// cgo-free (see DESIGN.md).
package revision

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite"
)

// Entry is one recorded edit.
type Entry struct {
	ID           int64
	FilePath     string
	RevisionPath string
	Timestamp    time.Time
}

// Index is an append-only log of edits, keyed by the working file path
// they touched.
type Index struct {
	db *sql.DB
}

// Open creates or opens the index database at path, creating its schema
// if needed.
func Open(path string) (*Index, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("revision: %w", err)
	}
	db, err := sql.Open("sqlite", path+"?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)")
	if err != nil {
		return nil, fmt.Errorf("revision: opening %s: %w", path, err)
	}
	ix := &Index{db: db}
	if err := ix.initSchema(); err != nil {
		db.Close()
		return nil, err
	}
	return ix, nil
}

func (ix *Index) initSchema() error {
	const schema = `
	CREATE TABLE IF NOT EXISTS revisions (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		file_path TEXT NOT NULL,
		revision_path TEXT NOT NULL,
		created_at TEXT NOT NULL
	);
	CREATE INDEX IF NOT EXISTS idx_revisions_file_path ON revisions(file_path);
	`
	if _, err := ix.db.Exec(schema); err != nil {
		return fmt.Errorf("revision: init schema: %w", err)
	}
	return nil
}

// Close closes the underlying database handle.
func (ix *Index) Close() error { return ix.db.Close() }

// Record appends one entry. It is called once per successful edit,
// right after edit.Pipeline.apply persists the revision snapshot to disk.
func (ix *Index) Record(e Entry) error {
	_, err := ix.db.Exec(
		`INSERT INTO revisions (file_path, revision_path, created_at) VALUES (?, ?, ?)`,
		e.FilePath, e.RevisionPath, e.Timestamp.UTC().Format(time.RFC3339Nano),
	)
	if err != nil {
		return fmt.Errorf("revision: recording %s: %w", e.FilePath, err)
	}
	return nil
}

// History returns every recorded edit to filePath, oldest first.
func (ix *Index) History(filePath string) ([]Entry, error) {
	rows, err := ix.db.Query(
		`SELECT id, file_path, revision_path, created_at FROM revisions WHERE file_path = ? ORDER BY id ASC`,
		filePath,
	)
	if err != nil {
		return nil, fmt.Errorf("revision: history %s: %w", filePath, err)
	}
	defer rows.Close()

	var entries []Entry
	for rows.Next() {
		var e Entry
		var createdAt string
		if err := rows.Scan(&e.ID, &e.FilePath, &e.RevisionPath, &createdAt); err != nil {
			return nil, fmt.Errorf("revision: scanning row: %w", err)
		}
		e.Timestamp, err = time.Parse(time.RFC3339Nano, createdAt)
		if err != nil {
			return nil, fmt.Errorf("revision: parsing timestamp: %w", err)
		}
		entries = append(entries, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("revision: history %s: %w", filePath, err)
	}
	return entries, nil
}
