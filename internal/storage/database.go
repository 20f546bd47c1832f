package storage

import (
	"database/sql"
	"fmt"
	"strings"
	"time"

	_ "github.com/mattn/go-sqlite3"
)

// SharedMemoryPath is an in-memory database shared by every connection of the pool.
const SharedMemoryPath = "file:notebook?mode=memory&cache=shared"

// New opens a SQLite database connection at the given path.
// Foreign keys are enabled on every pooled connection through the DSN.
func New(path string) (*sql.DB, error) {
	db, err := sql.Open("sqlite3", withForeignKeys(path))
	if err != nil {
		return nil, err
	}

	// Set connection pool settings
	db.SetMaxOpenConns(25)
	db.SetMaxIdleConns(5)
	if !strings.Contains(path, "mode=memory") {
		// A shared in-memory database disappears once its last connection closes.
		db.SetConnMaxLifetime(5 * time.Minute)
	}

	// Verify connection
	if err := db.Ping(); err != nil {
		_ = db.Close()
		return nil, err
	}

	return db, nil
}

func withForeignKeys(path string) string {
	sep := "?"
	if strings.Contains(path, "?") {
		sep = "&"
	}
	return path + sep + "_foreign_keys=on"
}

// schema is applied in order by Migrate; every statement is idempotent.
var schema = []string{
	`CREATE TABLE IF NOT EXISTS notebooks (
		id TEXT PRIMARY KEY,
		title TEXT NOT NULL,
		emoji TEXT NOT NULL,
		created_at TEXT NOT NULL
	);`,
	`CREATE TABLE IF NOT EXISTS sources (
		id TEXT PRIMARY KEY,
		notebook_id TEXT NOT NULL,
		title TEXT NOT NULL,
		type TEXT NOT NULL,
		content TEXT NOT NULL,
		created_at TEXT NOT NULL,
		FOREIGN KEY (notebook_id) REFERENCES notebooks(id)
	);`,
	`CREATE INDEX IF NOT EXISTS idx_sources_notebook ON sources(notebook_id);`,
	`CREATE TABLE IF NOT EXISTS messages (
		id TEXT PRIMARY KEY,
		notebook_id TEXT NOT NULL,
		role TEXT NOT NULL,
		content TEXT NOT NULL,
		created_at TEXT NOT NULL,
		FOREIGN KEY (notebook_id) REFERENCES notebooks(id)
	);`,
	`CREATE INDEX IF NOT EXISTS idx_messages_notebook ON messages(notebook_id);`,
	`CREATE TABLE IF NOT EXISTS reports (
		id TEXT PRIMARY KEY,
		notebook_id TEXT NOT NULL,
		type TEXT NOT NULL,
		status TEXT NOT NULL,
		content TEXT NOT NULL DEFAULT '',
		created_at TEXT NOT NULL,
		FOREIGN KEY (notebook_id) REFERENCES notebooks(id)
	);`,
	`CREATE TABLE IF NOT EXISTS chunks (
		id TEXT PRIMARY KEY,
		source_hash TEXT NOT NULL,
		chunk_index INTEGER NOT NULL,
		heading_path TEXT,
		text TEXT NOT NULL,
		UNIQUE (source_hash, chunk_index)
	);`,
}

// Migrate creates the notebook, source, message, report and chunk tables.
func Migrate(db *sql.DB) error {
	for i, stmt := range schema {
		if _, err := db.Exec(stmt); err != nil {
			return fmt.Errorf("migration %d: %w", i, err)
		}
	}
	return nil
}
