package storage

import (
	"database/sql"
	"path/filepath"
	"testing"
)

// newTestDB opens and migrates a database in a temp dir.
func newTestDB(t *testing.T) *sql.DB {
	t.Helper()
	db, err := New(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	t.Cleanup(func() {
		_ = db.Close()
	})
	if err := Migrate(db); err != nil {
		t.Fatalf("Migrate() error = %v", err)
	}
	return db
}

func tableExists(t *testing.T, db *sql.DB, name string) bool {
	t.Helper()
	var count int
	if err := db.QueryRow("SELECT COUNT(*) FROM sqlite_master WHERE type='table' AND name=?", name).Scan(&count); err != nil {
		t.Fatalf("lookup table %s: %v", name, err)
	}
	return count == 1
}

func TestNew(t *testing.T) {
	t.Run("file database", func(t *testing.T) {
		db, err := New(filepath.Join(t.TempDir(), "notebooks.db"))
		if err != nil {
			t.Fatalf("New() error = %v", err)
		}
		defer func() {
			_ = db.Close()
		}()

		if got := db.Stats().MaxOpenConnections; got != 25 {
			t.Errorf("MaxOpenConnections = %d, want 25", got)
		}
		var fk int
		if err := db.QueryRow("PRAGMA foreign_keys").Scan(&fk); err != nil || fk != 1 {
			t.Errorf("foreign_keys = %d (err %v), want 1", fk, err)
		}
	})

	t.Run("missing directory", func(t *testing.T) {
		db, err := New(filepath.Join(t.TempDir(), "missing", "dir", "notebooks.db"))
		if err == nil {
			_ = db.Close()
			t.Fatal("New() should fail when the directory does not exist")
		}
	})
}

func TestMigrate(t *testing.T) {
	db := newTestDB(t)

	// A second run must be a no-op.
	if err := Migrate(db); err != nil {
		t.Fatalf("second Migrate() error = %v", err)
	}
	for _, table := range []string{"notebooks", "sources", "messages", "reports", "chunks"} {
		if !tableExists(t, db, table) {
			t.Errorf("table %s not created", table)
		}
	}
}

func TestMigrate_EnforcesOwnership(t *testing.T) {
	db := newTestDB(t)

	tests := []struct {
		name string
		stmt string
	}{
		{
			name: "source without notebook",
			stmt: `INSERT INTO sources (id, notebook_id, title, type, content, created_at) VALUES ('s1', 'missing', 't', 'text', 'c', '2024-01-01')`,
		},
		{
			name: "message without notebook",
			stmt: `INSERT INTO messages (id, notebook_id, role, content, created_at) VALUES ('m1', 'missing', 'user', 'c', '2024-01-01')`,
		},
		{
			name: "report without notebook",
			stmt: `INSERT INTO reports (id, notebook_id, type, status, created_at) VALUES ('r1', 'missing', 'report', 'pending', '2024-01-01')`,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := db.Exec(tt.stmt); err == nil {
				t.Error("insert referencing an unknown notebook should fail")
			}
		})
	}
}

func TestMigrate_ChunkIndexUnique(t *testing.T) {
	db := newTestDB(t)

	insert := `INSERT INTO chunks (id, source_hash, chunk_index, text) VALUES (?, 'hash', 0, 'text')`
	if _, err := db.Exec(insert, "c1"); err != nil {
		t.Fatalf("first insert: %v", err)
	}
	if _, err := db.Exec(insert, "c2"); err == nil {
		t.Error("a second chunk with the same source hash and index should be rejected")
	}
}

func TestNew_SharedMemory(t *testing.T) {
	db, err := New(SharedMemoryPath)
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	defer func() {
		_ = db.Close()
	}()
	if err := Migrate(db); err != nil {
		t.Fatalf("Migrate() error = %v", err)
	}

	other, err := New(SharedMemoryPath)
	if err != nil {
		t.Fatalf("New() second handle error = %v", err)
	}
	defer func() {
		_ = other.Close()
	}()

	if !tableExists(t, other, "notebooks") {
		t.Error("shared memory database not visible from second handle")
	}
}
