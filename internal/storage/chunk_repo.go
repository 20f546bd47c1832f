package storage

//go:generate go run go.uber.org/mock/mockgen@latest -destination=mocks/mock_chunk_store.go -package=mocks notebook-ai/internal/storage ChunkStore

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
)

// ChunkStore keeps the text of indexed passages. Vectors live in Qdrant
// under the same IDs.
type ChunkStore interface {
	// InsertBatch stores the chunks of one source atomically.
	InsertBatch(ctx context.Context, chunks []ChunkRecord) error
	// HasSource reports whether any chunk was stored for sourceHash.
	HasSource(ctx context.Context, sourceHash string) (bool, error)
	// GetByIDs loads the chunks with the given IDs. Unknown IDs are absent from the result.
	GetByIDs(ctx context.Context, ids []string) (map[string]ChunkRecord, error)
}

// ChunkRepo is the SQLite ChunkStore.
type ChunkRepo struct {
	db *sql.DB
}

var _ ChunkStore = (*ChunkRepo)(nil)

func NewChunkRepo(db *sql.DB) *ChunkRepo {
	return &ChunkRepo{db: db}
}

// InsertBatch writes chunks in one transaction. A (source_hash, chunk_index)
// pair that already exists is skipped, so two requests indexing the same
// source concurrently both succeed.
func (r *ChunkRepo) InsertBatch(ctx context.Context, chunks []ChunkRecord) error {
	if len(chunks) == 0 {
		return nil
	}

	return r.inTx(ctx, func(tx *sql.Tx) error {
		stmt, err := tx.PrepareContext(ctx, `INSERT INTO chunks (id, source_hash, chunk_index, heading_path, text)
			VALUES (?, ?, ?, ?, ?)
			ON CONFLICT (source_hash, chunk_index) DO NOTHING`)
		if err != nil {
			return fmt.Errorf("prepare chunk insert: %w", err)
		}
		defer func() {
			_ = stmt.Close()
		}()

		for _, c := range chunks {
			if _, err := stmt.ExecContext(ctx, c.ID, c.SourceHash, c.ChunkIndex, c.HeadingPath, c.Text); err != nil {
				return fmt.Errorf("insert chunk %d of %s: %w", c.ChunkIndex, c.SourceHash, err)
			}
		}
		return nil
	})
}

func (r *ChunkRepo) HasSource(ctx context.Context, sourceHash string) (bool, error) {
	var exists bool
	err := r.db.QueryRowContext(ctx, `SELECT EXISTS (SELECT 1 FROM chunks WHERE source_hash = ?)`, sourceHash).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("lookup source %s: %w", sourceHash, err)
	}
	return exists, nil
}

func (r *ChunkRepo) GetByIDs(ctx context.Context, ids []string) (map[string]ChunkRecord, error) {
	found := make(map[string]ChunkRecord, len(ids))
	if len(ids) == 0 {
		return found, nil
	}

	args := make([]any, len(ids))
	for i, id := range ids {
		args[i] = id
	}
	query := `SELECT id, source_hash, chunk_index, COALESCE(heading_path, ''), text
		FROM chunks WHERE id IN (?` + strings.Repeat(", ?", len(ids)-1) + `)`

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query chunks: %w", err)
	}
	defer func() {
		_ = rows.Close()
	}()

	for rows.Next() {
		var c ChunkRecord
		if err := rows.Scan(&c.ID, &c.SourceHash, &c.ChunkIndex, &c.HeadingPath, &c.Text); err != nil {
			return nil, fmt.Errorf("scan chunk: %w", err)
		}
		found[c.ID] = c
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("read chunks: %w", err)
	}
	return found, nil
}

func (r *ChunkRepo) inTx(ctx context.Context, fn func(tx *sql.Tx) error) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	if err := fn(tx); err != nil {
		_ = tx.Rollback()
		return err
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit: %w", err)
	}
	return nil
}
