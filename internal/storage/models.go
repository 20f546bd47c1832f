package storage

import "time"

// timeLayout is how timestamps are persisted; lexical order matches time order.
const timeLayout = "2006-01-02T15:04:05.000000000Z07:00"

// ChunkRecord is an indexed passage of a source, keyed by the source's content hash.
type ChunkRecord struct {
	ID          string // UUID (same as Qdrant point ID)
	SourceHash  string // content hash of the source the chunk came from
	ChunkIndex  int    // Index within source (starts at 0)
	HeadingPath string // Format: "# Heading1 > ## Heading2"
	Text        string // Chunk text content
}

func formatTime(t time.Time) string {
	return t.UTC().Format(timeLayout)
}

func parseTime(s string) (time.Time, error) {
	t, err := time.Parse(timeLayout, s)
	if err != nil {
		// Try alternative format (rows written by CURRENT_TIMESTAMP)
		return time.Parse("2006-01-02 15:04:05", s)
	}
	return t, nil
}
