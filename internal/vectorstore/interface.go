// Package vectorstore stores chunk embeddings and finds the nearest ones to a query.
package vectorstore

//go:generate go run go.uber.org/mock/mockgen@latest -destination=mocks/mock_vector_store.go -package=mocks notebook-ai/internal/vectorstore VectorStore

import "context"

// Point is one embedded chunk. ID must be a UUID; Meta becomes the Qdrant payload.
type Point struct {
	ID   string
	Vec  []float32
	Meta map[string]any
}

// SearchResult is a matched point with its similarity score.
type SearchResult struct {
	PointID string
	Score   float32
	Meta    map[string]any
}

type VectorStore interface {
	// EnsureCollection creates collection when missing and checks its vector size otherwise.
	EnsureCollection(ctx context.Context, collection string, vectorSize int) error

	Upsert(ctx context.Context, collection string, points []Point) error

	// Search returns at most k points. Every filter entry must match: a string
	// or int exactly, a []string by any of its values.
	Search(ctx context.Context, collection string, query []float32, k int, filters map[string]any) ([]SearchResult, error)

	Delete(ctx context.Context, collection string, ids []string) error
}
