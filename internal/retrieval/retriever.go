// Package retrieval narrows a notebook's sources to the passages most relevant to a chat query
// when the sources are too large to send in full.
package retrieval

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"sort"
	"strings"
	"unicode/utf8"

	"github.com/google/uuid"

	"notebook-ai/internal/contextutil"
	"notebook-ai/internal/llm"
	"notebook-ai/internal/metrics"
	"notebook-ai/internal/notebook"
	"notebook-ai/internal/storage"
	"notebook-ai/internal/vectorstore"
)

const (
	// DefaultContextChars is the context budget when none is configured.
	DefaultContextChars = 12000
	defaultTopK         = 24
)

// ErrNoMatches is returned when no indexed passage fits the query.
var ErrNoMatches = errors.New("no matching passages")

var chunkNamespace = uuid.NewSHA1(uuid.NameSpaceURL, []byte("notebook-ai/chunks"))

// Config tunes the retriever.
type Config struct {
	Collection   string
	ContextChars int // sources at or below this many runes are returned untouched
	TopK         int // candidate passages fetched from the vector store
	ChunkRunes   int
}

// Retriever indexes sources by content hash and selects passages for a query.
type Retriever struct {
	chunker  *Chunker
	embedder llm.Embedder
	vectors  vectorstore.VectorStore
	chunks   storage.ChunkStore
	cfg      Config
	metrics  *metrics.Metrics
}

// NewRetriever creates a Retriever. A nil metrics value disables instrumentation.
func NewRetriever(embedder llm.Embedder, vectors vectorstore.VectorStore, chunks storage.ChunkStore, cfg Config, m *metrics.Metrics) *Retriever {
	if cfg.ContextChars <= 0 {
		cfg.ContextChars = DefaultContextChars
	}
	if cfg.TopK <= 0 {
		cfg.TopK = defaultTopK
	}
	return &Retriever{
		chunker:  NewChunker(cfg.ChunkRunes),
		embedder: embedder,
		vectors:  vectors,
		chunks:   chunks,
		cfg:      cfg,
		metrics:  m,
	}
}

// Narrow returns the sources to send with a query. Sources that fit the budget are returned as is;
// otherwise each returned source carries only its best passages, in document order.
func (r *Retriever) Narrow(ctx context.Context, query string, sources []notebook.Source) ([]notebook.Source, error) {
	if totalRunes(sources) <= r.cfg.ContextChars {
		r.count("full")
		return sources, nil
	}

	narrowed, err := r.narrow(ctx, query, sources)
	if err != nil {
		r.count("error")
		return nil, err
	}
	r.count("narrowed")
	return narrowed, nil
}

func (r *Retriever) narrow(ctx context.Context, query string, sources []notebook.Source) ([]notebook.Source, error) {
	logger := contextutil.LoggerFromContext(ctx)

	hashes := make([]string, len(sources))
	seen := make(map[string]bool, len(sources))
	for i, src := range sources {
		hashes[i] = SourceHash(src)
		if seen[hashes[i]] {
			continue
		}
		seen[hashes[i]] = true
		if err := r.index(ctx, hashes[i], src); err != nil {
			return nil, fmt.Errorf("failed to index source %q: %w", src.Title, err)
		}
	}

	vectors, err := r.embedder.EmbedTexts(ctx, []string{query})
	if err != nil {
		return nil, fmt.Errorf("failed to embed query: %w", err)
	}
	if len(vectors) == 0 {
		return nil, fmt.Errorf("no embedding returned for query")
	}

	keywords := make([]string, 0, len(seen))
	for hash := range seen {
		keywords = append(keywords, hash)
	}
	sort.Strings(keywords)

	results, err := r.vectors.Search(ctx, r.cfg.Collection, vectors[0], r.cfg.TopK, map[string]any{"source_hash": keywords})
	if err != nil {
		return nil, fmt.Errorf("failed to search passages: %w", err)
	}

	ids := make([]string, len(results))
	for i, result := range results {
		ids[i] = result.PointID
	}
	records, err := r.chunks.GetByIDs(ctx, ids)
	if err != nil {
		return nil, fmt.Errorf("failed to load chunks: %w", err)
	}

	scorer := newLexicalScorer(query)
	type candidate struct {
		chunk storage.ChunkRecord
		score float32
	}
	candidates := make([]candidate, 0, len(results))
	for _, result := range results {
		chunk, ok := records[result.PointID]
		if !ok {
			logger.WarnContext(ctx, "indexed point has no chunk record", "point_id", result.PointID)
			continue
		}
		candidates = append(candidates, candidate{
			chunk: chunk,
			score: result.Score + scorer.score(chunk.Text, chunk.HeadingPath),
		})
	}
	sort.SliceStable(candidates, func(i, j int) bool {
		return candidates[i].score > candidates[j].score
	})

	selected := make(map[string][]storage.ChunkRecord)
	used := 0
	for _, c := range candidates {
		size := utf8.RuneCountInString(c.chunk.Text)
		if used+size > r.cfg.ContextChars {
			continue
		}
		used += size
		selected[c.chunk.SourceHash] = append(selected[c.chunk.SourceHash], c.chunk)
	}
	if len(selected) == 0 {
		return nil, ErrNoMatches
	}

	narrowed := make([]notebook.Source, 0, len(selected))
	for i, src := range sources {
		picked, ok := selected[hashes[i]]
		if !ok {
			continue
		}
		delete(selected, hashes[i])

		sort.Slice(picked, func(a, b int) bool {
			return picked[a].ChunkIndex < picked[b].ChunkIndex
		})
		parts := make([]string, len(picked))
		for j, chunk := range picked {
			parts[j] = chunk.Text
		}
		src.Content = strings.Join(parts, "\n\n")
		narrowed = append(narrowed, src)
	}

	logger.InfoContext(ctx, "narrowed chat context",
		"sources", len(sources),
		"kept_sources", len(narrowed),
		"candidates", len(candidates),
		"runes", used,
	)
	return narrowed, nil
}

// index chunks, embeds and stores a source unless its content hash is already indexed.
func (r *Retriever) index(ctx context.Context, hash string, src notebook.Source) error {
	logger := contextutil.LoggerFromContext(ctx)

	indexed, err := r.chunks.HasSource(ctx, hash)
	if err != nil {
		return err
	}
	if indexed {
		return nil
	}

	chunks := r.chunker.Chunk(src.Title, src.Content)
	if len(chunks) == 0 {
		return nil
	}

	texts := make([]string, len(chunks))
	for i, chunk := range chunks {
		texts[i] = chunk.Text
	}
	embeddings, err := r.embedder.EmbedTexts(ctx, texts)
	if err != nil {
		return fmt.Errorf("failed to embed chunks: %w", err)
	}
	if len(embeddings) != len(chunks) {
		return fmt.Errorf("embedding count mismatch: got %d, want %d", len(embeddings), len(chunks))
	}

	points := make([]vectorstore.Point, len(chunks))
	records := make([]storage.ChunkRecord, len(chunks))
	ids := make([]string, len(chunks))
	for i, chunk := range chunks {
		ids[i] = ChunkID(hash, chunk.Index)
		points[i] = vectorstore.Point{
			ID:  ids[i],
			Vec: embeddings[i],
			Meta: map[string]any{
				"source_hash":  hash,
				"chunk_index":  chunk.Index,
				"heading_path": chunk.HeadingPath,
			},
		}
		records[i] = storage.ChunkRecord{
			ID:          ids[i],
			SourceHash:  hash,
			ChunkIndex:  chunk.Index,
			HeadingPath: chunk.HeadingPath,
			Text:        chunk.Text,
		}
	}

	if err := r.vectors.Upsert(ctx, r.cfg.Collection, points); err != nil {
		return err
	}
	if err := r.chunks.InsertBatch(ctx, records); err != nil {
		if delErr := r.vectors.Delete(ctx, r.cfg.Collection, ids); delErr != nil {
			logger.WarnContext(ctx, "failed to remove orphaned points", "source_hash", hash, "error", delErr)
		}
		return err
	}

	logger.InfoContext(ctx, "indexed source", "title", src.Title, "source_hash", hash, "chunks", len(chunks))
	return nil
}

func (r *Retriever) count(outcome string) {
	if r.metrics != nil {
		r.metrics.RetrievalsTotal.WithLabelValues(outcome).Inc()
	}
}

// SourceHash identifies a source by its title and content, so identical sources share an index.
func SourceHash(src notebook.Source) string {
	sum := sha256.Sum256([]byte(src.Title + "\x00" + src.Content))
	return hex.EncodeToString(sum[:])
}

// ChunkID is the deterministic point ID of a chunk.
func ChunkID(sourceHash string, index int) string {
	return uuid.NewSHA1(chunkNamespace, []byte(fmt.Sprintf("%s:%d", sourceHash, index))).String()
}

func totalRunes(sources []notebook.Source) int {
	total := 0
	for _, src := range sources {
		total += utf8.RuneCountInString(src.Content)
	}
	return total
}
