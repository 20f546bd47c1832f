package vectorstore

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"slices"
	"strconv"

	"github.com/qdrant/go-client/qdrant"

	"notebook-ai/internal/contextutil"
)

const (
	defaultGRPCPort = 6334

	// upsertBatchSize bounds a single upsert request; large PDFs produce hundreds of chunks.
	upsertBatchSize = 128
)

var errInvalidLimit = errors.New("search limit must be greater than 0")

// CollectionInfo describes a collection as reported by Qdrant.
type CollectionInfo struct {
	VectorSize  int
	PointsCount int
	Status      string
}

// QdrantStore is the VectorStore backed by a Qdrant server over gRPC.
type QdrantStore struct {
	client *qdrant.Client
}

var _ VectorStore = (*QdrantStore)(nil)

// NewQdrantStore connects to the Qdrant instance whose REST endpoint is rawURL
// (for example http://localhost:6333). The gRPC endpoint sits one port above it.
func NewQdrantStore(rawURL, apiKey string) (*QdrantStore, error) {
	host, port, useTLS, err := grpcTarget(rawURL)
	if err != nil {
		return nil, err
	}

	client, err := qdrant.NewClient(&qdrant.Config{Host: host, Port: port, APIKey: apiKey, UseTLS: useTLS})
	if err != nil {
		return nil, fmt.Errorf("connect to qdrant at %s:%d: %w", host, port, err)
	}
	return &QdrantStore{client: client}, nil
}

// grpcTarget maps a REST URL to the gRPC host, port and TLS setting.
func grpcTarget(rawURL string) (host string, port int, useTLS bool, err error) {
	u, err := url.Parse(rawURL)
	if err != nil {
		return "", 0, false, fmt.Errorf("invalid qdrant url %q: %w", rawURL, err)
	}

	host = u.Hostname()
	if host == "" {
		host = "localhost"
	}
	port = defaultGRPCPort
	if restPort, convErr := strconv.Atoi(u.Port()); convErr == nil {
		port = restPort + 1
	}
	return host, port, u.Scheme == "https", nil
}

// Close releases the gRPC connection.
func (s *QdrantStore) Close() error {
	return s.client.Close()
}

// EnsureCollection creates collection with cosine distance when it is missing.
// An existing collection must already use vectorSize.
func (s *QdrantStore) EnsureCollection(ctx context.Context, collection string, vectorSize int) error {
	logger := contextutil.LoggerFromContext(ctx).With("collection", collection, "vector_size", vectorSize)

	exists, err := s.client.CollectionExists(ctx, collection)
	if err != nil {
		return fmt.Errorf("check collection %s: %w", collection, err)
	}
	if !exists {
		err := s.client.CreateCollection(ctx, &qdrant.CreateCollection{
			CollectionName: collection,
			VectorsConfig: qdrant.NewVectorsConfig(&qdrant.VectorParams{
				Size:     uint64(vectorSize),
				Distance: qdrant.Distance_Cosine,
			}),
		})
		if err != nil {
			return fmt.Errorf("create collection %s: %w", collection, err)
		}
		logger.InfoContext(ctx, "created collection")
		return nil
	}

	info, err := s.GetCollectionInfo(ctx, collection)
	if err != nil {
		return err
	}
	switch info.VectorSize {
	case vectorSize:
		logger.DebugContext(ctx, "collection ready", "points", info.PointsCount)
		return nil
	case 0:
		return fmt.Errorf("collection %s: vector size unknown", collection)
	default:
		return fmt.Errorf("collection %s has vector size %d, configured %d", collection, info.VectorSize, vectorSize)
	}
}

// GetCollectionInfo reports vector size, point count and status of collection.
func (s *QdrantStore) GetCollectionInfo(ctx context.Context, collection string) (*CollectionInfo, error) {
	info, err := s.client.GetCollectionInfo(ctx, collection)
	if err != nil {
		return nil, fmt.Errorf("collection info %s: %w", collection, err)
	}

	out := &CollectionInfo{
		PointsCount: int(info.GetPointsCount()),
		VectorSize:  int(info.GetConfig().GetParams().GetVectorsConfig().GetParams().GetSize()),
		Status:      "unknown",
	}
	if info.GetStatus() != qdrant.CollectionStatus_UnknownCollectionStatus {
		out.Status = info.GetStatus().String()
	}
	return out, nil
}

// Upsert writes points in batches and waits for each batch to be applied.
func (s *QdrantStore) Upsert(ctx context.Context, collection string, points []Point) error {
	if len(points) == 0 {
		return nil
	}
	logger := contextutil.LoggerFromContext(ctx)

	wait := true
	for batch := range slices.Chunk(points, upsertBatchSize) {
		_, err := s.client.Upsert(ctx, &qdrant.UpsertPoints{
			CollectionName: collection,
			Wait:           &wait,
			Points:         toPointStructs(batch),
		})
		if err != nil {
			logger.ErrorContext(ctx, "qdrant upsert failed", "collection", collection, "batch", len(batch), "error", err)
			return fmt.Errorf("upsert %d points into %s: %w", len(batch), collection, err)
		}
	}

	logger.DebugContext(ctx, "points upserted", "collection", collection, "count", len(points))
	return nil
}

// Search returns the k points nearest to query that satisfy every filter.
func (s *QdrantStore) Search(ctx context.Context, collection string, query []float32, k int, filters map[string]any) ([]SearchResult, error) {
	if k <= 0 {
		return nil, errInvalidLimit
	}
	filter, err := buildFilter(filters)
	if err != nil {
		return nil, err
	}

	limit := uint64(k)
	scored, err := s.client.Query(ctx, &qdrant.QueryPoints{
		CollectionName: collection,
		Query:          qdrant.NewQuery(query...),
		Filter:         filter,
		Limit:          &limit,
		WithPayload:    qdrant.NewWithPayload(true),
	})
	if err != nil {
		contextutil.LoggerFromContext(ctx).ErrorContext(ctx, "qdrant query failed", "collection", collection, "k", k, "error", err)
		return nil, fmt.Errorf("query %s: %w", collection, err)
	}

	results := make([]SearchResult, len(scored))
	for i, point := range scored {
		results[i] = SearchResult{
			PointID: point.GetId().GetUuid(),
			Score:   point.GetScore(),
			Meta:    convertPayloadToMap(point.GetPayload()),
		}
	}
	return results, nil
}

// Delete removes the points with the given IDs.
func (s *QdrantStore) Delete(ctx context.Context, collection string, ids []string) error {
	if len(ids) == 0 {
		return nil
	}

	pointIDs := make([]*qdrant.PointId, len(ids))
	for i, id := range ids {
		pointIDs[i] = qdrant.NewID(id)
	}
	if _, err := s.client.Delete(ctx, &qdrant.DeletePoints{
		CollectionName: collection,
		Points:         qdrant.NewPointsSelector(pointIDs...),
	}); err != nil {
		return fmt.Errorf("delete %d points from %s: %w", len(ids), collection, err)
	}

	contextutil.LoggerFromContext(ctx).InfoContext(ctx, "points deleted", "collection", collection, "count", len(ids))
	return nil
}

func toPointStructs(points []Point) []*qdrant.PointStruct {
	out := make([]*qdrant.PointStruct, len(points))
	for i, p := range points {
		ps := &qdrant.PointStruct{
			Id:      qdrant.NewID(p.ID),
			Vectors: qdrant.NewVectors(p.Vec...),
		}
		if len(p.Meta) > 0 {
			ps.Payload = qdrant.NewValueMap(p.Meta)
		}
		out[i] = ps
	}
	return out
}
