package handlers

import (
	"context"
	"net/http"
	"time"

	"notebook-ai/internal/contextutil"
	"notebook-ai/internal/vectorstore"
)

const healthCheckTimeout = 5 * time.Second

// Pinger reports whether a dependency is reachable.
type Pinger interface {
	Ping(ctx context.Context) error
}

// CollectionInspector reads vector collection metadata.
type CollectionInspector interface {
	GetCollectionInfo(ctx context.Context, collection string) (*vectorstore.CollectionInfo, error)
}

// HealthResponse is the body of GET /api/health.
type HealthResponse struct {
	// "ok" or "unhealthy"
	Status    string            `json:"status"`
	Timestamp string            `json:"timestamp"`
	Checks    map[string]string `json:"checks"`
	Issues    []string          `json:"issues,omitempty"`
}

// dependencyCheck probes one dependency. A nil probe means the dependency is
// not configured and is reported as idle instead of being called.
type dependencyCheck struct {
	name  string
	idle  string
	probe func(ctx context.Context) error
}

// HealthHandler reports the state of the notebook store and the vector store.
type HealthHandler struct {
	checks  []dependencyCheck
	timeout time.Duration
}

// NewHealthHandler builds the checks. A nil store means the in-memory store
// and a nil vectors means retrieval is disabled.
func NewHealthHandler(store Pinger, vectors CollectionInspector, collectionName string) *HealthHandler {
	storeCheck := dependencyCheck{name: "store", idle: "memory"}
	if store != nil {
		storeCheck.probe = store.Ping
	}

	vectorCheck := dependencyCheck{name: "vector_store", idle: "disabled"}
	if vectors != nil {
		vectorCheck.probe = func(ctx context.Context) error {
			info, err := vectors.GetCollectionInfo(ctx, collectionName)
			if err == nil {
				contextutil.LoggerFromContext(ctx).DebugContext(ctx, "collection reachable",
					"collection", collectionName, "points", info.PointsCount, "status", info.Status)
			}
			return err
		}
	}

	return &HealthHandler{checks: []dependencyCheck{storeCheck, vectorCheck}, timeout: healthCheckTimeout}
}

// ServeHTTP answers 200 when every configured dependency responds and 503 otherwise.
func (h *HealthHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	logger := contextutil.LoggerFromContext(ctx)

	checkCtx, cancel := context.WithTimeout(ctx, h.timeout)
	defer cancel()

	resp := HealthResponse{Status: "ok", Checks: make(map[string]string, len(h.checks))}
	for _, check := range h.checks {
		if check.probe == nil {
			resp.Checks[check.name] = check.idle
			continue
		}
		if err := check.probe(checkCtx); err != nil {
			logger.WarnContext(ctx, "health check failed", "check", check.name, "error", err)
			resp.Checks[check.name] = "error"
			resp.Issues = append(resp.Issues, check.name+"_unavailable")
			continue
		}
		resp.Checks[check.name] = "ok"
	}

	code := http.StatusOK
	if len(resp.Issues) > 0 {
		resp.Status = "unhealthy"
		code = http.StatusServiceUnavailable
	}
	resp.Timestamp = time.Now().UTC().Format(time.RFC3339)
	writeJSON(ctx, w, code, resp)
}
