package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"slices"
	"testing"
	"time"

	"notebook-ai/internal/vectorstore"
)

type stubPinger struct{ err error }

func (s stubPinger) Ping(context.Context) error { return s.err }

type stubInspector struct{ err error }

func (s stubInspector) GetCollectionInfo(context.Context, string) (*vectorstore.CollectionInfo, error) {
	if s.err != nil {
		return nil, s.err
	}
	return &vectorstore.CollectionInfo{VectorSize: 384, Status: "green"}, nil
}

func TestHealthHandler_ServeHTTP(t *testing.T) {
	tests := []struct {
		name       string
		store      Pinger
		vectors    CollectionInspector
		wantCode   int
		wantStatus string
		wantChecks map[string]string
		wantIssues []string
	}{
		{
			name:       "memory store without retrieval",
			wantCode:   http.StatusOK,
			wantStatus: "ok",
			wantChecks: map[string]string{"store": "memory", "vector_store": "disabled"},
		},
		{
			name:       "all healthy",
			store:      stubPinger{},
			vectors:    stubInspector{},
			wantCode:   http.StatusOK,
			wantStatus: "ok",
			wantChecks: map[string]string{"store": "ok", "vector_store": "ok"},
		},
		{
			name:       "store down",
			store:      stubPinger{err: errors.New("database is locked")},
			wantCode:   http.StatusServiceUnavailable,
			wantStatus: "unhealthy",
			wantChecks: map[string]string{"store": "error", "vector_store": "disabled"},
			wantIssues: []string{"store_unavailable"},
		},
		{
			name:       "vector store down",
			store:      stubPinger{},
			vectors:    stubInspector{err: errors.New("connection refused")},
			wantCode:   http.StatusServiceUnavailable,
			wantStatus: "unhealthy",
			wantChecks: map[string]string{"store": "ok", "vector_store": "error"},
			wantIssues: []string{"vector_store_unavailable"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			handler := NewHealthHandler(tt.store, tt.vectors, "sources")
			req := httptest.NewRequest(http.MethodGet, "/api/health", nil)
			w := httptest.NewRecorder()

			handler.ServeHTTP(w, req)

			if w.Code != tt.wantCode {
				t.Errorf("status code = %d, want %d", w.Code, tt.wantCode)
			}

			var resp HealthResponse
			if err := json.NewDecoder(w.Body).Decode(&resp); err != nil {
				t.Fatalf("decode: %v", err)
			}
			if resp.Status != tt.wantStatus {
				t.Errorf("status = %q, want %q", resp.Status, tt.wantStatus)
			}
			for k, v := range tt.wantChecks {
				if resp.Checks[k] != v {
					t.Errorf("checks[%s] = %q, want %q", k, resp.Checks[k], v)
				}
			}
			if !slices.Equal(resp.Issues, tt.wantIssues) {
				t.Errorf("issues = %v, want %v", resp.Issues, tt.wantIssues)
			}
			if resp.Timestamp == "" {
				t.Error("timestamp is empty")
			}
		})
	}
}

type slowPinger struct{}

func (slowPinger) Ping(ctx context.Context) error {
	<-ctx.Done()
	return ctx.Err()
}

func TestHealthHandler_Timeout(t *testing.T) {
	handler := NewHealthHandler(slowPinger{}, nil, "")
	handler.timeout = 10 * time.Millisecond

	w := httptest.NewRecorder()
	handler.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/health", nil))

	if w.Code != http.StatusServiceUnavailable {
		t.Errorf("status code = %d, want 503 when the store does not answer in time", w.Code)
	}
}
