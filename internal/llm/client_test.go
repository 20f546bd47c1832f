package llm

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"slices"
	"strings"
	"sync/atomic"
	"testing"
)

// completionServer decodes each chat completion request, passes it to check
// and answers with a single choice holding content.
func completionServer(t *testing.T, content string, check func(r *http.Request, req completionRequest)) *httptest.Server {
	t.Helper()
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost || r.URL.Path != "/v1/chat/completions" {
			t.Errorf("unexpected request %s %s", r.Method, r.URL.Path)
		}
		var req completionRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			t.Errorf("decode request: %v", err)
		}
		if check != nil {
			check(r, req)
		}
		writeCompletion(w, content)
	}))
	t.Cleanup(server.Close)
	return server
}

func writeCompletion(w http.ResponseWriter, content string) {
	w.Header().Set("Content-Type", "application/json")
	_, _ = w.Write([]byte(`{"id":"cmpl-1","object":"chat.completion","choices":[{"index":0,"message":{"role":"assistant","content":` +
		strings.TrimSpace(mustJSON(content)) + `},"finish_reason":"stop"}]}`))
}

func mustJSON(v any) string {
	b, err := json.Marshal(v)
	if err != nil {
		panic(err)
	}
	return string(b)
}

func TestNewClient(t *testing.T) {
	client := NewClient("https://api.groq.com/openai/", "gsk-test", "llama-3.1-70b-versatile")

	if client.BaseURL != "https://api.groq.com/openai" {
		t.Errorf("BaseURL = %q, trailing slash should be trimmed", client.BaseURL)
	}
	if client.Model != "llama-3.1-70b-versatile" || client.APIKey != "gsk-test" {
		t.Errorf("client = %+v", client)
	}
	if client.MaxRetries != 0 {
		t.Errorf("MaxRetries = %d, want 0 by default", client.MaxRetries)
	}
	if client.WithMaxRetries(3).MaxRetries != 3 {
		t.Error("WithMaxRetries() should set MaxRetries")
	}
}

func TestClient_Complete(t *testing.T) {
	t.Run("sends params and bearer key", func(t *testing.T) {
		server := completionServer(t, "Mitochondria.", func(r *http.Request, req completionRequest) {
			if got := r.Header.Get("Authorization"); got != "Bearer gsk-test" {
				t.Errorf("Authorization = %q", got)
			}
			if req.Model != "mixtral-8x7b-32768" || req.MaxTokens != 2000 || req.Temperature != 0.5 || req.Stream {
				t.Errorf("request = %+v", req)
			}
			roles := []string{}
			for _, m := range req.Messages {
				roles = append(roles, m.Role)
			}
			if !slices.Equal(roles, []string{RoleSystem, RoleUser}) {
				t.Errorf("roles = %v", roles)
			}
		})

		client := NewClient(server.URL, "gsk-test", "llama-3.1-70b-versatile")
		reply, err := client.Complete(context.Background(),
			[]Message{System("Answer from the sources."), User("What is the powerhouse of the cell?")},
			ChatParams{Model: "mixtral-8x7b-32768", MaxTokens: 2000, Temperature: 0.5})
		if err != nil {
			t.Fatalf("Complete() error = %v", err)
		}
		if reply != "Mitochondria." {
			t.Errorf("reply = %q", reply)
		}
	})

	t.Run("falls back to client model", func(t *testing.T) {
		server := completionServer(t, "ok", func(_ *http.Request, req completionRequest) {
			if req.Model != "llama-3.1-70b-versatile" {
				t.Errorf("model = %q", req.Model)
			}
		})

		client := NewClient(server.URL, "gsk-test", "llama-3.1-70b-versatile")
		if _, err := client.Complete(context.Background(), []Message{User("q")}, ChatParams{}); err != nil {
			t.Fatalf("Complete() error = %v", err)
		}
	})

	t.Run("omits authorization without a key", func(t *testing.T) {
		server := completionServer(t, "ok", func(r *http.Request, _ completionRequest) {
			if _, ok := r.Header["Authorization"]; ok {
				t.Error("Authorization header should be absent")
			}
		})

		if _, err := NewClient(server.URL, "", "local").Complete(context.Background(), []Message{User("q")}, ChatParams{}); err != nil {
			t.Fatalf("Complete() error = %v", err)
		}
	})

	t.Run("trims reply", func(t *testing.T) {
		server := completionServer(t, "\n  answer \n", nil)

		reply, err := NewClient(server.URL+"/", "k", "m").Complete(context.Background(), []Message{User("q")}, ChatParams{})
		if err != nil || reply != "answer" {
			t.Errorf("Complete() = %q, %v; want answer", reply, err)
		}
	})
}

func TestClient_Complete_BadResponses(t *testing.T) {
	tests := []struct {
		name    string
		body    string
		wantErr error
	}{
		{name: "no choices", body: `{"choices":[]}`, wantErr: errNoChoices},
		{name: "not json", body: `<html>gateway</html>`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var calls atomic.Int32
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				calls.Add(1)
				_, _ = w.Write([]byte(tt.body))
			}))
			defer server.Close()

			client := NewClient(server.URL, "k", "m").WithMaxRetries(2)
			_, err := client.Complete(context.Background(), []Message{User("q")}, ChatParams{})
			if err == nil {
				t.Fatal("Complete() should fail")
			}
			if tt.wantErr != nil && !errors.Is(err, tt.wantErr) {
				t.Errorf("error = %v, want %v", err, tt.wantErr)
			}
			if calls.Load() != 1 {
				t.Errorf("calls = %d, malformed responses should not be retried", calls.Load())
			}
		})
	}
}

func TestClient_Complete_Retries(t *testing.T) {
	tests := []struct {
		name       string
		maxRetries uint
		statuses   []int
		wantCalls  int32
		wantErr    bool
	}{
		{name: "rate limited then ok", maxRetries: 2, statuses: []int{http.StatusTooManyRequests, http.StatusOK}, wantCalls: 2},
		{name: "retries disabled", maxRetries: 0, statuses: []int{http.StatusBadGateway, http.StatusOK}, wantCalls: 1, wantErr: true},
		{name: "unauthorized is final", maxRetries: 3, statuses: []int{http.StatusUnauthorized, http.StatusOK}, wantCalls: 1, wantErr: true},
		{name: "attempts exhausted", maxRetries: 1, statuses: []int{http.StatusServiceUnavailable, http.StatusServiceUnavailable, http.StatusOK}, wantCalls: 2, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var calls atomic.Int32
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				if status := tt.statuses[calls.Add(1)-1]; status != http.StatusOK {
					http.Error(w, "upstream says no", status)
					return
				}
				writeCompletion(w, "ok")
			}))
			defer server.Close()

			client := NewClient(server.URL, "k", "m").WithMaxRetries(tt.maxRetries)
			reply, err := client.Complete(context.Background(), []Message{User("hi")}, ChatParams{})

			if got := calls.Load(); got != tt.wantCalls {
				t.Errorf("calls = %d, want %d", got, tt.wantCalls)
			}
			if tt.wantErr {
				var statusErr *StatusError
				if !errors.As(err, &statusErr) || !strings.Contains(statusErr.Body, "upstream says no") {
					t.Errorf("error = %v, want *StatusError with body", err)
				}
				return
			}
			if err != nil || reply != "ok" {
				t.Errorf("Complete() = %q, %v", reply, err)
			}
		})
	}
}

func TestClient_StreamComplete(t *testing.T) {
	t.Run("collects deltas", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if got := r.Header.Get("Accept"); got != "text/event-stream" {
				t.Errorf("Accept = %q", got)
			}
			var req completionRequest
			_ = json.NewDecoder(r.Body).Decode(&req)
			if !req.Stream {
				t.Error("stream flag not set")
			}

			w.Header().Set("Content-Type", "text/event-stream")
			flusher := w.(http.Flusher)
			for _, delta := range []string{"Cells", " divide", "."} {
				_, _ = w.Write([]byte("data: " + mustJSON(map[string]any{
					"choices": []any{map[string]any{"delta": map[string]string{"content": delta}}},
				}) + "\n\n"))
				flusher.Flush()
			}
			_, _ = w.Write([]byte("data: [DONE]\n\n"))
		}))
		defer server.Close()

		var chunks []string
		err := NewClient(server.URL, "k", "m").StreamComplete(context.Background(), []Message{User("q")}, ChatParams{}, func(chunk string) error {
			chunks = append(chunks, chunk)
			return nil
		})
		if err != nil {
			t.Fatalf("StreamComplete() error = %v", err)
		}
		if strings.Join(chunks, "") != "Cells divide." {
			t.Errorf("chunks = %q", chunks)
		}
	})

	t.Run("status error", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusInternalServerError)
		}))
		defer server.Close()

		err := NewClient(server.URL, "k", "m").StreamComplete(context.Background(), []Message{User("q")}, ChatParams{}, func(string) error {
			t.Error("callback should not run")
			return nil
		})
		var statusErr *StatusError
		if !errors.As(err, &statusErr) || statusErr.Code != http.StatusInternalServerError {
			t.Errorf("StreamComplete() error = %v, want 500 StatusError", err)
		}
	})
}

func TestReadDeltas(t *testing.T) {
	errStop := errors.New("stop")

	tests := []struct {
		name       string
		stream     string
		callback   error
		wantChunks []string
		wantErr    error
	}{
		{
			name:       "stops at done",
			stream:     "data: {\"choices\":[{\"delta\":{\"content\":\"a\"}}]}\n\ndata: [DONE]\n\ndata: {\"choices\":[{\"delta\":{\"content\":\"late\"}}]}\n",
			wantChunks: []string{"a"},
		},
		{
			name:       "stops at finish reason",
			stream:     "data: {\"choices\":[{\"delta\":{\"content\":\"a\"},\"finish_reason\":\"stop\"}]}\ndata: {\"choices\":[{\"delta\":{\"content\":\"b\"}}]}\n",
			wantChunks: []string{"a"},
		},
		{
			name:       "skips comments and junk",
			stream:     ": keep-alive\nevent: message\ndata: not json\ndata: {\"choices\":[]}\ndata:{\"choices\":[{\"delta\":{\"content\":\"x\"}}]}\n",
			wantChunks: []string{"x"},
		},
		{
			name:       "callback error stops the stream",
			stream:     "data: {\"choices\":[{\"delta\":{\"content\":\"a\"}}]}\ndata: {\"choices\":[{\"delta\":{\"content\":\"b\"}}]}\n",
			callback:   errStop,
			wantChunks: []string{"a"},
			wantErr:    errStop,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var chunks []string
			err := readDeltas(strings.NewReader(tt.stream), func(chunk string) error {
				chunks = append(chunks, chunk)
				return tt.callback
			})
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("readDeltas() error = %v, want %v", err, tt.wantErr)
			}
			if !slices.Equal(chunks, tt.wantChunks) {
				t.Errorf("chunks = %q, want %q", chunks, tt.wantChunks)
			}
		})
	}
}
