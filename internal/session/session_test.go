package session

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"go.uber.org/mock/gomock"

	"notebook-ai/internal/apiclient"
	apimocks "notebook-ai/internal/apiclient/mocks"
	"notebook-ai/internal/notebook"
)

func newTestSession(t *testing.T) (*Session, *apimocks.MockBackend, notebook.Notebook) {
	t.Helper()
	ctrl := gomock.NewController(t)
	backend := apimocks.NewMockBackend(ctrl)
	s := New(notebook.NewMemoryStore(), backend, nil, "")
	nb, err := s.CreateNotebook(context.Background(), notebook.NotebookDraft{Title: "Biology"})
	if err != nil {
		t.Fatalf("CreateNotebook() error = %v", err)
	}
	return s, backend, nb
}

func addSource(t *testing.T, s *Session, title, content string) {
	t.Helper()
	if _, ok, err := s.AddSource(context.Background(), notebook.SourceDraft{Title: title, Type: notebook.SourceTypeText, Content: content}); err != nil || !ok {
		t.Fatalf("AddSource() ok = %v, err = %v", ok, err)
	}
}

func TestSession_CreateNotebookSelects(t *testing.T) {
	s, _, nb := newTestSession(t)

	id, ok := s.Selected()
	if !ok || id != nb.ID {
		t.Errorf("Selected() = %q, %v; want %q", id, ok, nb.ID)
	}
	if s.Model() != DefaultModel {
		t.Errorf("Model() = %q, want %q", s.Model(), DefaultModel)
	}

	s.Deselect()
	if _, ok := s.Selected(); ok {
		t.Error("Selected() after Deselect() should be empty")
	}

	if err := s.Select(context.Background(), "missing"); !errors.Is(err, notebook.ErrNotFound) {
		t.Errorf("Select(missing) error = %v, want ErrNotFound", err)
	}
	if err := s.Select(context.Background(), nb.ID); err != nil {
		t.Fatalf("Select() error = %v", err)
	}
}

func TestSession_AddSource(t *testing.T) {
	ctx := context.Background()

	tests := []struct {
		name      string
		deselect  bool
		draft     notebook.SourceDraft
		wantAdded bool
	}{
		{
			name:      "adds to selected notebook",
			draft:     notebook.SourceDraft{Title: "Cells", Type: notebook.SourceTypeText, Content: "Cells divide."},
			wantAdded: true,
		},
		{
			name:     "no selection",
			deselect: true,
			draft:    notebook.SourceDraft{Title: "Cells", Type: notebook.SourceTypeText, Content: "Cells divide."},
		},
		{
			name:  "blank title",
			draft: notebook.SourceDraft{Title: "  ", Type: notebook.SourceTypeText, Content: "Cells divide."},
		},
		{
			name:  "blank content",
			draft: notebook.SourceDraft{Title: "Cells", Type: notebook.SourceTypeText, Content: "\n"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s, _, nb := newTestSession(t)
			if tt.deselect {
				s.Deselect()
			}

			_, added, err := s.AddSource(ctx, tt.draft)
			if err != nil {
				t.Fatalf("AddSource() error = %v", err)
			}
			if added != tt.wantAdded {
				t.Errorf("AddSource() added = %v, want %v", added, tt.wantAdded)
			}

			got, err := s.Notebook(ctx, nb.ID)
			if err != nil {
				t.Fatalf("Notebook() error = %v", err)
			}
			wantCount := 0
			if tt.wantAdded {
				wantCount = 1
			}
			if got.SourcesCount != wantCount {
				t.Errorf("SourcesCount = %d, want %d", got.SourcesCount, wantCount)
			}
		})
	}
}

func TestSession_AppendMessageWithoutSelection(t *testing.T) {
	s, _, nb := newTestSession(t)
	s.Deselect()

	_, ok, err := s.AppendMessage(context.Background(), notebook.MessageDraft{Role: notebook.RoleUser, Content: "hi"})
	if err != nil || ok {
		t.Fatalf("AppendMessage() ok = %v, err = %v; want no-op", ok, err)
	}
	msgs, _ := s.Messages(context.Background(), nb.ID)
	if len(msgs) != 0 {
		t.Errorf("transcript = %+v, want empty", msgs)
	}
}

func TestSession_SendMessage(t *testing.T) {
	ctx := context.Background()

	tests := []struct {
		name      string
		reply     string
		err       error
		wantReply string
	}{
		{
			name:      "success",
			reply:     "Cells divide by mitosis.",
			wantReply: "Cells divide by mitosis.",
		},
		{
			name:      "backend failure",
			err:       apiclient.ErrRequestFailed,
			wantReply: ChatFailureMessage,
		},
		{
			name:      "transport failure",
			err:       errors.New("connection refused"),
			wantReply: ChatFailureMessage,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s, backend, nb := newTestSession(t)
			addSource(t, s, "Cells", "Cells divide.")
			sources, err := s.Sources(ctx, nb.ID)
			if err != nil {
				t.Fatalf("Sources() error = %v", err)
			}

			backend.EXPECT().Chat(gomock.Any(), apiclient.ChatRequest{
				Query:   "How do cells divide?",
				Sources: sources,
				Model:   DefaultModel,
			}).Return(tt.reply, tt.err)

			msg, err := s.SendMessage(ctx, nb.ID, "How do cells divide?")
			if err != nil {
				t.Fatalf("SendMessage() error = %v", err)
			}
			if msg.Role != notebook.RoleAssistant || msg.Content != tt.wantReply {
				t.Errorf("SendMessage() = %+v, want assistant %q", msg, tt.wantReply)
			}

			msgs, _ := s.Messages(ctx, nb.ID)
			if len(msgs) != 2 {
				t.Fatalf("transcript length = %d, want 2", len(msgs))
			}
			if msgs[0].Role != notebook.RoleUser || msgs[0].Content != "How do cells divide?" {
				t.Errorf("first message = %+v", msgs[0])
			}
			if msgs[1].Content != tt.wantReply {
				t.Errorf("second message = %+v", msgs[1])
			}
		})
	}
}

func TestSession_SendMessageNoOps(t *testing.T) {
	ctx := context.Background()
	s, _, nb := newTestSession(t)

	if _, err := s.SendMessage(ctx, nb.ID, "   "); err != nil {
		t.Errorf("SendMessage(blank) error = %v", err)
	}
	if _, err := s.SendMessage(ctx, nb.ID, "hello"); !errors.Is(err, ErrNoSources) {
		t.Errorf("SendMessage() without sources error = %v, want ErrNoSources", err)
	}

	msgs, _ := s.Messages(ctx, nb.ID)
	if len(msgs) != 0 {
		t.Errorf("transcript = %+v, want empty", msgs)
	}
}

func TestSession_SendMessageCancelled(t *testing.T) {
	s, backend, nb := newTestSession(t)
	addSource(t, s, "Cells", "Cells divide.")

	ctx, cancel := context.WithCancel(context.Background())
	backend.EXPECT().Chat(gomock.Any(), gomock.Any()).DoAndReturn(
		func(ctx context.Context, _ apiclient.ChatRequest) (string, error) {
			cancel()
			return "", ctx.Err()
		})

	msg, err := s.SendMessage(ctx, nb.ID, "hello")
	if err != nil {
		t.Fatalf("SendMessage() error = %v", err)
	}
	if msg.Content != ChatFailureMessage {
		t.Errorf("reply = %q, want failure message", msg.Content)
	}
}

func TestSession_SendMessageStale(t *testing.T) {
	ctx := context.Background()
	s, backend, nb := newTestSession(t)
	addSource(t, s, "Cells", "Cells divide.")

	backend.EXPECT().Chat(gomock.Any(), gomock.Any()).DoAndReturn(
		func(context.Context, apiclient.ChatRequest) (string, error) {
			s.Reset(nb.ID)
			return "late reply", nil
		})

	if _, err := s.SendMessage(ctx, nb.ID, "hello"); !errors.Is(err, ErrStale) {
		t.Fatalf("SendMessage() error = %v, want ErrStale", err)
	}

	msgs, _ := s.Messages(ctx, nb.ID)
	if len(msgs) != 1 || msgs[0].Role != notebook.RoleUser {
		t.Errorf("transcript = %+v, want only the user message", msgs)
	}
}

func TestSession_SendMessageReplyFollowsIssuingNotebook(t *testing.T) {
	ctx := context.Background()
	s, backend, first := newTestSession(t)
	addSource(t, s, "Cells", "Cells divide.")

	var second notebook.Notebook
	backend.EXPECT().Chat(gomock.Any(), gomock.Any()).DoAndReturn(
		func(context.Context, apiclient.ChatRequest) (string, error) {
			var err error
			second, err = s.CreateNotebook(ctx, notebook.NotebookDraft{Title: "Physics"})
			if err != nil {
				t.Errorf("CreateNotebook() error = %v", err)
			}
			return "answer", nil
		})

	if _, err := s.SendMessage(ctx, first.ID, "hello"); err != nil {
		t.Fatalf("SendMessage() error = %v", err)
	}

	if id, _ := s.Selected(); id != second.ID {
		t.Fatalf("Selected() = %q, want %q", id, second.ID)
	}
	firstMsgs, _ := s.Messages(ctx, first.ID)
	secondMsgs, _ := s.Messages(ctx, second.ID)
	if len(firstMsgs) != 2 || firstMsgs[1].Content != "answer" {
		t.Errorf("issuing notebook transcript = %+v", firstMsgs)
	}
	if len(secondMsgs) != 0 {
		t.Errorf("selected notebook transcript = %+v, want empty", secondMsgs)
	}
}

func TestSession_SendMessageRequestsAllSources(t *testing.T) {
	var body struct {
		Sources []map[string]any `json:"sources"`
	}
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			t.Errorf("decode request: %v", err)
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"success":true,"response":"ok"}`))
	}))
	defer server.Close()

	client := apiclient.New(server.URL, 0)
	defer func() {
		_ = client.Close()
	}()

	ctx := context.Background()
	s := New(notebook.NewMemoryStore(), client, nil, "")
	nb, err := s.CreateNotebook(ctx, notebook.NotebookDraft{Title: "Biology"})
	if err != nil {
		t.Fatalf("CreateNotebook() error = %v", err)
	}
	addSource(t, s, "A", "alpha")
	addSource(t, s, "B", "beta")

	if _, err := s.SendMessage(ctx, nb.ID, "hello"); err != nil {
		t.Fatalf("SendMessage() error = %v", err)
	}

	if len(body.Sources) != 2 {
		t.Fatalf("sources on the wire = %d, want 2", len(body.Sources))
	}
	for i, title := range []string{"A", "B"} {
		src := body.Sources[i]
		if src["title"] != title {
			t.Errorf("sources[%d].title = %v, want %s", i, src["title"], title)
		}
		for _, field := range []string{"id", "notebook_id", "type", "content", "created_at"} {
			if _, ok := src[field]; !ok {
				t.Errorf("sources[%d] missing %q: %v", i, field, src)
			}
		}
		if src["notebook_id"] != nb.ID || src["type"] != string(notebook.SourceTypeText) {
			t.Errorf("sources[%d] = %v, want notebook %s of type text", i, src, nb.ID)
		}
	}
}
