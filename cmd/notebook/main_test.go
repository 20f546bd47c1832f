package main

import (
	"bytes"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"

	"notebook-ai/internal/apiclient"
	"notebook-ai/internal/session"
)

// fakeBackend records requests and answers /api/chat and /api/generate-report.
type fakeBackend struct {
	mu      sync.Mutex
	chats   []apiclient.ChatRequest
	reports []apiclient.ReportRequest

	status int
	reply  string
}

func (f *fakeBackend) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	f.mu.Lock()
	defer f.mu.Unlock()

	status := f.status
	if status == 0 {
		status = http.StatusOK
	}
	body := map[string]any{"success": status == http.StatusOK}
	if status != http.StatusOK {
		body["error"] = "upstream unavailable"
	}

	switch r.URL.Path {
	case "/api/chat":
		var req apiclient.ChatRequest
		_ = json.NewDecoder(r.Body).Decode(&req)
		f.chats = append(f.chats, req)
		body["response"] = f.reply
	case "/api/generate-report":
		var req apiclient.ReportRequest
		_ = json.NewDecoder(r.Body).Decode(&req)
		f.reports = append(f.reports, req)
		body["report"] = f.reply
	default:
		http.NotFound(w, r)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}

type result struct {
	stdout string
	stderr string
	err    error
}

func execute(t *testing.T, backend *fakeBackend, stdin string, args ...string) result {
	t.Helper()
	for _, key := range []string{"NOTEBOOK_API_URL", "NOTEBOOK_MODEL", "CLIENT_TIMEOUT", "LOG_LEVEL"} {
		t.Setenv(key, "")
	}

	server := httptest.NewServer(backend)
	t.Cleanup(server.Close)

	var stdout, stderr bytes.Buffer
	cmd := newRootCommand()
	cmd.SetArgs(append([]string{"--api-url", server.URL}, args...))
	cmd.SetIn(strings.NewReader(stdin))
	cmd.SetOut(&stdout)
	cmd.SetErr(&stderr)

	err := cmd.Execute()
	return result{stdout: stdout.String(), stderr: stderr.String(), err: err}
}

func TestNewRootCommand(t *testing.T) {
	cmd := newRootCommand()

	if cmd.Use != "notebook" {
		t.Errorf("Use = %q, want notebook", cmd.Use)
	}
	names := map[string]bool{}
	for _, sub := range cmd.Commands() {
		names[sub.Name()] = true
	}
	for _, want := range []string{"chat", "flashcards", "quiz", "report"} {
		if !names[want] {
			t.Errorf("missing subcommand %q", want)
		}
	}
	for _, flag := range []string{"api-url", "model", "timeout", "debug"} {
		if cmd.PersistentFlags().Lookup(flag) == nil {
			t.Errorf("missing persistent flag --%s", flag)
		}
	}
}

func TestChat_SingleQuestion(t *testing.T) {
	backend := &fakeBackend{reply: "Cells divide by mitosis."}

	res := execute(t, backend, "", "chat", "--text", "Biology=Cells divide by mitosis.", "--model", "mixtral-8x7b-32768", "How", "do", "cells", "divide?")
	if res.err != nil {
		t.Fatalf("Execute() error = %v (stderr %q)", res.err, res.stderr)
	}
	if !strings.Contains(res.stdout, "Cells divide by mitosis.") {
		t.Errorf("stdout = %q", res.stdout)
	}

	if len(backend.chats) != 1 {
		t.Fatalf("chat requests = %d, want 1", len(backend.chats))
	}
	req := backend.chats[0]
	if req.Query != "How do cells divide?" || req.Model != "mixtral-8x7b-32768" {
		t.Errorf("request = %+v", req)
	}
	if len(req.Sources) != 1 || req.Sources[0].Title != "Biology" {
		t.Errorf("sources = %+v", req.Sources)
	}
}

func TestChat_Loop(t *testing.T) {
	backend := &fakeBackend{reply: "Answer."}

	res := execute(t, backend, "first question\n\nsecond question\nexit\nnever sent\n", "chat", "--text", "Notes=Some notes")
	if res.err != nil {
		t.Fatalf("Execute() error = %v", res.err)
	}
	if len(backend.chats) != 2 {
		t.Fatalf("chat requests = %d, want 2", len(backend.chats))
	}
	if backend.chats[1].Query != "second question" {
		t.Errorf("second query = %q", backend.chats[1].Query)
	}
	if !strings.Contains(res.stdout, "Chatting with Notes (1 sources).") {
		t.Errorf("stdout = %q", res.stdout)
	}
}

func TestChat_LoopCommands(t *testing.T) {
	backend := &fakeBackend{reply: "Answer."}

	stdin := "first\n/new\nsecond\n/notebooks\n/use 1\nthird\n/history\n/use 9\n/bogus\nexit\n"
	res := execute(t, backend, stdin, "chat", "--text", "Notes=Some notes")
	if res.err != nil {
		t.Fatalf("Execute() error = %v", res.err)
	}

	if len(backend.chats) != 3 {
		t.Fatalf("chat requests = %d, want 3", len(backend.chats))
	}
	for i, req := range backend.chats {
		if len(req.Sources) != 1 || req.Sources[0].Title != "Notes" {
			t.Errorf("chats[%d] sources = %+v", i, req.Sources)
		}
	}
	if backend.chats[0].Sources[0].NotebookID == backend.chats[1].Sources[0].NotebookID {
		t.Error("/new should move the conversation to a new notebook")
	}
	if backend.chats[2].Sources[0].NotebookID != backend.chats[0].Sources[0].NotebookID {
		t.Error("/use 1 should return to the first notebook")
	}

	for _, want := range []string{
		"Started a new conversation over 1 sources.",
		"* 2. Notes",
		"user: first",
		"user: third",
		`No conversation "9".`,
		"Unknown command /bogus.",
	} {
		if !strings.Contains(res.stdout, want) {
			t.Errorf("stdout missing %q:\n%s", want, res.stdout)
		}
	}
	if strings.Contains(res.stdout, "user: second") {
		t.Errorf("history of the first notebook should not include the second conversation:\n%s", res.stdout)
	}
}

func TestChat_BackendFailureShowsFixedReply(t *testing.T) {
	backend := &fakeBackend{status: http.StatusInternalServerError}

	res := execute(t, backend, "", "chat", "--text", "Notes=Some notes", "anything?")
	if res.err != nil {
		t.Fatalf("Execute() error = %v", res.err)
	}
	if !strings.Contains(res.stdout, "Please make sure the backend server is running") {
		t.Errorf("stdout = %q, want %q", res.stdout, session.ChatFailureMessage)
	}
}

func TestChat_RequiresSources(t *testing.T) {
	backend := &fakeBackend{}

	res := execute(t, backend, "", "chat", "hello")
	if !errors.Is(res.err, errNoSourceFlags) {
		t.Fatalf("Execute() error = %v, want %v", res.err, errNoSourceFlags)
	}
	if len(backend.chats) != 0 {
		t.Error("no request should be sent without sources")
	}
}

func TestFlashcards_Plain(t *testing.T) {
	backend := &fakeBackend{reply: "```json\n[{\"id\":1,\"question\":\"What divides?\",\"answer\":\"Cells\"}]\n```"}

	res := execute(t, backend, "", "flashcards", "--plain", "--text", "Biology=Cells divide.")
	if res.err != nil {
		t.Fatalf("Execute() error = %v", res.err)
	}
	if !strings.Contains(res.stdout, "1. What divides?") || !strings.Contains(res.stdout, "Cells") {
		t.Errorf("stdout = %q", res.stdout)
	}
	if len(backend.reports) != 1 || backend.reports[0].Mode != "direct" {
		t.Errorf("report requests = %+v", backend.reports)
	}
}

func TestFlashcards_PlainBackendFailure(t *testing.T) {
	backend := &fakeBackend{status: http.StatusInternalServerError}

	res := execute(t, backend, "", "flashcards", "--plain", "--text", "Biology=Cells divide.")
	if res.err == nil {
		t.Fatal("Execute() should fail when the backend fails")
	}
	if !strings.Contains(res.stderr, "Failed to generate flashcards.") {
		t.Errorf("stderr = %q, want the alert", res.stderr)
	}
}

func TestQuiz_PlainHidesAnswers(t *testing.T) {
	backend := &fakeBackend{reply: `[{"id":1,"question":"Powerhouse?","options":[{"label":"A","text":"Nucleus"},{"label":"B","text":"Mitochondria"}],"correctAnswer":"B"}]`}

	res := execute(t, backend, "", "quiz", "--plain", "--text", "Biology=Mitochondria make energy.")
	if res.err != nil {
		t.Fatalf("Execute() error = %v", res.err)
	}
	if !strings.Contains(res.stdout, "1. Powerhouse?") || !strings.Contains(res.stdout, "B) Mitochondria") {
		t.Errorf("stdout = %q", res.stdout)
	}
	if strings.Contains(strings.ToLower(res.stdout), "correct") {
		t.Errorf("plain quiz should not reveal answers: %q", res.stdout)
	}
}

func TestReport(t *testing.T) {
	t.Run("prints report", func(t *testing.T) {
		backend := &fakeBackend{reply: "# Photosynthesis\n\nLight becomes sugar."}

		res := execute(t, backend, "", "report", "photosynthesis", "basics")
		if res.err != nil {
			t.Fatalf("Execute() error = %v", res.err)
		}
		if !strings.Contains(res.stdout, "# Photosynthesis") {
			t.Errorf("stdout = %q", res.stdout)
		}
		if len(backend.reports) != 1 || backend.reports[0].Topic != "photosynthesis basics" || backend.reports[0].Mode != "agents" {
			t.Errorf("report requests = %+v", backend.reports)
		}
	})

	t.Run("writes file", func(t *testing.T) {
		backend := &fakeBackend{reply: "# Report"}
		path := filepath.Join(t.TempDir(), "report.md")

		res := execute(t, backend, "", "report", "--mode", "direct", "-o", path, "topic")
		if res.err != nil {
			t.Fatalf("Execute() error = %v", res.err)
		}
		data, err := os.ReadFile(path)
		if err != nil {
			t.Fatal(err)
		}
		if string(data) != "# Report" {
			t.Errorf("file = %q", data)
		}
	})

	t.Run("invalid mode", func(t *testing.T) {
		backend := &fakeBackend{}

		res := execute(t, backend, "", "report", "--mode", "fast", "topic")
		if res.err == nil {
			t.Fatal("Execute() should reject unknown modes")
		}
		if len(backend.reports) != 0 {
			t.Error("no request should be sent for an invalid mode")
		}
	})

	t.Run("backend failure", func(t *testing.T) {
		backend := &fakeBackend{status: http.StatusInternalServerError}

		res := execute(t, backend, "", "report", "topic")
		if !errors.Is(res.err, apiclient.ErrRequestFailed) {
			t.Errorf("Execute() error = %v, want ErrRequestFailed", res.err)
		}
	})
}

func TestSourceFlags_OpenFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "cells.txt")
	if err := os.WriteFile(path, []byte("Cells divide by mitosis."), 0o600); err != nil {
		t.Fatal(err)
	}
	backend := &fakeBackend{reply: "ok"}

	res := execute(t, backend, "", "chat", "--source", path, "question")
	if res.err != nil {
		t.Fatalf("Execute() error = %v", res.err)
	}
	if len(backend.chats) != 1 || len(backend.chats[0].Sources) != 1 {
		t.Fatalf("chats = %+v", backend.chats)
	}
	if !strings.Contains(backend.chats[0].Sources[0].Content, "mitosis") {
		t.Errorf("source content = %q", backend.chats[0].Sources[0].Content)
	}

	res = execute(t, backend, "", "chat", "--source", filepath.Join(dir, "missing.txt"), "question")
	if res.err == nil {
		t.Error("a missing source file should fail")
	}
}

func TestAlertBuffer(t *testing.T) {
	var alerts alertBuffer
	alerts.Alert("first")
	alerts.Alert("second")

	var out bytes.Buffer
	alerts.flush(&out)
	alerts.flush(&out)
	if out.String() != "first\nsecond\n" {
		t.Errorf("flush wrote %q", out.String())
	}
}
