package llm

import (
	"errors"
	"testing"

	"github.com/google/generative-ai-go/genai"
)

func TestSplitForGemini(t *testing.T) {
	messages := []Message{
		System("be brief"),
		System("cite sources"),
		User("first question"),
		{Role: RoleAssistant, Content: "first answer"},
		User("second question"),
	}

	system, history, last, err := splitForGemini(messages)
	if err != nil {
		t.Fatalf("splitForGemini() error = %v", err)
	}
	if system != "be brief\n\ncite sources" {
		t.Errorf("system = %q", system)
	}
	if last != "second question" {
		t.Errorf("last = %q, want second question", last)
	}
	if len(history) != 2 {
		t.Fatalf("len(history) = %d, want 2", len(history))
	}
	if history[0].Role != geminiRoleUser || history[1].Role != geminiRoleModel {
		t.Errorf("history roles = %s, %s", history[0].Role, history[1].Role)
	}
}

func TestSplitForGemini_RequiresTrailingUser(t *testing.T) {
	tests := []struct {
		name     string
		messages []Message
	}{
		{name: "empty", messages: nil},
		{name: "system only", messages: []Message{System("x")}},
		{name: "assistant last", messages: []Message{User("q"), {Role: RoleAssistant, Content: "a"}}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, _, _, err := splitForGemini(tt.messages); err == nil {
				t.Error("splitForGemini() expected error, got nil")
			}
		})
	}
}

func TestGeminiText(t *testing.T) {
	resp := &genai.GenerateContentResponse{
		Candidates: []*genai.Candidate{{
			Content: &genai.Content{Parts: []genai.Part{genai.Text("Hello "), genai.Text("world\n")}},
		}},
	}
	got, err := geminiText(resp)
	if err != nil {
		t.Fatalf("geminiText() error = %v", err)
	}
	if got != "Hello world" {
		t.Errorf("geminiText() = %q, want Hello world", got)
	}

	if _, err := geminiText(&genai.GenerateContentResponse{}); !errors.Is(err, ErrEmptyCompletion) {
		t.Errorf("geminiText(empty) error = %v, want ErrEmptyCompletion", err)
	}
}
