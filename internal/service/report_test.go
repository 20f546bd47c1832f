package service_test

import (
	"context"
	"errors"
	"strings"
	"testing"

	"notebook-ai/internal/extract"
	"notebook-ai/internal/llm"
	"notebook-ai/internal/service"
	"notebook-ai/internal/service/mocks"

	"go.uber.org/mock/gomock"
)

const researchJSON = `{"facts":[{"id":1,"detail":"LPUs are deterministic"},{"id":2,"detail":"GPUs are parallel"}]}`

func TestReportService_Validation(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	svc := service.NewReportService(mocks.NewMockLLMClient(ctrl), "", nil)

	tests := []struct {
		name      string
		req       service.ReportRequest
		wantField string
	}{
		{name: "empty topic", req: service.ReportRequest{Topic: ""}, wantField: "topic"},
		{name: "blank topic", req: service.ReportRequest{Topic: " \n"}, wantField: "topic"},
		{name: "unknown mode", req: service.ReportRequest{Topic: "x", Mode: "poem"}, wantField: "mode"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.GenerateReport(testContext(), tt.req)
			var vErr *service.ValidationError
			if !errors.As(err, &vErr) || vErr.Field != tt.wantField {
				t.Errorf("GenerateReport() error = %v, want validation error on %s", err, tt.wantField)
			}
		})
	}
}

func TestReportService_Direct(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockLLMClient := mocks.NewMockLLMClient(ctrl)
	svc := service.NewReportService(mockLLMClient, "", nil)

	t.Run("single completion", func(t *testing.T) {
		mockLLMClient.EXPECT().
			Complete(gomock.Any(), gomock.Any(), gomock.Any()).
			DoAndReturn(func(ctx context.Context, messages []llm.Message, params llm.ChatParams) (string, error) {
				if len(messages) != 1 || messages[0].Role != llm.RoleUser || messages[0].Content != "make flashcards" {
					t.Errorf("unexpected messages: %+v", messages)
				}
				if params.Model != "m" {
					t.Errorf("params.Model = %s, want m", params.Model)
				}
				return "  ```json\n[]\n```  ", nil
			})

		resp, err := svc.GenerateReport(testContext(), service.ReportRequest{Topic: "make flashcards", Model: "m", Mode: service.ModeDirect})
		if err != nil {
			t.Fatalf("GenerateReport() error = %v", err)
		}
		if resp.Report != "```json\n[]\n```" {
			t.Errorf("GenerateReport() report = %q", resp.Report)
		}
	})

	t.Run("upstream failure", func(t *testing.T) {
		mockLLMClient.EXPECT().
			Complete(gomock.Any(), gomock.Any(), gomock.Any()).
			Return("", errors.New("429"))

		_, err := svc.GenerateReport(testContext(), service.ReportRequest{Topic: "x", Mode: service.ModeDirect})
		if !errors.Is(err, service.ErrExternalService) {
			t.Errorf("GenerateReport() error = %v, want ErrExternalService", err)
		}
	})
}

func TestReportService_Agents(t *testing.T) {
	tests := []struct {
		name       string
		research   string
		researchEr error
		synthErr   error
		editErr    error
		wantEdited string
		wantReport string
		wantFacts  int
	}{
		{
			name:       "all stages succeed",
			research:   researchJSON,
			wantReport: "# Final",
			wantFacts:  2,
		},
		{
			name:       "fenced research",
			research:   "```json\n" + researchJSON + "\n```",
			wantReport: "# Final",
			wantFacts:  2,
		},
		{
			name:       "unparseable research falls back",
			research:   "I could not find facts",
			wantReport: "# Final",
			wantFacts:  1,
		},
		{
			name:       "editor failure returns draft",
			research:   researchJSON,
			editErr:    errors.New("timeout"),
			wantReport: "# Draft",
			wantFacts:  2,
		},
		{
			name:       "research upstream failure uses placeholder fact",
			researchEr: errors.New("503"),
			wantReport: "# Final",
			wantFacts:  1,
		},
		{
			name:       "synthesizer upstream failure edits error document",
			research:   researchJSON,
			synthErr:   errors.New("bad status 503"),
			wantEdited: "# Error\n\nFailed to synthesize report: bad status 503",
			wantReport: "# Final",
			wantFacts:  2,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			defer ctrl.Finish()

			mockLLMClient := mocks.NewMockLLMClient(ctrl)
			svc := service.NewReportService(mockLLMClient, "default-model", nil)

			mockLLMClient.EXPECT().
				Complete(gomock.Any(), gomock.Any(), gomock.Any()).
				DoAndReturn(func(ctx context.Context, messages []llm.Message, params llm.ChatParams) (string, error) {
					system, user := messages[0].Content, messages[1].Content
					if params.Model != "default-model" {
						t.Errorf("params.Model = %s, want default-model", params.Model)
					}
					switch {
					case strings.Contains(system, "Research Analyst"):
						if user != "Analyze this topic and extract key facts for a comprehensive report: LPU vs GPU" {
							t.Errorf("research prompt = %q", user)
						}
						if params.Temperature != 0.3 || params.MaxTokens != 2000 {
							t.Errorf("research params = %+v", params)
						}
						return tt.research, tt.researchEr
					case strings.Contains(system, "Content Architect"):
						if !strings.HasPrefix(user, "Topic: LPU vs GPU\n\nFacts to synthesize:\n{\n  \"facts\"") {
							t.Errorf("synthesize prompt = %q", user)
						}
						if tt.researchEr != nil && !strings.Contains(user, "Error running research agent") {
							t.Errorf("synthesize prompt = %q, want placeholder fact", user)
						}
						if params.MaxTokens != 3000 {
							t.Errorf("synthesize params = %+v", params)
						}
						if tt.synthErr != nil {
							return "", tt.synthErr
						}
						return "# Draft", nil
					case strings.Contains(system, "Copy Editor"):
						wantEdited := "# Draft"
						if tt.wantEdited != "" {
							wantEdited = tt.wantEdited
						}
						if user != "Edit and polish this Markdown document:\n\n"+wantEdited {
							t.Errorf("edit prompt = %q", user)
						}
						return "# Final", tt.editErr
					}
					t.Errorf("unexpected system prompt %q", system)
					return "", errors.New("unexpected")
				}).
				AnyTimes()

			resp, err := svc.GenerateReport(testContext(), service.ReportRequest{Topic: "LPU vs GPU"})
			if err != nil {
				t.Fatalf("GenerateReport() error = %v", err)
			}
			if resp.Report != tt.wantReport {
				t.Errorf("GenerateReport() report = %q, want %q", resp.Report, tt.wantReport)
			}
			if resp.Facts != tt.wantFacts {
				t.Errorf("GenerateReport() facts = %d, want %d", resp.Facts, tt.wantFacts)
			}
		})
	}
}

func TestReportService_AgentsCancelled(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockLLMClient := mocks.NewMockLLMClient(ctrl)
	svc := service.NewReportService(mockLLMClient, "default-model", nil)

	ctx, cancel := context.WithCancel(testContext())
	mockLLMClient.EXPECT().
		Complete(gomock.Any(), gomock.Any(), gomock.Any()).
		DoAndReturn(func(context.Context, []llm.Message, llm.ChatParams) (string, error) {
			cancel()
			return "", context.Canceled
		})

	if _, err := svc.GenerateReport(ctx, service.ReportRequest{Topic: "LPU vs GPU"}); !errors.Is(err, service.ErrExternalService) {
		t.Errorf("GenerateReport() error = %v, want ErrExternalService", err)
	}
}

func TestParseResearch(t *testing.T) {
	tests := []struct {
		name     string
		reply    string
		wantTier extract.Tier
		wantN    int
		wantErr  bool
	}{
		{name: "bare", reply: researchJSON, wantTier: extract.TierStrict, wantN: 2},
		{name: "fenced", reply: "```json\n" + researchJSON + "\n```", wantTier: extract.TierFenced, wantN: 2},
		{name: "prose", reply: "Sure! Here are facts", wantTier: extract.TierNone, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, tier, err := service.ParseResearch(tt.reply)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ParseResearch() error = %v, wantErr %v", err, tt.wantErr)
			}
			if tier != tt.wantTier {
				t.Errorf("ParseResearch() tier = %v, want %v", tier, tt.wantTier)
			}
			if len(got.Facts) != tt.wantN {
				t.Errorf("ParseResearch() facts = %d, want %d", len(got.Facts), tt.wantN)
			}
		})
	}
}
