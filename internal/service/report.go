package service

//go:generate go run go.uber.org/mock/mockgen@latest -destination=mocks/mock_report_service.go -package=mocks -mock_names=ReportService=MockReportService notebook-ai/internal/service ReportService

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"notebook-ai/internal/contextutil"
	"notebook-ai/internal/extract"
	"notebook-ai/internal/llm"
	"notebook-ai/internal/metrics"
)

// Report generation modes.
const (
	// ModeAgents runs research, synthesis and editing as three sequential completions.
	ModeAgents = "agents"
	// ModeDirect sends the topic as a single completion and returns the raw reply.
	ModeDirect = "direct"
)

const (
	researcherPrompt = `ROLE: You are a meticulous and factual Research Analyst. Your job is to analyze the user's query and extract the key facts and context required to write a comprehensive report. You will not write the report, only the raw data for it.

CRITICAL: Return ONLY a valid JSON object containing an array of key facts. No additional text, no markdown formatting, just the JSON.

Format:
{
  "facts": [
    {"id": 1, "detail": "..."},
    {"id": 2, "detail": "..."}
  ]
}`

	synthesizerPrompt = `ROLE: You are an expert Content Architect and Synthesizer. Your task is to take a raw list of facts and transform them into a coherent, flowing, well-structured Markdown document. Do not invent any new information; strictly use the facts provided in the input.

CRITICAL: Return ONLY the Markdown content. No conversational text, no explanations, just the Markdown document.`

	editorPrompt = `ROLE: You are a professional Copy Editor and Quality Control Specialist. Your sole job is to take a Markdown draft and correct all grammatical errors, improve clarity, refine the professional tone, and ensure proper Markdown formatting.

CRITICAL: Return ONLY the final, polished Markdown string. Do not add any conversational text or explanation.`

	researchTemperature   = 0.3
	researchMaxTokens     = 2000
	synthesizeTemperature = 0.5
	synthesizeMaxTokens   = 3000
	editTemperature       = 0.3
	editMaxTokens         = 3000
	directTemperature     = 0.5
	directMaxTokens       = 3000

	// researchParseFailure stands in for the fact list when the researcher's reply is not JSON.
	researchParseFailure = "Error parsing research data"
	// researchRunFailure stands in for the fact list when the researcher call fails.
	researchRunFailure = "Error running research agent"
)

// Fact is one item of the researcher's output.
type Fact struct {
	ID     int    `json:"id"`
	Detail string `json:"detail"`
}

// Research is the researcher's structured output.
type Research struct {
	Facts []Fact `json:"facts"`
}

// ReportRequest represents a report generation request in the domain layer.
type ReportRequest struct {
	Topic string `validate:"required"`
	Model string
	Mode  string `validate:"omitempty,oneof=agents direct"`
}

// ReportResponse carries the generated Markdown (or raw text in direct mode).
type ReportResponse struct {
	Report string
	Facts  int
}

// ReportService generates reports from a topic.
type ReportService interface {
	GenerateReport(ctx context.Context, req ReportRequest) (ReportResponse, error)
}

type reportService struct {
	llmClient    LLMClient
	defaultModel string
	metrics      *metrics.Metrics
}

// NewReportService creates a new ReportService. m may be nil.
func NewReportService(llmClient LLMClient, defaultModel string, m *metrics.Metrics) ReportService {
	if defaultModel == "" {
		defaultModel = DefaultModel
	}
	return &reportService{
		llmClient:    llmClient,
		defaultModel: defaultModel,
		metrics:      m,
	}
}

// GenerateReport dispatches on req.Mode; an empty mode means ModeAgents.
func (s *reportService) GenerateReport(ctx context.Context, req ReportRequest) (ReportResponse, error) {
	logger := contextutil.LoggerFromContext(ctx)

	if strings.TrimSpace(req.Topic) == "" {
		logger.WarnContext(ctx, "empty topic in report request")
		return ReportResponse{}, invalid("topic", "Topic is required")
	}

	model := req.Model
	if model == "" {
		model = s.defaultModel
	}

	switch req.Mode {
	case ModeDirect:
		return s.direct(ctx, req.Topic, model)
	case "", ModeAgents:
		return s.agents(ctx, req.Topic, model)
	default:
		return ReportResponse{}, invalid("mode", fmt.Sprintf("unknown mode %q", req.Mode))
	}
}

func (s *reportService) direct(ctx context.Context, topic, model string) (ReportResponse, error) {
	reply, err := s.stage(ctx, "direct", []llm.Message{llm.User(topic)}, llm.ChatParams{
		Model:       model,
		Temperature: directTemperature,
		MaxTokens:   directMaxTokens,
	})
	if err != nil {
		return ReportResponse{}, externalError(err, "failed to generate report")
	}
	return ReportResponse{Report: reply}, nil
}

func (s *reportService) agents(ctx context.Context, topic, model string) (ReportResponse, error) {
	logger := contextutil.LoggerFromContext(ctx).With("topic_length", len(topic), "model", model)

	logger.InfoContext(ctx, "running research agent")
	research, err := s.research(ctx, topic, model)
	if err != nil {
		return ReportResponse{}, err
	}
	logger.InfoContext(ctx, "research complete", "facts", len(research.Facts))

	draft, err := s.synthesize(ctx, topic, research, model)
	if err != nil {
		return ReportResponse{}, err
	}
	logger.InfoContext(ctx, "draft synthesized", "draft_length", len(draft))

	final, err := s.stage(ctx, "edit", []llm.Message{
		llm.System(editorPrompt),
		llm.User("Edit and polish this Markdown document:\n\n" + draft),
	}, llm.ChatParams{Model: model, Temperature: editTemperature, MaxTokens: editMaxTokens})
	if err != nil {
		if ctx.Err() != nil {
			return ReportResponse{}, externalError(err, "editor agent failed")
		}
		logger.WarnContext(ctx, "editor agent failed, returning draft", "error", err)
		final = draft
	}
	logger.InfoContext(ctx, "report complete", "report_length", len(final))

	return ReportResponse{Report: final, Facts: len(research.Facts)}, nil
}

func (s *reportService) research(ctx context.Context, topic, model string) (Research, error) {
	logger := contextutil.LoggerFromContext(ctx)

	reply, err := s.stage(ctx, "research", []llm.Message{
		llm.System(researcherPrompt),
		llm.User("Analyze this topic and extract key facts for a comprehensive report: " + topic),
	}, llm.ChatParams{Model: model, Temperature: researchTemperature, MaxTokens: researchMaxTokens})
	if err != nil {
		if ctx.Err() != nil {
			return Research{}, externalError(err, "research agent failed")
		}
		logger.ErrorContext(ctx, "research agent failed", "error", err)
		return Research{Facts: []Fact{{ID: 1, Detail: researchRunFailure}}}, nil
	}

	research, tier, err := ParseResearch(reply)
	s.countExtraction("research", tier)
	if err != nil {
		logger.WarnContext(ctx, "research reply is not valid JSON", "error", err, "reply_length", len(reply))
		return Research{Facts: []Fact{{ID: 1, Detail: researchParseFailure}}}, nil
	}
	return research, nil
}

func (s *reportService) synthesize(ctx context.Context, topic string, research Research, model string) (string, error) {
	facts, err := json.MarshalIndent(research, "", "  ")
	if err != nil {
		return "", fmt.Errorf("encode research: %w", err)
	}

	prompt := fmt.Sprintf("Topic: %s\n\nFacts to synthesize:\n%s\n\nCreate a comprehensive, well-structured Markdown report using ONLY these facts.", topic, facts)
	draft, err := s.stage(ctx, "synthesize", []llm.Message{
		llm.System(synthesizerPrompt),
		llm.User(prompt),
	}, llm.ChatParams{Model: model, Temperature: synthesizeTemperature, MaxTokens: synthesizeMaxTokens})
	if err != nil {
		if ctx.Err() != nil {
			return "", externalError(err, "synthesizer agent failed")
		}
		contextutil.LoggerFromContext(ctx).ErrorContext(ctx, "synthesizer agent failed", "error", err)
		return "# Error\n\nFailed to synthesize report: " + err.Error(), nil
	}
	return draft, nil
}

func (s *reportService) stage(ctx context.Context, name string, messages []llm.Message, params llm.ChatParams) (string, error) {
	start := time.Now()
	reply, err := s.llmClient.Complete(ctx, messages, params)
	if s.metrics != nil {
		s.metrics.ReportStageDuration.WithLabelValues(name).Observe(time.Since(start).Seconds())
	}
	return strings.TrimSpace(reply), err
}

func (s *reportService) countExtraction(kind string, tier extract.Tier) {
	if s.metrics != nil {
		s.metrics.ExtractionsTotal.WithLabelValues(kind, tier.String()).Inc()
	}
}

// ParseResearch decodes the researcher's reply, tolerating a surrounding code fence.
func ParseResearch(reply string) (Research, extract.Tier, error) {
	tier := extract.TierStrict
	body := extract.StripFences(reply)
	if body != strings.TrimSpace(reply) {
		tier = extract.TierFenced
	}

	var research Research
	if err := json.Unmarshal([]byte(body), &research); err != nil {
		return Research{}, extract.TierNone, fmt.Errorf("decode research: %w", err)
	}
	return research, tier, nil
}
