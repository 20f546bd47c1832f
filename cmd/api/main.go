package main

import (
	"context"
	"database/sql"
	"errors"
	"log"
	"log/slog"
	nethttp "net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"notebook-ai/internal/config"
	"notebook-ai/internal/http"
	"notebook-ai/internal/llm"
	"notebook-ai/internal/metrics"
	"notebook-ai/internal/notebook"
	"notebook-ai/internal/retrieval"
	"notebook-ai/internal/service"
	"notebook-ai/internal/storage"
	"notebook-ai/internal/vectorstore"
)

// General API information
//
// This API answers questions about a notebook's sources, writes multi-stage research
// reports, and generates study material for the notebook CLI.
//
// swagger:meta
//
// ---
// swagger: '2.0'
// info:
//   title: Notebook AI API
//   version: 1.0.0
// schemes:
//   - http
// consumes:
//   - application/json
// produces:
//   - application/json

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	opts := &slog.HandlerOptions{
		Level: cfg.LogLevel,
	}
	var handler slog.Handler
	if cfg.LogFormat == "json" {
		handler = slog.NewJSONHandler(os.Stdout, opts)
	} else {
		handler = slog.NewTextHandler(os.Stdout, opts)
	}
	slog.SetDefault(slog.New(handler))
	slog.Debug("Logging configured", "level", cfg.LogLevel.String(), "format", cfg.LogFormat)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	m := metrics.New()

	deps := &http.Deps{Metrics: m}

	// Notebook store: SQLite when DB_PATH is set, otherwise in memory.
	var store notebook.Store
	var db *sql.DB
	if cfg.DBPath != "" {
		db = openDatabase(cfg.DBPath)
		defer func() {
			_ = db.Close()
		}()
		repo := storage.NewNotebookRepo(db)
		store = repo
		deps.Store = repo
		slog.Info("Database initialized", "path", cfg.DBPath)
	} else {
		store = notebook.NewMemoryStore()
		slog.Info("Using in-memory notebook store")
	}

	completer, closeLLM := newCompleter(ctx, cfg)
	defer closeLLM()
	llmClient := llm.NewInstrumented(completer, cfg.LLMProvider, m)

	chatOpts := []service.ChatOption{service.WithDefaultModel(cfg.LLMModelName)}
	if cfg.RetrievalEnabled() {
		if db == nil {
			// Chunk bookkeeping needs SQLite even when notebooks live in memory.
			db = openDatabase(storage.SharedMemoryPath)
			defer func() {
				_ = db.Close()
			}()
		}
		vectors, err := vectorstore.NewQdrantStore(cfg.QdrantURL, cfg.QdrantAPIKey)
		if err != nil {
			log.Fatalf("Failed to create Qdrant client: %v", err)
		}
		defer func() {
			_ = vectors.Close()
		}()
		if err := vectors.EnsureCollection(ctx, cfg.QdrantCollection, cfg.QdrantVectorSize); err != nil {
			log.Fatalf("Failed to ensure Qdrant collection: %v", err)
		}
		slog.Info("Qdrant collection ready", "collection", cfg.QdrantCollection, "vector_size", cfg.QdrantVectorSize)

		embedder := llm.NewEmbeddingsClient(cfg.EmbeddingBaseURL, cfg.LLMAPIKey, cfg.EmbeddingModelName, cfg.QdrantVectorSize)
		retriever := retrieval.NewRetriever(embedder, vectors, storage.NewChunkRepo(db), retrieval.Config{
			Collection:   cfg.QdrantCollection,
			ContextChars: cfg.RetrievalContextChars,
		}, m)
		chatOpts = append(chatOpts, service.WithRetriever(retriever))

		deps.VectorStore = vectors
		deps.CollectionName = cfg.QdrantCollection
		slog.Info("Retrieval enabled", "embedding_model", cfg.EmbeddingModelName)
	}

	deps.ChatService = service.NewChatService(llmClient, chatOpts...)
	deps.ReportService = service.NewReportService(llmClient, cfg.LLMModelName, m)
	deps.NotebookService = service.NewNotebookService(store, deps.ChatService, deps.ReportService, m)

	server := &nethttp.Server{
		Addr:              ":" + cfg.APIPort,
		Handler:           http.NewRouter(deps),
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			slog.Error("Server shutdown failed", "error", err)
		}
	}()

	slog.Info("Starting API server", "addr", server.Addr)
	slog.Debug("LLM configuration", "provider", cfg.LLMProvider, "base_url", cfg.LLMBaseURL, "model", cfg.LLMModelName)
	if err := server.ListenAndServe(); err != nil && !errors.Is(err, nethttp.ErrServerClosed) {
		log.Fatalf("API server failed to start: %v", err)
	}
	slog.Info("API server stopped")
}

func openDatabase(path string) *sql.DB {
	db, err := storage.New(path)
	if err != nil {
		log.Fatalf("Failed to open database: %v", err)
	}
	if err := storage.Migrate(db); err != nil {
		log.Fatalf("Failed to run migrations: %v", err)
	}
	return db
}

// newCompleter builds the upstream chat client for the configured provider.
func newCompleter(ctx context.Context, cfg *config.Config) (llm.Completer, func()) {
	if cfg.LLMProvider == config.ProviderGemini {
		client, err := llm.NewGeminiClient(ctx, cfg.GeminiAPIKey, geminiModel(cfg.LLMModelName))
		if err != nil {
			log.Fatalf("Failed to create Gemini client: %v", err)
		}
		return client, func() { _ = client.Close() }
	}
	if cfg.LLMAPIKey == "" {
		slog.Warn("No LLM API key configured; set GROQ_API_KEY or LLM_API_KEY")
	}
	client := llm.NewClient(cfg.LLMBaseURL, cfg.LLMAPIKey, cfg.LLMModelName).WithMaxRetries(cfg.LLMMaxRetries)
	return client, func() {}
}

// geminiModel keeps the Gemini default when the model is left at the Groq default.
func geminiModel(model string) string {
	if model == config.DefaultModel {
		return ""
	}
	return model
}
