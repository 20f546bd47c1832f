package http

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"notebook-ai/internal/handlers"
	"notebook-ai/internal/metrics"
	"notebook-ai/internal/service"
)

// Deps holds dependencies for the HTTP router.
type Deps struct {
	ChatService     service.ChatService
	ReportService   service.ReportService
	NotebookService service.NotebookService

	// Health check targets; nil means in-memory store or retrieval disabled.
	Store          handlers.Pinger
	VectorStore    handlers.CollectionInspector
	CollectionName string

	// Metrics enables request instrumentation and /metrics when set.
	Metrics *metrics.Metrics
}

// NewRouter creates a new HTTP router with the provided dependencies.
func NewRouter(deps *Deps) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(LoggerMiddleware)
	r.Use(RequestLogger)
	r.Use(middleware.Recoverer)
	r.Use(CORS)
	if deps.Metrics != nil {
		r.Use(Instrument(deps.Metrics))
	}

	chatHandler := handlers.NewChatHandler(deps.ChatService)
	reportHandler := handlers.NewReportHandler(deps.ReportService)
	healthHandler := handlers.NewHealthHandler(deps.Store, deps.VectorStore, deps.CollectionName)
	notebookHandler := handlers.NewNotebookHandler(deps.NotebookService)

	r.Route("/api", func(r chi.Router) {
		r.Method(http.MethodGet, "/health", healthHandler)
		r.Handle("/chat", chatHandler)
		r.Handle("/generate-report", reportHandler)
		r.Route("/notebooks", notebookHandler.Routes)
	})

	if deps.Metrics != nil {
		r.Method(http.MethodGet, "/metrics", promhttp.Handler())
	}

	return r
}
