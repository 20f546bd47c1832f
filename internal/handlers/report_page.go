package handlers

import (
	"bytes"
	"fmt"
	"html/template"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/parser"

	"notebook-ai/internal/contextutil"
	"notebook-ai/internal/notebook"
	"notebook-ai/internal/service"
)

// ReportPageHandler serves stored Markdown reports as rendered HTML pages.
type ReportPageHandler struct {
	notebooks service.NotebookService
	markdown  goldmark.Markdown
	template  *template.Template
}

// reportPageData holds template data for rendered report pages.
type reportPageData struct {
	Title    string
	Emoji    string
	Status   notebook.ReportStatus
	Created  string
	Content  template.HTML
	Complete bool
}

var reportPageTemplate = template.Must(template.New("report").Parse(`<!DOCTYPE html>
<html>
<head>
  <meta charset="utf-8">
  <meta name="viewport" content="width=device-width, initial-scale=1">
  <title>{{.Title}} · Report</title>
  <style>
    :root {
      color-scheme: dark;
    }
    body {
      font-family: -apple-system, BlinkMacSystemFont, 'Segoe UI', sans-serif;
      margin: 0 auto;
      padding: 2rem;
      max-width: 900px;
      line-height: 1.7;
      background: #131314;
      color: #e3e3e3;
    }
    header {
      margin-bottom: 2rem;
      border-bottom: 1px solid #3d3d3d;
      padding-bottom: 1.5rem;
    }
    h1 {
      margin-top: 0;
      color: #fff;
      font-size: 2rem;
    }
    article {
      background: #1f1f1f;
      border: 1px solid #3d3d3d;
      border-radius: 16px;
      padding: 2rem;
    }
    article h2, article h3, article h4 {
      color: #c7d2fe;
      margin-top: 1.5rem;
    }
    pre {
      background: #0f172a;
      padding: 1rem;
      overflow-x: auto;
      border-radius: 10px;
    }
    code {
      font-family: 'SFMono-Regular', Consolas, 'Liberation Mono', Menlo, monospace;
    }
    blockquote {
      border-left: 4px solid #3851dd;
      padding-left: 1rem;
      margin-left: 0;
    }
    .meta {
      color: #94a3b8;
      font-size: 0.95rem;
      margin-top: 0.5rem;
    }
    @media (max-width: 640px) {
      body {
        padding: 1rem;
      }
      article {
        padding: 1.25rem;
      }
    }
  </style>
</head>
<body>
  <header>
    <h1>{{.Emoji}} {{.Title}}</h1>
    <p class="meta">Report &middot; {{.Status}} &middot; {{.Created}}</p>
  </header>
  {{if .Complete}}<article>{{.Content}}</article>{{else}}<p class="meta">This report is not available.</p>{{end}}
</body>
</html>`))

// NewReportPageHandler creates a new handler for rendered reports.
// Raw HTML in reports is escaped since report text comes from a model.
func NewReportPageHandler(notebooks service.NotebookService) *ReportPageHandler {
	return &ReportPageHandler{
		notebooks: notebooks,
		markdown: goldmark.New(
			goldmark.WithExtensions(
				extension.GFM,
				extension.Typographer,
			),
			goldmark.WithParserOptions(
				parser.WithAutoHeadingID(),
			),
		),
		template: reportPageTemplate,
	}
}

// ServeHTTP renders the requested report as HTML.
func (h *ReportPageHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	logger := contextutil.LoggerFromContext(ctx)

	notebookID := chi.URLParam(r, "notebookID")
	reportID := chi.URLParam(r, "reportID")

	nb, err := h.notebooks.GetNotebook(ctx, notebookID)
	if err != nil {
		handleServiceError(ctx, w, err, "Failed to get notebook")
		return
	}
	rep, err := h.notebooks.GetReport(ctx, notebookID, reportID)
	if err != nil {
		handleServiceError(ctx, w, err, "Failed to get report")
		return
	}

	page := reportPageData{
		Title:    nb.Title,
		Emoji:    nb.Emoji,
		Status:   rep.Status,
		Created:  rep.CreatedAt.Format("Jan 2, 2006 15:04"),
		Complete: rep.Status == notebook.ReportStatusCompleted,
	}
	if page.Complete {
		htmlContent, err := h.renderMarkdown([]byte(rep.Content))
		if err != nil {
			logger.ErrorContext(ctx, "failed to render markdown", "report_id", reportID, "error", err)
			http.Error(w, "failed to render report", http.StatusInternalServerError)
			return
		}
		page.Content = template.HTML(htmlContent)
	}

	var buf bytes.Buffer
	if err := h.template.Execute(&buf, page); err != nil {
		logger.ErrorContext(ctx, "failed to execute report template", "report_id", reportID, "error", err)
		http.Error(w, "failed to render report", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	_, _ = w.Write(buf.Bytes())
}

func (h *ReportPageHandler) renderMarkdown(content []byte) (string, error) {
	var buf bytes.Buffer
	if err := h.markdown.Convert(content, &buf); err != nil {
		return "", fmt.Errorf("convert markdown: %w", err)
	}
	return buf.String(), nil
}
