package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"notebook-ai/internal/notebook"
)

// NotebookRepo is a SQLite notebook.Store. Source counts are derived on read,
// so they cannot drift from the sources table.
type NotebookRepo struct {
	db    *sql.DB
	now   func() time.Time
	newID func() string
}

var _ notebook.Store = (*NotebookRepo)(nil)

// NewNotebookRepo creates a new NotebookRepo.
func NewNotebookRepo(db *sql.DB) *NotebookRepo {
	return &NotebookRepo{
		db:    db,
		now:   func() time.Time { return time.Now().UTC() },
		newID: notebook.NewID,
	}
}

const selectNotebook = `SELECT n.id, n.title, n.emoji, n.created_at,
	(SELECT COUNT(*) FROM sources s WHERE s.notebook_id = n.id)
	FROM notebooks n`

// CreateNotebook inserts a notebook with defaults applied.
func (r *NotebookRepo) CreateNotebook(ctx context.Context, draft notebook.NotebookDraft) (notebook.Notebook, error) {
	draft = draft.ApplyDefaults()
	nb := notebook.Notebook{
		ID:        r.newID(),
		Title:     draft.Title,
		Emoji:     draft.Emoji,
		CreatedAt: r.now(),
	}

	_, err := r.db.ExecContext(ctx,
		"INSERT INTO notebooks (id, title, emoji, created_at) VALUES (?, ?, ?, ?)",
		nb.ID, nb.Title, nb.Emoji, formatTime(nb.CreatedAt),
	)
	if err != nil {
		return notebook.Notebook{}, fmt.Errorf("failed to insert notebook: %w", err)
	}
	return nb, nil
}

// GetNotebook gets a notebook by ID. Returns notebook.ErrNotFound if not found.
func (r *NotebookRepo) GetNotebook(ctx context.Context, id string) (notebook.Notebook, error) {
	row := r.db.QueryRowContext(ctx, selectNotebook+" WHERE n.id = ?", id)
	nb, err := scanNotebook(row)
	if errors.Is(err, sql.ErrNoRows) {
		return notebook.Notebook{}, fmt.Errorf("notebook %s: %w", id, notebook.ErrNotFound)
	}
	return nb, err
}

// ListNotebooks returns all notebooks in creation order.
func (r *NotebookRepo) ListNotebooks(ctx context.Context) ([]notebook.Notebook, error) {
	rows, err := r.db.QueryContext(ctx, selectNotebook+" ORDER BY n.rowid")
	if err != nil {
		return nil, fmt.Errorf("failed to query notebooks: %w", err)
	}
	defer func() {
		_ = rows.Close()
	}()

	result := []notebook.Notebook{}
	for rows.Next() {
		nb, err := scanNotebook(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, nb)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("row iteration error: %w", err)
	}
	return result, nil
}

// AddSource inserts a source for an existing notebook.
func (r *NotebookRepo) AddSource(ctx context.Context, notebookID string, draft notebook.SourceDraft) (notebook.Source, error) {
	if err := draft.Validate(); err != nil {
		return notebook.Source{}, err
	}

	src := notebook.Source{
		ID:         r.newID(),
		NotebookID: notebookID,
		Title:      draft.Title,
		Type:       draft.Type,
		Content:    draft.Content,
		CreatedAt:  r.now(),
	}

	err := r.withNotebook(ctx, notebookID, func(tx *sql.Tx) error {
		_, err := tx.ExecContext(ctx,
			"INSERT INTO sources (id, notebook_id, title, type, content, created_at) VALUES (?, ?, ?, ?, ?, ?)",
			src.ID, src.NotebookID, src.Title, string(src.Type), src.Content, formatTime(src.CreatedAt),
		)
		if err != nil {
			return fmt.Errorf("failed to insert source: %w", err)
		}
		return nil
	})
	if err != nil {
		return notebook.Source{}, err
	}
	return src, nil
}

// ListSources returns a notebook's sources in insertion order.
func (r *NotebookRepo) ListSources(ctx context.Context, notebookID string) ([]notebook.Source, error) {
	if err := r.exists(ctx, notebookID); err != nil {
		return nil, err
	}

	rows, err := r.db.QueryContext(ctx,
		"SELECT id, notebook_id, title, type, content, created_at FROM sources WHERE notebook_id = ? ORDER BY rowid",
		notebookID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to query sources: %w", err)
	}
	defer func() {
		_ = rows.Close()
	}()

	result := []notebook.Source{}
	for rows.Next() {
		var src notebook.Source
		var typ, createdAt string
		if err := rows.Scan(&src.ID, &src.NotebookID, &src.Title, &typ, &src.Content, &createdAt); err != nil {
			return nil, fmt.Errorf("failed to scan source: %w", err)
		}
		src.Type = notebook.SourceType(typ)
		if src.CreatedAt, err = parseTime(createdAt); err != nil {
			return nil, fmt.Errorf("failed to parse created_at timestamp: %w", err)
		}
		result = append(result, src)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("row iteration error: %w", err)
	}
	return result, nil
}

// AppendMessage appends to a notebook's transcript.
func (r *NotebookRepo) AppendMessage(ctx context.Context, notebookID string, draft notebook.MessageDraft) (notebook.ChatMessage, error) {
	if err := draft.Validate(); err != nil {
		return notebook.ChatMessage{}, err
	}

	msg := notebook.ChatMessage{
		ID:         r.newID(),
		NotebookID: notebookID,
		Role:       draft.Role,
		Content:    draft.Content,
		CreatedAt:  r.now(),
	}

	err := r.withNotebook(ctx, notebookID, func(tx *sql.Tx) error {
		_, err := tx.ExecContext(ctx,
			"INSERT INTO messages (id, notebook_id, role, content, created_at) VALUES (?, ?, ?, ?, ?)",
			msg.ID, msg.NotebookID, string(msg.Role), msg.Content, formatTime(msg.CreatedAt),
		)
		if err != nil {
			return fmt.Errorf("failed to insert message: %w", err)
		}
		return nil
	})
	if err != nil {
		return notebook.ChatMessage{}, err
	}
	return msg, nil
}

// ListMessages returns a notebook's transcript in insertion order.
func (r *NotebookRepo) ListMessages(ctx context.Context, notebookID string) ([]notebook.ChatMessage, error) {
	if err := r.exists(ctx, notebookID); err != nil {
		return nil, err
	}

	rows, err := r.db.QueryContext(ctx,
		"SELECT id, notebook_id, role, content, created_at FROM messages WHERE notebook_id = ? ORDER BY rowid",
		notebookID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to query messages: %w", err)
	}
	defer func() {
		_ = rows.Close()
	}()

	result := []notebook.ChatMessage{}
	for rows.Next() {
		var msg notebook.ChatMessage
		var role, createdAt string
		if err := rows.Scan(&msg.ID, &msg.NotebookID, &role, &msg.Content, &createdAt); err != nil {
			return nil, fmt.Errorf("failed to scan message: %w", err)
		}
		msg.Role = notebook.Role(role)
		if msg.CreatedAt, err = parseTime(createdAt); err != nil {
			return nil, fmt.Errorf("failed to parse created_at timestamp: %w", err)
		}
		result = append(result, msg)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("row iteration error: %w", err)
	}
	return result, nil
}

// CreateReport registers a pending report.
func (r *NotebookRepo) CreateReport(ctx context.Context, notebookID string, reportType notebook.ReportType) (notebook.Report, error) {
	if !notebook.ValidReportType(reportType) {
		return notebook.Report{}, &notebook.ValidationError{Field: "type", Message: fmt.Sprintf("unknown report type %q", reportType)}
	}

	rep := notebook.Report{
		ID:         r.newID(),
		NotebookID: notebookID,
		Type:       reportType,
		Status:     notebook.ReportStatusPending,
		CreatedAt:  r.now(),
	}

	err := r.withNotebook(ctx, notebookID, func(tx *sql.Tx) error {
		_, err := tx.ExecContext(ctx,
			"INSERT INTO reports (id, notebook_id, type, status, content, created_at) VALUES (?, ?, ?, ?, '', ?)",
			rep.ID, rep.NotebookID, string(rep.Type), string(rep.Status), formatTime(rep.CreatedAt),
		)
		if err != nil {
			return fmt.Errorf("failed to insert report: %w", err)
		}
		return nil
	})
	if err != nil {
		return notebook.Report{}, err
	}
	return rep, nil
}

// UpdateReport stores new content and status for an existing report.
func (r *NotebookRepo) UpdateReport(ctx context.Context, notebookID, reportID string, status notebook.ReportStatus, content string) (notebook.Report, error) {
	res, err := r.db.ExecContext(ctx,
		"UPDATE reports SET status = ?, content = ? WHERE id = ? AND notebook_id = ?",
		string(status), content, reportID, notebookID,
	)
	if err != nil {
		return notebook.Report{}, fmt.Errorf("failed to update report: %w", err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return notebook.Report{}, fmt.Errorf("report %s: %w", reportID, notebook.ErrNotFound)
	}
	return r.GetReport(ctx, notebookID, reportID)
}

// GetReport gets a report by notebook and report ID. Returns notebook.ErrNotFound if not found.
func (r *NotebookRepo) GetReport(ctx context.Context, notebookID, reportID string) (notebook.Report, error) {
	var rep notebook.Report
	var typ, status, createdAt string

	err := r.db.QueryRowContext(ctx,
		"SELECT id, notebook_id, type, status, content, created_at FROM reports WHERE id = ? AND notebook_id = ?",
		reportID, notebookID,
	).Scan(&rep.ID, &rep.NotebookID, &typ, &status, &rep.Content, &createdAt)
	if errors.Is(err, sql.ErrNoRows) {
		return notebook.Report{}, fmt.Errorf("report %s: %w", reportID, notebook.ErrNotFound)
	}
	if err != nil {
		return notebook.Report{}, fmt.Errorf("failed to query report: %w", err)
	}

	rep.Type = notebook.ReportType(typ)
	rep.Status = notebook.ReportStatus(status)
	if rep.CreatedAt, err = parseTime(createdAt); err != nil {
		return notebook.Report{}, fmt.Errorf("failed to parse created_at timestamp: %w", err)
	}
	return rep, nil
}

// Ping reports whether the database is reachable.
func (r *NotebookRepo) Ping(ctx context.Context) error {
	return r.db.PingContext(ctx)
}

func (r *NotebookRepo) exists(ctx context.Context, notebookID string) error {
	var one int
	err := r.db.QueryRowContext(ctx, "SELECT 1 FROM notebooks WHERE id = ?", notebookID).Scan(&one)
	if errors.Is(err, sql.ErrNoRows) {
		return fmt.Errorf("notebook %s: %w", notebookID, notebook.ErrNotFound)
	}
	if err != nil {
		return fmt.Errorf("failed to query notebook: %w", err)
	}
	return nil
}

// withNotebook runs fn in a transaction after checking the notebook exists.
func (r *NotebookRepo) withNotebook(ctx context.Context, notebookID string, fn func(tx *sql.Tx) error) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() {
		_ = tx.Rollback()
	}()

	var one int
	err = tx.QueryRowContext(ctx, "SELECT 1 FROM notebooks WHERE id = ?", notebookID).Scan(&one)
	if errors.Is(err, sql.ErrNoRows) {
		return fmt.Errorf("notebook %s: %w", notebookID, notebook.ErrNotFound)
	}
	if err != nil {
		return fmt.Errorf("failed to query notebook: %w", err)
	}

	if err := fn(tx); err != nil {
		return err
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanNotebook(row rowScanner) (notebook.Notebook, error) {
	var nb notebook.Notebook
	var createdAt string
	if err := row.Scan(&nb.ID, &nb.Title, &nb.Emoji, &createdAt, &nb.SourcesCount); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return notebook.Notebook{}, err
		}
		return notebook.Notebook{}, fmt.Errorf("failed to scan notebook: %w", err)
	}
	var err error
	if nb.CreatedAt, err = parseTime(createdAt); err != nil {
		return notebook.Notebook{}, fmt.Errorf("failed to parse created_at timestamp: %w", err)
	}
	return nb, nil
}
