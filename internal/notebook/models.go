package notebook

import "time"

const (
	// DefaultTitle is assigned to notebooks created without a title.
	DefaultTitle = "Untitled Notebook"
	// DefaultEmoji is assigned to notebooks created without an emoji.
	DefaultEmoji = "📓"
)

// SourceType identifies where a source's content came from.
type SourceType string

const (
	SourceTypePDF     SourceType = "pdf"
	SourceTypeText    SourceType = "text"
	SourceTypeLink    SourceType = "link"
	SourceTypeYouTube SourceType = "youtube"
	SourceTypeFile    SourceType = "file"
)

// Valid reports whether t is one of the known source types.
func (t SourceType) Valid() bool {
	switch t {
	case SourceTypePDF, SourceTypeText, SourceTypeLink, SourceTypeYouTube, SourceTypeFile:
		return true
	}
	return false
}

// Role is the author of a chat message.
type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// ReportType is the kind of artifact derived from a notebook's sources.
type ReportType string

const (
	ReportTypeAudioOverview ReportType = "audio_overview"
	ReportTypeVideoOverview ReportType = "video_overview"
	ReportTypeMindMap       ReportType = "mind_map"
	ReportTypeFlashcards    ReportType = "flashcards"
	ReportTypeQuiz          ReportType = "quiz"
	ReportTypeReport        ReportType = "report"
)

// ReportStatus tracks generation progress of a report.
type ReportStatus string

const (
	ReportStatusPending    ReportStatus = "pending"
	ReportStatusProcessing ReportStatus = "processing"
	ReportStatusCompleted  ReportStatus = "completed"
	ReportStatusFailed     ReportStatus = "failed"
)

// Notebook groups sources, a chat transcript and generated artifacts.
// SourcesCount always equals the number of sources owned by the notebook.
type Notebook struct {
	ID           string    `json:"id"`
	Title        string    `json:"title"`
	Emoji        string    `json:"emoji"`
	CreatedAt    time.Time `json:"created_at"`
	SourcesCount int       `json:"sources_count"`
}

// Source is a unit of reference material attached to a notebook. Sources are immutable.
type Source struct {
	ID         string     `json:"id"`
	NotebookID string     `json:"notebook_id"`
	Title      string     `json:"title"`
	Type       SourceType `json:"type"`
	Content    string     `json:"content"`
	CreatedAt  time.Time  `json:"created_at"`
}

// ChatMessage is one entry of a notebook's append-only transcript.
type ChatMessage struct {
	ID         string    `json:"id"`
	NotebookID string    `json:"notebook_id"`
	Role       Role      `json:"role"`
	Content    string    `json:"content"`
	CreatedAt  time.Time `json:"created_at"`
}

// Report is a generated artifact such as a Markdown briefing.
type Report struct {
	ID         string       `json:"id"`
	NotebookID string       `json:"notebook_id"`
	Type       ReportType   `json:"type"`
	Content    string       `json:"content"`
	Status     ReportStatus `json:"status"`
	CreatedAt  time.Time    `json:"created_at"`
}

// NotebookDraft holds caller-supplied fields for a new notebook. Empty fields get defaults.
type NotebookDraft struct {
	Title string
	Emoji string
}

// SourceDraft holds caller-supplied fields for a new source.
type SourceDraft struct {
	Title   string     `json:"title"`
	Type    SourceType `json:"type"`
	Content string     `json:"content"`
}

// MessageDraft holds caller-supplied fields for a new chat message.
type MessageDraft struct {
	Role    Role
	Content string
}
