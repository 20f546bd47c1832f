// Package sources turns uploaded files and pasted text into source drafts.
package sources

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"unicode/utf8"

	"github.com/ledongthuc/pdf"

	"notebook-ai/internal/notebook"
)

// MaxUploadBytes bounds the size of a single source file.
const MaxUploadBytes = 20 << 20

var (
	// ErrUnsupported is returned for files that are neither text nor PDF.
	ErrUnsupported = errors.New("unsupported source file")
	// ErrEmpty is returned when a file yields no text.
	ErrEmpty = errors.New("source has no text")
	// ErrTooLarge is returned for files over MaxUploadBytes.
	ErrTooLarge = errors.New("source file too large")
)

var extraneousWhitespace = regexp.MustCompile(`[ \t\r\f\v]+`)

// Read builds a draft from a named file. PDFs become type pdf with their extracted text;
// anything else must be UTF-8 text and becomes type file, content verbatim.
// The title is the file's base name.
func Read(name string, r io.Reader) (notebook.SourceDraft, error) {
	data, err := io.ReadAll(io.LimitReader(r, MaxUploadBytes+1))
	if err != nil {
		return notebook.SourceDraft{}, fmt.Errorf("failed to read %s: %w", name, err)
	}
	if len(data) > MaxUploadBytes {
		return notebook.SourceDraft{}, fmt.Errorf("%s: %w", name, ErrTooLarge)
	}

	title := filepath.Base(name)
	if strings.EqualFold(filepath.Ext(name), ".pdf") || bytes.HasPrefix(data, []byte("%PDF-")) {
		content, err := pdfText(data)
		if err != nil {
			return notebook.SourceDraft{}, fmt.Errorf("%s: %w", name, err)
		}
		return notebook.SourceDraft{Title: title, Type: notebook.SourceTypePDF, Content: content}, nil
	}

	if !utf8.Valid(data) {
		return notebook.SourceDraft{}, fmt.Errorf("%s: %w", name, ErrUnsupported)
	}
	if strings.TrimSpace(string(data)) == "" {
		return notebook.SourceDraft{}, fmt.Errorf("%s: %w", name, ErrEmpty)
	}
	return notebook.SourceDraft{Title: title, Type: notebook.SourceTypeFile, Content: string(data)}, nil
}

// Open reads a source draft from a file on disk.
func Open(path string) (notebook.SourceDraft, error) {
	f, err := os.Open(path)
	if err != nil {
		return notebook.SourceDraft{}, fmt.Errorf("failed to open source: %w", err)
	}
	defer func() {
		_ = f.Close()
	}()
	return Read(path, f)
}

// Text builds a pasted-text draft.
func Text(title, content string) notebook.SourceDraft {
	return notebook.SourceDraft{Title: title, Type: notebook.SourceTypeText, Content: content}
}

// ParseText parses a "title=content" pair.
func ParseText(pair string) (notebook.SourceDraft, error) {
	title, content, ok := strings.Cut(pair, "=")
	if !ok || strings.TrimSpace(title) == "" || strings.TrimSpace(content) == "" {
		return notebook.SourceDraft{}, fmt.Errorf("expected title=content, got %q", pair)
	}
	return Text(strings.TrimSpace(title), content), nil
}

func pdfText(data []byte) (string, error) {
	reader, err := pdf.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return "", fmt.Errorf("failed to open pdf: %w", err)
	}

	content, err := reader.GetPlainText()
	if err != nil {
		return "", fmt.Errorf("failed to extract pdf text: %w", err)
	}

	var builder strings.Builder
	if _, err := io.Copy(&builder, content); err != nil {
		return "", err
	}

	text := strings.TrimSpace(extraneousWhitespace.ReplaceAllString(builder.String(), " "))
	if text == "" {
		return "", ErrEmpty
	}
	return text, nil
}
