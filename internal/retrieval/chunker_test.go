package retrieval

import (
	"strings"
	"testing"
	"unicode/utf8"
)

func TestChunker_Chunk(t *testing.T) {
	chunker := NewChunker(0)

	tests := []struct {
		name    string
		title   string
		content string
		check   func(t *testing.T, chunks []Chunk)
	}{
		{
			name:    "empty content",
			title:   "Empty",
			content: "  \n",
			check: func(t *testing.T, chunks []Chunk) {
				if chunks == nil || len(chunks) != 0 {
					t.Errorf("chunks = %v, want empty slice", chunks)
				}
			},
		},
		{
			name:    "plain text uses source title",
			title:   "Lecture",
			content: "Bernoulli explains lift.\n\nNewton explains it too.",
			check: func(t *testing.T, chunks []Chunk) {
				if len(chunks) != 1 {
					t.Fatalf("got %d chunks, want 1", len(chunks))
				}
				if chunks[0].HeadingPath != "# Lecture" {
					t.Errorf("HeadingPath = %q, want # Lecture", chunks[0].HeadingPath)
				}
				if !strings.Contains(chunks[0].Text, "Newton") {
					t.Errorf("Text = %q, missing second paragraph", chunks[0].Text)
				}
			},
		},
		{
			name:  "heading hierarchy",
			title: "Notes",
			content: "# Flight\n\n" + strings.Repeat("Intro text about flight. ", 4) +
				"\n\n## Lift\n\n" + strings.Repeat("Wings deflect air downward. ", 4) +
				"\n\n## Drag\n\n" + strings.Repeat("Drag opposes motion. ", 4),
			check: func(t *testing.T, chunks []Chunk) {
				if len(chunks) != 3 {
					t.Fatalf("got %d chunks, want 3: %+v", len(chunks), chunks)
				}
				if chunks[1].HeadingPath != "# Flight > ## Lift" {
					t.Errorf("HeadingPath = %q", chunks[1].HeadingPath)
				}
				if chunks[2].HeadingPath != "# Flight > ## Drag" {
					t.Errorf("HeadingPath = %q", chunks[2].HeadingPath)
				}
				for i, c := range chunks {
					if c.Index != i {
						t.Errorf("chunk %d has Index %d", i, c.Index)
					}
				}
			},
		},
		{
			name:    "small sections merge",
			title:   "Short",
			content: "# A\n\nx\n\n# B\n\ny",
			check: func(t *testing.T, chunks []Chunk) {
				if len(chunks) != 1 {
					t.Fatalf("got %d chunks, want 1", len(chunks))
				}
				if !strings.Contains(chunks[0].Text, "x") || !strings.Contains(chunks[0].Text, "y") {
					t.Errorf("Text = %q", chunks[0].Text)
				}
			},
		},
		{
			name:    "table rows",
			title:   "Table",
			content: "# Specs\n\n| Part | Mass |\n| --- | --- |\n| Wing | 40 |\n",
			check: func(t *testing.T, chunks []Chunk) {
				if len(chunks) != 1 {
					t.Fatalf("got %d chunks, want 1", len(chunks))
				}
				if !strings.Contains(chunks[0].Text, "Wing | 40") {
					t.Errorf("Text = %q, want table row", chunks[0].Text)
				}
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.check(t, chunker.Chunk(tt.title, tt.content))
		})
	}
}

func TestChunker_SplitsOversized(t *testing.T) {
	chunker := NewChunker(100)

	// Multi-byte runes must not shift split offsets
	sentence := "Über die Flügel strömt Luft. "
	content := strings.Repeat(sentence, 30)

	chunks := chunker.Chunk("Aero", content)
	if len(chunks) < 2 {
		t.Fatalf("got %d chunks, want a split", len(chunks))
	}

	var rebuilt []string
	for _, c := range chunks {
		if n := utf8.RuneCountInString(c.Text); n > 100 {
			t.Errorf("chunk %d has %d runes, limit 100", c.Index, n)
		}
		if !utf8.ValidString(c.Text) {
			t.Errorf("chunk %d is not valid UTF-8", c.Index)
		}
		if !strings.HasSuffix(c.Text, ".") {
			t.Errorf("chunk %d does not end on a sentence: %q", c.Index, c.Text)
		}
		rebuilt = append(rebuilt, c.Text)
	}

	if got, want := strings.Count(strings.Join(rebuilt, " "), "Luft"), 30; got != want {
		t.Errorf("sentences after split = %d, want %d", got, want)
	}
}

func TestBoundary(t *testing.T) {
	tests := []struct {
		window string
		want   int
	}{
		{"one\n\ntwo\nthree", 5},
		{"one\ntwo. three", 4},
		{"one. two", 5},
		{"nobreak", 7},
	}

	for _, tt := range tests {
		if got := boundary([]rune(tt.window)); got != tt.want {
			t.Errorf("boundary(%q) = %d, want %d", tt.window, got, tt.want)
		}
	}
}
