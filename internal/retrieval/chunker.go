package retrieval

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/extension"
	extast "github.com/yuin/goldmark/extension/ast"
	"github.com/yuin/goldmark/text"
)

const (
	minChunkRunes     = 50
	defaultChunkRunes = 700
)

// Chunk is a passage of one source, labelled with the headings above it.
type Chunk struct {
	Index       int
	HeadingPath string
	Text        string
}

// Chunker splits source content along its Markdown heading structure.
// Plain text has no headings and becomes paragraph-bounded chunks under the source title.
type Chunker struct {
	parser   goldmark.Markdown
	maxRunes int
}

// NewChunker creates a chunker producing chunks of at most maxRunes runes.
// A non-positive maxRunes selects the default.
func NewChunker(maxRunes int) *Chunker {
	if maxRunes <= 0 {
		maxRunes = defaultChunkRunes
	}
	return &Chunker{
		parser:   goldmark.New(goldmark.WithExtensions(extension.Table)),
		maxRunes: maxRunes,
	}
}

// Chunk returns the chunks of a source, indexed from 0.
func (c *Chunker) Chunk(title, content string) []Chunk {
	if strings.TrimSpace(content) == "" {
		return []Chunk{}
	}

	src := []byte(content)
	doc := c.parser.Parser().Parse(text.NewReader(src))

	chunks := c.sections(doc, src, title)
	if len(chunks) == 0 {
		chunks = []Chunk{{HeadingPath: "# " + title, Text: content}}
	}
	return c.fit(chunks)
}

type heading struct {
	level int
	text  string
}

// sections walks the document and opens a new chunk at every heading.
func (c *Chunker) sections(doc ast.Node, src []byte, title string) []Chunk {
	var chunks []Chunk
	var current *Chunk
	var stack []heading

	flush := func() {
		if current != nil && strings.TrimSpace(current.Text) != "" {
			current.Text = strings.TrimSpace(current.Text)
			chunks = append(chunks, *current)
		}
		current = nil
	}
	ensure := func() {
		if current == nil {
			path := headingPath(stack)
			if path == "" {
				path = "# " + title
			}
			current = &Chunk{HeadingPath: path}
		}
	}
	newline := func() {
		if current != nil && current.Text != "" && !strings.HasSuffix(current.Text, "\n") {
			current.Text += "\n"
		}
	}

	_ = ast.Walk(doc, func(n ast.Node, entering bool) (ast.WalkStatus, error) {
		if !entering {
			return ast.WalkContinue, nil
		}

		switch node := n.(type) {
		case *ast.Heading:
			flush()
			for len(stack) > 0 && stack[len(stack)-1].level >= node.Level {
				stack = stack[:len(stack)-1]
			}
			stack = append(stack, heading{level: node.Level, text: nodeText(node, src)})
			ensure()
			return ast.WalkSkipChildren, nil

		case *ast.Text:
			ensure()
			current.Text += string(node.Segment.Value(src))
			if node.SoftLineBreak() || node.HardLineBreak() {
				current.Text += "\n"
			}

		case *ast.String:
			ensure()
			current.Text += string(node.Value)

		case *ast.CodeBlock, *ast.FencedCodeBlock:
			ensure()
			newline()
			lines := n.Lines()
			for i := 0; i < lines.Len(); i++ {
				line := lines.At(i)
				current.Text += string(line.Value(src))
			}
			return ast.WalkSkipChildren, nil

		case *ast.Paragraph, *ast.List, *ast.ListItem:
			newline()
			if _, ok := n.(*ast.Paragraph); ok && current != nil && current.Text != "" {
				current.Text += "\n"
			}

		case *extast.TableRow, *extast.TableHeader:
			ensure()
			newline()
			current.Text += rowText(n, src) + "\n"
			return ast.WalkSkipChildren, nil
		}
		return ast.WalkContinue, nil
	})
	flush()

	return chunks
}

// fit merges undersized neighbours that share a heading and splits oversized chunks.
func (c *Chunker) fit(chunks []Chunk) []Chunk {
	result := make([]Chunk, 0, len(chunks))
	for i := 0; i < len(chunks); i++ {
		current := chunks[i]
		for i+1 < len(chunks) {
			next := chunks[i+1]
			small := utf8.RuneCountInString(current.Text) < minChunkRunes
			if current.HeadingPath != next.HeadingPath && !small {
				break
			}
			merged := current.Text + "\n\n" + next.Text
			if utf8.RuneCountInString(merged) > c.maxRunes {
				break
			}
			current.Text = merged
			i++
		}
		result = append(result, c.split(current)...)
	}

	for i := range result {
		result[i].Index = i
	}
	return result
}

// split cuts a chunk at the last paragraph, line or sentence boundary that fits.
func (c *Chunker) split(chunk Chunk) []Chunk {
	runes := []rune(chunk.Text)
	if len(runes) <= c.maxRunes {
		return []Chunk{chunk}
	}

	var parts []Chunk
	for start := 0; start < len(runes); {
		end := start + c.maxRunes
		if end >= len(runes) {
			end = len(runes)
		} else {
			end = start + boundary(runes[start:end])
		}

		if part := strings.TrimSpace(string(runes[start:end])); part != "" {
			parts = append(parts, Chunk{HeadingPath: chunk.HeadingPath, Text: part})
		}
		start = end
	}
	return parts
}

// boundary returns the rune offset just past the best break point in window.
func boundary(window []rune) int {
	for _, sep := range [][]rune{[]rune("\n\n"), []rune("\n"), []rune(". ")} {
		if i := lastIndex(window, sep); i > 0 {
			return i + len(sep)
		}
	}
	return len(window)
}

func lastIndex(s, sep []rune) int {
	for i := len(s) - len(sep); i >= 0; i-- {
		match := true
		for j := range sep {
			if s[i+j] != sep[j] {
				match = false
				break
			}
		}
		if match {
			return i
		}
	}
	return -1
}

// headingPath formats the heading stack as "# A > ## B".
func headingPath(stack []heading) string {
	parts := make([]string, len(stack))
	for i, h := range stack {
		parts[i] = fmt.Sprintf("%s %s", strings.Repeat("#", h.level), h.text)
	}
	return strings.Join(parts, " > ")
}

// nodeText returns the inline text of a node and its children.
func nodeText(n ast.Node, src []byte) string {
	var b strings.Builder
	_ = ast.Walk(n, func(node ast.Node, entering bool) (ast.WalkStatus, error) {
		if !entering {
			return ast.WalkContinue, nil
		}
		switch v := node.(type) {
		case *ast.Text:
			b.Write(v.Segment.Value(src))
		case *ast.String:
			b.Write(v.Value)
		}
		return ast.WalkContinue, nil
	})
	return strings.TrimSpace(b.String())
}

// rowText joins a table row's cells with pipes.
func rowText(row ast.Node, src []byte) string {
	var cells []string
	for cell := row.FirstChild(); cell != nil; cell = cell.NextSibling() {
		cells = append(cells, nodeText(cell, src))
	}
	return strings.Join(cells, " | ")
}
