// Package extract pulls structured JSON payloads out of free-form model output.
//
// Models asked for "only a JSON array" still wrap it in Markdown fences or prose often enough
// that callers need a forgiving parser. JSONArray tries, in order:
//
//  1. the whole text as strict JSON
//  2. the text with a leading ```json / ``` fence and a trailing ``` fence removed
//  3. the first balanced [...] block found anywhere in the text
//
// and reports which tier produced the payload. DecodeArray moves on to later [...] blocks when
// a scanned block does not decode into the element type.
package extract

import (
	"encoding/json"
	"errors"
	"fmt"
	"iter"
	"strings"
)

// Tier identifies the fallback that produced a payload.
type Tier int

const (
	TierNone Tier = iota
	TierStrict
	TierFenced
	TierScanned
)

func (t Tier) String() string {
	switch t {
	case TierStrict:
		return "strict"
	case TierFenced:
		return "fenced"
	case TierScanned:
		return "scanned"
	}
	return "none"
}

var (
	// ErrEmpty is returned for blank input.
	ErrEmpty = errors.New("empty payload")
	// ErrNotArray is returned when the payload is valid JSON but not an array.
	ErrNotArray = errors.New("payload is not a JSON array")
	// ErrNoJSONArray is returned when no tier finds a JSON array.
	ErrNoJSONArray = errors.New("no JSON array found")
	// ErrMalformed is returned when an array cannot be decoded into the requested element type.
	ErrMalformed = errors.New("malformed array elements")
)

// Result is a successfully extracted JSON array.
type Result struct {
	Raw  json.RawMessage
	Tier Tier
}

// JSONArray extracts a JSON array from text.
func JSONArray(text string) (Result, error) {
	trimmed := strings.TrimSpace(text)
	if trimmed == "" {
		return Result{}, ErrEmpty
	}

	if json.Valid([]byte(trimmed)) {
		if !isArray(trimmed) {
			return Result{}, ErrNotArray
		}
		return Result{Raw: json.RawMessage(trimmed), Tier: TierStrict}, nil
	}

	unfenced := StripFences(trimmed)
	if unfenced != trimmed && json.Valid([]byte(unfenced)) {
		if !isArray(unfenced) {
			return Result{}, ErrNotArray
		}
		return Result{Raw: json.RawMessage(unfenced), Tier: TierFenced}, nil
	}

	if block, ok := firstArrayBlock(trimmed); ok {
		return Result{Raw: json.RawMessage(block), Tier: TierScanned}, nil
	}

	return Result{}, ErrNoJSONArray
}

// DecodeArray extracts a JSON array from text and decodes it into []T.
// On failure the returned slice is empty, never nil.
func DecodeArray[T any](text string) ([]T, Tier, error) {
	res, err := JSONArray(text)
	if err != nil {
		return []T{}, TierNone, err
	}

	items, err := decodeItems[T](res.Raw)
	if err == nil || res.Tier != TierScanned {
		return items, res.Tier, err
	}

	// A bracketed citation such as [1] can precede the payload; try the later blocks.
	for block := range arrayBlocks(strings.TrimSpace(text)) {
		if later, laterErr := decodeItems[T](json.RawMessage(block)); laterErr == nil {
			return later, TierScanned, nil
		}
	}
	return []T{}, res.Tier, err
}

func decodeItems[T any](raw json.RawMessage) ([]T, error) {
	var items []T
	if err := json.Unmarshal(raw, &items); err != nil {
		return []T{}, fmt.Errorf("%w: %v", ErrMalformed, err)
	}
	if items == nil {
		items = []T{}
	}
	return items, nil
}

// StripFences removes a leading ```json or ``` marker and a trailing ``` marker.
func StripFences(text string) string {
	s := strings.TrimSpace(text)
	if len(s) >= 7 && strings.EqualFold(s[:7], "```json") {
		s = s[7:]
	}
	s = strings.TrimPrefix(s, "```")
	s = strings.TrimSuffix(strings.TrimSpace(s), "```")
	return strings.TrimSpace(s)
}

func isArray(s string) bool {
	return strings.HasPrefix(strings.TrimSpace(s), "[")
}

// firstArrayBlock returns the first balanced [...] block that is valid JSON.
func firstArrayBlock(s string) (string, bool) {
	for block := range arrayBlocks(s) {
		return block, true
	}
	return "", false
}

// arrayBlocks yields every balanced [...] block of s that is valid JSON, in order of
// its opening bracket. Brackets inside string literals are ignored.
func arrayBlocks(s string) iter.Seq[string] {
	return func(yield func(string) bool) {
		for start := strings.IndexByte(s, '['); start >= 0; {
			if end, ok := matchBracket(s, start); ok {
				candidate := s[start : end+1]
				if json.Valid([]byte(candidate)) && !yield(candidate) {
					return
				}
			}
			next := strings.IndexByte(s[start+1:], '[')
			if next < 0 {
				return
			}
			start += next + 1
		}
	}
}

func matchBracket(s string, start int) (int, bool) {
	depth := 0
	inString := false
	escaped := false

	for i := start; i < len(s); i++ {
		ch := s[i]
		if escaped {
			escaped = false
			continue
		}
		if inString {
			switch ch {
			case '\\':
				escaped = true
			case '"':
				inString = false
			}
			continue
		}
		switch ch {
		case '"':
			inString = true
		case '[':
			depth++
		case ']':
			depth--
			if depth == 0 {
				return i, true
			}
		}
	}
	return 0, false
}
