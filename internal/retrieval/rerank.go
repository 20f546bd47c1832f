package retrieval

import (
	"strings"
	"unicode"
)

const (
	lexicalLengthScale = float32(10.0)
	maxLexicalScore    = float32(0.4)
	headingMatchBonus  = float32(0.1)
)

var stopwords = map[string]struct{}{
	"a": {}, "an": {}, "and": {}, "are": {}, "as": {}, "at": {}, "be": {}, "but": {}, "by": {},
	"for": {}, "from": {}, "has": {}, "have": {}, "how": {}, "in": {}, "is": {}, "it": {}, "of": {},
	"on": {}, "or": {}, "the": {}, "to": {}, "was": {}, "were": {}, "what": {}, "why": {}, "with": {},
}

// lexicalScorer scores chunks against one query's content words.
// Scores stay in [0, maxLexicalScore] so they can be added to cosine similarity.
type lexicalScorer struct {
	terms []string
}

func newLexicalScorer(query string) lexicalScorer {
	var terms []string
	for _, token := range tokenize(query) {
		if _, stop := stopwords[token]; !stop {
			terms = append(terms, token)
		}
	}
	return lexicalScorer{terms: terms}
}

// score rewards term frequency normalised by chunk length, plus a bonus per term in the heading path.
func (s lexicalScorer) score(chunkText, headingPath string) float32 {
	if len(s.terms) == 0 {
		return 0
	}

	tokens := tokenize(chunkText)
	if len(tokens) == 0 {
		return 0
	}

	freq := make(map[string]int, len(tokens))
	for _, token := range tokens {
		freq[token]++
	}

	var matches int
	for _, term := range s.terms {
		matches += freq[term]
	}
	score := float32(matches) / (1 + float32(len(tokens))) * lexicalLengthScale

	if headingPath != "" {
		heading := make(map[string]struct{})
		for _, token := range tokenize(headingPath) {
			heading[token] = struct{}{}
		}
		for _, term := range s.terms {
			if _, ok := heading[term]; ok {
				score += headingMatchBonus
			}
		}
	}

	return min(score, maxLexicalScore)
}

// tokenize lowercases text and splits it on anything that is not a letter or digit.
func tokenize(text string) []string {
	return strings.FieldsFunc(strings.ToLower(text), func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r)
	})
}
