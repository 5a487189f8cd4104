// Package tfidf extracts per-page keyword signatures using term
// frequency-inverse document frequency weighting over a corpus of
// crawled pages.
package tfidf

import (
	"math"
	"regexp"
	"sort"
	"strings"
)

// DefaultTopN is the keyword signature size used when a caller does not
// ask for a specific count.
const DefaultTopN = 20

// minTokenLength filters out short function-word noise; tokens of this
// length or less never enter the corpus.
const minTokenLength = 3

// TokenScore is one weighted term of a document's keyword signature.
type TokenScore struct {
	Token     string  `json:"token"`
	Score     float64 `json:"score"`
	Frequency int     `json:"frequency"`
}

var nonTokenChars = regexp.MustCompile(`[^a-z0-9\s-]`)

var stopWords = map[string]struct{}{
	"the": {}, "a": {}, "an": {}, "and": {}, "or": {}, "but": {}, "in": {},
	"on": {}, "at": {}, "to": {}, "for": {}, "of": {}, "with": {}, "by": {},
	"from": {}, "as": {}, "is": {}, "was": {}, "are": {}, "been": {},
	"be": {}, "have": {}, "has": {}, "had": {}, "do": {}, "does": {},
	"did": {}, "will": {}, "would": {}, "could": {}, "should": {},
	"may": {}, "might": {}, "can": {}, "this": {}, "that": {},
	"these": {}, "those": {}, "it": {}, "its": {}, "you": {}, "your": {},
	"we": {}, "our": {}, "they": {}, "their": {}, "them": {},
}

// Calculator owns one corpus: the tokenized documents plus the
// document-frequency table derived from them. A Calculator is built per
// analysis run and is not safe for concurrent mutation.
type Calculator struct {
	documents map[string][]string
	docFreq   map[string]int
}

// New returns an empty Calculator.
func New() *Calculator {
	return &Calculator{
		documents: make(map[string][]string),
		docFreq:   make(map[string]int),
	}
}

// Tokenize lowercases text, strips everything outside letters, digits,
// whitespace and hyphens, and drops short, purely numeric and stop-word
// tokens.
func Tokenize(text string) []string {
	cleaned := nonTokenChars.ReplaceAllString(strings.ToLower(text), " ")

	var tokens []string
	for _, word := range strings.Fields(cleaned) {
		if len(word) <= minTokenLength {
			continue
		}
		if _, stop := stopWords[word]; stop {
			continue
		}
		if isNumeric(word) {
			continue
		}
		tokens = append(tokens, word)
	}
	return tokens
}

func isNumeric(word string) bool {
	for _, r := range word {
		if r < '0' || r > '9' {
			return false
		}
	}
	return len(word) > 0
}

// AddDocument tokenizes content and stores it under id, replacing any
// prior document with the same id. The document-frequency table is kept
// consistent with the held documents: re-adding an id first retracts the
// previous content's contributions.
func (c *Calculator) AddDocument(id, content string) {
	if old, exists := c.documents[id]; exists {
		for _, token := range distinct(old) {
			if c.docFreq[token] <= 1 {
				delete(c.docFreq, token)
			} else {
				c.docFreq[token]--
			}
		}
	}

	tokens := Tokenize(content)
	c.documents[id] = tokens

	for _, token := range distinct(tokens) {
		c.docFreq[token]++
	}
}

// distinct returns the unique tokens in first-encountered order.
func distinct(tokens []string) []string {
	seen := make(map[string]struct{}, len(tokens))
	var out []string
	for _, token := range tokens {
		if _, ok := seen[token]; ok {
			continue
		}
		seen[token] = struct{}{}
		out = append(out, token)
	}
	return out
}

// Calculate returns the top topN weighted terms for the document id, or
// nil if the id is unknown. Scores are tf*idf with idf = ln(totalDocs/df);
// a missing document frequency defaults to 1 so idf stays finite. Ties
// keep first-encountered token order.
func (c *Calculator) Calculate(id string, topN int) []TokenScore {
	tokens, ok := c.documents[id]
	if !ok {
		return nil
	}
	if topN <= 0 {
		topN = DefaultTopN
	}

	totalDocs := float64(len(c.documents))
	frequency := make(map[string]int, len(tokens))
	for _, token := range tokens {
		frequency[token]++
	}

	scores := make([]TokenScore, 0, len(frequency))
	for _, token := range distinct(tokens) {
		freq := frequency[token]
		tf := float64(freq) / float64(len(tokens))
		df := c.docFreq[token]
		if df == 0 {
			df = 1
		}
		idf := math.Log(totalDocs / float64(df))

		scores = append(scores, TokenScore{
			Token:     token,
			Score:     tf * idf,
			Frequency: freq,
		})
	}

	sort.SliceStable(scores, func(i, j int) bool {
		return scores[i].Score > scores[j].Score
	})

	if len(scores) > topN {
		scores = scores[:topN]
	}
	return scores
}

// Tokens returns the stored token sequence for id, or nil if unknown.
// The scoring layer uses it for relevance and containment checks.
func (c *Calculator) Tokens(id string) []string {
	return c.documents[id]
}

// Documents returns the known document ids in insertion-independent order.
func (c *Calculator) Documents() []string {
	ids := make([]string, 0, len(c.documents))
	for id := range c.documents {
		ids = append(ids, id)
	}
	return ids
}

// Size returns the number of documents in the corpus.
func (c *Calculator) Size() int {
	return len(c.documents)
}

// Reset clears all documents and frequency counters.
func (c *Calculator) Reset() {
	c.documents = make(map[string][]string)
	c.docFreq = make(map[string]int)
}
