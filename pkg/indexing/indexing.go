package indexing

import (
	"sort"
	"strings"
	"unicode"

	"golang.org/x/text/cases"
	"golang.org/x/text/unicode/norm"
)

// TextIndex is an inverted index from folded tokens to the documents that
// contain them, built over a fixed set of string fields.
type TextIndex struct {
	Name     string
	Fields   []string
	Inverted map[string]map[string]int // token -> document ID -> occurrences
}

// NewTextIndex creates an empty text index over fields
func NewTextIndex(name string, fields ...string) *TextIndex {
	return &TextIndex{
		Name:     name,
		Fields:   append([]string(nil), fields...),
		Inverted: make(map[string]map[string]int),
	}
}

// Tokenize splits text into normalized, case-folded word tokens. A Caser
// holds state, so each call gets its own.
func (idx *TextIndex) Tokenize(text string) []string {
	folded := cases.Fold().String(norm.NFC.String(text))
	return strings.FieldsFunc(folded, func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsNumber(r)
	})
}

// Add indexes the text fields of doc under docID
func (idx *TextIndex) Add(docID string, doc map[string]any) {
	for _, token := range idx.tokensOf(doc) {
		postings, ok := idx.Inverted[token]
		if !ok {
			postings = make(map[string]int)
			idx.Inverted[token] = postings
		}
		postings[docID]++
	}
}

// Remove drops every posting doc contributed under docID
func (idx *TextIndex) Remove(docID string, doc map[string]any) {
	for _, token := range idx.tokensOf(doc) {
		postings, ok := idx.Inverted[token]
		if !ok {
			continue
		}
		delete(postings, docID)
		if len(postings) == 0 {
			delete(idx.Inverted, token)
		}
	}
}

// Update re-indexes a document after a write. Either side may be nil.
func (idx *TextIndex) Update(docID string, oldDoc, newDoc map[string]any) {
	if oldDoc != nil {
		idx.Remove(docID, oldDoc)
	}
	if newDoc != nil {
		idx.Add(docID, newDoc)
	}
}

// Search scores documents against the query terms. A document matches when
// it contains any term; its score is the number of matched occurrences.
func (idx *TextIndex) Search(query string) map[string]float64 {
	scores := make(map[string]float64)
	seen := make(map[string]bool)
	for _, term := range idx.Tokenize(query) {
		if seen[term] {
			continue
		}
		seen[term] = true
		for docID, n := range idx.Inverted[term] {
			scores[docID] += float64(n)
		}
	}
	return scores
}

// Tokens returns the indexed vocabulary in sorted order
func (idx *TextIndex) Tokens() []string {
	tokens := make([]string, 0, len(idx.Inverted))
	for token := range idx.Inverted {
		tokens = append(tokens, token)
	}
	sort.Strings(tokens)
	return tokens
}

func (idx *TextIndex) tokensOf(doc map[string]any) []string {
	var tokens []string
	for _, field := range idx.Fields {
		if s, ok := doc[field].(string); ok {
			tokens = append(tokens, idx.Tokenize(s)...)
		}
	}
	return tokens
}
