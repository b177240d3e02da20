// Package selection turns the lexicon's lemma inventory into a ranked,
// deduplicated and leveled word list.
package selection

import (
	"strings"
	"unicode/utf8"

	"github.com/heartmarshall/vocab-curator/internal/domain"
)

// excludedWords are function words never worth a vocabulary slot.
var excludedWords = toSet(
	// articles and pronouns
	"a", "an", "the", "i", "me", "my", "we", "us", "our", "you", "your",
	"he", "him", "his", "she", "her", "it", "its", "they", "them", "their",
	// auxiliaries and modals
	"am", "is", "are", "was", "were", "be", "been", "being",
	"do", "does", "did", "has", "have", "had",
	"shall", "will", "would", "should", "may", "might", "must", "can", "could",
	// conjunctions and prepositions
	"not", "no", "nor", "so", "if", "or", "and", "but", "as", "at", "by",
	"for", "from", "in", "of", "on", "to", "up", "with",
	// determiners and wh-words
	"that", "this", "these", "those", "what", "which", "who", "whom",
	"how", "when", "where", "why", "than", "then", "very", "just",
)

func toSet(words ...string) map[string]struct{} {
	m := make(map[string]struct{}, len(words))
	for _, w := range words {
		m[w] = struct{}{}
	}
	return m
}

// IsExcluded reports whether word is in the fixed function-word exclusion set.
func IsExcluded(word string) bool {
	_, ok := excludedWords[word]
	return ok
}

// SenseSource exposes the lemma inventory of a lexical knowledge base.
// SensesOf is a dictionary lookup: it includes the senses of the word's
// base forms.
type SenseSource interface {
	LemmaNames() []string
	SensesOf(word string) []domain.Sense
}

// LengthBounds is the inclusive admissible word length range, in characters.
type LengthBounds struct {
	Min int
	Max int
}

// Contains reports whether word's character count lies within the bounds.
func (b LengthBounds) Contains(word string) bool {
	n := utf8.RuneCountInString(word)
	return n >= b.Min && n <= b.Max
}

// IsAdmissible reports whether a lemma name may become a candidate, before
// its senses are looked up.
func IsAdmissible(name string, bounds LengthBounds) bool {
	if strings.ContainsAny(name, "_- ") {
		return false
	}
	if !domain.IsAlphabetic(name) || !bounds.Contains(name) {
		return false
	}
	return !IsExcluded(name)
}

// ExtractCandidates builds the candidate pool from every admissible lemma
// that has at least one sense. Output follows the source's lemma order.
func ExtractCandidates(src SenseSource, bounds LengthBounds) []domain.Candidate {
	names := src.LemmaNames()
	out := make([]domain.Candidate, 0, len(names)/2)
	seen := make(map[string]struct{}, len(names))
	for _, name := range names {
		word := strings.ToLower(name)
		if _, dup := seen[word]; dup || !IsAdmissible(word, bounds) {
			continue
		}
		senses := src.SensesOf(word)
		if len(senses) == 0 {
			continue
		}
		seen[word] = struct{}{}
		out = append(out, domain.Candidate{Word: word, Senses: senses})
	}
	return out
}
