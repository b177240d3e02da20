package selection

import (
	"github.com/heartmarshall/vocab-curator/internal/domain"
)

// DefaultOverselectFactor sizes the prefix scanned before the fallback pass.
const DefaultOverselectFactor = 1.4

// baseFormCategories are the categories checked for inflectional relations.
var baseFormCategories = []domain.PartOfSpeech{
	domain.PartOfSpeechVerb,
	domain.PartOfSpeechNoun,
	domain.PartOfSpeechAdjective,
	domain.PartOfSpeechAdverb,
}

// BaseFormAnalyzer finds the morphological base form of a word under a
// category. The word itself may be returned when it is already a base form.
type BaseFormAnalyzer interface {
	Morphy(word string, pos domain.PartOfSpeech) (string, bool)
}

// Filter selects the top candidates while keeping inflections and their
// base forms from both taking a slot.
type Filter struct {
	analyzer   BaseFormAnalyzer
	overselect float64
}

// NewFilter creates a Filter. Factors below 1 are treated as 1.
func NewFilter(analyzer BaseFormAnalyzer, overselect float64) *Filter {
	if overselect < 1 {
		overselect = 1
	}
	return &Filter{analyzer: analyzer, overselect: overselect}
}

// FilterStats describes one Select call.
type FilterStats struct {
	PrefixSize     int
	PrefixAccepted int
	FallbackScan   int
	Removed        int
}

// Select returns up to n candidates in score order.
//
// The over-selected prefix is scanned first: a candidate is dropped when one
// of its base forms is another word of the prefix, so roots win over their
// inflections regardless of which scores higher. When the prefix yields fewer
// than n words, the rest of the pool is scanned and a candidate is dropped
// when one of its base forms was already accepted. In both passes a candidate
// is also dropped when it is the base form of an accepted word.
func (f *Filter) Select(scored []domain.ScoredCandidate, n int) ([]domain.ScoredCandidate, FilterStats) {
	var stats FilterStats
	if n <= 0 || len(scored) == 0 {
		return nil, stats
	}

	prefixSize := min(int(float64(n)*f.overselect), len(scored))
	stats.PrefixSize = prefixSize

	prefix := NewOrderedSet[string](prefixSize)
	for _, sc := range scored[:prefixSize] {
		prefix.Add(sc.Word)
	}

	accepted := NewOrderedSet[string](n)
	acceptedBases := make(map[string]struct{})
	out := make([]domain.ScoredCandidate, 0, n)

	consider := func(sc domain.ScoredCandidate, reference *OrderedSet[string]) {
		bases := f.baseForms(sc.Word)
		_, isBase := acceptedBases[sc.Word]
		if isBase || anyIn(bases, reference) || accepted.Has(sc.Word) {
			stats.Removed++
			return
		}
		accepted.Add(sc.Word)
		for _, b := range bases {
			acceptedBases[b] = struct{}{}
		}
		out = append(out, sc)
	}

	for _, sc := range scored[:prefixSize] {
		if len(out) >= n {
			break
		}
		consider(sc, prefix)
	}
	stats.PrefixAccepted = len(out)

	for _, sc := range scored[prefixSize:] {
		if len(out) >= n {
			break
		}
		stats.FallbackScan++
		consider(sc, accepted)
	}

	return out, stats
}

// baseFormCount is the most base forms a word can have, one per category.
const baseFormCount = 4

// baseForms returns the distinct base forms of word, excluding word itself.
func (f *Filter) baseForms(word string) []string {
	out := make([]string, 0, baseFormCount)
	for _, pos := range baseFormCategories {
		base, ok := f.analyzer.Morphy(word, pos)
		if !ok || base == word {
			continue
		}
		dup := false
		for _, b := range out {
			if b == base {
				dup = true
				break
			}
		}
		if !dup {
			out = append(out, base)
		}
	}
	return out
}

func anyIn(words []string, set *OrderedSet[string]) bool {
	for _, w := range words {
		if set.Has(w) {
			return true
		}
	}
	return false
}
