// Package enricher turns a selected word and its senses into a complete
// output record, optionally merged with a remote dictionary entry.
package enricher

import (
	"sort"

	"golang.org/x/text/cases"

	"github.com/heartmarshall/vocab-curator/internal/domain"
)

const (
	maxExamples      = 3
	exampleSenseScan = 5
	relatedSenseScan = 5
	maxSynonyms      = 5
	maxAntonyms      = 3
	firstAltSense    = 1
	altSenseLimit    = 4 // exclusive
)

// POSIndex provides the corpus-derived dominant part of speech of a word.
type POSIndex interface {
	DominantPOS(word string) (domain.PartOfSpeech, bool)
}

// Pronunciations provides a phonetic transcription of a word.
type Pronunciations interface {
	Phonetic(word string) (string, bool)
}

// Enricher builds enriched records. Not safe for concurrent use.
type Enricher struct {
	pos  POSIndex
	pron Pronunciations
	fold cases.Caser
}

// New creates an Enricher.
func New(pos POSIndex, pron Pronunciations) *Enricher {
	return &Enricher{pos: pos, pron: pron, fold: cases.Fold()}
}

// Enrich assembles the record for word from its ordered senses. Missing data
// leaves fields empty; it never fails.
func (e *Enricher) Enrich(word string, senses []domain.Sense) domain.EnrichedRecord {
	corpusPOS, hasCorpusPOS := e.pos.DominantPOS(word)
	if hasCorpusPOS {
		senses = ReorderSenses(senses, corpusPOS)
	}

	rec := domain.EnrichedRecord{Word: word}

	pos := domain.PartOfSpeechNoun
	if len(senses) > 0 {
		rec.Definition = senses[0].Definition
		pos = senses[0].PartOfSpeech.Label()
	}
	if hasCorpusPOS {
		pos = corpusPOS.Label()
	}
	rec.PartOfSpeech = pos

	rec.Examples = collectExamples(senses)

	if phonetic, ok := e.pron.Phonetic(word); ok {
		rec.Phonetic = &phonetic
	}

	rec.Metadata = e.metadata(word, pos, senses)
	return rec
}

// ReorderSenses moves senses of the target category to the front, keeping
// relative order in both groups. A satellite adjective counts as adjective.
// When nothing matches, the input is returned unchanged.
func ReorderSenses(senses []domain.Sense, target domain.PartOfSpeech) []domain.Sense {
	matched := make([]domain.Sense, 0, len(senses))
	var rest []domain.Sense
	for _, s := range senses {
		if s.PartOfSpeech.Matches(target) {
			matched = append(matched, s)
		} else {
			rest = append(rest, s)
		}
	}
	if len(matched) == 0 {
		return senses
	}
	return append(matched, rest...)
}

func collectExamples(senses []domain.Sense) []string {
	var out []string
	seen := make(map[string]struct{})
	for _, s := range senses[:min(len(senses), exampleSenseScan)] {
		for _, ex := range s.Examples {
			if _, dup := seen[ex]; dup {
				continue
			}
			seen[ex] = struct{}{}
			out = append(out, ex)
			if len(out) >= maxExamples {
				return out
			}
		}
	}
	return out
}

func (e *Enricher) metadata(word string, pos domain.PartOfSpeech, senses []domain.Sense) domain.WordMetadata {
	folded := e.fold.String(word)
	synonyms := make(map[string]struct{})
	antonyms := make(map[string]struct{})
	for _, s := range senses[:min(len(senses), relatedSenseScan)] {
		for _, l := range s.Lemmas {
			name := domain.HumanizeLemma(l.Name)
			if e.fold.String(name) != folded {
				synonyms[name] = struct{}{}
			}
			for _, ant := range l.Antonyms {
				antonyms[domain.HumanizeLemma(ant)] = struct{}{}
			}
		}
		if len(synonyms) >= maxSynonyms {
			break
		}
	}

	m := domain.WordMetadata{
		Synonyms: sortedPrefix(synonyms, maxSynonyms),
		Antonyms: sortedPrefix(antonyms, maxAntonyms),
	}

	allPOS := map[domain.PartOfSpeech]struct{}{pos: {}}
	if len(senses) > firstAltSense {
		for _, s := range senses[firstAltSense:min(len(senses), altSenseLimit)] {
			p := s.PartOfSpeech.Label()
			allPOS[p] = struct{}{}
			m.AltDefinitions = append(m.AltDefinitions, domain.AltDefinition{PartOfSpeech: p, Definition: s.Definition})
		}
	}

	m.AllPOS = make([]domain.PartOfSpeech, 0, len(allPOS))
	for p := range allPOS {
		m.AllPOS = append(m.AllPOS, p)
	}
	sort.Slice(m.AllPOS, func(i, j int) bool { return m.AllPOS[i] < m.AllPOS[j] })
	return m
}

func sortedPrefix(set map[string]struct{}, n int) []string {
	out := make([]string, 0, len(set))
	for s := range set {
		out = append(out, s)
	}
	sort.Strings(out)
	if len(out) > n {
		out = out[:n]
	}
	return out
}
