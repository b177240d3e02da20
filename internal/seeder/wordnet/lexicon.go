package wordnet

import (
	"fmt"
	"sort"

	lru "github.com/hashicorp/golang-lru/v2"

	"github.com/heartmarshall/vocab-curator/internal/domain"
)

// DefaultMorphyCacheSize bounds the memoised base-form lookups.
const DefaultMorphyCacheSize = 1 << 16

// Sense groups in lookup order: noun, verb, adjective (with satellites), adverb.
const (
	groupNoun = iota
	groupVerb
	groupAdj
	groupAdv
	groupCount
)

func groupOf(pos domain.PartOfSpeech) int {
	switch pos {
	case domain.PartOfSpeechNoun:
		return groupNoun
	case domain.PartOfSpeechVerb:
		return groupVerb
	case domain.PartOfSpeechAdjective, domain.PartOfSpeechAdjectiveSatellite:
		return groupAdj
	default:
		return groupAdv
	}
}

type lemmaEntry struct {
	groups  [groupCount][]domain.Sense
	synsets map[string]struct{}
	senses  []domain.Sense
}

type morphyKey struct {
	word  string
	group int
}

// Lexicon is a read-only view over a WordNet: the lemma inventory, each
// lemma's ordered senses, and the morphological exception lists.
// It is safe for concurrent reads once built.
type Lexicon struct {
	lemmas     map[string]*lemmaEntry
	names      []string
	exceptions [groupCount]map[string][]string
	morphy     *lru.Cache[morphyKey, []string]
}

func newLexicon() *Lexicon {
	// lru.New only fails on a non-positive size.
	cache, _ := lru.New[morphyKey, []string](DefaultMorphyCacheSize)
	l := &Lexicon{
		lemmas: make(map[string]*lemmaEntry),
		morphy: cache,
	}
	for i := range l.exceptions {
		l.exceptions[i] = make(map[string][]string)
	}
	return l
}

// NewLexicon builds a Lexicon directly from senses keyed by lemma. Senses are
// grouped by part of speech in lookup order; order within a group is kept.
func NewLexicon(senses map[string][]domain.Sense) *Lexicon {
	l := newLexicon()
	for word, list := range senses {
		w := domain.NormalizeText(word)
		for i, s := range list {
			l.addSense(w, fmt.Sprintf("%s#%d", w, i), s)
		}
	}
	l.finish()
	return l
}

func (l *Lexicon) addSense(word, synsetID string, s domain.Sense) {
	e, ok := l.lemmas[word]
	if !ok {
		e = &lemmaEntry{synsets: make(map[string]struct{})}
		l.lemmas[word] = e
	}
	if _, dup := e.synsets[synsetID]; dup {
		return
	}
	e.synsets[synsetID] = struct{}{}
	g := groupOf(s.PartOfSpeech)
	e.groups[g] = append(e.groups[g], s)
}

func (l *Lexicon) finish() {
	l.names = make([]string, 0, len(l.lemmas))
	for word, e := range l.lemmas {
		l.names = append(l.names, word)
		n := 0
		for _, g := range e.groups {
			n += len(g)
		}
		e.senses = make([]domain.Sense, 0, n)
		for _, g := range e.groups {
			e.senses = append(e.senses, g...)
		}
		e.synsets = nil
	}
	sort.Strings(l.names)
}

// LemmaNames returns every lemma in the lexicon, lower-cased and sorted.
// The returned slice must not be modified.
func (l *Lexicon) LemmaNames() []string {
	return l.names
}

// Senses returns the ordered senses of word: nouns, verbs, adjectives
// (satellites included), then adverbs. The slice must not be modified.
func (l *Lexicon) Senses(word string) []domain.Sense {
	e, ok := l.lemmas[word]
	if !ok {
		return nil
	}
	return e.senses
}

// SensesOf returns the senses a dictionary lookup of word yields: for each
// part of speech in lookup order, the senses of every lemma word analyses to
// under Morphy, the word's own senses first. An inflection such as "left"
// therefore also carries the verb senses of "leave". The result is a fresh
// slice.
func (l *Lexicon) SensesOf(word string) []domain.Sense {
	var out []domain.Sense
	for g := range groupCount {
		for _, form := range l.lemmaForms(word, g) {
			out = append(out, l.lemmas[form].groups[g]...)
		}
	}
	return out
}

// HasLemma reports whether word is a lemma of the given part of speech.
// Adjective lookups include satellite senses.
func (l *Lexicon) HasLemma(word string, pos domain.PartOfSpeech) bool {
	return l.inGroup(word, groupOf(pos))
}

func (l *Lexicon) inGroup(word string, g int) bool {
	e, ok := l.lemmas[word]
	return ok && len(e.groups[g]) > 0
}
