package domain

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"
)

// PartOfSpeech is the simplified grammatical category used across the curator.
// Output records only ever carry noun, verb, adj or adv; the satellite
// adjective category exists at sense level and is folded into adj on output.
type PartOfSpeech string

const (
	PartOfSpeechNoun               PartOfSpeech = "noun"
	PartOfSpeechVerb               PartOfSpeech = "verb"
	PartOfSpeechAdjective          PartOfSpeech = "adj"
	PartOfSpeechAdjectiveSatellite PartOfSpeech = "adj_sat"
	PartOfSpeechAdverb             PartOfSpeech = "adv"
)

func (p PartOfSpeech) String() string { return string(p) }

func (p PartOfSpeech) IsValid() bool {
	switch p {
	case PartOfSpeechNoun, PartOfSpeechVerb, PartOfSpeechAdjective, PartOfSpeechAdjectiveSatellite, PartOfSpeechAdverb:
		return true
	}
	return false
}

// Label returns the output label for p. Satellites become adj, unknown values noun.
func (p PartOfSpeech) Label() PartOfSpeech {
	switch p {
	case PartOfSpeechAdjectiveSatellite:
		return PartOfSpeechAdjective
	case PartOfSpeechNoun, PartOfSpeechVerb, PartOfSpeechAdjective, PartOfSpeechAdverb:
		return p
	default:
		return PartOfSpeechNoun
	}
}

// Matches reports whether a sense tagged p belongs to the category target.
// A satellite adjective matches an adjective target.
func (p PartOfSpeech) Matches(target PartOfSpeech) bool {
	if p == target {
		return true
	}
	return target == PartOfSpeechAdjective && p == PartOfSpeechAdjectiveSatellite
}

// Level is a difficulty tier label (CEFR).
type Level string

const (
	LevelA1 Level = "A1"
	LevelA2 Level = "A2"
	LevelB1 Level = "B1"
	LevelB2 Level = "B2"
	LevelC1 Level = "C1"
	LevelC2 Level = "C2"
)

// AllLevels lists the tiers in ascending difficulty.
var AllLevels = []Level{LevelA1, LevelA2, LevelB1, LevelB2, LevelC1, LevelC2}

func (l Level) String() string { return string(l) }

// Difficulty maps a level to the example difficulty stored with each example
// sentence. Unknown levels map to 3.
func (l Level) Difficulty() int {
	switch l {
	case LevelA1:
		return 1
	case LevelA2:
		return 2
	case LevelB1:
		return 3
	case LevelB2:
		return 4
	case LevelC1, LevelC2:
		return 5
	default:
		return 3
	}
}

// SenseLemma is one word form attached to a sense, with the forms it is an antonym of.
type SenseLemma struct {
	Name     string
	Antonyms []string
}

// Sense is a single meaning of a word in the lexical knowledge base.
type Sense struct {
	PartOfSpeech PartOfSpeech
	Definition   string
	Examples     []string
	Lemmas       []SenseLemma
}

// Candidate is an admissible headword extracted from the lexical knowledge base.
type Candidate struct {
	Word   string
	Senses []Sense
}

// SenseCount returns the polysemy of the candidate.
func (c Candidate) SenseCount() int { return len(c.Senses) }

// ScoredCandidate is a candidate with its composite usefulness score.
type ScoredCandidate struct {
	Candidate
	Frequency        int
	HasPronunciation bool
	Score            float64
}

// SelectedWord is a scored candidate promoted to a final rank.
type SelectedWord struct {
	ScoredCandidate
	Rank  int
	Level Level
}

// AltDefinition is a secondary sense recorded in word metadata.
type AltDefinition struct {
	PartOfSpeech PartOfSpeech `json:"pos"`
	Definition   string       `json:"definition"`
}

// WordMetadata is the structured blob stored alongside each word.
type WordMetadata struct {
	Synonyms       []string        `json:"synonyms"`
	Antonyms       []string        `json:"antonyms"`
	AltDefinitions []AltDefinition `json:"alt_definitions"`
	AllPOS         []PartOfSpeech  `json:"all_pos"`
}

// JSON serializes the metadata. Nil slices are written as empty arrays and
// non-ASCII text is kept as-is.
func (m WordMetadata) JSON() (string, error) {
	out := m
	if out.Synonyms == nil {
		out.Synonyms = []string{}
	}
	if out.Antonyms == nil {
		out.Antonyms = []string{}
	}
	if out.AltDefinitions == nil {
		out.AltDefinitions = []AltDefinition{}
	}
	if out.AllPOS == nil {
		out.AllPOS = []PartOfSpeech{}
	}

	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(out); err != nil {
		return "", fmt.Errorf("encode word metadata: %w", err)
	}
	return strings.TrimSuffix(buf.String(), "\n"), nil
}

// EnrichedRecord is the fully assembled per-word output before persistence.
type EnrichedRecord struct {
	Word         string
	Definition   string
	PartOfSpeech PartOfSpeech
	Phonetic     *string
	Examples     []string
	AudioURL     *string
	Etymology    *string
	Metadata     WordMetadata
}

// ExampleContextGeneral is the context tag attached to every stored example.
const ExampleContextGeneral = "general"

// WordRecord is a ranked, enriched word ready for the output dataset.
// ID equals the final rank.
type WordRecord struct {
	ID    int
	Rank  int
	Level Level
	EnrichedRecord
}

// ExampleRecord is a stored example sentence owned by a word.
type ExampleRecord struct {
	WordID     int
	Sentence   string
	Context    string
	Difficulty int
}

// ExampleRecords expands the record's examples into stored example rows.
func (w WordRecord) ExampleRecords() []ExampleRecord {
	if len(w.Examples) == 0 {
		return nil
	}
	out := make([]ExampleRecord, len(w.Examples))
	for i, ex := range w.Examples {
		out[i] = ExampleRecord{
			WordID:     w.ID,
			Sentence:   ex,
			Context:    ExampleContextGeneral,
			Difficulty: w.Level.Difficulty(),
		}
	}
	return out
}
