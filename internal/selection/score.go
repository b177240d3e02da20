package selection

import (
	"math"
	"sort"
	"unicode/utf8"

	"github.com/heartmarshall/vocab-curator/internal/domain"
)

// Weights is the scoring policy. Frequency dominates, polysemy is secondary
// and pronunciation and length only nudge.
type Weights struct {
	Frequency          float64
	Polysemy           float64
	PolysemyCap        float64
	PronunciationBonus float64
	ShortPenalty       float64
	MidBonus           float64
	LongPenalty        float64
	ShortMax           int
	MidMax             int
}

// DefaultWeights is the production scoring policy.
var DefaultWeights = Weights{
	Frequency:          0.60,
	Polysemy:           0.35,
	PolysemyCap:        30,
	PronunciationBonus: 0.03,
	ShortPenalty:       -0.02,
	MidBonus:           0.01,
	LongPenalty:        -0.01,
	ShortMax:           3,
	MidMax:             12,
}

// LengthAdjustment returns the length nudge for a word of n characters.
func (w Weights) LengthAdjustment(n int) float64 {
	switch {
	case n <= w.ShortMax:
		return w.ShortPenalty
	case n <= w.MidMax:
		return w.MidBonus
	default:
		return w.LongPenalty
	}
}

// Score is the composite usefulness of a word. It depends only on its
// arguments; maxFrequency is the highest count in the corpus.
func (w Weights) Score(frequency, maxFrequency, senseCount int, hasPronunciation bool, length int) float64 {
	maxLog := 1.0
	if maxFrequency > 0 {
		maxLog = math.Log(float64(maxFrequency) + 1)
	}
	freqTerm := math.Log(float64(frequency)+1) / maxLog
	polyTerm := math.Min(float64(senseCount)/w.PolysemyCap, 1)

	score := freqTerm*w.Frequency + polyTerm*w.Polysemy
	if hasPronunciation {
		score += w.PronunciationBonus
	}
	return score + w.LengthAdjustment(length)
}

// FrequencyTable provides corpus occurrence counts.
type FrequencyTable interface {
	FrequencyOf(word string) int
}

// PronunciationIndex reports whether a word has a pronunciation entry.
type PronunciationIndex interface {
	Has(word string) bool
}

// Scorer ranks candidates with a fixed policy.
type Scorer struct {
	weights      Weights
	freq         FrequencyTable
	maxFrequency int
	pron         PronunciationIndex
}

// NewScorer creates a Scorer.
func NewScorer(weights Weights, freq FrequencyTable, maxFrequency int, pron PronunciationIndex) *Scorer {
	return &Scorer{weights: weights, freq: freq, maxFrequency: maxFrequency, pron: pron}
}

// Score computes the scored form of a single candidate.
func (s *Scorer) Score(c domain.Candidate) domain.ScoredCandidate {
	sc := domain.ScoredCandidate{
		Candidate:        c,
		Frequency:        s.freq.FrequencyOf(c.Word),
		HasPronunciation: s.pron.Has(c.Word),
	}
	sc.Score = s.weights.Score(sc.Frequency, s.maxFrequency, c.SenseCount(), sc.HasPronunciation, utf8.RuneCountInString(c.Word))
	return sc
}

// Rank scores every candidate and orders them by descending score. Equal
// scores keep their input order.
func (s *Scorer) Rank(candidates []domain.Candidate) []domain.ScoredCandidate {
	out := make([]domain.ScoredCandidate, len(candidates))
	for i, c := range candidates {
		out[i] = s.Score(c)
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Score > out[j].Score
	})
	return out
}
