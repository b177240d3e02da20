package selection

import (
	"fmt"

	"github.com/heartmarshall/vocab-curator/internal/domain"
)

// LevelBoundary maps every rank up to MaxRank (inclusive) to Level.
type LevelBoundary struct {
	MaxRank int
	Level   domain.Level
}

// LevelTable is an ordered boundary table. The last entry also covers every
// rank beyond its boundary. Build one with NewLevelTable; the zero value has
// no levels.
type LevelTable struct {
	boundaries []LevelBoundary
}

// DefaultLevels is the production rank-to-level table.
var DefaultLevels = LevelTable{boundaries: []LevelBoundary{
	{MaxRank: 1000, Level: domain.LevelA1},
	{MaxRank: 3000, Level: domain.LevelA2},
	{MaxRank: 5000, Level: domain.LevelB1},
	{MaxRank: 7000, Level: domain.LevelB2},
	{MaxRank: 9000, Level: domain.LevelC1},
	{MaxRank: 99999, Level: domain.LevelC2},
}}

// NewLevelTable validates and builds a table. Boundaries must be positive
// and strictly increasing.
func NewLevelTable(boundaries []LevelBoundary) (LevelTable, error) {
	if len(boundaries) == 0 {
		return LevelTable{}, fmt.Errorf("level table: %w", domain.NewValidationError("boundaries", "must not be empty"))
	}
	prev := 0
	for i, b := range boundaries {
		if b.MaxRank <= prev {
			return LevelTable{}, fmt.Errorf("level table: %w",
				domain.NewValidationError(fmt.Sprintf("boundaries[%d]", i), "must be positive and strictly increasing"))
		}
		if b.Level == "" {
			return LevelTable{}, fmt.Errorf("level table: %w",
				domain.NewValidationError(fmt.Sprintf("boundaries[%d].level", i), "required"))
		}
		prev = b.MaxRank
	}
	return LevelTable{boundaries: append([]LevelBoundary(nil), boundaries...)}, nil
}

// Assign returns the level of a 1-indexed rank.
func (t LevelTable) Assign(rank int) domain.Level {
	for _, b := range t.boundaries {
		if rank <= b.MaxRank {
			return b.Level
		}
	}
	return t.boundaries[len(t.boundaries)-1].Level
}

// Levels returns the distinct labels of the table in boundary order.
func (t LevelTable) Levels() []domain.Level {
	out := make([]domain.Level, 0, len(t.boundaries))
	seen := make(map[domain.Level]struct{}, len(t.boundaries))
	for _, b := range t.boundaries {
		if _, ok := seen[b.Level]; ok {
			continue
		}
		seen[b.Level] = struct{}{}
		out = append(out, b.Level)
	}
	return out
}

// Promote assigns dense 1-indexed ranks and levels to selected candidates.
func Promote(selected []domain.ScoredCandidate, levels LevelTable) []domain.SelectedWord {
	out := make([]domain.SelectedWord, len(selected))
	for i, sc := range selected {
		rank := i + 1
		out[i] = domain.SelectedWord{ScoredCandidate: sc, Rank: rank, Level: levels.Assign(rank)}
	}
	return out
}
