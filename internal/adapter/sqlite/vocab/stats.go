package vocab

import (
	"context"
	"fmt"
	"os"

	sq "github.com/Masterminds/squirrel"

	"github.com/heartmarshall/vocab-curator/internal/domain"
)

// Stats reads the aggregate figures used by the verification report.
func (s *Store) Stats(ctx context.Context) (domain.DatasetStats, error) {
	stats := domain.DatasetStats{
		LevelCounts:   make(map[domain.Level]int),
		POSCounts:     make(map[domain.PartOfSpeech]int),
		Samples:       make(map[domain.Level][]domain.WordSample),
		FileSizeBytes: -1,
	}

	counts := []struct {
		dst   *int
		query sq.SelectBuilder
	}{
		{&stats.TotalWords, sq.Select("COUNT(*)").From("word")},
		{&stats.TotalExamples, sq.Select("COUNT(*)").From("word_example")},
		{&stats.WordsWithExamples, sq.Select("COUNT(DISTINCT word_id)").From("word_example")},
		{&stats.WordsWithPhonetic, sq.Select("COUNT(*)").From("word").Where(sq.NotEq{"phonetic": nil})},
	}
	for _, c := range counts {
		if err := c.query.RunWith(s.db).QueryRowContext(ctx).Scan(c.dst); err != nil {
			return stats, fmt.Errorf("sqlite: stats: %w", err)
		}
	}

	levels, err := s.groupCount(ctx, "COALESCE(cefr_level, '')")
	if err != nil {
		return stats, err
	}
	for k, v := range levels {
		stats.LevelCounts[domain.Level(k)] = v
	}

	pos, err := s.groupCount(ctx, "pos")
	if err != nil {
		return stats, err
	}
	for k, v := range pos {
		stats.POSCounts[domain.PartOfSpeech(k)] = v
	}

	for _, level := range domain.AllLevels {
		samples, err := s.samples(ctx, level)
		if err != nil {
			return stats, err
		}
		stats.Samples[level] = samples
	}

	if info, err := os.Stat(s.path); err == nil {
		stats.FileSizeBytes = info.Size()
	}

	return stats, nil
}

// Words returns every headword in rank order.
func (s *Store) Words(ctx context.Context) ([]string, error) {
	rows, err := sq.Select("word").From("word").OrderBy("id").RunWith(s.db).QueryContext(ctx)
	if err != nil {
		return nil, fmt.Errorf("sqlite: list words: %w", err)
	}
	defer rows.Close()

	var words []string
	for rows.Next() {
		var w string
		if err := rows.Scan(&w); err != nil {
			return nil, fmt.Errorf("sqlite: scan word: %w", err)
		}
		words = append(words, w)
	}
	return words, rows.Err()
}

func (s *Store) groupCount(ctx context.Context, column string) (map[string]int, error) {
	rows, err := sq.Select(column, "COUNT(*)").From("word").GroupBy(column).
		RunWith(s.db).QueryContext(ctx)
	if err != nil {
		return nil, fmt.Errorf("sqlite: group by %s: %w", column, err)
	}
	defer rows.Close()

	out := make(map[string]int)
	for rows.Next() {
		var (
			key string
			n   int
		)
		if err := rows.Scan(&key, &n); err != nil {
			return nil, fmt.Errorf("sqlite: scan %s: %w", column, err)
		}
		out[key] = n
	}
	return out, rows.Err()
}

func (s *Store) samples(ctx context.Context, level domain.Level) ([]domain.WordSample, error) {
	rows, err := sq.Select("word", "definition", "pos").From("word").
		Where(sq.Eq{"cefr_level": level.String()}).
		OrderBy("frequency_rank").
		Limit(domain.SampleLimit).
		RunWith(s.db).QueryContext(ctx)
	if err != nil {
		return nil, fmt.Errorf("sqlite: samples %s: %w", level, err)
	}
	defer rows.Close()

	var out []domain.WordSample
	for rows.Next() {
		var (
			ws  domain.WordSample
			pos string
		)
		if err := rows.Scan(&ws.Word, &ws.Definition, &pos); err != nil {
			return nil, fmt.Errorf("sqlite: scan sample: %w", err)
		}
		ws.PartOfSpeech = domain.PartOfSpeech(pos)
		out = append(out, ws)
	}
	return out, rows.Err()
}
