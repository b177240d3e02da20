package vocab

import (
	"context"
	"fmt"

	sq "github.com/Masterminds/squirrel"

	postgres "github.com/heartmarshall/vocab-curator/internal/adapter/postgres"
	"github.com/heartmarshall/vocab-curator/internal/domain"
)

// Stats reads the aggregate figures used by the verification report.
// FileSizeBytes is always -1.
func (r *Repo) Stats(ctx context.Context) (domain.DatasetStats, error) {
	stats := domain.DatasetStats{
		LevelCounts:   make(map[domain.Level]int),
		POSCounts:     make(map[domain.PartOfSpeech]int),
		Samples:       make(map[domain.Level][]domain.WordSample),
		FileSizeBytes: -1,
	}
	q := postgres.QuerierFromCtx(ctx, r.pool)

	counts := []struct {
		dst   *int
		query sq.SelectBuilder
	}{
		{&stats.TotalWords, psql.Select("COUNT(*)").From("word")},
		{&stats.TotalExamples, psql.Select("COUNT(*)").From("word_example")},
		{&stats.WordsWithExamples, psql.Select("COUNT(DISTINCT word_id)").From("word_example")},
		{&stats.WordsWithPhonetic, psql.Select("COUNT(*)").From("word").Where(sq.NotEq{"phonetic": nil})},
	}
	for _, c := range counts {
		query, args, err := c.query.ToSql()
		if err != nil {
			return stats, fmt.Errorf("postgres: build stats query: %w", err)
		}
		if err := q.QueryRow(ctx, query, args...).Scan(c.dst); err != nil {
			return stats, fmt.Errorf("postgres: stats: %w", err)
		}
	}

	levels, err := r.groupCount(ctx, "COALESCE(cefr_level, '')")
	if err != nil {
		return stats, err
	}
	for k, v := range levels {
		stats.LevelCounts[domain.Level(k)] = v
	}

	pos, err := r.groupCount(ctx, "pos")
	if err != nil {
		return stats, err
	}
	for k, v := range pos {
		stats.POSCounts[domain.PartOfSpeech(k)] = v
	}

	for _, level := range domain.AllLevels {
		samples, err := r.samples(ctx, level)
		if err != nil {
			return stats, err
		}
		stats.Samples[level] = samples
	}

	return stats, nil
}

// Words returns every headword in rank order.
func (r *Repo) Words(ctx context.Context) ([]string, error) {
	query, args, err := psql.Select("word").From("word").OrderBy("id").ToSql()
	if err != nil {
		return nil, fmt.Errorf("postgres: build words query: %w", err)
	}
	rows, err := postgres.QuerierFromCtx(ctx, r.pool).Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("postgres: list words: %w", err)
	}
	defer rows.Close()

	var words []string
	for rows.Next() {
		var w string
		if err := rows.Scan(&w); err != nil {
			return nil, fmt.Errorf("postgres: scan word: %w", err)
		}
		words = append(words, w)
	}
	return words, rows.Err()
}

func (r *Repo) groupCount(ctx context.Context, column string) (map[string]int, error) {
	query, args, err := psql.Select(column, "COUNT(*)").From("word").GroupBy(column).ToSql()
	if err != nil {
		return nil, fmt.Errorf("postgres: build group query: %w", err)
	}
	rows, err := postgres.QuerierFromCtx(ctx, r.pool).Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("postgres: group by %s: %w", column, err)
	}
	defer rows.Close()

	out := make(map[string]int)
	for rows.Next() {
		var (
			key string
			n   int
		)
		if err := rows.Scan(&key, &n); err != nil {
			return nil, fmt.Errorf("postgres: scan %s: %w", column, err)
		}
		out[key] = n
	}
	return out, rows.Err()
}

func (r *Repo) samples(ctx context.Context, level domain.Level) ([]domain.WordSample, error) {
	query, args, err := psql.Select("word", "definition", "pos").From("word").
		Where(sq.Eq{"cefr_level": level.String()}).
		OrderBy("frequency_rank").
		Limit(domain.SampleLimit).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("postgres: build samples query: %w", err)
	}
	rows, err := postgres.QuerierFromCtx(ctx, r.pool).Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("postgres: samples %s: %w", level, err)
	}
	defer rows.Close()

	var out []domain.WordSample
	for rows.Next() {
		var (
			ws  domain.WordSample
			pos string
		)
		if err := rows.Scan(&ws.Word, &ws.Definition, &pos); err != nil {
			return nil, fmt.Errorf("postgres: scan sample: %w", err)
		}
		ws.PartOfSpeech = domain.PartOfSpeech(pos)
		out = append(out, ws)
	}
	return out, rows.Err()
}
