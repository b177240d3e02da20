// Package vocab writes the vocabulary dataset to PostgreSQL. A write replaces
// the whole dataset inside one transaction.
package vocab

import (
	"context"
	"fmt"

	sq "github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	postgres "github.com/heartmarshall/vocab-curator/internal/adapter/postgres"
	"github.com/heartmarshall/vocab-curator/internal/domain"
)

// DefaultBatchSize is the number of words queued per pgx.Batch.
const DefaultBatchSize = 1000

var psql = sq.StatementBuilder.PlaceholderFormat(sq.Dollar)

// Repo provides dataset persistence backed by PostgreSQL.
type Repo struct {
	pool      *pgxpool.Pool
	txm       *postgres.TxManager
	batchSize int
}

// New creates a new dataset repository.
func New(pool *pgxpool.Pool, txm *postgres.TxManager, batchSize int) *Repo {
	if batchSize <= 0 {
		batchSize = DefaultBatchSize
	}
	return &Repo{pool: pool, txm: txm, batchSize: batchSize}
}

// Close is a no-op; the pool belongs to the caller.
func (r *Repo) Close() error { return nil }

// Write truncates both tables and inserts records in rank order.
func (r *Repo) Write(ctx context.Context, records []domain.WordRecord) (domain.WriteResult, error) {
	var result domain.WriteResult

	err := r.txm.RunInTx(ctx, func(txCtx context.Context) error {
		q := postgres.QuerierFromCtx(txCtx, r.pool)
		if _, err := q.Exec(txCtx, `TRUNCATE word_example, word RESTART IDENTITY`); err != nil {
			return fmt.Errorf("truncate dataset: %w", err)
		}

		for start := 0; start < len(records); start += r.batchSize {
			end := min(start+r.batchSize, len(records))
			examples, err := r.insertBatch(txCtx, records[start:end])
			if err != nil {
				return postgres.MapError(err, "word batch", fmt.Sprintf("%d-%d", start+1, end))
			}
			result.Words += end - start
			result.Examples += examples
		}
		return nil
	})
	if err != nil {
		return domain.WriteResult{}, fmt.Errorf("postgres: write dataset: %w", err)
	}

	return result, nil
}

func (r *Repo) insertBatch(ctx context.Context, records []domain.WordRecord) (int, error) {
	batch := &pgx.Batch{}
	examples := 0

	for _, w := range records {
		meta, err := w.Metadata.JSON()
		if err != nil {
			return 0, fmt.Errorf("word %q: %w", w.Word, err)
		}
		batch.Queue(
			`INSERT INTO word (id, word, definition, pos, cefr_level, frequency_rank, phonetic, audio_url, etymology, metadata)
			 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`,
			w.ID, w.Word, w.Definition, w.PartOfSpeech.Label().String(), w.Level.String(),
			w.Rank, w.Phonetic, w.AudioURL, w.Etymology, meta,
		)
	}
	for _, w := range records {
		for _, ex := range w.ExampleRecords() {
			batch.Queue(
				`INSERT INTO word_example (word_id, sentence, context, difficulty)
				 VALUES ($1, $2, $3, $4)`,
				ex.WordID, ex.Sentence, ex.Context, ex.Difficulty,
			)
			examples++
		}
	}

	if _, err := r.sendBatchExec(ctx, batch); err != nil {
		return 0, err
	}
	return examples, nil
}

func (r *Repo) sendBatchExec(ctx context.Context, batch *pgx.Batch) (int, error) {
	q := postgres.QuerierFromCtx(ctx, r.pool)
	results := q.SendBatch(ctx, batch)
	defer results.Close()

	var inserted int
	for range batch.Len() {
		tag, err := results.Exec()
		if err != nil {
			return inserted, fmt.Errorf("batch exec: %w", err)
		}
		inserted += int(tag.RowsAffected())
	}

	return inserted, nil
}
