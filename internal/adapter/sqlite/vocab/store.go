// Package vocab writes the vocabulary dataset to a single SQLite file and
// reads back its verification statistics.
package vocab

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	sq "github.com/Masterminds/squirrel"
	"github.com/pressly/goose/v3"
	_ "modernc.org/sqlite" // pure Go driver registered as "sqlite"

	"github.com/heartmarshall/vocab-curator/internal/domain"
	"github.com/heartmarshall/vocab-curator/migrations"
)

// DefaultBatchSize is the number of words committed per transaction.
const DefaultBatchSize = 1000

// maxRowsPerInsert keeps a multi-row INSERT under SQLite's bound-parameter limit.
const maxRowsPerInsert = 500

var wordColumns = []string{
	"id", "word", "definition", "pos", "cefr_level",
	"frequency_rank", "phonetic", "audio_url", "etymology", "metadata",
}

var exampleColumns = []string{"word_id", "sentence", "context", "difficulty"}

// gooseVersionTable is goose's bookkeeping table. The shipped dataset
// carries only the vocabulary tables.
const gooseVersionTable = "goose_db_version"

// stagingSuffix names the file a new dataset is built in until Write
// publishes it over the output path.
const stagingSuffix = ".tmp"

// Store is a SQLite dataset file.
type Store struct {
	db        *sql.DB
	path      string
	target    string // publish destination while building in a staging file
	batchSize int
	log       *slog.Logger
}

// Create starts a fresh dataset for path. It is built in a staging file next
// to path; the file at path stays untouched until Write succeeds and
// replaces it.
func Create(ctx context.Context, path string, batchSize int, logger *slog.Logger) (*Store, error) {
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("sqlite: create output dir: %w", err)
		}
	}
	staging := path + stagingSuffix
	if err := removeDB(staging); err != nil {
		return nil, err
	}

	s, err := open(ctx, staging, batchSize, logger)
	if err != nil {
		return nil, err
	}
	s.target = path

	if err := s.migrate(ctx); err != nil {
		s.Close()
		return nil, err
	}
	return s, nil
}

func (s *Store) migrate(ctx context.Context) error {
	provider, err := goose.NewProvider(goose.DialectSQLite3, s.db, migrations.SQLite())
	if err != nil {
		return fmt.Errorf("sqlite: goose new provider: %w", err)
	}
	if _, err := provider.Up(ctx); err != nil {
		return fmt.Errorf("sqlite: goose up: %w", err)
	}
	if _, err := s.db.ExecContext(ctx, "DROP TABLE IF EXISTS "+gooseVersionTable); err != nil {
		return fmt.Errorf("sqlite: drop %s: %w", gooseVersionTable, err)
	}
	return nil
}

// removeDB deletes a database file with its WAL and shared-memory files.
func removeDB(path string) error {
	for _, p := range []string{path, path + "-wal", path + "-shm"} {
		if err := os.Remove(p); err != nil && !errors.Is(err, os.ErrNotExist) {
			return fmt.Errorf("sqlite: remove %s: %w", p, err)
		}
	}
	return nil
}

// Open opens an existing dataset for reading.
func Open(ctx context.Context, path string, logger *slog.Logger) (*Store, error) {
	if _, err := os.Stat(path); err != nil {
		return nil, fmt.Errorf("sqlite: dataset %s: %w", path, err)
	}
	return open(ctx, path, DefaultBatchSize, logger)
}

func open(ctx context.Context, path string, batchSize int, logger *slog.Logger) (*Store, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("sqlite: open %s: %w", path, err)
	}
	// Pragmas are per connection.
	db.SetMaxOpenConns(1)

	for _, pragma := range []string{"PRAGMA journal_mode=WAL", "PRAGMA synchronous=NORMAL", "PRAGMA foreign_keys=ON"} {
		if _, err := db.ExecContext(ctx, pragma); err != nil {
			db.Close()
			return nil, fmt.Errorf("sqlite: %s: %w", pragma, err)
		}
	}

	if batchSize <= 0 {
		batchSize = DefaultBatchSize
	}
	return &Store{
		db:        db,
		path:      path,
		batchSize: batchSize,
		log:       logger.With("component", "sqlite_sink"),
	}, nil
}

// Path returns the dataset file path.
func (s *Store) Path() string { return s.path }

// Close releases the database handle. An unpublished staging file is
// removed.
func (s *Store) Close() error {
	err := s.db.Close()
	if s.target != "" {
		if rmErr := removeDB(s.path); rmErr != nil && err == nil {
			err = rmErr
		}
	}
	return err
}

// publish moves the staging file over the target path and reopens it there.
func (s *Store) publish(ctx context.Context) error {
	if err := s.db.Close(); err != nil {
		return fmt.Errorf("sqlite: close staging: %w", err)
	}
	// Stale WAL files of the previous dataset must not be replayed into the
	// new one. The main file is replaced atomically by the rename.
	for _, p := range []string{s.target + "-wal", s.target + "-shm"} {
		if err := os.Remove(p); err != nil && !errors.Is(err, os.ErrNotExist) {
			return fmt.Errorf("sqlite: remove %s: %w", p, err)
		}
	}
	if err := os.Rename(s.path, s.target); err != nil {
		return fmt.Errorf("sqlite: publish %s: %w", s.target, err)
	}
	// The checkpoint left the WAL empty; drop the staging leftovers.
	if err := removeDB(s.path); err != nil {
		return err
	}

	published, err := open(ctx, s.target, s.batchSize, s.log)
	if err != nil {
		return err
	}
	s.db, s.path, s.target = published.db, s.target, ""
	s.log.InfoContext(ctx, "dataset published", slog.String("path", s.path))
	return nil
}

// Write inserts records in order, committing every batch size words, then
// optimises and checkpoints the file so its size reflects the final data.
// A dataset started by Create is published over its output path only once
// every record is written.
func (s *Store) Write(ctx context.Context, records []domain.WordRecord) (domain.WriteResult, error) {
	var result domain.WriteResult

	for start := 0; start < len(records); start += s.batchSize {
		end := min(start+s.batchSize, len(records))
		examples, err := s.writeBatch(ctx, records[start:end])
		if err != nil {
			return result, err
		}
		result.Words += end - start
		result.Examples += examples
		s.log.InfoContext(ctx, "batch committed",
			slog.Int("words", result.Words), slog.Int("total", len(records)))
	}

	for _, pragma := range []string{"PRAGMA optimize", "PRAGMA wal_checkpoint(TRUNCATE)"} {
		if _, err := s.db.ExecContext(ctx, pragma); err != nil {
			return result, fmt.Errorf("sqlite: %s: %w", pragma, err)
		}
	}

	if s.target != "" {
		if err := s.publish(ctx); err != nil {
			return result, err
		}
	}
	return result, nil
}

func (s *Store) writeBatch(ctx context.Context, batch []domain.WordRecord) (examples int, err error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("sqlite: begin: %w", err)
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	for start := 0; start < len(batch); start += maxRowsPerInsert {
		chunk := batch[start:min(start+maxRowsPerInsert, len(batch))]
		ins := sq.Insert("word").Columns(wordColumns...)
		for _, w := range chunk {
			meta, err := w.Metadata.JSON()
			if err != nil {
				return 0, fmt.Errorf("sqlite: word %q: %w", w.Word, err)
			}
			ins = ins.Values(w.ID, w.Word, w.Definition, w.PartOfSpeech.Label().String(), w.Level.String(),
				w.Rank, nullable(w.Phonetic), nullable(w.AudioURL), nullable(w.Etymology), meta)
		}
		if _, err := ins.RunWith(tx).ExecContext(ctx); err != nil {
			return 0, fmt.Errorf("sqlite: insert words: %w", err)
		}
	}

	var rows []domain.ExampleRecord
	for _, w := range batch {
		rows = append(rows, w.ExampleRecords()...)
	}
	for start := 0; start < len(rows); start += maxRowsPerInsert {
		chunk := rows[start:min(start+maxRowsPerInsert, len(rows))]
		ins := sq.Insert("word_example").Columns(exampleColumns...)
		for _, ex := range chunk {
			ins = ins.Values(ex.WordID, ex.Sentence, ex.Context, ex.Difficulty)
		}
		if _, err := ins.RunWith(tx).ExecContext(ctx); err != nil {
			return 0, fmt.Errorf("sqlite: insert examples: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("sqlite: commit: %w", err)
	}
	return len(rows), nil
}

func nullable(s *string) any {
	if s == nil {
		return nil
	}
	return *s
}
