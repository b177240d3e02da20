package vocab

import (
	"context"
	"database/sql"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/heartmarshall/vocab-curator/internal/domain"
)

func newTestLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func ptr(s string) *string { return &s }

func testRecords() []domain.WordRecord {
	return []domain.WordRecord{
		{
			ID: 1, Rank: 1, Level: domain.LevelA1,
			EnrichedRecord: domain.EnrichedRecord{
				Word:         "run",
				Definition:   "move fast by using one's feet",
				PartOfSpeech: domain.PartOfSpeechVerb,
				Phonetic:     ptr("/rˈʌn/"),
				Examples:     []string{"Don't run!", "She runs daily."},
				AudioURL:     ptr("https://example.com/run.mp3"),
				Metadata: domain.WordMetadata{
					Synonyms: []string{"scat"},
					AllPOS:   []domain.PartOfSpeech{domain.PartOfSpeechNoun, domain.PartOfSpeechVerb},
				},
			},
		},
		{
			ID: 2, Rank: 2, Level: domain.LevelA1,
			EnrichedRecord: domain.EnrichedRecord{
				Word:         "fast",
				Definition:   "acting or moving quickly",
				PartOfSpeech: domain.PartOfSpeechAdjectiveSatellite,
			},
		},
		{
			ID: 3, Rank: 3, Level: domain.LevelC2,
			EnrichedRecord: domain.EnrichedRecord{
				Word:         "dog",
				Definition:   "a domesticated canid",
				PartOfSpeech: domain.PartOfSpeechNoun,
				Phonetic:     ptr("/dˈɔːɡ/"),
				Examples:     []string{"The dog barked."},
			},
		},
	}
}

func TestStore_WriteAndStats(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	path := filepath.Join(t.TempDir(), "out", "vocab.db")
	s, err := Create(ctx, path, 2, newTestLogger())
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })

	res, err := s.Write(ctx, testRecords())
	require.NoError(t, err)
	assert.Equal(t, domain.WriteResult{Words: 3, Examples: 3}, res)

	stats, err := s.Stats(ctx)
	require.NoError(t, err)

	assert.Equal(t, 3, stats.TotalWords)
	assert.Equal(t, 3, stats.TotalExamples)
	assert.Equal(t, 2, stats.WordsWithExamples)
	assert.Equal(t, 2, stats.WordsWithPhonetic)
	assert.Equal(t, map[domain.Level]int{domain.LevelA1: 2, domain.LevelC2: 1}, stats.LevelCounts)
	assert.Equal(t, map[domain.PartOfSpeech]int{"verb": 1, "adj": 1, "noun": 1}, stats.POSCounts)
	assert.Positive(t, stats.FileSizeBytes)

	require.Len(t, stats.Samples[domain.LevelA1], 2)
	assert.Equal(t, "run", stats.Samples[domain.LevelA1][0].Word)
	assert.Equal(t, domain.PartOfSpeechAdjective, stats.Samples[domain.LevelA1][1].PartOfSpeech)
	assert.Empty(t, stats.Samples[domain.LevelB1])

	words, err := s.Words(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"run", "fast", "dog"}, words)
}

func TestStore_RowContents(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	path := filepath.Join(t.TempDir(), "vocab.db")
	s, err := Create(ctx, path, DefaultBatchSize, newTestLogger())
	require.NoError(t, err)
	_, err = s.Write(ctx, testRecords())
	require.NoError(t, err)
	require.NoError(t, s.Close())

	db, err := sql.Open("sqlite", path)
	require.NoError(t, err)
	defer db.Close()

	var (
		pos, level, metadata  string
		rank                  int
		phonetic, audio, etym sql.NullString
	)
	err = db.QueryRow(`SELECT pos, cefr_level, frequency_rank, phonetic, audio_url, etymology, metadata
		FROM word WHERE id = 1`).Scan(&pos, &level, &rank, &phonetic, &audio, &etym, &metadata)
	require.NoError(t, err)
	assert.Equal(t, "verb", pos)
	assert.Equal(t, "A1", level)
	assert.Equal(t, 1, rank)
	assert.Equal(t, "/rˈʌn/", phonetic.String)
	assert.Equal(t, "https://example.com/run.mp3", audio.String)
	assert.False(t, etym.Valid)
	assert.Equal(t, `{"synonyms":["scat"],"antonyms":[],"alt_definitions":[],"all_pos":["noun","verb"]}`, metadata)

	var phoneticFast sql.NullString
	require.NoError(t, db.QueryRow(`SELECT phonetic FROM word WHERE word = 'fast'`).Scan(&phoneticFast))
	assert.False(t, phoneticFast.Valid)

	rows, err := db.Query(`SELECT word_id, sentence, context, difficulty FROM word_example ORDER BY id`)
	require.NoError(t, err)
	defer rows.Close()

	var got []string
	for rows.Next() {
		var (
			wordID, difficulty int
			sentence, tag      string
		)
		require.NoError(t, rows.Scan(&wordID, &sentence, &tag, &difficulty))
		got = append(got, fmt.Sprintf("%d|%s|%s|%d", wordID, sentence, tag, difficulty))
	}
	require.NoError(t, rows.Err())
	assert.Equal(t, []string{
		"1|Don't run!|general|1",
		"1|She runs daily.|general|1",
		"3|The dog barked.|general|5",
	}, got)

	var indexes int
	require.NoError(t, db.QueryRow(`SELECT COUNT(*) FROM sqlite_master
		WHERE type = 'index' AND name IN ('idx_word_cefr', 'idx_word_frequency', 'idx_word_pos', 'idx_example_word')`).Scan(&indexes))
	assert.Equal(t, 4, indexes)
}

func TestCreate_ReplacesExistingFile(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	path := filepath.Join(t.TempDir(), "vocab.db")
	require.NoError(t, os.WriteFile(path, []byte("stale"), 0o644))

	s, err := Create(ctx, path, DefaultBatchSize, newTestLogger())
	require.NoError(t, err)
	_, err = s.Write(ctx, testRecords()[:1])
	require.NoError(t, err)
	require.NoError(t, s.Close())

	// A second run starts from an empty dataset.
	s, err = Create(ctx, path, DefaultBatchSize, newTestLogger())
	require.NoError(t, err)
	defer s.Close()
	stats, err := s.Stats(ctx)
	require.NoError(t, err)
	assert.Zero(t, stats.TotalWords)
}

func TestOpen(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	_, err := Open(ctx, filepath.Join(t.TempDir(), "missing.db"), newTestLogger())
	assert.ErrorIs(t, err, os.ErrNotExist)

	path := filepath.Join(t.TempDir(), "vocab.db")
	s, err := Create(ctx, path, DefaultBatchSize, newTestLogger())
	require.NoError(t, err)
	_, err = s.Write(ctx, testRecords())
	require.NoError(t, err)
	require.NoError(t, s.Close())

	s, err = Open(ctx, path, newTestLogger())
	require.NoError(t, err)
	defer s.Close()
	stats, err := s.Stats(ctx)
	require.NoError(t, err)
	assert.Equal(t, 3, stats.TotalWords)
}

func TestStore_DuplicateWordFails(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	s, err := Create(ctx, filepath.Join(t.TempDir(), "vocab.db"), DefaultBatchSize, newTestLogger())
	require.NoError(t, err)
	defer s.Close()

	recs := testRecords()
	recs[1].Word = "run"
	_, err = s.Write(ctx, recs)
	assert.Error(t, err)
}

func countWords(t *testing.T, path string) int {
	t.Helper()
	s, err := Open(context.Background(), path, newTestLogger())
	require.NoError(t, err)
	defer s.Close()
	words, err := s.Words(context.Background())
	require.NoError(t, err)
	return len(words)
}

func TestCreate_KeepsPreviousDatasetUntilWrite(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "vocab.db")

	s, err := Create(ctx, path, DefaultBatchSize, newTestLogger())
	require.NoError(t, err)
	_, err = s.Write(ctx, testRecords()[:1])
	require.NoError(t, err)
	require.NoError(t, s.Close())

	// A run that fails before writing leaves the published dataset alone.
	s, err = Create(ctx, path, DefaultBatchSize, newTestLogger())
	require.NoError(t, err)
	assert.FileExists(t, path+stagingSuffix)
	require.NoError(t, s.Close())

	assert.NoFileExists(t, path+stagingSuffix)
	assert.Equal(t, 1, countWords(t, path))

	// A failed write does not publish either.
	s, err = Create(ctx, path, DefaultBatchSize, newTestLogger())
	require.NoError(t, err)
	recs := testRecords()
	recs[1].Word = "run"
	_, err = s.Write(ctx, recs)
	require.Error(t, err)
	require.NoError(t, s.Close())
	assert.Equal(t, 1, countWords(t, path))
}

func TestStore_WritePublishes(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "vocab.db")

	s, err := Create(ctx, path, DefaultBatchSize, newTestLogger())
	require.NoError(t, err)
	defer s.Close()
	assert.Equal(t, path+stagingSuffix, s.Path())

	_, err = s.Write(ctx, testRecords())
	require.NoError(t, err)

	assert.Equal(t, path, s.Path())
	assert.FileExists(t, path)
	assert.NoFileExists(t, path+stagingSuffix)

	// The store keeps serving reads from the published file.
	stats, err := s.Stats(ctx)
	require.NoError(t, err)
	assert.Equal(t, 3, stats.TotalWords)
}

func TestStore_NoMigrationBookkeeping(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "vocab.db")

	s, err := Create(ctx, path, DefaultBatchSize, newTestLogger())
	require.NoError(t, err)
	_, err = s.Write(ctx, testRecords())
	require.NoError(t, err)
	require.NoError(t, s.Close())

	db, err := sql.Open("sqlite", path)
	require.NoError(t, err)
	defer db.Close()

	var tables []string
	rows, err := db.Query(`SELECT name FROM sqlite_master WHERE type = 'table' AND name NOT LIKE 'sqlite_%' ORDER BY name`)
	require.NoError(t, err)
	defer rows.Close()
	for rows.Next() {
		var name string
		require.NoError(t, rows.Scan(&name))
		tables = append(tables, name)
	}
	require.NoError(t, rows.Err())
	assert.Equal(t, []string{"word", "word_example"}, tables)
}
