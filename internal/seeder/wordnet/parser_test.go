package wordnet

import (
	"os"
	"path/filepath"
	"runtime"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/heartmarshall/vocab-curator/internal/domain"
)

func testdataPath(t *testing.T, name string) string {
	t.Helper()
	_, file, _, ok := runtime.Caller(0)
	if !ok {
		t.Fatal("cannot determine test file path")
	}
	return filepath.Join(filepath.Dir(file), "testdata", name)
}

// writeFile is a test helper that creates a file with given content.
func writeFile(path, content string) error {
	return os.WriteFile(path, []byte(content), 0o644)
}

func loadSample(t *testing.T) ParseResult {
	t.Helper()
	result, err := Parse(testdataPath(t, "sample.json"))
	require.NoError(t, err)
	return result
}

// --- Parse: file handling ---

func TestParse_FileNotFound(t *testing.T) {
	if _, err := Parse("/nonexistent/file.json"); err == nil {
		t.Error("Parse should return error for missing file")
	}
}

func TestParse_InvalidJSON(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.json")
	if err := writeFile(path, "not json at all"); err != nil {
		t.Fatal(err)
	}

	if _, err := Parse(path); err == nil {
		t.Error("Parse should return error for invalid JSON")
	}
}

func TestParse_EmptyGraph(t *testing.T) {
	path := filepath.Join(t.TempDir(), "empty.json")
	if err := writeFile(path, `{"@context":"...","@graph":[]}`); err != nil {
		t.Fatal(err)
	}

	result, err := Parse(path)
	if err != nil {
		t.Fatalf("Parse should not error on empty graph: %v", err)
	}
	if n := len(result.Lexicon.LemmaNames()); n != 0 {
		t.Errorf("expected 0 lemmas, got %d", n)
	}
}

// --- Parse: content ---

func TestParse_Stats(t *testing.T) {
	result := loadSample(t)

	assert.Equal(t, Stats{
		TotalSynsets:   10,
		TotalEntries:   11,
		SkippedEntries: 1,
		MissingSynsets: 1,
		UniqueLemmas:   8,
	}, result.Stats)
}

func TestParse_LemmaNamesSortedAndLowerCased(t *testing.T) {
	lex := loadSample(t).Lexicon

	assert.Equal(t,
		[]string{"bad", "dog", "fast", "flee", "good", "ice cream", "run", "running"},
		lex.LemmaNames())
}

func TestParse_SensesInPartOfSpeechOrder(t *testing.T) {
	lex := loadSample(t).Lexicon

	senses := lex.Senses("run")
	require.Len(t, senses, 3)

	// The verb entry precedes the noun entry in the file, nouns still come first.
	assert.Equal(t, domain.PartOfSpeechNoun, senses[0].PartOfSpeech)
	assert.Equal(t, "a score in baseball made by a runner touching all four bases", senses[0].Definition)
	assert.Empty(t, senses[0].Examples)

	assert.Equal(t, domain.PartOfSpeechVerb, senses[1].PartOfSpeech)
	assert.Equal(t, []string{"Don't run--you'll be out of breath", "The children ran to the store"}, senses[1].Examples)

	assert.Equal(t, domain.PartOfSpeechVerb, senses[2].PartOfSpeech)
	require.Len(t, senses[2].Lemmas, 2)
	assert.Equal(t, "run", senses[2].Lemmas[0].Name)
	assert.Equal(t, "flee", senses[2].Lemmas[1].Name)
}

func TestParse_SatelliteGroupedWithAdjectives(t *testing.T) {
	lex := loadSample(t).Lexicon

	senses := lex.Senses("fast")
	require.Len(t, senses, 2)
	assert.Equal(t, domain.PartOfSpeechAdjectiveSatellite, senses[0].PartOfSpeech)
	assert.Equal(t, domain.PartOfSpeechAdverb, senses[1].PartOfSpeech)

	assert.True(t, lex.HasLemma("fast", domain.PartOfSpeechAdjective))
	assert.True(t, lex.HasLemma("fast", domain.PartOfSpeechAdverb))
	assert.False(t, lex.HasLemma("fast", domain.PartOfSpeechNoun))
}

func TestParse_Antonyms(t *testing.T) {
	lex := loadSample(t).Lexicon

	senses := lex.Senses("good")
	require.Len(t, senses, 1)
	require.Len(t, senses[0].Lemmas, 1)
	assert.Equal(t, []string{"bad"}, senses[0].Lemmas[0].Antonyms)
}

func TestParse_CaseAndMissingSynset(t *testing.T) {
	lex := loadSample(t).Lexicon

	senses := lex.Senses("dog")
	require.Len(t, senses, 1, "the dangling synset reference is dropped")
	assert.Equal(t, "Dog", senses[0].Lemmas[0].Name)
	assert.Nil(t, lex.Senses("Dog"))
	assert.Nil(t, lex.Senses("cat"))
}

func TestNewLexicon(t *testing.T) {
	lex := NewLexicon(map[string][]domain.Sense{
		"Walk": {
			{PartOfSpeech: domain.PartOfSpeechVerb, Definition: "use one's feet"},
			{PartOfSpeech: domain.PartOfSpeechNoun, Definition: "the act of walking"},
		},
	})

	assert.Equal(t, []string{"walk"}, lex.LemmaNames())
	senses := lex.Senses("walk")
	require.Len(t, senses, 2)
	assert.Equal(t, domain.PartOfSpeechNoun, senses[0].PartOfSpeech)
	assert.Equal(t, domain.PartOfSpeechVerb, senses[1].PartOfSpeech)
}
