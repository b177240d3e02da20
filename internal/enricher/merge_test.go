package enricher

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/heartmarshall/vocab-curator/internal/domain"
	"github.com/heartmarshall/vocab-curator/internal/provider"
)

func baseRecord() domain.EnrichedRecord {
	phonetic := "/rˈʌn/"
	return domain.EnrichedRecord{
		Word:         "run",
		Definition:   "move fast",
		PartOfSpeech: domain.PartOfSpeechVerb,
		Phonetic:     &phonetic,
		Examples:     []string{"He runs."},
		Metadata:     domain.WordMetadata{Synonyms: []string{"sprint"}},
	}
}

func TestMerge_NoOpWithoutData(t *testing.T) {
	t.Parallel()

	rec := baseRecord()
	assert.Equal(t, rec, Merge(rec, nil))
	assert.Equal(t, rec, Merge(rec, []provider.Entry{}))
}

func TestMerge_EmptyEntryKeepsFields(t *testing.T) {
	t.Parallel()

	rec := baseRecord()
	assert.Equal(t, rec, Merge(rec, []provider.Entry{{Word: "run"}}))
}

func TestMerge_Phonetic(t *testing.T) {
	t.Parallel()

	got := Merge(baseRecord(), []provider.Entry{{
		Phonetic:  "/rʌn/",
		Phonetics: []provider.Phonetic{{Text: "/ɹʌn/"}},
	}})
	require.NotNil(t, got.Phonetic)
	assert.Equal(t, "/rʌn/", *got.Phonetic)

	got = Merge(baseRecord(), []provider.Entry{{
		Phonetics: []provider.Phonetic{{Audio: "a.mp3"}, {Text: "/ɹʌn/"}},
	}})
	assert.Equal(t, "/ɹʌn/", *got.Phonetic)
	require.NotNil(t, got.AudioURL)
	assert.Equal(t, "a.mp3", *got.AudioURL)
}

func TestMerge_Definition(t *testing.T) {
	t.Parallel()

	longer := Merge(baseRecord(), []provider.Entry{{Meanings: []provider.Meaning{{
		Definitions: []provider.Definition{{Definition: "move swiftly on foot"}},
	}}}})
	assert.Equal(t, "move swiftly on foot", longer.Definition)

	equal := Merge(baseRecord(), []provider.Entry{{Meanings: []provider.Meaning{{
		Definitions: []provider.Definition{{Definition: "race fast"}},
	}}}})
	assert.Equal(t, "move fast", equal.Definition, "equal length must not replace")

	shorter := Merge(baseRecord(), []provider.Entry{{Meanings: []provider.Meaning{{
		Definitions: []provider.Definition{{Definition: "dash"}},
	}}}})
	assert.Equal(t, "move fast", shorter.Definition)
}

func TestMerge_DefinitionLengthCountsCharacters(t *testing.T) {
	t.Parallel()

	rec := baseRecord()
	rec.Definition = "abcd"
	// Four characters, eight bytes.
	got := Merge(rec, []provider.Entry{{Meanings: []provider.Meaning{{
		Definitions: []provider.Definition{{Definition: "éééé"}},
	}}}})
	assert.Equal(t, "abcd", got.Definition)
}

func TestMerge_Example(t *testing.T) {
	t.Parallel()

	rec := baseRecord()
	got := Merge(rec, []provider.Entry{{Meanings: []provider.Meaning{{
		Definitions: []provider.Definition{{Definition: "x", Example: "I run daily."}},
	}}}})
	assert.Equal(t, []string{"I run daily.", "He runs."}, got.Examples)
	assert.Equal(t, []string{"He runs."}, rec.Examples, "input examples must not be mutated")

	dup := Merge(rec, []provider.Entry{{Meanings: []provider.Meaning{{
		Definitions: []provider.Definition{{Definition: "x", Example: "He runs."}},
	}}}})
	assert.Equal(t, []string{"He runs."}, dup.Examples)
}

func TestMerge_ExampleKeepsAtMostThree(t *testing.T) {
	t.Parallel()

	rec := baseRecord()
	rec.Examples = []string{"a", "b", "c"}
	got := Merge(rec, []provider.Entry{{Meanings: []provider.Meaning{{
		Definitions: []provider.Definition{{Definition: "x", Example: "new"}},
	}}}})
	assert.Equal(t, []string{"new", "a", "b"}, got.Examples)
}

func TestMerge_OnlyFirstEntryConsulted(t *testing.T) {
	t.Parallel()

	got := Merge(baseRecord(), []provider.Entry{
		{Word: "run"},
		{Phonetic: "/second/", Meanings: []provider.Meaning{{
			Definitions: []provider.Definition{{Definition: "a much longer definition from entry two"}},
		}}},
	})
	assert.Equal(t, baseRecord(), got)
}
