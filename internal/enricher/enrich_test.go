package enricher

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/heartmarshall/vocab-curator/internal/domain"
)

type posIndex map[string]domain.PartOfSpeech

func (p posIndex) DominantPOS(word string) (domain.PartOfSpeech, bool) {
	pos, ok := p[word]
	return pos, ok
}

type phonetics map[string]string

func (p phonetics) Phonetic(word string) (string, bool) {
	s, ok := p[word]
	return s, ok
}

func sense(pos domain.PartOfSpeech, def string, examples []string, lemmas ...string) domain.Sense {
	s := domain.Sense{PartOfSpeech: pos, Definition: def, Examples: examples}
	for _, l := range lemmas {
		s.Lemmas = append(s.Lemmas, domain.SenseLemma{Name: l})
	}
	return s
}

var (
	noun = domain.PartOfSpeechNoun
	verb = domain.PartOfSpeechVerb
	adj  = domain.PartOfSpeechAdjective
	sat  = domain.PartOfSpeechAdjectiveSatellite
	adv  = domain.PartOfSpeechAdverb
)

func TestReorderSenses(t *testing.T) {
	t.Parallel()

	senses := []domain.Sense{
		sense(noun, "n1", nil),
		sense(verb, "v1", nil),
		sense(noun, "n2", nil),
		sense(verb, "v2", nil),
		sense(sat, "s1", nil),
	}

	defs := func(ss []domain.Sense) []string {
		out := make([]string, len(ss))
		for i, s := range ss {
			out[i] = s.Definition
		}
		return out
	}

	assert.Equal(t, []string{"v1", "v2", "n1", "n2", "s1"}, defs(ReorderSenses(senses, verb)))
	assert.Equal(t, []string{"s1", "n1", "v1", "n2", "v2"}, defs(ReorderSenses(senses, adj)))
	assert.Equal(t, []string{"n1", "v1", "n2", "v2", "s1"}, defs(ReorderSenses(senses, adv)), "no match keeps order")
	assert.Equal(t, "n1", senses[0].Definition, "input must not be modified")
}

func TestEnrich_PrefersCorpusPartOfSpeech(t *testing.T) {
	t.Parallel()

	e := New(posIndex{"run": verb}, phonetics{})
	rec := e.Enrich("run", []domain.Sense{
		sense(noun, "a score in baseball", nil),
		sense(verb, "move fast by using one's feet", nil),
	})

	assert.Equal(t, "run", rec.Word)
	assert.Equal(t, verb, rec.PartOfSpeech)
	assert.Equal(t, "move fast by using one's feet", rec.Definition)
	require.Len(t, rec.Metadata.AltDefinitions, 1)
	assert.Equal(t, domain.AltDefinition{PartOfSpeech: noun, Definition: "a score in baseball"}, rec.Metadata.AltDefinitions[0])
	assert.Equal(t, []domain.PartOfSpeech{noun, verb}, rec.Metadata.AllPOS)
}

func TestEnrich_CorpusPOSWithoutMatchingSense(t *testing.T) {
	t.Parallel()

	e := New(posIndex{"dog": adv}, phonetics{})
	rec := e.Enrich("dog", []domain.Sense{sense(noun, "a member of the genus Canis", nil)})

	assert.Equal(t, adv, rec.PartOfSpeech)
	assert.Equal(t, "a member of the genus Canis", rec.Definition)
	assert.Equal(t, []domain.PartOfSpeech{adv}, rec.Metadata.AllPOS)
}

func TestEnrich_FallsBackToBestSense(t *testing.T) {
	t.Parallel()

	e := New(posIndex{}, phonetics{})
	rec := e.Enrich("fast", []domain.Sense{
		sense(sat, "acting or moving quickly", nil),
		sense(adv, "quickly or rapidly", nil),
	})

	assert.Equal(t, adj, rec.PartOfSpeech)
	assert.Equal(t, []domain.PartOfSpeech{adj, adv}, rec.Metadata.AllPOS)
	assert.Nil(t, rec.Phonetic)
	assert.Nil(t, rec.AudioURL)
	assert.Nil(t, rec.Etymology)
}

func TestEnrich_ExamplesDeduplicatedAndCapped(t *testing.T) {
	t.Parallel()

	e := New(posIndex{}, phonetics{})

	rec := e.Enrich("run", []domain.Sense{
		sense(verb, "d1", []string{"He runs.", "She ran."}),
		sense(verb, "d2", []string{"He runs."}),
	})
	assert.Equal(t, []string{"He runs.", "She ran."}, rec.Examples)

	rec = e.Enrich("run", []domain.Sense{
		sense(verb, "d1", []string{"a", "b"}),
		sense(verb, "d2", []string{"b", "c", "d"}),
	})
	assert.Equal(t, []string{"a", "b", "c"}, rec.Examples)

	// Only the first five senses are scanned; matching is case-sensitive.
	rec = e.Enrich("run", []domain.Sense{
		sense(verb, "1", nil), sense(verb, "2", nil), sense(verb, "3", nil),
		sense(verb, "4", []string{"x"}), sense(verb, "5", []string{"X"}), sense(verb, "6", []string{"y"}),
	})
	assert.Equal(t, []string{"x", "X"}, rec.Examples)
}

func TestEnrich_Phonetic(t *testing.T) {
	t.Parallel()

	e := New(posIndex{}, phonetics{"cat": "/kˈæt/"})
	rec := e.Enrich("cat", []domain.Sense{sense(noun, "feline", nil)})

	require.NotNil(t, rec.Phonetic)
	assert.Equal(t, "/kˈæt/", *rec.Phonetic)
}

func TestEnrich_SynonymsAndAntonyms(t *testing.T) {
	t.Parallel()

	good := domain.Sense{
		PartOfSpeech: adj,
		Definition:   "having desirable qualities",
		Lemmas: []domain.SenseLemma{
			{Name: "Good", Antonyms: []string{"bad", "evil"}},
			{Name: "full_of_zip"},
		},
	}
	e := New(posIndex{}, phonetics{})
	rec := e.Enrich("good", []domain.Sense{
		good,
		sense(noun, "benefit", nil, "good", "goodness", "commodity", "trade_good", "zeal"),
		sense(noun, "never reached", nil, "aardvark"),
	})

	assert.Equal(t, []string{"commodity", "full of zip", "goodness", "trade good", "zeal"}, rec.Metadata.Synonyms)
	assert.Equal(t, []string{"bad", "evil"}, rec.Metadata.Antonyms)
}

func TestEnrich_SynonymLimits(t *testing.T) {
	t.Parallel()

	e := New(posIndex{}, phonetics{})
	rec := e.Enrich("x", []domain.Sense{
		{PartOfSpeech: noun, Definition: "d", Lemmas: []domain.SenseLemma{
			{Name: "f", Antonyms: []string{"d1", "c1", "b1", "a1"}},
			{Name: "e"}, {Name: "d"}, {Name: "c"}, {Name: "b"}, {Name: "a"},
		}},
	})

	assert.Equal(t, []string{"a", "b", "c", "d", "e"}, rec.Metadata.Synonyms)
	assert.Equal(t, []string{"a1", "b1", "c1"}, rec.Metadata.Antonyms)
}

func TestEnrich_AltDefinitionsLimited(t *testing.T) {
	t.Parallel()

	e := New(posIndex{}, phonetics{})
	rec := e.Enrich("set", []domain.Sense{
		sense(noun, "d0", nil), sense(verb, "d1", nil), sense(sat, "d2", nil),
		sense(adv, "d3", nil), sense(verb, "d4", nil),
	})

	assert.Equal(t, []domain.AltDefinition{
		{PartOfSpeech: verb, Definition: "d1"},
		{PartOfSpeech: adj, Definition: "d2"},
		{PartOfSpeech: adv, Definition: "d3"},
	}, rec.Metadata.AltDefinitions)
	assert.Equal(t, []domain.PartOfSpeech{adj, adv, noun, verb}, rec.Metadata.AllPOS)

	js, err := rec.Metadata.JSON()
	require.NoError(t, err)
	assert.Contains(t, js, `"alt_definitions":[{"pos":"verb","definition":"d1"}`)
}

func TestEnrich_NoSenses(t *testing.T) {
	t.Parallel()

	rec := New(posIndex{}, phonetics{}).Enrich("ghost", nil)

	assert.Equal(t, noun, rec.PartOfSpeech)
	assert.Empty(t, rec.Definition)
	assert.Empty(t, rec.Examples)
	assert.Equal(t, []domain.PartOfSpeech{noun}, rec.Metadata.AllPOS)
}
