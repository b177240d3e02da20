package testhelper

import (
	"fmt"

	"github.com/brianvoe/gofakeit/v6"

	"github.com/heartmarshall/vocab-curator/internal/domain"
)

// FakeRecords returns n ranked word records generated from seed. Words are
// unique, levels follow the default boundaries scaled down to n, and every
// second record carries examples and a phonetic.
func FakeRecords(seed int64, n int) []domain.WordRecord {
	faker := gofakeit.New(seed)
	poses := []domain.PartOfSpeech{
		domain.PartOfSpeechNoun, domain.PartOfSpeechVerb,
		domain.PartOfSpeechAdjective, domain.PartOfSpeechAdverb,
	}

	out := make([]domain.WordRecord, n)
	for i := range out {
		rank := i + 1
		rec := domain.WordRecord{
			ID:    rank,
			Rank:  rank,
			Level: domain.AllLevels[i*len(domain.AllLevels)/max(n, 1)],
			EnrichedRecord: domain.EnrichedRecord{
				Word:         fmt.Sprintf("%s%d", faker.Noun(), rank),
				Definition:   faker.Sentence(8),
				PartOfSpeech: poses[faker.Number(0, len(poses)-1)],
				Metadata: domain.WordMetadata{
					Synonyms: []string{faker.Noun()},
				},
			},
		}
		if i%2 == 0 {
			phonetic := "/" + faker.LetterN(4) + "/"
			rec.Phonetic = &phonetic
			rec.Examples = []string{faker.Sentence(6), faker.Sentence(5)}
		}
		out[i] = rec
	}
	return out
}
