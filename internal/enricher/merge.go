package enricher

import (
	"slices"
	"unicode/utf8"

	"github.com/heartmarshall/vocab-curator/internal/domain"
	"github.com/heartmarshall/vocab-curator/internal/provider"
)

// Merge applies a remote dictionary result to rec. Only the first entry is
// consulted:
//   - phonetic: the entry's flat phonetic, else its first phonetic text
//   - audio: its first phonetic audio reference
//   - definition: replaced only by a strictly longer lead definition
//   - example: the lead definition's example is prepended when new
//
// With no entries rec is returned unchanged. rec's slices are never mutated.
func Merge(rec domain.EnrichedRecord, entries []provider.Entry) domain.EnrichedRecord {
	if len(entries) == 0 {
		return rec
	}
	entry := entries[0]

	if text, ok := entry.FirstPhoneticText(); ok {
		rec.Phonetic = &text
	}
	if audio, ok := entry.FirstAudio(); ok {
		rec.AudioURL = &audio
	}

	lead, ok := entry.LeadDefinition()
	if !ok {
		return rec
	}
	if utf8.RuneCountInString(lead.Definition) > utf8.RuneCountInString(rec.Definition) {
		rec.Definition = lead.Definition
	}
	if lead.Example != "" && !slices.Contains(rec.Examples, lead.Example) {
		examples := make([]string, 0, len(rec.Examples)+1)
		examples = append(examples, lead.Example)
		examples = append(examples, rec.Examples...)
		if len(examples) > maxExamples {
			examples = examples[:maxExamples]
		}
		rec.Examples = examples
	}
	return rec
}
