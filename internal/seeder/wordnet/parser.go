// Package wordnet loads Open English WordNet GWN-LMF JSON files into an
// in-memory lexicon with sense lookup and morphological base-form analysis.
package wordnet

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"

	"github.com/heartmarshall/vocab-curator/internal/domain"
)

// Stats holds parser statistics for logging.
type Stats struct {
	TotalSynsets   int
	TotalEntries   int
	SkippedEntries int
	MissingSynsets int
	UniqueLemmas   int
}

// ParseResult holds the parsed lexicon and statistics.
type ParseResult struct {
	Lexicon *Lexicon
	Stats   Stats
}

// GWN-LMF JSON internal types for deserialization.

type gwnDocument struct {
	Graph []gwnLexicon `json:"@graph"`
}

type gwnLexicon struct {
	Entries []gwnEntry  `json:"entry"`
	Synsets []gwnSynset `json:"synset"`
}

type gwnEntry struct {
	ID    string     `json:"@id"`
	Lemma gwnLemma   `json:"lemma"`
	Sense []gwnSense `json:"sense"`
}

type gwnLemma struct {
	WrittenForm  string `json:"writtenForm"`
	PartOfSpeech string `json:"partOfSpeech"`
}

type gwnSense struct {
	ID        string        `json:"@id"`
	Synset    string        `json:"synset"`
	Relations []gwnRelation `json:"relations"`
}

type gwnSynset struct {
	ID           string    `json:"@id"`
	PartOfSpeech string    `json:"partOfSpeech"`
	Definition   []gwnText `json:"definition"`
	Example      []gwnText `json:"example"`
	Members      []string  `json:"members"`
}

type gwnRelation struct {
	RelType string `json:"relType"`
	Target  string `json:"target"`
}

// gwnText accepts both plain strings and {"text": ...} / {"@value": ...} objects,
// since exports differ in how they encode definitions and examples.
type gwnText string

func (t *gwnText) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*t = gwnText(s)
		return nil
	}
	var obj struct {
		Text  string `json:"text"`
		Value string `json:"@value"`
	}
	if err := json.Unmarshal(data, &obj); err != nil {
		return err
	}
	if obj.Text != "" {
		*t = gwnText(obj.Text)
	} else {
		*t = gwnText(obj.Value)
	}
	return nil
}

// posCodes maps GWN part-of-speech codes to domain values.
var posCodes = map[string]domain.PartOfSpeech{
	"n": domain.PartOfSpeechNoun,
	"v": domain.PartOfSpeechVerb,
	"a": domain.PartOfSpeechAdjective,
	"s": domain.PartOfSpeechAdjectiveSatellite,
	"r": domain.PartOfSpeechAdverb,
}

// Parse reads a GWN-LMF JSON file and builds a Lexicon from it.
func Parse(filePath string) (ParseResult, error) {
	f, err := os.Open(filePath)
	if err != nil {
		return ParseResult{}, fmt.Errorf("open file: %w", err)
	}
	defer f.Close()

	var doc gwnDocument
	if err := json.NewDecoder(f).Decode(&doc); err != nil {
		return ParseResult{}, fmt.Errorf("decode JSON: %w", err)
	}

	lex := newLexicon()
	var stats Stats
	for _, gl := range doc.Graph {
		stats.TotalEntries += len(gl.Entries)
		stats.TotalSynsets += len(gl.Synsets)
		lex.addGraph(gl, &stats)
	}
	lex.finish()

	stats.UniqueLemmas = len(lex.names)
	return ParseResult{Lexicon: lex, Stats: stats}, nil
}

// addGraph resolves one lexicon of the document. Senses are materialised
// per entry so that Senses() is a plain map lookup afterwards.
func (l *Lexicon) addGraph(gl gwnLexicon, stats *Stats) {
	synsets := make(map[string]*gwnSynset, len(gl.Synsets))
	for i := range gl.Synsets {
		synsets[gl.Synsets[i].ID] = &gl.Synsets[i]
	}

	entries := make(map[string]*gwnEntry, len(gl.Entries))
	senseOwner := make(map[string]*gwnEntry)
	// entryID + synsetID -> sense, used to resolve member antonyms.
	memberSense := make(map[[2]string]*gwnSense)
	// Synset members in sense order, for exports without "members".
	sensedMembers := make(map[string][]string)
	for i := range gl.Entries {
		e := &gl.Entries[i]
		entries[e.ID] = e
		for j := range e.Sense {
			s := &e.Sense[j]
			senseOwner[s.ID] = e
			memberSense[[2]string{e.ID, s.Synset}] = s
			sensedMembers[s.Synset] = append(sensedMembers[s.Synset], e.ID)
		}
	}

	lemmaCache := make(map[string][]domain.SenseLemma)
	lemmasOf := func(ss *gwnSynset) []domain.SenseLemma {
		if cached, ok := lemmaCache[ss.ID]; ok {
			return cached
		}
		members := ss.Members
		if len(members) == 0 {
			members = sensedMembers[ss.ID]
		}
		out := make([]domain.SenseLemma, 0, len(members))
		for _, id := range members {
			e, ok := entries[id]
			if !ok {
				continue
			}
			lemma := domain.SenseLemma{Name: e.Lemma.WrittenForm}
			if s, ok := memberSense[[2]string{id, ss.ID}]; ok {
				for _, rel := range s.Relations {
					if rel.RelType != "antonym" {
						continue
					}
					if target, ok := senseOwner[rel.Target]; ok {
						lemma.Antonyms = append(lemma.Antonyms, target.Lemma.WrittenForm)
					}
				}
			}
			out = append(out, lemma)
		}
		lemmaCache[ss.ID] = out
		return out
	}

	for i := range gl.Entries {
		e := &gl.Entries[i]
		word := domain.NormalizeText(e.Lemma.WrittenForm)
		pos, ok := posCodes[e.Lemma.PartOfSpeech]
		if word == "" || !ok {
			stats.SkippedEntries++
			continue
		}

		for _, s := range e.Sense {
			ss, ok := synsets[s.Synset]
			if !ok {
				stats.MissingSynsets++
				continue
			}
			sensePOS := pos
			if p, ok := posCodes[ss.PartOfSpeech]; ok {
				sensePOS = p
			}
			l.addSense(word, ss.ID, domain.Sense{
				PartOfSpeech: sensePOS,
				Definition:   firstText(ss.Definition),
				Examples:     texts(ss.Example),
				Lemmas:       lemmasOf(ss),
			})
		}
	}
}

func firstText(ts []gwnText) string {
	for _, t := range ts {
		if t != "" {
			return string(t)
		}
	}
	return ""
}

func texts(ts []gwnText) []string {
	if len(ts) == 0 {
		return nil
	}
	out := make([]string, 0, len(ts))
	for _, t := range ts {
		if t != "" {
			out = append(out, string(t))
		}
	}
	return out
}
