// Package provider defines the record shape returned by remote dictionary
// sources. The JSON tags follow the dictionaryapi.dev response so records
// can be cached exactly as received.
package provider

// Entry is one dictionary entry. A lookup returns a list of entries, one per
// etymology.
type Entry struct {
	Word      string     `json:"word"`
	Phonetic  string     `json:"phonetic,omitempty"`
	Phonetics []Phonetic `json:"phonetics"`
	Meanings  []Meaning  `json:"meanings"`
}

// Phonetic is one pronunciation variant, with optional text and audio.
type Phonetic struct {
	Text  string `json:"text,omitempty"`
	Audio string `json:"audio,omitempty"`
}

// Meaning groups definitions sharing a part of speech.
type Meaning struct {
	PartOfSpeech string       `json:"partOfSpeech"`
	Definitions  []Definition `json:"definitions"`
}

// Definition is a single definition with an optional example sentence.
type Definition struct {
	Definition string `json:"definition"`
	Example    string `json:"example,omitempty"`
}

// FirstPhoneticText returns the flat phonetic field, else the first variant
// carrying text.
func (e Entry) FirstPhoneticText() (string, bool) {
	if e.Phonetic != "" {
		return e.Phonetic, true
	}
	for _, p := range e.Phonetics {
		if p.Text != "" {
			return p.Text, true
		}
	}
	return "", false
}

// FirstAudio returns the first variant carrying an audio reference.
func (e Entry) FirstAudio() (string, bool) {
	for _, p := range e.Phonetics {
		if p.Audio != "" {
			return p.Audio, true
		}
	}
	return "", false
}

// LeadDefinition returns the first definition of the first meaning group.
func (e Entry) LeadDefinition() (Definition, bool) {
	if len(e.Meanings) == 0 || len(e.Meanings[0].Definitions) == 0 {
		return Definition{}, false
	}
	return e.Meanings[0].Definitions[0], true
}
