// Package corpus derives word frequencies and dominant parts of speech from a
// Brown-format part-of-speech tagged corpus.
package corpus

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"unicode/utf8"

	"github.com/heartmarshall/vocab-curator/internal/domain"
)

// tagMap simplifies Brown tags. Only exact matches count, so compound tags
// such as "NP-TL" or "NN$" carry no part of speech.
var tagMap = map[string]domain.PartOfSpeech{
	"NN": domain.PartOfSpeechNoun, "NNS": domain.PartOfSpeechNoun,
	"NP": domain.PartOfSpeechNoun, "NPS": domain.PartOfSpeechNoun,
	"VB": domain.PartOfSpeechVerb, "VBD": domain.PartOfSpeechVerb, "VBG": domain.PartOfSpeechVerb,
	"VBN": domain.PartOfSpeechVerb, "VBZ": domain.PartOfSpeechVerb,
	"JJ": domain.PartOfSpeechAdjective, "JJR": domain.PartOfSpeechAdjective,
	"JJS": domain.PartOfSpeechAdjective, "JJT": domain.PartOfSpeechAdjective,
	"RB": domain.PartOfSpeechAdverb, "RBR": domain.PartOfSpeechAdverb, "RBT": domain.PartOfSpeechAdverb,
}

// SimplifyTag maps a Brown tag to a simplified part of speech.
func SimplifyTag(tag string) (domain.PartOfSpeech, bool) {
	pos, ok := tagMap[strings.ToUpper(tag)]
	return pos, ok
}

// Stats holds loader statistics for logging.
type Stats struct {
	Files       int
	Tokens      int
	Untagged    int
	Counted     int
	UniqueWords int
	WithPOS     int
}

// Corpus is the read-only result of loading a tagged corpus.
type Corpus struct {
	Frequency    map[string]int
	POS          map[string]domain.PartOfSpeech
	MaxFrequency int
	Stats        Stats
}

// FrequencyOf returns the occurrence count of word, 0 when unseen.
func (c Corpus) FrequencyOf(word string) int {
	return c.Frequency[word]
}

// DominantPOS returns the most frequent simplified tag observed for word.
func (c Corpus) DominantPOS(word string) (domain.PartOfSpeech, bool) {
	pos, ok := c.POS[word]
	return pos, ok
}

type posCount struct {
	pos domain.PartOfSpeech
	n   int
}

// Builder accumulates tagged tokens. Add tokens, then call Build once.
type Builder struct {
	minLen int
	freq   map[string]int
	// Per-word counts in first-observed order, so ties go to the earliest tag.
	pos   map[string][]posCount
	stats Stats
}

// NewBuilder creates a Builder that ignores words shorter than minLen.
func NewBuilder(minLen int) *Builder {
	return &Builder{
		minLen: minLen,
		freq:   make(map[string]int),
		pos:    make(map[string][]posCount),
	}
}

// Add records one tagged token. Words are lower-cased and only purely
// alphabetic words of at least the minimum length are counted.
func (b *Builder) Add(word, tag string) {
	b.stats.Tokens++
	w := strings.ToLower(word)
	if !domain.IsAlphabetic(w) || utf8.RuneCountInString(w) < b.minLen {
		return
	}

	b.stats.Counted++
	b.freq[w]++

	pos, ok := SimplifyTag(tag)
	if !ok {
		return
	}
	counts := b.pos[w]
	for i := range counts {
		if counts[i].pos == pos {
			counts[i].n++
			return
		}
	}
	b.pos[w] = append(counts, posCount{pos: pos, n: 1})
}

// AddText splits Brown-format text ("word/TAG word/TAG ...") into tokens.
// The tag is taken after the last slash; tokens without a slash are skipped.
func (b *Builder) AddText(r io.Reader) error {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 64*1024), 1024*1024)
	scanner.Split(bufio.ScanWords)
	for scanner.Scan() {
		tok := scanner.Text()
		i := strings.LastIndexByte(tok, '/')
		if i <= 0 || i == len(tok)-1 {
			b.stats.Untagged++
			continue
		}
		b.Add(tok[:i], tok[i+1:])
	}
	if err := scanner.Err(); err != nil {
		return fmt.Errorf("scan corpus: %w", err)
	}
	return nil
}

// Build freezes the accumulated counts into a Corpus.
func (b *Builder) Build() Corpus {
	c := Corpus{
		Frequency: b.freq,
		POS:       make(map[string]domain.PartOfSpeech, len(b.pos)),
		Stats:     b.stats,
	}
	for _, n := range b.freq {
		if n > c.MaxFrequency {
			c.MaxFrequency = n
		}
	}
	for w, counts := range b.pos {
		best := counts[0]
		for _, pc := range counts[1:] {
			if pc.n > best.n {
				best = pc
			}
		}
		c.POS[w] = best.pos
	}
	c.Stats.UniqueWords = len(c.Frequency)
	c.Stats.WithPOS = len(c.POS)
	return c
}

// Load reads a corpus from a single file or from every regular file of a
// directory, in file name order.
func Load(path string, minLen int) (Corpus, error) {
	info, err := os.Stat(path)
	if err != nil {
		return Corpus{}, fmt.Errorf("stat corpus: %w", err)
	}

	files := []string{path}
	if info.IsDir() {
		files, err = listFiles(path)
		if err != nil {
			return Corpus{}, err
		}
	}

	b := NewBuilder(minLen)
	for _, name := range files {
		if err := loadFile(b, name); err != nil {
			return Corpus{}, err
		}
		b.stats.Files++
	}
	return b.Build(), nil
}

func loadFile(b *Builder, name string) error {
	f, err := os.Open(name)
	if err != nil {
		return fmt.Errorf("open corpus file: %w", err)
	}
	defer f.Close()

	if err := b.AddText(f); err != nil {
		return fmt.Errorf("%s: %w", filepath.Base(name), err)
	}
	return nil
}

func listFiles(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("read corpus dir: %w", err)
	}
	var files []string
	for _, e := range entries {
		if e.Type().IsRegular() {
			files = append(files, filepath.Join(dir, e.Name()))
		}
	}
	return files, nil
}
