// Package cmu parses CMU Pronouncing Dictionary files and converts ARPAbet
// pronunciations into IPA transcriptions.
package cmu

import (
	"bufio"
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/heartmarshall/vocab-curator/internal/domain"
)

// errSkipLine signals that a line should be skipped (comment, empty, etc.).
var errSkipLine = errors.New("skip line")

// Stress markers prepended to a stressed phoneme.
const (
	primaryStress   = "\u02c8" // ˈ
	secondaryStress = "\u02cc" // ˌ
	schwa           = "\u0259" // ə
)

// arpabetMap maps ARPAbet phonemes (without stress markers) to IPA symbols.
var arpabetMap = map[string]string{
	"AA": "\u0251\u02d0", // ɑː
	"AE": "\u00e6",       // æ
	"AH": "\u028c",       // ʌ
	"AO": "\u0254\u02d0", // ɔː
	"AW": "a\u028a",      // aʊ
	"AY": "a\u026a",      // aɪ
	"B":  "b",
	"CH": "t\u0283", // tʃ
	"D":  "d",
	"DH": "\u00f0",        // ð
	"EH": "\u025b",        // ɛ
	"ER": "\u025c\u02d0r", // ɜːr
	"EY": "e\u026a",       // eɪ
	"F":  "f",
	"G":  "\u0261", // ɡ
	"HH": "h",
	"IH": "\u026a",  // ɪ
	"IY": "i\u02d0", // iː
	"JH": "d\u0292", // dʒ
	"K":  "k",
	"L":  "l",
	"M":  "m",
	"N":  "n",
	"NG": "\u014b",       // ŋ
	"OW": "o\u028a",      // oʊ
	"OY": "\u0254\u026a", // ɔɪ
	"P":  "p",
	"R":  "r",
	"S":  "s",
	"SH": "\u0283", // ʃ
	"T":  "t",
	"TH": "\u03b8",  // θ
	"UH": "\u028a",  // ʊ
	"UW": "u\u02d0", // uː
	"V":  "v",
	"W":  "w",
	"Y":  "j",
	"Z":  "z",
	"ZH": "\u0292", // ʒ
}

// Dictionary maps a lower-cased word to its pronunciation variants in
// variant order. Each variant is the raw ARPAbet phoneme sequence.
type Dictionary map[string][][]string

// Has reports whether the word has at least one pronunciation.
func (d Dictionary) Has(word string) bool {
	return len(d[word]) > 0
}

// Phonetic returns the IPA transcription of the word's first variant.
func (d Dictionary) Phonetic(word string) (string, bool) {
	variants := d[word]
	if len(variants) == 0 {
		return "", false
	}
	return Transcribe(variants[0]), true
}

// ParseResult holds the parsed CMU dictionary data.
type ParseResult struct {
	Dictionary Dictionary
	Stats      Stats
}

// Stats holds parser statistics for logging.
type Stats struct {
	TotalLines   int
	CommentLines int
	ParsedLines  int
	UniqueWords  int
}

type variant struct {
	index    int
	phonemes []string
}

// Parse reads a CMU dict file and returns the pronunciations it contains.
func Parse(filePath string) (ParseResult, error) {
	f, err := os.Open(filePath)
	if err != nil {
		return ParseResult{}, fmt.Errorf("open file: %w", err)
	}
	defer f.Close()

	result := ParseResult{Dictionary: make(Dictionary)}
	indices := make(map[string][]int)

	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		result.Stats.TotalLines++
		line := scanner.Text()

		word, v, err := parseLine(line)
		if err != nil {
			if strings.HasPrefix(line, ";;;") {
				result.Stats.CommentLines++
			}
			continue
		}

		result.Stats.ParsedLines++
		insertVariant(result.Dictionary, indices, word, v)
	}

	if err := scanner.Err(); err != nil {
		return ParseResult{}, fmt.Errorf("scanner error: %w", err)
	}

	result.Stats.UniqueWords = len(result.Dictionary)
	return result, nil
}

// insertVariant keeps each word's variants ordered by variant index even when
// the file lists them out of order.
func insertVariant(dict Dictionary, indices map[string][]int, word string, v variant) {
	idx := indices[word]
	pos := len(idx)
	for pos > 0 && idx[pos-1] > v.index {
		pos--
	}

	idx = append(idx, 0)
	copy(idx[pos+1:], idx[pos:])
	idx[pos] = v.index
	indices[word] = idx

	variants := append(dict[word], nil)
	copy(variants[pos+1:], variants[pos:])
	variants[pos] = v.phonemes
	dict[word] = variants
}

// splitStress separates an ARPAbet phoneme into its base symbol and its
// trailing stress digit (0 when absent).
func splitStress(phoneme string) (string, byte) {
	base := strings.TrimRight(phoneme, "012")
	if base == phoneme {
		return base, 0
	}
	return base, phoneme[len(phoneme)-1]
}

// Transcribe converts a sequence of ARPAbet phonemes into a slash-delimited
// IPA string. Primary and secondary stress are written before the stressed
// symbol; an unstressed AH becomes a schwa. Unknown symbols are lower-cased.
func Transcribe(phonemes []string) string {
	var b strings.Builder
	b.WriteByte('/')
	for _, p := range phonemes {
		base, stress := splitStress(p)
		ipa, ok := arpabetMap[base]
		if !ok {
			ipa = strings.ToLower(base)
		}

		switch {
		case stress == '1':
			b.WriteString(primaryStress)
			b.WriteString(ipa)
		case stress == '2':
			b.WriteString(secondaryStress)
			b.WriteString(ipa)
		case stress == '0' && base == "AH":
			b.WriteString(schwa)
		default:
			b.WriteString(ipa)
		}
	}
	b.WriteByte('/')
	return b.String()
}

// parseLine parses a single line from a CMU dict file.
// Both the classic "WORD  PH PH" layout and the newer single-space layout
// with trailing "# comment" are accepted.
func parseLine(line string) (string, variant, error) {
	if strings.HasPrefix(line, ";;;") {
		return "", variant{}, errSkipLine
	}
	if i := strings.IndexByte(line, '#'); i >= 0 {
		line = line[:i]
	}

	fields := strings.Fields(line)
	if len(fields) < 2 {
		return "", variant{}, errSkipLine
	}

	word, idx := parseWordAndVariant(fields[0])
	if word == "" {
		return "", variant{}, errSkipLine
	}

	return word, variant{index: idx, phonemes: fields[1:]}, nil
}

// parseWordAndVariant splits a raw CMU word like "HOUSE(2)" into
// the normalized word and variant index.
// Primary pronunciation has variant index 0, "(2)" maps to 1, "(3)" to 2, etc.
func parseWordAndVariant(raw string) (string, int) {
	idx := strings.IndexByte(raw, '(')
	if idx == -1 {
		return domain.NormalizeText(raw), 0
	}

	end := strings.IndexByte(raw[idx:], ')')
	if end == -1 {
		return domain.NormalizeText(raw), 0
	}

	n, err := strconv.Atoi(raw[idx+1 : idx+end])
	if err != nil {
		return domain.NormalizeText(raw), 0
	}

	return domain.NormalizeText(raw[:idx]), n - 1
}
