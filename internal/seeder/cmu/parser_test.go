package cmu

import (
	"os"
	"path/filepath"
	"reflect"
	"runtime"
	"testing"
)

func testdataPath(t *testing.T, name string) string {
	t.Helper()
	_, file, _, ok := runtime.Caller(0)
	if !ok {
		t.Fatal("cannot determine test file path")
	}
	return filepath.Join(filepath.Dir(file), "testdata", name)
}

// --- ARPAbet to IPA conversion ---

func TestTranscribe(t *testing.T) {
	tests := []struct {
		name     string
		phonemes []string
		want     string
	}{
		{"cat primary stress", []string{"K", "AE1", "T"}, "/kˈæt/"},
		{"unstressed AH is schwa", []string{"DH", "AH0"}, "/ðə/"},
		{"stressed AH keeps wedge", []string{"DH", "AH1"}, "/ðˈʌ/"},
		{"secondary stress", []string{"R", "IY2", "D"}, "/rˌiːd/"},
		{"unstressed non-AH vowel", []string{"DH", "IY0"}, "/ðiː/"},
		{"hello", []string{"HH", "AH0", "L", "OW1"}, "/həlˈoʊ/"},
		{"world r-coloured vowel", []string{"W", "ER1", "L", "D"}, "/wˈɜːrld/"},
		{"unknown symbol lower-cased", []string{"XX", "AA1"}, "/xxˈɑː/"},
		{"empty", nil, "//"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Transcribe(tt.phonemes); got != tt.want {
				t.Errorf("Transcribe(%v) = %q, want %q", tt.phonemes, got, tt.want)
			}
		})
	}
}

func TestArpabetMap_Complete(t *testing.T) {
	symbols := []string{
		"AA", "AE", "AH", "AO", "AW", "AY", "B", "CH", "D", "DH", "EH", "ER", "EY",
		"F", "G", "HH", "IH", "IY", "JH", "K", "L", "M", "N", "NG", "OW", "OY", "P",
		"R", "S", "SH", "T", "TH", "UH", "UW", "V", "W", "Y", "Z", "ZH",
	}
	if len(arpabetMap) != len(symbols) {
		t.Fatalf("arpabetMap has %d entries, want %d", len(arpabetMap), len(symbols))
	}
	for _, s := range symbols {
		if arpabetMap[s] == "" {
			t.Errorf("missing mapping for %s", s)
		}
	}
}

// --- Stress marker splitting ---

func TestSplitStress(t *testing.T) {
	tests := []struct {
		input      string
		wantBase   string
		wantStress byte
	}{
		{"AH0", "AH", '0'},
		{"AW1", "AW", '1'},
		{"IY2", "IY", '2'},
		{"HH", "HH", 0},
		{"S", "S", 0},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			base, stress := splitStress(tt.input)
			if base != tt.wantBase || stress != tt.wantStress {
				t.Errorf("splitStress(%q) = (%q, %q), want (%q, %q)", tt.input, base, stress, tt.wantBase, tt.wantStress)
			}
		})
	}
}

// --- Full line parsing ---

func TestParseLine(t *testing.T) {
	tests := []struct {
		name         string
		line         string
		wantWord     string
		wantPhonemes []string
		wantVariant  int
		wantSkip     bool
	}{
		{
			name:         "classic layout",
			line:         "HELLO  HH AH0 L OW1",
			wantWord:     "hello",
			wantPhonemes: []string{"HH", "AH0", "L", "OW1"},
		},
		{
			name:         "variant 2",
			line:         "HOUSE(2)  HH AW1 Z",
			wantWord:     "house",
			wantPhonemes: []string{"HH", "AW1", "Z"},
			wantVariant:  1,
		},
		{
			name:         "modern layout with trailing comment",
			line:         "world W ER1 L D # noun",
			wantWord:     "world",
			wantPhonemes: []string{"W", "ER1", "L", "D"},
		},
		{name: "comment line", line: ";;; This is a comment", wantSkip: true},
		{name: "empty line", line: "", wantSkip: true},
		{name: "word without phonemes", line: "LONELY", wantSkip: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			word, v, err := parseLine(tt.line)
			if tt.wantSkip {
				if err != errSkipLine {
					t.Errorf("parseLine(%q) should return errSkipLine, got err=%v", tt.line, err)
				}
				return
			}
			if err != nil {
				t.Fatalf("parseLine(%q) returned unexpected error: %v", tt.line, err)
			}
			if word != tt.wantWord {
				t.Errorf("word: got %q, want %q", word, tt.wantWord)
			}
			if !reflect.DeepEqual(v.phonemes, tt.wantPhonemes) {
				t.Errorf("phonemes: got %v, want %v", v.phonemes, tt.wantPhonemes)
			}
			if v.index != tt.wantVariant {
				t.Errorf("variant: got %d, want %d", v.index, tt.wantVariant)
			}
		})
	}
}

func TestParseWordAndVariant(t *testing.T) {
	tests := []struct {
		name        string
		raw         string
		wantWord    string
		wantVariant int
	}{
		{"no variant", "HELLO", "hello", 0},
		{"variant 2", "HOUSE(2)", "house", 1},
		{"variant 10", "WORD(10)", "word", 9},
		{"unterminated", "WORD(2", "word(2", 0},
		{"non-numeric", "WORD(x)", "word(x)", 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			word, variant := parseWordAndVariant(tt.raw)
			if word != tt.wantWord {
				t.Errorf("word: got %q, want %q", word, tt.wantWord)
			}
			if variant != tt.wantVariant {
				t.Errorf("variant: got %d, want %d", variant, tt.wantVariant)
			}
		})
	}
}

// --- Full file parsing ---

func TestParse(t *testing.T) {
	result, err := Parse(testdataPath(t, "sample.dict"))
	if err != nil {
		t.Fatalf("Parse returned error: %v", err)
	}

	want := Stats{TotalLines: 12, CommentLines: 2, ParsedLines: 10, UniqueWords: 6}
	if result.Stats != want {
		t.Errorf("Stats: got %+v, want %+v", result.Stats, want)
	}

	dict := result.Dictionary

	// HOUSE(2) precedes HOUSE in the file; variants must still be in variant order.
	house := dict["house"]
	if len(house) != 2 {
		t.Fatalf("house: expected 2 variants, got %d", len(house))
	}
	if house[0][2] != "S" || house[1][2] != "Z" {
		t.Errorf("house variants out of order: %v", house)
	}

	if got := len(dict["the"]); got != 3 {
		t.Errorf("the: expected 3 variants, got %d", got)
	}

	phonetic, ok := dict.Phonetic("the")
	if !ok || phonetic != "/ðə/" {
		t.Errorf("Phonetic(the) = %q, %v", phonetic, ok)
	}

	if !dict.Has("world") {
		t.Error("expected world from modern-layout line")
	}
	if dict.Has("missing") {
		t.Error("Has(missing) should be false")
	}
	if _, ok := dict.Phonetic("missing"); ok {
		t.Error("Phonetic(missing) should report absence")
	}
}

func TestParse_FileNotFound(t *testing.T) {
	if _, err := Parse("/nonexistent/file.dict"); err == nil {
		t.Error("Parse should return error for missing file")
	}
}

func TestParse_EmptyFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "empty.dict")
	if err := os.WriteFile(path, nil, 0o644); err != nil {
		t.Fatal(err)
	}

	result, err := Parse(path)
	if err != nil {
		t.Fatalf("Parse should not error on empty file: %v", err)
	}
	if len(result.Dictionary) != 0 || result.Stats.TotalLines != 0 {
		t.Errorf("expected empty result, got %+v", result.Stats)
	}
}
