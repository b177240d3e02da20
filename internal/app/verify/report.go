package verify

import (
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/heartmarshall/vocab-curator/internal/domain"
)

const (
	ruleWidth        = 70
	printedSamples   = 3
	definitionMaxLen = 60
)

// PrintReport renders r for a terminal.
func PrintReport(w io.Writer, r Report) {
	rule := strings.Repeat("=", ruleWidth)

	fmt.Fprintf(w, "\n%s\nVocabulary Dataset Verification Report\n%s\n", rule, rule)
	if r.RunID != "" {
		fmt.Fprintf(w, "\nRun:                   %s\n", r.RunID)
	}
	fmt.Fprintf(w, "\nTotal words:           %d\n", r.TotalWords)
	fmt.Fprintf(w, "Total examples:        %d\n", r.TotalExamples)
	fmt.Fprintf(w, "Example coverage:      %.1f%%\n", r.ExampleCoveragePct)
	fmt.Fprintf(w, "Phonetic coverage:     %.1f%%\n", r.PhoneticCoveragePct)
	if r.AudioCoveragePct != nil {
		fmt.Fprintf(w, "Audio coverage:        %.1f%%\n", *r.AudioCoveragePct)
	}
	if r.FileSizeMB != nil {
		fmt.Fprintf(w, "Database size:         %.2f MB\n", *r.FileSizeMB)
	}

	fmt.Fprintln(w, "\nCEFR Level Distribution:")
	for _, level := range domain.AllLevels {
		n := r.LevelDistribution[level]
		pct := share(n, r.TotalWords)
		fmt.Fprintf(w, "  %s: %5d (%5.1f%%) %s\n", level, n, pct, strings.Repeat("#", int(pct/2)))
	}

	fmt.Fprintln(w, "\nPOS Distribution:")
	for _, pos := range byCount(r.POSDistribution) {
		n := r.POSDistribution[pos]
		fmt.Fprintf(w, "  %-6s: %5d (%5.1f%%)\n", pos, n, share(n, r.TotalWords))
	}

	fmt.Fprintln(w, "\nSample Words:")
	for _, level := range domain.AllLevels {
		fmt.Fprintf(w, "\n  [%s]\n", level)
		samples := r.Samples[level]
		for _, s := range samples[:min(printedSamples, len(samples))] {
			fmt.Fprintf(w, "    %-20s (%s) - %s\n", s.Word, s.PartOfSpeech, truncate(s.Definition, definitionMaxLen))
		}
	}

	fmt.Fprintf(w, "\n%s\n\nValidation Checks:\n", rule)
	for _, c := range r.Checks {
		symbol, status := "+", "PASS"
		if !c.Passed {
			symbol, status = "!", "FAIL"
		}
		fmt.Fprintf(w, "  [%s] %s: %s\n", symbol, c.Name, status)
	}

	if r.Passed {
		fmt.Fprintln(w, "\nALL CHECKS PASSED")
	} else {
		fmt.Fprintln(w, "\nSOME CHECKS FAILED")
	}
	fmt.Fprintln(w, rule)
}

func share(n, total int) float64 {
	if total == 0 {
		return 0
	}
	return 100 * float64(n) / float64(total)
}

// byCount orders parts of speech by descending count, then by name.
func byCount(m map[domain.PartOfSpeech]int) []domain.PartOfSpeech {
	keys := make([]domain.PartOfSpeech, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool {
		if m[keys[i]] != m[keys[j]] {
			return m[keys[i]] > m[keys[j]]
		}
		return keys[i] < keys[j]
	})
	return keys
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n]) + "..."
}
