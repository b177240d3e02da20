// Package verify reads back a written dataset, checks it against the release
// thresholds and renders the verification report.
package verify

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"math"
	"os"
	"path/filepath"
	"time"

	"github.com/heartmarshall/vocab-curator/internal/domain"
	"github.com/heartmarshall/vocab-curator/pkg/ctxutil"
)

// Release thresholds.
const (
	MinExampleCoveragePct = 60.0
	MaxFileSizeMB         = 10.0
)

// Band is an inclusive percentage range that a group of levels must fall in.
type Band struct {
	Name   string
	Levels []domain.Level
	MinPct float64
	MaxPct float64
}

// DefaultBands are the expected level proportions of a release dataset.
var DefaultBands = []Band{
	{Name: "A1+A2", Levels: []domain.Level{domain.LevelA1, domain.LevelA2}, MinPct: 20, MaxPct: 40},
	{Name: "B1+B2", Levels: []domain.Level{domain.LevelB1, domain.LevelB2}, MinPct: 30, MaxPct: 50},
	{Name: "C1+C2", Levels: []domain.Level{domain.LevelC1, domain.LevelC2}, MinPct: 20, MaxPct: 40},
}

// Source is a written dataset.
type Source interface {
	Stats(ctx context.Context) (domain.DatasetStats, error)
	Words(ctx context.Context) ([]string, error)
}

// AudioIndex reports pronunciation clip coverage.
type AudioIndex interface {
	Enabled() bool
	Coverage(words []string) int
}

// Check is one pass/fail criterion.
type Check struct {
	Name   string `json:"name"`
	Passed bool   `json:"passed"`
}

// Report is the verification outcome. Optional figures are nil when the
// sink cannot provide them.
type Report struct {
	RunID               string                               `json:"run_id,omitempty"`
	GeneratedAt         time.Time                            `json:"generated_at"`
	Requested           int                                  `json:"requested"`
	TotalWords          int                                  `json:"total_words"`
	TotalExamples       int                                  `json:"total_examples"`
	WordsWithExamples   int                                  `json:"words_with_examples"`
	ExampleCoveragePct  float64                              `json:"example_coverage_pct"`
	WordsWithPhonetic   int                                  `json:"words_with_phonetic"`
	PhoneticCoveragePct float64                              `json:"phonetic_coverage_pct"`
	AudioCoveragePct    *float64                             `json:"audio_coverage_pct,omitempty"`
	FileSizeMB          *float64                             `json:"file_size_mb,omitempty"`
	LevelDistribution   map[domain.Level]int                 `json:"cefr_distribution"`
	POSDistribution     map[domain.PartOfSpeech]int          `json:"pos_distribution"`
	Samples             map[domain.Level][]domain.WordSample `json:"samples"`
	Checks              []Check                              `json:"checks"`
	Passed              bool                                 `json:"passed"`
}

// Verifier builds reports for a requested dataset size.
type Verifier struct {
	requested int
	bands     []Band
	audio     AudioIndex
	log       *slog.Logger
}

// New creates a Verifier. audio may be nil.
func New(requested int, audio AudioIndex, logger *slog.Logger) *Verifier {
	return &Verifier{
		requested: requested,
		bands:     DefaultBands,
		audio:     audio,
		log:       logger.With("component", "verifier"),
	}
}

// Run reads src and evaluates every check.
func (v *Verifier) Run(ctx context.Context, src Source) (Report, error) {
	stats, err := src.Stats(ctx)
	if err != nil {
		return Report{}, fmt.Errorf("verify: read stats: %w", err)
	}

	r := v.build(stats)
	if id, ok := ctxutil.RunIDFromCtx(ctx); ok {
		r.RunID = id.String()
	}

	if v.audio != nil && v.audio.Enabled() {
		words, err := src.Words(ctx)
		if err != nil {
			return Report{}, fmt.Errorf("verify: list words: %w", err)
		}
		pct := percent(v.audio.Coverage(words), len(words))
		r.AudioCoveragePct = &pct
	}

	for _, c := range r.Checks {
		if !c.Passed {
			v.log.WarnContext(ctx, "check failed", slog.String("check", c.Name))
		}
	}
	return r, nil
}

func (v *Verifier) build(stats domain.DatasetStats) Report {
	r := Report{
		GeneratedAt:         time.Now().UTC(),
		Requested:           v.requested,
		TotalWords:          stats.TotalWords,
		TotalExamples:       stats.TotalExamples,
		WordsWithExamples:   stats.WordsWithExamples,
		ExampleCoveragePct:  percent(stats.WordsWithExamples, stats.TotalWords),
		WordsWithPhonetic:   stats.WordsWithPhonetic,
		PhoneticCoveragePct: percent(stats.WordsWithPhonetic, stats.TotalWords),
		LevelDistribution:   stats.LevelCounts,
		POSDistribution:     stats.POSCounts,
		Samples:             stats.Samples,
	}
	if stats.FileSizeBytes >= 0 {
		mb := round(float64(stats.FileSizeBytes)/(1024*1024), 2)
		r.FileSizeMB = &mb
	}

	r.Checks = v.checks(r)
	r.Passed = true
	for _, c := range r.Checks {
		r.Passed = r.Passed && c.Passed
	}
	return r
}

func (v *Verifier) checks(r Report) []Check {
	checks := []Check{
		{Name: fmt.Sprintf("Word count >= %d", v.requested), Passed: r.TotalWords >= v.requested},
		{Name: fmt.Sprintf("Example coverage >= %g%%", MinExampleCoveragePct), Passed: r.ExampleCoveragePct >= MinExampleCoveragePct},
	}
	if r.FileSizeMB != nil {
		checks = append(checks, Check{
			Name:   fmt.Sprintf("Database size < %g MB", MaxFileSizeMB),
			Passed: *r.FileSizeMB < MaxFileSizeMB,
		})
	}

	allLevels := true
	for _, l := range domain.AllLevels {
		allLevels = allLevels && r.LevelDistribution[l] > 0
	}
	checks = append(checks, Check{Name: "All CEFR levels present", Passed: allLevels})

	for _, b := range v.bands {
		n := 0
		for _, l := range b.Levels {
			n += r.LevelDistribution[l]
		}
		pct := 100 * float64(n) / float64(max(r.TotalWords, 1))
		checks = append(checks, Check{
			Name:   fmt.Sprintf("%s in [%g%%, %g%%]", b.Name, b.MinPct, b.MaxPct),
			Passed: r.TotalWords > 0 && pct >= b.MinPct && pct <= b.MaxPct,
		})
	}
	return checks
}

// WriteJSON writes the report to path, creating parent directories.
func WriteJSON(path string, r Report) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("verify: create report dir: %w", err)
	}
	data, err := json.MarshalIndent(r, "", "  ")
	if err != nil {
		return fmt.Errorf("verify: encode report: %w", err)
	}
	if err := os.WriteFile(path, append(data, '\n'), 0o644); err != nil {
		return fmt.Errorf("verify: write report: %w", err)
	}
	return nil
}

func percent(part, total int) float64 {
	return round(100*float64(part)/float64(max(total, 1)), 1)
}

func round(x float64, places int) float64 {
	p := math.Pow(10, float64(places))
	return math.Round(x*p) / p
}
