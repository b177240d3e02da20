// Package curator runs the vocabulary curation pipeline: load the linguistic
// resources, select and level the headwords, enrich them, write the dataset
// and verify it.
package curator

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/heartmarshall/vocab-curator/internal/app"
	"github.com/heartmarshall/vocab-curator/internal/app/verify"
	"github.com/heartmarshall/vocab-curator/internal/domain"
	"github.com/heartmarshall/vocab-curator/internal/enricher"
	"github.com/heartmarshall/vocab-curator/internal/provider"
	"github.com/heartmarshall/vocab-curator/internal/seeder/cmu"
	"github.com/heartmarshall/vocab-curator/internal/seeder/corpus"
	"github.com/heartmarshall/vocab-curator/internal/seeder/wordnet"
	"github.com/heartmarshall/vocab-curator/internal/selection"
	"github.com/heartmarshall/vocab-curator/pkg/ctxutil"
)

// Pipeline phases in execution order.
const (
	PhaseLoad   = "load"
	PhaseSelect = "select"
	PhaseEnrich = "enrich"
	PhaseWrite  = "write"
	PhaseVerify = "verify"
)

var allPhases = []string{PhaseLoad, PhaseSelect, PhaseEnrich, PhaseWrite, PhaseVerify}

const progressEvery = 1000

// Sink persists the dataset and reads it back for verification.
type Sink interface {
	Write(ctx context.Context, records []domain.WordRecord) (domain.WriteResult, error)
	verify.Source
	Close() error
}

// Lookup resolves remote dictionary entries for a word.
type Lookup interface {
	Lookup(ctx context.Context, word string) ([]provider.Entry, enricher.Outcome, error)
}

// PhaseResult holds the outcome of a single pipeline phase.
type PhaseResult struct {
	Processed int
	Skipped   int
	Duration  time.Duration
	Err       error
}

// Result summarises a run.
type Result struct {
	RunID     uuid.UUID
	Requested int
	Selected  int
	Written   int
	Examples  int
	Merged    int
	Outcomes  map[enricher.Outcome]int
	Report    *verify.Report
}

// Pipeline orchestrates one curation run. It is not safe for concurrent use.
type Pipeline struct {
	log     *slog.Logger
	cfg     Config
	sink    Sink
	remote  Lookup
	audio   verify.AudioIndex
	results map[string]PhaseResult

	corpus   corpus.Corpus
	dict     cmu.Dictionary
	lexicon  *wordnet.Lexicon
	selected []domain.SelectedWord
	records  []domain.WordRecord
	result   Result
}

// NewPipeline creates a Pipeline. remote may be nil to skip remote
// enrichment, audio may be nil to skip audio coverage.
func NewPipeline(log *slog.Logger, cfg Config, sink Sink, remote Lookup, audio verify.AudioIndex) *Pipeline {
	return &Pipeline{
		log:     log.With("component", "curator"),
		cfg:     cfg,
		sink:    sink,
		remote:  remote,
		audio:   audio,
		results: make(map[string]PhaseResult),
	}
}

// Results returns phase results after Run completes.
func (p *Pipeline) Results() map[string]PhaseResult {
	return p.results
}

// Run executes every phase in order, or only verify in report-only mode.
// It stops at the first failing phase.
func (p *Pipeline) Run(ctx context.Context) (Result, error) {
	runID := uuid.New()
	ctx = ctxutil.WithRunID(ctx, runID)
	p.result = Result{
		RunID:     runID,
		Requested: p.cfg.Count,
		Outcomes:  make(map[enricher.Outcome]int),
	}

	toRun := allPhases
	if p.cfg.ReportOnly {
		toRun = []string{PhaseVerify}
	}

	for _, phase := range toRun {
		phaseCtx := ctxutil.WithPhase(ctx, phase)
		log := app.ForContext(phaseCtx, p.log)
		start := time.Now()
		log.Info("starting phase")

		var result PhaseResult
		switch phase {
		case PhaseLoad:
			result = p.runLoad(phaseCtx, log)
		case PhaseSelect:
			result = p.runSelect(phaseCtx, log)
		case PhaseEnrich:
			result = p.runEnrich(phaseCtx, log)
		case PhaseWrite:
			result = p.runWrite(phaseCtx)
		case PhaseVerify:
			result = p.runVerify(phaseCtx, log)
		}
		result.Duration = time.Since(start)
		p.results[phase] = result

		if result.Err != nil {
			log.Error("phase failed",
				slog.String("error", result.Err.Error()),
				slog.Duration("duration", result.Duration),
			)
			return p.result, fmt.Errorf("%s: %w", phase, result.Err)
		}
		log.Info("phase completed",
			slog.Int("processed", result.Processed),
			slog.Int("skipped", result.Skipped),
			slog.Duration("duration", result.Duration),
		)
	}

	app.ForContext(ctx, p.log).Info("pipeline completed", slog.Int("phases_run", len(toRun)))
	return p.result, nil
}

func (p *Pipeline) runLoad(ctx context.Context, log *slog.Logger) PhaseResult {
	c, err := corpus.Load(p.cfg.CorpusPath, p.cfg.MinWordLength)
	if err != nil {
		return PhaseResult{Err: fmt.Errorf("load corpus: %w", err)}
	}
	log.Info("corpus loaded",
		slog.Int("files", c.Stats.Files),
		slog.Int("tokens", c.Stats.Tokens),
		slog.Int("unique_words", c.Stats.UniqueWords),
		slog.Int("with_pos", c.Stats.WithPOS),
	)

	pron, err := cmu.Parse(p.cfg.CMUPath)
	if err != nil {
		return PhaseResult{Err: fmt.Errorf("load pronunciations: %w", err)}
	}
	log.Info("pronunciations loaded",
		slog.Int("total_lines", pron.Stats.TotalLines),
		slog.Int("unique_words", pron.Stats.UniqueWords),
	)

	wn, err := wordnet.Parse(p.cfg.WordNetPath)
	if err != nil {
		return PhaseResult{Err: fmt.Errorf("load wordnet: %w", err)}
	}
	exceptions := 0
	if p.cfg.WordNetExceptionsDir != "" {
		exceptions, err = wn.Lexicon.LoadExceptions(p.cfg.WordNetExceptionsDir)
		if err != nil {
			return PhaseResult{Err: fmt.Errorf("load morphology exceptions: %w", err)}
		}
	}
	if exceptions == 0 {
		log.Warn("no morphology exceptions loaded, irregular inflections will not reduce to their base forms",
			slog.String("dir", p.cfg.WordNetExceptionsDir))
	} else {
		log.Info("morphology exceptions loaded", slog.Int("exceptions", exceptions))
	}
	log.Info("wordnet loaded",
		slog.Int("synsets", wn.Stats.TotalSynsets),
		slog.Int("entries", wn.Stats.TotalEntries),
		slog.Int("unique_lemmas", wn.Stats.UniqueLemmas),
	)

	p.corpus = c
	p.dict = pron.Dictionary
	p.lexicon = wn.Lexicon
	return PhaseResult{
		Processed: wn.Stats.UniqueLemmas,
		Skipped:   wn.Stats.SkippedEntries + wn.Stats.MissingSynsets,
	}
}

func (p *Pipeline) runSelect(ctx context.Context, log *slog.Logger) PhaseResult {
	bounds := selection.LengthBounds{Min: p.cfg.MinWordLength, Max: p.cfg.MaxWordLength}
	candidates := selection.ExtractCandidates(p.lexicon, bounds)
	if len(candidates) == 0 {
		return PhaseResult{Err: domain.ErrNoCandidates}
	}

	scorer := selection.NewScorer(selection.DefaultWeights, p.corpus, p.corpus.MaxFrequency, p.dict)
	ranked := scorer.Rank(candidates)

	filter := selection.NewFilter(p.lexicon, p.cfg.OverselectFactor)
	chosen, stats := filter.Select(ranked, p.cfg.Count)
	p.selected = selection.Promote(chosen, selection.DefaultLevels)
	p.result.Selected = len(p.selected)

	log.Info("candidates filtered",
		slog.Int("candidates", len(candidates)),
		slog.Int("prefix_size", stats.PrefixSize),
		slog.Int("prefix_accepted", stats.PrefixAccepted),
		slog.Int("fallback_scanned", stats.FallbackScan),
		slog.Int("removed", stats.Removed),
	)
	if len(p.selected) < p.cfg.Count {
		log.Warn("fewer words selected than requested",
			slog.Int("selected", len(p.selected)),
			slog.Int("requested", p.cfg.Count),
		)
	}

	return PhaseResult{Processed: len(p.selected), Skipped: stats.Removed}
}

func (p *Pipeline) runEnrich(ctx context.Context, log *slog.Logger) PhaseResult {
	enr := enricher.New(p.corpus, p.dict)
	p.records = make([]domain.WordRecord, 0, len(p.selected))

	for i, sw := range p.selected {
		rec := enr.Enrich(sw.Word, sw.Senses)

		if p.remote != nil && enricher.InBudget(sw.Rank, p.cfg.APIBatch) {
			entries, outcome, err := p.remote.Lookup(ctx, sw.Word)
			if err != nil {
				return PhaseResult{Processed: i, Err: err}
			}
			p.result.Outcomes[outcome]++
			if len(entries) > 0 {
				rec = enricher.Merge(rec, entries)
				p.result.Merged++
			}
		} else if err := ctx.Err(); err != nil {
			return PhaseResult{Processed: i, Err: err}
		}

		p.records = append(p.records, domain.WordRecord{
			ID:             sw.Rank,
			Rank:           sw.Rank,
			Level:          sw.Level,
			EnrichedRecord: rec,
		})

		if (i+1)%progressEvery == 0 {
			log.Info("enrichment progress", slog.Int("done", i+1), slog.Int("total", len(p.selected)))
		}
	}

	if p.remote != nil {
		attrs := []any{slog.Int("merged", p.result.Merged)}
		for o := enricher.OutcomeCached; o <= enricher.OutcomeFailed; o++ {
			attrs = append(attrs, slog.Int(o.String(), p.result.Outcomes[o]))
		}
		log.Info("remote enrichment summary", attrs...)
	}

	return PhaseResult{Processed: len(p.records)}
}

func (p *Pipeline) runWrite(ctx context.Context) PhaseResult {
	res, err := p.sink.Write(ctx, p.records)
	if err != nil {
		return PhaseResult{Err: err}
	}
	p.result.Written = res.Words
	p.result.Examples = res.Examples
	return PhaseResult{Processed: res.Words}
}

func (p *Pipeline) runVerify(ctx context.Context, log *slog.Logger) PhaseResult {
	report, err := verify.New(p.cfg.Count, p.audio, log).Run(ctx, p.sink)
	if err != nil {
		return PhaseResult{Err: err}
	}
	p.result.Report = &report

	if p.cfg.ReportPath != "" {
		if err := verify.WriteJSON(p.cfg.ReportPath, report); err != nil {
			return PhaseResult{Err: err}
		}
		log.Info("report written", slog.String("path", p.cfg.ReportPath))
	}

	failed := 0
	for _, c := range report.Checks {
		if !c.Passed {
			failed++
		}
	}
	return PhaseResult{Processed: len(report.Checks), Skipped: failed}
}

// Passed reports whether the run produced a verified dataset.
func (r Result) Passed() bool {
	return r.Report != nil && r.Report.Passed
}
