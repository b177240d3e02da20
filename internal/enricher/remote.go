package enricher

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/heartmarshall/vocab-curator/internal/domain"
	"github.com/heartmarshall/vocab-curator/internal/provider"
)

// Fetcher retrieves remote dictionary entries. A nil result with a nil
// error means the word is unknown to the source.
type Fetcher interface {
	Fetch(ctx context.Context, word string) ([]provider.Entry, error)
}

// Outcome describes how a remote lookup was resolved.
type Outcome int

const (
	OutcomeCached Outcome = iota
	OutcomeFetched
	OutcomeNotFound
	OutcomeRateLimited
	OutcomeFailed
)

func (o Outcome) String() string {
	switch o {
	case OutcomeCached:
		return "cached"
	case OutcomeFetched:
		return "fetched"
	case OutcomeNotFound:
		return "not_found"
	case OutcomeRateLimited:
		return "rate_limited"
	default:
		return "failed"
	}
}

// Remote resolves remote entries through a cache. A cached word never
// reaches the fetcher, so an interrupted run resumes where it stopped.
type Remote struct {
	fetcher Fetcher
	cache   Cache
	backoff time.Duration
	log     *slog.Logger
}

// NewRemote creates a Remote. backoff is the pause after a rate-limit reply.
func NewRemote(fetcher Fetcher, cache Cache, backoff time.Duration, logger *slog.Logger) *Remote {
	return &Remote{
		fetcher: fetcher,
		cache:   cache,
		backoff: backoff,
		log:     logger.With("component", "remote_enrichment"),
	}
}

// Lookup returns the entries for word, or nil when none are available this
// attempt. The returned error is only ever a context error.
func (r *Remote) Lookup(ctx context.Context, word string) ([]provider.Entry, Outcome, error) {
	if entries, ok := r.cache.Get(word); ok {
		return entries, OutcomeCached, nil
	}

	entries, err := r.fetcher.Fetch(ctx, word)
	switch {
	case ctx.Err() != nil:
		return nil, OutcomeFailed, ctx.Err()
	case errors.Is(err, domain.ErrRateLimited):
		r.log.WarnContext(ctx, "rate limited, backing off",
			slog.String("word", word), slog.Duration("backoff", r.backoff))
		if err := sleep(ctx, r.backoff); err != nil {
			return nil, OutcomeRateLimited, err
		}
		return nil, OutcomeRateLimited, nil
	case err != nil:
		r.log.DebugContext(ctx, "remote lookup failed", slog.String("word", word), slog.String("error", err.Error()))
		return nil, OutcomeFailed, nil
	case len(entries) == 0:
		return nil, OutcomeNotFound, nil
	}

	if err := r.cache.Put(word, entries); err != nil {
		r.log.WarnContext(ctx, "cache write failed", slog.String("word", word), slog.String("error", err.Error()))
	}
	return entries, OutcomeFetched, nil
}

// InBudget reports whether a word at rank gets remote enrichment. A budget
// of 0 covers every rank.
func InBudget(rank, budget int) bool {
	return budget <= 0 || rank <= budget
}

func sleep(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return nil
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}
