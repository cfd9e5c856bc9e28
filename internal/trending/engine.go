package trending

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"scenehub/internal/metrics"
	"scenehub/internal/shared"
)

// Source returns trending candidates: approved, unreported scenes created at or after since,
// most liked first.
type Source interface {
	TrendingCandidates(ctx context.Context, since time.Time, limit int) ([]shared.Scene, error)
}

// Cache stores computed rankings keyed by the requested limit.
type Cache interface {
	GetTrending(ctx context.Context, limit int) ([]Ranked, bool, error)
	SetTrending(ctx context.Context, limit int, ranked []Ranked) error
}

type Engine struct {
	source Source
	cache  Cache
	now    func() time.Time
	logger *slog.Logger
}

type Option func(*Engine)

// WithCache enables caching of computed rankings. Cache errors are logged and otherwise ignored.
func WithCache(c Cache) Option {
	return func(e *Engine) { e.cache = c }
}

func WithClock(now func() time.Time) Option {
	return func(e *Engine) { e.now = now }
}

func WithLogger(l *slog.Logger) Option {
	return func(e *Engine) { e.logger = l }
}

func NewEngine(source Source, opts ...Option) *Engine {
	e := &Engine{source: source, now: time.Now, logger: slog.Default()}
	for _, opt := range opts {
		opt(e)
	}
	e.logger = e.logger.With("component", "trending")
	return e
}

// Top returns the limit highest scoring scenes of the last Window. A failed fetch yields an empty
// ranking and the error.
func (e *Engine) Top(ctx context.Context, limit int) ([]Ranked, error) {
	if limit <= 0 {
		limit = DefaultLimit
	}

	if e.cache != nil {
		cached, ok, err := e.cache.GetTrending(ctx, limit)
		if err != nil {
			e.logger.Warn("trending cache read failed", "error", err)
		} else if ok {
			metrics.TrendingComputations.WithLabelValues("cache").Inc()
			return cached, nil
		}
	}

	now := e.now()
	candidates, err := e.source.TrendingCandidates(ctx, now.Add(-Window), CandidateLimit)
	if err != nil {
		metrics.TrendingComputations.WithLabelValues("failed").Inc()
		e.logger.Error("failed to fetch trending candidates", "error", err)
		return []Ranked{}, fmt.Errorf("fetch trending candidates: %w", err)
	}

	ranked := Rank(candidates, now, limit)
	metrics.TrendingComputations.WithLabelValues("computed").Inc()

	if e.cache != nil {
		if err := e.cache.SetTrending(ctx, limit, ranked); err != nil {
			e.logger.Warn("trending cache write failed", "error", err)
		}
	}
	return ranked, nil
}
