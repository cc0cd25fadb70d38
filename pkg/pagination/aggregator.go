package pagination

import (
	"context"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/Sternrassler/favlist-duration/pkg/client"
)

const (
	// DefaultPageSize is the number of items requested per page.
	DefaultPageSize = 20

	// DefaultMaxPages is the hard cap on pages fetched in one run.
	DefaultMaxPages = 50
)

// Prometheus metrics for aggregation runs.
var (
	favlistRunsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "favlist_runs_total",
		Help: "Total aggregation runs by outcome",
	}, []string{"outcome"})

	favlistPagesFetchedTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "favlist_pages_fetched_total",
		Help: "Total pages successfully fetched by aggregation runs",
	})

	favlistPageCapReachedTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "favlist_page_cap_reached_total",
		Help: "Total aggregation runs truncated by the page cap",
	})
)

// Config holds aggregator configuration.
type Config struct {
	// PageSize is sent as the page size parameter and decides whether a page is full.
	PageSize int

	// MaxPages bounds the number of requests per run.
	MaxPages int
}

// DefaultConfig returns the default aggregator configuration.
func DefaultConfig() Config {
	return Config{
		PageSize: DefaultPageSize,
		MaxPages: DefaultMaxPages,
	}
}

// PageFetcher fetches a single page of a collection.
type PageFetcher interface {
	FetchPage(ctx context.Context, collectionID string, page, pageSize int) (*client.Page, error)
}

// Result is the outcome of a completed run.
type Result struct {
	// TotalSeconds is the sum of durations of counted items.
	TotalSeconds int64

	// Count is the number of items that carried a duration.
	Count int

	// Pages is the number of pages fetched.
	Pages int

	// Truncated is set when the run stopped at MaxPages while more pages were announced.
	Truncated bool
}

// Aggregator drives a PageFetcher across successive pages.
// It holds no per-run state and may serve concurrent runs.
type Aggregator struct {
	fetcher PageFetcher
	config  Config
	logger  zerolog.Logger
}

// NewAggregator creates a new aggregator.
func NewAggregator(fetcher PageFetcher, config Config) *Aggregator {
	if config.PageSize <= 0 {
		config.PageSize = DefaultPageSize
	}
	if config.MaxPages <= 0 {
		config.MaxPages = DefaultMaxPages
	}

	return &Aggregator{
		fetcher: fetcher,
		config:  config,
		logger:  log.With().Str("component", "aggregator").Logger(),
	}
}

// Config returns the effective configuration.
func (a *Aggregator) Config() Config {
	return a.config
}

// Aggregate fetches the collection page by page and returns the totals.
// Fetch errors are returned unchanged; no partial result is returned with them.
func (a *Aggregator) Aggregate(ctx context.Context, collectionID string) (Result, error) {
	if collectionID == "" {
		return Result{}, errors.New("collection id is required")
	}

	start := time.Now()
	var result Result
	more := true

	for page := 1; more && page <= a.config.MaxPages; page++ {
		p, err := a.fetcher.FetchPage(ctx, collectionID, page, a.config.PageSize)
		if err != nil {
			favlistRunsTotal.WithLabelValues("error").Inc()
			a.logger.Warn().
				Err(err).
				Str("collection_id", collectionID).
				Int("page", page).
				Msg("Aggregation aborted")
			return Result{}, err
		}

		for _, item := range p.Items {
			if item.HasDuration() {
				result.TotalSeconds += *item.Duration
				result.Count++
			}
		}
		result.Pages = page
		favlistPagesFetchedTotal.Inc()

		more = p.HasMore && len(p.Items) == a.config.PageSize

		a.logger.Debug().
			Str("collection_id", collectionID).
			Int("page", page).
			Int("items", len(p.Items)).
			Bool("has_more", p.HasMore).
			Int("count", result.Count).
			Int64("total_seconds", result.TotalSeconds).
			Msg("Page aggregated")
	}

	if more {
		result.Truncated = true
		favlistPageCapReachedTotal.Inc()
		a.logger.Warn().
			Str("collection_id", collectionID).
			Int("max_pages", a.config.MaxPages).
			Msg("Page cap reached, result truncated")
	}

	favlistRunsTotal.WithLabelValues("ok").Inc()
	a.logger.Info().
		Str("collection_id", collectionID).
		Int("pages", result.Pages).
		Int("count", result.Count).
		Int64("total_seconds", result.TotalSeconds).
		Dur("duration", time.Since(start)).
		Msg("Aggregation complete")

	return result, nil
}
