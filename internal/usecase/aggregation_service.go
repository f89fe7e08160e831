package usecase

import (
	"context"
	"time"

	crerr "github.com/cockroachdb/errors"
	"github.com/sourcegraph/conc/iter"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"

	"github.com/riskibarqy/sportstream/internal/domain/logo"
	"github.com/riskibarqy/sportstream/internal/domain/match"
	"github.com/riskibarqy/sportstream/internal/domain/priority"
	"github.com/riskibarqy/sportstream/internal/platform/id"
	"github.com/riskibarqy/sportstream/internal/platform/logging"
)

// RunMetrics receives the counters of one pipeline run.
type RunMetrics interface {
	ObserveFeed(feed string, records int, failed bool)
	ObserveRun(payload match.Payload, carried int, elapsed time.Duration)
}

type nopMetrics struct{}

func (nopMetrics) ObserveFeed(string, int, bool) {}
func (nopMetrics) ObserveRun(match.Payload, int, time.Duration) {}

type AggregationOptions struct {
	Region      string
	Wildcard    string
	Table       priority.Table
	Location    *time.Location
	Logos       logo.Lookup
	FeedTimeout time.Duration

	Metrics RunMetrics
	IDs     id.Generator
	Logger  *logging.Logger
	Now     func() time.Time
}

// AggregationService runs fetch, merge, carry-forward and ranking, then
// persists the payload. Feeds are listed in merge precedence order.
type AggregationService struct {
	feeds  []match.FeedProvider
	repo   match.PayloadRepository
	ranker *Ranker
	opts   AggregationOptions
}

type feedResult struct {
	name    string
	records []match.Match
	err     error
}

func NewAggregationService(feeds []match.FeedProvider, repo match.PayloadRepository, ranker *Ranker, opts AggregationOptions) *AggregationService {
	if opts.Metrics == nil {
		opts.Metrics = nopMetrics{}
	}
	if opts.IDs == nil {
		opts.IDs = id.NewUUIDGenerator()
	}
	if opts.Logger == nil {
		opts.Logger = logging.Default()
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	if opts.FeedTimeout <= 0 {
		opts.FeedTimeout = 45 * time.Second
	}
	if opts.Location == nil {
		opts.Location = time.UTC
	}
	if ranker == nil {
		ranker = NewRanker(DefaultRankingConfig())
	}

	return &AggregationService{feeds: feeds, repo: repo, ranker: ranker, opts: opts}
}

// Run never fails because of a feed. Only a persistence write error is
// returned.
func (s *AggregationService) Run(ctx context.Context) (match.Payload, error) {
	runID, err := s.opts.IDs.NewID()
	if err != nil {
		return match.Payload{}, crerr.Wrap(err, "generate run id")
	}
	logger := s.opts.Logger.With("run_id", runID)
	now := s.opts.Now()

	ctx, span := startSpan(ctx, "usecase.AggregationService.Run",
		attribute.String("run.id", runID),
		attribute.String("run.region", s.opts.Region),
	)
	defer span.End()

	lists := s.fetchAll(ctx, now, logger)

	merged := Merge(lists...)
	previous := s.loadPrevious(ctx, logger)
	working, carried := CarryForward(merged, previous.AllMatches, now, s.ranker.cfg.Retention)

	payload := s.ranker.Rank(working, RankingContext{
		Now:      now,
		Region:   s.opts.Region,
		Wildcard: s.opts.Wildcard,
		Table:    s.opts.Table,
		Location: s.opts.Location,
		Logos:    s.opts.Logos,
	})

	if err := s.repo.Save(ctx, payload); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "save payload")
		return match.Payload{}, crerr.Wrap(err, "save payload")
	}

	elapsed := s.opts.Now().Sub(now)
	s.opts.Metrics.ObserveRun(payload, carried, elapsed)
	span.SetAttributes(
		attribute.Int("run.merged", len(merged)),
		attribute.Int("run.carried", carried),
		attribute.Int("run.all_matches", len(payload.AllMatches)),
	)
	logger.InfoContext(ctx, "aggregation run completed",
		"merged", len(merged),
		"carried", carried,
		"trending", len(payload.Trending),
		"wildcard", len(payload.WildcardMatches),
		"categories", len(payload.CategoryOrder),
		"all_matches", len(payload.AllMatches),
		"elapsed", elapsed,
	)
	return payload, nil
}

func (s *AggregationService) fetchAll(ctx context.Context, now time.Time, logger *logging.Logger) [][]match.Match {
	results := iter.Map(s.feeds, func(feed *match.FeedProvider) feedResult {
		provider := *feed
		fetchCtx, cancel := context.WithTimeout(ctx, s.opts.FeedTimeout)
		defer cancel()

		fetchCtx, span := startSpan(fetchCtx, "usecase.AggregationService.fetch", attribute.String("feed.name", provider.Name()))
		defer span.End()

		records, err := provider.Fetch(fetchCtx, now)
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, "fetch feed")
		}
		span.SetAttributes(attribute.Int("feed.records", len(records)))
		return feedResult{name: provider.Name(), records: records, err: err}
	})

	lists := make([][]match.Match, 0, len(results))
	for _, result := range results {
		if result.err != nil {
			logger.WarnContext(ctx, "feed degraded, contributing no records", "feed", result.name, "error", result.err)
			s.opts.Metrics.ObserveFeed(result.name, 0, true)
			lists = append(lists, nil)
			continue
		}
		logger.DebugContext(ctx, "feed fetched", "feed", result.name, "records", len(result.records))
		s.opts.Metrics.ObserveFeed(result.name, len(result.records), false)
		lists = append(lists, result.records)
	}
	return lists
}

func (s *AggregationService) loadPrevious(ctx context.Context, logger *logging.Logger) match.Payload {
	previous, ok, err := s.repo.Load(ctx)
	if err != nil {
		logger.WarnContext(ctx, "previous payload unavailable, carry-forward disabled for this run", "error", err)
		return match.EmptyPayload(0)
	}
	if !ok {
		return match.EmptyPayload(0)
	}
	return previous
}
