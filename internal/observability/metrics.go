package observability

import (
	"context"
	"strings"
	"time"

	crerr "github.com/cockroachdb/errors"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/push"

	"github.com/riskibarqy/sportstream/internal/domain/match"
)

const pushJob = "sportstream_sitegen"

// RunMetrics collects the counters of one CLI invocation on a private
// registry. A batch job does not live long enough to be scraped, so the
// registry is pushed to a Pushgateway at the end of the run.
type RunMetrics struct {
	registry *prometheus.Registry

	feedRecords   *prometheus.GaugeVec
	feedFailures  *prometheus.CounterVec
	carried       prometheus.Gauge
	outputRecords *prometheus.GaugeVec
	runDuration   prometheus.Histogram
	lastSuccess   prometheus.Gauge
}

func NewRunMetrics() *RunMetrics {
	m := &RunMetrics{
		registry: prometheus.NewRegistry(),
		feedRecords: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Name: "sportstream_feed_records",
			Help: "Records returned by a feed in the last run.",
		}, []string{"feed"}),
		feedFailures: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "sportstream_feed_failures_total",
			Help: "Feed fetches that failed and contributed no records.",
		}, []string{"feed"}),
		carried: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "sportstream_carried_records",
			Help: "Records re-inserted from the previous payload.",
		}),
		outputRecords: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Name: "sportstream_output_records",
			Help: "Records written per payload bucket.",
		}, []string{"bucket"}),
		runDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "sportstream_run_duration_seconds",
			Help:    "Wall time of one aggregation run.",
			Buckets: []float64{.5, 1, 2.5, 5, 10, 15, 30, 45, 60, 90},
		}),
		lastSuccess: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "sportstream_last_success_timestamp_seconds",
			Help: "Unix time of the last run that wrote a payload.",
		}),
	}
	m.registry.MustRegister(m.feedRecords, m.feedFailures, m.carried, m.outputRecords, m.runDuration, m.lastSuccess)
	return m
}

func (m *RunMetrics) Registry() *prometheus.Registry {
	return m.registry
}

func (m *RunMetrics) ObserveFeed(feed string, records int, failed bool) {
	m.feedRecords.WithLabelValues(feed).Set(float64(records))
	if failed {
		m.feedFailures.WithLabelValues(feed).Inc()
	} else {
		// keep the series present with a zero value
		m.feedFailures.WithLabelValues(feed).Add(0)
	}
}

func (m *RunMetrics) ObserveRun(payload match.Payload, carried int, elapsed time.Duration) {
	m.carried.Set(float64(carried))
	m.outputRecords.WithLabelValues("trending").Set(float64(len(payload.Trending)))
	m.outputRecords.WithLabelValues("wildcard").Set(float64(len(payload.WildcardMatches)))
	m.outputRecords.WithLabelValues("all_matches").Set(float64(len(payload.AllMatches)))

	categories := 0
	for _, items := range payload.Categories {
		categories += len(items)
	}
	m.outputRecords.WithLabelValues("categories").Set(float64(categories))
	m.runDuration.Observe(elapsed.Seconds())
	m.lastSuccess.Set(float64(time.UnixMilli(payload.Updated).Unix()))
}

// Push sends the registry to gatewayURL. An empty URL is a no-op.
func (m *RunMetrics) Push(ctx context.Context, gatewayURL, instance string) error {
	gatewayURL = strings.TrimSpace(gatewayURL)
	if gatewayURL == "" {
		return nil
	}
	pusher := push.New(gatewayURL, pushJob).Gatherer(m.registry)
	if instance = strings.TrimSpace(instance); instance != "" {
		pusher = pusher.Grouping("instance", instance)
	}
	if err := pusher.PushContext(ctx); err != nil {
		return crerr.Wrap(err, "push metrics")
	}
	return nil
}
