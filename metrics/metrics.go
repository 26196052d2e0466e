// Package metrics exposes Prometheus instruments for the crawler. Every
// method is a no-op on a nil *Metrics.
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "crawly_youtube"

type Metrics struct {
	PagesFetched   *prometheus.CounterVec
	SearchErrors   *prometheus.CounterVec
	SearchDuration prometheus.Histogram
	UniqueChannels prometheus.Histogram
	ChannelLookups *prometheus.CounterVec
}

// New registers the instruments with reg (prometheus.DefaultRegisterer when
// reg is nil).
func New(reg prometheus.Registerer) *Metrics {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	factory := promauto.With(reg)

	return &Metrics{
		PagesFetched: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "pages_fetched_total",
				Help:      "Result pages fetched, by HTTP status",
			},
			[]string{"status"},
		),
		SearchErrors: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "search_errors_total",
				Help:      "Searches aborted by an error, by error kind",
			},
			[]string{"kind"},
		),
		SearchDuration: factory.NewHistogram(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "search_duration_seconds",
				Help:      "Wall-clock duration of completed searches",
				Buckets:   []float64{1, 5, 15, 30, 60, 120, 300, 600, 1200},
			},
		),
		UniqueChannels: factory.NewHistogram(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "search_unique_channels",
				Help:      "Unique channel IDs gathered by completed searches",
				Buckets:   prometheus.ExponentialBuckets(1, 2, 12),
			},
		),
		ChannelLookups: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "channel_lookups_total",
				Help:      "Channel profile lookups, by source and outcome",
			},
			[]string{"source", "status"},
		),
	}
}

func (m *Metrics) ObservePage(statusCode int) {
	if m == nil {
		return
	}

	m.PagesFetched.WithLabelValues(strconv.Itoa(statusCode)).Inc()
}

func (m *Metrics) ObserveError(kind string) {
	if m == nil {
		return
	}

	m.SearchErrors.WithLabelValues(kind).Inc()
}

func (m *Metrics) ObserveSearch(d time.Duration, uniqueChannels int) {
	if m == nil {
		return
	}

	m.SearchDuration.Observe(d.Seconds())
	m.UniqueChannels.Observe(float64(uniqueChannels))
}

func (m *Metrics) ObserveLookup(source string, err error) {
	if m == nil {
		return
	}

	status := "ok"
	if err != nil {
		status = "error"
	}
	m.ChannelLookups.WithLabelValues(source, status).Inc()
}

// Handler serves the metrics gathered by g.
func Handler(g prometheus.Gatherer) http.Handler {
	return promhttp.HandlerFor(g, promhttp.HandlerOpts{})
}
