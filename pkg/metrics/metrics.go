// Package metrics exposes book operation counters and gauges over
// Prometheus' client_golang, the metrics library already present
// (indirectly, via the libp2p stack) in the teacher's dependency
// graph and wired here directly.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/uhyunpark/lobcore/pkg/book"
)

// BookMetrics holds the Prometheus instruments for one symbol's book.
type BookMetrics struct {
	adds    prometheus.Counter
	cancels prometheus.Counter
	amends  prometheus.Counter
	rejects prometheus.Counter

	activeOrders prometheus.Gauge
	bidLevels    prometheus.Gauge
	askLevels    prometheus.Gauge
	spreadTicks  prometheus.Gauge
}

// NewBookMetrics registers a fresh set of instruments for symbol
// against reg. Callers typically pass prometheus.DefaultRegisterer.
func NewBookMetrics(reg prometheus.Registerer, symbol string) *BookMetrics {
	factory := promauto.With(reg)
	labels := prometheus.Labels{"symbol": symbol}

	return &BookMetrics{
		adds: factory.NewCounter(prometheus.CounterOpts{
			Name:        "lob_book_adds_total",
			Help:        "Total number of orders accepted by Add.",
			ConstLabels: labels,
		}),
		cancels: factory.NewCounter(prometheus.CounterOpts{
			Name:        "lob_book_cancels_total",
			Help:        "Total number of orders removed by Cancel.",
			ConstLabels: labels,
		}),
		amends: factory.NewCounter(prometheus.CounterOpts{
			Name:        "lob_book_amends_total",
			Help:        "Total number of orders modified by Amend.",
			ConstLabels: labels,
		}),
		rejects: factory.NewCounter(prometheus.CounterOpts{
			Name:        "lob_book_rejects_total",
			Help:        "Total number of rejected Add/Amend calls (duplicate id, zero quantity, bad price).",
			ConstLabels: labels,
		}),
		activeOrders: factory.NewGauge(prometheus.GaugeOpts{
			Name:        "lob_book_active_orders",
			Help:        "Number of currently resting orders.",
			ConstLabels: labels,
		}),
		bidLevels: factory.NewGauge(prometheus.GaugeOpts{
			Name:        "lob_book_bid_levels",
			Help:        "Number of distinct bid price levels.",
			ConstLabels: labels,
		}),
		askLevels: factory.NewGauge(prometheus.GaugeOpts{
			Name:        "lob_book_ask_levels",
			Help:        "Number of distinct ask price levels.",
			ConstLabels: labels,
		}),
		spreadTicks: factory.NewGauge(prometheus.GaugeOpts{
			Name:        "lob_book_spread_ticks",
			Help:        "Best ask minus best bid, in ticks; 0 if either side is empty.",
			ConstLabels: labels,
		}),
	}
}

// ObserveAdd records the outcome of an Add call.
func (m *BookMetrics) ObserveAdd(accepted bool) {
	if accepted {
		m.adds.Inc()
	} else {
		m.rejects.Inc()
	}
}

// ObserveCancel records the outcome of a Cancel call.
func (m *BookMetrics) ObserveCancel(found bool) {
	if found {
		m.cancels.Inc()
	}
}

// ObserveAmend records the outcome of an Amend call.
func (m *BookMetrics) ObserveAmend(accepted bool) {
	if accepted {
		m.amends.Inc()
	} else {
		m.rejects.Inc()
	}
}

// Sync refreshes the gauges from a fresh Stats read. Call this after
// every mutation, or on a timer for a read-mostly workload.
func (m *BookMetrics) Sync(stats book.Stats) {
	m.activeOrders.Set(float64(stats.ActiveOrders))
	m.bidLevels.Set(float64(stats.BidLevels))
	m.askLevels.Set(float64(stats.AskLevels))
	m.spreadTicks.Set(float64(stats.Spread))
}

// Handler returns the standard Prometheus scrape handler.
func Handler() http.Handler {
	return promhttp.Handler()
}
