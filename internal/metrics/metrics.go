// Package metrics provides Prometheus metrics for the auction engine.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "auction_arena"

// Manager owns the engine's Prometheus collectors.
type Manager struct {
	registry *prometheus.Registry

	auctionsStarted   prometheus.Counter
	bidsAccepted      prometheus.Counter
	bidsRejected      *prometheus.CounterVec
	settlements       *prometheus.CounterVec
	settlementRetries prometheus.Counter
	activeAuctions    prometheus.Gauge
}

// NewManager registers all collectors on a fresh registry.
func NewManager() *Manager {
	registry := prometheus.NewRegistry()
	factory := promauto.With(registry)

	return &Manager{
		registry: registry,
		auctionsStarted: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "auctions_started_total",
			Help:      "Auctions opened for bidding.",
		}),
		bidsAccepted: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "bids_accepted_total",
			Help:      "Bids admitted by the state machine.",
		}),
		bidsRejected: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "bids_rejected_total",
			Help:      "Bids rejected, by reason.",
		}, []string{"reason"}),
		settlements: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "settlements_total",
			Help:      "Auction settlements, by outcome.",
		}, []string{"outcome"}),
		settlementRetries: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "settlement_retries_total",
			Help:      "Repository settlement writes that had to be retried.",
		}),
		activeAuctions: factory.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "active_auctions",
			Help:      "Auctions currently accepting bids (0 or 1).",
		}),
	}
}

// Registry exposes the underlying registry for the /metrics handler.
func (m *Manager) Registry() *prometheus.Registry { return m.registry }

func (m *Manager) AuctionStarted() {
	m.auctionsStarted.Inc()
	m.activeAuctions.Set(1)
}

func (m *Manager) AuctionClosed() {
	m.activeAuctions.Set(0)
}

func (m *Manager) BidAccepted() {
	m.bidsAccepted.Inc()
}

func (m *Manager) BidRejected(reason string) {
	m.bidsRejected.WithLabelValues(reason).Inc()
}

func (m *Manager) Settled(outcome string) {
	m.settlements.WithLabelValues(outcome).Inc()
}

func (m *Manager) SettlementRetried() {
	m.settlementRetries.Inc()
}
