// Package metrics registers the Prometheus collectors the Session and
// transfer engine report against, gated entirely on whether a caller
// supplied a registerer (hotline.WithMetricsRegisterer,
// transfer.WithMetricsRegisterer). Nothing here is mandatory: a
// Collector built with a nil registerer is a safe no-op.
package metrics

import "github.com/prometheus/client_golang/prometheus"

// Collector bundles the counters and gauges the core reports:
// transaction throughput, transfer byte counts by direction, and
// active-session/transfer gauges.
type Collector struct {
	enabled bool

	transactionsSent   prometheus.Counter
	transactionsFailed prometheus.Counter
	transferBytes      *prometheus.CounterVec
	activeTransfers    prometheus.Gauge
	activeSessions     prometheus.Gauge
}

// New builds a Collector. If reg is nil, the returned Collector's
// methods are no-ops, so callers never need a nil check.
func New(reg prometheus.Registerer) *Collector {
	if reg == nil {
		return &Collector{}
	}

	c := &Collector{
		enabled: true,
		transactionsSent: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "hotline_transactions_sent_total",
			Help: "Total transactions sent on control sessions.",
		}),
		transactionsFailed: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "hotline_transactions_failed_total",
			Help: "Total transactions that resolved with an error, timeout, or cancellation.",
		}),
		transferBytes: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "hotline_transfer_bytes_total",
			Help: "Total bytes moved over transfer channels, by direction.",
		}, []string{"direction"}),
		activeTransfers: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "hotline_active_transfers",
			Help: "Number of transfer channels currently open.",
		}),
		activeSessions: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "hotline_active_sessions",
			Help: "Number of control sessions currently logged in.",
		}),
	}

	reg.MustRegister(
		c.transactionsSent,
		c.transactionsFailed,
		c.transferBytes,
		c.activeTransfers,
		c.activeSessions,
	)

	return c
}

func (c *Collector) TransactionSent() {
	if !c.enabled {
		return
	}
	c.transactionsSent.Inc()
}

func (c *Collector) TransactionFailed() {
	if !c.enabled {
		return
	}
	c.transactionsFailed.Inc()
}

func (c *Collector) TransferBytes(direction string, n int) {
	if !c.enabled {
		return
	}
	c.transferBytes.WithLabelValues(direction).Add(float64(n))
}

func (c *Collector) SessionLoggedIn() {
	if !c.enabled {
		return
	}
	c.activeSessions.Inc()
}

func (c *Collector) SessionDisconnected() {
	if !c.enabled {
		return
	}
	c.activeSessions.Dec()
}

func (c *Collector) TransferOpened() {
	if !c.enabled {
		return
	}
	c.activeTransfers.Inc()
}

func (c *Collector) TransferClosed() {
	if !c.enabled {
		return
	}
	c.activeTransfers.Dec()
}
