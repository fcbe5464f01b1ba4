package transfer

import (
	"io"
	"net"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/sirupsen/logrus"

	"github.com/fuzzywalrus/hotline-sub000/internal/metrics"
	"github.com/fuzzywalrus/hotline-sub000/internal/ratelimit"
)

// ResumePolicy governs how a folder upload responds to a server's
// resumeFile action.
type ResumePolicy int

const (
	// ResumeAsSendFile treats resumeFile identically to sendFile,
	// retransmitting the item from byte zero. This is the default,
	// matching the source's only observed behaviour.
	ResumeAsSendFile ResumePolicy = iota
	// ResumeReject fails the item instead of silently restarting it.
	ResumeReject
)

// Option configures a Transfer, mirroring the root package's
// functional-options pattern.
type Option func(*config) error

type config struct {
	dialer             *net.Dialer
	connectTimeout     time.Duration
	chunkBytes         int
	progressEmitHz     int
	resumePolicy       ResumePolicy
	bandwidthLimitBps  int64
	logger             *logrus.Logger
	metricsRegisterer  prometheus.Registerer
	metrics            *metrics.Collector
}

func defaultConfig() *config {
	return &config{
		dialer:         &net.Dialer{Timeout: 15 * time.Second},
		connectTimeout: 15 * time.Second,
		chunkBytes:     64 * 1024,
		progressEmitHz: 20,
		resumePolicy:   ResumeAsSendFile,
		logger:         newDisabledLogger(),
	}
}

// WithDialer supplies a custom net.Dialer for the transfer channel.
func WithDialer(d *net.Dialer) Option {
	return func(c *config) error {
		c.dialer = d
		return nil
	}
}

// WithConnectTimeout sets the deadline applied to each read and write
// on the transfer channel once it is dialed, the handshake included.
// Dialing itself is bounded by the dialer's own Timeout.
func WithConnectTimeout(d time.Duration) Option {
	return func(c *config) error {
		c.connectTimeout = d
		return nil
	}
}

// WithChunkSize sets the DATA-fork streaming chunk size. Default 64
// KiB.
func WithChunkSize(n int) Option {
	return func(c *config) error {
		c.chunkBytes = n
		return nil
	}
}

// WithProgressHz caps the TransferProgress emission rate. Default 20;
// overridable per call.
func WithProgressHz(hz int) Option {
	return func(c *config) error {
		c.progressEmitHz = hz
		return nil
	}
}

// WithResumePolicy selects how a folder upload answers a resumeFile
// action.
func WithResumePolicy(p ResumePolicy) Option {
	return func(c *config) error {
		c.resumePolicy = p
		return nil
	}
}

// WithBandwidthLimit caps the transfer channel's throughput in bytes
// per second via internal/ratelimit.
func WithBandwidthLimit(bytesPerSecond int64) Option {
	return func(c *config) error {
		c.bandwidthLimitBps = bytesPerSecond
		return nil
	}
}

// WithLogger supplies a logrus logger; the default is disabled output.
func WithLogger(l *logrus.Logger) Option {
	return func(c *config) error {
		if l != nil {
			c.logger = l
		}
		return nil
	}
}

// WithMetricsRegisterer enables the Prometheus collectors shared with
// the control session's internal/metrics package.
func WithMetricsRegisterer(reg prometheus.Registerer) Option {
	return func(c *config) error {
		c.metricsRegisterer = reg
		return nil
	}
}

func newDisabledLogger() *logrus.Logger {
	l := logrus.New()
	l.SetOutput(io.Discard)
	l.SetLevel(logrus.PanicLevel)
	return l
}

func (c *config) limiter() *ratelimit.Limiter {
	return ratelimit.New(c.bandwidthLimitBps)
}
