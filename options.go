package hotline

import (
	"io"
	"net"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/sirupsen/logrus"
)

// Option is a functional option for configuring a Session.
type Option func(*Session) error

// Default tuning values applied when the corresponding Option is not
// supplied.
const (
	defaultPort               = 5500
	defaultReplyTimeout       = 30 * time.Second
	defaultHandshakeTimeout   = 15 * time.Second
	defaultKeepAliveInterval  = 180 * time.Second
	defaultDownloadChunkBytes = 64 * 1024
	defaultProgressEmitHz     = 20
	defaultTransferPortOffset = 1
)

// WithReplyTimeout overrides the default 30s request/reply deadline.
func WithReplyTimeout(d time.Duration) Option {
	return func(s *Session) error {
		s.replyTimeout = d
		return nil
	}
}

// WithHandshakeTimeout overrides the default 15s handshake deadline.
func WithHandshakeTimeout(d time.Duration) Option {
	return func(s *Session) error {
		s.handshakeTimeout = d
		return nil
	}
}

// WithKeepAliveInterval overrides the default 180s keep-alive period.
func WithKeepAliveInterval(d time.Duration) Option {
	return func(s *Session) error {
		s.keepAliveInterval = d
		return nil
	}
}

// WithTransferPortOffset overrides the default +1 offset applied to
// the control port to reach the transfer port.
func WithTransferPortOffset(offset int) Option {
	return func(s *Session) error {
		s.transferPortOffset = offset
		return nil
	}
}

// WithStringEncoding selects MacRoman (default) or UTF8 for text
// fields the session encodes on send.
func WithStringEncoding(enc StringEncoding) Option {
	return func(s *Session) error {
		s.stringEncoding = enc
		return nil
	}
}

// WithLogger attaches a logrus logger; Session defaults to a disabled
// logger otherwise (see newDisabledLogger).
func WithLogger(l *logrus.Logger) Option {
	return func(s *Session) error {
		s.logger = l
		return nil
	}
}

// WithDialer sets a custom net.Dialer, e.g. to bind a source address.
func WithDialer(d *net.Dialer) Option {
	return func(s *Session) error {
		s.dialer = d
		return nil
	}
}

// WithMetricsRegisterer wires a Prometheus registerer; metrics are
// disabled (no-op) unless this option is supplied.
func WithMetricsRegisterer(reg prometheus.Registerer) Option {
	return func(s *Session) error {
		s.metricsRegisterer = reg
		return nil
	}
}

// ChatRecord is one line an embedder may want to persist as chat
// history. Storage is the embedder's responsibility; the core only
// hands records off.
type ChatRecord struct {
	Body     string
	Username string
	Type     string
}

// WithChatHistorySink registers a callback invoked for every chat-like
// event the session observes, ahead of (not instead of) emitting the
// corresponding Event on the event stream.
func WithChatHistorySink(sink func(ChatRecord)) Option {
	return func(s *Session) error {
		s.chatHistorySink = sink
		return nil
	}
}

func newDisabledLogger() *logrus.Logger {
	l := logrus.New()
	l.SetOutput(io.Discard)
	l.SetLevel(logrus.PanicLevel)
	return l
}
