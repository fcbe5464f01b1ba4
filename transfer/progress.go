package transfer

import (
	"io"
	"time"

	"github.com/montanaflynn/stats"
	"golang.org/x/time/rate"
)

// Progress is the tagged union of events a Transfer emits on its
// Core → UI progress stream: Preparing | Connecting | Connected |
// TransferProgress | ItemProgress | Completed{url?} | Cancelled |
// Error{kind}.
type Progress interface {
	isProgress()
}

// Preparing is emitted first, before the transfer channel is dialed.
type Preparing struct{}

// Connecting is emitted while the transfer channel is being dialed.
type Connecting struct{}

// Connected is emitted once the handshake has completed successfully.
type Connected struct{}

// TransferProgress reports byte-level progress for the fork currently
// streaming. Speed and ETA are nil until the Estimator has at least one
// sample.
type TransferProgress struct {
	Name     string
	Bytes    int64
	Total    int64
	Fraction float64
	Speed    *float64       // bytes/second
	ETA      *time.Duration
}

// ItemProgress reports folder-transfer item sequencing, supplementing
// the byte-level TransferProgress stream with (itemName, itemIndex,
// itemTotal).
type ItemProgress struct {
	Name  string
	Index int
	Total int
}

// Completed is the terminal success event. URL is empty for transfer
// kinds with no on-disk artifact (uploads, banner-to-memory).
type Completed struct{ URL string }

// Cancelled is the terminal event for a caller-initiated abort.
type Cancelled struct{}

// Error is the terminal event for any failure; Kind is one of
// "ConnectFailed", "HandshakeFailed", "ProtocolViolation", "Io", or
// "DestinationUnwritable".
type Error struct{ Kind string }

func (Preparing) isProgress()        {}
func (Connecting) isProgress()       {}
func (Connected) isProgress()        {}
func (TransferProgress) isProgress() {}
func (ItemProgress) isProgress()     {}
func (Completed) isProgress()        {}
func (Cancelled) isProgress()        {}
func (Error) isProgress()            {}

// progressSink delivers Progress values to a single subscriber channel,
// throttling unforced updates to at most emitHz per second and
// coalescing to the latest value when the subscriber falls behind.
// Emission is idempotent and never blocks I/O.
type progressSink struct {
	out     chan Progress
	limiter *rate.Limiter
}

func newProgressSink(emitHz int) *progressSink {
	if emitHz <= 0 {
		emitHz = 20
	}
	return &progressSink{
		out:     make(chan Progress, 1),
		limiter: rate.NewLimiter(rate.Limit(emitHz), 1),
	}
}

// emit delivers p, subject to the rate limit unless force is set
// (callers force the Preparing/Connecting/Connected lifecycle events
// and the terminal events).
func (s *progressSink) emit(p Progress, force bool) {
	if !force && !s.limiter.Allow() {
		return
	}
	select {
	case s.out <- p:
	default:
		select {
		case <-s.out:
		default:
		}
		select {
		case s.out <- p:
		default:
		}
	}
}

func (s *progressSink) close() { close(s.out) }

// Estimator smooths instantaneous byte-rate samples into a speed and
// ETA figure, wrapping montanaflynn/stats for the averaging window
// behind an exponential-moving-average rate estimate.
type Estimator struct {
	alpha   float64
	ema     float64
	primed  bool
	samples []float64
	window  int
}

// NewEstimator builds an Estimator with the given EMA smoothing factor
// (0 < alpha <= 1; higher weights recent samples more heavily) and a
// window size used to dampen single-sample spikes before they enter
// the EMA.
func NewEstimator(alpha float64, window int) *Estimator {
	if alpha <= 0 || alpha > 1 {
		alpha = 0.3
	}
	if window <= 0 {
		window = 5
	}
	return &Estimator{alpha: alpha, window: window}
}

// Sample records bytesDelta bytes transferred over dt.
func (e *Estimator) Sample(bytesDelta int64, dt time.Duration) {
	if dt <= 0 {
		return
	}
	rate := float64(bytesDelta) / dt.Seconds()
	e.samples = append(e.samples, rate)
	if len(e.samples) > e.window {
		e.samples = e.samples[len(e.samples)-e.window:]
	}
	smoothed, err := stats.Mean(stats.Float64Data(e.samples))
	if err != nil {
		smoothed = rate
	}
	if !e.primed {
		e.ema = smoothed
		e.primed = true
		return
	}
	e.ema = e.alpha*smoothed + (1-e.alpha)*e.ema
}

// Speed returns the current smoothed bytes/second estimate, or false
// if no sample has been recorded yet.
func (e *Estimator) Speed() (float64, bool) {
	if !e.primed || e.ema <= 0 {
		return 0, false
	}
	return e.ema, true
}

// ETA returns the estimated remaining duration for remaining bytes.
func (e *Estimator) ETA(remaining int64) (time.Duration, bool) {
	speed, ok := e.Speed()
	if !ok || remaining <= 0 {
		return 0, false
	}
	return time.Duration(float64(remaining)/speed) * time.Second, true
}

// progressReader wraps an io.Reader, invoking onRead after every read
// with the cumulative byte count.
type progressReader struct {
	io.Reader
	onRead func(total int64)
	total  int64
}

func (r *progressReader) Read(p []byte) (int, error) {
	n, err := r.Reader.Read(p)
	r.total += int64(n)
	if r.onRead != nil && n > 0 {
		r.onRead(r.total)
	}
	return n, err
}

// progressWriter wraps an io.Writer, invoking onWrite after every write
// with the cumulative byte count.
type progressWriter struct {
	io.Writer
	onWrite     func(total int64)
	checkCancel func() bool
	total       int64
}

func (w *progressWriter) Write(p []byte) (int, error) {
	if w.checkCancel != nil && w.checkCancel() {
		return 0, &CancelledError{}
	}
	n, err := w.Writer.Write(p)
	w.total += int64(n)
	if w.onWrite != nil && n > 0 {
		w.onWrite(w.total)
	}
	return n, err
}
