// Package transfer implements the Hotline file-transfer engine: one
// TCP channel per transfer, the FILP fork codec, folder recursion, and
// the preview/banner raw-stream variant.
package transfer

import (
	"net"
	"strconv"
	"sync"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/fuzzywalrus/hotline-sub000/internal/metrics"
	"github.com/fuzzywalrus/hotline-sub000/internal/ratelimit"
)

// Kind identifies which of the six transfer shapes a Transfer runs.
type Kind int

const (
	KindDownloadFile Kind = iota
	KindUploadFile
	KindDownloadFolder
	KindUploadFolder
	KindPreview
	KindBanner
)

// Ticket is the reference-number/size information a Session's
// Request{Download,Upload}* calls hand back, decoupled from the
// hotline package's TransferTicket so this package has no dependency
// on the control session.
type Ticket struct {
	RefNum    uint32
	Size      uint32
	ItemCount uint32
	IsFolder  bool
}

// Transfer runs a single transfer channel to completion, emitting
// Progress events. Callers own it: created via one of the New*
// functions, driven by Wait, observed via Progress, stopped early via
// Cancel.
type Transfer struct {
	ID   uuid.UUID
	Kind Kind

	cfg     *config
	limiter *ratelimit.Limiter
	logger  *logrus.Logger
	metrics *metrics.Collector

	host string
	port int

	sink     *progressSink
	cancelCh chan struct{}
	once     sync.Once

	done chan struct{}
	err  error

	resultMu sync.Mutex
	result   []byte
}

// Result returns the buffered payload for a preview or banner
// transfer. It is empty until the Transfer completes successfully.
func (t *Transfer) Result() []byte {
	t.resultMu.Lock()
	defer t.resultMu.Unlock()
	return t.result
}

func newTransfer(kind Kind, host string, port int, opts ...Option) (*Transfer, error) {
	cfg := defaultConfig()
	for _, opt := range opts {
		if err := opt(cfg); err != nil {
			return nil, err
		}
	}
	cfg.metrics = metrics.New(cfg.metricsRegisterer)

	return &Transfer{
		ID:       uuid.New(),
		Kind:     kind,
		cfg:      cfg,
		limiter:  cfg.limiter(),
		logger:   cfg.logger,
		metrics:  cfg.metrics,
		host:     host,
		port:     port,
		sink:     newProgressSink(cfg.progressEmitHz),
		cancelCh: make(chan struct{}),
		done:     make(chan struct{}),
	}, nil
}

// Progress returns the channel of Progress events. It is closed when
// the transfer reaches a terminal state (Completed, Cancelled, Error).
func (t *Transfer) Progress() <-chan Progress { return t.sink.out }

// Cancel requests the transfer stop. Safe to call more than once and
// from any goroutine.
func (t *Transfer) Cancel() {
	t.once.Do(func() { close(t.cancelCh) })
}

// Wait blocks until the transfer finishes and returns its terminal
// error: nil on success, a *CancelledError after cancellation, or the
// failure that ended the transfer.
func (t *Transfer) Wait() error {
	<-t.done
	return t.err
}

func (t *Transfer) isCancelled() bool {
	select {
	case <-t.cancelCh:
		return true
	default:
		return false
	}
}

func (t *Transfer) finish(err error) {
	t.err = err
	close(t.done)
}

// dial opens the transfer channel and performs the HTXF handshake.
// folderAction selects the folder-variant reserved fields.
func (t *Transfer) dial(refNum uint32, dataSize uint32, folderAction *uint16) (net.Conn, error) {
	t.sink.emit(Connecting{}, true)
	addr := net.JoinHostPort(t.host, strconv.Itoa(t.port))
	conn, err := t.cfg.dialer.Dial("tcp", addr)
	if err != nil {
		return nil, &ConnectFailedError{Cause: err}
	}
	conn = newDeadlineConn(conn, t.cfg.connectTimeout)

	header := encodeHandshake(refNum, dataSize, folderAction)
	if err := writeAll(conn, header); err != nil {
		conn.Close()
		return nil, &HandshakeFailedError{Cause: err}
	}
	t.sink.emit(Connected{}, true)
	t.metrics.TransferOpened()
	return conn, nil
}

// encodeHandshake renders the 16-byte HTXF handshake. folderAction is
// nil for file transfers (plain reserved u32) and non-nil for folder
// transfers, where the last four bytes carry type=1 (u16) followed by
// the action (u16).
func encodeHandshake(refNum, dataSize uint32, folderAction *uint16) []byte {
	b := make([]byte, 16)
	copy(b[0:4], "HTXF")
	putU32(b[4:8], refNum)
	putU32(b[8:12], dataSize)
	if folderAction == nil {
		putU32(b[12:16], 0)
		return b
	}
	putU16(b[12:14], 1)
	putU16(b[14:16], *folderAction)
	return b
}

const (
	folderActionNextFile  uint16 = 1
	folderActionSendFile  uint16 = 2
	folderActionResumeFile uint16 = 3
)

func putU32(b []byte, v uint32) {
	b[0] = byte(v >> 24)
	b[1] = byte(v >> 16)
	b[2] = byte(v >> 8)
	b[3] = byte(v)
}

func putU16(b []byte, v uint16) {
	b[0] = byte(v >> 8)
	b[1] = byte(v)
}

func getU32(b []byte) uint32 {
	return uint32(b[0])<<24 | uint32(b[1])<<16 | uint32(b[2])<<8 | uint32(b[3])
}

func getU16(b []byte) uint16 {
	return uint16(b[0])<<8 | uint16(b[1])
}
