package transfer

import (
	"io"
	"os"
	"time"

	"github.com/fuzzywalrus/hotline-sub000/internal/ratelimit"
)

// NewFileUpload starts a file upload of the local file at srcPath,
// flattening it into a FILP stream (INFO+DATA). The returned Transfer
// runs asynchronously.
func NewFileUpload(host string, port int, ticket Ticket, srcPath string, opts ...Option) (*Transfer, error) {
	t, err := newTransfer(KindUploadFile, host, port, opts...)
	if err != nil {
		return nil, err
	}
	go t.runFileUpload(ticket, srcPath)
	return t, nil
}

func (t *Transfer) runFileUpload(ticket Ticket, srcPath string) {
	t.sink.emit(Preparing{}, true)

	info, err := os.Stat(srcPath)
	if err != nil {
		t.sink.emit(Error{Kind: "Io"}, true)
		t.sink.close()
		t.finish(&IOError{Cause: err})
		return
	}

	dataSize := uint32(info.Size())
	totalFlattened := dataSize + uint32(filpEnvelopeLen+forkHeaderLen*2) + uint32(len(encodeInfoFork(infoFork{
		Type: "TEXT", Creator: "ttxt",
		Created: newFilpDate(info.ModTime()), Modified: newFilpDate(info.ModTime()),
		Name: info.Name(),
	})))

	conn, err := t.dial(ticket.RefNum, totalFlattened, nil)
	if err != nil {
		t.sink.emit(errorProgress(err), true)
		t.sink.close()
		t.finish(err)
		return
	}
	defer conn.Close()

	if err := t.sendFilp(conn, srcPath, info); err != nil {
		t.sink.emit(errorProgress(err), true)
		t.sink.close()
		t.finish(err)
		return
	}
	t.sink.emit(Completed{}, true)
	t.sink.close()
	t.metrics.TransferClosed()
	t.finish(nil)
}

func (t *Transfer) sendFilp(conn io.Writer, srcPath string, info os.FileInfo) error {
	src, err := os.Open(srcPath)
	if err != nil {
		return &IOError{Cause: err}
	}
	defer src.Close()

	infoBody := encodeInfoFork(infoFork{
		Type: "TEXT", Creator: "ttxt",
		Created:  newFilpDate(info.ModTime()),
		Modified: newFilpDate(info.ModTime()),
		Name:     info.Name(),
	})

	if err := writeToConn(conn, encodeFilpEnvelope(2)); err != nil {
		return err
	}
	if err := writeToConn(conn, encodeForkHeader(forkHeader{Type: forkTypeInfo, DataSize: uint32(len(infoBody))})); err != nil {
		return err
	}
	if err := writeToConn(conn, infoBody); err != nil {
		return err
	}

	dataSize := uint32(info.Size())
	if err := writeToConn(conn, encodeForkHeader(forkHeader{Type: forkTypeData, DataSize: dataSize})); err != nil {
		return err
	}

	estimator := NewEstimator(0.3, 5)
	lastSample := time.Now()
	var forkTotal int64
	r := &progressReader{Reader: src, onRead: func(total int64) {
		delta := total - forkTotal
		forkTotal = total
		now := time.Now()
		estimator.Sample(delta, now.Sub(lastSample))
		lastSample = now
		t.emitFileProgress(info.Name(), total, int64(dataSize), estimator)
	}}

	var dst io.Writer = conn
	if t.limiter != nil {
		dst = ratelimit.NewWriter(conn, t.limiter)
	}
	n, err := io.CopyBuffer(dst, r, make([]byte, t.cfg.chunkBytes))
	t.metrics.TransferBytes("upload", int(n))
	if err != nil {
		return &IOError{Cause: err}
	}
	return nil
}

func writeToConn(w io.Writer, b []byte) error {
	_, err := w.Write(b)
	if err != nil {
		return &IOError{Cause: err}
	}
	return nil
}
