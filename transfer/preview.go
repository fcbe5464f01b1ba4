package transfer

import (
	"bytes"
	"io"
	"time"
)

// NewPreviewDownload downloads a file preview, the raw-stream variant
// sharing the transfer handshake but carrying no FILP envelope. The
// result is buffered in memory and delivered via Result once the
// Transfer completes.
func NewPreviewDownload(host string, port int, ticket Ticket, opts ...Option) (*Transfer, error) {
	t, err := newTransfer(KindPreview, host, port, opts...)
	if err != nil {
		return nil, err
	}
	go t.runRawDownload(ticket, "preview.bin")
	return t, nil
}

// NewBannerDownload downloads the server's banner image, identical in
// framing to a preview. Result's leading bytes determine the image
// format (JPEG, PNG, GIF); callers sniff it themselves since this
// package has no image dependency.
func NewBannerDownload(host string, port int, ticket Ticket, opts ...Option) (*Transfer, error) {
	t, err := newTransfer(KindBanner, host, port, opts...)
	if err != nil {
		return nil, err
	}
	go t.runRawDownload(ticket, "banner.bin")
	return t, nil
}

func (t *Transfer) runRawDownload(ticket Ticket, label string) {
	t.sink.emit(Preparing{}, true)

	conn, err := t.dial(ticket.RefNum, 0, nil)
	if err != nil {
		t.sink.emit(errorProgress(err), true)
		t.sink.close()
		t.finish(err)
		return
	}
	defer conn.Close()

	var buf bytes.Buffer
	estimator := NewEstimator(0.3, 5)
	lastSample := time.Now()
	var prevTotal int64
	w := &progressWriter{Writer: &buf, checkCancel: t.isCancelled, onWrite: func(total int64) {
		now := time.Now()
		estimator.Sample(total-prevTotal, now.Sub(lastSample))
		prevTotal = total
		lastSample = now
		t.emitFileProgress(label, total, int64(ticket.Size), estimator)
	}}

	n, err := io.CopyBuffer(w, io.LimitReader(conn, int64(ticket.Size)), make([]byte, t.cfg.chunkBytes))
	t.metrics.TransferBytes("download", int(n))
	if err != nil {
		if _, ok := err.(*IOError); !ok {
			err = &IOError{Cause: err}
		}
		t.sink.emit(errorProgress(err), true)
		t.sink.close()
		t.finish(err)
		return
	}

	t.resultMu.Lock()
	t.result = buf.Bytes()
	t.resultMu.Unlock()

	t.sink.emit(Completed{}, true)
	t.sink.close()
	t.metrics.TransferClosed()
	t.finish(nil)
}
