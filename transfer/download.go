package transfer

import (
	"io"
	"net"
	"os"
	"path/filepath"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/fuzzywalrus/hotline-sub000/internal/ratelimit"
)

// NewFileDownload starts a file download against ticket, writing the
// result into destDir under the name the INFO fork reports. The
// returned Transfer runs asynchronously; observe Progress and/or call
// Wait.
func NewFileDownload(host string, port int, ticket Ticket, destDir string, opts ...Option) (*Transfer, error) {
	t, err := newTransfer(KindDownloadFile, host, port, opts...)
	if err != nil {
		return nil, err
	}
	go t.runFileDownload(ticket, destDir)
	return t, nil
}

func (t *Transfer) runFileDownload(ticket Ticket, destDir string) {
	t.sink.emit(Preparing{}, true)

	conn, err := t.dial(ticket.RefNum, 0, nil)
	if err != nil {
		t.sink.emit(Error{Kind: "ConnectFailed"}, true)
		t.sink.close()
		t.finish(err)
		return
	}
	defer conn.Close()

	destURL, err := t.receiveFilp(conn, destDir, ticket.Size)
	if err != nil {
		t.sink.emit(errorProgress(err), true)
		t.sink.close()
		t.finish(err)
		return
	}
	t.sink.emit(Completed{URL: destURL}, true)
	t.sink.close()
	t.metrics.TransferClosed()
	t.finish(nil)
}

// receiveFilp reads a full FILP envelope from conn and materializes it
// to disk.
func (t *Transfer) receiveFilp(conn net.Conn, destDir string, declaredSize uint32) (string, error) {
	envelope := make([]byte, filpEnvelopeLen)
	if err := readExact(conn, envelope); err != nil {
		return "", err
	}
	_, forkCount, err := decodeFilpEnvelope(envelope)
	if err != nil {
		return "", err
	}

	var (
		destPath string
		tmpPath  string
		destFile *os.File
		macr     []byte
		written  int64
		infoSeen bool
	)
	estimator := NewEstimator(0.3, 5)
	lastSample := time.Now()

	defer func() {
		if destFile != nil {
			destFile.Close()
		}
	}()

	for i := uint16(0); i < forkCount; i++ {
		if t.isCancelled() {
			t.cleanupPartial(tmpPath)
			return "", &CancelledError{}
		}
		hb := make([]byte, forkHeaderLen)
		if err := readExact(conn, hb); err != nil {
			t.cleanupPartial(tmpPath)
			return "", err
		}
		fh := decodeForkHeader(hb)
		dataSize := fh.DataSize
		if dataSize == 0 && fh.Type == forkTypeData && declaredSize > 0 {
			dataSize = declaredSize
		}

		switch fh.Type {
		case forkTypeInfo:
			body := make([]byte, dataSize)
			if err := readExact(conn, body); err != nil {
				t.cleanupPartial(tmpPath)
				return "", err
			}
			info, err := decodeInfoFork(body)
			if err != nil {
				t.cleanupPartial(tmpPath)
				return "", err
			}
			infoSeen = true
			destPath = filepath.Join(destDir, info.Name)
			tmpPath = destPath + ".hxdownload"
			f, err := os.OpenFile(tmpPath, os.O_CREATE|os.O_TRUNC|os.O_WRONLY, 0o644)
			if err != nil {
				return "", &DestinationUnwritableError{Cause: err}
			}
			destFile = f

		case forkTypeData:
			if destFile == nil {
				t.cleanupPartial(tmpPath)
				return "", &ProtocolViolationError{Stage: "data fork before info fork"}
			}
			baseWritten := written
			var forkTotal int64
			w := &progressWriter{Writer: destFile, checkCancel: t.isCancelled, onWrite: func(total int64) {
				delta := total - forkTotal
				forkTotal = total
				written = baseWritten + total
				now := time.Now()
				estimator.Sample(delta, now.Sub(lastSample))
				lastSample = now
				t.emitFileProgress(infoName(destPath), written, int64(declaredSize), estimator)
			}}
			var src io.Reader = conn
			if t.limiter != nil {
				src = ratelimit.NewReader(conn, t.limiter)
			}
			n, err := io.CopyBuffer(w, io.LimitReader(src, int64(dataSize)), make([]byte, t.cfg.chunkBytes))
			t.metrics.TransferBytes("download", int(n))
			if err != nil {
				t.cleanupPartial(tmpPath)
				switch e := err.(type) {
				case *IOError:
					return "", e
				case *CancelledError:
					return "", e
				default:
					return "", &IOError{Cause: err}
				}
			}

		case forkTypeMacr:
			body := make([]byte, dataSize)
			if err := readExact(conn, body); err != nil {
				t.cleanupPartial(tmpPath)
				return "", err
			}
			macr = body

		default:
			if err := skipBytes(conn, int64(dataSize)); err != nil {
				t.cleanupPartial(tmpPath)
				return "", err
			}
		}
	}

	if !infoSeen || destFile == nil {
		return "", &ProtocolViolationError{Stage: "missing info fork"}
	}
	if err := destFile.Close(); err != nil {
		destFile = nil
		t.cleanupPartial(tmpPath)
		return "", &DestinationUnwritableError{Cause: err}
	}
	destFile = nil
	if err := os.Rename(tmpPath, destPath); err != nil {
		t.cleanupPartial(tmpPath)
		return "", &DestinationUnwritableError{Cause: err}
	}
	if len(macr) > 0 {
		if err := os.WriteFile(destPath+".rsrc", macr, 0o644); err != nil {
			t.logger.WithFields(logrus.Fields{"path": destPath}).Debug("failed to write resource fork side-file")
		}
	}
	return destPath, nil
}

func (t *Transfer) cleanupPartial(tmpPath string) {
	if tmpPath != "" {
		os.Remove(tmpPath)
	}
}

func (t *Transfer) emitFileProgress(name string, bytes, total int64, est *Estimator) {
	p := TransferProgress{Name: name, Bytes: bytes, Total: total}
	if total > 0 {
		p.Fraction = float64(bytes) / float64(total)
	}
	if speed, ok := est.Speed(); ok {
		p.Speed = &speed
		if eta, ok := est.ETA(total - bytes); ok {
			p.ETA = &eta
		}
	}
	t.sink.emit(p, false)
}

func infoName(destPath string) string { return filepath.Base(destPath) }

func errorProgress(err error) Progress {
	switch err.(type) {
	case *ConnectFailedError:
		return Error{Kind: "ConnectFailed"}
	case *HandshakeFailedError:
		return Error{Kind: "HandshakeFailed"}
	case *ProtocolViolationError:
		return Error{Kind: "ProtocolViolation"}
	case *DestinationUnwritableError:
		return Error{Kind: "DestinationUnwritable"}
	case *CancelledError:
		return Cancelled{}
	default:
		return Error{Kind: "Io"}
	}
}
