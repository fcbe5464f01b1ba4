package transfer

import (
	"io"
	"os"
	"path/filepath"
	"sort"
	"time"

	"github.com/fuzzywalrus/hotline-sub000/internal/ratelimit"
)

// NewFolderDownload downloads ticket.ItemCount items into destDir.
func NewFolderDownload(host string, port int, ticket Ticket, destDir string, opts ...Option) (*Transfer, error) {
	t, err := newTransfer(KindDownloadFolder, host, port, opts...)
	if err != nil {
		return nil, err
	}
	go t.runFolderDownload(ticket, destDir)
	return t, nil
}

func (t *Transfer) runFolderDownload(ticket Ticket, destDir string) {
	t.sink.emit(Preparing{}, true)

	action := folderActionNextFile
	conn, err := t.dial(ticket.RefNum, 0, &action)
	if err != nil {
		t.sink.emit(errorProgress(err), true)
		t.sink.close()
		t.finish(err)
		return
	}
	defer conn.Close()

	var totalBytes int64
	itemTotal := int(ticket.ItemCount)

	for idx := 1; idx <= itemTotal; idx++ {
		if t.isCancelled() {
			t.sink.emit(Cancelled{}, true)
			t.sink.close()
			t.finish(&CancelledError{})
			return
		}

		item, err := readFolderItemHeader(conn)
		if err != nil {
			t.sink.emit(errorProgress(err), true)
			t.sink.close()
			t.finish(err)
			return
		}
		destPath := filepath.Join(append([]string{destDir}, item.Path...)...)

		if item.isFolder() {
			if err := os.MkdirAll(destPath, 0o755); err != nil {
				werr := &DestinationUnwritableError{Cause: err}
				t.sink.emit(errorProgress(werr), true)
				t.sink.close()
				t.finish(werr)
				return
			}
			if err := writeU16(conn, folderActionNextFile); err != nil {
				t.sink.emit(errorProgress(err), true)
				t.sink.close()
				t.finish(err)
				return
			}
			continue
		}

		if err := writeU16(conn, folderActionSendFile); err != nil {
			t.sink.emit(errorProgress(err), true)
			t.sink.close()
			t.finish(err)
			return
		}
		sizeHdr := make([]byte, 4)
		if err := readExact(conn, sizeHdr); err != nil {
			t.sink.emit(errorProgress(err), true)
			t.sink.close()
			t.finish(err)
			return
		}
		dataForkSize := getU32(sizeHdr)

		name := item.Path[len(item.Path)-1]
		written, err := t.receiveFilpIntoPath(conn, destPath, dataForkSize, name, idx, itemTotal)
		if err != nil {
			t.cleanupPartial(destPath + ".hxdownload")
			t.sink.emit(errorProgress(err), true)
			t.sink.close()
			t.finish(err)
			return
		}
		totalBytes += written
		p := TransferProgress{Name: destDir, Bytes: totalBytes, Total: int64(ticket.Size)}
		if ticket.Size > 0 {
			p.Fraction = float64(totalBytes) / float64(ticket.Size)
		}
		t.sink.emit(p, false)
	}

	t.sink.emit(Completed{URL: destDir}, true)
	t.sink.close()
	t.metrics.TransferClosed()
	t.finish(nil)
}

// receiveFilpIntoPath parses one folder item's FILP stream, writing
// DATA directly to destPath (item names are already known from the
// folder item header, unlike a standalone file download).
func (t *Transfer) receiveFilpIntoPath(conn io.Reader, destPath string, dataForkSize uint32, itemName string, itemIndex, itemTotal int) (int64, error) {
	envelope := make([]byte, filpEnvelopeLen)
	if err := readExact(conn, envelope); err != nil {
		return 0, err
	}
	_, forkCount, err := decodeFilpEnvelope(envelope)
	if err != nil {
		return 0, err
	}

	tmpPath := destPath + ".hxdownload"
	f, err := os.OpenFile(tmpPath, os.O_CREATE|os.O_TRUNC|os.O_WRONLY, 0o644)
	if err != nil {
		return 0, &DestinationUnwritableError{Cause: err}
	}
	defer f.Close()

	var written int64
	estimator := NewEstimator(0.3, 5)
	lastSample := time.Now()

	for i := uint16(0); i < forkCount; i++ {
		hb := make([]byte, forkHeaderLen)
		if err := readExact(conn, hb); err != nil {
			return written, err
		}
		fh := decodeForkHeader(hb)
		dataSize := fh.DataSize
		if dataSize == 0 && fh.Type == forkTypeData && dataForkSize > 0 {
			dataSize = dataForkSize
		}

		switch fh.Type {
		case forkTypeData:
			var forkTotal int64
			w := &progressWriter{Writer: f, checkCancel: t.isCancelled, onWrite: func(total int64) {
				delta := total - forkTotal
				forkTotal = total
				written += delta
				now := time.Now()
				estimator.Sample(delta, now.Sub(lastSample))
				lastSample = now
				t.sink.emit(ItemProgress{Name: itemName, Index: itemIndex, Total: itemTotal}, false)
			}}
			var src io.Reader = conn
			if t.limiter != nil {
				src = ratelimit.NewReader(conn, t.limiter)
			}
			n, err := io.CopyBuffer(w, io.LimitReader(src, int64(dataSize)), make([]byte, t.cfg.chunkBytes))
			t.metrics.TransferBytes("download", int(n))
			if err != nil {
				return written, &IOError{Cause: err}
			}
		default:
			body := make([]byte, dataSize)
			if err := readExact(conn, body); err != nil {
				return written, err
			}
		}
	}

	if err := f.Close(); err != nil {
		return written, &DestinationUnwritableError{Cause: err}
	}
	if err := os.Rename(tmpPath, destPath); err != nil {
		return written, &DestinationUnwritableError{Cause: err}
	}
	return written, nil
}

func readFolderItemHeader(conn io.Reader) (folderItem, error) {
	lenBuf := make([]byte, 2)
	if _, err := io.ReadFull(conn, lenBuf); err != nil {
		return folderItem{}, &IOError{Cause: err}
	}
	n := getU16(lenBuf)
	body := make([]byte, n)
	if _, err := io.ReadFull(conn, body); err != nil {
		return folderItem{}, &IOError{Cause: err}
	}
	return decodeFolderItem(body)
}

func writeU16(w io.Writer, v uint16) error {
	b := make([]byte, 2)
	putU16(b, v)
	_, err := w.Write(b)
	if err != nil {
		return &IOError{Cause: err}
	}
	return nil
}

// NewFolderUpload walks the local directory at srcDir and uploads it
// against ticket.
func NewFolderUpload(host string, port int, ticket Ticket, srcDir string, opts ...Option) (*Transfer, error) {
	t, err := newTransfer(KindUploadFolder, host, port, opts...)
	if err != nil {
		return nil, err
	}
	go t.runFolderUpload(ticket, srcDir)
	return t, nil
}

type uploadEntry struct {
	relPath []string
	absPath string
	isDir   bool
}

func (t *Transfer) runFolderUpload(ticket Ticket, srcDir string) {
	t.sink.emit(Preparing{}, true)

	entries, err := walkUploadEntries(srcDir)
	if err != nil {
		t.sink.emit(Error{Kind: "Io"}, true)
		t.sink.close()
		t.finish(&IOError{Cause: err})
		return
	}

	action := folderActionNextFile
	conn, err := t.dial(ticket.RefNum, ticket.Size, &action)
	if err != nil {
		t.sink.emit(errorProgress(err), true)
		t.sink.close()
		t.finish(err)
		return
	}
	defer conn.Close()

	itemTotal := len(entries)
	for idx, entry := range entries {
		if t.isCancelled() {
			t.sink.emit(Cancelled{}, true)
			t.sink.close()
			t.finish(&CancelledError{})
			return
		}

		itemType := itemTypeFile
		if entry.isDir {
			itemType = itemTypeFolder
		}
		header := encodeFolderItem(folderItem{Type: itemType, Path: entry.relPath})
		if err := writeAll(conn, header); err != nil {
			t.sink.emit(errorProgress(err), true)
			t.sink.close()
			t.finish(err)
			return
		}
		if entry.isDir {
			continue
		}

		actionBuf := make([]byte, 2)
		if err := readExact(conn, actionBuf); err != nil {
			t.sink.emit(errorProgress(err), true)
			t.sink.close()
			t.finish(err)
			return
		}
		switch serverAction := getU16(actionBuf); serverAction {
		case folderActionNextFile:
			continue
		case folderActionResumeFile:
			if t.cfg.resumePolicy == ResumeReject {
				werr := &ProtocolViolationError{Stage: "resumeFile rejected by policy"}
				t.sink.emit(errorProgress(werr), true)
				t.sink.close()
				t.finish(werr)
				return
			}
			fallthrough
		case folderActionSendFile:
			if err := t.sendFolderFile(conn, entry, idx+1, itemTotal); err != nil {
				t.sink.emit(errorProgress(err), true)
				t.sink.close()
				t.finish(err)
				return
			}
		default:
			werr := &ProtocolViolationError{Stage: "unknown folder action"}
			t.sink.emit(errorProgress(werr), true)
			t.sink.close()
			t.finish(werr)
			return
		}
	}

	t.sink.emit(Completed{}, true)
	t.sink.close()
	t.metrics.TransferClosed()
	t.finish(nil)
}

func (t *Transfer) sendFolderFile(conn io.Writer, entry uploadEntry, itemIndex, itemTotal int) error {
	f, err := os.Open(entry.absPath)
	if err != nil {
		return &IOError{Cause: err}
	}
	defer f.Close()
	info, err := f.Stat()
	if err != nil {
		return &IOError{Cause: err}
	}

	sizeHdr := make([]byte, 4)
	putU32(sizeHdr, uint32(info.Size()))
	if err := writeToConn(conn, sizeHdr); err != nil {
		return err
	}

	infoBody := encodeInfoFork(infoFork{
		Type: "TEXT", Creator: "ttxt",
		Created:  newFilpDate(info.ModTime()),
		Modified: newFilpDate(info.ModTime()),
		Name:     entry.relPath[len(entry.relPath)-1],
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
	if err := writeToConn(conn, encodeForkHeader(forkHeader{Type: forkTypeData, DataSize: uint32(info.Size())})); err != nil {
		return err
	}

	name := entry.relPath[len(entry.relPath)-1]
	r := &progressReader{Reader: f, onRead: func(total int64) {
		t.sink.emit(ItemProgress{Name: name, Index: itemIndex, Total: itemTotal}, false)
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

// walkUploadEntries recursively lists srcDir in deterministic order:
// directories sorted before their children, siblings sorted lexically.
func walkUploadEntries(srcDir string) ([]uploadEntry, error) {
	var entries []uploadEntry
	var walk func(dir string, rel []string) error
	walk = func(dir string, rel []string) error {
		items, err := os.ReadDir(dir)
		if err != nil {
			return err
		}
		sort.Slice(items, func(i, j int) bool { return items[i].Name() < items[j].Name() })
		for _, item := range items {
			childRel := append(append([]string{}, rel...), item.Name())
			childAbs := filepath.Join(dir, item.Name())
			if item.IsDir() {
				entries = append(entries, uploadEntry{relPath: childRel, absPath: childAbs, isDir: true})
				if err := walk(childAbs, childRel); err != nil {
					return err
				}
				continue
			}
			entries = append(entries, uploadEntry{relPath: childRel, absPath: childAbs})
		}
		return nil
	}
	if err := walk(srcDir, nil); err != nil {
		return nil, err
	}
	return entries, nil
}
