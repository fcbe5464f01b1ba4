package transfer

import (
	"io"
	"net"
	"time"
)

// deadlineConn wraps a net.Conn, applying a fixed timeout to every
// Read/Write call. Mirrors the root package's deadlineConn; kept as its
// own copy here because every transfer channel is a fresh, short-lived
// net.Conn distinct from the control session's.
type deadlineConn struct {
	net.Conn
	timeout time.Duration
}

func newDeadlineConn(c net.Conn, timeout time.Duration) net.Conn {
	if timeout <= 0 {
		return c
	}
	return &deadlineConn{Conn: c, timeout: timeout}
}

func (d *deadlineConn) Read(p []byte) (int, error) {
	if err := d.Conn.SetReadDeadline(time.Now().Add(d.timeout)); err != nil {
		return 0, &IOError{Cause: err}
	}
	n, err := d.Conn.Read(p)
	if err != nil {
		return n, &IOError{Cause: err}
	}
	return n, nil
}

func (d *deadlineConn) Write(p []byte) (int, error) {
	if err := d.Conn.SetWriteDeadline(time.Now().Add(d.timeout)); err != nil {
		return 0, &IOError{Cause: err}
	}
	n, err := d.Conn.Write(p)
	if err != nil {
		return n, &IOError{Cause: err}
	}
	return n, nil
}

// readExact reads exactly len(buf) bytes, the transfer channel's one
// stream primitive: every fork and item header is read in full before
// it is interpreted.
func readExact(c io.Reader, buf []byte) error {
	off := 0
	for off < len(buf) {
		n, err := c.Read(buf[off:])
		off += n
		if err != nil {
			if ioErr, ok := err.(*IOError); ok {
				return ioErr
			}
			return &IOError{Cause: err}
		}
	}
	return nil
}

// skipBytes discards n bytes from c, the transport primitive unknown
// forks need to stay byte-accurate without retaining their payload.
func skipBytes(c io.Reader, n int64) error {
	copied, err := io.Copy(io.Discard, io.LimitReader(c, n))
	if err != nil {
		if ioErr, ok := err.(*IOError); ok {
			return ioErr
		}
		return &IOError{Cause: err}
	}
	if copied < n {
		return &IOError{Cause: io.ErrUnexpectedEOF}
	}
	return nil
}

func writeAll(c io.Writer, buf []byte) error {
	off := 0
	for off < len(buf) {
		n, err := c.Write(buf[off:])
		off += n
		if err != nil {
			if ioErr, ok := err.(*IOError); ok {
				return ioErr
			}
			return &IOError{Cause: err}
		}
	}
	return nil
}
