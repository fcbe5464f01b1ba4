package hotline

import (
	"net"
	"time"
)

// deadlineConn wraps a net.Conn, applying a fixed timeout to every
// Read/Write call. It wraps the control connection and has no
// knowledge of the frames carried over it; transfer channels use the
// transfer package's own copy.
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

// readExact reads exactly len(buf) bytes, the stream primitive the
// transport layer exposes to the frame codec.
func readExact(c net.Conn, buf []byte) error {
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
