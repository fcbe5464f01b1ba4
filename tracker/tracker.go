// Package tracker implements the HTRK client: a small, separate TCP
// protocol used to enumerate known Hotline servers.
package tracker

import (
	"context"
	"encoding/binary"
	"net"
	"strings"
	"time"

	"golang.org/x/text/encoding/charmap"
)

const defaultPort = 5498

var trackerMagic = []byte{'H', 'T', 'R', 'K', 0x00, 0x01, 0x00, 0x02}

// Server is one listed server entry.
type Server struct {
	Address     net.IP
	Port        uint16
	UserCount   uint16
	Flags       uint16
	Name        string
	Description string
}

// Separator reports whether this entry is a visual divider rather than
// a real server (name made up entirely of dashes). Callers should drop
// these from the listing they show.
func (s Server) Separator() bool {
	if s.Name == "" {
		return false
	}
	return strings.Trim(s.Name, "-") == ""
}

// Option configures ListServers.
type Option func(*config)

type config struct {
	dialer  *net.Dialer
	timeout time.Duration
}

func defaultConfig() *config {
	return &config{
		dialer:  &net.Dialer{},
		timeout: 15 * time.Second,
	}
}

// WithDialer supplies a custom net.Dialer.
func WithDialer(d *net.Dialer) Option {
	return func(c *config) { c.dialer = d }
}

// WithTimeout bounds the whole listing round trip.
func WithTimeout(d time.Duration) Option {
	return func(c *config) { c.timeout = d }
}

// ListServers connects to addr (host or host:port; port defaults to
// 5498), performs the HTRK handshake, and returns every listed server
// except separator entries.
func ListServers(ctx context.Context, addr string, opts ...Option) ([]Server, error) {
	cfg := defaultConfig()
	for _, opt := range opts {
		opt(cfg)
	}
	if _, _, err := net.SplitHostPort(addr); err != nil {
		addr = net.JoinHostPort(addr, "5498")
	}

	ctx, cancel := context.WithTimeout(ctx, cfg.timeout)
	defer cancel()

	conn, err := cfg.dialer.DialContext(ctx, "tcp", addr)
	if err != nil {
		return nil, &ConnectFailedError{Cause: err}
	}
	defer conn.Close()

	if deadline, ok := ctx.Deadline(); ok {
		conn.SetDeadline(deadline)
	}

	if err := writeAll(conn, trackerMagic); err != nil {
		return nil, &HandshakeFailedError{Cause: err}
	}

	// The tracker echoes the 8-byte magic/version/sub triple back,
	// followed by a 2-byte total server count.
	header := make([]byte, 8+2)
	if err := readExact(conn, header); err != nil {
		return nil, &HandshakeFailedError{Cause: err}
	}
	if string(header[0:4]) != "HTRK" {
		return nil, &ProtocolViolationError{Stage: "tracker magic"}
	}
	count := binary.BigEndian.Uint16(header[8:10])

	servers := make([]Server, 0, count)
	for i := uint16(0); i < count; i++ {
		srv, err := readServerRecord(conn)
		if err != nil {
			return nil, err
		}
		if srv.Separator() {
			continue
		}
		servers = append(servers, srv)
	}
	return servers, nil
}

func readServerRecord(conn net.Conn) (Server, error) {
	fixed := make([]byte, 4+2+2+2+2)
	if err := readExact(conn, fixed); err != nil {
		return Server{}, &ProtocolViolationError{Stage: "server record"}
	}
	s := Server{
		Address:   net.IPv4(fixed[0], fixed[1], fixed[2], fixed[3]),
		Port:      binary.BigEndian.Uint16(fixed[4:6]),
		UserCount: binary.BigEndian.Uint16(fixed[6:8]),
		Flags:     binary.BigEndian.Uint16(fixed[8:10]),
	}
	nameLen := binary.BigEndian.Uint16(fixed[10:12])

	nameBytes := make([]byte, nameLen)
	if err := readExact(conn, nameBytes); err != nil {
		return Server{}, &ProtocolViolationError{Stage: "server name"}
	}
	s.Name = macRomanToUTF8(nameBytes)

	descLenBuf := make([]byte, 2)
	if err := readExact(conn, descLenBuf); err != nil {
		return Server{}, &ProtocolViolationError{Stage: "server description length"}
	}
	descLen := binary.BigEndian.Uint16(descLenBuf)
	descBytes := make([]byte, descLen)
	if err := readExact(conn, descBytes); err != nil {
		return Server{}, &ProtocolViolationError{Stage: "server description"}
	}
	s.Description = macRomanToUTF8(descBytes)

	return s, nil
}

func macRomanToUTF8(b []byte) string {
	out, err := charmap.MacintoshRoman.NewDecoder().Bytes(b)
	if err != nil {
		return string(b)
	}
	return string(out)
}

func readExact(c net.Conn, buf []byte) error {
	off := 0
	for off < len(buf) {
		n, err := c.Read(buf[off:])
		off += n
		if err != nil {
			return err
		}
	}
	return nil
}

func writeAll(c net.Conn, buf []byte) error {
	off := 0
	for off < len(buf) {
		n, err := c.Write(buf[off:])
		off += n
		if err != nil {
			return err
		}
	}
	return nil
}
