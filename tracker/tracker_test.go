package tracker

import (
	"context"
	"encoding/binary"
	"net"
	"testing"
	"time"

	"gotest.tools/v3/assert"
)

func encodeServerRecord(t *testing.T, s Server) []byte {
	t.Helper()
	ip := s.Address.To4()
	assert.Assert(t, ip != nil)

	nameBytes := []byte(s.Name)
	descBytes := []byte(s.Description)

	b := make([]byte, 0, 12+len(nameBytes)+2+len(descBytes))
	b = append(b, ip...)
	portBuf := make([]byte, 2)
	binary.BigEndian.PutUint16(portBuf, s.Port)
	b = append(b, portBuf...)
	usersBuf := make([]byte, 2)
	binary.BigEndian.PutUint16(usersBuf, s.UserCount)
	b = append(b, usersBuf...)
	flagsBuf := make([]byte, 2)
	binary.BigEndian.PutUint16(flagsBuf, s.Flags)
	b = append(b, flagsBuf...)
	nameLenBuf := make([]byte, 2)
	binary.BigEndian.PutUint16(nameLenBuf, uint16(len(nameBytes)))
	b = append(b, nameLenBuf...)
	b = append(b, nameBytes...)
	descLenBuf := make([]byte, 2)
	binary.BigEndian.PutUint16(descLenBuf, uint16(len(descBytes)))
	b = append(b, descLenBuf...)
	b = append(b, descBytes...)
	return b
}

func TestListServersDropsSeparatorEntries(t *testing.T) {
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	assert.NilError(t, err)
	defer ln.Close()

	real := Server{
		Address: net.IPv4(10, 0, 0, 5), Port: 5500,
		UserCount: 3, Name: "BBS One", Description: "A cool board",
	}
	separator := Server{Address: net.IPv4(0, 0, 0, 0), Name: "----"}

	go func() {
		conn, err := ln.Accept()
		assert.NilError(t, err)
		defer conn.Close()

		magic := make([]byte, len(trackerMagic))
		assert.NilError(t, readExact(conn, magic))

		header := append(append([]byte{}, trackerMagic...), 0, 2)
		assert.NilError(t, writeAll(conn, header))

		assert.NilError(t, writeAll(conn, encodeServerRecord(t, real)))
		assert.NilError(t, writeAll(conn, encodeServerRecord(t, separator)))
	}()

	servers, err := ListServers(context.Background(), ln.Addr().String(), WithTimeout(2*time.Second))
	assert.NilError(t, err)
	assert.Equal(t, len(servers), 1)
	assert.Equal(t, servers[0].Name, "BBS One")
	assert.Equal(t, servers[0].Port, uint16(5500))
	assert.Equal(t, servers[0].UserCount, uint16(3))
	assert.Equal(t, servers[0].Description, "A cool board")
	assert.Assert(t, servers[0].Address.Equal(net.IPv4(10, 0, 0, 5)))
}

func TestSeparatorDetectsDashOnlyNames(t *testing.T) {
	assert.Assert(t, Server{Name: "---"}.Separator())
	assert.Assert(t, !Server{Name: "My BBS"}.Separator())
	assert.Assert(t, !Server{Name: ""}.Separator())
}

func TestListServersRejectsBadMagic(t *testing.T) {
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	assert.NilError(t, err)
	defer ln.Close()

	go func() {
		conn, err := ln.Accept()
		assert.NilError(t, err)
		defer conn.Close()

		magic := make([]byte, len(trackerMagic))
		assert.NilError(t, readExact(conn, magic))
		writeAll(conn, []byte{'N', 'O', 'P', 'E', 0, 0, 0, 0, 0, 0})
	}()

	_, err = ListServers(context.Background(), ln.Addr().String(), WithTimeout(2*time.Second))
	assert.ErrorContains(t, err, "tracker magic")
}
