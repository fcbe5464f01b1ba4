package transfer

import (
	"net"
	"os"
	"path/filepath"
	"testing"

	"gotest.tools/v3/assert"
)

func listenForTransfer(t *testing.T) (net.Listener, string, int) {
	t.Helper()
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	assert.NilError(t, err)
	addr := ln.Addr().(*net.TCPAddr)
	return ln, addr.IP.String(), addr.Port
}

func acceptHandshake(t *testing.T, ln net.Listener) net.Conn {
	t.Helper()
	conn, err := ln.Accept()
	assert.NilError(t, err)
	hdr := make([]byte, 16)
	assert.NilError(t, readExact(conn, hdr))
	return conn
}

// TestFileDownloadWithProgress is the literal "download with progress"
// scenario: a server sends a FILP envelope with an INFO fork naming
// readme.txt and a 1234-byte DATA fork of 'A'. Progress fractions must
// stay non-decreasing and the file on disk must match exactly.
func TestFileDownloadWithProgress(t *testing.T) {
	ln, host, port := listenForTransfer(t)
	defer ln.Close()

	const size = 1234
	payload := make([]byte, size)
	for i := range payload {
		payload[i] = 'A'
	}

	go func() {
		conn := acceptHandshake(t, ln)
		defer conn.Close()

		info := encodeInfoFork(infoFork{Type: "TEXT", Creator: "ttxt", Name: "readme.txt"})
		conn.Write(encodeFilpEnvelope(2))
		conn.Write(encodeForkHeader(forkHeader{Type: forkTypeInfo, DataSize: uint32(len(info))}))
		conn.Write(info)
		conn.Write(encodeForkHeader(forkHeader{Type: forkTypeData, DataSize: uint32(size)}))
		conn.Write(payload)
	}()

	destDir := t.TempDir()
	tr, err := NewFileDownload(host, port, Ticket{RefNum: 1, Size: size}, destDir)
	assert.NilError(t, err)

	var fractions []float64
	var sawCompleted bool
	for p := range tr.Progress() {
		switch v := p.(type) {
		case TransferProgress:
			fractions = append(fractions, v.Fraction)
		case Completed:
			sawCompleted = true
			assert.Equal(t, v.URL, filepath.Join(destDir, "readme.txt"))
		case Error:
			t.Fatalf("unexpected error progress: %+v", v)
		}
	}
	assert.NilError(t, tr.Wait())
	assert.Assert(t, sawCompleted)

	for i := 1; i < len(fractions); i++ {
		assert.Assert(t, fractions[i] >= fractions[i-1])
	}

	got, err := os.ReadFile(filepath.Join(destDir, "readme.txt"))
	assert.NilError(t, err)
	assert.Equal(t, len(got), size)
	assert.Equal(t, string(got), string(payload))
}

func TestFileDownloadRejectsMissingInfoFork(t *testing.T) {
	ln, host, port := listenForTransfer(t)
	defer ln.Close()

	go func() {
		conn := acceptHandshake(t, ln)
		defer conn.Close()
		conn.Write(encodeFilpEnvelope(0))
	}()

	destDir := t.TempDir()
	tr, err := NewFileDownload(host, port, Ticket{RefNum: 1}, destDir)
	assert.NilError(t, err)

	var sawError bool
	for p := range tr.Progress() {
		if _, ok := p.(Error); ok {
			sawError = true
		}
	}
	assert.Assert(t, sawError)
	assert.ErrorContains(t, tr.Wait(), "missing info fork")
}
