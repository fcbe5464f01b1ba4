package transfer

import (
	"os"
	"path/filepath"
	"testing"

	"gotest.tools/v3/assert"
)

func TestFileUploadSendsInfoThenData(t *testing.T) {
	ln, host, port := listenForTransfer(t)
	defer ln.Close()

	content := []byte("hello from a local file\n")
	srcPath := filepath.Join(t.TempDir(), "note.txt")
	assert.NilError(t, os.WriteFile(srcPath, content, 0o644))

	received := make(chan []byte, 1)
	go func() {
		conn := acceptHandshake(t, ln)
		defer conn.Close()

		envelope := make([]byte, filpEnvelopeLen)
		assert.NilError(t, readExact(conn, envelope))
		_, forkCount, err := decodeFilpEnvelope(envelope)
		assert.NilError(t, err)
		assert.Equal(t, forkCount, uint16(2))

		infoHdr := make([]byte, forkHeaderLen)
		assert.NilError(t, readExact(conn, infoHdr))
		ih := decodeForkHeader(infoHdr)
		assert.Equal(t, ih.Type, forkTypeInfo)
		infoBody := make([]byte, ih.DataSize)
		assert.NilError(t, readExact(conn, infoBody))
		info, err := decodeInfoFork(infoBody)
		assert.NilError(t, err)
		assert.Equal(t, info.Name, "note.txt")

		dataHdr := make([]byte, forkHeaderLen)
		assert.NilError(t, readExact(conn, dataHdr))
		dh := decodeForkHeader(dataHdr)
		assert.Equal(t, dh.Type, forkTypeData)
		body := make([]byte, dh.DataSize)
		assert.NilError(t, readExact(conn, body))
		received <- body
	}()

	tr, err := NewFileUpload(host, port, Ticket{RefNum: 1}, srcPath)
	assert.NilError(t, err)

	var sawCompleted bool
	for p := range tr.Progress() {
		if _, ok := p.(Completed); ok {
			sawCompleted = true
		}
	}
	assert.NilError(t, tr.Wait())
	assert.Assert(t, sawCompleted)
	assert.DeepEqual(t, <-received, content)
}
