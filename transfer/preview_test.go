package transfer

import (
	"bytes"
	"testing"

	"gotest.tools/v3/assert"
)

func TestBannerDownloadBuffersRawBytes(t *testing.T) {
	ln, host, port := listenForTransfer(t)
	defer ln.Close()

	payload := []byte("\x89PNGfakebannerbytes")

	go func() {
		conn := acceptHandshake(t, ln)
		defer conn.Close()
		assert.NilError(t, writeAll(conn, payload))
	}()

	tr, err := NewBannerDownload(host, port, Ticket{RefNum: 1, Size: uint32(len(payload))})
	assert.NilError(t, err)

	var sawCompleted bool
	for p := range tr.Progress() {
		if _, ok := p.(Completed); ok {
			sawCompleted = true
		}
	}
	assert.NilError(t, tr.Wait())
	assert.Assert(t, sawCompleted)
	assert.Assert(t, bytes.Equal(tr.Result(), payload))
}
