package transfer

import (
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"gotest.tools/v3/assert"
)

func TestFilpEnvelopeEncodeDecodeRoundTrip(t *testing.T) {
	b := encodeFilpEnvelope(2)
	assert.Equal(t, len(b), filpEnvelopeLen)

	version, forkCount, err := decodeFilpEnvelope(b)
	assert.NilError(t, err)
	assert.Equal(t, version, uint16(1))
	assert.Equal(t, forkCount, uint16(2))
}

func TestDecodeFilpEnvelopeRejectsBadMagic(t *testing.T) {
	b := make([]byte, filpEnvelopeLen)
	copy(b, "NOPE")
	_, _, err := decodeFilpEnvelope(b)
	assert.ErrorContains(t, err, "filp envelope")
}

func TestForkHeaderEncodeDecodeRoundTrip(t *testing.T) {
	h := forkHeader{Type: forkTypeData, Flags: 0, DataSize: 4096}
	got := decodeForkHeader(encodeForkHeader(h))
	assert.Equal(t, got.Type, h.Type)
	assert.Equal(t, got.DataSize, h.DataSize)
}

func TestInfoForkEncodeDecodeRoundTrip(t *testing.T) {
	created := newFilpDate(time.Date(2026, time.March, 1, 10, 30, 0, 0, time.UTC))
	f := infoFork{
		Type: "TEXT", Creator: "ttxt",
		Created: created, Modified: created,
		Name:    "readme.txt",
		Comment: "a file",
	}
	got, err := decodeInfoFork(encodeInfoFork(f))
	assert.NilError(t, err)
	if diff := cmp.Diff(f, got); diff != "" {
		t.Errorf("round trip mismatch (-want +got):\n%s", diff)
	}
}

func TestDecodeInfoForkRejectsShortHeader(t *testing.T) {
	_, err := decodeInfoFork([]byte{0, 1, 2})
	assert.ErrorContains(t, err, "info fork")
}
