package hotline

import (
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"
	"gotest.tools/v3/assert"
)

func TestPathListEncodeDecodeRoundTrip(t *testing.T) {
	cases := [][]string{
		nil,
		{"Uploads"},
		{"Uploads", "Games", "Arcade"},
	}
	for _, segments := range cases {
		b, err := EncodePathList(segments, MacRoman)
		assert.NilError(t, err)

		got, err := DecodePathList(b, MacRoman)
		assert.NilError(t, err)

		want := segments
		if want == nil {
			want = []string{}
		}
		if diff := cmp.Diff(want, got); diff != "" {
			t.Errorf("round trip mismatch (-want +got):\n%s", diff)
		}
	}
}

func TestEncodePathListRejectsOverlongSegment(t *testing.T) {
	long := make([]byte, 300)
	for i := range long {
		long[i] = 'a'
	}
	_, err := EncodePathList([]string{string(long)}, UTF8)
	var violation *ProtocolViolationError
	assert.Assert(t, errors.As(err, &violation))
}
