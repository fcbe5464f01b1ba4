package hotline

import (
	"errors"
	"testing"

	"gotest.tools/v3/assert"
)

func TestEncodeStringMacRomanRoundTrip(t *testing.T) {
	cases := []string{"hello", "café", "", "plain ascii text 123"}
	for _, s := range cases {
		b, err := encodeString(s, MacRoman)
		assert.NilError(t, err)
		got, err := decodeString(b, MacRoman)
		assert.NilError(t, err)
		assert.Equal(t, got, s)
	}
}

func TestEncodeStringUTF8PassesThroughRawBytes(t *testing.T) {
	s := "☃ snowman"
	b, err := encodeString(s, UTF8)
	assert.NilError(t, err)
	assert.Equal(t, string(b), s)

	got, err := decodeString(b, UTF8)
	assert.NilError(t, err)
	assert.Equal(t, got, s)
}

func TestDecodeStringUTF8RejectsInvalidBytes(t *testing.T) {
	_, err := decodeString([]byte{0xff, 0xfe, 0xfd}, UTF8)
	var unsupported *UnsupportedEncodingError
	assert.Assert(t, errors.As(err, &unsupported))
}

func TestRenderTextConvertsCRtoLF(t *testing.T) {
	assert.Equal(t, RenderText("line one\rline two\r"), "line one\nline two\n")
}

func TestEncodeStringMacRomanOutsideRepertoireFallsBackToRawUTF8(t *testing.T) {
	// U+1F600 has no MacRoman mapping; encodeString must not lose data.
	s := "\U0001F600"
	b, err := encodeString(s, MacRoman)
	assert.NilError(t, err)
	assert.Equal(t, string(b), s)
}
