package hotline

import (
	"testing"

	"gotest.tools/v3/assert"
)

func TestFileInfoEncodeDecodeRoundTrip(t *testing.T) {
	fi := FileInfo{Type: "TEXT", Creator: "ttxt", Size: 4096, Script: 0, Name: "readme.txt"}
	b, err := fi.Encode(MacRoman)
	assert.NilError(t, err)

	got, err := decodeFileInfo(b, MacRoman)
	assert.NilError(t, err)
	assert.Equal(t, got.Type, fi.Type)
	assert.Equal(t, got.Creator, fi.Creator)
	assert.Equal(t, got.Size, fi.Size)
	assert.Equal(t, got.Name, fi.Name)
	assert.Assert(t, !got.IsFolder())
}

func TestFileInfoIsFolderOnFldrType(t *testing.T) {
	fi := FileInfo{Type: FolderTypeCode, Creator: "\x00\x00\x00\x00", Size: 3, Name: "Games"}
	assert.Assert(t, fi.IsFolder())
}

func TestFileInfoEncodeRejectsShortTypeOrCreator(t *testing.T) {
	fi := FileInfo{Type: "ab", Creator: "ttxt", Name: "x"}
	_, err := fi.Encode(MacRoman)
	assert.ErrorContains(t, err, "4 bytes")
}
