package transfer

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"gotest.tools/v3/assert"
)

func TestFolderItemEncodeDecodeRoundTrip(t *testing.T) {
	cases := []folderItem{
		{Type: itemTypeFolder, Path: []string{"a"}},
		{Type: itemTypeFile, Path: []string{"a", "1.txt"}},
		{Type: itemTypeFile, Path: []string{"b.txt"}},
	}
	for _, it := range cases {
		encoded := encodeFolderItem(it)
		length := int(encoded[0])<<8 | int(encoded[1])
		assert.Equal(t, length, len(encoded)-2)

		got, err := decodeFolderItem(encoded[2:])
		assert.NilError(t, err)
		if diff := cmp.Diff(it, got); diff != "" {
			t.Errorf("round trip mismatch (-want +got):\n%s", diff)
		}
	}
}

func TestDecodeFolderItemRejectsShortHeader(t *testing.T) {
	_, err := decodeFolderItem([]byte{0, 1})
	assert.ErrorContains(t, err, "folder item header")
}

func TestDecodeFolderItemRejectsTruncatedPathComponent(t *testing.T) {
	b := []byte{0, 0, 0, 1, 0, 0, 5, 'a'}
	_, err := decodeFolderItem(b)
	assert.ErrorContains(t, err, "folder item path component")
}
