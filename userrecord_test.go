package hotline

import (
	"testing"

	"gotest.tools/v3/assert"
)

func TestUserEncodeDecodeRoundTrip(t *testing.T) {
	u := User{ID: 7, IconID: 414, Flags: UserFlagAdmin | UserFlagIdle, Name: "zathras"}
	b, err := u.Encode(MacRoman)
	assert.NilError(t, err)

	got, err := decodeUser(b, MacRoman)
	assert.NilError(t, err)
	assert.DeepEqual(t, u, got)
	assert.Assert(t, got.IsAdmin())
	assert.Assert(t, got.IsIdle())
}

func TestDecodeUserRejectsShortField(t *testing.T) {
	_, err := decodeUser([]byte{0, 1, 0, 2}, MacRoman)
	assert.ErrorContains(t, err, "short")
}
