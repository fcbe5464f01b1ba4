package hotline

import (
	"testing"

	"gotest.tools/v3/assert"
)

func TestPutFieldHelpersRoundTrip(t *testing.T) {
	u16 := PutUint16Field(FieldUserIconID, 414)
	v, err := u16.Uint16()
	assert.NilError(t, err)
	assert.Equal(t, v, uint16(414))

	u32 := PutUint32Field(FieldTransferSize, 123456)
	v32, err := u32.Uint32()
	assert.NilError(t, err)
	assert.Equal(t, v32, uint32(123456))

	str, err := PutStringField(FieldUserName, "zathras", MacRoman)
	assert.NilError(t, err)
	got, err := str.String(MacRoman)
	assert.NilError(t, err)
	assert.Equal(t, got, "zathras")
}

func TestEncodedStringFieldIsXORComplementAndSelfInverse(t *testing.T) {
	f := PutEncodedStringField(FieldUserLogin, "admin")
	assert.Assert(t, string(f.Data) != "admin")
	assert.Equal(t, f.EncodedString(), "admin")
}

func TestFieldUintAccessorsRejectShortData(t *testing.T) {
	f := Field{Type: FieldUserIconID, Data: []byte{1}}
	_, err := f.Uint16()
	assert.ErrorContains(t, err, "too short")
}

func TestFieldTypeStringUnknownFallsBackToUnknown(t *testing.T) {
	assert.Equal(t, FieldType(65000).String(), "Unknown")
	assert.Equal(t, FieldUserName.String(), "UserName")
}
