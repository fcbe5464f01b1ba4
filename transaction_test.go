package hotline

import (
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"
	"gotest.tools/v3/assert"
)

func TestTransactionEncodeDecodeRoundTrip(t *testing.T) {
	cases := []Transaction{
		{Type: TranKeepAlive, ID: 1},
		{IsReply: true, Type: TranLogin, ID: 42, ErrorCode: 0, Fields: []Field{
			PutUint16Field(FieldVersion, 123),
			PutEncodedStringField(FieldUserLogin, "guest"),
		}},
		{IsReply: true, Type: TranGetFileNameList, ID: 7, Fields: []Field{
			NewField(FieldFileNameWithInfo, []byte("fldrAPPL\x00\x00\x00\x05\x00\x00\x00\x00\x04name")),
		}},
	}

	for _, tx := range cases {
		b, err := tx.Encode()
		assert.NilError(t, err)

		got, err := DecodeTransaction(b)
		assert.NilError(t, err)

		if diff := cmp.Diff(tx, got); diff != "" {
			t.Errorf("round trip mismatch (-want +got):\n%s", diff)
		}
	}
}

func TestTransactionEncodeDecodeMaxFieldLength(t *testing.T) {
	data := make([]byte, 0xFFFF)
	for i := range data {
		data[i] = byte(i)
	}
	tx := Transaction{Type: TranUploadFile, ID: 3, Fields: []Field{NewField(FieldData, data)}}

	b, err := tx.Encode()
	assert.NilError(t, err)

	got, err := DecodeTransaction(b)
	assert.NilError(t, err)

	if diff := cmp.Diff(tx, got); diff != "" {
		t.Errorf("round trip mismatch (-want +got):\n%s", diff)
	}
}

func TestTransactionEncodeRejectsOverlongField(t *testing.T) {
	tx := Transaction{Type: TranUploadFile, ID: 3, Fields: []Field{NewField(FieldData, make([]byte, 0x10000))}}
	_, err := tx.Encode()
	var overflow *FieldOverflowError
	assert.Assert(t, errors.As(err, &overflow))
}

func TestTransactionZeroFieldFrameIs22Bytes(t *testing.T) {
	tx := Transaction{Type: TranKeepAlive, ID: 9}
	b, err := tx.Encode()
	assert.NilError(t, err)
	assert.Equal(t, len(b), transactionHeaderLen)
}

func TestDecodeTransactionRejectsShortHeader(t *testing.T) {
	_, err := DecodeTransaction(make([]byte, 10))
	var malformed *MalformedHeaderError
	assert.Assert(t, errors.As(err, &malformed))
}

func TestDecodeTransactionRejectsTruncatedFrame(t *testing.T) {
	tx := Transaction{Type: TranChatSend, ID: 1, Fields: []Field{NewField(FieldData, []byte("hello"))}}
	b, err := tx.Encode()
	assert.NilError(t, err)

	_, err = DecodeTransaction(b[:len(b)-2])
	var truncated *TruncatedFrameError
	assert.Assert(t, errors.As(err, &truncated))
}

func TestTransactionFieldLookup(t *testing.T) {
	tx := Transaction{Fields: []Field{
		NewField(FieldUserName, []byte("alice")),
	}}
	f, ok := tx.Field(FieldUserName)
	assert.Assert(t, ok)
	assert.Equal(t, string(f.Data), "alice")

	_, ok = tx.Field(FieldUserPassword)
	assert.Assert(t, !ok)
}
