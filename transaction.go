package hotline

import "encoding/binary"

// TranType identifies a transaction's operation code. The const block
// below mirrors the naming and layout used by jhalter/mobius's
// transaction.go: named constants plus a lookup map for logging.
type TranType uint16

const (
	TranError          TranType = 0
	TranGetMsgs        TranType = 101
	TranNewMsg         TranType = 102
	TranOldPostNews    TranType = 103
	TranServerMsg      TranType = 104
	TranChatSend       TranType = 105
	TranChatMsg        TranType = 106
	TranLogin          TranType = 107
	TranSendInstantMsg TranType = 108
	TranShowAgreement  TranType = 109
	TranDisconnectUser TranType = 110
	TranDisconnectMsg  TranType = 111
	TranAgreed         TranType = 121
	TranServerBanner   TranType = 122

	TranGetFileNameList TranType = 200
	TranDownloadFile    TranType = 202
	TranUploadFile      TranType = 203
	TranDeleteFile      TranType = 204
	TranNewFolder       TranType = 205
	TranGetFileInfo     TranType = 206
	TranSetFileInfo     TranType = 207
	TranMoveFile        TranType = 208
	TranDownloadFldr    TranType = 210
	TranDownloadBanner  TranType = 212
	TranUploadFldr      TranType = 213

	TranGetUserNameList   TranType = 300
	TranNotifyChangeUser  TranType = 301
	TranNotifyDeleteUser  TranType = 302
	TranSetClientUserInfo TranType = 304

	TranGetMessageBoard  TranType = 340
	TranPostMessageBoard TranType = 341

	TranListUsers  TranType = 348
	TranUpdateUser TranType = 349
	TranNewUser    TranType = 350
	TranDeleteUser TranType = 351
	TranGetUser    TranType = 352
	TranSetUser    TranType = 353
	TranUserAccess TranType = 354

	TranGetNewsCatNameList TranType = 370
	TranGetNewsArtNameList TranType = 371
	TranNewNewsCat         TranType = 380
	TranNewNewsFldr        TranType = 381

	TranGetNewsArtData TranType = 400
	TranPostNewsArt    TranType = 410
	TranDelNewsArt     TranType = 411

	TranKeepAlive TranType = 500
)

var tranTypeNames = map[TranType]string{
	TranError:              "Error",
	TranGetMsgs:            "GetMsgs",
	TranNewMsg:             "NewMsg",
	TranOldPostNews:        "OldPostNews",
	TranServerMsg:          "ServerMsg",
	TranChatSend:           "ChatSend",
	TranChatMsg:            "ChatMsg",
	TranLogin:              "Login",
	TranSendInstantMsg:     "SendInstantMsg",
	TranShowAgreement:      "ShowAgreement",
	TranDisconnectUser:     "DisconnectUser",
	TranDisconnectMsg:      "DisconnectMsg",
	TranAgreed:             "Agreed",
	TranServerBanner:       "ServerBanner",
	TranGetFileNameList:    "GetFileNameList",
	TranDownloadFile:       "DownloadFile",
	TranUploadFile:         "UploadFile",
	TranDeleteFile:         "DeleteFile",
	TranNewFolder:          "NewFolder",
	TranGetFileInfo:        "GetFileInfo",
	TranSetFileInfo:        "SetFileInfo",
	TranMoveFile:           "MoveFile",
	TranDownloadFldr:       "DownloadFldr",
	TranDownloadBanner:     "DownloadBanner",
	TranUploadFldr:         "UploadFldr",
	TranGetUserNameList:    "GetUserNameList",
	TranNotifyChangeUser:   "NotifyChangeUser",
	TranNotifyDeleteUser:   "NotifyDeleteUser",
	TranSetClientUserInfo:  "SetClientUserInfo",
	TranGetMessageBoard:    "GetMessageBoard",
	TranPostMessageBoard:   "PostMessageBoard",
	TranListUsers:          "ListUsers",
	TranUpdateUser:         "UpdateUser",
	TranNewUser:            "NewUser",
	TranDeleteUser:         "DeleteUser",
	TranGetUser:            "GetUser",
	TranSetUser:            "SetUser",
	TranUserAccess:         "UserAccess",
	TranGetNewsCatNameList: "GetNewsCatNameList",
	TranGetNewsArtNameList: "GetNewsArtNameList",
	TranNewNewsCat:         "NewNewsCat",
	TranNewNewsFldr:        "NewNewsFldr",
	TranGetNewsArtData:     "GetNewsArtData",
	TranPostNewsArt:        "PostNewsArt",
	TranDelNewsArt:         "DelNewsArt",
	TranKeepAlive:          "KeepAlive",
}

func (t TranType) String() string {
	if name, ok := tranTypeNames[t]; ok {
		return name
	}
	return "Unknown"
}

// transactionHeaderLen is the fixed prefix before the field block:
// flags(1) + isReply(1) + type(2) + id(4) + errorCode(4) + totalSize(4)
// + dataSize(4) + fieldCount(2) = 22 bytes. A frame with no fields is
// still a full 22-byte record.
const transactionHeaderLen = 22

// Transaction is a framed, typed request or event on the control
// channel.
type Transaction struct {
	IsReply   bool
	Type      TranType
	ID        uint32
	ErrorCode uint32
	Fields    []Field
}

// NewTransaction builds a request Transaction with the given id.
func NewTransaction(t TranType, id uint32, fields ...Field) Transaction {
	return Transaction{Type: t, ID: id, Fields: fields}
}

// Field looks up the first field of the given type, reporting ok=false
// if absent. Hotline frames may legally omit optional fields.
func (t Transaction) Field(ft FieldType) (Field, bool) {
	for _, f := range t.Fields {
		if f.Type == ft {
			return f, true
		}
	}
	return Field{}, false
}

// ErrorText returns the FieldErrorText field's MacRoman text, if present.
func (t Transaction) ErrorText() string {
	if f, ok := t.Field(FieldErrorText); ok {
		s, err := f.String(MacRoman)
		if err == nil {
			return s
		}
	}
	return ""
}

// fieldsByteLength returns Σ (4 + field.length), the value totalSize
// and dataSize must both equal.
func fieldsByteLength(fields []Field) int {
	n := 0
	for _, f := range fields {
		n += 4 + len(f.Data)
	}
	return n
}

func appendUint16(b []byte, v uint16) []byte {
	return append(b, byte(v>>8), byte(v))
}

func appendUint32(b []byte, v uint32) []byte {
	return append(b, byte(v>>24), byte(v>>16), byte(v>>8), byte(v))
}

// Encode renders the transaction to its wire form:
// flags(1) | isReply(1) | type(2) | id(4) | errorCode(4) | totalSize(4)
// | dataSize(4) | fieldCount(2) | repeated fields, each
// type(2) | length(2) | bytes. A frame with zero fields still writes
// the count as 0.
func (t Transaction) Encode() ([]byte, error) {
	if len(t.Fields) > 0xFFFF {
		return nil, &ProtocolViolationError{Stage: "transaction encode: too many fields"}
	}

	payloadLen := fieldsByteLength(t.Fields)
	buf := make([]byte, 0, transactionHeaderLen+payloadLen)

	var isReply byte
	if t.IsReply {
		isReply = 1
	}
	buf = append(buf, 0, isReply) // flags, isReply
	buf = appendUint16(buf, uint16(t.Type))
	buf = appendUint32(buf, t.ID)
	buf = appendUint32(buf, t.ErrorCode)
	buf = appendUint32(buf, uint32(payloadLen))
	buf = appendUint32(buf, uint32(payloadLen))
	buf = appendUint16(buf, uint16(len(t.Fields)))

	for _, f := range t.Fields {
		if len(f.Data) > 0xFFFF {
			return nil, &FieldOverflowError{FieldType: uint16(f.Type)}
		}
		buf = appendUint16(buf, uint16(f.Type))
		buf = appendUint16(buf, uint16(len(f.Data)))
		buf = append(buf, f.Data...)
	}

	return buf, nil
}

// DecodeTransaction parses a transaction from a full frame: the fixed
// 22-byte header followed by exactly dataSize bytes of fields. It does
// not read from a stream — see readTransaction in control.go for the
// length-delimited read off a net.Conn.
func DecodeTransaction(b []byte) (Transaction, error) {
	if len(b) < transactionHeaderLen {
		return Transaction{}, &MalformedHeaderError{Reason: "frame shorter than 22-byte header"}
	}

	isReply := b[1] != 0
	typ := binary.BigEndian.Uint16(b[2:4])
	id := binary.BigEndian.Uint32(b[4:8])
	errCode := binary.BigEndian.Uint32(b[8:12])
	totalSize := binary.BigEndian.Uint32(b[12:16])
	dataSize := binary.BigEndian.Uint32(b[16:20])
	fieldCount := binary.BigEndian.Uint16(b[20:22])

	if totalSize != dataSize {
		return Transaction{}, &MalformedHeaderError{Reason: "totalSize != dataSize"}
	}

	body := b[transactionHeaderLen:]
	if uint32(len(body)) < dataSize {
		return Transaction{}, &TruncatedFrameError{Want: int(dataSize), Got: len(body)}
	}
	body = body[:dataSize]

	var fields []Field
	offset := 0
	for i := 0; i < int(fieldCount); i++ {
		if offset+4 > len(body) {
			return Transaction{}, &FieldOverflowError{}
		}
		ft := binary.BigEndian.Uint16(body[offset : offset+2])
		length := int(binary.BigEndian.Uint16(body[offset+2 : offset+4]))
		offset += 4
		if offset+length > len(body) {
			return Transaction{}, &FieldOverflowError{FieldType: ft}
		}
		data := make([]byte, length)
		copy(data, body[offset:offset+length])
		fields = append(fields, Field{Type: FieldType(ft), Data: data})
		offset += length
	}

	if fieldsByteLength(fields) != int(dataSize) {
		return Transaction{}, &MalformedHeaderError{Reason: "declared dataSize does not match sum of field lengths"}
	}

	return Transaction{
		IsReply:   isReply,
		Type:      TranType(typ),
		ID:        id,
		ErrorCode: errCode,
		Fields:    fields,
	}, nil
}
