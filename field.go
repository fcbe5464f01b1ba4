package hotline

import "encoding/binary"

// FieldType identifies the kind of data a Field carries. Hotline fields
// are typed the way jhalter/mobius's transaction.go types transactions:
// a flat block of named constants plus a name-lookup map for logging.
type FieldType uint16

// Field type codes. Values follow the numbering used across published
// Hotline protocol documentation and the jhalter/mobius reference
// implementation retrieved alongside this spec.
const (
	FieldError              FieldType = 100
	FieldData                FieldType = 101
	FieldUserName           FieldType = 102
	FieldUserIconID         FieldType = 104
	FieldUserLogin          FieldType = 105
	FieldUserPassword       FieldType = 106
	FieldRefNum             FieldType = 107
	FieldTransferSize       FieldType = 108
	FieldChatOptions        FieldType = 109
	FieldUserAccess         FieldType = 110
	FieldUserAlias          FieldType = 111
	FieldUserFlags          FieldType = 112
	FieldOptions            FieldType = 113
	FieldChatID             FieldType = 114
	FieldChatSubject        FieldType = 115
	FieldWaitingCount       FieldType = 116

	FieldNewsArtTitle    FieldType = 201
	FieldNewsArtPoster   FieldType = 202
	FieldNewsArtDate     FieldType = 203
	FieldNewsArtPrevious FieldType = 204
	FieldNewsArtNext     FieldType = 205
	FieldNewsArtData     FieldType = 206
	FieldNewsArtFlags    FieldType = 207
	FieldNewsArtParent   FieldType = 208
	FieldNewsArtFirstChild FieldType = 209
	FieldNewsPath        FieldType = 210
	FieldNewsCatName     FieldType = 211
	FieldNewsCatListData FieldType = 212
	FieldNewsArtID       FieldType = 213
	FieldNewsArtDataFlav FieldType = 214

	FieldFileNameWithInfo   FieldType = 300
	FieldFileName           FieldType = 301
	FieldFilePath           FieldType = 302
	FieldFileResumeData     FieldType = 303
	FieldFileTransferOpts   FieldType = 304
	FieldFileTypeString     FieldType = 305
	FieldFileCreatorString  FieldType = 306
	FieldFileSize           FieldType = 307
	FieldFileCreateDate     FieldType = 308
	FieldFileModifyDate     FieldType = 309
	FieldFileComment        FieldType = 310
	FieldFileNewName        FieldType = 311
	FieldFileNewPath        FieldType = 312
	FieldFileType           FieldType = 313

	FieldUserNameWithInfo FieldType = 400

	FieldVersion        FieldType = 160
	FieldCommunityBanner FieldType = 161
	FieldServerName     FieldType = 162
	FieldNoServerAgree  FieldType = 163
	FieldBannerType     FieldType = 164
	FieldServerVersion  FieldType = 165
	FieldErrorText      FieldType = 166
	FieldAutomaticResp  FieldType = 167
)

var fieldTypeNames = map[FieldType]string{
	FieldError:              "Error",
	FieldData:                "Data",
	FieldUserName:           "UserName",
	FieldUserIconID:         "UserIconID",
	FieldUserLogin:          "UserLogin",
	FieldUserPassword:       "UserPassword",
	FieldRefNum:             "RefNum",
	FieldTransferSize:       "TransferSize",
	FieldChatOptions:        "ChatOptions",
	FieldUserAccess:         "UserAccess",
	FieldUserAlias:          "UserAlias",
	FieldUserFlags:          "UserFlags",
	FieldOptions:            "Options",
	FieldChatID:             "ChatID",
	FieldChatSubject:        "ChatSubject",
	FieldWaitingCount:       "WaitingCount",
	FieldNewsArtTitle:       "NewsArtTitle",
	FieldNewsArtPoster:      "NewsArtPoster",
	FieldNewsArtDate:        "NewsArtDate",
	FieldNewsArtPrevious:    "NewsArtPrevious",
	FieldNewsArtNext:        "NewsArtNext",
	FieldNewsArtData:        "NewsArtData",
	FieldNewsArtFlags:       "NewsArtFlags",
	FieldNewsArtParent:      "NewsArtParent",
	FieldNewsArtFirstChild:  "NewsArtFirstChild",
	FieldNewsPath:           "NewsPath",
	FieldNewsCatName:        "NewsCatName",
	FieldNewsCatListData:    "NewsCatListData",
	FieldNewsArtID:          "NewsArtID",
	FieldNewsArtDataFlav:    "NewsArtDataFlavor",
	FieldFileNameWithInfo:   "FileNameWithInfo",
	FieldFileName:           "FileName",
	FieldFilePath:           "FilePath",
	FieldFileResumeData:     "FileResumeData",
	FieldFileTransferOpts:   "FileTransferOptions",
	FieldFileTypeString:     "FileTypeString",
	FieldFileCreatorString:  "FileCreatorString",
	FieldFileSize:           "FileSize",
	FieldFileCreateDate:     "FileCreateDate",
	FieldFileModifyDate:     "FileModifyDate",
	FieldFileComment:        "FileComment",
	FieldFileNewName:        "FileNewName",
	FieldFileNewPath:        "FileNewPath",
	FieldFileType:           "FileType",
	FieldUserNameWithInfo:   "UserNameWithInfo",
	FieldVersion:            "Version",
	FieldCommunityBanner:    "CommunityBanner",
	FieldServerName:         "ServerName",
	FieldNoServerAgree:      "NoServerAgreement",
	FieldBannerType:         "BannerType",
	FieldServerVersion:      "ServerVersion",
	FieldErrorText:          "ErrorText",
	FieldAutomaticResp:      "AutomaticResponse",
}

// String implements fmt.Stringer for logging, the way mobius's
// TranType.LogValue resolves a human name for a wire code.
func (f FieldType) String() string {
	if name, ok := fieldTypeNames[f]; ok {
		return name
	}
	return "Unknown"
}

// Field is a single typed, length-prefixed value inside a transaction's
// payload.
type Field struct {
	Type FieldType
	Data []byte
}

// NewField builds a Field from raw bytes.
func NewField(t FieldType, data []byte) Field {
	return Field{Type: t, Data: data}
}

// Uint8 decodes Data as a single byte.
func (f Field) Uint8() (uint8, error) {
	if len(f.Data) < 1 {
		return 0, &InvalidResponseError{Reason: "field too short for uint8"}
	}
	return f.Data[0], nil
}

// Uint16 decodes Data as a big-endian uint16.
func (f Field) Uint16() (uint16, error) {
	if len(f.Data) < 2 {
		return 0, &InvalidResponseError{Reason: "field too short for uint16"}
	}
	return binary.BigEndian.Uint16(f.Data), nil
}

// Uint32 decodes Data as a big-endian uint32.
func (f Field) Uint32() (uint32, error) {
	if len(f.Data) < 4 {
		return 0, &InvalidResponseError{Reason: "field too short for uint32"}
	}
	return binary.BigEndian.Uint32(f.Data), nil
}

// Uint64 decodes Data as a big-endian uint64.
func (f Field) Uint64() (uint64, error) {
	if len(f.Data) < 8 {
		return 0, &InvalidResponseError{Reason: "field too short for uint64"}
	}
	return binary.BigEndian.Uint64(f.Data), nil
}

// String decodes Data as text using the given encoding. MacRoman is
// the wire default; UTF8 is accepted for servers/fields that opt in.
func (f Field) String(enc StringEncoding) (string, error) {
	return decodeString(f.Data, enc)
}

// EncodedString decodes an XOR-0xFF obfuscated field (login/password
// and some admin fields), returning the plain text.
func (f Field) EncodedString() string {
	return string(xorComplement(f.Data))
}

// Date decodes Data as a Hotline 8-byte date quadruple.
func (f Field) Date() (HotlineDate, error) {
	return decodeHotlineDate(f.Data)
}

// PutUint16Field returns a Field carrying a big-endian uint16.
func PutUint16Field(t FieldType, v uint16) Field {
	b := make([]byte, 2)
	binary.BigEndian.PutUint16(b, v)
	return Field{Type: t, Data: b}
}

// PutUint32Field returns a Field carrying a big-endian uint32.
func PutUint32Field(t FieldType, v uint32) Field {
	b := make([]byte, 4)
	binary.BigEndian.PutUint32(b, v)
	return Field{Type: t, Data: b}
}

// PutStringField returns a Field carrying text encoded per enc.
func PutStringField(t FieldType, s string, enc StringEncoding) (Field, error) {
	b, err := encodeString(s, enc)
	if err != nil {
		return Field{}, err
	}
	return Field{Type: t, Data: b}, nil
}

// PutEncodedStringField returns a Field carrying an XOR-0xFF
// obfuscated string, used for login/password fields.
func PutEncodedStringField(t FieldType, s string) Field {
	return Field{Type: t, Data: xorComplement([]byte(s))}
}

// xorComplement XORs every byte with 0xFF; it is its own inverse.
func xorComplement(b []byte) []byte {
	out := make([]byte, len(b))
	for i, c := range b {
		out[i] = c ^ 0xFF
	}
	return out
}
