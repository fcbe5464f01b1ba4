package hotline

import "encoding/binary"

// FolderTypeCode is the 4-byte type code the server uses to mark a
// FileNameWithInfo record as a folder.
const FolderTypeCode = "fldr"

// FileInfo mirrors the packed FileNameWithInfo field.
type FileInfo struct {
	Type    string // 4-byte type code, e.g. "fldr" for folders
	Creator string // 4-byte creator code
	Size    uint32 // bytes, or item count for folders
	Script  uint16 // nameScript
	Name    string
	Path    []string // populated by the caller from the request path, not the wire record
}

// IsFolder reports whether the record's type code marks it a folder.
func (fi FileInfo) IsFolder() bool { return fi.Type == FolderTypeCode }

// decodeFileInfo parses a packed FileNameWithInfo field.
func decodeFileInfo(b []byte, enc StringEncoding) (FileInfo, error) {
	if len(b) < 20 {
		return FileInfo{}, &InvalidResponseError{Reason: "short FileNameWithInfo field"}
	}
	nameLen := int(binary.BigEndian.Uint16(b[18:20]))
	if len(b) < 20+nameLen {
		return FileInfo{}, &InvalidResponseError{Reason: "FileNameWithInfo name truncated"}
	}
	name, err := decodeString(b[20:20+nameLen], enc)
	if err != nil {
		return FileInfo{}, err
	}
	return FileInfo{
		Type:    string(b[0:4]),
		Creator: string(b[4:8]),
		Size:    binary.BigEndian.Uint32(b[8:12]),
		// b[12:16] is reserved; b[16:18] is nameScript.
		Script: binary.BigEndian.Uint16(b[16:18]),
		Name:   name,
	}, nil
}

// Encode renders the record back to its packed wire form.
func (fi FileInfo) Encode(enc StringEncoding) ([]byte, error) {
	if len(fi.Type) != 4 || len(fi.Creator) != 4 {
		return nil, &ProtocolViolationError{Stage: "FileNameWithInfo encode: type/creator must be 4 bytes"}
	}
	nameBytes, err := encodeString(fi.Name, enc)
	if err != nil {
		return nil, err
	}
	out := make([]byte, 20+len(nameBytes))
	copy(out[0:4], fi.Type)
	copy(out[4:8], fi.Creator)
	binary.BigEndian.PutUint32(out[8:12], fi.Size)
	binary.BigEndian.PutUint16(out[16:18], fi.Script)
	binary.BigEndian.PutUint16(out[18:20], uint16(len(nameBytes)))
	copy(out[20:], nameBytes)
	return out, nil
}

// NewsCategoryKind distinguishes bundles (sub-categories) from leaf
// categories in a news listing.
type NewsCategoryKind uint16

const (
	NewsCategoryBundle   NewsCategoryKind = 2
	NewsCategoryCategory NewsCategoryKind = 3
)

// NewsCategory is one entry of a news category listing.
type NewsCategory struct {
	Kind      NewsCategoryKind
	ItemCount uint16
	Name      string
	GUID      [16]byte // only meaningful when present; zero otherwise
}
