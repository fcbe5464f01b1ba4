package transfer

import "encoding/binary"

const (
	itemTypeFile   uint16 = 0
	itemTypeFolder uint16 = 1
)

// folderItem is one entry in a folder transfer's item stream.
type folderItem struct {
	Type uint16
	Path []string // path components relative to the transferred folder's root
}

func (it folderItem) isFolder() bool { return it.Type == itemTypeFolder }

// encodeFolderItem renders the 2-byte length-prefixed item header:
// itemType, path component count, then per component (2 reserved
// zeros, 1-byte length, bytes).
func encodeFolderItem(it folderItem) []byte {
	body := make([]byte, 0, 4+8*len(it.Path))
	itemType := make([]byte, 2)
	binary.BigEndian.PutUint16(itemType, it.Type)
	body = append(body, itemType...)

	count := make([]byte, 2)
	binary.BigEndian.PutUint16(count, uint16(len(it.Path)))
	body = append(body, count...)

	for _, name := range it.Path {
		nameBytes := utf8ToMacRoman(name)
		body = append(body, 0, 0, byte(len(nameBytes)))
		body = append(body, nameBytes...)
	}

	out := make([]byte, 2, 2+len(body))
	binary.BigEndian.PutUint16(out, uint16(len(body)))
	return append(out, body...)
}

// decodeFolderItem parses the header bytes following the 2-byte
// length prefix (the caller has already read and stripped it).
func decodeFolderItem(b []byte) (folderItem, error) {
	if len(b) < 4 {
		return folderItem{}, &ProtocolViolationError{Stage: "folder item header"}
	}
	it := folderItem{Type: binary.BigEndian.Uint16(b[0:2])}
	count := int(binary.BigEndian.Uint16(b[2:4]))
	off := 4
	for i := 0; i < count; i++ {
		if off+3 > len(b) {
			return folderItem{}, &ProtocolViolationError{Stage: "folder item path component"}
		}
		n := int(b[off+2])
		off += 3
		if off+n > len(b) {
			return folderItem{}, &ProtocolViolationError{Stage: "folder item path component"}
		}
		it.Path = append(it.Path, macRomanToUTF8(b[off:off+n]))
		off += n
	}
	return it, nil
}
