package hotline

import "encoding/binary"

// EncodePathList renders a sequence of path segments to the wire
// format: a 2-byte count followed by, per segment, 2 reserved zero
// bytes, a 1-byte length and the segment bytes.
func EncodePathList(segments []string, enc StringEncoding) ([]byte, error) {
	if len(segments) > 0xFFFF {
		return nil, &ProtocolViolationError{Stage: "path list encode: too many segments"}
	}

	out := make([]byte, 2)
	binary.BigEndian.PutUint16(out, uint16(len(segments)))

	for _, seg := range segments {
		b, err := encodeString(seg, enc)
		if err != nil {
			return nil, err
		}
		if len(b) > 0xFF {
			return nil, &ProtocolViolationError{Stage: "path list encode: segment too long"}
		}
		out = append(out, 0, 0, byte(len(b)))
		out = append(out, b...)
	}
	return out, nil
}

// DecodePathList parses the wire format produced by EncodePathList.
func DecodePathList(b []byte, enc StringEncoding) ([]string, error) {
	if len(b) < 2 {
		return nil, &InvalidResponseError{Reason: "path list shorter than count"}
	}
	count := binary.BigEndian.Uint16(b)
	segments := make([]string, 0, count)
	offset := 2

	for i := 0; i < int(count); i++ {
		if offset+3 > len(b) {
			return nil, &InvalidResponseError{Reason: "path list segment header truncated"}
		}
		length := int(b[offset+2])
		offset += 3
		if offset+length > len(b) {
			return nil, &InvalidResponseError{Reason: "path list segment body truncated"}
		}
		s, err := decodeString(b[offset:offset+length], enc)
		if err != nil {
			return nil, err
		}
		segments = append(segments, s)
		offset += length
	}
	return segments, nil
}
