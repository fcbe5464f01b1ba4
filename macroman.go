package hotline

import (
	"unicode/utf8"

	"golang.org/x/text/encoding/charmap"
)

// StringEncoding selects how a text Field is interpreted.
type StringEncoding int

const (
	// MacRoman is the wire default for Hotline text fields.
	MacRoman StringEncoding = iota
	// UTF8 treats the field bytes as already being UTF-8.
	UTF8
)

// decodeString decodes raw field bytes with the encoding the caller
// selects: MacRoman (the default) or UTF8. The encoding is not
// auto-detected from the bytes.
func decodeString(b []byte, enc StringEncoding) (string, error) {
	switch enc {
	case UTF8:
		if !utf8.Valid(b) {
			return "", &UnsupportedEncodingError{Encoding: enc}
		}
		return string(b), nil
	case MacRoman:
		return macRomanToUTF8(b), nil
	default:
		return "", &UnsupportedEncodingError{Encoding: enc}
	}
}

// encodeString encodes s back to wire bytes for the given encoding.
// Strings outside the MacRoman repertoire round-trip via the
// opaque-bytes UTF-8 path instead of lossy substitution.
func encodeString(s string, enc StringEncoding) ([]byte, error) {
	switch enc {
	case UTF8:
		return []byte(s), nil
	case MacRoman:
		if b, ok := utf8ToMacRoman(s); ok {
			return b, nil
		}
		return []byte(s), nil
	default:
		return nil, &UnsupportedEncodingError{Encoding: enc}
	}
}

// macRomanToUTF8 decodes legacy Mac OS Roman bytes to a Go string.
// charmap.MacintoshRoman.NewDecoder() never reports byte-level
// decoding errors (MacRoman maps every byte value to a rune), so this
// never fails; an encoding error here would indicate corrupt input the
// caller should treat as opaque bytes instead.
func macRomanToUTF8(b []byte) string {
	out, err := charmap.MacintoshRoman.NewDecoder().Bytes(b)
	if err != nil {
		return string(b)
	}
	return string(out)
}

// utf8ToMacRoman encodes s to MacRoman bytes, reporting false if s
// contains characters outside the MacRoman repertoire.
func utf8ToMacRoman(s string) ([]byte, bool) {
	out, err := charmap.MacintoshRoman.NewEncoder().Bytes([]byte(s))
	if err != nil {
		return nil, false
	}
	return out, true
}

// RenderText converts classic Mac CR line terminators to LF for
// display. The canonical on-wire bytes used for round-trips and
// hashing are never modified by this function; callers apply it only
// when preparing text for a UI.
func RenderText(s string) string {
	b := []byte(s)
	out := make([]byte, 0, len(b))
	for _, c := range b {
		if c == '\r' {
			out = append(out, '\n')
		} else {
			out = append(out, c)
		}
	}
	return string(out)
}
