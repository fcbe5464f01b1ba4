package transfer

import "golang.org/x/text/encoding/charmap"

// macRomanToUTF8 decodes legacy Mac OS Roman bytes, the encoding FILP
// INFO forks and folder item path components carry names in. Mirrors
// the root package's macroman.go; duplicated here rather than imported
// so the transfer engine has no dependency on the control session's
// internals.
func macRomanToUTF8(b []byte) string {
	out, err := charmap.MacintoshRoman.NewDecoder().Bytes(b)
	if err != nil {
		return string(b)
	}
	return string(out)
}

func utf8ToMacRoman(s string) []byte {
	out, err := charmap.MacintoshRoman.NewEncoder().Bytes([]byte(s))
	if err != nil {
		return []byte(s)
	}
	return out
}
