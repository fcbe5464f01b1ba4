package transfer

import (
	"encoding/binary"
	"time"
)

// filpMagic and the fork type codes for the FILP file fork envelope.
var filpMagic = [4]byte{'F', 'I', 'L', 'P'}

const (
	forkTypeInfo = "INFO"
	forkTypeData = "DATA"
	forkTypeMacr = "MACR"
)

const (
	filpEnvelopeLen = 24 // magic(4) version(2) reserved(16) forkCount(2)
	forkHeaderLen   = 16 // type(4) flags(4) reserved(4) dataSize(4)
)

// filpDate is the 8-byte date quadruple INFO forks carry for created
// and modified timestamps, identical in shape to the control session's
// HotlineDate but kept local so the transfer engine has no dependency
// on the root package.
type filpDate struct {
	Year        uint16
	DayOfYear   uint16
	MinuteOfDay uint16
}

func decodeFilpDate(b []byte) filpDate {
	return filpDate{
		Year:        binary.BigEndian.Uint16(b[2:4]),
		DayOfYear:   binary.BigEndian.Uint16(b[4:6]),
		MinuteOfDay: binary.BigEndian.Uint16(b[6:8]),
	}
}

func (d filpDate) encode() []byte {
	b := make([]byte, 8)
	binary.BigEndian.PutUint16(b[2:4], d.Year)
	binary.BigEndian.PutUint16(b[4:6], d.DayOfYear)
	binary.BigEndian.PutUint16(b[6:8], d.MinuteOfDay)
	return b
}

func newFilpDate(t time.Time) filpDate {
	t = t.UTC()
	startOfYear := time.Date(t.Year(), time.January, 1, 0, 0, 0, 0, time.UTC)
	dayOfYear := int(t.Sub(startOfYear).Hours()/24) + 1
	return filpDate{
		Year:        uint16(t.Year()),
		DayOfYear:   uint16(dayOfYear),
		MinuteOfDay: uint16(t.Hour()*60 + t.Minute()),
	}
}

// infoFork is the parsed content of a FILP INFO fork.
type infoFork struct {
	Type, Creator string // 4-char OSType codes
	Flags         uint32
	Created       filpDate
	Modified      filpDate
	Script        uint16
	Name          string
	Comment       string
}

// encodeInfoFork renders an infoFork back to its wire bytes, used when
// flattening a local file into an upload payload.
func encodeInfoFork(f infoFork) []byte {
	nameBytes := utf8ToMacRoman(f.Name)
	commentBytes := utf8ToMacRoman(f.Comment)

	b := make([]byte, 0, 4+4+4+8+8+2+2+len(nameBytes)+2+len(commentBytes))
	b = append(b, osType(f.Type)...)
	b = append(b, osType(f.Creator)...)
	flags := make([]byte, 4)
	binary.BigEndian.PutUint32(flags, f.Flags)
	b = append(b, flags...)
	b = append(b, f.Created.encode()...)
	b = append(b, f.Modified.encode()...)
	script := make([]byte, 2)
	binary.BigEndian.PutUint16(script, f.Script)
	b = append(b, script...)

	nameLen := make([]byte, 2)
	binary.BigEndian.PutUint16(nameLen, uint16(len(nameBytes)))
	b = append(b, nameLen...)
	b = append(b, nameBytes...)

	commentLen := make([]byte, 2)
	binary.BigEndian.PutUint16(commentLen, uint16(len(commentBytes)))
	b = append(b, commentLen...)
	b = append(b, commentBytes...)
	return b
}

// decodeInfoFork parses an INFO fork payload: type, creator, flags,
// created/modified dates, script, name length+bytes, comment
// length+bytes.
func decodeInfoFork(b []byte) (infoFork, error) {
	const fixedLen = 4 + 4 + 4 + 8 + 8 + 2 + 2
	if len(b) < fixedLen {
		return infoFork{}, &ProtocolViolationError{Stage: "info fork header"}
	}
	f := infoFork{
		Type:     string(b[0:4]),
		Creator:  string(b[4:8]),
		Flags:    binary.BigEndian.Uint32(b[8:12]),
		Created:  decodeFilpDate(b[12:20]),
		Modified: decodeFilpDate(b[20:28]),
		Script:   binary.BigEndian.Uint16(b[28:30]),
	}
	off := 30
	nameLen := int(binary.BigEndian.Uint16(b[off : off+2]))
	off += 2
	if off+nameLen > len(b) {
		return infoFork{}, &ProtocolViolationError{Stage: "info fork name"}
	}
	f.Name = macRomanToUTF8(b[off : off+nameLen])
	off += nameLen

	if off+2 > len(b) {
		return f, nil
	}
	commentLen := int(binary.BigEndian.Uint16(b[off : off+2]))
	off += 2
	if off+commentLen > len(b) {
		return infoFork{}, &ProtocolViolationError{Stage: "info fork comment"}
	}
	f.Comment = macRomanToUTF8(b[off : off+commentLen])
	return f, nil
}

func osType(s string) []byte {
	b := []byte("    ")
	copy(b, s)
	return b[:4]
}

// forkHeader is the 16-byte per-fork header preceding each fork's
// payload inside a FILP stream.
type forkHeader struct {
	Type     string
	Flags    uint32
	Reserved uint32
	DataSize uint32
}

func decodeForkHeader(b []byte) forkHeader {
	return forkHeader{
		Type:     string(b[0:4]),
		Flags:    binary.BigEndian.Uint32(b[4:8]),
		Reserved: binary.BigEndian.Uint32(b[8:12]),
		DataSize: binary.BigEndian.Uint32(b[12:16]),
	}
}

func encodeForkHeader(h forkHeader) []byte {
	b := make([]byte, forkHeaderLen)
	copy(b[0:4], osType(h.Type))
	binary.BigEndian.PutUint32(b[4:8], h.Flags)
	binary.BigEndian.PutUint32(b[8:12], h.Reserved)
	binary.BigEndian.PutUint32(b[12:16], h.DataSize)
	return b
}

func encodeFilpEnvelope(forkCount uint16) []byte {
	b := make([]byte, filpEnvelopeLen)
	copy(b[0:4], filpMagic[:])
	binary.BigEndian.PutUint16(b[4:6], 1) // version
	binary.BigEndian.PutUint16(b[22:24], forkCount)
	return b
}

func decodeFilpEnvelope(b []byte) (version uint16, forkCount uint16, err error) {
	if len(b) < filpEnvelopeLen || string(b[0:4]) != string(filpMagic[:]) {
		return 0, 0, &ProtocolViolationError{Stage: "filp envelope"}
	}
	version = binary.BigEndian.Uint16(b[4:6])
	forkCount = binary.BigEndian.Uint16(b[22:24])
	return version, forkCount, nil
}
