package hotline

import (
	"encoding/binary"
	"time"
)

// HotlineDate is the 8-byte date quadruple used by file records, news
// articles and account metadata: 2 reserved bytes, a 2-byte year, a
// 2-byte day-of-year, and a 2-byte minute-of-day.
type HotlineDate struct {
	Year      uint16
	DayOfYear uint16
	MinuteOfDay uint16
}

// decodeHotlineDate parses the 8-byte wire representation.
func decodeHotlineDate(b []byte) (HotlineDate, error) {
	if len(b) < 8 {
		return HotlineDate{}, &InvalidResponseError{Reason: "short hotline date field"}
	}
	return HotlineDate{
		Year:        binary.BigEndian.Uint16(b[2:4]),
		DayOfYear:   binary.BigEndian.Uint16(b[4:6]),
		MinuteOfDay: binary.BigEndian.Uint16(b[6:8]),
	}, nil
}

// Encode renders the quadruple back to its 8-byte wire form.
func (d HotlineDate) Encode() []byte {
	b := make([]byte, 8)
	binary.BigEndian.PutUint16(b[2:4], d.Year)
	binary.BigEndian.PutUint16(b[4:6], d.DayOfYear)
	binary.BigEndian.PutUint16(b[6:8], d.MinuteOfDay)
	return b
}

// Time converts the quadruple to a time.Time in UTC. DayOfYear is
// 1-based per the classic Mac OS date representation.
func (d HotlineDate) Time() time.Time {
	base := time.Date(int(d.Year), time.January, 1, 0, 0, 0, 0, time.UTC)
	return base.AddDate(0, 0, int(d.DayOfYear)-1).
		Add(time.Duration(d.MinuteOfDay) * time.Minute)
}

// NewHotlineDate builds a quadruple from a time.Time.
func NewHotlineDate(t time.Time) HotlineDate {
	t = t.UTC()
	startOfYear := time.Date(t.Year(), time.January, 1, 0, 0, 0, 0, time.UTC)
	dayOfYear := int(t.Sub(startOfYear).Hours()/24) + 1
	minuteOfDay := t.Hour()*60 + t.Minute()
	return HotlineDate{
		Year:        uint16(t.Year()),
		DayOfYear:   uint16(dayOfYear),
		MinuteOfDay: uint16(minuteOfDay),
	}
}
