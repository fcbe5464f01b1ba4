package hotline

import "encoding/binary"

// NewsArticle is one entry of a news article list. News articles form
// a parent/first-child/next tree; the core represents them as flat
// records and never holds cross-references beyond a single reply.
type NewsArticle struct {
	ID          uint32
	Title       string
	Poster      string
	Date        HotlineDate
	PreviousID  uint32
	NextID      uint32
	ParentID    uint32
	FirstChild  uint32
	Flavors     []string
}

// decodeNewsArticleList parses the binary stream of article records.
func decodeNewsArticleList(b []byte, enc StringEncoding) ([]NewsArticle, error) {
	var articles []NewsArticle
	offset := 0

	readUint32 := func() (uint32, error) {
		if offset+4 > len(b) {
			return 0, &InvalidResponseError{Reason: "news article list truncated (u32)"}
		}
		v := binary.BigEndian.Uint32(b[offset : offset+4])
		offset += 4
		return v, nil
	}
	readUint16 := func() (uint16, error) {
		if offset+2 > len(b) {
			return 0, &InvalidResponseError{Reason: "news article list truncated (u16)"}
		}
		v := binary.BigEndian.Uint16(b[offset : offset+2])
		offset += 2
		return v, nil
	}
	readString := func() (string, error) {
		n, err := readUint16()
		if err != nil {
			return "", err
		}
		if offset+int(n) > len(b) {
			return "", &InvalidResponseError{Reason: "news article list truncated (string)"}
		}
		s, err := decodeString(b[offset:offset+int(n)], enc)
		offset += int(n)
		return s, err
	}

	for offset < len(b) {
		var a NewsArticle
		var err error
		if a.ID, err = readUint32(); err != nil {
			return nil, err
		}
		if a.Title, err = readString(); err != nil {
			return nil, err
		}
		if a.Poster, err = readString(); err != nil {
			return nil, err
		}
		if offset+8 > len(b) {
			return nil, &InvalidResponseError{Reason: "news article list truncated (date)"}
		}
		a.Date, err = decodeHotlineDate(b[offset : offset+8])
		if err != nil {
			return nil, err
		}
		offset += 8
		if a.PreviousID, err = readUint32(); err != nil {
			return nil, err
		}
		if a.NextID, err = readUint32(); err != nil {
			return nil, err
		}
		if a.ParentID, err = readUint32(); err != nil {
			return nil, err
		}
		if a.FirstChild, err = readUint32(); err != nil {
			return nil, err
		}
		flavorCount, err := readUint16()
		if err != nil {
			return nil, err
		}
		for i := 0; i < int(flavorCount); i++ {
			flavor, err := readString()
			if err != nil {
				return nil, err
			}
			a.Flavors = append(a.Flavors, flavor)
		}
		articles = append(articles, a)
	}

	return articles, nil
}
