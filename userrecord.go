package hotline

import "encoding/binary"

// UserFlag bits packed into a User's Flags field.
const (
	UserFlagAdmin UserFlag = 1 << 0
	UserFlagIdle  UserFlag = 1 << 1
)

// UserFlag is the bit flags word of a UserNameWithInfo record.
type UserFlag uint16

// User mirrors the packed UserNameWithInfo field.
type User struct {
	ID     uint16
	IconID uint16
	Flags  UserFlag
	Name   string
}

// IsAdmin reports whether bit 0 of Flags is set.
func (u User) IsAdmin() bool { return u.Flags&UserFlagAdmin != 0 }

// IsIdle reports whether bit 1 of Flags is set.
func (u User) IsIdle() bool { return u.Flags&UserFlagIdle != 0 }

// decodeUser parses a packed UserNameWithInfo field.
func decodeUser(b []byte, enc StringEncoding) (User, error) {
	if len(b) < 8 {
		return User{}, &InvalidResponseError{Reason: "short UserNameWithInfo field"}
	}
	nameLen := int(binary.BigEndian.Uint16(b[6:8]))
	if len(b) < 8+nameLen {
		return User{}, &InvalidResponseError{Reason: "UserNameWithInfo name truncated"}
	}
	name, err := decodeString(b[8:8+nameLen], enc)
	if err != nil {
		return User{}, err
	}
	return User{
		ID:     binary.BigEndian.Uint16(b[0:2]),
		IconID: binary.BigEndian.Uint16(b[2:4]),
		Flags:  UserFlag(binary.BigEndian.Uint16(b[4:6])),
		Name:   name,
	}, nil
}

// Encode renders the user back to its packed wire form.
func (u User) Encode(enc StringEncoding) ([]byte, error) {
	nameBytes, err := encodeString(u.Name, enc)
	if err != nil {
		return nil, err
	}
	out := make([]byte, 8+len(nameBytes))
	binary.BigEndian.PutUint16(out[0:2], u.ID)
	binary.BigEndian.PutUint16(out[2:4], u.IconID)
	binary.BigEndian.PutUint16(out[4:6], uint16(u.Flags))
	binary.BigEndian.PutUint16(out[6:8], uint16(len(nameBytes)))
	copy(out[8:], nameBytes)
	return out, nil
}
