package hotline

import "fmt"

// NotConnectedError is returned when an operation is attempted in a
// session state that forbids it.
type NotConnectedError struct {
	// State is the session state at the time of the attempted operation.
	State State
}

func (e *NotConnectedError) Error() string {
	return fmt.Sprintf("hotline: not connected (state=%s)", e.State)
}

// HandshakeError is returned when the TRTP/HOTL handshake fails or the
// server replies with a nonzero error code.
type HandshakeError struct {
	Code uint32
}

func (e *HandshakeError) Error() string {
	return fmt.Sprintf("hotline: handshake failed (code %d)", e.Code)
}

// LoginFailedError is returned when the login transaction's reply has
// a nonzero error code.
type LoginFailedError struct {
	Text string
}

func (e *LoginFailedError) Error() string {
	if e.Text == "" {
		return "hotline: login failed"
	}
	return fmt.Sprintf("hotline: login failed: %s", e.Text)
}

// ServerError wraps a nonzero errorCode reply received after login.
// Most permission denials surface this way with Code == 1.
type ServerError struct {
	Code uint32
	Text string
}

func (e *ServerError) Error() string {
	if e.Text == "" {
		return fmt.Sprintf("hotline: server error %d", e.Code)
	}
	return fmt.Sprintf("hotline: server error %d: %s", e.Code, e.Text)
}

// TimeoutError is returned when a request's reply does not arrive
// within its deadline.
type TimeoutError struct {
	Type TranType
}

func (e *TimeoutError) Error() string {
	return fmt.Sprintf("hotline: timeout waiting for reply to %s", e.Type)
}

// InvalidResponseError is returned when the codec rejects a frame or a
// required field is missing from a reply.
type InvalidResponseError struct {
	Reason string
}

func (e *InvalidResponseError) Error() string {
	return fmt.Sprintf("hotline: invalid response: %s", e.Reason)
}

// IOError wraps a socket or disk error encountered while servicing a
// request or transfer.
type IOError struct {
	Cause error
}

func (e *IOError) Error() string {
	return fmt.Sprintf("hotline: i/o error: %s", e.Cause)
}

func (e *IOError) Unwrap() error { return e.Cause }

// CancelledError is returned when a caller-initiated abort wins the
// race against a reply or transfer completion.
type CancelledError struct{}

func (e *CancelledError) Error() string { return "hotline: cancelled" }

// ProtocolViolationError is returned when a wire invariant is broken,
// e.g. a truncated fork header or a field-length overflow.
type ProtocolViolationError struct {
	Stage string
}

func (e *ProtocolViolationError) Error() string {
	return fmt.Sprintf("hotline: protocol violation at %s", e.Stage)
}

// Codec-level errors.

// MalformedHeaderError is returned when a transaction's fixed 22-byte
// header cannot be parsed.
type MalformedHeaderError struct {
	Reason string
}

func (e *MalformedHeaderError) Error() string {
	return fmt.Sprintf("hotline: malformed header: %s", e.Reason)
}

// TruncatedFrameError is returned when fewer bytes are available than
// the header's declared dataSize.
type TruncatedFrameError struct {
	Want, Got int
}

func (e *TruncatedFrameError) Error() string {
	return fmt.Sprintf("hotline: truncated frame: want %d bytes, got %d", e.Want, e.Got)
}

// FieldOverflowError is returned when a field's declared length
// exceeds the remaining bytes in the frame.
type FieldOverflowError struct {
	FieldType uint16
}

func (e *FieldOverflowError) Error() string {
	return fmt.Sprintf("hotline: field %d overflows frame", e.FieldType)
}

// UnsupportedEncodingError is returned when a string field is decoded
// with an encoding the codec does not recognize.
type UnsupportedEncodingError struct {
	Encoding StringEncoding
}

func (e *UnsupportedEncodingError) Error() string {
	return fmt.Sprintf("hotline: unsupported string encoding %d", e.Encoding)
}
