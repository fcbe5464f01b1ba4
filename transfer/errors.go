package transfer

import "fmt"

// ConnectFailedError wraps a failure to open the transfer TCP channel.
type ConnectFailedError struct{ Cause error }

func (e *ConnectFailedError) Error() string { return fmt.Sprintf("transfer: connect failed: %s", e.Cause) }
func (e *ConnectFailedError) Unwrap() error  { return e.Cause }

// HandshakeFailedError wraps a failure writing or reading the HTXF
// handshake.
type HandshakeFailedError struct{ Cause error }

func (e *HandshakeFailedError) Error() string {
	return fmt.Sprintf("transfer: handshake failed: %s", e.Cause)
}
func (e *HandshakeFailedError) Unwrap() error { return e.Cause }

// ProtocolViolationError is returned when a wire invariant inside the
// FILP or folder-item stream is broken.
type ProtocolViolationError struct{ Stage string }

func (e *ProtocolViolationError) Error() string {
	return fmt.Sprintf("transfer: protocol violation at %s", e.Stage)
}

// IOError wraps a socket or disk error encountered mid-transfer.
type IOError struct{ Cause error }

func (e *IOError) Error() string { return fmt.Sprintf("transfer: i/o error: %s", e.Cause) }
func (e *IOError) Unwrap() error { return e.Cause }

// CancelledError is returned when a caller-initiated cancellation wins
// the race against completion.
type CancelledError struct{}

func (e *CancelledError) Error() string { return "transfer: cancelled" }

// DestinationUnwritableError is returned when the local destination
// file or directory cannot be created or written.
type DestinationUnwritableError struct{ Cause error }

func (e *DestinationUnwritableError) Error() string {
	return fmt.Sprintf("transfer: destination unwritable: %s", e.Cause)
}
func (e *DestinationUnwritableError) Unwrap() error { return e.Cause }
