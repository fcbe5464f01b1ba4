package main

import (
	"errors"

	"github.com/fuzzywalrus/hotline-sub000"
	"github.com/fuzzywalrus/hotline-sub000/transfer"
)

// Exit codes: 0 success, 2 protocol error, 3 login failed, 4 I/O
// error, 5 cancelled.
const (
	exitOK            = 0
	exitProtocolError = 2
	exitLoginFailed   = 3
	exitIOError       = 4
	exitCancelled     = 5
)

func exitCodeFor(err error) int {
	if err == nil {
		return exitOK
	}

	var loginFailed *hotline.LoginFailedError
	var handshake *hotline.HandshakeError
	var protoViolation *hotline.ProtocolViolationError
	var malformed *hotline.MalformedHeaderError
	var truncated *hotline.TruncatedFrameError
	var ioErr *hotline.IOError
	var cancelled *hotline.CancelledError
	var xferCancelled *transfer.CancelledError
	var xferIO *transfer.IOError

	switch {
	case errors.As(err, &loginFailed):
		return exitLoginFailed
	case errors.As(err, &handshake), errors.As(err, &protoViolation), errors.As(err, &malformed), errors.As(err, &truncated):
		return exitProtocolError
	case errors.As(err, &cancelled), errors.As(err, &xferCancelled):
		return exitCancelled
	case errors.As(err, &ioErr), errors.As(err, &xferIO):
		return exitIOError
	default:
		return exitIOError
	}
}
