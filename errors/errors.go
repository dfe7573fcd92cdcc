// Package errors holds the sentinel errors of the chat room and the one
// place where teardown noise is told apart from real I/O failures.
package errors

import (
	stderrors "errors"
	"fmt"
	"io"
	"net"
	"syscall"
)

var (
	ErrWorkerPanic = fmt.Errorf("worker panic")
	ErrEmptyWords  = fmt.Errorf("no words have been found")
)

// IsBenignClose reports whether err is the expected noise of a socket being
// torn down: the peer went away or we closed the connection ourselves.
// Disconnect is idempotent, so both sides of a race may close the same
// connection; those errors are swallowed. Anything else is a real failure
// and must be surfaced by the caller.
func IsBenignClose(err error) bool {
	if err == nil {
		return false
	}
	if stderrors.Is(err, net.ErrClosed) || stderrors.Is(err, io.EOF) {
		return true
	}
	return stderrors.Is(err, syscall.EPIPE) ||
		stderrors.Is(err, syscall.ECONNRESET) ||
		stderrors.Is(err, syscall.ENOTCONN) ||
		stderrors.Is(err, syscall.EBADF)
}
