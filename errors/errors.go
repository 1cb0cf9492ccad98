package errors

import "fmt"

var (
	ErrWorkerPanic      = fmt.Errorf("worker panic")
	ErrEmptyWords       = fmt.Errorf("no words have been found")
	ErrWouldBlock       = fmt.Errorf("operation would block")
	ErrListenerClosed   = fmt.Errorf("listener closed")
	ErrNotConnected     = fmt.Errorf("client not connected")
	ErrInvalidTimeout   = fmt.Errorf("invalid timeout")
	ErrUnknownTransport = fmt.Errorf("unknown transport")
)
