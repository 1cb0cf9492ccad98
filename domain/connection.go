package domain

import "strconv"

// ConnID identifies an accepted connection. IDs are assigned in increasing order and never reused
// by the registry that issued them.
type ConnID uint64

func (id ConnID) String() string {
	return strconv.FormatUint(uint64(id), 10)
}

// Reasons given when a connection is terminated.
const (
	ReasonRemoteClosed   = "remote closed"
	ReasonTransportError = "transport error"
	ReasonShutdown       = "server shutting down"
)
