package domain

import "time"

// LoopStats is a snapshot of the server loop, taken between two ticks.
type LoopStats struct {
	Ticks           uint64
	Connections     int
	PendingInbound  int
	PendingOutbound int
	Uptime          time.Duration
}
