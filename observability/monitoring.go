package observability

import (
	"chat-relay/domain"
	"log/slog"
	"os"
	"runtime"
	"time"

	"github.com/shirou/gopsutil/process"
)

// ProcessStats are the resources used by the server process.
type ProcessStats struct {
	RSS        uint64
	CPUPercent float64
	Goroutines int
}

// StatsReporter logs loop snapshots together with the process resources.
type StatsReporter struct {
	log     *slog.Logger
	process *process.Process
}

func NewStatsReporter(log *slog.Logger) *StatsReporter {
	p, err := process.NewProcess(int32(os.Getpid()))
	if err != nil {
		log.Warn("Process stats unavailable", "error", err)
		p = nil
	}
	return &StatsReporter{log: log, process: p}
}

// Report is called from the server loop, it must not block.
func (r *StatsReporter) Report(stats domain.LoopStats) {
	proc := r.processStats()
	r.log.Info("Server stats",
		"ticks", stats.Ticks,
		"connections", stats.Connections,
		"pending_inbound", stats.PendingInbound,
		"pending_outbound", stats.PendingOutbound,
		"uptime", stats.Uptime.Round(time.Second).String(),
		"rss_bytes", proc.RSS,
		"cpu_percent", proc.CPUPercent,
		"goroutines", proc.Goroutines,
	)
}

func (r *StatsReporter) processStats() ProcessStats {
	stats := ProcessStats{Goroutines: runtime.NumGoroutine()}
	if r.process == nil {
		return stats
	}
	if memInfo, err := r.process.MemoryInfo(); err == nil {
		stats.RSS = memInfo.RSS
	}
	if cpu, err := r.process.CPUPercent(); err == nil {
		stats.CPUPercent = cpu
	}
	return stats
}
