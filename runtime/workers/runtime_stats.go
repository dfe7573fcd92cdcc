package workers

import (
	"context"
	"log/slog"
	"os"
	goruntime "runtime"
	"time"

	"github.com/shirou/gopsutil/process"
)

// MemberCounter is the slice of the registry this worker needs.
type MemberCounter interface {
	Size() int
}

// RuntimeStatsWorker periodically logs process health (CPU, RSS, goroutines)
// next to the current member count. Pure observability: a failed sample is
// a warning, never a stop.
type RuntimeStatsWorker struct {
	log      *slog.Logger
	interval time.Duration
	members  MemberCounter
}

func NewRuntimeStatsWorker(log *slog.Logger, interval time.Duration, members MemberCounter) *RuntimeStatsWorker {
	return &RuntimeStatsWorker{log: log, interval: interval, members: members}
}

func (w *RuntimeStatsWorker) Run(ctx context.Context) error {
	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	p, err := process.NewProcess(int32(os.Getpid()))
	if err != nil {
		return err
	}

	for {
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
			rss, cpu, err := selfStats(p)
			if err != nil {
				w.log.Warn("Failed to collect self stats", "error", err)
				continue
			}
			w.log.Info("Runtime stats",
				"members", w.members.Size(),
				"goroutines", goruntime.NumGoroutine(),
				"cpu_percent", cpu,
				"ram_bytes", rss,
			)
		}
	}
}

// selfStats retrieves memory and CPU usage for the given process.
func selfStats(p *process.Process) (uint64, float64, error) {
	memInfo, err := p.MemoryInfo()
	if err != nil {
		return 0, 0, err
	}
	cpuPercent, err := p.CPUPercent()
	if err != nil {
		return 0, 0, err
	}
	return memInfo.RSS, cpuPercent, nil
}
