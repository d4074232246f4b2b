package workers

import (
	"context"
	"log/slog"
	"os"
	"time"

	"github.com/shirou/gopsutil/process"

	"chat-relay/contract"
)

// Reporter periodically logs engine health: live session count, broadcast
// volume, mailbox overflow drops and process self usage.
type Reporter struct {
	log      *slog.Logger
	registry contract.IRegistry
	interval time.Duration
}

func NewReporter(log *slog.Logger, registry contract.IRegistry, interval time.Duration) *Reporter {
	return &Reporter{log: log, registry: registry, interval: interval}
}

func (w *Reporter) Run(ctx context.Context) error {
	w.log.Info("Starting engine status reporter")
	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	p, err := process.NewProcess(int32(os.Getpid()))
	if err != nil {
		return err
	}

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			rss, cpu, status, err := getSelfStats(p)
			if err != nil {
				w.log.Error("Failed to collect self stats", "err", err)
				continue
			}
			w.log.Info("Engine status",
				"sessions", w.registry.Size(),
				"broadcasts", w.registry.Broadcasts(),
				"dropped_messages", w.registry.DroppedMessages(),
				"pid_status", status,
				"cpu_percent", cpu,
				"ram_bytes", rss,
			)
		}
	}
}

// getSelfStats retrieves technical metrics (Memory, CPU, and OS Status) for the given process.
func getSelfStats(p *process.Process) (uint64, float64, string, error) {
	memInfo, err := p.MemoryInfo()
	if err != nil {
		return 0, 0, "", err
	}

	cpuPercent, err := p.CPUPercent()
	if err != nil {
		return 0, 0, "", err
	}

	status, err := p.Status()
	if err != nil {
		return 0, 0, "", err
	}
	return memInfo.RSS, cpuPercent, status, nil
}
