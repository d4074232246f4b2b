package workers

import (
	"context"
	"log/slog"
	"time"

	"chat-relay/contract"
)

// CapacityWatcher periodically reports how full every session mailbox is.
// Reading len and cap of a channel is non-blocking, so sampling never
// interferes with the pumps. Sessions above the threshold are logged with
// their fill ratio, the rest stay quiet.
type CapacityWatcher struct {
	log              *slog.Logger
	registry         contract.IRegistry
	thresholdPercent int
	interval         time.Duration
}

func NewCapacityWatcher(log *slog.Logger, registry contract.IRegistry,
	thresholdPercent int, interval time.Duration) *CapacityWatcher {
	return &CapacityWatcher{
		log:              log,
		registry:         registry,
		thresholdPercent: thresholdPercent,
		interval:         interval,
	}
}

func (w *CapacityWatcher) Run(ctx context.Context) error {
	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			w.log.Debug("Context done, stopping mailbox sampling")
			return nil
		case <-ticker.C:
			for _, conn := range w.registry.Snapshot() {
				length := conn.Mailbox.Len()
				capacity := conn.Mailbox.Cap()
				if capacity == 0 {
					continue
				}
				fill := length * 100 / capacity
				if fill >= w.thresholdPercent {
					w.log.Warn("Session mailbox nearly saturated",
						"session", conn.ID,
						"length", length,
						"capacity", capacity,
						"fill_percent", fill,
						"dropped", conn.Mailbox.Dropped(),
					)
				}
			}
		}
	}
}
