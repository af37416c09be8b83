package worker

import (
	"context"
	"time"

	"github.com/rs/zerolog/log"
)

// Exporter writes a snapshot of the store. *snapshot.Snapshotter implements it.
type Exporter interface {
	Export(ctx context.Context, path string) error
}

// SnapshotWorker periodically exports the store to the snapshot file.
type SnapshotWorker struct {
	exporter Exporter
	path     string
	interval time.Duration
}

// NewSnapshotWorker constructs a SnapshotWorker.
func NewSnapshotWorker(exporter Exporter, path string, interval time.Duration) *SnapshotWorker {
	return &SnapshotWorker{
		exporter: exporter,
		path:     path,
		interval: interval,
	}
}

// Start runs the autosave loop until ctx is cancelled. A zero interval disables it.
func (w *SnapshotWorker) Start(ctx context.Context) {
	if w.interval <= 0 {
		log.Info().Msg("Snapshot worker disabled")
		return
	}
	log.Info().Dur("interval", w.interval).Str("path", w.path).Msg("Starting snapshot worker")

	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			w.run(ctx)
		case <-ctx.Done():
			log.Info().Msg("Snapshot worker stopped")
			return
		}
	}
}

func (w *SnapshotWorker) run(ctx context.Context) {
	start := time.Now()
	if err := w.exporter.Export(ctx, w.path); err != nil {
		log.Error().Err(err).Str("path", w.path).Msg("Snapshot autosave failed")
		return
	}
	log.Debug().Dur("duration", time.Since(start)).Msg("Snapshot autosave completed")
}
