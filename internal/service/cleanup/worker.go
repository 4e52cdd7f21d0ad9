package cleanup

import (
	"context"
	"time"

	"github.com/rs/zerolog/log"
)

// SessionSweeper drops stale in-memory sessions.
type SessionSweeper interface {
	CleanupStale(now time.Time, idleTTL time.Duration) int
}

// RecordPruner deletes old finished games from storage.
type RecordPruner interface {
	DeleteOlderThan(ctx context.Context, days int) (int64, error)
}

type Worker struct {
	Sessions SessionSweeper
	Records  RecordPruner // optional
	Interval time.Duration
	IdleTTL  time.Duration
	KeepDays int
	now      func() time.Time
}

func NewWorker(sessions SessionSweeper, records RecordPruner, interval, idleTTL time.Duration) *Worker {
	return &Worker{
		Sessions: sessions,
		Records:  records,
		Interval: interval,
		IdleTTL:  idleTTL,
		KeepDays: 90,
		now:      time.Now,
	}
}

// Start runs a cleanup immediately and then on every tick until ctx is done.
func (w *Worker) Start(ctx context.Context) {
	log.Info().Str("component", "cleanup").Dur("interval", w.Interval).Msg("background worker started")
	w.RunOnce(ctx)

	if w.Interval <= 0 {
		w.Interval = 10 * time.Minute
	}
	ticker := time.NewTicker(w.Interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			log.Info().Str("component", "cleanup").Msg("background worker stopped")
			return
		case <-ticker.C:
			w.RunOnce(ctx)
		}
	}
}

func (w *Worker) RunOnce(ctx context.Context) {
	w.Sessions.CleanupStale(w.now(), w.IdleTTL)

	if w.Records == nil {
		return
	}
	deleted, err := w.Records.DeleteOlderThan(ctx, w.KeepDays)
	if err != nil {
		log.Error().Err(err).Str("component", "cleanup").Msg("error cleaning up stored games")
		return
	}
	if deleted > 0 {
		log.Info().Str("component", "cleanup").Int64("deleted", deleted).Msg("removed old games from database")
	}
}
