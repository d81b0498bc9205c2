package worker

import (
	"context"
	"time"

	"github.com/rs/zerolog"

	"github.com/eduverse/eduverse-backend/internal/authz"
)

// expiryStore grants the worker the assignment operations it needs.
type expiryStore interface {
	ExpireDue(ctx context.Context, fallbackRole string) ([]int, error)
}

// snapshotDropper invalidates cached user snapshots after a role change.
type snapshotDropper interface {
	Invalidate(ctx context.Context, userID int) error
}

// RoleExpiryWorker periodically reverts expired temporary role assignments
// back to the default teacher role and drops the affected snapshots so the
// change is visible on the very next request.
type RoleExpiryWorker struct {
	assignments expiryStore
	snapshots   snapshotDropper
	interval    time.Duration
	log         zerolog.Logger
}

// NewRoleExpiryWorker creates a new RoleExpiryWorker.
func NewRoleExpiryWorker(assignments expiryStore, snapshots snapshotDropper, interval time.Duration, log zerolog.Logger) *RoleExpiryWorker {
	return &RoleExpiryWorker{
		assignments: assignments,
		snapshots:   snapshots,
		interval:    interval,
		log:         log.With().Str("component", "role_expiry_worker").Logger(),
	}
}

// Start begins the sweep loop. Call in a goroutine.
func (w *RoleExpiryWorker) Start(ctx context.Context) {
	w.log.Info().Dur("interval", w.interval).Msg("Worker started")

	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			// Final sweep so restarts never leave an expired role live.
			w.sweep(context.Background())
			w.log.Info().Msg("Worker stopped")
			return
		case <-ticker.C:
			w.sweep(ctx)
		}
	}
}

func (w *RoleExpiryWorker) sweep(ctx context.Context) {
	teacherIDs, err := w.assignments.ExpireDue(ctx, authz.DefaultTeacherRole)
	if err != nil {
		w.log.Error().Err(err).Msg("Expiry sweep failed")
		return
	}
	if len(teacherIDs) == 0 {
		return
	}

	for _, id := range teacherIDs {
		if err := w.snapshots.Invalidate(ctx, id); err != nil {
			w.log.Error().Err(err).Int("teacher_id", id).Msg("Snapshot invalidation failed")
		}
	}

	w.log.Info().Ints("teacher_ids", teacherIDs).Msg("Expired role assignments reverted")
}
