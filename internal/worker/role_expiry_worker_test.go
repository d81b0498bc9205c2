package worker

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"

	"github.com/eduverse/eduverse-backend/internal/authz"
)

type stubExpiry struct {
	mu       sync.Mutex
	due      [][]int
	sweeps   int
	gotRole  string
	sweepErr error
}

func (s *stubExpiry) ExpireDue(ctx context.Context, fallbackRole string) ([]int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sweeps++
	s.gotRole = fallbackRole
	if s.sweepErr != nil {
		return nil, s.sweepErr
	}
	if len(s.due) == 0 {
		return nil, nil
	}
	batch := s.due[0]
	s.due = s.due[1:]
	return batch, nil
}

type stubDropper struct {
	mu      sync.Mutex
	dropped []int
}

func (s *stubDropper) Invalidate(ctx context.Context, userID int) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.dropped = append(s.dropped, userID)
	return nil
}

func TestSweepInvalidatesExpiredTeachers(t *testing.T) {
	store := &stubExpiry{due: [][]int{{4, 9}}}
	dropper := &stubDropper{}
	w := NewRoleExpiryWorker(store, dropper, time.Minute, zerolog.Nop())

	w.sweep(context.Background())

	assert.Equal(t, authz.DefaultTeacherRole, store.gotRole)
	assert.Equal(t, []int{4, 9}, dropper.dropped)
}

func TestSweepNothingDue(t *testing.T) {
	store := &stubExpiry{}
	dropper := &stubDropper{}
	w := NewRoleExpiryWorker(store, dropper, time.Minute, zerolog.Nop())

	w.sweep(context.Background())

	assert.Empty(t, dropper.dropped)
}

func TestStartRunsFinalSweepOnCancel(t *testing.T) {
	store := &stubExpiry{}
	dropper := &stubDropper{}
	w := NewRoleExpiryWorker(store, dropper, time.Hour, zerolog.Nop())

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		w.Start(ctx)
		close(done)
	}()

	cancel()
	<-done

	store.mu.Lock()
	defer store.mu.Unlock()
	assert.Equal(t, 1, store.sweeps)
}
