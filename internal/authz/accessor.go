package authz

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"github.com/eduverse/eduverse-backend/internal/config"
)

// UserSnapshot is the projection of an authenticated user that authorization
// decisions consume. It is read-only for this package; the auth subsystem owns
// the underlying record.
type UserSnapshot struct {
	ID         int    `json:"id"`
	Role       string `json:"role"`
	Department string `json:"department"`
	IsActive   bool   `json:"is_active"`
}

// SnapshotSource fetches the authoritative snapshot, typically from PostgreSQL.
type SnapshotSource interface {
	FetchSnapshot(ctx context.Context, userID int) (*UserSnapshot, error)
}

// ErrUserNotFound is returned when no user exists for the requested id.
var ErrUserNotFound = errors.New("user not found")

// SnapshotProvider is a read-through cache of user snapshots backed by Redis.
// Concurrent refreshes for the same user resolve latest-wins: a refresh that
// started earlier but finishes after a newer one is discarded, so a stale
// denied/granted result can never overwrite a fresh one.
type SnapshotProvider struct {
	source SnapshotSource
	rdb    *redis.Client
	ttl    time.Duration
	log    zerolog.Logger

	mu      sync.Mutex
	started map[int]uint64
	applied map[int]uint64
	latest  map[int]*UserSnapshot
}

// NewSnapshotProvider creates a SnapshotProvider with the given cache TTL.
func NewSnapshotProvider(source SnapshotSource, rdb *redis.Client, ttl time.Duration, log zerolog.Logger) *SnapshotProvider {
	return &SnapshotProvider{
		source:  source,
		rdb:     rdb,
		ttl:     ttl,
		log:     log.With().Str("component", "snapshot_provider").Logger(),
		started: make(map[int]uint64),
		applied: make(map[int]uint64),
		latest:  make(map[int]*UserSnapshot),
	}
}

// Get returns the snapshot for a user, from cache when possible. A cache miss
// triggers a synchronous refresh.
func (p *SnapshotProvider) Get(ctx context.Context, userID int) (*UserSnapshot, error) {
	raw, err := p.rdb.Get(ctx, config.CacheKey.UserSnapshotKey(userID)).Result()
	if err == nil {
		var snap UserSnapshot
		if err := json.Unmarshal([]byte(raw), &snap); err == nil {
			return &snap, nil
		}
		// Corrupt cache entry; fall through to a refresh.
	} else if !errors.Is(err, redis.Nil) {
		p.log.Warn().Err(err).Int("user_id", userID).Msg("Snapshot cache read failed")
	}

	// The in-process latest map only arbitrates in-flight supersession; it is
	// never served on a miss, so an expired or remotely deleted Redis entry
	// always forces a fresh read.
	return p.Refresh(ctx, userID)
}

// Refresh fetches the snapshot from the source and applies it unless a refresh
// that started later has already been applied, in which case the in-flight
// result is discarded and the newer snapshot is returned.
func (p *SnapshotProvider) Refresh(ctx context.Context, userID int) (*UserSnapshot, error) {
	for attempt := 0; attempt < 3; attempt++ {
		snap, superseded, err := p.refreshOnce(ctx, userID)
		if !superseded || snap != nil {
			return snap, err
		}
		// Superseded by an invalidation with nothing cached yet: fetch again.
	}

	// Back-to-back invalidations kept superseding the fetch. Answer from the
	// source directly, uncached; an existing user must never read as missing.
	return p.source.FetchSnapshot(ctx, userID)
}

func (p *SnapshotProvider) refreshOnce(ctx context.Context, userID int) (*UserSnapshot, bool, error) {
	p.mu.Lock()
	p.started[userID]++
	ticket := p.started[userID]
	p.mu.Unlock()

	snap, err := p.source.FetchSnapshot(ctx, userID)

	p.mu.Lock()
	defer p.mu.Unlock()

	if ticket <= p.applied[userID] {
		// Superseded while in flight. The newer result wins regardless of
		// whether this fetch succeeded.
		if newer, ok := p.latest[userID]; ok {
			return newer, true, nil
		}
		return nil, true, nil
	}

	if err != nil {
		return nil, false, err
	}

	p.applied[userID] = ticket
	p.latest[userID] = snap

	if payload, merr := json.Marshal(snap); merr == nil {
		if cerr := p.rdb.Set(ctx, config.CacheKey.UserSnapshotKey(userID), payload, p.ttl).Err(); cerr != nil {
			p.log.Warn().Err(cerr).Int("user_id", userID).Msg("Snapshot cache write failed")
		}
	}

	return snap, false, nil
}

// Invalidate drops the cached snapshot and discards every in-flight refresh
// that started before this call. Role or status writes must call this so the
// next read observes the change.
func (p *SnapshotProvider) Invalidate(ctx context.Context, userID int) error {
	p.mu.Lock()
	p.started[userID]++
	p.applied[userID] = p.started[userID]
	delete(p.latest, userID)
	p.mu.Unlock()

	return p.rdb.Del(ctx, config.CacheKey.UserSnapshotKey(userID)).Err()
}
