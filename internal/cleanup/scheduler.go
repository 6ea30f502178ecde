package cleanup

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"

	"essay-backend/internal/shared/metrics"
	"essay-backend/internal/shared/storage/object"
	"essay-backend/internal/shared/telemetry"
)

const deleteTimeout = 10 * time.Second

// Handle identifies one pending deletion.
type Handle struct {
	ID  string
	Key string
	Due time.Time
}

type entry struct {
	handle Handle
	timer  *time.Timer
}

// Locker serializes work on one key. A fired deletion holds the key while it deletes.
type Locker interface {
	Lock(key string) (unlock func())
}

// Scheduler deletes stored uploads after a delay. At most one deletion is pending per key.
type Scheduler struct {
	store object.Store
	locks Locker

	mu      sync.Mutex
	pending map[string]*entry
	closed  bool
	wg      sync.WaitGroup
}

// NewScheduler returns a scheduler deleting from store. locks may be nil when no
// other writer shares the store's keys.
func NewScheduler(store object.Store, locks Locker) *Scheduler {
	return &Scheduler{
		store:   store,
		locks:   locks,
		pending: make(map[string]*entry),
	}
}

// Schedule arms a deletion of key after delay, replacing any deletion already pending for it.
func (s *Scheduler) Schedule(key string, delay time.Duration) Handle {
	h := Handle{ID: uuid.NewString(), Key: key, Due: time.Now().Add(delay)}

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return h
	}
	if prev, ok := s.pending[key]; ok {
		if prev.timer.Stop() {
			s.wg.Done()
		}
	}

	e := &entry{handle: h}
	s.wg.Add(1)
	e.timer = time.AfterFunc(delay, func() {
		defer s.wg.Done()
		s.fire(e)
	})
	s.pending[key] = e
	return h
}

// Cancel stops the pending deletion for key. It reports whether one was stopped.
func (s *Scheduler) Cancel(key string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	e, ok := s.pending[key]
	if !ok {
		return false
	}
	delete(s.pending, key)
	if e.timer.Stop() {
		s.wg.Done()
		return true
	}
	return false
}

// Pending returns the number of armed deletions.
func (s *Scheduler) Pending() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.pending)
}

// Shutdown cancels every pending deletion and waits for in-flight ones to finish.
func (s *Scheduler) Shutdown() {
	s.mu.Lock()
	s.closed = true
	for key, e := range s.pending {
		if e.timer.Stop() {
			s.wg.Done()
		}
		delete(s.pending, key)
	}
	s.mu.Unlock()
	s.wg.Wait()
}

func (s *Scheduler) fire(e *entry) {
	if s.locks != nil {
		unlock := s.locks.Lock(e.handle.Key)
		defer unlock()
	}

	s.mu.Lock()
	current, ok := s.pending[e.handle.Key]
	if !ok || current != e {
		s.mu.Unlock()
		return
	}
	delete(s.pending, e.handle.Key)
	s.mu.Unlock()

	ctx, cancel := context.WithTimeout(context.Background(), deleteTimeout)
	defer cancel()

	if err := s.store.Delete(ctx, e.handle.Key); err != nil {
		metrics.IncCleanupFailed()
		level := telemetry.Error
		if errors.Is(err, object.ErrNotFound) {
			level = telemetry.Warn
		}
		level("cleanup.delete_failed", map[string]any{
			"key":       e.handle.Key,
			"handle_id": e.handle.ID,
			"error":     err,
		})
		return
	}
	metrics.IncCleanupDeleted()
	telemetry.Info("cleanup.deleted", map[string]any{
		"key":       e.handle.Key,
		"handle_id": e.handle.ID,
	})
}
