// Package session keeps in-progress draft-editing workflows in memory. Each
// open workflow is one session addressed by a uuid; sessions expire after a
// period of inactivity and are discarded on close without touching storage.
package session

import (
	"context"
	"sync"
	"time"

	"github.com/go-faster/errors"
	"github.com/google/uuid"

	"github.com/sorenh/crmdash/internal/domain/draft"
)

var (
	// ErrNotFound is returned for unknown or expired session ids.
	ErrNotFound = errors.New("session not found")
	// ErrSaveInProgress is returned when a commit is attempted while another
	// commit for the same session is still running.
	ErrSaveInProgress = errors.New("save already in progress")
)

// Session holds one draft workflow. Exactly one of Order or Pack is set.
type Session struct {
	ID        string
	Order     *draft.OrderDraft
	Pack      *draft.PackDraft
	touchedAt time.Time
	saving    bool
}

// Store is an in-memory session registry with idle expiry.
type Store struct {
	ttl time.Duration

	mu       sync.Mutex
	sessions map[string]*Session
}

// NewStore creates a Store whose sessions expire after ttl of inactivity.
func NewStore(ttl time.Duration) *Store {
	return &Store{
		ttl:      ttl,
		sessions: make(map[string]*Session),
	}
}

// OpenOrder registers an order draft and returns its session id.
func (s *Store) OpenOrder(d *draft.OrderDraft) string {
	return s.open(&Session{Order: d})
}

// OpenPack registers a package draft and returns its session id.
func (s *Store) OpenPack(d *draft.PackDraft) string {
	return s.open(&Session{Pack: d})
}

func (s *Store) open(sess *Session) string {
	sess.ID = uuid.New().String()
	sess.touchedAt = time.Now()

	s.mu.Lock()
	defer s.mu.Unlock()
	s.sessions[sess.ID] = sess
	return sess.ID
}

// Get returns the session and refreshes its idle timer.
func (s *Store) Get(id string) (*Session, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess, ok := s.sessions[id]
	if !ok {
		return nil, ErrNotFound
	}
	sess.touchedAt = time.Now()
	return sess, nil
}

// Close discards the session. Closing an unknown id is a no-op.
func (s *Store) Close(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.sessions, id)
}

// BeginSave acquires the session's save latch. A second concurrent save
// attempt fails with ErrSaveInProgress; the caller must release the latch
// with EndSave once the save finishes, success or not.
func (s *Store) BeginSave(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess, ok := s.sessions[id]
	if !ok {
		return ErrNotFound
	}
	if sess.saving {
		return ErrSaveInProgress
	}
	sess.saving = true
	return nil
}

// EndSave releases the save latch. Safe to call on a closed session.
func (s *Store) EndSave(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if sess, ok := s.sessions[id]; ok {
		sess.saving = false
	}
}

// Len reports the number of open sessions.
func (s *Store) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.sessions)
}

// sweep removes sessions idle past the TTL. Sessions with a save in flight
// are kept until the latch is released.
func (s *Store) sweep(now time.Time) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for id, sess := range s.sessions {
		if sess.saving {
			continue
		}
		if now.Sub(sess.touchedAt) >= s.ttl {
			delete(s.sessions, id)
		}
	}
}

// StartSweep launches a background goroutine that periodically expires idle
// sessions. It stops when ctx is cancelled.
func (s *Store) StartSweep(ctx context.Context) {
	interval := s.ttl / 2
	if interval < time.Second {
		interval = time.Second
	}
	go func() {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case now := <-ticker.C:
				s.sweep(now)
			}
		}
	}()
}
