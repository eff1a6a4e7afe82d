package session

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"

	"github.com/dmitrijs2005/fitclub/internal/client/models"
	"github.com/dmitrijs2005/fitclub/internal/logging"
)

// ErrEmptyCredential is returned by Commit when the API handed back no credential.
var ErrEmptyCredential = errors.New("empty credential")

// Observer receives every new state. It runs while the transition is still
// being delivered, so it must not call Begin, Commit, Fail or Clear itself.
type Observer func(state models.AuthState)

type subscription struct {
	fn     Observer
	active atomic.Bool
}

// Store is the single source of truth for the authentication state.
type Store struct {
	storage Storage
	log     logging.Logger

	// writeMu serializes transitions together with their delivery, so
	// observers see transitions one at a time and in order.
	writeMu sync.Mutex

	mu        sync.RWMutex
	state     models.AuthState
	suspended models.AuthKind
	observers []*subscription
	hydrated  bool
}

// NewStore returns an Anonymous store. Call Hydrate once before the first
// protected view is shown.
func NewStore(storage Storage, log logging.Logger) *Store {
	return &Store{
		storage: storage,
		log:     log.With("component", "session"),
		state:   models.AnonymousState(),
	}
}

// Current returns the present state. It never blocks on I/O.
func (s *Store) Current() models.AuthState {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state
}

// Subscribe registers fn and returns a function that removes it again.
// The returned function is safe to call more than once.
func (s *Store) Subscribe(fn Observer) (unsubscribe func()) {
	sub := &subscription{fn: fn}
	sub.active.Store(true)

	s.mu.Lock()
	s.observers = append(s.observers, sub)
	s.mu.Unlock()

	var once sync.Once
	return func() {
		once.Do(func() {
			sub.active.Store(false)
			s.mu.Lock()
			defer s.mu.Unlock()
			for i, o := range s.observers {
				if o == sub {
					s.observers = append(s.observers[:i:i], s.observers[i+1:]...)
					return
				}
			}
		})
	}
}

// Hydrate adopts a previously persisted session. Missing or unreadable data
// leaves the store Anonymous; unreadable data is also erased. Only the first
// call has any effect.
func (s *Store) Hydrate(ctx context.Context) {
	s.writeMu.Lock()
	defer s.writeMu.Unlock()

	s.mu.Lock()
	if s.hydrated {
		s.mu.Unlock()
		return
	}
	s.hydrated = true
	s.mu.Unlock()

	snap, err := s.storage.Load(ctx)
	if err != nil {
		s.log.Warn(ctx, "ignoring persisted session", "error", err)
		if errors.Is(err, ErrMalformed) {
			if err := s.storage.Erase(ctx); err != nil {
				s.log.Warn(ctx, "erase malformed session", "error", err)
			}
		}
		return
	}
	if snap.Credential == "" {
		return
	}

	s.log.Debug(ctx, "session restored", "has_user", snap.User != nil)
	s.transition(models.AuthenticatedState(snap.User, snap.Credential))
}

// Begin marks an identity exchange as in flight. The current credential is
// dropped from memory; the durable copy is left until the exchange resolves.
func (s *Store) Begin() {
	s.writeMu.Lock()
	defer s.writeMu.Unlock()

	cur := s.Current()
	if cur.Kind != models.Authenticating {
		s.mu.Lock()
		s.suspended = cur.Kind
		s.mu.Unlock()
	}
	s.transition(models.AuthenticatingState(cur.User))
}

// Commit persists credential and user, then makes them current. On a
// storage error the state is left as it was.
func (s *Store) Commit(ctx context.Context, user *models.User, credential string) error {
	if credential == "" {
		return ErrEmptyCredential
	}

	s.writeMu.Lock()
	defer s.writeMu.Unlock()

	if err := s.storage.Save(ctx, Snapshot{Credential: credential, User: user}); err != nil {
		return fmt.Errorf("persist session: %w", err)
	}
	s.transition(models.AuthenticatedState(user, credential))
	return nil
}

// Fail records a failed exchange. No credential survives it, in memory or
// on disk.
func (s *Store) Fail(ctx context.Context, message string) {
	s.writeMu.Lock()
	defer s.writeMu.Unlock()

	if err := s.storage.Erase(ctx); err != nil {
		s.log.Warn(ctx, "erase session after failure", "error", err)
	}

	s.mu.RLock()
	previous := s.suspended
	s.mu.RUnlock()

	s.transition(models.FailedState(message, previous))
}

// Clear logs out locally. It is a no-op when already Anonymous. The state
// becomes Anonymous even if erasing the durable copy fails; that error is
// returned.
func (s *Store) Clear(ctx context.Context) error {
	s.writeMu.Lock()
	defer s.writeMu.Unlock()

	return s.clearLocked(ctx)
}

// ClearIfCredential clears only while credential is the one currently held.
// It reports whether the store was cleared.
func (s *Store) ClearIfCredential(ctx context.Context, credential string) (bool, error) {
	s.writeMu.Lock()
	defer s.writeMu.Unlock()

	cur := s.Current()
	if !cur.IsAuthenticated() || cur.Credential != credential {
		return false, nil
	}
	return true, s.clearLocked(ctx)
}

func (s *Store) clearLocked(ctx context.Context) error {
	if s.Current().Kind == models.Anonymous {
		return nil
	}

	err := s.storage.Erase(ctx)
	if err != nil {
		err = fmt.Errorf("erase session: %w", err)
		s.log.Warn(ctx, "erase session", "error", err)
	}
	s.transition(models.AnonymousState())
	return err
}

// transition must be called with writeMu held.
func (s *Store) transition(next models.AuthState) {
	s.mu.Lock()
	s.state = next
	observers := make([]*subscription, len(s.observers))
	copy(observers, s.observers)
	s.mu.Unlock()

	for _, o := range observers {
		if o.active.Load() {
			o.fn(next)
		}
	}
}
