package session

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/dmitrijs2005/cloudshare/internal/client/models"
	"github.com/dmitrijs2005/cloudshare/internal/logging"
)

var (
	// ErrStale is returned when a commit arrives after the session it was
	// started for has been replaced or ended.
	ErrStale = errors.New("session changed; result discarded")
	// ErrNotLoggedIn is returned by operations that need a session.
	ErrNotLoggedIn = errors.New("not logged in")
)

// State is the in-memory session shared by every component.
type State struct {
	mu    sync.RWMutex
	gen   uint64
	token string
	user  models.User
	in    bool
	store Store
	log   logging.Logger
}

// Snapshot is a consistent copy of the session.
type Snapshot struct {
	Token      string
	User       models.User
	LoggedIn   bool
	Generation uint64
}

func NewState(store Store, log logging.Logger) *State {
	if log == nil {
		log = logging.Discard()
	}
	return &State{store: store, log: log}
}

// Restore loads a persisted session. An expired token is dropped and the
// store wiped.
func (s *State) Restore(ctx context.Context) (bool, error) {
	sess, ok, err := s.store.Load(ctx)
	if err != nil {
		return false, fmt.Errorf("load session: %w", err)
	}
	if !ok {
		return false, nil
	}
	if !Usable(sess.Token, timeNow()) {
		s.log.Info(ctx, "stored session expired")
		return false, s.store.Clear(ctx)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.gen++
	s.token = sess.Token
	s.user = models.User{}
	if sess.User != nil {
		s.user = *sess.User
	}
	s.in = true
	return true, nil
}

// Login replaces the session and persists it. The returned guard belongs to
// the new session.
func (s *State) Login(ctx context.Context, token string, user models.User) (Guard, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.store.Save(ctx, Session{Token: token, User: &user}); err != nil {
		return Guard{}, fmt.Errorf("persist session: %w", err)
	}
	s.gen++
	s.token, s.user, s.in = token, user, true
	return Guard{s: s, gen: s.gen}, nil
}

// Logout ends the session and wipes the store. Any in-flight guard becomes
// stale.
func (s *State) Logout(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.gen++
	s.token, s.user, s.in = "", models.User{}, false
	if err := s.store.Clear(ctx); err != nil {
		return fmt.Errorf("clear session: %w", err)
	}
	return nil
}

func (s *State) Snapshot() Snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return Snapshot{Token: s.token, User: s.user, LoggedIn: s.in, Generation: s.gen}
}

// User returns the current user, or false when logged out.
func (s *State) User() (models.User, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.user, s.in
}

// Guard captures the current generation.
func (s *State) Guard() Guard {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return Guard{s: s, gen: s.gen}
}

// Update merges into the current user atomically: fn sees the committed user
// and its result is persisted and published as one step. The update is
// refused with ErrStale if the session changed since g was captured.
func (s *State) Update(ctx context.Context, g Guard, fn func(models.User) models.User) (models.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if g.s != s || g.gen != s.gen {
		return s.user, ErrStale
	}
	if !s.in {
		return models.User{}, ErrNotLoggedIn
	}
	next := fn(s.user)
	if next == s.user {
		return next, nil
	}
	if err := s.store.Save(ctx, Session{Token: s.token, User: &next}); err != nil {
		return s.user, fmt.Errorf("persist session: %w", err)
	}
	s.user = next
	return next, nil
}

// Guard is a liveness token tied to one session generation.
type Guard struct {
	s   *State
	gen uint64
}

// Alive reports whether the session the guard was taken from is still
// current.
func (g Guard) Alive() bool {
	if g.s == nil {
		return false
	}
	g.s.mu.RLock()
	defer g.s.mu.RUnlock()
	return g.gen == g.s.gen
}
