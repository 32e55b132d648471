// Package optimistic applies local changes before the server confirms them
// and rolls them back exactly when it does not.
package optimistic

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"golang.org/x/sync/singleflight"

	"github.com/dmitrijs2005/cloudshare/internal/client/notify"
	"github.com/dmitrijs2005/cloudshare/internal/common"
	"github.com/dmitrijs2005/cloudshare/internal/logging"
)

var (
	// ErrStale means the caller stopped caring before confirmation settled;
	// neither the rollback nor a notification was applied.
	ErrStale = errors.New("mutation outcome discarded: caller no longer live")
	// ErrNoID means the entity cannot be targeted.
	ErrNoID = errors.New("mutation target has no id")
)

// Liveness reports whether the owner of a mutation still wants its outcome.
type Liveness interface {
	Alive() bool
}

// AliveFunc adapts a function to Liveness.
type AliveFunc func() bool

func (f AliveFunc) Alive() bool { return f() }

// Target is the in-memory slot a mutation reads and writes.
type Target[T any] interface {
	// Load returns the current value; ok is false when the entity is gone.
	Load() (T, bool)
	Store(T) error
}

// Mutation describes one optimistic change.
type Mutation[T any] struct {
	// Key identifies the entity; concurrent mutations with the same key
	// collapse into the first one.
	Key    string
	Target Target[T]
	Change func(T) T
	// Confirm is the server call. A non-empty message replaces Success.
	Confirm func(ctx context.Context) (string, error)
	// Success is the notification on confirmation; empty means silent.
	Success string
	// Failure is used when the server supplies no message.
	Failure string
	// Live is captured by the caller when it starts the mutation; nil means
	// always live.
	Live Liveness
}

type Controller struct {
	group  singleflight.Group
	notify notify.Notifier
	log    logging.Logger
}

func NewController(n notify.Notifier, log logging.Logger) *Controller {
	if n == nil {
		n = notify.Discard{}
	}
	if log == nil {
		log = logging.Discard()
	}
	return &Controller{notify: n, log: log}
}

type outcome[T any] struct {
	value T
}

// Apply changes the target immediately, then awaits confirmation. On failure
// the exact prior value is restored and one error notification is sent.
// A duplicate trigger for a key already in flight does not change anything
// itself; it shares the in-flight outcome.
func Apply[T any](ctx context.Context, c *Controller, m Mutation[T]) (T, error) {
	var zero T
	if m.Key == "" {
		return zero, ErrNoID
	}
	v, err, shared := c.group.Do(m.Key, func() (any, error) {
		res, err := run(ctx, c, m)
		return outcome[T]{value: res}, err
	})
	if shared {
		c.log.Debug(ctx, "optimistic trigger collapsed into in-flight mutation", "key", m.Key)
	}
	out, _ := v.(outcome[T])
	return out.value, err
}

func run[T any](ctx context.Context, c *Controller, m Mutation[T]) (T, error) {
	prev, ok := m.Target.Load()
	if !ok {
		return prev, fmt.Errorf("%s: %w", m.Key, common.ErrorNotFound)
	}
	next := m.Change(prev)
	if err := m.Target.Store(next); err != nil {
		c.notify.Error(common.UserMessage(err, m.Failure))
		return prev, fmt.Errorf("apply %s: %w", m.Key, err)
	}

	msg, err := m.Confirm(ctx)

	if m.Live != nil && !m.Live.Alive() {
		c.log.Debug(ctx, "discarding stale mutation outcome", "key", m.Key, "confirm_err", err)
		if err != nil {
			return next, errors.Join(ErrStale, err)
		}
		return next, ErrStale
	}

	if err != nil {
		if rerr := m.Target.Store(prev); rerr != nil {
			c.log.Error(ctx, "rollback failed", "key", m.Key, "err", rerr)
		}
		c.notify.Error(common.UserMessage(err, m.Failure))
		return prev, err
	}

	if msg == "" {
		msg = m.Success
	}
	if msg != "" {
		c.notify.Success(msg)
	}
	return next, nil
}

// Slot is a mutex-guarded Target for a single value.
type Slot[T any] struct {
	mu    sync.Mutex
	value T
	gone  bool
}

func NewSlot[T any](v T) *Slot[T] { return &Slot[T]{value: v} }

func (s *Slot[T]) Load() (T, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.value, !s.gone
}

func (s *Slot[T]) Store(v T) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.value = v
	return nil
}

// Remove marks the value as gone.
func (s *Slot[T]) Remove() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.gone = true
}

// Funcs adapts a pair of functions to Target.
type Funcs[T any] struct {
	LoadFunc  func() (T, bool)
	StoreFunc func(T) error
}

func (f Funcs[T]) Load() (T, bool) { return f.LoadFunc() }
func (f Funcs[T]) Store(v T) error { return f.StoreFunc(v) }
