// Package bootstrap enriches a freshly known session with profile,
// verification and billing state fetched concurrently.
package bootstrap

import (
	"context"
	"errors"
	"fmt"

	"golang.org/x/sync/errgroup"

	"github.com/dmitrijs2005/cloudshare/internal/client/models"
	"github.com/dmitrijs2005/cloudshare/internal/client/session"
	"github.com/dmitrijs2005/cloudshare/internal/logging"
)

type Status string

const (
	Fulfilled Status = "fulfilled"
	Rejected  Status = "rejected"
)

// Settled is the outcome of one call, whichever way it went.
type Settled[T any] struct {
	Status Status
	Value  T
	Err    error
}

func settle[T any](v T, err error) Settled[T] {
	if err != nil {
		return Settled[T]{Status: Rejected, Err: err}
	}
	return Settled[T]{Status: Fulfilled, Value: v}
}

func (s Settled[T]) OK() bool { return s.Status == Fulfilled }

// ProfileSource is satisfied by both services.UserService and
// services.AuthService.
type ProfileSource interface {
	Me(ctx context.Context) (models.UserPatch, error)
}

type VerificationSource interface {
	VerifyStatus(ctx context.Context, email string) (bool, error)
}

type BillingSource interface {
	Status(ctx context.Context) (models.BillingStatus, error)
}

// Result holds every settled call and the user that was committed.
type Result struct {
	Profile  Settled[models.UserPatch]
	Verified Settled[bool]
	Billing  Settled[models.BillingStatus]
	User     models.User
}

type Coordinator struct {
	state    *session.State
	profile  ProfileSource
	verifier VerificationSource
	billing  BillingSource
	log      logging.Logger
}

func NewCoordinator(state *session.State, profile ProfileSource, verifier VerificationSource, billing BillingSource, log logging.Logger) *Coordinator {
	if log == nil {
		log = logging.Discard()
	}
	return &Coordinator{state: state, profile: profile, verifier: verifier, billing: billing, log: log}
}

// Run issues the three calls concurrently, waits for all of them and commits
// the merged user in one step. None of the calls can fail the run; the only
// errors are session.ErrStale when g no longer matches the session, and a
// failure to persist the merged user.
func (c *Coordinator) Run(ctx context.Context, g session.Guard) (Result, error) {
	var res Result
	current, _ := c.state.User()

	var eg errgroup.Group
	eg.Go(func() error {
		res.Profile = settle(c.profile.Me(ctx))
		return nil
	})
	eg.Go(func() error {
		res.Verified = settle(c.verifier.VerifyStatus(ctx, current.Email))
		return nil
	})
	eg.Go(func() error {
		res.Billing = settle(c.billing.Status(ctx))
		return nil
	})
	_ = eg.Wait()

	if !res.Profile.OK() {
		c.log.Warn(ctx, "profile fetch failed", "err", res.Profile.Err)
	}
	if !res.Verified.OK() {
		c.log.Warn(ctx, "verification status fetch failed", "err", res.Verified.Err)
	}
	if !res.Billing.OK() {
		c.log.Debug(ctx, "billing status unavailable", "err", res.Billing.Err)
	}

	user, err := c.state.Update(ctx, g, func(u models.User) models.User { return Merge(u, res) })
	if err != nil {
		if errors.Is(err, session.ErrStale) {
			c.log.Debug(ctx, "bootstrap result discarded; session changed")
			return res, err
		}
		return res, fmt.Errorf("commit bootstrap: %w", err)
	}
	res.User = user
	return res, nil
}

// Merge folds settled results into u. Profile fields overlay u; the two
// flags only ever move to true. A rejected call leaves its fields alone.
func Merge(u models.User, r Result) models.User {
	if r.Profile.OK() {
		u = r.Profile.Value.Apply(u)
	}
	if r.Verified.OK() && r.Verified.Value {
		u.EmailVerified = true
	}
	if r.Billing.OK() && r.Billing.Value.IsPremium {
		u.IsPremium = true
	}
	return u
}
