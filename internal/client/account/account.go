// Package account runs the user actions that change the session: signing
// in and out, verification, avatar and entitlement updates.
package account

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/dmitrijs2005/cloudshare/internal/client/bootstrap"
	"github.com/dmitrijs2005/cloudshare/internal/client/client"
	"github.com/dmitrijs2005/cloudshare/internal/client/models"
	"github.com/dmitrijs2005/cloudshare/internal/client/notify"
	"github.com/dmitrijs2005/cloudshare/internal/client/services"
	"github.com/dmitrijs2005/cloudshare/internal/client/session"
	"github.com/dmitrijs2005/cloudshare/internal/common"
	"github.com/dmitrijs2005/cloudshare/internal/logging"
)

const (
	msgLoginFailed     = "Login failed"
	msgRegisterFailed  = "Registration failed"
	msgRegistered      = "Registration successful"
	msgLoggedOut       = "Logged out"
	msgNotLoggedIn     = "Please log in first"
	msgCodeSent        = "Verification code sent"
	msgCodeFailed      = "Failed to send verification code"
	msgVerified        = "Email verified"
	msgVerifyFailed    = "Verification failed"
	msgForgotSent      = "Password reset instructions sent"
	msgForgotFailed    = "Failed to request password reset"
	msgResetDone       = "Password updated"
	msgResetFailed     = "Failed to reset password"
	msgAvatarUpdated   = "Profile photo updated"
	msgAvatarFailed    = "Failed to upload profile photo"
	msgAccountDeleted  = "Account deleted"
	msgDeleteFailed    = "Failed to delete account"
	msgBillingFailed   = "Failed to refresh billing status"
	alreadyVerifiedMsg = "already verifi"
)

// Manager is the only component that replaces or ends the session; other
// writers go through session.State.Update.
type Manager struct {
	state   *session.State
	auth    services.AuthService
	users   services.UserService
	billing bootstrap.BillingSource
	boot    *bootstrap.Coordinator
	notify  notify.Notifier
	log     logging.Logger
}

func New(state *session.State, auth services.AuthService, users services.UserService, billing bootstrap.BillingSource, n notify.Notifier, log logging.Logger) *Manager {
	if n == nil {
		n = notify.Discard{}
	}
	if log == nil {
		log = logging.Discard()
	}
	return &Manager{
		state:   state,
		auth:    auth,
		users:   users,
		billing: billing,
		boot:    bootstrap.NewCoordinator(state, users, auth, billing, log),
		notify:  n,
		log:     log,
	}
}

// Restore resumes a persisted session and enriches it in the background of
// the call. ok is false when there was no usable session.
func (m *Manager) Restore(ctx context.Context) (bool, error) {
	ok, err := m.state.Restore(ctx)
	if err != nil || !ok {
		return false, err
	}
	m.enrich(ctx, m.state.Guard())
	return true, nil
}

// Login signs in, persists the session and then enriches it.
func (m *Manager) Login(ctx context.Context, c services.Credentials) (models.User, error) {
	res, err := m.auth.Login(ctx, c)
	if err != nil {
		m.notify.Error(common.UserMessage(err, msgLoginFailed))
		return models.User{}, err
	}
	return m.start(ctx, res.Token, res.User)
}

// Register creates an account. When the backend answers with a token the
// new account is signed in right away.
func (m *Manager) Register(ctx context.Context, r services.Registration) (bool, error) {
	token, msg, err := m.auth.Register(ctx, r)
	if err != nil {
		m.notify.Error(common.UserMessage(err, msgRegisterFailed))
		return false, err
	}
	if token == "" {
		m.notify.Success(orDefault(msg, msgRegistered))
		return false, nil
	}
	u := models.User{Email: r.Email, FirstName: r.FirstName, LastName: r.LastName}
	u.Name = strings.TrimSpace(r.FirstName + " " + r.LastName)
	if _, err := m.start(ctx, token, u); err != nil {
		return false, err
	}
	return true, nil
}

func (m *Manager) start(ctx context.Context, token string, u models.User) (models.User, error) {
	g, err := m.state.Login(ctx, token, u)
	if err != nil {
		m.notify.Error(common.UserMessage(err, msgLoginFailed))
		return models.User{}, err
	}
	m.enrich(ctx, g)
	user, _ := m.state.User()
	m.notify.Success("Welcome, " + user.DisplayName())
	return user, nil
}

func (m *Manager) enrich(ctx context.Context, g session.Guard) {
	if _, err := m.boot.Run(ctx, g); err != nil {
		m.log.Warn(ctx, "session bootstrap not applied", "err", err)
	}
}

// Refresh re-runs enrichment for the current session.
func (m *Manager) Refresh(ctx context.Context) (models.User, error) {
	g, err := m.guard()
	if err != nil {
		return models.User{}, err
	}
	res, err := m.boot.Run(ctx, g)
	if err != nil {
		return models.User{}, err
	}
	return res.User, nil
}

// Logout tells the server, wipes the local session and forgets cached
// suggestions. The server call may fail; the local logout still happens.
func (m *Manager) Logout(ctx context.Context) error {
	m.auth.Logout(ctx)
	err := m.state.Logout(ctx)
	m.users.ForgetSuggestions()
	if err != nil {
		return err
	}
	m.notify.Info(msgLoggedOut)
	return nil
}

func (m *Manager) SendVerificationCode(ctx context.Context) error {
	u, ok := m.state.User()
	if !ok {
		m.notify.Error(msgNotLoggedIn)
		return session.ErrNotLoggedIn
	}
	msg, err := m.auth.SendVerificationCode(ctx, u.Email)
	if err != nil {
		m.notify.Error(common.UserMessage(err, msgCodeFailed))
		return err
	}
	m.notify.Success(orDefault(msg, msgCodeSent))
	return nil
}

// VerifyEmail submits a verification code. A server answer saying the
// address is already verified counts as success.
func (m *Manager) VerifyEmail(ctx context.Context, code string) error {
	g, err := m.guard()
	if err != nil {
		return err
	}
	u, _ := m.state.User()
	msg, err := m.auth.VerifyEmail(ctx, u.Email, code)
	if err != nil {
		msg = common.UserMessage(err, "")
		if !strings.Contains(strings.ToLower(msg), alreadyVerifiedMsg) {
			m.notify.Error(orDefault(msg, msgVerifyFailed))
			return err
		}
	}
	if _, err := m.state.Update(ctx, g, func(u models.User) models.User {
		u.EmailVerified = true
		return u
	}); err != nil {
		return m.updateFailed(ctx, err, msgVerifyFailed)
	}
	m.notify.Success(orDefault(msg, msgVerified))
	return nil
}

func (m *Manager) ForgotPassword(ctx context.Context, email string) error {
	msg, err := m.auth.ForgotPassword(ctx, email)
	if err != nil {
		m.notify.Error(common.UserMessage(err, msgForgotFailed))
		return err
	}
	m.notify.Success(orDefault(msg, msgForgotSent))
	return nil
}

func (m *Manager) ResetPassword(ctx context.Context, token, newPassword string) error {
	msg, err := m.auth.ResetPassword(ctx, token, newPassword)
	if err != nil {
		m.notify.Error(common.UserMessage(err, msgResetFailed))
		return err
	}
	m.notify.Success(orDefault(msg, msgResetDone))
	return nil
}

// UploadAvatar uploads a profile photo and overlays whatever the server
// returned onto the session user.
func (m *Manager) UploadAvatar(ctx context.Context, src client.Uploadable, onProgress func(int)) (models.User, error) {
	g, err := m.guard()
	if err != nil {
		return models.User{}, err
	}
	res, err := m.users.UploadProfilePhoto(ctx, src, onProgress)
	if err != nil {
		m.notify.Error(common.UserMessage(err, msgAvatarFailed))
		return models.User{}, err
	}
	user, err := m.state.Update(ctx, g, func(u models.User) models.User {
		if res.User != nil {
			u = res.User.Apply(u)
		}
		if res.URL != "" {
			u.ProfileImageURL = res.URL
		}
		return u
	})
	if err != nil {
		return models.User{}, m.updateFailed(ctx, err, msgAvatarFailed)
	}
	m.notify.Success(msgAvatarUpdated)
	return user, nil
}

// DeleteAccount deletes the account on the server and ends the session.
func (m *Manager) DeleteAccount(ctx context.Context) error {
	if _, err := m.guard(); err != nil {
		return err
	}
	if err := m.users.DeleteSelf(ctx); err != nil {
		m.notify.Error(common.UserMessage(err, msgDeleteFailed))
		return err
	}
	if err := m.state.Logout(ctx); err != nil {
		m.log.Error(ctx, "clear session after account deletion", "err", err)
	}
	m.users.ForgetSuggestions()
	m.notify.Success(msgAccountDeleted)
	return nil
}

// RefreshBilling sets the premium flag from the billing status.
func (m *Manager) RefreshBilling(ctx context.Context) (bool, error) {
	g, err := m.guard()
	if err != nil {
		return false, err
	}
	st, err := m.billing.Status(ctx)
	if err != nil {
		m.notify.Error(common.UserMessage(err, msgBillingFailed))
		return false, err
	}
	u, err := m.state.Update(ctx, g, func(u models.User) models.User {
		u.IsPremium = st.IsPremium
		return u
	})
	if err != nil {
		return false, m.updateFailed(ctx, err, msgBillingFailed)
	}
	return u.IsPremium, nil
}

// guard returns a guard for the current session, or reports that there is
// none.
func (m *Manager) guard() (session.Guard, error) {
	g := m.state.Guard()
	if _, ok := m.state.User(); !ok {
		m.notify.Error(msgNotLoggedIn)
		return g, session.ErrNotLoggedIn
	}
	return g, nil
}

// updateFailed reports a refused session update. A stale update is silent.
func (m *Manager) updateFailed(ctx context.Context, err error, fallback string) error {
	if errors.Is(err, session.ErrStale) {
		m.log.Debug(ctx, "session changed; update dropped")
		return err
	}
	m.notify.Error(fallback)
	return fmt.Errorf("update session: %w", err)
}

func orDefault(s, def string) string {
	if s == "" {
		return def
	}
	return s
}
