package services

import (
	"context"
	"net/http"
	"strings"

	"github.com/dmitrijs2005/cloudshare/internal/client/client"
	"github.com/dmitrijs2005/cloudshare/internal/client/models"
	"github.com/dmitrijs2005/cloudshare/internal/client/normalize"
	"github.com/dmitrijs2005/cloudshare/internal/client/session"
	"github.com/dmitrijs2005/cloudshare/internal/logging"
)

// Credentials identify an account at login.
type Credentials struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// Registration is the sign-up form.
type Registration struct {
	Email     string `json:"email"`
	Password  string `json:"password"`
	FirstName string `json:"firstName,omitempty"`
	LastName  string `json:"lastName,omitempty"`
}

// LoginResult is a fresh session.
type LoginResult struct {
	Token string
	User  models.User
}

// AuthService covers the /api/auth endpoints.
//
// Methods returning a string return the server's human message, which may be
// empty.
type AuthService interface {
	Login(ctx context.Context, c Credentials) (LoginResult, error)
	Register(ctx context.Context, r Registration) (token string, msg string, err error)
	SendVerificationCode(ctx context.Context, email string) (string, error)
	VerifyEmail(ctx context.Context, email, code string) (string, error)
	ForgotPassword(ctx context.Context, email string) (string, error)
	ResetPassword(ctx context.Context, token, newPassword string) (string, error)
	Me(ctx context.Context) (models.UserPatch, error)
	VerifyStatus(ctx context.Context, email string) (bool, error)
	// Logout tells the server; its failure is logged and otherwise ignored.
	Logout(ctx context.Context)
}

type authService struct {
	gw  client.Gateway
	log logging.Logger
}

func NewAuthService(gw client.Gateway, log logging.Logger) AuthService {
	if log == nil {
		log = logging.Discard()
	}
	return &authService{gw: gw, log: log}
}

func (a *authService) Login(ctx context.Context, c Credentials) (LoginResult, error) {
	env, err := a.gw.Post(ctx, client.PathLogin, c)
	if err != nil {
		return LoginResult{}, err
	}
	token, userNode := normalize.Login(env)
	if token == "" {
		return LoginResult{}, withMessage(ErrNoToken, http.MethodPost, client.PathLogin, env, "Login failed")
	}

	var user models.User
	if userNode.Present() {
		user = normalize.User(userNode)
	} else {
		user = models.User{Email: c.Email, Name: localPart(c.Email)}
	}
	if claims, err := session.ParseClaims(token); err == nil {
		if user.ID == "" {
			user.ID = claims.Subject
		}
		if user.Email == "" {
			user.Email = claims.Email
		}
	}
	if user.Email == "" {
		user.Email = c.Email
	}
	return LoginResult{Token: token, User: user}, nil
}

func (a *authService) Register(ctx context.Context, r Registration) (string, string, error) {
	env, err := a.gw.Post(ctx, client.PathRegister, r)
	if err != nil {
		return "", "", err
	}
	if err := accepted(http.MethodPost, client.PathRegister, env); err != nil {
		return "", "", err
	}
	token, _ := normalize.Login(env)
	return token, normalize.Message(env), nil
}

func (a *authService) SendVerificationCode(ctx context.Context, email string) (string, error) {
	return a.post(ctx, client.PathVerifySend, map[string]string{"email": email})
}

func (a *authService) VerifyEmail(ctx context.Context, email, code string) (string, error) {
	return a.post(ctx, client.PathVerify, map[string]string{"email": email, "verificationCode": code})
}

func (a *authService) ForgotPassword(ctx context.Context, email string) (string, error) {
	return a.post(ctx, client.PathForgotPassword, map[string]string{"email": email})
}

func (a *authService) ResetPassword(ctx context.Context, token, newPassword string) (string, error) {
	return a.post(ctx, client.PathResetPassword, map[string]string{"token": token, "newPassword": newPassword})
}

func (a *authService) Me(ctx context.Context) (models.UserPatch, error) {
	env, err := a.gw.Get(ctx, client.PathAuthMe)
	if err != nil {
		return models.UserPatch{}, err
	}
	return normalize.Profile(env), nil
}

func (a *authService) VerifyStatus(ctx context.Context, email string) (bool, error) {
	env, err := a.gw.Get(ctx, client.VerifyStatusPath(email))
	if err != nil {
		return false, err
	}
	return normalize.Verified(env), nil
}

func (a *authService) Logout(ctx context.Context) {
	if _, err := a.gw.Post(ctx, client.PathLogout, nil); err != nil {
		a.log.Debug(ctx, "server logout failed", "err", err)
	}
}

func (a *authService) post(ctx context.Context, path string, body any) (string, error) {
	env, err := a.gw.Post(ctx, path, body)
	if err != nil {
		return "", err
	}
	if err := accepted(http.MethodPost, path, env); err != nil {
		return "", err
	}
	return normalize.Message(env), nil
}

func localPart(email string) string {
	name, _, _ := strings.Cut(email, "@")
	if name == "" {
		return "User"
	}
	return name
}
