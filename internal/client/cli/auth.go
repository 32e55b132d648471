package cli

import (
	"context"

	"github.com/dmitrijs2005/cloudshare/internal/client/services"
)

// getSimpleText and getPassword are indirections used to facilitate testing.
// They point to interactive input helpers and can be swapped in tests.
var getSimpleText = GetSimpleText
var getPassword = GetPassword

// Register prompts for the sign-up form. The names are optional. When the
// backend signs the new account in right away the session starts too.
func (a *App) Register(ctx context.Context) error {
	email, err := getSimpleText(a.reader, "Enter email", a.out)
	if err != nil {
		return err
	}
	first, err := getSimpleText(a.reader, "First name (optional)", a.out)
	if err != nil {
		return err
	}
	last, err := getSimpleText(a.reader, "Last name (optional)", a.out)
	if err != nil {
		return err
	}

	password, err := getPassword(a.out)
	if err != nil {
		return err
	}
	defer clear(password)

	_, err = a.account.Register(ctx, services.Registration{
		Email:     email,
		Password:  string(password),
		FirstName: first,
		LastName:  last,
	})
	return err
}

// Login prompts for credentials and starts a session. The account manager
// reports the outcome.
func (a *App) Login(ctx context.Context) error {
	email, err := getSimpleText(a.reader, "Enter email", a.out)
	if err != nil {
		return err
	}

	password, err := getPassword(a.out)
	if err != nil {
		return err
	}
	defer clear(password)

	_, err = a.account.Login(ctx, services.Credentials{Email: email, Password: string(password)})
	return err
}

func (a *App) Logout(ctx context.Context) error {
	if err := a.checkout.Reset(); err != nil {
		a.log.Debug(ctx, "checkout still busy at logout", "err", err)
	}
	return a.account.Logout(ctx)
}

// Forgot asks the backend to mail a password reset link.
func (a *App) Forgot(ctx context.Context, args []string) error {
	email, err := argOrPrompt(args, 0, a.reader, "Enter email", a.out)
	if err != nil {
		return err
	}
	return a.account.ForgotPassword(ctx, email)
}

// Reset sets a new password using the token from the reset mail.
func (a *App) Reset(ctx context.Context, args []string) error {
	token, err := argOrPrompt(args, 0, a.reader, "Enter reset token", a.out)
	if err != nil {
		return err
	}

	password, err := getPassword(a.out)
	if err != nil {
		return err
	}
	defer clear(password)

	return a.account.ResetPassword(ctx, token, string(password))
}

// Me refreshes the profile from the backend and prints it.
func (a *App) Me(ctx context.Context) error {
	u, err := a.account.Refresh(ctx)
	if err != nil {
		u, _ = a.state.User()
		a.log.Debug(ctx, "profile refresh failed; showing cached profile", "err", err)
	}
	a.printf("Name:     %s\n", u.DisplayName())
	a.printf("Email:    %s\n", u.Email)
	a.printf("Verified: %s\n", yesNo(u.EmailVerified))
	a.printf("Premium:  %s\n", yesNo(u.IsPremium))
	if u.ProfileImageURL != "" {
		a.printf("Avatar:   %s\n", u.ProfileImageURL)
	}
	return nil
}

func (a *App) SendCode(ctx context.Context) error {
	return a.account.SendVerificationCode(ctx)
}

func (a *App) Verify(ctx context.Context, args []string) error {
	code, err := argOrPrompt(args, 0, a.reader, "Enter verification code", a.out)
	if err != nil {
		return err
	}
	return a.account.VerifyEmail(ctx, code)
}

func yesNo(b bool) string {
	if b {
		return "yes"
	}
	return "no"
}
