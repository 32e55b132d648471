package cli

import (
	"context"

	"github.com/dmitrijs2005/cloudshare/internal/filex"
)

// Avatar uploads a new profile photo.
func (a *App) Avatar(ctx context.Context, path string) error {
	item, err := filex.Open(path)
	if err != nil {
		a.notify.Error(err.Error())
		return err
	}
	_, err = a.account.UploadAvatar(ctx, item, a.progress("Uploading"))
	return err
}

// DeleteAccount removes the account after an explicit confirmation.
func (a *App) DeleteAccount(ctx context.Context) error {
	if !Confirm(a.reader, "Delete your account and all files? This cannot be undone.", a.out) {
		return nil
	}
	if err := a.checkout.Reset(); err != nil {
		a.log.Debug(ctx, "checkout still busy at account deletion", "err", err)
	}
	return a.account.DeleteAccount(ctx)
}
