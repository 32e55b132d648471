package cli

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/dustin/go-humanize"

	"github.com/dmitrijs2005/cloudshare/internal/client/catalog"
	"github.com/dmitrijs2005/cloudshare/internal/client/client"
	"github.com/dmitrijs2005/cloudshare/internal/client/services"
	"github.com/dmitrijs2005/cloudshare/internal/common"
	"github.com/dmitrijs2005/cloudshare/internal/filex"
	"github.com/dmitrijs2005/cloudshare/internal/netx"
)

const contactsLimit = 50

// List loads a listing and prints it. The first argument may name a source
// (all, favorites, shared-with-me, shared-by-me); anything else is a search
// query.
func (a *App) List(ctx context.Context, args []string) error {
	src := catalog.All
	if len(args) > 0 {
		if s, err := catalog.ParseSource(args[0]); err == nil {
			src = s
			args = args[1:]
		}
	}
	if _, err := a.catalog.Load(ctx, src); err != nil {
		return err
	}
	printFiles(a.out, a.catalog.Search(strings.Join(args, " ")))
	return nil
}

// Upload sends local files as one batch with a combined progress line.
func (a *App) Upload(ctx context.Context, paths []string) error {
	items, err := filex.OpenAll(paths)
	if err != nil {
		a.notify.Error(err.Error())
		return err
	}
	batch := make([]client.Uploadable, len(items))
	for i, it := range items {
		batch[i] = it
	}
	if _, err = a.catalog.Upload(ctx, batch, a.progress("Uploading")); err != nil {
		return err
	}
	a.showQuota(ctx)
	return nil
}

func (a *App) Favorite(ctx context.Context, id string) error {
	_, err := a.catalog.ToggleFavorite(ctx, id)
	if errors.Is(err, common.ErrorNotFound) {
		printlnFn("Unknown file id; run 'ls' first")
	}
	return err
}

func (a *App) Remove(ctx context.Context, id string) error {
	if !Confirm(a.reader, fmt.Sprintf("Delete %s?", a.label(id)), a.out) {
		return nil
	}
	return a.catalog.Delete(ctx, id)
}

func (a *App) Share(ctx context.Context, id, email string) error {
	rec, err := a.files.Share(ctx, id, email)
	if err != nil {
		return a.fail(err, "Failed to share file")
	}
	a.notify.Success("Shared with " + rec.Recipient)
	return nil
}

// Contacts prints share-recipient suggestions matching query.
func (a *App) Contacts(ctx context.Context, query string) error {
	cs, err := a.users.ListEmails(ctx, contactsLimit)
	if err != nil {
		return a.fail(err, "Failed to load contacts")
	}
	printContacts(a.out, services.FilterContacts(cs, query))
	return nil
}

// Shared prints both shared listings. Either one failing shows up empty.
func (a *App) Shared(ctx context.Context) error {
	withMe, byMe := a.catalog.LoadShared(ctx)
	a.printf("Shared with me:\n")
	printFiles(a.out, withMe)
	a.printf("\nShared by me:\n")
	printFiles(a.out, byMe)
	return nil
}

func (a *App) View(ctx context.Context, id string) error {
	f, err := a.files.View(ctx, id)
	if err != nil {
		return a.fail(err, "Failed to load file")
	}
	printFile(a.out, f)
	return nil
}

func (a *App) URL(ctx context.Context, id string) error {
	u, err := a.files.DownloadURL(ctx, id)
	if err != nil {
		return a.fail(err, "Failed to get download URL")
	}
	printlnFn(u)
	return nil
}

// Download fetches the file behind its presigned URL. dest defaults to the
// file name known from the last listing, then to the id.
func (a *App) Download(ctx context.Context, id, dest string) error {
	u, err := a.files.DownloadURL(ctx, id)
	if err != nil {
		return a.fail(err, "Failed to get download URL")
	}
	if dest == "" {
		dest = a.label(id)
	}
	if err := filex.EnsureParentDir(dest); err != nil {
		return a.fail(err, "Could not create "+dest)
	}
	f, err := os.Create(dest)
	if err != nil {
		return a.fail(err, "Could not create "+dest)
	}
	n, err := netx.Download(ctx, nil, u, f)
	if cerr := f.Close(); err == nil {
		err = cerr
	}
	if err != nil {
		a.log.Error(ctx, "download failed", "id", id, "err", err)
		return a.fail(err, "Download failed")
	}
	a.notify.Success(fmt.Sprintf("Saved %s (%s)", dest, humanize.IBytes(uint64(n))))
	return nil
}

func (a *App) Visibility(ctx context.Context, id, v string) error {
	vis, err := services.ParseVisibility(v)
	if err != nil {
		printlnFn("Usage: visibility <id> <public|private>")
		return err
	}
	if _, err := a.files.ChangeVisibility(ctx, id, vis); err != nil {
		return a.fail(err, "Failed to change visibility")
	}
	a.notify.Success(fmt.Sprintf("File is now %s", vis))
	return nil
}

func (a *App) Quota(ctx context.Context) error {
	q, err := a.files.Quota(ctx)
	if err != nil {
		return a.fail(err, "Failed to load quota")
	}
	printlnFn(quotaLine(q))
	return nil
}

// showQuota prints the quota line after a change that moved it. A failed
// lookup is not the caller's failure.
func (a *App) showQuota(ctx context.Context) {
	q, err := a.files.Quota(ctx)
	if err != nil {
		a.log.Debug(ctx, "quota refresh failed", "err", err)
		return
	}
	printlnFn(quotaLine(q))
}

// label names a file for prompts: its listed name when known.
func (a *App) label(id string) string {
	if f, ok := a.catalog.Get(id); ok && f.Name != "" {
		return f.Name
	}
	return id
}
