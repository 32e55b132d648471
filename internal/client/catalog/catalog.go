// Package catalog holds the file listing the user is looking at and applies
// user actions to it.
package catalog

import (
	"context"
	"fmt"
	"slices"
	"strings"
	"sync"

	"golang.org/x/sync/errgroup"

	"github.com/dmitrijs2005/cloudshare/internal/client/client"
	"github.com/dmitrijs2005/cloudshare/internal/client/models"
	"github.com/dmitrijs2005/cloudshare/internal/client/notify"
	"github.com/dmitrijs2005/cloudshare/internal/client/optimistic"
	"github.com/dmitrijs2005/cloudshare/internal/client/services"
	"github.com/dmitrijs2005/cloudshare/internal/client/upload"
	"github.com/dmitrijs2005/cloudshare/internal/common"
	"github.com/dmitrijs2005/cloudshare/internal/logging"
)

// ErrNoID is returned for actions on an entry whose id could not be
// resolved.
var ErrNoID = optimistic.ErrNoID

type Source string

const (
	All          Source = "all"
	Favorites    Source = "favorites"
	SharedWithMe Source = "shared-with-me"
	SharedByMe   Source = "shared-by-me"
)

func ParseSource(s string) (Source, error) {
	switch src := Source(strings.ToLower(strings.TrimSpace(s))); src {
	case "":
		return All, nil
	case All, Favorites, SharedWithMe, SharedByMe:
		return src, nil
	default:
		return "", fmt.Errorf("unknown source %q", s)
	}
}

// Files is the part of services.FileService the catalog drives.
type Files interface {
	Upload(ctx context.Context, src client.Uploadable, onProgress func(int)) (models.FileSummary, error)
	List(ctx context.Context, visibility services.Visibility) ([]models.FileSummary, error)
	Favorites(ctx context.Context) ([]models.FileSummary, error)
	SharedWithMe(ctx context.Context) ([]models.FileSummary, error)
	SharedByMe(ctx context.Context) ([]models.FileSummary, error)
	SetFavorite(ctx context.Context, id string, value bool) (string, error)
	Delete(ctx context.Context, id string) error
}

const (
	msgLoadFailed     = "Failed to load files"
	msgFavAdded       = "Added to favorites"
	msgFavRemoved     = "Removed from favorites"
	msgFavFailed      = "Failed to update favorite"
	msgDeleted        = "File deleted"
	msgDeleteFailed   = "Failed to delete file"
	msgUploadFailed   = "Upload failed"
	msgUploadFinished = "Uploaded %d file(s)"
)

// Catalog is the in-memory listing. Every reload starts a new generation;
// favorite toggles started against an older listing do not touch the new
// one.
type Catalog struct {
	mu     sync.Mutex
	source Source
	items  []models.FileSummary
	gen    uint64

	files     Files
	mutations *optimistic.Controller
	notify    notify.Notifier
	log       logging.Logger
}

func New(files Files, mutations *optimistic.Controller, n notify.Notifier, log logging.Logger) *Catalog {
	if n == nil {
		n = notify.Discard{}
	}
	if log == nil {
		log = logging.Discard()
	}
	if mutations == nil {
		mutations = optimistic.NewController(n, log)
	}
	return &Catalog{source: All, files: files, mutations: mutations, notify: n, log: log}
}

// Load replaces the listing with src.
func (c *Catalog) Load(ctx context.Context, src Source) ([]models.FileSummary, error) {
	var (
		items []models.FileSummary
		err   error
	)
	switch src {
	case All, "":
		src = All
		items, err = c.files.List(ctx, "")
	case Favorites:
		items, err = c.files.Favorites(ctx)
	case SharedWithMe:
		items, err = c.files.SharedWithMe(ctx)
	case SharedByMe:
		items, err = c.files.SharedByMe(ctx)
	default:
		return nil, fmt.Errorf("unknown source %q", src)
	}
	if err != nil {
		c.notify.Error(common.UserMessage(err, msgLoadFailed))
		return nil, fmt.Errorf("load %s: %w", src, err)
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	c.gen++
	c.source = src
	c.items = items
	return slices.Clone(items), nil
}

// LoadShared fetches both shared listings concurrently. A listing that fails
// to load is empty.
func (c *Catalog) LoadShared(ctx context.Context) (withMe, byMe []models.FileSummary) {
	var g errgroup.Group
	g.Go(func() error {
		items, err := c.files.SharedWithMe(ctx)
		if err != nil {
			c.log.Warn(ctx, "shared-with-me listing failed", "err", err)
			items = []models.FileSummary{}
		}
		withMe = items
		return nil
	})
	g.Go(func() error {
		items, err := c.files.SharedByMe(ctx)
		if err != nil {
			c.log.Warn(ctx, "shared-by-me listing failed", "err", err)
			items = []models.FileSummary{}
		}
		byMe = items
		return nil
	})
	_ = g.Wait()
	return withMe, byMe
}

func (c *Catalog) Source() Source {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.source
}

// Items returns a copy of the listing.
func (c *Catalog) Items() []models.FileSummary {
	c.mu.Lock()
	defer c.mu.Unlock()
	return slices.Clone(c.items)
}

// Search filters the listing by name.
func (c *Catalog) Search(query string) []models.FileSummary {
	return Filter(c.Items(), query)
}

// Filter keeps the entries whose name contains query, ignoring case.
func Filter(items []models.FileSummary, query string) []models.FileSummary {
	q := strings.ToLower(strings.TrimSpace(query))
	if q == "" {
		return items
	}
	out := make([]models.FileSummary, 0, len(items))
	for _, it := range items {
		if strings.Contains(strings.ToLower(it.Name), q) {
			out = append(out, it)
		}
	}
	return out
}

func (c *Catalog) Get(id string) (models.FileSummary, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	i := c.index(id)
	if i < 0 {
		return models.FileSummary{}, false
	}
	return c.items[i], true
}

// ToggleFavorite flips the favorite flag right away and asks the server to
// confirm it. A rejection restores the previous flag.
func (c *Catalog) ToggleFavorite(ctx context.Context, id string) (models.FileSummary, error) {
	if id == "" {
		return models.FileSummary{}, ErrNoID
	}
	cur, ok := c.Get(id)
	if !ok {
		return models.FileSummary{}, fmt.Errorf("%s: %w", id, common.ErrorNotFound)
	}
	want := !cur.Favorite
	success := msgFavAdded
	if !want {
		success = msgFavRemoved
	}

	c.mu.Lock()
	gen := c.gen
	c.mu.Unlock()

	f, err := optimistic.Apply(ctx, c.mutations, optimistic.Mutation[models.FileSummary]{
		Key:    id,
		Target: c.entry(id),
		Change: func(f models.FileSummary) models.FileSummary {
			f.Favorite = want
			return f
		},
		Confirm: func(ctx context.Context) (string, error) {
			return c.files.SetFavorite(ctx, id, want)
		},
		Success: success,
		Failure: msgFavFailed,
		Live:    optimistic.AliveFunc(func() bool { return c.generation() == gen }),
	})
	if err != nil {
		return f, err
	}
	if !want && c.Source() == Favorites {
		c.remove(id)
	}
	return f, nil
}

// Delete removes a file on the server and then from the listing.
func (c *Catalog) Delete(ctx context.Context, id string) error {
	if id == "" {
		return ErrNoID
	}
	if err := c.files.Delete(ctx, id); err != nil {
		c.notify.Error(common.UserMessage(err, msgDeleteFailed))
		return fmt.Errorf("delete %s: %w", id, err)
	}
	c.remove(id)
	c.notify.Success(msgDeleted)
	return nil
}

// Upload sends items one after another, reporting one combined percentage.
// Uploaded files are prepended to the listing as they finish. The first
// failure stops the batch and is reported once.
func (c *Catalog) Upload(ctx context.Context, items []client.Uploadable, report func(percent int)) ([]models.FileSummary, error) {
	done, _, err := upload.Run(ctx, len(items), func(ctx context.Context, i int, progress func(int)) (models.FileSummary, error) {
		f, err := c.files.Upload(ctx, items[i], progress)
		if err != nil {
			return f, fmt.Errorf("upload %s: %w", items[i].Name(), err)
		}
		c.prepend(f)
		return f, nil
	}, report)
	if err != nil {
		c.notify.Error(common.UserMessage(err, msgUploadFailed))
		return done, err
	}
	c.notify.Success(fmt.Sprintf(msgUploadFinished, len(done)))
	return done, nil
}

func (c *Catalog) generation() uint64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.gen
}

// index finds id in the listing. Callers hold c.mu.
func (c *Catalog) index(id string) int {
	return slices.IndexFunc(c.items, func(f models.FileSummary) bool { return f.ID == id })
}

func (c *Catalog) remove(id string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if i := c.index(id); i >= 0 {
		c.items = slices.Delete(c.items, i, i+1)
	}
}

func (c *Catalog) prepend(f models.FileSummary) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.source == All || c.source == "" {
		c.items = append([]models.FileSummary{f}, c.items...)
	}
}

// entry is the optimistic target for one listing entry.
func (c *Catalog) entry(id string) optimistic.Target[models.FileSummary] {
	return optimistic.Funcs[models.FileSummary]{
		LoadFunc: func() (models.FileSummary, bool) { return c.Get(id) },
		StoreFunc: func(f models.FileSummary) error {
			c.mu.Lock()
			defer c.mu.Unlock()
			if i := c.index(id); i >= 0 {
				c.items[i] = f
			}
			return nil
		},
	}
}
