package services

import (
	"context"
	"fmt"
	"net/http"

	"github.com/dmitrijs2005/cloudshare/internal/client/client"
	"github.com/dmitrijs2005/cloudshare/internal/client/models"
	"github.com/dmitrijs2005/cloudshare/internal/client/normalize"
)

// Visibility of an owned file.
type Visibility string

const (
	Public  Visibility = "public"
	Private Visibility = "private"
)

// ParseVisibility accepts "public" or "private" in any case.
func ParseVisibility(s string) (Visibility, error) {
	switch v := Visibility(toLower(s)); v {
	case Public, Private:
		return v, nil
	default:
		return "", fmt.Errorf("unknown visibility %q", s)
	}
}

// FileService covers the /api/files endpoints.
type FileService interface {
	Upload(ctx context.Context, src client.Uploadable, onProgress func(int)) (models.FileSummary, error)
	List(ctx context.Context, visibility Visibility) ([]models.FileSummary, error)
	Favorites(ctx context.Context) ([]models.FileSummary, error)
	SharedWithMe(ctx context.Context) ([]models.FileSummary, error)
	SharedByMe(ctx context.Context) ([]models.FileSummary, error)
	ListByUser(ctx context.Context, userID string) ([]models.FileSummary, error)
	View(ctx context.Context, id string) (models.FileDetail, error)
	DownloadURL(ctx context.Context, id string) (string, error)
	ChangeVisibility(ctx context.Context, id string, v Visibility) (models.FileSummary, error)
	Delete(ctx context.Context, id string) error
	Quota(ctx context.Context) (models.QuotaInfo, error)
	Share(ctx context.Context, id, email string) (models.ShareRecord, error)
	// SetFavorite returns the server's message on success.
	SetFavorite(ctx context.Context, id string, value bool) (string, error)
}

type fileService struct {
	gw client.Gateway
}

func NewFileService(gw client.Gateway) FileService {
	return &fileService{gw: gw}
}

func (f *fileService) Upload(ctx context.Context, src client.Uploadable, onProgress func(int)) (models.FileSummary, error) {
	env, err := f.gw.Upload(ctx, client.PathUpload, "file", src, onProgress)
	if err != nil {
		return models.FileSummary{}, err
	}
	if err := accepted(http.MethodPost, client.PathUpload, env); err != nil {
		return models.FileSummary{}, err
	}
	sum := normalize.File(normalize.Payload(env))
	if sum.Name == "Untitled" {
		sum.Name = src.Name()
	}
	if sum.Size == 0 && sum.SizeLabel == "" {
		sum.Size = src.Size()
	}
	return sum, nil
}

func (f *fileService) List(ctx context.Context, visibility Visibility) ([]models.FileSummary, error) {
	return f.list(ctx, client.FilesPath(string(visibility)))
}

func (f *fileService) Favorites(ctx context.Context) ([]models.FileSummary, error) {
	return f.list(ctx, client.PathFavorites)
}

func (f *fileService) ListByUser(ctx context.Context, userID string) ([]models.FileSummary, error) {
	if err := requireID(userID); err != nil {
		return nil, err
	}
	return f.list(ctx, client.FilesByUserPath(userID))
}

func (f *fileService) list(ctx context.Context, path string) ([]models.FileSummary, error) {
	env, err := f.gw.Get(ctx, path)
	if err != nil {
		return nil, err
	}
	return normalize.Files(env), nil
}

func (f *fileService) SharedWithMe(ctx context.Context) ([]models.FileSummary, error) {
	return f.shared(ctx, client.PathSharedWithMe, false)
}

func (f *fileService) SharedByMe(ctx context.Context) ([]models.FileSummary, error) {
	return f.shared(ctx, client.PathSharedByMe, true)
}

func (f *fileService) shared(ctx context.Context, path string, owned bool) ([]models.FileSummary, error) {
	env, err := f.gw.Get(ctx, path)
	if err != nil {
		return nil, err
	}
	return normalize.SharedFiles(env, owned), nil
}

func (f *fileService) View(ctx context.Context, id string) (models.FileDetail, error) {
	if err := requireID(id); err != nil {
		return models.FileDetail{}, err
	}
	env, err := f.gw.Get(ctx, client.ViewPath(id))
	if err != nil {
		return models.FileDetail{}, err
	}
	return normalize.FileDetail(env, id), nil
}

func (f *fileService) DownloadURL(ctx context.Context, id string) (string, error) {
	if err := requireID(id); err != nil {
		return "", err
	}
	path := client.DownloadURLPath(id)
	env, err := f.gw.Get(ctx, path)
	if err != nil {
		return "", err
	}
	u := normalize.DownloadURL(env)
	if u == "" {
		return "", withMessage(ErrNoURL, http.MethodGet, path, env, "Failed to get download URL")
	}
	return u, nil
}

func (f *fileService) ChangeVisibility(ctx context.Context, id string, v Visibility) (models.FileSummary, error) {
	if err := requireID(id); err != nil {
		return models.FileSummary{}, err
	}
	path := client.VisibilityPath(id)
	env, err := f.gw.Patch(ctx, path, map[string]string{"visibility": string(v)})
	if err != nil {
		return models.FileSummary{}, err
	}
	if err := accepted(http.MethodPatch, path, env); err != nil {
		return models.FileSummary{}, err
	}
	sum := normalize.File(normalize.Payload(env))
	if !sum.HasID() {
		sum.ID = id
	}
	return sum, nil
}

func (f *fileService) Delete(ctx context.Context, id string) error {
	if err := requireID(id); err != nil {
		return err
	}
	path := client.FilePath(id)
	env, err := f.gw.Delete(ctx, path)
	if err != nil {
		return err
	}
	return accepted(http.MethodDelete, path, env)
}

func (f *fileService) Quota(ctx context.Context) (models.QuotaInfo, error) {
	env, err := f.gw.Get(ctx, client.PathQuota)
	if err != nil {
		return models.QuotaInfo{}, err
	}
	return normalize.Quota(env), nil
}

func (f *fileService) Share(ctx context.Context, id, email string) (models.ShareRecord, error) {
	if err := requireID(id); err != nil {
		return models.ShareRecord{}, err
	}
	path := client.SharePath(id)
	env, err := f.gw.Post(ctx, path, map[string]string{"email": email})
	if err != nil {
		return models.ShareRecord{}, err
	}
	if err := accepted(http.MethodPost, path, env); err != nil {
		return models.ShareRecord{}, err
	}
	rec := normalize.Share(env)
	if rec.FileID == "" {
		rec.FileID = id
	}
	if rec.Recipient == "" {
		rec.Recipient = email
	}
	return rec, nil
}

func (f *fileService) SetFavorite(ctx context.Context, id string, value bool) (string, error) {
	if err := requireID(id); err != nil {
		return "", err
	}
	path := client.FavoritePath(id, value)
	env, err := f.gw.Patch(ctx, path, nil)
	if err != nil {
		return "", err
	}
	if err := accepted(http.MethodPatch, path, env); err != nil {
		return "", err
	}
	return normalize.Message(env), nil
}
