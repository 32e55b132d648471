package services

import (
	"context"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/patrickmn/go-cache"

	"github.com/dmitrijs2005/cloudshare/internal/client/client"
	"github.com/dmitrijs2005/cloudshare/internal/client/models"
	"github.com/dmitrijs2005/cloudshare/internal/client/normalize"
)

// AvatarResult is what a profile photo upload returned.
type AvatarResult struct {
	URL string
	// User is set when the backend echoed the updated profile.
	User *models.UserPatch
}

// UserService covers the /api/user endpoints.
type UserService interface {
	Me(ctx context.Context) (models.UserPatch, error)
	UploadProfilePhoto(ctx context.Context, src client.Uploadable, onProgress func(int)) (AvatarResult, error)
	DeleteSelf(ctx context.Context) error
	// ListEmails returns share-recipient suggestions. Results are cached.
	ListEmails(ctx context.Context, limit int) ([]models.Contact, error)
	// ForgetSuggestions drops cached suggestions.
	ForgetSuggestions()
}

const DefaultSuggestionsTTL = 5 * time.Minute

type userService struct {
	gw          client.Gateway
	suggestions *cache.Cache
}

// NewUserService caches suggestions for ttl; a non-positive ttl uses
// DefaultSuggestionsTTL.
func NewUserService(gw client.Gateway, ttl time.Duration) UserService {
	if ttl <= 0 {
		ttl = DefaultSuggestionsTTL
	}
	return &userService{gw: gw, suggestions: cache.New(ttl, 2*ttl)}
}

func (u *userService) Me(ctx context.Context) (models.UserPatch, error) {
	env, err := u.gw.Get(ctx, client.PathUserMe)
	if err != nil {
		return models.UserPatch{}, err
	}
	return normalize.Profile(env), nil
}

func (u *userService) UploadProfilePhoto(ctx context.Context, src client.Uploadable, onProgress func(int)) (AvatarResult, error) {
	env, err := u.gw.Upload(ctx, client.PathUserPhoto, "photo", src, onProgress)
	if err != nil {
		return AvatarResult{}, err
	}
	if err := accepted(http.MethodPost, client.PathUserPhoto, env); err != nil {
		return AvatarResult{}, err
	}
	res := AvatarResult{URL: normalize.AvatarURL(env)}
	if user := normalize.Payload(env).Get("user"); user.IsObject() {
		p := normalize.UserPatch(user)
		res.User = &p
	}
	return res, nil
}

func (u *userService) DeleteSelf(ctx context.Context) error {
	env, err := u.gw.Delete(ctx, client.PathUserDelete)
	if err != nil {
		return err
	}
	return accepted(http.MethodDelete, client.PathUserDelete, env)
}

func (u *userService) ListEmails(ctx context.Context, limit int) ([]models.Contact, error) {
	if limit <= 0 {
		limit = 10
	}
	key := strconv.Itoa(limit)
	if v, ok := u.suggestions.Get(key); ok {
		return v.([]models.Contact), nil
	}
	env, err := u.gw.Get(ctx, client.UserEmailsPath(limit))
	if err != nil {
		return nil, err
	}
	contacts := normalize.Contacts(env)
	u.suggestions.SetDefault(key, contacts)
	return contacts, nil
}

func (u *userService) ForgetSuggestions() { u.suggestions.Flush() }

// FilterContacts keeps contacts whose email or name contains query,
// case-insensitively.
func FilterContacts(cs []models.Contact, query string) []models.Contact {
	q := strings.ToLower(strings.TrimSpace(query))
	if q == "" {
		return cs
	}
	out := make([]models.Contact, 0, len(cs))
	for _, c := range cs {
		if strings.Contains(strings.ToLower(c.Email), q) || strings.Contains(strings.ToLower(c.Name), q) {
			out = append(out, c)
		}
	}
	return out
}

func toLower(s string) string { return strings.ToLower(strings.TrimSpace(s)) }
