package services

import (
	"context"
	"net/http"
	"sync/atomic"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrijs2005/cloudshare/internal/client/client"
	"github.com/dmitrijs2005/cloudshare/internal/client/models"
	"github.com/dmitrijs2005/cloudshare/internal/filex"
)

func TestUser_MeAndDelete(t *testing.T) {
	gw := backend(t, func(r chi.Router) {
		r.Get(client.PathUserMe, reply(http.StatusOK, obj{"data": obj{"firstname": "Ada", "surname": "L", "userRole": "ADMIN"}}))
		r.Delete(client.PathUserDelete, reply(http.StatusOK, obj{"success": true}))
	})
	svc := NewUserService(gw, 0)

	p, err := svc.Me(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "Ada L", *p.Name)
	assert.Equal(t, "ADMIN", *p.Role)
	assert.Nil(t, p.IsPremium)

	require.NoError(t, svc.DeleteSelf(context.Background()))
}

func TestUser_UploadProfilePhoto(t *testing.T) {
	gw := backend(t, func(r chi.Router) {
		r.Post(client.PathUserPhoto, func(w http.ResponseWriter, r *http.Request) {
			_, _, err := r.FormFile("photo")
			require.NoError(t, err)
			reply(http.StatusOK, obj{"data": obj{"user": obj{"profileImageUrl": "https://img", "email": "a@b"}}})(w, r)
		})
	})

	res, err := NewUserService(gw, 0).UploadProfilePhoto(context.Background(), filex.FromBytes("me.png", []byte("png")), nil)
	require.NoError(t, err)
	assert.Equal(t, "https://img", res.URL)
	require.NotNil(t, res.User)
	assert.Equal(t, "a@b", *res.User.Email)
}

func TestUser_ListEmailsIsCached(t *testing.T) {
	var hits atomic.Int32
	gw := backend(t, func(r chi.Router) {
		r.Get("/api/user/emails", func(w http.ResponseWriter, r *http.Request) {
			hits.Add(1)
			assert.Equal(t, "10", r.URL.Query().Get("limit"))
			reply(http.StatusOK, obj{"data": []any{obj{"email": "a@x", "name": "Ann"}, obj{"name": "nobody"}}})(w, r)
		})
	})
	svc := NewUserService(gw, time.Minute)
	ctx := context.Background()

	first, err := svc.ListEmails(ctx, 0)
	require.NoError(t, err)
	second, err := svc.ListEmails(ctx, 10)
	require.NoError(t, err)

	assert.Equal(t, []models.Contact{{Email: "a@x", Name: "Ann"}}, first)
	assert.Equal(t, first, second)
	assert.Equal(t, int32(1), hits.Load())

	svc.ForgetSuggestions()
	_, err = svc.ListEmails(ctx, 10)
	require.NoError(t, err)
	assert.Equal(t, int32(2), hits.Load())
}

func TestFilterContacts(t *testing.T) {
	cs := []models.Contact{{Email: "ann@x", Name: "Ann"}, {Email: "bob@y", Name: "Robert"}}
	assert.Equal(t, cs, FilterContacts(cs, " "))
	assert.Equal(t, cs[1:], FilterContacts(cs, "ROB"))
	assert.Equal(t, cs[:1], FilterContacts(cs, "@x"))
	assert.Empty(t, FilterContacts(cs, "zed"))
}
