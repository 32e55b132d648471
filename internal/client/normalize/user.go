package normalize

import (
	"strings"

	"github.com/dmitrijs2005/cloudshare/internal/client/models"
)

var (
	userIDKeys        = Keys{"id", "userId", "uid"}
	userEmailKeys     = Keys{"email"}
	userFirstKeys     = Keys{"firstName", "firstname", "givenName"}
	userLastKeys      = Keys{"lastName", "lastname", "surname"}
	userNameKeys      = Keys{"name"}
	userRoleKeys      = Keys{"role", "userRole"}
	userAvatarKeys    = Keys{"profileImageUrl", "avatarUrl", "photoUrl"}
	userVerifiedKeys  = Keys{"emailVerified", "verified"}
	userPremiumKeys   = Keys{"isPremium", "premium"}
	loginTokenKeys    = Keys{"data.accessToken", "accessToken", "token"}
	loginUserKeys     = Keys{"data.user", "user"}
	verificationKeys  = Keys{"data.verified", "verified", "data.isVerified", "isVerified", "emailVerified", "data.emailVerified"}
	premiumStatusKeys = Keys{"data.isPremium", "isPremium", "data.premium", "premium"}
	avatarURLKeys     = Keys{
		"photoUrl", "avatarUrl", "profileImageUrl", "url", "imageUrl", "profilePhotoUrl",
		"user.photoUrl", "user.avatarUrl", "user.profileImageUrl",
	}
	contactEmailKeys = Keys{"email", "userEmail", "username"}
	contactNameKeys  = Keys{"name", "fullName"}
)

const (
	statusVerified = "verified"
	statusPremium  = "premium"
)

// UserPatch resolves the user fields a payload actually carries. The payload
// is the user object itself, not an envelope.
func UserPatch(n Node) models.UserPatch {
	var p models.UserPatch
	str := func(keys Keys) *string {
		if s, ok := keys.Text(n); ok {
			return &s
		}
		return nil
	}
	flag := func(keys Keys) *bool {
		if b, ok := keys.Flag(n); ok {
			return &b
		}
		return nil
	}

	p.ID = str(userIDKeys)
	p.Email = str(userEmailKeys)
	p.FirstName = str(userFirstKeys)
	p.LastName = str(userLastKeys)
	p.Name = str(userNameKeys)
	if p.Name == nil {
		var parts []string
		for _, s := range []*string{p.FirstName, p.LastName} {
			if s != nil {
				parts = append(parts, *s)
			}
		}
		if full := strings.TrimSpace(strings.Join(parts, " ")); full != "" {
			p.Name = &full
		}
	}
	p.Role = str(userRoleKeys)
	p.ProfileImageURL = str(userAvatarKeys)
	p.EmailVerified = flag(userVerifiedKeys)
	p.IsPremium = flag(userPremiumKeys)
	return p
}

// User resolves a complete user record; absent fields take zero values.
func User(n Node) models.User {
	return UserPatch(n).Apply(models.User{})
}

// Profile unwraps a profile response envelope into a patch.
func Profile(env Node) models.UserPatch {
	return UserPatch(Payload(env))
}

// Login extracts the bearer token and the user object from a login response.
// The user node is absent when the backend sent none.
func Login(env Node) (token string, user Node) {
	token, _ = loginTokenKeys.Text(env)
	user, _ = loginUserKeys.In(env)
	return token, user
}

// Verified reports whether a verification-status response says the email is
// verified.
func Verified(env Node) bool {
	return FlagOrStatus(env, verificationKeys, statusVerified)
}

// Premium reports whether a billing-status response grants premium.
func Premium(env Node) models.BillingStatus {
	return models.BillingStatus{IsPremium: FlagOrStatus(env, premiumStatusKeys, statusPremium)}
}

// AvatarURL extracts the new profile photo URL from an upload response.
func AvatarURL(env Node) string {
	return avatarURLKeys.TextOr(Payload(env), "")
}

// Contacts normalizes a share-suggestion list. Entries without an email are
// dropped.
func Contacts(env Node) []models.Contact {
	items := List(env, "users", "emails")
	out := make([]models.Contact, 0, len(items))
	for _, it := range items {
		email, ok := contactEmailKeys.Text(it)
		if !ok {
			continue
		}
		name, ok := contactNameKeys.Text(it)
		if !ok {
			first := Keys{"firstName", "firstname"}.TextOr(it, "")
			last := Keys{"lastName", "lastname"}.TextOr(it, "")
			name = strings.TrimSpace(first + " " + last)
		}
		out = append(out, models.Contact{
			ID:              Keys{"id", "userId"}.TextOr(it, ""),
			Email:           email,
			Name:            name,
			ProfileImageURL: userAvatarKeys.TextOr(it, ""),
		})
	}
	return out
}
