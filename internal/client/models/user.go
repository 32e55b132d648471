package models

import "strings"

// User is the canonical account record held in session state.
type User struct {
	ID              string `json:"id,omitempty"`
	Email           string `json:"email,omitempty"`
	Name            string `json:"name,omitempty"`
	FirstName       string `json:"firstName,omitempty"`
	LastName        string `json:"lastName,omitempty"`
	Role            string `json:"role,omitempty"`
	ProfileImageURL string `json:"profileImageUrl,omitempty"`
	EmailVerified   bool   `json:"emailVerified"`
	IsPremium       bool   `json:"isPremium"`
}

// DisplayName picks the friendliest non-empty label for the user.
func (u User) DisplayName() string {
	if u.Name != "" {
		return u.Name
	}
	if full := strings.TrimSpace(u.FirstName + " " + u.LastName); full != "" {
		return full
	}
	if u.Email != "" {
		return u.Email
	}
	return "User"
}

// UserPatch carries only the fields a backend response actually supplied.
// A nil field means "no information" and leaves the target untouched.
type UserPatch struct {
	ID              *string
	Email           *string
	Name            *string
	FirstName       *string
	LastName        *string
	Role            *string
	ProfileImageURL *string
	EmailVerified   *bool
	IsPremium       *bool
}

// Apply overlays the supplied fields onto u and returns the result.
func (p UserPatch) Apply(u User) User {
	set := func(dst *string, src *string) {
		if src != nil {
			*dst = *src
		}
	}
	set(&u.ID, p.ID)
	set(&u.Email, p.Email)
	set(&u.Name, p.Name)
	set(&u.FirstName, p.FirstName)
	set(&u.LastName, p.LastName)
	set(&u.Role, p.Role)
	set(&u.ProfileImageURL, p.ProfileImageURL)
	if p.EmailVerified != nil {
		u.EmailVerified = *p.EmailVerified
	}
	if p.IsPremium != nil {
		u.IsPremium = *p.IsPremium
	}
	return u
}

// Empty reports whether the patch carries no fields at all.
func (p UserPatch) Empty() bool {
	return p == UserPatch{}
}

// Contact is a share-recipient suggestion.
type Contact struct {
	ID              string `json:"id,omitempty"`
	Email           string `json:"email"`
	Name            string `json:"name,omitempty"`
	ProfileImageURL string `json:"profileImageUrl,omitempty"`
}
