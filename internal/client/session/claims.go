package session

import (
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/dmitrijs2005/cloudshare/internal/common"
)

var timeNow = time.Now

// Claims is what the client reads from a bearer token without verifying its
// signature. The backend remains the authority; this only tells the client
// whether a stored token is worth sending.
type Claims struct {
	Subject   string
	Email     string
	ExpiresAt time.Time
}

// ParseClaims decodes a JWT payload. Opaque (non-JWT) tokens yield
// common.ErrInvalidToken.
func ParseClaims(token string) (Claims, error) {
	mc := jwt.MapClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(token, mc); err != nil {
		return Claims{}, fmt.Errorf("%w: %v", common.ErrInvalidToken, err)
	}
	var c Claims
	c.Subject, _ = mc.GetSubject()
	if email, ok := mc["email"].(string); ok {
		c.Email = email
	}
	if exp, err := mc.GetExpirationTime(); err == nil && exp != nil {
		c.ExpiresAt = exp.Time
	}
	return c, nil
}

// Expired reports whether the token carried an expiry that has passed.
func (c Claims) Expired(now time.Time) bool {
	return !c.ExpiresAt.IsZero() && !now.Before(c.ExpiresAt)
}

// Usable reports whether token should still be attached to requests. Opaque
// tokens are always usable; JWTs are usable until they expire.
func Usable(token string, now time.Time) bool {
	if token == "" {
		return false
	}
	c, err := ParseClaims(token)
	if err != nil {
		return true
	}
	return !c.Expired(now)
}
