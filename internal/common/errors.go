package common

import (
	"errors"
	"strings"
)

var (
	// ErrorNotFound is returned when a referenced entity is not known locally.
	ErrorNotFound = errors.New("not found")
	// ErrorNoID marks an entity whose identifier could not be resolved; such
	// entities cannot be targeted by id-based operations.
	ErrorNoID = errors.New("entity has no id")
	// ErrInvalidToken is returned for malformed bearer tokens.
	ErrInvalidToken = errors.New("invalid token")
	// ErrTokenExpired is returned when a persisted token is past its expiry.
	ErrTokenExpired = errors.New("token expired")
)

// MessageCarrier is implemented by errors that hold a human-readable message
// supplied by the server.
type MessageCarrier interface {
	ServerMessage() string
}

// UserMessage turns err into the single notification text shown to the user:
// the server-supplied message when the error chain carries one, otherwise
// fallback.
func UserMessage(err error, fallback string) string {
	if err == nil {
		return ""
	}
	var mc MessageCarrier
	if errors.As(err, &mc) {
		if msg := strings.TrimSpace(mc.ServerMessage()); msg != "" {
			return msg
		}
	}
	return fallback
}
