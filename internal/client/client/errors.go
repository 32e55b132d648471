package client

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/dmitrijs2005/cloudshare/internal/client/normalize"
)

var (
	ErrUnavailable  = errors.New("server unavailable")
	ErrUnauthorized = errors.New("unauthorized")
)

// APIError is a non-2xx response from the backend.
type APIError struct {
	Method   string
	Path     string
	Status   int
	Message  string
	Envelope normalize.Node
	kind     error
}

func (e *APIError) Error() string {
	msg := e.Message
	if msg == "" {
		msg = http.StatusText(e.Status)
	}
	return fmt.Sprintf("%s %s: %d %s", e.Method, e.Path, e.Status, msg)
}

// Unwrap exposes the matching sentinel, if any.
func (e *APIError) Unwrap() error { return e.kind }

// ServerMessage is the human message the backend put in the envelope.
func (e *APIError) ServerMessage() string { return e.Message }

func mapStatus(status int) error {
	switch status {
	case http.StatusUnauthorized, http.StatusForbidden:
		return ErrUnauthorized
	case http.StatusBadGateway, http.StatusServiceUnavailable, http.StatusGatewayTimeout:
		return ErrUnavailable
	default:
		return nil
	}
}

// Failed wraps a 2xx envelope whose success flag is false.
func Failed(method, path string, env normalize.Node) *APIError {
	return &APIError{
		Method:   method,
		Path:     path,
		Status:   http.StatusOK,
		Message:  normalize.Message(env),
		Envelope: env,
	}
}
