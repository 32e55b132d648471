package services

import (
	"errors"
	"fmt"

	"github.com/dmitrijs2005/cloudshare/internal/client/client"
	"github.com/dmitrijs2005/cloudshare/internal/client/normalize"
	"github.com/dmitrijs2005/cloudshare/internal/common"
)

var (
	// ErrNoToken is returned when a login response carries no access token.
	ErrNoToken = errors.New("login response carried no token")
	// ErrNoOrder is returned when order creation yields no order id.
	ErrNoOrder = errors.New("order response carried no order id")
	// ErrNoURL is returned when a link endpoint yields no URL.
	ErrNoURL = errors.New("response carried no url")
)

// accepted turns a 2xx envelope with success=false into an error.
func accepted(method, path string, env normalize.Node) error {
	if normalize.Succeeded(env) {
		return nil
	}
	return client.Failed(method, path, env)
}

// withMessage attaches a server message (or fallback) to a sentinel.
func withMessage(sentinel error, method, path string, env normalize.Node, fallback string) error {
	apiErr := client.Failed(method, path, env)
	if apiErr.Message == "" {
		apiErr.Message = fallback
	}
	return fmt.Errorf("%w: %w", sentinel, apiErr)
}

func requireID(id string) error {
	if id == "" {
		return common.ErrorNoID
	}
	return nil
}
