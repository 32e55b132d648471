package client

import (
	"context"
	"io"

	"github.com/dmitrijs2005/cloudshare/internal/client/normalize"
)

// Gateway is the verb-level transport every service builds on. Responses are
// returned as raw envelopes; callers normalize them.
type Gateway interface {
	Get(ctx context.Context, path string) (normalize.Node, error)
	Post(ctx context.Context, path string, body any) (normalize.Node, error)
	Patch(ctx context.Context, path string, body any) (normalize.Node, error)
	Delete(ctx context.Context, path string) (normalize.Node, error)
	Upload(ctx context.Context, path, field string, src Uploadable, onProgress func(percent int)) (normalize.Node, error)
}

// TokenSource yields the current bearer token, or "" when logged out.
type TokenSource interface {
	Token(ctx context.Context) (string, error)
}

// TokenFunc adapts a function to TokenSource.
type TokenFunc func(ctx context.Context) (string, error)

func (f TokenFunc) Token(ctx context.Context) (string, error) { return f(ctx) }

// StaticToken always yields the same token.
func StaticToken(token string) TokenSource {
	return TokenFunc(func(context.Context) (string, error) { return token, nil })
}

// Uploadable is a file that can be streamed as a multipart part.
type Uploadable interface {
	Name() string
	Size() int64
	ContentType() string
	Open() (io.ReadCloser, error)
}
