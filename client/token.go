package client

import (
	"context"
)

// TokenProvider supplies the bearer token for a request. It may block (e.g.
// reading a credential store) and is called from many goroutines at once.
// An empty token means the request is sent without Authorization.
type TokenProvider interface {
	AccessToken(ctx context.Context) (string, error)
}

// StaticToken always returns itself.
type StaticToken string

func (t StaticToken) AccessToken(context.Context) (string, error) {
	return string(t), nil
}

// TokenFunc adapts a function to TokenProvider.
type TokenFunc func(ctx context.Context) (string, error)

func (fn TokenFunc) AccessToken(ctx context.Context) (string, error) {
	return fn(ctx)
}
