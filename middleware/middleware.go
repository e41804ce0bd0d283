package middleware

import (
	"context"
	"dash-api/client"
	"dash-api/protocol"
)

// HandlerFunc is a function form of client.Requester.
type HandlerFunc func(ctx context.Context, call *protocol.Call, out any) error

// Do implements client.Requester.
func (f HandlerFunc) Do(ctx context.Context, call *protocol.Call, out any) error {
	return f(ctx, call, out)
}

type Middleware func(next HandlerFunc) HandlerFunc

// Chain combines middlewares into one; the first one is the outermost.
func Chain(middlewares ...Middleware) Middleware {
	return func(next HandlerFunc) HandlerFunc {
		for i := len(middlewares) - 1; i >= 0; i-- {
			next = middlewares[i](next)
		}
		return next
	}
}

// Wrap decorates r with middlewares. The result has the same contract as r.
func Wrap(r client.Requester, middlewares ...Middleware) client.Requester {
	return Chain(middlewares...)(r.Do)
}
