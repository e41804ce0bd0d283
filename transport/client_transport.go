// Package transport executes HTTP requests for the client: one attempt per
// call, body fully buffered.
//
//	goroutine-1 ──Execute(req A)──┐
//	goroutine-2 ──Execute(req B)──┼──→ shared *http.Client ──→ pooled keep-alive conns ──→ API
//	goroutine-3 ──Execute(req C)──┘
//
// The *http.Client is safe for concurrent use, so every in-flight call shares
// one connection pool without extra locking.
package transport

import (
	"context"
	"dash-api/protocol"
	"io"
	"net/http"

	"github.com/pkg/errors"
)

// ErrNoResponse is returned when a Doer reports success without a response.
var ErrNoResponse = errors.New("transport: no HTTP response")

// Doer sends one HTTP request. *http.Client implements it.
type Doer interface {
	Do(req *http.Request) (*http.Response, error)
}

// Execute sends req through doer once and buffers the whole response body.
// Cancelling ctx aborts the in-flight exchange; the returned error then
// matches ctx.Err() under errors.Is.
func Execute(ctx context.Context, doer Doer, req *http.Request) (*protocol.Outcome, error) {
	resp, err := doer.Do(req.WithContext(ctx))
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return nil, errors.Wrap(ctxErr, err.Error())
		}
		return nil, errors.Wrapf(err, "%s %s", req.Method, req.URL.Redacted())
	}
	if resp == nil {
		return nil, ErrNoResponse
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return nil, errors.Wrap(ctxErr, err.Error())
		}
		return nil, errors.Wrap(err, "read response body")
	}

	return &protocol.Outcome{
		StatusCode: resp.StatusCode,
		Header:     resp.Header,
		Body:       body,
	}, nil
}
