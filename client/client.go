// Package client is the API client: it turns a protocol.Call into an HTTP
// request, runs it once, decodes the (possibly encoded) response body and
// unmarshals it into the caller's type.
//
// Pipeline per call:
//
//	resolve base URL → build URL → bearer token → caller headers → JSON body
//	  → transport.Execute → 2xx check → codec.DecodeIfNeeded → typed decode
package client

import (
	"bytes"
	"context"
	"dash-api/codec"
	"dash-api/protocol"
	"dash-api/transport"
	"errors"
	"io"
	"net/http"

	"github.com/rs/zerolog"
)

// Requester performs one call and decodes the result into out, which must be
// a pointer (or nil to discard the body). Client implements it; middleware
// wraps it.
type Requester interface {
	Do(ctx context.Context, call *protocol.Call, out any) error
}

// NoContent is the result type for endpoints that answer with an empty body.
type NoContent struct{}

// Raw receives the decoded body as is, without JSON decoding. It may be
// empty.
type Raw []byte

// Client is safe for concurrent use. Its configuration cannot change after
// New returns.
type Client struct {
	base     BaseURLResolver
	encoding *codec.Config
	tokens   TokenProvider
	http     transport.Doer
	json     codec.JSONCodec
	logger   zerolog.Logger
}

var _ Requester = (*Client)(nil)

// New builds a Client. A base URL (WithBaseURL or WithResolver) is required.
func New(opts ...Option) (*Client, error) {
	c := &Client{
		logger: zerolog.Nop(),
	}
	for _, opt := range opts {
		if err := opt(c); err != nil {
			return nil, err
		}
	}
	if c.base == nil {
		return nil, errors.New("client: no base url or resolver")
	}
	if c.http == nil {
		c.http = transport.NewHTTPClient(transport.DefaultPoolOptions())
	}
	return c, nil
}

// Encoding returns a copy of the response encoding config, or nil when
// response decoding is off.
func (c *Client) Encoding() *codec.Config {
	if c.encoding == nil {
		return nil
	}
	cfg := *c.encoding
	return &cfg
}

// Do implements Requester.
func (c *Client) Do(ctx context.Context, call *protocol.Call, out any) error {
	req, err := c.newRequest(ctx, call)
	if err != nil {
		return err
	}

	outcome, err := transport.Execute(ctx, c.http, req)
	if err != nil {
		if errors.Is(err, transport.ErrNoResponse) {
			return newError(KindInvalidResponse, err, "%s %s", req.Method, call.Path)
		}
		return newError(KindTransport, err, "%s %s", req.Method, call.Path)
	}

	if !outcome.Success() {
		return &Error{
			Kind:       KindHTTPStatus,
			StatusCode: outcome.StatusCode,
			Body:       outcome.Body,
		}
	}

	body, err := codec.DecodeIfNeeded(outcome.Body, c.encoding)
	if err != nil {
		return newError(KindResponseDecodingFailed, err, "%s %s", req.Method, call.Path)
	}
	c.logger.Debug().
		Str("method", req.Method).
		Str("path", call.Path).
		Int("status", outcome.StatusCode).
		Int("raw_bytes", len(outcome.Body)).
		Int("decoded_bytes", len(body)).
		Msg("Response decoded")

	if out == nil {
		return nil
	}
	switch o := out.(type) {
	case *Raw:
		*o = append((*o)[:0], body...)
		return nil
	case *NoContent:
		if len(body) == 0 {
			return nil
		}
	}
	if err := c.json.Decode(body, out); err != nil {
		return newError(KindDecodingFailed, err, "decode %T", out)
	}
	return nil
}

func (c *Client) newRequest(ctx context.Context, call *protocol.Call) (*http.Request, error) {
	base, err := c.base.ResolveBaseURL(ctx, call)
	if err != nil {
		return nil, newError(KindInvalidURL, err, "resolve base url")
	}
	u, err := protocol.BuildURL(base, call.Path, call.Query)
	if err != nil {
		return nil, newError(KindInvalidURL, err, "build url for %q", call.Path)
	}

	var body io.Reader
	if call.Body != nil {
		payload, err := c.json.Encode(call.Body)
		if err != nil {
			return nil, newError(KindInvalidRequest, err, "encode body")
		}
		body = bytes.NewReader(payload)
	}

	method := call.Method
	if method == "" {
		method = http.MethodGet
	}
	req, err := http.NewRequestWithContext(ctx, method, u.String(), body)
	if err != nil {
		return nil, newError(KindInvalidURL, err, "new request")
	}

	// Authorization goes first so caller headers can override it.
	if c.tokens != nil {
		token, err := c.tokens.AccessToken(ctx)
		if err != nil {
			return nil, newError(KindTransport, err, "access token")
		}
		if token != "" {
			req.Header.Set(protocol.HeaderAuthorization, protocol.Bearer(token))
		}
	}
	for k, v := range call.Header {
		req.Header.Set(k, v)
	}
	if call.Body != nil {
		req.Header.Set(protocol.HeaderContentType, protocol.ContentTypeJSON)
	}
	return req, nil
}

// Request runs call through r and returns the decoded result.
func Request[T any](ctx context.Context, r Requester, call *protocol.Call) (T, error) {
	var out T
	err := r.Do(ctx, call, &out)
	return out, err
}
