package client

import (
	"context"
	"dash-api/codec"
	"dash-api/protocol"
	"dash-api/transport"
	"errors"

	"github.com/rs/zerolog"
)

// Option configures a Client in New.
type Option func(*Client) error

// BaseURLResolver returns the base URL a call is sent to.
type BaseURLResolver interface {
	ResolveBaseURL(ctx context.Context, call *protocol.Call) (string, error)
}

// StaticBaseURL resolves every call to the same base URL.
type StaticBaseURL string

func (u StaticBaseURL) ResolveBaseURL(context.Context, *protocol.Call) (string, error) {
	return string(u), nil
}

// WithBaseURL sends every call to baseURL.
func WithBaseURL(baseURL string) Option {
	return func(c *Client) error {
		if baseURL == "" {
			return errors.New("client: empty base url")
		}
		c.base = StaticBaseURL(baseURL)
		return nil
	}
}

// WithResolver picks the base URL per call, e.g. from a loadbalance.Resolver.
func WithResolver(r BaseURLResolver) Option {
	return func(c *Client) error {
		if r == nil {
			return errors.New("client: nil resolver")
		}
		c.base = r
		return nil
	}
}

// WithEncoding enables response payload decoding. cfg is copied.
func WithEncoding(cfg codec.Config) Option {
	return func(c *Client) error {
		c.encoding = &cfg
		return nil
	}
}

// WithTokenProvider sets where bearer tokens come from.
func WithTokenProvider(p TokenProvider) Option {
	return func(c *Client) error {
		c.tokens = p
		return nil
	}
}

// WithHTTPClient replaces the pooled *http.Client built by default.
func WithHTTPClient(d transport.Doer) Option {
	return func(c *Client) error {
		if d == nil {
			return errors.New("client: nil http client")
		}
		c.http = d
		return nil
	}
}

// WithLogger sets the logger for debug output of the pipeline.
func WithLogger(logger zerolog.Logger) Option {
	return func(c *Client) error {
		c.logger = logger
		return nil
	}
}
