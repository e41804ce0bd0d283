package transport

import (
	"net"
	"net/http"
	"time"
)

// PoolOptions sizes the keep-alive connection pool behind the client.
type PoolOptions struct {
	// MaxIdleConnsPerHost bounds idle connections kept per API host.
	MaxIdleConnsPerHost int
	// IdleConnTimeout closes idle connections after this long.
	IdleConnTimeout time.Duration
	// DialTimeout bounds establishing a new TCP connection.
	DialTimeout time.Duration
	// Timeout bounds a whole exchange. Zero means no limit; callers normally
	// rely on their context instead.
	Timeout time.Duration
}

// DefaultPoolOptions returns the pool settings used when none are given.
func DefaultPoolOptions() PoolOptions {
	return PoolOptions{
		MaxIdleConnsPerHost: 8,
		IdleConnTimeout:     90 * time.Second,
		DialTimeout:         10 * time.Second,
	}
}

// NewHTTPClient builds an *http.Client whose transport pools connections
// according to opts. Zero fields fall back to DefaultPoolOptions.
func NewHTTPClient(opts PoolOptions) *http.Client {
	def := DefaultPoolOptions()
	if opts.MaxIdleConnsPerHost <= 0 {
		opts.MaxIdleConnsPerHost = def.MaxIdleConnsPerHost
	}
	if opts.IdleConnTimeout <= 0 {
		opts.IdleConnTimeout = def.IdleConnTimeout
	}
	if opts.DialTimeout <= 0 {
		opts.DialTimeout = def.DialTimeout
	}

	tr := http.DefaultTransport.(*http.Transport).Clone()
	tr.MaxIdleConnsPerHost = opts.MaxIdleConnsPerHost
	tr.IdleConnTimeout = opts.IdleConnTimeout
	tr.DialContext = (&net.Dialer{
		Timeout:   opts.DialTimeout,
		KeepAlive: 30 * time.Second,
	}).DialContext

	return &http.Client{
		Transport: tr,
		Timeout:   opts.Timeout,
	}
}
