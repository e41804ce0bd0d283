package main

import (
	"context"
	"dash-api/client"
	"dash-api/config"
	"dash-api/loadbalance"
	"dash-api/middleware"
	"dash-api/registry"
	"dash-api/transport"
	"dash-api/zlog"
	"fmt"
	"os"

	"github.com/rs/zerolog"
)

// loadConfig reads the config file. Without one, --base-url alone is enough.
func loadConfig(opts *options) (*config.Config, error) {
	var cfg *config.Config
	if opts.configPath == "" && os.Getenv(config.EnvConfig) == "" {
		cfg = config.Default()
		// a one-off CLI call should not log every request unless asked to
		cfg.Log.Level = zerolog.WarnLevel.String()
	} else {
		var err error
		if cfg, err = config.Load(opts.configPath); err != nil {
			return nil, err
		}
	}

	if opts.baseURL != "" {
		cfg.BaseURL = opts.baseURL
	}
	if opts.logLevel != "" {
		cfg.Log.Level = opts.logLevel
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func newRegistry(cfg *config.Config) (*registry.EtcdRegistry, error) {
	if len(cfg.Registry.Endpoints) == 0 {
		return nil, fmt.Errorf("registry.endpoints is not configured")
	}
	return registry.NewEtcdRegistry(cfg.Registry.Endpoints, cfg.Registry.DialTimeout)
}

// newRequester assembles logging → rate limit → client. Deployments come
// from etcd when the config has registry endpoints, otherwise from base_url.
// The returned func releases the registry connection.
func newRequester(ctx context.Context, cfg *config.Config, logger zerolog.Logger) (client.Requester, func(), error) {
	cleanup := func() {}

	opts := []client.Option{
		client.WithEncoding(cfg.Encoding()),
		client.WithHTTPClient(transport.NewHTTPClient(cfg.PoolOptions())),
		client.WithLogger(logger),
	}
	if cfg.Token != "" {
		opts = append(opts, client.WithTokenProvider(client.StaticToken(cfg.Token)))
	}

	if len(cfg.Registry.Endpoints) > 0 && cfg.BaseURL == "" {
		reg, err := newRegistry(cfg)
		if err != nil {
			return nil, nil, err
		}
		cleanup = func() { reg.Close() }

		resolver := loadbalance.NewResolver(reg, loadbalance.New(cfg.Registry.Balancer), cfg.Registry.Service)
		resolver.Watch(ctx)
		opts = append(opts, client.WithResolver(resolver))
	} else {
		opts = append(opts, client.WithBaseURL(cfg.BaseURL))
	}

	c, err := client.New(opts...)
	if err != nil {
		cleanup()
		return nil, nil, err
	}

	mws := []middleware.Middleware{middleware.LoggingMiddleware(logger)}
	if cfg.RateLimit.RPS > 0 {
		mws = append(mws, middleware.RateLimitMiddleware(cfg.RateLimit.RPS, cfg.RateLimit.Burst))
	}
	return middleware.Wrap(c, mws...), cleanup, nil
}

func newLogger(cfg *config.Config) (zerolog.Logger, error) {
	return zlog.FromConfig(cfg.Log.Level, cfg.Log.Console)
}
