// Package config loads the dash-api client configuration.
//
// Configuration is read from a single YAML file named by:
//   - the path passed to Load, or
//   - the DASH_API_CONFIG environment variable.
//
// Values of the form ${NAME} in token and response_encoding.key are expanded
// from the environment, so secrets need not live in the file.
package config

import (
	"dash-api/codec"
	"dash-api/loadbalance"
	"dash-api/transport"
	"errors"
	"fmt"
	"net/url"
	"os"
	"time"

	pkgerrors "github.com/pkg/errors"
	"github.com/rs/zerolog"
	"gopkg.in/yaml.v3"
)

// EnvConfig names the environment variable that holds the config file path.
const EnvConfig = "DASH_API_CONFIG"

// Config is the whole client configuration.
type Config struct {
	// BaseURL is the API root, e.g. https://api.example.com/v1. It may be
	// empty when Registry.Endpoints is set.
	BaseURL string `yaml:"base_url"`

	// Token is sent as a bearer token. Empty means no Authorization header.
	Token string `yaml:"token"`

	ResponseEncoding EncodingConfig  `yaml:"response_encoding"`
	Transport        TransportConfig `yaml:"transport"`
	RateLimit        RateLimitConfig `yaml:"rate_limit"`
	Registry         RegistryConfig  `yaml:"registry"`
	Log              LogConfig       `yaml:"log"`
}

// EncodingConfig mirrors codec.Config.
type EncodingConfig struct {
	Enabled bool   `yaml:"enabled"`
	Type    string `yaml:"type"`
	Key     string `yaml:"key"`
}

type TransportConfig struct {
	// Timeout bounds a whole exchange. 0 means none.
	Timeout             time.Duration `yaml:"timeout"`
	MaxIdleConnsPerHost int           `yaml:"max_idle_conns_per_host"`
}

// RateLimitConfig limits outgoing calls. RPS 0 disables the limiter.
type RateLimitConfig struct {
	RPS   float64 `yaml:"rps"`
	Burst int     `yaml:"burst"`
}

// RegistryConfig enables etcd discovery of API deployments.
type RegistryConfig struct {
	Endpoints   []string      `yaml:"endpoints"`
	Service     string        `yaml:"service"`
	DialTimeout time.Duration `yaml:"dial_timeout"`
	// Balancer is one of round_robin, weighted_random, consistent_hash.
	Balancer string `yaml:"balancer"`
}

type LogConfig struct {
	Level   string `yaml:"level"`
	Console bool   `yaml:"console"`
}

// Default returns the configuration every file is merged into.
func Default() *Config {
	return &Config{
		ResponseEncoding: EncodingConfig{
			Type: string(codec.CodecTypeAES),
		},
		Transport: TransportConfig{
			MaxIdleConnsPerHost: transport.DefaultPoolOptions().MaxIdleConnsPerHost,
		},
		Registry: RegistryConfig{
			Service:     "dash-api",
			DialTimeout: 5 * time.Second,
			Balancer:    "round_robin",
		},
		Log: LogConfig{
			Level: zerolog.InfoLevel.String(),
		},
	}
}

// Load reads the config file at path, or at $DASH_API_CONFIG when path is
// empty, and validates it.
func Load(path string) (*Config, error) {
	if path == "" {
		path = os.Getenv(EnvConfig)
	}
	if path == "" {
		return nil, fmt.Errorf("%s environment variable not set; "+
			"set it to the path of your config file, or pass a path", EnvConfig)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, pkgerrors.Wrap(err, "read config")
	}
	cfg, err := Parse(data)
	if err != nil {
		return nil, pkgerrors.WithMessagef(err, "config %s", path)
	}
	return cfg, nil
}

// Parse decodes YAML over Default, expands environment references and
// validates the result.
func Parse(data []byte) (*Config, error) {
	cfg := Default()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, pkgerrors.Wrap(err, "parse yaml")
	}
	cfg.Token = os.ExpandEnv(cfg.Token)
	cfg.ResponseEncoding.Key = os.ExpandEnv(cfg.ResponseEncoding.Key)

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks the configuration for errors. All problems are reported at
// once.
func (c *Config) Validate() error {
	var errs []error

	if c.BaseURL == "" && len(c.Registry.Endpoints) == 0 {
		errs = append(errs, errors.New("base_url is required unless registry.endpoints is set"))
	}
	if c.BaseURL != "" {
		u, err := url.Parse(c.BaseURL)
		if err != nil || u.Scheme == "" || u.Host == "" {
			errs = append(errs, fmt.Errorf("base_url %q is not an absolute url", c.BaseURL))
		}
	}

	if c.ResponseEncoding.Type != "" {
		if _, ok := codec.ParseCodecType(c.ResponseEncoding.Type); !ok {
			errs = append(errs, fmt.Errorf("response_encoding.type must be one of: %v", codec.CodecTypes))
		}
	}

	if c.Transport.Timeout < 0 {
		errs = append(errs, errors.New("transport.timeout must not be negative"))
	}
	if c.RateLimit.RPS < 0 {
		errs = append(errs, errors.New("rate_limit.rps must not be negative"))
	}
	if c.RateLimit.RPS > 0 && c.RateLimit.Burst < 1 {
		errs = append(errs, errors.New("rate_limit.burst must be at least 1"))
	}

	if len(c.Registry.Endpoints) > 0 {
		if c.Registry.Service == "" {
			errs = append(errs, errors.New("registry.service is required"))
		}
		if loadbalance.New(c.Registry.Balancer) == nil {
			errs = append(errs, fmt.Errorf("registry.balancer %q is unknown", c.Registry.Balancer))
		}
	}

	if c.Log.Level != "" {
		if _, err := zerolog.ParseLevel(c.Log.Level); err != nil {
			errs = append(errs, fmt.Errorf("log.level: %v", err))
		}
	}

	return errors.Join(errs...)
}

// Encoding returns the response decoding settings for client.WithEncoding.
func (c *Config) Encoding() codec.Config {
	t, _ := codec.ParseCodecType(c.ResponseEncoding.Type)
	return codec.Config{
		Enabled: c.ResponseEncoding.Enabled,
		Type:    t,
		Key:     c.ResponseEncoding.Key,
	}
}

// PoolOptions returns the connection pool settings for transport.NewHTTPClient.
func (c *Config) PoolOptions() transport.PoolOptions {
	opts := transport.DefaultPoolOptions()
	opts.Timeout = c.Transport.Timeout
	if c.Transport.MaxIdleConnsPerHost > 0 {
		opts.MaxIdleConnsPerHost = c.Transport.MaxIdleConnsPerHost
	}
	return opts
}
