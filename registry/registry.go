package registry

import (
	"context"
)

// ServiceInstance is one reachable deployment of the API.
type ServiceInstance struct {
	// URL is the base URL requests are built on, e.g. https://eu1.api.example.com/v1.
	URL     string `json:"url" yaml:"url"`
	Weight  int    `json:"weight" yaml:"weight"` // Weight for load balancing
	Version string `json:"version,omitempty" yaml:"version,omitempty"`
}

type Registry interface {
	Register(ctx context.Context, serviceName string, instance ServiceInstance, ttl int64) error
	Deregister(ctx context.Context, serviceName string, url string) error
	Discover(ctx context.Context, serviceName string) ([]ServiceInstance, error)
	Watch(ctx context.Context, serviceName string) <-chan []ServiceInstance
}
