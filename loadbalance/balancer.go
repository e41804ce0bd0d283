// Package loadbalance chooses which API deployment serves a request.
//
// Three strategies are implemented:
//   - RoundRobin:      equal-capacity deployments
//   - WeightedRandom:  deployments of different size
//   - ConsistentHash:  keep the same path on the same deployment (warm caches)
//
// Resolver combines a registry with a Balancer and hands the client a base
// URL per request.
package loadbalance

import "dash-api/registry"

// Balancer is the interface for load balancing strategies.
type Balancer interface {
	// Pick selects one instance for the request identified by key.
	// Called on every request; must be goroutine-safe.
	Pick(key string, instances []registry.ServiceInstance) (*registry.ServiceInstance, error)

	// Name returns the strategy name (for logging/debugging).
	Name() string
}

// New returns the balancer called name, or nil if there is none.
func New(name string) Balancer {
	switch name {
	case "", "round_robin", "RoundRobin":
		return &RoundRobinBalancer{}
	case "weighted_random", "WeightedRandom":
		return &WeightedRandomBalancer{}
	case "consistent_hash", "ConsistentHash":
		return NewConsistentHashBalancer()
	}
	return nil
}
