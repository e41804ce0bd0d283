package loadbalance

import (
	"context"
	"dash-api/protocol"
	"dash-api/registry"
	"fmt"
	"sync"
)

// Resolver picks a base URL for each call from the instances a registry
// knows about for one service. The instance list is cached; Watch keeps it
// fresh.
type Resolver struct {
	registry registry.Registry
	balancer Balancer
	service  string

	mu        sync.RWMutex
	instances []registry.ServiceInstance
	loaded    bool
}

func NewResolver(reg registry.Registry, bal Balancer, service string) *Resolver {
	if bal == nil {
		bal = &RoundRobinBalancer{}
	}
	return &Resolver{
		registry: reg,
		balancer: bal,
		service:  service,
	}
}

// Watch follows registry changes until ctx is done. It returns immediately.
func (r *Resolver) Watch(ctx context.Context) {
	ch := r.registry.Watch(ctx, r.service)
	go func() {
		for instances := range ch {
			r.set(instances)
		}
	}()
}

func (r *Resolver) set(instances []registry.ServiceInstance) {
	r.mu.Lock()
	r.instances = instances
	r.loaded = true
	r.mu.Unlock()
}

func (r *Resolver) snapshot(ctx context.Context) ([]registry.ServiceInstance, error) {
	r.mu.RLock()
	instances, loaded := r.instances, r.loaded
	r.mu.RUnlock()
	if loaded && len(instances) > 0 {
		return instances, nil
	}

	instances, err := r.registry.Discover(ctx, r.service)
	if err != nil {
		return nil, err
	}
	r.set(instances)
	return instances, nil
}

// ResolveBaseURL returns the base URL of the instance chosen for call. The
// call path is the balancing key.
func (r *Resolver) ResolveBaseURL(ctx context.Context, call *protocol.Call) (string, error) {
	instances, err := r.snapshot(ctx)
	if err != nil {
		return "", err
	}
	inst, err := r.balancer.Pick(call.Path, instances)
	if err != nil {
		return "", fmt.Errorf("resolve %s: %w", r.service, err)
	}
	return inst.URL, nil
}
