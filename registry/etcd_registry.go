// Package registry discovers API deployments.
//
// The etcd implementation keeps one key per deployment:
//
//	Key:   /dash-api/{ServiceName}/{escaped base URL}
//	Value: JSON-encoded ServiceInstance
//
// Registrations carry a TTL lease, so a deployment that stops renewing it
// disappears from discovery on its own.
package registry

import (
	"context"
	"encoding/json"
	"net/url"
	"time"

	"github.com/pkg/errors"
	clientv3 "go.etcd.io/etcd/client/v3"
)

const keyPrefix = "/dash-api/"

// EtcdRegistry implements Registry on etcd v3.
type EtcdRegistry struct {
	client *clientv3.Client // thread-safe, shared across goroutines
}

// NewEtcdRegistry connects to the given etcd endpoints.
func NewEtcdRegistry(endpoints []string, dialTimeout time.Duration) (*EtcdRegistry, error) {
	c, err := clientv3.New(clientv3.Config{
		Endpoints:   endpoints,
		DialTimeout: dialTimeout,
	})
	if err != nil {
		return nil, errors.Wrap(err, "connect etcd")
	}
	return &EtcdRegistry{client: c}, nil
}

// Close releases the etcd connection.
func (r *EtcdRegistry) Close() error {
	return r.client.Close()
}

func servicePrefix(serviceName string) string {
	return keyPrefix + serviceName + "/"
}

func instanceKey(serviceName, baseURL string) string {
	return servicePrefix(serviceName) + url.PathEscape(baseURL)
}

// Register stores instance under a lease of ttl seconds and keeps the lease
// alive until ctx is done.
//
// leaseID stays a local: one EtcdRegistry may register several instances
// concurrently.
func (r *EtcdRegistry) Register(ctx context.Context, serviceName string, instance ServiceInstance, ttl int64) error {
	lease, err := r.client.Grant(ctx, ttl)
	if err != nil {
		return errors.Wrap(err, "grant lease")
	}

	val, err := json.Marshal(instance)
	if err != nil {
		return err
	}

	_, err = r.client.Put(ctx, instanceKey(serviceName, instance.URL), string(val), clientv3.WithLease(lease.ID))
	if err != nil {
		return errors.Wrapf(err, "put %s", instance.URL)
	}

	ch, err := r.client.KeepAlive(ctx, lease.ID)
	if err != nil {
		return errors.Wrap(err, "keep lease alive")
	}

	// Drain keep-alive responses so the channel never fills up.
	go func() {
		for range ch {
		}
	}()
	return nil
}

// Deregister removes the instance with the given base URL.
func (r *EtcdRegistry) Deregister(ctx context.Context, serviceName string, baseURL string) error {
	_, err := r.client.Delete(ctx, instanceKey(serviceName, baseURL))
	return errors.Wrapf(err, "delete %s", baseURL)
}

// Watch emits the full instance list every time the service prefix changes,
// until ctx is done.
func (r *EtcdRegistry) Watch(ctx context.Context, serviceName string) <-chan []ServiceInstance {
	ch := make(chan []ServiceInstance, 1)

	go func() {
		defer close(ch)
		watchChan := r.client.Watch(ctx, servicePrefix(serviceName), clientv3.WithPrefix())
		for range watchChan {
			// Re-read the whole list; simpler than applying individual events.
			instances, err := r.Discover(ctx, serviceName)
			if err != nil {
				continue
			}
			select {
			case ch <- instances:
			case <-ctx.Done():
				return
			}
		}
	}()

	return ch
}

// Discover returns every instance currently registered for serviceName.
func (r *EtcdRegistry) Discover(ctx context.Context, serviceName string) ([]ServiceInstance, error) {
	resp, err := r.client.Get(ctx, servicePrefix(serviceName), clientv3.WithPrefix())
	if err != nil {
		return nil, errors.Wrapf(err, "discover %s", serviceName)
	}

	instances := make([]ServiceInstance, 0, len(resp.Kvs))
	for _, kv := range resp.Kvs {
		var instance ServiceInstance
		if err := json.Unmarshal(kv.Value, &instance); err != nil {
			continue // Skip malformed entries
		}
		instances = append(instances, instance)
	}

	return instances, nil
}
