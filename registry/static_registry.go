package registry

import (
	"context"
	"sync"
)

// StaticRegistry keeps instances in memory. It backs configurations that list
// their API deployments explicitly instead of discovering them.
type StaticRegistry struct {
	mu        sync.RWMutex
	instances map[string][]ServiceInstance
	watchers  map[string][]chan []ServiceInstance
}

func NewStaticRegistry() *StaticRegistry {
	return &StaticRegistry{
		instances: make(map[string][]ServiceInstance),
		watchers:  make(map[string][]chan []ServiceInstance),
	}
}

// Register adds or replaces the instance with the same URL. ttl is ignored.
func (s *StaticRegistry) Register(ctx context.Context, serviceName string, instance ServiceInstance, ttl int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	insts := s.instances[serviceName]
	for i := range insts {
		if insts[i].URL == instance.URL {
			insts[i] = instance
			s.notify(serviceName)
			return nil
		}
	}
	s.instances[serviceName] = append(insts, instance)
	s.notify(serviceName)
	return nil
}

func (s *StaticRegistry) Deregister(ctx context.Context, serviceName string, url string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	insts := s.instances[serviceName]
	for i, inst := range insts {
		if inst.URL == url {
			s.instances[serviceName] = append(insts[:i:i], insts[i+1:]...)
			s.notify(serviceName)
			break
		}
	}
	return nil
}

func (s *StaticRegistry) Discover(ctx context.Context, serviceName string) ([]ServiceInstance, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]ServiceInstance(nil), s.instances[serviceName]...), nil
}

// Watch delivers the latest instance list after every change. A slow reader
// only sees the most recent list.
func (s *StaticRegistry) Watch(ctx context.Context, serviceName string) <-chan []ServiceInstance {
	ch := make(chan []ServiceInstance, 1)

	s.mu.Lock()
	s.watchers[serviceName] = append(s.watchers[serviceName], ch)
	s.mu.Unlock()

	go func() {
		<-ctx.Done()
		s.mu.Lock()
		defer s.mu.Unlock()
		ws := s.watchers[serviceName]
		for i, w := range ws {
			if w == ch {
				s.watchers[serviceName] = append(ws[:i:i], ws[i+1:]...)
				break
			}
		}
		close(ch)
	}()
	return ch
}

// notify must be called with mu held.
func (s *StaticRegistry) notify(serviceName string) {
	snapshot := append([]ServiceInstance(nil), s.instances[serviceName]...)
	for _, ch := range s.watchers[serviceName] {
		select {
		case <-ch: // drop the stale list
		default:
		}
		ch <- snapshot
	}
}
