package loadbalance

import (
	"dash-api/registry"
	"fmt"
	"hash/crc32"
	"sort"
	"strings"
	"sync"
)

// ConsistentHashBalancer maps request keys (paths) to instances on a hash
// ring, so the same path keeps hitting the same deployment until the set of
// deployments changes. Each instance owns replicas virtual nodes.
//
//	Hash Ring:
//	                  0
//	                ╱   ╲
//	         B ●               ● A
//	           │    key ◆──►   │   (clockwise to nearest node → A)
//	         C ●               ● A' (virtual node of A)
//	                ╲   ╱
type ConsistentHashBalancer struct {
	replicas int

	mu        sync.Mutex
	signature string                              // instance set the ring was built from
	ring      []uint32                            // sorted hash values
	nodes     map[uint32]registry.ServiceInstance // hash value → instance
}

// NewConsistentHashBalancer creates a ring with 100 virtual nodes per instance.
func NewConsistentHashBalancer() *ConsistentHashBalancer {
	return &ConsistentHashBalancer{
		replicas: 100,
		nodes:    make(map[uint32]registry.ServiceInstance),
	}
}

// Pick finds the instance responsible for key, rebuilding the ring first if
// instances differ from the last call.
func (b *ConsistentHashBalancer) Pick(key string, instances []registry.ServiceInstance) (*registry.ServiceInstance, error) {
	if len(instances) == 0 {
		return nil, fmt.Errorf("no instances available")
	}

	b.mu.Lock()
	defer b.mu.Unlock()

	if sig := signature(instances); sig != b.signature {
		b.rebuild(instances)
		b.signature = sig
	}

	hash := crc32.ChecksumIEEE([]byte(key))
	idx := sort.Search(len(b.ring), func(i int) bool {
		return b.ring[i] >= hash
	})
	// Wrap around: past the last node means the first one.
	if idx == len(b.ring) {
		idx = 0
	}

	inst := b.nodes[b.ring[idx]]
	return &inst, nil
}

func (b *ConsistentHashBalancer) rebuild(instances []registry.ServiceInstance) {
	b.ring = b.ring[:0]
	b.nodes = make(map[uint32]registry.ServiceInstance, len(instances)*b.replicas)
	for _, instance := range instances {
		for i := 0; i < b.replicas; i++ {
			hash := crc32.ChecksumIEEE([]byte(fmt.Sprintf("%s#%d", instance.URL, i)))
			b.ring = append(b.ring, hash)
			b.nodes[hash] = instance
		}
	}
	sort.Slice(b.ring, func(i, j int) bool {
		return b.ring[i] < b.ring[j]
	})
}

func signature(instances []registry.ServiceInstance) string {
	urls := make([]string, len(instances))
	for i, inst := range instances {
		urls[i] = inst.URL
	}
	sort.Strings(urls)
	return strings.Join(urls, "\n")
}

func (b *ConsistentHashBalancer) Name() string {
	return "ConsistentHash"
}
