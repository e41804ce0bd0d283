package loadbalance

import (
	"dash-api/registry"
	"fmt"
	"math/rand"
)

// WeightedRandomBalancer picks an instance with probability proportional to
// its weight. Instances with weight <= 0 are never picked unless all are.
type WeightedRandomBalancer struct{}

func (b *WeightedRandomBalancer) Pick(key string, instances []registry.ServiceInstance) (*registry.ServiceInstance, error) {
	if len(instances) == 0 {
		return nil, fmt.Errorf("no instances available")
	}

	totalWeight := 0
	for _, v := range instances {
		if v.Weight > 0 {
			totalWeight += v.Weight
		}
	}
	if totalWeight == 0 {
		return &instances[rand.Intn(len(instances))], nil
	}

	r := rand.Intn(totalWeight)
	for i := range instances {
		if instances[i].Weight <= 0 {
			continue
		}
		r -= instances[i].Weight
		if r < 0 {
			return &instances[i], nil
		}
	}

	return nil, fmt.Errorf("unexpected error in weighted random selection")
}

func (b *WeightedRandomBalancer) Name() string {
	return "WeightedRandom"
}
