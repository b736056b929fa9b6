package types

import (
	"encoding/json"
	"fmt"
	"os"
)

type PoolDetails struct {
	PoolName string  `json:"pool_name"`
	APY      float64 `json:"apy"`
	TVL      uint64  `json:"tvl"`
}

type Pools struct {
	Pools []PoolDetails `json:"pools"`
}

func NewPools(filePath string) ([]PoolDetails, error) {
	data, err := os.ReadFile(filePath)
	if err != nil {
		return nil, err
	}

	var pools Pools
	err = json.Unmarshal(data, &pools)
	if err != nil {
		return nil, err
	}

	seen := make(map[string]struct{}, len(pools.Pools))
	for _, p := range pools.Pools {
		if p.PoolName == "" {
			return nil, fmt.Errorf("pool name cannot be empty")
		}
		if _, ok := seen[p.PoolName]; ok {
			return nil, fmt.Errorf("duplicate pool name: %s", p.PoolName)
		}
		seen[p.PoolName] = struct{}{}
	}

	return pools.Pools, nil
}
