package services

import "github.com/axalapp/claims-api-service/internal/types"

func (s *Services) GetPools() []types.PoolDetails {
	return s.pools
}

// HighestAPYPool returns the pool claims monitor by default, nil without pools
func (s *Services) HighestAPYPool() *types.PoolDetails {
	var best *types.PoolDetails
	for i := range s.pools {
		if best == nil || s.pools[i].APY > best.APY {
			best = &s.pools[i]
		}
	}
	return best
}
