package handlers

import (
	"net/http"

	"github.com/axalapp/claims-api-service/internal/types"
)

// GetPools @Summary List monitored pools
// @Produce json
// @Success 200 {object} PublicResponse[[]types.PoolDetails]{array} "Pools"
// @Router /v1/pools [get]
func (h *Handler) GetPools(request *http.Request) (*Result, *types.Error) {
	return NewResult(h.services.GetPools()), nil
}
