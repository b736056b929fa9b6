package handlers

import (
	"net/http"

	"github.com/axalapp/claims-api-service/internal/types"
)

// GetBondParams @Summary Get bond parameters
// @Description Bond token, bond amount, challenge window, claim timeout and treasury
// @Produce json
// @Success 200 {object} PublicResponse[services.BondParamsPublic] "Bond parameters"
// @Router /v1/bond/params [get]
func (h *Handler) GetBondParams(request *http.Request) (*Result, *types.Error) {
	return NewResult(h.services.GetBondParams()), nil
}

// GetBondBalance @Summary Get bond balance
// @Description Available and locked collateral of an address
// @Produce json
// @Param address query string true "Wallet address"
// @Success 200 {object} PublicResponse[services.BondBalancePublic] "Balance"
// @Failure 400 {object} types.Error "Error: Bad Request"
// @Router /v1/bond/balance [get]
func (h *Handler) GetBondBalance(request *http.Request) (*Result, *types.Error) {
	address := request.URL.Query().Get("address")
	if address == "" {
		return nil, types.NewErrorWithMsg(http.StatusBadRequest, types.BadRequest, "address is required")
	}
	balance, err := h.services.GetBondBalance(request.Context(), address)
	if err != nil {
		return nil, err
	}
	return NewResult(balance), nil
}
