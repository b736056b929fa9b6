package handlers

import (
	"net/http"

	"github.com/go-chi/chi"

	"github.com/axalapp/claims-api-service/internal/types"
)

type SubmitClaimRequestPayload struct {
	ClaimantAddress string `json:"claimant_address"`
	PoolReference   string `json:"pool_reference"`
	NotifyEmail     string `json:"notify_email"`
}

// CreateClaim @Summary Submit a claim
// @Description Registers a monitoring claim and locks the claimant bond.
// @Description Without a pool reference the highest APY pool is monitored.
// @Accept json
// @Produce json
// @Param payload body SubmitClaimRequestPayload true "Claim"
// @Success 200 {object} PublicResponse[services.ClaimPublic] "Created claim"
// @Failure 400 {object} types.Error "Error: Bad Request"
// @Failure 402 {object} types.Error "Error: Insufficient bond"
// @Failure 409 {object} types.Error "Error: Claimant already has an active claim"
// @Router /v1/claims [post]
func (h *Handler) CreateClaim(request *http.Request) (*Result, *types.Error) {
	payload, err := parseRequestPayload[SubmitClaimRequestPayload](request)
	if err != nil {
		return nil, err
	}
	claim, err := h.services.SubmitClaim(
		request.Context(), payload.ClaimantAddress, payload.PoolReference, payload.NotifyEmail,
	)
	if err != nil {
		return nil, err
	}
	return NewResult(claim), nil
}

// GetClaim @Summary Get a claim
// @Description Retrieves a claim with its dispute, resolution and escrows
// @Produce json
// @Param claim_id path string true "Claim id"
// @Success 200 {object} PublicResponse[services.ClaimPublic] "Claim"
// @Failure 400 {object} types.Error "Error: Bad Request"
// @Failure 404 {object} types.Error "Error: Not Found"
// @Router /v1/claims/{claim_id} [get]
func (h *Handler) GetClaim(request *http.Request) (*Result, *types.Error) {
	claim, err := h.services.GetClaim(request.Context(), chi.URLParam(request, "claim_id"))
	if err != nil {
		return nil, err
	}
	return NewResult(claim), nil
}

// GetClaimantClaims @Summary Get claims of a claimant
// @Description Retrieves the claims of a claimant, newest first
// @Produce json
// @Param claimant query string true "Claimant address"
// @Param pagination_key query string false "Pagination key to fetch the next page of claims"
// @Success 200 {object} PublicResponse[[]services.ClaimPublic]{array} "List of claims and pagination token"
// @Failure 400 {object} types.Error "Error: Bad Request"
// @Router /v1/claims [get]
func (h *Handler) GetClaimantClaims(request *http.Request) (*Result, *types.Error) {
	claimant := request.URL.Query().Get("claimant")
	if claimant == "" {
		return nil, types.NewErrorWithMsg(http.StatusBadRequest, types.BadRequest, "claimant is required")
	}
	paginationKey := request.URL.Query().Get("pagination_key")

	claims, nextKey, err := h.services.ClaimsByClaimant(request.Context(), claimant, paginationKey)
	if err != nil {
		return nil, err
	}
	return NewResultWithPagination(claims, nextKey), nil
}

// SettleClaim @Summary Settle a matured claim
// @Description Resolves an undisputed claim as upheld once its timeout elapsed and refunds the bond
// @Produce json
// @Param claim_id path string true "Claim id"
// @Success 200 {object} PublicResponse[services.ClaimPublic] "Resolved claim"
// @Failure 404 {object} types.Error "Error: Not Found"
// @Failure 409 {object} types.Error "Error: Claim not settleable"
// @Router /v1/claims/{claim_id}/settle [post]
func (h *Handler) SettleClaim(request *http.Request) (*Result, *types.Error) {
	claim, err := h.services.Settle(request.Context(), chi.URLParam(request, "claim_id"))
	if err != nil {
		return nil, err
	}
	return NewResult(claim), nil
}
