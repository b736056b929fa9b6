package handlers

import (
	"net/http"

	"github.com/go-chi/chi"

	"github.com/axalapp/claims-api-service/internal/types"
)

type FileDisputeRequestPayload struct {
	DisputerAddress string `json:"disputer_address"`
}

// FileDispute @Summary Dispute a claim
// @Description Locks the disputer counter bond and escalates the claim to arbitration
// @Accept json
// @Produce json
// @Param claim_id path string true "Claim id"
// @Param payload body FileDisputeRequestPayload true "Disputer"
// @Success 200 {object} PublicResponse[services.DisputePublicResult] "Assertion reference"
// @Failure 400 {object} types.Error "Error: Bad Request"
// @Failure 402 {object} types.Error "Error: Insufficient bond"
// @Failure 404 {object} types.Error "Error: Not Found"
// @Failure 409 {object} types.Error "Error: Claim not disputable"
// @Failure 503 {object} types.Error "Error: Arbitration unavailable, retry later"
// @Router /v1/claims/{claim_id}/dispute [post]
func (h *Handler) FileDispute(request *http.Request) (*Result, *types.Error) {
	payload, err := parseRequestPayload[FileDisputeRequestPayload](request)
	if err != nil {
		return nil, err
	}
	result, err := h.services.FileDispute(
		request.Context(), chi.URLParam(request, "claim_id"), payload.DisputerAddress,
	)
	if err != nil {
		return nil, err
	}
	return NewResult(result), nil
}
