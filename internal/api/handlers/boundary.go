package handlers

import (
	"net/http"

	"github.com/rs/zerolog/log"

	"github.com/axalapp/claims-api-service/internal/api/apierror"
	"github.com/axalapp/claims-api-service/internal/types"
)

type SubmitRequestPayload struct {
	Email       string `json:"email"`
	UserAddress string `json:"user_address"`
}

type SubmitResponse struct {
	Message     string `json:"message"`
	PoolName    string `json:"pool_name"`
	UserAddress string `json:"user_address"`
	ClaimID     string `json:"claim_id"`
}

type DisputeRequestPayload struct {
	ClaimID       string `json:"claim_id"`
	WalletAddress string `json:"wallet_address"`
}

type DisputeResponse struct {
	Message      string `json:"message"`
	ClaimID      string `json:"claim_id"`
	AssertionRef string `json:"assertion_ref"`
}

// Submit @Summary Submit a claim from the form
// @Description Form entry point. The highest APY pool is monitored and failures carry a generic message.
// @Accept json
// @Produce json
// @Param payload body SubmitRequestPayload true "Submission"
// @Success 200 {object} SubmitResponse "Submitted claim"
// @Failure 400 {object} types.Error "Error: Bad Request"
// @Router /submit [post]
func (h *Handler) Submit(request *http.Request) (*Result, *types.Error) {
	payload, err := parseRequestPayload[SubmitRequestPayload](request)
	if err != nil {
		return nil, apierror.Public(err)
	}
	if payload.UserAddress == "" {
		return nil, apierror.Public(types.NewReasonError(types.InvalidAddress, "user_address is required"))
	}

	claim, err := h.services.SubmitClaim(request.Context(), payload.UserAddress, "", payload.Email)
	if err != nil {
		log.Ctx(request.Context()).Warn().Err(err).Str("reason", err.Reason.String()).Msg("claim submission failed")
		return nil, apierror.Public(err)
	}
	return newRawResult(SubmitResponse{
		Message:     "Claim submitted successfully",
		PoolName:    claim.PoolReference,
		UserAddress: claim.ClaimantAddress,
		ClaimID:     claim.ClaimID,
	}), nil
}

// Dispute @Summary Dispute a claim from the form
// @Description Form entry point for disputes. Failures carry a generic message.
// @Accept json
// @Produce json
// @Param payload body DisputeRequestPayload true "Dispute"
// @Success 200 {object} DisputeResponse "Dispute filed"
// @Failure 400 {object} types.Error "Error: Bad Request"
// @Router /dispute [post]
func (h *Handler) Dispute(request *http.Request) (*Result, *types.Error) {
	payload, err := parseRequestPayload[DisputeRequestPayload](request)
	if err != nil {
		return nil, apierror.Public(err)
	}
	if payload.ClaimID == "" || payload.WalletAddress == "" {
		return nil, apierror.Public(
			types.NewErrorWithMsg(http.StatusBadRequest, types.BadRequest, "missing wallet address or claim id"),
		)
	}

	result, err := h.services.FileDispute(request.Context(), payload.ClaimID, payload.WalletAddress)
	if err != nil {
		log.Ctx(request.Context()).Warn().Err(err).Str("reason", err.Reason.String()).
			Str("claimId", payload.ClaimID).Msg("dispute failed")
		return nil, apierror.Public(err)
	}
	return newRawResult(DisputeResponse{
		Message:      "Dispute submitted successfully",
		ClaimID:      result.ClaimID,
		AssertionRef: result.AssertionRef,
	}), nil
}
