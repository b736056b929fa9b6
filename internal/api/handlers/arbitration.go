package handlers

import (
	"net/http"

	"github.com/rs/zerolog/log"

	"github.com/axalapp/claims-api-service/internal/types"
)

type ArbitrationCallbackPayload struct {
	AssertionRef string `json:"assertion_ref"`
	Outcome      string `json:"outcome"`
}

type ArbitrationCallbackPublic struct {
	AssertionRef string `json:"assertion_ref"`
	Applied      bool   `json:"applied"`
}

// ArbitrationCallback @Summary Deliver an arbitration outcome
// @Description Webhook for the oracle gateway, signed with the shared callback secret.
// @Description Redelivery of an applied outcome returns applied=false.
// @Accept json
// @Produce json
// @Param X-Signature header string true "sha256=<hex HMAC-SHA256 of the body>"
// @Param payload body ArbitrationCallbackPayload true "Outcome"
// @Success 200 {object} PublicResponse[ArbitrationCallbackPublic] "Delivery result"
// @Failure 400 {object} types.Error "Error: Bad Request"
// @Failure 401 {object} types.Error "Error: Unauthorized"
// @Failure 404 {object} types.Error "Error: Unknown assertion"
// @Router /v1/arbitration/callback [post]
func (h *Handler) ArbitrationCallback(request *http.Request) (*Result, *types.Error) {
	if err := verifySignedBody(request, h.config.Arbitration.CallbackSecret); err != nil {
		log.Ctx(request.Context()).Warn().Err(err).Msg("rejected arbitration callback")
		return nil, err
	}
	payload, err := parseRequestPayload[ArbitrationCallbackPayload](request)
	if err != nil {
		return nil, err
	}
	if payload.AssertionRef == "" {
		return nil, types.NewErrorWithMsg(http.StatusBadRequest, types.BadRequest, "assertion_ref is required")
	}
	outcome, parseErr := types.OutcomeFromString(payload.Outcome)
	if parseErr != nil {
		return nil, types.NewReasonError(types.InvalidOutcome, parseErr.Error())
	}

	applied, err := h.services.OnArbitrationResult(request.Context(), payload.AssertionRef, outcome)
	if err != nil {
		return nil, err
	}
	return NewResult(ArbitrationCallbackPublic{AssertionRef: payload.AssertionRef, Applied: applied}), nil
}
