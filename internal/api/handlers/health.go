package handlers

import (
	"net/http"

	"github.com/rs/zerolog/log"

	"github.com/axalapp/claims-api-service/internal/types"
)

// HealthCheck @Summary Health check endpoint
// @Description Pings the claims store
// @Produce json
// @Success 200 {string} PublicResponse[string] "Server is up and running"
// @Failure 503 {object} types.Error "Error: Service Unavailable"
// @Router /healthcheck [get]
func (h *Handler) HealthCheck(request *http.Request) (*Result, *types.Error) {
	if err := h.services.DoHealthCheck(request.Context()); err != nil {
		log.Ctx(request.Context()).Error().Err(err).Msg("claims store is unreachable")
		return nil, types.NewError(http.StatusServiceUnavailable, types.ServiceUnavailable, err)
	}
	return NewResult("Server is up and running"), nil
}
