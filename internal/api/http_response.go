package api

import (
	"encoding/json"
	"net/http"
	"strconv"

	logger "github.com/rs/zerolog"

	"github.com/axalapp/claims-api-service/internal/api/handlers"
	"github.com/axalapp/claims-api-service/internal/observability/metrics"
	"github.com/axalapp/claims-api-service/internal/types"
)

// retryAfterSeconds is advertised on retryable failures
const retryAfterSeconds = 5

type ErrorResponse struct {
	ErrorCode string `json:"errorCode"`
	Message   string `json:"message"`
}

func (e *ErrorResponse) Error() string {
	return e.Message
}

func newInternalServiceError() *ErrorResponse {
	return &ErrorResponse{
		ErrorCode: types.InternalServiceError.String(),
		Message:   "Internal service error",
	}
}

type handlerFunc func(*http.Request) (*handlers.Result, *types.Error)

func registerHandler(handle handlerFunc) func(http.ResponseWriter, *http.Request) {
	return func(w http.ResponseWriter, r *http.Request) {
		observe := metrics.StartHttpRequestDurationTimer(r.URL.Path)

		result, err := handle(r)
		if err != nil {
			status, body := toErrorResponse(r, err)
			if err.Retryable() || err.ErrorCode == types.ServiceUnavailable {
				w.Header().Set("Retry-After", strconv.Itoa(retryAfterSeconds))
			}
			observe(status)
			writeResponse(w, r, status, body)
			return
		}

		if result == nil || http.StatusText(result.Status) == "" {
			logger.Ctx(r.Context()).Error().Msg("handler returned neither a result nor an error")
			observe(http.StatusInternalServerError)
			writeResponse(w, r, http.StatusInternalServerError, newInternalServiceError())
			return
		}

		observe(result.Status)
		writeResponse(w, r, result.Status, result.Data)
	}
}

// toErrorResponse maps the engine error to what the caller gets to see.
// Server side failures never leak their message.
func toErrorResponse(r *http.Request, err *types.Error) (int, *ErrorResponse) {
	log := logger.Ctx(r.Context())
	status := err.StatusCode
	if http.StatusText(status) == "" {
		log.Error().Err(err).Int("status_code", status).Msg("invalid status code")
		status = http.StatusInternalServerError
	}

	resp := &ErrorResponse{ErrorCode: err.ErrorCode.String(), Message: err.Err.Error()}
	switch {
	case err.ErrorCode == types.ServiceUnavailable:
		log.Warn().Err(err).Str("reason", err.Reason.String()).Msg("request failed with a retryable error")
		resp.Message = "Service temporarily unavailable, please try again later"
	case status >= http.StatusInternalServerError:
		log.Error().Err(err).Msg("request failed with 5xx error")
		resp.Message = "Internal service error"
	default:
		log.Debug().Err(err).Str("reason", err.Reason.String()).Msg("request rejected")
	}
	return status, resp
}

func writeResponse(w http.ResponseWriter, r *http.Request, statusCode int, res any) {
	body, err := json.Marshal(res)
	if err != nil {
		logger.Ctx(r.Context()).Err(err).Msg("failed to marshal response")
		http.Error(w, "Failed to process the request. Please try again later.", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	w.Write(body) // nolint:errcheck
}
