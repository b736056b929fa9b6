package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"github.com/axalapp/claims-api-service/internal/config"
	"github.com/axalapp/claims-api-service/internal/services"
	"github.com/axalapp/claims-api-service/internal/types"
)

type Handler struct {
	config   *config.Config
	services *services.Services
}

func New(
	ctx context.Context, cfg *config.Config, services *services.Services,
) (*Handler, error) {
	return &Handler{config: cfg, services: services}, nil
}

type paginationResponse struct {
	NextKey string `json:"next_key"`
}

// PublicResponse is the envelope of every /v1 response
type PublicResponse[T any] struct {
	Data       T                   `json:"data"`
	Pagination *paginationResponse `json:"pagination,omitempty"`
}

// Result is what a handler hands back to the router, Data is written as is
type Result struct {
	Data   any
	Status int
}

func NewResult[T any](data T) *Result {
	return &Result{Data: &PublicResponse[T]{Data: data}, Status: http.StatusOK}
}

// NewResultWithPagination always carries the pagination block, an empty
// next_key means there is no further page
func NewResultWithPagination[T any](data T, pageToken string) *Result {
	return &Result{
		Data:   &PublicResponse[T]{Data: data, Pagination: &paginationResponse{NextKey: pageToken}},
		Status: http.StatusOK,
	}
}

// newRawResult skips the envelope, the form endpoints answer with flat objects
func newRawResult(data any) *Result {
	return &Result{Data: data, Status: http.StatusOK}
}

// parseRequestPayload decodes exactly one JSON object from the body
func parseRequestPayload[T any](request *http.Request) (*T, *types.Error) {
	payload := new(T)
	dec := json.NewDecoder(request.Body)
	if err := dec.Decode(payload); err != nil {
		var maxBytesErr *http.MaxBytesError
		switch {
		case errors.As(err, &maxBytesErr):
			return nil, types.NewErrorWithMsg(http.StatusRequestEntityTooLarge, types.BadRequest, "request payload too large")
		case errors.Is(err, io.EOF):
			return nil, types.NewErrorWithMsg(http.StatusBadRequest, types.BadRequest, "empty request payload")
		default:
			return nil, types.NewErrorWithMsg(http.StatusBadRequest, types.BadRequest, "invalid request payload")
		}
	}
	if dec.More() {
		return nil, types.NewErrorWithMsg(http.StatusBadRequest, types.BadRequest, "unexpected data after request payload")
	}
	return payload, nil
}
