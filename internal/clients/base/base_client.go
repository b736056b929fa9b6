package baseclient

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/axalapp/claims-api-service/internal/types"
)

// maxErrorBodyBytes bounds how much of a failed response is kept for the logs
const maxErrorBodyBytes = 512

type BaseClient interface {
	GetBaseURL() string
	GetDefaultRequestTimeout() time.Duration
	GetHttpClient() *http.Client
}

type BaseClientOptions struct {
	Timeout time.Duration
	Path    string
	Headers map[string]string
}

func hasBody(method string) bool {
	switch method {
	case http.MethodPost, http.MethodPut, http.MethodPatch:
		return true
	}
	return false
}

func isAllowedMethod(method string) bool {
	switch method {
	case http.MethodGet, http.MethodDelete, http.MethodOptions:
		return true
	}
	return hasBody(method)
}

// SendRequest performs a JSON request and decodes the JSON response into R.
// The returned error keeps the upstream status: timeouts are 408, transport
// failures 502, upstream answers keep their own code.
func SendRequest[I any, R any](
	ctx context.Context, client BaseClient, method string, opts *BaseClientOptions, input *I,
) (*R, *types.Error) {
	if !isAllowedMethod(method) {
		return nil, types.NewInternalServiceError(fmt.Errorf("method %s is not allowed", method))
	}
	url := strings.TrimSuffix(client.GetBaseURL(), "/") + opts.Path
	timeout := client.GetDefaultRequestTimeout()
	if opts.Timeout != 0 {
		timeout = opts.Timeout
	}
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	var body io.Reader
	if input != nil && hasBody(method) {
		raw, err := json.Marshal(input)
		if err != nil {
			return nil, types.NewInternalServiceError(fmt.Errorf("failed to marshal request body: %w", err))
		}
		body = bytes.NewReader(raw)
	}
	req, err := http.NewRequestWithContext(ctx, method, url, body)
	if err != nil {
		return nil, types.NewInternalServiceError(err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	for key, value := range opts.Headers {
		req.Header.Set(key, value)
	}

	resp, err := client.GetHttpClient().Do(req)
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) {
			return nil, types.NewErrorWithMsg(
				http.StatusRequestTimeout, types.RequestTimeout,
				fmt.Sprintf("request timeout after %s at %s", timeout, url),
			)
		}
		log.Ctx(ctx).Warn().Err(err).Str("url", url).Msg("failed to send request")
		return nil, types.NewErrorWithMsg(
			http.StatusBadGateway, types.ServiceUnavailable, fmt.Sprintf("failed to send request to %s", url),
		)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= http.StatusBadRequest {
		return nil, upstreamError(ctx, url, resp)
	}

	var output R
	if err := json.NewDecoder(resp.Body).Decode(&output); err != nil {
		return nil, types.NewInternalServiceError(fmt.Errorf("failed to decode response from %s: %w", url, err))
	}
	return &output, nil
}

func upstreamError(ctx context.Context, url string, resp *http.Response) *types.Error {
	detail, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBodyBytes))
	log.Ctx(ctx).Debug().Int("status", resp.StatusCode).Str("url", url).
		Bytes("body", detail).Msg("upstream returned an error")

	code := types.BadRequest
	if resp.StatusCode >= http.StatusInternalServerError || resp.StatusCode == http.StatusTooManyRequests {
		code = types.ServiceUnavailable
	}
	return types.NewErrorWithMsg(resp.StatusCode, code, fmt.Sprintf("%s answered %d", url, resp.StatusCode))
}
