package oracle

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	baseclient "github.com/axalapp/claims-api-service/internal/clients/base"
	"github.com/axalapp/claims-api-service/internal/config"
	"github.com/axalapp/claims-api-service/internal/types"
)

const (
	assertionsPath = "/v1/assertions"

	IdempotencyKeyHeader = "Idempotency-Key"
)

// assertionKeyNamespace scopes the name based UUIDs used as idempotency keys
var assertionKeyNamespace = uuid.NewSHA1(uuid.NameSpaceURL, []byte("claims-api-service/assertions"))

// AssertionIdempotencyKey is stable for a claim and asserter, so a retried or
// repeated request lets the gateway return the assertion it already created
func AssertionIdempotencyKey(claimID, asserter string) string {
	return uuid.NewSHA1(assertionKeyNamespace, []byte(claimID+"/"+strings.ToLower(asserter))).String()
}

// GatewayClient talks to an HTTP gateway in front of the on-chain optimistic oracle
type GatewayClient struct {
	config     *config.ArbitrationConfig
	httpClient *http.Client
	newBackOff func() backoff.BackOff
}

type assertionRequestBody struct {
	ClaimID         string `json:"claim_id"`
	Claim           string `json:"claim"`
	Asserter        string `json:"asserter"`
	Bond            int64  `json:"bond"`
	Currency        string `json:"currency"`
	LivenessSeconds uint64 `json:"liveness_seconds"`
}

type assertionResponse struct {
	AssertionID string `json:"assertion_id"`
}

func NewGatewayClient(cfg *config.ArbitrationConfig) *GatewayClient {
	httpClient := &http.Client{}
	return &GatewayClient{
		config:     cfg,
		httpClient: httpClient,
		newBackOff: func() backoff.BackOff {
			b := backoff.NewExponentialBackOff()
			b.InitialInterval = 200 * time.Millisecond
			b.MaxInterval = 5 * time.Second
			return backoff.WithMaxRetries(b, cfg.MaxRetries)
		},
	}
}

func (c *GatewayClient) GetBaseURL() string {
	return c.config.BaseURL
}

func (c *GatewayClient) GetDefaultRequestTimeout() time.Duration {
	return c.config.Timeout
}

func (c *GatewayClient) GetHttpClient() *http.Client {
	return c.httpClient
}

func (c *GatewayClient) RequestAssertion(ctx context.Context, req AssertionRequest) (string, *types.Error) {
	body := &assertionRequestBody{
		ClaimID:         req.ClaimID,
		Claim:           req.Claim,
		Asserter:        req.Asserter,
		Bond:            req.Bond,
		Currency:        req.Currency,
		LivenessSeconds: uint64(req.Liveness / time.Second),
	}
	opts := &baseclient.BaseClientOptions{
		Path: assertionsPath,
		Headers: map[string]string{
			"Accept":             "application/json",
			IdempotencyKeyHeader: AssertionIdempotencyKey(req.ClaimID, req.Asserter),
		},
	}

	var assertionID string
	attempt := 0
	operation := func() error {
		attempt++
		resp, err := baseclient.SendRequest[assertionRequestBody, assertionResponse](
			ctx, c, http.MethodPost, opts, body,
		)
		if err != nil {
			if !isTransient(err) {
				return backoff.Permanent(err)
			}
			log.Ctx(ctx).Warn().Err(err).Int("attempt", attempt).Str("claimId", req.ClaimID).
				Msg("assertion request failed, retrying")
			return err
		}
		if resp.AssertionID == "" {
			return backoff.Permanent(types.NewInternalServiceError(
				fmt.Errorf("oracle gateway returned an empty assertion id"),
			))
		}
		assertionID = resp.AssertionID
		return nil
	}

	if err := backoff.Retry(operation, backoff.WithContext(c.newBackOff(), ctx)); err != nil {
		log.Ctx(ctx).Error().Err(err).Str("claimId", req.ClaimID).Msg("oracle gateway unavailable")
		return "", types.NewReasonError(types.AdapterUnavailable, "arbitration adapter unavailable: "+err.Error())
	}
	return assertionID, nil
}

// isTransient reports failures worth another attempt: timeouts, throttling,
// transport errors and 5xx answers.
func isTransient(err *types.Error) bool {
	switch {
	case err.StatusCode >= http.StatusInternalServerError:
		return true
	case err.StatusCode == http.StatusRequestTimeout, err.StatusCode == http.StatusTooManyRequests:
		return true
	default:
		return false
	}
}
