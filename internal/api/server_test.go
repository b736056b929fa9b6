package api_test

import (
	"bytes"
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/axalapp/claims-api-service/internal/api"
	"github.com/axalapp/claims-api-service/internal/api/apierror"
	"github.com/axalapp/claims-api-service/internal/api/handlers"
	"github.com/axalapp/claims-api-service/internal/clients/oracle"
	"github.com/axalapp/claims-api-service/internal/config"
	"github.com/axalapp/claims-api-service/internal/db"
	"github.com/axalapp/claims-api-service/internal/lock"
	"github.com/axalapp/claims-api-service/internal/services"
	"github.com/axalapp/claims-api-service/internal/types"
)

const (
	claimant = "0x5aAeb6053F3E94C9b9A09f33669435E7Ef1BeAed"
	disputer = "0x2222222222222222222222222222222222222222"

	callbackSecret = "0123456789abcdef0123456789abcdef"
)

type testServer struct {
	url string
	svc *services.Services
}

func testConfig() *config.Config {
	return &config.Config{
		Server: config.ServerConfig{
			AllowedOrigins:   []string{"*"},
			MaxContentLength: 4096,
			RateLimit:        config.RateLimitConfig{RequestsPerSecond: 100, Burst: 100},
		},
		Db:          config.DbConfig{MaxPaginationLimit: 10},
		Arbitration: config.ArbitrationConfig{Mode: config.ArbitrationModeSimulated, CallbackSecret: callbackSecret},
	}
}

func setupTestServer(t *testing.T, cfg *config.Config) *testServer {
	sim := oracle.NewSimulatedOracle(types.ClaimRejected)
	t.Cleanup(sim.Stop)
	return setupTestServerWithAdapter(t, cfg, sim)
}

func setupTestServerWithAdapter(t *testing.T, cfg *config.Config, adapter oracle.Adapter) *testServer {
	params, err := types.NewBondParams("../../config/bond-params.json")
	require.NoError(t, err)
	pools, err := types.NewPools("../../config/pools.json")
	require.NoError(t, err)

	svc, err := services.New(
		context.Background(), cfg, params, pools, db.NewMemoryDatabase(cfg.Db), adapter, lock.NewLocalLocker(),
	)
	require.NoError(t, err)

	server, err := api.New(context.Background(), cfg, svc)
	require.NoError(t, err)
	ts := httptest.NewServer(server.Handler())
	t.Cleanup(ts.Close)

	return &testServer{url: ts.URL, svc: svc}
}

func (s *testServer) fund(t *testing.T, address string) {
	require.Nil(t, s.svc.DepositBond(context.Background(), uuid.NewString(), address, 5_000_000))
}

func (s *testServer) post(t *testing.T, path string, body interface{}) (int, []byte) {
	raw, err := json.Marshal(body)
	require.NoError(t, err)
	resp, err := http.Post(s.url+path, "application/json", bytes.NewReader(raw))
	require.NoError(t, err)
	defer resp.Body.Close()
	respBody, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return resp.StatusCode, respBody
}

// postCallback posts body to the arbitration webhook with the given signature header
func (s *testServer) postCallback(t *testing.T, body interface{}, signature string) (int, []byte) {
	raw, err := json.Marshal(body)
	require.NoError(t, err)
	req, err := http.NewRequest(http.MethodPost, s.url+"/v1/arbitration/callback", bytes.NewReader(raw))
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/json")
	if signature != "" {
		req.Header.Set(handlers.SignatureHeader, signature)
	}
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()
	respBody, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return resp.StatusCode, respBody
}

func sign(t *testing.T, secret string, body interface{}) string {
	raw, err := json.Marshal(body)
	require.NoError(t, err)
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write(raw)
	return "sha256=" + hex.EncodeToString(mac.Sum(nil))
}

func (s *testServer) signedCallback(t *testing.T, body interface{}) (int, []byte) {
	return s.postCallback(t, body, sign(t, callbackSecret, body))
}

func (s *testServer) get(t *testing.T, path string) (int, []byte) {
	resp, err := http.Get(s.url + path)
	require.NoError(t, err)
	defer resp.Body.Close()
	respBody, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return resp.StatusCode, respBody
}

func decode[T any](t *testing.T, body []byte) T {
	var v T
	require.NoError(t, json.Unmarshal(body, &v), string(body))
	return v
}

func (s *testServer) submit(t *testing.T) handlers.SubmitResponse {
	status, body := s.post(t, "/submit", handlers.SubmitRequestPayload{
		Email: "alice@example.com", UserAddress: claimant,
	})
	require.Equal(t, http.StatusOK, status, string(body))
	return decode[handlers.SubmitResponse](t, body)
}

func TestHealthCheck(t *testing.T) {
	s := setupTestServer(t, testConfig())
	status, body := s.get(t, "/healthcheck")
	assert.Equal(t, http.StatusOK, status)
	assert.Equal(t, "Server is up and running", decode[handlers.PublicResponse[string]](t, body).Data)
}

func TestSubmitPicksHighestYieldPool(t *testing.T) {
	s := setupTestServer(t, testConfig())
	s.fund(t, claimant)

	res := s.submit(t)
	assert.Equal(t, "Claim submitted successfully", res.Message)
	assert.Equal(t, "Pool D", res.PoolName)
	assert.Equal(t, strings.ToLower(claimant), res.UserAddress)
	assert.True(t, strings.HasPrefix(res.ClaimID, "0x"))

	status, body := s.get(t, "/v1/claims/"+res.ClaimID)
	require.Equal(t, http.StatusOK, status)
	claim := decode[handlers.PublicResponse[services.ClaimPublic]](t, body).Data
	assert.Equal(t, types.Pending.ToString(), claim.State)
	assert.Equal(t, int64(1_000_000), claim.BondAmount)
	require.Len(t, claim.Escrows, 1)
	assert.True(t, claim.Escrows[0].Locked)
}

func TestSubmitHidesEngineErrors(t *testing.T) {
	s := setupTestServer(t, testConfig())

	status, body := s.post(t, "/submit", handlers.SubmitRequestPayload{UserAddress: "0x1234"})
	assert.Equal(t, http.StatusBadRequest, status)
	errResp := decode[api.ErrorResponse](t, body)
	assert.Equal(t, types.ValidationError.String(), errResp.ErrorCode)
	assert.Equal(t, "Invalid input, please check the request and try again", errResp.Message)

	// Unfunded claimant
	status, body = s.post(t, "/submit", handlers.SubmitRequestPayload{UserAddress: claimant})
	assert.Equal(t, http.StatusPaymentRequired, status)
	assert.Equal(t, apierror.GenericMessage, decode[api.ErrorResponse](t, body).Message)

	s.fund(t, claimant)
	s.submit(t)
	status, body = s.post(t, "/submit", handlers.SubmitRequestPayload{UserAddress: claimant})
	assert.Equal(t, http.StatusConflict, status)
	assert.Equal(t, apierror.GenericMessage, decode[api.ErrorResponse](t, body).Message)
}

func TestCreateClaimKeepsEngineMessage(t *testing.T) {
	s := setupTestServer(t, testConfig())

	status, body := s.post(t, "/v1/claims", handlers.SubmitClaimRequestPayload{ClaimantAddress: claimant})
	assert.Equal(t, http.StatusPaymentRequired, status)
	errResp := decode[api.ErrorResponse](t, body)
	assert.Equal(t, types.InsufficientFunds.String(), errResp.ErrorCode)
	assert.Equal(t, "insufficient bond balance", errResp.Message)

	s.fund(t, claimant)
	status, body = s.post(t, "/v1/claims", handlers.SubmitClaimRequestPayload{
		ClaimantAddress: claimant, PoolReference: "Pool B",
	})
	require.Equal(t, http.StatusOK, status, string(body))
	assert.Equal(t, "Pool B", decode[handlers.PublicResponse[services.ClaimPublic]](t, body).Data.PoolReference)

	status, body = s.get(t, "/v1/claims?claimant="+claimant)
	require.Equal(t, http.StatusOK, status)
	assert.Len(t, decode[handlers.PublicResponse[[]services.ClaimPublic]](t, body).Data, 1)
}

func TestDisputeAndArbitrationCallback(t *testing.T) {
	s := setupTestServer(t, testConfig())
	s.fund(t, claimant)
	s.fund(t, disputer)
	claim := s.submit(t)

	status, body := s.post(t, "/dispute", handlers.DisputeRequestPayload{ClaimID: claim.ClaimID, WalletAddress: disputer})
	require.Equal(t, http.StatusOK, status, string(body))
	dispute := decode[handlers.DisputeResponse](t, body)
	assert.Equal(t, "Dispute submitted successfully", dispute.Message)
	assert.Equal(t, claim.ClaimID, dispute.ClaimID)
	require.NotEmpty(t, dispute.AssertionRef)

	// A second dispute is rejected without details
	status, body = s.post(t, "/dispute", handlers.DisputeRequestPayload{ClaimID: claim.ClaimID, WalletAddress: disputer})
	assert.Equal(t, http.StatusConflict, status)
	assert.Equal(t, apierror.GenericMessage, decode[api.ErrorResponse](t, body).Message)

	callback := handlers.ArbitrationCallbackPayload{
		AssertionRef: dispute.AssertionRef, Outcome: types.ClaimRejected.ToString(),
	}
	status, body = s.signedCallback(t, callback)
	require.Equal(t, http.StatusOK, status, string(body))
	assert.True(t, decode[handlers.PublicResponse[handlers.ArbitrationCallbackPublic]](t, body).Data.Applied)

	status, body = s.signedCallback(t, callback)
	require.Equal(t, http.StatusOK, status, string(body))
	assert.False(t, decode[handlers.PublicResponse[handlers.ArbitrationCallbackPublic]](t, body).Data.Applied)

	status, body = s.get(t, "/v1/claims/"+claim.ClaimID)
	require.Equal(t, http.StatusOK, status)
	resolved := decode[handlers.PublicResponse[services.ClaimPublic]](t, body).Data
	assert.Equal(t, types.Resolved.ToString(), resolved.State)
	require.NotNil(t, resolved.Resolution)
	assert.Equal(t, types.ClaimRejected.ToString(), resolved.Resolution.Outcome)

	// Disputer got the counter bond back, the claimant bond went to the treasury
	status, body = s.get(t, "/v1/bond/balance?address="+disputer)
	require.Equal(t, http.StatusOK, status)
	balance := decode[handlers.PublicResponse[services.BondBalancePublic]](t, body).Data
	assert.Equal(t, int64(5_000_000), balance.Available)
	assert.Equal(t, int64(0), balance.Locked)
}

func TestArbitrationCallbackErrors(t *testing.T) {
	s := setupTestServer(t, testConfig())

	status, _ := s.signedCallback(t, handlers.ArbitrationCallbackPayload{
		AssertionRef: "unknown", Outcome: types.ClaimUpheld.ToString(),
	})
	assert.Equal(t, http.StatusNotFound, status)

	status, body := s.signedCallback(t, handlers.ArbitrationCallbackPayload{
		AssertionRef: "unknown", Outcome: "maybe",
	})
	assert.Equal(t, http.StatusBadRequest, status)
	assert.Equal(t, types.ValidationError.String(), decode[api.ErrorResponse](t, body).ErrorCode)
}

func TestSettleBeforeTimeout(t *testing.T) {
	s := setupTestServer(t, testConfig())
	s.fund(t, claimant)
	claim := s.submit(t)

	status, body := s.post(t, fmt.Sprintf("/v1/claims/%s/settle", claim.ClaimID), nil)
	assert.Equal(t, http.StatusConflict, status)
	assert.Equal(t, types.Conflict.String(), decode[api.ErrorResponse](t, body).ErrorCode)

	status, _ = s.get(t, "/v1/claims/0x1234")
	assert.Equal(t, http.StatusBadRequest, status)
}

func TestBondAndPools(t *testing.T) {
	s := setupTestServer(t, testConfig())

	status, body := s.get(t, "/v1/bond/params")
	require.Equal(t, http.StatusOK, status)
	params := decode[handlers.PublicResponse[services.BondParamsPublic]](t, body).Data
	assert.Equal(t, "USDC", params.Token.Symbol)
	assert.Equal(t, "1", params.BondAmountDisplay)

	status, body = s.get(t, "/v1/pools")
	require.Equal(t, http.StatusOK, status)
	assert.Len(t, decode[handlers.PublicResponse[[]types.PoolDetails]](t, body).Data, 5)

	status, _ = s.get(t, "/v1/bond/balance")
	assert.Equal(t, http.StatusBadRequest, status)
}

func TestRateLimitOnWrites(t *testing.T) {
	cfg := testConfig()
	cfg.Server.RateLimit = config.RateLimitConfig{RequestsPerSecond: 0.001, Burst: 2}
	s := setupTestServer(t, cfg)

	payload := handlers.SubmitRequestPayload{UserAddress: "0x1234"}
	for i := 0; i < 2; i++ {
		status, _ := s.post(t, "/submit", payload)
		assert.Equal(t, http.StatusBadRequest, status)
	}
	status, _ := s.post(t, "/submit", payload)
	assert.Equal(t, http.StatusTooManyRequests, status)

	// Reads are not limited
	status, _ = s.get(t, "/v1/pools")
	assert.Equal(t, http.StatusOK, status)
}

func TestContentLengthLimit(t *testing.T) {
	s := setupTestServer(t, testConfig())
	status, _ := s.post(t, "/submit", handlers.SubmitRequestPayload{
		Email: strings.Repeat("a", 5000) + "@example.com", UserAddress: claimant,
	})
	assert.Equal(t, http.StatusRequestEntityTooLarge, status)
}

type downOracle struct{}

func (downOracle) RequestAssertion(context.Context, oracle.AssertionRequest) (string, *types.Error) {
	return "", types.NewReasonError(types.AdapterUnavailable, "oracle gateway down")
}

func TestUnavailableOracleAsksToRetry(t *testing.T) {
	s := setupTestServerWithAdapter(t, testConfig(), downOracle{})
	s.fund(t, claimant)
	s.fund(t, disputer)
	claim := s.submit(t)

	raw, err := json.Marshal(handlers.FileDisputeRequestPayload{DisputerAddress: disputer})
	require.NoError(t, err)
	resp, err := http.Post(s.url+"/v1/claims/"+claim.ClaimID+"/dispute", "application/json", bytes.NewReader(raw))
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusServiceUnavailable, resp.StatusCode)
	assert.Equal(t, "5", resp.Header.Get("Retry-After"))
	var errResp api.ErrorResponse
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&errResp))
	assert.Equal(t, types.ServiceUnavailable.String(), errResp.ErrorCode)
	assert.NotContains(t, errResp.Message, "gateway")
}

func TestUnsignedCallbackCannotDecideDispute(t *testing.T) {
	s := setupTestServer(t, testConfig())
	s.fund(t, claimant)
	s.fund(t, disputer)
	claim := s.submit(t)

	status, body := s.post(t, "/dispute", handlers.DisputeRequestPayload{ClaimID: claim.ClaimID, WalletAddress: disputer})
	require.Equal(t, http.StatusOK, status, string(body))
	dispute := decode[handlers.DisputeResponse](t, body)

	callback := handlers.ArbitrationCallbackPayload{
		AssertionRef: dispute.AssertionRef, Outcome: types.ClaimRejected.ToString(),
	}
	for name, signature := range map[string]string{
		"unsigned":     "",
		"wrong secret": sign(t, "ffffffffffffffffffffffffffffffff", callback),
		"not hex":      "sha256=zz",
		"no prefix":    strings.TrimPrefix(sign(t, callbackSecret, callback), "sha256="),
	} {
		status, body := s.postCallback(t, callback, signature)
		assert.Equal(t, http.StatusUnauthorized, status, name)
		assert.Equal(t, types.Unauthorized.String(), decode[api.ErrorResponse](t, body).ErrorCode, name)
	}

	// A signature over a different body is rejected too
	tampered := sign(t, callbackSecret, handlers.ArbitrationCallbackPayload{
		AssertionRef: dispute.AssertionRef, Outcome: types.ClaimUpheld.ToString(),
	})
	status, _ = s.postCallback(t, callback, tampered)
	assert.Equal(t, http.StatusUnauthorized, status)

	status, body = s.get(t, "/v1/claims/"+claim.ClaimID)
	require.Equal(t, http.StatusOK, status)
	stored := decode[handlers.PublicResponse[services.ClaimPublic]](t, body).Data
	assert.Equal(t, types.Disputed.ToString(), stored.State)
	assert.Nil(t, stored.Resolution)
	require.Len(t, stored.Escrows, 2)
	for _, escrow := range stored.Escrows {
		assert.True(t, escrow.Locked, escrow.Role)
		assert.Empty(t, escrow.ReleasedTo)
	}
}

func TestCallbacksRejectedWithoutSecret(t *testing.T) {
	cfg := testConfig()
	cfg.Arbitration.CallbackSecret = ""
	s := setupTestServer(t, cfg)

	callback := handlers.ArbitrationCallbackPayload{AssertionRef: "unknown", Outcome: types.ClaimUpheld.ToString()}
	status, _ := s.postCallback(t, callback, sign(t, "", callback))
	assert.Equal(t, http.StatusUnauthorized, status)
}
