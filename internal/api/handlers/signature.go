package handlers

import (
	"bytes"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"io"
	"net/http"
	"strings"

	"github.com/axalapp/claims-api-service/internal/types"
)

// SignatureHeader carries "sha256=<hex HMAC-SHA256 of the raw body>"
const SignatureHeader = "X-Signature"

const signaturePrefix = "sha256="

// verifySignedBody reads the whole body and checks it against the signature
// header. The body is put back so it can be decoded afterwards.
func verifySignedBody(request *http.Request, secret string) *types.Error {
	raw, err := io.ReadAll(request.Body)
	if err != nil {
		var maxBytesErr *http.MaxBytesError
		if errors.As(err, &maxBytesErr) {
			return types.NewErrorWithMsg(http.StatusRequestEntityTooLarge, types.BadRequest, "request payload too large")
		}
		return types.NewErrorWithMsg(http.StatusBadRequest, types.BadRequest, "unreadable request payload")
	}
	request.Body = io.NopCloser(bytes.NewReader(raw))

	if !validSignature(secret, raw, request.Header.Get(SignatureHeader)) {
		return types.NewReasonError(types.InvalidSignature, "missing or invalid request signature")
	}
	return nil
}

func validSignature(secret string, body []byte, header string) bool {
	if secret == "" {
		return false
	}
	sigHex, ok := strings.CutPrefix(header, signaturePrefix)
	if !ok {
		return false
	}
	sig, err := hex.DecodeString(sigHex)
	if err != nil {
		return false
	}
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write(body) // nolint:errcheck
	return hmac.Equal(sig, mac.Sum(nil))
}
