package utils

import (
	"encoding/hex"
	"net/mail"
	"regexp"
	"strings"

	"golang.org/x/crypto/sha3"
)

var (
	walletAddressRegex = regexp.MustCompile(`^0x[0-9a-fA-F]{40}$`)
	claimIDRegex       = regexp.MustCompile(`^0x[0-9a-f]{64}$`)
)

// IsValidWalletAddress checks if the provided address is a well formed EVM address.
// All-lowercase and all-uppercase hex are accepted as is, mixed case must carry a
// valid EIP-55 checksum.
func IsValidWalletAddress(address string) bool {
	if !walletAddressRegex.MatchString(address) {
		return false
	}
	body := address[2:]
	if body == strings.ToLower(body) || body == strings.ToUpper(body) {
		return true
	}
	return ToChecksumAddress(address) == address
}

// NormalizeWalletAddress returns the canonical lowercase form used as identity in the store.
func NormalizeWalletAddress(address string) string {
	return "0x" + strings.ToLower(address[2:])
}

// ToChecksumAddress encodes the address with the EIP-55 mixed case checksum.
// The input is expected to pass the format check of IsValidWalletAddress.
func ToChecksumAddress(address string) string {
	lower := strings.ToLower(address[2:])
	hasher := sha3.NewLegacyKeccak256()
	hasher.Write([]byte(lower))
	digest := hex.EncodeToString(hasher.Sum(nil))

	out := []byte(lower)
	for i, c := range out {
		if c >= 'a' && c <= 'f' && digest[i] >= '8' {
			out[i] = c - 32
		}
	}
	return "0x" + string(out)
}

// IsValidClaimID checks if the given string has the shape of a claim id (0x-prefixed keccak digest)
// Note: it does not check whether the claim exists.
func IsValidClaimID(claimID string) bool {
	return claimIDRegex.MatchString(claimID)
}

// IsValidEmail checks if the given string is a single RFC 5322 address without display name
func IsValidEmail(email string) bool {
	addr, err := mail.ParseAddress(email)
	if err != nil {
		return false
	}
	return addr.Address == email
}
