package utils_test

import (
	"slices"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/axalapp/claims-api-service/internal/types"
	"github.com/axalapp/claims-api-service/internal/utils"
)

var checksumVectors = []string{
	"0x5aAeb6053F3E94C9b9A09f33669435E7Ef1BeAed",
	"0xfB6916095ca1df60bB79Ce92cE3Ea74c37c5d359",
	"0xdbF03B407c01E7cD3CBea99509d93f8DDDC8C6FB",
	"0xD1220A0cf47c7B9Be7A2E6BA89F429762e7b9aDb",
}

func TestToChecksumAddress(t *testing.T) {
	for _, addr := range checksumVectors {
		assert.Equal(t, addr, utils.ToChecksumAddress(strings.ToLower(addr)))
		assert.True(t, utils.IsValidWalletAddress(addr), addr)
	}
}

func TestIsValidWalletAddress(t *testing.T) {
	tests := []struct {
		name    string
		address string
		valid   bool
	}{
		{"lowercase", "0x5aaeb6053f3e94c9b9a09f33669435e7ef1beaed", true},
		{"uppercase", "0x5AAEB6053F3E94C9B9A09F33669435E7EF1BEAED", true},
		{"bad checksum", "0x5aAeb6053F3E94C9b9A09f33669435E7Ef1BeAeD", false},
		{"missing prefix", "5aaeb6053f3e94c9b9a09f33669435e7ef1beaed", false},
		{"too short", "0x5aaeb6053f3e94c9b9a09f33669435e7ef1bea", false},
		{"not hex", "0x5aaeb6053f3e94c9b9a09f33669435e7ef1beazz", false},
		{"empty", "", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.valid, utils.IsValidWalletAddress(tt.address))
		})
	}
}

func TestNormalizeWalletAddress(t *testing.T) {
	assert.Equal(t,
		"0x5aaeb6053f3e94c9b9a09f33669435e7ef1beaed",
		utils.NormalizeWalletAddress("0x5aAeb6053F3E94C9b9A09f33669435E7Ef1BeAed"),
	)
}

func TestIsValidEmail(t *testing.T) {
	assert.True(t, utils.IsValidEmail("alice@example.com"))
	assert.False(t, utils.IsValidEmail("Alice <alice@example.com>"))
	assert.False(t, utils.IsValidEmail("alice@"))
	assert.False(t, utils.IsValidEmail(""))
}

func TestNewClaimID(t *testing.T) {
	now := time.Unix(1700000000, 0)
	first := utils.NewClaimID("0x5aaeb6053f3e94c9b9a09f33669435e7ef1beaed", "Pool D", now)
	second := utils.NewClaimID("0x5aaeb6053f3e94c9b9a09f33669435e7ef1beaed", "Pool D", now)

	assert.True(t, utils.IsValidClaimID(first))
	assert.True(t, utils.IsValidClaimID(second))
	assert.NotEqual(t, first, second)

	assert.False(t, utils.IsValidClaimID(strings.ToUpper(first)))
	assert.False(t, utils.IsValidClaimID(first[:64]))
}

func TestQualifiedStates(t *testing.T) {
	assert.Equal(t, []types.ClaimState{types.Pending}, utils.QualifiedStatesToDisputed())
	assert.Equal(t, []types.ClaimState{types.Pending}, utils.QualifiedStatesToResolved(types.TimeoutSource))
	assert.Equal(t, []types.ClaimState{types.Disputed}, utils.QualifiedStatesToResolved(types.ArbitrationSource))
	assert.Nil(t, utils.QualifiedStatesToResolved("manual"))

	assert.True(t, slices.Contains(utils.ActiveStates, types.Disputed))
	assert.False(t, slices.Contains(utils.ActiveStates, types.Resolved))
}
