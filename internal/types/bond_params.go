package types

import (
	"encoding/json"
	"fmt"
	"os"
	"regexp"
	"time"

	"github.com/shopspring/decimal"
)

const (
	maxTokenDecimals = 18
	// MaxPeriodSeconds bounds the challenge window and the claim timeout to
	// ten years, far below the time.Duration range
	MaxPeriodSeconds = 10 * 365 * 24 * 60 * 60
)

var hexAddressRegex = regexp.MustCompile(`^0x[0-9a-fA-F]{40}$`)

type BondToken struct {
	Symbol   string `json:"symbol"`
	Address  string `json:"address"`
	Decimals int32  `json:"decimals"`
}

// BondParams are the deployment-time constants of the bonding mechanism.
// They are loaded once at startup and never negotiated at runtime.
type BondParams struct {
	Token                  BondToken `json:"bond_token"`
	BondAmount             string    `json:"bond_amount"`
	ChallengeWindowSeconds uint64    `json:"challenge_window_seconds"`
	ClaimTimeoutSeconds    uint64    `json:"claim_timeout_seconds"`
	TreasuryAddress        string    `json:"treasury_address"`

	bondMinorUnits int64
}

func NewBondParams(filePath string) (*BondParams, error) {
	data, err := os.ReadFile(filePath)
	if err != nil {
		return nil, err
	}

	var params BondParams
	err = json.Unmarshal(data, &params)
	if err != nil {
		return nil, err
	}
	err = params.Validate()
	if err != nil {
		return nil, err
	}

	return &params, nil
}

// Validate the bond params and resolve the bond amount into minor units
func (p *BondParams) Validate() error {
	if p.Token.Symbol == "" {
		return fmt.Errorf("missing bond token symbol")
	}
	if !hexAddressRegex.MatchString(p.Token.Address) {
		return fmt.Errorf("invalid bond token address: %s", p.Token.Address)
	}
	if p.Token.Decimals < 0 || p.Token.Decimals > maxTokenDecimals {
		return fmt.Errorf("bond token decimals must be between 0 and %d", maxTokenDecimals)
	}

	amount, err := decimal.NewFromString(p.BondAmount)
	if err != nil {
		return fmt.Errorf("invalid bond amount: %w", err)
	}
	if !amount.IsPositive() {
		return fmt.Errorf("bond amount should be positive")
	}
	minor := amount.Shift(p.Token.Decimals)
	if !minor.IsInteger() {
		return fmt.Errorf("bond amount %s has more precision than %d decimals", p.BondAmount, p.Token.Decimals)
	}
	if !minor.LessThanOrEqual(decimal.NewFromInt(1<<62)) {
		return fmt.Errorf("bond amount is too large")
	}
	p.bondMinorUnits = minor.IntPart()

	if p.ChallengeWindowSeconds == 0 || p.ChallengeWindowSeconds > MaxPeriodSeconds {
		return fmt.Errorf("challenge window should be between 1 and %d seconds", MaxPeriodSeconds)
	}
	if p.ClaimTimeoutSeconds == 0 || p.ClaimTimeoutSeconds > MaxPeriodSeconds {
		return fmt.Errorf("claim timeout should be between 1 and %d seconds", MaxPeriodSeconds)
	}
	if !hexAddressRegex.MatchString(p.TreasuryAddress) {
		return fmt.Errorf("invalid treasury address: %s", p.TreasuryAddress)
	}
	return nil
}

// BondMinorUnits is the fixed bond every claimant and disputer has to lock.
func (p *BondParams) BondMinorUnits() int64 {
	return p.bondMinorUnits
}

func (p *BondParams) ChallengeWindow() time.Duration {
	return time.Duration(p.ChallengeWindowSeconds) * time.Second
}

func (p *BondParams) ClaimTimeout() time.Duration {
	return time.Duration(p.ClaimTimeoutSeconds) * time.Second
}

// FormatAmount renders minor units in token units, e.g. 1500000 -> "1.5" for 6 decimals.
func (p *BondParams) FormatAmount(minorUnits int64) string {
	return decimal.New(minorUnits, -p.Token.Decimals).String()
}
