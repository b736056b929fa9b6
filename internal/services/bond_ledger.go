package services

import (
	"context"
	"net/http"

	"github.com/rs/zerolog/log"

	"github.com/axalapp/claims-api-service/internal/db"
	"github.com/axalapp/claims-api-service/internal/db/model"
	"github.com/axalapp/claims-api-service/internal/types"
	"github.com/axalapp/claims-api-service/internal/utils"
)

type BondTokenPublic struct {
	Symbol   string `json:"symbol"`
	Address  string `json:"address"`
	Decimals int32  `json:"decimals"`
}

type BondParamsPublic struct {
	Token                  BondTokenPublic `json:"bond_token"`
	BondAmount             int64           `json:"bond_amount"`
	BondAmountDisplay      string          `json:"bond_amount_display"`
	ChallengeWindowSeconds uint64          `json:"challenge_window_seconds"`
	ClaimTimeoutSeconds    uint64          `json:"claim_timeout_seconds"`
	TreasuryAddress        string          `json:"treasury_address"`
}

type BondBalancePublic struct {
	Address          string `json:"address"`
	Available        int64  `json:"available"`
	Locked           int64  `json:"locked"`
	AvailableDisplay string `json:"available_display"`
	LockedDisplay    string `json:"locked_display"`
}

func (s *Services) GetBondParams() *BondParamsPublic {
	return &BondParamsPublic{
		Token: BondTokenPublic{
			Symbol:   s.params.Token.Symbol,
			Address:  s.params.Token.Address,
			Decimals: s.params.Token.Decimals,
		},
		BondAmount:             s.params.BondMinorUnits(),
		BondAmountDisplay:      s.params.FormatAmount(s.params.BondMinorUnits()),
		ChallengeWindowSeconds: s.params.ChallengeWindowSeconds,
		ClaimTimeoutSeconds:    s.params.ClaimTimeoutSeconds,
		TreasuryAddress:        s.treasury(),
	}
}

// GetBondBalance returns the collateral held for an address. Unknown addresses
// have an empty balance.
func (s *Services) GetBondBalance(ctx context.Context, address string) (*BondBalancePublic, *types.Error) {
	if !utils.IsValidWalletAddress(address) {
		return nil, types.NewReasonError(types.InvalidAddress, "invalid address")
	}
	normalized := utils.NormalizeWalletAddress(address)

	account, err := s.DbClient.FindBondAccount(ctx, normalized)
	if err != nil {
		if !db.IsNotFoundError(err) {
			log.Ctx(ctx).Error().Err(err).Str("address", normalized).Msg("failed to find bond account")
			return nil, types.NewInternalServiceError(err)
		}
		account = &model.BondAccountDocument{Address: normalized}
	}
	return &BondBalancePublic{
		Address:          normalized,
		Available:        account.Available,
		Locked:           account.Locked,
		AvailableDisplay: s.params.FormatAmount(account.Available),
		LockedDisplay:    s.params.FormatAmount(account.Locked),
	}, nil
}

// DepositBond credits collateral to an address once per deposit id.
// This method tolerate duplicated calls, only the first call will be processed.
func (s *Services) DepositBond(ctx context.Context, depositID, address string, amount int64) *types.Error {
	if depositID == "" {
		return types.NewErrorWithMsg(http.StatusBadRequest, types.ValidationError, "missing deposit id")
	}
	if !utils.IsValidWalletAddress(address) {
		return types.NewReasonError(types.InvalidAddress, "invalid deposit address")
	}
	if amount <= 0 {
		return types.NewErrorWithMsg(http.StatusBadRequest, types.ValidationError, "deposit amount must be positive")
	}

	err := s.DbClient.SaveBondDeposit(ctx, depositID, utils.NormalizeWalletAddress(address), amount)
	if err != nil {
		if db.IsDuplicateKeyError(err) {
			log.Ctx(ctx).Warn().Err(err).Str("depositId", depositID).Msg("Skip the deposit as it was already processed")
			return nil
		}
		log.Ctx(ctx).Error().Err(err).Str("depositId", depositID).Msg("Failed to save bond deposit")
		return types.NewInternalServiceError(err)
	}
	log.Ctx(ctx).Info().Str("depositId", depositID).Str("address", address).Int64("amount", amount).
		Msg("bond deposit credited")
	return nil
}

// checkAvailableBond fails fast when the address cannot lock one bond
func (s *Services) checkAvailableBond(ctx context.Context, address string) *types.Error {
	account, err := s.DbClient.FindBondAccount(ctx, address)
	if err != nil && !db.IsNotFoundError(err) {
		log.Ctx(ctx).Error().Err(err).Str("address", address).Msg("failed to find bond account")
		return types.NewInternalServiceError(err)
	}
	if account == nil || account.Available < s.params.BondMinorUnits() {
		log.Ctx(ctx).Warn().Str("address", address).Msg("insufficient bond balance")
		return types.NewReasonError(types.InsufficientBond, "insufficient bond balance")
	}
	return nil
}

// releasePlan decides where every escrow of the claim goes for the outcome.
// The winner is refunded and the loser's bond is forfeited to the treasury.
func (s *Services) releasePlan(claim *model.ClaimDocument, outcome types.Outcome) []model.EscrowRelease {
	claimantRelease := model.EscrowRelease{
		EscrowID:   model.EscrowID(claim.ClaimID, types.ClaimantRole),
		ReleasedTo: claim.ClaimantAddress,
		Kind:       types.Refund,
	}
	if outcome == types.ClaimRejected {
		claimantRelease.ReleasedTo = s.treasury()
		claimantRelease.Kind = types.Forfeit
	}
	if claim.Dispute == nil {
		return []model.EscrowRelease{claimantRelease}
	}

	disputerRelease := model.EscrowRelease{
		EscrowID:   model.EscrowID(claim.ClaimID, types.DisputerRole),
		ReleasedTo: s.treasury(),
		Kind:       types.Forfeit,
	}
	if outcome == types.ClaimRejected {
		disputerRelease.ReleasedTo = claim.Dispute.DisputerAddress
		disputerRelease.Kind = types.Refund
	}
	return []model.EscrowRelease{claimantRelease, disputerRelease}
}

func (s *Services) treasury() string {
	return utils.NormalizeWalletAddress(s.params.TreasuryAddress)
}
