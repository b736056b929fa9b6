package model

const (
	BondAccountsCollection = "bond_accounts"
	BondDepositsCollection = "bond_deposits"
)

// BondAccountDocument tracks the collateral of one address. Available funds can
// be locked into escrows, released escrows are credited back to available.
type BondAccountDocument struct {
	Address   string `bson:"_id"`
	Available int64  `bson:"available"`
	Locked    int64  `bson:"locked"`
}

type BondDepositDocument struct {
	DepositID string `bson:"_id"`
	Address   string `bson:"address"`
	Amount    int64  `bson:"amount"`
}
