package db

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/axalapp/claims-api-service/internal/db/model"
)

// lockFunds moves amount from available to locked on the address account
func (db *Database) lockFunds(sessCtx mongo.SessionContext, address string, amount int64) error {
	accounts := db.collection(model.BondAccountsCollection)
	filter := bson.M{"_id": address, "available": bson.M{"$gte": amount}}
	update := bson.M{"$inc": bson.M{"available": -amount, "locked": amount}}
	res, err := accounts.UpdateOne(sessCtx, filter, update)
	if err != nil {
		return err
	}
	if res.MatchedCount == 1 {
		return nil
	}

	insufficient := &InsufficientFundsError{Address: address, Required: amount}
	var account model.BondAccountDocument
	err = accounts.FindOne(sessCtx, bson.M{"_id": address}).Decode(&account)
	if err != nil && !errors.Is(err, mongo.ErrNoDocuments) {
		return err
	}
	insufficient.Available = account.Available
	return insufficient
}

// releaseEscrow unlocks a single escrow and credits its amount to the destination.
// An escrow can only ever be released once.
func (db *Database) releaseEscrow(sessCtx mongo.SessionContext, release model.EscrowRelease, at time.Time) error {
	var escrow model.BondEscrowDocument
	filter := bson.M{"_id": release.EscrowID, "locked": true}
	update := bson.M{"$set": bson.M{
		"locked":       false,
		"released_to":  release.ReleasedTo,
		"release_kind": release.Kind,
		"released_at":  at,
	}}
	err := db.collection(model.BondEscrowsCollection).FindOneAndUpdate(sessCtx, filter, update).Decode(&escrow)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return &NotFoundError{
				Key:     release.EscrowID,
				Message: "Escrow not found or already released",
			}
		}
		return err
	}

	accounts := db.collection(model.BondAccountsCollection)
	res, err := accounts.UpdateOne(
		sessCtx,
		bson.M{"_id": escrow.OwnerAddress, "locked": bson.M{"$gte": escrow.Amount}},
		bson.M{"$inc": bson.M{"locked": -escrow.Amount}},
	)
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return fmt.Errorf("locked balance of %s does not cover escrow %s", escrow.OwnerAddress, escrow.EscrowID)
	}

	_, err = accounts.UpdateOne(
		sessCtx,
		bson.M{"_id": release.ReleasedTo},
		bson.M{"$inc": bson.M{"available": escrow.Amount}, "$setOnInsert": bson.M{"locked": int64(0)}},
		options.Update().SetUpsert(true),
	)
	return err
}

func (db *Database) SaveBondDeposit(ctx context.Context, depositID, address string, amount int64) error {
	txnFunc := func(sessCtx mongo.SessionContext) (interface{}, error) {
		deposit := &model.BondDepositDocument{DepositID: depositID, Address: address, Amount: amount}
		_, err := db.collection(model.BondDepositsCollection).InsertOne(sessCtx, deposit)
		if err != nil {
			if mongo.IsDuplicateKeyError(err) {
				return nil, &DuplicateKeyError{
					Key:     depositID,
					Message: "Deposit already processed",
				}
			}
			return nil, err
		}

		_, err = db.collection(model.BondAccountsCollection).UpdateOne(
			sessCtx,
			bson.M{"_id": address},
			bson.M{"$inc": bson.M{"available": amount}, "$setOnInsert": bson.M{"locked": int64(0)}},
			options.Update().SetUpsert(true),
		)
		return nil, err
	}

	_, err := TxWithRetries(ctx, db.txClient(), txnFunc)
	return err
}

// FindBondAccount returns a NotFoundError for addresses that never held collateral
func (db *Database) FindBondAccount(ctx context.Context, address string) (*model.BondAccountDocument, error) {
	var account model.BondAccountDocument
	err := db.collection(model.BondAccountsCollection).FindOne(ctx, bson.M{"_id": address}).Decode(&account)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, &NotFoundError{
				Key:     address,
				Message: "Bond account not found",
			}
		}
		return nil, err
	}
	return &account, nil
}

func (db *Database) FindEscrowsByClaim(ctx context.Context, claimID string) ([]model.BondEscrowDocument, error) {
	cursor, err := db.collection(model.BondEscrowsCollection).Find(
		ctx, bson.M{"claim_id": claimID}, options.Find().SetSort(bson.D{{Key: "locked_at", Value: 1}}),
	)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var escrows []model.BondEscrowDocument
	if err = cursor.All(ctx, &escrows); err != nil {
		return nil, err
	}
	return escrows, nil
}
