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
	"github.com/axalapp/claims-api-service/internal/types"
)

func (db *Database) CreateClaim(ctx context.Context, claim *model.ClaimDocument, event *model.ClaimEventDocument) error {
	txnFunc := func(sessCtx mongo.SessionContext) (interface{}, error) {
		_, err := db.collection(model.ClaimsCollection).InsertOne(sessCtx, claim)
		if err != nil {
			if mongo.IsDuplicateKeyError(err) {
				// Return the custom error type so that we can return 4xx errors to client
				return nil, &DuplicateKeyError{
					Key:     claim.ClaimantAddress,
					Message: "Claimant already has an active claim",
				}
			}
			return nil, err
		}

		if err := db.lockFunds(sessCtx, claim.ClaimantAddress, claim.BondAmount); err != nil {
			return nil, err
		}
		escrow := model.NewBondEscrowDocument(
			claim.ClaimID, claim.ClaimantAddress, types.ClaimantRole, claim.BondAmount, claim.CreatedAt,
		)
		if _, err := db.collection(model.BondEscrowsCollection).InsertOne(sessCtx, escrow); err != nil {
			return nil, err
		}
		if _, err := db.collection(model.ClaimEventsCollection).InsertOne(sessCtx, event); err != nil {
			return nil, err
		}
		return nil, nil
	}

	_, err := TxWithRetries(ctx, db.txClient(), txnFunc)
	return err
}

// FindClaimByID returns a NotFoundError if the claim does not exist
func (db *Database) FindClaimByID(ctx context.Context, claimID string) (*model.ClaimDocument, error) {
	return db.findOneClaim(ctx, bson.M{"_id": claimID}, claimID)
}

func (db *Database) FindClaimByAssertionRef(ctx context.Context, assertionRef string) (*model.ClaimDocument, error) {
	return db.findOneClaim(ctx, bson.M{"dispute.assertion_ref": assertionRef}, assertionRef)
}

func (db *Database) FindActiveClaimByClaimant(ctx context.Context, claimantAddress string) (*model.ClaimDocument, error) {
	return db.findOneClaim(ctx, bson.M{"active_claimant": claimantAddress}, claimantAddress)
}

func (db *Database) findOneClaim(ctx context.Context, filter bson.M, key string) (*model.ClaimDocument, error) {
	var claim model.ClaimDocument
	err := db.collection(model.ClaimsCollection).FindOne(ctx, filter).Decode(&claim)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, &NotFoundError{
				Key:     key,
				Message: "Claim not found",
			}
		}
		return nil, err
	}
	return &claim, nil
}

func (db *Database) FindClaimsByClaimant(
	ctx context.Context, claimantAddress string, paginationToken string,
) (*DbResultMap[model.ClaimDocument], error) {
	client := db.collection(model.ClaimsCollection)

	filter := bson.M{"claimant_address": claimantAddress}
	options := options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}, {Key: "_id", Value: 1}})
	options.SetLimit(db.cfg.MaxPaginationLimit)

	// Decode the pagination token first if it exist
	if paginationToken != "" {
		decodedToken, err := model.DecodePaginationToken[model.ClaimsByClaimantPagination](paginationToken)
		if err != nil {
			return nil, &InvalidPaginationTokenError{
				Message: "Invalid pagination token",
			}
		}
		filter = bson.M{
			"claimant_address": claimantAddress,
			"$or": []bson.M{
				{"created_at": bson.M{"$lt": decodedToken.CreatedAt}},
				{"created_at": decodedToken.CreatedAt, "_id": bson.M{"$gt": decodedToken.ClaimID}},
			},
		}
	}

	cursor, err := client.Find(ctx, filter, options)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var claims []model.ClaimDocument
	if err = cursor.All(ctx, &claims); err != nil {
		return nil, err
	}

	return toResultMapWithPaginationToken(db.cfg, claims, model.BuildClaimsByClaimantPaginationToken)
}

// FindMaturedPendingClaims returns the oldest undisputed claims created at or before the given time
func (db *Database) FindMaturedPendingClaims(
	ctx context.Context, createdBefore time.Time, limit int64,
) ([]model.ClaimDocument, error) {
	client := db.collection(model.ClaimsCollection)
	filter := bson.M{
		"state":      types.Pending,
		"created_at": bson.M{"$lte": createdBefore},
	}
	options := options.Find().SetSort(bson.D{{Key: "created_at", Value: 1}}).SetLimit(limit)

	cursor, err := client.Find(ctx, filter, options)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var claims []model.ClaimDocument
	if err = cursor.All(ctx, &claims); err != nil {
		return nil, err
	}
	return claims, nil
}

func (db *Database) AttachDispute(
	ctx context.Context, claimID string, dispute *model.DisputeDocument, event *model.ClaimEventDocument,
) error {
	txnFunc := func(sessCtx mongo.SessionContext) (interface{}, error) {
		filter := bson.M{
			"_id":     claimID,
			"state":   types.Pending,
			"dispute": bson.M{"$exists": false},
		}
		update := bson.M{"$set": bson.M{"state": types.Disputed, "dispute": dispute}}
		res, err := db.collection(model.ClaimsCollection).UpdateOne(sessCtx, filter, update)
		if err != nil {
			if mongo.IsDuplicateKeyError(err) {
				return nil, &DuplicateKeyError{
					Key:     dispute.AssertionRef,
					Message: "Assertion already attached to another claim",
				}
			}
			return nil, err
		}
		if res.MatchedCount == 0 {
			return nil, &NotFoundError{
				Key:     claimID,
				Message: "Claim not found or not in eligible state to transition",
			}
		}

		if err := db.lockFunds(sessCtx, dispute.DisputerAddress, dispute.CounterBondAmount); err != nil {
			return nil, err
		}
		escrow := model.NewBondEscrowDocument(
			claimID, dispute.DisputerAddress, types.DisputerRole, dispute.CounterBondAmount, dispute.SubmittedAt,
		)
		if _, err := db.collection(model.BondEscrowsCollection).InsertOne(sessCtx, escrow); err != nil {
			return nil, err
		}
		if _, err := db.collection(model.ClaimEventsCollection).InsertOne(sessCtx, event); err != nil {
			return nil, err
		}
		return nil, nil
	}

	_, err := TxWithRetries(ctx, db.txClient(), txnFunc)
	return err
}

// ResolveClaim transitions the claim to resolved and settles its escrows.
// It returns an NotFoundError if the claim is not found or not in the eligible state to transition
func (db *Database) ResolveClaim(
	ctx context.Context, claimID string, eligiblePreviousStates []types.ClaimState,
	resolution *model.ResolutionDocument, releases []model.EscrowRelease, event *model.ClaimEventDocument,
) error {
	txnFunc := func(sessCtx mongo.SessionContext) (interface{}, error) {
		filter := bson.M{"_id": claimID, "state": bson.M{"$in": eligiblePreviousStates}}
		update := bson.M{
			"$set":   bson.M{"state": types.Resolved, "resolution": resolution},
			"$unset": bson.M{"active_claimant": ""},
		}
		res, err := db.collection(model.ClaimsCollection).UpdateOne(sessCtx, filter, update)
		if err != nil {
			return nil, err
		}
		if res.MatchedCount == 0 {
			return nil, &NotFoundError{
				Key:     claimID,
				Message: "Claim not found or not in eligible state to transition",
			}
		}

		for _, release := range releases {
			if err := db.releaseEscrow(sessCtx, release, resolution.ResolvedAt); err != nil {
				return nil, err
			}
		}

		stillLocked, err := db.collection(model.BondEscrowsCollection).CountDocuments(
			sessCtx, bson.M{"claim_id": claimID, "locked": true},
		)
		if err != nil {
			return nil, err
		}
		if stillLocked > 0 {
			return nil, fmt.Errorf("claim %s would be resolved with %d locked escrows", claimID, stillLocked)
		}

		if _, err := db.collection(model.ClaimEventsCollection).InsertOne(sessCtx, event); err != nil {
			return nil, err
		}
		return nil, nil
	}

	_, err := TxWithRetries(ctx, db.txClient(), txnFunc)
	return err
}

func (db *Database) FindClaimEvents(ctx context.Context, claimID string) ([]model.ClaimEventDocument, error) {
	client := db.collection(model.ClaimEventsCollection)
	options := options.Find().SetSort(bson.D{{Key: "created_at", Value: 1}})

	cursor, err := client.Find(ctx, bson.M{"claim_id": claimID}, options)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var events []model.ClaimEventDocument
	if err = cursor.All(ctx, &events); err != nil {
		return nil, err
	}
	return events, nil
}
