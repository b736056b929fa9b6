package model

import (
	"context"
	"errors"
	"fmt"
	"slices"

	"github.com/rs/zerolog/log"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/axalapp/claims-api-service/internal/config"
)

type index struct {
	Name string
	// Ordered keys, the order matters for compound indexes
	Keys   bson.D
	Unique bool
	// Sparse indexes skip documents missing the indexed field
	Sparse bool
}

// collections lists every collection of the engine with its secondary indexes.
// active_claimant and dispute.assertion_ref back the one-active-claim and
// one-dispute-per-assertion guarantees, so a failure to build them is fatal.
var collections = map[string][]index{
	ClaimsCollection: {
		{Name: "active_claimant_unique", Keys: bson.D{{Key: "active_claimant", Value: 1}}, Unique: true, Sparse: true},
		{Name: "assertion_ref_unique", Keys: bson.D{{Key: "dispute.assertion_ref", Value: 1}}, Unique: true, Sparse: true},
		{Name: "claimant_created", Keys: bson.D{{Key: "claimant_address", Value: 1}, {Key: "created_at", Value: -1}}},
		{Name: "state_created", Keys: bson.D{{Key: "state", Value: 1}, {Key: "created_at", Value: 1}}},
	},
	BondEscrowsCollection:      {{Name: "claim_id", Keys: bson.D{{Key: "claim_id", Value: 1}}}},
	BondAccountsCollection:     nil,
	BondDepositsCollection:     {{Name: "address", Keys: bson.D{{Key: "address", Value: 1}}}},
	ClaimEventsCollection:      {{Name: "claim_created", Keys: bson.D{{Key: "claim_id", Value: 1}, {Key: "created_at", Value: 1}}}},
	UnprocessableMsgCollection: nil,
}

// Setup creates the missing collections and their indexes. It is idempotent,
// existing collections and indexes with the same definition are left alone.
func Setup(ctx context.Context, cfg *config.Config) error {
	ctx, cancel := context.WithTimeout(ctx, cfg.Db.ConnectTimeout)
	defer cancel()

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(cfg.Db.Address))
	if err != nil {
		return err
	}
	defer client.Disconnect(context.Background()) // nolint:errcheck

	database := client.Database(cfg.Db.DbName)
	existing, err := database.ListCollectionNames(ctx, bson.D{})
	if err != nil {
		return fmt.Errorf("failed to list collections: %w", err)
	}

	var errs []error
	for name, idxs := range collections {
		if !slices.Contains(existing, name) {
			if err := database.CreateCollection(ctx, name); err != nil {
				errs = append(errs, fmt.Errorf("create collection %s: %w", name, err))
				continue
			}
			log.Ctx(ctx).Debug().Str("collection", name).Msg("collection created")
		}
		if err := createIndexes(ctx, database.Collection(name), idxs); err != nil {
			errs = append(errs, fmt.Errorf("create indexes on %s: %w", name, err))
		}
	}
	if err := errors.Join(errs...); err != nil {
		return err
	}

	log.Ctx(ctx).Info().Int("collections", len(collections)).Msg("collections and indexes are in place")
	return nil
}

func createIndexes(ctx context.Context, coll *mongo.Collection, idxs []index) error {
	if len(idxs) == 0 {
		return nil
	}
	models := make([]mongo.IndexModel, 0, len(idxs))
	for _, idx := range idxs {
		models = append(models, mongo.IndexModel{
			Keys:    idx.Keys,
			Options: options.Index().SetName(idx.Name).SetUnique(idx.Unique).SetSparse(idx.Sparse),
		})
	}
	_, err := coll.Indexes().CreateMany(ctx, models)
	return err
}
