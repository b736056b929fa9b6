package db

import (
	"context"

	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"

	"github.com/axalapp/claims-api-service/internal/config"
)

type Database struct {
	DbName string
	Client *mongo.Client
	cfg    config.DbConfig
}

type DbResultMap[T any] struct {
	Data            []T    `json:"data"`
	PaginationToken string `json:"paginationToken"`
}

func New(ctx context.Context, cfg config.DbConfig) (*Database, error) {
	clientOps := options.Client().
		ApplyURI(cfg.Address).
		SetConnectTimeout(cfg.ConnectTimeout).
		SetServerSelectionTimeout(cfg.ConnectTimeout)
	client, err := mongo.Connect(ctx, clientOps)
	if err != nil {
		return nil, err
	}

	return &Database{
		DbName: cfg.DbName,
		Client: client,
		cfg:    cfg,
	}, nil
}

// Ping checks the primary, claim writes are not possible without it
func (db *Database) Ping(ctx context.Context) error {
	return db.Client.Ping(ctx, readpref.Primary())
}

func (db *Database) collection(name string) *mongo.Collection {
	return db.Client.Database(db.DbName).Collection(name)
}

func (db *Database) txClient() DBTransactionClient {
	return &dbTransactionClient{db.Client}
}

// toResultMapWithPaginationToken sets a next key only when the page is full
func toResultMapWithPaginationToken[T any](
	cfg config.DbConfig, result []T, paginationKeyBuilder func(T) (string, error),
) (*DbResultMap[T], error) {
	resultMap := &DbResultMap[T]{Data: result}
	if len(result) == 0 || int64(len(result)) < cfg.MaxPaginationLimit {
		return resultMap, nil
	}
	token, err := paginationKeyBuilder(result[len(result)-1])
	if err != nil {
		return nil, err
	}
	resultMap.PaginationToken = token
	return resultMap, nil
}
