package db

import (
	"context"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/axalapp/claims-api-service/internal/db/model"
)

func (db *Database) SaveUnprocessableMessage(ctx context.Context, queueName, messageBody, receipt string) error {
	_, err := db.collection(model.UnprocessableMsgCollection).InsertOne(
		ctx, model.NewUnprocessableMessageDocument(queueName, messageBody, receipt),
	)
	return err
}

// FindUnprocessableMessages returns every stored message grouped by queue
func (db *Database) FindUnprocessableMessages(ctx context.Context) ([]model.UnprocessableMessageDocument, error) {
	client := db.collection(model.UnprocessableMsgCollection)
	opts := options.Find().
		SetSort(bson.D{{Key: "queue_name", Value: 1}}).
		SetBatchSize(int32(db.cfg.DbBatchSizeLimit))

	cursor, err := client.Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var unprocessableMessages []model.UnprocessableMessageDocument
	if err = cursor.All(ctx, &unprocessableMessages); err != nil {
		return nil, err
	}

	return unprocessableMessages, nil
}

func (db *Database) DeleteUnprocessableMessage(ctx context.Context, id string) error {
	res, err := db.collection(model.UnprocessableMsgCollection).DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return err
	}
	if res.DeletedCount == 0 {
		return &NotFoundError{Key: id, Message: "unprocessable message not found"}
	}
	return nil
}
