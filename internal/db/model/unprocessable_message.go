package model

import "github.com/google/uuid"

const UnprocessableMsgCollection = "unprocessable_messages"

// UnprocessableMessageDocument is a queue message that exhausted its retries.
// Receipts are only unique per broker channel so documents are keyed by their own id.
type UnprocessableMessageDocument struct {
	ID          string `bson:"_id"`
	QueueName   string `bson:"queue_name"`
	MessageBody string `bson:"message_body"`
	Receipt     string `bson:"receipt"`
}

func NewUnprocessableMessageDocument(queueName, messageBody, receipt string) *UnprocessableMessageDocument {
	return &UnprocessableMessageDocument{
		ID:          uuid.NewString(),
		QueueName:   queueName,
		MessageBody: messageBody,
		Receipt:     receipt,
	}
}
