package client

import "github.com/axalapp/claims-api-service/internal/config"

const (
	AssertionResolvedQueueName = config.AssertionResolvedQueueName
	BondDepositQueueName       = config.BondDepositQueueName
	ClaimNotificationQueueName = config.ClaimNotificationQueueName
)

const (
	AssertionResolvedEventType EventType = 1
	BondDepositEventType       EventType = 2
	ClaimNotificationEventType EventType = 3
)

type EventType int

// AssertionResolvedEvent carries the final outcome of an oracle assertion
type AssertionResolvedEvent struct {
	EventType    EventType `json:"event_type"` // always 1
	AssertionRef string    `json:"assertion_ref"`
	Outcome      string    `json:"outcome"`
	ResolvedAt   int64     `json:"resolved_at"`
}

// BondDepositEvent credits collateral observed on chain to an address
type BondDepositEvent struct {
	EventType EventType `json:"event_type"` // always 2
	DepositID string    `json:"deposit_id"`
	Address   string    `json:"address"`
	Amount    int64     `json:"amount"`
}

type ClaimNotificationEvent struct {
	EventType       EventType `json:"event_type"` // always 3
	ClaimID         string    `json:"claim_id"`
	ClaimantAddress string    `json:"claimant_address"`
	NotifyEmail     string    `json:"notify_email"`
	Kind            string    `json:"kind"`
	Outcome         string    `json:"outcome,omitempty"`
	Source          string    `json:"source,omitempty"`
	Subject         string    `json:"subject"`
	Message         string    `json:"message"`
}

func NewAssertionResolvedEvent(assertionRef, outcome string, resolvedAt int64) AssertionResolvedEvent {
	return AssertionResolvedEvent{
		EventType:    AssertionResolvedEventType,
		AssertionRef: assertionRef,
		Outcome:      outcome,
		ResolvedAt:   resolvedAt,
	}
}

func NewBondDepositEvent(depositID, address string, amount int64) BondDepositEvent {
	return BondDepositEvent{
		EventType: BondDepositEventType,
		DepositID: depositID,
		Address:   address,
		Amount:    amount,
	}
}
