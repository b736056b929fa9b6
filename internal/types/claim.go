package types

import "fmt"

type ClaimState string

const (
	Pending  ClaimState = "pending"
	Disputed ClaimState = "disputed"
	Resolved ClaimState = "resolved"
)

func (s ClaimState) ToString() string {
	return string(s)
}

func (s ClaimState) IsTerminal() bool {
	return s == Resolved
}

func FromStringToClaimState(s string) (ClaimState, error) {
	switch s {
	case "pending":
		return Pending, nil
	case "disputed":
		return Disputed, nil
	case "resolved":
		return Resolved, nil
	default:
		return "", fmt.Errorf("invalid claim state: %s", s)
	}
}

type Outcome string

const (
	ClaimUpheld   Outcome = "claim_upheld"
	ClaimRejected Outcome = "claim_rejected"
)

func (o Outcome) ToString() string {
	return string(o)
}

func OutcomeFromString(s string) (Outcome, error) {
	switch s {
	case ClaimUpheld.ToString():
		return ClaimUpheld, nil
	case ClaimRejected.ToString():
		return ClaimRejected, nil
	default:
		return "", fmt.Errorf("unknown outcome: %s", s)
	}
}

type ResolutionSource string

const (
	TimeoutSource     ResolutionSource = "timeout"
	ArbitrationSource ResolutionSource = "arbitration"
)

func (s ResolutionSource) ToString() string {
	return string(s)
}

type EscrowRole string

const (
	ClaimantRole EscrowRole = "claimant"
	DisputerRole EscrowRole = "disputer"
)

func (r EscrowRole) ToString() string {
	return string(r)
}

type ReleaseKind string

const (
	Refund  ReleaseKind = "refund"
	Forfeit ReleaseKind = "forfeit"
)

func (k ReleaseKind) ToString() string {
	return string(k)
}

type ClaimEventType string

const (
	ClaimCreatedEvent  ClaimEventType = "claim_created"
	ClaimDisputedEvent ClaimEventType = "claim_disputed"
	ClaimResolvedEvent ClaimEventType = "claim_resolved"
)

func (t ClaimEventType) ToString() string {
	return string(t)
}
