package entities

import (
	"time"

	"github.com/volatiletech/null/v8"
)

// EscrowState tracks the escrow lifecycle. Exhausted and expired are
// terminal; expiry is evaluated lazily when the escrow is read.
type EscrowState string

const (
	EscrowStateActive    EscrowState = "active"
	EscrowStateExhausted EscrowState = "exhausted"
	EscrowStateExpired   EscrowState = "expired"
)

// EscrowConditions describe how evidence is matched on release
type EscrowConditions struct {
	Type      string `json:"type"`
	Count     int    `json:"count"`
	RefPrefix string `json:"ref_prefix"`
}

// DefaultEscrowConditions returns the minimal proof convention
func DefaultEscrowConditions() EscrowConditions {
	return EscrowConditions{Type: "any_of_proofs", Count: 1, RefPrefix: "por:"}
}

// Escrow locks payer funds pending evidence-gated partial releases to the
// payee. Balance only ever decreases and never exceeds the locked amount.
type Escrow struct {
	EscrowID      string           `json:"escrow_id"`
	Payer         string           `json:"payer"`
	Payee         string           `json:"payee"`
	AmountMicros  int64            `json:"amount_micros"`
	BalanceMicros int64            `json:"balance_micros"`
	Conditions    EscrowConditions `json:"conditions"`
	State         EscrowState      `json:"state"`
	PayerSig      null.String      `json:"payer_sig,omitempty"`
	ExpiresAt     time.Time        `json:"expires_at"`
	CreatedAt     time.Time        `json:"created_at"`
}

// CreateEscrowInput represents input for locking escrow funds
type CreateEscrowInput struct {
	Payer        string            `json:"payer" binding:"required"`
	Payee        string            `json:"payee" binding:"required"`
	AmountMicros int64             `json:"amount_micros" binding:"required,gt=0"`
	Conditions   *EscrowConditions `json:"conditions"`
	ExpiresAt    *time.Time        `json:"expires_at"`
	PayerSig     string            `json:"payer_sig"`
}

// ReleaseEscrowInput represents input for an evidence-gated release
type ReleaseEscrowInput struct {
	EvidenceRef  string `json:"evidence_ref"`
	AmountMicros int64  `json:"amount_micros" binding:"required,gt=0"`
}

// ReleaseEscrowResult reports the outcome of a release
type ReleaseEscrowResult struct {
	EscrowID       string      `json:"escrow_id"`
	ReleasedMicros int64       `json:"released_micros"`
	State          EscrowState `json:"state"`
	BalanceMicros  int64       `json:"balance_micros"`
}
