package entities

import (
	"time"

	"github.com/volatiletech/null/v8"
)

// PaymentStatus represents the terminal status of a settled payment
type PaymentStatus string

const (
	PaymentStatusAccepted PaymentStatus = "accepted"
)

// Payment is the immutable record of one settled instruction. The pox ID is
// derived from the canonical body digest and the signature, so the record
// itself evidences what was signed.
type Payment struct {
	PoxID        string        `json:"pox_id"`
	From         string        `json:"from"`
	To           string        `json:"to"`
	AmountMicros int64         `json:"amount_micros"`
	Nonce        string        `json:"nonce"`
	Timestamp    string        `json:"timestamp"`
	Ref          null.String   `json:"ref,omitempty"`
	Signature    string        `json:"signature"`
	Status       PaymentStatus `json:"status"`
	CreatedAt    time.Time     `json:"created_at"`
}

// SubmitPaymentResult is returned to the boundary layer after settlement
type SubmitPaymentResult struct {
	PoxID     string `json:"pox_id"`
	ReceiptID string `json:"receipt_id"`
}

// Nonce marks a consumed (wallet, nonce) pair. Rows are created once per
// accepted instruction and never deleted; the replay window is unbounded.
type Nonce struct {
	WalletID string    `json:"wallet_id"`
	Nonce    string    `json:"nonce"`
	UsedAt   time.Time `json:"used_at"`
}

// TransactionType classifies balance mutations in the audit log
type TransactionType string

const (
	TransactionTypeCredit   TransactionType = "credit"
	TransactionTypeDebit    TransactionType = "debit"
	TransactionTypeTransfer TransactionType = "transfer"
)

// Transaction is an append-only audit record of a single balance mutation,
// one per successful ledger call.
type Transaction struct {
	TxID         string          `json:"tx_id"`
	Type         TransactionType `json:"type"`
	FromWallet   null.String     `json:"from_wallet,omitempty"`
	ToWallet     null.String     `json:"to_wallet,omitempty"`
	AmountMicros int64           `json:"amount_micros"`
	Note         string          `json:"note"`
	Status       string          `json:"status"`
	CreatedAt    time.Time       `json:"created_at"`
}
