package entities

import (
	"encoding/json"
	"time"
)

// Wallet is a named account holding a balance in micros (smallest unit).
// The wallet ID is derived from the public key and never changes; wallets
// are never deleted.
type Wallet struct {
	WalletID      string    `json:"wallet_id"`
	PublicKey     string    `json:"public_key"`
	Label         string    `json:"label"`
	BalanceMicros int64     `json:"balance_micros"`
	CreatedAt     time.Time `json:"created_at"`
}

// CreateWalletInput represents input for registering a wallet
type CreateWalletInput struct {
	PublicKey string `json:"public_key" binding:"required"`
	Label     string `json:"label"`
}

// CreditInput represents input for the admin credit endpoint
type CreditInput struct {
	AmountMicros int64  `json:"amount_micros" binding:"required,gt=0"`
	Note         string `json:"note"`
}

// SubmitPaymentInput carries a signed payment instruction. Body is kept raw:
// canonicalization must run over the exact bytes the client signed, not a
// re-encoding of a typed struct.
type SubmitPaymentInput struct {
	Body      json.RawMessage `json:"body" binding:"required"`
	Signature string          `json:"signature" binding:"required"`
	PublicKey string          `json:"public_key" binding:"required"`
}

// PaymentBody is the parsed view of the signed instruction body.
type PaymentBody struct {
	From         string `json:"from"`
	To           string `json:"to"`
	AmountMicros int64  `json:"amount_micros"`
	Nonce        string `json:"nonce"`
	Timestamp    string `json:"timestamp"`
	Ref          string `json:"ref"`
}
