package entities

import "time"

// ReceiptType classifies settlement-relevant events
type ReceiptType string

const (
	ReceiptTypePayment        ReceiptType = "payment"
	ReceiptTypeEscrowLock     ReceiptType = "escrow_lock"
	ReceiptTypeEscrowRelease  ReceiptType = "escrow_release"
	ReceiptTypeContractDeploy ReceiptType = "contract_deploy"
)

// Receipt is the immutable record of one settlement-relevant event. An empty
// LedgerRoot marks the receipt as not yet sealed into a block.
type Receipt struct {
	ReceiptID  string      `json:"receipt_id"`
	Type       ReceiptType `json:"type"`
	RefID      string      `json:"ref_id"`
	LedgerRoot string      `json:"ledger_root"`
	Timestamp  time.Time   `json:"timestamp"`
}

// Block batches receipts under a single root and links to its predecessor
// through PrevRoot, forming a singly linked hash chain.
type Block struct {
	Height     int64     `json:"height"`
	Root       string    `json:"root"`
	PrevRoot   string    `json:"prev_root"`
	ReceiptIDs []string  `json:"receipt_ids"`
	CreatedAt  time.Time `json:"created_at"`
}

// SealResult summarizes a freshly sealed block
type SealResult struct {
	Height   int64  `json:"height"`
	Root     string `json:"root"`
	PrevRoot string `json:"prev_root"`
}
