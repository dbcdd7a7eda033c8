package entities

import (
	"time"

	"github.com/volatiletech/null/v8"
)

// ContractStatus tracks the one-way pending -> deployed transition
type ContractStatus string

const (
	ContractStatusPending  ContractStatus = "pending"
	ContractStatusDeployed ContractStatus = "deployed"
)

// Contract triggers decide when a fully accepted draft becomes deployable
const (
	ContractTriggerApproval = "approval"
	ContractTrigger24h      = "24h"
	ContractTriggerAuto     = "auto"
)

// Contract is a two-party transfer agreement. Deployment performs the ledger
// transfer exactly once; the content hash identifies the agreed terms.
type Contract struct {
	ContractHash     string         `json:"contractHash"`
	Template         string         `json:"template"`
	Sender           string         `json:"sender"`
	Receiver         string         `json:"receiver"`
	AmountMicros     int64          `json:"amount_micros"`
	Trigger          string         `json:"trigger"`
	Summary          string         `json:"summary"`
	SenderAccepted   bool           `json:"senderAccepted"`
	ReceiverAccepted bool           `json:"receiverAccepted"`
	DeployTime       null.Time      `json:"deploy_time,omitempty"`
	DeployedAt       null.Time      `json:"deployedAt,omitempty"`
	Signature        null.String    `json:"signature,omitempty"`
	Status           ContractStatus `json:"status"`
	CreatedAt        time.Time      `json:"created_at"`
}

// CreateContractInput represents a contract draft
type CreateContractInput struct {
	Template     string `json:"template" binding:"required,oneof=escrow scheduled reward"`
	Sender       string `json:"sender" binding:"required"`
	Receiver     string `json:"receiver" binding:"required"`
	AmountMicros int64  `json:"amount_micros" binding:"required,gt=0"`
	Trigger      string `json:"trigger" binding:"required,oneof=approval 24h auto"`
	Summary      string `json:"summary" binding:"required"`
}

// AcceptContractInput represents a party accepting a draft
type AcceptContractInput struct {
	WalletID     string `json:"wallet_id" binding:"required"`
	ContractHash string `json:"contractHash" binding:"required"`
}

// DeployContractInput triggers the settlement transfer
type DeployContractInput struct {
	ContractHash string `json:"contractHash" binding:"required"`
}

// DeployContractResult reports a deployment
type DeployContractResult struct {
	ContractHash string `json:"contractHash"`
	Signature    string `json:"signature"`
	ReceiptID    string `json:"receipt_id"`
	Status       string `json:"status"`
}
