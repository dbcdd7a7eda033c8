package models

import "time"

// Wallet is the persistence model for wallets. Balances live in micros; the
// conditional update in the repository is the only writer.
type Wallet struct {
	WalletID      string `gorm:"type:varchar(128);primaryKey"`
	PublicKey     string `gorm:"type:varchar(255);not null;uniqueIndex"`
	Label         string `gorm:"type:varchar(255)"`
	BalanceMicros int64  `gorm:"not null;default:0"`
	CreatedAt     time.Time
}

func (Wallet) TableName() string { return "wallets" }

// Nonce rows are insert-only; the composite unique index is the replay guard.
type Nonce struct {
	ID       int64  `gorm:"primaryKey;autoIncrement"`
	WalletID string `gorm:"type:varchar(128);not null;uniqueIndex:idx_nonces_wallet_nonce"`
	Nonce    string `gorm:"type:varchar(255);not null;uniqueIndex:idx_nonces_wallet_nonce"`
	UsedAt   time.Time
}

func (Nonce) TableName() string { return "nonces" }

type Transaction struct {
	TxID         string  `gorm:"type:varchar(128);primaryKey"`
	Type         string  `gorm:"type:varchar(20);not null"`
	FromWallet   *string `gorm:"type:varchar(128);index"`
	ToWallet     *string `gorm:"type:varchar(128);index"`
	AmountMicros int64   `gorm:"not null"`
	Note         string  `gorm:"type:varchar(255)"`
	Status       string  `gorm:"type:varchar(20);not null"`
	CreatedAt    time.Time
}

func (Transaction) TableName() string { return "transactions" }

type Payment struct {
	PoxID        string  `gorm:"type:varchar(128);primaryKey"`
	FromWallet   string  `gorm:"type:varchar(128);not null;index"`
	ToWallet     string  `gorm:"type:varchar(128);not null;index"`
	AmountMicros int64   `gorm:"not null"`
	Nonce        string  `gorm:"type:varchar(255);not null"`
	Timestamp    string  `gorm:"type:varchar(64)"`
	Ref          *string `gorm:"type:varchar(255)"`
	Signature    string  `gorm:"type:text;not null"`
	Status       string  `gorm:"type:varchar(20);not null"`
	CreatedAt    time.Time
}

func (Payment) TableName() string { return "payments" }

type Receipt struct {
	ReceiptID  string `gorm:"type:varchar(128);primaryKey"`
	Type       string `gorm:"type:varchar(30);not null"`
	RefID      string `gorm:"type:varchar(255);not null;index"`
	LedgerRoot string `gorm:"type:varchar(128);not null;default:'';index"`
	Timestamp  time.Time
}

func (Receipt) TableName() string { return "receipts" }

type Block struct {
	Height     int64  `gorm:"primaryKey;autoIncrement:false"`
	Root       string `gorm:"type:varchar(128);not null"`
	PrevRoot   string `gorm:"type:varchar(128);not null"`
	ReceiptIDs string `gorm:"type:text;not null"` // JSON array
	CreatedAt  time.Time
}

func (Block) TableName() string { return "blocks" }

type Escrow struct {
	EscrowID       string `gorm:"type:varchar(128);primaryKey"`
	Payer          string `gorm:"type:varchar(128);not null;index"`
	Payee          string `gorm:"type:varchar(128);not null;index"`
	AmountMicros   int64  `gorm:"not null"`
	BalanceMicros  int64  `gorm:"not null"`
	ConditionType  string `gorm:"type:varchar(50);not null"`
	ConditionCount int    `gorm:"not null;default:1"`
	RefPrefix      string `gorm:"type:varchar(50);not null"`
	State          string `gorm:"type:varchar(20);not null;index"`
	PayerSig       *string
	ExpiresAt      time.Time
	CreatedAt      time.Time
}

func (Escrow) TableName() string { return "escrows" }

type Anchor struct {
	AnchorID        string `gorm:"type:varchar(128);primaryKey"`
	Chain           string `gorm:"type:varchar(50);not null;index"`
	BlockHeightFrom int64  `gorm:"not null"`
	BlockHeightTo   int64  `gorm:"not null"`
	MerkleRoot      string `gorm:"type:varchar(128);not null"`
	TxHash          string `gorm:"type:varchar(128);not null"`
	CreatedAt       time.Time
}

func (Anchor) TableName() string { return "anchors" }

type Contract struct {
	ContractHash     string `gorm:"type:varchar(128);primaryKey"`
	Template         string `gorm:"type:varchar(20);not null"`
	Sender           string `gorm:"type:varchar(128);not null;index"`
	Receiver         string `gorm:"type:varchar(128);not null;index"`
	AmountMicros     int64  `gorm:"not null"`
	Trigger          string `gorm:"type:varchar(20);not null"`
	Summary          string `gorm:"type:text;not null"`
	SenderAccepted   bool   `gorm:"not null;default:false"`
	ReceiverAccepted bool   `gorm:"not null;default:false"`
	DeployTime       *time.Time
	DeployedAt       *time.Time
	Signature        *string `gorm:"type:text"`
	Status           string  `gorm:"type:varchar(20);not null;index"`
	CreatedAt        time.Time
}

func (Contract) TableName() string { return "contracts" }
