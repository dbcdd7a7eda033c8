package repositories

import (
	"context"

	"pox-ledger.backend/internal/domain/entities"
)

// WalletRepository defines wallet data operations. AddBalance is the only
// mutation and must be a single conditional update: the store, not the
// caller, guards the non-negativity invariant under concurrency.
type WalletRepository interface {
	Create(ctx context.Context, wallet *entities.Wallet) error
	GetByID(ctx context.Context, walletID string) (*entities.Wallet, error)
	GetByPublicKey(ctx context.Context, publicKey string) (*entities.Wallet, error)
	// AddBalance applies delta (positive or negative) iff the result stays
	// non-negative. Returns ErrWalletNotFound or ErrInsufficientBalance.
	AddBalance(ctx context.Context, walletID string, delta int64) error
	List(ctx context.Context, limit int) ([]*entities.Wallet, error)
}

// NonceRepository enforces at-most-once consumption of (wallet, nonce).
// Consume is an insert against a uniqueness constraint; the insert attempt
// is the check. Returns ErrNonceUsed on a duplicate.
type NonceRepository interface {
	Consume(ctx context.Context, walletID, nonce string) error
}

// TransactionRepository records the append-only balance-mutation audit log
type TransactionRepository interface {
	Create(ctx context.Context, tx *entities.Transaction) error
	ListByWallet(ctx context.Context, walletID string, limit int) ([]*entities.Transaction, error)
}
