package usecases

import (
	"context"
	"fmt"
	"time"

	"github.com/volatiletech/null/v8"
	"pox-ledger.backend/internal/domain/entities"
	domainerrors "pox-ledger.backend/internal/domain/errors"
	"pox-ledger.backend/internal/domain/repositories"
	"pox-ledger.backend/pkg/digest"
)

// WalletUsecase is the wallet ledger: per-wallet balances with atomic
// credit/debit/transfer and an append-only transaction log. Balance
// mutations go through the repository's conditional update, so the
// non-negativity invariant holds under arbitrary concurrency.
type WalletUsecase struct {
	walletRepo repositories.WalletRepository
	txRepo     repositories.TransactionRepository
	uow        repositories.UnitOfWork
}

// NewWalletUsecase creates a new wallet usecase
func NewWalletUsecase(walletRepo repositories.WalletRepository, txRepo repositories.TransactionRepository, uow repositories.UnitOfWork) *WalletUsecase {
	return &WalletUsecase{walletRepo: walletRepo, txRepo: txRepo, uow: uow}
}

// CreateWallet registers a wallet. The wallet ID is the digest of the
// public key, so registration is deterministic and repeatable input maps
// to the same identity.
func (u *WalletUsecase) CreateWallet(ctx context.Context, input *entities.CreateWalletInput) (*entities.Wallet, error) {
	if input.PublicKey == "" {
		return nil, domainerrors.ErrBadRequest
	}

	wallet := &entities.Wallet{
		WalletID:      digest.HexString(input.PublicKey),
		PublicKey:     input.PublicKey,
		Label:         input.Label,
		BalanceMicros: 0,
	}

	if err := u.walletRepo.Create(ctx, wallet); err != nil {
		return nil, err
	}
	return wallet, nil
}

// GetBalance returns the wallet's balance in micros
func (u *WalletUsecase) GetBalance(ctx context.Context, walletID string) (int64, error) {
	w, err := u.walletRepo.GetByID(ctx, walletID)
	if err != nil {
		return 0, err
	}
	return w.BalanceMicros, nil
}

// Credit adds amount to the wallet and records the mutation
func (u *WalletUsecase) Credit(ctx context.Context, walletID string, amountMicros int64, note string) error {
	if amountMicros <= 0 {
		return domainerrors.ErrBadRequest
	}
	if note == "" {
		note = "Credit to wallet"
	}

	return u.uow.Do(ctx, func(txCtx context.Context) error {
		if err := u.walletRepo.AddBalance(txCtx, walletID, amountMicros); err != nil {
			return err
		}
		return u.txRepo.Create(txCtx, &entities.Transaction{
			TxID:         newTxID("", walletID, amountMicros),
			Type:         entities.TransactionTypeCredit,
			ToWallet:     null.StringFrom(walletID),
			AmountMicros: amountMicros,
			Note:         note,
			Status:       "success",
		})
	})
}

// Debit removes amount from the wallet and records the mutation. Fails with
// ErrInsufficientBalance when amount exceeds the balance.
func (u *WalletUsecase) Debit(ctx context.Context, walletID string, amountMicros int64, note string) error {
	if amountMicros <= 0 {
		return domainerrors.ErrBadRequest
	}
	if note == "" {
		note = "Debit from wallet"
	}

	return u.uow.Do(ctx, func(txCtx context.Context) error {
		if err := u.walletRepo.AddBalance(txCtx, walletID, -amountMicros); err != nil {
			return err
		}
		return u.txRepo.Create(txCtx, &entities.Transaction{
			TxID:         newTxID(walletID, "", amountMicros),
			Type:         entities.TransactionTypeDebit,
			FromWallet:   null.StringFrom(walletID),
			AmountMicros: amountMicros,
			Note:         note,
			Status:       "success",
		})
	})
}

// Transfer moves amount between wallets. Debit and credit run in one
// transaction; no intermediate state where the debit applied without the
// credit is ever observable.
func (u *WalletUsecase) Transfer(ctx context.Context, from, to string, amountMicros int64, note string) error {
	if amountMicros <= 0 {
		return domainerrors.ErrBadRequest
	}
	if note == "" {
		note = "Wallet to wallet transfer"
	}

	return u.uow.Do(ctx, func(txCtx context.Context) error {
		if err := u.walletRepo.AddBalance(txCtx, from, -amountMicros); err != nil {
			return err
		}
		if err := u.walletRepo.AddBalance(txCtx, to, amountMicros); err != nil {
			return err
		}
		return u.txRepo.Create(txCtx, &entities.Transaction{
			TxID:         newTxID(from, to, amountMicros),
			Type:         entities.TransactionTypeTransfer,
			FromWallet:   null.StringFrom(from),
			ToWallet:     null.StringFrom(to),
			AmountMicros: amountMicros,
			Note:         note,
			Status:       "success",
		})
	})
}

// ListWallets lists wallets, newest first
func (u *WalletUsecase) ListWallets(ctx context.Context, limit int) ([]*entities.Wallet, error) {
	if limit <= 0 {
		limit = 50
	}
	return u.walletRepo.List(ctx, limit)
}

// ListTransactions lists the wallet's audit log entries, newest first
func (u *WalletUsecase) ListTransactions(ctx context.Context, walletID string, limit int) ([]*entities.Transaction, error) {
	if limit <= 0 {
		limit = 50
	}
	return u.txRepo.ListByWallet(ctx, walletID, limit)
}

func newTxID(from, to string, amountMicros int64) string {
	return digest.HexString(fmt.Sprintf("%d-%s-%s-%d", time.Now().UnixNano(), from, to, amountMicros))
}
