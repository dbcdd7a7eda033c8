package repositories

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"
	"pox-ledger.backend/internal/domain/entities"
	domainerrors "pox-ledger.backend/internal/domain/errors"
)

func TestWalletRepository_CreateAndFinders(t *testing.T) {
	db := newTestDB(t)
	createWalletTable(t, db)
	repo := NewWalletRepository(db)
	ctx := context.Background()

	w := &entities.Wallet{
		WalletID:  "w1",
		PublicKey: "0xabc",
		Label:     "alice",
	}
	require.NoError(t, repo.Create(ctx, w))
	require.False(t, w.CreatedAt.IsZero())

	byID, err := repo.GetByID(ctx, "w1")
	require.NoError(t, err)
	require.Equal(t, "alice", byID.Label)
	require.Equal(t, int64(0), byID.BalanceMicros)

	byKey, err := repo.GetByPublicKey(ctx, "0xabc")
	require.NoError(t, err)
	require.Equal(t, "w1", byKey.WalletID)

	// same public key again
	err = repo.Create(ctx, &entities.Wallet{WalletID: "w2", PublicKey: "0xabc"})
	require.ErrorIs(t, err, domainerrors.ErrAlreadyExists)

	_, err = repo.GetByID(ctx, "missing")
	require.ErrorIs(t, err, domainerrors.ErrWalletNotFound)

	_, err = repo.GetByPublicKey(ctx, "0xmissing")
	require.ErrorIs(t, err, domainerrors.ErrWalletNotFound)
}

func TestWalletRepository_AddBalance(t *testing.T) {
	db := newTestDB(t)
	createWalletTable(t, db)
	repo := NewWalletRepository(db)
	ctx := context.Background()

	require.NoError(t, repo.Create(ctx, &entities.Wallet{WalletID: "w1", PublicKey: "pk1"}))

	require.NoError(t, repo.AddBalance(ctx, "w1", 2_000_000))
	require.NoError(t, repo.AddBalance(ctx, "w1", -250_000))

	w, err := repo.GetByID(ctx, "w1")
	require.NoError(t, err)
	require.Equal(t, int64(1_750_000), w.BalanceMicros)

	// overdraft leaves the balance untouched
	err = repo.AddBalance(ctx, "w1", -2_000_000)
	require.ErrorIs(t, err, domainerrors.ErrInsufficientBalance)

	w, err = repo.GetByID(ctx, "w1")
	require.NoError(t, err)
	require.Equal(t, int64(1_750_000), w.BalanceMicros)

	// exact drain to zero is allowed
	require.NoError(t, repo.AddBalance(ctx, "w1", -1_750_000))
	w, err = repo.GetByID(ctx, "w1")
	require.NoError(t, err)
	require.Equal(t, int64(0), w.BalanceMicros)

	err = repo.AddBalance(ctx, "missing", 100)
	require.ErrorIs(t, err, domainerrors.ErrWalletNotFound)
}

func TestWalletRepository_List(t *testing.T) {
	db := newTestDB(t)
	createWalletTable(t, db)
	repo := NewWalletRepository(db)
	ctx := context.Background()

	require.NoError(t, repo.Create(ctx, &entities.Wallet{WalletID: "w1", PublicKey: "pk1"}))
	require.NoError(t, repo.Create(ctx, &entities.Wallet{WalletID: "w2", PublicKey: "pk2"}))

	wallets, err := repo.List(ctx, 10)
	require.NoError(t, err)
	require.Len(t, wallets, 2)

	wallets, err = repo.List(ctx, 1)
	require.NoError(t, err)
	require.Len(t, wallets, 1)
}
