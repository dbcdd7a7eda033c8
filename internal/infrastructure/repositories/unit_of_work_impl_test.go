package repositories

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/require"
	"pox-ledger.backend/internal/domain/entities"
)

func TestUnitOfWork_CommitAndRollback(t *testing.T) {
	db := newTestDB(t)
	createWalletTable(t, db)
	uow := NewUnitOfWork(db)
	repo := NewWalletRepository(db)
	ctx := context.Background()

	// commit path
	err := uow.Do(ctx, func(txCtx context.Context) error {
		return repo.Create(txCtx, &entities.Wallet{WalletID: "w1", PublicKey: "pk1"})
	})
	require.NoError(t, err)

	_, err = repo.GetByID(ctx, "w1")
	require.NoError(t, err)

	// rollback path: the failing step undoes the earlier create
	boom := errors.New("boom")
	err = uow.Do(ctx, func(txCtx context.Context) error {
		if err := repo.Create(txCtx, &entities.Wallet{WalletID: "w2", PublicKey: "pk2"}); err != nil {
			return err
		}
		return boom
	})
	require.ErrorIs(t, err, boom)

	_, err = repo.GetByID(ctx, "w2")
	require.Error(t, err)
}

func TestUnitOfWork_JoinsNestedTransaction(t *testing.T) {
	db := newTestDB(t)
	createWalletTable(t, db)
	uow := NewUnitOfWork(db)
	repo := NewWalletRepository(db)
	ctx := context.Background()

	boom := errors.New("inner failure")
	err := uow.Do(ctx, func(outerCtx context.Context) error {
		if err := repo.Create(outerCtx, &entities.Wallet{WalletID: "w1", PublicKey: "pk1"}); err != nil {
			return err
		}
		// nested Do joins the outer transaction instead of opening its own
		return uow.Do(outerCtx, func(innerCtx context.Context) error {
			if err := repo.Create(innerCtx, &entities.Wallet{WalletID: "w2", PublicKey: "pk2"}); err != nil {
				return err
			}
			return boom
		})
	})
	require.ErrorIs(t, err, boom)

	// both creates rolled back together
	_, err = repo.GetByID(ctx, "w1")
	require.Error(t, err)
	_, err = repo.GetByID(ctx, "w2")
	require.Error(t, err)
}
