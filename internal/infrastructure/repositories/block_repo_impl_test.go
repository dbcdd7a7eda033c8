package repositories

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"
	"pox-ledger.backend/internal/domain/entities"
	domainerrors "pox-ledger.backend/internal/domain/errors"
)

func TestBlockRepository_ChainStore(t *testing.T) {
	db := newTestDB(t)
	createBlockTable(t, db)
	repo := NewBlockRepository(db)
	ctx := context.Background()

	_, err := repo.GetLatest(ctx)
	require.ErrorIs(t, err, domainerrors.ErrNotFound)

	require.NoError(t, repo.Create(ctx, &entities.Block{
		Height:     1,
		Root:       "root1",
		PrevRoot:   "genesis",
		ReceiptIDs: []string{"r1", "r2"},
	}))
	require.NoError(t, repo.Create(ctx, &entities.Block{
		Height:     2,
		Root:       "root2",
		PrevRoot:   "root1",
		ReceiptIDs: []string{"r3"},
	}))

	// height collision
	err = repo.Create(ctx, &entities.Block{Height: 2, Root: "x", PrevRoot: "y", ReceiptIDs: []string{}})
	require.ErrorIs(t, err, domainerrors.ErrAlreadyExists)

	latest, err := repo.GetLatest(ctx)
	require.NoError(t, err)
	require.Equal(t, int64(2), latest.Height)
	require.Equal(t, []string{"r3"}, latest.ReceiptIDs)

	rng, err := repo.GetRange(ctx, 1, 2)
	require.NoError(t, err)
	require.Len(t, rng, 2)
	require.Equal(t, int64(1), rng[0].Height)
	require.Equal(t, []string{"r1", "r2"}, rng[0].ReceiptIDs)

	rng, err = repo.GetRange(ctx, 5, 9)
	require.NoError(t, err)
	require.Empty(t, rng)

	list, err := repo.List(ctx, 1)
	require.NoError(t, err)
	require.Len(t, list, 1)
	require.Equal(t, int64(2), list[0].Height)
}
