package repositories

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"
	domainerrors "pox-ledger.backend/internal/domain/errors"
)

func TestNonceRepository_Consume(t *testing.T) {
	db := newTestDB(t)
	createNonceTable(t, db)
	repo := NewNonceRepository(db)
	ctx := context.Background()

	require.NoError(t, repo.Consume(ctx, "w1", "n1"))

	// replay of the same pair
	err := repo.Consume(ctx, "w1", "n1")
	require.ErrorIs(t, err, domainerrors.ErrNonceUsed)

	// nonces are scoped per wallet
	require.NoError(t, repo.Consume(ctx, "w2", "n1"))
	require.NoError(t, repo.Consume(ctx, "w1", "n2"))
}
