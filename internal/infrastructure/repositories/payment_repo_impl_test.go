package repositories

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/volatiletech/null/v8"
	"pox-ledger.backend/internal/domain/entities"
	domainerrors "pox-ledger.backend/internal/domain/errors"
)

func TestPaymentRepository_CreateAndGet(t *testing.T) {
	db := newTestDB(t)
	createPaymentTable(t, db)
	repo := NewPaymentRepository(db)
	ctx := context.Background()

	p := &entities.Payment{
		PoxID:        "pox1",
		From:         "w1",
		To:           "w2",
		AmountMicros: 250_000,
		Nonce:        "n1",
		Timestamp:    "2026-01-02T03:04:05Z",
		Ref:          null.StringFrom("invoice-42"),
		Signature:    "0xsig",
		Status:       entities.PaymentStatusAccepted,
	}
	require.NoError(t, repo.Create(ctx, p))

	err := repo.Create(ctx, &entities.Payment{PoxID: "pox1", From: "w1", To: "w2", Signature: "s", Status: entities.PaymentStatusAccepted})
	require.ErrorIs(t, err, domainerrors.ErrAlreadyExists)

	got, err := repo.GetByPoxID(ctx, "pox1")
	require.NoError(t, err)
	require.Equal(t, int64(250_000), got.AmountMicros)
	require.Equal(t, "invoice-42", got.Ref.String)
	require.Equal(t, entities.PaymentStatusAccepted, got.Status)

	_, err = repo.GetByPoxID(ctx, "missing")
	require.ErrorIs(t, err, domainerrors.ErrNotFound)

	list, err := repo.List(ctx, 10)
	require.NoError(t, err)
	require.Len(t, list, 1)
}
