package repositories

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"github.com/volatiletech/null/v8"
	"pox-ledger.backend/internal/domain/entities"
	domainerrors "pox-ledger.backend/internal/domain/errors"
)

func newTestContract(hash string) *entities.Contract {
	return &entities.Contract{
		ContractHash: hash,
		Template:     "scheduled",
		Sender:       "sender1",
		Receiver:     "receiver1",
		AmountMicros: 75_000,
		Trigger:      entities.ContractTrigger24h,
		Summary:      "pay on schedule",
		Status:       entities.ContractStatusPending,
	}
}

func TestContractRepository_CreateAndGet(t *testing.T) {
	db := newTestDB(t)
	createContractTable(t, db)
	repo := NewContractRepository(db)
	ctx := context.Background()

	require.NoError(t, repo.Create(ctx, newTestContract("c1")))

	err := repo.Create(ctx, newTestContract("c1"))
	require.ErrorIs(t, err, domainerrors.ErrAlreadyExists)

	got, err := repo.GetByHash(ctx, "c1")
	require.NoError(t, err)
	require.Equal(t, entities.ContractStatusPending, got.Status)
	require.False(t, got.SenderAccepted)
	require.False(t, got.DeployTime.Valid)

	_, err = repo.GetByHash(ctx, "missing")
	require.ErrorIs(t, err, domainerrors.ErrNotFound)
}

func TestContractRepository_UpdateAcceptance(t *testing.T) {
	db := newTestDB(t)
	createContractTable(t, db)
	repo := NewContractRepository(db)
	ctx := context.Background()

	c := newTestContract("c1")
	require.NoError(t, repo.Create(ctx, c))

	deployAt := time.Now().Add(24 * time.Hour).UTC().Truncate(time.Second)
	c.SenderAccepted = true
	c.ReceiverAccepted = true
	c.DeployTime = null.TimeFrom(deployAt)
	require.NoError(t, repo.UpdateAcceptance(ctx, c))

	got, err := repo.GetByHash(ctx, "c1")
	require.NoError(t, err)
	require.True(t, got.SenderAccepted)
	require.True(t, got.ReceiverAccepted)
	require.True(t, got.DeployTime.Valid)

	err = repo.UpdateAcceptance(ctx, newTestContract("missing"))
	require.ErrorIs(t, err, domainerrors.ErrNotFound)
}

func TestContractRepository_MarkDeployed(t *testing.T) {
	db := newTestDB(t)
	createContractTable(t, db)
	repo := NewContractRepository(db)
	ctx := context.Background()

	require.NoError(t, repo.Create(ctx, newTestContract("c1")))

	now := time.Now()
	require.NoError(t, repo.MarkDeployed(ctx, "c1", "sig_abc_1", now))

	got, err := repo.GetByHash(ctx, "c1")
	require.NoError(t, err)
	require.Equal(t, entities.ContractStatusDeployed, got.Status)
	require.Equal(t, "sig_abc_1", got.Signature.String)
	require.True(t, got.DeployedAt.Valid)

	// second deploy loses the status guard
	err = repo.MarkDeployed(ctx, "c1", "sig_abc_2", now)
	require.ErrorIs(t, err, domainerrors.ErrContractNotDeployable)

	err = repo.MarkDeployed(ctx, "missing", "sig", now)
	require.ErrorIs(t, err, domainerrors.ErrContractNotDeployable)
}

func TestContractRepository_GetDeployable(t *testing.T) {
	db := newTestDB(t)
	createContractTable(t, db)
	repo := NewContractRepository(db)
	ctx := context.Background()
	now := time.Now()

	// due and fully accepted
	due := newTestContract("due")
	due.SenderAccepted = true
	due.ReceiverAccepted = true
	due.DeployTime = null.TimeFrom(now.Add(-time.Minute))
	require.NoError(t, repo.Create(ctx, due))

	// accepted but not due yet
	future := newTestContract("future")
	future.SenderAccepted = true
	future.ReceiverAccepted = true
	future.DeployTime = null.TimeFrom(now.Add(time.Hour))
	require.NoError(t, repo.Create(ctx, future))

	// due but only half accepted
	half := newTestContract("half")
	half.SenderAccepted = true
	half.DeployTime = null.TimeFrom(now.Add(-time.Minute))
	require.NoError(t, repo.Create(ctx, half))

	// deployed already
	done := newTestContract("done")
	done.SenderAccepted = true
	done.ReceiverAccepted = true
	done.DeployTime = null.TimeFrom(now.Add(-time.Minute))
	require.NoError(t, repo.Create(ctx, done))
	require.NoError(t, repo.MarkDeployed(ctx, "done", "sig", now))

	ready, err := repo.GetDeployable(ctx, now, 10)
	require.NoError(t, err)
	require.Len(t, ready, 1)
	require.Equal(t, "due", ready[0].ContractHash)

	list, err := repo.List(ctx, 10)
	require.NoError(t, err)
	require.Len(t, list, 4)
}
