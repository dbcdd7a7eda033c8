package usecases

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"pox-ledger.backend/internal/domain/entities"
	"pox-ledger.backend/pkg/canonical"
	"pox-ledger.backend/pkg/digest"
)

func TestAppendReceipt_DeterministicID(t *testing.T) {
	f := newLedgerFixture(t)
	ctx := context.Background()

	ts := time.Date(2026, 3, 14, 9, 26, 53, 589793238, time.UTC)
	rid, err := f.ledger.AppendReceipt(ctx, entities.ReceiptTypePayment, "pox_abc", ts)
	require.NoError(t, err)

	payload, err := canonical.Marshal(map[string]interface{}{
		"type":      "payment",
		"ref_id":    "pox_abc",
		"timestamp": ts.Format(time.RFC3339Nano),
	})
	require.NoError(t, err)
	require.Equal(t, digest.Hex(payload), rid)
}

func TestSealBlock_EmptyIsNoOp(t *testing.T) {
	f := newLedgerFixture(t)

	result, err := f.ledger.SealBlock(context.Background())
	require.NoError(t, err)
	require.Nil(t, result)

	_, err = f.blockRepo.GetLatest(context.Background())
	require.Error(t, err)
}

func TestSealBlock_BuildsHashChain(t *testing.T) {
	f := newLedgerFixture(t)
	ctx := context.Background()

	base := time.Now().Add(-time.Minute)
	r1, err := f.ledger.AppendReceipt(ctx, entities.ReceiptTypePayment, "pox1", base)
	require.NoError(t, err)
	r2, err := f.ledger.AppendReceipt(ctx, entities.ReceiptTypePayment, "pox2", base.Add(time.Second))
	require.NoError(t, err)

	first, err := f.ledger.SealBlock(ctx)
	require.NoError(t, err)
	require.Equal(t, int64(1), first.Height)
	require.Equal(t, digest.GenesisRoot, first.PrevRoot)
	require.Equal(t, digest.HexString(r1+r2), first.Root)

	// sealed receipts carry the block root
	pending, err := f.receiptRepo.GetPending(ctx)
	require.NoError(t, err)
	require.Empty(t, pending)

	block, err := f.blockRepo.GetLatest(ctx)
	require.NoError(t, err)
	require.Equal(t, []string{r1, r2}, block.ReceiptIDs)

	// next block links back to the first
	r3, err := f.ledger.AppendReceipt(ctx, entities.ReceiptTypeEscrowLock, "esc1", time.Now())
	require.NoError(t, err)

	second, err := f.ledger.SealBlock(ctx)
	require.NoError(t, err)
	require.Equal(t, int64(2), second.Height)
	require.Equal(t, first.Root, second.PrevRoot)
	require.Equal(t, digest.HexString(r3), second.Root)

	blocks, err := f.ledger.ListBlocks(ctx, 10)
	require.NoError(t, err)
	require.Len(t, blocks, 2)
	require.Equal(t, int64(2), blocks[0].Height)
}
