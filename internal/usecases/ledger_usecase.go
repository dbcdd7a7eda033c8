package usecases

import (
	"context"
	"fmt"
	"strings"
	"time"

	"pox-ledger.backend/internal/domain/entities"
	domainerrors "pox-ledger.backend/internal/domain/errors"
	"pox-ledger.backend/internal/domain/repositories"
	"pox-ledger.backend/pkg/canonical"
	"pox-ledger.backend/pkg/digest"
	"pox-ledger.backend/pkg/metrics"
)

// LedgerUsecase owns the receipt log and the block hash chain
type LedgerUsecase struct {
	receiptRepo repositories.ReceiptRepository
	blockRepo   repositories.BlockRepository
	uow         repositories.UnitOfWork
}

// NewLedgerUsecase creates a new ledger usecase
func NewLedgerUsecase(receiptRepo repositories.ReceiptRepository, blockRepo repositories.BlockRepository, uow repositories.UnitOfWork) *LedgerUsecase {
	return &LedgerUsecase{receiptRepo: receiptRepo, blockRepo: blockRepo, uow: uow}
}

// AppendReceipt records a settlement-relevant event. The receipt ID is the
// digest of the canonical {type, ref_id, timestamp} record, so identical
// events map to identical IDs.
func (u *LedgerUsecase) AppendReceipt(ctx context.Context, rtype entities.ReceiptType, refID string, ts time.Time) (string, error) {
	payload, err := canonical.Marshal(map[string]interface{}{
		"type":      string(rtype),
		"ref_id":    refID,
		"timestamp": ts.UTC().Format(time.RFC3339Nano),
	})
	if err != nil {
		return "", err
	}
	receiptID := digest.Hex(payload)

	if err := u.receiptRepo.Create(ctx, &entities.Receipt{
		ReceiptID:  receiptID,
		Type:       rtype,
		RefID:      refID,
		LedgerRoot: "",
		Timestamp:  ts,
	}); err != nil {
		return "", err
	}
	return receiptID, nil
}

// SealBlock batches all currently unsealed receipts into the next block of
// the hash chain. Returns nil with no error when there is nothing to seal.
//
// The block insert (height is the primary key) and the conditional receipt
// stamping run in one transaction; a concurrent sealer that selected an
// overlapping receipt set stamps fewer rows than it selected and rolls the
// whole seal back, so no receipt is ever sealed twice.
func (u *LedgerUsecase) SealBlock(ctx context.Context) (*entities.SealResult, error) {
	pending, err := u.receiptRepo.GetPending(ctx)
	if err != nil {
		return nil, err
	}
	if len(pending) == 0 {
		return nil, nil
	}

	prevRoot := digest.GenesisRoot
	var height int64 = 1
	last, err := u.blockRepo.GetLatest(ctx)
	if err != nil && err != domainerrors.ErrNotFound {
		return nil, err
	}
	if last != nil {
		prevRoot = last.Root
		height = last.Height + 1
	}

	ids := make([]string, 0, len(pending))
	var concat strings.Builder
	for _, p := range pending {
		ids = append(ids, p.ReceiptID)
		concat.WriteString(p.ReceiptID)
	}
	root := digest.HexString(concat.String())

	err = u.uow.Do(ctx, func(txCtx context.Context) error {
		if err := u.blockRepo.Create(txCtx, &entities.Block{
			Height:     height,
			Root:       root,
			PrevRoot:   prevRoot,
			ReceiptIDs: ids,
		}); err != nil {
			return err
		}

		won, err := u.receiptRepo.MarkSealed(txCtx, ids, root)
		if err != nil {
			return err
		}
		if won != int64(len(ids)) {
			return fmt.Errorf("seal race lost: stamped %d of %d receipts", won, len(ids))
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	metrics.BlocksSealed.Inc()
	return &entities.SealResult{Height: height, Root: root, PrevRoot: prevRoot}, nil
}

// ListBlocks lists sealed blocks, highest first
func (u *LedgerUsecase) ListBlocks(ctx context.Context, limit int) ([]*entities.Block, error) {
	if limit <= 0 {
		limit = 20
	}
	return u.blockRepo.List(ctx, limit)
}
