package usecases

import (
	"context"
	"strings"
	"time"

	"github.com/volatiletech/null/v8"
	"pox-ledger.backend/internal/domain/entities"
	domainerrors "pox-ledger.backend/internal/domain/errors"
	"pox-ledger.backend/internal/domain/repositories"
	"pox-ledger.backend/pkg/canonical"
	"pox-ledger.backend/pkg/digest"
)

const defaultEscrowTTL = 30 * 24 * time.Hour

// EscrowUsecase locks payer funds and releases them in evidence-gated
// steps, built on the wallet ledger and the receipt log.
type EscrowUsecase struct {
	escrowRepo    repositories.EscrowRepository
	receiptRepo   repositories.ReceiptRepository
	walletUsecase *WalletUsecase
	ledgerUsecase *LedgerUsecase
	uow           repositories.UnitOfWork
	now           func() time.Time
}

// NewEscrowUsecase creates a new escrow usecase
func NewEscrowUsecase(escrowRepo repositories.EscrowRepository, receiptRepo repositories.ReceiptRepository, walletUsecase *WalletUsecase, ledgerUsecase *LedgerUsecase, uow repositories.UnitOfWork) *EscrowUsecase {
	return &EscrowUsecase{
		escrowRepo:    escrowRepo,
		receiptRepo:   receiptRepo,
		walletUsecase: walletUsecase,
		ledgerUsecase: ledgerUsecase,
		uow:           uow,
		now:           time.Now,
	}
}

// CreateEscrow debits the payer immediately and locks the funds. The escrow
// ID is derived from payer, payee, amount and the creation instant.
func (u *EscrowUsecase) CreateEscrow(ctx context.Context, input *entities.CreateEscrowInput) (*entities.Escrow, error) {
	if input.AmountMicros <= 0 {
		return nil, domainerrors.ErrBadRequest
	}

	conditions := entities.DefaultEscrowConditions()
	if input.Conditions != nil {
		conditions = *input.Conditions
		if conditions.RefPrefix == "" {
			conditions.RefPrefix = entities.DefaultEscrowConditions().RefPrefix
		}
	}

	now := u.now()
	expiresAt := now.Add(defaultEscrowTTL)
	if input.ExpiresAt != nil {
		expiresAt = *input.ExpiresAt
	}

	payload, err := canonical.Marshal(map[string]interface{}{
		"payer":         input.Payer,
		"payee":         input.Payee,
		"amount_micros": input.AmountMicros,
		"ts":            now.UnixMilli(),
	})
	if err != nil {
		return nil, err
	}
	escrowID := digest.Hex(payload)

	escrow := &entities.Escrow{
		EscrowID:      escrowID,
		Payer:         input.Payer,
		Payee:         input.Payee,
		AmountMicros:  input.AmountMicros,
		BalanceMicros: input.AmountMicros,
		Conditions:    conditions,
		State:         entities.EscrowStateActive,
		PayerSig:      null.NewString(input.PayerSig, input.PayerSig != ""),
		ExpiresAt:     expiresAt,
	}

	err = u.uow.Do(ctx, func(txCtx context.Context) error {
		if err := u.walletUsecase.Debit(txCtx, input.Payer, input.AmountMicros, "Escrow lock"); err != nil {
			return err
		}
		if err := u.escrowRepo.Create(txCtx, escrow); err != nil {
			return err
		}
		_, err := u.ledgerUsecase.AppendReceipt(txCtx, entities.ReceiptTypeEscrowLock, escrowID, now)
		return err
	})
	if err != nil {
		return nil, err
	}
	return escrow, nil
}

// ReleaseEscrow pays out min(requested, remaining) to the payee once the
// evidence reference passes the escrow's conditions. The evidence check is
// deliberately closed-loop: the reference must carry the condition prefix
// and a receipt keyed to the escrow's own ID must exist in the ledger.
func (u *EscrowUsecase) ReleaseEscrow(ctx context.Context, escrowID string, input *entities.ReleaseEscrowInput) (*entities.ReleaseEscrowResult, error) {
	if input.AmountMicros <= 0 {
		return nil, domainerrors.ErrBadRequest
	}

	escrow, err := u.getWithLazyExpiry(ctx, escrowID)
	if err != nil {
		return nil, err
	}
	if escrow.State != entities.EscrowStateActive {
		return nil, domainerrors.ErrEscrowNotActive
	}
	if escrow.BalanceMicros <= 0 {
		return nil, domainerrors.ErrEscrowEmpty
	}

	if input.EvidenceRef == "" {
		return nil, domainerrors.ErrEvidenceMissing
	}
	if !strings.HasPrefix(input.EvidenceRef, escrow.Conditions.RefPrefix) {
		return nil, domainerrors.ErrEvidencePrefixMismatch
	}
	hasReceipt, err := u.receiptRepo.ExistsByRefID(ctx, escrowID)
	if err != nil {
		return nil, err
	}
	if !hasReceipt {
		return nil, domainerrors.ErrEvidenceNotFound
	}

	// Partial releases cap at the remaining balance.
	amt := input.AmountMicros
	if amt > escrow.BalanceMicros {
		amt = escrow.BalanceMicros
	}
	newBalance := escrow.BalanceMicros - amt
	newState := entities.EscrowStateActive
	if newBalance == 0 {
		newState = entities.EscrowStateExhausted
	}

	err = u.uow.Do(ctx, func(txCtx context.Context) error {
		if err := u.escrowRepo.UpdateRelease(txCtx, escrowID, escrow.BalanceMicros, newBalance, newState); err != nil {
			return err
		}
		if err := u.walletUsecase.Credit(txCtx, escrow.Payee, amt, "Escrow release"); err != nil {
			return err
		}
		_, err := u.ledgerUsecase.AppendReceipt(txCtx, entities.ReceiptTypeEscrowRelease, escrowID, u.now())
		return err
	})
	if err != nil {
		return nil, err
	}

	return &entities.ReleaseEscrowResult{
		EscrowID:       escrowID,
		ReleasedMicros: amt,
		State:          newState,
		BalanceMicros:  newBalance,
	}, nil
}

// GetEscrow returns an escrow, applying lazy expiry
func (u *EscrowUsecase) GetEscrow(ctx context.Context, escrowID string) (*entities.Escrow, error) {
	return u.getWithLazyExpiry(ctx, escrowID)
}

// ListEscrows lists escrows, newest first
func (u *EscrowUsecase) ListEscrows(ctx context.Context, limit int) ([]*entities.Escrow, error) {
	if limit <= 0 {
		limit = 50
	}
	return u.escrowRepo.List(ctx, limit)
}

// getWithLazyExpiry flips an overdue active escrow to expired on read.
// Expiry is advisory, not a hard invariant enforced by a sweeper.
func (u *EscrowUsecase) getWithLazyExpiry(ctx context.Context, escrowID string) (*entities.Escrow, error) {
	escrow, err := u.escrowRepo.GetByID(ctx, escrowID)
	if err != nil {
		return nil, err
	}

	if escrow.State == entities.EscrowStateActive && u.now().After(escrow.ExpiresAt) {
		if err := u.escrowRepo.UpdateState(ctx, escrowID, entities.EscrowStateExpired); err != nil {
			return nil, err
		}
		escrow.State = entities.EscrowStateExpired
	}
	return escrow, nil
}
