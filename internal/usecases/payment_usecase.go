package usecases

import (
	"context"
	"encoding/json"
	"time"

	"github.com/volatiletech/null/v8"
	"go.uber.org/zap"
	"pox-ledger.backend/internal/domain/entities"
	domainerrors "pox-ledger.backend/internal/domain/errors"
	"pox-ledger.backend/internal/domain/repositories"
	"pox-ledger.backend/pkg/canonical"
	"pox-ledger.backend/pkg/crypto"
	"pox-ledger.backend/pkg/digest"
	"pox-ledger.backend/pkg/logger"
	"pox-ledger.backend/pkg/metrics"
)

// PaymentUsecase settles cryptographically signed, replay-protected
// payment instructions.
type PaymentUsecase struct {
	paymentRepo   repositories.PaymentRepository
	nonceRepo     repositories.NonceRepository
	walletUsecase *WalletUsecase
	ledgerUsecase *LedgerUsecase
	uow           repositories.UnitOfWork
}

// NewPaymentUsecase creates a new payment usecase
func NewPaymentUsecase(paymentRepo repositories.PaymentRepository, nonceRepo repositories.NonceRepository, walletUsecase *WalletUsecase, ledgerUsecase *LedgerUsecase, uow repositories.UnitOfWork) *PaymentUsecase {
	return &PaymentUsecase{
		paymentRepo:   paymentRepo,
		nonceRepo:     nonceRepo,
		walletUsecase: walletUsecase,
		ledgerUsecase: ledgerUsecase,
		uow:           uow,
	}
}

// SubmitPayment runs the settlement protocol over a signed instruction:
//
//  1. canonicalize the raw body and verify the signature — the cheapest
//     check gates everything;
//  2. consume (from, nonce) — the uniqueness constraint is the replay
//     check, so concurrent duplicates serialize there;
//  3. debit sender, credit receiver;
//  4. persist the payment under pox_id = digest(digest(body) + signature);
//  5. append the payment receipt.
//
// Steps 2-5 share one transaction: a failure anywhere rolls back the nonce
// row too, so replay protection stays atomic with the effect it protects
// and a nonce is never burned without a settled payment.
func (u *PaymentUsecase) SubmitPayment(ctx context.Context, input *entities.SubmitPaymentInput) (*entities.SubmitPaymentResult, error) {
	if len(input.Body) == 0 || input.Signature == "" || input.PublicKey == "" {
		return nil, domainerrors.ErrBadRequest
	}

	canonicalBytes, err := canonical.MarshalRaw(input.Body)
	if err != nil {
		return nil, domainerrors.ErrBadRequest
	}

	var body entities.PaymentBody
	if err := json.Unmarshal(input.Body, &body); err != nil {
		return nil, domainerrors.ErrBadRequest
	}
	if body.From == "" || body.To == "" || body.Nonce == "" || body.AmountMicros <= 0 {
		return nil, domainerrors.ErrBadRequest
	}

	if !crypto.VerifySignature(input.PublicKey, canonicalBytes, input.Signature) {
		return nil, domainerrors.ErrInvalidSignature
	}

	bodyDigest := digest.Hex(canonicalBytes)
	poxID := digest.HexString(bodyDigest + input.Signature)

	ts := time.Now()
	if body.Timestamp != "" {
		if parsed, perr := time.Parse(time.RFC3339, body.Timestamp); perr == nil {
			ts = parsed
		}
	}

	var receiptID string
	err = u.uow.Do(ctx, func(txCtx context.Context) error {
		if err := u.nonceRepo.Consume(txCtx, body.From, body.Nonce); err != nil {
			return err
		}
		if err := u.walletUsecase.Debit(txCtx, body.From, body.AmountMicros, "Payment debit"); err != nil {
			return err
		}
		if err := u.walletUsecase.Credit(txCtx, body.To, body.AmountMicros, "Payment credit"); err != nil {
			return err
		}

		if err := u.paymentRepo.Create(txCtx, &entities.Payment{
			PoxID:        poxID,
			From:         body.From,
			To:           body.To,
			AmountMicros: body.AmountMicros,
			Nonce:        body.Nonce,
			Timestamp:    body.Timestamp,
			Ref:          null.NewString(body.Ref, body.Ref != ""),
			Signature:    input.Signature,
			Status:       entities.PaymentStatusAccepted,
		}); err != nil {
			return err
		}

		rid, err := u.ledgerUsecase.AppendReceipt(txCtx, entities.ReceiptTypePayment, poxID, ts)
		if err != nil {
			return err
		}
		receiptID = rid
		return nil
	})
	if err != nil {
		return nil, err
	}

	metrics.PaymentsSettled.Inc()
	logger.Info(ctx, "payment settled",
		zap.String("pox_id", poxID),
		zap.String("from", body.From),
		zap.String("to", body.To),
		zap.Int64("amount_micros", body.AmountMicros),
	)

	return &entities.SubmitPaymentResult{PoxID: poxID, ReceiptID: receiptID}, nil
}

// GetPayment returns a settled payment by pox ID
func (u *PaymentUsecase) GetPayment(ctx context.Context, poxID string) (*entities.Payment, error) {
	return u.paymentRepo.GetByPoxID(ctx, poxID)
}

// ListPayments lists settled payments, newest first
func (u *PaymentUsecase) ListPayments(ctx context.Context, limit int) ([]*entities.Payment, error) {
	if limit <= 0 {
		limit = 50
	}
	return u.paymentRepo.List(ctx, limit)
}
