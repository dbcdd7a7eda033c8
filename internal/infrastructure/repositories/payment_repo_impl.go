package repositories

import (
	"context"
	"errors"
	"time"

	"github.com/volatiletech/null/v8"
	"gorm.io/gorm"
	"pox-ledger.backend/internal/domain/entities"
	domainerrors "pox-ledger.backend/internal/domain/errors"
	"pox-ledger.backend/internal/infrastructure/models"
)

// PaymentRepository implements payment record operations
type PaymentRepository struct {
	db *gorm.DB
}

// NewPaymentRepository creates a new payment repository
func NewPaymentRepository(db *gorm.DB) *PaymentRepository {
	return &PaymentRepository{db: db}
}

// Create persists a settled payment
func (r *PaymentRepository) Create(ctx context.Context, payment *entities.Payment) error {
	payment.CreatedAt = time.Now()

	m := &models.Payment{
		PoxID:        payment.PoxID,
		FromWallet:   payment.From,
		ToWallet:     payment.To,
		AmountMicros: payment.AmountMicros,
		Nonce:        payment.Nonce,
		Timestamp:    payment.Timestamp,
		Ref:          payment.Ref.Ptr(),
		Signature:    payment.Signature,
		Status:       string(payment.Status),
		CreatedAt:    payment.CreatedAt,
	}

	db := GetDB(ctx, r.db)
	if err := db.WithContext(ctx).Create(m).Error; err != nil {
		if isDuplicateKey(err) {
			return domainerrors.ErrAlreadyExists
		}
		return err
	}
	return nil
}

// GetByPoxID gets a payment by its derived ID
func (r *PaymentRepository) GetByPoxID(ctx context.Context, poxID string) (*entities.Payment, error) {
	var m models.Payment
	db := GetDB(ctx, r.db)
	if err := db.WithContext(ctx).Where("pox_id = ?", poxID).First(&m).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domainerrors.ErrNotFound
		}
		return nil, err
	}
	return r.toEntity(&m), nil
}

// List lists payments, newest first
func (r *PaymentRepository) List(ctx context.Context, limit int) ([]*entities.Payment, error) {
	var ms []models.Payment
	db := GetDB(ctx, r.db)
	if err := db.WithContext(ctx).Order("created_at DESC").Limit(limit).Find(&ms).Error; err != nil {
		return nil, err
	}

	payments := make([]*entities.Payment, 0, len(ms))
	for i := range ms {
		payments = append(payments, r.toEntity(&ms[i]))
	}
	return payments, nil
}

func (r *PaymentRepository) toEntity(m *models.Payment) *entities.Payment {
	return &entities.Payment{
		PoxID:        m.PoxID,
		From:         m.FromWallet,
		To:           m.ToWallet,
		AmountMicros: m.AmountMicros,
		Nonce:        m.Nonce,
		Timestamp:    m.Timestamp,
		Ref:          null.StringFromPtr(m.Ref),
		Signature:    m.Signature,
		Status:       entities.PaymentStatus(m.Status),
		CreatedAt:    m.CreatedAt,
	}
}
