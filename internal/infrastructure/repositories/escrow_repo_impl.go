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

// EscrowRepository implements escrow storage
type EscrowRepository struct {
	db *gorm.DB
}

// NewEscrowRepository creates a new escrow repository
func NewEscrowRepository(db *gorm.DB) *EscrowRepository {
	return &EscrowRepository{db: db}
}

// Create persists a freshly locked escrow
func (r *EscrowRepository) Create(ctx context.Context, escrow *entities.Escrow) error {
	escrow.CreatedAt = time.Now()

	m := &models.Escrow{
		EscrowID:       escrow.EscrowID,
		Payer:          escrow.Payer,
		Payee:          escrow.Payee,
		AmountMicros:   escrow.AmountMicros,
		BalanceMicros:  escrow.BalanceMicros,
		ConditionType:  escrow.Conditions.Type,
		ConditionCount: escrow.Conditions.Count,
		RefPrefix:      escrow.Conditions.RefPrefix,
		State:          string(escrow.State),
		PayerSig:       escrow.PayerSig.Ptr(),
		ExpiresAt:      escrow.ExpiresAt,
		CreatedAt:      escrow.CreatedAt,
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

// GetByID gets an escrow by ID
func (r *EscrowRepository) GetByID(ctx context.Context, escrowID string) (*entities.Escrow, error) {
	var m models.Escrow
	db := GetDB(ctx, r.db)
	if err := db.WithContext(ctx).Where("escrow_id = ?", escrowID).First(&m).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domainerrors.ErrNotFound
		}
		return nil, err
	}
	return r.toEntity(&m), nil
}

// UpdateRelease moves the balance and state in one guarded statement. The
// expected-balance predicate means two racing releases cannot both apply
// against the same prior balance.
func (r *EscrowRepository) UpdateRelease(ctx context.Context, escrowID string, expectedBalance, newBalance int64, state entities.EscrowState) error {
	db := GetDB(ctx, r.db)
	result := db.WithContext(ctx).Model(&models.Escrow{}).
		Where("escrow_id = ? AND balance_micros = ? AND state = ?", escrowID, expectedBalance, string(entities.EscrowStateActive)).
		Updates(map[string]interface{}{
			"balance_micros": newBalance,
			"state":          string(state),
		})

	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return domainerrors.ErrEscrowNotActive
	}
	return nil
}

// UpdateState sets the escrow state (used for lazy expiry)
func (r *EscrowRepository) UpdateState(ctx context.Context, escrowID string, state entities.EscrowState) error {
	db := GetDB(ctx, r.db)
	return db.WithContext(ctx).Model(&models.Escrow{}).
		Where("escrow_id = ?", escrowID).
		Update("state", string(state)).Error
}

// List lists escrows, newest first
func (r *EscrowRepository) List(ctx context.Context, limit int) ([]*entities.Escrow, error) {
	var ms []models.Escrow
	db := GetDB(ctx, r.db)
	if err := db.WithContext(ctx).Order("created_at DESC").Limit(limit).Find(&ms).Error; err != nil {
		return nil, err
	}

	escrows := make([]*entities.Escrow, 0, len(ms))
	for i := range ms {
		escrows = append(escrows, r.toEntity(&ms[i]))
	}
	return escrows, nil
}

func (r *EscrowRepository) toEntity(m *models.Escrow) *entities.Escrow {
	return &entities.Escrow{
		EscrowID:      m.EscrowID,
		Payer:         m.Payer,
		Payee:         m.Payee,
		AmountMicros:  m.AmountMicros,
		BalanceMicros: m.BalanceMicros,
		Conditions: entities.EscrowConditions{
			Type:      m.ConditionType,
			Count:     m.ConditionCount,
			RefPrefix: m.RefPrefix,
		},
		State:     entities.EscrowState(m.State),
		PayerSig:  null.StringFromPtr(m.PayerSig),
		ExpiresAt: m.ExpiresAt,
		CreatedAt: m.CreatedAt,
	}
}
