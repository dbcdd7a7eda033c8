package repositories

import (
	"context"

	"gorm.io/gorm"
	"pox-ledger.backend/internal/domain/entities"
	domainerrors "pox-ledger.backend/internal/domain/errors"
	"pox-ledger.backend/internal/infrastructure/models"
)

// ReceiptRepository implements the append-only receipt log
type ReceiptRepository struct {
	db *gorm.DB
}

// NewReceiptRepository creates a new receipt repository
func NewReceiptRepository(db *gorm.DB) *ReceiptRepository {
	return &ReceiptRepository{db: db}
}

// Create appends a receipt with an empty ledger root (unsealed marker)
func (r *ReceiptRepository) Create(ctx context.Context, receipt *entities.Receipt) error {
	m := &models.Receipt{
		ReceiptID:  receipt.ReceiptID,
		Type:       string(receipt.Type),
		RefID:      receipt.RefID,
		LedgerRoot: receipt.LedgerRoot,
		Timestamp:  receipt.Timestamp,
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

// GetPending returns unsealed receipts ordered by timestamp ascending
func (r *ReceiptRepository) GetPending(ctx context.Context) ([]*entities.Receipt, error) {
	var ms []models.Receipt
	db := GetDB(ctx, r.db)
	if err := db.WithContext(ctx).
		Where("ledger_root = ''").
		Order("timestamp ASC").
		Find(&ms).Error; err != nil {
		return nil, err
	}

	receipts := make([]*entities.Receipt, 0, len(ms))
	for i := range ms {
		receipts = append(receipts, r.toEntity(&ms[i]))
	}
	return receipts, nil
}

// MarkSealed stamps root onto the given receipts iff they are still
// unsealed. The ledger_root guard makes the stamp a conditional update:
// of two racing sealers only one can win every row.
func (r *ReceiptRepository) MarkSealed(ctx context.Context, receiptIDs []string, root string) (int64, error) {
	db := GetDB(ctx, r.db)
	result := db.WithContext(ctx).Model(&models.Receipt{}).
		Where("receipt_id IN ? AND ledger_root = ''", receiptIDs).
		Update("ledger_root", root)
	return result.RowsAffected, result.Error
}

// ExistsByRefID reports whether any receipt references refID
func (r *ReceiptRepository) ExistsByRefID(ctx context.Context, refID string) (bool, error) {
	var count int64
	db := GetDB(ctx, r.db)
	if err := db.WithContext(ctx).Model(&models.Receipt{}).
		Where("ref_id = ?", refID).
		Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

func (r *ReceiptRepository) toEntity(m *models.Receipt) *entities.Receipt {
	return &entities.Receipt{
		ReceiptID:  m.ReceiptID,
		Type:       entities.ReceiptType(m.Type),
		RefID:      m.RefID,
		LedgerRoot: m.LedgerRoot,
		Timestamp:  m.Timestamp,
	}
}
