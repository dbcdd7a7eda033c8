package repositories

import (
	"context"
	"time"

	"github.com/volatiletech/null/v8"
	"gorm.io/gorm"
	"pox-ledger.backend/internal/domain/entities"
	"pox-ledger.backend/internal/infrastructure/models"
)

// TransactionRepository implements the balance-mutation audit log
type TransactionRepository struct {
	db *gorm.DB
}

// NewTransactionRepository creates a new transaction repository
func NewTransactionRepository(db *gorm.DB) *TransactionRepository {
	return &TransactionRepository{db: db}
}

// Create appends a transaction log entry
func (r *TransactionRepository) Create(ctx context.Context, tx *entities.Transaction) error {
	tx.CreatedAt = time.Now()

	m := &models.Transaction{
		TxID:         tx.TxID,
		Type:         string(tx.Type),
		FromWallet:   tx.FromWallet.Ptr(),
		ToWallet:     tx.ToWallet.Ptr(),
		AmountMicros: tx.AmountMicros,
		Note:         tx.Note,
		Status:       tx.Status,
		CreatedAt:    tx.CreatedAt,
	}

	db := GetDB(ctx, r.db)
	return db.WithContext(ctx).Create(m).Error
}

// ListByWallet lists transactions touching the wallet, newest first
func (r *TransactionRepository) ListByWallet(ctx context.Context, walletID string, limit int) ([]*entities.Transaction, error) {
	var ms []models.Transaction
	db := GetDB(ctx, r.db)
	if err := db.WithContext(ctx).
		Where("from_wallet = ? OR to_wallet = ?", walletID, walletID).
		Order("created_at DESC").
		Limit(limit).
		Find(&ms).Error; err != nil {
		return nil, err
	}

	txs := make([]*entities.Transaction, 0, len(ms))
	for i := range ms {
		m := ms[i]
		txs = append(txs, &entities.Transaction{
			TxID:         m.TxID,
			Type:         entities.TransactionType(m.Type),
			FromWallet:   null.StringFromPtr(m.FromWallet),
			ToWallet:     null.StringFromPtr(m.ToWallet),
			AmountMicros: m.AmountMicros,
			Note:         m.Note,
			Status:       m.Status,
			CreatedAt:    m.CreatedAt,
		})
	}
	return txs, nil
}
