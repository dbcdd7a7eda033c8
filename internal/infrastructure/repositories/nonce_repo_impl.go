package repositories

import (
	"context"
	"time"

	"gorm.io/gorm"
	domainerrors "pox-ledger.backend/internal/domain/errors"
	"pox-ledger.backend/internal/infrastructure/models"
)

// NonceRepository implements at-most-once nonce consumption
type NonceRepository struct {
	db *gorm.DB
}

// NewNonceRepository creates a new nonce repository
func NewNonceRepository(db *gorm.DB) *NonceRepository {
	return &NonceRepository{db: db}
}

// Consume inserts the (wallet, nonce) pair. The unique index on the pair is
// the replay check; there is no separate read so there is nothing to race.
func (r *NonceRepository) Consume(ctx context.Context, walletID, nonce string) error {
	m := &models.Nonce{
		WalletID: walletID,
		Nonce:    nonce,
		UsedAt:   time.Now(),
	}

	db := GetDB(ctx, r.db)
	if err := db.WithContext(ctx).Create(m).Error; err != nil {
		if isDuplicateKey(err) {
			return domainerrors.ErrNonceUsed
		}
		return err
	}
	return nil
}
