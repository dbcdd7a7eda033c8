package repositories

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"
	"pox-ledger.backend/internal/domain/entities"
	domainerrors "pox-ledger.backend/internal/domain/errors"
	"pox-ledger.backend/internal/infrastructure/models"
)

// WalletRepository implements wallet data operations
type WalletRepository struct {
	db *gorm.DB
}

// NewWalletRepository creates a new wallet repository
func NewWalletRepository(db *gorm.DB) *WalletRepository {
	return &WalletRepository{db: db}
}

// Create creates a new wallet
func (r *WalletRepository) Create(ctx context.Context, wallet *entities.Wallet) error {
	wallet.CreatedAt = time.Now()

	m := &models.Wallet{
		WalletID:      wallet.WalletID,
		PublicKey:     wallet.PublicKey,
		Label:         wallet.Label,
		BalanceMicros: wallet.BalanceMicros,
		CreatedAt:     wallet.CreatedAt,
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

// GetByID gets a wallet by its derived ID
func (r *WalletRepository) GetByID(ctx context.Context, walletID string) (*entities.Wallet, error) {
	var m models.Wallet
	db := GetDB(ctx, r.db)
	if err := db.WithContext(ctx).Where("wallet_id = ?", walletID).First(&m).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domainerrors.ErrWalletNotFound
		}
		return nil, err
	}
	return r.toEntity(&m), nil
}

// GetByPublicKey gets a wallet by public key
func (r *WalletRepository) GetByPublicKey(ctx context.Context, publicKey string) (*entities.Wallet, error) {
	var m models.Wallet
	db := GetDB(ctx, r.db)
	if err := db.WithContext(ctx).Where("public_key = ?", publicKey).First(&m).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domainerrors.ErrWalletNotFound
		}
		return nil, err
	}
	return r.toEntity(&m), nil
}

// AddBalance applies delta to the wallet balance in a single conditional
// update. The WHERE clause carries the non-negativity invariant, so a
// concurrent mutation on the same wallet can never drive it below zero.
func (r *WalletRepository) AddBalance(ctx context.Context, walletID string, delta int64) error {
	db := GetDB(ctx, r.db)
	result := db.WithContext(ctx).Model(&models.Wallet{}).
		Where("wallet_id = ? AND balance_micros + ? >= 0", walletID, delta).
		Update("balance_micros", gorm.Expr("balance_micros + ?", delta))

	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		// Distinguish a missing wallet from an overdraft. The existence
		// probe is only for the error code; the guard above stays the
		// source of truth.
		var count int64
		if err := db.WithContext(ctx).Model(&models.Wallet{}).
			Where("wallet_id = ?", walletID).Count(&count).Error; err != nil {
			return err
		}
		if count == 0 {
			return domainerrors.ErrWalletNotFound
		}
		return domainerrors.ErrInsufficientBalance
	}
	return nil
}

// List lists wallets, newest first
func (r *WalletRepository) List(ctx context.Context, limit int) ([]*entities.Wallet, error) {
	var ms []models.Wallet
	db := GetDB(ctx, r.db)
	if err := db.WithContext(ctx).Order("created_at DESC").Limit(limit).Find(&ms).Error; err != nil {
		return nil, err
	}

	wallets := make([]*entities.Wallet, 0, len(ms))
	for i := range ms {
		wallets = append(wallets, r.toEntity(&ms[i]))
	}
	return wallets, nil
}

func (r *WalletRepository) toEntity(m *models.Wallet) *entities.Wallet {
	return &entities.Wallet{
		WalletID:      m.WalletID,
		PublicKey:     m.PublicKey,
		Label:         m.Label,
		BalanceMicros: m.BalanceMicros,
		CreatedAt:     m.CreatedAt,
	}
}
