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

// AnchorRepository implements anchor commitment storage
type AnchorRepository struct {
	db *gorm.DB
}

// NewAnchorRepository creates a new anchor repository
func NewAnchorRepository(db *gorm.DB) *AnchorRepository {
	return &AnchorRepository{db: db}
}

// Create persists an anchor
func (r *AnchorRepository) Create(ctx context.Context, anchor *entities.Anchor) error {
	anchor.CreatedAt = time.Now()

	m := &models.Anchor{
		AnchorID:        anchor.AnchorID,
		Chain:           anchor.Chain,
		BlockHeightFrom: anchor.BlockHeightFrom,
		BlockHeightTo:   anchor.BlockHeightTo,
		MerkleRoot:      anchor.MerkleRoot,
		TxHash:          anchor.TxHash,
		CreatedAt:       anchor.CreatedAt,
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

// GetByAnchorID gets an anchor by its deterministic ID
func (r *AnchorRepository) GetByAnchorID(ctx context.Context, anchorID string) (*entities.Anchor, error) {
	var m models.Anchor
	db := GetDB(ctx, r.db)
	if err := db.WithContext(ctx).Where("anchor_id = ?", anchorID).First(&m).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domainerrors.ErrNotFound
		}
		return nil, err
	}
	return r.toEntity(&m), nil
}

// GetLatest returns the anchor with the highest covered height for chain
func (r *AnchorRepository) GetLatest(ctx context.Context, chain string) (*entities.Anchor, error) {
	var m models.Anchor
	db := GetDB(ctx, r.db)
	if err := db.WithContext(ctx).
		Where("chain = ?", chain).
		Order("block_height_to DESC").
		First(&m).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domainerrors.ErrNotFound
		}
		return nil, err
	}
	return r.toEntity(&m), nil
}

// HasOverlap reports whether any anchor on chain intersects the range
func (r *AnchorRepository) HasOverlap(ctx context.Context, chain string, fromHeight, toHeight int64) (bool, error) {
	var count int64
	db := GetDB(ctx, r.db)
	if err := db.WithContext(ctx).Model(&models.Anchor{}).
		Where("chain = ? AND block_height_from <= ? AND block_height_to >= ?", chain, toHeight, fromHeight).
		Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

// List lists anchors, newest first
func (r *AnchorRepository) List(ctx context.Context, limit int) ([]*entities.Anchor, error) {
	var ms []models.Anchor
	db := GetDB(ctx, r.db)
	if err := db.WithContext(ctx).Order("created_at DESC").Limit(limit).Find(&ms).Error; err != nil {
		return nil, err
	}

	anchors := make([]*entities.Anchor, 0, len(ms))
	for i := range ms {
		anchors = append(anchors, r.toEntity(&ms[i]))
	}
	return anchors, nil
}

func (r *AnchorRepository) toEntity(m *models.Anchor) *entities.Anchor {
	return &entities.Anchor{
		AnchorID:        m.AnchorID,
		Chain:           m.Chain,
		BlockHeightFrom: m.BlockHeightFrom,
		BlockHeightTo:   m.BlockHeightTo,
		MerkleRoot:      m.MerkleRoot,
		TxHash:          m.TxHash,
		CreatedAt:       m.CreatedAt,
	}
}
