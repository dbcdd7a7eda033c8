package repositories

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"
	"pox-ledger.backend/internal/domain/entities"
	domainerrors "pox-ledger.backend/internal/domain/errors"
	"pox-ledger.backend/internal/infrastructure/models"
)

// BlockRepository implements the hash-chain block store
type BlockRepository struct {
	db *gorm.DB
}

// NewBlockRepository creates a new block repository
func NewBlockRepository(db *gorm.DB) *BlockRepository {
	return &BlockRepository{db: db}
}

// Create persists a sealed block. Height is the primary key, so two sealers
// computing the same next height cannot both commit.
func (r *BlockRepository) Create(ctx context.Context, block *entities.Block) error {
	block.CreatedAt = time.Now()

	ids, err := json.Marshal(block.ReceiptIDs)
	if err != nil {
		return fmt.Errorf("encode receipt ids: %w", err)
	}

	m := &models.Block{
		Height:     block.Height,
		Root:       block.Root,
		PrevRoot:   block.PrevRoot,
		ReceiptIDs: string(ids),
		CreatedAt:  block.CreatedAt,
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

// GetLatest returns the highest block, or ErrNotFound on an empty chain
func (r *BlockRepository) GetLatest(ctx context.Context) (*entities.Block, error) {
	var m models.Block
	db := GetDB(ctx, r.db)
	if err := db.WithContext(ctx).Order("height DESC").First(&m).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domainerrors.ErrNotFound
		}
		return nil, err
	}
	return r.toEntity(&m)
}

// GetRange returns blocks with fromHeight <= height <= toHeight, ascending
func (r *BlockRepository) GetRange(ctx context.Context, fromHeight, toHeight int64) ([]*entities.Block, error) {
	var ms []models.Block
	db := GetDB(ctx, r.db)
	if err := db.WithContext(ctx).
		Where("height >= ? AND height <= ?", fromHeight, toHeight).
		Order("height ASC").
		Find(&ms).Error; err != nil {
		return nil, err
	}
	return r.toEntities(ms)
}

// List lists blocks, highest first
func (r *BlockRepository) List(ctx context.Context, limit int) ([]*entities.Block, error) {
	var ms []models.Block
	db := GetDB(ctx, r.db)
	if err := db.WithContext(ctx).Order("height DESC").Limit(limit).Find(&ms).Error; err != nil {
		return nil, err
	}
	return r.toEntities(ms)
}

func (r *BlockRepository) toEntities(ms []models.Block) ([]*entities.Block, error) {
	blocks := make([]*entities.Block, 0, len(ms))
	for i := range ms {
		b, err := r.toEntity(&ms[i])
		if err != nil {
			return nil, err
		}
		blocks = append(blocks, b)
	}
	return blocks, nil
}

func (r *BlockRepository) toEntity(m *models.Block) (*entities.Block, error) {
	var ids []string
	if err := json.Unmarshal([]byte(m.ReceiptIDs), &ids); err != nil {
		return nil, fmt.Errorf("decode receipt ids for block %d: %w", m.Height, err)
	}
	return &entities.Block{
		Height:     m.Height,
		Root:       m.Root,
		PrevRoot:   m.PrevRoot,
		ReceiptIDs: ids,
		CreatedAt:  m.CreatedAt,
	}, nil
}
