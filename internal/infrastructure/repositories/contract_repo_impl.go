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

// ContractRepository implements contract storage
type ContractRepository struct {
	db *gorm.DB
}

// NewContractRepository creates a new contract repository
func NewContractRepository(db *gorm.DB) *ContractRepository {
	return &ContractRepository{db: db}
}

// Create persists a contract draft
func (r *ContractRepository) Create(ctx context.Context, contract *entities.Contract) error {
	contract.CreatedAt = time.Now()

	m := r.toModel(contract)
	m.CreatedAt = contract.CreatedAt

	db := GetDB(ctx, r.db)
	if err := db.WithContext(ctx).Create(m).Error; err != nil {
		if isDuplicateKey(err) {
			return domainerrors.ErrAlreadyExists
		}
		return err
	}
	return nil
}

// GetByHash gets a contract by content hash
func (r *ContractRepository) GetByHash(ctx context.Context, contractHash string) (*entities.Contract, error) {
	var m models.Contract
	db := GetDB(ctx, r.db)
	if err := db.WithContext(ctx).Where("contract_hash = ?", contractHash).First(&m).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domainerrors.ErrNotFound
		}
		return nil, err
	}
	return r.toEntity(&m), nil
}

// UpdateAcceptance persists acceptance flags and the computed deploy time
func (r *ContractRepository) UpdateAcceptance(ctx context.Context, contract *entities.Contract) error {
	db := GetDB(ctx, r.db)
	result := db.WithContext(ctx).Model(&models.Contract{}).
		Where("contract_hash = ?", contract.ContractHash).
		Updates(map[string]interface{}{
			"sender_accepted":   contract.SenderAccepted,
			"receiver_accepted": contract.ReceiverAccepted,
			"deploy_time":       contract.DeployTime.Ptr(),
		})

	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return domainerrors.ErrNotFound
	}
	return nil
}

// MarkDeployed flips status to deployed iff still pending. The status guard
// makes the transition one-way and single-winner.
func (r *ContractRepository) MarkDeployed(ctx context.Context, contractHash, signature string, deployedAt time.Time) error {
	db := GetDB(ctx, r.db)
	result := db.WithContext(ctx).Model(&models.Contract{}).
		Where("contract_hash = ? AND status = ?", contractHash, string(entities.ContractStatusPending)).
		Updates(map[string]interface{}{
			"status":      string(entities.ContractStatusDeployed),
			"signature":   signature,
			"deployed_at": deployedAt,
		})

	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return domainerrors.ErrContractNotDeployable
	}
	return nil
}

// GetDeployable returns pending, fully accepted contracts due for deployment
func (r *ContractRepository) GetDeployable(ctx context.Context, now time.Time, limit int) ([]*entities.Contract, error) {
	var ms []models.Contract
	db := GetDB(ctx, r.db)
	if err := db.WithContext(ctx).
		Where("status = ? AND sender_accepted = ? AND receiver_accepted = ? AND deploy_time IS NOT NULL AND deploy_time <= ?",
			string(entities.ContractStatusPending), true, true, now).
		Order("deploy_time ASC").
		Limit(limit).
		Find(&ms).Error; err != nil {
		return nil, err
	}

	contracts := make([]*entities.Contract, 0, len(ms))
	for i := range ms {
		contracts = append(contracts, r.toEntity(&ms[i]))
	}
	return contracts, nil
}

// List lists contracts, newest first
func (r *ContractRepository) List(ctx context.Context, limit int) ([]*entities.Contract, error) {
	var ms []models.Contract
	db := GetDB(ctx, r.db)
	if err := db.WithContext(ctx).Order("created_at DESC").Limit(limit).Find(&ms).Error; err != nil {
		return nil, err
	}

	contracts := make([]*entities.Contract, 0, len(ms))
	for i := range ms {
		contracts = append(contracts, r.toEntity(&ms[i]))
	}
	return contracts, nil
}

func (r *ContractRepository) toModel(c *entities.Contract) *models.Contract {
	return &models.Contract{
		ContractHash:     c.ContractHash,
		Template:         c.Template,
		Sender:           c.Sender,
		Receiver:         c.Receiver,
		AmountMicros:     c.AmountMicros,
		Trigger:          c.Trigger,
		Summary:          c.Summary,
		SenderAccepted:   c.SenderAccepted,
		ReceiverAccepted: c.ReceiverAccepted,
		DeployTime:       c.DeployTime.Ptr(),
		DeployedAt:       c.DeployedAt.Ptr(),
		Signature:        c.Signature.Ptr(),
		Status:           string(c.Status),
	}
}

func (r *ContractRepository) toEntity(m *models.Contract) *entities.Contract {
	return &entities.Contract{
		ContractHash:     m.ContractHash,
		Template:         m.Template,
		Sender:           m.Sender,
		Receiver:         m.Receiver,
		AmountMicros:     m.AmountMicros,
		Trigger:          m.Trigger,
		Summary:          m.Summary,
		SenderAccepted:   m.SenderAccepted,
		ReceiverAccepted: m.ReceiverAccepted,
		DeployTime:       null.TimeFromPtr(m.DeployTime),
		DeployedAt:       null.TimeFromPtr(m.DeployedAt),
		Signature:        null.StringFromPtr(m.Signature),
		Status:           entities.ContractStatus(m.Status),
		CreatedAt:        m.CreatedAt,
	}
}
