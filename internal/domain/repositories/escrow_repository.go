package repositories

import (
	"context"
	"time"

	"pox-ledger.backend/internal/domain/entities"
)

// EscrowRepository defines escrow state-machine storage
type EscrowRepository interface {
	Create(ctx context.Context, escrow *entities.Escrow) error
	GetByID(ctx context.Context, escrowID string) (*entities.Escrow, error)
	// UpdateRelease decrements the balance and moves the state in one
	// statement, guarded on the expected prior balance so concurrent
	// releases cannot both win the same funds.
	UpdateRelease(ctx context.Context, escrowID string, expectedBalance, newBalance int64, state entities.EscrowState) error
	UpdateState(ctx context.Context, escrowID string, state entities.EscrowState) error
	List(ctx context.Context, limit int) ([]*entities.Escrow, error)
}

// ContractRepository defines contract draft/deploy storage
type ContractRepository interface {
	Create(ctx context.Context, contract *entities.Contract) error
	GetByHash(ctx context.Context, contractHash string) (*entities.Contract, error)
	UpdateAcceptance(ctx context.Context, contract *entities.Contract) error
	// MarkDeployed flips status to deployed iff it is still pending,
	// returning ErrContractNotDeployable when another caller won.
	MarkDeployed(ctx context.Context, contractHash, signature string, deployedAt time.Time) error
	// GetDeployable returns pending, fully accepted contracts whose deploy
	// time has passed.
	GetDeployable(ctx context.Context, now time.Time, limit int) ([]*entities.Contract, error)
	List(ctx context.Context, limit int) ([]*entities.Contract, error)
}

// UnitOfWork defines the interface for atomic multi-repository operations
type UnitOfWork interface {
	// Do executes the given function within a transaction scope
	Do(ctx context.Context, fn func(ctx context.Context) error) error
}
