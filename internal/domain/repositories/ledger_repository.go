package repositories

import (
	"context"

	"pox-ledger.backend/internal/domain/entities"
)

// PaymentRepository defines payment record operations
type PaymentRepository interface {
	Create(ctx context.Context, payment *entities.Payment) error
	GetByPoxID(ctx context.Context, poxID string) (*entities.Payment, error)
	List(ctx context.Context, limit int) ([]*entities.Payment, error)
}

// ReceiptRepository defines receipt log operations. Receipts are append-only;
// the single permitted mutation is stamping the ledger root when sealing.
type ReceiptRepository interface {
	Create(ctx context.Context, receipt *entities.Receipt) error
	// GetPending returns receipts with an empty ledger root, ordered by
	// timestamp ascending.
	GetPending(ctx context.Context) ([]*entities.Receipt, error)
	// MarkSealed stamps root onto the given receipts iff they are still
	// unsealed, and reports how many rows it won. A concurrent sealer that
	// selected an overlapping set wins fewer rows than it asked for and must
	// roll back.
	MarkSealed(ctx context.Context, receiptIDs []string, root string) (int64, error)
	ExistsByRefID(ctx context.Context, refID string) (bool, error)
}

// BlockRepository defines block chain-store operations
type BlockRepository interface {
	Create(ctx context.Context, block *entities.Block) error
	GetLatest(ctx context.Context) (*entities.Block, error)
	GetRange(ctx context.Context, fromHeight, toHeight int64) ([]*entities.Block, error)
	List(ctx context.Context, limit int) ([]*entities.Block, error)
}

// AnchorRepository defines anchor commitment operations
type AnchorRepository interface {
	Create(ctx context.Context, anchor *entities.Anchor) error
	GetByAnchorID(ctx context.Context, anchorID string) (*entities.Anchor, error)
	GetLatest(ctx context.Context, chain string) (*entities.Anchor, error)
	// HasOverlap reports whether any anchor on chain intersects
	// [fromHeight, toHeight].
	HasOverlap(ctx context.Context, chain string, fromHeight, toHeight int64) (bool, error)
	List(ctx context.Context, limit int) ([]*entities.Anchor, error)
}
