package usecases

import (
	"context"
	"errors"
	"strings"

	"go.uber.org/zap"
	"pox-ledger.backend/internal/domain/entities"
	domainerrors "pox-ledger.backend/internal/domain/errors"
	"pox-ledger.backend/internal/domain/repositories"
	"pox-ledger.backend/pkg/canonical"
	"pox-ledger.backend/pkg/digest"
	"pox-ledger.backend/pkg/logger"
	"pox-ledger.backend/pkg/metrics"
)

// AnchorUsecase commits contiguous ranges of sealed blocks to an external
// chain. The commitment is a digest over the range's block roots; the anchor
// ID is derived from the full commitment, so re-anchoring an identical range
// is a no-op rather than a duplicate.
type AnchorUsecase struct {
	anchorRepo   repositories.AnchorRepository
	blockRepo    repositories.BlockRepository
	defaultChain string
}

// NewAnchorUsecase creates a new anchor usecase
func NewAnchorUsecase(anchorRepo repositories.AnchorRepository, blockRepo repositories.BlockRepository, defaultChain string) *AnchorUsecase {
	return &AnchorUsecase{
		anchorRepo:   anchorRepo,
		blockRepo:    blockRepo,
		defaultChain: defaultChain,
	}
}

// AnchorBlocks anchors the selected block range. Nil bounds default to the
// first un-anchored height through the latest sealed block. Every outcome is
// reported through Status; only AnchorStatusCreated writes a record.
func (u *AnchorUsecase) AnchorBlocks(ctx context.Context, input *entities.AnchorBlocksInput) (*entities.AnchorBlocksResult, error) {
	chain := u.defaultChain
	if input != nil && input.Chain != "" {
		chain = input.Chain
	}

	latest, err := u.blockRepo.GetLatest(ctx)
	if err != nil {
		if errors.Is(err, domainerrors.ErrNotFound) {
			return &entities.AnchorBlocksResult{Status: entities.AnchorStatusNoBlocks}, nil
		}
		return nil, err
	}

	var from int64 = 1
	if input != nil && input.FromHeight != nil {
		from = *input.FromHeight
	} else {
		lastAnchor, aerr := u.anchorRepo.GetLatest(ctx, chain)
		if aerr != nil && !errors.Is(aerr, domainerrors.ErrNotFound) {
			return nil, aerr
		}
		if lastAnchor != nil {
			from = lastAnchor.BlockHeightTo + 1
		}
	}

	to := latest.Height
	if input != nil && input.ToHeight != nil {
		to = *input.ToHeight
	}

	if from > to {
		return &entities.AnchorBlocksResult{Status: entities.AnchorStatusNothingNew}, nil
	}

	blocks, err := u.blockRepo.GetRange(ctx, from, to)
	if err != nil {
		return nil, err
	}
	if len(blocks) == 0 {
		return &entities.AnchorBlocksResult{Status: entities.AnchorStatusNoBlocksInRange}, nil
	}

	merkleRoot, txHash, err := commitRange(blocks)
	if err != nil {
		return nil, err
	}

	payload, err := canonical.Marshal(map[string]interface{}{
		"chain":       chain,
		"from":        from,
		"to":          to,
		"merkle_root": merkleRoot,
		"tx_hash":     txHash,
	})
	if err != nil {
		return nil, err
	}
	anchorID := digest.Hex(payload)

	if existing, gerr := u.anchorRepo.GetByAnchorID(ctx, anchorID); gerr == nil {
		return alreadyAnchored(existing), nil
	} else if !errors.Is(gerr, domainerrors.ErrNotFound) {
		return nil, gerr
	}

	// A different commitment over an intersecting range is a caller error,
	// not idempotent replay.
	overlaps, err := u.anchorRepo.HasOverlap(ctx, chain, from, to)
	if err != nil {
		return nil, err
	}
	if overlaps {
		return &entities.AnchorBlocksResult{
			Status: entities.AnchorStatusRangeOverlap,
			Chain:  chain,
			From:   from,
			To:     to,
		}, nil
	}

	anchor := &entities.Anchor{
		AnchorID:        anchorID,
		Chain:           chain,
		BlockHeightFrom: from,
		BlockHeightTo:   to,
		MerkleRoot:      merkleRoot,
		TxHash:          txHash,
	}
	if err := u.anchorRepo.Create(ctx, anchor); err != nil {
		// Lost a race against an identical commitment.
		if errors.Is(err, domainerrors.ErrAlreadyExists) {
			return alreadyAnchored(anchor), nil
		}
		return nil, err
	}

	metrics.AnchorsCreated.Inc()
	logger.Info(ctx, "anchor created",
		zap.String("anchor_id", anchorID),
		zap.String("chain", chain),
		zap.Int64("from", from),
		zap.Int64("to", to),
	)

	return &entities.AnchorBlocksResult{
		Status:     entities.AnchorStatusCreated,
		AnchorID:   anchorID,
		Chain:      chain,
		From:       from,
		To:         to,
		MerkleRoot: merkleRoot,
		TxHash:     txHash,
		BlockCount: len(blocks),
	}, nil
}

// GetAnchor returns an anchor by its deterministic ID
func (u *AnchorUsecase) GetAnchor(ctx context.Context, anchorID string) (*entities.Anchor, error) {
	return u.anchorRepo.GetByAnchorID(ctx, anchorID)
}

// ListAnchors lists anchors, newest first
func (u *AnchorUsecase) ListAnchors(ctx context.Context, limit int) ([]*entities.Anchor, error) {
	if limit <= 0 {
		limit = 50
	}
	return u.anchorRepo.List(ctx, limit)
}

// commitRange derives the merkle root (digest over the concatenated block
// roots, ascending by height) and the simulated transaction hash (digest
// over the pipe-joined canonical block records).
func commitRange(blocks []*entities.Block) (merkleRoot, txHash string, err error) {
	var roots strings.Builder
	records := make([]string, 0, len(blocks))
	for _, b := range blocks {
		roots.WriteString(b.Root)

		payload, cerr := canonical.Marshal(map[string]interface{}{
			"height":    b.Height,
			"root":      b.Root,
			"prev_root": b.PrevRoot,
		})
		if cerr != nil {
			return "", "", cerr
		}
		records = append(records, string(payload))
	}

	merkleRoot = digest.HexString(roots.String())
	txHash = digest.HexString(strings.Join(records, "|"))
	return merkleRoot, txHash, nil
}

func alreadyAnchored(a *entities.Anchor) *entities.AnchorBlocksResult {
	return &entities.AnchorBlocksResult{
		Status:     entities.AnchorStatusAlreadyAnchored,
		AnchorID:   a.AnchorID,
		Chain:      a.Chain,
		From:       a.BlockHeightFrom,
		To:         a.BlockHeightTo,
		MerkleRoot: a.MerkleRoot,
		TxHash:     a.TxHash,
	}
}
