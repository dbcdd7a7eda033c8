package entities

import "time"

// Anchor statuses. Only AnchorStatusCreated persists a record; the rest are
// idempotent no-ops signalling that no work was needed.
const (
	AnchorStatusCreated         = "anchor_created"
	AnchorStatusAlreadyAnchored = "already_anchored"
	AnchorStatusNothingNew      = "nothing_new_to_anchor"
	AnchorStatusNoBlocks        = "no_blocks_in_chain"
	AnchorStatusNoBlocksInRange = "no_blocks_found_in_range"
	AnchorStatusRangeOverlap    = "range_already_anchored"
)

// Anchor commits a contiguous range of sealed blocks to an external chain
// through a merkle-style root. Recomputing the same range yields the same
// AnchorID, which makes creation idempotent.
type Anchor struct {
	AnchorID        string    `json:"anchor_id"`
	Chain           string    `json:"chain"`
	BlockHeightFrom int64     `json:"block_height_from"`
	BlockHeightTo   int64     `json:"block_height_to"`
	MerkleRoot      string    `json:"merkle_root"`
	TxHash          string    `json:"tx_hash"`
	CreatedAt       time.Time `json:"created_at"`
}

// AnchorBlocksInput selects the range to anchor. Nil heights default to
// (last anchored + 1) .. latest sealed block.
type AnchorBlocksInput struct {
	FromHeight *int64 `json:"from_height"`
	ToHeight   *int64 `json:"to_height"`
	Chain      string `json:"chain"`
}

// AnchorBlocksResult reports the anchoring outcome
type AnchorBlocksResult struct {
	Status     string `json:"status"`
	AnchorID   string `json:"anchor_id,omitempty"`
	Chain      string `json:"chain,omitempty"`
	From       int64  `json:"from,omitempty"`
	To         int64  `json:"to,omitempty"`
	MerkleRoot string `json:"merkle_root,omitempty"`
	TxHash     string `json:"tx_hash,omitempty"`
	BlockCount int    `json:"block_count,omitempty"`
}
