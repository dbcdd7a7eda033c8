package jobs

import (
	"context"
	"log"
	"time"

	"pox-ledger.backend/internal/domain/entities"
)

type blockAnchorer interface {
	AnchorBlocks(ctx context.Context, input *entities.AnchorBlocksInput) (*entities.AnchorBlocksResult, error)
}

// AnchorJob periodically anchors all blocks sealed since the last anchor
type AnchorJob struct {
	anchorer blockAnchorer
	interval time.Duration
	stop     chan struct{}
}

func NewAnchorJob(anchorer blockAnchorer, interval time.Duration) *AnchorJob {
	return &AnchorJob{
		anchorer: anchorer,
		interval: interval,
		stop:     make(chan struct{}),
	}
}

func (j *AnchorJob) Start(ctx context.Context) {
	log.Println("🕐 Starting anchor job...")

	ticker := time.NewTicker(j.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			log.Println("⏹️ Anchor job stopped (context cancelled)")
			return
		case <-j.stop:
			log.Println("⏹️ Anchor job stopped")
			return
		case <-ticker.C:
			j.anchorOnce(ctx)
		}
	}
}

func (j *AnchorJob) Stop() {
	close(j.stop)
}

func (j *AnchorJob) anchorOnce(ctx context.Context) {
	if !acquireLock(ctx, "jobs:anchor", j.interval) {
		return
	}

	// Nil bounds: continue from the last anchored height on the default
	// chain.
	result, err := j.anchorer.AnchorBlocks(ctx, &entities.AnchorBlocksInput{})
	if err != nil {
		log.Printf("❌ Error anchoring blocks: %v", err)
		return
	}

	if result.Status != entities.AnchorStatusCreated {
		return
	}
	log.Printf("✅ Anchored blocks %d-%d on %s (%s)", result.From, result.To, result.Chain, result.AnchorID)
}
