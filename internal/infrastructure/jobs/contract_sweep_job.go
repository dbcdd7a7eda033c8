package jobs

import (
	"context"
	"log"
	"time"
)

type contractSweeper interface {
	SweepDeployable(ctx context.Context, limit int) (int, error)
}

// ContractSweepJob periodically deploys pending contracts whose deploy time
// has passed
type ContractSweepJob struct {
	sweeper  contractSweeper
	interval time.Duration
	stop     chan struct{}
}

func NewContractSweepJob(sweeper contractSweeper, interval time.Duration) *ContractSweepJob {
	return &ContractSweepJob{
		sweeper:  sweeper,
		interval: interval,
		stop:     make(chan struct{}),
	}
}

func (j *ContractSweepJob) Start(ctx context.Context) {
	log.Println("🕐 Starting contract sweep job...")

	ticker := time.NewTicker(j.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			log.Println("⏹️ Contract sweep job stopped (context cancelled)")
			return
		case <-j.stop:
			log.Println("⏹️ Contract sweep job stopped")
			return
		case <-ticker.C:
			j.sweepOnce(ctx)
		}
	}
}

func (j *ContractSweepJob) Stop() {
	close(j.stop)
}

func (j *ContractSweepJob) sweepOnce(ctx context.Context) {
	if !acquireLock(ctx, "jobs:contract_sweep", j.interval) {
		return
	}

	deployed, err := j.sweeper.SweepDeployable(ctx, 100)
	if err != nil {
		log.Printf("❌ Error sweeping contracts: %v", err)
		return
	}
	if deployed > 0 {
		log.Printf("✅ Deployed %d scheduled contracts", deployed)
	}
}
