package usecases

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"pox-ledger.backend/internal/domain/entities"
	domainRepos "pox-ledger.backend/internal/domain/repositories"
	infrarepos "pox-ledger.backend/internal/infrastructure/repositories"
	"pox-ledger.backend/pkg/logger"
)

// ledgerFixture wires the full usecase stack against an in-memory sqlite
// store, mirroring the production wiring in cmd/server.
type ledgerFixture struct {
	db           *gorm.DB
	uow          domainRepos.UnitOfWork
	walletRepo   domainRepos.WalletRepository
	receiptRepo  domainRepos.ReceiptRepository
	blockRepo    domainRepos.BlockRepository
	escrowRepo   domainRepos.EscrowRepository
	contractRepo domainRepos.ContractRepository

	wallets   *WalletUsecase
	ledger    *LedgerUsecase
	payments  *PaymentUsecase
	escrows   *EscrowUsecase
	anchors   *AnchorUsecase
	contracts *ContractUsecase
}

func newLedgerFixture(t *testing.T) *ledgerFixture {
	t.Helper()
	logger.Init("test")

	dsn := fmt.Sprintf("file:%s_%d?mode=memory&cache=shared", t.Name(), time.Now().UnixNano())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	require.NoError(t, err, "open sqlite")
	createTables(t, db)

	walletRepo := infrarepos.NewWalletRepository(db)
	nonceRepo := infrarepos.NewNonceRepository(db)
	txRepo := infrarepos.NewTransactionRepository(db)
	paymentRepo := infrarepos.NewPaymentRepository(db)
	receiptRepo := infrarepos.NewReceiptRepository(db)
	blockRepo := infrarepos.NewBlockRepository(db)
	escrowRepo := infrarepos.NewEscrowRepository(db)
	anchorRepo := infrarepos.NewAnchorRepository(db)
	contractRepo := infrarepos.NewContractRepository(db)
	uow := infrarepos.NewUnitOfWork(db)

	wallets := NewWalletUsecase(walletRepo, txRepo, uow)
	ledger := NewLedgerUsecase(receiptRepo, blockRepo, uow)

	return &ledgerFixture{
		db:           db,
		uow:          uow,
		walletRepo:   walletRepo,
		receiptRepo:  receiptRepo,
		blockRepo:    blockRepo,
		escrowRepo:   escrowRepo,
		contractRepo: contractRepo,
		wallets:      wallets,
		ledger:       ledger,
		payments:     NewPaymentUsecase(paymentRepo, nonceRepo, wallets, ledger, uow),
		escrows:      NewEscrowUsecase(escrowRepo, receiptRepo, wallets, ledger, uow),
		anchors:      NewAnchorUsecase(anchorRepo, blockRepo, "base-sepolia"),
		contracts:    NewContractUsecase(contractRepo, wallets, ledger, uow),
	}
}

// fundedWallet registers a wallet for publicKey and credits it
func (f *ledgerFixture) fundedWallet(t *testing.T, publicKey string, balance int64) string {
	t.Helper()
	ctx := context.Background()

	w, err := f.wallets.CreateWallet(ctx, &entities.CreateWalletInput{PublicKey: publicKey})
	require.NoError(t, err)
	if balance > 0 {
		require.NoError(t, f.wallets.Credit(ctx, w.WalletID, balance, ""))
	}
	return w.WalletID
}

func (f *ledgerFixture) balance(t *testing.T, walletID string) int64 {
	t.Helper()
	b, err := f.wallets.GetBalance(context.Background(), walletID)
	require.NoError(t, err)
	return b
}

func createTables(t *testing.T, db *gorm.DB) {
	t.Helper()
	for _, q := range []string{
		`CREATE TABLE wallets (
			wallet_id TEXT PRIMARY KEY,
			public_key TEXT UNIQUE NOT NULL,
			label TEXT,
			balance_micros INTEGER NOT NULL DEFAULT 0,
			created_at DATETIME
		);`,
		`CREATE TABLE nonces (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			wallet_id TEXT NOT NULL,
			nonce TEXT NOT NULL,
			used_at DATETIME,
			UNIQUE(wallet_id, nonce)
		);`,
		`CREATE TABLE transactions (
			tx_id TEXT PRIMARY KEY,
			type TEXT NOT NULL,
			from_wallet TEXT,
			to_wallet TEXT,
			amount_micros INTEGER NOT NULL,
			note TEXT,
			status TEXT NOT NULL,
			created_at DATETIME
		);`,
		`CREATE TABLE payments (
			pox_id TEXT PRIMARY KEY,
			from_wallet TEXT NOT NULL,
			to_wallet TEXT NOT NULL,
			amount_micros INTEGER NOT NULL,
			nonce TEXT NOT NULL,
			timestamp TEXT,
			ref TEXT,
			signature TEXT NOT NULL,
			status TEXT NOT NULL,
			created_at DATETIME
		);`,
		`CREATE TABLE receipts (
			receipt_id TEXT PRIMARY KEY,
			type TEXT NOT NULL,
			ref_id TEXT NOT NULL,
			ledger_root TEXT NOT NULL DEFAULT '',
			timestamp DATETIME
		);`,
		`CREATE TABLE blocks (
			height INTEGER PRIMARY KEY,
			root TEXT NOT NULL,
			prev_root TEXT NOT NULL,
			receipt_ids TEXT NOT NULL,
			created_at DATETIME
		);`,
		`CREATE TABLE escrows (
			escrow_id TEXT PRIMARY KEY,
			payer TEXT NOT NULL,
			payee TEXT NOT NULL,
			amount_micros INTEGER NOT NULL,
			balance_micros INTEGER NOT NULL,
			condition_type TEXT NOT NULL,
			condition_count INTEGER NOT NULL DEFAULT 1,
			ref_prefix TEXT NOT NULL,
			state TEXT NOT NULL,
			payer_sig TEXT,
			expires_at DATETIME,
			created_at DATETIME
		);`,
		`CREATE TABLE anchors (
			anchor_id TEXT PRIMARY KEY,
			chain TEXT NOT NULL,
			block_height_from INTEGER NOT NULL,
			block_height_to INTEGER NOT NULL,
			merkle_root TEXT NOT NULL,
			tx_hash TEXT NOT NULL,
			created_at DATETIME
		);`,
		`CREATE TABLE contracts (
			contract_hash TEXT PRIMARY KEY,
			template TEXT NOT NULL,
			sender TEXT NOT NULL,
			receiver TEXT NOT NULL,
			amount_micros INTEGER NOT NULL,
			"trigger" TEXT NOT NULL,
			summary TEXT NOT NULL,
			sender_accepted BOOLEAN NOT NULL DEFAULT 0,
			receiver_accepted BOOLEAN NOT NULL DEFAULT 0,
			deploy_time DATETIME,
			deployed_at DATETIME,
			signature TEXT,
			status TEXT NOT NULL,
			created_at DATETIME
		);`,
	} {
		require.NoError(t, db.Exec(q).Error, "create table: %s", q)
	}
}
