package repositories

import (
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := fmt.Sprintf("file:%s_%d?mode=memory&cache=shared", t.Name(), time.Now().UnixNano())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	require.NoError(t, err, "open sqlite")
	return db
}

func mustExec(t *testing.T, db *gorm.DB, q string, args ...interface{}) {
	t.Helper()
	require.NoError(t, db.Exec(q, args...).Error, "exec failed: query=%s", q)
}

func createWalletTable(t *testing.T, db *gorm.DB) {
	mustExec(t, db, `CREATE TABLE wallets (
		wallet_id TEXT PRIMARY KEY,
		public_key TEXT UNIQUE NOT NULL,
		label TEXT,
		balance_micros INTEGER NOT NULL DEFAULT 0,
		created_at DATETIME
	);`)
}

func createNonceTable(t *testing.T, db *gorm.DB) {
	mustExec(t, db, `CREATE TABLE nonces (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		wallet_id TEXT NOT NULL,
		nonce TEXT NOT NULL,
		used_at DATETIME,
		UNIQUE(wallet_id, nonce)
	);`)
}

func createTransactionTable(t *testing.T, db *gorm.DB) {
	mustExec(t, db, `CREATE TABLE transactions (
		tx_id TEXT PRIMARY KEY,
		type TEXT NOT NULL,
		from_wallet TEXT,
		to_wallet TEXT,
		amount_micros INTEGER NOT NULL,
		note TEXT,
		status TEXT NOT NULL,
		created_at DATETIME
	);`)
}

func createPaymentTable(t *testing.T, db *gorm.DB) {
	mustExec(t, db, `CREATE TABLE payments (
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
	);`)
}

func createReceiptTable(t *testing.T, db *gorm.DB) {
	mustExec(t, db, `CREATE TABLE receipts (
		receipt_id TEXT PRIMARY KEY,
		type TEXT NOT NULL,
		ref_id TEXT NOT NULL,
		ledger_root TEXT NOT NULL DEFAULT '',
		timestamp DATETIME
	);`)
}

func createBlockTable(t *testing.T, db *gorm.DB) {
	mustExec(t, db, `CREATE TABLE blocks (
		height INTEGER PRIMARY KEY,
		root TEXT NOT NULL,
		prev_root TEXT NOT NULL,
		receipt_ids TEXT NOT NULL,
		created_at DATETIME
	);`)
}

func createEscrowTable(t *testing.T, db *gorm.DB) {
	mustExec(t, db, `CREATE TABLE escrows (
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
	);`)
}

func createAnchorTable(t *testing.T, db *gorm.DB) {
	mustExec(t, db, `CREATE TABLE anchors (
		anchor_id TEXT PRIMARY KEY,
		chain TEXT NOT NULL,
		block_height_from INTEGER NOT NULL,
		block_height_to INTEGER NOT NULL,
		merkle_root TEXT NOT NULL,
		tx_hash TEXT NOT NULL,
		created_at DATETIME
	);`)
}

func createContractTable(t *testing.T, db *gorm.DB) {
	mustExec(t, db, `CREATE TABLE contracts (
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
	);`)
}

// createLedgerTables creates everything the settlement flow touches
func createLedgerTables(t *testing.T, db *gorm.DB) {
	createWalletTable(t, db)
	createNonceTable(t, db)
	createTransactionTable(t, db)
	createPaymentTable(t, db)
	createReceiptTable(t, db)
	createBlockTable(t, db)
}
