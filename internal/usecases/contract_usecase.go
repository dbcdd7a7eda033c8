package usecases

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	ethcrypto "github.com/ethereum/go-ethereum/crypto"
	"github.com/volatiletech/null/v8"
	"go.uber.org/zap"
	"pox-ledger.backend/internal/domain/entities"
	domainerrors "pox-ledger.backend/internal/domain/errors"
	"pox-ledger.backend/internal/domain/repositories"
	"pox-ledger.backend/pkg/canonical"
	"pox-ledger.backend/pkg/digest"
	"pox-ledger.backend/pkg/logger"
	"pox-ledger.backend/pkg/redis"
)

const deployResultTTL = 24 * time.Hour

// ContractUsecase manages two-party transfer agreements: draft, mutual
// acceptance, and the one-way deployment that settles the transfer.
type ContractUsecase struct {
	contractRepo  repositories.ContractRepository
	walletUsecase *WalletUsecase
	ledgerUsecase *LedgerUsecase
	uow           repositories.UnitOfWork
	now           func() time.Time
}

// NewContractUsecase creates a new contract usecase
func NewContractUsecase(contractRepo repositories.ContractRepository, walletUsecase *WalletUsecase, ledgerUsecase *LedgerUsecase, uow repositories.UnitOfWork) *ContractUsecase {
	return &ContractUsecase{
		contractRepo:  contractRepo,
		walletUsecase: walletUsecase,
		ledgerUsecase: ledgerUsecase,
		uow:           uow,
		now:           time.Now,
	}
}

// CreateContract drafts a contract. The hash is a keccak over the canonical
// terms, so identical terms always hash to the same contract.
func (u *ContractUsecase) CreateContract(ctx context.Context, input *entities.CreateContractInput) (*entities.Contract, error) {
	payload, err := canonical.Marshal(map[string]interface{}{
		"template":      input.Template,
		"sender":        input.Sender,
		"receiver":      input.Receiver,
		"amount_micros": input.AmountMicros,
		"trigger":       input.Trigger,
		"summary":       input.Summary,
	})
	if err != nil {
		return nil, err
	}
	contractHash := ethcrypto.Keccak256Hash(payload).Hex()

	contract := &entities.Contract{
		ContractHash: contractHash,
		Template:     input.Template,
		Sender:       input.Sender,
		Receiver:     input.Receiver,
		AmountMicros: input.AmountMicros,
		Trigger:      input.Trigger,
		Summary:      input.Summary,
		Status:       entities.ContractStatusPending,
	}

	if err := u.contractRepo.Create(ctx, contract); err != nil {
		return nil, err
	}
	return contract, nil
}

// AcceptContract records one party's acceptance. When both parties have
// accepted, the deploy time is fixed from the trigger: approval deploys
// immediately, 24h and auto deploy one and two days out.
func (u *ContractUsecase) AcceptContract(ctx context.Context, input *entities.AcceptContractInput) (*entities.Contract, error) {
	contract, err := u.contractRepo.GetByHash(ctx, input.ContractHash)
	if err != nil {
		return nil, err
	}
	if contract.Status != entities.ContractStatusPending {
		return nil, domainerrors.ErrContractNotDeployable
	}

	switch input.WalletID {
	case contract.Sender:
		contract.SenderAccepted = true
	case contract.Receiver:
		contract.ReceiverAccepted = true
	default:
		return nil, domainerrors.ErrForbidden
	}

	if contract.SenderAccepted && contract.ReceiverAccepted && !contract.DeployTime.Valid {
		now := u.now()
		switch contract.Trigger {
		case entities.ContractTrigger24h:
			contract.DeployTime = null.TimeFrom(now.Add(24 * time.Hour))
		case entities.ContractTriggerAuto:
			contract.DeployTime = null.TimeFrom(now.Add(48 * time.Hour))
		default:
			contract.DeployTime = null.TimeFrom(now)
		}
	}

	if err := u.contractRepo.UpdateAcceptance(ctx, contract); err != nil {
		return nil, err
	}
	return contract, nil
}

// DeployContract settles a fully accepted contract exactly once: debit the
// sender, credit the receiver, flip the status, append the deploy receipt.
//
// The caller must supply an idempotency key. A retried call with the same key
// returns the recorded result without touching the ledger; a concurrent call
// racing past the cache is stopped by the conditional status flip instead.
func (u *ContractUsecase) DeployContract(ctx context.Context, contractHash, idempotencyKey string) (*entities.DeployContractResult, error) {
	if idempotencyKey == "" {
		return nil, domainerrors.ErrIdempotencyKeyRequired
	}

	cacheKey := "contract:deploy:" + idempotencyKey
	if cached, err := redis.Get(ctx, cacheKey); err == nil && cached != "" {
		var result entities.DeployContractResult
		if jerr := json.Unmarshal([]byte(cached), &result); jerr == nil {
			return &result, nil
		}
	}

	contract, err := u.contractRepo.GetByHash(ctx, contractHash)
	if err != nil {
		return nil, err
	}
	if contract.Status != entities.ContractStatusPending ||
		!contract.SenderAccepted || !contract.ReceiverAccepted ||
		!contract.DeployTime.Valid || contract.DeployTime.Time.After(u.now()) {
		return nil, domainerrors.ErrContractNotDeployable
	}

	now := u.now()
	signature := fmt.Sprintf("sig_%s_%d", contractHash[:12], now.UnixMilli())

	var receiptID string
	err = u.uow.Do(ctx, func(txCtx context.Context) error {
		if err := u.contractRepo.MarkDeployed(txCtx, contractHash, signature, now); err != nil {
			return err
		}
		if err := u.walletUsecase.Debit(txCtx, contract.Sender, contract.AmountMicros, "Contract settlement debit"); err != nil {
			return err
		}
		if err := u.walletUsecase.Credit(txCtx, contract.Receiver, contract.AmountMicros, "Contract settlement credit"); err != nil {
			return err
		}

		contract.Signature = null.StringFrom(signature)
		contract.Status = entities.ContractStatusDeployed
		contract.DeployedAt = null.TimeFrom(now)

		refID, rerr := contractReceiptRef(contract)
		if rerr != nil {
			return rerr
		}
		rid, rerr := u.ledgerUsecase.AppendReceipt(txCtx, entities.ReceiptTypeContractDeploy, refID, now)
		if rerr != nil {
			return rerr
		}
		receiptID = rid
		return nil
	})
	if err != nil {
		return nil, err
	}

	result := &entities.DeployContractResult{
		ContractHash: contractHash,
		Signature:    signature,
		ReceiptID:    receiptID,
		Status:       string(entities.ContractStatusDeployed),
	}

	if encoded, jerr := json.Marshal(result); jerr == nil {
		if cerr := redis.Set(ctx, cacheKey, encoded, deployResultTTL); cerr != nil {
			logger.Warn(ctx, "failed to cache deploy result", zap.Error(cerr))
		}
	}

	logger.Info(ctx, "contract deployed",
		zap.String("contract_hash", contractHash),
		zap.String("receipt_id", receiptID),
	)
	return result, nil
}

// SweepDeployable deploys every pending, fully accepted contract whose deploy
// time has passed. Returns the number of contracts deployed. Used by the
// periodic sweep job; per-contract failures are logged and skipped so one bad
// contract cannot stall the rest.
func (u *ContractUsecase) SweepDeployable(ctx context.Context, limit int) (int, error) {
	ready, err := u.contractRepo.GetDeployable(ctx, u.now(), limit)
	if err != nil {
		return 0, err
	}

	deployed := 0
	for _, contract := range ready {
		// The sweep key makes every pass of the sweeper idempotent per
		// contract.
		if _, err := u.DeployContract(ctx, contract.ContractHash, "sweep:"+contract.ContractHash); err != nil {
			if errors.Is(err, domainerrors.ErrContractNotDeployable) {
				continue
			}
			logger.Error(ctx, "sweep deploy failed",
				zap.String("contract_hash", contract.ContractHash),
				zap.Error(err),
			)
			continue
		}
		deployed++
	}
	return deployed, nil
}

// GetContract returns a contract by its content hash
func (u *ContractUsecase) GetContract(ctx context.Context, contractHash string) (*entities.Contract, error) {
	return u.contractRepo.GetByHash(ctx, contractHash)
}

// ListContracts lists contracts, newest first
func (u *ContractUsecase) ListContracts(ctx context.Context, limit int) ([]*entities.Contract, error) {
	if limit <= 0 {
		limit = 50
	}
	return u.contractRepo.List(ctx, limit)
}

// contractReceiptRef derives the receipt reference for a deployment from the
// deployed contract's canonical record and its content hash.
func contractReceiptRef(contract *entities.Contract) (string, error) {
	raw, err := json.Marshal(contract)
	if err != nil {
		return "", err
	}
	c, err := canonical.MarshalRaw(raw)
	if err != nil {
		return "", err
	}
	return digest.HexString("contract|" + digest.Hex(c) + "|" + contract.ContractHash), nil
}
