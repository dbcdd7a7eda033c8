package handlers

import (
	"context"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"pox-ledger.backend/internal/domain/entities"
	domainerrors "pox-ledger.backend/internal/domain/errors"
	"pox-ledger.backend/internal/interfaces/http/response"
)

type WalletService interface {
	CreateWallet(ctx context.Context, input *entities.CreateWalletInput) (*entities.Wallet, error)
	GetBalance(ctx context.Context, walletID string) (int64, error)
	Credit(ctx context.Context, walletID string, amountMicros int64, note string) error
	ListWallets(ctx context.Context, limit int) ([]*entities.Wallet, error)
	ListTransactions(ctx context.Context, walletID string, limit int) ([]*entities.Transaction, error)
}

// WalletHandler handles wallet endpoints
type WalletHandler struct {
	walletUsecase WalletService
}

// NewWalletHandler creates a new wallet handler
func NewWalletHandler(walletUsecase WalletService) *WalletHandler {
	return &WalletHandler{walletUsecase: walletUsecase}
}

// CreateWallet registers a wallet keyed by its public key
// POST /api/v1/wallets
func (h *WalletHandler) CreateWallet(c *gin.Context) {
	var input entities.CreateWalletInput
	if err := c.ShouldBindJSON(&input); err != nil {
		response.Error(c, domainerrors.BadRequest(err.Error()))
		return
	}

	wallet, err := h.walletUsecase.CreateWallet(c.Request.Context(), &input)
	if err != nil {
		if err == domainerrors.ErrAlreadyExists {
			response.Error(c, domainerrors.Conflict("wallet_exists", "Wallet already registered"))
			return
		}
		response.Error(c, err)
		return
	}

	response.Success(c, http.StatusCreated, gin.H{"wallet": wallet})
}

// GetBalance gets a wallet balance
// GET /api/v1/wallets/:id/balance
func (h *WalletHandler) GetBalance(c *gin.Context) {
	walletID := c.Param("id")

	balance, err := h.walletUsecase.GetBalance(c.Request.Context(), walletID)
	if err != nil {
		if err == domainerrors.ErrNotFound {
			response.Error(c, domainerrors.FromDomain(domainerrors.ErrWalletNotFound))
			return
		}
		response.Error(c, err)
		return
	}

	response.Success(c, http.StatusOK, gin.H{
		"wallet_id":      walletID,
		"balance_micros": balance,
	})
}

// Credit credits a wallet (operator faucet)
// POST /api/v1/wallets/:id/credit
func (h *WalletHandler) Credit(c *gin.Context) {
	walletID := c.Param("id")

	var input entities.CreditInput
	if err := c.ShouldBindJSON(&input); err != nil {
		response.Error(c, domainerrors.BadRequest(err.Error()))
		return
	}

	if err := h.walletUsecase.Credit(c.Request.Context(), walletID, input.AmountMicros, input.Note); err != nil {
		response.Error(c, err)
		return
	}

	balance, err := h.walletUsecase.GetBalance(c.Request.Context(), walletID)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, http.StatusOK, gin.H{
		"wallet_id":      walletID,
		"balance_micros": balance,
	})
}

// ListWallets lists registered wallets
// GET /api/v1/wallets
func (h *WalletHandler) ListWallets(c *gin.Context) {
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "50"))

	wallets, err := h.walletUsecase.ListWallets(c.Request.Context(), limit)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, http.StatusOK, gin.H{"wallets": wallets})
}

// ListTransactions lists a wallet's ledger log
// GET /api/v1/wallets/:id/transactions
func (h *WalletHandler) ListTransactions(c *gin.Context) {
	walletID := c.Param("id")
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "50"))

	transactions, err := h.walletUsecase.ListTransactions(c.Request.Context(), walletID, limit)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, http.StatusOK, gin.H{"transactions": transactions})
}
