package handlers

import (
	"context"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"pox-ledger.backend/internal/domain/entities"
	"pox-ledger.backend/internal/interfaces/http/response"
)

type LedgerService interface {
	SealBlock(ctx context.Context) (*entities.SealResult, error)
	ListBlocks(ctx context.Context, limit int) ([]*entities.Block, error)
}

// LedgerHandler handles block chain endpoints
type LedgerHandler struct {
	ledgerUsecase LedgerService
}

// NewLedgerHandler creates a new ledger handler
func NewLedgerHandler(ledgerUsecase LedgerService) *LedgerHandler {
	return &LedgerHandler{ledgerUsecase: ledgerUsecase}
}

// SealBlock seals all pending receipts into the next block
// POST /api/v1/blocks/seal
func (h *LedgerHandler) SealBlock(c *gin.Context) {
	result, err := h.ledgerUsecase.SealBlock(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}

	if result == nil {
		response.Success(c, http.StatusOK, gin.H{"status": "nothing_to_seal"})
		return
	}

	response.Success(c, http.StatusCreated, result)
}

// ListBlocks lists sealed blocks
// GET /api/v1/blocks
func (h *LedgerHandler) ListBlocks(c *gin.Context) {
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "20"))

	blocks, err := h.ledgerUsecase.ListBlocks(c.Request.Context(), limit)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, http.StatusOK, gin.H{"blocks": blocks})
}
