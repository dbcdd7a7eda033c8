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

type EscrowService interface {
	CreateEscrow(ctx context.Context, input *entities.CreateEscrowInput) (*entities.Escrow, error)
	ReleaseEscrow(ctx context.Context, escrowID string, input *entities.ReleaseEscrowInput) (*entities.ReleaseEscrowResult, error)
	GetEscrow(ctx context.Context, escrowID string) (*entities.Escrow, error)
	ListEscrows(ctx context.Context, limit int) ([]*entities.Escrow, error)
}

// EscrowHandler handles escrow endpoints
type EscrowHandler struct {
	escrowUsecase EscrowService
}

// NewEscrowHandler creates a new escrow handler
func NewEscrowHandler(escrowUsecase EscrowService) *EscrowHandler {
	return &EscrowHandler{escrowUsecase: escrowUsecase}
}

// CreateEscrow locks payer funds into a new escrow
// POST /api/v1/escrows
func (h *EscrowHandler) CreateEscrow(c *gin.Context) {
	var input entities.CreateEscrowInput
	if err := c.ShouldBindJSON(&input); err != nil {
		response.Error(c, domainerrors.BadRequest(err.Error()))
		return
	}

	escrow, err := h.escrowUsecase.CreateEscrow(c.Request.Context(), &input)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, http.StatusCreated, gin.H{"escrow": escrow})
}

// ReleaseEscrow performs an evidence-gated release to the payee
// POST /api/v1/escrows/:id/release
func (h *EscrowHandler) ReleaseEscrow(c *gin.Context) {
	escrowID := c.Param("id")

	var input entities.ReleaseEscrowInput
	if err := c.ShouldBindJSON(&input); err != nil {
		response.Error(c, domainerrors.BadRequest(err.Error()))
		return
	}

	result, err := h.escrowUsecase.ReleaseEscrow(c.Request.Context(), escrowID, &input)
	if err != nil {
		if err == domainerrors.ErrNotFound {
			response.Error(c, domainerrors.NotFound("Escrow not found"))
			return
		}
		response.Error(c, err)
		return
	}

	response.Success(c, http.StatusOK, result)
}

// GetEscrow gets an escrow by ID
// GET /api/v1/escrows/:id
func (h *EscrowHandler) GetEscrow(c *gin.Context) {
	escrowID := c.Param("id")

	escrow, err := h.escrowUsecase.GetEscrow(c.Request.Context(), escrowID)
	if err != nil {
		if err == domainerrors.ErrNotFound {
			response.Error(c, domainerrors.NotFound("Escrow not found"))
			return
		}
		response.Error(c, err)
		return
	}

	response.Success(c, http.StatusOK, gin.H{"escrow": escrow})
}

// ListEscrows lists escrows
// GET /api/v1/escrows
func (h *EscrowHandler) ListEscrows(c *gin.Context) {
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "50"))

	escrows, err := h.escrowUsecase.ListEscrows(c.Request.Context(), limit)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, http.StatusOK, gin.H{"escrows": escrows})
}
