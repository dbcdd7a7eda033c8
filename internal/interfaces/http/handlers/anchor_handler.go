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

type AnchorService interface {
	AnchorBlocks(ctx context.Context, input *entities.AnchorBlocksInput) (*entities.AnchorBlocksResult, error)
	GetAnchor(ctx context.Context, anchorID string) (*entities.Anchor, error)
	ListAnchors(ctx context.Context, limit int) ([]*entities.Anchor, error)
}

// AnchorHandler handles block-range anchoring endpoints
type AnchorHandler struct {
	anchorUsecase AnchorService
}

// NewAnchorHandler creates a new anchor handler
func NewAnchorHandler(anchorUsecase AnchorService) *AnchorHandler {
	return &AnchorHandler{anchorUsecase: anchorUsecase}
}

// AnchorBlocks anchors a range of sealed blocks
// POST /api/v1/anchors
func (h *AnchorHandler) AnchorBlocks(c *gin.Context) {
	var input entities.AnchorBlocksInput
	if err := c.ShouldBindJSON(&input); err != nil {
		response.Error(c, domainerrors.BadRequest(err.Error()))
		return
	}

	result, err := h.anchorUsecase.AnchorBlocks(c.Request.Context(), &input)
	if err != nil {
		response.Error(c, err)
		return
	}

	status := http.StatusOK
	if result.Status == entities.AnchorStatusCreated {
		status = http.StatusCreated
	}
	response.Success(c, status, result)
}

// GetAnchor gets an anchor by ID
// GET /api/v1/anchors/:id
func (h *AnchorHandler) GetAnchor(c *gin.Context) {
	anchorID := c.Param("id")

	anchor, err := h.anchorUsecase.GetAnchor(c.Request.Context(), anchorID)
	if err != nil {
		if err == domainerrors.ErrNotFound {
			response.Error(c, domainerrors.NotFound("Anchor not found"))
			return
		}
		response.Error(c, err)
		return
	}

	response.Success(c, http.StatusOK, gin.H{"anchor": anchor})
}

// ListAnchors lists anchors
// GET /api/v1/anchors
func (h *AnchorHandler) ListAnchors(c *gin.Context) {
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "50"))

	anchors, err := h.anchorUsecase.ListAnchors(c.Request.Context(), limit)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, http.StatusOK, gin.H{"anchors": anchors})
}
