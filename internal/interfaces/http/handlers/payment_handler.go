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

type PaymentService interface {
	SubmitPayment(ctx context.Context, input *entities.SubmitPaymentInput) (*entities.SubmitPaymentResult, error)
	GetPayment(ctx context.Context, poxID string) (*entities.Payment, error)
	ListPayments(ctx context.Context, limit int) ([]*entities.Payment, error)
}

// PaymentHandler handles signed payment endpoints
type PaymentHandler struct {
	paymentUsecase PaymentService
}

// NewPaymentHandler creates a new payment handler
func NewPaymentHandler(paymentUsecase PaymentService) *PaymentHandler {
	return &PaymentHandler{paymentUsecase: paymentUsecase}
}

// SubmitPayment settles a signed payment instruction
// POST /api/v1/payments
func (h *PaymentHandler) SubmitPayment(c *gin.Context) {
	var input entities.SubmitPaymentInput
	if err := c.ShouldBindJSON(&input); err != nil {
		response.Error(c, domainerrors.BadRequest(err.Error()))
		return
	}

	result, err := h.paymentUsecase.SubmitPayment(c.Request.Context(), &input)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, http.StatusCreated, result)
}

// GetPayment gets a settled payment by its pox ID
// GET /api/v1/payments/:id
func (h *PaymentHandler) GetPayment(c *gin.Context) {
	poxID := c.Param("id")

	payment, err := h.paymentUsecase.GetPayment(c.Request.Context(), poxID)
	if err != nil {
		if err == domainerrors.ErrNotFound {
			response.Error(c, domainerrors.NotFound("Payment not found"))
			return
		}
		response.Error(c, err)
		return
	}

	response.Success(c, http.StatusOK, gin.H{"payment": payment})
}

// ListPayments lists settled payments
// GET /api/v1/payments
func (h *PaymentHandler) ListPayments(c *gin.Context) {
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "50"))

	payments, err := h.paymentUsecase.ListPayments(c.Request.Context(), limit)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, http.StatusOK, gin.H{"payments": payments})
}
