package handlers

import (
	"context"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"pox-ledger.backend/internal/domain/entities"
	domainerrors "pox-ledger.backend/internal/domain/errors"
	"pox-ledger.backend/internal/interfaces/http/middleware"
	"pox-ledger.backend/internal/interfaces/http/response"
)

type ContractService interface {
	CreateContract(ctx context.Context, input *entities.CreateContractInput) (*entities.Contract, error)
	AcceptContract(ctx context.Context, input *entities.AcceptContractInput) (*entities.Contract, error)
	DeployContract(ctx context.Context, contractHash, idempotencyKey string) (*entities.DeployContractResult, error)
	GetContract(ctx context.Context, contractHash string) (*entities.Contract, error)
	ListContracts(ctx context.Context, limit int) ([]*entities.Contract, error)
}

// ContractHandler handles contract endpoints
type ContractHandler struct {
	contractUsecase ContractService
}

// NewContractHandler creates a new contract handler
func NewContractHandler(contractUsecase ContractService) *ContractHandler {
	return &ContractHandler{contractUsecase: contractUsecase}
}

// CreateContract drafts a contract
// POST /api/v1/contracts
func (h *ContractHandler) CreateContract(c *gin.Context) {
	var input entities.CreateContractInput
	if err := c.ShouldBindJSON(&input); err != nil {
		response.Error(c, domainerrors.BadRequest(err.Error()))
		return
	}

	contract, err := h.contractUsecase.CreateContract(c.Request.Context(), &input)
	if err != nil {
		if err == domainerrors.ErrAlreadyExists {
			response.Error(c, domainerrors.Conflict("contract_exists", "Contract with identical terms already exists"))
			return
		}
		response.Error(c, err)
		return
	}

	response.Success(c, http.StatusCreated, gin.H{"contract": contract})
}

// AcceptContract records a party's acceptance
// POST /api/v1/contracts/accept
func (h *ContractHandler) AcceptContract(c *gin.Context) {
	var input entities.AcceptContractInput
	if err := c.ShouldBindJSON(&input); err != nil {
		response.Error(c, domainerrors.BadRequest(err.Error()))
		return
	}

	contract, err := h.contractUsecase.AcceptContract(c.Request.Context(), &input)
	if err != nil {
		if err == domainerrors.ErrNotFound {
			response.Error(c, domainerrors.NotFound("Contract not found"))
			return
		}
		response.Error(c, err)
		return
	}

	response.Success(c, http.StatusOK, gin.H{"contract": contract})
}

// DeployContract settles a fully accepted contract. The Idempotency-Key
// header is mandatory here: retried deploys must not settle twice.
// POST /api/v1/contracts/deploy
func (h *ContractHandler) DeployContract(c *gin.Context) {
	var input entities.DeployContractInput
	if err := c.ShouldBindJSON(&input); err != nil {
		response.Error(c, domainerrors.BadRequest(err.Error()))
		return
	}

	key := c.GetHeader(middleware.IdempotencyHeader)

	result, err := h.contractUsecase.DeployContract(c.Request.Context(), input.ContractHash, key)
	if err != nil {
		if err == domainerrors.ErrNotFound {
			response.Error(c, domainerrors.NotFound("Contract not found"))
			return
		}
		response.Error(c, err)
		return
	}

	response.Success(c, http.StatusOK, result)
}

// GetContract gets a contract by content hash
// GET /api/v1/contracts/:hash
func (h *ContractHandler) GetContract(c *gin.Context) {
	contractHash := c.Param("hash")

	contract, err := h.contractUsecase.GetContract(c.Request.Context(), contractHash)
	if err != nil {
		if err == domainerrors.ErrNotFound {
			response.Error(c, domainerrors.NotFound("Contract not found"))
			return
		}
		response.Error(c, err)
		return
	}

	response.Success(c, http.StatusOK, gin.H{"contract": contract})
}

// ListContracts lists contracts
// GET /api/v1/contracts
func (h *ContractHandler) ListContracts(c *gin.Context) {
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "50"))

	contracts, err := h.contractUsecase.ListContracts(c.Request.Context(), limit)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, http.StatusOK, gin.H{"contracts": contracts})
}
