package errors

import (
	"errors"
	"net/http"
)

// Domain errors
var (
	ErrNotFound               = errors.New("resource not found")
	ErrAlreadyExists          = errors.New("resource already exists")
	ErrBadRequest             = errors.New("bad request")
	ErrForbidden              = errors.New("forbidden")
	ErrInvalidSignature       = errors.New("invalid signature")
	ErrNonceUsed              = errors.New("nonce already used")
	ErrInsufficientBalance    = errors.New("insufficient balance")
	ErrWalletNotFound         = errors.New("wallet not found")
	ErrEscrowNotActive        = errors.New("escrow not active")
	ErrEscrowEmpty            = errors.New("escrow empty")
	ErrEvidenceMissing        = errors.New("evidence missing")
	ErrEvidencePrefixMismatch = errors.New("evidence prefix mismatch")
	ErrEvidenceNotFound       = errors.New("evidence not found")
	ErrContractNotDeployable  = errors.New("contract not deployable")
	ErrIdempotencyKeyRequired = errors.New("idempotency key required")
)

// AppError is an application error carrying an HTTP status and a stable
// string code for boundary callers
type AppError struct {
	Status  int    `json:"-"`
	Code    string `json:"code"`
	Message string `json:"message"`
	Err     error  `json:"-"`
}

func (e *AppError) Error() string {
	if e.Err != nil {
		return e.Err.Error()
	}
	return e.Message
}

func (e *AppError) Unwrap() error {
	return e.Err
}

// NewAppError creates a new app error
func NewAppError(status int, code, message string, err error) *AppError {
	return &AppError{
		Status:  status,
		Code:    code,
		Message: message,
		Err:     err,
	}
}

// Common error constructors
func NotFound(message string) *AppError {
	return NewAppError(http.StatusNotFound, "not_found", message, ErrNotFound)
}

func BadRequest(message string) *AppError {
	return NewAppError(http.StatusBadRequest, "bad_request", message, ErrBadRequest)
}

func Conflict(code, message string) *AppError {
	return NewAppError(http.StatusConflict, code, message, ErrAlreadyExists)
}

func Forbidden(message string) *AppError {
	return NewAppError(http.StatusForbidden, "forbidden", message, ErrForbidden)
}

func InternalError(err error) *AppError {
	return NewAppError(http.StatusInternalServerError, "internal_error", "internal server error", err)
}

// FromDomain maps a sentinel domain error onto its boundary representation.
// Unknown errors surface as internal: expected business conditions all have
// sentinels, anything else is a store failure.
func FromDomain(err error) *AppError {
	switch {
	case errors.Is(err, ErrInvalidSignature):
		return NewAppError(http.StatusBadRequest, "invalid_sig", "signature verification failed", err)
	case errors.Is(err, ErrNonceUsed):
		return NewAppError(http.StatusConflict, "nonce_used", "nonce already consumed", err)
	case errors.Is(err, ErrInsufficientBalance):
		return NewAppError(http.StatusPaymentRequired, "insufficient_balance", "insufficient balance", err)
	case errors.Is(err, ErrWalletNotFound):
		return NewAppError(http.StatusNotFound, "wallet_not_found", "wallet not found", err)
	case errors.Is(err, ErrEscrowNotActive):
		return NewAppError(http.StatusConflict, "escrow_not_active", "escrow not active", err)
	case errors.Is(err, ErrEscrowEmpty):
		return NewAppError(http.StatusConflict, "escrow_empty", "escrow balance exhausted", err)
	case errors.Is(err, ErrEvidenceMissing):
		return NewAppError(http.StatusBadRequest, "evidence_missing", "evidence reference required", err)
	case errors.Is(err, ErrEvidencePrefixMismatch):
		return NewAppError(http.StatusBadRequest, "evidence_prefix_mismatch", "evidence reference does not match the escrow conditions", err)
	case errors.Is(err, ErrEvidenceNotFound):
		return NewAppError(http.StatusNotFound, "evidence_not_found", "no receipt found for the escrow", err)
	case errors.Is(err, ErrContractNotDeployable):
		return NewAppError(http.StatusConflict, "contract_not_deployable", "contract is not ready for deployment", err)
	case errors.Is(err, ErrIdempotencyKeyRequired):
		return NewAppError(http.StatusBadRequest, "idempotency_key_required", "Idempotency-Key header required", err)
	case errors.Is(err, ErrAlreadyExists):
		return NewAppError(http.StatusConflict, "already_exists", "resource already exists", err)
	case errors.Is(err, ErrNotFound):
		return NotFound("resource not found")
	case errors.Is(err, ErrBadRequest):
		return BadRequest("bad request")
	default:
		return InternalError(err)
	}
}
