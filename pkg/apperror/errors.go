package apperror

import (
	"errors"
	"fmt"
	"net/http"
)

// AppError is a structured error that maps to HTTP responses.
type AppError struct {
	Code       string `json:"error_code"`
	Message    string `json:"message"`
	HTTPStatus int    `json:"-"`
	Retryable  bool   `json:"-"` // Caller may retry with the same idempotency key
	Err        error  `json:"-"` // Wrapped internal error (not exposed to client)
}

func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("[%s] %s: %v", e.Code, e.Message, e.Err)
	}
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

func (e *AppError) Unwrap() error {
	return e.Err
}

// New creates a new AppError.
func New(code string, message string, httpStatus int) *AppError {
	return &AppError{
		Code:       code,
		Message:    message,
		HTTPStatus: httpStatus,
	}
}

// Wrap wraps an internal error with an AppError.
func Wrap(code string, message string, httpStatus int, err error) *AppError {
	return &AppError{
		Code:       code,
		Message:    message,
		HTTPStatus: httpStatus,
		Err:        err,
	}
}

// Error codes.
const (
	CodeInvalidAmount           = "LED_001"
	CodeAmountOverflow          = "LED_002"
	CodeWalletNotFound          = "LED_003"
	CodeInsufficientBalance     = "LED_004"
	CodeInvalidReservationState = "LED_005"
	CodeInvalidSettlementState  = "LED_006"
	CodeOrderNotFound           = "LED_007"
	CodeRefundNotFound          = "LED_008"
	CodeTransactionNotFound     = "LED_009"
	CodeDuplicateWallet         = "LED_010"

	CodeInternal           = "SYS_001"
	CodeStorageUnavailable = "SYS_002"

	CodeRateLimitExceeded = "RATE_001"
	CodeValidation        = "REQ_001"
)

// ---- Input (rejected before touching storage) ----

func ErrInvalidAmount(err error) *AppError {
	return Wrap(CodeInvalidAmount, "Invalid amount", http.StatusBadRequest, err)
}

func ErrAmountOverflow(err error) *AppError {
	return Wrap(CodeAmountOverflow, "Amount exceeds the configured bound", http.StatusBadRequest, err)
}

// ---- Domain rules (no partial effect) ----

func ErrWalletNotFound() *AppError {
	return New(CodeWalletNotFound, "Wallet not found", http.StatusNotFound)
}

func ErrInsufficientBalance() *AppError {
	return New(CodeInsufficientBalance, "Insufficient balance in wallet", http.StatusConflict)
}

func ErrInvalidReservationState() *AppError {
	return New(CodeInvalidReservationState, "Reserved balance does not cover the release", http.StatusConflict)
}

func ErrInvalidSettlementState(message string) *AppError {
	return New(CodeInvalidSettlementState, message, http.StatusConflict)
}

func ErrOrderNotFound() *AppError {
	return New(CodeOrderNotFound, "Order not found", http.StatusNotFound)
}

func ErrRefundNotFound() *AppError {
	return New(CodeRefundNotFound, "Refund not found", http.StatusNotFound)
}

func ErrTransactionNotFound() *AppError {
	return New(CodeTransactionNotFound, "Wallet transaction not found", http.StatusNotFound)
}

func ErrDuplicateWallet() *AppError {
	return New(CodeDuplicateWallet, "Shopper already has a wallet", http.StatusConflict)
}

// ---- Rate Limiting (RATE) ----

func ErrRateLimitExceeded() *AppError {
	return New(CodeRateLimitExceeded, "Rate limit exceeded", http.StatusTooManyRequests)
}

// ---- System & Infrastructure (SYS) ----

// ErrStorageUnavailable marks an infrastructure failure whose effect is
// unknown. Retrying is only safe with the same idempotency key.
func ErrStorageUnavailable(err error) *AppError {
	e := Wrap(CodeStorageUnavailable, "Ledger storage unavailable", http.StatusServiceUnavailable, err)
	e.Retryable = true
	return e
}

// InternalError wraps an internal error as a SYS_001 error.
func InternalError(err error) *AppError {
	return Wrap(CodeInternal, "Internal server error", http.StatusInternalServerError, err)
}

// Validation returns a request validation error.
func Validation(message string) *AppError {
	return New(CodeValidation, message, http.StatusBadRequest)
}

// HasCode reports whether err carries an AppError with the given code.
func HasCode(err error, code string) bool {
	var appErr *AppError
	return errors.As(err, &appErr) && appErr.Code == code
}

// IsRetryable reports whether err is an AppError marked retryable.
func IsRetryable(err error) bool {
	var appErr *AppError
	return errors.As(err, &appErr) && appErr.Retryable
}
