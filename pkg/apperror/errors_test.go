package apperror

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestAppError_Error(t *testing.T) {
	tests := []struct {
		name     string
		appErr   *AppError
		expected string
	}{
		{
			name:     "without wrapped error",
			appErr:   New("LED_004", "Insufficient balance", http.StatusConflict),
			expected: "[LED_004] Insufficient balance",
		},
		{
			name:     "with wrapped error",
			appErr:   Wrap("SYS_001", "DB error", http.StatusInternalServerError, fmt.Errorf("connection refused")),
			expected: "[SYS_001] DB error: connection refused",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, tt.appErr.Error())
		})
	}
}

func TestAppError_Unwrap(t *testing.T) {
	inner := fmt.Errorf("inner error")
	appErr := Wrap("SYS_001", "wrapped", http.StatusInternalServerError, inner)

	assert.True(t, errors.Is(appErr, inner))
}

func TestAppError_IsNilUnwrap(t *testing.T) {
	appErr := New("LED_003", "test", http.StatusNotFound)
	assert.Nil(t, appErr.Unwrap())
}

func TestLedgerErrors(t *testing.T) {
	tests := []struct {
		name       string
		err        *AppError
		code       string
		httpStatus int
	}{
		{"InvalidAmount", ErrInvalidAmount(nil), CodeInvalidAmount, 400},
		{"AmountOverflow", ErrAmountOverflow(nil), CodeAmountOverflow, 400},
		{"WalletNotFound", ErrWalletNotFound(), CodeWalletNotFound, 404},
		{"InsufficientBalance", ErrInsufficientBalance(), CodeInsufficientBalance, 409},
		{"InvalidReservationState", ErrInvalidReservationState(), CodeInvalidReservationState, 409},
		{"InvalidSettlementState", ErrInvalidSettlementState("order already paid out"), CodeInvalidSettlementState, 409},
		{"OrderNotFound", ErrOrderNotFound(), CodeOrderNotFound, 404},
		{"RefundNotFound", ErrRefundNotFound(), CodeRefundNotFound, 404},
		{"TransactionNotFound", ErrTransactionNotFound(), CodeTransactionNotFound, 404},
		{"DuplicateWallet", ErrDuplicateWallet(), CodeDuplicateWallet, 409},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.code, tt.err.Code)
			assert.Equal(t, tt.httpStatus, tt.err.HTTPStatus)
			assert.False(t, tt.err.Retryable, "domain errors are definitive")
		})
	}
}

func TestSystemErrors(t *testing.T) {
	inner := fmt.Errorf("pg: connection closed")

	internal := InternalError(inner)
	assert.Equal(t, "SYS_001", internal.Code)
	assert.Equal(t, 500, internal.HTTPStatus)
	assert.True(t, errors.Is(internal, inner))
	assert.False(t, IsRetryable(internal))

	storage := ErrStorageUnavailable(inner)
	assert.Equal(t, "SYS_002", storage.Code)
	assert.Equal(t, 503, storage.HTTPStatus)
	assert.True(t, IsRetryable(storage))
}

func TestHasCode(t *testing.T) {
	wrapped := fmt.Errorf("reserve: %w", ErrInsufficientBalance())

	assert.True(t, HasCode(wrapped, CodeInsufficientBalance))
	assert.False(t, HasCode(wrapped, CodeWalletNotFound))
	assert.False(t, HasCode(errors.New("plain"), CodeInsufficientBalance))
	assert.False(t, HasCode(nil, CodeInsufficientBalance))
}

func TestIsRetryable_Wrapped(t *testing.T) {
	err := fmt.Errorf("credit: %w", ErrStorageUnavailable(errors.New("timeout")))
	assert.True(t, IsRetryable(err))
	assert.False(t, IsRetryable(errors.New("plain")))
}

func TestRateLimitError(t *testing.T) {
	err := ErrRateLimitExceeded()
	assert.Equal(t, "RATE_001", err.Code)
	assert.Equal(t, 429, err.HTTPStatus)
}

func TestValidation(t *testing.T) {
	err := Validation("amount is required")
	assert.Equal(t, CodeValidation, err.Code)
	assert.Contains(t, err.Message, "amount")
}
