package dto

import (
	"net/http"
	"strings"
)

// Canonical error codes the HTTP layer answers with. Domain errors carry
// shorter internal codes; NormalizeErrorCode maps them onto these.
const (
	ErrCodeInternal   = "ERR_INTERNAL"
	ErrCodeValidation = "ERR_VALIDATION"

	ErrCodeUnauthorized = "ERR_UNAUTHORIZED"
	ErrCodeForbidden    = "ERR_FORBIDDEN"

	ErrCodeNotFound            = "ERR_NOT_FOUND"
	ErrCodeAlreadyExists       = "ERR_ALREADY_EXISTS"
	ErrCodeConflict            = "ERR_CONFLICT"
	ErrCodeConcurrencyConflict = "ERR_CONCURRENCY_CONFLICT"

	ErrCodeInvalidState      = "ERR_INVALID_STATE"
	ErrCodeInvalidTransition = "ERR_INVALID_TRANSITION"
	ErrCodeBusinessRule      = "ERR_BUSINESS_RULE"
	ErrCodeInsufficientStock = "ERR_INSUFFICIENT_STOCK"
	ErrCodeNegativeStock     = "ERR_NEGATIVE_STOCK"

	ErrCodeBadRequest   = "ERR_BAD_REQUEST"
	ErrCodeInvalidInput = "ERR_INVALID_INPUT"
)

// GetHTTPStatus picks the response status for a canonical error code.
// Unrecognized codes answer 500 so a missed mapping never leaks a 200.
func GetHTTPStatus(code string) int {
	switch code {
	case ErrCodeValidation, ErrCodeBadRequest, ErrCodeInvalidInput:
		return http.StatusBadRequest
	case ErrCodeUnauthorized:
		return http.StatusUnauthorized
	case ErrCodeForbidden:
		return http.StatusForbidden
	case ErrCodeNotFound:
		return http.StatusNotFound
	case ErrCodeAlreadyExists, ErrCodeConflict, ErrCodeConcurrencyConflict:
		return http.StatusConflict
	case ErrCodeInvalidState, ErrCodeInvalidTransition, ErrCodeBusinessRule,
		ErrCodeInsufficientStock, ErrCodeNegativeStock:
		return http.StatusUnprocessableEntity
	default:
		return http.StatusInternalServerError
	}
}

// NormalizeErrorCode maps a domain error code onto its canonical form.
// Exact matches win first, so INVALID_STATE and INVALID_TRANSITION keep
// their own codes; every other INVALID_* (INVALID_SKU, INVALID_QUANTITY,
// INVALID_MARGINS, ...) collapses to ERR_INVALID_INPUT.
func NormalizeErrorCode(code string) string {
	switch code {
	case "NOT_FOUND", "ENTRY_NOT_FOUND":
		return ErrCodeNotFound
	case "ALREADY_EXISTS":
		return ErrCodeAlreadyExists
	case "CONCURRENCY_CONFLICT", "OPTIMISTIC_LOCK_FAILED":
		return ErrCodeConcurrencyConflict
	case "INVALID_STATE", "INVALID_STATUS":
		return ErrCodeInvalidState
	case "INVALID_TRANSITION":
		return ErrCodeInvalidTransition
	case "INSUFFICIENT_STOCK":
		return ErrCodeInsufficientStock
	case "NEGATIVE_STOCK":
		return ErrCodeNegativeStock
	case "UNAUTHORIZED":
		return ErrCodeUnauthorized
	case "FORBIDDEN":
		return ErrCodeForbidden
	case "VALIDATION_ERROR":
		return ErrCodeValidation
	case "BAD_REQUEST":
		return ErrCodeBadRequest
	case "INTERNAL_ERROR", "RENDER_FAILED", "ARCHIVE_FAILED":
		return ErrCodeInternal
	}
	if strings.HasPrefix(code, "INVALID_") {
		return ErrCodeInvalidInput
	}
	return code
}
