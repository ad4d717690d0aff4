package dto

import (
	"net/http"
	"strings"
)

// Error codes raised by the HTTP layer itself
const (
	ErrCodeBadRequest   = "BAD_REQUEST"
	ErrCodeValidation   = "VALIDATION_ERROR"
	ErrCodeUnauthorized = "UNAUTHORIZED"
	ErrCodeForbidden    = "FORBIDDEN"
	ErrCodeNotFound     = "NOT_FOUND"
	ErrCodeRateLimited  = "RATE_LIMITED"
	ErrCodeInternal     = "INTERNAL_ERROR"
)

// errorCodeHTTPStatus maps domain error codes to HTTP status codes. Codes
// not listed fall back to the suffix rules in GetHTTPStatus.
var errorCodeHTTPStatus = map[string]int{
	ErrCodeBadRequest:   http.StatusBadRequest,
	ErrCodeValidation:   http.StatusBadRequest,
	ErrCodeRateLimited:  http.StatusTooManyRequests,
	ErrCodeInternal:     http.StatusInternalServerError,
	"PASSWORD_HASH_ERROR": http.StatusInternalServerError,

	// Authentication
	ErrCodeUnauthorized:   http.StatusUnauthorized,
	"INVALID_CREDENTIALS": http.StatusUnauthorized,
	"TOKEN_EXPIRED":       http.StatusUnauthorized,
	"TOKEN_INVALID":       http.StatusUnauthorized,
	"TOKEN_REVOKED":       http.StatusUnauthorized,

	// Authorization
	ErrCodeForbidden:      http.StatusForbidden,
	"ACCOUNT_DEACTIVATED": http.StatusForbidden,
	"ADDRESS_NOT_OWNED":   http.StatusForbidden,
	"ORDER_NOT_OWNED":     http.StatusForbidden,

	// Conflicts
	"ALREADY_EXISTS":          http.StatusConflict,
	"CONCURRENCY_CONFLICT":    http.StatusConflict,
	"PERMISSION_EXISTS":       http.StatusConflict,
	"ALREADY_VOTED":           http.StatusConflict,
	"DUPLICATE_ORDER_LINE":    http.StatusConflict,
	"VOUCHER_ALREADY_APPLIED": http.StatusConflict,

	// Business rules
	"INVALID_STATUS_TRANSITION": http.StatusUnprocessableEntity,
	"INVALID_STATE":             http.StatusUnprocessableEntity,
	"INVALID_EXPORT_STATE":      http.StatusUnprocessableEntity,
	"ORDER_NOT_EDITABLE":        http.StatusUnprocessableEntity,
	"EMPTY_ORDER":               http.StatusUnprocessableEntity,
	"PRODUCT_INACTIVE":          http.StatusUnprocessableEntity,
	"TICKET_CLOSED":             http.StatusUnprocessableEntity,
	"EXPORT_NOT_READY":          http.StatusUnprocessableEntity,
	"OWN_REVIEW_VOTE":           http.StatusUnprocessableEntity,
	"VOUCHER_INACTIVE":          http.StatusUnprocessableEntity,
	"VOUCHER_NOT_STARTED":       http.StatusUnprocessableEntity,
	"VOUCHER_EXPIRED":           http.StatusUnprocessableEntity,
	"VOUCHER_EXHAUSTED":         http.StatusUnprocessableEntity,
	"VOUCHER_IN_USE":            http.StatusUnprocessableEntity,
	"ALREADY_ACTIVE":            http.StatusUnprocessableEntity,
	"ALREADY_INACTIVE":          http.StatusUnprocessableEntity,
}

// GetHTTPStatus returns the HTTP status for a domain error code. Unlisted
// codes are classified by naming convention: *_NOT_FOUND is 404, *_TAKEN
// is 409, INVALID_* is 400, anything else is 500.
func GetHTTPStatus(code string) int {
	if status, ok := errorCodeHTTPStatus[code]; ok {
		return status
	}
	switch {
	case code == ErrCodeNotFound, strings.HasSuffix(code, "_NOT_FOUND"):
		return http.StatusNotFound
	case strings.HasSuffix(code, "_TAKEN"):
		return http.StatusConflict
	case strings.HasPrefix(code, "INVALID_"):
		return http.StatusBadRequest
	}
	return http.StatusInternalServerError
}
