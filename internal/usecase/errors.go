package usecase

import (
	"errors"
	"fmt"
	"net/http"
)

// エラー種別（レスポンスの code）
const (
	CodeValidation         = "VALIDATION_ERROR"
	CodeProductUnavailable = "PRODUCT_UNAVAILABLE"
	CodeInsufficientStock  = "INSUFFICIENT_STOCK"
	CodeInvalidTransition  = "INVALID_TRANSITION"
	CodeNotFound           = "NOT_FOUND"
	CodeUnauthorized       = "UNAUTHORIZED"
	CodeForbidden          = "FORBIDDEN"
	CodeConflict           = "CONFLICT"
	CodeInternal           = "INTERNAL"
)

type HTTPError struct {
	Status  int
	Code    string
	Message string
}

func (e *HTTPError) Error() string {
	return fmt.Sprintf("%d: %s", e.Status, e.Message)
}

// code はステータスから決める
func NewHTTPError(status int, message string) error {
	return &HTTPError{
		Status:  status,
		Code:    codeForStatus(status),
		Message: message,
	}
}

// 400 だが種別を区別したいとき
func NewCodedError(status int, code string, message string) error {
	return &HTTPError{
		Status:  status,
		Code:    code,
		Message: message,
	}
}

func AsHTTPError(err error) (*HTTPError, bool) {
	var he *HTTPError
	ok := errors.As(err, &he)
	return he, ok
}

func codeForStatus(status int) string {
	switch status {
	case http.StatusBadRequest:
		return CodeValidation
	case http.StatusUnauthorized:
		return CodeUnauthorized
	case http.StatusForbidden:
		return CodeForbidden
	case http.StatusNotFound:
		return CodeNotFound
	case http.StatusConflict:
		return CodeConflict
	default:
		return CodeInternal
	}
}

func errValidation(msg string) error { return NewHTTPError(http.StatusBadRequest, msg) }
func errNotFound(msg string) error   { return NewHTTPError(http.StatusNotFound, msg) }
func errConflict(msg string) error   { return NewHTTPError(http.StatusConflict, msg) }
func errDB() error                   { return NewHTTPError(http.StatusInternalServerError, "db error") }

func errUnauthorized() error { return NewHTTPError(http.StatusUnauthorized, "unauthorized") }
func errForbidden() error    { return NewHTTPError(http.StatusForbidden, "forbidden") }

func errTransition(msg string) error {
	return NewCodedError(http.StatusBadRequest, CodeInvalidTransition, msg)
}
