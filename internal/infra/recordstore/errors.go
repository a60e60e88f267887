package recordstore

import (
	"errors"
	"fmt"
)

type ErrorCode string

const (
	CodeRateLimited    ErrorCode = "RATE_LIMITED"
	CodeNotFound       ErrorCode = "NOT_FOUND"
	CodeInvalidRequest ErrorCode = "INVALID_REQUEST"
	CodeServerError    ErrorCode = "SERVER_ERROR"
	CodeTimeout        ErrorCode = "TIMEOUT"
)

// StoreError is the terminal error type of the Record Client. Detail from the
// store (status + body excerpt) survives retries untouched.
type StoreError struct {
	Code      ErrorCode
	Status    int
	Message   string
	Retryable bool
}

func (e *StoreError) Error() string {
	if e.Status > 0 {
		return fmt.Sprintf("record store: %s (status %d): %s", e.Code, e.Status, e.Message)
	}
	return fmt.Sprintf("record store: %s: %s", e.Code, e.Message)
}

func AsStoreError(err error) (*StoreError, bool) {
	var se *StoreError
	if errors.As(err, &se) {
		return se, true
	}
	return nil, false
}

func IsNotFound(err error) bool {
	se, ok := AsStoreError(err)
	return ok && se.Code == CodeNotFound
}

func classifyStatus(status int, body string) *StoreError {
	switch {
	case status == 429:
		return &StoreError{Code: CodeRateLimited, Status: status, Message: body, Retryable: true}
	case status == 404:
		return &StoreError{Code: CodeNotFound, Status: status, Message: body}
	case status >= 500:
		return &StoreError{Code: CodeServerError, Status: status, Message: body, Retryable: true}
	default:
		// 400, 401, 403, 422: the request itself is bad, retrying won't help.
		return &StoreError{Code: CodeInvalidRequest, Status: status, Message: body}
	}
}
