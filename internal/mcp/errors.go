package mcp

import (
	"errors"
	"fmt"
)

var (
	// ErrUnauthorized indicates a missing or unknown bearer token.
	ErrUnauthorized = errors.New("unauthorized")
	// ErrInvalidInput indicates a malformed tool call.
	ErrInvalidInput = errors.New("invalid input")
)

// APIError represents an MCP error response.
type APIError struct {
	Code         string `json:"code"`
	Message      string `json:"message"`
	RecoveryHint string `json:"recovery_hint,omitempty"`
	err          error
}

func (e *APIError) Error() string {
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *APIError) Unwrap() error { return e.err }

// MapError maps errors to MCP error codes. Turn handling never fails, so
// only protocol-level errors reach here.
func MapError(err error) *APIError {
	if err == nil {
		return nil
	}
	var apiErr *APIError
	switch {
	case errors.As(err, &apiErr):
		return apiErr
	case errors.Is(err, ErrUnauthorized):
		return &APIError{Code: "UNAUTHORIZED", Message: err.Error(), RecoveryHint: "Send Authorization: Bearer <token>", err: err}
	case errors.Is(err, ErrInvalidInput):
		return &APIError{Code: "INVALID_INPUT", Message: err.Error(), RecoveryHint: "Read sommelier://docs/intents", err: err}
	default:
		return &APIError{Code: "INTERNAL", Message: err.Error(), err: err}
	}
}
