package util

import (
	"errors"
	"fmt"
	"net/http"
)

// DomainError standardizes application errors.
type DomainError struct {
	Code       string
	Message    string
	HTTPStatus int
	Details    map[string]any
	Err        error
}

func (e *DomainError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *DomainError) Unwrap() error {
	return e.Err
}

// NewDomainError constructs a DomainError.
func NewDomainError(code, message string, status int, details map[string]any) *DomainError {
	return &DomainError{Code: code, Message: message, HTTPStatus: status, Details: details}
}

func NewValidationError(message string, details map[string]any) error {
	return NewDomainError("VALIDATION_FAILED", message, http.StatusBadRequest, details)
}

func NewNotFound(resource string, details map[string]any) error {
	if details == nil {
		details = map[string]any{}
	}
	return &DomainError{
		Code:       "NOT_FOUND",
		Message:    fmt.Sprintf("%s not found", resource),
		HTTPStatus: http.StatusNotFound,
		Details:    details,
	}
}

func NewUnauthorized(message string) error {
	return NewDomainError("UNAUTHORIZED", message, http.StatusUnauthorized, nil)
}

func NewForbidden(message string) error {
	return NewDomainError("FORBIDDEN", message, http.StatusForbidden, nil)
}

func NewConflict(message string, details map[string]any) error {
	return NewDomainError("CONFLICT", message, http.StatusConflict, details)
}

// NewMissingTechnicians flags groups with assigned tickets but no crew.
// Surfaced before any store write.
func NewMissingTechnicians(groups []string) error {
	return NewDomainError("MISSING_TECHNICIANS",
		"groups with assignments require at least one technician",
		http.StatusUnprocessableEntity,
		map[string]any{"groups": groups})
}

// NewStaleTickets reports planned tickets that are no longer pending. Only
// used in strict commits; the default path drops them and proceeds.
func NewStaleTickets(ids []string) error {
	return NewDomainError("STALE_TICKETS",
		"some planned tickets are no longer pending",
		http.StatusConflict,
		map[string]any{"ticket_ids": ids})
}

// NewCommitFailed wraps a whole-batch store failure; no ticket was flipped.
func NewCommitFailed(err error) error {
	return &DomainError{
		Code:       "COMMIT_FAILED",
		Message:    "ticket store rejected the commit batch",
		HTTPStatus: http.StatusBadGateway,
		Err:        err,
	}
}

// NewConfigInvalid marks a build-time configuration mistake. Callers should
// treat it as fatal, not recoverable.
func NewConfigInvalid(err error) error {
	return &DomainError{
		Code:       "CONFIG_INVALID",
		Message:    "invalid static configuration",
		HTTPStatus: http.StatusInternalServerError,
		Err:        err,
	}
}

func NewInternalError(err error) error {
	return &DomainError{
		Code:       "INTERNAL_ERROR",
		Message:    "internal server error",
		HTTPStatus: http.StatusInternalServerError,
		Err:        err,
	}
}

// ToDomainError converts generic errors to DomainError.
func ToDomainError(err error) *DomainError {
	if err == nil {
		return nil
	}
	var domainErr *DomainError
	if errors.As(err, &domainErr) {
		return domainErr
	}
	return &DomainError{
		Code:       "INTERNAL_ERROR",
		Message:    "internal server error",
		HTTPStatus: http.StatusInternalServerError,
		Err:        err,
	}
}

func MapError(err error) error {
	return ToDomainError(err)
}
