package helpers

import (
	"encoding/json"
	"errors"
	"net/http"

	"conferencescheduler/internal/domain"
)

// Error codes for API error responses. Use these with WriteJSONError.
const (
	ErrCodeNotFound         = "not_found"
	ErrCodeConflict         = "conflict"
	ErrCodeInvalidSlot      = "invalid_slot"
	ErrCodeCapacityExceeded = "capacity_exceeded"
	ErrCodeTypeMismatch     = "type_mismatch"
	ErrCodeNoOp             = "no_op"
	ErrCodeForbidden        = "forbidden"
	ErrCodeBadRequest       = "bad_request"
	ErrCodeUnauthorized     = "unauthorized"
	ErrCodeInternalError    = "internal_error"
)

// APIError is the error object in the standardized API response envelope.
// swagger:model APIError
type APIError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// APIResponse is the standardized envelope for all API responses.
// On success: Data is set, Error is nil. On error: Data is nil, Error is set.
// swagger:model APIResponse
type APIResponse struct {
	Data  any       `json:"data"`
	Error *APIError `json:"error"`
}

// WriteJSON writes statusCode and the envelope as JSON.
func WriteJSON(w http.ResponseWriter, statusCode int, resp APIResponse) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	_ = json.NewEncoder(w).Encode(resp)
}

// WriteJSONSuccess writes statusCode and an APIResponse carrying data.
func WriteJSONSuccess(w http.ResponseWriter, statusCode int, data any) {
	WriteJSON(w, statusCode, APIResponse{Data: data})
}

// WriteJSONError writes statusCode and an APIResponse carrying the error code and message.
func WriteJSONError(w http.ResponseWriter, statusCode int, code, message string) {
	WriteJSON(w, statusCode, APIResponse{Error: &APIError{Code: code, Message: message}})
}

var errorStatuses = []struct {
	target error
	status int
	code   string
}{
	{domain.ErrNotFound, http.StatusNotFound, ErrCodeNotFound},
	{domain.ErrInvalidCredentials, http.StatusUnauthorized, ErrCodeUnauthorized},
	{domain.ErrForbidden, http.StatusForbidden, ErrCodeForbidden},
	{domain.ErrConflict, http.StatusConflict, ErrCodeConflict},
	{domain.ErrDuplicate, http.StatusConflict, ErrCodeConflict},
	{domain.ErrNoOp, http.StatusConflict, ErrCodeNoOp},
	{domain.ErrCapacityExceeded, http.StatusConflict, ErrCodeCapacityExceeded},
	{domain.ErrInvalidSlot, http.StatusUnprocessableEntity, ErrCodeInvalidSlot},
	{domain.ErrTypeMismatch, http.StatusUnprocessableEntity, ErrCodeTypeMismatch},
	{domain.ErrInvalidInput, http.StatusBadRequest, ErrCodeBadRequest},
}

// StatusForError maps a domain error to an HTTP status and error code.
// Unknown errors are 500 internal_error.
func StatusForError(err error) (int, string) {
	for _, e := range errorStatuses {
		if errors.Is(err, e.target) {
			return e.status, e.code
		}
	}
	return http.StatusInternalServerError, ErrCodeInternalError
}

// WriteServiceError writes err using StatusForError. Internal errors get a generic message
// and report true so the caller can log the cause.
func WriteServiceError(w http.ResponseWriter, err error) (internal bool) {
	status, code := StatusForError(err)
	if status == http.StatusInternalServerError {
		WriteJSONError(w, status, code, "internal server error")
		return true
	}
	WriteJSONError(w, status, code, err.Error())
	return false
}
