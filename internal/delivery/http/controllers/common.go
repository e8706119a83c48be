package controllers

import (
	"log/slog"
	"net/http"

	"conferencescheduler/internal/delivery/http/helpers"
	"conferencescheduler/internal/delivery/http/middleware"
	"conferencescheduler/internal/domain"
)

// ProtocolResponse is the envelope for scheduling operations. A rejected or aborted
// run carries its steps in data next to the error.
type ProtocolResponse struct {
	Data  *domain.ProtocolResult `json:"data"`
	Error *helpers.APIError      `json:"error"`
}

// EventListSuccessResponse is the success envelope for event listings.
type EventListSuccessResponse struct {
	Data  []*domain.Event   `json:"data"`
	Error *helpers.APIError `json:"error"`
}

func callerFrom(w http.ResponseWriter, r *http.Request) (string, bool) {
	username, ok := middleware.UsernameFromContext(r.Context())
	if !ok {
		helpers.WriteJSONError(w, http.StatusUnauthorized, helpers.ErrCodeUnauthorized, "unauthorized")
	}
	return username, ok
}

func writeFailure(logger *slog.Logger, w http.ResponseWriter, r *http.Request, err error) {
	if helpers.WriteServiceError(w, err) {
		logger.ErrorContext(r.Context(), "request failed", "path", r.URL.Path, "method", r.Method, "err", err)
	}
}

// writeProtocol answers with the protocol result. A rejected run keeps its steps in data.
func writeProtocol(logger *slog.Logger, w http.ResponseWriter, r *http.Request, status int, res *domain.ProtocolResult, err error) {
	switch {
	case err != nil && res == nil:
		writeFailure(logger, w, r, err)
	case err != nil:
		code, errCode := helpers.StatusForError(err)
		msg := err.Error()
		if code == http.StatusInternalServerError {
			logger.ErrorContext(r.Context(), "request failed", "path", r.URL.Path, "method", r.Method, "err", err)
			msg = "internal server error"
		}
		helpers.WriteJSON(w, code, helpers.APIResponse{Data: res, Error: &helpers.APIError{Code: errCode, Message: msg}})
	case res.Outcome == domain.OutcomeAborted:
		helpers.WriteJSON(w, http.StatusBadRequest, helpers.APIResponse{
			Data:  res,
			Error: &helpers.APIError{Code: helpers.ErrCodeBadRequest, Message: res.Protocol + " aborted: required input missing"},
		})
	default:
		helpers.WriteJSONSuccess(w, status, res)
	}
}
