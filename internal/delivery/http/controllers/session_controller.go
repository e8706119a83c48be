package controllers

import (
	"log/slog"
	"net/http"
	"time"

	"conferencescheduler/internal/delivery/http/helpers"
	"conferencescheduler/internal/domain"
)

// SaveSessionResponse summarises a saved snapshot.
type SaveSessionResponse struct {
	TakenAt  time.Time `json:"taken_at"`
	Accounts int       `json:"accounts"`
	Rooms    int       `json:"rooms"`
	Events   int       `json:"events"`
}

// SaveSessionSuccessResponse is the success envelope for POST /session/save.
type SaveSessionSuccessResponse struct {
	Data  SaveSessionResponse `json:"data"`
	Error *helpers.APIError   `json:"error"`
}

// ImportSuccessResponse is the success envelope for a Sessionize import.
type ImportSuccessResponse struct {
	Data  *domain.ImportReport `json:"data"`
	Error *helpers.APIError    `json:"error"`
}

type SessionController struct {
	Logger   *slog.Logger
	Sessions domain.SessionService
	Importer domain.ImportService
}

func NewSessionController(logger *slog.Logger, sessions domain.SessionService, importer domain.ImportService) *SessionController {
	return &SessionController{Logger: logger, Sessions: sessions, Importer: importer}
}

// Save godoc
// @Summary Save the whole schedule
// @Description Writes a consistent snapshot of accounts, rooms and events. Clients call it on logout.
// @Tags session
// @Produce json
// @Security BearerAuth
// @Success 200 {object} controllers.SaveSessionSuccessResponse
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /session/save [post]
func (c *SessionController) Save(w http.ResponseWriter, r *http.Request) {
	snap, err := c.Sessions.Save(r.Context())
	if err != nil {
		writeFailure(c.Logger, w, r, err)
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, SaveSessionResponse{
		TakenAt:  snap.TakenAt,
		Accounts: len(snap.Accounts),
		Rooms:    len(snap.Rooms),
		Events:   len(snap.Events),
	})
}

// ImportSessionize godoc
// @Summary Import a Sessionize schedule
// @Description Creates missing rooms and speakers, then runs every session through event creation. Per-session outcomes are reported; a rejected session does not fail the import.
// @Tags session
// @Produce json
// @Security BearerAuth
// @Param sessionizeID path string true "Sessionize event ID"
// @Success 200 {object} controllers.ImportSuccessResponse
// @Failure 403 {object} helpers.APIResponse "error.code: forbidden"
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /events/import/sessionize/{sessionizeID} [post]
func (c *SessionController) ImportSessionize(w http.ResponseWriter, r *http.Request) {
	caller, ok := callerFrom(w, r)
	if !ok {
		return
	}
	report, err := c.Importer.ImportSessionize(r.Context(), caller, r.PathValue("sessionizeID"))
	if err != nil {
		writeFailure(c.Logger, w, r, err)
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, report)
}
