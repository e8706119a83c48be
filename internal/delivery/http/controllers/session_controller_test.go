package controllers

import (
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"conferencescheduler/internal/delivery/http/helpers"
	"conferencescheduler/internal/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSessionController_Save(t *testing.T) {
	taken := time.Date(2024, 5, 1, 18, 0, 0, 0, time.UTC)
	snap := &domain.Snapshot{
		TakenAt:  taken,
		Accounts: make([]domain.AccountRecord, 4),
		Rooms:    make([]domain.RoomRecord, 2),
		Events:   []*domain.Event{{ID: "T0"}},
	}

	rr := httptest.NewRecorder()
	NewSessionController(testLogger, &fakeSessionService{snap: snap}, nil).Save(rr, newRequest(http.MethodPost, "/session/save", "", "dave"))
	require.Equal(t, http.StatusOK, rr.Code)
	var resp SaveSessionResponse
	assert.Nil(t, envelope(t, rr, &resp))
	assert.Equal(t, SaveSessionResponse{TakenAt: taken, Accounts: 4, Rooms: 2, Events: 1}, resp)

	rr = httptest.NewRecorder()
	NewSessionController(testLogger, &fakeSessionService{saveErr: errors.New("connection refused")}, nil).
		Save(rr, newRequest(http.MethodPost, "/session/save", "", "dave"))
	require.Equal(t, http.StatusInternalServerError, rr.Code)
	apiErr := envelope(t, rr, nil)
	assert.Equal(t, helpers.ErrCodeInternalError, apiErr.Code)
	assert.NotContains(t, apiErr.Message, "connection refused")
}

func TestSessionController_ImportSessionize(t *testing.T) {
	report := &domain.ImportReport{
		RoomsCreated: []string{"Main Hall"},
		Sessions:     []domain.ImportedSession{{SessionID: "s1", EventID: "T0", Outcome: domain.OutcomeCommitted}},
	}
	tests := []struct {
		name       string
		err        error
		wantStatus int
	}{
		{"imported", nil, http.StatusOK},
		{"unknown sessionize event", fmt.Errorf("fetch: %w", domain.ErrNotFound), http.StatusNotFound},
		{"not an organizer", domain.ErrForbidden, http.StatusForbidden},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			importer := &fakeImporter{report: report, err: tt.err}
			req := newRequest(http.MethodPost, "/events/import/sessionize/abc", "", "olga")
			req.SetPathValue("sessionizeID", "abc")
			rr := httptest.NewRecorder()
			NewSessionController(testLogger, &fakeSessionService{}, importer).ImportSessionize(rr, req)

			require.Equal(t, tt.wantStatus, rr.Code)
			assert.Equal(t, "olga", importer.lastOrganizer)
			assert.Equal(t, "abc", importer.lastID)
			if tt.err == nil {
				var got domain.ImportReport
				assert.Nil(t, envelope(t, rr, &got))
				assert.Equal(t, "T0", got.Sessions[0].EventID)
			}
		})
	}
}
