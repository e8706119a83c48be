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

var cest = time.FixedZone("CEST", 2*60*60)

func TestEventController_CreateEvent(t *testing.T) {
	tests := []struct {
		name       string
		body       string
		caller     string
		result     *domain.ProtocolResult
		err        error
		wantStatus int
		wantCode   string
		wantKind   domain.EventKind
		wantHosts  []string
	}{
		{
			name:       "talk from one host",
			body:       `{"name":"Go","room":"R1","start":"2024-05-01 09:00","end":"2024-05-01 10:00","capacity":2,"hosts":[" alice "]}`,
			caller:     "olga",
			wantStatus: http.StatusCreated,
			wantKind:   domain.KindTalk,
			wantHosts:  []string{"alice"},
		},
		{
			name:       "explicit panel with no hosts",
			body:       `{"name":"Open floor","kind":"discussion","room":"R1","start":"2024-05-01 09:00","end":"2024-05-01 10:00","capacity":5}`,
			caller:     "olga",
			wantStatus: http.StatusCreated,
			wantKind:   domain.KindPanel,
			wantHosts:  []string{},
		},
		{
			name:       "party from no hosts",
			body:       `{"name":"Drinks","room":"R1","start":"2024-05-01 16:00","end":"2024-05-01 17:00","capacity":10}`,
			caller:     "olga",
			wantStatus: http.StatusCreated,
			wantKind:   domain.KindParty,
			wantHosts:  []string{},
		},
		{
			name:       "bad timestamp",
			body:       `{"name":"Go","room":"R1","start":"9am","end":"2024-05-01 10:00","capacity":2}`,
			caller:     "olga",
			wantStatus: http.StatusBadRequest,
			wantCode:   helpers.ErrCodeBadRequest,
		},
		{
			name:       "zero capacity",
			body:       `{"name":"Go","room":"R1","start":"2024-05-01 09:00","end":"2024-05-01 10:00","capacity":0}`,
			caller:     "olga",
			wantStatus: http.StatusBadRequest,
			wantCode:   helpers.ErrCodeBadRequest,
		},
		{
			name:   "room clash keeps steps",
			body:   `{"name":"Go","room":"R1","start":"2024-05-01 09:00","end":"2024-05-01 10:00","capacity":2,"hosts":["alice"]}`,
			caller: "olga",
			result: &domain.ProtocolResult{Protocol: domain.ProtocolCreate, Outcome: domain.OutcomeRejected,
				Steps: []domain.Step{{Name: "room.available", Error: "busy"}}},
			err:        fmt.Errorf("create: %w", domain.ErrConflict),
			wantStatus: http.StatusConflict,
			wantCode:   helpers.ErrCodeConflict,
			wantKind:   domain.KindTalk,
			wantHosts:  []string{"alice"},
		},
		{
			name:       "outside hours",
			body:       `{"name":"Go","room":"R1","start":"2024-05-01 19:00","end":"2024-05-01 20:00","capacity":2,"hosts":["alice"]}`,
			caller:     "olga",
			result:     &domain.ProtocolResult{Protocol: domain.ProtocolCreate, Outcome: domain.OutcomeRejected},
			err:        domain.ErrInvalidSlot,
			wantStatus: http.StatusUnprocessableEntity,
			wantCode:   helpers.ErrCodeInvalidSlot,
			wantKind:   domain.KindTalk,
			wantHosts:  []string{"alice"},
		},
		{
			name:       "aborted",
			body:       `{"name":"Go","room":"R1","start":"2024-05-01 09:00","end":"2024-05-01 10:00","capacity":2}`,
			caller:     "olga",
			result:     &domain.ProtocolResult{Protocol: domain.ProtocolCreate, Outcome: domain.OutcomeAborted},
			wantStatus: http.StatusBadRequest,
			wantCode:   helpers.ErrCodeBadRequest,
			wantKind:   domain.KindParty,
			wantHosts:  []string{},
		},
		{
			name:       "internal",
			body:       `{"name":"Go","room":"R1","start":"2024-05-01 09:00","end":"2024-05-01 10:00","capacity":2}`,
			caller:     "olga",
			err:        errors.New("boom"),
			wantStatus: http.StatusInternalServerError,
			wantCode:   helpers.ErrCodeInternalError,
			wantKind:   domain.KindParty,
			wantHosts:  []string{},
		},
		{
			name:       "no caller",
			body:       `{}`,
			wantStatus: http.StatusUnauthorized,
			wantCode:   helpers.ErrCodeUnauthorized,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := &fakeScheduler{result: tt.result, err: tt.err}
			rr := httptest.NewRecorder()
			NewEventController(testLogger, svc, cest).CreateEvent(rr, newRequest(http.MethodPost, "/events", tt.body, tt.caller))

			require.Equal(t, tt.wantStatus, rr.Code)
			var res domain.ProtocolResult
			apiErr := envelope(t, rr, &res)
			if tt.wantCode != "" {
				require.NotNil(t, apiErr)
				assert.Equal(t, tt.wantCode, apiErr.Code)
			} else {
				assert.Nil(t, apiErr)
				assert.Equal(t, domain.OutcomeCommitted, res.Outcome)
			}
			if tt.result != nil {
				assert.Equal(t, tt.result.Outcome, res.Outcome, "failed runs still report their steps")
				assert.Equal(t, len(tt.result.Steps), len(res.Steps))
			}
			if tt.wantKind == "" {
				assert.Empty(t, svc.calls)
				return
			}
			got := svc.lastCreate
			assert.Equal(t, tt.caller, got.Organizer)
			assert.Equal(t, tt.wantKind, got.Kind)
			assert.Equal(t, tt.wantHosts, got.Hosts)
			assert.Equal(t, cest, got.Interval.Start.Location())
		})
	}
}

func TestEventController_Protocols(t *testing.T) {
	tests := []struct {
		name       string
		call       func(c *EventController, w http.ResponseWriter, r *http.Request)
		method     string
		target     string
		body       string
		err        error
		wantStatus int
		check      func(t *testing.T, svc *fakeScheduler)
	}{
		{
			name:       "cancel",
			call:       (*EventController).CancelEvent,
			method:     http.MethodDelete,
			target:     "/events/T0",
			wantStatus: http.StatusOK,
			check: func(t *testing.T, svc *fakeScheduler) {
				assert.False(t, svc.lastOpts.OnlyIfEmpty)
			},
		},
		{
			name:       "cancel only if empty",
			call:       (*EventController).CancelEvent,
			method:     http.MethodDelete,
			target:     "/events/T0?only_if_empty=true",
			err:        domain.ErrConflict,
			wantStatus: http.StatusConflict,
			check: func(t *testing.T, svc *fakeScheduler) {
				assert.True(t, svc.lastOpts.OnlyIfEmpty)
			},
		},
		{
			name:       "cancel bad flag",
			call:       (*EventController).CancelEvent,
			method:     http.MethodDelete,
			target:     "/events/T0?only_if_empty=maybe",
			wantStatus: http.StatusBadRequest,
			check: func(t *testing.T, svc *fakeScheduler) {
				assert.Empty(t, svc.calls)
			},
		},
		{
			name:       "reschedule",
			call:       (*EventController).RescheduleEvent,
			method:     http.MethodPatch,
			target:     "/events/T0/schedule",
			body:       `{"start":"2024-05-01 11:00","end":"2024-05-01 12:00"}`,
			wantStatus: http.StatusOK,
			check: func(t *testing.T, svc *fakeScheduler) {
				assert.Equal(t, time.Date(2024, 5, 1, 9, 0, 0, 0, time.UTC), svc.lastInterval.Start.UTC())
			},
		},
		{
			name:       "reschedule to same time",
			call:       (*EventController).RescheduleEvent,
			method:     http.MethodPatch,
			target:     "/events/T0/schedule",
			body:       `{"start":"2024-05-01 11:00","end":"2024-05-01 12:00"}`,
			err:        domain.ErrNoOp,
			wantStatus: http.StatusConflict,
		},
		{
			name:       "capacity",
			call:       (*EventController).ChangeCapacity,
			method:     http.MethodPatch,
			target:     "/events/T0/capacity",
			body:       `{"capacity":7}`,
			wantStatus: http.StatusOK,
			check: func(t *testing.T, svc *fakeScheduler) {
				assert.Equal(t, 7, svc.lastCapacity)
			},
		},
		{
			name:       "capacity above room",
			call:       (*EventController).ChangeCapacity,
			method:     http.MethodPatch,
			target:     "/events/T0/capacity",
			body:       `{"capacity":70}`,
			err:        domain.ErrCapacityExceeded,
			wantStatus: http.StatusConflict,
		},
		{
			name:       "assign host to party",
			call:       (*EventController).AssignHost,
			method:     http.MethodPost,
			target:     "/events/T0/hosts",
			body:       `{"username":"alice"}`,
			err:        domain.ErrTypeMismatch,
			wantStatus: http.StatusUnprocessableEntity,
			check: func(t *testing.T, svc *fakeScheduler) {
				assert.Equal(t, "alice", svc.lastUsername)
			},
		},
		{
			name:       "sign up",
			call:       (*EventController).SignUp,
			method:     http.MethodPost,
			target:     "/events/T0/attendees",
			wantStatus: http.StatusOK,
			check: func(t *testing.T, svc *fakeScheduler) {
				assert.Equal(t, "dave", svc.lastUsername)
			},
		},
		{
			name:       "sign up full",
			call:       (*EventController).SignUp,
			method:     http.MethodPost,
			target:     "/events/T0/attendees",
			err:        domain.ErrCapacityExceeded,
			wantStatus: http.StatusConflict,
		},
		{
			name:       "drop unknown event",
			call:       (*EventController).Drop,
			method:     http.MethodDelete,
			target:     "/events/T0/attendees/me",
			err:        domain.ErrNotFound,
			wantStatus: http.StatusNotFound,
			check: func(t *testing.T, svc *fakeScheduler) {
				assert.Equal(t, []string{domain.ProtocolDrop}, svc.calls)
			},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := &fakeScheduler{err: tt.err}
			req := newRequest(tt.method, tt.target, tt.body, "dave")
			req.SetPathValue("eventID", "T0")
			rr := httptest.NewRecorder()
			tt.call(NewEventController(testLogger, svc, cest), rr, req)

			require.Equal(t, tt.wantStatus, rr.Code)
			if tt.wantStatus == http.StatusOK {
				assert.Equal(t, "T0", svc.lastEventID)
			}
			if tt.check != nil {
				tt.check(t, svc)
			}
		})
	}
}
