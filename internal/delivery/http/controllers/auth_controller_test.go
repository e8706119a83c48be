package controllers

import (
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"conferencescheduler/internal/delivery/http/helpers"
	"conferencescheduler/internal/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAuthController_SignUp(t *testing.T) {
	tests := []struct {
		name       string
		body       string
		svcErr     error
		wantStatus int
		wantCode   string
	}{
		{"creates attendee", `{"username":" dave ","password":"hunter2hunter2","email":"dave@example.com"}`, nil, http.StatusCreated, ""},
		{"short password", `{"username":"dave","password":"short"}`, nil, http.StatusBadRequest, helpers.ErrCodeBadRequest},
		{"bad email", `{"username":"dave","password":"hunter2hunter2","email":"nope"}`, nil, http.StatusBadRequest, helpers.ErrCodeBadRequest},
		{"missing username", `{"password":"hunter2hunter2"}`, nil, http.StatusBadRequest, helpers.ErrCodeBadRequest},
		{"role is not accepted", `{"username":"dave","password":"hunter2hunter2","type":"admin"}`, nil, http.StatusBadRequest, helpers.ErrCodeBadRequest},
		{"taken", `{"username":"dave","password":"hunter2hunter2"}`, fmt.Errorf("account dave: %w", domain.ErrDuplicate), http.StatusConflict, helpers.ErrCodeConflict},
		{"store failure", `{"username":"dave","password":"hunter2hunter2"}`, errors.New("boom"), http.StatusInternalServerError, helpers.ErrCodeInternalError},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := &fakeAccountService{registerErr: tt.svcErr}
			c := NewAuthController(testLogger, svc)
			rr := httptest.NewRecorder()
			c.SignUp(rr, newRequest(http.MethodPost, "/auth/signup", tt.body, ""))

			require.Equal(t, tt.wantStatus, rr.Code)
			if tt.wantCode != "" {
				apiErr := envelope(t, rr, nil)
				require.NotNil(t, apiErr)
				assert.Equal(t, tt.wantCode, apiErr.Code)
				return
			}
			var account domain.Account
			assert.Nil(t, envelope(t, rr, &account))
			assert.Equal(t, "dave", account.Username)
			assert.Equal(t, domain.AccountAttendee, account.Type)
			assert.Equal(t, "dave", svc.lastUsername, "username is trimmed")
		})
	}
}

func TestAuthController_Login(t *testing.T) {
	t.Run("success", func(t *testing.T) {
		svc := &fakeAccountService{}
		rr := httptest.NewRecorder()
		NewAuthController(testLogger, svc).Login(rr, newRequest(http.MethodPost, "/auth/login", `{"username":"dave","password":"pw"}`, ""))

		require.Equal(t, http.StatusOK, rr.Code)
		var resp LoginResponse
		assert.Nil(t, envelope(t, rr, &resp))
		assert.Equal(t, "token-dave", resp.Token)
		assert.Equal(t, "dave", resp.Account.Username)
	})

	t.Run("wrong password", func(t *testing.T) {
		svc := &fakeAccountService{loginErr: domain.ErrInvalidCredentials}
		rr := httptest.NewRecorder()
		NewAuthController(testLogger, svc).Login(rr, newRequest(http.MethodPost, "/auth/login", `{"username":"dave","password":"pw"}`, ""))

		require.Equal(t, http.StatusUnauthorized, rr.Code)
		assert.Equal(t, helpers.ErrCodeUnauthorized, envelope(t, rr, nil).Code)
	})
}

func TestAuthController_CreateAccount(t *testing.T) {
	tests := []struct {
		name       string
		caller     string
		body       string
		svcErr     error
		wantStatus int
		wantType   domain.AccountType
	}{
		{"organizer adds speaker", "olga", `{"username":"alice","password":"hunter2hunter2","type":"Speaker"}`, nil, http.StatusCreated, domain.AccountSpeaker},
		{"unknown type", "olga", `{"username":"alice","password":"hunter2hunter2","type":"keynoter"}`, nil, http.StatusBadRequest, ""},
		{"spaces in username", "olga", `{"username":"al ice","password":"hunter2hunter2","type":"speaker"}`, nil, http.StatusBadRequest, ""},
		{"forbidden", "dave", `{"username":"alice","password":"hunter2hunter2","type":"organizer"}`, domain.ErrForbidden, http.StatusForbidden, domain.AccountOrganizer},
		{"no caller", "", `{"username":"alice","password":"hunter2hunter2","type":"speaker"}`, nil, http.StatusUnauthorized, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := &fakeAccountService{createErr: tt.svcErr}
			rr := httptest.NewRecorder()
			NewAuthController(testLogger, svc).CreateAccount(rr, newRequest(http.MethodPost, "/accounts", tt.body, tt.caller))

			require.Equal(t, tt.wantStatus, rr.Code)
			if tt.wantType != "" {
				assert.Equal(t, tt.caller, svc.lastCaller)
				assert.Equal(t, tt.wantType, svc.lastType)
			}
		})
	}
}

func TestAuthController_MySchedule(t *testing.T) {
	view := &domain.ScheduleView{
		Username: "dave",
		Calendar: []domain.Booking{{EventID: "T0"}},
	}
	svc := &fakeAccountService{scheduleViews: map[string]*domain.ScheduleView{"dave": view}}
	c := NewAuthController(testLogger, svc)

	rr := httptest.NewRecorder()
	c.MySchedule(rr, newRequest(http.MethodGet, "/me/schedule", "", "dave"))
	require.Equal(t, http.StatusOK, rr.Code)
	var got domain.ScheduleView
	assert.Nil(t, envelope(t, rr, &got))
	assert.Equal(t, "T0", got.Calendar[0].EventID)

	rr = httptest.NewRecorder()
	c.MySchedule(rr, newRequest(http.MethodGet, "/me/schedule", "", "ghost"))
	assert.Equal(t, http.StatusNotFound, rr.Code)
}
