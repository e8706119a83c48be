package controllers

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"conferencescheduler/internal/delivery/http/helpers"
	"conferencescheduler/internal/delivery/http/middleware"
	"conferencescheduler/internal/domain"

	"github.com/stretchr/testify/require"
)

// testLogger is a no-op logger for controller tests so we don't assert on log output.
var testLogger = slog.New(slog.NewTextHandler(io.Discard, &slog.HandlerOptions{Level: slog.LevelError}))

func newRequest(method, target, body, caller string) *http.Request {
	var rdr io.Reader
	if body != "" {
		rdr = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, target, rdr)
	if caller != "" {
		req = req.WithContext(middleware.SetUsername(req.Context(), caller))
	}
	return req
}

// envelope decodes an APIResponse whose data is unmarshalled into data when non-nil.
func envelope(t *testing.T, rr *httptest.ResponseRecorder, data any) *helpers.APIError {
	t.Helper()
	var raw struct {
		Data  json.RawMessage   `json:"data"`
		Error *helpers.APIError `json:"error"`
	}
	require.NoError(t, json.NewDecoder(rr.Body).Decode(&raw))
	if data != nil {
		require.NoError(t, json.Unmarshal(raw.Data, data))
	}
	return raw.Error
}

type fakeAccountService struct {
	registerErr   error
	createErr     error
	loginErr      error
	scheduleErr   error
	lastUsername  string
	lastPassword  string
	lastEmail     string
	lastCaller    string
	lastType      domain.AccountType
	scheduleViews map[string]*domain.ScheduleView
}

func (f *fakeAccountService) Register(_ context.Context, username, password, email string) (*domain.Account, error) {
	f.lastUsername, f.lastPassword, f.lastEmail = username, password, email
	if f.registerErr != nil {
		return nil, f.registerErr
	}
	return &domain.Account{Username: username, Type: domain.AccountAttendee, Email: email}, nil
}

func (f *fakeAccountService) CreateAccount(_ context.Context, caller, username, password, email string, accountType domain.AccountType) (*domain.Account, error) {
	f.lastCaller, f.lastUsername, f.lastPassword, f.lastEmail, f.lastType = caller, username, password, email, accountType
	if f.createErr != nil {
		return nil, f.createErr
	}
	return &domain.Account{Username: username, Type: accountType, Email: email}, nil
}

func (f *fakeAccountService) EnsureAdmin(context.Context, string, string) error { return nil }

func (f *fakeAccountService) Login(_ context.Context, username, password string) (string, *domain.Account, error) {
	f.lastUsername, f.lastPassword = username, password
	if f.loginErr != nil {
		return "", nil, f.loginErr
	}
	return "token-" + username, &domain.Account{Username: username, Type: domain.AccountAttendee}, nil
}

func (f *fakeAccountService) Get(_ context.Context, username string) (*domain.Account, error) {
	return &domain.Account{Username: username}, nil
}

func (f *fakeAccountService) Schedule(_ context.Context, username string) (*domain.ScheduleView, error) {
	if f.scheduleErr != nil {
		return nil, f.scheduleErr
	}
	if v, ok := f.scheduleViews[username]; ok {
		return v, nil
	}
	return nil, domain.ErrNotFound
}

type fakeRoomService struct {
	addErr   error
	lastRoom domain.Room
	lastBy   string
	rooms    map[string]*domain.RoomView
}

func (f *fakeRoomService) AddRoom(_ context.Context, caller string, room domain.Room) (*domain.RoomView, error) {
	f.lastBy, f.lastRoom = caller, room
	if f.addErr != nil {
		return nil, f.addErr
	}
	return &domain.RoomView{Room: room, Bookings: []domain.Booking{}}, nil
}

func (f *fakeRoomService) ListRooms(context.Context) ([]*domain.RoomView, error) {
	out := make([]*domain.RoomView, 0, len(f.rooms))
	for _, name := range []string{"R1", "R2"} {
		if v, ok := f.rooms[name]; ok {
			out = append(out, v)
		}
	}
	return out, nil
}

func (f *fakeRoomService) GetRoom(_ context.Context, name string) (*domain.RoomView, error) {
	if v, ok := f.rooms[name]; ok {
		return v, nil
	}
	return nil, domain.ErrNotFound
}

type fakeQueryService struct {
	events     []*domain.Event
	listErr    error
	lastQuery  domain.EventQuery
	lastTop    int
	lastCaller string
	speakers   map[string][]*domain.Event
}

func (f *fakeQueryService) GetEvent(_ context.Context, id string) (*domain.Event, error) {
	for _, e := range f.events {
		if e.ID == id {
			return e, nil
		}
	}
	return nil, domain.ErrNotFound
}

func (f *fakeQueryService) ListEvents(_ context.Context, q domain.EventQuery) ([]*domain.Event, error) {
	f.lastQuery = q
	if f.listErr != nil {
		return nil, f.listErr
	}
	return f.events, nil
}

func (f *fakeQueryService) EventsBySpeaker(_ context.Context, username string) ([]*domain.Event, error) {
	events, ok := f.speakers[username]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return events, nil
}

func (f *fakeQueryService) EmptyEvents(context.Context) ([]*domain.Event, error) {
	out := []*domain.Event{}
	for _, e := range f.events {
		if len(e.Attendees) == 0 {
			out = append(out, e)
		}
	}
	return out, nil
}

func (f *fakeQueryService) AttendableEvents(_ context.Context, username string) ([]*domain.Event, error) {
	f.lastCaller = username
	return f.events, nil
}

func (f *fakeQueryService) AttendanceRanking(_ context.Context, top int) ([]domain.EventRate, error) {
	f.lastTop = top
	return []domain.EventRate{{EventID: "T0", Attendees: 1, Capacity: 2, Rate: 0.5}}, nil
}

// fakeScheduler answers every protocol with result/err and records its inputs.
type fakeScheduler struct {
	result       *domain.ProtocolResult
	err          error
	lastCreate   domain.CreateEventRequest
	lastEventID  string
	lastUsername string
	lastOpts     domain.CancelOptions
	lastInterval domain.Interval
	lastCapacity int
	calls        []string
}

func (f *fakeScheduler) answer(protocol, eventID string) (*domain.ProtocolResult, error) {
	f.calls = append(f.calls, protocol)
	f.lastEventID = eventID
	if f.result != nil {
		return f.result, f.err
	}
	if f.err != nil {
		return nil, f.err
	}
	return &domain.ProtocolResult{Protocol: protocol, EventID: eventID, Outcome: domain.OutcomeCommitted}, nil
}

func (f *fakeScheduler) CreateEvent(_ context.Context, req domain.CreateEventRequest) (*domain.ProtocolResult, error) {
	f.lastCreate = req
	return f.answer(domain.ProtocolCreate, "T0")
}

func (f *fakeScheduler) CancelEvent(_ context.Context, eventID string, opts domain.CancelOptions) (*domain.ProtocolResult, error) {
	f.lastOpts = opts
	return f.answer(domain.ProtocolCancel, eventID)
}

func (f *fakeScheduler) RescheduleEvent(_ context.Context, eventID string, iv domain.Interval) (*domain.ProtocolResult, error) {
	f.lastInterval = iv
	return f.answer(domain.ProtocolReschedule, eventID)
}

func (f *fakeScheduler) SignUp(_ context.Context, eventID, username string) (*domain.ProtocolResult, error) {
	f.lastUsername = username
	return f.answer(domain.ProtocolSignUp, eventID)
}

func (f *fakeScheduler) Drop(_ context.Context, eventID, username string) (*domain.ProtocolResult, error) {
	f.lastUsername = username
	return f.answer(domain.ProtocolDrop, eventID)
}

func (f *fakeScheduler) AssignHost(_ context.Context, eventID, speaker string) (*domain.ProtocolResult, error) {
	f.lastUsername = speaker
	return f.answer(domain.ProtocolAssignHost, eventID)
}

func (f *fakeScheduler) ChangeCapacity(_ context.Context, eventID string, capacity int) (*domain.ProtocolResult, error) {
	f.lastCapacity = capacity
	return f.answer(domain.ProtocolChangeCapacity, eventID)
}

func (f *fakeScheduler) Exclusive(_ context.Context, fn func() error) error { return fn() }

type fakeSessionService struct {
	snap    *domain.Snapshot
	saveErr error
}

func (f *fakeSessionService) Restore(context.Context) (bool, error) { return false, nil }

func (f *fakeSessionService) Save(context.Context) (*domain.Snapshot, error) {
	if f.saveErr != nil {
		return nil, f.saveErr
	}
	return f.snap, nil
}

type fakeImporter struct {
	report        *domain.ImportReport
	err           error
	lastOrganizer string
	lastID        string
}

func (f *fakeImporter) ImportSessionize(_ context.Context, organizer, sessionizeID string) (*domain.ImportReport, error) {
	f.lastOrganizer, f.lastID = organizer, sessionizeID
	return f.report, f.err
}
