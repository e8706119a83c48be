package controllers

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"conferencescheduler/internal/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestScheduleController_ListEvents(t *testing.T) {
	events := []*domain.Event{{ID: "T0"}, {ID: "P0"}, {ID: "D0"}}

	tests := []struct {
		name       string
		query      string
		wantStatus int
		wantQuery  domain.EventQuery
		wantIDs    []string
	}{
		{"everything", "", http.StatusOK, domain.EventQuery{}, []string{"T0", "P0", "D0"}},
		{
			name:       "range in local time",
			query:      "?from=2024-05-01%2009:00&to=2024-05-01%2012:00",
			wantStatus: http.StatusOK,
			wantQuery: domain.EventQuery{
				From: time.Date(2024, 5, 1, 9, 0, 0, 0, cest),
				To:   time.Date(2024, 5, 1, 12, 0, 0, 0, cest),
			},
			wantIDs: []string{"T0", "P0", "D0"},
		},
		{"date", "?date=2024-05-01", http.StatusOK, domain.EventQuery{Date: time.Date(2024, 5, 1, 0, 0, 0, 0, cest)}, []string{"T0", "P0", "D0"}},
		{"kind", "?kind=Party", http.StatusOK, domain.EventQuery{Kind: domain.KindParty}, []string{"T0", "P0", "D0"}},
		{"paged", "?page=2&page_size=2", http.StatusOK, domain.EventQuery{}, []string{"D0"}},
		{"bad date", "?date=May%201", http.StatusBadRequest, domain.EventQuery{}, nil},
		{"bad kind", "?kind=lecture", http.StatusBadRequest, domain.EventQuery{}, nil},
		{"bad from", "?from=noon", http.StatusBadRequest, domain.EventQuery{}, nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			queries := &fakeQueryService{events: events}
			rr := httptest.NewRecorder()
			NewScheduleController(testLogger, queries, cest).ListEvents(rr, newRequest(http.MethodGet, "/events"+tt.query, "", "dave"))

			require.Equal(t, tt.wantStatus, rr.Code)
			if tt.wantIDs == nil {
				return
			}
			assert.True(t, tt.wantQuery.From.Equal(queries.lastQuery.From))
			assert.True(t, tt.wantQuery.To.Equal(queries.lastQuery.To))
			assert.True(t, tt.wantQuery.Date.Equal(queries.lastQuery.Date))
			assert.Equal(t, tt.wantQuery.Kind, queries.lastQuery.Kind)

			var resp ListEventsResponse
			assert.Nil(t, envelope(t, rr, &resp))
			ids := make([]string, 0, len(resp.Events))
			for _, e := range resp.Events {
				ids = append(ids, e.ID)
			}
			assert.Equal(t, tt.wantIDs, ids)
			assert.Equal(t, 3, resp.Pagination.Total)
		})
	}

	t.Run("inverted range from service", func(t *testing.T) {
		queries := &fakeQueryService{listErr: domain.ErrInvalidInput}
		rr := httptest.NewRecorder()
		NewScheduleController(testLogger, queries, nil).ListEvents(rr, newRequest(http.MethodGet, "/events?from=2024-05-02%2009:00&to=2024-05-01%2009:00", "", "dave"))
		assert.Equal(t, http.StatusBadRequest, rr.Code)
	})
}

func TestScheduleController_Reads(t *testing.T) {
	queries := &fakeQueryService{
		events: []*domain.Event{
			{ID: "T0", Attendees: []string{"dave"}},
			{ID: "P0"},
		},
		speakers: map[string][]*domain.Event{"alice": {{ID: "T0"}}},
	}
	c := NewScheduleController(testLogger, queries, time.UTC)

	t.Run("get", func(t *testing.T) {
		req := newRequest(http.MethodGet, "/events/P0", "", "dave")
		req.SetPathValue("eventID", "P0")
		rr := httptest.NewRecorder()
		c.GetEvent(rr, req)
		require.Equal(t, http.StatusOK, rr.Code)
		var e domain.Event
		assert.Nil(t, envelope(t, rr, &e))
		assert.Equal(t, "P0", e.ID)
	})

	t.Run("get unknown", func(t *testing.T) {
		req := newRequest(http.MethodGet, "/events/T9", "", "dave")
		req.SetPathValue("eventID", "T9")
		rr := httptest.NewRecorder()
		c.GetEvent(rr, req)
		assert.Equal(t, http.StatusNotFound, rr.Code)
	})

	t.Run("empty", func(t *testing.T) {
		rr := httptest.NewRecorder()
		c.EmptyEvents(rr, newRequest(http.MethodGet, "/events/empty", "", "dave"))
		var got []*domain.Event
		assert.Nil(t, envelope(t, rr, &got))
		require.Len(t, got, 1)
		assert.Equal(t, "P0", got[0].ID)
	})

	t.Run("attendable uses caller", func(t *testing.T) {
		rr := httptest.NewRecorder()
		c.AttendableEvents(rr, newRequest(http.MethodGet, "/events/attendable", "", "erin"))
		assert.Equal(t, http.StatusOK, rr.Code)
		assert.Equal(t, "erin", queries.lastCaller)
	})

	t.Run("ranking", func(t *testing.T) {
		rr := httptest.NewRecorder()
		c.AttendanceRanking(rr, newRequest(http.MethodGet, "/events/attendance", "", "dave"))
		assert.Equal(t, http.StatusOK, rr.Code)
		assert.Equal(t, defaultRankingSize, queries.lastTop)

		rr = httptest.NewRecorder()
		c.AttendanceRanking(rr, newRequest(http.MethodGet, "/events/attendance?top=3", "", "dave"))
		var rates []domain.EventRate
		assert.Nil(t, envelope(t, rr, &rates))
		assert.Equal(t, 3, queries.lastTop)
		assert.InDelta(t, 0.5, rates[0].Rate, 1e-9)

		rr = httptest.NewRecorder()
		c.AttendanceRanking(rr, newRequest(http.MethodGet, "/events/attendance?top=-1", "", "dave"))
		assert.Equal(t, http.StatusBadRequest, rr.Code)
	})

	t.Run("speaker", func(t *testing.T) {
		for username, want := range map[string]int{"alice": http.StatusOK, "bob": http.StatusNotFound} {
			req := newRequest(http.MethodGet, "/speakers/"+username+"/events", "", "dave")
			req.SetPathValue("username", username)
			rr := httptest.NewRecorder()
			c.SpeakerEvents(rr, req)
			assert.Equal(t, want, rr.Code, username)
		}
	})
}
