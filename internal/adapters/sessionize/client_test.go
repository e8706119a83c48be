package sessionize

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"conferencescheduler/internal/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHTTPFetcher_Fetch(t *testing.T) {
	var gotPath string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		switch r.URL.Path {
		case "/api/v2/abc/view/All":
			w.Header().Set("Content-Type", "application/json")
			_, _ = w.Write([]byte(`{
				"sessions": [{"id": "1", "title": "Keynote", "startsAt": "2024-05-01T09:00:00", "endsAt": "2024-05-01T10:00:00", "speakers": ["sp1"], "roomId": 7}],
				"speakers": [{"id": "sp1", "fullName": "Ada Lovelace"}],
				"rooms": [{"id": 7, "name": "Main Hall"}]
			}`))
		case "/api/v2/broken/view/All":
			_, _ = w.Write([]byte(`{"sessions": [`))
		case "/api/v2/down/view/All":
			w.WriteHeader(http.StatusBadGateway)
		default:
			http.NotFound(w, r)
		}
	}))
	defer srv.Close()

	f := NewHTTPFetcher(srv.Client(), srv.URL+"/api/v2/")
	ctx := context.Background()

	feed, err := f.Fetch(ctx, "abc")
	require.NoError(t, err)
	assert.Equal(t, "/api/v2/abc/view/All", gotPath)
	require.Len(t, feed.Sessions, 1)
	s := feed.Sessions[0]
	assert.Equal(t, "Keynote", s.Title)
	assert.Equal(t, 7, s.RoomID)
	assert.Equal(t, time.Date(2024, 5, 1, 9, 0, 0, 0, time.UTC), s.StartsAt.Time)
	assert.Equal(t, "Main Hall", feed.Rooms[0].Name)
	assert.Equal(t, "Ada Lovelace", feed.Speakers[0].FullName)

	tests := []struct {
		name    string
		id      string
		wantErr error
	}{
		{"unknown event", "nope", domain.ErrNotFound},
		{"blank id", " ", domain.ErrInvalidInput},
		{"bad gateway", "down", nil},
		{"truncated body", "broken", nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := f.Fetch(ctx, tt.id)
			require.Error(t, err)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
			}
		})
	}
}

func TestNewHTTPFetcher_Defaults(t *testing.T) {
	f := NewHTTPFetcher(nil, "").(*httpFetcher)
	assert.Equal(t, DefaultBaseURL, f.baseURL)
	assert.Same(t, http.DefaultClient, f.client)
}
