package services

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"conferencescheduler/internal/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeFetcher serves a fixed feed.
type fakeFetcher struct {
	feed domain.SessionFeed
	err  error
	ids  []string
}

func (f *fakeFetcher) Fetch(_ context.Context, id string) (domain.SessionFeed, error) {
	f.ids = append(f.ids, id)
	return f.feed, f.err
}

const sampleFeed = `{
  "sessions": [
    {"id": "s2", "title": "Panel", "startsAt": "2024-05-01T11:00:00", "endsAt": "2024-05-01T12:00:00", "speakers": ["sp1", "sp2"], "roomId": 1},
    {"id": "s1", "title": "Keynote", "startsAt": "2024-05-01T09:00:00", "endsAt": "2024-05-01T10:00:00", "speakers": ["sp1"], "roomId": 1},
    {"id": "s3", "title": "Coffee", "startsAt": "2024-05-01T10:00:00", "endsAt": "2024-05-01T10:30:00", "roomId": 2, "isServiceSession": true},
    {"id": "s4", "title": "Clash", "startsAt": "2024-05-01T09:30:00", "endsAt": "2024-05-01T10:30:00", "speakers": ["sp1"], "roomId": 2},
    {"id": "s5", "title": "Mixer", "startsAt": "2024-05-01T15:00:00", "endsAt": "2024-05-01T16:00:00", "roomId": 2}
  ],
  "speakers": [
    {"id": "sp1", "fullName": "Ada Lovelace", "email": "ada@example.com"},
    {"id": "sp2", "fullName": "  ", "email": ""}
  ],
  "rooms": [
    {"id": 1, "name": "Main Hall"},
    {"id": 2, "name": "R1"}
  ]
}`

func TestManageScheduleService_ImportSessionize(t *testing.T) {
	f := newFixture(t)
	var feed domain.SessionFeed
	require.NoError(t, json.Unmarshal([]byte(sampleFeed), &feed))
	fetcher := &fakeFetcher{feed: feed}
	svc := NewManageScheduleService(fetcher, f.svc, f.rooms, f.accounts, domain.ImportDefaults{
		RoomCapacity:  50,
		RoomHours:     domain.AvailableHours{{Start: 8, End: 18}},
		EventCapacity: 20,
	}, nil, 5*time.Second)

	report, err := svc.ImportSessionize(context.Background(), "olga", "abc123")
	require.NoError(t, err)
	assert.Equal(t, []string{"abc123"}, fetcher.ids)
	assert.Equal(t, []string{"Main Hall"}, report.RoomsCreated, "existing rooms are reused")
	assert.Equal(t, []string{"ada.lovelace", "speaker-sp2"}, report.SpeakersCreated)

	bySession := make(map[string]domain.ImportedSession)
	order := make([]string, 0, len(report.Sessions))
	for _, s := range report.Sessions {
		bySession[s.SessionID] = s
		order = append(order, s.SessionID)
	}
	assert.Equal(t, []string{"s1", "s4", "s3", "s2", "s5"}, order, "sessions import earliest first")

	assert.Equal(t, domain.OutcomeCommitted, bySession["s1"].Outcome)
	assert.Equal(t, domain.OutcomeRejected, bySession["s4"].Outcome, "speaker already booked")
	assert.NotEmpty(t, bySession["s4"].Reason)
	assert.Equal(t, domain.OutcomeAborted, bySession["s3"].Outcome)
	assert.Equal(t, domain.OutcomeCommitted, bySession["s5"].Outcome)

	keynote, err := f.events.Get(bySession["s1"].EventID)
	require.NoError(t, err)
	assert.Equal(t, domain.KindTalk, keynote.Kind)
	assert.Equal(t, 20, keynote.Capacity)
	assert.Equal(t, "Main Hall", keynote.Room)

	panel, err := f.events.Get(bySession["s2"].EventID)
	require.NoError(t, err)
	assert.Equal(t, domain.KindPanel, panel.Kind)
	assert.Equal(t, []string{"ada.lovelace", "speaker-sp2"}, panel.Hosts)

	mixer, err := f.events.Get(bySession["s5"].EventID)
	require.NoError(t, err)
	assert.Equal(t, domain.KindParty, mixer.Kind)
	assert.Equal(t, 10, mixer.Capacity, "capped at room capacity")

	f.assertConsistent(t, keynote.ID)
	ada, err := f.accounts.Get("ada.lovelace")
	require.NoError(t, err)
	assert.False(t, ada.CanLogin())
}

func TestManageScheduleService_ImportSessionize_Errors(t *testing.T) {
	f := newFixture(t)
	boom := errors.New("sessionize down")
	svc := NewManageScheduleService(&fakeFetcher{err: boom}, f.svc, f.rooms, f.accounts, domain.ImportDefaults{}, nil, time.Second)

	_, err := svc.ImportSessionize(context.Background(), "dave", "abc")
	assert.ErrorIs(t, err, domain.ErrForbidden)

	_, err = svc.ImportSessionize(context.Background(), "olga", "abc")
	assert.ErrorIs(t, err, boom)
}

func TestSpeakerUsername(t *testing.T) {
	tests := []struct {
		in   domain.FeedSpeaker
		want string
	}{
		{domain.FeedSpeaker{ID: "1", FullName: "Ada Lovelace"}, "ada.lovelace"},
		{domain.FeedSpeaker{ID: "2", FullName: "  Jean-Luc   Picard "}, "jean.luc.picard"},
		{domain.FeedSpeaker{ID: "3", FullName: "Zoë O'Brien"}, "zoë.obrien"},
		{domain.FeedSpeaker{ID: "4", FullName: "!!!"}, "speaker-4"},
	}
	for _, tt := range tests {
		t.Run(tt.want, func(t *testing.T) {
			assert.Equal(t, tt.want, speakerUsername(tt.in))
		})
	}
}
