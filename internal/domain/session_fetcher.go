package domain

import (
	"context"
	"time"
)

// SessionFetcher fetches a published schedule from Sessionize (or a test double).
type SessionFetcher interface {
	Fetch(ctx context.Context, sessionizeID string) (SessionFeed, error)
}

// SessionFeed is the subset of the Sessionize "All" response the importer reads.
type SessionFeed struct {
	Sessions []FeedSession `json:"sessions"`
	Speakers []FeedSpeaker `json:"speakers"`
	Rooms    []FeedRoom    `json:"rooms"`
}

// FeedRoom is a room in the feed (flat list).
type FeedRoom struct {
	ID   int    `json:"id"`
	Name string `json:"name"`
}

// FeedSession is a session in the feed. Times carry no zone; they are read in the configured location.
type FeedSession struct {
	ID               string   `json:"id"`
	Title            string   `json:"title"`
	Description      string   `json:"description"`
	StartsAt         FeedTime `json:"startsAt"`
	EndsAt           FeedTime `json:"endsAt"`
	Speakers         []string `json:"speakers"`
	RoomID           int      `json:"roomId"`
	IsServiceSession bool     `json:"isServiceSession"`
}

// FeedSpeaker is a speaker in the feed.
type FeedSpeaker struct {
	ID       string `json:"id"`
	FullName string `json:"fullName"`
	Email    string `json:"email"`
}

// FeedTime parses Sessionize's zone-less "2006-01-02T15:04:05" timestamps.
type FeedTime struct {
	time.Time
}

const feedTimeLayout = "2006-01-02T15:04:05"

func (t *FeedTime) UnmarshalJSON(b []byte) error {
	s := string(b)
	if s == "null" || s == `""` {
		t.Time = time.Time{}
		return nil
	}
	if len(s) >= 2 && s[0] == '"' {
		s = s[1 : len(s)-1]
	}
	parsed, err := time.Parse(feedTimeLayout, s)
	if err != nil {
		parsed, err = time.Parse(time.RFC3339, s)
		if err != nil {
			return err
		}
	}
	t.Time = parsed
	return nil
}

// In reinterprets the wall-clock reading in loc.
func (t FeedTime) In(loc *time.Location) time.Time {
	if t.IsZero() {
		return time.Time{}
	}
	return time.Date(t.Year(), t.Month(), t.Day(), t.Hour(), t.Minute(), t.Second(), 0, loc)
}

// ImportDefaults fills in what the feed does not carry.
type ImportDefaults struct {
	RoomCapacity  int
	RoomHours     AvailableHours
	EventCapacity int
	Location      *time.Location
}

// ImportedSession is the per-session outcome of an import.
// swagger:model ImportedSession
type ImportedSession struct {
	SessionID string  `json:"session_id"`
	Title     string  `json:"title"`
	EventID   string  `json:"event_id,omitempty"`
	Outcome   Outcome `json:"outcome"`
	Reason    string  `json:"reason,omitempty"`
}

// ImportReport summarises a Sessionize import.
// swagger:model ImportReport
type ImportReport struct {
	RoomsCreated    []string          `json:"rooms_created"`
	SpeakersCreated []string          `json:"speakers_created"`
	Sessions        []ImportedSession `json:"sessions"`
}

// ImportService pulls an external schedule through the create protocol.
type ImportService interface {
	ImportSessionize(ctx context.Context, organizer, sessionizeID string) (*ImportReport, error)
}
