package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sort"
	"strings"
	"time"
	"unicode"

	"conferencescheduler/internal/domain"
)

type manageScheduleService struct {
	fetcher        domain.SessionFetcher
	coordinator    domain.SchedulingService
	rooms          domain.RoomStore
	accounts       domain.AccountStore
	defaults       domain.ImportDefaults
	logger         *slog.Logger
	contextTimeout time.Duration
}

// NewManageScheduleService returns the Sessionize importer. Every imported session
// goes through the coordinator's create protocol, so imports obey the same rules
// as hand-made events.
func NewManageScheduleService(
	fetcher domain.SessionFetcher,
	coordinator domain.SchedulingService,
	rooms domain.RoomStore,
	accounts domain.AccountStore,
	defaults domain.ImportDefaults,
	logger *slog.Logger,
	timeout time.Duration,
) domain.ImportService {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	if defaults.Location == nil {
		defaults.Location = time.UTC
	}
	return &manageScheduleService{
		fetcher:        fetcher,
		coordinator:    coordinator,
		rooms:          rooms,
		accounts:       accounts,
		defaults:       defaults,
		logger:         logger,
		contextTimeout: timeout,
	}
}

func (s *manageScheduleService) ImportSessionize(ctx context.Context, organizer, sessionizeID string) (*domain.ImportReport, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	if !s.accounts.IsOrganizer(organizer) {
		return nil, fmt.Errorf("%q is not an organizer: %w", organizer, domain.ErrForbidden)
	}
	feed, err := s.fetcher.Fetch(ctx, sessionizeID)
	if err != nil {
		return nil, err
	}

	report := &domain.ImportReport{
		RoomsCreated:    []string{},
		SpeakersCreated: []string{},
		Sessions:        []domain.ImportedSession{},
	}

	// 1. Rooms
	roomNames := make(map[int]string, len(feed.Rooms))
	for _, fr := range feed.Rooms {
		name := strings.TrimSpace(fr.Name)
		if name == "" {
			continue
		}
		roomNames[fr.ID] = name
		if _, err := s.rooms.Get(name); err == nil {
			continue
		}
		_, err := s.rooms.Add(domain.Room{Name: name, Capacity: s.defaults.RoomCapacity, AvailableHours: s.defaults.RoomHours})
		if err != nil && !errors.Is(err, domain.ErrDuplicate) {
			return nil, fmt.Errorf("failed to create room %s: %w", name, err)
		}
		if err == nil {
			report.RoomsCreated = append(report.RoomsCreated, name)
		}
	}

	// 2. Speakers
	speakers := make(map[string]string, len(feed.Speakers))
	for _, sp := range feed.Speakers {
		username := speakerUsername(sp)
		speakers[sp.ID] = username
		if _, err := s.accounts.Get(username); err == nil {
			continue
		}
		account := domain.NewAccount(username, domain.AccountSpeaker, sp.Email, time.Now().UTC())
		if err := s.accounts.Create(account); err != nil && !errors.Is(err, domain.ErrDuplicate) {
			return nil, fmt.Errorf("failed to register speaker %s: %w", username, err)
		}
		report.SpeakersCreated = append(report.SpeakersCreated, username)
	}

	// 3. Sessions, earliest first so clashes are reported against the earlier session
	sessions := append([]domain.FeedSession{}, feed.Sessions...)
	sort.SliceStable(sessions, func(i, j int) bool {
		return sessions[i].StartsAt.Before(sessions[j].StartsAt.Time)
	})
	for _, fs := range sessions {
		report.Sessions = append(report.Sessions, s.importSession(ctx, organizer, fs, roomNames, speakers))
	}

	s.logger.InfoContext(ctx, "sessionize import finished",
		"sessionize_id", sessionizeID,
		"rooms_created", len(report.RoomsCreated),
		"speakers_created", len(report.SpeakersCreated),
		"sessions", len(report.Sessions))
	return report, nil
}

func (s *manageScheduleService) importSession(ctx context.Context, organizer string, fs domain.FeedSession, roomNames map[int]string, speakers map[string]string) domain.ImportedSession {
	out := domain.ImportedSession{SessionID: fs.ID, Title: fs.Title}
	if fs.IsServiceSession {
		out.Outcome = domain.OutcomeAborted
		out.Reason = "service session"
		return out
	}
	hosts := make([]string, 0, len(fs.Speakers))
	for _, id := range fs.Speakers {
		if u, ok := speakers[id]; ok {
			hosts = append(hosts, u)
		}
	}
	room := roomNames[fs.RoomID]
	capacity := s.defaults.EventCapacity
	if rs, err := s.rooms.Get(room); err == nil {
		if rc := rs.Room().Capacity; capacity <= 0 || capacity > rc {
			capacity = rc
		}
	}

	res, err := s.coordinator.CreateEvent(ctx, domain.CreateEventRequest{
		Organizer:   organizer,
		Kind:        domain.KindForHostCount(len(hosts)),
		Name:        fs.Title,
		Room:        room,
		Description: fs.Description,
		Interval:    domain.NewInterval(fs.StartsAt.In(s.defaults.Location), fs.EndsAt.In(s.defaults.Location)),
		Capacity:    capacity,
		Hosts:       hosts,
	})
	if res != nil {
		out.Outcome = res.Outcome
		out.EventID = res.EventID
	}
	if err != nil {
		out.Outcome = domain.OutcomeRejected
		out.Reason = err.Error()
	}
	return out
}

// speakerUsername derives a stable login name from the speaker's full name,
// falling back to the Sessionize id.
func speakerUsername(sp domain.FeedSpeaker) string {
	var b strings.Builder
	for _, r := range strings.ToLower(strings.TrimSpace(sp.FullName)) {
		switch {
		case unicode.IsLetter(r) || unicode.IsDigit(r):
			b.WriteRune(r)
		case unicode.IsSpace(r) || r == '-' || r == '.':
			if b.Len() > 0 && !strings.HasSuffix(b.String(), ".") {
				b.WriteRune('.')
			}
		}
	}
	name := strings.TrimSuffix(b.String(), ".")
	if name == "" {
		return "speaker-" + sp.ID
	}
	return name
}
