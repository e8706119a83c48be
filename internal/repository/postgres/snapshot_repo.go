package postgres

import (
	"context"
	"database/sql"
	_ "embed"
	"errors"
	"fmt"
	"time"

	"conferencescheduler/internal/domain"

	"github.com/lib/pq"
)

//go:embed schema.sql
var schema string

// Ledger names stored in account_bookings.ledger.
const (
	ledgerCalendar  = "calendar"
	ledgerHosting   = "hosting"
	ledgerOrganized = "organized"
)

type SnapshotRepository struct {
	DB       *sql.DB
	Location *time.Location
}

var _ domain.SnapshotRepository = (*SnapshotRepository)(nil)

// NewSnapshotRepository stores snapshots in db. Times are read back in loc so
// hour-slot checks see the same wall clock they were booked with.
func NewSnapshotRepository(db *sql.DB, loc *time.Location) *SnapshotRepository {
	if loc == nil {
		loc = time.UTC
	}
	return &SnapshotRepository{DB: db, Location: loc}
}

func (r *SnapshotRepository) EnsureSchema(ctx context.Context) error {
	if _, err := r.DB.ExecContext(ctx, schema); err != nil {
		return fmt.Errorf("ensure schema: %w", err)
	}
	return nil
}

// Save replaces the stored snapshot in one transaction.
func (r *SnapshotRepository) Save(ctx context.Context, s *domain.Snapshot) (err error) {
	tx, err := r.DB.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin save snapshot: %w", err)
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	if _, err = tx.ExecContext(ctx, `TRUNCATE snapshots, account_bookings, accounts, room_bookings, rooms, events, event_sequences`); err != nil {
		return fmt.Errorf("clear snapshot: %w", err)
	}
	if err = saveAccounts(ctx, tx, s.Accounts); err != nil {
		return err
	}
	if err = saveRooms(ctx, tx, s.Rooms); err != nil {
		return err
	}
	if err = saveEvents(ctx, tx, s.Events, s.Sequences); err != nil {
		return err
	}
	if _, err = tx.ExecContext(ctx, `INSERT INTO snapshots (id, taken_at) VALUES (1, $1)`, s.TakenAt); err != nil {
		return fmt.Errorf("stamp snapshot: %w", err)
	}
	if err = tx.Commit(); err != nil {
		return fmt.Errorf("commit snapshot: %w", err)
	}
	return nil
}

func saveAccounts(ctx context.Context, tx *sql.Tx, records []domain.AccountRecord) error {
	for _, rec := range records {
		a := rec.Account
		_, err := tx.ExecContext(ctx, `
			INSERT INTO accounts (username, account_type, email, password_hash, salt, created_at)
			VALUES ($1, $2, $3, $4, $5, $6)
		`, a.Username, string(a.Type), a.Email, a.PasswordHash, a.Salt, a.CreatedAt)
		if err != nil {
			return fmt.Errorf("save account %s: %w", a.Username, err)
		}
		ledgers := []struct {
			name     string
			bookings []domain.Booking
		}{
			{ledgerCalendar, rec.Calendar},
			{ledgerHosting, rec.Hosting},
			{ledgerOrganized, rec.Organized},
		}
		for _, l := range ledgers {
			for _, b := range l.bookings {
				_, err := tx.ExecContext(ctx, `
					INSERT INTO account_bookings (username, ledger, event_id, starts_at, ends_at)
					VALUES ($1, $2, $3, $4, $5)
				`, a.Username, l.name, b.EventID, b.Interval.Start, b.Interval.End)
				if err != nil {
					return fmt.Errorf("save %s entry %s for %s: %w", l.name, b.EventID, a.Username, err)
				}
			}
		}
	}
	return nil
}

func saveRooms(ctx context.Context, tx *sql.Tx, records []domain.RoomRecord) error {
	for _, rec := range records {
		hours := make([]int64, 0, 2*len(rec.Room.AvailableHours))
		for _, h := range rec.Room.AvailableHours {
			hours = append(hours, int64(h.Start), int64(h.End))
		}
		_, err := tx.ExecContext(ctx, `INSERT INTO rooms (name, capacity, available_hours) VALUES ($1, $2, $3)`,
			rec.Room.Name, rec.Room.Capacity, pq.Array(hours))
		if err != nil {
			return fmt.Errorf("save room %s: %w", rec.Room.Name, err)
		}
		for _, b := range rec.Bookings {
			_, err := tx.ExecContext(ctx, `INSERT INTO room_bookings (room, event_id, starts_at, ends_at) VALUES ($1, $2, $3, $4)`,
				rec.Room.Name, b.EventID, b.Interval.Start, b.Interval.End)
			if err != nil {
				return fmt.Errorf("save booking %s in %s: %w", b.EventID, rec.Room.Name, err)
			}
		}
	}
	return nil
}

func saveEvents(ctx context.Context, tx *sql.Tx, events []*domain.Event, sequences map[domain.EventKind]int) error {
	for _, e := range events {
		_, err := tx.ExecContext(ctx, `
			INSERT INTO events (id, kind, name, description, room, starts_at, ends_at, capacity, organizer, hosts, attendees)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
		`, e.ID, string(e.Kind), e.Name, e.Description, e.Room, e.Start, e.End, e.Capacity, e.Organizer,
			pq.Array(e.Hosts), pq.Array(e.Attendees))
		if err != nil {
			return fmt.Errorf("save event %s: %w", e.ID, err)
		}
	}
	for _, kind := range domain.EventKinds {
		n, ok := sequences[kind]
		if !ok {
			continue
		}
		if _, err := tx.ExecContext(ctx, `INSERT INTO event_sequences (kind, counter) VALUES ($1, $2)`, string(kind), n); err != nil {
			return fmt.Errorf("save %s sequence: %w", kind, err)
		}
	}
	return nil
}

// Load reads the stored snapshot, or returns domain.ErrNotFound when none was saved.
func (r *SnapshotRepository) Load(ctx context.Context) (*domain.Snapshot, error) {
	s := &domain.Snapshot{Sequences: make(map[domain.EventKind]int)}
	err := r.DB.QueryRowContext(ctx, `SELECT taken_at FROM snapshots WHERE id = 1`).Scan(&s.TakenAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("load snapshot: %w", err)
	}
	if s.Accounts, err = r.loadAccounts(ctx); err != nil {
		return nil, err
	}
	if s.Rooms, err = r.loadRooms(ctx); err != nil {
		return nil, err
	}
	if s.Events, err = r.loadEvents(ctx); err != nil {
		return nil, err
	}
	if err = r.loadSequences(ctx, s.Sequences); err != nil {
		return nil, err
	}
	return s, nil
}

func (r *SnapshotRepository) loadAccounts(ctx context.Context) ([]domain.AccountRecord, error) {
	rows, err := r.DB.QueryContext(ctx, `
		SELECT username, account_type, email, password_hash, salt, created_at
		FROM accounts
		ORDER BY username
	`)
	if err != nil {
		return nil, fmt.Errorf("load accounts: %w", err)
	}
	defer rows.Close()
	var records []domain.AccountRecord
	index := make(map[string]int)
	for rows.Next() {
		var a domain.Account
		var accountType string
		if err := rows.Scan(&a.Username, &accountType, &a.Email, &a.PasswordHash, &a.Salt, &a.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan account: %w", err)
		}
		a.Type = domain.AccountType(accountType)
		index[a.Username] = len(records)
		records = append(records, domain.AccountRecord{Account: a})
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("load accounts: %w", err)
	}

	bookings, err := r.DB.QueryContext(ctx, `
		SELECT username, ledger, event_id, starts_at, ends_at
		FROM account_bookings
		ORDER BY username, starts_at, event_id
	`)
	if err != nil {
		return nil, fmt.Errorf("load account bookings: %w", err)
	}
	defer bookings.Close()
	for bookings.Next() {
		var username, ledger string
		var b domain.Booking
		if err := bookings.Scan(&username, &ledger, &b.EventID, &b.Interval.Start, &b.Interval.End); err != nil {
			return nil, fmt.Errorf("scan account booking: %w", err)
		}
		i, ok := index[username]
		if !ok {
			continue
		}
		b.Interval = r.localize(b.Interval)
		rec := &records[i]
		switch ledger {
		case ledgerCalendar:
			rec.Calendar = append(rec.Calendar, b)
		case ledgerHosting:
			rec.Hosting = append(rec.Hosting, b)
		case ledgerOrganized:
			rec.Organized = append(rec.Organized, b)
		}
	}
	return records, bookings.Err()
}

func (r *SnapshotRepository) loadRooms(ctx context.Context) ([]domain.RoomRecord, error) {
	rows, err := r.DB.QueryContext(ctx, `SELECT name, capacity, available_hours FROM rooms ORDER BY name`)
	if err != nil {
		return nil, fmt.Errorf("load rooms: %w", err)
	}
	defer rows.Close()
	var records []domain.RoomRecord
	index := make(map[string]int)
	for rows.Next() {
		var room domain.Room
		var hours pq.Int64Array
		if err := rows.Scan(&room.Name, &room.Capacity, &hours); err != nil {
			return nil, fmt.Errorf("scan room: %w", err)
		}
		if len(hours)%2 != 0 {
			return nil, fmt.Errorf("room %s has an odd number of hour bounds: %w", room.Name, domain.ErrInvalidInput)
		}
		for i := 0; i < len(hours); i += 2 {
			room.AvailableHours = append(room.AvailableHours, domain.HourRange{Start: int(hours[i]), End: int(hours[i+1])})
		}
		index[room.Name] = len(records)
		records = append(records, domain.RoomRecord{Room: room})
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("load rooms: %w", err)
	}

	bookings, err := r.DB.QueryContext(ctx, `SELECT room, event_id, starts_at, ends_at FROM room_bookings ORDER BY room, starts_at, event_id`)
	if err != nil {
		return nil, fmt.Errorf("load room bookings: %w", err)
	}
	defer bookings.Close()
	for bookings.Next() {
		var room string
		var b domain.Booking
		if err := bookings.Scan(&room, &b.EventID, &b.Interval.Start, &b.Interval.End); err != nil {
			return nil, fmt.Errorf("scan room booking: %w", err)
		}
		if i, ok := index[room]; ok {
			b.Interval = r.localize(b.Interval)
			records[i].Bookings = append(records[i].Bookings, b)
		}
	}
	return records, bookings.Err()
}

func (r *SnapshotRepository) loadEvents(ctx context.Context) ([]*domain.Event, error) {
	rows, err := r.DB.QueryContext(ctx, `
		SELECT id, kind, name, description, room, starts_at, ends_at, capacity, organizer, hosts, attendees
		FROM events
		ORDER BY starts_at, id
	`)
	if err != nil {
		return nil, fmt.Errorf("load events: %w", err)
	}
	defer rows.Close()
	var events []*domain.Event
	for rows.Next() {
		e := &domain.Event{}
		var kind string
		var hosts, attendees pq.StringArray
		if err := rows.Scan(&e.ID, &kind, &e.Name, &e.Description, &e.Room, &e.Start, &e.End, &e.Capacity, &e.Organizer, &hosts, &attendees); err != nil {
			return nil, fmt.Errorf("scan event: %w", err)
		}
		e.Kind = domain.EventKind(kind)
		e.Start, e.End = e.Start.In(r.Location), e.End.In(r.Location)
		e.Hosts = append([]string{}, hosts...)
		e.Attendees = append([]string{}, attendees...)
		events = append(events, e)
	}
	return events, rows.Err()
}

func (r *SnapshotRepository) loadSequences(ctx context.Context, into map[domain.EventKind]int) error {
	rows, err := r.DB.QueryContext(ctx, `SELECT kind, counter FROM event_sequences`)
	if err != nil {
		return fmt.Errorf("load sequences: %w", err)
	}
	defer rows.Close()
	for rows.Next() {
		var kind string
		var n int
		if err := rows.Scan(&kind, &n); err != nil {
			return fmt.Errorf("scan sequence: %w", err)
		}
		into[domain.EventKind(kind)] = n
	}
	return rows.Err()
}

func (r *SnapshotRepository) localize(iv domain.Interval) domain.Interval {
	return domain.Interval{Start: iv.Start.In(r.Location), End: iv.End.In(r.Location)}
}
