package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/campusconnect/campus-backend/internal/validation"
	"github.com/campusconnect/campus-backend/store"
	"github.com/campusconnect/campus-backend/types"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

var _ store.EventStore = (*PgEventStore)(nil)

const eventColumns = `id, title, description, image_url, to_char(event_date, 'YYYY-MM-DD'), event_time,
	location, category, organizer_id, organizer_name, attendees, max_attendees, created_at`

// PgEventStore implements store.EventStore using PostgreSQL.
type PgEventStore struct {
	db DB
}

func NewPgEventStore(db DB) *PgEventStore {
	return &PgEventStore{db: db}
}

func scanEvent(row scanner) (*types.CampusEvent, error) {
	var e types.CampusEvent
	if err := row.Scan(&e.ID, &e.Title, &e.Description, &e.ImageURL, &e.Date, &e.Time,
		&e.Location, &e.Category, &e.OrganizerID, &e.OrganizerName, &e.Attendees,
		&e.MaxAttendees, &e.CreatedAt); err != nil {
		return nil, err
	}
	e.Normalize(now())
	return &e, nil
}

// List returns events by date ascending, optionally narrowed to one category.
func (s *PgEventStore) List(ctx context.Context, category string) ([]types.CampusEvent, error) {
	query := `SELECT ` + eventColumns + ` FROM events`
	args := []any{}
	if category != "" && category != "all" {
		query += ` WHERE category = $1`
		args = append(args, category)
	}
	query += ` ORDER BY event_date, event_time`

	rows, err := s.db.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list events: %w", err)
	}
	defer rows.Close()

	events := []types.CampusEvent{}
	for rows.Next() {
		e, err := scanEvent(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan event row: %w", err)
		}
		events = append(events, *e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating event rows: %w", err)
	}
	return events, nil
}

func (s *PgEventStore) GetByID(ctx context.Context, id string) (*types.CampusEvent, error) {
	e, err := scanEvent(s.db.QueryRow(ctx, `SELECT `+eventColumns+` FROM events WHERE id = $1`, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("event with id %s not found: %w", id, store.ErrNotFound)
		}
		return nil, fmt.Errorf("failed to get event: %w", err)
	}
	return e, nil
}

// Create inserts an event with no attendees.
func (s *PgEventStore) Create(ctx context.Context, e *types.CampusEvent) (string, error) {
	if e.ID == "" {
		e.ID = uuid.NewString()
	}
	e.Attendees = []string{}
	e.Normalize(now())
	if err := validation.Struct("event", e); err != nil {
		return "", err
	}

	_, err := s.db.Exec(ctx, `
		INSERT INTO events (id, title, description, image_url, event_date, event_time, location,
			category, organizer_id, organizer_name, attendees, max_attendees, created_at)
		VALUES ($1, $2, $3, $4, $5::date, $6, $7, $8, $9, $10, '{}', $11, $12)`,
		e.ID, e.Title, e.Description, e.ImageURL, e.Date, e.Time, e.Location,
		e.Category, e.OrganizerID, e.OrganizerName, e.MaxAttendees, e.CreatedAt)
	if err != nil {
		return "", fmt.Errorf("failed to create event: %w", err)
	}
	return e.ID, nil
}

// AddAttendee appends userID in a single conditional update so capacity is
// enforced by the database even under concurrent RSVPs.
func (s *PgEventStore) AddAttendee(ctx context.Context, eventID, userID string) (*types.CampusEvent, error) {
	e, err := scanEvent(s.db.QueryRow(ctx, `
		UPDATE events
		SET attendees = array_append(attendees, $2)
		WHERE id = $1
			AND NOT ($2 = ANY(attendees))
			AND (max_attendees IS NULL OR cardinality(attendees) < max_attendees)
		RETURNING `+eventColumns, eventID, userID))
	if err == nil {
		return e, nil
	}
	if !errors.Is(err, pgx.ErrNoRows) {
		return nil, fmt.Errorf("failed to add attendee: %w", err)
	}

	// Nothing updated: missing, already attending, or full.
	current, err := s.GetByID(ctx, eventID)
	if err != nil {
		return nil, err
	}
	if current.IsAttending(userID) {
		return current, nil
	}
	return nil, fmt.Errorf("event %s is full: %w", eventID, store.ErrCapacity)
}

func (s *PgEventStore) RemoveAttendee(ctx context.Context, eventID, userID string) (*types.CampusEvent, error) {
	e, err := scanEvent(s.db.QueryRow(ctx, `
		UPDATE events SET attendees = array_remove(attendees, $2)
		WHERE id = $1
		RETURNING `+eventColumns, eventID, userID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("event with id %s not found: %w", eventID, store.ErrNotFound)
		}
		return nil, fmt.Errorf("failed to remove attendee: %w", err)
	}
	return e, nil
}

// RemoveAttendeeEverywhere withdraws userID from every event they RSVPed to.
func (s *PgEventStore) RemoveAttendeeEverywhere(ctx context.Context, userID string) (int64, error) {
	tag, err := s.db.Exec(ctx,
		`UPDATE events SET attendees = array_remove(attendees, $1) WHERE $1 = ANY(attendees)`, userID)
	if err != nil {
		return 0, fmt.Errorf("failed to remove attendee from events: %w", err)
	}
	return tag.RowsAffected(), nil
}
