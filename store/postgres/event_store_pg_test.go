package postgres

import (
	"context"
	"testing"

	"github.com/campusconnect/campus-backend/store"
	"github.com/campusconnect/campus-backend/types"
	"github.com/pashagolub/pgxmock/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var eventCols = []string{"id", "title", "description", "image_url", "event_date", "event_time", "location",
	"category", "organizer_id", "organizer_name", "attendees", "max_attendees", "created_at"}

func eventRows(attendees []string, max *int) *pgxmock.Rows {
	return pgxmock.NewRows(eventCols).AddRow("e1", "Hackathon", "", "", "2026-04-01", "18:00", "Hall A",
		types.EventCategoryCompetition, "org", "Grace", attendees, max, fixedNow)
}

func intPtr(n int) *int { return &n }

func TestPgEventStore_AddAttendee(t *testing.T) {
	t.Run("appends when there is room", func(t *testing.T) {
		mock := setupMockDB(t)
		s := NewPgEventStore(mock)

		mock.ExpectQuery("SET attendees = array_append\\(attendees, \\$2\\)").WithArgs("e1", "u1").
			WillReturnRows(eventRows([]string{"u1"}, intPtr(2)))

		e, err := s.AddAttendee(context.Background(), "e1", "u1")
		require.NoError(t, err)
		assert.True(t, e.IsAttending("u1"))
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("full event", func(t *testing.T) {
		mock := setupMockDB(t)
		s := NewPgEventStore(mock)

		mock.ExpectQuery("array_append").WithArgs("e1", "u1").
			WillReturnRows(pgxmock.NewRows(eventCols))
		mock.ExpectQuery("FROM events WHERE id = \\$1").WithArgs("e1").
			WillReturnRows(eventRows([]string{"a", "b"}, intPtr(2)))

		_, err := s.AddAttendee(context.Background(), "e1", "u1")
		assert.ErrorIs(t, err, store.ErrCapacity)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("repeat rsvp is a no-op", func(t *testing.T) {
		mock := setupMockDB(t)
		s := NewPgEventStore(mock)

		mock.ExpectQuery("array_append").WithArgs("e1", "u1").
			WillReturnRows(pgxmock.NewRows(eventCols))
		mock.ExpectQuery("FROM events WHERE id = \\$1").WithArgs("e1").
			WillReturnRows(eventRows([]string{"u1"}, (*int)(nil)))

		e, err := s.AddAttendee(context.Background(), "e1", "u1")
		require.NoError(t, err)
		assert.Len(t, e.Attendees, 1)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("missing event", func(t *testing.T) {
		mock := setupMockDB(t)
		s := NewPgEventStore(mock)

		mock.ExpectQuery("array_append").WithArgs("e1", "u1").
			WillReturnRows(pgxmock.NewRows(eventCols))
		mock.ExpectQuery("FROM events WHERE id = \\$1").WithArgs("e1").
			WillReturnRows(pgxmock.NewRows(eventCols))

		_, err := s.AddAttendee(context.Background(), "e1", "u1")
		assert.ErrorIs(t, err, store.ErrNotFound)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestPgEventStore_ListFiltersByCategory(t *testing.T) {
	mock := setupMockDB(t)
	s := NewPgEventStore(mock)

	mock.ExpectQuery("FROM events WHERE category = \\$1 ORDER BY event_date").WithArgs("workshop").
		WillReturnRows(pgxmock.NewRows(eventCols))
	mock.ExpectQuery("FROM events ORDER BY event_date").
		WillReturnRows(eventRows(nil, nil))

	list, err := s.List(context.Background(), "workshop")
	require.NoError(t, err)
	assert.Empty(t, list)

	list, err = s.List(context.Background(), "all")
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.NotNil(t, list[0].Attendees)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPgEventStore_CreateValidatesDate(t *testing.T) {
	mock := setupMockDB(t)
	s := NewPgEventStore(mock)

	_, err := s.Create(context.Background(), &types.CampusEvent{
		Title: "Talk", Date: "April 1st", Time: "18:00", Location: "Hall",
		Category: types.EventCategoryWebinar, OrganizerID: "org",
	})
	require.Error(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}
