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

var notificationCols = []string{"id", "user_id", "type", "read", "sender_id", "sender_name", "sender_avatar", "message", "request_id", "created_at"}

func TestPgNotificationStore_MarkRead(t *testing.T) {
	tests := []struct {
		name    string
		setup   func(mock pgxmock.PgxPoolIface)
		wantErr error
	}{
		{
			name: "owner marks read",
			setup: func(mock pgxmock.PgxPoolIface) {
				mock.ExpectExec("UPDATE notifications SET read = TRUE WHERE id = \\$1 AND user_id = \\$2").
					WithArgs("n1", "u1").
					WillReturnResult(pgxmock.NewResult("UPDATE", 1))
			},
		},
		{
			name: "missing notification",
			setup: func(mock pgxmock.PgxPoolIface) {
				mock.ExpectExec("UPDATE notifications").WithArgs("n1", "u1").
					WillReturnResult(pgxmock.NewResult("UPDATE", 0))
				mock.ExpectQuery("SELECT user_id FROM notifications WHERE id = \\$1").WithArgs("n1").
					WillReturnRows(pgxmock.NewRows([]string{"user_id"}))
			},
			wantErr: store.ErrNotFound,
		},
		{
			name: "someone else's notification",
			setup: func(mock pgxmock.PgxPoolIface) {
				mock.ExpectExec("UPDATE notifications").WithArgs("n1", "u1").
					WillReturnResult(pgxmock.NewResult("UPDATE", 0))
				mock.ExpectQuery("SELECT user_id FROM notifications").WithArgs("n1").
					WillReturnRows(pgxmock.NewRows([]string{"user_id"}).AddRow("u2"))
			},
			wantErr: store.ErrForbidden,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mock := setupMockDB(t)
			s := NewPgNotificationStore(mock)
			tt.setup(mock)

			err := s.MarkRead(context.Background(), "n1", "u1")
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
			} else {
				assert.NoError(t, err)
			}
			assert.NoError(t, mock.ExpectationsWereMet())
		})
	}
}

func TestPgNotificationStore_ListByUser(t *testing.T) {
	mock := setupMockDB(t)
	s := NewPgNotificationStore(mock)

	mock.ExpectQuery("FROM notifications WHERE user_id = \\$1 ORDER BY created_at DESC LIMIT \\$2").
		WithArgs("u1", 5).
		WillReturnRows(pgxmock.NewRows(notificationCols).
			AddRow("n1", "u1", types.NotificationTypeLike, false, "s1", "", "", "liked your post", "", fixedNow))

	list, err := s.ListByUser(context.Background(), "u1", 5)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, types.UnknownUserName, list[0].SenderName)
	assert.Equal(t, types.NotificationTypeLike, list[0].Type)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPgNotificationStore_CountsAndBulk(t *testing.T) {
	mock := setupMockDB(t)
	s := NewPgNotificationStore(mock)

	mock.ExpectQuery("SELECT COUNT\\(\\*\\) FROM notifications WHERE user_id = \\$1 AND read = FALSE").
		WithArgs("u1").
		WillReturnRows(pgxmock.NewRows([]string{"count"}).AddRow(int64(3)))
	mock.ExpectExec("UPDATE notifications SET read = TRUE WHERE user_id = \\$1 AND read = FALSE").
		WithArgs("u1").
		WillReturnResult(pgxmock.NewResult("UPDATE", 3))

	count, err := s.GetUnreadCount(context.Background(), "u1")
	require.NoError(t, err)
	assert.Equal(t, int64(3), count)

	n, err := s.MarkAllReadByUser(context.Background(), "u1")
	require.NoError(t, err)
	assert.Equal(t, int64(3), n)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPgNotificationStore_Create_FriendRequestNeedsRequestID(t *testing.T) {
	mock := setupMockDB(t)
	s := NewPgNotificationStore(mock)

	_, err := s.Create(context.Background(), &types.Notification{
		UserID: "u1",
		Type:   types.NotificationTypeFriendRequest,
	})
	require.Error(t, err)

	mock.ExpectExec("INSERT INTO notifications").
		WithArgs(pgxmock.AnyArg(), "u1", types.NotificationTypeFriendRequest, "s1", "Sam", "", "wants to be friends", "fr1", fixedNow).
		WillReturnResult(pgxmock.NewResult("INSERT", 1))

	id, err := s.Create(context.Background(), &types.Notification{
		UserID:     "u1",
		Type:       types.NotificationTypeFriendRequest,
		SenderID:   "s1",
		SenderName: "Sam",
		Message:    "wants to be friends",
		RequestID:  "fr1",
	})
	require.NoError(t, err)
	assert.NotEmpty(t, id)
	assert.NoError(t, mock.ExpectationsWereMet())
}
