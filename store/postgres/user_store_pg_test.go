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

var userCols = []string{"id", "display_name", "major", "email", "profile_pic", "photo_url",
	"notify_friend_requests", "notify_likes", "notify_comments", "notify_messages", "created_at", "updated_at"}

func TestPgUserStore_GetProfile(t *testing.T) {
	mock := setupMockDB(t)
	s := NewPgUserStore(mock)

	mock.ExpectQuery("FROM users WHERE id = \\$1").WithArgs("u1").
		WillReturnRows(pgxmock.NewRows(userCols).
			AddRow("u1", "Ada", "CS", "ada@campus.edu", "", "https://idp/photo.jpg", true, false, true, true, fixedNow, fixedNow))
	mock.ExpectQuery("FROM users WHERE id = \\$1").WithArgs("ghost").
		WillReturnRows(pgxmock.NewRows(userCols))

	u, err := s.GetProfile(context.Background(), "u1")
	require.NoError(t, err)
	assert.Equal(t, "https://idp/photo.jpg", u.AvatarURL())
	assert.False(t, u.NotificationSettings.Likes)
	assert.False(t, u.NotificationSettings.Allows(types.NotificationTypeLike))

	_, err = s.GetProfile(context.Background(), "ghost")
	assert.ErrorIs(t, err, store.ErrNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPgUserStore_UpdateNotificationSettings_Missing(t *testing.T) {
	mock := setupMockDB(t)
	s := NewPgUserStore(mock)

	mock.ExpectExec("UPDATE users").
		WithArgs("u1", true, true, false, true, fixedNow).
		WillReturnResult(pgxmock.NewResult("UPDATE", 0))

	err := s.UpdateNotificationSettings(context.Background(), "u1",
		types.NotificationSettings{FriendRequests: true, Likes: true, Messages: true})
	assert.ErrorIs(t, err, store.ErrNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPgUserStore_CreateProfileIsIdempotent(t *testing.T) {
	mock := setupMockDB(t)
	s := NewPgUserStore(mock)

	mock.ExpectQuery("INSERT INTO users (.+) ON CONFLICT \\(id\\) DO UPDATE").
		WithArgs("u1", "Ada", "", "ada@campus.edu", "", "", true, true, true, true, fixedNow, fixedNow).
		WillReturnRows(pgxmock.NewRows(userCols).
			AddRow("u1", "Ada Lovelace", "Math", "ada@campus.edu", "", "", true, true, true, true, fixedNow, fixedNow))

	u, err := s.CreateProfile(context.Background(), &types.UserProfile{
		ID: "u1", DisplayName: "Ada", Email: " ada@campus.edu ",
		NotificationSettings: types.DefaultNotificationSettings(),
	})
	require.NoError(t, err)
	// Existing row wins.
	assert.Equal(t, "Ada Lovelace", u.DisplayName)
	assert.NoError(t, mock.ExpectationsWereMet())
}
