package postgres

import (
	"context"
	"testing"
	"time"

	"github.com/campusconnect/campus-backend/store"
	"github.com/campusconnect/campus-backend/types"
	"github.com/pashagolub/pgxmock/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

var postCols = []string{"id", "club_id", "user_id", "user_name", "user_photo", "content", "post_image", "likes", "liked_by", "created_at", "updated_at"}

func postRow(rows *pgxmock.Rows, id string, likes int, likedBy []string) *pgxmock.Rows {
	return rows.AddRow(id, "c1", "author", "Ada", "", "hello", "", likes, likedBy, fixedNow, (*time.Time)(nil))
}

func TestToggleMember(t *testing.T) {
	next, liked := toggleMember([]string{"a", "b"}, "c")
	assert.True(t, liked)
	assert.Equal(t, []string{"a", "b", "c"}, next)

	next, liked = toggleMember([]string{"a", "b", "a"}, "a")
	assert.False(t, liked)
	assert.Equal(t, []string{"b"}, next)

	next, liked = toggleMember(nil, "a")
	assert.True(t, liked)
	assert.Equal(t, []string{"a"}, next)
}

func TestPgPostStore_ToggleLike(t *testing.T) {
	t.Run("like adds the user and recounts", func(t *testing.T) {
		mock := setupMockDB(t)
		s := NewPgPostStore(mock)

		mock.ExpectBegin()
		mock.ExpectQuery("SELECT liked_by FROM club_posts WHERE id = \\$1 FOR UPDATE").WithArgs("p1").
			WillReturnRows(pgxmock.NewRows([]string{"liked_by"}).AddRow([]string{"x"}))
		mock.ExpectQuery("UPDATE club_posts\\s+SET liked_by = \\$2, likes = cardinality").
			WithArgs("p1", []string{"x", "u1"}).
			WillReturnRows(postRow(pgxmock.NewRows(postCols), "p1", 2, []string{"x", "u1"}))
		mock.ExpectCommit()

		post, liked, err := s.ToggleLike(context.Background(), "p1", "u1")
		require.NoError(t, err)
		assert.True(t, liked)
		assert.Equal(t, 2, post.Likes)
		assert.True(t, post.IsLikedBy("u1"))
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("unlike removes the user", func(t *testing.T) {
		mock := setupMockDB(t)
		s := NewPgPostStore(mock)

		mock.ExpectBegin()
		mock.ExpectQuery("FOR UPDATE").WithArgs("p1").
			WillReturnRows(pgxmock.NewRows([]string{"liked_by"}).AddRow([]string{"u1"}))
		mock.ExpectQuery("UPDATE club_posts").
			WithArgs("p1", []string{}).
			WillReturnRows(postRow(pgxmock.NewRows(postCols), "p1", 0, []string{}))
		mock.ExpectCommit()

		post, liked, err := s.ToggleLike(context.Background(), "p1", "u1")
		require.NoError(t, err)
		assert.False(t, liked)
		assert.Equal(t, 0, post.Likes)
		assert.Empty(t, post.LikedBy)
		assert.False(t, post.IsLikedBy("u1"))
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("missing post", func(t *testing.T) {
		mock := setupMockDB(t)
		s := NewPgPostStore(mock)

		mock.ExpectBegin()
		mock.ExpectQuery("FOR UPDATE").WithArgs("nope").
			WillReturnRows(pgxmock.NewRows([]string{"liked_by"}))
		mock.ExpectRollback()

		_, _, err := s.ToggleLike(context.Background(), "nope", "u1")
		assert.ErrorIs(t, err, store.ErrNotFound)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestPgPostStore_ListByClub_NormalizesDriftedLikes(t *testing.T) {
	mock := setupMockDB(t)
	drift := observeDrift(t)
	s := NewPgPostStore(mock)

	rows := pgxmock.NewRows(postCols).
		AddRow("p1", "c1", "author", "", "", "hi", "", 7, []string{"a"}, time.Time{}, (*time.Time)(nil))
	mock.ExpectQuery("FROM club_posts WHERE club_id = \\$1 ORDER BY created_at DESC").WithArgs("c1").
		WillReturnRows(rows)

	posts, err := s.ListByClub(context.Background(), "c1")
	require.NoError(t, err)
	require.Len(t, posts, 1)
	assert.Equal(t, 1, posts[0].Likes)
	assert.Equal(t, types.UnknownUserName, posts[0].UserName)
	assert.Equal(t, fixedNow, posts[0].CreatedAt)
	assert.NoError(t, mock.ExpectationsWereMet())

	entries := drift.FilterField(zap.String("entity", "post")).All()
	require.Len(t, entries, 1)
	assert.Equal(t, int64(7), entries[0].ContextMap()["stored"])
	assert.Equal(t, int64(1), entries[0].ContextMap()["served"])
}

func TestPgPostStore_Create(t *testing.T) {
	mock := setupMockDB(t)
	s := NewPgPostStore(mock)

	mock.ExpectExec("INSERT INTO club_posts").
		WithArgs(pgxmock.AnyArg(), "c1", "u1", "Ada", "", "hello", "", fixedNow).
		WillReturnResult(pgxmock.NewResult("INSERT", 1))

	id, err := s.Create(context.Background(), &types.ClubPost{ClubID: "c1", UserID: "u1", UserName: "Ada", Content: "hello"})
	require.NoError(t, err)
	assert.NotEmpty(t, id)

	_, err = s.Create(context.Background(), &types.ClubPost{ClubID: "c1", UserID: "u1"})
	assert.Error(t, err, "empty content must not reach the database")
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPgPostStore_UpdateAndDelete(t *testing.T) {
	mock := setupMockDB(t)
	s := NewPgPostStore(mock)

	mock.ExpectExec("UPDATE club_posts SET content = \\$2, updated_at = \\$3").
		WithArgs("p1", "edited", fixedNow).
		WillReturnResult(pgxmock.NewResult("UPDATE", 1))
	mock.ExpectExec("DELETE FROM club_posts").WithArgs("p1").
		WillReturnResult(pgxmock.NewResult("DELETE", 0))

	require.NoError(t, s.UpdateContent(context.Background(), "p1", "edited", fixedNow))
	assert.ErrorIs(t, s.Delete(context.Background(), "p1"), store.ErrNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPgPostStore_ReconcileLikeCounts(t *testing.T) {
	mock := setupMockDB(t)
	s := NewPgPostStore(mock)

	mock.ExpectExec("SET likes = cardinality\\(liked_by\\)").
		WillReturnResult(pgxmock.NewResult("UPDATE", 2))

	n, err := s.ReconcileLikeCounts(context.Background())
	require.NoError(t, err)
	assert.Equal(t, int64(2), n)
	assert.NoError(t, mock.ExpectationsWereMet())
}
