package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/campusconnect/campus-backend/internal/validation"
	"github.com/campusconnect/campus-backend/store"
	"github.com/campusconnect/campus-backend/types"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

var _ store.PostStore = (*PgPostStore)(nil)

const postColumns = `id, club_id, user_id, user_name, user_photo, content, post_image, likes, liked_by, created_at, updated_at`

// PgPostStore implements store.PostStore using PostgreSQL.
type PgPostStore struct {
	db DB
}

// NewPgPostStore creates a new PostgreSQL post store.
func NewPgPostStore(db DB) *PgPostStore {
	return &PgPostStore{db: db}
}

func scanPost(row scanner) (*types.ClubPost, error) {
	var p types.ClubPost
	if err := row.Scan(&p.ID, &p.ClubID, &p.UserID, &p.UserName, &p.UserPhoto, &p.Content,
		&p.PostImage, &p.Likes, &p.LikedBy, &p.CreatedAt, &p.UpdatedAt); err != nil {
		return nil, err
	}
	stored := p.Likes
	p.Normalize(now())
	if p.Likes != stored {
		logDrift("post", p.ID, stored, p.Likes)
	}
	return &p, nil
}

// Create inserts a post with an empty like set.
func (s *PgPostStore) Create(ctx context.Context, p *types.ClubPost) (string, error) {
	if p.ID == "" {
		p.ID = uuid.NewString()
	}
	p.LikedBy = []string{}
	p.Normalize(now())
	if err := validation.Struct("post", p); err != nil {
		return "", err
	}

	_, err := s.db.Exec(ctx, `
		INSERT INTO club_posts (id, club_id, user_id, user_name, user_photo, content, post_image, likes, liked_by, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, 0, '{}', $8)`,
		p.ID, p.ClubID, p.UserID, p.UserName, p.UserPhoto, p.Content, p.PostImage, p.CreatedAt)
	if err != nil {
		if pgErrorCode(err) == pgForeignKeyViolation {
			return "", fmt.Errorf("club with id %s not found: %w", p.ClubID, store.ErrNotFound)
		}
		return "", fmt.Errorf("failed to create post: %w", err)
	}
	return p.ID, nil
}

// GetByID retrieves a post by its ID.
func (s *PgPostStore) GetByID(ctx context.Context, id string) (*types.ClubPost, error) {
	p, err := scanPost(s.db.QueryRow(ctx, `SELECT `+postColumns+` FROM club_posts WHERE id = $1`, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("post with id %s not found: %w", id, store.ErrNotFound)
		}
		return nil, fmt.Errorf("failed to get post: %w", err)
	}
	return p, nil
}

// ListByClub returns a club's feed, newest first.
func (s *PgPostStore) ListByClub(ctx context.Context, clubID string) ([]types.ClubPost, error) {
	rows, err := s.db.Query(ctx,
		`SELECT `+postColumns+` FROM club_posts WHERE club_id = $1 ORDER BY created_at DESC`, clubID)
	if err != nil {
		return nil, fmt.Errorf("failed to list posts: %w", err)
	}
	defer rows.Close()

	posts := []types.ClubPost{}
	for rows.Next() {
		p, err := scanPost(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan post row: %w", err)
		}
		posts = append(posts, *p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating post rows: %w", err)
	}
	return posts, nil
}

// UpdateContent replaces the text of a post and stamps updated_at.
func (s *PgPostStore) UpdateContent(ctx context.Context, id, content string, updatedAt time.Time) error {
	tag, err := s.db.Exec(ctx,
		`UPDATE club_posts SET content = $2, updated_at = $3 WHERE id = $1`, id, content, updatedAt)
	if err != nil {
		return fmt.Errorf("failed to update post: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("post with id %s not found: %w", id, store.ErrNotFound)
	}
	return nil
}

func (s *PgPostStore) Delete(ctx context.Context, id string) error {
	tag, err := s.db.Exec(ctx, `DELETE FROM club_posts WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete post: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("post with id %s not found: %w", id, store.ErrNotFound)
	}
	return nil
}

// ToggleLike locks the post row, flips userID's membership in liked_by and
// writes likes as the cardinality of the new set.
func (s *PgPostStore) ToggleLike(ctx context.Context, postID, userID string) (*types.ClubPost, bool, error) {
	tx, err := s.db.Begin(ctx)
	if err != nil {
		return nil, false, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer rollback(ctx, tx)

	var likedBy []string
	err = tx.QueryRow(ctx, `SELECT liked_by FROM club_posts WHERE id = $1 FOR UPDATE`, postID).Scan(&likedBy)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, false, fmt.Errorf("post with id %s not found: %w", postID, store.ErrNotFound)
		}
		return nil, false, fmt.Errorf("failed to lock post: %w", err)
	}

	next, liked := toggleMember(likedBy, userID)

	p, err := scanPost(tx.QueryRow(ctx, `
		UPDATE club_posts
		SET liked_by = $2, likes = cardinality($2::text[])
		WHERE id = $1
		RETURNING `+postColumns, postID, next))
	if err != nil {
		return nil, false, fmt.Errorf("failed to update likes: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, false, fmt.Errorf("failed to commit like: %w", err)
	}
	return p, liked, nil
}

// toggleMember removes id from set if present, appends it otherwise.
// Duplicates already in set are collapsed.
func toggleMember(set []string, id string) ([]string, bool) {
	seen := make(map[string]struct{}, len(set))
	out := make([]string, 0, len(set)+1)
	found := false
	for _, v := range set {
		if _, dup := seen[v]; dup {
			continue
		}
		seen[v] = struct{}{}
		if v == id {
			found = true
			continue
		}
		out = append(out, v)
	}
	if found {
		return out, false
	}
	return append(out, id), true
}

// ReconcileLikeCounts rewrites likes from liked_by where they disagree.
func (s *PgPostStore) ReconcileLikeCounts(ctx context.Context) (int64, error) {
	tag, err := s.db.Exec(ctx,
		`UPDATE club_posts SET likes = cardinality(liked_by) WHERE likes <> cardinality(liked_by)`)
	if err != nil {
		return 0, fmt.Errorf("failed to reconcile like counts: %w", err)
	}
	return tag.RowsAffected(), nil
}
