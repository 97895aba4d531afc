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

var _ store.CommentStore = (*PgCommentStore)(nil)

const commentColumns = `id, parent_type, parent_id, author_id, author_name, author_avatar, content, created_at`

// PgCommentStore keeps event and lost-and-found comments in one table keyed by parent type.
type PgCommentStore struct {
	db DB
}

func NewPgCommentStore(db DB) *PgCommentStore {
	return &PgCommentStore{db: db}
}

func scanComment(row scanner) (*types.Comment, error) {
	var c types.Comment
	if err := row.Scan(&c.ID, &c.ParentType, &c.ParentID, &c.AuthorID, &c.AuthorName,
		&c.AuthorAvatar, &c.Content, &c.CreatedAt); err != nil {
		return nil, err
	}
	c.Normalize(now())
	return &c, nil
}

func (s *PgCommentStore) Create(ctx context.Context, c *types.Comment) (string, error) {
	if c.ID == "" {
		c.ID = uuid.NewString()
	}
	c.Normalize(now())
	if err := validation.Struct("comment", c); err != nil {
		return "", err
	}

	_, err := s.db.Exec(ctx, `
		INSERT INTO comments (id, parent_type, parent_id, author_id, author_name, author_avatar, content, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`,
		c.ID, c.ParentType, c.ParentID, c.AuthorID, c.AuthorName, c.AuthorAvatar, c.Content, c.CreatedAt)
	if err != nil {
		return "", fmt.Errorf("failed to create comment: %w", err)
	}
	return c.ID, nil
}

func (s *PgCommentStore) GetByID(ctx context.Context, parent types.CommentParent, id string) (*types.Comment, error) {
	c, err := scanComment(s.db.QueryRow(ctx,
		`SELECT `+commentColumns+` FROM comments WHERE parent_type = $1 AND id = $2`, parent, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("comment with id %s not found: %w", id, store.ErrNotFound)
		}
		return nil, fmt.Errorf("failed to get comment: %w", err)
	}
	return c, nil
}

// ListByParent returns the thread under one event or item, oldest first.
func (s *PgCommentStore) ListByParent(ctx context.Context, parent types.CommentParent, parentID string) ([]types.Comment, error) {
	rows, err := s.db.Query(ctx, `
		SELECT `+commentColumns+`
		FROM comments
		WHERE parent_type = $1 AND parent_id = $2
		ORDER BY created_at`, parent, parentID)
	if err != nil {
		return nil, fmt.Errorf("failed to list comments: %w", err)
	}
	defer rows.Close()

	comments := []types.Comment{}
	for rows.Next() {
		c, err := scanComment(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan comment row: %w", err)
		}
		comments = append(comments, *c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating comment rows: %w", err)
	}
	return comments, nil
}

func (s *PgCommentStore) Delete(ctx context.Context, parent types.CommentParent, id string) error {
	tag, err := s.db.Exec(ctx, `DELETE FROM comments WHERE parent_type = $1 AND id = $2`, parent, id)
	if err != nil {
		return fmt.Errorf("failed to delete comment: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("comment with id %s not found: %w", id, store.ErrNotFound)
	}
	return nil
}
