// Package service implements comment threads attached to events and
// lost-and-found items.
package service

import (
	"context"
	"strings"
	"time"

	"github.com/campusconnect/campus-backend/errors"
	ierrors "github.com/campusconnect/campus-backend/internal/errors"
	"github.com/campusconnect/campus-backend/store"
	"github.com/campusconnect/campus-backend/types"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// MaxCommentLength bounds comment content in runes.
const MaxCommentLength = 2000

// Thread is the comment list of one parent collection.
type Thread struct {
	comments store.CommentStore
	parent   types.CommentParent
	logger   *zap.Logger
	now      func() time.Time
}

func NewThread(comments store.CommentStore, parent types.CommentParent, logger *zap.Logger) *Thread {
	return &Thread{
		comments: comments,
		parent:   parent,
		logger:   logger.Named("CommentThread").With(zap.String("parent", string(parent))),
		now:      time.Now,
	}
}

// SetClock replaces the time source.
func (t *Thread) SetClock(now func() time.Time) { t.now = now }

// List returns the comments of parentID oldest first.
func (t *Thread) List(ctx context.Context, parentID string) ([]types.Comment, error) {
	list, err := t.comments.ListByParent(ctx, t.parent, parentID)
	if err != nil {
		return nil, ierrors.FromStore(err, "Comment", "")
	}
	return list, nil
}

// Add stores a comment written by actor. The caller checks that the parent exists.
func (t *Thread) Add(ctx context.Context, actor types.Actor, parentID, content string) (*types.Comment, error) {
	content = strings.TrimSpace(content)
	if content == "" {
		return nil, errors.ValidationFailed("Comment cannot be empty", "content is required")
	}
	if len([]rune(content)) > MaxCommentLength {
		return nil, errors.ValidationFailed("Comment is too long", "content exceeds 2000 characters")
	}

	c := &types.Comment{
		ID:           uuid.NewString(),
		ParentType:   t.parent,
		ParentID:     parentID,
		AuthorID:     actor.UserID,
		AuthorName:   actor.Name(),
		AuthorAvatar: actor.AvatarURL,
		Content:      content,
		CreatedAt:    t.now(),
	}
	if _, err := t.comments.Create(ctx, c); err != nil {
		return nil, ierrors.FromStore(err, "Comment", c.ID)
	}
	t.logger.Debug("Comment added", zap.String("parentID", parentID), zap.String("commentID", c.ID))
	return c, nil
}

// Delete removes a comment. Only its author may delete it, and it must belong
// to parentID.
func (t *Thread) Delete(ctx context.Context, actor types.Actor, parentID, commentID string) error {
	c, err := t.comments.GetByID(ctx, t.parent, commentID)
	if err != nil {
		return ierrors.FromStore(err, "Comment", commentID)
	}
	if c.ParentID != parentID {
		return ierrors.FromStore(store.ErrNotFound, "Comment", commentID)
	}
	if c.AuthorID != actor.UserID {
		return ierrors.NotOwner("Only the author can delete this comment")
	}
	if err := t.comments.Delete(ctx, t.parent, commentID); err != nil {
		return ierrors.FromStore(err, "Comment", commentID)
	}
	return nil
}
