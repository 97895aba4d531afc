// Package errors translates persistence failures into application errors for
// the campus engines.
package errors

import (
	stderrors "errors"
	"fmt"

	"github.com/campusconnect/campus-backend/errors"
	"github.com/campusconnect/campus-backend/store"
)

// Error codes carried in AppError.Code.
const (
	ErrClubNotFound         = "CLUB_NOT_FOUND"
	ErrPostNotFound         = "POST_NOT_FOUND"
	ErrNotificationNotFound = "NOTIFICATION_NOT_FOUND"
	ErrEventNotFound        = "EVENT_NOT_FOUND"
	ErrItemNotFound         = "ITEM_NOT_FOUND"
	ErrCommentNotFound      = "COMMENT_NOT_FOUND"
	ErrMemberNotFound       = "MEMBER_NOT_FOUND"

	ErrAlreadyMember = "ALREADY_MEMBER"
	ErrEventFull     = "EVENT_FULL"
	ErrNotOwner      = "NOT_OWNER"
)

// FromStore maps a store error onto an AppError. AppErrors raised at the
// validation boundary pass through unchanged; anything unrecognised becomes a
// sanitized database error.
func FromStore(err error, entity, id string) error {
	if err == nil {
		return nil
	}
	if _, ok := errors.As(err); ok {
		return err
	}

	switch {
	case stderrors.Is(err, store.ErrNotFound):
		e := errors.NotFound(entity, id)
		e.Code = notFoundCode(entity)
		e.Raw = err
		return e
	case stderrors.Is(err, store.ErrForbidden):
		e := errors.Forbidden(fmt.Sprintf("You do not have access to this %s", lower(entity)), "")
		e.Code = ErrNotOwner
		e.Raw = err
		return e
	case stderrors.Is(err, store.ErrConflict):
		e := errors.NewConflictError(fmt.Sprintf("%s already exists", entity), "")
		e.Raw = err
		return e
	case stderrors.Is(err, store.ErrCapacity):
		e := errors.NewConflictError(fmt.Sprintf("%s is full", entity), "")
		e.Code = ErrEventFull
		e.Raw = err
		return e
	case stderrors.Is(err, store.ErrUnavailable):
		return errors.NewBackendError("supabase", err)
	}
	return errors.NewDatabaseError(err)
}

// NotOwner builds the FORBIDDEN error returned when the actor does not own a record.
func NotOwner(message string) *errors.AppError {
	e := errors.Forbidden(message, "")
	e.Code = ErrNotOwner
	return e
}

func notFoundCode(entity string) string {
	switch entity {
	case "Club":
		return ErrClubNotFound
	case "Post":
		return ErrPostNotFound
	case "Notification":
		return ErrNotificationNotFound
	case "Event":
		return ErrEventNotFound
	case "Item":
		return ErrItemNotFound
	case "Comment":
		return ErrCommentNotFound
	case "Membership":
		return ErrMemberNotFound
	}
	return ""
}

func lower(s string) string {
	if s == "" {
		return s
	}
	b := []byte(s)
	if b[0] >= 'A' && b[0] <= 'Z' {
		b[0] += 'a' - 'A'
	}
	return string(b)
}
