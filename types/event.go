package types

import (
	"strings"
	"time"
)

type EventCategory string

const (
	EventCategoryFest        EventCategory = "fest"
	EventCategoryWorkshop    EventCategory = "workshop"
	EventCategoryWebinar     EventCategory = "webinar"
	EventCategoryClub        EventCategory = "club"
	EventCategoryCompetition EventCategory = "competition"
	EventCategoryOther       EventCategory = "other"
)

func (c EventCategory) IsValid() bool {
	switch c {
	case EventCategoryFest, EventCategoryWorkshop, EventCategoryWebinar,
		EventCategoryClub, EventCategoryCompetition, EventCategoryOther:
		return true
	}
	return false
}

// EventDateLayout is the layout of Event.Date.
const EventDateLayout = "2006-01-02"

// CampusEvent is a dated happening students can RSVP to.
// A nil MaxAttendees means unlimited capacity.
type CampusEvent struct {
	ID            string        `json:"id"`
	Title         string        `json:"title" validate:"required"`
	Description   string        `json:"description"`
	ImageURL      string        `json:"imageUrl,omitempty"`
	Date          string        `json:"date" validate:"required,datetime=2006-01-02"`
	Time          string        `json:"time" validate:"required"`
	Location      string        `json:"location" validate:"required"`
	Category      EventCategory `json:"category" validate:"required"`
	OrganizerID   string        `json:"organizerId" validate:"required"`
	OrganizerName string        `json:"organizerName"`
	Attendees     []string      `json:"attendees"`
	MaxAttendees  *int          `json:"maxAttendees"`
	CreatedAt     time.Time     `json:"createdAt"`
}

func (e *CampusEvent) Normalize(now time.Time) {
	if strings.TrimSpace(e.OrganizerName) == "" {
		e.OrganizerName = UnknownUserName
	}
	if e.Attendees == nil {
		e.Attendees = []string{}
	}
	if e.Category == "" {
		e.Category = EventCategoryOther
	}
	if e.CreatedAt.IsZero() {
		e.CreatedAt = now
	}
}

// IsAttending reports whether userID has RSVPed.
func (e CampusEvent) IsAttending(userID string) bool {
	for _, id := range e.Attendees {
		if id == userID {
			return true
		}
	}
	return false
}

// IsFull reports whether a new attendee would exceed capacity.
func (e CampusEvent) IsFull() bool {
	return e.MaxAttendees != nil && len(e.Attendees) >= *e.MaxAttendees
}

// NewEventInput is the organizer supplied part of an event.
type NewEventInput struct {
	Title        string        `json:"title" form:"title"`
	Description  string        `json:"description" form:"description"`
	Date         string        `json:"date" form:"date"`
	Time         string        `json:"time" form:"time"`
	Location     string        `json:"location" form:"location"`
	Category     EventCategory `json:"category" form:"category"`
	MaxAttendees *int          `json:"maxAttendees" form:"maxAttendees"`
	Image        *ImageUpload  `json:"-"`
}

// RSVPResult reports the attendee state after an RSVP change.
type RSVPResult struct {
	EventID   string `json:"eventId"`
	Attending bool   `json:"attending"`
	Attendees int    `json:"attendees"`
}
