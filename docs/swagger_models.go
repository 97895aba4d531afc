package docs

import (
	"time"
)

// Models in this file only carry examples for the generated API docs.

// NotificationResponse is used for Swagger documentation
// @Description Notification information
type NotificationResponse struct {
	// The notification ID
	ID string `json:"id" example:"a1b2c3d4-e5f6-7890-abcd-ef1234567890"`

	// The user the notification is addressed to
	UserID string `json:"userId" example:"f3c1d2e4-0000-4a5b-9c8d-112233445566"`

	// friend_request, like, comment, message or event_reminder
	Type string `json:"type" example:"friend_request"`

	// Whether the notification has been read
	Read bool `json:"read" example:"false"`

	// Who triggered it
	SenderName string `json:"senderName" example:"Jordan Lee"`

	// The notification text
	Message string `json:"message" example:"Jordan Lee sent you a friend request"`

	// Set on friend_request notifications
	RequestID string `json:"requestId,omitempty" example:"fr_7f2a"`

	// When the notification was created
	CreatedAt time.Time `json:"createdAt" example:"2026-01-12T09:30:00Z"`
}

// ClubResponse is used for Swagger documentation
// @Description Club information
type ClubResponse struct {
	// The club ID
	ID string `json:"id" example:"robotics-society"`

	// Display name
	Name string `json:"name" example:"Robotics Society"`

	// Short description
	Description string `json:"description" example:"Build, code and compete with robots"`

	// Number of members, never negative
	MemberCount int `json:"memberCount" example:"42"`

	// Club category
	Category string `json:"category" example:"academic"`
}

// ErrorResponse represents an error response
// @Description Error information
type ErrorResponse struct {
	// Error category
	Type string `json:"type" example:"VALIDATION_ERROR"`

	// Machine readable code
	Code string `json:"code" example:"EVENT_FULL"`

	// Error message
	Message string `json:"message" example:"Event is full"`

	// Detailed error information
	Details string `json:"details,omitempty" example:"maxAttendees reached"`
}
