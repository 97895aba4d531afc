package types

import (
	"strings"
	"time"
	"unicode"
	"unicode/utf8"
)

// Actor is the authenticated caller. Every engine operation takes one
// explicitly instead of reading session state.
type Actor struct {
	UserID      string `json:"userId"`
	DisplayName string `json:"displayName"`
	AvatarURL   string `json:"avatarUrl,omitempty"`
	Email       string `json:"email,omitempty"`
}

// Name returns the display name used when the actor authors a record.
func (a Actor) Name() string {
	if strings.TrimSpace(a.DisplayName) == "" {
		return UnknownUserName
	}
	return a.DisplayName
}

// UserProfile is the settings document kept per user.
type UserProfile struct {
	ID                   string               `json:"id" validate:"required"`
	DisplayName          string               `json:"displayName" validate:"max=80"`
	Major                string               `json:"major" validate:"max=120"`
	Email                string               `json:"email" validate:"omitempty,email"`
	ProfilePic           string               `json:"profilePic,omitempty"`
	PhotoURL             string               `json:"photoURL,omitempty"`
	NotificationSettings NotificationSettings `json:"notificationSettings"`
	CreatedAt            time.Time            `json:"createdAt"`
	UpdatedAt            time.Time            `json:"updatedAt"`
}

func (u *UserProfile) Normalize(now time.Time) {
	if u.CreatedAt.IsZero() {
		u.CreatedAt = now
	}
	if u.UpdatedAt.IsZero() {
		u.UpdatedAt = u.CreatedAt
	}
}

// AvatarURL resolves the picture to show: the uploaded profile picture,
// then the identity provider photo. Empty if neither is set.
func (u UserProfile) AvatarURL() string {
	if u.ProfilePic != "" {
		return u.ProfilePic
	}
	return u.PhotoURL
}

// Initial is the letter shown when there is no avatar.
func (u UserProfile) Initial() string {
	name := strings.TrimSpace(u.DisplayName)
	if name == "" {
		return "U"
	}
	r, _ := utf8.DecodeRuneInString(name)
	return string(unicode.ToUpper(r))
}

// Actor builds the identity used for authored records.
func (u UserProfile) Actor() Actor {
	return Actor{UserID: u.ID, DisplayName: u.DisplayName, AvatarURL: u.AvatarURL(), Email: u.Email}
}

// ProfileUpdate holds the editable profile fields.
type ProfileUpdate struct {
	DisplayName string `json:"displayName" binding:"required,max=80"`
	Major       string `json:"major" binding:"max=120"`
}

// SettingsView is returned by the settings endpoint.
type SettingsView struct {
	Profile UserProfile `json:"profile"`
	Avatar  string      `json:"avatar,omitempty"`
	Initial string      `json:"initial"`
}
