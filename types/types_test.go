package types

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestClubPostNormalize(t *testing.T) {
	now := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)

	p := ClubPost{ClubID: "c1", UserID: "u1", Content: "hi", Likes: 3}
	patched := p.Normalize(now)

	assert.True(t, patched)
	assert.Equal(t, UnknownUserName, p.UserName)
	assert.Equal(t, now, p.CreatedAt)
	assert.Equal(t, []string{}, p.LikedBy)
	assert.Equal(t, 0, p.Likes)

	ok := ClubPost{UserName: "Alice", CreatedAt: now, LikedBy: []string{"u2"}, Likes: 1}
	assert.False(t, ok.Normalize(now))
}

func TestClubMatches(t *testing.T) {
	club := Club{Name: "GDSC", Description: "Google Developer Student Club", Category: ClubCategoryTech}

	assert.True(t, club.Matches(ClubFilter{}))
	assert.True(t, club.Matches(ClubFilter{Category: "All"}))
	assert.True(t, club.Matches(ClubFilter{Search: "developer", Category: "Tech"}))
	assert.False(t, club.Matches(ClubFilter{Category: "Arts"}))
	assert.False(t, club.Matches(ClubFilter{Search: "dance"}))
}

func TestNotificationSettingsAllows(t *testing.T) {
	s := DefaultNotificationSettings()
	assert.True(t, s.Allows(NotificationTypeLike))

	s.Likes = false
	assert.False(t, s.Allows(NotificationTypeLike))
	assert.True(t, s.Allows(NotificationTypeMessage))
	assert.False(t, s.Allows(NotificationType("unknown")))
}

func TestCampusEventCapacity(t *testing.T) {
	limit := 2
	e := CampusEvent{Attendees: []string{"u1"}, MaxAttendees: &limit}
	assert.False(t, e.IsFull())
	e.Attendees = append(e.Attendees, "u2")
	assert.True(t, e.IsFull())

	unlimited := CampusEvent{Attendees: []string{"u1", "u2", "u3"}}
	assert.False(t, unlimited.IsFull())
}

func TestLostFoundContactMessage(t *testing.T) {
	item := LostFoundItem{ReporterName: "Priya", Type: LostFoundTypeLost, Title: "Blue umbrella"}
	assert.Equal(t,
		`Hi Priya, I'm reaching out regarding your lost item: "Blue umbrella". Can you provide more details?`,
		item.ContactMessage())
}

func TestUserProfileAvatar(t *testing.T) {
	assert.Equal(t, "U", UserProfile{}.Initial())
	assert.Equal(t, "Z", UserProfile{DisplayName: "zoya"}.Initial())
	assert.Equal(t, "pic", UserProfile{ProfilePic: "pic", PhotoURL: "photo"}.AvatarURL())
	assert.Equal(t, "photo", UserProfile{PhotoURL: "photo"}.AvatarURL())
	assert.Equal(t, UnknownUserName, Actor{}.Name())
}
