package types

import (
	"strings"
	"time"
)

// UnknownUserName is shown for records written without an author name.
const UnknownUserName = "Unknown User"

type ClubCategory string

const (
	ClubCategoryTech             ClubCategory = "Tech"
	ClubCategoryAcademic         ClubCategory = "Academic"
	ClubCategoryArts             ClubCategory = "Arts"
	ClubCategorySocial           ClubCategory = "Social"
	ClubCategorySports           ClubCategory = "Sports"
	ClubCategoryEntrepreneurship ClubCategory = "Entrepreneurship"
	ClubCategoryCultural         ClubCategory = "Cultural"
)

// ClubCategories lists the categories in the order the directory shows them.
var ClubCategories = []ClubCategory{
	ClubCategoryTech,
	ClubCategoryAcademic,
	ClubCategoryArts,
	ClubCategorySocial,
	ClubCategorySports,
	ClubCategoryEntrepreneurship,
	ClubCategoryCultural,
}

func (c ClubCategory) IsValid() bool {
	for _, known := range ClubCategories {
		if c == known {
			return true
		}
	}
	return false
}

// Club is a named community with a member roster and a post feed.
// MemberCount is derived from club_members and only changes on join/leave.
type Club struct {
	ID          string       `json:"id" validate:"required"`
	Name        string       `json:"name" validate:"required"`
	Description string       `json:"description"`
	MemberCount int          `json:"memberCount" validate:"gte=0"`
	Category    ClubCategory `json:"category,omitempty"`
	ImageURL    string       `json:"imageUrl,omitempty"`
	Instagram   string       `json:"instagram,omitempty"`
	Website     string       `json:"website,omitempty"`
	CreatedAt   time.Time    `json:"createdAt"`
}

// Normalize clamps the counter and fills a missing timestamp.
// It reports whether anything had to be patched.
func (c *Club) Normalize(now time.Time) bool {
	patched := false
	if c.MemberCount < 0 {
		c.MemberCount = 0
		patched = true
	}
	if c.CreatedAt.IsZero() {
		c.CreatedAt = now
		patched = true
	}
	return patched
}

// Matches reports whether the club passes a directory filter.
func (c Club) Matches(f ClubFilter) bool {
	if f.Category != "" && f.Category != "All" && string(c.Category) != f.Category {
		return false
	}
	q := strings.ToLower(strings.TrimSpace(f.Search))
	if q == "" {
		return true
	}
	return strings.Contains(strings.ToLower(c.Name), q) ||
		strings.Contains(strings.ToLower(c.Description), q)
}

// ClubFilter narrows the club directory. Category "All" or "" disables the category filter.
type ClubFilter struct {
	Search   string `form:"search"`
	Category string `form:"category"`
}

// ClubMember links a user to a club. Unique on (ClubID, UserID).
type ClubMember struct {
	ID       string    `json:"id"`
	ClubID   string    `json:"clubId" validate:"required"`
	UserID   string    `json:"userId" validate:"required"`
	UserName string    `json:"userName"`
	JoinedAt time.Time `json:"joinedAt"`
}

func (m *ClubMember) Normalize(now time.Time) {
	if strings.TrimSpace(m.UserName) == "" {
		m.UserName = UnknownUserName
	}
	if m.JoinedAt.IsZero() {
		m.JoinedAt = now
	}
}
