package types

import (
	"strings"
	"time"
)

// ClubPost is a message in a club feed. Likes always equals len(LikedBy).
type ClubPost struct {
	ID        string     `json:"id"`
	ClubID    string     `json:"clubId" validate:"required"`
	UserID    string     `json:"userId" validate:"required"`
	UserName  string     `json:"userName"`
	UserPhoto string     `json:"userPhoto,omitempty"`
	Content   string     `json:"content" validate:"required"`
	PostImage string     `json:"postImage,omitempty"`
	Likes     int        `json:"likes" validate:"gte=0"`
	LikedBy   []string   `json:"likedBy"`
	CreatedAt time.Time  `json:"createdAt"`
	UpdatedAt *time.Time `json:"updatedAt,omitempty"`
}

// Normalize patches partially written posts so callers never see a missing
// author, timestamp or like set. Likes is recomputed from LikedBy.
func (p *ClubPost) Normalize(now time.Time) bool {
	patched := false
	if strings.TrimSpace(p.UserName) == "" {
		p.UserName = UnknownUserName
		patched = true
	}
	if p.CreatedAt.IsZero() {
		p.CreatedAt = now
		patched = true
	}
	if p.LikedBy == nil {
		p.LikedBy = []string{}
	}
	if p.Likes != len(p.LikedBy) {
		p.Likes = len(p.LikedBy)
		patched = true
	}
	return patched
}

// IsLikedBy reports whether userID is in the like set.
func (p ClubPost) IsLikedBy(userID string) bool {
	for _, id := range p.LikedBy {
		if id == userID {
			return true
		}
	}
	return false
}

// IsOwnedBy reports whether userID authored the post.
func (p ClubPost) IsOwnedBy(userID string) bool {
	return p.UserID != "" && p.UserID == userID
}

// NewPostInput is what an author supplies when posting to a club.
type NewPostInput struct {
	Content string `json:"content" form:"content"`
	// Image is optional raw upload data.
	Image *ImageUpload `json:"-"`
}

// ImageUpload is an uploaded image before compression.
type ImageUpload struct {
	Filename string
	Data     []byte
}
