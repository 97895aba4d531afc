package types

import (
	"fmt"
	"strings"
	"time"
)

type LostFoundType string

const (
	LostFoundTypeLost  LostFoundType = "lost"
	LostFoundTypeFound LostFoundType = "found"
)

type LostFoundCategory string

const (
	LostFoundCategoryElectronics LostFoundCategory = "electronics"
	LostFoundCategoryBooks       LostFoundCategory = "books"
	LostFoundCategoryClothing    LostFoundCategory = "clothing"
	LostFoundCategoryAccessories LostFoundCategory = "accessories"
	LostFoundCategoryDocuments   LostFoundCategory = "documents"
	LostFoundCategoryOther       LostFoundCategory = "other"
)

// LostFoundItem is a lost or found report on the board.
type LostFoundItem struct {
	ID              string            `json:"id"`
	Title           string            `json:"title" validate:"required"`
	Description     string            `json:"description" validate:"required"`
	Category        LostFoundCategory `json:"category" validate:"required,oneof=electronics books clothing accessories documents other"`
	Location        string            `json:"location" validate:"required"`
	Date            string            `json:"date" validate:"required"`
	Type            LostFoundType     `json:"type" validate:"required,oneof=lost found"`
	ReporterID      string            `json:"reporterId" validate:"required"`
	ReporterName    string            `json:"reporterName"`
	ReporterContact string            `json:"reporterContact" validate:"required"`
	ImageURL        string            `json:"imageUrl,omitempty"`
	Resolved        bool              `json:"resolved"`
	CreatedAt       time.Time         `json:"createdAt"`
}

func (i *LostFoundItem) Normalize(now time.Time) {
	if strings.TrimSpace(i.ReporterName) == "" {
		i.ReporterName = UnknownUserName
	}
	if i.CreatedAt.IsZero() {
		i.CreatedAt = now
	}
}

// ContactMessage is the default opener sent to a reporter.
func (i LostFoundItem) ContactMessage() string {
	return fmt.Sprintf("Hi %s, I'm reaching out regarding your %s item: \"%s\". Can you provide more details?",
		i.ReporterName, i.Type, i.Title)
}

// LostFoundFilter narrows the board listing. Resolved items are never listed.
type LostFoundFilter struct {
	Type     string `form:"type"`
	Category string `form:"category"`
	Search   string `form:"search"`
}

// Matches applies the filter to an item.
func (i LostFoundItem) Matches(f LostFoundFilter) bool {
	if f.Type != "" && f.Type != "all" && string(i.Type) != f.Type {
		return false
	}
	if f.Category != "" && f.Category != "all" && string(i.Category) != f.Category {
		return false
	}
	q := strings.ToLower(strings.TrimSpace(f.Search))
	if q == "" {
		return true
	}
	return strings.Contains(strings.ToLower(i.Title), q) ||
		strings.Contains(strings.ToLower(i.Description), q) ||
		strings.Contains(strings.ToLower(i.Location), q)
}

// NewLostFoundInput is the reporter supplied part of an item.
type NewLostFoundInput struct {
	Title           string            `json:"title" form:"title"`
	Description     string            `json:"description" form:"description"`
	Category        LostFoundCategory `json:"category" form:"category"`
	Location        string            `json:"location" form:"location"`
	Date            string            `json:"date" form:"date"`
	Type            LostFoundType     `json:"type" form:"type"`
	ReporterContact string            `json:"reporterContact" form:"reporterContact"`
	Image           *ImageUpload      `json:"-"`
}

// ContactResult identifies the chat opened with a reporter.
type ContactResult struct {
	ChatID    string `json:"chatId"`
	MessageID string `json:"messageId"`
}
