package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Category is a user-owned expense category. Names are stored lowercase and
// are unique per user. Default categories are seeded per user and cannot be
// deleted.
type Category struct {
	ID          uuid.UUID `json:"id" gorm:"type:char(36);primaryKey"`
	UserID      uuid.UUID `json:"userId" gorm:"type:char(36);not null;uniqueIndex:idx_user_category"`
	Name        string    `json:"name" gorm:"size:50;not null;uniqueIndex:idx_user_category"`
	Description string    `json:"description" gorm:"size:200"`
	Color       string    `json:"color" gorm:"size:7;not null;default:'#3B82F6'"`
	Icon        string    `json:"icon" gorm:"size:50;not null;default:'category'"`
	IsDefault   bool      `json:"isDefault" gorm:"not null;default:false"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

// BeforeCreate sets UUID before creating the record.
func (c *Category) BeforeCreate(tx *gorm.DB) error {
	if c.ID == uuid.Nil {
		c.ID = uuid.New()
	}
	return nil
}

// DefaultCategories returns the 10 categories seeded for every new user.
func DefaultCategories(userID uuid.UUID) []Category {
	defaults := []struct {
		name  string
		color string
		icon  string
	}{
		{"grocery", "#10B981", "shopping-cart"},
		{"entertainment", "#8B5CF6", "film"},
		{"shopping", "#EC4899", "shopping-bag"},
		{"gas", "#F59E0B", "fuel"},
		{"bills", "#EF4444", "file-text"},
		{"healthcare", "#06B6D4", "heart"},
		{"dining", "#F97316", "utensils"},
		{"transportation", "#6366F1", "car"},
		{"utilities", "#14B8A6", "zap"},
		{"other", "#6B7280", "more-horizontal"},
	}

	categories := make([]Category, 0, len(defaults))
	for _, d := range defaults {
		categories = append(categories, Category{
			UserID:    userID,
			Name:      d.name,
			Color:     d.color,
			Icon:      d.icon,
			IsDefault: true,
		})
	}
	return categories
}
