package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

func init() {
	// Amounts serialize as JSON numbers, not strings.
	decimal.MarshalJSONWithoutQuotes = true
}

// ExpenseCategories is the fixed set of valid expense categories.
var ExpenseCategories = []string{
	"grocery", "entertainment", "shopping", "gas", "bills",
	"healthcare", "dining", "transportation", "utilities", "other",
}

// ValidCategory reports whether name is one of the fixed expense categories.
func ValidCategory(name string) bool {
	for _, c := range ExpenseCategories {
		if c == name {
			return true
		}
	}
	return false
}

// Expense represents a single expense record owned by a user.
type Expense struct {
	ID          uuid.UUID       `json:"id" gorm:"type:char(36);primaryKey"`
	UserID      uuid.UUID       `json:"userId" gorm:"type:char(36);not null;index"`
	Amount      decimal.Decimal `json:"amount" gorm:"type:decimal(10,2);not null"`
	Description string          `json:"description" gorm:"size:500;not null"`
	Category    string          `json:"category" gorm:"size:50;not null;index"`
	Date        time.Time       `json:"date" gorm:"not null;index"`
	CreatedAt   time.Time       `json:"createdAt"`
	UpdatedAt   time.Time       `json:"updatedAt"`

	// Relations
	User *User `json:"user,omitempty" gorm:"foreignKey:UserID"`
}

// BeforeCreate sets UUID before creating the record.
func (e *Expense) BeforeCreate(tx *gorm.DB) error {
	if e.ID == uuid.Nil {
		e.ID = uuid.New()
	}
	return nil
}
