package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Session binds a bearer token to a user with a server-side expiry.
// A token is only accepted while a matching non-expired row exists,
// which lets logout and password changes revoke tokens immediately.
type Session struct {
	ID        uuid.UUID `json:"id" gorm:"type:char(36);primaryKey"`
	UserID    uuid.UUID `json:"userId" gorm:"type:char(36);not null;index"`
	Token     string    `json:"-" gorm:"uniqueIndex;size:512;not null"`
	ExpiresAt time.Time `json:"expiresAt" gorm:"not null;index"`
	IPAddress string    `json:"ipAddress,omitempty" gorm:"size:45"`
	UserAgent string    `json:"userAgent,omitempty" gorm:"size:255"`
	CreatedAt time.Time `json:"createdAt"`
}

// BeforeCreate sets UUID before creating the record.
func (s *Session) BeforeCreate(tx *gorm.DB) error {
	if s.ID == uuid.Nil {
		s.ID = uuid.New()
	}
	return nil
}

// Expired reports whether the session is past its expiry at the given instant.
func (s *Session) Expired(now time.Time) bool {
	return !now.Before(s.ExpiresAt)
}
