package model

import (
	"time"

	"github.com/google/uuid"
)

// Member is a person who buys memberships. DocumentNumber is the natural
// key: it must be unique among active members (deactivated members may
// share it so a person can be re-registered).
type Member struct {
	ID             uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	FirstName      string    `gorm:"not null"`
	LastName       string    `gorm:"not null"`
	DocumentNumber string    `gorm:"not null;index"`
	Phone          *string
	Email          *string
	BirthDate      *time.Time
	Active         bool `gorm:"not null;default:true"`
	CreatedAt      time.Time
	UpdatedAt      time.Time
}
