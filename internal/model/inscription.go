package model

import (
	"time"

	"github.com/google/uuid"
)

// Inscription status values.
const (
	InscriptionActive  = "active"
	InscriptionExpired = "expired"
)

// Inscription is a member's entitlement to a service at one branch.
// Multi-branch services create one inscription per offering branch, all
// sharing the same initial expiry and visit count; each branch decrements
// its own row independently afterwards.
// RemainingVisits -1 means unlimited visits until ExpiryDate.
// Inscriptions are never deleted — they age out by date or zero visits.
type Inscription struct {
	ID              uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	MemberID        uuid.UUID `gorm:"type:uuid;not null;index"`
	ServiceID       uuid.UUID `gorm:"type:uuid;not null;index"`
	BranchID        uuid.UUID `gorm:"type:uuid;not null;index"`
	SaleID          uuid.UUID `gorm:"type:uuid;not null"`
	StartDate       time.Time `gorm:"not null"`
	ExpiryDate      time.Time `gorm:"not null"`
	RemainingVisits int       `gorm:"not null"`
	Status          string    `gorm:"type:varchar(10);not null;default:'active'"`
	CreatedAt       time.Time
	UpdatedAt       time.Time

	Service *Service `gorm:"foreignKey:ServiceID"`
}
