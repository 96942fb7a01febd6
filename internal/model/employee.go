package model

import (
	"time"

	"github.com/google/uuid"
)

// Employee roles.
const (
	RoleAdmin        = "admin"
	RoleManager      = "manager"
	RoleReceptionist = "receptionist"
)

// Employee is a staff account. BranchID and RegisterID determine the
// register context for sales and installment collections made by this
// employee.
type Employee struct {
	ID           uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	Username     string    `gorm:"uniqueIndex;not null"`
	FullName     string    `gorm:"not null"`
	Email        string
	PasswordHash string     `gorm:"not null"`
	Role         string     `gorm:"type:varchar(20);not null"`
	BranchID     uuid.UUID  `gorm:"type:uuid;not null;index"`
	RegisterID   *uuid.UUID `gorm:"type:uuid"`
	Active       bool       `gorm:"not null;default:true"`
	CreatedAt    time.Time
	UpdatedAt    time.Time

	Branch *Branch `gorm:"foreignKey:BranchID"`
}
