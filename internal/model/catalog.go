package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Service is a sellable gym service (monthly membership, day pass,
// personal training block). DurationDays and VisitCount are the
// defaults applied to new inscriptions; VisitCount -1 means unlimited
// visits for the duration.
type Service struct {
	ID           uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	Name         string    `gorm:"not null"`
	Description  *string
	Price        decimal.Decimal `gorm:"type:decimal(12,2);not null"`
	DurationDays int             `gorm:"not null"`
	VisitCount   int             `gorm:"not null;default:-1"`
	// MultiBranch services grant access at every branch that offers them:
	// one inscription is created per offering branch at sale time.
	MultiBranch bool `gorm:"not null;default:false"`
	Active      bool `gorm:"not null;default:true"`
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// ServiceBranch marks a service as offered at a branch.
type ServiceBranch struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	ServiceID uuid.UUID `gorm:"type:uuid;not null;index:idx_service_branch,unique"`
	BranchID  uuid.UUID `gorm:"type:uuid;not null;index:idx_service_branch,unique"`
	Active    bool      `gorm:"not null;default:true"`
	CreatedAt time.Time
}

// TableName overrides GORM's default pluralization (service_branches is
// what the schema uses).
func (ServiceBranch) TableName() string { return "service_branches" }
