package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// PendingPayment status values.
const (
	PendingOpen      = "pending"
	PendingCompleted = "completed"
	PendingCancelled = "cancelled"
)

// PendingPayment tracks an installment plan against one sale. Created at
// most once per sale, at sale time, when the buyer did not pay in full.
// Invariant: AmountPaid + AmountRemaining == TotalOwed, AmountRemaining >= 0.
// Terminal states: completed (remaining reached zero) or cancelled.
type PendingPayment struct {
	ID              uuid.UUID       `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	MemberID        uuid.UUID       `gorm:"type:uuid;not null;index"`
	SaleID          uuid.UUID       `gorm:"type:uuid;not null;uniqueIndex"`
	TotalOwed       decimal.Decimal `gorm:"type:decimal(12,2);not null"`
	AmountPaid      decimal.Decimal `gorm:"type:decimal(12,2);not null"`
	AmountRemaining decimal.Decimal `gorm:"type:decimal(12,2);not null"`
	Status          string          `gorm:"type:varchar(10);not null;default:'pending'"`
	CreatedAt       time.Time
	UpdatedAt       time.Time

	Member *Member `gorm:"foreignKey:MemberID"`
}
