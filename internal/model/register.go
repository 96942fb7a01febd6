package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Snapshot status values.
const (
	SnapshotOpen   = "open"
	SnapshotClosed = "closed"
)

// Movement kinds. Income increases the snapshot balance, expense decreases
// it; opening and closing are informational markers.
const (
	MovementOpening = "opening"
	MovementClosing = "closing"
	MovementIncome  = "income"
	MovementExpense = "expense"
)

// Register is a physical cash point at a branch. Immutable after creation
// except for the active flag — its balance lives in the snapshot chain,
// never on the register itself.
type Register struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	BranchID  uuid.UUID `gorm:"type:uuid;not null;index"`
	Name      string    `gorm:"not null"`
	Active    bool      `gorm:"not null;default:true"`
	CreatedAt time.Time

	Branch *Branch `gorm:"foreignKey:BranchID"`
}

// RegisterSnapshot is one open-to-close lifecycle instance of a register.
// Invariant: ending_balance(n) == opening_balance(n+1); history is
// reconstructed by walking the chain, not by reading a mutable counter.
// A partial unique index enforces at most one open snapshot per register,
// so concurrent opens race on the insert rather than on a read.
type RegisterSnapshot struct {
	ID             uuid.UUID       `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	RegisterID     uuid.UUID       `gorm:"type:uuid;not null;index;uniqueIndex:uniq_open_snapshot_per_register,where:status = 'open'"`
	Status         string          `gorm:"type:varchar(10);not null;default:'open'"`
	OpeningBalance decimal.Decimal `gorm:"type:decimal(12,2);not null"`
	EndingBalance  decimal.Decimal `gorm:"type:decimal(12,2);not null"`
	// ComputedBalance is the running total at close time, before the
	// operator's manual count overrides EndingBalance. Nil while open.
	ComputedBalance *decimal.Decimal `gorm:"type:decimal(12,2)"`
	// Discrepancy = counted − computed. The manual count is authoritative;
	// the difference is kept as a first-class value for reporting.
	Discrepancy *decimal.Decimal `gorm:"type:decimal(12,2)"`
	OpenedByID  uuid.UUID        `gorm:"type:uuid;not null"`
	ClosedByID  *uuid.UUID       `gorm:"type:uuid"`
	CreatedAt   time.Time
	ClosedAt    *time.Time

	Movements []RegisterMovement `gorm:"foreignKey:SnapshotID"`
}

// RegisterMovement is an immutable record of one money event against a
// snapshot. Movements are NEVER updated or deleted. Amount is always
// positive; direction is conveyed by Kind.
type RegisterMovement struct {
	ID          uuid.UUID       `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	RegisterID  uuid.UUID       `gorm:"type:uuid;not null;index"`
	SnapshotID  uuid.UUID       `gorm:"type:uuid;not null;index"`
	Kind        string          `gorm:"type:varchar(10);not null"`
	Amount      decimal.Decimal `gorm:"type:decimal(12,2);not null"`
	Description string          `gorm:"not null"`
	// SaleID links movements produced by a sale or installment collection.
	SaleID     *uuid.UUID `gorm:"type:uuid"`
	EmployeeID uuid.UUID  `gorm:"type:uuid;not null"`
	CreatedAt  time.Time
}
