package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Product is a retail item sold over the counter (supplements, drinks,
// merchandise). Stock is tracked per branch unless UnlimitedStock is set,
// in which case availability checks are skipped entirely.
type Product struct {
	ID             uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	Barcode        string    `gorm:"uniqueIndex;not null"`
	Name           string    `gorm:"index;not null"`
	Description    *string
	BranchID       uuid.UUID       `gorm:"type:uuid;not null;index"`
	CostPrice      decimal.Decimal `gorm:"type:decimal(12,2);not null"`
	SalePrice      decimal.Decimal `gorm:"type:decimal(12,2);not null"`
	Stock          int             `gorm:"not null;default:0"`
	MinStock       int             `gorm:"not null;default:5"`
	UnlimitedStock bool            `gorm:"not null;default:false"`
	Active         bool            `gorm:"not null;default:true"`
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

// StockMovement records every stock change on a product — one row per
// sale line or manual adjustment, never modified afterwards.
// Kind: "sale" | "manual_adjustment"
type StockMovement struct {
	ID         uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	ProductID  uuid.UUID `gorm:"type:uuid;not null;index"`
	Kind       string    `gorm:"not null"`
	Quantity   int       `gorm:"not null"` // positive = in, negative = out
	StockPrior int       `gorm:"not null"`
	StockAfter int       `gorm:"not null"`
	Reason     string
	SaleID     *uuid.UUID `gorm:"type:uuid"`
	EmployeeID *uuid.UUID `gorm:"type:uuid"`
	CreatedAt  time.Time

	Product *Product `gorm:"foreignKey:ProductID"`
}
