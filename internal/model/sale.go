package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Sale kinds.
const (
	SaleMembership  = "membership"
	SaleProducts    = "products"
	SaleInstallment = "installment"
)

// Payment methods stored on a sale.
const (
	PayCash       = "cash"
	PayElectronic = "electronic"
	PayMixed      = "mixed"
)

// Sale is an immutable record of one commercial transaction. There is no
// update or delete path — corrections happen through new records.
// Only the cash portion of the payment ever reaches the register ledger.
type Sale struct {
	ID         uuid.UUID  `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	Kind       string     `gorm:"type:varchar(15);not null;index"`
	MemberID   *uuid.UUID `gorm:"type:uuid;index"`
	EmployeeID uuid.UUID  `gorm:"type:uuid;not null"`
	BranchID   uuid.UUID  `gorm:"type:uuid;not null;index"`
	RegisterID uuid.UUID  `gorm:"type:uuid;not null"`
	// PendingPaymentID is set on installment-collection sales only.
	PendingPaymentID *uuid.UUID      `gorm:"type:uuid"`
	Subtotal         decimal.Decimal `gorm:"type:decimal(12,2);not null"`
	Discount         decimal.Decimal `gorm:"type:decimal(12,2);not null;default:0"`
	DiscountReason   *string
	Total            decimal.Decimal `gorm:"type:decimal(12,2);not null"`
	PaymentMethod    string          `gorm:"type:varchar(12);not null"`
	CashAmount       decimal.Decimal `gorm:"type:decimal(12,2);not null;default:0"`
	ElectronicAmount decimal.Decimal `gorm:"type:decimal(12,2);not null;default:0"`
	CreatedAt        time.Time       `gorm:"index"`

	Items []SaleItem `gorm:"foreignKey:SaleID"`
	Lines []SaleLine `gorm:"foreignKey:SaleID"`

	Member   *Member   `gorm:"foreignKey:MemberID"`
	Employee *Employee `gorm:"foreignKey:EmployeeID"`
}

// SaleItem is one product line of a products sale.
type SaleItem struct {
	ID        uuid.UUID       `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	SaleID    uuid.UUID       `gorm:"type:uuid;not null;index"`
	ProductID uuid.UUID       `gorm:"type:uuid;not null"`
	Quantity  int             `gorm:"not null"`
	UnitPrice decimal.Decimal `gorm:"type:decimal(12,2);not null"`
	Subtotal  decimal.Decimal `gorm:"type:decimal(12,2);not null"`

	Product *Product `gorm:"foreignKey:ProductID"`
}

// SaleLine is one service line of a membership sale.
type SaleLine struct {
	ID        uuid.UUID       `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	SaleID    uuid.UUID       `gorm:"type:uuid;not null;index"`
	ServiceID uuid.UUID       `gorm:"type:uuid;not null"`
	Price     decimal.Decimal `gorm:"type:decimal(12,2);not null"`

	Service *Service `gorm:"foreignKey:ServiceID"`
}
