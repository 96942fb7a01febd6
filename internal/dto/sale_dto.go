package dto

import "github.com/shopspring/decimal"

// ─── Membership sale ─────────────────────────────────────────────────────────

// NewMemberFields registers a new buyer in the same transaction as the
// sale. DocumentNumber is the natural key checked against active members.
type NewMemberFields struct {
	FirstName      string  `json:"first_name"      validate:"required,min=2"`
	LastName       string  `json:"last_name"       validate:"required,min=2"`
	DocumentNumber string  `json:"document_number" validate:"required,min=4"`
	Phone          *string `json:"phone"`
	Email          *string `json:"email" validate:"omitempty,email"`
}

// MembershipLine is one requested service. Start and expiry are computed
// by the caller (front desk picks the start date); price may differ from
// the catalog price when a promotion applies.
type MembershipLine struct {
	ServiceID  string          `json:"service_id" validate:"required,uuid"`
	StartDate  string          `json:"start_date"  validate:"required,datetime=2006-01-02"`
	ExpiryDate string          `json:"expiry_date" validate:"required,datetime=2006-01-02"`
	Visits     int             `json:"visits"      validate:"min=-1"`
	Price      decimal.Decimal `json:"price"       validate:"min=0"`
}

type SellMembershipRequest struct {
	// Exactly one of MemberID / NewMember identifies the buyer.
	MemberID       *string           `json:"member_id"  validate:"omitempty,uuid"`
	NewMember      *NewMemberFields  `json:"new_member"`
	Lines          []MembershipLine  `json:"lines"      validate:"required,min=1,dive"`
	BranchID       string            `json:"branch_id"   validate:"required,uuid"`
	RegisterID     string            `json:"register_id" validate:"required,uuid"`
	Discount       decimal.Decimal   `json:"discount"    validate:"min=0"`
	DiscountReason *string           `json:"discount_reason"`
	Payment        Payment           `json:"payment"     validate:"required"`
	// Installment marks a partial sale: the payment covers part of the
	// total and the remainder becomes a pending payment collected later.
	Installment bool `json:"installment"`
}

type SellMembershipResponse struct {
	SaleID           string  `json:"sale_id"`
	MemberID         string  `json:"member_id"`
	PendingPaymentID *string `json:"pending_payment_id,omitempty"`
	InscriptionIDs   []string `json:"inscription_ids"`
	Message          string  `json:"message"`
}

// ─── Products sale ───────────────────────────────────────────────────────────

type ProductLineRequest struct {
	ProductID string `json:"product_id" validate:"required,uuid"`
	Quantity  int    `json:"quantity"   validate:"required,min=1"`
}

type SellProductsRequest struct {
	Items          []ProductLineRequest `json:"items"    validate:"required,min=1,dive"`
	Discount       decimal.Decimal      `json:"discount" validate:"min=0"`
	DiscountReason *string              `json:"discount_reason"`
	Payment        Payment              `json:"payment"  validate:"required"`
	// CustomerEmail: optional — when present the receipt worker mails the
	// PDF receipt after commit.
	CustomerEmail *string `json:"customer_email" validate:"omitempty,email"`
}

type SaleItemResponse struct {
	Product   string          `json:"product"`
	Quantity  int             `json:"quantity"`
	UnitPrice decimal.Decimal `json:"unit_price"`
	Subtotal  decimal.Decimal `json:"subtotal"`
}

type SaleResponse struct {
	ID               string             `json:"id"`
	Kind             string             `json:"kind"`
	MemberID         *string            `json:"member_id,omitempty"`
	Subtotal         decimal.Decimal    `json:"subtotal"`
	Discount         decimal.Decimal    `json:"discount"`
	Total            decimal.Decimal    `json:"total"`
	PaymentMethod    string             `json:"payment_method"`
	CashAmount       decimal.Decimal    `json:"cash_amount"`
	ElectronicAmount decimal.Decimal    `json:"electronic_amount"`
	Items            []SaleItemResponse `json:"items,omitempty"`
	Change           decimal.Decimal    `json:"change"`
	CreatedAt        string             `json:"created_at"`
}

// ─── Filter / List ───────────────────────────────────────────────────────────

type SaleFilter struct {
	Date  string `form:"date"`                 // YYYY-MM-DD; empty = today
	Kind  string `form:"kind,default=all"`     // membership | products | installment | all
	Page  int    `form:"page,default=1"  validate:"min=1"`
	Limit int    `form:"limit,default=50" validate:"min=1,max=200"`
}

type SaleListResponse struct {
	Data  []SaleResponse `json:"data"`
	Total int64          `json:"total"`
	Page  int            `json:"page"`
	Limit int            `json:"limit"`
}
