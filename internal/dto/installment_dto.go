package dto

import "github.com/shopspring/decimal"

// ─── Request DTOs ────────────────────────────────────────────────────────────

type SettleInstallmentRequest struct {
	Payment Payment `json:"payment" validate:"required"`
}

// ─── Response DTOs ───────────────────────────────────────────────────────────

type PendingPaymentResponse struct {
	ID              string          `json:"id"`
	MemberID        string          `json:"member_id"`
	SaleID          string          `json:"sale_id"`
	TotalOwed       decimal.Decimal `json:"total_owed"`
	AmountPaid      decimal.Decimal `json:"amount_paid"`
	AmountRemaining decimal.Decimal `json:"amount_remaining"`
	Status          string          `json:"status"`
	CreatedAt       string          `json:"created_at"`
	UpdatedAt       string          `json:"updated_at"`
}

type SettleInstallmentResponse struct {
	PendingPayment PendingPaymentResponse `json:"pending_payment"`
	// SaleID is the installment-collection sale recorded for this payment.
	SaleID  string `json:"sale_id"`
	Message string `json:"message"`
}
