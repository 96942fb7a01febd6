package dto

import "github.com/shopspring/decimal"

// ─── Request DTOs ────────────────────────────────────────────────────────────

type OpenRegisterRequest struct {
	OpeningAmount decimal.Decimal `json:"opening_amount" validate:"min=0"`
}

type CloseRegisterRequest struct {
	// CountedAmount is the operator's physical cash count. It is
	// authoritative and deliberately NOT validated against the running
	// total — the difference is reported as a discrepancy instead.
	CountedAmount decimal.Decimal `json:"counted_amount" validate:"min=0"`
}

type ManualMovementRequest struct {
	Kind        string          `json:"kind"        validate:"required,oneof=income expense"`
	Amount      decimal.Decimal `json:"amount"      validate:"required,gt=0"`
	Description string          `json:"description" validate:"required,min=3"`
}

type CreateRegisterRequest struct {
	BranchID string `json:"branch_id" validate:"required,uuid"`
	Name     string `json:"name"      validate:"required,min=2"`
}

// ─── Response DTOs ───────────────────────────────────────────────────────────

type RegisterResponse struct {
	ID       string `json:"id"`
	BranchID string `json:"branch_id"`
	Name     string `json:"name"`
	Active   bool   `json:"active"`
}

type SnapshotResponse struct {
	ID             string          `json:"id"`
	RegisterID     string          `json:"register_id"`
	Status         string          `json:"status"`
	OpeningBalance decimal.Decimal `json:"opening_balance"`
	EndingBalance  decimal.Decimal `json:"ending_balance"`
	OpenedAt       *string         `json:"opened_at"`
	ClosedAt       *string         `json:"closed_at"`
}

type CloseRegisterResponse struct {
	SnapshotID      string          `json:"snapshot_id"`
	ComputedBalance decimal.Decimal `json:"computed_balance"`
	CountedAmount   decimal.Decimal `json:"counted_amount"`
	// Discrepancy = counted − computed; zero when the drawer matched.
	Discrepancy decimal.Decimal `json:"discrepancy"`
}

type MovementResponse struct {
	ID          string          `json:"id"`
	SnapshotID  string          `json:"snapshot_id"`
	Kind        string          `json:"kind"`
	Amount      decimal.Decimal `json:"amount"`
	Description string          `json:"description"`
	SaleID      *string         `json:"sale_id,omitempty"`
	EmployeeID  string          `json:"employee_id"`
	CreatedAt   string          `json:"created_at"`
}

type SnapshotHistoryResponse struct {
	Data  []SnapshotHistoryItem `json:"data"`
	Total int64                 `json:"total"`
	Page  int                   `json:"page"`
	Limit int                   `json:"limit"`
}

type SnapshotHistoryItem struct {
	SnapshotResponse
	ComputedBalance *decimal.Decimal `json:"computed_balance"`
	Discrepancy     *decimal.Decimal `json:"discrepancy"`
}
