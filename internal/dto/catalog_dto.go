package dto

import "github.com/shopspring/decimal"

// ─── Request DTOs ────────────────────────────────────────────────────────────

type CreateServiceRequest struct {
	Name         string          `json:"name"          validate:"required,min=2"`
	Description  *string         `json:"description"`
	Price        decimal.Decimal `json:"price"         validate:"required,gt=0"`
	DurationDays int             `json:"duration_days" validate:"required,min=1"`
	Visits       int             `json:"visits"        validate:"min=-1"`
	MultiBranch  bool            `json:"multi_branch"`
	// BranchIDs are the branches that offer this service from day one.
	BranchIDs []string `json:"branch_ids" validate:"required,min=1,dive,uuid"`
}

type UpdateServiceRequest struct {
	Name         *string          `json:"name" validate:"omitempty,min=2"`
	Description  *string          `json:"description"`
	Price        *decimal.Decimal `json:"price"`
	DurationDays *int             `json:"duration_days" validate:"omitempty,min=1"`
}

// ─── Response DTOs ───────────────────────────────────────────────────────────

type ServiceResponse struct {
	ID           string          `json:"id"`
	Name         string          `json:"name"`
	Description  *string         `json:"description"`
	Price        decimal.Decimal `json:"price"`
	DurationDays int             `json:"duration_days"`
	Visits       int             `json:"visits"`
	MultiBranch  bool            `json:"multi_branch"`
	Active       bool            `json:"active"`
	BranchIDs    []string        `json:"branch_ids"`
}

type BranchResponse struct {
	ID      string  `json:"id"`
	Name    string  `json:"name"`
	Address *string `json:"address"`
	Active  bool    `json:"active"`
}
