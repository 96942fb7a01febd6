package dto

import "github.com/shopspring/decimal"

// ─── Request DTOs ────────────────────────────────────────────────────────────

type CreateProductRequest struct {
	Barcode        string          `json:"barcode"    validate:"required,min=4"`
	Name           string          `json:"name"       validate:"required,min=2"`
	Description    *string         `json:"description"`
	BranchID       string          `json:"branch_id"  validate:"required,uuid"`
	CostPrice      decimal.Decimal `json:"cost_price" validate:"min=0"`
	SalePrice      decimal.Decimal `json:"sale_price" validate:"required,gt=0"`
	Stock          int             `json:"stock"      validate:"min=0"`
	MinStock       int             `json:"min_stock"  validate:"min=0"`
	UnlimitedStock bool            `json:"unlimited_stock"`
}

type UpdateProductRequest struct {
	Name        *string          `json:"name" validate:"omitempty,min=2"`
	Description *string          `json:"description"`
	CostPrice   *decimal.Decimal `json:"cost_price"`
	SalePrice   *decimal.Decimal `json:"sale_price"`
	MinStock    *int             `json:"min_stock" validate:"omitempty,min=0"`
}

// AdjustStockRequest applies a signed delta with an audit reason.
type AdjustStockRequest struct {
	Delta  int    `json:"delta"  validate:"required"`
	Reason string `json:"reason" validate:"required,min=3"`
}

type ProductFilter struct {
	Search string `form:"search"`
	Branch string `form:"branch" validate:"omitempty,uuid"`
	Page   int    `form:"page,default=1"  validate:"min=1"`
	Limit  int    `form:"limit,default=50" validate:"min=1,max=200"`
}

// ─── Response DTOs ───────────────────────────────────────────────────────────

type ProductResponse struct {
	ID             string          `json:"id"`
	Barcode        string          `json:"barcode"`
	Name           string          `json:"name"`
	Description    *string         `json:"description"`
	BranchID       string          `json:"branch_id"`
	CostPrice      decimal.Decimal `json:"cost_price"`
	SalePrice      decimal.Decimal `json:"sale_price"`
	Stock          int             `json:"stock"`
	MinStock       int             `json:"min_stock"`
	UnlimitedStock bool            `json:"unlimited_stock"`
	Active         bool            `json:"active"`
}

type ProductListResponse struct {
	Data  []ProductResponse `json:"data"`
	Total int64             `json:"total"`
	Page  int               `json:"page"`
	Limit int               `json:"limit"`
}

type StockMovementResponse struct {
	ID         string  `json:"id"`
	Kind       string  `json:"kind"`
	Quantity   int     `json:"quantity"`
	StockPrior int     `json:"stock_prior"`
	StockAfter int     `json:"stock_after"`
	Reason     string  `json:"reason"`
	SaleID     *string `json:"sale_id,omitempty"`
	CreatedAt  string  `json:"created_at"`
}

// PriceCheckResponse is the payload cached in Redis for the public
// barcode price check.
type PriceCheckResponse struct {
	Barcode   string          `json:"barcode"`
	Name      string          `json:"name"`
	SalePrice decimal.Decimal `json:"sale_price"`
}
