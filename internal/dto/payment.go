package dto

import (
	"errors"

	"github.com/shopspring/decimal"

	"gymops/internal/model"
)

// Payment is the tagged payment variant used by every money-taking
// operation: cash(amount) | electronic(amount) | mixed(cash, electronic).
// It is validated once here, at the boundary — downstream code only ever
// calls CashPortion / Total.
type Payment struct {
	Method           string          `json:"method"            validate:"required,oneof=cash electronic mixed"`
	CashAmount       decimal.Decimal `json:"cash_amount"       validate:"min=0"`
	ElectronicAmount decimal.Decimal `json:"electronic_amount" validate:"min=0"`
}

// Validate enforces the shape of each variant beyond what struct tags can
// express: the amounts present must match the declared method.
func (p Payment) Validate() error {
	switch p.Method {
	case model.PayCash:
		if !p.ElectronicAmount.IsZero() {
			return errors.New("cash payment must not carry an electronic amount")
		}
		if !p.CashAmount.IsPositive() {
			return errors.New("cash payment requires a positive cash amount")
		}
	case model.PayElectronic:
		if !p.CashAmount.IsZero() {
			return errors.New("electronic payment must not carry a cash amount")
		}
		if !p.ElectronicAmount.IsPositive() {
			return errors.New("electronic payment requires a positive electronic amount")
		}
	case model.PayMixed:
		if !p.CashAmount.IsPositive() || !p.ElectronicAmount.IsPositive() {
			return errors.New("mixed payment requires positive cash and electronic amounts")
		}
	default:
		return errors.New("unknown payment method")
	}
	return nil
}

// CashPortion is the only part of the payment that reaches the register
// ledger. Electronic portions are recorded on the sale and nowhere else.
func (p Payment) CashPortion() decimal.Decimal {
	if p.Method == model.PayElectronic {
		return decimal.Zero
	}
	return p.CashAmount
}

// Total is the full amount tendered across both portions.
func (p Payment) Total() decimal.Decimal {
	return p.CashAmount.Add(p.ElectronicAmount)
}
