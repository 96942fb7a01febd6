package service

import (
	"errors"
	"fmt"

	"gymops/internal/model"
)

// Domain errors surfaced to callers as typed failures. Every operation
// either commits fully or returns one of these with no partial writes.
var (
	ErrRegisterAlreadyOpen    = errors.New("register already has an open snapshot")
	ErrRegisterNotOpen        = errors.New("register has no open snapshot")
	ErrServiceUnavailable     = errors.New("service is not offered at this branch")
	ErrActiveSubscription     = errors.New("member already holds an active inscription for this service")
	ErrPendingPaymentNotFound = errors.New("no pending installment plan matches this id")
	ErrOverPayment            = errors.New("amount exceeds the remaining balance")
	ErrInvalidAmount          = errors.New("amount must be strictly positive")
	ErrNotFound               = errors.New("record not found")
	ErrMissingBuyer           = errors.New("either member_id or new_member is required")
	ErrNoRegisterAssigned     = errors.New("employee has no register assigned")
	ErrInsufficientPayment    = errors.New("payment does not cover the sale total")
)

// DuplicateMemberError carries the conflicting active member so the client
// can offer reconciliation instead of blindly re-creating the person.
type DuplicateMemberError struct {
	Existing *model.Member
}

func (e *DuplicateMemberError) Error() string {
	return fmt.Sprintf("an active member already holds document %s", e.Existing.DocumentNumber)
}

// InsufficientStockError names the product and the shortfall.
type InsufficientStockError struct {
	ProductName string
	Requested   int
	Available   int
}

func (e *InsufficientStockError) Error() string {
	return fmt.Sprintf("insufficient stock for %s: requested %d, available %d",
		e.ProductName, e.Requested, e.Available)
}

// Shortfall is the number of missing units.
func (e *InsufficientStockError) Shortfall() int { return e.Requested - e.Available }
