package service

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"gymops/internal/dto"
	"gymops/internal/infra"
	"gymops/internal/model"
	"gymops/internal/repository"
)

// InstallmentService collects partial payments against a pending balance.
// The invariant amount_paid + amount_remaining == total_owed holds after
// every settle; a payment that would drive the remainder negative is
// rejected before any write.
type InstallmentService interface {
	Settle(ctx context.Context, operatorID uuid.UUID, pendingID uuid.UUID, req dto.SettleInstallmentRequest) (*dto.SettleInstallmentResponse, error)
	Cancel(ctx context.Context, pendingID uuid.UUID) error
	ListByMember(ctx context.Context, memberID uuid.UUID) ([]dto.PendingPaymentResponse, error)
	Get(ctx context.Context, pendingID uuid.UUID) (*dto.PendingPaymentResponse, error)
}

type installmentService struct {
	repo         repository.PendingPaymentRepository
	saleRepo     repository.SaleRepository
	employeeRepo repository.EmployeeRepository
	register     RegisterService
	clock        infra.Clock
}

func NewInstallmentService(
	repo repository.PendingPaymentRepository,
	saleRepo repository.SaleRepository,
	employeeRepo repository.EmployeeRepository,
	register RegisterService,
	clock infra.Clock,
) InstallmentService {
	return &installmentService{
		repo:         repo,
		saleRepo:     saleRepo,
		employeeRepo: employeeRepo,
		register:     register,
		clock:        clock,
	}
}

// Settle records one installment against an open pending payment. The
// collection itself is a sale (kind "installment") so it shows up in the
// day's sales list, and its cash portion hits the register ledger like
// any other sale.
func (s *installmentService) Settle(ctx context.Context, operatorID uuid.UUID, pendingID uuid.UUID, req dto.SettleInstallmentRequest) (*dto.SettleInstallmentResponse, error) {
	if err := req.Payment.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %s", ErrInvalidAmount, err)
	}
	amount := req.Payment.Total()
	if !amount.IsPositive() {
		return nil, ErrInvalidAmount
	}

	employee, err := s.employeeRepo.FindByID(ctx, operatorID)
	if err != nil || !employee.Active {
		return nil, ErrNotFound
	}
	if employee.RegisterID == nil {
		return nil, ErrNoRegisterAssigned
	}
	registerID := *employee.RegisterID

	now := s.clock.Now()
	var resp *dto.SettleInstallmentResponse

	txErr := runTx(ctx, s.repo.DB(), func(tx *gorm.DB) error {
		// Collecting an installment requires an open drawer, like any sale.
		if err := s.register.RequireOpenTx(tx, registerID); err != nil {
			return err
		}
		pp, err := s.repo.FindPendingTx(tx, pendingID)
		if err != nil {
			return err
		}
		if pp == nil {
			return ErrPendingPaymentNotFound
		}
		if amount.GreaterThan(pp.AmountRemaining) {
			return ErrOverPayment
		}

		pp.AmountPaid = pp.AmountPaid.Add(amount)
		pp.AmountRemaining = pp.AmountRemaining.Sub(amount)
		pp.UpdatedAt = now
		if pp.AmountRemaining.IsZero() {
			pp.Status = model.PendingCompleted
		}
		if err := s.repo.UpdateTx(tx, pp); err != nil {
			return err
		}

		sale := &model.Sale{
			Kind:             model.SaleInstallment,
			MemberID:         &pp.MemberID,
			EmployeeID:       operatorID,
			BranchID:         employee.BranchID,
			RegisterID:       registerID,
			PendingPaymentID: &pp.ID,
			Subtotal:         amount,
			Total:            amount,
			PaymentMethod:    req.Payment.Method,
			CashAmount:       req.Payment.CashAmount,
			ElectronicAmount: req.Payment.ElectronicAmount,
			CreatedAt:        now,
		}
		if err := s.saleRepo.CreateTx(tx, sale); err != nil {
			return err
		}

		if cash := req.Payment.CashPortion(); cash.IsPositive() {
			desc := fmt.Sprintf("Installment on pending payment %s", pp.ID)
			if err := s.register.RecordTx(tx, registerID, model.MovementIncome, cash, desc, operatorID, &sale.ID); err != nil {
				return err
			}
		}

		msg := "installment recorded"
		if pp.Status == model.PendingCompleted {
			msg = "pending payment fully settled"
		}
		resp = &dto.SettleInstallmentResponse{
			SaleID:         sale.ID.String(),
			PendingPayment: *pendingToResponse(pp),
			Message:        msg,
		}
		return nil
	})
	if txErr != nil {
		return nil, txErr
	}
	return resp, nil
}

// Cancel voids an open pending payment. Installments already collected
// stay on the books; only the remainder is forgiven.
func (s *installmentService) Cancel(ctx context.Context, pendingID uuid.UUID) error {
	return runTx(ctx, s.repo.DB(), func(tx *gorm.DB) error {
		pp, err := s.repo.FindPendingTx(tx, pendingID)
		if err != nil {
			return err
		}
		if pp == nil {
			return ErrPendingPaymentNotFound
		}
		pp.Status = model.PendingCancelled
		pp.UpdatedAt = s.clock.Now()
		return s.repo.UpdateTx(tx, pp)
	})
}

func (s *installmentService) ListByMember(ctx context.Context, memberID uuid.UUID) ([]dto.PendingPaymentResponse, error) {
	rows, err := s.repo.ListByMember(ctx, memberID)
	if err != nil {
		return nil, err
	}
	out := make([]dto.PendingPaymentResponse, 0, len(rows))
	for i := range rows {
		out = append(out, *pendingToResponse(&rows[i]))
	}
	return out, nil
}

func (s *installmentService) Get(ctx context.Context, pendingID uuid.UUID) (*dto.PendingPaymentResponse, error) {
	pp, err := s.repo.FindByID(ctx, pendingID)
	if err != nil {
		return nil, ErrNotFound
	}
	return pendingToResponse(pp), nil
}

func pendingToResponse(pp *model.PendingPayment) *dto.PendingPaymentResponse {
	return &dto.PendingPaymentResponse{
		ID:              pp.ID.String(),
		CreatedAt:       pp.CreatedAt.Format(time.RFC3339),
		MemberID:        pp.MemberID.String(),
		SaleID:          pp.SaleID.String(),
		TotalOwed:       pp.TotalOwed,
		AmountPaid:      pp.AmountPaid,
		AmountRemaining: pp.AmountRemaining,
		Status:          pp.Status,
		UpdatedAt:       pp.UpdatedAt.Format(time.RFC3339),
	}
}
