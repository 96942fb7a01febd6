package service

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"gymops/internal/dto"
	"gymops/internal/infra"
	"gymops/internal/model"
	"gymops/internal/repository"
)

// RegisterService owns the register lifecycle (open → operate → close)
// and is the only code path allowed to mutate a snapshot's ending balance
// after opening. Balance is a log, not a counter: every change is backed
// by an immutable movement row appended in the same transaction.
type RegisterService interface {
	Open(ctx context.Context, registerID uuid.UUID, openingAmount decimal.Decimal, operatorID uuid.UUID) (*dto.SnapshotResponse, error)
	Close(ctx context.Context, registerID uuid.UUID, countedAmount decimal.Decimal, operatorID uuid.UUID) (*dto.CloseRegisterResponse, error)
	Record(ctx context.Context, registerID uuid.UUID, kind string, amount decimal.Decimal, description string, actorID uuid.UUID) error
	// RecordTx is the re-entrant cash path: sale and installment
	// transactions append their cash movement through it inside their own
	// enclosing transaction.
	RecordTx(tx *gorm.DB, registerID uuid.UUID, kind string, amount decimal.Decimal, description string, actorID uuid.UUID, saleID *uuid.UUID) error
	// RequireOpenTx verifies the register's latest snapshot is open. Sale
	// paths call it up front, so even fully electronic sales require an
	// open drawer.
	RequireOpenTx(tx *gorm.DB, registerID uuid.UUID) error

	CurrentSnapshot(ctx context.Context, registerID uuid.UUID) (*dto.SnapshotResponse, error)
	ListMovements(ctx context.Context, registerID uuid.UUID) ([]dto.MovementResponse, error)
	History(ctx context.Context, registerID uuid.UUID, page, limit int) (*dto.SnapshotHistoryResponse, error)

	CreateRegister(ctx context.Context, req dto.CreateRegisterRequest) (*dto.RegisterResponse, error)
	ListRegisters(ctx context.Context, branchID uuid.UUID) ([]dto.RegisterResponse, error)
}

type registerService struct {
	repo  repository.RegisterRepository
	clock infra.Clock
}

func NewRegisterService(repo repository.RegisterRepository, clock infra.Clock) RegisterService {
	return &registerService{repo: repo, clock: clock}
}

// ── Open ─────────────────────────────────────────────────────────────────────

func (s *registerService) Open(ctx context.Context, registerID uuid.UUID, openingAmount decimal.Decimal, operatorID uuid.UUID) (*dto.SnapshotResponse, error) {
	if openingAmount.IsNegative() {
		return nil, ErrInvalidAmount
	}

	var snap *model.RegisterSnapshot
	txErr := runTx(ctx, s.repo.DB(), func(tx *gorm.DB) error {
		// Lock the register row first: the open-snapshot check and the
		// insert below must be one atomic unit even for the very first
		// opening, when there is no snapshot row to lock yet.
		if _, err := s.repo.FindByIDTx(tx, registerID); err != nil {
			return ErrNotFound
		}

		latest, err := s.repo.LatestSnapshotTx(tx, registerID)
		if err != nil {
			return err
		}
		if latest != nil && latest.Status == model.SnapshotOpen {
			return ErrRegisterAlreadyOpen
		}

		now := s.clock.Now()
		snap = &model.RegisterSnapshot{
			RegisterID:     registerID,
			Status:         model.SnapshotOpen,
			OpeningBalance: openingAmount,
			EndingBalance:  openingAmount,
			OpenedByID:     operatorID,
			CreatedAt:      now,
		}
		if err := s.repo.CreateSnapshotTx(tx, snap); err != nil {
			return err
		}

		mov := &model.RegisterMovement{
			RegisterID:  registerID,
			SnapshotID:  snap.ID,
			Kind:        model.MovementOpening,
			Amount:      openingAmount,
			Description: "Register opened",
			EmployeeID:  operatorID,
			CreatedAt:   now,
		}
		return s.repo.CreateMovementTx(tx, mov)
	})
	if txErr != nil {
		return nil, txErr
	}

	return snapshotToResponse(snap), nil
}

// ── Close ────────────────────────────────────────────────────────────────────
// The operator's counted amount is authoritative: it is stored as the
// snapshot's final ending balance without being reconciled against the
// running total. The difference is kept as a discrepancy for reporting,
// never silently dropped.

func (s *registerService) Close(ctx context.Context, registerID uuid.UUID, countedAmount decimal.Decimal, operatorID uuid.UUID) (*dto.CloseRegisterResponse, error) {
	if countedAmount.IsNegative() {
		return nil, ErrInvalidAmount
	}

	var resp *dto.CloseRegisterResponse
	txErr := runTx(ctx, s.repo.DB(), func(tx *gorm.DB) error {
		latest, err := s.repo.LatestSnapshotTx(tx, registerID)
		if err != nil {
			return err
		}
		if latest == nil || latest.Status != model.SnapshotOpen {
			return ErrRegisterNotOpen
		}

		now := s.clock.Now()
		computed := latest.EndingBalance
		discrepancy := countedAmount.Sub(computed)

		latest.Status = model.SnapshotClosed
		latest.ComputedBalance = &computed
		latest.EndingBalance = countedAmount
		latest.Discrepancy = &discrepancy
		latest.ClosedByID = &operatorID
		latest.ClosedAt = &now
		if err := s.repo.UpdateSnapshotTx(tx, latest); err != nil {
			return err
		}

		mov := &model.RegisterMovement{
			RegisterID:  registerID,
			SnapshotID:  latest.ID,
			Kind:        model.MovementClosing,
			Amount:      countedAmount,
			Description: "Register closed",
			EmployeeID:  operatorID,
			CreatedAt:   now,
		}
		if err := s.repo.CreateMovementTx(tx, mov); err != nil {
			return err
		}

		resp = &dto.CloseRegisterResponse{
			SnapshotID:      latest.ID.String(),
			ComputedBalance: computed,
			CountedAmount:   countedAmount,
			Discrepancy:     discrepancy,
		}
		return nil
	})
	if txErr != nil {
		return nil, txErr
	}
	return resp, nil
}

// ── Record ───────────────────────────────────────────────────────────────────

func (s *registerService) Record(ctx context.Context, registerID uuid.UUID, kind string, amount decimal.Decimal, description string, actorID uuid.UUID) error {
	return runTx(ctx, s.repo.DB(), func(tx *gorm.DB) error {
		return s.RecordTx(tx, registerID, kind, amount, description, actorID, nil)
	})
}

func (s *registerService) RecordTx(tx *gorm.DB, registerID uuid.UUID, kind string, amount decimal.Decimal, description string, actorID uuid.UUID, saleID *uuid.UUID) error {
	if kind != model.MovementIncome && kind != model.MovementExpense {
		return fmt.Errorf("movement kind %q cannot be recorded directly", kind)
	}
	// Sign is conveyed by kind, never by a negative amount.
	if !amount.IsPositive() {
		return ErrInvalidAmount
	}

	latest, err := s.repo.LatestSnapshotTx(tx, registerID)
	if err != nil {
		return err
	}
	if latest == nil || latest.Status != model.SnapshotOpen {
		return ErrRegisterNotOpen
	}

	mov := &model.RegisterMovement{
		RegisterID:  registerID,
		SnapshotID:  latest.ID,
		Kind:        kind,
		Amount:      amount,
		Description: description,
		SaleID:      saleID,
		EmployeeID:  actorID,
		CreatedAt:   s.clock.Now(),
	}
	if err := s.repo.CreateMovementTx(tx, mov); err != nil {
		return err
	}

	if kind == model.MovementIncome {
		latest.EndingBalance = latest.EndingBalance.Add(amount)
	} else {
		latest.EndingBalance = latest.EndingBalance.Sub(amount)
	}
	return s.repo.UpdateSnapshotTx(tx, latest)
}

func (s *registerService) RequireOpenTx(tx *gorm.DB, registerID uuid.UUID) error {
	latest, err := s.repo.LatestSnapshotTx(tx, registerID)
	if err != nil {
		return err
	}
	if latest == nil || latest.Status != model.SnapshotOpen {
		return ErrRegisterNotOpen
	}
	return nil
}

// ── Read accessors ───────────────────────────────────────────────────────────

// CurrentSnapshot returns the latest snapshot, open or closed. A register
// that has never been opened yields a synthetic closed snapshot with zero
// balances — the seed for its very first opening.
func (s *registerService) CurrentSnapshot(ctx context.Context, registerID uuid.UUID) (*dto.SnapshotResponse, error) {
	latest, err := s.repo.LatestSnapshot(ctx, registerID)
	if err != nil {
		return nil, err
	}
	if latest == nil {
		return &dto.SnapshotResponse{
			RegisterID:     registerID.String(),
			Status:         model.SnapshotClosed,
			OpeningBalance: decimal.Zero,
			EndingBalance:  decimal.Zero,
		}, nil
	}
	return snapshotToResponse(latest), nil
}

func (s *registerService) ListMovements(ctx context.Context, registerID uuid.UUID) ([]dto.MovementResponse, error) {
	movs, err := s.repo.ListMovements(ctx, registerID)
	if err != nil {
		return nil, err
	}
	out := make([]dto.MovementResponse, 0, len(movs))
	for _, m := range movs {
		var saleID *string
		if m.SaleID != nil {
			v := m.SaleID.String()
			saleID = &v
		}
		out = append(out, dto.MovementResponse{
			ID:          m.ID.String(),
			SnapshotID:  m.SnapshotID.String(),
			Kind:        m.Kind,
			Amount:      m.Amount,
			Description: m.Description,
			SaleID:      saleID,
			EmployeeID:  m.EmployeeID.String(),
			CreatedAt:   m.CreatedAt.Format(time.RFC3339),
		})
	}
	return out, nil
}

func (s *registerService) History(ctx context.Context, registerID uuid.UUID, page, limit int) (*dto.SnapshotHistoryResponse, error) {
	if page < 1 {
		page = 1
	}
	if limit < 1 || limit > 100 {
		limit = 20
	}
	snaps, total, err := s.repo.ListClosedSnapshots(ctx, registerID, page, limit)
	if err != nil {
		return nil, err
	}
	items := make([]dto.SnapshotHistoryItem, 0, len(snaps))
	for i := range snaps {
		items = append(items, dto.SnapshotHistoryItem{
			SnapshotResponse: *snapshotToResponse(&snaps[i]),
			ComputedBalance:  snaps[i].ComputedBalance,
			Discrepancy:      snaps[i].Discrepancy,
		})
	}
	return &dto.SnapshotHistoryResponse{Data: items, Total: total, Page: page, Limit: limit}, nil
}

// ── Register records ─────────────────────────────────────────────────────────

func (s *registerService) CreateRegister(ctx context.Context, req dto.CreateRegisterRequest) (*dto.RegisterResponse, error) {
	branchID, err := uuid.Parse(req.BranchID)
	if err != nil {
		return nil, fmt.Errorf("invalid branch_id: %w", err)
	}
	reg := &model.Register{BranchID: branchID, Name: req.Name, Active: true}
	if err := s.repo.Create(ctx, reg); err != nil {
		return nil, err
	}
	return registerToResponse(reg), nil
}

func (s *registerService) ListRegisters(ctx context.Context, branchID uuid.UUID) ([]dto.RegisterResponse, error) {
	regs, err := s.repo.ListByBranch(ctx, branchID)
	if err != nil {
		return nil, err
	}
	out := make([]dto.RegisterResponse, 0, len(regs))
	for i := range regs {
		out = append(out, *registerToResponse(&regs[i]))
	}
	return out, nil
}

// ── Helpers ──────────────────────────────────────────────────────────────────

func registerToResponse(r *model.Register) *dto.RegisterResponse {
	return &dto.RegisterResponse{
		ID:       r.ID.String(),
		BranchID: r.BranchID.String(),
		Name:     r.Name,
		Active:   r.Active,
	}
}

func snapshotToResponse(s *model.RegisterSnapshot) *dto.SnapshotResponse {
	resp := &dto.SnapshotResponse{
		ID:             s.ID.String(),
		RegisterID:     s.RegisterID.String(),
		Status:         s.Status,
		OpeningBalance: s.OpeningBalance,
		EndingBalance:  s.EndingBalance,
	}
	if !s.CreatedAt.IsZero() {
		t := s.CreatedAt.Format(time.RFC3339)
		resp.OpenedAt = &t
	}
	if s.ClosedAt != nil {
		t := s.ClosedAt.Format(time.RFC3339)
		resp.ClosedAt = &t
	}
	return resp
}
