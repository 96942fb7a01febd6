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
	"gymops/internal/worker"
)

// SaleService is the commerce orchestrator: it turns a sale request into
// catalog-side writes (inscriptions, stock decrements), the sale record,
// and, for the cash portion only, a register movement, all inside one
// transaction. A partial sale is never observable.
type SaleService interface {
	SellMembership(ctx context.Context, operatorID uuid.UUID, req dto.SellMembershipRequest) (*dto.SellMembershipResponse, error)
	SellProducts(ctx context.Context, operatorID uuid.UUID, req dto.SellProductsRequest) (*dto.SaleResponse, error)
	GetSale(ctx context.Context, id uuid.UUID) (*dto.SaleResponse, error)
	ListSales(ctx context.Context, filter dto.SaleFilter) (*dto.SaleListResponse, error)
}

type saleService struct {
	repo         repository.SaleRepository
	memberRepo   repository.MemberRepository
	catalogRepo  repository.CatalogRepository
	inscRepo     repository.InscriptionRepository
	productRepo  repository.ProductRepository
	pendingRepo  repository.PendingPaymentRepository
	employeeRepo repository.EmployeeRepository
	register     RegisterService
	clock        infra.Clock
	dispatcher   *worker.Dispatcher
}

func NewSaleService(
	repo repository.SaleRepository,
	memberRepo repository.MemberRepository,
	catalogRepo repository.CatalogRepository,
	inscRepo repository.InscriptionRepository,
	productRepo repository.ProductRepository,
	pendingRepo repository.PendingPaymentRepository,
	employeeRepo repository.EmployeeRepository,
	register RegisterService,
	clock infra.Clock,
	dispatcher *worker.Dispatcher,
) SaleService {
	return &saleService{
		repo:         repo,
		memberRepo:   memberRepo,
		catalogRepo:  catalogRepo,
		inscRepo:     inscRepo,
		productRepo:  productRepo,
		pendingRepo:  pendingRepo,
		employeeRepo: employeeRepo,
		register:     register,
		clock:        clock,
		dispatcher:   dispatcher,
	}
}

// ── SellMembership ───────────────────────────────────────────────────────────
// One atomic unit of work:
//   1. resolve or create the buyer (duplicate document check)
//   2. verify each service is offered at the branch
//   3. reject if the buyer already holds a usable inscription
//   4. create one inscription per (service, offering branch)
//   5. create the sale and its service lines
//   6. create a pending payment when an installment plan leaves a remainder
//   7. append the cash portion to the register ledger
// Any failure discards every write.

func (s *saleService) SellMembership(ctx context.Context, operatorID uuid.UUID, req dto.SellMembershipRequest) (*dto.SellMembershipResponse, error) {
	if err := req.Payment.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %s", ErrInvalidAmount, err)
	}
	branchID, err := uuid.Parse(req.BranchID)
	if err != nil {
		return nil, fmt.Errorf("invalid branch_id: %w", err)
	}
	registerID, err := uuid.Parse(req.RegisterID)
	if err != nil {
		return nil, fmt.Errorf("invalid register_id: %w", err)
	}

	subtotal := decimal.Zero
	for _, line := range req.Lines {
		subtotal = subtotal.Add(line.Price)
	}
	total := subtotal.Sub(req.Discount)
	if total.IsNegative() {
		return nil, ErrInvalidAmount
	}

	paidNow := req.Payment.Total()
	owedLater := total.Sub(paidNow)
	if !req.Installment && paidNow.LessThan(total) {
		return nil, ErrInsufficientPayment
	}
	if req.Installment && owedLater.IsNegative() {
		return nil, ErrInsufficientPayment // overpaid installment plans make no sense
	}

	now := s.clock.Now()
	var resp *dto.SellMembershipResponse

	txErr := runTx(ctx, s.repo.DB(), func(tx *gorm.DB) error {
		// An open drawer is a precondition for any sale, cash or not.
		if err := s.register.RequireOpenTx(tx, registerID); err != nil {
			return err
		}

		member, err := s.resolveBuyer(ctx, tx, req)
		if err != nil {
			return err
		}

		// Validate services and collect inscription targets before any
		// catalog write.
		type plannedLine struct {
			service  *model.Service
			line     dto.MembershipLine
			start    time.Time
			expiry   time.Time
			branches []uuid.UUID
		}
		planned := make([]plannedLine, 0, len(req.Lines))
		for _, line := range req.Lines {
			serviceID, err := uuid.Parse(line.ServiceID)
			if err != nil {
				return fmt.Errorf("invalid service_id: %w", err)
			}
			start, err := time.Parse("2006-01-02", line.StartDate)
			if err != nil {
				return fmt.Errorf("invalid start_date: %w", err)
			}
			expiry, err := time.Parse("2006-01-02", line.ExpiryDate)
			if err != nil {
				return fmt.Errorf("invalid expiry_date: %w", err)
			}
			svc, err := s.catalogRepo.FindServiceByID(ctx, serviceID)
			if err != nil || !svc.Active {
				return ErrServiceUnavailable
			}
			offered, err := s.catalogRepo.OfferedAt(ctx, serviceID, branchID)
			if err != nil {
				return err
			}
			if !offered {
				return ErrServiceUnavailable
			}

			// No silent renewal or merge: a usable inscription blocks the
			// sale outright.
			existing, err := s.inscRepo.FindActiveTx(tx, member.ID, serviceID, now)
			if err != nil {
				return err
			}
			if existing != nil {
				return ErrActiveSubscription
			}

			branches := []uuid.UUID{branchID}
			if svc.MultiBranch {
				branches, err = s.catalogRepo.BranchesOffering(ctx, serviceID)
				if err != nil {
					return err
				}
			}
			planned = append(planned, plannedLine{service: svc, line: line, start: start, expiry: expiry, branches: branches})
		}

		sale := &model.Sale{
			Kind:             model.SaleMembership,
			MemberID:         &member.ID,
			EmployeeID:       operatorID,
			BranchID:         branchID,
			RegisterID:       registerID,
			Subtotal:         subtotal,
			Discount:         req.Discount,
			DiscountReason:   req.DiscountReason,
			Total:            total,
			PaymentMethod:    req.Payment.Method,
			CashAmount:       req.Payment.CashAmount,
			ElectronicAmount: req.Payment.ElectronicAmount,
			CreatedAt:        now,
		}
		for _, p := range planned {
			sale.Lines = append(sale.Lines, model.SaleLine{
				ServiceID: p.service.ID,
				Price:     p.line.Price,
			})
		}
		if err := s.repo.CreateTx(tx, sale); err != nil {
			return err
		}

		// One inscription per (service, offering branch), all sharing the
		// same expiry and visit count at creation. Each branch decrements
		// its own row independently afterwards.
		var inscriptionIDs []string
		for _, p := range planned {
			for _, b := range p.branches {
				insc := &model.Inscription{
					MemberID:        member.ID,
					ServiceID:       p.service.ID,
					BranchID:        b,
					SaleID:          sale.ID,
					StartDate:       p.start,
					ExpiryDate:      p.expiry,
					RemainingVisits: p.line.Visits,
					Status:          model.InscriptionActive,
					CreatedAt:       now,
				}
				if err := s.inscRepo.CreateTx(tx, insc); err != nil {
					return err
				}
				inscriptionIDs = append(inscriptionIDs, insc.ID.String())
			}
		}

		var pendingID *string
		if req.Installment && owedLater.IsPositive() {
			pp := &model.PendingPayment{
				MemberID:        member.ID,
				SaleID:          sale.ID,
				TotalOwed:       total,
				AmountPaid:      paidNow,
				AmountRemaining: owedLater,
				Status:          model.PendingOpen,
				CreatedAt:       now,
				UpdatedAt:       now,
			}
			if err := s.pendingRepo.CreateTx(tx, pp); err != nil {
				return err
			}
			v := pp.ID.String()
			pendingID = &v
		}

		if cash := req.Payment.CashPortion(); cash.IsPositive() {
			desc := fmt.Sprintf("Membership sale %s", sale.ID)
			if err := s.register.RecordTx(tx, registerID, model.MovementIncome, cash, desc, operatorID, &sale.ID); err != nil {
				return err
			}
		}

		resp = &dto.SellMembershipResponse{
			SaleID:           sale.ID.String(),
			MemberID:         member.ID.String(),
			PendingPaymentID: pendingID,
			InscriptionIDs:   inscriptionIDs,
			Message:          "membership sale registered",
		}
		return nil
	})
	if txErr != nil {
		return nil, txErr
	}
	return resp, nil
}

// resolveBuyer loads the existing member or creates a new one inside the
// sale transaction. A new member whose document number is already held by
// an active member fails with the conflicting record attached.
func (s *saleService) resolveBuyer(ctx context.Context, tx *gorm.DB, req dto.SellMembershipRequest) (*model.Member, error) {
	switch {
	case req.MemberID != nil:
		id, err := uuid.Parse(*req.MemberID)
		if err != nil {
			return nil, fmt.Errorf("invalid member_id: %w", err)
		}
		member, err := s.memberRepo.FindByID(ctx, id)
		if err != nil || !member.Active {
			return nil, ErrNotFound
		}
		return member, nil

	case req.NewMember != nil:
		existing, err := s.memberRepo.FindActiveByDocument(ctx, req.NewMember.DocumentNumber)
		if err != nil {
			return nil, err
		}
		if existing != nil {
			return nil, &DuplicateMemberError{Existing: existing}
		}
		member := &model.Member{
			FirstName:      req.NewMember.FirstName,
			LastName:       req.NewMember.LastName,
			DocumentNumber: req.NewMember.DocumentNumber,
			Phone:          req.NewMember.Phone,
			Email:          req.NewMember.Email,
			Active:         true,
		}
		if err := s.memberRepo.CreateTx(tx, member); err != nil {
			return nil, err
		}
		return member, nil

	default:
		return nil, ErrMissingBuyer
	}
}

// ── SellProducts ─────────────────────────────────────────────────────────────
// Branch and register come from the acting employee's assignment. Stock
// checks happen inside the transaction on locked rows, so a concurrent
// sale of the last units fails cleanly instead of driving stock negative.

func (s *saleService) SellProducts(ctx context.Context, operatorID uuid.UUID, req dto.SellProductsRequest) (*dto.SaleResponse, error) {
	if err := req.Payment.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %s", ErrInvalidAmount, err)
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
	var sale model.Sale

	txErr := runTx(ctx, s.repo.DB(), func(tx *gorm.DB) error {
		// An open drawer is a precondition for any sale, cash or not.
		if err := s.register.RequireOpenTx(tx, registerID); err != nil {
			return err
		}

		// Quantities are aggregated per product so that repeated lines
		// for the same item are checked against stock as one total.
		type requestedLine struct {
			productID uuid.UUID
			quantity  int
		}
		lines := make([]requestedLine, 0, len(req.Items))
		wanted := make(map[uuid.UUID]int, len(req.Items))
		order := make([]uuid.UUID, 0, len(req.Items))
		for _, item := range req.Items {
			pid, err := uuid.Parse(item.ProductID)
			if err != nil {
				return fmt.Errorf("invalid product_id: %w", err)
			}
			if _, seen := wanted[pid]; !seen {
				order = append(order, pid)
			}
			wanted[pid] += item.Quantity
			lines = append(lines, requestedLine{productID: pid, quantity: item.Quantity})
		}

		products := make(map[uuid.UUID]*model.Product, len(order))
		for _, pid := range order {
			p, err := s.productRepo.FindByIDTx(tx, pid)
			if err != nil {
				return ErrNotFound
			}
			if !p.Active {
				return fmt.Errorf("product %s is inactive", p.Name)
			}
			// Unlimited-stock products skip the availability check entirely.
			if !p.UnlimitedStock && p.Stock < wanted[pid] {
				return &InsufficientStockError{
					ProductName: p.Name,
					Requested:   wanted[pid],
					Available:   p.Stock,
				}
			}
			products[pid] = p
		}

		subtotal := decimal.Zero
		for _, line := range lines {
			subtotal = subtotal.Add(products[line.productID].SalePrice.Mul(decimal.NewFromInt(int64(line.quantity))))
		}
		total := subtotal.Sub(req.Discount)
		if total.IsNegative() {
			return ErrInvalidAmount
		}
		if req.Payment.Total().LessThan(total) {
			return ErrInsufficientPayment
		}

		sale = model.Sale{
			Kind:             model.SaleProducts,
			EmployeeID:       operatorID,
			BranchID:         employee.BranchID,
			RegisterID:       registerID,
			Subtotal:         subtotal,
			Discount:         req.Discount,
			DiscountReason:   req.DiscountReason,
			Total:            total,
			PaymentMethod:    req.Payment.Method,
			CashAmount:       req.Payment.CashAmount,
			ElectronicAmount: req.Payment.ElectronicAmount,
			CreatedAt:        now,
		}
		for _, line := range lines {
			p := products[line.productID]
			sale.Items = append(sale.Items, model.SaleItem{
				ProductID: p.ID,
				Quantity:  line.quantity,
				UnitPrice: p.SalePrice,
				Subtotal:  p.SalePrice.Mul(decimal.NewFromInt(int64(line.quantity))),
			})
		}
		if err := s.repo.CreateTx(tx, &sale); err != nil {
			return err
		}

		// One decrement per tracked product, with an audit row carrying
		// the aggregate quantity.
		for _, pid := range order {
			p := products[pid]
			if p.UnlimitedStock {
				continue
			}
			qty := wanted[pid]
			if err := s.productRepo.UpdateStockTx(tx, pid, -qty); err != nil {
				return fmt.Errorf("decrement stock of %s: %w", p.Name, err)
			}
			mov := &model.StockMovement{
				ProductID:  p.ID,
				Kind:       "sale",
				Quantity:   -qty,
				StockPrior: p.Stock,
				StockAfter: p.Stock - qty,
				Reason:     fmt.Sprintf("Sale %s", sale.ID),
				SaleID:     &sale.ID,
				EmployeeID: &operatorID,
				CreatedAt:  now,
			}
			if err := s.productRepo.CreateStockMovementTx(tx, mov); err != nil {
				return err
			}
		}

		if cash := req.Payment.CashPortion(); cash.IsPositive() {
			desc := fmt.Sprintf("Product sale %s", sale.ID)
			if err := s.register.RecordTx(tx, registerID, model.MovementIncome, cash, desc, operatorID, &sale.ID); err != nil {
				return err
			}
		}
		return nil
	})
	if txErr != nil {
		return nil, txErr
	}

	// Best-effort async receipt; never affects the committed sale.
	if s.dispatcher != nil && req.CustomerEmail != nil && *req.CustomerEmail != "" {
		_ = s.dispatcher.EnqueueReceipt(ctx, worker.ReceiptJobPayload{
			SaleID:        sale.ID.String(),
			CustomerEmail: *req.CustomerEmail,
		})
	}

	resp := saleToResponse(&sale)
	resp.Change = req.Payment.Total().Sub(sale.Total)
	return resp, nil
}

// ── Read accessors ───────────────────────────────────────────────────────────

func (s *saleService) GetSale(ctx context.Context, id uuid.UUID) (*dto.SaleResponse, error) {
	sale, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, ErrNotFound
	}
	return saleToResponse(sale), nil
}

func (s *saleService) ListSales(ctx context.Context, filter dto.SaleFilter) (*dto.SaleListResponse, error) {
	if filter.Page < 1 {
		filter.Page = 1
	}
	if filter.Limit < 1 {
		filter.Limit = 50
	}
	sales, total, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, err
	}
	items := make([]dto.SaleResponse, 0, len(sales))
	for i := range sales {
		items = append(items, *saleToResponse(&sales[i]))
	}
	return &dto.SaleListResponse{Data: items, Total: total, Page: filter.Page, Limit: filter.Limit}, nil
}

func saleToResponse(v *model.Sale) *dto.SaleResponse {
	items := make([]dto.SaleItemResponse, 0, len(v.Items))
	for _, item := range v.Items {
		name := ""
		if item.Product != nil {
			name = item.Product.Name
		}
		items = append(items, dto.SaleItemResponse{
			Product:   name,
			Quantity:  item.Quantity,
			UnitPrice: item.UnitPrice,
			Subtotal:  item.Subtotal,
		})
	}
	var memberID *string
	if v.MemberID != nil {
		m := v.MemberID.String()
		memberID = &m
	}
	return &dto.SaleResponse{
		ID:               v.ID.String(),
		Kind:             v.Kind,
		MemberID:         memberID,
		Subtotal:         v.Subtotal,
		Discount:         v.Discount,
		Total:            v.Total,
		PaymentMethod:    v.PaymentMethod,
		CashAmount:       v.CashAmount,
		ElectronicAmount: v.ElectronicAmount,
		Items:            items,
		CreatedAt:        v.CreatedAt.Format(time.RFC3339),
	}
}
