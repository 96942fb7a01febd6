package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"gymops/internal/dto"
	"gymops/internal/model"
)

type saleHarness struct {
	saleRepo     *fakeSaleRepo
	memberRepo   *fakeMemberRepo
	catalogRepo  *fakeCatalogRepo
	inscRepo     *fakeInscriptionRepo
	productRepo  *fakeProductRepo
	pendingRepo  *fakePendingRepo
	employeeRepo *fakeEmployeeRepo
	registerRepo *fakeRegisterRepo

	svc SaleService

	branchID   uuid.UUID
	registerID uuid.UUID
	operatorID uuid.UUID
}

// newSaleHarness wires a full in-memory commerce stack with one branch,
// one opened register and one operator assigned to it.
func newSaleHarness(t *testing.T) *saleHarness {
	t.Helper()

	h := &saleHarness{
		saleRepo:     newFakeSaleRepo(),
		memberRepo:   newFakeMemberRepo(),
		catalogRepo:  newFakeCatalogRepo(),
		inscRepo:     newFakeInscriptionRepo(),
		productRepo:  newFakeProductRepo(),
		pendingRepo:  newFakePendingRepo(),
		employeeRepo: newFakeEmployeeRepo(),
		registerRepo: newFakeRegisterRepo(),
		branchID:     uuid.New(),
	}
	h.registerID = h.registerRepo.addRegister(h.branchID)

	clock := frozenClock{t: testNow}
	registerSvc := NewRegisterService(h.registerRepo, clock)
	h.svc = NewSaleService(
		h.saleRepo, h.memberRepo, h.catalogRepo, h.inscRepo,
		h.productRepo, h.pendingRepo, h.employeeRepo,
		registerSvc, clock, nil,
	)

	operator := &model.Employee{
		Username:   "reception1",
		FullName:   "Front Desk",
		Role:       model.RoleReceptionist,
		BranchID:   h.branchID,
		RegisterID: &h.registerID,
		Active:     true,
	}
	require.NoError(t, h.employeeRepo.Create(context.Background(), operator))
	h.operatorID = operator.ID

	_, err := registerSvc.Open(context.Background(), h.registerID, dec("100.00"), h.operatorID)
	require.NoError(t, err)
	return h
}

func (h *saleHarness) addMember(t *testing.T, document string) *model.Member {
	t.Helper()
	m := &model.Member{FirstName: "Ana", LastName: "Rojas", DocumentNumber: document, Active: true}
	require.NoError(t, h.memberRepo.Create(context.Background(), m))
	return m
}

func (h *saleHarness) addService(t *testing.T, price string, multiBranch bool, branches ...uuid.UUID) *model.Service {
	t.Helper()
	if len(branches) == 0 {
		branches = []uuid.UUID{h.branchID}
	}
	svc := &model.Service{
		Name:         "Monthly Pass",
		Price:        dec(price),
		DurationDays: 30,
		VisitCount:   -1,
		MultiBranch:  multiBranch,
		Active:       true,
	}
	require.NoError(t, h.catalogRepo.CreateService(context.Background(), svc, branches))
	return svc
}

func (h *saleHarness) addProduct(t *testing.T, name, price string, stock int, unlimited bool) *model.Product {
	t.Helper()
	p := &model.Product{
		Barcode:        uuid.NewString(),
		Name:           name,
		BranchID:       h.branchID,
		CostPrice:      dec("1.00"),
		SalePrice:      dec(price),
		Stock:          stock,
		UnlimitedStock: unlimited,
		Active:         true,
	}
	require.NoError(t, h.productRepo.Create(context.Background(), p))
	return p
}

func (h *saleHarness) membershipReq(memberID uuid.UUID, svc *model.Service, payment dto.Payment) dto.SellMembershipRequest {
	id := memberID.String()
	return dto.SellMembershipRequest{
		MemberID:   &id,
		BranchID:   h.branchID.String(),
		RegisterID: h.registerID.String(),
		Payment:    payment,
		Lines: []dto.MembershipLine{{
			ServiceID:  svc.ID.String(),
			StartDate:  testNow.Format("2006-01-02"),
			ExpiryDate: testNow.AddDate(0, 1, 0).Format("2006-01-02"),
			Visits:     -1,
			Price:      svc.Price,
		}},
	}
}

func cashPayment(amount string) dto.Payment {
	return dto.Payment{Method: model.PayCash, CashAmount: dec(amount)}
}

func electronicPayment(amount string) dto.Payment {
	return dto.Payment{Method: model.PayElectronic, ElectronicAmount: dec(amount)}
}

// ── Membership sales ─────────────────────────────────────────────────────────

func TestSellMembershipCash(t *testing.T) {
	h := newSaleHarness(t)
	member := h.addMember(t, "7712345")
	svc := h.addService(t, "250.00", false)

	resp, err := h.svc.SellMembership(context.Background(), h.operatorID, h.membershipReq(member.ID, svc, cashPayment("250.00")))
	require.NoError(t, err)

	assert.Equal(t, member.ID.String(), resp.MemberID)
	assert.Nil(t, resp.PendingPaymentID)
	require.Len(t, resp.InscriptionIDs, 1)

	require.Len(t, h.saleRepo.sales, 1)
	sale := h.saleRepo.sales[0]
	assert.Equal(t, model.SaleMembership, sale.Kind)
	assert.True(t, sale.Total.Equal(dec("250.00")))
	require.Len(t, sale.Lines, 1)
	assert.Equal(t, svc.ID, sale.Lines[0].ServiceID)

	incomes := h.registerRepo.movementsOfKind(h.registerID, model.MovementIncome)
	require.Len(t, incomes, 1)
	assert.True(t, incomes[0].Amount.Equal(dec("250.00")))
	require.NotNil(t, incomes[0].SaleID)
	assert.Equal(t, sale.ID, *incomes[0].SaleID)

	inscs, err := h.inscRepo.ListByMember(context.Background(), member.ID)
	require.NoError(t, err)
	require.Len(t, inscs, 1)
	assert.Equal(t, model.InscriptionActive, inscs[0].Status)
	assert.Equal(t, -1, inscs[0].RemainingVisits)
	assert.Equal(t, h.branchID, inscs[0].BranchID)
}

func TestSellMembershipMultiBranchReplicates(t *testing.T) {
	h := newSaleHarness(t)
	member := h.addMember(t, "7712345")
	otherBranch := uuid.New()
	svc := h.addService(t, "400.00", true, h.branchID, otherBranch)

	resp, err := h.svc.SellMembership(context.Background(), h.operatorID, h.membershipReq(member.ID, svc, cashPayment("400.00")))
	require.NoError(t, err)

	// One sale, one inscription per offering branch, one ledger entry,
	// no installment plan.
	assert.Len(t, resp.InscriptionIDs, 2)
	assert.Len(t, h.saleRepo.sales, 1)
	assert.Len(t, h.registerRepo.movementsOfKind(h.registerID, model.MovementIncome), 1)
	assert.Nil(t, resp.PendingPaymentID)
	assert.Empty(t, h.pendingRepo.pending)

	inscs, err := h.inscRepo.ListByMember(context.Background(), member.ID)
	require.NoError(t, err)
	require.Len(t, inscs, 2)
	branches := map[uuid.UUID]bool{inscs[0].BranchID: true, inscs[1].BranchID: true}
	assert.True(t, branches[h.branchID])
	assert.True(t, branches[otherBranch])
	// Both rows start from the same expiry and visit count.
	assert.True(t, inscs[0].ExpiryDate.Equal(inscs[1].ExpiryDate))
	assert.Equal(t, inscs[0].RemainingVisits, inscs[1].RemainingVisits)
}

func TestSellMembershipBlockedByActiveInscription(t *testing.T) {
	h := newSaleHarness(t)
	member := h.addMember(t, "7712345")
	svc := h.addService(t, "250.00", false)

	existing := &model.Inscription{
		MemberID:        member.ID,
		ServiceID:       svc.ID,
		BranchID:        h.branchID,
		SaleID:          uuid.New(),
		StartDate:       testNow.AddDate(0, 0, -10),
		ExpiryDate:      testNow.AddDate(0, 0, 20),
		RemainingVisits: -1,
		Status:          model.InscriptionActive,
	}
	require.NoError(t, h.inscRepo.CreateTx(nil, existing))

	_, err := h.svc.SellMembership(context.Background(), h.operatorID, h.membershipReq(member.ID, svc, cashPayment("250.00")))
	assert.ErrorIs(t, err, ErrActiveSubscription)

	// Verified by absence: no sale, no new inscription, no ledger entry.
	assert.Empty(t, h.saleRepo.sales)
	assert.Empty(t, h.registerRepo.movementsOfKind(h.registerID, model.MovementIncome))
	inscs, err := h.inscRepo.ListByMember(context.Background(), member.ID)
	require.NoError(t, err)
	assert.Len(t, inscs, 1)
}

func TestSellMembershipExpiredInscriptionDoesNotBlock(t *testing.T) {
	h := newSaleHarness(t)
	member := h.addMember(t, "7712345")
	svc := h.addService(t, "250.00", false)

	lapsed := &model.Inscription{
		MemberID:        member.ID,
		ServiceID:       svc.ID,
		BranchID:        h.branchID,
		SaleID:          uuid.New(),
		StartDate:       testNow.AddDate(0, -2, 0),
		ExpiryDate:      testNow.AddDate(0, -1, 0),
		RemainingVisits: -1,
		Status:          model.InscriptionActive,
	}
	require.NoError(t, h.inscRepo.CreateTx(nil, lapsed))

	_, err := h.svc.SellMembership(context.Background(), h.operatorID, h.membershipReq(member.ID, svc, cashPayment("250.00")))
	assert.NoError(t, err)
}

func TestSellMembershipDuplicateDocument(t *testing.T) {
	h := newSaleHarness(t)
	existing := h.addMember(t, "7712345")
	svc := h.addService(t, "250.00", false)

	req := h.membershipReq(uuid.Nil, svc, cashPayment("250.00"))
	req.MemberID = nil
	req.NewMember = &dto.NewMemberFields{
		FirstName:      "Maria",
		LastName:       "Quispe",
		DocumentNumber: "7712345",
	}

	_, err := h.svc.SellMembership(context.Background(), h.operatorID, req)
	var dup *DuplicateMemberError
	require.ErrorAs(t, err, &dup)
	assert.Equal(t, existing.ID, dup.Existing.ID)
	assert.Empty(t, h.saleRepo.sales)
}

func TestSellMembershipMissingBuyer(t *testing.T) {
	h := newSaleHarness(t)
	svc := h.addService(t, "250.00", false)

	req := h.membershipReq(uuid.Nil, svc, cashPayment("250.00"))
	req.MemberID = nil
	req.NewMember = nil

	_, err := h.svc.SellMembership(context.Background(), h.operatorID, req)
	assert.ErrorIs(t, err, ErrMissingBuyer)
}

func TestSellMembershipServiceNotOfferedAtBranch(t *testing.T) {
	h := newSaleHarness(t)
	member := h.addMember(t, "7712345")
	svc := h.addService(t, "250.00", false, uuid.New()) // offered elsewhere

	_, err := h.svc.SellMembership(context.Background(), h.operatorID, h.membershipReq(member.ID, svc, cashPayment("250.00")))
	assert.ErrorIs(t, err, ErrServiceUnavailable)
}

func TestSellMembershipUnderpaidWithoutInstallment(t *testing.T) {
	h := newSaleHarness(t)
	member := h.addMember(t, "7712345")
	svc := h.addService(t, "300.00", false)

	_, err := h.svc.SellMembership(context.Background(), h.operatorID, h.membershipReq(member.ID, svc, cashPayment("100.00")))
	assert.ErrorIs(t, err, ErrInsufficientPayment)
	assert.Empty(t, h.saleRepo.sales)
}

func TestSellMembershipInstallmentPlan(t *testing.T) {
	h := newSaleHarness(t)
	member := h.addMember(t, "7712345")
	svc := h.addService(t, "300.00", false)

	req := h.membershipReq(member.ID, svc, cashPayment("100.00"))
	req.Installment = true

	resp, err := h.svc.SellMembership(context.Background(), h.operatorID, req)
	require.NoError(t, err)
	require.NotNil(t, resp.PendingPaymentID)

	ppID, err := uuid.Parse(*resp.PendingPaymentID)
	require.NoError(t, err)
	pp, err := h.pendingRepo.FindByID(context.Background(), ppID)
	require.NoError(t, err)

	assert.Equal(t, model.PendingOpen, pp.Status)
	assert.True(t, pp.TotalOwed.Equal(dec("300.00")))
	assert.True(t, pp.AmountPaid.Equal(dec("100.00")))
	assert.True(t, pp.AmountRemaining.Equal(dec("200.00")))
	assert.True(t, pp.AmountPaid.Add(pp.AmountRemaining).Equal(pp.TotalOwed))

	// Only the cash actually tendered reaches the ledger.
	incomes := h.registerRepo.movementsOfKind(h.registerID, model.MovementIncome)
	require.Len(t, incomes, 1)
	assert.True(t, incomes[0].Amount.Equal(dec("100.00")))
}

func TestSellMembershipElectronicSkipsLedger(t *testing.T) {
	h := newSaleHarness(t)
	member := h.addMember(t, "7712345")
	svc := h.addService(t, "250.00", false)

	_, err := h.svc.SellMembership(context.Background(), h.operatorID, h.membershipReq(member.ID, svc, electronicPayment("250.00")))
	require.NoError(t, err)

	assert.Len(t, h.saleRepo.sales, 1)
	assert.Empty(t, h.registerRepo.movementsOfKind(h.registerID, model.MovementIncome))
}

func TestSellMembershipMixedPaymentLedgersCashOnly(t *testing.T) {
	h := newSaleHarness(t)
	member := h.addMember(t, "7712345")
	svc := h.addService(t, "250.00", false)

	payment := dto.Payment{Method: model.PayMixed, CashAmount: dec("150.00"), ElectronicAmount: dec("100.00")}
	_, err := h.svc.SellMembership(context.Background(), h.operatorID, h.membershipReq(member.ID, svc, payment))
	require.NoError(t, err)

	incomes := h.registerRepo.movementsOfKind(h.registerID, model.MovementIncome)
	require.Len(t, incomes, 1)
	assert.True(t, incomes[0].Amount.Equal(dec("150.00")))
}

func TestSellMembershipDiscount(t *testing.T) {
	h := newSaleHarness(t)
	member := h.addMember(t, "7712345")
	svc := h.addService(t, "300.00", false)

	reason := "corporate agreement"
	req := h.membershipReq(member.ID, svc, cashPayment("250.00"))
	req.Discount = dec("50.00")
	req.DiscountReason = &reason

	_, err := h.svc.SellMembership(context.Background(), h.operatorID, req)
	require.NoError(t, err)

	sale := h.saleRepo.sales[0]
	assert.True(t, sale.Subtotal.Equal(dec("300.00")))
	assert.True(t, sale.Total.Equal(dec("250.00")))
}

// ── Product sales ────────────────────────────────────────────────────────────

func TestSellProducts(t *testing.T) {
	h := newSaleHarness(t)
	water := h.addProduct(t, "Water 500ml", "10.00", 5, false)
	bar := h.addProduct(t, "Protein Bar", "2.50", 10, false)

	resp, err := h.svc.SellProducts(context.Background(), h.operatorID, dto.SellProductsRequest{
		Items: []dto.ProductLineRequest{
			{ProductID: water.ID.String(), Quantity: 3},
			{ProductID: bar.ID.String(), Quantity: 2},
		},
		Payment: cashPayment("35.00"),
	})
	require.NoError(t, err)

	assert.Equal(t, model.SaleProducts, resp.Kind)
	assert.True(t, resp.Total.Equal(dec("35.00")))
	assert.True(t, resp.Change.IsZero())
	assert.Len(t, resp.Items, 2)

	got, err := h.productRepo.FindByID(context.Background(), water.ID)
	require.NoError(t, err)
	assert.Equal(t, 2, got.Stock)
	got, err = h.productRepo.FindByID(context.Background(), bar.ID)
	require.NoError(t, err)
	assert.Equal(t, 8, got.Stock)

	movs, err := h.productRepo.ListStockMovements(context.Background(), water.ID)
	require.NoError(t, err)
	require.Len(t, movs, 1)
	assert.Equal(t, "sale", movs[0].Kind)
	assert.Equal(t, -3, movs[0].Quantity)
	assert.Equal(t, 5, movs[0].StockPrior)
	assert.Equal(t, 2, movs[0].StockAfter)
	require.NotNil(t, movs[0].SaleID)

	incomes := h.registerRepo.movementsOfKind(h.registerID, model.MovementIncome)
	require.Len(t, incomes, 1)
	assert.True(t, incomes[0].Amount.Equal(dec("35.00")))
}

func TestSellProductsChange(t *testing.T) {
	h := newSaleHarness(t)
	water := h.addProduct(t, "Water 500ml", "10.00", 5, false)

	resp, err := h.svc.SellProducts(context.Background(), h.operatorID, dto.SellProductsRequest{
		Items:   []dto.ProductLineRequest{{ProductID: water.ID.String(), Quantity: 3}},
		Payment: cashPayment("50.00"),
	})
	require.NoError(t, err)
	assert.True(t, resp.Change.Equal(dec("20.00")))
}

func TestSellProductsInsufficientStock(t *testing.T) {
	h := newSaleHarness(t)
	water := h.addProduct(t, "Water 500ml", "10.00", 2, false)

	_, err := h.svc.SellProducts(context.Background(), h.operatorID, dto.SellProductsRequest{
		Items:   []dto.ProductLineRequest{{ProductID: water.ID.String(), Quantity: 3}},
		Payment: cashPayment("30.00"),
	})

	var stockErr *InsufficientStockError
	require.ErrorAs(t, err, &stockErr)
	assert.Equal(t, "Water 500ml", stockErr.ProductName)
	assert.Equal(t, 3, stockErr.Requested)
	assert.Equal(t, 2, stockErr.Available)
	assert.Equal(t, 1, stockErr.Shortfall())

	// Nothing was written.
	got, err2 := h.productRepo.FindByID(context.Background(), water.ID)
	require.NoError(t, err2)
	assert.Equal(t, 2, got.Stock)
	assert.Empty(t, h.saleRepo.sales)
	assert.Empty(t, h.registerRepo.movementsOfKind(h.registerID, model.MovementIncome))
}

func TestSellProductsUnlimitedStock(t *testing.T) {
	h := newSaleHarness(t)
	pass := h.addProduct(t, "Towel Rental", "5.00", 0, true)

	_, err := h.svc.SellProducts(context.Background(), h.operatorID, dto.SellProductsRequest{
		Items:   []dto.ProductLineRequest{{ProductID: pass.ID.String(), Quantity: 4}},
		Payment: cashPayment("20.00"),
	})
	require.NoError(t, err)

	// No decrement, no audit row for untracked stock.
	got, err := h.productRepo.FindByID(context.Background(), pass.ID)
	require.NoError(t, err)
	assert.Equal(t, 0, got.Stock)
	movs, err := h.productRepo.ListStockMovements(context.Background(), pass.ID)
	require.NoError(t, err)
	assert.Empty(t, movs)
}

func TestSellProductsNoRegisterAssigned(t *testing.T) {
	h := newSaleHarness(t)
	water := h.addProduct(t, "Water 500ml", "10.00", 5, false)

	clerk := &model.Employee{
		Username: "floater",
		FullName: "No Register",
		Role:     model.RoleReceptionist,
		BranchID: h.branchID,
		Active:   true,
	}
	require.NoError(t, h.employeeRepo.Create(context.Background(), clerk))

	_, err := h.svc.SellProducts(context.Background(), clerk.ID, dto.SellProductsRequest{
		Items:   []dto.ProductLineRequest{{ProductID: water.ID.String(), Quantity: 1}},
		Payment: cashPayment("10.00"),
	})
	assert.ErrorIs(t, err, ErrNoRegisterAssigned)
}

func TestSellProductsUnderpaid(t *testing.T) {
	h := newSaleHarness(t)
	water := h.addProduct(t, "Water 500ml", "10.00", 5, false)

	_, err := h.svc.SellProducts(context.Background(), h.operatorID, dto.SellProductsRequest{
		Items:   []dto.ProductLineRequest{{ProductID: water.ID.String(), Quantity: 2}},
		Payment: cashPayment("15.00"),
	})
	assert.ErrorIs(t, err, ErrInsufficientPayment)
	assert.Empty(t, h.saleRepo.sales)
}

func TestSellProductsClosedRegister(t *testing.T) {
	h := newSaleHarness(t)
	water := h.addProduct(t, "Water 500ml", "10.00", 5, false)

	registerSvc := NewRegisterService(h.registerRepo, frozenClock{t: testNow})
	_, err := registerSvc.Close(context.Background(), h.registerID, dec("100.00"), h.operatorID)
	require.NoError(t, err)

	_, err = h.svc.SellProducts(context.Background(), h.operatorID, dto.SellProductsRequest{
		Items:   []dto.ProductLineRequest{{ProductID: water.ID.String(), Quantity: 1}},
		Payment: cashPayment("10.00"),
	})
	assert.True(t, errors.Is(err, ErrRegisterNotOpen))
}

func TestSellProductsElectronicOnClosedRegister(t *testing.T) {
	h := newSaleHarness(t)
	water := h.addProduct(t, "Water 500ml", "10.00", 5, false)

	registerSvc := NewRegisterService(h.registerRepo, frozenClock{t: testNow})
	_, err := registerSvc.Close(context.Background(), h.registerID, dec("100.00"), h.operatorID)
	require.NoError(t, err)

	// Electronic money never touches the drawer, but selling against a
	// closed register is still refused.
	_, err = h.svc.SellProducts(context.Background(), h.operatorID, dto.SellProductsRequest{
		Items:   []dto.ProductLineRequest{{ProductID: water.ID.String(), Quantity: 1}},
		Payment: electronicPayment("10.00"),
	})
	assert.True(t, errors.Is(err, ErrRegisterNotOpen))

	assert.Empty(t, h.saleRepo.sales)
	got, err := h.productRepo.FindByID(context.Background(), water.ID)
	require.NoError(t, err)
	assert.Equal(t, 5, got.Stock)
}

func TestSellMembershipOnClosedRegister(t *testing.T) {
	h := newSaleHarness(t)
	member := h.addMember(t, "7712345")
	svc := h.addService(t, "250.00", false)

	registerSvc := NewRegisterService(h.registerRepo, frozenClock{t: testNow})
	_, err := registerSvc.Close(context.Background(), h.registerID, dec("100.00"), h.operatorID)
	require.NoError(t, err)

	_, err = h.svc.SellMembership(context.Background(), h.operatorID, h.membershipReq(member.ID, svc, electronicPayment("250.00")))
	assert.True(t, errors.Is(err, ErrRegisterNotOpen))

	assert.Empty(t, h.saleRepo.sales)
	inscs, err := h.inscRepo.ListByMember(context.Background(), member.ID)
	require.NoError(t, err)
	assert.Empty(t, inscs)
}

func TestSellProductsDuplicateLinesAggregated(t *testing.T) {
	h := newSaleHarness(t)
	water := h.addProduct(t, "Water 500ml", "10.00", 3, false)

	// Two lines for the same product must be checked against stock as
	// one combined quantity.
	_, err := h.svc.SellProducts(context.Background(), h.operatorID, dto.SellProductsRequest{
		Items: []dto.ProductLineRequest{
			{ProductID: water.ID.String(), Quantity: 2},
			{ProductID: water.ID.String(), Quantity: 2},
		},
		Payment: cashPayment("40.00"),
	})

	var stockErr *InsufficientStockError
	require.ErrorAs(t, err, &stockErr)
	assert.Equal(t, 4, stockErr.Requested)
	assert.Equal(t, 3, stockErr.Available)

	got, err2 := h.productRepo.FindByID(context.Background(), water.ID)
	require.NoError(t, err2)
	assert.Equal(t, 3, got.Stock)
	assert.Empty(t, h.saleRepo.sales)
}

func TestSellProductsDuplicateLinesSingleDecrement(t *testing.T) {
	h := newSaleHarness(t)
	water := h.addProduct(t, "Water 500ml", "10.00", 5, false)

	resp, err := h.svc.SellProducts(context.Background(), h.operatorID, dto.SellProductsRequest{
		Items: []dto.ProductLineRequest{
			{ProductID: water.ID.String(), Quantity: 2},
			{ProductID: water.ID.String(), Quantity: 1},
		},
		Payment: cashPayment("30.00"),
	})
	require.NoError(t, err)

	// The sale keeps both lines as tendered, but stock moves once with
	// the aggregate quantity and a consistent before/after audit trail.
	assert.Len(t, resp.Items, 2)
	got, err := h.productRepo.FindByID(context.Background(), water.ID)
	require.NoError(t, err)
	assert.Equal(t, 2, got.Stock)

	movs, err := h.productRepo.ListStockMovements(context.Background(), water.ID)
	require.NoError(t, err)
	require.Len(t, movs, 1)
	assert.Equal(t, -3, movs[0].Quantity)
	assert.Equal(t, 5, movs[0].StockPrior)
	assert.Equal(t, 2, movs[0].StockAfter)
}

func TestSellMembershipMalformedDates(t *testing.T) {
	h := newSaleHarness(t)
	member := h.addMember(t, "7712345")
	svc := h.addService(t, "250.00", false)

	req := h.membershipReq(member.ID, svc, cashPayment("250.00"))
	req.Lines[0].StartDate = "14-03-2026"

	_, err := h.svc.SellMembership(context.Background(), h.operatorID, req)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid start_date")

	assert.Empty(t, h.saleRepo.sales)
	inscs, err := h.inscRepo.ListByMember(context.Background(), member.ID)
	require.NoError(t, err)
	assert.Empty(t, inscs)
}

func TestMarkExpiredSweep(t *testing.T) {
	h := newSaleHarness(t)
	member := h.addMember(t, "7712345")
	svc := h.addService(t, "250.00", false)

	past := &model.Inscription{
		MemberID: member.ID, ServiceID: svc.ID, BranchID: h.branchID, SaleID: uuid.New(),
		StartDate: testNow.AddDate(0, -2, 0), ExpiryDate: testNow.Add(-time.Hour),
		RemainingVisits: -1, Status: model.InscriptionActive,
	}
	spent := &model.Inscription{
		MemberID: member.ID, ServiceID: svc.ID, BranchID: h.branchID, SaleID: uuid.New(),
		StartDate: testNow.AddDate(0, 0, -5), ExpiryDate: testNow.AddDate(0, 0, 25),
		RemainingVisits: 0, Status: model.InscriptionActive,
	}
	current := &model.Inscription{
		MemberID: member.ID, ServiceID: svc.ID, BranchID: h.branchID, SaleID: uuid.New(),
		StartDate: testNow.AddDate(0, 0, -5), ExpiryDate: testNow.AddDate(0, 0, 25),
		RemainingVisits: 3, Status: model.InscriptionActive,
	}
	for _, i := range []*model.Inscription{past, spent, current} {
		require.NoError(t, h.inscRepo.CreateTx(nil, i))
	}

	n, err := h.inscRepo.MarkExpired(context.Background(), testNow)
	require.NoError(t, err)
	assert.Equal(t, int64(2), n)
	assert.Equal(t, model.InscriptionExpired, past.Status)
	assert.Equal(t, model.InscriptionExpired, spent.Status)
	assert.Equal(t, model.InscriptionActive, current.Status)
}
