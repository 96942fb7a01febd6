package service

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"gymops/internal/dto"
	"gymops/internal/model"
	"gymops/internal/repository"
)

// In-memory repositories for unit tests. They ignore the tx handle
// (runTx passes nil when DB() returns nil) and hold everything behind a
// mutex so tests can exercise services without a database.

// ── Clock ────────────────────────────────────────────────────────────────────

type frozenClock struct{ t time.Time }

func (c frozenClock) Now() time.Time { return c.t }

var testNow = time.Date(2026, 3, 14, 10, 30, 0, 0, time.UTC)

// ── Register ─────────────────────────────────────────────────────────────────

type fakeRegisterRepo struct {
	mu        sync.Mutex
	registers map[uuid.UUID]*model.Register
	snapshots []*model.RegisterSnapshot
	movements []*model.RegisterMovement
}

var _ repository.RegisterRepository = (*fakeRegisterRepo)(nil)

func newFakeRegisterRepo() *fakeRegisterRepo {
	return &fakeRegisterRepo{registers: make(map[uuid.UUID]*model.Register)}
}

func (f *fakeRegisterRepo) addRegister(branchID uuid.UUID) uuid.UUID {
	f.mu.Lock()
	defer f.mu.Unlock()
	r := &model.Register{ID: uuid.New(), BranchID: branchID, Name: "Front Desk", Active: true}
	f.registers[r.ID] = r
	return r.ID
}

func (f *fakeRegisterRepo) FindByID(_ context.Context, id uuid.UUID) (*model.Register, error) {
	return f.FindByIDTx(nil, id)
}

func (f *fakeRegisterRepo) FindByIDTx(_ *gorm.DB, id uuid.UUID) (*model.Register, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	r, ok := f.registers[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return r, nil
}

func (f *fakeRegisterRepo) Create(_ context.Context, r *model.Register) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	r.ID = uuid.New()
	f.registers[r.ID] = r
	return nil
}

func (f *fakeRegisterRepo) ListByBranch(_ context.Context, branchID uuid.UUID) ([]model.Register, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []model.Register
	for _, r := range f.registers {
		if r.BranchID == branchID {
			out = append(out, *r)
		}
	}
	return out, nil
}

func (f *fakeRegisterRepo) LatestSnapshot(_ context.Context, registerID uuid.UUID) (*model.RegisterSnapshot, error) {
	return f.LatestSnapshotTx(nil, registerID)
}

func (f *fakeRegisterRepo) LatestSnapshotTx(_ *gorm.DB, registerID uuid.UUID) (*model.RegisterSnapshot, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for i := len(f.snapshots) - 1; i >= 0; i-- {
		if f.snapshots[i].RegisterID == registerID {
			return f.snapshots[i], nil
		}
	}
	return nil, nil
}

func (f *fakeRegisterRepo) CreateSnapshotTx(_ *gorm.DB, s *model.RegisterSnapshot) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	// Models the schema's partial unique constraint: at most one open
	// snapshot per register, even under concurrent opens.
	if s.Status == model.SnapshotOpen {
		for _, existing := range f.snapshots {
			if existing.RegisterID == s.RegisterID && existing.Status == model.SnapshotOpen {
				return ErrRegisterAlreadyOpen
			}
		}
	}
	s.ID = uuid.New()
	f.snapshots = append(f.snapshots, s)
	return nil
}

func (f *fakeRegisterRepo) UpdateSnapshotTx(_ *gorm.DB, s *model.RegisterSnapshot) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for i := range f.snapshots {
		if f.snapshots[i].ID == s.ID {
			f.snapshots[i] = s
			return nil
		}
	}
	return gorm.ErrRecordNotFound
}

func (f *fakeRegisterRepo) CreateMovementTx(_ *gorm.DB, m *model.RegisterMovement) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	m.ID = uuid.New()
	f.movements = append(f.movements, m)
	return nil
}

func (f *fakeRegisterRepo) ListMovements(_ context.Context, registerID uuid.UUID) ([]model.RegisterMovement, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []model.RegisterMovement
	for _, m := range f.movements {
		if m.RegisterID == registerID {
			out = append(out, *m)
		}
	}
	return out, nil
}

func (f *fakeRegisterRepo) ListClosedSnapshots(_ context.Context, registerID uuid.UUID, page, limit int) ([]model.RegisterSnapshot, int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var closed []model.RegisterSnapshot
	for i := len(f.snapshots) - 1; i >= 0; i-- {
		s := f.snapshots[i]
		if s.RegisterID == registerID && s.Status == model.SnapshotClosed {
			closed = append(closed, *s)
		}
	}
	total := int64(len(closed))
	start := (page - 1) * limit
	if start >= len(closed) {
		return nil, total, nil
	}
	end := start + limit
	if end > len(closed) {
		end = len(closed)
	}
	return closed[start:end], total, nil
}

func (f *fakeRegisterRepo) DB() *gorm.DB { return nil }

// movementsOfKind counts ledger rows of one kind for a register.
func (f *fakeRegisterRepo) movementsOfKind(registerID uuid.UUID, kind string) []model.RegisterMovement {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []model.RegisterMovement
	for _, m := range f.movements {
		if m.RegisterID == registerID && m.Kind == kind {
			out = append(out, *m)
		}
	}
	return out
}

// ── Member ───────────────────────────────────────────────────────────────────

type fakeMemberRepo struct {
	mu      sync.Mutex
	members map[uuid.UUID]*model.Member
}

var _ repository.MemberRepository = (*fakeMemberRepo)(nil)

func newFakeMemberRepo() *fakeMemberRepo {
	return &fakeMemberRepo{members: make(map[uuid.UUID]*model.Member)}
}

func (f *fakeMemberRepo) Create(_ context.Context, m *model.Member) error {
	return f.CreateTx(nil, m)
}

func (f *fakeMemberRepo) CreateTx(_ *gorm.DB, m *model.Member) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	m.ID = uuid.New()
	f.members[m.ID] = m
	return nil
}

func (f *fakeMemberRepo) FindByID(_ context.Context, id uuid.UUID) (*model.Member, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	m, ok := f.members[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return m, nil
}

func (f *fakeMemberRepo) FindActiveByDocument(_ context.Context, document string) (*model.Member, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, m := range f.members {
		if m.Active && m.DocumentNumber == document {
			return m, nil
		}
	}
	return nil, nil
}

func (f *fakeMemberRepo) List(_ context.Context, _ dto.MemberFilter) ([]model.Member, int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []model.Member
	for _, m := range f.members {
		out = append(out, *m)
	}
	return out, int64(len(out)), nil
}

func (f *fakeMemberRepo) Update(_ context.Context, m *model.Member) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.members[m.ID] = m
	return nil
}

func (f *fakeMemberRepo) SetActive(_ context.Context, id uuid.UUID, active bool) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	m, ok := f.members[id]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	m.Active = active
	return nil
}

// ── Catalog ──────────────────────────────────────────────────────────────────

type fakeCatalogRepo struct {
	mu        sync.Mutex
	services  map[uuid.UUID]*model.Service
	offerings map[uuid.UUID][]uuid.UUID // serviceID -> branchIDs
	branches  map[uuid.UUID]*model.Branch
}

var _ repository.CatalogRepository = (*fakeCatalogRepo)(nil)

func newFakeCatalogRepo() *fakeCatalogRepo {
	return &fakeCatalogRepo{
		services:  make(map[uuid.UUID]*model.Service),
		offerings: make(map[uuid.UUID][]uuid.UUID),
		branches:  make(map[uuid.UUID]*model.Branch),
	}
}

func (f *fakeCatalogRepo) CreateService(_ context.Context, s *model.Service, branchIDs []uuid.UUID) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	s.ID = uuid.New()
	f.services[s.ID] = s
	f.offerings[s.ID] = branchIDs
	return nil
}

func (f *fakeCatalogRepo) FindServiceByID(_ context.Context, id uuid.UUID) (*model.Service, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	s, ok := f.services[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return s, nil
}

func (f *fakeCatalogRepo) ListServices(_ context.Context) ([]model.Service, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []model.Service
	for _, s := range f.services {
		out = append(out, *s)
	}
	return out, nil
}

func (f *fakeCatalogRepo) UpdateService(_ context.Context, s *model.Service) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.services[s.ID] = s
	return nil
}

func (f *fakeCatalogRepo) SetServiceActive(_ context.Context, id uuid.UUID, active bool) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	s, ok := f.services[id]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	s.Active = active
	return nil
}

func (f *fakeCatalogRepo) OfferedAt(_ context.Context, serviceID, branchID uuid.UUID) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, b := range f.offerings[serviceID] {
		if b == branchID {
			return true, nil
		}
	}
	return false, nil
}

func (f *fakeCatalogRepo) BranchesOffering(_ context.Context, serviceID uuid.UUID) ([]uuid.UUID, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.offerings[serviceID], nil
}

func (f *fakeCatalogRepo) CreateBranch(_ context.Context, b *model.Branch) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	b.ID = uuid.New()
	f.branches[b.ID] = b
	return nil
}

func (f *fakeCatalogRepo) FindBranchByID(_ context.Context, id uuid.UUID) (*model.Branch, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	b, ok := f.branches[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return b, nil
}

func (f *fakeCatalogRepo) ListBranches(_ context.Context) ([]model.Branch, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []model.Branch
	for _, b := range f.branches {
		out = append(out, *b)
	}
	return out, nil
}

// ── Inscription ──────────────────────────────────────────────────────────────

type fakeInscriptionRepo struct {
	mu           sync.Mutex
	inscriptions []*model.Inscription
}

var _ repository.InscriptionRepository = (*fakeInscriptionRepo)(nil)

func newFakeInscriptionRepo() *fakeInscriptionRepo { return &fakeInscriptionRepo{} }

func (f *fakeInscriptionRepo) CreateTx(_ *gorm.DB, i *model.Inscription) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	i.ID = uuid.New()
	f.inscriptions = append(f.inscriptions, i)
	return nil
}

func (f *fakeInscriptionRepo) FindActive(_ context.Context, memberID, serviceID uuid.UUID, now time.Time) (*model.Inscription, error) {
	return f.FindActiveTx(nil, memberID, serviceID, now)
}

func (f *fakeInscriptionRepo) FindActiveTx(_ *gorm.DB, memberID, serviceID uuid.UUID, now time.Time) (*model.Inscription, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, i := range f.inscriptions {
		usable := i.Status == model.InscriptionActive &&
			!i.ExpiryDate.Before(now) &&
			i.RemainingVisits != 0
		if usable && i.MemberID == memberID && i.ServiceID == serviceID {
			return i, nil
		}
	}
	return nil, nil
}

func (f *fakeInscriptionRepo) ListByMember(_ context.Context, memberID uuid.UUID) ([]model.Inscription, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []model.Inscription
	for _, i := range f.inscriptions {
		if i.MemberID == memberID {
			out = append(out, *i)
		}
	}
	return out, nil
}

func (f *fakeInscriptionRepo) MarkExpired(_ context.Context, now time.Time) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var n int64
	for _, i := range f.inscriptions {
		if i.Status == model.InscriptionActive && (i.ExpiryDate.Before(now) || i.RemainingVisits == 0) {
			i.Status = model.InscriptionExpired
			n++
		}
	}
	return n, nil
}

// ── Product ──────────────────────────────────────────────────────────────────

type fakeProductRepo struct {
	mu        sync.Mutex
	products  map[uuid.UUID]*model.Product
	movements []*model.StockMovement
}

var _ repository.ProductRepository = (*fakeProductRepo)(nil)

func newFakeProductRepo() *fakeProductRepo {
	return &fakeProductRepo{products: make(map[uuid.UUID]*model.Product)}
}

func (f *fakeProductRepo) Create(_ context.Context, p *model.Product) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	p.ID = uuid.New()
	f.products[p.ID] = p
	return nil
}

func (f *fakeProductRepo) FindByID(_ context.Context, id uuid.UUID) (*model.Product, error) {
	return f.FindByIDTx(nil, id)
}

func (f *fakeProductRepo) FindByIDTx(_ *gorm.DB, id uuid.UUID) (*model.Product, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	p, ok := f.products[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	cp := *p
	return &cp, nil
}

func (f *fakeProductRepo) FindByBarcode(_ context.Context, barcode string) (*model.Product, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, p := range f.products {
		if p.Barcode == barcode {
			cp := *p
			return &cp, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (f *fakeProductRepo) List(_ context.Context, _ dto.ProductFilter) ([]model.Product, int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []model.Product
	for _, p := range f.products {
		out = append(out, *p)
	}
	return out, int64(len(out)), nil
}

func (f *fakeProductRepo) Update(_ context.Context, p *model.Product) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.products[p.ID] = p
	return nil
}

func (f *fakeProductRepo) UpdateStockTx(_ *gorm.DB, id uuid.UUID, delta int) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	p, ok := f.products[id]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	p.Stock += delta
	return nil
}

func (f *fakeProductRepo) CreateStockMovementTx(_ *gorm.DB, m *model.StockMovement) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	m.ID = uuid.New()
	f.movements = append(f.movements, m)
	return nil
}

func (f *fakeProductRepo) ListStockMovements(_ context.Context, productID uuid.UUID) ([]model.StockMovement, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []model.StockMovement
	for _, m := range f.movements {
		if m.ProductID == productID {
			out = append(out, *m)
		}
	}
	return out, nil
}

func (f *fakeProductRepo) SetActive(_ context.Context, id uuid.UUID, active bool) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	p, ok := f.products[id]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	p.Active = active
	return nil
}

func (f *fakeProductRepo) DB() *gorm.DB { return nil }

// ── Sale ─────────────────────────────────────────────────────────────────────

type fakeSaleRepo struct {
	mu    sync.Mutex
	sales []*model.Sale
}

var _ repository.SaleRepository = (*fakeSaleRepo)(nil)

func newFakeSaleRepo() *fakeSaleRepo { return &fakeSaleRepo{} }

func (f *fakeSaleRepo) CreateTx(_ *gorm.DB, s *model.Sale) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	s.ID = uuid.New()
	for i := range s.Items {
		s.Items[i].ID = uuid.New()
		s.Items[i].SaleID = s.ID
	}
	for i := range s.Lines {
		s.Lines[i].ID = uuid.New()
		s.Lines[i].SaleID = s.ID
	}
	f.sales = append(f.sales, s)
	return nil
}

func (f *fakeSaleRepo) FindByID(_ context.Context, id uuid.UUID) (*model.Sale, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, s := range f.sales {
		if s.ID == id {
			return s, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (f *fakeSaleRepo) List(_ context.Context, _ dto.SaleFilter) ([]model.Sale, int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]model.Sale, 0, len(f.sales))
	for _, s := range f.sales {
		out = append(out, *s)
	}
	return out, int64(len(out)), nil
}

func (f *fakeSaleRepo) DB() *gorm.DB { return nil }

// ── Pending payment ──────────────────────────────────────────────────────────

type fakePendingRepo struct {
	mu      sync.Mutex
	pending map[uuid.UUID]*model.PendingPayment
}

var _ repository.PendingPaymentRepository = (*fakePendingRepo)(nil)

func newFakePendingRepo() *fakePendingRepo {
	return &fakePendingRepo{pending: make(map[uuid.UUID]*model.PendingPayment)}
}

func (f *fakePendingRepo) CreateTx(_ *gorm.DB, p *model.PendingPayment) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	p.ID = uuid.New()
	f.pending[p.ID] = p
	return nil
}

func (f *fakePendingRepo) FindByID(_ context.Context, id uuid.UUID) (*model.PendingPayment, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	p, ok := f.pending[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return p, nil
}

func (f *fakePendingRepo) FindPendingTx(_ *gorm.DB, id uuid.UUID) (*model.PendingPayment, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	p, ok := f.pending[id]
	if !ok || p.Status != model.PendingOpen {
		return nil, nil
	}
	return p, nil
}

func (f *fakePendingRepo) UpdateTx(_ *gorm.DB, p *model.PendingPayment) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.pending[p.ID] = p
	return nil
}

func (f *fakePendingRepo) ListByMember(_ context.Context, memberID uuid.UUID) ([]model.PendingPayment, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []model.PendingPayment
	for _, p := range f.pending {
		if p.MemberID == memberID {
			out = append(out, *p)
		}
	}
	return out, nil
}

func (f *fakePendingRepo) DB() *gorm.DB { return nil }

// ── Employee ─────────────────────────────────────────────────────────────────

type fakeEmployeeRepo struct {
	mu        sync.Mutex
	employees map[uuid.UUID]*model.Employee
}

var _ repository.EmployeeRepository = (*fakeEmployeeRepo)(nil)

func newFakeEmployeeRepo() *fakeEmployeeRepo {
	return &fakeEmployeeRepo{employees: make(map[uuid.UUID]*model.Employee)}
}

func (f *fakeEmployeeRepo) Create(_ context.Context, e *model.Employee) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	e.ID = uuid.New()
	f.employees[e.ID] = e
	return nil
}

func (f *fakeEmployeeRepo) FindByID(_ context.Context, id uuid.UUID) (*model.Employee, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	e, ok := f.employees[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return e, nil
}

func (f *fakeEmployeeRepo) FindByUsername(_ context.Context, username string) (*model.Employee, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, e := range f.employees {
		if e.Username == username {
			return e, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (f *fakeEmployeeRepo) List(_ context.Context, includeInactive bool) ([]model.Employee, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []model.Employee
	for _, e := range f.employees {
		if e.Active || includeInactive {
			out = append(out, *e)
		}
	}
	return out, nil
}

func (f *fakeEmployeeRepo) Update(_ context.Context, e *model.Employee) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.employees[e.ID] = e
	return nil
}

func (f *fakeEmployeeRepo) SetActive(_ context.Context, id uuid.UUID, active bool) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	e, ok := f.employees[id]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	e.Active = active
	return nil
}
