package repository

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"gymops/internal/model"
)

type RegisterRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*model.Register, error)
	// FindByIDTx locks the register row — open/close/record serialize on
	// it so the "one open snapshot per register" check is race-free even
	// before the first snapshot exists.
	FindByIDTx(tx *gorm.DB, id uuid.UUID) (*model.Register, error)
	Create(ctx context.Context, r *model.Register) error
	ListByBranch(ctx context.Context, branchID uuid.UUID) ([]model.Register, error)

	// LatestSnapshot returns the most recent snapshot for a register, or
	// nil when none exists yet.
	LatestSnapshot(ctx context.Context, registerID uuid.UUID) (*model.RegisterSnapshot, error)
	// LatestSnapshotTx does the same inside a transaction, taking a row
	// lock so that concurrent open/close/record calls serialize on it.
	LatestSnapshotTx(tx *gorm.DB, registerID uuid.UUID) (*model.RegisterSnapshot, error)
	CreateSnapshotTx(tx *gorm.DB, s *model.RegisterSnapshot) error
	UpdateSnapshotTx(tx *gorm.DB, s *model.RegisterSnapshot) error
	CreateMovementTx(tx *gorm.DB, m *model.RegisterMovement) error

	ListMovements(ctx context.Context, registerID uuid.UUID) ([]model.RegisterMovement, error)
	ListClosedSnapshots(ctx context.Context, registerID uuid.UUID, page, limit int) ([]model.RegisterSnapshot, int64, error)

	DB() *gorm.DB // exposes the DB for transaction creation in the service layer
}

type registerRepo struct{ db *gorm.DB }

func NewRegisterRepository(db *gorm.DB) RegisterRepository { return &registerRepo{db: db} }

func (r *registerRepo) DB() *gorm.DB { return r.db }

func (r *registerRepo) FindByID(ctx context.Context, id uuid.UUID) (*model.Register, error) {
	var reg model.Register
	err := r.db.WithContext(ctx).First(&reg, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &reg, nil
}

func (r *registerRepo) FindByIDTx(tx *gorm.DB, id uuid.UUID) (*model.Register, error) {
	var reg model.Register
	err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).First(&reg, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &reg, nil
}

func (r *registerRepo) Create(ctx context.Context, reg *model.Register) error {
	return r.db.WithContext(ctx).Create(reg).Error
}

func (r *registerRepo) ListByBranch(ctx context.Context, branchID uuid.UUID) ([]model.Register, error) {
	var regs []model.Register
	err := r.db.WithContext(ctx).Where("branch_id = ?", branchID).Order("created_at ASC").Find(&regs).Error
	return regs, err
}

func (r *registerRepo) LatestSnapshot(ctx context.Context, registerID uuid.UUID) (*model.RegisterSnapshot, error) {
	var s model.RegisterSnapshot
	err := r.db.WithContext(ctx).
		Where("register_id = ?", registerID).
		Order("created_at DESC").
		First(&s).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &s, nil
}

func (r *registerRepo) LatestSnapshotTx(tx *gorm.DB, registerID uuid.UUID) (*model.RegisterSnapshot, error) {
	var s model.RegisterSnapshot
	err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("register_id = ?", registerID).
		Order("created_at DESC").
		First(&s).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &s, nil
}

func (r *registerRepo) CreateSnapshotTx(tx *gorm.DB, s *model.RegisterSnapshot) error {
	return tx.Create(s).Error
}

func (r *registerRepo) UpdateSnapshotTx(tx *gorm.DB, s *model.RegisterSnapshot) error {
	return tx.Save(s).Error
}

func (r *registerRepo) CreateMovementTx(tx *gorm.DB, m *model.RegisterMovement) error {
	return tx.Create(m).Error
}

func (r *registerRepo) ListMovements(ctx context.Context, registerID uuid.UUID) ([]model.RegisterMovement, error) {
	var movs []model.RegisterMovement
	err := r.db.WithContext(ctx).
		Where("register_id = ?", registerID).
		Order("created_at ASC").
		Find(&movs).Error
	return movs, err
}

func (r *registerRepo) ListClosedSnapshots(ctx context.Context, registerID uuid.UUID, page, limit int) ([]model.RegisterSnapshot, int64, error) {
	var snaps []model.RegisterSnapshot
	var total int64
	q := r.db.WithContext(ctx).Model(&model.RegisterSnapshot{}).
		Where("register_id = ? AND status = ?", registerID, model.SnapshotClosed)

	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}
	err := q.Order("created_at DESC").
		Offset((page - 1) * limit).Limit(limit).
		Find(&snaps).Error
	return snaps, total, err
}
