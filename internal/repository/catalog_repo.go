package repository

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"gymops/internal/model"
)

// CatalogRepository covers services, their per-branch offerings, and
// branches themselves.
type CatalogRepository interface {
	CreateService(ctx context.Context, s *model.Service, branchIDs []uuid.UUID) error
	FindServiceByID(ctx context.Context, id uuid.UUID) (*model.Service, error)
	ListServices(ctx context.Context) ([]model.Service, error)
	UpdateService(ctx context.Context, s *model.Service) error
	SetServiceActive(ctx context.Context, id uuid.UUID, active bool) error

	// OfferedAt reports whether the service has an active offering row at
	// the branch.
	OfferedAt(ctx context.Context, serviceID, branchID uuid.UUID) (bool, error)
	// BranchesOffering lists every branch with an active offering of the
	// service — the replication set for multi-branch inscriptions.
	BranchesOffering(ctx context.Context, serviceID uuid.UUID) ([]uuid.UUID, error)

	CreateBranch(ctx context.Context, b *model.Branch) error
	FindBranchByID(ctx context.Context, id uuid.UUID) (*model.Branch, error)
	ListBranches(ctx context.Context) ([]model.Branch, error)
}

type catalogRepo struct{ db *gorm.DB }

func NewCatalogRepository(db *gorm.DB) CatalogRepository { return &catalogRepo{db: db} }

func (r *catalogRepo) CreateService(ctx context.Context, s *model.Service, branchIDs []uuid.UUID) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(s).Error; err != nil {
			return err
		}
		for _, bid := range branchIDs {
			sb := model.ServiceBranch{ServiceID: s.ID, BranchID: bid, Active: true}
			if err := tx.Create(&sb).Error; err != nil {
				return err
			}
		}
		return nil
	})
}

func (r *catalogRepo) FindServiceByID(ctx context.Context, id uuid.UUID) (*model.Service, error) {
	var s model.Service
	err := r.db.WithContext(ctx).First(&s, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &s, nil
}

func (r *catalogRepo) ListServices(ctx context.Context) ([]model.Service, error) {
	var services []model.Service
	err := r.db.WithContext(ctx).Where("active = true").Order("name ASC").Find(&services).Error
	return services, err
}

func (r *catalogRepo) UpdateService(ctx context.Context, s *model.Service) error {
	return r.db.WithContext(ctx).Save(s).Error
}

func (r *catalogRepo) SetServiceActive(ctx context.Context, id uuid.UUID, active bool) error {
	return r.db.WithContext(ctx).Model(&model.Service{}).Where("id = ?", id).Update("active", active).Error
}

func (r *catalogRepo) OfferedAt(ctx context.Context, serviceID, branchID uuid.UUID) (bool, error) {
	var sb model.ServiceBranch
	err := r.db.WithContext(ctx).
		Where("service_id = ? AND branch_id = ? AND active = true", serviceID, branchID).
		First(&sb).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}

func (r *catalogRepo) BranchesOffering(ctx context.Context, serviceID uuid.UUID) ([]uuid.UUID, error) {
	var ids []uuid.UUID
	err := r.db.WithContext(ctx).Model(&model.ServiceBranch{}).
		Where("service_id = ? AND active = true", serviceID).
		Pluck("branch_id", &ids).Error
	return ids, err
}

func (r *catalogRepo) CreateBranch(ctx context.Context, b *model.Branch) error {
	return r.db.WithContext(ctx).Create(b).Error
}

func (r *catalogRepo) FindBranchByID(ctx context.Context, id uuid.UUID) (*model.Branch, error) {
	var b model.Branch
	err := r.db.WithContext(ctx).First(&b, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &b, nil
}

func (r *catalogRepo) ListBranches(ctx context.Context) ([]model.Branch, error) {
	var branches []model.Branch
	err := r.db.WithContext(ctx).Where("active = true").Order("name ASC").Find(&branches).Error
	return branches, err
}
