package repository

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"gymops/internal/dto"
	"gymops/internal/model"
)

type MemberRepository interface {
	Create(ctx context.Context, m *model.Member) error
	CreateTx(tx *gorm.DB, m *model.Member) error
	FindByID(ctx context.Context, id uuid.UUID) (*model.Member, error)
	// FindActiveByDocument returns nil when no active member holds the
	// document number — the duplicate check of the sale path.
	FindActiveByDocument(ctx context.Context, document string) (*model.Member, error)
	List(ctx context.Context, filter dto.MemberFilter) ([]model.Member, int64, error)
	Update(ctx context.Context, m *model.Member) error
	SetActive(ctx context.Context, id uuid.UUID, active bool) error
}

type memberRepo struct{ db *gorm.DB }

func NewMemberRepository(db *gorm.DB) MemberRepository { return &memberRepo{db: db} }

func (r *memberRepo) Create(ctx context.Context, m *model.Member) error {
	return r.db.WithContext(ctx).Create(m).Error
}

func (r *memberRepo) CreateTx(tx *gorm.DB, m *model.Member) error {
	return tx.Create(m).Error
}

func (r *memberRepo) FindByID(ctx context.Context, id uuid.UUID) (*model.Member, error) {
	var m model.Member
	err := r.db.WithContext(ctx).First(&m, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &m, nil
}

func (r *memberRepo) FindActiveByDocument(ctx context.Context, document string) (*model.Member, error) {
	var m model.Member
	err := r.db.WithContext(ctx).
		Where("document_number = ? AND active = true", document).
		First(&m).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &m, nil
}

func (r *memberRepo) List(ctx context.Context, filter dto.MemberFilter) ([]model.Member, int64, error) {
	var members []model.Member
	var total int64

	q := r.db.WithContext(ctx).Model(&model.Member{}).Where("active = true")
	if filter.Search != "" {
		like := "%" + filter.Search + "%"
		q = q.Where("first_name ILIKE ? OR last_name ILIKE ? OR document_number LIKE ?", like, like, like)
	}

	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}
	err := q.Order("last_name ASC, first_name ASC").
		Offset((filter.Page - 1) * filter.Limit).Limit(filter.Limit).
		Find(&members).Error
	return members, total, err
}

func (r *memberRepo) Update(ctx context.Context, m *model.Member) error {
	return r.db.WithContext(ctx).Save(m).Error
}

func (r *memberRepo) SetActive(ctx context.Context, id uuid.UUID, active bool) error {
	return r.db.WithContext(ctx).Model(&model.Member{}).Where("id = ?", id).Update("active", active).Error
}
