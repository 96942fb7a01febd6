package repository

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"gymops/internal/model"
)

type PendingPaymentRepository interface {
	CreateTx(tx *gorm.DB, p *model.PendingPayment) error
	FindByID(ctx context.Context, id uuid.UUID) (*model.PendingPayment, error)
	// FindPendingTx fetches the row with a lock, and only when it is still
	// in the pending state — concurrent settlements serialize here.
	FindPendingTx(tx *gorm.DB, id uuid.UUID) (*model.PendingPayment, error)
	UpdateTx(tx *gorm.DB, p *model.PendingPayment) error
	ListByMember(ctx context.Context, memberID uuid.UUID) ([]model.PendingPayment, error)
	DB() *gorm.DB
}

type pendingPaymentRepo struct{ db *gorm.DB }

func NewPendingPaymentRepository(db *gorm.DB) PendingPaymentRepository {
	return &pendingPaymentRepo{db: db}
}

func (r *pendingPaymentRepo) DB() *gorm.DB { return r.db }

func (r *pendingPaymentRepo) CreateTx(tx *gorm.DB, p *model.PendingPayment) error {
	return tx.Create(p).Error
}

func (r *pendingPaymentRepo) FindByID(ctx context.Context, id uuid.UUID) (*model.PendingPayment, error) {
	var p model.PendingPayment
	err := r.db.WithContext(ctx).First(&p, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &p, nil
}

func (r *pendingPaymentRepo) FindPendingTx(tx *gorm.DB, id uuid.UUID) (*model.PendingPayment, error) {
	var p model.PendingPayment
	err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("id = ? AND status = ?", id, model.PendingOpen).
		First(&p).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &p, nil
}

func (r *pendingPaymentRepo) UpdateTx(tx *gorm.DB, p *model.PendingPayment) error {
	return tx.Save(p).Error
}

func (r *pendingPaymentRepo) ListByMember(ctx context.Context, memberID uuid.UUID) ([]model.PendingPayment, error) {
	var pps []model.PendingPayment
	err := r.db.WithContext(ctx).
		Where("member_id = ?", memberID).
		Order("created_at DESC").
		Find(&pps).Error
	return pps, err
}
