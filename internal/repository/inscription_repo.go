package repository

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"gymops/internal/model"
)

type InscriptionRepository interface {
	CreateTx(tx *gorm.DB, i *model.Inscription) error
	// FindActive returns the member's current usable inscription for a
	// service: status active, not expired at `now`, visits remaining (or
	// unlimited). Nil when none exists.
	FindActive(ctx context.Context, memberID, serviceID uuid.UUID, now time.Time) (*model.Inscription, error)
	FindActiveTx(tx *gorm.DB, memberID, serviceID uuid.UUID, now time.Time) (*model.Inscription, error)
	ListByMember(ctx context.Context, memberID uuid.UUID) ([]model.Inscription, error)
	// MarkExpired flips active inscriptions whose expiry date has passed or
	// whose visits ran out. Returns the number of rows updated.
	MarkExpired(ctx context.Context, now time.Time) (int64, error)
}

type inscriptionRepo struct{ db *gorm.DB }

func NewInscriptionRepository(db *gorm.DB) InscriptionRepository { return &inscriptionRepo{db: db} }

func (r *inscriptionRepo) CreateTx(tx *gorm.DB, i *model.Inscription) error {
	return tx.Create(i).Error
}

func activeInscriptionQuery(db *gorm.DB, memberID, serviceID uuid.UUID, now time.Time) *gorm.DB {
	// RemainingVisits -1 means unlimited — still usable.
	return db.
		Where("member_id = ? AND service_id = ?", memberID, serviceID).
		Where("status = ?", model.InscriptionActive).
		Where("expiry_date >= ?", now).
		Where("remaining_visits != 0")
}

func (r *inscriptionRepo) FindActive(ctx context.Context, memberID, serviceID uuid.UUID, now time.Time) (*model.Inscription, error) {
	var i model.Inscription
	err := activeInscriptionQuery(r.db.WithContext(ctx), memberID, serviceID, now).First(&i).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &i, nil
}

func (r *inscriptionRepo) FindActiveTx(tx *gorm.DB, memberID, serviceID uuid.UUID, now time.Time) (*model.Inscription, error) {
	var i model.Inscription
	err := activeInscriptionQuery(tx, memberID, serviceID, now).First(&i).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &i, nil
}

func (r *inscriptionRepo) MarkExpired(ctx context.Context, now time.Time) (int64, error) {
	res := r.db.WithContext(ctx).Model(&model.Inscription{}).
		Where("status = ?", model.InscriptionActive).
		Where("expiry_date < ? OR remaining_visits = 0", now).
		Update("status", model.InscriptionExpired)
	return res.RowsAffected, res.Error
}

func (r *inscriptionRepo) ListByMember(ctx context.Context, memberID uuid.UUID) ([]model.Inscription, error) {
	var ins []model.Inscription
	err := r.db.WithContext(ctx).
		Preload("Service").
		Where("member_id = ?", memberID).
		Order("created_at DESC").
		Find(&ins).Error
	return ins, err
}
