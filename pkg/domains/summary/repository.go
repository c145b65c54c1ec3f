package summary

import (
	"context"
	"time"

	"github.com/capital/finance/pkg/entities"
	"gorm.io/gorm"
)

type Repository interface {
	// Movements returns the user's transactions with from <= occurred_at < to.
	Movements(ctx context.Context, userID uint, from, to time.Time) ([]entities.Transaction, error)
	Categories(ctx context.Context, ids []uint) ([]entities.Category, error)
}

type repository struct {
	db *gorm.DB
}

func NewRepo(db *gorm.DB) Repository {
	return &repository{
		db: db,
	}
}

func (r *repository) Movements(ctx context.Context, userID uint, from, to time.Time) ([]entities.Transaction, error) {
	var txs []entities.Transaction
	err := r.db.WithContext(ctx).
		Select("id", "category_id", "direction", "amount", "occurred_at").
		Where("user_id = ? AND occurred_at >= ? AND occurred_at < ?", userID, from.UTC(), to.UTC()).
		Find(&txs).Error
	return txs, err
}

func (r *repository) Categories(ctx context.Context, ids []uint) ([]entities.Category, error) {
	categories := []entities.Category{}
	if len(ids) == 0 {
		return categories, nil
	}
	err := r.db.WithContext(ctx).Unscoped().Where("id IN ?", ids).Find(&categories).Error
	return categories, err
}
