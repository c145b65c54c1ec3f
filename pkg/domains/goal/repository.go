package goal

import (
	"context"

	"github.com/capital/finance/pkg/entities"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type Repository interface {
	List(ctx context.Context, userID uint) ([]entities.Goal, error)
	FindByID(ctx context.Context, userID, id uint) (entities.Goal, error)
	Create(ctx context.Context, goal *entities.Goal) error
	Save(ctx context.Context, goal *entities.Goal) error
	Delete(ctx context.Context, userID, id uint) error
	// AddToCurrent increments current_amount in place.
	AddToCurrent(ctx context.Context, userID, id uint, amount decimal.Decimal) error
}

type repository struct {
	db *gorm.DB
}

func NewRepo(db *gorm.DB) Repository {
	return &repository{
		db: db,
	}
}

func (r *repository) List(ctx context.Context, userID uint) ([]entities.Goal, error) {
	goals := []entities.Goal{}
	err := r.db.WithContext(ctx).Where("user_id = ?", userID).Order("created_at desc, id desc").Find(&goals).Error
	return goals, err
}

func (r *repository) FindByID(ctx context.Context, userID, id uint) (entities.Goal, error) {
	var goal entities.Goal
	err := r.db.WithContext(ctx).Where("id = ? AND user_id = ?", id, userID).First(&goal).Error
	return goal, err
}

func (r *repository) Create(ctx context.Context, goal *entities.Goal) error {
	return r.db.WithContext(ctx).Create(goal).Error
}

func (r *repository) Save(ctx context.Context, goal *entities.Goal) error {
	return r.db.WithContext(ctx).Save(goal).Error
}

func (r *repository) Delete(ctx context.Context, userID, id uint) error {
	res := r.db.WithContext(ctx).Where("id = ? AND user_id = ?", id, userID).Delete(&entities.Goal{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *repository) AddToCurrent(ctx context.Context, userID, id uint, amount decimal.Decimal) error {
	res := r.db.WithContext(ctx).Model(&entities.Goal{}).
		Where("id = ? AND user_id = ?", id, userID).
		Update("current_amount", gorm.Expr("current_amount + ?", amount))
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}
