package category

import (
	"context"

	"github.com/capital/finance/pkg/entities"
	"gorm.io/gorm"
)

type Repository interface {
	List(ctx context.Context, direction entities.Direction) ([]entities.Category, error)
	FindByID(ctx context.Context, id uint) (entities.Category, error)
	FindByName(ctx context.Context, name string, direction entities.Direction) (entities.Category, error)
	Create(ctx context.Context, category *entities.Category) error
	Save(ctx context.Context, category *entities.Category) error
	Delete(ctx context.Context, id uint) error
	InUse(ctx context.Context, id uint) (bool, error)
}

type repository struct {
	db *gorm.DB
}

func NewRepo(db *gorm.DB) Repository {
	return &repository{
		db: db,
	}
}

func (r *repository) List(ctx context.Context, direction entities.Direction) ([]entities.Category, error) {
	q := r.db.WithContext(ctx)
	if direction != "" {
		q = q.Where("direction = ?", direction)
	}
	categories := []entities.Category{}
	err := q.Order("name asc, id asc").Find(&categories).Error
	return categories, err
}

func (r *repository) FindByID(ctx context.Context, id uint) (entities.Category, error) {
	var category entities.Category
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&category).Error
	return category, err
}

func (r *repository) FindByName(ctx context.Context, name string, direction entities.Direction) (entities.Category, error) {
	var category entities.Category
	err := r.db.WithContext(ctx).
		Where("LOWER(name) = LOWER(?) AND direction = ?", name, direction).
		First(&category).Error
	return category, err
}

func (r *repository) Create(ctx context.Context, category *entities.Category) error {
	return r.db.WithContext(ctx).Create(category).Error
}

func (r *repository) Save(ctx context.Context, category *entities.Category) error {
	return r.db.WithContext(ctx).Save(category).Error
}

func (r *repository) Delete(ctx context.Context, id uint) error {
	res := r.db.WithContext(ctx).Where("id = ?", id).Delete(&entities.Category{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *repository) InUse(ctx context.Context, id uint) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&entities.Transaction{}).Where("category_id = ?", id).Count(&count).Error
	return count > 0, err
}
