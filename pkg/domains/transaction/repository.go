package transaction

import (
	"context"

	"github.com/capital/finance/pkg/domains/reminder"
	"github.com/capital/finance/pkg/entities"
	"github.com/capital/finance/pkg/utils"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// Page is one page of a user's transactions, newest first.
type Page struct {
	Items      []entities.Transaction
	TotalPages int
	Total      int64
}

type Repository interface {
	// Transaction runs fn against transaction and reminder repositories that
	// share one database transaction.
	Transaction(ctx context.Context, fn func(r Repository, reminders reminder.Repository) error) error

	Create(ctx context.Context, tx *entities.Transaction) error
	Save(ctx context.Context, tx *entities.Transaction) error
	Delete(ctx context.Context, userID, id uint) error
	FindByID(ctx context.Context, userID, id uint) (entities.Transaction, error)
	List(ctx context.Context, userID uint, direction entities.Direction, page int) (Page, error)
	CategoryExists(ctx context.Context, id uint) (bool, error)
}

type repository struct {
	db *gorm.DB
}

func NewRepo(db *gorm.DB) Repository {
	return &repository{
		db: db,
	}
}

func (r *repository) Transaction(ctx context.Context, fn func(r Repository, reminders reminder.Repository) error) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(&repository{db: tx}, reminder.NewRepo(tx))
	})
}

func (r *repository) Create(ctx context.Context, tx *entities.Transaction) error {
	return r.db.WithContext(ctx).Omit(clause.Associations).Create(tx).Error
}

func (r *repository) Save(ctx context.Context, tx *entities.Transaction) error {
	return r.db.WithContext(ctx).Omit(clause.Associations).Save(tx).Error
}

func (r *repository) Delete(ctx context.Context, userID, id uint) error {
	res := r.db.WithContext(ctx).Where("id = ? AND user_id = ?", id, userID).Delete(&entities.Transaction{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *repository) FindByID(ctx context.Context, userID, id uint) (entities.Transaction, error) {
	var tx entities.Transaction
	err := r.db.WithContext(ctx).
		Preload("Category", func(db *gorm.DB) *gorm.DB { return db.Unscoped() }).
		Where("id = ? AND user_id = ?", id, userID).
		First(&tx).Error
	return tx, err
}

func (r *repository) List(ctx context.Context, userID uint, direction entities.Direction, page int) (Page, error) {
	query, args := "user_id = ?", []interface{}{userID}
	if direction != "" {
		query += " AND direction = ?"
		args = append(args, direction)
	}

	items := []entities.Transaction{}
	totalPages, total, err := utils.Pagination(&items, page, r.db, ctx, "occurred_at desc, id desc", query, args...)
	if err != nil {
		return Page{}, err
	}
	if err := r.attachCategories(ctx, items); err != nil {
		return Page{}, err
	}
	return Page{Items: items, TotalPages: totalPages, Total: total}, nil
}

func (r *repository) attachCategories(ctx context.Context, items []entities.Transaction) error {
	if len(items) == 0 {
		return nil
	}
	ids := make([]uint, 0, len(items))
	for _, tx := range items {
		ids = append(ids, tx.CategoryID)
	}

	var categories []entities.Category
	if err := r.db.WithContext(ctx).Unscoped().Where("id IN ?", ids).Find(&categories).Error; err != nil {
		return err
	}
	byID := make(map[uint]entities.Category, len(categories))
	for _, c := range categories {
		byID[c.ID] = c
	}
	for i := range items {
		items[i].Category = byID[items[i].CategoryID]
	}
	return nil
}

func (r *repository) CategoryExists(ctx context.Context, id uint) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&entities.Category{}).Where("id = ?", id).Count(&count).Error
	return count > 0, err
}
