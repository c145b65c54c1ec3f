package reminder

import (
	"context"
	"time"

	"github.com/capital/finance/pkg/entities"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// Filter narrows a reminder listing. UserID is always applied.
type Filter struct {
	UserID        uint
	TransactionID uint
	DueFrom       *time.Time // inclusive
	DueTo         *time.Time // inclusive
	DueBefore     *time.Time // exclusive
	Paid          *bool
	Notified      *bool
}

type Repository interface {
	CreateBatch(ctx context.Context, reminders []entities.InstallmentReminder) error
	DeleteByTransaction(ctx context.Context, transactionID uint) error
	FindByID(ctx context.Context, userID, id uint) (entities.InstallmentReminder, error)
	List(ctx context.Context, f Filter) ([]entities.InstallmentReminder, error)
	Update(ctx context.Context, userID, id uint, fields map[string]interface{}) error
}

type repository struct {
	db *gorm.DB
}

// NewRepo binds a repository to db, which may be an open transaction.
func NewRepo(db *gorm.DB) Repository {
	return &repository{
		db: db,
	}
}

func (r *repository) CreateBatch(ctx context.Context, reminders []entities.InstallmentReminder) error {
	if len(reminders) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).Omit(clause.Associations).Create(&reminders).Error
}

func (r *repository) DeleteByTransaction(ctx context.Context, transactionID uint) error {
	return r.db.WithContext(ctx).Where("transaction_id = ?", transactionID).Delete(&entities.InstallmentReminder{}).Error
}

func (r *repository) FindByID(ctx context.Context, userID, id uint) (entities.InstallmentReminder, error) {
	var reminder entities.InstallmentReminder
	err := r.db.WithContext(ctx).Where("id = ? AND user_id = ?", id, userID).First(&reminder).Error
	return reminder, err
}

func (r *repository) List(ctx context.Context, f Filter) ([]entities.InstallmentReminder, error) {
	q := r.db.WithContext(ctx).Where("user_id = ?", f.UserID)
	if f.TransactionID != 0 {
		q = q.Where("transaction_id = ?", f.TransactionID)
	}
	if f.DueFrom != nil {
		q = q.Where("due_date >= ?", *f.DueFrom)
	}
	if f.DueTo != nil {
		q = q.Where("due_date <= ?", *f.DueTo)
	}
	if f.DueBefore != nil {
		q = q.Where("due_date < ?", *f.DueBefore)
	}
	if f.Paid != nil {
		q = q.Where("paid = ?", *f.Paid)
	}
	if f.Notified != nil {
		q = q.Where("notified = ?", *f.Notified)
	}

	reminders := []entities.InstallmentReminder{}
	err := q.Order("due_date asc, installment_index asc, id asc").Find(&reminders).Error
	return reminders, err
}

func (r *repository) Update(ctx context.Context, userID, id uint, fields map[string]interface{}) error {
	res := r.db.WithContext(ctx).Model(&entities.InstallmentReminder{}).
		Where("id = ? AND user_id = ?", id, userID).
		Updates(fields)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}
