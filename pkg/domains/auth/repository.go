package auth

import (
	"context"

	"github.com/capital/finance/pkg/entities"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type Repository interface {
	// Transaction runs fn against a repository bound to one database
	// transaction, committed when fn returns nil and rolled back otherwise.
	Transaction(ctx context.Context, fn func(r Repository) error) error

	CreateUser(ctx context.Context, user *entities.User) error
	FindUserByEmail(ctx context.Context, email string) (entities.User, error)
	FindActiveUserByID(ctx context.Context, id uint) (entities.User, error)
	UpdatePassword(ctx context.Context, userID uint, passwordHash string) error
	Deactivate(ctx context.Context, userID uint) error

	CreateResetToken(ctx context.Context, token *entities.PasswordResetToken) error
	DeleteResetTokens(ctx context.Context, userID uint) error
	DeleteResetTokensExcept(ctx context.Context, userID uint, keepID uint) error
	FindResetToken(ctx context.Context, userID uint, codeHash string) (entities.PasswordResetToken, error)
	// MarkResetTokenUsed flips used to true and reports whether this call did it.
	MarkResetTokenUsed(ctx context.Context, tokenID uint) (bool, error)
}

type repository struct {
	db *gorm.DB
}

func NewRepo(db *gorm.DB) Repository {
	return &repository{
		db: db,
	}
}

func (r *repository) Transaction(ctx context.Context, fn func(r Repository) error) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(&repository{db: tx})
	})
}

func (r *repository) CreateUser(ctx context.Context, user *entities.User) error {
	return r.db.WithContext(ctx).Create(user).Error
}

func (r *repository) FindUserByEmail(ctx context.Context, email string) (entities.User, error) {
	var user entities.User
	err := r.db.WithContext(ctx).Where("email = ?", email).First(&user).Error
	return user, err
}

func (r *repository) FindActiveUserByID(ctx context.Context, id uint) (entities.User, error) {
	var user entities.User
	err := r.db.WithContext(ctx).Where("id = ? AND active = ?", id, true).First(&user).Error
	return user, err
}

func (r *repository) UpdatePassword(ctx context.Context, userID uint, passwordHash string) error {
	res := r.db.WithContext(ctx).Model(&entities.User{}).Where("id = ?", userID).Update("password", passwordHash)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *repository) Deactivate(ctx context.Context, userID uint) error {
	return r.db.WithContext(ctx).Model(&entities.User{}).Where("id = ?", userID).Update("active", false).Error
}

func (r *repository) CreateResetToken(ctx context.Context, token *entities.PasswordResetToken) error {
	return r.db.WithContext(ctx).Omit(clause.Associations).Create(token).Error
}

func (r *repository) DeleteResetTokens(ctx context.Context, userID uint) error {
	return r.db.WithContext(ctx).Where("user_id = ?", userID).Delete(&entities.PasswordResetToken{}).Error
}

func (r *repository) DeleteResetTokensExcept(ctx context.Context, userID uint, keepID uint) error {
	return r.db.WithContext(ctx).Where("user_id = ? AND id <> ?", userID, keepID).Delete(&entities.PasswordResetToken{}).Error
}

func (r *repository) FindResetToken(ctx context.Context, userID uint, codeHash string) (entities.PasswordResetToken, error) {
	var token entities.PasswordResetToken
	err := r.db.WithContext(ctx).
		Where("user_id = ? AND code_hash = ?", userID, codeHash).
		Order("id desc").
		First(&token).Error
	return token, err
}

func (r *repository) MarkResetTokenUsed(ctx context.Context, tokenID uint) (bool, error) {
	res := r.db.WithContext(ctx).Model(&entities.PasswordResetToken{}).
		Where("id = ? AND used = ?", tokenID, false).
		Update("used", true)
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected == 1, nil
}
