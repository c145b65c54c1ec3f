package transaction

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/capital/finance/pkg/apperr"
	"github.com/capital/finance/pkg/constant"
	"github.com/capital/finance/pkg/domains/reminder"
	"github.com/capital/finance/pkg/dtos"
	"github.com/capital/finance/pkg/entities"
	"github.com/capital/finance/pkg/metrics"
	"github.com/capital/finance/pkg/utils"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type Service interface {
	// Create stores the transaction and, for installment payments, its whole
	// reminder batch in one database transaction.
	Create(ctx context.Context, userID uint, req dtos.TransactionDTO) (entities.Transaction, []entities.InstallmentReminder, error)
	Get(ctx context.Context, userID, id uint) (entities.Transaction, error)
	List(ctx context.Context, userID uint, direction string, page int) (Page, error)
	// Update rewrites the transaction. When an input of the schedule changes
	// the reminder batch is dropped and rebuilt, losing paid flags.
	Update(ctx context.Context, userID, id uint, req dtos.TransactionDTO) (entities.Transaction, error)
	Delete(ctx context.Context, userID, id uint) error
}

type service struct {
	repository Repository
	loc        *time.Location
	now        func() time.Time
}

type Option func(*service)

func WithClock(now func() time.Time) Option {
	return func(s *service) { s.now = now }
}

// NewService schedules reminders against calendar dates in loc.
func NewService(r Repository, loc *time.Location, opts ...Option) Service {
	if loc == nil {
		loc = time.UTC
	}
	s := &service{
		repository: r,
		loc:        loc,
		now:        time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *service) Create(ctx context.Context, userID uint, req dtos.TransactionDTO) (entities.Transaction, []entities.InstallmentReminder, error) {
	tx, reminderDay, err := s.build(ctx, req)
	if err != nil {
		return entities.Transaction{}, nil, err
	}
	tx.UserID = userID

	var batch []entities.InstallmentReminder
	err = s.repository.Transaction(ctx, func(r Repository, reminders reminder.Repository) error {
		if err := r.Create(ctx, &tx); err != nil {
			return err
		}
		batch, err = s.schedule(ctx, reminders, tx, reminderDay)
		return err
	})
	if err != nil {
		return entities.Transaction{}, nil, internalOr(err)
	}

	metrics.RemindersCreated.Add(float64(len(batch)))
	zap.L().Info("transaction created",
		zap.Uint("user_id", userID),
		zap.Uint("transaction_id", tx.ID),
		zap.Int("reminders", len(batch)),
	)
	return s.reload(ctx, userID, tx.ID, batch)
}

func (s *service) Get(ctx context.Context, userID, id uint) (entities.Transaction, error) {
	tx, err := s.repository.FindByID(ctx, userID, id)
	if err != nil {
		return entities.Transaction{}, notFoundOr(err)
	}
	return tx, nil
}

func (s *service) List(ctx context.Context, userID uint, direction string, page int) (Page, error) {
	d := entities.Direction(strings.ToLower(strings.TrimSpace(direction)))
	if d != "" && !d.Valid() {
		return Page{}, apperr.Validation(constant.INVALID_DIRECTION)
	}

	result, err := s.repository.List(ctx, userID, d, page)
	if err != nil {
		if errors.Is(err, utils.ErrInvalidPage) || errors.Is(err, utils.ErrPageOutOfRange) {
			return Page{}, apperr.Validation(err.Error())
		}
		return Page{}, apperr.Internal(constant.SOMETHING_WENT_WRONG, err)
	}
	return result, nil
}

func (s *service) Update(ctx context.Context, userID, id uint, req dtos.TransactionDTO) (entities.Transaction, error) {
	current, err := s.repository.FindByID(ctx, userID, id)
	if err != nil {
		return entities.Transaction{}, notFoundOr(err)
	}

	next, reminderDay, err := s.build(ctx, req)
	if err != nil {
		return entities.Transaction{}, err
	}
	next.Model = current.Model
	next.UserID = userID

	regenerate := scheduleChanged(current, next, s.loc)
	var batch []entities.InstallmentReminder
	err = s.repository.Transaction(ctx, func(r Repository, reminders reminder.Repository) error {
		if err := r.Save(ctx, &next); err != nil {
			return err
		}
		if !regenerate {
			return nil
		}
		if err := reminders.DeleteByTransaction(ctx, next.ID); err != nil {
			return err
		}
		batch, err = s.schedule(ctx, reminders, next, reminderDay)
		return err
	})
	if err != nil {
		return entities.Transaction{}, internalOr(err)
	}

	if regenerate {
		metrics.RemindersCreated.Add(float64(len(batch)))
		zap.L().Info("transaction reminders rebuilt",
			zap.Uint("user_id", userID),
			zap.Uint("transaction_id", next.ID),
			zap.Int("reminders", len(batch)),
		)
	}
	tx, _, err := s.reload(ctx, userID, next.ID, nil)
	return tx, err
}

func (s *service) Delete(ctx context.Context, userID, id uint) error {
	err := s.repository.Transaction(ctx, func(r Repository, reminders reminder.Repository) error {
		if err := r.Delete(ctx, userID, id); err != nil {
			return err
		}
		return reminders.DeleteByTransaction(ctx, id)
	})
	if err != nil {
		return notFoundOr(err)
	}
	return nil
}

// build validates req and turns it into an unsaved transaction plus the
// reminder day to schedule with (0 means the transaction's own day).
func (s *service) build(ctx context.Context, req dtos.TransactionDTO) (entities.Transaction, int, error) {
	amount := req.Amount.Round(2)
	if !amount.IsPositive() {
		return entities.Transaction{}, 0, apperr.Validation(constant.AMOUNT_NOT_POSITIVE)
	}
	if !req.Direction.Valid() {
		return entities.Transaction{}, 0, apperr.Validation(constant.INVALID_DIRECTION)
	}

	form := req.PaymentForm
	if form == "" {
		form = entities.PaymentSingle
	}
	if !form.Valid() {
		return entities.Transaction{}, 0, apperr.Validation(constant.INVALID_PAYMENT_FORM)
	}

	exists, err := s.repository.CategoryExists(ctx, req.CategoryID)
	if err != nil {
		return entities.Transaction{}, 0, apperr.Internal(constant.SOMETHING_WENT_WRONG, err)
	}
	if !exists {
		return entities.Transaction{}, 0, apperr.Validation(constant.INVALID_CATEGORY)
	}

	occurred := s.now().UTC()
	if req.OccurredAt != nil {
		occurred = req.OccurredAt.UTC()
	}

	tx := entities.Transaction{
		CategoryID:  req.CategoryID,
		Direction:   req.Direction,
		Description: strings.TrimSpace(req.Description),
		Amount:      amount,
		OccurredAt:  occurred,
		Notes:       req.Notes,
		PaymentForm: form,
	}
	if form == entities.PaymentSingle {
		return tx, 0, nil
	}

	if req.InstallmentCount == nil || *req.InstallmentCount < 2 || *req.InstallmentCount > constant.MaxInstallments {
		return entities.Transaction{}, 0, apperr.Validation(fmt.Sprintf(constant.INSTALLMENTS_REQUIRED, constant.MaxInstallments))
	}
	count := *req.InstallmentCount
	tx.InstallmentCount = &count

	day := 0
	if req.ReminderDay != nil {
		day = *req.ReminderDay
		if day < 1 || day > 31 {
			return entities.Transaction{}, 0, apperr.Validation(constant.INVALID_REMINDER_DAY)
		}
		tx.ReminderDay = &day
	}
	return tx, day, nil
}

func (s *service) schedule(ctx context.Context, reminders reminder.Repository, tx entities.Transaction, day int) ([]entities.InstallmentReminder, error) {
	if !tx.IsInstallment() {
		return nil, nil
	}
	batch, err := reminder.Schedule(tx, day, s.now(), s.loc)
	if err != nil {
		return nil, apperr.Validation(err.Error())
	}
	if err := reminders.CreateBatch(ctx, batch); err != nil {
		return nil, err
	}
	return batch, nil
}

func (s *service) reload(ctx context.Context, userID, id uint, batch []entities.InstallmentReminder) (entities.Transaction, []entities.InstallmentReminder, error) {
	tx, err := s.repository.FindByID(ctx, userID, id)
	if err != nil {
		return entities.Transaction{}, nil, apperr.Internal(constant.SOMETHING_WENT_WRONG, err)
	}
	return tx, batch, nil
}

func scheduleChanged(before, after entities.Transaction, loc *time.Location) bool {
	if before.IsInstallment() != after.IsInstallment() {
		return true
	}
	if !after.IsInstallment() {
		return false
	}
	return *before.InstallmentCount != *after.InstallmentCount ||
		!before.Amount.Equal(after.Amount) ||
		before.Description != after.Description ||
		!reminder.DateOf(before.OccurredAt, loc).Equal(reminder.DateOf(after.OccurredAt, loc)) ||
		intOrZero(before.ReminderDay) != intOrZero(after.ReminderDay)
}

func intOrZero(p *int) int {
	if p == nil {
		return 0
	}
	return *p
}

func notFoundOr(err error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return apperr.NotFound(fmt.Sprintf(constant.CANT_FIND, "Transaction"))
	}
	return internalOr(err)
}

func internalOr(err error) error {
	var appErr *apperr.Error
	if errors.As(err, &appErr) {
		return err
	}
	return apperr.Internal(constant.SOMETHING_WENT_WRONG, err)
}
