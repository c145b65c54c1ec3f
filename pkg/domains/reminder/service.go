package reminder

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/capital/finance/pkg/apperr"
	"github.com/capital/finance/pkg/constant"
	"github.com/capital/finance/pkg/entities"
	"gorm.io/gorm"
)

type Service interface {
	List(ctx context.Context, userID uint) ([]entities.InstallmentReminder, error)
	ListForTransaction(ctx context.Context, userID, transactionID uint) ([]entities.InstallmentReminder, error)
	// Notifications are unpaid, unnotified reminders due within the next 7 days.
	Notifications(ctx context.Context, userID uint) ([]entities.InstallmentReminder, error)
	// Upcoming are unpaid reminders due within the next 30 days.
	Upcoming(ctx context.Context, userID uint) ([]entities.InstallmentReminder, error)
	// Overdue are unpaid reminders due before today.
	Overdue(ctx context.Context, userID uint) ([]entities.InstallmentReminder, error)

	MarkPaid(ctx context.Context, userID, id uint) (entities.InstallmentReminder, error)
	MarkPending(ctx context.Context, userID, id uint) (entities.InstallmentReminder, error)
	MarkNotified(ctx context.Context, userID, id uint) (entities.InstallmentReminder, error)
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

// NewService reads "today" in loc.
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

func (s *service) today() time.Time {
	return DateOf(s.now(), s.loc)
}

func (s *service) List(ctx context.Context, userID uint) ([]entities.InstallmentReminder, error) {
	return s.list(ctx, Filter{UserID: userID})
}

func (s *service) ListForTransaction(ctx context.Context, userID, transactionID uint) ([]entities.InstallmentReminder, error) {
	return s.list(ctx, Filter{UserID: userID, TransactionID: transactionID})
}

func (s *service) Notifications(ctx context.Context, userID uint) ([]entities.InstallmentReminder, error) {
	from := s.today()
	to := from.AddDate(0, 0, constant.NotificationWindowDays)
	no := false
	return s.list(ctx, Filter{UserID: userID, DueFrom: &from, DueTo: &to, Paid: &no, Notified: &no})
}

func (s *service) Upcoming(ctx context.Context, userID uint) ([]entities.InstallmentReminder, error) {
	from := s.today()
	to := from.AddDate(0, 0, constant.UpcomingWindowDays)
	unpaid := false
	return s.list(ctx, Filter{UserID: userID, DueFrom: &from, DueTo: &to, Paid: &unpaid})
}

func (s *service) Overdue(ctx context.Context, userID uint) ([]entities.InstallmentReminder, error) {
	today := s.today()
	unpaid := false
	return s.list(ctx, Filter{UserID: userID, DueBefore: &today, Paid: &unpaid})
}

func (s *service) MarkPaid(ctx context.Context, userID, id uint) (entities.InstallmentReminder, error) {
	today := s.today()
	return s.set(ctx, userID, id, map[string]interface{}{"paid": true, "paid_at": today})
}

func (s *service) MarkPending(ctx context.Context, userID, id uint) (entities.InstallmentReminder, error) {
	return s.set(ctx, userID, id, map[string]interface{}{"paid": false, "paid_at": nil})
}

func (s *service) MarkNotified(ctx context.Context, userID, id uint) (entities.InstallmentReminder, error) {
	return s.set(ctx, userID, id, map[string]interface{}{"notified": true})
}

func (s *service) list(ctx context.Context, f Filter) ([]entities.InstallmentReminder, error) {
	reminders, err := s.repository.List(ctx, f)
	if err != nil {
		return nil, apperr.Internal(constant.SOMETHING_WENT_WRONG, err)
	}
	return reminders, nil
}

func (s *service) set(ctx context.Context, userID, id uint, fields map[string]interface{}) (entities.InstallmentReminder, error) {
	if err := s.repository.Update(ctx, userID, id, fields); err != nil {
		return entities.InstallmentReminder{}, notFoundOr(err)
	}
	reminder, err := s.repository.FindByID(ctx, userID, id)
	if err != nil {
		return entities.InstallmentReminder{}, notFoundOr(err)
	}
	return reminder, nil
}

func notFoundOr(err error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return apperr.NotFound(fmt.Sprintf(constant.CANT_FIND, "Reminder"))
	}
	return apperr.Internal(constant.SOMETHING_WENT_WRONG, err)
}
