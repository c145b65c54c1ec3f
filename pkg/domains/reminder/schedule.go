package reminder

import (
	"errors"
	"fmt"
	"time"

	"github.com/capital/finance/pkg/constant"
	"github.com/capital/finance/pkg/entities"
	"github.com/shopspring/decimal"
)

// ClampDay is used when the chosen reminder day does not exist in a month.
// It is deliberately not the month's last day.
const ClampDay = 28

var (
	ErrNotInstallment = errors.New("transaction is not paid in installments")
	ErrReminderDay    = errors.New(constant.INVALID_REMINDER_DAY)
	ErrAmount         = errors.New(constant.AMOUNT_NOT_POSITIVE)
)

// DateOf returns the calendar date of t as seen in loc, as midnight UTC.
// Due dates are stored and compared in this form.
func DateOf(t time.Time, loc *time.Location) time.Time {
	if loc == nil {
		loc = time.UTC
	}
	y, m, d := t.In(loc).Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func daysIn(year int, month time.Month) int {
	return time.Date(year, month+1, 0, 0, 0, 0, 0, time.UTC).Day()
}

// DueDate moves base forward by offset months and sets the day of month to
// day, or to ClampDay when that month is too short for day.
func DueDate(base time.Time, offset int, day int) time.Time {
	first := time.Date(base.Year(), base.Month()+time.Month(offset), 1, 0, 0, 0, 0, time.UTC)
	if day > daysIn(first.Year(), first.Month()) {
		day = ClampDay
	}
	return time.Date(first.Year(), first.Month(), day, 0, 0, 0, 0, time.UTC)
}

// SplitAmount divides amount into n parts truncated to cents. The last part
// takes the leftover, which is never negative and stays below n cents, so
// the parts always sum to amount.
func SplitAmount(amount decimal.Decimal, n int) []decimal.Decimal {
	if n <= 0 {
		return nil
	}
	part := amount.Div(decimal.NewFromInt(int64(n))).RoundDown(2)
	parts := make([]decimal.Decimal, n)
	for i := 0; i < n-1; i++ {
		parts[i] = part
	}
	parts[n-1] = amount.Sub(part.Mul(decimal.NewFromInt(int64(n - 1))))
	return parts
}

// Schedule builds the reminder batch for an installment transaction.
//
// Installment i (0-based) is due on the reminder day of the month i months
// after the transaction date. If the first due date is already before today
// it moves one month forward; the others keep their offsets from the
// original date, so after a shift the first two can land in the same month.
func Schedule(parent entities.Transaction, reminderDay int, now time.Time, loc *time.Location) ([]entities.InstallmentReminder, error) {
	if !parent.IsInstallment() {
		return nil, ErrNotInstallment
	}
	if !parent.Amount.IsPositive() {
		return nil, ErrAmount
	}

	base := DateOf(parent.OccurredAt, loc)
	if reminderDay == 0 {
		reminderDay = base.Day()
	}
	if reminderDay < 1 || reminderDay > 31 {
		return nil, ErrReminderDay
	}

	n := *parent.InstallmentCount
	today := DateOf(now, loc)
	amounts := SplitAmount(parent.Amount, n)

	reminders := make([]entities.InstallmentReminder, 0, n)
	for i := 0; i < n; i++ {
		due := DueDate(base, i, reminderDay)
		if i == 0 && due.Before(today) {
			due = DueDate(base, 1, reminderDay)
		}

		reminders = append(reminders, entities.InstallmentReminder{
			TransactionID:     parent.ID,
			UserID:            parent.UserID,
			InstallmentIndex:  i + 1,
			InstallmentCount:  n,
			InstallmentAmount: amounts[i],
			DueDate:           due,
			Title:             fmt.Sprintf("%s (%d/%d)", parent.Description, i+1, n),
			Description:       fmt.Sprintf("Installment %d of %d of %s: %s", i+1, n, parent.Description, amounts[i].StringFixed(2)),
		})
	}
	return reminders, nil
}
