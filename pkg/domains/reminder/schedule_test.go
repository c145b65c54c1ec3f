package reminder

import (
	"testing"
	"time"

	"github.com/capital/finance/pkg/entities"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func installmentTx(amount string, n int, occurred time.Time) entities.Transaction {
	return entities.Transaction{
		Model:            gorm.Model{ID: 10},
		UserID:           3,
		Description:      "Laptop",
		Direction:        entities.Outflow,
		Amount:           decimal.RequireFromString(amount),
		OccurredAt:       occurred,
		PaymentForm:      entities.PaymentInstallment,
		InstallmentCount: &n,
	}
}

func TestSplitAmountSumsExactly(t *testing.T) {
	cases := []struct {
		amount string
		n      int
		want   []string
	}{
		{"100.00", 3, []string{"33.33", "33.33", "33.34"}},
		{"200.00", 3, []string{"66.66", "66.66", "66.68"}},
		{"10.00", 4, []string{"2.5", "2.5", "2.5", "2.5"}},
		{"0.05", 3, []string{"0.01", "0.01", "0.03"}},
		{"1234.57", 12, nil},
		{"1.00", 40, []string{"0.02", "0.02"}},
		{"0.05", 10, []string{"0", "0"}},
		{"100.00", 120, []string{"0.83", "0.83"}},
		{"99.99", 120, nil},
	}
	for _, tc := range cases {
		amount := decimal.RequireFromString(tc.amount)
		parts := SplitAmount(amount, tc.n)
		require.Len(t, parts, tc.n)

		sum := decimal.Zero
		for _, p := range parts {
			sum = sum.Add(p)
			assert.False(t, p.IsNegative(), "%s/%d", tc.amount, tc.n)
		}
		assert.True(t, sum.Equal(amount), "%s/%d sums to %s", tc.amount, tc.n, sum)
		leftover := parts[tc.n-1].Sub(parts[0])
		assert.True(t, leftover.LessThan(decimal.New(int64(tc.n), -2)), "%s/%d last part %s", tc.amount, tc.n, parts[tc.n-1])

		for i, w := range tc.want {
			assert.True(t, parts[i].Equal(decimal.RequireFromString(w)), "%s/%d part %d = %s", tc.amount, tc.n, i, parts[i])
		}
	}
}

func TestDueDateClamp(t *testing.T) {
	base := date(2024, 1, 31)

	assert.Equal(t, date(2024, 1, 31), DueDate(base, 0, 31))
	assert.Equal(t, date(2024, 2, 28), DueDate(base, 1, 31), "leap February still clamps to 28")
	assert.Equal(t, date(2024, 3, 31), DueDate(base, 2, 31))
	assert.Equal(t, date(2024, 4, 28), DueDate(base, 3, 31), "30-day month clamps to 28, not 30")
	assert.Equal(t, date(2025, 1, 31), DueDate(base, 12, 31))
	assert.Equal(t, date(2024, 2, 29), DueDate(base, 1, 29))
	assert.Equal(t, date(2023, 2, 28), DueDate(date(2023, 1, 5), 1, 29))
}

func TestScheduleHundredInThree(t *testing.T) {
	now := date(2024, 1, 1)
	reminders, err := Schedule(installmentTx("100.00", 3, date(2024, 1, 15)), 0, now, time.UTC)
	require.NoError(t, err)
	require.Len(t, reminders, 3)

	sum := decimal.Zero
	for i, r := range reminders {
		sum = sum.Add(r.InstallmentAmount)
		assert.Equal(t, i+1, r.InstallmentIndex)
		assert.Equal(t, 3, r.InstallmentCount)
		assert.Equal(t, uint(10), r.TransactionID)
		assert.Equal(t, uint(3), r.UserID)
		assert.False(t, r.Paid)
		assert.False(t, r.Notified)
		if i > 0 {
			assert.True(t, r.DueDate.After(reminders[i-1].DueDate))
			assert.Equal(t, reminders[i-1].DueDate.AddDate(0, 1, 0), r.DueDate)
		}
	}
	assert.True(t, sum.Equal(decimal.RequireFromString("100.00")), "sum %s", sum)
	assert.Equal(t, date(2024, 1, 15), reminders[0].DueDate, "default reminder day is the transaction day")
	assert.Equal(t, "Laptop (1/3)", reminders[0].Title)
}

func TestScheduleExplicitReminderDay(t *testing.T) {
	reminders, err := Schedule(installmentTx("90", 3, date(2024, 1, 15)), 5, date(2024, 1, 1), time.UTC)
	require.NoError(t, err)

	assert.Equal(t, date(2024, 1, 5), reminders[0].DueDate)
	assert.Equal(t, date(2024, 2, 5), reminders[1].DueDate)
	assert.Equal(t, date(2024, 3, 5), reminders[2].DueDate)
}

// Known quirk kept pending product clarification: when the first due date is
// already past only the first installment moves forward a month, the others
// stay anchored to the original transaction date.
func TestScheduleFirstInstallmentShiftQuirk(t *testing.T) {
	parent := installmentTx("100.00", 2, date(2024, 1, 31))

	t.Run("first not yet due", func(t *testing.T) {
		reminders, err := Schedule(parent, 31, date(2024, 1, 20), time.UTC)
		require.NoError(t, err)
		assert.Equal(t, date(2024, 1, 31), reminders[0].DueDate)
		assert.Equal(t, date(2024, 2, 28), reminders[1].DueDate)
	})

	t.Run("first already past", func(t *testing.T) {
		reminders, err := Schedule(parent, 31, date(2024, 2, 10), time.UTC)
		require.NoError(t, err)
		assert.Equal(t, date(2024, 2, 28), reminders[0].DueDate, "shifted one month, day clamped")
		assert.Equal(t, date(2024, 2, 28), reminders[1].DueDate, "computed from the unshifted base")
	})

	t.Run("due today is not past", func(t *testing.T) {
		reminders, err := Schedule(parent, 31, date(2024, 1, 31), time.UTC)
		require.NoError(t, err)
		assert.Equal(t, date(2024, 1, 31), reminders[0].DueDate)
	})

	t.Run("later installments never shift", func(t *testing.T) {
		three := installmentTx("30", 3, date(2023, 11, 10))
		reminders, err := Schedule(three, 0, date(2024, 1, 1), time.UTC)
		require.NoError(t, err)
		assert.Equal(t, date(2023, 12, 10), reminders[0].DueDate)
		assert.Equal(t, date(2023, 12, 10), reminders[1].DueDate)
		assert.Equal(t, date(2024, 1, 10), reminders[2].DueDate)
	})
}

func TestScheduleUsesLocationForDates(t *testing.T) {
	saoPaulo := time.FixedZone("BRT", -3*60*60)

	// 01:30 UTC on Feb 1 is still Jan 31 in São Paulo
	occurred := time.Date(2024, 2, 1, 1, 30, 0, 0, time.UTC)
	reminders, err := Schedule(installmentTx("20", 2, occurred), 0, date(2024, 1, 1), saoPaulo)
	require.NoError(t, err)
	assert.Equal(t, date(2024, 1, 31), reminders[0].DueDate)
}

func TestScheduleRejectsBadInput(t *testing.T) {
	now := date(2024, 1, 1)

	single := installmentTx("10", 1, now)
	_, err := Schedule(single, 0, now, time.UTC)
	assert.ErrorIs(t, err, ErrNotInstallment)

	notInstallment := installmentTx("10", 3, now)
	notInstallment.PaymentForm = entities.PaymentSingle
	_, err = Schedule(notInstallment, 0, now, time.UTC)
	assert.ErrorIs(t, err, ErrNotInstallment)

	_, err = Schedule(installmentTx("0", 3, now), 0, now, time.UTC)
	assert.ErrorIs(t, err, ErrAmount)

	for _, day := range []int{-1, 32} {
		_, err = Schedule(installmentTx("10", 3, now), day, now, time.UTC)
		assert.ErrorIs(t, err, ErrReminderDay)
	}
}
