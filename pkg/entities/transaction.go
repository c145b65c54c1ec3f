package entities

import (
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type Direction string

const (
	Inflow  Direction = "inflow"
	Outflow Direction = "outflow"
)

func (d Direction) Valid() bool {
	return d == Inflow || d == Outflow
}

type PaymentForm string

const (
	PaymentSingle      PaymentForm = "single"
	PaymentInstallment PaymentForm = "installment"
)

func (p PaymentForm) Valid() bool {
	return p == PaymentSingle || p == PaymentInstallment
}

// Transaction is an income or expense entry owned by one user.
type Transaction struct {
	gorm.Model
	UserID           uint            `json:"user_id" gorm:"index;not null"`
	CategoryID       uint            `json:"category_id" gorm:"index;not null"`
	Direction        Direction       `json:"direction" gorm:"type:varchar(10);not null"`
	Description      string          `json:"description" gorm:"type:varchar(255);not null"`
	Amount           decimal.Decimal `json:"amount" gorm:"type:numeric(12,2);not null"`
	OccurredAt       time.Time       `json:"occurred_at" gorm:"index;not null"`
	Notes            string          `json:"notes" gorm:"type:text"`
	PaymentForm      PaymentForm     `json:"payment_form" gorm:"type:varchar(20);not null;default:single"`
	InstallmentCount *int            `json:"installment_count,omitempty"`
	// ReminderDay is the day of month installment reminders fall on.
	ReminderDay *int `json:"reminder_day,omitempty"`

	User     User     `json:"-" gorm:"foreignKey:UserID"`
	Category Category `json:"category" gorm:"foreignKey:CategoryID"`
}

// IsInstallment reports whether the transaction carries a reminder batch.
func (t Transaction) IsInstallment() bool {
	return t.PaymentForm == PaymentInstallment && t.InstallmentCount != nil && *t.InstallmentCount > 1
}
