package entities

import (
	"time"

	"github.com/shopspring/decimal"
)

// InstallmentReminder is one dated installment of a parent transaction.
type InstallmentReminder struct {
	ID                uint            `json:"id" gorm:"primarykey"`
	TransactionID     uint            `json:"transaction_id" gorm:"index;not null"`
	UserID            uint            `json:"user_id" gorm:"index:idx_reminder_user_due;not null"`
	InstallmentIndex  int             `json:"installment_index" gorm:"not null"`
	InstallmentCount  int             `json:"installment_count" gorm:"not null"`
	InstallmentAmount decimal.Decimal `json:"installment_amount" gorm:"type:numeric(12,2);not null"`
	DueDate           time.Time       `json:"due_date" gorm:"type:date;index:idx_reminder_user_due;not null"`
	Title             string          `json:"title" gorm:"type:varchar(255);not null"`
	Description       string          `json:"description" gorm:"type:text"`
	Paid              bool            `json:"paid" gorm:"not null;default:false"`
	PaidAt            *time.Time      `json:"paid_at,omitempty" gorm:"type:date"`
	Notified          bool            `json:"notified" gorm:"not null;default:false"`
	CreatedAt         time.Time       `json:"created_at"`

	Transaction Transaction `json:"-" gorm:"foreignKey:TransactionID;constraint:OnDelete:CASCADE"`
}
