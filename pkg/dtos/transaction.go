package dtos

import (
	"time"

	"github.com/capital/finance/pkg/entities"
	"github.com/shopspring/decimal"
)

// TransactionDTO is the create and update payload. Installment fields are
// only read when payment_form is installment.
type TransactionDTO struct {
	CategoryID       uint                 `json:"category_id" binding:"required"`
	Direction        entities.Direction   `json:"direction" binding:"required,direction"`
	Description      string               `json:"description" binding:"required,max=255"`
	Amount           decimal.Decimal      `json:"amount" binding:"required"`
	OccurredAt       *time.Time           `json:"occurred_at"`
	Notes            string               `json:"notes"`
	PaymentForm      entities.PaymentForm `json:"payment_form" binding:"omitempty,paymentform"`
	InstallmentCount *int                 `json:"installment_count"`
	ReminderDay      *int                 `json:"reminder_day"`
}

type TransactionListDTO struct {
	Transactions []entities.Transaction `json:"transactions"`
	Page         int                    `json:"page"`
	TotalPages   int                    `json:"total_pages"`
	Total        int64                  `json:"total"`
}

type ReminderDTO struct {
	ID                uint            `json:"id"`
	TransactionID     uint            `json:"transaction_id"`
	InstallmentIndex  int             `json:"installment_index"`
	InstallmentCount  int             `json:"installment_count"`
	InstallmentAmount decimal.Decimal `json:"installment_amount"`
	DueDate           string          `json:"due_date"`
	Title             string          `json:"title"`
	Description       string          `json:"description"`
	Paid              bool            `json:"paid"`
	PaidAt            *string         `json:"paid_at"`
	Notified          bool            `json:"notified"`
}

const dateLayout = "2006-01-02"

func NewReminderDTO(r entities.InstallmentReminder) ReminderDTO {
	dto := ReminderDTO{
		ID:                r.ID,
		TransactionID:     r.TransactionID,
		InstallmentIndex:  r.InstallmentIndex,
		InstallmentCount:  r.InstallmentCount,
		InstallmentAmount: r.InstallmentAmount,
		DueDate:           r.DueDate.Format(dateLayout),
		Title:             r.Title,
		Description:       r.Description,
		Paid:              r.Paid,
		Notified:          r.Notified,
	}
	if r.PaidAt != nil {
		paidAt := r.PaidAt.Format(dateLayout)
		dto.PaidAt = &paidAt
	}
	return dto
}

func NewReminderDTOs(reminders []entities.InstallmentReminder) []ReminderDTO {
	out := make([]ReminderDTO, 0, len(reminders))
	for _, r := range reminders {
		out = append(out, NewReminderDTO(r))
	}
	return out
}
