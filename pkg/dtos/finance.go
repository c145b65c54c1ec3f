package dtos

import (
	"time"

	"github.com/capital/finance/pkg/entities"
	"github.com/shopspring/decimal"
)

type CategoryDTO struct {
	Name      string             `json:"name" binding:"required,max=100"`
	Direction entities.Direction `json:"direction" binding:"required,direction"`
}

// GoalDTO is the create and update payload. An omitted current_amount
// keeps the saved amount on update.
type GoalDTO struct {
	Title         string           `json:"title" binding:"required,max=100"`
	Description   string           `json:"description"`
	TargetAmount  decimal.Decimal  `json:"target_amount" binding:"required"`
	CurrentAmount *decimal.Decimal `json:"current_amount"`
	Category      string           `json:"category" binding:"max=100"`
	Deadline      *time.Time       `json:"deadline"`
}

type ContributionDTO struct {
	Amount decimal.Decimal `json:"amount" binding:"required"`
}

// MonthTotals is one month of the yearly overview.
type MonthTotals struct {
	Month   int             `json:"month"`
	Inflow  decimal.Decimal `json:"inflow"`
	Outflow decimal.Decimal `json:"outflow"`
	Balance decimal.Decimal `json:"balance"`
}

type Overview struct {
	Year         int             `json:"year"`
	Months       []MonthTotals   `json:"months"`
	TotalInflow  decimal.Decimal `json:"total_inflow"`
	TotalOutflow decimal.Decimal `json:"total_outflow"`
	Balance      decimal.Decimal `json:"balance"`
}

type CategoryTotal struct {
	CategoryID uint               `json:"category_id"`
	Name       string             `json:"name"`
	Direction  entities.Direction `json:"direction"`
	Total      decimal.Decimal    `json:"total"`
}

type MonthSummary struct {
	Year       int             `json:"year"`
	Month      int             `json:"month"`
	Inflow     decimal.Decimal `json:"inflow"`
	Outflow    decimal.Decimal `json:"outflow"`
	Balance    decimal.Decimal `json:"balance"`
	Categories []CategoryTotal `json:"categories"`
}
