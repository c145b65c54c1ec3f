package entities

import (
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type Goal struct {
	gorm.Model
	UserID        uint            `json:"user_id" gorm:"index;not null"`
	Title         string          `json:"title" gorm:"type:varchar(100);not null"`
	Description   string          `json:"description" gorm:"type:text"`
	TargetAmount  decimal.Decimal `json:"target_amount" gorm:"type:numeric(12,2);not null"`
	CurrentAmount decimal.Decimal `json:"current_amount" gorm:"type:numeric(12,2);not null;default:0"`
	Category      string          `json:"category" gorm:"type:varchar(100)"`
	Deadline      *time.Time      `json:"deadline,omitempty" gorm:"type:date"`
}
