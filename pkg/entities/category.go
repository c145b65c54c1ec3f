package entities

import "gorm.io/gorm"

type Category struct {
	gorm.Model
	Name      string    `json:"name" gorm:"type:varchar(100);not null"`
	Direction Direction `json:"direction" gorm:"type:varchar(10);not null"`
}
