package entities

import (
	"gorm.io/gorm"
)

type User struct {
	gorm.Model
	Email    string `json:"email" gorm:"uniqueIndex;type:varchar(150);not null"`
	Password string `json:"-" gorm:"not null"`
	Name     string `json:"name" gorm:"type:varchar(100);not null"`
	Active   bool   `json:"active" gorm:"not null;default:true"`
}
