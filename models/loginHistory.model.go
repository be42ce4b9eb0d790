package models

import (
	"time"

	"gorm.io/gorm"
)

// LoginHistory records one successful sign-in.
type LoginHistory struct {
	gorm.Model
	UserID     uint      `gorm:"not null;index" json:"userId"`
	IPAddress  string    `gorm:"type:varchar(64)" json:"ipAddress"`
	Device     string    `gorm:"type:varchar(255)" json:"device"`
	AdminLogin bool      `gorm:"default:false" json:"adminLogin"`
	LoggedInAt time.Time `gorm:"not null" json:"loggedInAt"`
}

func (LoginHistory) TableName() string {
	return "login_history"
}
