package models

import (
	"time"

	"gorm.io/gorm"
)

type PaymentStatus string

const (
	PaymentPending   PaymentStatus = "pending"
	PaymentConfirmed PaymentStatus = "confirmed"
)

func (s PaymentStatus) Valid() bool {
	return s == PaymentPending || s == PaymentConfirmed
}

// Payment is a user's claim of a bank transfer, credited once an admin confirms it.
type Payment struct {
	gorm.Model
	UserID      uint          `gorm:"not null;index" json:"userId"`
	Amount      float64       `gorm:"not null" json:"amount"`
	Reference   string        `gorm:"type:varchar(255);not null" json:"reference"`
	Status      PaymentStatus `gorm:"type:varchar(20);not null;index;default:'pending'" json:"status"`
	ConfirmedAt *time.Time    `json:"confirmedAt,omitempty"`

	User User `gorm:"foreignKey:UserID" json:"-"`
}
