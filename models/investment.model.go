package models

import (
	"time"

	"gorm.io/gorm"
)

type InvestmentStatus string

const (
	InvestmentPending   InvestmentStatus = "pending"
	InvestmentConfirmed InvestmentStatus = "confirmed"
	InvestmentCompleted InvestmentStatus = "completed"
	InvestmentRejected  InvestmentStatus = "rejected"
)

func (s InvestmentStatus) Valid() bool {
	switch s {
	case InvestmentPending, InvestmentConfirmed, InvestmentCompleted, InvestmentRejected:
		return true
	}
	return false
}

// Investment is one commitment of funds to a plan. Amount and DailyROI are
// fixed at creation; RoiDaysCompleted only ever grows.
type Investment struct {
	gorm.Model
	UserID           uint             `gorm:"not null;index" json:"userId"`
	PlanID           string           `gorm:"type:varchar(50);not null" json:"planId"`
	PlanName         string           `gorm:"type:varchar(100)" json:"planName"`
	Amount           float64          `gorm:"not null" json:"amount"`
	DailyROI         float64          `gorm:"not null" json:"dailyROI"` // percent per accrual step
	Status           InvestmentStatus `gorm:"type:varchar(20);not null;index;default:'pending'" json:"status"`
	RoiDaysCompleted int              `gorm:"not null;default:0" json:"roiDaysCompleted"`
	LastAccrualAt    *time.Time       `json:"lastAccrualAt,omitempty"`
	ConfirmedAt      *time.Time       `json:"confirmedAt,omitempty"`
	CompletedAt      *time.Time       `json:"completedAt,omitempty"`
	RejectedAt       *time.Time       `json:"rejectedAt,omitempty"`

	User User `gorm:"foreignKey:UserID" json:"-"`
}

// DailyReturn is the amount credited per accrual step.
func (i Investment) DailyReturn() float64 {
	return i.Amount * i.DailyROI / 100
}

// Plan is an entry of the investment catalogue.
type Plan struct {
	ID     string  `json:"id"`
	Name   string  `json:"name"`
	Amount float64 `json:"amount"`
}

var Plans = []Plan{
	{ID: "starter", Name: "Starter Growth", Amount: 2000},
	{ID: "silver", Name: "Silver Growth", Amount: 5000},
	{ID: "gold", Name: "Gold Growth", Amount: 10000},
	{ID: "platinum", Name: "Platinum Growth", Amount: 15000},
}

// PlanName resolves a plan id to its display name, falling back to the id.
func PlanName(planID string) string {
	for _, p := range Plans {
		if p.ID == planID {
			return p.Name
		}
	}
	return planID
}
