package model

import "time"

type DuesStatus string

const (
	DuesStatusUnpaid DuesStatus = "unpaid"
	DuesStatusPaid   DuesStatus = "paid"
	DuesStatusWaived DuesStatus = "waived"
)

// DuesLedger is the financial obligation of a member for one billing period
type DuesLedger struct {
	ID              uint       `gorm:"primarykey" json:"id"`
	UserID          uint       `gorm:"not null;uniqueIndex:idx_dues_user_period;index" json:"userId"`
	Period          string     `gorm:"size:16;not null;uniqueIndex:idx_dues_user_period" json:"period"`
	AmountCents     int64      `gorm:"not null" json:"amountCents"`
	DueDate         time.Time  `gorm:"type:date;not null;index" json:"dueDate"`
	Status          DuesStatus `gorm:"size:16;not null;default:'unpaid';index" json:"status"`
	PaidAt          *time.Time `json:"paidAt"`
	PaidAmountCents int64      `json:"paidAmountCents"`
	Reference       string     `gorm:"size:128" json:"reference"`
	Notes           string     `gorm:"size:1024" json:"notes"`
	CreatedAt       time.Time  `json:"createdAt"`
	UpdatedAt       time.Time  `json:"updatedAt"`
}
